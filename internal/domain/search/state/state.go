package state

import "github.com/kailas-cloud/leadscout/internal/domain"

// State is the transient status of the current search as shown to the user.
// A new search replaces it entirely.
type State struct {
	Loading     bool
	Err         string // user-facing message, empty when no error
	HasSearched bool
}

// Start marks a search as in flight.
func Start() State {
	return State{Loading: true, HasSearched: true}
}

// Succeed marks the search as finished with results.
func Succeed() State {
	return State{HasSearched: true}
}

// Fail marks the search as finished with an error mapped to its user message.
func Fail(err error) State {
	return State{Err: domain.UserMessage(err), HasSearched: true}
}

// Idle reports whether no search was run yet.
func (s State) Idle() bool { return !s.HasSearched }

// Failed reports whether the last search ended with an error.
func (s State) Failed() bool { return s.Err != "" }
