package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/leadscout/internal/domain"
	leadscout "github.com/kailas-cloud/leadscout/pkg/sdk"
)

type fakeSearcher struct {
	keyword string
	filters leadscout.Filters
	calls   int
	result  leadscout.Result
	err     error
}

func (f *fakeSearcher) Search(_ context.Context, keyword string, filters leadscout.Filters) (leadscout.Result, error) {
	f.calls++
	f.keyword = keyword
	f.filters = filters
	return f.result, f.err
}

// runSearch executes the search command hidden inside the batch returned by Update.
func runSearch(t *testing.T, cmd tea.Cmd) searchDoneMsg {
	t.Helper()
	require.NotNil(t, cmd)
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok, "expected a batch command")
	for _, c := range batch {
		if c == nil {
			continue
		}
		// The spinner tick is also in the batch; skip it.
		if done, ok := runUntilDone(c); ok {
			return done
		}
	}
	t.Fatal("no search command in batch")
	return searchDoneMsg{}
}

func runUntilDone(c tea.Cmd) (searchDoneMsg, bool) {
	msg := c()
	done, ok := msg.(searchDoneMsg)
	return done, ok
}

func typeText(m Model, s string) Model {
	for _, r := range s {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(Model)
	}
	return m
}

func press(m Model, k tea.KeyType) (Model, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: k})
	return next.(Model), cmd
}

func sampleResult() leadscout.Result {
	return leadscout.Result{
		Keyword: "Tatuador",
		Profiles: []leadscout.Profile{{
			Name:         "João",
			Username:     "joao_tattoo",
			Bio:          "Tattoo artist",
			Followers:    "12k",
			InstagramURL: "https://instagram.com/joao_tattoo",
			ContactURL:   "https://wa.me/5511999999999",
		}},
	}
}

func TestSearchFlow(t *testing.T) {
	s := &fakeSearcher{result: sampleResult()}
	m := New(context.Background(), s, nil)

	m = typeText(m, "Tatuador")
	m, _ = press(m, tea.KeyTab)
	m = typeText(m, "1000")
	m, _ = press(m, tea.KeyTab)
	m = typeText(m, "50000")
	m, _ = press(m, tea.KeyTab)
	m = typeText(m, "orçamento")

	m, cmd := press(m, tea.KeyEnter)
	assert.True(t, m.state.Loading)
	assert.Contains(t, m.View(), "Buscando perfis")

	done := runSearch(t, cmd)
	assert.Equal(t, "Tatuador", s.keyword)
	assert.Equal(t, leadscout.Filters{MinFollowers: "1000", MaxFollowers: "50000", BioKeyword: "orçamento"}, s.filters)

	next, _ := m.Update(done)
	m = next.(Model)
	assert.False(t, m.state.Loading)

	view := m.View()
	assert.Contains(t, view, `1 resultados para "Tatuador"`)
	assert.Contains(t, view, "@joao_tattoo")
	assert.Contains(t, view, "12k seguidores")
	assert.Contains(t, view, "https://wa.me/5511999999999")
}

func TestEmptyKeyword(t *testing.T) {
	s := &fakeSearcher{}
	m := New(context.Background(), s, nil)

	m, cmd := press(m, tea.KeyEnter)
	assert.Nil(t, cmd)
	assert.Zero(t, s.calls)
	assert.Contains(t, m.View(), domain.MessageInvalidQuery)
}

func TestSearchError(t *testing.T) {
	s := &fakeSearcher{err: fmt.Errorf("search: %w", domain.ErrRateLimited)}
	m := New(context.Background(), s, nil)
	m = typeText(m, "Dentista")

	m, cmd := press(m, tea.KeyEnter)
	next, _ := m.Update(runSearch(t, cmd))
	m = next.(Model)

	assert.True(t, m.state.Failed())
	assert.Contains(t, m.View(), domain.MessageRateLimited)
}

func TestNoResults(t *testing.T) {
	s := &fakeSearcher{result: leadscout.Result{Keyword: "x"}}
	m := New(context.Background(), s, nil)
	m = typeText(m, "x")

	m, cmd := press(m, tea.KeyEnter)
	next, _ := m.Update(runSearch(t, cmd))
	m = next.(Model)

	assert.Contains(t, m.View(), domain.MessageNoResults)
}

func TestSuggestionShortcut(t *testing.T) {
	s := &fakeSearcher{result: sampleResult()}
	m := New(context.Background(), s, []string{"Tatuador", "Dentista"})
	assert.Contains(t, m.View(), "[Alt+2] Dentista")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}, Alt: true})
	m = next.(Model)
	assert.True(t, m.state.Loading)
	assert.Equal(t, "Dentista", m.inputs[fieldKeyword].Value())

	runSearch(t, cmd)
	assert.Equal(t, "Dentista", s.keyword)
}

func TestDigitTypedWhenKeywordNotEmpty(t *testing.T) {
	s := &fakeSearcher{}
	m := New(context.Background(), s, []string{"Tatuador"})
	m = typeText(m, "Loja 1")

	assert.False(t, m.state.Loading)
	assert.Equal(t, "Loja 1", m.inputs[fieldKeyword].Value())
	assert.Zero(t, s.calls)
}

func TestLeadingDigitTypedIntoEmptyKeyword(t *testing.T) {
	s := &fakeSearcher{}
	m := New(context.Background(), s, []string{"Tatuador", "Dentista", "Barbeiro"})
	m = typeText(m, "3D designer")

	assert.False(t, m.state.Loading)
	assert.Equal(t, "3D designer", m.inputs[fieldKeyword].Value())
	assert.Zero(t, s.calls)
}

func TestAltDigitOutOfRangeIgnored(t *testing.T) {
	s := &fakeSearcher{}
	m := New(context.Background(), s, []string{"Tatuador"})

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'5'}, Alt: true})
	m = next.(Model)
	assert.False(t, m.state.Loading)
	assert.Zero(t, s.calls)
}

func TestStaleResultIgnored(t *testing.T) {
	m := New(context.Background(), &fakeSearcher{}, nil)
	m.seq = 2
	m.state.Loading = true

	next, _ := m.Update(searchDoneMsg{seq: 1, err: errors.New("old")})
	m = next.(Model)
	assert.True(t, m.state.Loading)
}

func TestEnterWhileLoading(t *testing.T) {
	s := &fakeSearcher{}
	m := New(context.Background(), s, nil)
	m = typeText(m, "Tatuador")
	m, _ = press(m, tea.KeyEnter)

	_, cmd := press(m, tea.KeyEnter)
	assert.Nil(t, cmd)
}

func TestFocusCycles(t *testing.T) {
	m := New(context.Background(), &fakeSearcher{}, nil)
	m, _ = press(m, tea.KeyShiftTab)
	assert.Equal(t, fieldBio, m.focus)
	m, _ = press(m, tea.KeyTab)
	assert.Equal(t, fieldKeyword, m.focus)
}

func TestQuit(t *testing.T) {
	m := New(context.Background(), &fakeSearcher{}, nil)
	_, cmd := press(m, tea.KeyEsc)
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
	assert.False(t, strings.Contains(m.View(), "resultados"))
}
