package leadscout

import (
	"time"

	"github.com/kailas-cloud/leadscout/internal/domain/profile"
	"github.com/kailas-cloud/leadscout/internal/domain/search/result"
)

// Filters are optional prompt hints. The model is asked to honor them;
// results are not filtered afterwards.
type Filters struct {
	MinFollowers string `json:"min_followers,omitempty"`
	MaxFollowers string `json:"max_followers,omitempty"`
	BioKeyword   string `json:"bio_keyword,omitempty"`
}

// Profile is one lead with its ready-to-use card links.
type Profile struct {
	Name         string `json:"name"`
	Username     string `json:"username"`
	Bio          string `json:"bio"`
	Followers    string `json:"followers,omitempty"`
	ProfilePic   string `json:"profile_pic,omitempty"`
	InstagramURL string `json:"instagram_url"`
	Whatsapp     string `json:"whatsapp,omitempty"`
	AvatarURL    string `json:"avatar_url"`            // ProfilePic or a generated initials avatar
	ContactURL   string `json:"contact_url,omitempty"` // Whatsapp or the configured fallback
	HasContact   bool   `json:"has_contact"`           // true when ContactURL came from the profile itself
}

// Stats summarizes a search.
type Stats struct {
	Variations    int           `json:"variations"`
	FailedBatches int           `json:"failed_batches"`
	RawProfiles   int           `json:"raw_profiles"`
	Unique        int           `json:"unique_profiles"`
	Duration      time.Duration `json:"duration_ns"`
}

// Result is the outcome of one search.
type Result struct {
	ID       string    `json:"id"`
	Keyword  string    `json:"keyword"`
	Filters  Filters   `json:"filters"`
	Profiles []Profile `json:"profiles"`
	Stats    Stats     `json:"stats"`
	Tokens   int       `json:"tokens,omitempty"` // total model tokens when the provider reports them
}

// HealthStatus represents the generator health.
type HealthStatus struct {
	Status string            // "ok", "degraded"
	Checks map[string]string // component → "ok"/"error"
}

func resultFromDomain(r *result.Result, fallback profile.ContactFallback, tokens int) Result {
	f := r.Filters()
	profiles := r.Profiles()
	out := Result{
		ID:      r.ID(),
		Keyword: r.Keyword(),
		Filters: Filters{
			MinFollowers: f.MinFollowers(),
			MaxFollowers: f.MaxFollowers(),
			BioKeyword:   f.BioKeyword(),
		},
		Profiles: make([]Profile, len(profiles)),
		Stats:    Stats(r.Stats()),
		Tokens:   tokens,
	}
	for i := range profiles {
		out.Profiles[i] = profileFromDomain(&profiles[i], fallback)
	}
	return out
}

func profileFromDomain(p *profile.Profile, fallback profile.ContactFallback) Profile {
	card := profile.CardFor(p, fallback)
	return Profile{
		Name:         p.Name(),
		Username:     p.Username(),
		Bio:          p.Bio(),
		Followers:    p.Followers(),
		ProfilePic:   p.PictureURL(),
		InstagramURL: p.ProfileURL(),
		Whatsapp:     p.ContactURL(),
		AvatarURL:    card.AvatarURL,
		ContactURL:   card.ContactURL,
		HasContact:   card.HasContact,
	}
}
