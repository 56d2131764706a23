package profile

import (
	"net/url"
	"strings"
)

const avatarBaseURL = "https://ui-avatars.com/api/"

// ContactFallback is the wa.me link used when the model found no number for a profile.
type ContactFallback struct {
	Number   string // digits with country code, e.g. 5511999999999
	Greeting string
}

// URL builds the fallback wa.me link. Empty when no number is configured.
func (f ContactFallback) URL() string {
	number := strings.TrimSpace(f.Number)
	if number == "" {
		return ""
	}
	link := "https://wa.me/" + number
	if f.Greeting != "" {
		link += "?text=" + url.QueryEscape(f.Greeting)
	}
	return link
}

// Card holds the outbound links shown for a profile.
type Card struct {
	ProfileURL string
	AvatarURL  string
	ContactURL string
	HasContact bool // true when the contact link came from the profile itself
}

// CardFor computes the card links for p.
func CardFor(p *Profile, fallback ContactFallback) Card {
	c := Card{
		ProfileURL: p.ProfileURL(),
		AvatarURL:  p.PictureURL(),
		ContactURL: p.ContactURL(),
		HasContact: p.ContactURL() != "",
	}
	if c.AvatarURL == "" {
		c.AvatarURL = AvatarURL(p.Name())
	}
	if !c.HasContact {
		c.ContactURL = fallback.URL()
	}
	return c
}

// AvatarURL returns a generated initials avatar for a display name.
func AvatarURL(name string) string {
	q := url.Values{}
	q.Set("name", name)
	q.Set("background", "1e293b")
	q.Set("color", "cbd5e1")
	q.Set("size", "150")
	return avatarBaseURL + "?" + q.Encode()
}
