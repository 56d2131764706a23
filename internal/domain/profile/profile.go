package profile

import (
	"fmt"
	"strings"
)

// Profile is a lead: one public profile reported by the model (immutable value object).
type Profile struct {
	name       string
	username   string
	bio        string
	followers  string
	pictureURL string
	profileURL string
	contactURL string
}

// New validates and creates a Profile.
// Name, username and profile URL are required; everything else is optional.
func New(name, username, bio, followers, pictureURL, profileURL, contactURL string) (Profile, error) {
	name = strings.TrimSpace(name)
	username = strings.TrimSpace(username)
	profileURL = strings.TrimSpace(profileURL)

	if name == "" {
		return Profile{}, fmt.Errorf("profile name is required")
	}
	if username == "" {
		return Profile{}, fmt.Errorf("profile username is required")
	}
	if profileURL == "" {
		return Profile{}, fmt.Errorf("profile URL is required")
	}

	return Profile{
		name:       name,
		username:   username,
		bio:        strings.TrimSpace(bio),
		followers:  strings.TrimSpace(followers),
		pictureURL: strings.TrimSpace(pictureURL),
		profileURL: profileURL,
		contactURL: strings.TrimSpace(contactURL),
	}, nil
}

// Name returns the display name.
func (p *Profile) Name() string { return p.name }

// Username returns the handle as stored (normalized once deduplicated).
func (p *Profile) Username() string { return p.username }

// Bio returns the short biography summary.
func (p *Profile) Bio() string { return p.bio }

// Followers returns the follower count as reported or estimated by the model ("10k").
func (p *Profile) Followers() string { return p.followers }

// PictureURL returns the profile picture URL, empty if unknown.
func (p *Profile) PictureURL() string { return p.pictureURL }

// ProfileURL returns the public profile URL.
func (p *Profile) ProfileURL() string { return p.profileURL }

// ContactURL returns the contact link (wa.me), empty if unknown.
func (p *Profile) ContactURL() string { return p.contactURL }

// WithUsername returns a copy of the profile keyed by another handle.
func (p Profile) WithUsername(username string) Profile {
	p.username = username
	return p
}
