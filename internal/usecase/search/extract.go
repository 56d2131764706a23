package search

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/titanous/json5"

	"github.com/kailas-cloud/leadscout/internal/domain/profile"
)

var fenceReplacer = strings.NewReplacer("```json", "", "```JSON", "", "```", "")

// isolateArray strips markdown fences and keeps the text between the first
// '[' and the last ']' so a preamble or trailing chatter is ignored.
func isolateArray(text string) string {
	s := fenceReplacer.Replace(strings.TrimSpace(text))
	first := strings.IndexByte(s, '[')
	last := strings.LastIndexByte(s, ']')
	if first != -1 && last > first {
		s = s[first : last+1]
	}
	return strings.TrimSpace(s)
}

// extractProfiles parses a model reply into profiles.
// A reply that is valid JSON but not an array yields no profiles and no error.
// skipped counts elements dropped for missing name, username or URL.
func extractProfiles(text string) (profiles []profile.Profile, skipped int, err error) {
	raw := isolateArray(text)
	if raw == "" {
		return nil, 0, nil
	}

	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		// Models often emit trailing commas, single quotes, bare keys or comments.
		if err5 := json5.Unmarshal([]byte(raw), &parsed); err5 != nil {
			return nil, 0, fmt.Errorf("parse model output: %w", err)
		}
	}

	items, ok := parsed.([]any)
	if !ok {
		return nil, 0, nil
	}

	profiles = make([]profile.Profile, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			skipped++
			continue
		}
		p, err := profile.New(
			stringField(obj, "name"),
			stringField(obj, "username"),
			stringField(obj, "bio"),
			stringField(obj, "followers"),
			stringField(obj, "profile_pic"),
			stringField(obj, "instagram_url"),
			stringField(obj, "whatsapp"),
		)
		if err != nil {
			skipped++
			continue
		}
		profiles = append(profiles, p)
	}
	return profiles, skipped, nil
}

// stringField reads a loosely typed field. Numbers are kept as text, "null" is empty.
func stringField(obj map[string]any, key string) string {
	switch v := obj[key].(type) {
	case string:
		if strings.EqualFold(strings.TrimSpace(v), "null") {
			return ""
		}
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}
