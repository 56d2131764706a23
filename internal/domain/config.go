package domain

// PromptConfig holds the prompt settings that are not exposed to clients.
type PromptConfig struct {
	Model         string
	Temperature   float32
	SearchEnabled bool
	BatchSize     int    // profiles requested per batch
	Country       string // used in query variations, e.g. "brasil"
	Region        string // used in the prompt geolocation line, e.g. "BRAZIL"
	Language      string
	PhonePrefix   string // digits only, e.g. "55"
}

// DefaultPromptConfig returns the defaults tuned for Brazilian professional profiles.
func DefaultPromptConfig() PromptConfig {
	return PromptConfig{
		Model:         "gemini-2.5-flash",
		Temperature:   0.1,
		SearchEnabled: true,
		BatchSize:     12,
		Country:       "brasil",
		Region:        "BRAZIL",
		Language:      "Portuguese",
		PhonePrefix:   "55",
	}
}
