package mode

// Mode selects the set of query variations sent per search.
type Mode string

// Variation set constants.
const (
	// Compact sends three variations and stays under free-tier rate limits.
	Compact  Mode = "compact"
	Extended Mode = "extended"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Compact || m == Extended
}
