package query

import (
	"fmt"

	"github.com/kailas-cloud/leadscout/internal/domain/search/mode"
)

// Kind names the intent behind a query variation.
type Kind string

// Variation kinds.
const (
	Niche      Kind = "niche"
	Commercial Kind = "commercial"
	Authority  Kind = "authority"
	Contact    Kind = "contact"
	Local      Kind = "local"
)

// Variation is one search query sent to the model as a separate batch.
type Variation struct {
	Kind Kind
	Text string
}

// Build returns the query variations for a keyword in the given mode.
// A non-empty bio keyword is appended as a quoted suffix to every variation.
func Build(keyword, bioKeyword, country string, m mode.Mode) []Variation {
	bio := ""
	if bioKeyword != "" {
		bio = fmt.Sprintf(` "%s"`, bioKeyword)
	}

	variations := []Variation{
		{Niche, fmt.Sprintf(`site:instagram.com "%s"%s %s`, keyword, bio, country)},
		{Commercial, fmt.Sprintf(`"%s" instagram %s orçamentos contato%s`, keyword, country, bio)},
		{Authority, fmt.Sprintf(`"%s" especialista profissional instagram %s%s`, keyword, country, bio)},
	}
	if m == mode.Extended {
		variations = append(variations,
			Variation{Contact, fmt.Sprintf(`site:instagram.com "%s" whatsapp %s%s`, keyword, country, bio)},
			Variation{Local, fmt.Sprintf(`"%s" agendamento atendimento instagram %s%s`, keyword, country, bio)},
		)
	}
	return variations
}
