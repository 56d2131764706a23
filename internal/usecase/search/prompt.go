package search

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/leadscout/internal/domain"
	"github.com/kailas-cloud/leadscout/internal/domain/search/filter"
)

// buildPrompt renders the batch prompt for one query variation.
// Filters only add instructions; they are never enforced on the output.
func buildPrompt(searchQuery string, f filter.Filters, cfg domain.PromptConfig) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Perform a Google Search to find %d REAL, ACTIVE, and PUBLIC Instagram profiles related to: \"%s\".\n\n",
		cfg.BatchSize, searchQuery)
	fmt.Fprintf(&b, "GEOLOCATION: %s ONLY. (Look for %s bios, +%s numbers, local cities).\n",
		cfg.Region, cfg.Language, cfg.PhonePrefix)
	b.WriteString("NICHE: Return PROFESSIONAL profiles (service providers, businesses), NOT random people.\n")

	if f.HasFollowerRange() {
		fmt.Fprintf(&b, "\nFOLLOWER REQUIREMENT: User wants follower count between %s and %s.\n",
			orDefault(f.MinFollowers(), "0"), orDefault(f.MaxFollowers(), "any"))
		b.WriteString("Prioritize results indicating followers within this range.\n")
	}
	if f.BioKeyword() != "" {
		b.WriteString("\nBIO KEYWORD FILTER:\n")
		fmt.Fprintf(&b, "- The user specifically wants profiles containing: \"%s\".\n", f.BioKeyword())
		b.WriteString("- Prioritize these profiles heavily.\n")
	}

	b.WriteString("\nExtract details into a JSON object:\n")
	b.WriteString("- name: Display name.\n")
	b.WriteString("- username: Handle without @.\n")
	fmt.Fprintf(&b, "- bio: Short summary in %s.\n", cfg.Language)
	b.WriteString("- followers: Extract exact number (e.g. \"10k\") or ESTIMATE based on context (e.g. \"5k\" for local pro).\n")
	b.WriteString("- profile_pic: URL if found, else null.\n")
	b.WriteString("- instagram_url: Full URL.\n")
	fmt.Fprintf(&b, "- whatsapp: Search snippet/bio for +%s numbers. Format as \"https://wa.me/%s[AREA][NUMBER]\". If none, return null.\n",
		cfg.PhonePrefix, cfg.PhonePrefix)

	b.WriteString("\nOUTPUT FORMAT:\n")
	b.WriteString("Return ONLY a raw JSON array. No markdown code blocks. No explanations.\n")
	b.WriteString(`Example: [{"name": "...", ...}]`)

	return b.String()
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
