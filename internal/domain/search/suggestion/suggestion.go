package suggestion

// Samples are the suggested keywords offered next to the search input.
var samples = []string{
	"Tatuador em São Paulo",
	"Advogado trabalhista",
	"Personal trainer",
	"Nutricionista esportiva",
	"Fotógrafo de casamento",
	"Designer de sobrancelhas",
	"Dentista em Curitiba",
	"Confeitaria artesanal",
}

// DefaultShown is how many suggestions surfaces display.
const DefaultShown = 3

// List returns up to n suggestions (all when n <= 0).
func List(n int) []string {
	if n <= 0 || n > len(samples) {
		n = len(samples)
	}
	out := make([]string, n)
	copy(out, samples[:n])
	return out
}
