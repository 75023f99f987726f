package services

import "strings"

// similarityThreshold is the score a name pair must exceed to be treated
// as the same person.
const similarityThreshold = 0.7

// NameSimilarity scores the word overlap of two names as
// |A ∩ B| / max(|A|, |B|) over their whitespace-separated word sets.
// Underscores count as whitespace. Either set being empty scores zero.
func NameSimilarity(a, b string) float64 {
	wa := wordSet(a)
	wb := wordSet(b)
	if len(wa) == 0 || len(wb) == 0 {
		return 0
	}

	common := 0
	for w := range wa {
		if _, ok := wb[w]; ok {
			common++
		}
	}
	return float64(common) / float64(max(len(wa), len(wb)))
}

// similarNames reports whether two names exceed the similarity threshold.
func similarNames(a, b string) bool {
	return NameSimilarity(a, b) > similarityThreshold
}

func wordSet(name string) map[string]struct{} {
	words := strings.Fields(strings.ReplaceAll(name, "_", " "))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToUpper(w)] = struct{}{}
	}
	return set
}
