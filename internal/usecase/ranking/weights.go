package ranking

import "strings"

// WeightProfile holds the tuned scoring constants. These are configuration,
// not hardcoded values: the open-search and curated-niche call sites run
// different profiles, and both can be overridden from config.
type WeightProfile struct {
	// TitlePhrase is added once per primary keyword found verbatim in the
	// title. The strongest signal: the creator explicitly targeted the
	// concept.
	TitlePhrase float64
	// DescriptionPhrase is added per keyword found in the description but
	// not already counted in the title. Descriptions are noisier.
	DescriptionPhrase float64
	// TitleWord is added per keyword word (stop words removed) appearing in
	// the title.
	TitleWord float64
	// EssenceWord is added per essence word (stop words removed) appearing
	// in the title.
	EssenceWord float64
	// MinScore is the hard cutoff: candidates scoring below it are dropped
	// entirely, not merely ranked low.
	MinScore float64
}

// DefaultWeights is the profile used for open topic search.
func DefaultWeights() WeightProfile {
	return WeightProfile{
		TitlePhrase:       100,
		DescriptionPhrase: 20,
		TitleWord:         10,
		EssenceWord:       15,
		MinScore:          10,
	}
}

// NicheWeights is the simplified two-signal profile used when ranking the
// curated channel pool: exact phrase +10, 2 per overlapping word, keep
// anything with a positive score.
func NicheWeights() WeightProfile {
	return WeightProfile{
		TitlePhrase: 10,
		TitleWord:   2,
		MinScore:    1,
	}
}

var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "in": {}, "on": {}, "at": {}, "to": {},
	"for": {}, "of": {}, "with": {}, "and": {}, "or": {}, "but": {},
	"is": {}, "are": {}, "was": {}, "were": {},
	"how": {}, "what": {}, "why": {}, "when": {},
}

// meaningfulWords tokenizes text by whitespace, lowercases, and removes
// stop words.
func meaningfulWords(text string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(text)) {
		if _, stop := stopWords[w]; stop {
			continue
		}
		words[w] = struct{}{}
	}
	return words
}
