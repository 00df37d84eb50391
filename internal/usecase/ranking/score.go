package ranking

import (
	"strings"

	"topic-scout/internal/domain"
)

// Score computes the additive relevance score of one candidate against a
// keyword profile. Signals are independent and evaluated case-insensitively
// against the title (and description where available).
func Score(c domain.Candidate, profile domain.KeywordProfile, w WeightProfile) float64 {
	title := strings.ToLower(c.Title)
	description := strings.ToLower(c.Description)

	var score float64

	for _, keyword := range profile.PrimaryKeywords {
		kw := strings.ToLower(keyword)
		if kw == "" {
			continue
		}
		if strings.Contains(title, kw) {
			score += w.TitlePhrase
		} else if description != "" && strings.Contains(description, kw) {
			score += w.DescriptionPhrase
		}
	}

	titleWords := meaningfulWords(c.Title)

	keywordWords := meaningfulWords(strings.Join(profile.PrimaryKeywords, " "))
	for word := range keywordWords {
		if _, ok := titleWords[word]; ok {
			score += w.TitleWord
		}
	}

	essenceWords := meaningfulWords(profile.Essence)
	for word := range essenceWords {
		if _, ok := titleWords[word]; ok {
			score += w.EssenceWord
		}
	}

	return score
}

// ScoreAndFilter scores every candidate and drops those under the profile's
// minimum. The cutoff is hard: a sub-threshold candidate is treated as
// irrelevant noise, not ranked low.
func ScoreAndFilter(candidates []domain.Candidate, profile domain.KeywordProfile, w WeightProfile) []domain.ScoredCandidate {
	scored := make([]domain.ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		s := Score(c, profile, w)
		if s < w.MinScore {
			continue
		}
		scored = append(scored, domain.ScoredCandidate{Candidate: c, RelevanceScore: s})
	}
	return scored
}
