package ranking

import (
	"sort"

	"topic-scout/internal/domain"
)

// TieBreak selects the secondary sort applied after relevance score. The
// two historical call sites disagree, so the choice is an explicit
// parameter rather than a silent default.
type TieBreak int

const (
	// TieBreakNone sorts by relevance only, regardless of popularity. Used
	// by open topic search.
	TieBreakNone TieBreak = iota
	// TieBreakViews breaks score ties by view count descending. Used by the
	// curated-niche variant.
	TieBreakViews
)

// Rank sorts scored candidates by relevance descending, applies the
// tie-break, truncates to topN, and strips the transient score before the
// result crosses the pipeline boundary. Fewer than topN survivors are
// returned as-is.
func Rank(scored []domain.ScoredCandidate, topN int, tb TieBreak) []domain.Candidate {
	ordered := make([]domain.ScoredCandidate, len(scored))
	copy(ordered, scored)

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].RelevanceScore != ordered[j].RelevanceScore {
			return ordered[i].RelevanceScore > ordered[j].RelevanceScore
		}
		if tb == TieBreakViews {
			return ordered[i].ViewCount > ordered[j].ViewCount
		}
		return false
	})

	if topN >= 0 && len(ordered) > topN {
		ordered = ordered[:topN]
	}

	videos := make([]domain.Candidate, 0, len(ordered))
	for _, s := range ordered {
		videos = append(videos, s.Candidate)
	}
	return videos
}
