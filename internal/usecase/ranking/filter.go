package ranking

import "topic-scout/internal/domain"

// DurationBound selects which side of the minute threshold survives
// filtering.
type DurationBound int

const (
	// MinAbove keeps items strictly longer than the threshold ("long-form
	// only" at 10 minutes, channel listings at 3).
	MinAbove DurationBound = iota
	// MaxBelow keeps items strictly shorter than the threshold.
	MaxBelow
)

// FilterByDuration annotates each candidate with its duration in minutes
// and keeps only those satisfying the bound. Candidates whose duration
// cannot be parsed read as 0 minutes.
func FilterByDuration(candidates []domain.Candidate, bound DurationBound, minutes float64) []domain.Candidate {
	kept := make([]domain.Candidate, 0, len(candidates))
	for _, c := range candidates {
		c.DurationMinutes = domain.ParseDurationMinutes(c.Duration)
		switch bound {
		case MinAbove:
			if c.DurationMinutes > minutes {
				kept = append(kept, c)
			}
		case MaxBelow:
			if c.DurationMinutes < minutes {
				kept = append(kept, c)
			}
		}
	}
	return kept
}

// SplitShorts partitions candidates into long-form videos and shorts
// (strictly under 3 minutes), for callers requesting type filtering.
func SplitShorts(candidates []domain.Candidate) (videos, shorts []domain.Candidate) {
	for _, c := range candidates {
		c.DurationMinutes = domain.ParseDurationMinutes(c.Duration)
		if domain.IsShort(c.Duration) {
			shorts = append(shorts, c)
		} else {
			videos = append(videos, c)
		}
	}
	return videos, shorts
}
