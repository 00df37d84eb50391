package ranking

import "topic-scout/internal/domain"

// Dedupe collapses candidates to a unique-by-id sequence. First occurrence
// wins: later duplicates are discarded even when they carry different field
// values, so stale copies never overwrite the kept record. Output preserves
// first-seen order, which is deterministic because fetch stages concatenate
// task results in submission order.
func Dedupe(candidates []domain.Candidate) []domain.Candidate {
	seen := make(map[string]struct{}, len(candidates))
	unique := make([]domain.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := seen[c.VideoID]; ok {
			continue
		}
		seen[c.VideoID] = struct{}{}
		unique = append(unique, c)
	}
	return unique
}
