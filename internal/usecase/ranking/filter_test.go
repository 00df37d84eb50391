package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"topic-scout/internal/domain"
)

func TestFilterByDuration_MinAboveIsStrict(t *testing.T) {
	candidates := []domain.Candidate{
		{VideoID: "exact", Duration: "PT10M"},
		{VideoID: "over", Duration: "PT10M1S"},
		{VideoID: "under", Duration: "PT9M59S"},
		{VideoID: "long", Duration: "PT1H2M"},
	}

	kept := FilterByDuration(candidates, MinAbove, 10)

	ids := make([]string, 0, len(kept))
	for _, c := range kept {
		ids = append(ids, c.VideoID)
	}
	// exactly 10 minutes does not survive a strict lower bound
	assert.Equal(t, []string{"over", "long"}, ids)
}

func TestFilterByDuration_AnnotatesMinutes(t *testing.T) {
	kept := FilterByDuration([]domain.Candidate{{VideoID: "a", Duration: "PT15M30S"}}, MinAbove, 10)

	assert.Len(t, kept, 1)
	assert.InDelta(t, 15.5, kept[0].DurationMinutes, 0.001)
}

func TestFilterByDuration_UnparseableReadsAsZero(t *testing.T) {
	candidates := []domain.Candidate{
		{VideoID: "bad", Duration: "not-a-duration"},
		{VideoID: "missing"},
	}

	assert.Empty(t, FilterByDuration(candidates, MinAbove, 10))
	assert.Len(t, FilterByDuration(candidates, MaxBelow, 3), 2)
}

func TestSplitShorts(t *testing.T) {
	candidates := []domain.Candidate{
		{VideoID: "short", Duration: "PT59S"},
		{VideoID: "edge", Duration: "PT3M"},
		{VideoID: "video", Duration: "PT12M"},
	}

	videos, shorts := SplitShorts(candidates)

	assert.Len(t, shorts, 1)
	assert.Equal(t, "short", shorts[0].VideoID)
	// exactly 3 minutes is long-form, not a short
	assert.Len(t, videos, 2)
}
