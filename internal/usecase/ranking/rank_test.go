package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"topic-scout/internal/domain"
)

func scoredFixture() []domain.ScoredCandidate {
	return []domain.ScoredCandidate{
		{Candidate: domain.Candidate{VideoID: "low", ViewCount: 5000}, RelevanceScore: 20},
		{Candidate: domain.Candidate{VideoID: "tied-few-views", ViewCount: 100}, RelevanceScore: 120},
		{Candidate: domain.Candidate{VideoID: "tied-many-views", ViewCount: 9000}, RelevanceScore: 120},
		{Candidate: domain.Candidate{VideoID: "top"}, RelevanceScore: 250},
	}
}

func TestRank_OrdersByScoreDescending(t *testing.T) {
	ranked := Rank(scoredFixture(), 10, TieBreakNone)

	assert.Len(t, ranked, 4)
	assert.Equal(t, "top", ranked[0].VideoID)
	assert.Equal(t, "low", ranked[3].VideoID)
}

func TestRank_TieBreakNoneIsStable(t *testing.T) {
	ranked := Rank(scoredFixture(), 10, TieBreakNone)

	// equal scores keep input order regardless of popularity
	assert.Equal(t, "tied-few-views", ranked[1].VideoID)
	assert.Equal(t, "tied-many-views", ranked[2].VideoID)
}

func TestRank_TieBreakViewsPrefersPopular(t *testing.T) {
	ranked := Rank(scoredFixture(), 10, TieBreakViews)

	assert.Equal(t, "tied-many-views", ranked[1].VideoID)
	assert.Equal(t, "tied-few-views", ranked[2].VideoID)
}

func TestRank_TruncatesToTopN(t *testing.T) {
	ranked := Rank(scoredFixture(), 2, TieBreakNone)

	assert.Len(t, ranked, 2)
	assert.Equal(t, "top", ranked[0].VideoID)
}

func TestRank_FewerSurvivorsThanTopN(t *testing.T) {
	ranked := Rank(scoredFixture(), 50, TieBreakNone)

	assert.Len(t, ranked, 4)
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	scored := scoredFixture()
	Rank(scored, 10, TieBreakViews)

	assert.Equal(t, "low", scored[0].VideoID)
}
