package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"topic-scout/internal/domain"
)

func TestGetDetails_ServesFromProcessCache(t *testing.T) {
	cache := newMemoryCache()
	cache.Set("video_detail:v1", &domain.VideoDetail{
		Candidate: domain.Candidate{VideoID: "v1", Title: "cached"},
	})

	svc := NewVideoDetailService(&stubPlatform{}, &mockVideoRepo{}, cache, time.Hour, 10, testLogger())
	details, err := svc.GetDetails(context.Background(), []string{"v1"})

	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "cached", details[0].Title)
}

func TestGetDetails_ServesFreshStoreRow(t *testing.T) {
	repo := &mockVideoRepo{}
	repo.On("IsFresh", mock.Anything, "v1", time.Hour).Return(true, nil)
	repo.On("Get", mock.Anything, "v1").Return(&domain.VideoMetadataRow{
		VideoID:    "v1",
		Title:      "from store",
		Duration:   "PT12M30S",
		Transcript: "stored transcript",
	}, nil)

	svc := NewVideoDetailService(&stubPlatform{}, repo, newMemoryCache(), time.Hour, 10, testLogger())
	details, err := svc.GetDetails(context.Background(), []string{"v1"})

	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "from store", details[0].Title)
	assert.Equal(t, "stored transcript", details[0].Transcript)
	assert.InDelta(t, 12.5, details[0].DurationMinutes, 0.001)
}

func TestGetDetails_BackfillsImportedRowGaps(t *testing.T) {
	repo := &mockVideoRepo{}
	repo.On("IsFresh", mock.Anything, "v1", time.Hour).Return(true, nil)
	repo.On("Get", mock.Anything, "v1").Return(&domain.VideoMetadataRow{
		VideoID: "v1",
		Title:   "imported from csv",
		Source:  "csv",
	}, nil)
	repo.On("UpdateTranscript", mock.Anything, "v1", "late transcript").Return(nil)
	repo.On("UpdateComments", mock.Anything, "v1", mock.MatchedBy(func(comments []domain.Comment) bool {
		return len(comments) == 1 && comments[0].Text == "late comment"
	})).Return(nil)

	platform := &stubPlatform{
		getTranscript: func(context.Context, string) (string, error) {
			return "late transcript", nil
		},
		getComments: func(context.Context, string, int64) ([]domain.Comment, error) {
			return []domain.Comment{{Author: "a", Text: "late comment"}}, nil
		},
	}

	svc := NewVideoDetailService(platform, repo, newMemoryCache(), time.Hour, 10, testLogger())
	details, err := svc.GetDetails(context.Background(), []string{"v1"})

	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "late transcript", details[0].Transcript)
	require.Len(t, details[0].Comments, 1)
	repo.AssertExpectations(t)
}

func TestGetDetails_FetchesAndPersists(t *testing.T) {
	repo := &mockVideoRepo{}
	repo.On("IsFresh", mock.Anything, "v1", mock.Anything).Return(false, nil)
	repo.On("Upsert", mock.Anything, mock.MatchedBy(func(row *domain.VideoMetadataRow) bool {
		return row.VideoID == "v1" && row.Transcript == "full transcript" && row.Source == "api"
	})).Return(nil)

	platform := &stubPlatform{
		getVideoDetail: func(_ context.Context, videoID string) (*domain.VideoDetail, error) {
			return &domain.VideoDetail{
				Candidate: domain.Candidate{VideoID: videoID, Title: "live"},
			}, nil
		},
		getTranscript: func(context.Context, string) (string, error) {
			return "full transcript", nil
		},
		getComments: func(context.Context, string, int64) ([]domain.Comment, error) {
			return []domain.Comment{{Author: "a", Text: "nice"}}, nil
		},
	}

	cache := newMemoryCache()
	svc := NewVideoDetailService(platform, repo, cache, time.Hour, 10, testLogger())
	details, err := svc.GetDetails(context.Background(), []string{"v1"})

	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "full transcript", details[0].Transcript)
	assert.Len(t, details[0].Comments, 1)
	repo.AssertExpectations(t)

	_, cached := cache.Get("video_detail:v1")
	assert.True(t, cached)
}

func TestGetDetails_TranscriptFailureDegrades(t *testing.T) {
	repo := &mockVideoRepo{}
	repo.On("IsFresh", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
	repo.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	platform := &stubPlatform{
		getVideoDetail: func(_ context.Context, videoID string) (*domain.VideoDetail, error) {
			return &domain.VideoDetail{Candidate: domain.Candidate{VideoID: videoID}}, nil
		},
		getTranscript: func(context.Context, string) (string, error) {
			return "", errors.New("captions disabled")
		},
		getComments: func(context.Context, string, int64) ([]domain.Comment, error) {
			return nil, errors.New("comments disabled")
		},
	}

	svc := NewVideoDetailService(platform, repo, newMemoryCache(), time.Hour, 10, testLogger())
	details, err := svc.GetDetails(context.Background(), []string{"v1"})

	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Empty(t, details[0].Transcript)
	assert.Empty(t, details[0].Comments)
}

func TestGetDetails_SkipsFailingIDs(t *testing.T) {
	repo := &mockVideoRepo{}
	repo.On("IsFresh", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
	repo.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	platform := &stubPlatform{
		getVideoDetail: func(_ context.Context, videoID string) (*domain.VideoDetail, error) {
			if videoID == "gone" {
				return nil, domain.ErrNotFound
			}
			return &domain.VideoDetail{Candidate: domain.Candidate{VideoID: videoID}}, nil
		},
		getTranscript: func(context.Context, string) (string, error) { return "", nil },
		getComments:   func(context.Context, string, int64) ([]domain.Comment, error) { return nil, nil },
	}

	svc := NewVideoDetailService(platform, repo, newMemoryCache(), time.Hour, 10, testLogger())
	details, err := svc.GetDetails(context.Background(), []string{"gone", "v2"})

	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "v2", details[0].VideoID)
}

func TestGetDetails_EmptyInputRejected(t *testing.T) {
	svc := NewVideoDetailService(&stubPlatform{}, &mockVideoRepo{}, newMemoryCache(), time.Hour, 10, testLogger())

	_, err := svc.GetDetails(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrConfiguration)
}
