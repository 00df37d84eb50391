package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/stretchr/testify/mock"

	"topic-scout/internal/domain"
)

type mockLLM struct {
	mock.Mock
}

func (m *mockLLM) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string, temperature float64, maxTokens int) ([]byte, error) {
	args := m.Called(ctx, systemPrompt, userPrompt, temperature, maxTokens)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockLLM) CompleteText(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	args := m.Called(ctx, prompt, maxTokens, temperature)
	return args.String(0), args.Error(1)
}

func (m *mockLLM) Model() string { return "mock-model" }

type mockVideoRepo struct {
	mock.Mock
}

func (m *mockVideoRepo) Get(ctx context.Context, videoID string) (*domain.VideoMetadataRow, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VideoMetadataRow), args.Error(1)
}

func (m *mockVideoRepo) GetMany(ctx context.Context, videoIDs []string) (map[string]domain.VideoMetadataRow, error) {
	args := m.Called(ctx, videoIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.VideoMetadataRow), args.Error(1)
}

func (m *mockVideoRepo) Upsert(ctx context.Context, row *domain.VideoMetadataRow) error {
	return m.Called(ctx, row).Error(0)
}

func (m *mockVideoRepo) UpdateTranscript(ctx context.Context, videoID, transcript string) error {
	return m.Called(ctx, videoID, transcript).Error(0)
}

func (m *mockVideoRepo) UpdateComments(ctx context.Context, videoID string, comments []domain.Comment) error {
	return m.Called(ctx, videoID, comments).Error(0)
}

func (m *mockVideoRepo) IsFresh(ctx context.Context, videoID string, maxAge time.Duration) (bool, error) {
	args := m.Called(ctx, videoID, maxAge)
	return args.Bool(0), args.Error(1)
}

func (m *mockVideoRepo) Stats(ctx context.Context) (*domain.CacheStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CacheStats), args.Error(1)
}

// stubPlatform implements VideoPlatform with function fields; unset methods
// fail loudly.
type stubPlatform struct {
	searchVideos     func(ctx context.Context, query string, maxResults int64) ([]domain.Candidate, error)
	searchChannels   func(ctx context.Context, query string, maxResults int64) ([]domain.ChannelInfo, error)
	getChannelInfo   func(ctx context.Context, channelID string) (*domain.ChannelInfo, error)
	getChannelVideos func(ctx context.Context, channelID string, maxResults int) ([]domain.Candidate, error)
	getVideoDetail   func(ctx context.Context, videoID string) (*domain.VideoDetail, error)
	getTranscript    func(ctx context.Context, videoID string) (string, error)
	getComments      func(ctx context.Context, videoID string, maxResults int64) ([]domain.Comment, error)
}

var errStubUnset = errors.New("stub method not set")

func (s *stubPlatform) SearchVideos(ctx context.Context, query string, maxResults int64) ([]domain.Candidate, error) {
	if s.searchVideos == nil {
		return nil, errStubUnset
	}
	return s.searchVideos(ctx, query, maxResults)
}

func (s *stubPlatform) SearchChannels(ctx context.Context, query string, maxResults int64) ([]domain.ChannelInfo, error) {
	if s.searchChannels == nil {
		return nil, errStubUnset
	}
	return s.searchChannels(ctx, query, maxResults)
}

func (s *stubPlatform) GetChannelInfo(ctx context.Context, channelID string) (*domain.ChannelInfo, error) {
	if s.getChannelInfo == nil {
		return nil, errStubUnset
	}
	return s.getChannelInfo(ctx, channelID)
}

func (s *stubPlatform) GetChannelVideos(ctx context.Context, channelID string, maxResults int) ([]domain.Candidate, error) {
	if s.getChannelVideos == nil {
		return nil, errStubUnset
	}
	return s.getChannelVideos(ctx, channelID, maxResults)
}

func (s *stubPlatform) GetVideoDetail(ctx context.Context, videoID string) (*domain.VideoDetail, error) {
	if s.getVideoDetail == nil {
		return nil, errStubUnset
	}
	return s.getVideoDetail(ctx, videoID)
}

func (s *stubPlatform) GetTranscript(ctx context.Context, videoID string) (string, error) {
	if s.getTranscript == nil {
		return "", errStubUnset
	}
	return s.getTranscript(ctx, videoID)
}

func (s *stubPlatform) GetComments(ctx context.Context, videoID string, maxResults int64) ([]domain.Comment, error) {
	if s.getComments == nil {
		return nil, errStubUnset
	}
	return s.getComments(ctx, videoID, maxResults)
}

// memoryCache is a map-backed MetadataCache for tests.
type memoryCache struct {
	values map[string]any
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: make(map[string]any)}
}

func (c *memoryCache) Get(key string) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

func (c *memoryCache) Set(key string, value any) { c.values[key] = value }

func (c *memoryCache) IsFresh(key string, _ time.Duration) bool {
	_, ok := c.values[key]
	return ok
}

type staticNiches struct {
	refs []domain.ChannelRef
}

func (s staticNiches) Channels(category string) []domain.ChannelRef {
	if category == "" {
		return s.refs
	}
	var out []domain.ChannelRef
	for _, r := range s.refs {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
