package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"topic-scout/internal/domain"
	"topic-scout/internal/usecase/ranking"
)

// ChannelSetupResult is the onboarding snapshot for one channel: its info
// plus recent long-form uploads sorted by popularity.
type ChannelSetupResult struct {
	Channel domain.ChannelInfo `json:"channel"`
	Videos  []domain.Candidate `json:"videos"`
	Count   int                `json:"count"`
}

// ChannelSetupService resolves a channel by id, handle, or name, lists its
// recent uploads, and persists the listing for later runs.
type ChannelSetupService struct {
	platform domain.VideoPlatform
	channels domain.ChannelCacheRepository
	maxAge   time.Duration
	perPull  int
	logger   *slog.Logger
}

func NewChannelSetupService(
	platform domain.VideoPlatform,
	channels domain.ChannelCacheRepository,
	maxAge time.Duration,
	videosPerChannel int,
	logger *slog.Logger,
) *ChannelSetupService {
	return &ChannelSetupService{
		platform: platform,
		channels: channels,
		maxAge:   maxAge,
		perPull:  videosPerChannel,
		logger:   logger,
	}
}

// Setup accepts a raw channel identifier: "UC..." id, "@handle", or a plain
// name that goes through channel search. The returned listing keeps only
// uploads strictly longer than three minutes.
func (s *ChannelSetupService) Setup(ctx context.Context, identifier string) (*ChannelSetupResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, fmt.Errorf("empty channel identifier: %w", domain.ErrConfiguration)
	}

	info, err := s.resolve(ctx, identifier)
	if err != nil {
		return nil, err
	}

	if fresh, err := s.channels.IsFresh(ctx, info.ChannelID, s.maxAge); err == nil && fresh {
		if row, err := s.channels.Get(ctx, info.ChannelID); err == nil && row != nil {
			return &ChannelSetupResult{Channel: *info, Videos: row.Videos, Count: len(row.Videos)}, nil
		}
	}

	uploads, err := s.platform.GetChannelVideos(ctx, info.ChannelID, s.perPull)
	if err != nil {
		return nil, fmt.Errorf("list channel %s: %w", info.ChannelID, err)
	}

	videos := ranking.FilterByDuration(uploads, ranking.MinAbove, 3)
	sort.SliceStable(videos, func(i, j int) bool {
		return videos[i].ViewCount > videos[j].ViewCount
	})

	if err := s.channels.Upsert(ctx, &domain.ChannelCacheRow{
		ChannelID:       info.ChannelID,
		ChannelTitle:    info.Title,
		SubscriberCount: info.SubscriberCount,
		VideoCount:      info.VideoCount,
		Videos:          videos,
	}); err != nil {
		s.logger.Warn("channel_listing_persist_failed",
			slog.String("channel_id", info.ChannelID),
			slog.String("error", err.Error()))
	}

	return &ChannelSetupResult{Channel: *info, Videos: videos, Count: len(videos)}, nil
}

// Evict drops a channel's persisted listing so the next Setup refetches it.
func (s *ChannelSetupService) Evict(ctx context.Context, channelID string) error {
	channelID = strings.TrimSpace(channelID)
	if channelID == "" {
		return fmt.Errorf("empty channel id: %w", domain.ErrConfiguration)
	}
	if err := s.channels.Delete(ctx, channelID); err != nil {
		return fmt.Errorf("evict channel %s: %w", channelID, err)
	}
	return nil
}

func (s *ChannelSetupService) resolve(ctx context.Context, identifier string) (*domain.ChannelInfo, error) {
	if strings.HasPrefix(identifier, "UC") && len(identifier) == 24 {
		info, err := s.platform.GetChannelInfo(ctx, identifier)
		if err != nil {
			return nil, fmt.Errorf("resolve channel id %s: %w", identifier, err)
		}
		return info, nil
	}

	channels, err := s.platform.SearchChannels(ctx, identifier, 1)
	if err != nil {
		return nil, fmt.Errorf("resolve channel %q: %w", identifier, err)
	}
	if len(channels) == 0 {
		return nil, fmt.Errorf("resolve channel %q: %w", identifier, domain.ErrNotFound)
	}
	return &channels[0], nil
}
