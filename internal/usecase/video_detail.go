package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"topic-scout/internal/domain"
)

const detailConcurrency = 4

// VideoDetailService resolves full per-video records: info, transcript, top
// comments. Reads go through two layers before the platform: the in-process
// TTL cache, then the normalized store with a freshness window.
type VideoDetailService struct {
	platform domain.VideoPlatform
	videos   domain.VideoMetadataRepository
	cache    domain.MetadataCache
	maxAge   time.Duration
	comments int64
	logger   *slog.Logger
}

func NewVideoDetailService(
	platform domain.VideoPlatform,
	videos domain.VideoMetadataRepository,
	cache domain.MetadataCache,
	maxAge time.Duration,
	commentsPerVideo int64,
	logger *slog.Logger,
) *VideoDetailService {
	return &VideoDetailService{
		platform: platform,
		videos:   videos,
		cache:    cache,
		maxAge:   maxAge,
		comments: commentsPerVideo,
		logger:   logger,
	}
}

// GetDetails resolves every id concurrently, skipping ones that fail
// entirely. Transcript and comment fetch failures degrade the record rather
// than dropping it. Result order follows the request.
func (s *VideoDetailService) GetDetails(ctx context.Context, videoIDs []string) ([]domain.VideoDetail, error) {
	if len(videoIDs) == 0 {
		return nil, fmt.Errorf("no video ids: %w", domain.ErrConfiguration)
	}

	resolved := make([]*domain.VideoDetail, len(videoIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(detailConcurrency)
	for i, id := range videoIDs {
		g.Go(func() error {
			detail, err := s.getDetail(gctx, id)
			if err != nil {
				s.logger.Warn("video_detail_failed",
					slog.String("video_id", id),
					slog.String("error", err.Error()))
				return nil
			}
			resolved[i] = detail
			return nil
		})
	}
	_ = g.Wait()

	details := make([]domain.VideoDetail, 0, len(videoIDs))
	for _, d := range resolved {
		if d != nil {
			details = append(details, *d)
		}
	}
	if len(details) == 0 {
		return nil, fmt.Errorf("no video details resolved: %w", domain.ErrUpstreamUnavailable)
	}
	return details, nil
}

func (s *VideoDetailService) getDetail(ctx context.Context, videoID string) (*domain.VideoDetail, error) {
	cacheKey := "video_detail:" + videoID
	if cached, ok := s.cache.Get(cacheKey); ok {
		if detail, ok := cached.(*domain.VideoDetail); ok {
			return detail, nil
		}
	}

	if fresh, err := s.videos.IsFresh(ctx, videoID, s.maxAge); err == nil && fresh {
		if row, err := s.videos.Get(ctx, videoID); err == nil && row != nil {
			detail := detailFromRow(row)
			s.backfillGaps(ctx, detail)
			s.cache.Set(cacheKey, detail)
			return detail, nil
		}
	}

	detail, err := s.platform.GetVideoDetail(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("fetch video %s: %w", videoID, err)
	}

	if transcript, err := s.platform.GetTranscript(ctx, videoID); err != nil {
		s.logger.Warn("transcript_unavailable",
			slog.String("video_id", videoID),
			slog.String("error", err.Error()))
	} else {
		detail.Transcript = transcript
	}

	if comments, err := s.platform.GetComments(ctx, videoID, s.comments); err != nil {
		s.logger.Warn("comments_unavailable",
			slog.String("video_id", videoID),
			slog.String("error", err.Error()))
	} else {
		detail.Comments = comments
	}

	if err := s.videos.Upsert(ctx, rowFromDetail(detail)); err != nil {
		s.logger.Warn("video_detail_persist_failed",
			slog.String("video_id", videoID),
			slog.String("error", err.Error()))
	}
	s.cache.Set(cacheKey, detail)
	return detail, nil
}

// backfillGaps fills transcript and comments missing from an otherwise
// fresh store row, so imported rows (pdf/csv exports carry neither) converge
// to full records without waiting out the freshness window. Fetch failures
// leave the gap in place.
func (s *VideoDetailService) backfillGaps(ctx context.Context, detail *domain.VideoDetail) {
	if detail.Transcript == "" {
		if transcript, err := s.platform.GetTranscript(ctx, detail.VideoID); err == nil && transcript != "" {
			detail.Transcript = transcript
			if err := s.videos.UpdateTranscript(ctx, detail.VideoID, transcript); err != nil {
				s.logger.Warn("transcript_backfill_persist_failed",
					slog.String("video_id", detail.VideoID),
					slog.String("error", err.Error()))
			}
		}
	}

	if len(detail.Comments) == 0 {
		if comments, err := s.platform.GetComments(ctx, detail.VideoID, s.comments); err == nil && len(comments) > 0 {
			detail.Comments = comments
			if err := s.videos.UpdateComments(ctx, detail.VideoID, comments); err != nil {
				s.logger.Warn("comments_backfill_persist_failed",
					slog.String("video_id", detail.VideoID),
					slog.String("error", err.Error()))
			}
		}
	}
}

func detailFromRow(row *domain.VideoMetadataRow) *domain.VideoDetail {
	return &domain.VideoDetail{
		Candidate: domain.Candidate{
			VideoID:         row.VideoID,
			Title:           row.Title,
			Description:     row.Description,
			ChannelName:     row.ChannelTitle,
			ChannelID:       row.ChannelID,
			Thumbnail:       row.ThumbnailURL,
			ViewCount:       row.ViewCount,
			Duration:        row.Duration,
			DurationMinutes: domain.ParseDurationMinutes(row.Duration),
			PublishedAt:     row.PublishedAt,
		},
		Transcript: row.Transcript,
		Comments:   row.Comments,
	}
}

func rowFromDetail(d *domain.VideoDetail) *domain.VideoMetadataRow {
	return &domain.VideoMetadataRow{
		VideoID:      d.VideoID,
		Title:        d.Title,
		Description:  d.Description,
		ThumbnailURL: d.Thumbnail,
		ViewCount:    d.ViewCount,
		ChannelID:    d.ChannelID,
		ChannelTitle: d.ChannelName,
		Duration:     d.Duration,
		PublishedAt:  d.PublishedAt,
		Transcript:   d.Transcript,
		Comments:     d.Comments,
		Source:       "api",
	}
}
