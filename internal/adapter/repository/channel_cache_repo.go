package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"topic-scout/internal/domain"
)

type channelCacheRepository struct {
	pool *pgxpool.Pool
}

// NewChannelCacheRepository creates the per-channel listing store backed by
// the channel_cache table.
func NewChannelCacheRepository(pool *pgxpool.Pool) domain.ChannelCacheRepository {
	return &channelCacheRepository{pool: pool}
}

func (r *channelCacheRepository) Get(ctx context.Context, channelID string) (*domain.ChannelCacheRow, error) {
	query := `
		SELECT channel_id, channel_title, subscriber_count, video_count, videos, updated_at
		FROM channel_cache
		WHERE channel_id = $1
	`
	row := executorFrom(ctx, r.pool).QueryRow(ctx, query, channelID)

	var record domain.ChannelCacheRow
	var videosBytes []byte
	err := row.Scan(
		&record.ChannelID,
		&record.ChannelTitle,
		&record.SubscriberCount,
		&record.VideoCount,
		&videosBytes,
		&record.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan channel cache: %w", err)
	}

	if len(videosBytes) > 0 {
		if err := json.Unmarshal(videosBytes, &record.Videos); err != nil {
			return nil, fmt.Errorf("failed to unmarshal channel videos: %w", err)
		}
	}
	return &record, nil
}

func (r *channelCacheRepository) Upsert(ctx context.Context, row *domain.ChannelCacheRow) error {
	videosBytes, err := json.Marshal(row.Videos)
	if err != nil {
		return fmt.Errorf("failed to marshal channel videos: %w", err)
	}

	query := `
		INSERT INTO channel_cache (channel_id, channel_title, subscriber_count, video_count, videos, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (channel_id) DO UPDATE SET
			channel_title = EXCLUDED.channel_title,
			subscriber_count = EXCLUDED.subscriber_count,
			video_count = EXCLUDED.video_count,
			videos = EXCLUDED.videos,
			updated_at = NOW()
	`
	_, err = executorFrom(ctx, r.pool).Exec(ctx, query,
		row.ChannelID,
		row.ChannelTitle,
		row.SubscriberCount,
		row.VideoCount,
		videosBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert channel cache: %w", err)
	}
	return nil
}

func (r *channelCacheRepository) Delete(ctx context.Context, channelID string) error {
	query := `DELETE FROM channel_cache WHERE channel_id = $1`
	_, err := executorFrom(ctx, r.pool).Exec(ctx, query, channelID)
	if err != nil {
		return fmt.Errorf("failed to delete channel cache: %w", err)
	}
	return nil
}

func (r *channelCacheRepository) IsFresh(ctx context.Context, channelID string, maxAge time.Duration) (bool, error) {
	query := `
		SELECT updated_at
		FROM channel_cache
		WHERE channel_id = $1
	`
	var updatedAt time.Time
	err := executorFrom(ctx, r.pool).QueryRow(ctx, query, channelID).Scan(&updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check channel freshness: %w", err)
	}
	return time.Since(updatedAt) < maxAge, nil
}
