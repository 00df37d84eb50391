package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"topic-scout/internal/domain"
)

type videoMetadataRepository struct {
	pool *pgxpool.Pool
}

// NewVideoMetadataRepository creates the normalized video store backed by
// the video_metadata table.
func NewVideoMetadataRepository(pool *pgxpool.Pool) domain.VideoMetadataRepository {
	return &videoMetadataRepository{pool: pool}
}

const videoColumns = `video_id, title, description, thumbnail_url, view_count,
	channel_id, channel_title, duration, published_at, transcript, comments, source,
	created_at, updated_at`

func (r *videoMetadataRepository) Get(ctx context.Context, videoID string) (*domain.VideoMetadataRow, error) {
	query := `
		SELECT ` + videoColumns + `
		FROM video_metadata
		WHERE video_id = $1
	`
	row := executorFrom(ctx, r.pool).QueryRow(ctx, query, videoID)

	record, err := scanVideoRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan video metadata: %w", err)
	}
	return record, nil
}

func (r *videoMetadataRepository) GetMany(ctx context.Context, videoIDs []string) (map[string]domain.VideoMetadataRow, error) {
	if len(videoIDs) == 0 {
		return map[string]domain.VideoMetadataRow{}, nil
	}

	query := `
		SELECT ` + videoColumns + `
		FROM video_metadata
		WHERE video_id = ANY($1)
	`
	rows, err := executorFrom(ctx, r.pool).Query(ctx, query, videoIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query video metadata: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.VideoMetadataRow, len(videoIDs))
	for rows.Next() {
		record, err := scanVideoRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video metadata: %w", err)
		}
		out[record.VideoID] = *record
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read video metadata rows: %w", err)
	}
	return out, nil
}

func (r *videoMetadataRepository) Upsert(ctx context.Context, row *domain.VideoMetadataRow) error {
	query := `
		INSERT INTO video_metadata (video_id, title, description, thumbnail_url, view_count,
			channel_id, channel_title, duration, published_at, transcript, comments, source,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		ON CONFLICT (video_id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			thumbnail_url = EXCLUDED.thumbnail_url,
			view_count = EXCLUDED.view_count,
			channel_id = EXCLUDED.channel_id,
			channel_title = EXCLUDED.channel_title,
			duration = EXCLUDED.duration,
			published_at = EXCLUDED.published_at,
			transcript = COALESCE(NULLIF(EXCLUDED.transcript, ''), video_metadata.transcript),
			comments = COALESCE(EXCLUDED.comments, video_metadata.comments),
			source = EXCLUDED.source,
			updated_at = NOW()
	`
	commentsBytes, err := marshalComments(row.Comments)
	if err != nil {
		return err
	}

	_, err = executorFrom(ctx, r.pool).Exec(ctx, query,
		row.VideoID,
		row.Title,
		row.Description,
		row.ThumbnailURL,
		row.ViewCount,
		row.ChannelID,
		row.ChannelTitle,
		row.Duration,
		row.PublishedAt,
		row.Transcript,
		commentsBytes,
		row.Source,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert video metadata: %w", err)
	}
	return nil
}

func (r *videoMetadataRepository) UpdateTranscript(ctx context.Context, videoID, transcript string) error {
	query := `
		UPDATE video_metadata
		SET transcript = $1, updated_at = NOW()
		WHERE video_id = $2
	`
	_, err := executorFrom(ctx, r.pool).Exec(ctx, query, transcript, videoID)
	if err != nil {
		return fmt.Errorf("failed to update transcript: %w", err)
	}
	return nil
}

func (r *videoMetadataRepository) UpdateComments(ctx context.Context, videoID string, comments []domain.Comment) error {
	commentsBytes, err := marshalComments(comments)
	if err != nil {
		return err
	}

	query := `
		UPDATE video_metadata
		SET comments = $1, updated_at = NOW()
		WHERE video_id = $2
	`
	_, err = executorFrom(ctx, r.pool).Exec(ctx, query, commentsBytes, videoID)
	if err != nil {
		return fmt.Errorf("failed to update comments: %w", err)
	}
	return nil
}

func (r *videoMetadataRepository) IsFresh(ctx context.Context, videoID string, maxAge time.Duration) (bool, error) {
	query := `
		SELECT updated_at
		FROM video_metadata
		WHERE video_id = $1
	`
	var updatedAt time.Time
	err := executorFrom(ctx, r.pool).QueryRow(ctx, query, videoID).Scan(&updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check video freshness: %w", err)
	}
	return time.Since(updatedAt) < maxAge, nil
}

func (r *videoMetadataRepository) Stats(ctx context.Context) (*domain.CacheStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE transcript IS NOT NULL AND transcript != ''),
			COUNT(*) FILTER (WHERE comments IS NOT NULL AND jsonb_array_length(comments) > 0)
		FROM video_metadata
	`
	var stats domain.CacheStats
	err := executorFrom(ctx, r.pool).QueryRow(ctx, query).Scan(
		&stats.TotalVideos,
		&stats.VideosWithTranscript,
		&stats.VideosWithComments,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to collect store stats: %w", err)
	}
	return &stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVideoRow(row rowScanner) (*domain.VideoMetadataRow, error) {
	var record domain.VideoMetadataRow
	var description, transcript pgtype.Text
	var commentsBytes []byte

	err := row.Scan(
		&record.VideoID,
		&record.Title,
		&description,
		&record.ThumbnailURL,
		&record.ViewCount,
		&record.ChannelID,
		&record.ChannelTitle,
		&record.Duration,
		&record.PublishedAt,
		&transcript,
		&commentsBytes,
		&record.Source,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Description = description.String
	record.Transcript = transcript.String
	if len(commentsBytes) > 0 {
		if err := json.Unmarshal(commentsBytes, &record.Comments); err != nil {
			return nil, fmt.Errorf("failed to unmarshal comments: %w", err)
		}
	}
	return &record, nil
}

func marshalComments(comments []domain.Comment) ([]byte, error) {
	if comments == nil {
		return nil, nil
	}
	b, err := json.Marshal(comments)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal comments: %w", err)
	}
	return b, nil
}
