package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// VideoMetadataRow is the normalized store record for a single video,
// including reverse-engineered transcript and comment payloads.
type VideoMetadataRow struct {
	VideoID      string
	Title        string
	Description  string
	ThumbnailURL string
	ViewCount    int64
	ChannelID    string
	ChannelTitle string
	Duration     string
	PublishedAt  time.Time
	Transcript   string
	Comments     []Comment
	Source       string // "api", "pdf", "csv", "static"
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ChannelCacheRow is the persisted per-channel video listing.
type ChannelCacheRow struct {
	ChannelID       string
	ChannelTitle    string
	SubscriberCount int64
	VideoCount      int64
	Videos          []Candidate
	UpdatedAt       time.Time
}

// CacheStats summarizes the normalized store contents.
type CacheStats struct {
	TotalVideos          int `json:"total_videos"`
	VideosWithTranscript int `json:"videos_with_transcript"`
	VideosWithComments   int `json:"videos_with_comments"`
}

// VideoMetadataRepository persists video records in the normalized store.
type VideoMetadataRepository interface {
	Get(ctx context.Context, videoID string) (*VideoMetadataRow, error)
	GetMany(ctx context.Context, videoIDs []string) (map[string]VideoMetadataRow, error)
	Upsert(ctx context.Context, row *VideoMetadataRow) error
	UpdateTranscript(ctx context.Context, videoID, transcript string) error
	UpdateComments(ctx context.Context, videoID string, comments []Comment) error
	IsFresh(ctx context.Context, videoID string, maxAge time.Duration) (bool, error)
	Stats(ctx context.Context) (*CacheStats, error)
}

// ChannelCacheRepository persists per-channel listings.
type ChannelCacheRepository interface {
	Get(ctx context.Context, channelID string) (*ChannelCacheRow, error)
	Upsert(ctx context.Context, row *ChannelCacheRow) error
	Delete(ctx context.Context, channelID string) error
	IsFresh(ctx context.Context, channelID string, maxAge time.Duration) (bool, error)
}

// IngestJob is a queued reverse-engineering task: a captured PDF or CSV
// export waiting to be normalized into the store.
type IngestJob struct {
	ID        uuid.UUID
	JobType   string // "pdf_export" or "csv_export"
	Payload   map[string]any
	Status    string // new, completed, failed
	Error     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IngestJobRepository is the queue backing the ingest worker.
type IngestJobRepository interface {
	Enqueue(ctx context.Context, job *IngestJob) error
	AcquireNextJob(ctx context.Context) (*IngestJob, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, errMsg *string) error
}

// TransactionManager runs fn inside a database transaction. Repositories
// called within fn join the transaction through the context.
type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
