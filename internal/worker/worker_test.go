package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"topic-scout/internal/domain"
)

// --- stubs ---

type stubJobRepo struct {
	mu       sync.Mutex
	jobs     []*domain.IngestJob // consumed FIFO
	err      error
	statuses []string
}

func (s *stubJobRepo) Enqueue(ctx context.Context, job *domain.IngestJob) error { return nil }

func (s *stubJobRepo) AcquireNextJob(ctx context.Context) (*domain.IngestJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if len(s.jobs) == 0 {
		return nil, nil
	}
	job := s.jobs[0]
	s.jobs = s.jobs[1:]
	return job, nil
}

func (s *stubJobRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string, errMsg *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses = append(s.statuses, status)
	return nil
}

type stubVideoRepo struct {
	mu        sync.Mutex
	upserted  []domain.VideoMetadataRow
	returnErr error
}

func (s *stubVideoRepo) Get(context.Context, string) (*domain.VideoMetadataRow, error) {
	return nil, nil
}

func (s *stubVideoRepo) GetMany(context.Context, []string) (map[string]domain.VideoMetadataRow, error) {
	return nil, nil
}

func (s *stubVideoRepo) Upsert(ctx context.Context, row *domain.VideoMetadataRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.returnErr != nil {
		return s.returnErr
	}
	s.upserted = append(s.upserted, *row)
	return nil
}

func (s *stubVideoRepo) UpdateTranscript(context.Context, string, string) error { return nil }

func (s *stubVideoRepo) UpdateComments(context.Context, string, []domain.Comment) error { return nil }

func (s *stubVideoRepo) IsFresh(context.Context, string, time.Duration) (bool, error) {
	return false, nil
}

func (s *stubVideoRepo) Stats(context.Context) (*domain.CacheStats, error) { return nil, nil }

type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func makeCSVJob() *domain.IngestJob {
	return &domain.IngestJob{
		ID:      uuid.New(),
		JobType: "csv_export",
		Payload: map[string]any{
			"data": "video_id,title,view_count\nvid00000001,Imported Video,500\n",
		},
		Status: "processing",
	}
}

func makePDFJob() *domain.IngestJob {
	return &domain.IngestJob{
		ID:      uuid.New(),
		JobType: "pdf_export",
		Payload: map[string]any{
			"content": "Great Video Title\nhttps://www.youtube.com/watch?v=abcdefghij1\n",
		},
		Status: "processing",
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// --- tests ---

func TestProcessNextJob_CSVExport(t *testing.T) {
	repo := &stubJobRepo{jobs: []*domain.IngestJob{makeCSVJob()}}
	videos := &stubVideoRepo{}

	w := NewIngestWorker(repo, videos, passthroughTx{}, testLogger())
	w.processNextJob()

	videos.mu.Lock()
	defer videos.mu.Unlock()
	assert.Len(t, videos.upserted, 1)
	assert.Equal(t, "vid00000001", videos.upserted[0].VideoID)
	assert.Equal(t, "csv", videos.upserted[0].Source)
	assert.Equal(t, []string{"completed"}, repo.statuses)
}

func TestProcessNextJob_PDFExport(t *testing.T) {
	repo := &stubJobRepo{jobs: []*domain.IngestJob{makePDFJob()}}
	videos := &stubVideoRepo{}

	w := NewIngestWorker(repo, videos, passthroughTx{}, testLogger())
	w.processNextJob()

	videos.mu.Lock()
	defer videos.mu.Unlock()
	assert.Len(t, videos.upserted, 1)
	assert.Equal(t, "abcdefghij1", videos.upserted[0].VideoID)
	assert.Equal(t, "Great Video Title", videos.upserted[0].Title)
}

func TestProcessNextJob_UnknownTypeFails(t *testing.T) {
	job := makeCSVJob()
	job.JobType = "mystery"
	repo := &stubJobRepo{jobs: []*domain.IngestJob{job}}

	w := NewIngestWorker(repo, &stubVideoRepo{}, passthroughTx{}, testLogger())
	w.processNextJob()

	assert.Equal(t, []string{"failed"}, repo.statuses)
}

func TestIngestWorker_BacksOffOnConsecutiveFailures(t *testing.T) {
	repo := &stubJobRepo{
		jobs: []*domain.IngestJob{makeCSVJob(), makeCSVJob(), makeCSVJob()},
	}
	videos := &stubVideoRepo{returnErr: errors.New("db unreachable")}

	w := NewIngestWorker(repo, videos, passthroughTx{}, testLogger())

	w.processNextJob()
	assert.Equal(t, initialBackoff, w.backoff)

	w.processNextJob()
	assert.Equal(t, 2*time.Second, w.backoff)

	w.processNextJob()
	assert.Equal(t, 4*time.Second, w.backoff)
}

func TestIngestWorker_BackoffResetsOnSuccess(t *testing.T) {
	repo := &stubJobRepo{
		jobs: []*domain.IngestJob{makeCSVJob(), makeCSVJob()},
	}
	videos := &stubVideoRepo{returnErr: errors.New("fail")}

	w := NewIngestWorker(repo, videos, passthroughTx{}, testLogger())

	w.processNextJob()
	assert.Equal(t, initialBackoff, w.backoff)

	videos.mu.Lock()
	videos.returnErr = nil
	videos.mu.Unlock()

	w.processNextJob()
	assert.Equal(t, time.Duration(0), w.backoff, "backoff should reset on success")
}

func TestIngestWorker_BackoffCapsAtMax(t *testing.T) {
	w := NewIngestWorker(nil, nil, nil, testLogger())

	bo := time.Duration(0)
	for i := 0; i < 20; i++ {
		bo = w.nextBackoff(bo)
	}
	assert.Equal(t, maxBackoff, bo)
}
