package worker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"topic-scout/internal/domain"
	"topic-scout/internal/infra/logger"
	"topic-scout/internal/ingest"
)

const (
	defaultPollInterval = 500 * time.Millisecond
	jobTimeout          = 60 * time.Second
	initialBackoff      = 1 * time.Second
	maxBackoff          = 5 * time.Minute
)

// IngestWorker polls the ingest queue and normalizes captured exports into
// the video store. One job at a time; failures back off exponentially.
type IngestWorker struct {
	jobRepo   domain.IngestJobRepository
	videoRepo domain.VideoMetadataRepository
	txManager domain.TransactionManager
	logger    *slog.Logger
	clog      *logger.ContextLogger
	stopChan  chan struct{}
	backoff   time.Duration
}

func NewIngestWorker(
	jobRepo domain.IngestJobRepository,
	videoRepo domain.VideoMetadataRepository,
	txManager domain.TransactionManager,
	log *slog.Logger,
) *IngestWorker {
	return &IngestWorker{
		jobRepo:   jobRepo,
		videoRepo: videoRepo,
		txManager: txManager,
		logger:    log,
		clog:      logger.NewContextLoggerFrom(log, "topic-scout"),
		stopChan:  make(chan struct{}),
	}
}

func (w *IngestWorker) Start() {
	w.logger.Info("Starting IngestWorker")
	go w.run()
}

func (w *IngestWorker) Stop() {
	w.logger.Info("Stopping IngestWorker")
	close(w.stopChan)
}

func (w *IngestWorker) run() {
	ticker := time.NewTicker(defaultPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ticker.C:
			w.processNextJob()
			if w.backoff > 0 {
				ticker.Reset(w.backoff)
			} else {
				ticker.Reset(defaultPollInterval)
			}
		}
	}
}

func (w *IngestWorker) processNextJob() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	job, err := w.jobRepo.AcquireNextJob(ctx)
	if err != nil {
		w.logger.Error("Failed to acquire next job", "error", err)
		return
	}
	if job == nil {
		return // No jobs
	}

	ctx = logger.WithJobID(ctx, job.ID.String())
	jobLog := w.clog.WithContext(ctx)
	jobLog.Info("Processing job", "type", job.JobType)

	var processErr error

	switch job.JobType {
	case "pdf_export":
		processErr = w.processPDFExport(ctx, job)
	case "csv_export":
		processErr = w.processCSVExport(ctx, job)
	default:
		processErr = fmt.Errorf("unknown job type: %s", job.JobType)
	}

	status := "completed"
	var errMsg *string
	if processErr != nil {
		status = "failed"
		msg := processErr.Error()
		errMsg = &msg
		w.backoff = w.nextBackoff(w.backoff)
		jobLog.Warn("Worker backing off", "backoff", w.backoff, "error", processErr)
	} else {
		w.backoff = 0
		jobLog.Info("Job completed")
	}

	if err := w.jobRepo.UpdateStatus(ctx, job.ID, status, errMsg); err != nil {
		jobLog.Error("Failed to update job status", "error", err)
	}
}

func (w *IngestWorker) nextBackoff(current time.Duration) time.Duration {
	if current == 0 {
		return initialBackoff
	}
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func (w *IngestWorker) processPDFExport(ctx context.Context, job *domain.IngestJob) error {
	content, ok := job.Payload["content"].(string)
	if !ok || content == "" {
		return fmt.Errorf("missing or invalid content")
	}

	rows := ingest.ParseVideoEntries(content)
	if len(rows) == 0 {
		return fmt.Errorf("no video entries in pdf export")
	}
	return w.upsertRows(ctx, rows)
}

func (w *IngestWorker) processCSVExport(ctx context.Context, job *domain.IngestJob) error {
	data, ok := job.Payload["data"].(string)
	if !ok || data == "" {
		return fmt.Errorf("missing or invalid data")
	}

	rows, err := ingest.ParseCSV(strings.NewReader(data))
	if err != nil {
		return err
	}
	return w.upsertRows(ctx, rows)
}

// upsertRows writes all rows of one export in a single transaction so a
// partially imported export never survives a failure.
func (w *IngestWorker) upsertRows(ctx context.Context, rows []domain.VideoMetadataRow) error {
	return w.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		for i := range rows {
			if err := w.videoRepo.Upsert(txCtx, &rows[i]); err != nil {
				return err
			}
		}
		return nil
	})
}
