package ranking

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"topic-scout/internal/domain"
)

// Fetcher fans out candidate retrieval against the video platform. Each
// per-query or per-channel task is independent: one failing or timing out
// contributes zero candidates and never aborts its siblings.
type Fetcher struct {
	platform    domain.VideoPlatform
	logger      *slog.Logger
	taskTimeout time.Duration
}

// NewFetcher creates a Fetcher. taskTimeout bounds every individual
// platform call; the request lifetime is otherwise bounded only by the
// slowest task.
func NewFetcher(platform domain.VideoPlatform, taskTimeout time.Duration, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		platform:    platform,
		logger:      logger,
		taskTimeout: taskTimeout,
	}
}

// FetchByQueries runs one search per query concurrently and returns the
// union of all successful fetches in submission order. Duplicates across
// queries are expected; deduplication happens downstream. An empty query
// list yields an empty result, not an error. The returned error is non-nil
// only when every task failed.
func (f *Fetcher) FetchByQueries(ctx context.Context, runID string, queries []string, resultsPerQuery int64) ([]domain.Candidate, error) {
	if len(queries) == 0 {
		return nil, nil
	}

	results := make([][]domain.Candidate, len(queries))
	failures := make([]bool, len(queries))
	var wg sync.WaitGroup

	for i, query := range queries {
		wg.Add(1)
		go func(idx int, q string) {
			defer wg.Done()
			taskCtx, cancel := context.WithTimeout(ctx, f.taskTimeout)
			defer cancel()

			candidates, err := f.platform.SearchVideos(taskCtx, q, resultsPerQuery)
			if err != nil {
				failures[idx] = true
				f.logger.Warn("query_fetch_failed",
					slog.String("run_id", runID),
					slog.String("query", q),
					slog.String("error", err.Error()))
				return
			}
			results[idx] = candidates
		}(i, query)
	}
	wg.Wait()

	return f.collect(runID, results, failures, len(queries))
}

// FetchByChannels lists recent videos for every channel reference
// concurrently. A reference given as "@handle" is resolved through a
// channel search first; resolution failure fails only that task. Channel
// category and name are stamped onto each returned candidate.
func (f *Fetcher) FetchByChannels(ctx context.Context, runID string, refs []domain.ChannelRef, videosPerChannel int) ([]domain.Candidate, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	results := make([][]domain.Candidate, len(refs))
	failures := make([]bool, len(refs))
	var wg sync.WaitGroup

	for i, ref := range refs {
		wg.Add(1)
		go func(idx int, r domain.ChannelRef) {
			defer wg.Done()
			taskCtx, cancel := context.WithTimeout(ctx, f.taskTimeout)
			defer cancel()

			candidates, err := f.fetchChannel(taskCtx, r, videosPerChannel)
			if err != nil {
				failures[idx] = true
				f.logger.Warn("channel_fetch_failed",
					slog.String("run_id", runID),
					slog.String("channel", r.ChannelID),
					slog.String("error", err.Error()))
				return
			}
			for j := range candidates {
				candidates[j].NicheCategory = r.Category
				if r.ChannelName != "" {
					candidates[j].NicheChannel = r.ChannelName
				} else {
					candidates[j].NicheChannel = candidates[j].ChannelName
				}
			}
			results[idx] = candidates
		}(i, ref)
	}
	wg.Wait()

	return f.collect(runID, results, failures, len(refs))
}

func (f *Fetcher) fetchChannel(ctx context.Context, ref domain.ChannelRef, videosPerChannel int) ([]domain.Candidate, error) {
	channelID := ref.ChannelID
	if ref.IsHandle() {
		channels, err := f.platform.SearchChannels(ctx, ref.ChannelID, 1)
		if err != nil {
			return nil, fmt.Errorf("resolve handle %s: %w", ref.ChannelID, err)
		}
		if len(channels) == 0 {
			return nil, fmt.Errorf("resolve handle %s: %w", ref.ChannelID, domain.ErrNotFound)
		}
		channelID = channels[0].ChannelID
	}
	return f.platform.GetChannelVideos(ctx, channelID, videosPerChannel)
}

// collect concatenates per-task results in submission order so that the
// downstream first-wins dedupe is deterministic.
func (f *Fetcher) collect(runID string, results [][]domain.Candidate, failures []bool, tasks int) ([]domain.Candidate, error) {
	failed := 0
	var all []domain.Candidate
	for i, r := range results {
		if failures[i] {
			failed++
			continue
		}
		all = append(all, r...)
	}

	f.logger.Info("fan_out_completed",
		slog.String("run_id", runID),
		slog.Int("tasks", tasks),
		slog.Int("failed", failed),
		slog.Int("candidates", len(all)))

	if failed == tasks {
		return nil, fmt.Errorf("all %d fetch tasks failed: %w", tasks, domain.ErrUpstreamUnavailable)
	}
	return all, nil
}
