package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"topic-scout/internal/domain"
	"topic-scout/internal/infra/logger"
	"topic-scout/internal/usecase/ranking"
)

// Mode selects which candidate pool the pipeline ranks.
type Mode string

const (
	// ModeOpenSearch fans out the profile's search queries against the whole
	// platform.
	ModeOpenSearch Mode = "open_search"
	// ModeCuratedNiche ranks only the recent uploads of the curated channel
	// list.
	ModeCuratedNiche Mode = "curated_niche"
)

// NicheDirectory exposes the curated channel list. An empty category means
// all channels.
type NicheDirectory interface {
	Channels(category string) []domain.ChannelRef
}

// RankConfig carries the tuned pipeline parameters.
type RankConfig struct {
	ResultsPerQuery   int64
	VideosPerChannel  int
	DefaultMaxResults int
	OpenWeights       ranking.WeightProfile
	NicheWeights      ranking.WeightProfile
}

// RankByTopicInput is the request for one ranking run.
type RankByTopicInput struct {
	Topic            string
	Mode             Mode
	Category         string
	MaxResults       int
	DurationMinBound float64
}

// RankPipeline is the topic-to-ranked-videos orchestration: keyword
// extraction, fan-out fetch, dedupe, duration filter, scoring, ranking.
type RankPipeline struct {
	extractor *KeywordExtractor
	fetcher   *ranking.Fetcher
	niches    NicheDirectory
	cfg       RankConfig
	clog      *logger.ContextLogger
}

func NewRankPipeline(extractor *KeywordExtractor, fetcher *ranking.Fetcher, niches NicheDirectory, cfg RankConfig, log *slog.Logger) *RankPipeline {
	if cfg.OpenWeights == (ranking.WeightProfile{}) {
		cfg.OpenWeights = ranking.DefaultWeights()
	}
	if cfg.NicheWeights == (ranking.WeightProfile{}) {
		cfg.NicheWeights = ranking.NicheWeights()
	}
	return &RankPipeline{
		extractor: extractor,
		fetcher:   fetcher,
		niches:    niches,
		cfg:       cfg,
		clog:      logger.NewContextLoggerFrom(log, "topic-scout"),
	}
}

// RankByTopic runs the full pipeline. A run with zero survivors is a valid
// result (count 0 plus a note), not an error; errors are reserved for bad
// requests and total upstream outage.
func (p *RankPipeline) RankByTopic(ctx context.Context, in RankByTopicInput) (*domain.RankedResult, error) {
	topic := strings.TrimSpace(in.Topic)
	if topic == "" {
		return nil, fmt.Errorf("empty topic: %w", domain.ErrConfiguration)
	}

	runID := uuid.NewString()
	ctx = logger.WithRunID(ctx, runID)
	ctx = logger.WithTopic(ctx, topic)

	maxResults := in.MaxResults
	if maxResults <= 0 {
		maxResults = p.cfg.DefaultMaxResults
	}

	profile, usedFallback := p.extractor.Extract(logger.WithStage(ctx, "extract"), topic)
	p.clog.WithContext(ctx).Info("rank_run_started",
		slog.String("mode", string(in.Mode)),
		slog.String("essence", profile.Essence),
		slog.Bool("fallback_profile", usedFallback))

	candidates, weights, tieBreak, err := p.fetchPool(logger.WithStage(ctx, "fetch"), runID, in, profile)
	if err != nil {
		return nil, err
	}

	unique := ranking.Dedupe(candidates)
	if in.DurationMinBound > 0 {
		unique = ranking.FilterByDuration(unique, ranking.MinAbove, in.DurationMinBound)
	}

	scored := ranking.ScoreAndFilter(unique, profile, weights)
	videos := ranking.Rank(scored, maxResults, tieBreak)

	result := &domain.RankedResult{
		Topic:        topic,
		Essence:      profile.Essence,
		KeywordsUsed: profile.PrimaryKeywords,
		Videos:       videos,
		Count:        len(videos),
	}
	switch {
	case len(videos) == 0:
		result.Note = "no relevant videos found for this topic"
	case usedFallback:
		result.Note = "keyword extraction unavailable, ranked against the raw topic"
	}

	p.clog.WithContext(logger.WithStage(ctx, "rank")).Info("rank_run_completed",
		slog.Int("fetched", len(candidates)),
		slog.Int("unique", len(unique)),
		slog.Int("scored", len(scored)),
		slog.Int("returned", len(videos)))

	return result, nil
}

func (p *RankPipeline) fetchPool(ctx context.Context, runID string, in RankByTopicInput, profile domain.KeywordProfile) ([]domain.Candidate, ranking.WeightProfile, ranking.TieBreak, error) {
	switch in.Mode {
	case ModeCuratedNiche:
		refs := p.niches.Channels(in.Category)
		if len(refs) == 0 {
			return nil, ranking.WeightProfile{}, ranking.TieBreakNone,
				fmt.Errorf("no curated channels for category %q: %w", in.Category, domain.ErrConfiguration)
		}
		candidates, err := p.fetcher.FetchByChannels(ctx, runID, refs, p.cfg.VideosPerChannel)
		if err != nil {
			return nil, ranking.WeightProfile{}, ranking.TieBreakNone, err
		}
		return candidates, p.cfg.NicheWeights, ranking.TieBreakViews, nil

	default:
		candidates, err := p.fetcher.FetchByQueries(ctx, runID, profile.SearchQueries, p.cfg.ResultsPerQuery)
		if err != nil {
			return nil, ranking.WeightProfile{}, ranking.TieBreakNone, err
		}
		return candidates, p.cfg.OpenWeights, ranking.TieBreakNone, nil
	}
}
