package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"topic-scout/internal/domain"
)

const suggestSystemPrompt = `You advise video creators on content strategy.
You ground every suggestion in the evidence provided. You respond with JSON
only.`

// SeriesSuggestion is one proposed recurring series.
type SeriesSuggestion struct {
	Title        string   `json:"title"`
	Concept      string   `json:"concept"`
	WhyItWorks   string   `json:"why_it_works"`
	EpisodeIdeas []string `json:"episode_ideas"`
}

// SeriesAdvice is the suggest-series response envelope.
type SeriesAdvice struct {
	ChannelName    string             `json:"channel_name"`
	VideosAnalyzed int                `json:"videos_analyzed"`
	Suggestions    []SeriesSuggestion `json:"series_suggestions"`
	Note           string             `json:"note,omitempty"`
}

// SeriesSuggester proposes recurring series from a channel's analyzed
// videos. The evidence comes from the normalized store, so only videos that
// went through detail fetching or ingestion contribute.
type SeriesSuggester struct {
	llm    domain.LLMClient
	videos domain.VideoMetadataRepository
	logger *slog.Logger
}

func NewSeriesSuggester(llm domain.LLMClient, videos domain.VideoMetadataRepository, logger *slog.Logger) *SeriesSuggester {
	return &SeriesSuggester{llm: llm, videos: videos, logger: logger}
}

// Suggest builds advice for channelName from the given video ids. Model
// failure degrades to an empty suggestion list with a note; a store failure
// is a real error.
func (s *SeriesSuggester) Suggest(ctx context.Context, channelName string, videoIDs []string) (*SeriesAdvice, error) {
	if len(videoIDs) == 0 {
		return nil, fmt.Errorf("no videos to analyze: %w", domain.ErrConfiguration)
	}

	rows, err := loadEvidence(ctx, s.videos, videoIDs)
	if err != nil {
		return nil, err
	}
	advice := &SeriesAdvice{ChannelName: channelName, VideosAnalyzed: len(rows)}
	if len(rows) == 0 {
		advice.Note = "none of the requested videos are in the store yet"
		return advice, nil
	}

	raw, err := s.llm.CompleteJSON(ctx, suggestSystemPrompt, buildSeriesPrompt(channelName, rows), 0.7, 1500)
	if err != nil {
		s.logger.Warn("series_suggestion_failed",
			slog.String("channel", channelName),
			slog.String("error", err.Error()))
		advice.Note = "suggestion model unavailable"
		return advice, nil
	}

	var parsed struct {
		Suggestions []SeriesSuggestion `json:"series_suggestions"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		s.logger.Warn("series_suggestion_unparseable",
			slog.String("channel", channelName),
			slog.String("error", err.Error()))
		advice.Note = "suggestion model returned an unusable response"
		return advice, nil
	}
	advice.Suggestions = parsed.Suggestions
	return advice, nil
}

// loadEvidence resolves ids against the store, keeping request order and
// skipping ids with no stored record.
func loadEvidence(ctx context.Context, repo domain.VideoMetadataRepository, videoIDs []string) ([]domain.VideoMetadataRow, error) {
	byID, err := repo.GetMany(ctx, videoIDs)
	if err != nil {
		return nil, fmt.Errorf("load video evidence: %w", err)
	}
	rows := make([]domain.VideoMetadataRow, 0, len(byID))
	for _, id := range videoIDs {
		if row, ok := byID[id]; ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}
