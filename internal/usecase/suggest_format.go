package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"topic-scout/internal/domain"
)

// FormatSuggestion is one proposed presentation format.
type FormatSuggestion struct {
	Name       string `json:"name"`
	Structure  string `json:"structure"`
	WhyItWorks string `json:"why_it_works"`
}

// FormatAdvice is the suggest-format response envelope.
type FormatAdvice struct {
	ChannelName    string             `json:"channel_name"`
	VideosAnalyzed int                `json:"videos_analyzed"`
	Suggestions    []FormatSuggestion `json:"format_suggestions"`
	Note           string             `json:"note,omitempty"`
}

// FormatSuggester proposes presentation formats from analyzed videos. Same
// degradation contract as SeriesSuggester.
type FormatSuggester struct {
	llm    domain.LLMClient
	videos domain.VideoMetadataRepository
	logger *slog.Logger
}

func NewFormatSuggester(llm domain.LLMClient, videos domain.VideoMetadataRepository, logger *slog.Logger) *FormatSuggester {
	return &FormatSuggester{llm: llm, videos: videos, logger: logger}
}

func (s *FormatSuggester) Suggest(ctx context.Context, channelName string, videoIDs []string) (*FormatAdvice, error) {
	if len(videoIDs) == 0 {
		return nil, fmt.Errorf("no videos to analyze: %w", domain.ErrConfiguration)
	}

	rows, err := loadEvidence(ctx, s.videos, videoIDs)
	if err != nil {
		return nil, err
	}
	advice := &FormatAdvice{ChannelName: channelName, VideosAnalyzed: len(rows)}
	if len(rows) == 0 {
		advice.Note = "none of the requested videos are in the store yet"
		return advice, nil
	}

	raw, err := s.llm.CompleteJSON(ctx, suggestSystemPrompt, buildFormatPrompt(channelName, rows), 0.7, 1500)
	if err != nil {
		s.logger.Warn("format_suggestion_failed",
			slog.String("channel", channelName),
			slog.String("error", err.Error()))
		advice.Note = "suggestion model unavailable"
		return advice, nil
	}

	var parsed struct {
		Suggestions []FormatSuggestion `json:"format_suggestions"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		s.logger.Warn("format_suggestion_unparseable",
			slog.String("channel", channelName),
			slog.String("error", err.Error()))
		advice.Note = "suggestion model returned an unusable response"
		return advice, nil
	}
	advice.Suggestions = parsed.Suggestions
	return advice, nil
}
