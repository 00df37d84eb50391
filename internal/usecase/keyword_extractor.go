package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"topic-scout/internal/domain"
)

const extractSystemPrompt = `You are a research assistant for video creators.
Given a topic, distill it into search material. Respond with a JSON object:
{"essence": "<the core concept in at most 6 words>",
 "primary_keywords": ["<3-5 short keyword phrases>"],
 "search_queries": ["<3-5 full search queries a viewer would type>"]}

Example:
Topic: owning a car is getting too expensive
{"essence": "car ownership costs",
 "primary_keywords": ["car ownership cost", "true cost of owning a car", "car expenses"],
 "search_queries": ["how much does owning a car really cost", "hidden costs of car ownership", "is owning a car worth it"]}

Example:
Topic: beginner investing with index funds
{"essence": "index fund investing for beginners",
 "primary_keywords": ["index funds", "index fund investing", "passive investing"],
 "search_queries": ["index funds explained for beginners", "how to start investing in index funds", "index funds vs picking stocks"]}

Return only the JSON object.`

// KeywordExtractor turns a free-text topic into a KeywordProfile via the
// language model. It never fails the request: any upstream or parse problem
// degrades to the raw-topic fallback profile.
type KeywordExtractor struct {
	llm    domain.LLMClient
	logger *slog.Logger
}

func NewKeywordExtractor(llm domain.LLMClient, logger *slog.Logger) *KeywordExtractor {
	return &KeywordExtractor{llm: llm, logger: logger}
}

// Extract returns the profile for topic. The fallback path is reported in
// the second return so callers can annotate the result note.
func (e *KeywordExtractor) Extract(ctx context.Context, topic string) (domain.KeywordProfile, bool) {
	raw, err := e.llm.CompleteJSON(ctx, extractSystemPrompt, topic, 0.3, 400)
	if err != nil {
		e.logger.Warn("keyword_extraction_failed",
			slog.String("topic", topic),
			slog.String("error", err.Error()))
		return domain.FallbackProfile(topic), true
	}

	profile, err := parseProfile(raw)
	if err != nil {
		e.logger.Warn("keyword_extraction_unparseable",
			slog.String("topic", topic),
			slog.String("error", err.Error()))
		return domain.FallbackProfile(topic), true
	}
	return profile, false
}

// parseProfile decodes the model output, tolerating markdown code fences
// some models wrap JSON in.
func parseProfile(raw []byte) (domain.KeywordProfile, error) {
	text := strings.TrimSpace(string(raw))
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var profile domain.KeywordProfile
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &profile); err != nil {
		return domain.KeywordProfile{}, err
	}
	if !profile.Valid() {
		return domain.KeywordProfile{}, domain.ErrMalformedResponse
	}
	return profile, nil
}
