package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"topic-scout/internal/domain"
)

func TestExtract_ParsesModelResponse(t *testing.T) {
	llm := &mockLLM{}
	llm.On("CompleteJSON", mock.Anything, mock.Anything, "dividend investing", mock.Anything, mock.Anything).
		Return([]byte(`{"essence":"dividend investing basics",
			"primary_keywords":["dividend investing","dividend stocks"],
			"search_queries":["dividend investing for beginners"]}`), nil)

	extractor := NewKeywordExtractor(llm, testLogger())
	profile, fallback := extractor.Extract(context.Background(), "dividend investing")

	assert.False(t, fallback)
	assert.Equal(t, "dividend investing basics", profile.Essence)
	assert.Equal(t, []string{"dividend investing", "dividend stocks"}, profile.PrimaryKeywords)
	assert.Equal(t, []string{"dividend investing for beginners"}, profile.SearchQueries)
}

func TestExtract_PromptCarriesWorkedExamples(t *testing.T) {
	llm := &mockLLM{}
	llm.On("CompleteJSON", mock.Anything, mock.MatchedBy(func(system string) bool {
		return strings.Count(system, "Example:") == 2 &&
			strings.Contains(system, "car ownership costs") &&
			strings.Contains(system, "index fund investing for beginners")
	}), "any topic", mock.Anything, mock.Anything).
		Return([]byte(`{"essence":"e","primary_keywords":["k"],"search_queries":["q"]}`), nil)

	extractor := NewKeywordExtractor(llm, testLogger())
	_, fallback := extractor.Extract(context.Background(), "any topic")

	assert.False(t, fallback)
	llm.AssertExpectations(t)
}

func TestExtract_ToleratesMarkdownFences(t *testing.T) {
	llm := &mockLLM{}
	llm.On("CompleteJSON", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]byte("```json\n{\"essence\":\"x\",\"primary_keywords\":[\"x\"],\"search_queries\":[\"x\"]}\n```"), nil)

	extractor := NewKeywordExtractor(llm, testLogger())
	profile, fallback := extractor.Extract(context.Background(), "x")

	assert.False(t, fallback)
	assert.Equal(t, "x", profile.Essence)
}

func TestExtract_FallsBackOnModelError(t *testing.T) {
	llm := &mockLLM{}
	llm.On("CompleteJSON", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("rate limited"))

	extractor := NewKeywordExtractor(llm, testLogger())
	profile, fallback := extractor.Extract(context.Background(), "dividend investing")

	assert.True(t, fallback)
	assert.Equal(t, domain.FallbackProfile("dividend investing"), profile)
	assert.True(t, profile.Valid())
}

func TestExtract_FallsBackOnUnparseableJSON(t *testing.T) {
	llm := &mockLLM{}
	llm.On("CompleteJSON", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]byte("I cannot help with that."), nil)

	extractor := NewKeywordExtractor(llm, testLogger())
	profile, fallback := extractor.Extract(context.Background(), "dividend investing")

	assert.True(t, fallback)
	assert.Equal(t, []string{"dividend investing"}, profile.PrimaryKeywords)
}

func TestExtract_FallsBackOnMissingFields(t *testing.T) {
	llm := &mockLLM{}
	llm.On("CompleteJSON", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]byte(`{"essence":"only essence"}`), nil)

	extractor := NewKeywordExtractor(llm, testLogger())
	profile, fallback := extractor.Extract(context.Background(), "dividend investing")

	assert.True(t, fallback)
	assert.Equal(t, "dividend investing", profile.Essence)
}
