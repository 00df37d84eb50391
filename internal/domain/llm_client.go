package domain

import "context"

// LLMClient defines the capability to send prompts to a language model and
// receive textual or JSON-object responses.
type LLMClient interface {
	// CompleteJSON requests a JSON-object completion. The returned bytes are
	// the raw object; callers unmarshal into their own schema and treat any
	// parse failure as a malformed upstream response.
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string, temperature float64, maxTokens int) ([]byte, error)

	// CompleteText requests a plain-text completion.
	CompleteText(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)

	// Model returns the wrapped model name.
	Model() string
}
