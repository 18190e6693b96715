package driven

import "context"

// LLMService provides chat model operations for field enrichment and summaries.
// This is an optional service - when nil, extraction returns pattern fields only
// and rendered documents carry no summary.
//
// Implementations include any OpenAI-compatible chat completions API:
//   - Mistral (default)
//   - OpenAI
//   - Ollama (local models)
type LLMService interface {
	// Chat conducts a multi-turn conversation and returns the reply content.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64

	// JSONMode asks the model to reply with a single JSON object.
	JSONMode bool
}
