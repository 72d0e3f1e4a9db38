package llm

import "context"

// Message is one role-tagged turn of the conversation sent to the model.
// Role is "user" or "assistant".
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a single-shot chat completion request. The engine issues exactly
// one call per turn; retries and backoff are intentionally absent.
type Request struct {
	Messages    []Message
	System      string
	Temperature float32
	MaxTokens   int
}

// Provider is the generative chat model. Output is free text with no schema
// guarantee; callers parse defensively via llmjson.
type Provider interface {
	Chat(ctx context.Context, req Request) (string, error)
	Close() error
}
