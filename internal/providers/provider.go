package providers

import (
	"context"
	"fmt"
)

// Request is the data sent to a generative-text service.
type Request struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Response is the raw reply from a generative-text service.
type Response struct {
	Content    string
	TokensUsed int
}

// Generator is the provider abstraction: a single generate-content call
// taking a prompt and returning free-form text.
type Generator interface {
	Generate(ctx context.Context, req Request) (Response, error)
	Name() string
}

// New creates a provider by name.
func New(provider, model string) (Generator, error) {
	switch provider {
	case "anthropic":
		return NewAnthropic(model)
	case "openai":
		return NewOpenAI(model)
	case "gemini", "google":
		return NewGemini(model)
	case "ollama", "lmstudio":
		return NewOllama(model)
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}
