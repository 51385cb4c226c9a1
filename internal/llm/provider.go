package llm

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Client is the minimal chat-completion surface the semantic strategy needs.
// Any OpenAI-compatible backend (hosted or local) can be adapted to it, and
// tests substitute a scripted fake.
type Client interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIProvider adapts *openai.Client to Client.
type OpenAIProvider struct {
	Inner *openai.Client
}

func (p *OpenAIProvider) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return p.Inner.CreateChatCompletion(ctx, request)
}

// New builds a provider for the given endpoint. The handle is constructed
// explicitly and passed into the semantic strategy by the caller, which owns
// its lifecycle; there is no process-wide instance. With neither an API key
// nor a base URL configured New returns nil, which the strategy treats as
// "backend unconfigured".
func New(baseURL, apiKey string) *OpenAIProvider {
	if strings.TrimSpace(apiKey) == "" && strings.TrimSpace(baseURL) == "" {
		return nil
	}
	cfg := openai.DefaultConfig(apiKey)
	if strings.TrimSpace(baseURL) != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &OpenAIProvider{Inner: openai.NewClientWithConfig(cfg)}
}
