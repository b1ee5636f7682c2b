package ai

import (
	"context"
	"errors"

	"github.com/nexus-manager/backend/internal/models"
)

// Message is one turn of a running conversation. Role is "user" or "model".
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type GenerateRequest struct {
	Prompt   string
	System   string
	JSONMode bool
}

type ChatRequest struct {
	System  string
	History []Message
	Message string
}

// Generator is the single capability the rest of the system depends on:
// text in, text out, optionally constrained to a JSON object. Which
// provider backs it is a configuration detail.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
	Chat(ctx context.Context, req ChatRequest) (string, error)
}

// Factory builds a Generator for the provider named in the persisted AI
// settings. Construction is cheap; callers build one per invocation so
// settings changes take effect immediately.
type Factory func(cfg models.AIConfig) (Generator, error)

var (
	ErrMissingOpenAIKey = errors.New("ai: OpenAI API key is not configured")
	ErrMissingGeminiKey = errors.New("ai: Gemini API key is not configured")
)

// New returns the live provider factory. geminiAPIKey comes from process
// configuration; the OpenAI key travels inside the persisted settings.
func New(geminiAPIKey string) Factory {
	return func(cfg models.AIConfig) (Generator, error) {
		switch cfg.Provider {
		case models.ProviderGPT:
			if cfg.OpenAIKey == "" {
				return nil, ErrMissingOpenAIKey
			}
			return &OpenAIGenerator{
				APIKey:      cfg.OpenAIKey,
				Model:       cfg.GPTModel,
				Temperature: cfg.Temperature,
			}, nil
		default:
			if geminiAPIKey == "" {
				return nil, ErrMissingGeminiKey
			}
			return NewGeminiGenerator(geminiAPIKey, cfg)
		}
	}
}

// NewMock returns a factory producing deterministic offline responses.
func NewMock() Factory {
	return func(cfg models.AIConfig) (Generator, error) {
		return MockGenerator{}, nil
	}
}
