package ai

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/nexus-manager/backend/internal/models"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiGenerator talks to the Gemini API through the official SDK.
type GeminiGenerator struct {
	client      *genai.Client
	model       string
	temperature float64
}

func NewGeminiGenerator(apiKey string, cfg models.AIConfig) (*GeminiGenerator, error) {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("ai: create gemini client: %w", err)
	}

	model := cfg.GeminiModel
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiGenerator{
		client:      client,
		model:       model,
		temperature: cfg.Temperature,
	}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(g.temperature)),
	}
	if req.JSONMode {
		config.ResponseMIMEType = "application/json"
	}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	contents := []*genai.Content{genai.NewContentFromText(req.Prompt, genai.RoleUser)}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("ai: gemini generate: %w", err)
	}
	return resp.Text(), nil
}

func (g *GeminiGenerator) Chat(ctx context.Context, req ChatRequest) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(g.temperature)),
		MaxOutputTokens: 8000,
	}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	history := make([]*genai.Content, 0, len(req.History))
	for _, m := range req.History {
		var role genai.Role = genai.RoleUser
		if m.Role == "model" {
			role = genai.RoleModel
		}
		history = append(history, genai.NewContentFromText(m.Text, role))
	}

	chat, err := g.client.Chats.Create(ctx, g.model, config, history)
	if err != nil {
		return "", fmt.Errorf("ai: gemini chat: %w", err)
	}
	resp, err := chat.SendMessage(ctx, genai.Part{Text: req.Message})
	if err != nil {
		return "", fmt.Errorf("ai: gemini chat: %w", err)
	}
	return resp.Text(), nil
}
