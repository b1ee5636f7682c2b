package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAIGenerator speaks the chat-completions protocol. It also works
// against OpenAI-compatible endpoints via BaseURL.
type OpenAIGenerator struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Client      *http.Client
}

type RateLimitError struct{}

func (RateLimitError) Error() string { return "ai: rate limited by provider" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (o *OpenAIGenerator) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	msgs := make([]chatMessage, 0, 2)
	if req.System != "" {
		msgs = append(msgs, chatMessage{Role: "system", Content: req.System})
	}
	msgs = append(msgs, chatMessage{Role: "user", Content: req.Prompt})
	return o.complete(ctx, msgs, req.JSONMode)
}

func (o *OpenAIGenerator) Chat(ctx context.Context, req ChatRequest) (string, error) {
	msgs := make([]chatMessage, 0, len(req.History)+2)
	if req.System != "" {
		msgs = append(msgs, chatMessage{Role: "system", Content: req.System})
	}
	for _, m := range req.History {
		role := "user"
		if m.Role == "model" {
			role = "assistant"
		}
		msgs = append(msgs, chatMessage{Role: role, Content: m.Text})
	}
	msgs = append(msgs, chatMessage{Role: "user", Content: req.Message})
	return o.complete(ctx, msgs, false)
}

func (o *OpenAIGenerator) complete(ctx context.Context, msgs []chatMessage, jsonMode bool) (string, error) {
	payload := struct {
		Model          string        `json:"model"`
		Temperature    float64       `json:"temperature"`
		MaxTokens      int           `json:"max_tokens,omitempty"`
		Messages       []chatMessage `json:"messages"`
		ResponseFormat *struct {
			Type string `json:"type"`
		} `json:"response_format,omitempty"`
	}{
		Model:       o.Model,
		Temperature: o.Temperature,
		MaxTokens:   o.MaxTokens,
		Messages:    msgs,
	}
	if jsonMode {
		payload.ResponseFormat = &struct {
			Type string `json:"type"`
		}{Type: "json_object"}
	}

	b, _ := json.Marshal(payload)
	base := o.BaseURL
	if base == "" {
		base = defaultOpenAIBaseURL
	}
	url := strings.TrimRight(base, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.APIKey)

	client := o.Client
	if client == nil {
		client = &http.Client{Timeout: 45 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("ai: openai request timed out")
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return "", fmt.Errorf("ai: openai request timed out")
		}
		return "", fmt.Errorf("ai: openai request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errBody map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		if resp.StatusCode == http.StatusTooManyRequests {
			return "", RateLimitError{}
		}
		return "", fmt.Errorf("ai: openai http error: %s: %v", resp.Status, errBody)
	}

	var res struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", err
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("ai: empty openai response")
	}
	return res.Choices[0].Message.Content, nil
}
