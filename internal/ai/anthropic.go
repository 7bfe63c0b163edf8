package ai

import (
	"context"
	"fmt"
	"net/http"
)

const (
	anthropicBaseURL = "https://api.anthropic.com/v1"
	anthropicModel   = "claude-2"
	anthropicVersion = "2023-06-01"
	anthropicMaxTok  = 4096
)

// AnthropicProvider talks to the Anthropic messages API. Text only.
type AnthropicProvider struct {
	apiKey     string
	baseURL    string
	textClient *http.Client
}

func NewAnthropicProvider(apiKey string) *AnthropicProvider {
	return &AnthropicProvider{
		apiKey:     apiKey,
		baseURL:    anthropicBaseURL,
		textClient: &http.Client{Timeout: TextTimeout},
	}
}

func (p *AnthropicProvider) Name() string         { return "claude" }
func (p *AnthropicProvider) SupportsImages() bool { return false }

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	Temperature float64            `json:"temperature"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (p *AnthropicProvider) GenerateText(ctx context.Context, prompt string, bizCtx map[string]interface{}) (map[string]interface{}, error) {
	req := anthropicRequest{
		Model:       anthropicModel,
		MaxTokens:   anthropicMaxTok,
		System:      BuildSystemPrompt(bizCtx),
		Messages:    []anthropicMessage{{Role: "user", Content: prompt}},
		Temperature: 0.7,
	}

	headers := map[string]string{
		"x-api-key":         p.apiKey,
		"anthropic-version": anthropicVersion,
	}

	var resp anthropicResponse
	if err := postJSON(ctx, p.textClient, p.baseURL+"/messages", headers, req, &resp); err != nil {
		return nil, fmt.Errorf("claude messages: %w", err)
	}
	if len(resp.Content) == 0 {
		return nil, fmt.Errorf("claude messages: empty response")
	}

	return ParseResponse(resp.Content[0].Text), nil
}

func (p *AnthropicProvider) GenerateImage(ctx context.Context, description, style string) (map[string]interface{}, error) {
	return nil, ErrNoImageProvider
}
