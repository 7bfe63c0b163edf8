package ai

import (
	"context"
	"fmt"
	"net/http"
)

const (
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	geminiModel   = "gemini-pro"
)

// GeminiProvider talks to the Gemini generateContent API. The upstream image
// API is not wired, so images fall through to other providers.
type GeminiProvider struct {
	apiKey     string
	baseURL    string
	textClient *http.Client
}

func NewGeminiProvider(apiKey string) *GeminiProvider {
	return &GeminiProvider{
		apiKey:     apiKey,
		baseURL:    geminiBaseURL,
		textClient: &http.Client{Timeout: TextTimeout},
	}
}

func (p *GeminiProvider) Name() string         { return "gemini" }
func (p *GeminiProvider) SupportsImages() bool { return false }

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (p *GeminiProvider) GenerateText(ctx context.Context, prompt string, bizCtx map[string]interface{}) (map[string]interface{}, error) {
	full := BuildSystemPrompt(bizCtx) + "\n\nUser Request: " + prompt
	req := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: full}}}},
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", p.baseURL, geminiModel, p.apiKey)

	var resp geminiResponse
	if err := postJSON(ctx, p.textClient, url, nil, req, &resp); err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini generate: empty response")
	}

	return ParseResponse(resp.Candidates[0].Content.Parts[0].Text), nil
}

func (p *GeminiProvider) GenerateImage(ctx context.Context, description, style string) (map[string]interface{}, error) {
	return nil, ErrNoImageProvider
}
