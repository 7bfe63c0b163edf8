package ai

import (
	"context"
	"fmt"
	"net/http"
)

const (
	openAIBaseURL     = "https://api.openai.com/v1"
	openAIChatModel   = "gpt-4"
	openAITemperature = 0.7
)

// OpenAIProvider talks to the OpenAI chat completions and images APIs.
type OpenAIProvider struct {
	apiKey      string
	baseURL     string
	textClient  *http.Client
	imageClient *http.Client
}

func NewOpenAIProvider(apiKey string) *OpenAIProvider {
	return &OpenAIProvider{
		apiKey:      apiKey,
		baseURL:     openAIBaseURL,
		textClient:  &http.Client{Timeout: TextTimeout},
		imageClient: &http.Client{Timeout: ImageTimeout},
	}
}

func (p *OpenAIProvider) Name() string         { return "openai" }
func (p *OpenAIProvider) SupportsImages() bool { return true }

type openAIChatRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
}

func (p *OpenAIProvider) GenerateText(ctx context.Context, prompt string, bizCtx map[string]interface{}) (map[string]interface{}, error) {
	req := openAIChatRequest{
		Model: openAIChatModel,
		Messages: []openAIMessage{
			{Role: "system", Content: BuildSystemPrompt(bizCtx)},
			{Role: "user", Content: prompt},
		},
		Temperature: openAITemperature,
	}

	var resp openAIChatResponse
	err := postJSON(ctx, p.textClient, p.baseURL+"/chat/completions", p.headers(), req, &resp)
	if err != nil {
		return nil, fmt.Errorf("openai chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai chat: empty response")
	}

	return ParseResponse(resp.Choices[0].Message.Content), nil
}

type openAIImageRequest struct {
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	ResponseFormat string `json:"response_format"`
}

type openAIImageResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

func (p *OpenAIProvider) GenerateImage(ctx context.Context, description, style string) (map[string]interface{}, error) {
	if style == "" {
		style = "professional"
	}
	req := openAIImageRequest{
		Prompt:         fmt.Sprintf("Professional %s style: %s. Clean, modern business design.", style, description),
		N:              1,
		Size:           "1024x1024",
		ResponseFormat: "url",
	}

	var resp openAIImageResponse
	err := postJSON(ctx, p.imageClient, p.baseURL+"/images/generations", p.headers(), req, &resp)
	if err != nil {
		return nil, fmt.Errorf("openai image: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai image: empty response")
	}

	return map[string]interface{}{
		"image_url":   resp.Data[0].URL,
		"description": description,
		"style":       style,
	}, nil
}

func (p *OpenAIProvider) headers() map[string]string {
	return map[string]string{"Authorization": "Bearer " + p.apiKey}
}
