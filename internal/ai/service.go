package ai

import (
	"context"
	"log"
	"time"

	"github.com/Dav-123/Easy-biz-ai-service/config"
)

// Service aggregates configured providers in fallback order.
type Service struct {
	providers []Provider
}

// NewService builds the provider chain from configured API keys. Order is
// OpenAI, Claude, Gemini; an empty chain is valid and every generation call
// then fails with ErrNoTextProvider.
func NewService(cfg config.ProviderConfig) *Service {
	s := &Service{}
	if cfg.OpenAIKey != "" {
		s.providers = append(s.providers, NewOpenAIProvider(cfg.OpenAIKey))
	}
	if cfg.AnthropicKey != "" {
		s.providers = append(s.providers, NewAnthropicProvider(cfg.AnthropicKey))
	}
	if cfg.GeminiKey != "" {
		s.providers = append(s.providers, NewGeminiProvider(cfg.GeminiKey))
	}
	return s
}

// NewServiceWithProviders builds a service around an explicit provider chain.
// Used by tests and the worker CLI.
func NewServiceWithProviders(providers ...Provider) *Service {
	return &Service{providers: providers}
}

// GenerateText runs a text generation against the provider chain. Transient
// failures retry with backoff, then fall through to the next provider.
func (s *Service) GenerateText(ctx context.Context, prompt string, bizCtx map[string]interface{}) (map[string]interface{}, error) {
	if len(s.providers) == 0 {
		return nil, ErrNoTextProvider
	}

	var lastErr error
	for _, p := range s.providers {
		var result map[string]interface{}
		start := time.Now()
		err := withRetry(ctx, func() error {
			var genErr error
			result, genErr = p.GenerateText(ctx, prompt, bizCtx)
			return genErr
		})
		recordTextCall(time.Since(start), err)
		if err == nil {
			return result, nil
		}

		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Printf("[warn] provider=%s operation=generate_text falling through: %v", p.Name(), err)
	}
	return nil, lastErr
}

// GenerateImage runs an image generation against providers that support it.
func (s *Service) GenerateImage(ctx context.Context, description, style string) (map[string]interface{}, error) {
	var lastErr error
	for _, p := range s.providers {
		if !p.SupportsImages() {
			continue
		}

		result, err := p.GenerateImage(ctx, description, style)
		recordImageCall(err)
		if err == nil {
			return result, nil
		}

		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Printf("[warn] provider=%s operation=generate_image falling through: %v", p.Name(), err)
	}

	if lastErr == nil {
		lastErr = ErrNoImageProvider
	}
	return nil, lastErr
}

// CanGenerateText reports whether any text provider is configured.
func (s *Service) CanGenerateText() bool {
	return len(s.providers) > 0
}

// CanGenerateImages reports whether any configured provider does images.
func (s *Service) CanGenerateImages() bool {
	for _, p := range s.providers {
		if p.SupportsImages() {
			return true
		}
	}
	return false
}

// AvailableServices describes capabilities for the health endpoint.
func (s *Service) AvailableServices() map[string]interface{} {
	models := map[string]bool{
		"openai_text":  false,
		"claude_text":  false,
		"gemini_text":  false,
		"openai_image": false,
	}
	for _, p := range s.providers {
		models[p.Name()+"_text"] = true
		if p.SupportsImages() {
			models[p.Name()+"_image"] = true
		}
	}

	return map[string]interface{}{
		"text_generation":  s.CanGenerateText(),
		"image_generation": s.CanGenerateImages(),
		"models_available": models,
	}
}
