// Package ai implements the text and image generation layer. Providers are
// plain HTTP clients; the Service picks the first configured provider and
// falls through to the next one on transient failure.
package ai

import (
	"context"
	"errors"
)

// Provider is a single upstream model vendor.
type Provider interface {
	Name() string

	// GenerateText runs a text generation with the business context folded
	// into the system prompt. The result is the parsed model response: either
	// the JSON object the model produced, or {"content": ..., "type":
	// "text_response"} when the output was not JSON.
	GenerateText(ctx context.Context, prompt string, bizCtx map[string]interface{}) (map[string]interface{}, error)

	// GenerateImage produces an image for a description in a given style and
	// returns {"image_url", "description", "style"}.
	GenerateImage(ctx context.Context, description, style string) (map[string]interface{}, error)

	SupportsImages() bool
}

var (
	ErrNoTextProvider  = errors.New("no text generation models available")
	ErrNoImageProvider = errors.New("no image generation models available")
)

// transientError marks failures worth retrying or falling through on
// (rate limits, upstream 5xx, network errors).
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func markTransient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsTransient reports whether an error was marked retryable by a provider.
func IsTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}
