// Package llm abstracts the text-generation service behind a small port so
// the chat controller and report assembler never depend on a provider SDK.
package llm

import "context"

// Options tune a single generation call. Zero values mean provider
// defaults.
type Options struct {
	Temperature float32
	TopP        float32
	TopK        float32
	MaxTokens   int32
}

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
}

// Disabled is a Generator for deployments without an API key. Every call
// fails, which pushes callers onto their degraded fallback paths.
type Disabled struct{}

func (Disabled) Generate(context.Context, string, Options) (string, error) {
	return "", ErrDisabled
}
