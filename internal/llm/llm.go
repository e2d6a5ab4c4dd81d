// Package llm wraps the language model used for generative trip planning.
package llm

import "context"

// TokenUsage records what a single completion cost.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// ContentResponse contains the generated text and its token usage.
type ContentResponse struct {
	Content string
	Usage   TokenUsage
}

// TextGenerator produces text from a prompt.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (ContentResponse, error)
}

// GeneratorFunc adapts a plain function to TextGenerator.
type GeneratorFunc func(ctx context.Context, prompt string) (ContentResponse, error)

func (f GeneratorFunc) GenerateContent(ctx context.Context, prompt string) (ContentResponse, error) {
	return f(ctx, prompt)
}
