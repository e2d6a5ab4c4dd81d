package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient is a TextGenerator backed by the Google Gemini API.
// Responses are requested as JSON.
type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
	log    *slog.Logger
}

// NewGeminiClient creates a client for modelName authenticated with apiKey.
// Call Close when done.
func NewGeminiClient(ctx context.Context, apiKey, modelName string, log *slog.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("llm.NewGeminiClient: api key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("llm.NewGeminiClient: %w", err)
	}
	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0.7)
	model.SystemInstruction = genai.NewUserContent(genai.Text(
		"You are an expert travel planner with extensive knowledge of destinations worldwide. " +
			"Create detailed, realistic, and well-structured trip itineraries based on user preferences. " +
			"Always respond with valid JSON that matches the expected structure."))

	return &GeminiClient{client: client, model: model, log: log}, nil
}

var _ TextGenerator = (*GeminiClient)(nil)

// GenerateContent sends prompt to the model and returns the concatenated text parts.
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string) (ContentResponse, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return ContentResponse{}, fmt.Errorf("llm.GeminiClient.GenerateContent: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return ContentResponse{}, errors.New("llm.GeminiClient.GenerateContent: no content generated")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return ContentResponse{}, errors.New("llm.GeminiClient.GenerateContent: generated content is not text")
	}

	out := ContentResponse{Content: b.String()}
	if u := resp.UsageMetadata; u != nil {
		out.Usage = TokenUsage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
		c.log.DebugContext(ctx, "llm usage",
			"prompt_tokens", out.Usage.PromptTokens,
			"completion_tokens", out.Usage.CompletionTokens,
			"total_tokens", out.Usage.TotalTokens,
		)
	}
	return out, nil
}

// Close releases the underlying client.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}
