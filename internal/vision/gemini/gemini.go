package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"github.com/vbonduro/nutricoach/internal/foodimage"
	"github.com/vbonduro/nutricoach/internal/vision"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

type GeminiAnalyzer struct {
	client *genai.Client
	model  string
}

// NewGeminiAnalyzer builds a Gemini API client. An empty apiKey is passed
// through to the SDK, which falls back to GOOGLE_API_KEY/GEMINI_API_KEY and
// reports its own error if neither is set.
func NewGeminiAnalyzer(ctx context.Context, apiKey, model string) (*GeminiAnalyzer, error) {
	return newGeminiAnalyzer(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}, model)
}

func newGeminiAnalyzer(ctx context.Context, cfg *genai.ClientConfig, model string) (*GeminiAnalyzer, error) {
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	return &GeminiAnalyzer{client: client, model: model}, nil
}

func (a *GeminiAnalyzer) Analyze(ctx context.Context, prompt string, img *foodimage.Image) (string, error) {
	contents := []*genai.Content{{
		Role: genai.RoleUser,
		Parts: []*genai.Part{
			{Text: prompt},
			{InlineData: &genai.Blob{MIMEType: img.MIMEType, Data: img.Data}},
		},
	}}

	start := time.Now()
	resp, err := a.client.Models.GenerateContent(ctx, a.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to call gemini: %w", err)
	}

	text := resp.Text()
	attrs := []any{"model", a.model, "duration_ms", time.Since(start).Milliseconds(), "response_length", len(text)}
	if resp.UsageMetadata != nil {
		attrs = append(attrs,
			"input_tokens", resp.UsageMetadata.PromptTokenCount,
			"output_tokens", resp.UsageMetadata.CandidatesTokenCount,
		)
	}
	slog.DebugContext(ctx, "gemini response received", attrs...)

	if text == "" {
		return "", vision.ErrEmptyResponse
	}
	return text, nil
}
