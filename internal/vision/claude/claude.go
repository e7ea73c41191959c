package claude

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/vbonduro/nutricoach/internal/foodimage"
	"github.com/vbonduro/nutricoach/internal/vision"
)

// maxTokens covers the six-section nutrition report with room for long
// ingredient lists.
const maxTokens = 2048

type ClaudeAnalyzer struct {
	client *anthropic.Client
	model  string
}

func NewClaudeAnalyzer(apiKey, model string, opts ...anthropic.ClientOption) *ClaudeAnalyzer {
	return &ClaudeAnalyzer{
		client: anthropic.NewClient(apiKey, opts...),
		model:  model,
	}
}

// buildMessages constructs the Messages API payload for a vision request.
func buildMessages(prompt string, img *foodimage.Image) []anthropic.Message {
	return []anthropic.Message{{
		Role: anthropic.RoleUser,
		Content: []anthropic.MessageContent{
			anthropic.NewImageMessageContent(anthropic.NewMessageContentSource(
				anthropic.MessagesContentSourceTypeBase64,
				normaliseMIME(img.MIMEType),
				base64.StdEncoding.EncodeToString(img.Data),
			)),
			anthropic.NewTextMessageContent(prompt),
		},
	}}
}

func (a *ClaudeAnalyzer) Analyze(ctx context.Context, prompt string, img *foodimage.Image) (string, error) {
	resp, err := a.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(a.model),
		MaxTokens: maxTokens,
		Messages:  buildMessages(prompt, img),
	})
	if err != nil {
		return "", fmt.Errorf("failed to call claude: %w", err)
	}

	text := resp.GetFirstContentText()
	if text == "" {
		return "", vision.ErrEmptyResponse
	}
	return text, nil
}

// normaliseMIME maps decoded formats to the values the Anthropic API accepts.
// The API accepts only jpeg, png, gif, and webp. Other types are coerced to
// jpeg; the API rejects the image if the bytes disagree.
func normaliseMIME(mimeType string) string {
	switch mimeType {
	case "image/png", "image/gif", "image/webp":
		return mimeType
	default:
		return "image/jpeg"
	}
}
