package vision

import (
	"context"
	"errors"

	"github.com/vbonduro/nutricoach/internal/foodimage"
)

// ErrEmptyResponse is returned when a backend answers without any text.
var ErrEmptyResponse = errors.New("vision model returned an empty response")

// VisionAnalyzer sends a prompt and an image to a multimodal model and
// returns the model's raw text answer.
type VisionAnalyzer interface {
	Analyze(ctx context.Context, prompt string, img *foodimage.Image) (string, error)
}
