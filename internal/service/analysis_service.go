package service

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"github.com/vbonduro/nutricoach/internal/domain"
	"github.com/vbonduro/nutricoach/internal/format"
	"github.com/vbonduro/nutricoach/internal/logging"
	"github.com/vbonduro/nutricoach/internal/prompt"
	"github.com/vbonduro/nutricoach/internal/vision"
)

// FallbackHTML replaces the analysis whenever the vision backend fails.
const FallbackHTML template.HTML = "<p>An error occurred while the AI Coach was analyzing your meal.</p>"

var errNoImage = errors.New("analysis request has no image")

type AnalysisService struct {
	visionAPI vision.VisionAnalyzer
	persona   string
	timeout   time.Duration
	logger    *slog.Logger
}

// NewAnalysisService wires a vision backend behind the fallback boundary. A
// zero timeout leaves the call bounded only by the request context.
func NewAnalysisService(visionAPI vision.VisionAnalyzer, timeout time.Duration, logger *slog.Logger) *AnalysisService {
	return &AnalysisService{
		visionAPI: visionAPI,
		persona:   prompt.Persona,
		timeout:   timeout,
		logger:    logger,
	}
}

// Analyze asks the vision backend about the meal and returns the formatted
// answer. It never fails: any backend error, empty answer or panic is logged
// and turned into FallbackHTML.
func (s *AnalysisService) Analyze(ctx context.Context, req domain.AnalysisRequest) *domain.AnalysisResult {
	logger := logging.FromContext(ctx, s.logger)

	start := time.Now()
	raw, err := s.generate(ctx, req)
	if err != nil {
		logger.Error("error in generating response", "error", err, "duration_ms", time.Since(start).Milliseconds())
		return &domain.AnalysisResult{HTML: FallbackHTML, Fallback: true}
	}

	logger.Info("vision analysis complete",
		"duration_ms", time.Since(start).Milliseconds(),
		"response_length", len(raw),
	)
	return &domain.AnalysisResult{HTML: format.HTML(raw)}
}

func (s *AnalysisService) generate(ctx context.Context, req domain.AnalysisRequest) (raw string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("vision analyzer panicked: %v", r)
		}
	}()

	if req.Image == nil {
		return "", errNoImage
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	logging.FromContext(ctx, s.logger).Info("vision analysis started",
		"mime_type", req.Image.MIMEType,
		"bytes", len(req.Image.Data),
		"width", req.Image.Width,
		"height", req.Image.Height,
		"query_length", len(req.Query),
	)

	raw, err = s.visionAPI.Analyze(ctx, prompt.Build(s.persona, req.Query), req.Image)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(raw) == "" {
		return "", vision.ErrEmptyResponse
	}
	return raw, nil
}
