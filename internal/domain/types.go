package domain

import (
	"html/template"

	"github.com/vbonduro/nutricoach/internal/foodimage"
)

// AnalysisRequest is one form submission: the decoded photo and the user's
// optional free-text question.
type AnalysisRequest struct {
	Image *foodimage.Image
	Query string
}

// AnalysisResult is the rendered answer for one request. Fallback is set when
// the model call failed and HTML holds the generic error fragment instead.
type AnalysisResult struct {
	HTML     template.HTML
	Fallback bool
}
