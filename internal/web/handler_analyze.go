package web

import (
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"

	"github.com/vbonduro/nutricoach/internal/domain"
	"github.com/vbonduro/nutricoach/internal/foodimage"
	"github.com/vbonduro/nutricoach/internal/logging"
)

const (
	// maxFormSize leaves room for the query field and multipart framing on
	// top of the largest accepted image.
	maxFormSize   = foodimage.MaxBytes + 1<<20
	maxFormMemory = 32 << 20

	msgUploadRequired = "Please upload an image file."
	msgImageError     = "Error processing image: "
)

var indexTemplates = []string{"base.html", "pages/index.html", "partials/flashes.html", "partials/analysis.html"}

type imageInfo struct {
	Filename string
	Format   string
	Width    int
	Height   int
	Bytes    int
}

type indexPage struct {
	Flashes   []flashMessage
	UserQuery string
	Image     *imageInfo
	Result    *domain.AnalysisResult
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderIndex(w, r, indexPage{})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context(), s.logger)

	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.flashAndRedirect(w, r, msgImageError+foodimage.ErrTooLarge.Error())
			return
		}
		logger.Debug("form without upload", "error", err)
		s.flashAndRedirect(w, r, msgUploadRequired)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil || header.Filename == "" {
		s.flashAndRedirect(w, r, msgUploadRequired)
		return
	}
	defer closeWithLog(file, "upload file", logger)

	img, err := foodimage.Load(file)
	if errors.Is(err, foodimage.ErrNoFile) {
		s.flashAndRedirect(w, r, msgUploadRequired)
		return
	}
	if err != nil {
		logger.Warn("image rejected", "filename", header.Filename, "error", err)
		s.flashAndRedirect(w, r, msgImageError+err.Error())
		return
	}

	query := r.FormValue("user_query")
	result := s.service.Analyze(r.Context(), domain.AnalysisRequest{Image: img, Query: query})

	s.renderIndex(w, r, indexPage{
		UserQuery: query,
		Image: &imageInfo{
			Filename: header.Filename,
			Format:   img.Format,
			Width:    img.Width,
			Height:   img.Height,
			Bytes:    len(img.Data),
		},
		Result: result,
	})
}

func (s *Server) renderIndex(w http.ResponseWriter, r *http.Request, page indexPage) {
	page.Flashes = s.popFlashes(w, r)
	if err := s.renderPage(w, page, indexTemplates...); err != nil {
		logging.FromContext(r.Context(), s.logger).Error("render page failed", "error", err)
	}
}

// flashAndRedirect reports an input problem on the next GET of the form.
func (s *Server) flashAndRedirect(w http.ResponseWriter, r *http.Request, message string) {
	s.addFlash(w, r, flashDanger, message)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}

// ResultHTML lets templates render the analysis without a nil check.
func (p indexPage) ResultHTML() template.HTML {
	if p.Result == nil {
		return ""
	}
	return p.Result.HTML
}
