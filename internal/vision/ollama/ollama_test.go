package ollama

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/nutricoach/internal/foodimage"
	"github.com/vbonduro/nutricoach/internal/vision"
)

var testImage = &foodimage.Image{Data: []byte{0xFF, 0xD8, 0xFF, 0xE0}, MIMEType: "image/jpeg", Format: "jpeg"}

func TestOllamaAnalyze(t *testing.T) {
	// Create a test server that mimics Ollama
	var got generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&got)

		resp := map[string]interface{}{
			"model":    got.Model,
			"response": "**Salad**: 1 bowl, 150 calories",
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	analyzer := NewOllamaAnalyzer(server.URL, "llava")

	text, err := analyzer.Analyze(context.Background(), "nutrition please", testImage)

	require.NoError(t, err)
	assert.Equal(t, "**Salad**: 1 bowl, 150 calories", text)
	assert.Equal(t, "llava", got.Model)
	assert.Equal(t, "nutrition please", got.Prompt)
	assert.False(t, got.Stream)
	require.Len(t, got.Images, 1)
	assert.Equal(t, base64.StdEncoding.EncodeToString(testImage.Data), got.Images[0])
}

func TestOllamaAnalyzeNetworkError(t *testing.T) {
	analyzer := NewOllamaAnalyzer("http://localhost:99999", "llava")

	_, err := analyzer.Analyze(context.Background(), "prompt", testImage)

	assert.Error(t, err)
}

func TestOllamaAnalyzeInvalidResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	analyzer := NewOllamaAnalyzer(server.URL, "llava")

	_, err := analyzer.Analyze(context.Background(), "prompt", testImage)

	assert.Error(t, err)
}

func TestOllamaAnalyzeMalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))
	defer server.Close()

	analyzer := NewOllamaAnalyzer(server.URL, "llava")

	_, err := analyzer.Analyze(context.Background(), "prompt", testImage)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestOllamaAnalyzeEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":""}`))
	}))
	defer server.Close()

	analyzer := NewOllamaAnalyzer(server.URL, "llava")

	_, err := analyzer.Analyze(context.Background(), "prompt", testImage)

	assert.ErrorIs(t, err, vision.ErrEmptyResponse)
}
