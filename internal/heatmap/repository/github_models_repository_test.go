package repository

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twstock-heatmap/internal/heatmap/config"
	"twstock-heatmap/internal/heatmap/dto"
	"twstock-heatmap/pkg/logger"
)

func completionWith(content string) string {
	resp := map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}},
		},
	}
	b, _ := json.Marshal(resp)
	return string(b)
}

func newGitHubModelsTest(t *testing.T, handler http.HandlerFunc) VisionRepository {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.GitHub.Endpoint = srv.URL
	cfg.GitHub.Model = "gpt-4o"
	cfg.GitHub.Token = "test-token"
	cfg.GitHub.MaxTokens = 1000
	cfg.GitHub.Temperature = 0.1
	cfg.GitHub.MaxRequestPerMinute = 600
	return NewGitHubModelsRepository(cfg, logger.NewNop())
}

func TestAnalyzeHeatmapRequestShape(t *testing.T) {
	var captured dto.ChatCompletionRequest
	var auth string

	repo := newGitHubModelsTest(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(completionWith("```json\n" + analysisJSON + "\n```")))
	})

	analysis, err := repo.AnalyzeHeatmap(context.Background(), []byte{0x89, 'P', 'N', 'G'}, "otc-semi")
	require.NoError(t, err)
	require.Len(t, analysis.TopLosers, 2)

	assert.Equal(t, "Bearer test-token", auth)
	assert.Equal(t, "gpt-4o", captured.Model)
	require.Len(t, captured.Messages, 1)
	require.Len(t, captured.Messages[0].Content, 2)

	text := captured.Messages[0].Content[0]
	assert.Equal(t, "text", text.Type)
	assert.Contains(t, text.Text, "otc-semi")
	assert.Contains(t, text.Text, "top_losers")

	img := captured.Messages[0].Content[1]
	assert.Equal(t, "image_url", img.Type)
	require.NotNil(t, img.ImageURL)
	assert.True(t, strings.HasPrefix(img.ImageURL.URL, "data:image/png;base64,"))
}

func TestAnalyzeHeatmapMalformedContent(t *testing.T) {
	repo := newGitHubModelsTest(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(completionWith("I could not read the image.")))
	})

	_, err := repo.AnalyzeHeatmap(context.Background(), []byte("png"), "tse")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedModelResponse))
}

func TestAnalyzeHeatmapHTTPError(t *testing.T) {
	repo := newGitHubModelsTest(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	_, err := repo.AnalyzeHeatmap(context.Background(), []byte("png"), "tse")
	assert.Error(t, err)
}

func TestAnalyzeHeatmapEmptyChoices(t *testing.T) {
	repo := newGitHubModelsTest(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	_, err := repo.AnalyzeHeatmap(context.Background(), []byte("png"), "tse")
	assert.Error(t, err)
}
