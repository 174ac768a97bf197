package repository

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"twstock-heatmap/internal/heatmap/config"
	"twstock-heatmap/internal/heatmap/dto"
	"twstock-heatmap/pkg/logger"
)

// githubModelsRepository is a VisionRepository backed by the GitHub Models
// OpenAI-compatible chat/completions endpoint.
type githubModelsRepository struct {
	client         *http.Client
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
}

// NewGitHubModelsRepository creates a new instance of githubModelsRepository.
func NewGitHubModelsRepository(cfg *config.Config, log *logger.Logger) VisionRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.GitHub.MaxRequestPerMinute)
	return &githubModelsRepository{
		client: &http.Client{
			Timeout: 90 * time.Second,
		},
		cfg:            cfg,
		logger:         log,
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

// AnalyzeHeatmap sends the screenshot and the ranking instruction to the
// model and decodes the JSON it returns.
func (r *githubModelsRepository) AnalyzeHeatmap(ctx context.Context, image []byte, industry string) (*dto.HeatmapAnalysis, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	payload := dto.ChatCompletionRequest{
		Model: r.cfg.GitHub.Model,
		Messages: []dto.Message{
			{
				Role: "user",
				Content: []dto.ContentPart{
					{Type: "text", Text: BuildHeatmapPrompt(industry)},
					{
						Type: "image_url",
						ImageURL: &dto.ImageURL{
							URL: "data:image/png;base64," + base64.StdEncoding.EncodeToString(image),
						},
					},
				},
			},
		},
		MaxTokens:   r.cfg.GitHub.MaxTokens,
		Temperature: r.cfg.GitHub.Temperature,
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.GitHub.Endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create new http request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.cfg.GitHub.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Error("Failed to send request to GitHub Models", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to send request to GitHub Models: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		r.logger.Error("Received non-OK response from GitHub Models",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("body", string(body)),
		)
		return nil, fmt.Errorf("received non-OK response from GitHub Models: %d", resp.StatusCode)
	}

	var completion dto.ChatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return nil, fmt.Errorf("failed to decode GitHub Models response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("received empty choices from GitHub Models")
	}

	content := completion.Choices[0].Message.Content
	r.logger.Debug("Received analysis from GitHub Models", logger.StringField("content", content))

	analysis, err := decodeHeatmapAnalysis(content)
	if err != nil {
		r.logger.Error("Failed to decode model analysis", logger.ErrorField(err), logger.StringField("content", content))
		return nil, err
	}
	return analysis, nil
}
