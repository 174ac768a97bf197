package repository

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"twstock-heatmap/internal/heatmap/config"
	"twstock-heatmap/internal/heatmap/dto"
	"twstock-heatmap/pkg/logger"
)

// geminiRepository is a VisionRepository backed by the Google Gemini API.
type geminiRepository struct {
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
	genAiClient    *genai.Client
}

// NewGeminiRepository creates a new instance of geminiRepository.
func NewGeminiRepository(cfg *config.Config, log *logger.Logger, genAiClient *genai.Client) VisionRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.Gemini.MaxRequestPerMinute)
	return &geminiRepository{
		cfg:            cfg,
		logger:         log,
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
		genAiClient:    genAiClient,
	}
}

// AnalyzeHeatmap sends the screenshot inline with the ranking instruction.
func (r *geminiRepository) AnalyzeHeatmap(ctx context.Context, image []byte, industry string) (*dto.HeatmapAnalysis, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: BuildHeatmapPrompt(industry)},
				{InlineData: &genai.Blob{MIMEType: "image/png", Data: image}},
			},
		},
	}

	resp, err := r.genAiClient.Models.GenerateContent(ctx, r.cfg.Gemini.Model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		r.logger.Error("Gemini API call failed", logger.ErrorField(err))
		return nil, fmt.Errorf("gemini API call failed: %w", err)
	}

	content := resp.Text()
	r.logger.Debug("Received analysis from Gemini", logger.StringField("content", content))

	analysis, err := decodeHeatmapAnalysis(content)
	if err != nil {
		r.logger.Error("Failed to decode model analysis", logger.ErrorField(err), logger.StringField("content", content))
		return nil, err
	}
	return analysis, nil
}
