package repository

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"twstock-heatmap/internal/heatmap/dto"
)

// decodeHeatmapAnalysis turns raw model output into a HeatmapAnalysis. Models
// routinely fence their JSON in markdown blocks and occasionally emit
// slightly broken JSON (trailing commas, unquoted keys); fences are stripped
// and the payload run through jsonrepair before a strict decode. Anything
// that still fails wraps ErrMalformedModelResponse.
func decodeHeatmapAnalysis(content string) (*dto.HeatmapAnalysis, error) {
	payload := stripCodeFence(content)
	if payload == "" {
		return nil, fmt.Errorf("%w: empty content", ErrMalformedModelResponse)
	}

	repaired, err := jsonrepair.JSONRepair(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedModelResponse, err)
	}

	var analysis dto.HeatmapAnalysis
	if err := json.Unmarshal([]byte(repaired), &analysis); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedModelResponse, err)
	}
	if analysis.TopLosers == nil {
		return nil, fmt.Errorf("%w: missing top_losers field", ErrMalformedModelResponse)
	}
	return &analysis, nil
}

// stripCodeFence unwraps ```json ... ``` or ``` ... ``` blocks, returning the
// input unchanged when no fence is present.
func stripCodeFence(content string) string {
	s := strings.TrimSpace(content)

	if idx := strings.Index(s, "```json"); idx >= 0 {
		s = s[idx+len("```json"):]
	} else if idx := strings.Index(s, "```"); idx >= 0 {
		s = s[idx+len("```"):]
	} else {
		return s
	}

	if end := strings.Index(s, "```"); end >= 0 {
		s = s[:end]
	}
	return strings.TrimSpace(s)
}
