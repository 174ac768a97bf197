package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"twstock-heatmap/internal/entity"
	"twstock-heatmap/pkg/utils"
)

// NewEnvelope wraps already-computed result data with artifact metadata and
// the current UTC timestamp.
func NewEnvelope(data interface{}, market, source, version string) entity.ResultEnvelope {
	now := utils.TimeNowUTC().Format(time.RFC3339)
	return entity.ResultEnvelope{
		Status:      "success",
		Data:        data,
		Version:     version,
		Market:      market,
		Source:      source,
		LastUpdated: now,
		GeneratedAt: now,
	}
}

// WriteJSON serializes v as two-space-indented UTF-8 JSON, keeping CJK text
// readable (no \u escaping), creating parent directories as needed. The write
// is not atomic; re-running the pipeline is the recovery path for a file
// truncated by interruption.
func WriteJSON(path string, v interface{}) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
