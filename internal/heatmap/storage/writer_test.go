package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twstock-heatmap/internal/entity"
)

func TestWriteJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api", "twstock_top_losers.json")

	data := map[string][]entity.ResolvedStock{
		"tse": {{Ticker: "2330", Name: "台積電", Change: "-5.2%"}},
		"otc": {},
	}
	envelope := NewEnvelope(data, "taiwan", "nstock.tw", "2.0")
	require.NoError(t, WriteJSON(path, envelope))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	// CJK text must survive as raw UTF-8, not \u escapes.
	assert.Contains(t, string(raw), "台積電")
	assert.NotContains(t, string(raw), `\u`)

	var decoded struct {
		Status      string                            `json:"status"`
		Data        map[string][]entity.ResolvedStock `json:"data"`
		Version     string                            `json:"version"`
		Market      string                            `json:"market"`
		Source      string                            `json:"source"`
		LastUpdated string                            `json:"last_updated"`
		GeneratedAt string                            `json:"generated_at"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, "success", decoded.Status)
	assert.Equal(t, "2.0", decoded.Version)
	assert.Equal(t, "taiwan", decoded.Market)
	assert.Equal(t, "nstock.tw", decoded.Source)
	assert.Equal(t, decoded.GeneratedAt, decoded.LastUpdated)
	assert.Equal(t, data, decoded.Data)
}

func TestWriteJSONCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "c", "out.json")
	require.NoError(t, WriteJSON(path, map[string]string{"k": "v"}))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestScrapeEnvelopeCount(t *testing.T) {
	rows := []entity.ScrapedRow{
		{Ticker: "2330", Name: "台積電", Price: "580.0", Change: "-5.23%", Industry: "半導體", Market: "tse"},
	}
	envelope := NewEnvelope(rows, "taiwan", "https://histock.tw/stock/rank.aspx?m=4&d=0&t=dt", "")
	envelope.Count = len(rows)

	b, err := json.Marshal(envelope)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, float64(1), decoded["count"])
	_, hasVersion := decoded["version"]
	assert.False(t, hasVersion) // omitted when empty
}
