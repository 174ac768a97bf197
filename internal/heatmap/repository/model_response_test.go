package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const analysisJSON = `{"top_losers":[{"name":"台積電","change":"-5.2%"},{"name":"群聯","change":"-4.1%"}],"market":"taiwan","industry":"tse"}`

func TestDecodeHeatmapAnalysisPlain(t *testing.T) {
	analysis, err := decodeHeatmapAnalysis(analysisJSON)
	require.NoError(t, err)
	require.Len(t, analysis.TopLosers, 2)
	assert.Equal(t, "台積電", analysis.TopLosers[0].Name)
	assert.Equal(t, "-5.2%", analysis.TopLosers[0].Change)
	assert.Equal(t, "taiwan", analysis.Market)
}

func TestDecodeHeatmapAnalysisJSONFence(t *testing.T) {
	content := "Here are the results:\n```json\n" + analysisJSON + "\n```\nLet me know if you need more."
	analysis, err := decodeHeatmapAnalysis(content)
	require.NoError(t, err)
	assert.Len(t, analysis.TopLosers, 2)
}

func TestDecodeHeatmapAnalysisBareFence(t *testing.T) {
	content := "```\n" + analysisJSON + "\n```"
	analysis, err := decodeHeatmapAnalysis(content)
	require.NoError(t, err)
	assert.Len(t, analysis.TopLosers, 2)
}

func TestDecodeHeatmapAnalysisRepairsTrailingComma(t *testing.T) {
	content := `{"top_losers":[{"name":"台積電","change":"-5.2%"},],"market":"taiwan","industry":"tse"}`
	analysis, err := decodeHeatmapAnalysis(content)
	require.NoError(t, err)
	assert.Len(t, analysis.TopLosers, 1)
}

func TestDecodeHeatmapAnalysisMalformed(t *testing.T) {
	for _, content := range []string{
		"",
		"sorry, I cannot identify any stocks in this image",
		`{"market":"taiwan","industry":"tse"}`, // no top_losers
	} {
		_, err := decodeHeatmapAnalysis(content)
		require.Error(t, err, content)
		assert.True(t, errors.Is(err, ErrMalformedModelResponse), content)
	}
}
