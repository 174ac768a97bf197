package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twstock-heatmap/internal/entity"
	"twstock-heatmap/internal/heatmap/config"
	"twstock-heatmap/pkg/logger"
)

type fakeRanking struct {
	rows []entity.ScrapedRow
	err  error
}

func (f *fakeRanking) FetchTopLosers(_ context.Context) ([]entity.ScrapedRow, error) {
	return f.rows, f.err
}

func TestScrapeAnnotatesRows(t *testing.T) {
	ranking := &fakeRanking{rows: []entity.ScrapedRow{
		{Ticker: "2330", Name: "台積電", Price: "580.0", Change: "-5.23%"},
		{Ticker: "9999", Name: "無名", Price: "10.0", Change: "-4.00%"},
	}}
	mapping := fakeMapping{
		"台積電": {Name: "台積電", Ticker: "2330", Industry: "半導體", Market: "tse"},
	}

	svc := NewScraperService(&config.Config{}, logger.NewNop(), ranking, mapping)
	rows, err := svc.Scrape(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "半導體", rows[0].Industry)
	assert.Equal(t, "tse", rows[0].Market)

	// unresolved ticker keeps the row with empty annotation
	assert.Empty(t, rows[1].Industry)
	assert.Empty(t, rows[1].Market)
}

func TestScrapePropagatesFetchError(t *testing.T) {
	svc := NewScraperService(&config.Config{}, logger.NewNop(), &fakeRanking{err: errors.New("fetch failed")}, fakeMapping{})
	_, err := svc.Scrape(context.Background())
	assert.Error(t, err)
}

func TestScraperRunWritesEnvelopeWithCount(t *testing.T) {
	ranking := &fakeRanking{rows: []entity.ScrapedRow{
		{Ticker: "2330", Name: "台積電", Price: "580.0", Change: "-5.23%"},
	}}

	cfg := &config.Config{}
	cfg.Scraper.URL = "https://histock.tw/stock/rank.aspx?m=4&d=0&t=dt"
	svc := NewScraperService(cfg, logger.NewNop(), ranking, fakeMapping{})

	output := filepath.Join(t.TempDir(), "api", "histock_top_losers.json")
	require.NoError(t, svc.Run(context.Background(), output))

	raw, err := os.ReadFile(output)
	require.NoError(t, err)

	var decoded struct {
		Status string              `json:"status"`
		Source string              `json:"source"`
		Count  int                 `json:"count"`
		Data   []entity.ScrapedRow `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "success", decoded.Status)
	assert.Equal(t, cfg.Scraper.URL, decoded.Source)
	assert.Equal(t, 1, decoded.Count)
	require.Len(t, decoded.Data, 1)
	assert.Equal(t, "2330", decoded.Data[0].Ticker)
}
