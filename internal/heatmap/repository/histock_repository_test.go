package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twstock-heatmap/internal/heatmap/config"
	"twstock-heatmap/pkg/logger"
)

const rankingPageGridView = `<html><body>
<table id="CPHB1_gv">
<tr><th>代號</th><th>名稱</th><th>價格</th><th>漲跌</th><th>漲跌幅</th></tr>
<tr><td><a href="/stock/2330">2330</a></td><td><a href="/stock/2330">台積電</a></td><td>580.0</td><td>-32.0</td><td>-5.23%</td></tr>
<tr><td>8299</td><td>群聯</td><td>450.5</td><td>-20.5</td><td>-4.35%</td></tr>
<tr><td colspan="2">pager row</td></tr>
</table>
</body></html>`

const rankingPageFallback = `<html><body>
<table><tr><td>unrelated</td></tr></table>
<table id="other">
<tr><th>代號</th><th>名稱</th><th>價格</th><th>漲跌</th><th>漲跌幅</th></tr>
<tr><td>3231</td><td>緯創</td><td>100.0</td><td>-3.5</td><td>-3.38%</td></tr>
</table>
</body></html>`

func newHistockTest(t *testing.T, html string, maxRows int) RankingRepository {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(html))
	}))
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.Scraper.URL = srv.URL
	cfg.Scraper.MaxRows = maxRows
	return NewHistockRepository(cfg, logger.NewNop())
}

func TestFetchTopLosersGridViewTable(t *testing.T) {
	repo := newHistockTest(t, rankingPageGridView, 50)

	rows, err := repo.FetchTopLosers(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "2330", rows[0].Ticker)
	assert.Equal(t, "台積電", rows[0].Name)
	assert.Equal(t, "580.0", rows[0].Price)
	assert.Equal(t, "-5.23%", rows[0].Change)
	assert.Empty(t, rows[0].Industry) // annotation happens in the service

	assert.Equal(t, "8299", rows[1].Ticker)
	assert.Equal(t, "群聯", rows[1].Name)
}

func TestFetchTopLosersHeaderFallback(t *testing.T) {
	repo := newHistockTest(t, rankingPageFallback, 50)

	rows, err := repo.FetchTopLosers(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "3231", rows[0].Ticker)
}

func TestFetchTopLosersRespectsMaxRows(t *testing.T) {
	repo := newHistockTest(t, rankingPageGridView, 1)

	rows, err := repo.FetchTopLosers(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestFetchTopLosersNoTable(t *testing.T) {
	repo := newHistockTest(t, "<html><body><p>maintenance</p></body></html>", 50)

	_, err := repo.FetchTopLosers(context.Background())
	assert.Error(t, err)
}

func TestFetchTopLosersServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.Scraper.URL = srv.URL
	cfg.Scraper.MaxRows = 50
	repo := NewHistockRepository(cfg, logger.NewNop())

	_, err := repo.FetchTopLosers(context.Background())
	assert.Error(t, err)
}
