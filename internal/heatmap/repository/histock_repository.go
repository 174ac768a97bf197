package repository

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"twstock-heatmap/internal/entity"
	"twstock-heatmap/internal/heatmap/config"
	"twstock-heatmap/pkg/common"
	"twstock-heatmap/pkg/logger"
)

// histockRepository scrapes the histock.tw daily top-losers ranking table.
type histockRepository struct {
	client *http.Client
	cfg    *config.Config
	logger *logger.Logger
}

// NewHistockRepository creates a new instance of histockRepository.
func NewHistockRepository(cfg *config.Config, log *logger.Logger) RankingRepository {
	return &histockRepository{
		client: &http.Client{
			Timeout: cfg.Scraper.Timeout,
		},
		cfg:    cfg,
		logger: log,
	}
}

// FetchTopLosers downloads the ranking page and parses its GridView table.
func (r *histockRepository) FetchTopLosers(ctx context.Context) ([]entity.ScrapedRow, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.Scraper.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create new http request: %w", err)
	}
	req.Header.Set("User-Agent", common.DesktopUserAgent)
	req.Header.Set("Accept-Language", "zh-TW,zh;q=0.9,en-US;q=0.8,en;q=0.7")

	r.logger.Info("Fetching ranking page", logger.StringField("url", r.cfg.Scraper.URL))

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ranking page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received non-OK response from histock: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ranking page: %w", err)
	}

	table := findRankingTable(doc)
	if table == nil {
		return nil, fmt.Errorf("could not find ranking table on page")
	}

	rows := parseRankingTable(table, r.cfg.Scraper.MaxRows)
	r.logger.Info("Parsed ranking table", logger.IntField("rows", len(rows)))
	return rows, nil
}

// findRankingTable locates the ASP.NET GridView table (control id contains
// "gv"), falling back to any table whose header mentions 代號.
func findRankingTable(doc *goquery.Document) *goquery.Selection {
	var table *goquery.Selection
	doc.Find("table").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		id, _ := s.Attr("id")
		if strings.Contains(strings.ToLower(id), "gv") {
			table = s
			return false
		}
		return true
	})
	if table != nil {
		return table
	}

	doc.Find("table").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.Find("th").Length() > 0 && strings.Contains(s.Text(), "代號") {
			table = s
			return false
		}
		return true
	})
	return table
}

// parseRankingTable reads up to maxRows data rows. Column layout: 0=ticker,
// 1=name (both possibly wrapped in a link), 2=price, 4=change percentage.
func parseRankingTable(table *goquery.Selection, maxRows int) []entity.ScrapedRow {
	var rows []entity.ScrapedRow

	table.Find("tr").Each(func(i int, tr *goquery.Selection) {
		if i == 0 || len(rows) >= maxRows { // skip header
			return
		}
		cells := tr.Find("td")
		if cells.Length() < 5 {
			return
		}

		rows = append(rows, entity.ScrapedRow{
			Ticker: cellText(cells.Eq(0)),
			Name:   cellText(cells.Eq(1)),
			Price:  strings.TrimSpace(cells.Eq(2).Text()),
			Change: strings.TrimSpace(cells.Eq(4).Text()),
		})
	})
	return rows
}

// cellText prefers the text of a nested link over the raw cell text.
func cellText(cell *goquery.Selection) string {
	if a := cell.Find("a"); a.Length() > 0 {
		return strings.TrimSpace(a.First().Text())
	}
	return strings.TrimSpace(cell.Text())
}
