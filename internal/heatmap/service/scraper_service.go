package service

import (
	"context"

	"twstock-heatmap/internal/entity"
	"twstock-heatmap/internal/heatmap/config"
	"twstock-heatmap/internal/heatmap/repository"
	"twstock-heatmap/internal/heatmap/storage"
	"twstock-heatmap/pkg/logger"
)

// ScraperService fetches the histock ranking table and annotates its rows
// with industry/market from the mapping table.
type ScraperService struct {
	cfg         *config.Config
	logger      *logger.Logger
	rankingRepo repository.RankingRepository
	mapping     repository.StockMappingRepository
}

// NewScraperService creates a new ScraperService.
func NewScraperService(cfg *config.Config, log *logger.Logger, rankingRepo repository.RankingRepository, mapping repository.StockMappingRepository) *ScraperService {
	return &ScraperService{
		cfg:         cfg,
		logger:      log,
		rankingRepo: rankingRepo,
		mapping:     mapping,
	}
}

// Scrape returns the annotated ranking rows. Rows with unknown tickers keep
// empty industry/market fields; they are never dropped.
func (s *ScraperService) Scrape(ctx context.Context) ([]entity.ScrapedRow, error) {
	rows, err := s.rankingRepo.FetchTopLosers(ctx)
	if err != nil {
		return nil, err
	}

	for i := range rows {
		if m, ok := s.mapping.GetByTicker(rows[i].Ticker); ok {
			rows[i].Industry = m.Industry
			rows[i].Market = m.Market
		}
	}
	return rows, nil
}

// Run scrapes the ranking and writes the artifact to outputPath.
func (s *ScraperService) Run(ctx context.Context, outputPath string) error {
	rows, err := s.Scrape(ctx)
	if err != nil {
		return err
	}

	envelope := storage.NewEnvelope(rows, "taiwan", s.cfg.Scraper.URL, "")
	envelope.Count = len(rows)
	if err := storage.WriteJSON(outputPath, envelope); err != nil {
		return err
	}

	s.logger.Info("Scrape artifact saved",
		logger.StringField("path", outputPath),
		logger.IntField("rows", len(rows)),
	)
	return nil
}
