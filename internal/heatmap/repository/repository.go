package repository

import (
	"context"
	"errors"

	"twstock-heatmap/internal/entity"
	"twstock-heatmap/internal/heatmap/dto"
)

// ErrMalformedModelResponse marks a vision API reply whose content could not
// be decoded into a HeatmapAnalysis, even after repair.
var ErrMalformedModelResponse = errors.New("malformed model response")

// VisionRepository analyzes a heatmap screenshot with a multimodal model.
type VisionRepository interface {
	AnalyzeHeatmap(ctx context.Context, image []byte, industry string) (*dto.HeatmapAnalysis, error)
}

// RankingRepository fetches the histock top-losers ranking table. Rows come
// back without industry/market annotation; that is the scraper service's job.
type RankingRepository interface {
	FetchTopLosers(ctx context.Context) ([]entity.ScrapedRow, error)
}

// StockMappingRepository is the read-only name→ticker reference table.
type StockMappingRepository interface {
	GetByName(name string) (entity.StockMapping, bool)
	GetByTicker(ticker string) (entity.StockMapping, bool)
	Len() int
}
