package repository

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"twstock-heatmap/internal/entity"
	"twstock-heatmap/pkg/logger"
)

// stockMappingRepository is an in-memory StockMappingRepository loaded from
// data/StockMapping.csv. Immutable after load.
type stockMappingRepository struct {
	byName   map[string]entity.StockMapping
	byTicker map[string]entity.StockMapping
}

// NewStockMappingRepository loads the mapping CSV (columns: name, ticker,
// industry, market). A missing file yields an empty table, not an error:
// reconciliation then simply resolves nothing. Malformed rows are skipped.
func NewStockMappingRepository(path string, log *logger.Logger) (StockMappingRepository, error) {
	repo := &stockMappingRepository{
		byName:   make(map[string]entity.StockMapping),
		byTicker: make(map[string]entity.StockMapping),
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn("Stock mapping file not found, using empty table", logger.StringField("path", path))
			return repo, nil
		}
		return nil, fmt.Errorf("failed to open stock mapping file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return repo, nil
		}
		return nil, fmt.Errorf("failed to read stock mapping header: %w", err)
	}
	col := columnIndex(header)

	skipped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		m := entity.StockMapping{
			Name:     field(record, col["name"]),
			Ticker:   field(record, col["ticker"]),
			Industry: field(record, col["industry"]),
			Market:   field(record, col["market"]),
		}
		if m.Name == "" || m.Ticker == "" {
			skipped++
			continue
		}
		// last write wins on duplicate names
		repo.byName[m.Name] = m
		repo.byTicker[m.Ticker] = m
	}

	log.Info("Loaded stock mappings",
		logger.StringField("path", path),
		logger.IntField("count", len(repo.byName)),
		logger.IntField("skipped", skipped),
	)
	return repo, nil
}

// GetByName looks up a mapping by company display name. Exact match only.
func (r *stockMappingRepository) GetByName(name string) (entity.StockMapping, bool) {
	m, ok := r.byName[name]
	return m, ok
}

// GetByTicker looks up a mapping by ticker.
func (r *stockMappingRepository) GetByTicker(ticker string) (entity.StockMapping, bool) {
	m, ok := r.byTicker[ticker]
	return m, ok
}

// Len returns the number of loaded name entries.
func (r *stockMappingRepository) Len() int {
	return len(r.byName)
}

func columnIndex(header []string) map[string]int {
	col := map[string]int{"name": -1, "ticker": -1, "industry": -1, "market": -1}
	for i, h := range header {
		if _, ok := col[h]; ok {
			col[h] = i
		}
	}
	return col
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
