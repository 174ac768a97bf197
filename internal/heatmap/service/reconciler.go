package service

import (
	"strconv"
	"strings"

	"twstock-heatmap/internal/entity"
	"twstock-heatmap/internal/heatmap/dto"
	"twstock-heatmap/internal/heatmap/repository"
	"twstock-heatmap/pkg/logger"
)

// Reconciler resolves vision-model candidates against the mapping table and
// filters them by decline magnitude.
type Reconciler struct {
	mapping   repository.StockMappingRepository
	threshold *float64
	logger    *logger.Logger
}

// NewReconciler creates a Reconciler. A nil threshold disables decline
// filtering; otherwise only candidates with change <= *threshold survive.
func NewReconciler(mapping repository.StockMappingRepository, threshold *float64, log *logger.Logger) *Reconciler {
	return &Reconciler{mapping: mapping, threshold: threshold, logger: log}
}

// Reconcile is a stable filter over candidates: it never reorders, never
// invents entries and never fails. Candidates are dropped when their name is
// not in the mapping (likely a model misidentification), when their change
// string does not parse, or when they fall short of the decline threshold.
func (r *Reconciler) Reconcile(candidates []dto.Candidate) []entity.ResolvedStock {
	resolved := make([]entity.ResolvedStock, 0, len(candidates))
	var unresolved, invalid, aboveThreshold int

	for _, c := range candidates {
		mapping, ok := r.mapping.GetByName(c.Name)
		if !ok {
			r.logger.Warn("No ticker found for stock, skipping",
				logger.StringField("name", c.Name))
			unresolved++
			continue
		}

		value, err := ParseChangePercent(c.Change)
		if err != nil {
			r.logger.Warn("Invalid change format, skipping",
				logger.StringField("name", c.Name),
				logger.StringField("change", c.Change))
			invalid++
			continue
		}

		if r.threshold != nil && value > *r.threshold {
			aboveThreshold++
			continue
		}

		resolved = append(resolved, entity.ResolvedStock{
			Ticker: mapping.Ticker,
			Name:   c.Name,
			Change: c.Change,
		})
	}

	if unresolved > 0 {
		r.logger.Info("Filtered out stocks without valid ticker", logger.IntField("count", unresolved))
	}
	if invalid > 0 {
		r.logger.Info("Filtered out stocks with invalid change format", logger.IntField("count", invalid))
	}
	if aboveThreshold > 0 {
		r.logger.Info("Filtered out stocks above decline threshold", logger.IntField("count", aboveThreshold))
	}

	return resolved
}

// ParseChangePercent parses strings like "-5.23%" or "+1.2" into a signed
// percentage value.
func ParseChangePercent(s string) (float64, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimSuffix(cleaned, "%")
	cleaned = strings.TrimPrefix(cleaned, "+")
	return strconv.ParseFloat(cleaned, 64)
}
