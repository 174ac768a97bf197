package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"twstock-heatmap/internal/entity"
	"twstock-heatmap/internal/heatmap/config"
	"twstock-heatmap/internal/heatmap/repository"
	"twstock-heatmap/internal/heatmap/storage"
	"twstock-heatmap/pkg/common"
	"twstock-heatmap/pkg/logger"
	"twstock-heatmap/pkg/telegram"
	"twstock-heatmap/pkg/utils"
)

// CategoryInput pairs a heatmap category with the screenshot to analyze.
type CategoryInput struct {
	Category string
	Path     string
}

// AnalyzerService drives the per-category vision analysis loop.
type AnalyzerService struct {
	cfg        *config.Config
	logger     *logger.Logger
	visionRepo repository.VisionRepository
	reconciler *Reconciler
	notifier   telegram.Notifier // nil when notifications are not configured
}

// NewAnalyzerService creates a new AnalyzerService.
func NewAnalyzerService(cfg *config.Config, log *logger.Logger, visionRepo repository.VisionRepository, reconciler *Reconciler, notifier telegram.Notifier) *AnalyzerService {
	return &AnalyzerService{
		cfg:        cfg,
		logger:     log,
		visionRepo: visionRepo,
		reconciler: reconciler,
		notifier:   notifier,
	}
}

// ParseInputs converts "category:path" arguments into CategoryInputs. A bare
// path gets the "default" category.
func ParseInputs(args []string) []CategoryInput {
	inputs := make([]CategoryInput, 0, len(args))
	for _, arg := range args {
		category, path, found := strings.Cut(arg, ":")
		if !found {
			category, path = "default", arg
		}
		inputs = append(inputs, CategoryInput{Category: category, Path: path})
	}
	return inputs
}

// AutoScan detects heatmap PNGs in dir and derives each one's category from
// its filename: twstock.png is the TSE overview, twstock_<cat>.png is <cat>,
// anything else uses its basename. batch ("tse" or "otc") keeps only
// categories of that market; empty keeps everything.
func (s *AnalyzerService) AutoScan(dir, batch string) ([]CategoryInput, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("heatmaps directory not found: %s", dir)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.png"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan heatmaps directory: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no PNG files found in %s", dir)
	}
	sort.Strings(matches)

	var inputs []CategoryInput
	for _, path := range matches {
		category := CategoryFromFilename(filepath.Base(path))
		if batch != "" && common.CategoryMarket[category] != batch {
			continue
		}
		inputs = append(inputs, CategoryInput{Category: category, Path: path})
		s.logger.Info("Detected heatmap",
			logger.StringField("category", category),
			logger.StringField("file", filepath.Base(path)),
		)
	}
	return inputs, nil
}

// CategoryFromFilename maps a capture filename to its category.
func CategoryFromFilename(filename string) string {
	if filename == "twstock.png" {
		return "tse"
	}
	name := strings.TrimSuffix(filename, ".png")
	return strings.TrimPrefix(name, "twstock_")
}

// Analyze runs the vision model over every input sequentially. A failing
// category yields an empty list and the loop continues; a fixed delay
// separates successive API calls to stay under the provider's rate limit.
func (s *AnalyzerService) Analyze(ctx context.Context, inputs []CategoryInput) map[string][]entity.ResolvedStock {
	results := make(map[string][]entity.ResolvedStock, len(inputs))

	for i, input := range inputs {
		if !utils.ShouldContinue(ctx, s.logger) {
			break
		}

		utils.GoSafe(s.logger, func() {
			results[input.Category] = s.analyzeOne(ctx, input)
		})
		if _, ok := results[input.Category]; !ok {
			results[input.Category] = []entity.ResolvedStock{}
		}

		if i < len(inputs)-1 {
			s.logger.Info("Waiting before next analysis to avoid API rate limits",
				logger.StringField("delay", s.cfg.Analyzer.DelayBetweenCalls.String()))
			select {
			case <-ctx.Done():
			case <-time.After(s.cfg.Analyzer.DelayBetweenCalls):
			}
		}
	}
	return results
}

func (s *AnalyzerService) analyzeOne(ctx context.Context, input CategoryInput) []entity.ResolvedStock {
	s.logger.Info("Analyzing heatmap",
		logger.StringField("category", input.Category),
		logger.StringField("image", input.Path),
	)

	image, err := os.ReadFile(input.Path)
	if err != nil {
		s.logger.Error("Failed to read heatmap image", logger.ErrorField(err), logger.StringField("path", input.Path))
		return []entity.ResolvedStock{}
	}

	analysis, err := s.visionRepo.AnalyzeHeatmap(ctx, image, input.Category)
	if err != nil {
		s.logger.Error("Heatmap analysis failed", logger.ErrorField(err), logger.StringField("category", input.Category))
		return []entity.ResolvedStock{}
	}

	return s.reconciler.Reconcile(analysis.TopLosers)
}

// Run analyzes all inputs and writes the combined artifact to outputPath.
func (s *AnalyzerService) Run(ctx context.Context, inputs []CategoryInput, outputPath string) error {
	if len(inputs) == 0 {
		return fmt.Errorf("no inputs to analyze")
	}

	results := s.Analyze(ctx, inputs)

	envelope := storage.NewEnvelope(results, "taiwan", "nstock.tw", "2.0")
	if err := storage.WriteJSON(outputPath, envelope); err != nil {
		return err
	}
	s.logger.Info("Analysis artifact saved", logger.StringField("path", outputPath))

	if s.notifier != nil {
		if err := s.notifier.SendMessage(telegram.FormatTopLosers(results)); err != nil {
			// Notification is best-effort; the artifact is already on disk.
			s.logger.Warn("Failed to send Telegram notification", logger.ErrorField(err))
		}
	}

	categories := make([]string, 0, len(results))
	for c := range results {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	s.logger.Info("Analysis complete", logger.StringField("categories", strings.Join(categories, ", ")))
	return nil
}
