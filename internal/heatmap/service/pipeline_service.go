package service

import (
	"context"

	"github.com/robfig/cron/v3"

	"twstock-heatmap/internal/heatmap/config"
	"twstock-heatmap/pkg/logger"
	"twstock-heatmap/pkg/utils"
)

// PipelineService runs the full refresh: capture all categories, analyze the
// captures, scrape the ranking page.
type PipelineService struct {
	cfg      *config.Config
	logger   *logger.Logger
	capture  *CaptureService
	analyzer *AnalyzerService
	scraper  *ScraperService
}

// NewPipelineService creates a new PipelineService.
func NewPipelineService(cfg *config.Config, log *logger.Logger, capture *CaptureService, analyzer *AnalyzerService, scraper *ScraperService) *PipelineService {
	return &PipelineService{
		cfg:      cfg,
		logger:   log,
		capture:  capture,
		analyzer: analyzer,
		scraper:  scraper,
	}
}

// RunOnce executes one full refresh. Stage failures are logged and do not
// stop later stages; each stage's artifact is independent.
func (p *PipelineService) RunOnce(ctx context.Context) {
	if err := p.capture.CaptureAll(ctx); err != nil {
		p.logger.Error("Capture stage failed", logger.ErrorField(err))
	}

	inputs, err := p.analyzer.AutoScan(p.cfg.Analyzer.HeatmapsDir, "")
	if err != nil {
		p.logger.Error("Analyze stage found no inputs", logger.ErrorField(err))
	} else if err := p.analyzer.Run(ctx, inputs, p.cfg.Analyzer.Output); err != nil {
		p.logger.Error("Analyze stage failed", logger.ErrorField(err))
	}

	if err := p.scraper.Run(ctx, p.cfg.Scraper.Output); err != nil {
		p.logger.Error("Scrape stage failed", logger.ErrorField(err))
	}
}

// RunScheduled runs the pipeline on the given cron spec until the context is
// cancelled. The first refresh happens immediately.
func (p *PipelineService) RunScheduled(ctx context.Context, spec string) error {
	p.RunOnce(ctx)

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if !utils.ShouldContinue(ctx, p.logger) {
			return
		}
		p.logger.Info("Scheduled refresh starting", logger.StringField("schedule", spec))
		p.RunOnce(ctx)
	})
	if err != nil {
		return err
	}

	c.Start()
	<-ctx.Done()

	stopCtx := c.Stop()
	<-stopCtx.Done()
	p.logger.Info("Scheduler stopped")
	return nil
}
