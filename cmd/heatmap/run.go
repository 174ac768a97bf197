package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"twstock-heatmap/internal/heatmap/repository"
	"twstock-heatmap/internal/heatmap/service"
	"twstock-heatmap/pkg/logger"
)

var runSchedule string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: capture, analyze, scrape",
	Run:   runPipeline,
}

func init() {
	runCmd.Flags().StringVar(&runSchedule, "schedule", "", "Cron spec for periodic refresh (e.g. \"0 * * * *\"); empty runs once")
	runCmd.Flags().StringVar(&analyzeToken, "token", "", "GitHub Models API token")
}

func runPipeline(cmd *cobra.Command, args []string) {
	cfg, appLogger := bootstrap()
	defer func() { _ = appLogger.Sync() }()

	cfg.GitHub.Token = resolveToken(analyzeToken, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mapping, err := repository.NewStockMappingRepository(cfg.Mapping.Path, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to load stock mapping", logger.ErrorField(err))
	}

	captureSvc := service.NewCaptureService(cfg, appLogger)
	analyzer := newAnalyzer(ctx, cfg, appLogger)
	scraper := service.NewScraperService(cfg, appLogger, repository.NewHistockRepository(cfg, appLogger), mapping)

	pipeline := service.NewPipelineService(cfg, appLogger, captureSvc, analyzer, scraper)

	if runSchedule == "" {
		pipeline.RunOnce(ctx)
		return
	}
	if err := pipeline.RunScheduled(ctx, runSchedule); err != nil {
		appLogger.Fatal("Scheduler failed", logger.ErrorField(err))
	}
}
