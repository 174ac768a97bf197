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

var scrapeOutput string

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape the histock.tw top-losers ranking table",
	Run:   runScrape,
}

func init() {
	scrapeCmd.Flags().StringVarP(&scrapeOutput, "output", "o", "", "Output JSON path")
}

func runScrape(cmd *cobra.Command, args []string) {
	cfg, appLogger := bootstrap()
	defer func() { _ = appLogger.Sync() }()

	if scrapeOutput != "" {
		cfg.Scraper.Output = scrapeOutput
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mapping, err := repository.NewStockMappingRepository(cfg.Mapping.Path, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to load stock mapping", logger.ErrorField(err))
	}

	scraper := service.NewScraperService(cfg, appLogger, repository.NewHistockRepository(cfg, appLogger), mapping)
	if err := scraper.Run(ctx, cfg.Scraper.Output); err != nil {
		appLogger.Fatal("Scrape failed", logger.ErrorField(err))
	}
}
