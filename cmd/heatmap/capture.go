package main

import (
	"context"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"twstock-heatmap/internal/heatmap/service"
	"twstock-heatmap/pkg/logger"
)

var (
	captureType   string
	captureAll    bool
	captureOutput string
	noHeadless    bool
	noHTML        bool
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture nstock.tw heatmap screenshots",
	Run:   runCapture,
}

func init() {
	captureCmd.Flags().StringVarP(&captureType, "type", "t", "all", "Industry type (all, otc-elec, otc-semi, otc-construction)")
	captureCmd.Flags().BoolVar(&captureAll, "all", false, "Capture every configured category")
	captureCmd.Flags().StringVarP(&captureOutput, "output", "o", "", "Output PNG path (default: based on type)")
	captureCmd.Flags().BoolVar(&noHeadless, "no-headless", false, "Run with a visible browser (for debugging)")
	captureCmd.Flags().BoolVar(&noHTML, "no-html", false, "Skip writing the viewer HTML page")
}

func runCapture(cmd *cobra.Command, args []string) {
	cfg, appLogger := bootstrap()
	defer func() { _ = appLogger.Sync() }()

	if noHeadless {
		cfg.Capture.NoHeadless = true
	}
	if noHTML {
		cfg.Capture.NoHTML = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	captureSvc := service.NewCaptureService(cfg, appLogger)

	if captureAll {
		if err := captureSvc.CaptureAll(ctx); err != nil {
			appLogger.Fatal("Capture failed", logger.ErrorField(err))
		}
		return
	}

	pngName := service.OutputFilename(captureType)
	outputPath := captureOutput
	if outputPath == "" {
		outputPath = filepath.Join(cfg.Capture.OutputDir, pngName)
	}

	if err := captureSvc.Capture(ctx, captureType, outputPath); err != nil {
		appLogger.Fatal("Capture failed", logger.ErrorField(err))
	}
	if !cfg.Capture.NoHTML {
		if err := captureSvc.WriteViewerHTML(captureType, pngName); err != nil {
			appLogger.Warn("Failed to write viewer HTML", logger.ErrorField(err))
		}
	}
}
