package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"twstock-heatmap/internal/heatmap/service"
	"twstock-heatmap/pkg/logger"
)

var (
	analyzeInputs []string
	analyzeAuto   bool
	analyzeBatch  string
	analyzeOutput string
	analyzeToken  string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze heatmap screenshots with a vision model",
	Run:   runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringSliceVarP(&analyzeInputs, "inputs", "i", nil, "Input images as 'category:path' (e.g. tse:heatmaps/twstock.png)")
	analyzeCmd.Flags().BoolVar(&analyzeAuto, "auto", false, "Automatically scan the heatmaps directory")
	analyzeCmd.Flags().StringVar(&analyzeBatch, "batch", "", "Batch mode: analyze only tse or otc categories")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "Output JSON path")
	analyzeCmd.Flags().StringVar(&analyzeToken, "token", "", "GitHub Models API token")
}

func runAnalyze(cmd *cobra.Command, args []string) {
	cfg, appLogger := bootstrap()
	defer func() { _ = appLogger.Sync() }()

	if len(analyzeInputs) == 0 && !analyzeAuto {
		appLogger.Fatal("Either --inputs or --auto must be specified")
	}
	if analyzeBatch != "" && analyzeBatch != "tse" && analyzeBatch != "otc" {
		appLogger.Fatal("Invalid --batch value, must be tse or otc", logger.StringField("batch", analyzeBatch))
	}
	cfg.GitHub.Token = resolveToken(analyzeToken, cfg)
	if analyzeOutput != "" {
		cfg.Analyzer.Output = analyzeOutput
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	analyzer := newAnalyzer(ctx, cfg, appLogger)

	var (
		inputs []service.CategoryInput
		err    error
	)
	if analyzeAuto {
		inputs, err = analyzer.AutoScan(cfg.Analyzer.HeatmapsDir, analyzeBatch)
		if err != nil {
			appLogger.Fatal("Auto-scan failed", logger.ErrorField(err))
		}
	} else {
		inputs = service.ParseInputs(analyzeInputs)
	}

	if err := analyzer.Run(ctx, inputs, cfg.Analyzer.Output); err != nil {
		appLogger.Fatal("Analysis failed", logger.ErrorField(err))
	}
}
