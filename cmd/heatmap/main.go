package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"google.golang.org/genai"

	"twstock-heatmap/internal/heatmap/config"
	"twstock-heatmap/internal/heatmap/repository"
	"twstock-heatmap/internal/heatmap/service"
	"twstock-heatmap/pkg/logger"
	"twstock-heatmap/pkg/telegram"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "twstock-heatmap",
	Short: "Taiwan stock market heatmap top-losers pipeline",
	Long:  `Captures nstock.tw heatmap screenshots, extracts top losers with a vision model, scrapes the histock.tw ranking table and publishes JSON artifacts.`,
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the configuration file")

	rootCmd.AddCommand(captureCmd, analyzeCmd, scrapeCmd, runCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing twstock-heatmap CLI: %s\n", err)
		os.Exit(1)
	}
}

// bootstrap loads configuration and builds the logger. Setup failures are
// fatal by design: nothing downstream can recover from them.
func bootstrap() (*config.Config, *logger.Logger) {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	return cfg, appLogger
}

// resolveToken picks the vision API token: flag beats config beats the
// GITHUB_TOKEN environment variable (which godotenv may have filled from a
// local .env file).
func resolveToken(flagToken string, cfg *config.Config) string {
	if flagToken != "" {
		return flagToken
	}
	if cfg.GitHub.Token != "" {
		return cfg.GitHub.Token
	}
	return os.Getenv("GITHUB_TOKEN")
}

// newVisionRepository builds the configured vision provider.
func newVisionRepository(ctx context.Context, cfg *config.Config, appLogger *logger.Logger) repository.VisionRepository {
	switch cfg.AI.Provider {
	case "github-models":
		if cfg.GitHub.Token == "" {
			appLogger.Fatal("GitHub Models token required (--token flag, github_models.token config or GITHUB_TOKEN env)")
		}
		return repository.NewGitHubModelsRepository(cfg, appLogger)
	case "gemini":
		if cfg.Gemini.APIKey == "" {
			appLogger.Fatal("Gemini API key required (gemini.api_key config)")
		}
		genAiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.Gemini.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			appLogger.Fatal("Failed to initialize Gemini client", logger.ErrorField(err))
		}
		return repository.NewGeminiRepository(cfg, appLogger, genAiClient)
	default:
		appLogger.Fatal("Invalid AI provider specified in config", logger.StringField("provider", cfg.AI.Provider))
		return nil
	}
}

// newNotifier builds the Telegram notifier when configured; nil disables
// notifications.
func newNotifier(cfg *config.Config, appLogger *logger.Logger) telegram.Notifier {
	if cfg.Telegram.BotToken == "" {
		return nil
	}
	notifier, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		appLogger.Warn("Failed to initialize Telegram notifier, continuing without", logger.ErrorField(err))
		return nil
	}
	return notifier
}

// newAnalyzer wires the full analysis stack.
func newAnalyzer(ctx context.Context, cfg *config.Config, appLogger *logger.Logger) *service.AnalyzerService {
	mapping, err := repository.NewStockMappingRepository(cfg.Mapping.Path, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to load stock mapping", logger.ErrorField(err))
	}

	var threshold *float64
	if !cfg.Analyzer.DisableThreshold {
		threshold = &cfg.Analyzer.DeclineThreshold
	}
	reconciler := service.NewReconciler(mapping, threshold, appLogger)

	visionRepo := newVisionRepository(ctx, cfg, appLogger)
	return service.NewAnalyzerService(cfg, appLogger, visionRepo, reconciler, newNotifier(cfg, appLogger))
}
