package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	delivery "twstock-heatmap/internal/heatmap/delivery/http"
	"twstock-heatmap/pkg/logger"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the generated artifacts over HTTP",
	Run:   runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) {
	cfg, appLogger := bootstrap()
	defer func() { _ = appLogger.Sync() }()

	addr := serveAddr
	if addr == "" {
		addr = fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	delivery.NewResultsHandler(cfg, appLogger).RegisterRoutes(e)

	go func() {
		appLogger.Info("Artifact server listening", logger.StringField("addr", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Server failed", logger.ErrorField(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server shutdown failed", logger.ErrorField(err))
	}
	appLogger.Info("Artifact server stopped")
}
