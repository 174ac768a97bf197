package http

import (
	"net/http"
	"os"

	"github.com/labstack/echo/v4"

	"twstock-heatmap/internal/heatmap/config"
	"twstock-heatmap/pkg/logger"
)

// ResultsHandler exposes the pipeline artifacts to the front end.
type ResultsHandler struct {
	cfg    *config.Config
	logger *logger.Logger
}

// NewResultsHandler creates a new ResultsHandler.
func NewResultsHandler(cfg *config.Config, logger *logger.Logger) *ResultsHandler {
	return &ResultsHandler{cfg: cfg, logger: logger}
}

// RegisterRoutes registers the artifact routes on the Echo instance.
func (h *ResultsHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/top-losers", h.GetTopLosers)
	e.GET("/api/ranking", h.GetRanking)
	e.Static("/heatmaps", h.cfg.Capture.OutputDir)
	e.GET("/", h.GetIndex)
}

// GetTopLosers serves the vision-analysis artifact.
func (h *ResultsHandler) GetTopLosers(c echo.Context) error {
	return h.serveArtifact(c, h.cfg.Analyzer.Output)
}

// GetRanking serves the histock scrape artifact.
func (h *ResultsHandler) GetRanking(c echo.Context) error {
	return h.serveArtifact(c, h.cfg.Scraper.Output)
}

// GetIndex serves the capture viewer page when one exists.
func (h *ResultsHandler) GetIndex(c echo.Context) error {
	index := h.cfg.Capture.OutputDir + "/index.html"
	if _, err := os.Stat(index); err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no capture has been taken yet"})
	}
	return c.File(index)
}

func (h *ResultsHandler) serveArtifact(c echo.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		h.logger.Warn("Requested artifact not found", logger.StringField("path", path))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "artifact not generated yet"})
	}
	return c.File(path)
}
