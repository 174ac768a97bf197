package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"twstock-heatmap/internal/heatmap/config"
	"twstock-heatmap/pkg/common"
	"twstock-heatmap/pkg/logger"
)

// CaptureService screenshots the nstock.tw heatmap with a headless browser.
type CaptureService struct {
	cfg    *config.Config
	logger *logger.Logger
}

// NewCaptureService creates a new CaptureService.
func NewCaptureService(cfg *config.Config, log *logger.Logger) *CaptureService {
	return &CaptureService{cfg: cfg, logger: log}
}

// stealthJS masks the most common headless-browser fingerprints before any
// page script runs.
const stealthJS = `
Object.defineProperty(navigator, 'webdriver', { get: () => undefined });
Object.defineProperty(navigator, 'plugins', { get: () => [1, 2, 3, 4, 5] });
Object.defineProperty(navigator, 'languages', { get: () => ['zh-TW', 'zh', 'en-US', 'en'] });
`

// hideOverlaysJS removes navigation bars, ads and floating widgets that would
// otherwise sit on top of the treemap in the screenshot.
const hideOverlaysJS = `
(() => {
	const selectorsToHide = [
		'nav', 'header', '.navbar', '.nav-bar',
		'.ad', '.ads', '[class*="advertisement"]',
		'.popup', '.modal', '.overlay',
		'[class*="cookie"]', '[class*="consent"]',
		'.floating', '[style*="position: fixed"]'
	];
	selectorsToHide.forEach(selector => {
		document.querySelectorAll(selector).forEach(el => { el.style.display = 'none'; });
	});
	document.querySelectorAll('*').forEach(el => {
		const zIndex = parseInt(window.getComputedStyle(el).zIndex) || 0;
		if (zIndex > 1000 && !el.closest('[class*="treemap"], [class*="heatmap"], [class*="chart"]')) {
			el.style.display = 'none';
		}
	});
	return true;
})()
`

// clipAreaJS locates the treemap (or main content) bounding box; the fallback
// is the viewport below the header.
const clipAreaJS = `
(() => {
	const selectors = [
		'.treemap-container', '#treemap', '[class*="treemap"]', '[class*="heatmap"]',
		'.market-heatmap', '.treemap-wrapper', '.heatmap-wrapper',
		'.market-map', '.chart-area', 'canvas', 'main', '.main-content', '#app'
	];
	for (const sel of selectors) {
		const el = document.querySelector(sel);
		if (el) {
			const rect = el.getBoundingClientRect();
			if (rect.width > 200 && rect.height > 200) {
				return { x: rect.x, y: rect.y, width: rect.width, height: rect.height };
			}
		}
	}
	return { x: 0, y: 80, width: 1920, height: 900 };
})()
`

type clipArea struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// HeatmapURL builds the capture URL for a category type; unknown types fall
// back to the whole-market overview.
func (s *CaptureService) HeatmapURL(mapType string) string {
	params, ok := common.CategoryParams[mapType]
	if !ok {
		params = common.CategoryParams["all"]
	}
	return s.cfg.Capture.BaseURL + params
}

// OutputFilename returns the conventional PNG name for a capture type, the
// same convention AutoScan reverses ("all" is the TSE overview).
func OutputFilename(mapType string) string {
	if mapType == "all" {
		return "twstock.png"
	}
	return fmt.Sprintf("twstock_%s.png", mapType)
}

// Capture navigates to the heatmap for mapType, waits for the treemap to
// render and writes a PNG to outputPath.
func (s *CaptureService) Capture(ctx context.Context, mapType, outputPath string) error {
	url := s.HeatmapURL(mapType)
	s.logger.Info("Capturing heatmap",
		logger.StringField("type", mapType),
		logger.StringField("url", url),
		logger.StringField("output", outputPath),
	)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", !s.cfg.Capture.NoHeadless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("lang", "zh-TW"),
		chromedp.UserAgent(s.cfg.Capture.UserAgent),
		chromedp.WindowSize(s.cfg.Capture.Width, s.cfg.Capture.Height),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var buf []byte
	err := chromedp.Run(browserCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			if err := emulation.SetTimezoneOverride("Asia/Taipei").Do(ctx); err != nil {
				return err
			}
			_, err := page.AddScriptToEvaluateOnNewDocument(stealthJS).Do(ctx)
			return err
		}),
		chromedp.Navigate(url),
		// Fixed wait for Nuxt hydration and treemap data; the page has no
		// reliable render-complete signal.
		chromedp.Sleep(s.cfg.Capture.RenderWait),
		chromedp.Evaluate(hideOverlaysJS, nil),
		chromedp.ActionFunc(s.captureClipped(&buf)),
	)
	if err != nil {
		return fmt.Errorf("failed to capture heatmap %s: %w", mapType, err)
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create capture directory: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, buf, 0o644); err != nil {
		return fmt.Errorf("failed to save screenshot: %w", err)
	}

	s.logger.Info("Screenshot saved",
		logger.StringField("path", outputPath),
		logger.IntField("bytes", len(buf)),
	)
	return nil
}

// captureClipped screenshots the treemap bounding box reported by the page.
func (s *CaptureService) captureClipped(buf *[]byte) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		var clip clipArea
		if err := chromedp.Evaluate(clipAreaJS, &clip).Do(ctx); err != nil {
			return err
		}
		shot, err := page.CaptureScreenshot().
			WithFormat(page.CaptureScreenshotFormatPng).
			WithClip(&page.Viewport{
				X:      clip.X,
				Y:      clip.Y,
				Width:  clip.Width,
				Height: clip.Height,
				Scale:  1,
			}).
			Do(ctx)
		if err != nil {
			return err
		}
		*buf = shot
		return nil
	}
}

// CaptureAll captures every configured category into the capture output dir,
// continuing past individual failures.
func (s *CaptureService) CaptureAll(ctx context.Context) error {
	var failed int
	for _, mapType := range s.cfg.Capture.Types {
		outputPath := filepath.Join(s.cfg.Capture.OutputDir, OutputFilename(mapType))
		if err := s.Capture(ctx, mapType, outputPath); err != nil {
			s.logger.Error("Capture failed", logger.ErrorField(err), logger.StringField("type", mapType))
			failed++
			continue
		}
		if !s.cfg.Capture.NoHTML {
			if err := s.WriteViewerHTML(mapType, OutputFilename(mapType)); err != nil {
				s.logger.Warn("Failed to write viewer HTML", logger.ErrorField(err))
			}
		}
	}
	if failed == len(s.cfg.Capture.Types) {
		return fmt.Errorf("all %d captures failed", failed)
	}
	return nil
}
