package config

import (
	"time"

	"twstock-heatmap/pkg/common"
	"twstock-heatmap/pkg/config"
)

// Capture holds browser capture configuration.
type Capture struct {
	BaseURL    string        `mapstructure:"base_url"`
	OutputDir  string        `mapstructure:"output_dir"`
	UserAgent  string        `mapstructure:"user_agent"`
	Width      int           `mapstructure:"width"`
	Height     int           `mapstructure:"height"`
	RenderWait time.Duration `mapstructure:"render_wait"`
	// Zero values keep the defaults: headless capture with a viewer page.
	NoHeadless bool `mapstructure:"no_headless"`
	NoHTML     bool `mapstructure:"no_html"`
	// Types lists the categories captured by `capture --all` and `run`.
	Types []string `mapstructure:"types"`
}

// GitHubModels holds the configuration for the GitHub Models vision API.
type GitHubModels struct {
	Endpoint            string  `mapstructure:"endpoint"`
	Model               string  `mapstructure:"model"`
	Token               string  `mapstructure:"token"`
	MaxTokens           int     `mapstructure:"max_tokens"`
	Temperature         float64 `mapstructure:"temperature"`
	MaxRequestPerMinute int     `mapstructure:"max_request_per_minute"`
}

// Gemini holds the configuration for the Gemini vision API.
type Gemini struct {
	APIKey              string `mapstructure:"api_key"`
	Model               string `mapstructure:"model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// AI selects the vision provider.
type AI struct {
	Provider string `mapstructure:"provider"`
}

// Analyzer holds reconciliation and pacing configuration.
type Analyzer struct {
	// DeclineThreshold keeps only candidates at or below this change
	// percentage, e.g. -3.0 keeps -5.2% and drops -1.0%. Filtering is on
	// unless DisableThreshold is set.
	DeclineThreshold  float64       `mapstructure:"decline_threshold"`
	DisableThreshold  bool          `mapstructure:"disable_threshold"`
	DelayBetweenCalls time.Duration `mapstructure:"delay_between_calls"`
	HeatmapsDir       string        `mapstructure:"heatmaps_dir"`
	Output            string        `mapstructure:"output"`
}

// Scraper holds histock scrape configuration.
type Scraper struct {
	URL     string        `mapstructure:"url"`
	MaxRows int           `mapstructure:"max_rows"`
	Timeout time.Duration `mapstructure:"timeout"`
	Output  string        `mapstructure:"output"`
}

// Mapping locates the stock name→ticker reference table.
type Mapping struct {
	Path string `mapstructure:"path"`
}

// Telegram holds configuration for the optional result notifier.
type Telegram struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Config holds the full configuration for the heatmap pipeline.
type Config struct {
	App      config.App    `mapstructure:"app"`
	Logger   config.Logger `mapstructure:"logger"`
	Server   config.Server `mapstructure:"server"`
	Capture  Capture       `mapstructure:"capture"`
	GitHub   GitHubModels  `mapstructure:"github_models"`
	Gemini   Gemini        `mapstructure:"gemini"`
	AI       AI            `mapstructure:"ai"`
	Analyzer Analyzer      `mapstructure:"analyzer"`
	Scraper  Scraper       `mapstructure:"scraper"`
	Mapping  Mapping       `mapstructure:"mapping"`
	Telegram Telegram      `mapstructure:"telegram"`
}

// Load loads the heatmap configuration from the given path and fills in the
// defaults the original sources used.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Capture.BaseURL == "" {
		c.Capture.BaseURL = common.HeatmapBaseURL
	}
	if c.Capture.OutputDir == "" {
		c.Capture.OutputDir = "heatmaps"
	}
	if c.Capture.UserAgent == "" {
		c.Capture.UserAgent = common.DesktopUserAgent
	}
	if c.Capture.Width == 0 {
		c.Capture.Width = 1920
	}
	if c.Capture.Height == 0 {
		c.Capture.Height = 1080
	}
	if c.Capture.RenderWait == 0 {
		c.Capture.RenderWait = 20 * time.Second
	}
	if len(c.Capture.Types) == 0 {
		c.Capture.Types = []string{"all", "otc-elec", "otc-semi", "otc-construction"}
	}
	if c.GitHub.Endpoint == "" {
		c.GitHub.Endpoint = "https://models.inference.ai.azure.com/chat/completions"
	}
	if c.GitHub.Model == "" {
		c.GitHub.Model = "gpt-4o"
	}
	if c.GitHub.MaxTokens == 0 {
		c.GitHub.MaxTokens = 1000
	}
	if c.GitHub.Temperature == 0 {
		c.GitHub.Temperature = 0.1
	}
	if c.GitHub.MaxRequestPerMinute == 0 {
		c.GitHub.MaxRequestPerMinute = 6
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.0-flash"
	}
	if c.Gemini.MaxRequestPerMinute == 0 {
		c.Gemini.MaxRequestPerMinute = 10
	}
	if c.AI.Provider == "" {
		c.AI.Provider = "github-models"
	}
	if c.Analyzer.DeclineThreshold == 0 {
		c.Analyzer.DeclineThreshold = -3.0
	}
	if c.Analyzer.DelayBetweenCalls == 0 {
		c.Analyzer.DelayBetweenCalls = 10 * time.Second
	}
	if c.Analyzer.HeatmapsDir == "" {
		c.Analyzer.HeatmapsDir = "heatmaps"
	}
	if c.Analyzer.Output == "" {
		c.Analyzer.Output = "api/twstock_top_losers.json"
	}
	if c.Scraper.URL == "" {
		c.Scraper.URL = common.HistockRankURL
	}
	if c.Scraper.MaxRows == 0 {
		c.Scraper.MaxRows = 50
	}
	if c.Scraper.Timeout == 0 {
		c.Scraper.Timeout = 30 * time.Second
	}
	if c.Scraper.Output == "" {
		c.Scraper.Output = "api/histock_top_losers.json"
	}
	if c.Mapping.Path == "" {
		c.Mapping.Path = "data/StockMapping.csv"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
}
