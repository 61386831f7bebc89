package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Target is one symbol/timeframe pair to scan.
type Target struct {
	Symbol    string `yaml:"symbol"`
	Timeframe string `yaml:"timeframe"`
	Bars      int    `yaml:"bars"` // window size fetched per scan
}

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
		CSVDir  string `yaml:"csv_dir"`
	} `yaml:"data_source"`
	Targets  []Target `yaml:"targets"`
	Analysis struct {
		Lookback          int  `yaml:"lookback"`
		MinSwingsForTrend int  `yaml:"min_swings_for_trend"`
		UseWick           bool `yaml:"use_wick"` // break on wick extremes instead of close
	} `yaml:"analysis"`
	Schedule struct {
		ScanCron string `yaml:"scan_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	State struct {
		File string `yaml:"file"`
	} `yaml:"state"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies .env and environment
// variable overrides, then defaults.
func Load(path string) (*Config, error) {
	// Optional .env next to the binary; absence is fine.
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("BARS_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("BARS_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("BARS_CSV_DIR"); v != "" {
		cfg.DataSource.CSVDir = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("SCAN_CRON"); v != "" {
		cfg.Schedule.ScanCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SWING_LOOKBACK"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Analysis.Lookback = n
		}
	}

	// Defaults
	if len(cfg.Targets) == 0 {
		cfg.Targets = []Target{{Symbol: "EURUSD", Timeframe: "H1"}}
	}
	for i := range cfg.Targets {
		if cfg.Targets[i].Bars == 0 {
			cfg.Targets[i].Bars = 500
		}
	}
	if cfg.Analysis.Lookback == 0 {
		cfg.Analysis.Lookback = 5
	}
	if cfg.Analysis.MinSwingsForTrend == 0 {
		cfg.Analysis.MinSwingsForTrend = 2
	}
	if cfg.Schedule.ScanCron == "" {
		// Hourly at :05, after H1 bars close.
		cfg.Schedule.ScanCron = "0 5 * * * *"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/structure.db"
	}
	if cfg.State.File == "" {
		cfg.State.File = "data/scan_state.json"
	}

	return cfg, nil
}

// Validate checks that required fields are set and parameters are sane.
// Bad analysis parameters fail here, before any scanning begins.
func (c *Config) Validate() error {
	if c.DataSource.BaseURL == "" && c.DataSource.CSVDir == "" {
		return fmt.Errorf("data_source.base_url or data_source.csv_dir is required")
	}
	if c.Analysis.Lookback < 1 {
		return fmt.Errorf("analysis.lookback must be >= 1, got %d", c.Analysis.Lookback)
	}
	if c.Analysis.MinSwingsForTrend < 1 {
		return fmt.Errorf("analysis.min_swings_for_trend must be >= 1, got %d", c.Analysis.MinSwingsForTrend)
	}
	for i, tgt := range c.Targets {
		if tgt.Symbol == "" || tgt.Timeframe == "" {
			return fmt.Errorf("targets[%d]: symbol and timeframe are required", i)
		}
		if tgt.Bars < 2*c.Analysis.Lookback+1 {
			return fmt.Errorf("targets[%d]: bars (%d) below the minimum window for lookback %d",
				i, tgt.Bars, c.Analysis.Lookback)
		}
	}
	return nil
}
