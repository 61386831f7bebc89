package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("missing file should fall back to defaults: %v", err)
	}
	if cfg.Analysis.Lookback != 5 {
		t.Errorf("expected default lookback 5, got %d", cfg.Analysis.Lookback)
	}
	if cfg.Analysis.MinSwingsForTrend != 2 {
		t.Errorf("expected default min swings 2, got %d", cfg.Analysis.MinSwingsForTrend)
	}
	if len(cfg.Targets) != 1 || cfg.Targets[0].Bars != 500 {
		t.Errorf("unexpected default targets: %+v", cfg.Targets)
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := writeConfig(t, `
data_source:
  base_url: http://bars.local
targets:
  - symbol: GBPUSD
    timeframe: M15
    bars: 300
analysis:
  lookback: 3
  use_wick: true
`)
	t.Setenv("SWING_LOOKBACK", "7")
	t.Setenv("BARS_API_KEY", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Analysis.Lookback != 7 {
		t.Errorf("env should override file lookback, got %d", cfg.Analysis.Lookback)
	}
	if cfg.DataSource.APIKey != "from-env" {
		t.Errorf("expected API key from env, got %q", cfg.DataSource.APIKey)
	}
	if cfg.Targets[0].Symbol != "GBPUSD" || cfg.Targets[0].Bars != 300 {
		t.Errorf("unexpected targets: %+v", cfg.Targets)
	}
	if !cfg.Analysis.UseWick {
		t.Error("expected use_wick from file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"no data source", func(c *Config) { c.DataSource.BaseURL = ""; c.DataSource.CSVDir = "" }, true},
		{"bad lookback", func(c *Config) { c.Analysis.Lookback = 0 }, true},
		{"bad min swings", func(c *Config) { c.Analysis.MinSwingsForTrend = -1 }, true},
		{"empty target symbol", func(c *Config) { c.Targets[0].Symbol = "" }, true},
		{"window too small", func(c *Config) { c.Targets[0].Bars = 5 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
			if err != nil {
				t.Fatal(err)
			}
			cfg.DataSource.BaseURL = "http://bars.local"
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
