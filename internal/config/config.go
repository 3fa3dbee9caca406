package config

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Load reads the YAML config at path. A missing path yields the
// defaults so the CLI works out of the box against the toy dataset.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file not readable (%s): %w", path, err)
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file failed (%s): %w", path, err)
	}
	if err := v.Unmarshal(cfg, func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the baseline configuration.
func Default() *Config {
	return &Config{
		App: AppConfig{
			LogLevel: "info",
		},
		Data: DataConfig{
			Keep: true,
		},
		Checks: ChecksConfig{
			SigLevel:     0.05,
			VIFThreshold: 10,
		},
		Report: ReportConfig{
			Mode:     "inline",
			Output:   "goassume_report.html",
			Addr:     ":8090",
			Snapshot: "goassume_report.png",
		},
		Store: StoreConfig{
			Enabled: false,
			Path:    "data/goassume.db",
		},
	}
}

// Validate rejects configurations the run loop cannot act on.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}
	switch cfg.Report.Mode {
	case "inline", "external", "snapshot":
	default:
		return fmt.Errorf("report.mode must be inline, external or snapshot (got %q)", cfg.Report.Mode)
	}
	if cfg.Report.Mode == "inline" && cfg.Report.Output == "" {
		return fmt.Errorf("report.output cannot be empty in inline mode")
	}
	if cfg.Report.Mode == "snapshot" && cfg.Report.Snapshot == "" {
		return fmt.Errorf("report.snapshot cannot be empty in snapshot mode")
	}
	if cfg.Checks.SigLevel <= 0 || cfg.Checks.SigLevel >= 1 {
		return fmt.Errorf("checks.sig_level must be in (0, 1), got %g", cfg.Checks.SigLevel)
	}
	if cfg.Checks.VIFThreshold <= 1 {
		return fmt.Errorf("checks.vif_threshold must be greater than 1, got %g", cfg.Checks.VIFThreshold)
	}
	if cfg.Store.Enabled && cfg.Store.Path == "" {
		return fmt.Errorf("store.path cannot be empty when the store is enabled")
	}
	if cfg.Data.Path != "" && cfg.Data.Target == "" {
		return fmt.Errorf("data.target is required when data.path is set")
	}
	return nil
}
