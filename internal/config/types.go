package config

// Config is the full CLI configuration.
type Config struct {
	App    AppConfig    `mapstructure:"app"`
	Data   DataConfig   `mapstructure:"data"`
	Checks ChecksConfig `mapstructure:"checks"`
	Report ReportConfig `mapstructure:"report"`
	Store  StoreConfig  `mapstructure:"store"`
	Watch  bool         `mapstructure:"watch"`
}

type AppConfig struct {
	LogLevel string `mapstructure:"log_level"`
	LogPath  string `mapstructure:"log_path"`
}

type DataConfig struct {
	// Path to the CSV file; empty selects the bundled toy dataset.
	Path string `mapstructure:"path"`
	// Name labels the dataset in reports; defaults to the file base name.
	Name   string `mapstructure:"name"`
	Target string `mapstructure:"target"`
	// Predictors plus Keep mirror the keep/drop call surface: with
	// Keep=true the listed columns are the predictor set, with
	// Keep=false they are dropped from it.
	Predictors          []string `mapstructure:"predictors"`
	Keep                bool     `mapstructure:"keep"`
	Task                string   `mapstructure:"task"`
	CategoricalFeatures []string `mapstructure:"categorical_features"`
	CategoricalEncoder  string   `mapstructure:"categorical_encoder"`
	// ForceCategorical overrides type inference for numeric-looking
	// code columns.
	ForceCategorical []string `mapstructure:"force_categorical"`
	// SampleSize caps rows used for type inference (0 = all).
	SampleSize int `mapstructure:"sample_size"`
}

type ChecksConfig struct {
	SigLevel     float64 `mapstructure:"sig_level"`
	VIFThreshold float64 `mapstructure:"vif_threshold"`
}

type ReportConfig struct {
	// Mode: inline (write HTML), external (serve over HTTP), snapshot
	// (PNG via headless Chrome).
	Mode     string `mapstructure:"mode"`
	Output   string `mapstructure:"output"`
	Addr     string `mapstructure:"addr"`
	Snapshot string `mapstructure:"snapshot"`
}

type StoreConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}
