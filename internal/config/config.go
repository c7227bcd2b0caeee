package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "MDG"

// Config represents the complete application configuration
type Config struct {
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
	Paths      PathsConfig      `yaml:"paths" envconfig:"PATHS"`
	Dataset    DatasetConfig    `yaml:"dataset" envconfig:"DATASET"`
	Imputation ImputationConfig `yaml:"imputation" envconfig:"IMPUTATION"`
	Metrics    MetricsConfig    `yaml:"metrics" envconfig:"METRICS"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" validate:"required"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
}

// DatasetConfig describes the layout of the training table.
type DatasetConfig struct {
	// MetadataColumns is the number of trailing non-year columns.
	MetadataColumns int `yaml:"metadata_columns" envconfig:"METADATA_COLUMNS" validate:"min=1"`
	// SeriesNameColumn names the metadata column holding the indicator.
	SeriesNameColumn string `yaml:"series_name_column" envconfig:"SERIES_NAME_COLUMN" validate:"required"`
	// MissingTokens are cell values read as a missing observation in
	// addition to the empty string.
	MissingTokens []string `yaml:"missing_tokens" envconfig:"MISSING_TOKENS"`
	// Sheet selects the worksheet of an xlsx training table; empty means
	// the first sheet.
	Sheet string `yaml:"sheet" envconfig:"SHEET"`
}

// ImputationConfig tunes the NaN filling pass.
type ImputationConfig struct {
	LookbackYears      int `yaml:"lookback_years" envconfig:"LOOKBACK_YEARS" validate:"min=0"`
	InterpolationLimit int `yaml:"interpolation_limit" envconfig:"INTERPOLATION_LIMIT" validate:"min=1"`
}

// MetricsConfig controls the Prometheus textfile written after a run.
type MetricsConfig struct {
	Enabled      bool   `yaml:"enabled" envconfig:"ENABLED"`
	TextfilePath string `yaml:"textfile_path" envconfig:"TEXTFILE_PATH" validate:"required_if=Enabled true"`
}

// Load builds the configuration from defaults, then the YAML file at path (or
// the first file found in the usual locations when path is empty), then
// MDG_* environment variables. Later sources win.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = getConfigFilePath()
	}
	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg. Keys absent from the file keep
// their current values.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks the struct tags and normalises a few values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if c.Logging.Level == "warning" {
		c.Logging.Level = "warn"
	}
	return nil
}

// ReportPath returns name resolved inside the reports directory. Absolute
// names are returned unchanged.
func (c *Config) ReportPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Paths.ReportsDir, name)
}

// EnsureDirectories creates the data, reports and logs directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.ReportsDir, c.Paths.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if env := os.Getenv(EnvPrefix + "_CONFIG"); env != "" {
		return env
	}

	locations := []string{
		"mdgprep.yaml",
		"configs/mdgprep.yaml",
		"../configs/mdgprep.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: filepath.Join(DefaultLogsDir, "mdgprep.log"),
		},
		Paths: PathsConfig{
			DataDir:    DefaultDataDir,
			ReportsDir: DefaultReportsDir,
			LogsDir:    DefaultLogsDir,
		},
		Dataset: DatasetConfig{
			MetadataColumns:  DefaultMetadataColumns,
			SeriesNameColumn: DefaultSeriesNameColumn,
			MissingTokens:    []string{"NaN", "nan", "NA", ".."},
		},
		Imputation: ImputationConfig{
			LookbackYears:      DefaultLookbackYears,
			InterpolationLimit: DefaultInterpolationLimit,
		},
		Metrics: MetricsConfig{
			Enabled:      true,
			TextfilePath: filepath.Join(DefaultReportsDir, "mdgprep.prom"),
		},
	}
}
