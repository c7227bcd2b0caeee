package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load may read so that the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"MDG_CONFIG",
		"MDG_LOGGING_LEVEL", "MDG_LOGGING_FORMAT", "MDG_LOGGING_OUTPUT", "MDG_LOGGING_FILE_PATH",
		"MDG_PATHS_DATA_DIR", "MDG_PATHS_REPORTS_DIR", "MDG_PATHS_LOGS_DIR",
		"MDG_DATASET_METADATA_COLUMNS", "MDG_DATASET_SERIES_NAME_COLUMN",
		"MDG_DATASET_MISSING_TOKENS", "MDG_DATASET_SHEET",
		"MDG_IMPUTATION_LOOKBACK_YEARS", "MDG_IMPUTATION_INTERPOLATION_LIMIT",
		"MDG_METRICS_ENABLED", "MDG_METRICS_TEXTFILE_PATH",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mdgprep.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no env and no file",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, "console", cfg.Logging.Output)
				assert.Equal(t, 3, cfg.Dataset.MetadataColumns)
				assert.Equal(t, "Series Name", cfg.Dataset.SeriesNameColumn)
				assert.Equal(t, []string{"NaN", "nan", "NA", ".."}, cfg.Dataset.MissingTokens)
				assert.Equal(t, 9, cfg.Imputation.LookbackYears)
				assert.Equal(t, 50, cfg.Imputation.InterpolationLimit)
				assert.True(t, cfg.Metrics.Enabled)
				assert.Equal(t, "data/reports", cfg.Paths.ReportsDir)
			},
		},
		{
			name: "file overrides defaults and keeps unset keys",
			file: `
logging:
  level: debug
imputation:
  lookback_years: 8
dataset:
  sheet: Training
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, 8, cfg.Imputation.LookbackYears)
				assert.Equal(t, 50, cfg.Imputation.InterpolationLimit)
				assert.Equal(t, "Training", cfg.Dataset.Sheet)
			},
		},
		{
			name: "env overrides file",
			file: `
imputation:
  lookback_years: 8
`,
			env: map[string]string{
				"MDG_IMPUTATION_LOOKBACK_YEARS": "5",
				"MDG_DATASET_MISSING_TOKENS":    "NA,-",
				"MDG_LOGGING_LEVEL":             "warning",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 5, cfg.Imputation.LookbackYears)
				assert.Equal(t, []string{"NA", "-"}, cfg.Dataset.MissingTokens)
				assert.Equal(t, "warn", cfg.Logging.Level)
			},
		},
		{
			name:    "invalid log level",
			env:     map[string]string{"MDG_LOGGING_LEVEL": "verbose"},
			wantErr: true,
		},
		{
			name:    "interpolation limit must be positive",
			file:    "imputation:\n  interpolation_limit: 0\n",
			wantErr: true,
		},
		{
			name:    "file output needs a path",
			file:    "logging:\n  output: file\n  file_path: \"\"\n",
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			file:    "logging: [unclosed",
			wantErr: true,
		},
		{
			name:    "non numeric env value",
			env:     map[string]string{"MDG_DATASET_METADATA_COLUMNS": "three"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := ""
			if tt.file != "" {
				path = writeConfigFile(t, tt.file)
			}

			cfg, err := Load(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoad_ConfigFromEnvPath(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, "dataset:\n  series_name_column: Indicator\n")
	t.Setenv("MDG_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "Indicator", cfg.Dataset.SeriesNameColumn)
}

func TestConfig_ReportPath(t *testing.T) {
	cfg := Default()
	cfg.Paths.ReportsDir = filepath.Join("out", "reports")

	assert.Equal(t, filepath.Join("out", "reports", FeaturesCSV), cfg.ReportPath(FeaturesCSV))

	abs := filepath.Join(t.TempDir(), "x.csv")
	assert.Equal(t, abs, cfg.ReportPath(abs))
}

func TestConfig_EnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.ReportsDir = filepath.Join(base, "data", "reports")
	cfg.Paths.LogsDir = filepath.Join(base, "logs")

	require.NoError(t, cfg.EnsureDirectories())

	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.ReportsDir, cfg.Paths.LogsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestDefault_IsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}
