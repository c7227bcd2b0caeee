package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"mdgprep/internal/config"
	apperrors "mdgprep/internal/errors"
)

const trainCSV = `,2005 [YR2005],2006 [YR2006],2007 [YR2007],Country Name,Series Code,Series Name
1,1,,3,Chad,NY.GDP,GDP growth
2,4,5,,Peru,NY.GDP,GDP growth
3,,,9,Mali,SH.H2O,Water
`

const submitCSV = `,2008 [YR2008]
2,0
1,0
`

// writeFixtures lays out inputs and a config file pointing every path into
// a temp dir.
func writeFixtures(t *testing.T) (dir string, cfgPath string) {
	t.Helper()
	dir = t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "train.csv"), []byte(trainCSV), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "submit.csv"), []byte(submitCSV), 0o644))

	cfg := fmt.Sprintf(`logging:
  level: debug
  output: console
paths:
  data_dir: %[1]s/data
  reports_dir: %[1]s/reports
  logs_dir: %[1]s/logs
metrics:
  enabled: true
  textfile_path: %[1]s/metrics/mdgprep.prom
`, filepath.ToSlash(dir))
	cfgPath = filepath.Join(dir, "mdgprep.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))
	return dir, cfgPath
}

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&strings.Builder{})
	cmd.SetErr(&strings.Builder{})
	return cmd.ExecuteContext(context.Background())
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(content), "\n"), "\n")
}

func TestSimpleCommand(t *testing.T) {
	dir, cfgPath := writeFixtures(t)

	err := runCLI(t, "simple", "--config", cfgPath,
		"--train", filepath.Join(dir, "train.csv"),
		"--submit", filepath.Join(dir, "submit.csv"))
	require.NoError(t, err)

	assert.Equal(t, []string{",2005,2006", "2,4,5", "1,1,"},
		readLines(t, filepath.Join(dir, "reports", "features.csv")))
	assert.Equal(t, []string{",2007", "2,", "1,3"},
		readLines(t, filepath.Join(dir, "reports", "targets.csv")))

	metrics, err := os.ReadFile(filepath.Join(dir, "metrics", "mdgprep.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `mdgprep_rows_selected_total{operation="simple"} 2`)
}

func TestImputeCommand_Workbook(t *testing.T) {
	dir, cfgPath := writeFixtures(t)
	out := filepath.Join(dir, "custom")

	err := runCLI(t, "impute", "--config", cfgPath,
		"--train", filepath.Join(dir, "train.csv"),
		"--submit", filepath.Join(dir, "submit.csv"),
		"--out", out,
		"--format", "xlsx")
	require.NoError(t, err)

	f, err := excelize.OpenFile(filepath.Join(out, "split.xlsx"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("features", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"", "2005", "2006"}, rows[0])
	// row 1 had no 2006 value; 2005 is the nearest earlier year
	assert.Equal(t, []string{"1", "1", "1"}, rows[2])
	assert.Equal(t, []string{"2", "4", "5"}, rows[1])
}

func TestVizCommand(t *testing.T) {
	dir, cfgPath := writeFixtures(t)

	err := runCLI(t, "viz", "--config", cfgPath,
		"--train", filepath.Join(dir, "train.csv"),
		"--submit", filepath.Join(dir, "submit.csv"))
	require.NoError(t, err)

	lines := readLines(t, filepath.Join(dir, "reports", "viz_groups.csv"))
	require.Len(t, lines, 7)
	assert.Equal(t, "series_name,row_id,year,value,Country Name,Series Code,Series Name", lines[0])
	assert.Equal(t, "GDP growth,2,2005,4,Peru,NY.GDP,GDP growth", lines[1])
	assert.Equal(t, "GDP growth,1,2006,,Chad,NY.GDP,GDP growth", lines[5])
}

func TestCommand_FlagValidation(t *testing.T) {
	dir, cfgPath := writeFixtures(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "missing train", args: []string{"simple", "--config", cfgPath, "--submit", filepath.Join(dir, "submit.csv")}},
		{name: "missing submit", args: []string{"simple", "--config", cfgPath, "--train", filepath.Join(dir, "train.csv")}},
		{name: "bad format", args: []string{"impute", "--config", cfgPath,
			"--train", filepath.Join(dir, "train.csv"), "--submit", filepath.Join(dir, "submit.csv"), "--format", "parquet"}},
		{name: "positional args", args: []string{"viz", "extra", "--config", cfgPath,
			"--train", filepath.Join(dir, "train.csv"), "--submit", filepath.Join(dir, "submit.csv")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, runCLI(t, tt.args...))
		})
	}
}

func TestCommand_InputErrors(t *testing.T) {
	dir, cfgPath := writeFixtures(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unknown.csv"), []byte("id\n99\n"), 0o644))

	err := runCLI(t, "simple", "--config", cfgPath,
		"--train", filepath.Join(dir, "missing.csv"),
		"--submit", filepath.Join(dir, "submit.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid training table")
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))

	err = runCLI(t, "simple", "--config", cfgPath,
		"--train", filepath.Join(dir, "train.csv"),
		"--submit", filepath.Join(dir, "unknown.csv"))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
	assert.Contains(t, err.Error(), `row "99" not found`)
}

func TestLoadInputs_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := loadInputs(ctx, nil, "train.csv", "submit.csv")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadInputs(t *testing.T) {
	dir, _ := writeFixtures(t)

	in, err := loadInputs(context.Background(), config.Default(),
		filepath.Join(dir, "train.csv"), filepath.Join(dir, "submit.csv"))
	require.NoError(t, err)
	assert.Equal(t, 3, in.table.Len())
	assert.Equal(t, []string{"2", "1"}, in.submitRows)

	_, err = loadInputs(context.Background(), config.Default(),
		filepath.Join(dir, "train.csv"), filepath.Join(dir, "nope.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load submit rows")
}
