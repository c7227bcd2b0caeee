package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "mdgprep/internal/errors"
	"mdgprep/internal/shared/testutil"
)

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	return path
}

func TestFileValidator_ValidateFile(t *testing.T) {
	dir := t.TempDir()
	logger, handler := testutil.NewTestLogger(t)
	v := NewFileValidator(logger)

	assert.NoError(t, v.ValidateFile(writeFile(t, dir, "train.csv")))

	err := v.ValidateFile(filepath.Join(dir, "missing.csv"))
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
	assert.True(t, handler.ContainsMessage("File does not exist"))

	err = v.ValidateFile(dir)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
	assert.Contains(t, err.Error(), "is a directory")
}

func TestFileValidator_ValidateTableFile(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		path     string
		wantType apperrors.ErrorType
	}{
		{name: "csv", path: writeFile(t, dir, "train.csv")},
		{name: "upper case workbook", path: writeFile(t, dir, "train.XLSX")},
		{name: "macro workbook", path: writeFile(t, dir, "train.xlsm")},
		{name: "legacy excel", path: writeFile(t, dir, "train.xls"), wantType: apperrors.ErrTypeValidation},
		{name: "lock file", path: writeFile(t, dir, "~$train.xlsx"), wantType: apperrors.ErrTypeValidation},
		{name: "missing", path: filepath.Join(dir, "absent.csv"), wantType: apperrors.ErrTypeNotFound},
	}

	v := NewFileValidator(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateTableFile(tt.path)
			if tt.wantType == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantType, apperrors.TypeOf(err))
		})
	}
}

func TestFileValidator_ValidateCSVFile(t *testing.T) {
	dir := t.TempDir()
	v := NewFileValidator(nil)

	assert.NoError(t, v.ValidateCSVFile(writeFile(t, dir, "submit.csv")))

	err := v.ValidateCSVFile(writeFile(t, dir, "submit.txt"))
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")
	v := NewFileValidator(nil)

	require.NoError(t, v.ValidateOutputDirectory(dir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "probe file is removed")

	blocker := writeFile(t, t.TempDir(), "file")
	err = v.ValidateOutputDirectory(filepath.Join(blocker, "sub"))
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))
}
