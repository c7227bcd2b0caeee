package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"mdgprep/internal/config"
	apperrors "mdgprep/internal/errors"
	"mdgprep/pkg/contracts/domain"
)

// ParseOptions describes how a training table is laid out on disk.
type ParseOptions struct {
	// MetadataColumns is the number of trailing non-year columns.
	MetadataColumns int
	// MissingTokens are read as NaN in addition to the empty cell.
	MissingTokens []string
	// Sheet selects the xlsx worksheet; empty means the first one.
	Sheet string
}

// DefaultParseOptions returns the layout of the competition training file.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		MetadataColumns: config.DefaultMetadataColumns,
		MissingTokens:   []string{"NaN", "nan", "NA", ".."},
	}
}

// ParseOptionsFromConfig maps the dataset section of cfg.
func ParseOptionsFromConfig(cfg *config.Config) ParseOptions {
	return ParseOptions{
		MetadataColumns: cfg.Dataset.MetadataColumns,
		MissingTokens:   cfg.Dataset.MissingTokens,
		Sheet:           cfg.Dataset.Sheet,
	}
}

// ParseTableFile reads a training table from a .csv or .xlsx file.
func ParseTableFile(filePath string, opts ParseOptions) (*domain.IndicatorTable, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".xlsx", ".xlsm":
		f, err := excelize.OpenFile(filePath)
		if err != nil {
			return nil, apperrors.NewStorageError("failed to open workbook", err).WithContext("path", filePath)
		}
		defer f.Close()
		return parseWorkbook(f, opts)
	default:
		file, err := os.Open(filePath)
		if err != nil {
			return nil, apperrors.NewStorageError("failed to open training table", err).WithContext("path", filePath)
		}
		defer file.Close()
		return ParseTableCSV(file, opts)
	}
}

// ParseTableCSV reads a training table whose first column is the row id,
// followed by the year columns and the metadata columns.
func ParseTableCSV(r io.Reader, opts ParseOptions) (*domain.IndicatorTable, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read training CSV", err)
	}
	return parseRecords(records, opts)
}

// ParseTableWorkbook reads a training table from an xlsx stream.
func ParseTableWorkbook(r io.Reader, opts ParseOptions) (*domain.IndicatorTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to open workbook", err)
	}
	defer f.Close()
	return parseWorkbook(f, opts)
}

func parseWorkbook(f *excelize.File, opts ParseOptions) (*domain.IndicatorTable, error) {
	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apperrors.NewParsingError("workbook has no sheets", nil)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read sheet %q", sheet), err)
	}

	slog.Debug("read training sheet",
		slog.String("sheet_name", sheet),
		slog.Int("total_rows", len(rows)))

	// GetRows drops trailing empty cells, so pad every row to the header.
	if len(rows) > 0 {
		width := len(rows[0])
		for i, row := range rows {
			for len(row) < width {
				row = append(row, "")
			}
			rows[i] = row
		}
	}
	return parseRecords(rows, opts)
}

// parseRecords converts raw cells into a table. records[0] is the header.
func parseRecords(records [][]string, opts ParseOptions) (*domain.IndicatorTable, error) {
	if len(records) == 0 {
		return nil, apperrors.NewParsingError("training table is empty", nil)
	}
	if opts.MetadataColumns < 1 {
		return nil, apperrors.NewValidationError("metadata column count must be positive", nil)
	}

	header := records[0]
	width := len(header)
	valueEnd := width - opts.MetadataColumns
	if valueEnd < 2 {
		return nil, apperrors.NewSchemaError(fmt.Sprintf(
			"header has %d columns, need an id column, at least one year column and %d metadata columns",
			width, opts.MetadataColumns))
	}

	missing := make(map[string]bool, len(opts.MissingTokens)+1)
	missing[""] = true
	for _, token := range opts.MissingTokens {
		missing[token] = true
	}

	valueColumns := append([]string(nil), header[1:valueEnd]...)
	metadataColumns := make([]string, opts.MetadataColumns)
	for i, name := range header[valueEnd:] {
		metadataColumns[i] = strings.TrimSpace(name)
	}

	rows := make([]domain.IndicatorRow, 0, len(records)-1)
	seen := make(map[string]int, len(records)-1)

	for i, record := range records[1:] {
		line := i + 2
		if len(record) != width {
			return nil, apperrors.NewParsingError(fmt.Sprintf("row %d has %d fields, header has %d", line, len(record), width), nil).
				WithContext("row", line)
		}

		id := strings.TrimSpace(record[0])
		if id == "" {
			return nil, apperrors.NewValidationError(fmt.Sprintf("row %d has an empty id", line), nil).
				WithContext("row", line)
		}
		if first, dup := seen[id]; dup {
			return nil, apperrors.NewValidationError(fmt.Sprintf("row id %q on row %d duplicates row %d", id, line, first), nil).
				WithContext("row", line).
				WithContext("row_id", id)
		}
		seen[id] = line

		values := make([]float64, len(valueColumns))
		for j, cell := range record[1:valueEnd] {
			cell = strings.TrimSpace(cell)
			if missing[cell] {
				values[j] = math.NaN()
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, apperrors.NewParsingError(fmt.Sprintf("row %d column %q: invalid number %q", line, valueColumns[j], cell), err).
					WithContext("row", line).
					WithContext("column", valueColumns[j])
			}
			values[j] = v
		}

		rows = append(rows, domain.IndicatorRow{
			ID:       id,
			Values:   values,
			Metadata: append([]string(nil), record[valueEnd:]...),
		})
	}

	return domain.NewIndicatorTable(valueColumns, metadataColumns, rows), nil
}

// ParseSubmitRows reads the row ids from the first column of a
// submission-format CSV. The header row is skipped.
func ParseSubmitRows(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read submit rows CSV", err)
	}
	if len(records) == 0 {
		return nil, apperrors.NewParsingError("submit rows CSV is empty", nil)
	}

	ids := make([]string, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}
		if id := strings.TrimSpace(record[0]); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// ParseSubmitRowsFile reads submit row ids from a file.
func ParseSubmitRowsFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open submit rows file", err).WithContext("path", filePath)
	}
	defer file.Close()
	return ParseSubmitRows(file)
}
