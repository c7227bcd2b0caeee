package exporter

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	apperrors "mdgprep/internal/errors"
	"mdgprep/pkg/contracts/domain"
)

// Sheet names of the split workbook.
const (
	FeaturesSheet = "features"
	TargetsSheet  = "targets"
)

// idHeader is left blank, matching the index column of the training file.
const idHeader = ""

// SplitExporter writes feature/target splits
type SplitExporter struct {
	csvWriter *CSVWriter
}

// NewSplitExporter creates a new split exporter
func NewSplitExporter(csvWriter *CSVWriter) *SplitExporter {
	return &SplitExporter{csvWriter: csvWriter}
}

// ExportCSV writes X to featuresPath and Y to targetsPath.
func (s *SplitExporter) ExportCSV(split *domain.Split, featuresPath, targetsPath string) error {
	if err := validateSplit(split); err != nil {
		return err
	}

	if err := s.csvWriter.WriteSimpleCSV(featuresPath, featureHeaders(split.X), featureRecords(split.X)); err != nil {
		return fmt.Errorf("failed to export features: %w", err)
	}
	if err := s.csvWriter.WriteSimpleCSV(targetsPath, targetHeaders(split.Y), targetRecords(split.Y)); err != nil {
		return fmt.Errorf("failed to export targets: %w", err)
	}
	return nil
}

// ExportWorkbook writes X and Y to the features and targets sheets of a
// single xlsx file. Missing observations are left as blank cells.
func (s *SplitExporter) ExportWorkbook(split *domain.Split, filePath string) error {
	if err := validateSplit(split); err != nil {
		return err
	}
	fullPath := s.csvWriter.ResolvePath(filePath)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", FeaturesSheet); err != nil {
		return apperrors.NewStorageError("failed to name features sheet", err)
	}
	if _, err := f.NewSheet(TargetsSheet); err != nil {
		return apperrors.NewStorageError("failed to add targets sheet", err)
	}

	if err := writeSheet(f, FeaturesSheet, featureHeaders(split.X), split.X.RowIDs, split.X.Values); err != nil {
		return err
	}
	targets := make([][]float64, split.Y.Len())
	for i, v := range split.Y.Values {
		targets[i] = []float64{v}
	}
	if err := writeSheet(f, TargetsSheet, targetHeaders(split.Y), split.Y.RowIDs, targets); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return apperrors.NewStorageError("failed to create directory", err).WithContext("path", fullPath)
	}
	if err := f.SaveAs(fullPath); err != nil {
		return apperrors.NewStorageError("failed to save workbook", err).WithContext("path", fullPath)
	}

	s.csvWriter.logger.Info("Wrote split workbook",
		slog.String("full_path", fullPath),
		slog.Int("rows", split.X.Rows()),
		slog.Int("feature_years", split.X.Cols()))
	return nil
}

// writeSheet writes a header row followed by one row per id.
func writeSheet(f *excelize.File, sheet string, headers, ids []string, values [][]float64) error {
	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return apperrors.NewStorageError("failed to write header", err).WithContext("sheet", sheet)
	}

	for i, id := range ids {
		row := make([]interface{}, 0, len(values[i])+1)
		row = append(row, id)
		for _, v := range values[i] {
			if math.IsNaN(v) {
				row = append(row, nil)
				continue
			}
			row = append(row, v)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return apperrors.NewStorageError("invalid cell reference", err).WithContext("sheet", sheet)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return apperrors.NewStorageError("failed to write row", err).
				WithContext("sheet", sheet).
				WithContext("row_id", id)
		}
	}
	return nil
}

func validateSplit(split *domain.Split) error {
	if split == nil || split.X == nil || split.Y == nil {
		return apperrors.NewValidationError("split is incomplete", nil)
	}
	if len(split.X.Values) != len(split.X.RowIDs) || len(split.Y.Values) != len(split.Y.RowIDs) {
		return apperrors.NewValidationError("split ids and values are misaligned", nil)
	}
	return nil
}

func featureHeaders(x *domain.FeatureMatrix) []string {
	headers := make([]string, 0, x.Cols()+1)
	headers = append(headers, idHeader)
	for _, year := range x.Years {
		headers = append(headers, formatYear(year))
	}
	return headers
}

func targetHeaders(y *domain.TargetSeries) []string {
	return []string{idHeader, formatYear(y.Year)}
}

func featureRecords(x *domain.FeatureMatrix) [][]string {
	records := make([][]string, len(x.RowIDs))
	for i, id := range x.RowIDs {
		record := make([]string, 0, len(x.Values[i])+1)
		record = append(record, id)
		for _, v := range x.Values[i] {
			record = append(record, formatFloat(v))
		}
		records[i] = record
	}
	return records
}

func targetRecords(y *domain.TargetSeries) [][]string {
	records := make([][]string, len(y.RowIDs))
	for i, id := range y.RowIDs {
		records[i] = []string{id, formatFloat(y.Values[i])}
	}
	return records
}
