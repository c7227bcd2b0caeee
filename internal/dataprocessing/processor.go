package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "mdgprep/internal/errors"
	"mdgprep/pkg/contracts/domain"
)

// Preprocessor turns the training table into model inputs. Every operation
// is a pure function of its arguments: the table is never modified and the
// results share no mutable state with it.
type Preprocessor struct {
	logger   *slog.Logger
	recorder Recorder
	opts     Options
}

// NewPreprocessor validates opts and creates a preprocessor. A nil logger
// falls back to slog.Default and a nil recorder discards metrics.
func NewPreprocessor(logger *slog.Logger, recorder Recorder, opts Options) (*Preprocessor, error) {
	if err := validator.New().Struct(opts); err != nil {
		return nil, apperrors.NewValidationError("invalid preprocessing options", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &Preprocessor{
		logger:   logger.With(slog.String("component", "preprocessor")),
		recorder: recorder,
		opts:     opts,
	}, nil
}

// Options returns the options the preprocessor was built with.
func (p *Preprocessor) Options() Options {
	return p.opts
}

// selection holds the submit rows with their year labels parsed.
type selection struct {
	rows  []domain.IndicatorRow
	years []int
}

// selectRows looks up every submit row and relabels the year columns.
func (p *Preprocessor) selectRows(table *domain.IndicatorTable, submitRows []string) (*selection, error) {
	if table == nil {
		return nil, apperrors.NewValidationError("training table is nil", nil)
	}
	if len(table.MetadataColumns) != p.opts.MetadataColumns {
		return nil, apperrors.NewSchemaError(fmt.Sprintf("expected %d metadata columns, table has %d",
			p.opts.MetadataColumns, len(table.MetadataColumns)))
	}
	if len(table.ValueColumns) == 0 {
		return nil, apperrors.NewSchemaError("table has no year columns")
	}

	rows := make([]domain.IndicatorRow, 0, len(submitRows))
	for _, id := range submitRows {
		row, ok := table.Lookup(id)
		if !ok {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("row %q", id)).WithContext("row_id", id)
		}
		if len(row.Values) != len(table.ValueColumns) || len(row.Metadata) != len(table.MetadataColumns) {
			return nil, apperrors.NewSchemaError(fmt.Sprintf("row %q has %d values and %d metadata fields, want %d and %d",
				id, len(row.Values), len(row.Metadata), len(table.ValueColumns), len(table.MetadataColumns)))
		}
		rows = append(rows, row)
	}

	years, err := ParseYearLabels(table.ValueColumns)
	if err != nil {
		return nil, err
	}

	return &selection{rows: rows, years: years}, nil
}

// split separates the last year column as the target. Values are copied.
func (s *selection) split() *domain.Split {
	last := len(s.years) - 1

	x := &domain.FeatureMatrix{
		RowIDs: make([]string, len(s.rows)),
		Years:  append([]int(nil), s.years[:last]...),
		Values: make([][]float64, len(s.rows)),
	}
	y := &domain.TargetSeries{
		Year:   s.years[last],
		RowIDs: make([]string, len(s.rows)),
		Values: make([]float64, len(s.rows)),
	}

	for i, row := range s.rows {
		x.RowIDs[i] = row.ID
		x.Values[i] = append([]float64(nil), row.Values[:last]...)
		y.RowIDs[i] = row.ID
		y.Values[i] = row.Values[last]
	}

	return &domain.Split{X: x, Y: y}
}

// Simple selects the submit rows and splits them into features (every year
// but the last) and targets (the last year). Missing values stay NaN.
func (p *Preprocessor) Simple(ctx context.Context, table *domain.IndicatorTable, submitRows []string) (*domain.Split, error) {
	start := time.Now()

	sel, err := p.selectRows(table, submitRows)
	if err != nil {
		p.logger.ErrorContext(ctx, "row selection failed",
			slog.String("operation", OperationSimple),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("simple preprocessing: %w", err)
	}

	split := sel.split()

	p.recorder.RowsSelected(OperationSimple, len(sel.rows))
	p.recorder.ObserveDuration(OperationSimple, time.Since(start))
	p.logger.InfoContext(ctx, "split submit rows",
		slog.Int("rows", split.X.Rows()),
		slog.Int("feature_years", split.X.Cols()),
		slog.Int("target_year", split.Y.Year))

	return split, nil
}

// defaultPreprocessor is built per call so that it logs through whatever
// slog.Default is at that moment.
func defaultPreprocessor() *Preprocessor {
	p, err := NewPreprocessor(nil, nil, DefaultOptions())
	if err != nil {
		panic(err)
	}
	return p
}

// PreprocessSimple runs Simple with default options.
func PreprocessSimple(table *domain.IndicatorTable, submitRows []string) (*domain.Split, error) {
	return defaultPreprocessor().Simple(context.Background(), table, submitRows)
}

// PreprocessForViz runs ForViz with default options.
func PreprocessForViz(table *domain.IndicatorTable, submitRows []string) (*domain.SeriesGrouping, error) {
	return defaultPreprocessor().ForViz(context.Background(), table, submitRows)
}

// PreprocessAvgNaNs runs AvgNaNs with default options.
func PreprocessAvgNaNs(table *domain.IndicatorTable, submitRows []string) (*domain.Split, error) {
	split, _, err := defaultPreprocessor().AvgNaNs(context.Background(), table, submitRows)
	return split, err
}
