package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	apperrors "mdgprep/internal/errors"
	"mdgprep/pkg/contracts/domain"
)

// AvgNaNs produces the same split as Simple and then fills gaps in the
// feature matrix.
//
// For every indicator among the submit rows, rows missing the last feature
// year get the nearest non-missing value among the LookbackYears preceding
// years, or, failing that, the median of the last feature year across every
// row of the full table with the same indicator. When that median has no
// observations the fill is NaN. Each row is then interpolated with
// InterpolateBackward. Targets are returned untouched.
func (p *Preprocessor) AvgNaNs(ctx context.Context, table *domain.IndicatorTable, submitRows []string) (*domain.Split, ImputeStatistics, error) {
	start := time.Now()
	var stats ImputeStatistics

	sel, err := p.selectRows(table, submitRows)
	if err != nil {
		p.logger.ErrorContext(ctx, "row selection failed",
			slog.String("operation", OperationImpute),
			slog.String("error", err.Error()))
		return nil, stats, fmt.Errorf("impute preprocessing: %w", err)
	}

	split := sel.split()
	x := split.X
	stats.RowsSelected = x.Rows()

	if x.Cols() > 0 {
		if err := p.fillLastYear(ctx, table, sel, x, &stats); err != nil {
			return nil, stats, fmt.Errorf("impute preprocessing: %w", err)
		}
	}

	for i, row := range x.Values {
		before := floats.Count(math.IsNaN, row)
		x.Values[i] = InterpolateBackward(row, p.opts.InterpolationLimit)
		after := floats.Count(math.IsNaN, x.Values[i])
		stats.InterpolatedCells += before - after
		stats.RemainingMissing += after
	}

	p.recorder.RowsSelected(OperationImpute, stats.RowsSelected)
	p.recorder.CellsFilled(FillRecent, stats.RecentFills)
	p.recorder.CellsFilled(FillMedian, stats.MedianFills)
	p.recorder.CellsFilled(FillInterpolated, stats.InterpolatedCells)
	p.recorder.ObserveDuration(OperationImpute, time.Since(start))

	p.logger.InfoContext(ctx, "imputed feature matrix",
		slog.Int("rows", stats.RowsSelected),
		slog.Int("indicators", stats.Indicators),
		slog.Int("recent_fills", stats.RecentFills),
		slog.Int("median_fills", stats.MedianFills),
		slog.Int("nan_median_fills", stats.NaNMedianFills),
		slog.Int("interpolated_cells", stats.InterpolatedCells),
		slog.Int("remaining_missing", stats.RemainingMissing))

	return split, stats, nil
}

// fillLastYear fills the last column of x in place. x is already a copy.
func (p *Preprocessor) fillLastYear(ctx context.Context, table *domain.IndicatorTable, sel *selection, x *domain.FeatureMatrix, stats *ImputeStatistics) error {
	nameIdx := table.MetadataIndex(p.opts.SeriesNameColumn)
	if nameIdx < 0 {
		return apperrors.NewSchemaError(fmt.Sprintf("table has no %q column", p.opts.SeriesNameColumn))
	}

	last := x.Cols() - 1
	refYear := x.Years[last]
	refCol, err := referenceColumn(table, refYear)
	if err != nil {
		return err
	}

	// Cross-sectional observations of the reference year per indicator,
	// over the full table.
	observed := make(map[string][]float64)
	for _, row := range table.Rows {
		if refCol >= len(row.Values) || nameIdx >= len(row.Metadata) {
			continue
		}
		if v := row.Values[refCol]; !math.IsNaN(v) {
			name := row.Metadata[nameIdx]
			observed[name] = append(observed[name], v)
		}
	}

	byIndicator := make(map[string][]int)
	for i, row := range sel.rows {
		name := row.Metadata[nameIdx]
		byIndicator[name] = append(byIndicator[name], i)
	}
	indicators := make([]string, 0, len(byIndicator))
	for name := range byIndicator {
		indicators = append(indicators, name)
	}
	sort.Strings(indicators)
	stats.Indicators = len(indicators)

	for _, name := range indicators {
		med := median(observed[name])
		warned := false

		for _, i := range byIndicator[name] {
			row := x.Values[i]
			if !math.IsNaN(row[last]) {
				continue
			}

			fill, recent := nearestObserved(row, last, p.opts.LookbackYears)
			if recent {
				stats.RecentFills++
			} else {
				fill = med
				stats.MedianFills++
				if math.IsNaN(med) {
					stats.NaNMedianFills++
					if !warned {
						p.recorder.EmptyMedianGroup(name)
						p.logger.WarnContext(ctx, "indicator has no observations for median fill",
							slog.String("indicator", name),
							slog.Int("year", refYear))
						warned = true
					}
				}
			}
			row[last] = fill
		}
	}

	return nil
}

// referenceColumn finds the full-table column holding year.
func referenceColumn(table *domain.IndicatorTable, year int) (int, error) {
	for j, label := range table.ValueColumns {
		y, err := ParseYearLabel(label)
		if err != nil {
			return -1, err
		}
		if y == year {
			return j, nil
		}
	}
	return -1, apperrors.NewSchemaError(fmt.Sprintf("table has no column for year %d", year)).
		WithContext("year", year)
}

// nearestObserved scans up to lookback cells before last, nearest first.
func nearestObserved(row []float64, last, lookback int) (float64, bool) {
	for k := 1; k <= lookback && last-k >= 0; k++ {
		if v := row[last-k]; !math.IsNaN(v) {
			return v, true
		}
	}
	return math.NaN(), false
}

// median returns the middle value, or the mean of the two middle values for
// an even count. An empty slice yields NaN.
func median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return stat.Mean(sorted[n/2-1:n/2+1], nil)
}
