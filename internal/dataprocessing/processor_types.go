package dataprocessing

import (
	"time"

	"mdgprep/internal/config"
)

// Operation names used in logs and metrics.
const (
	OperationSimple = "simple"
	OperationViz    = "viz"
	OperationImpute = "impute"
)

// Fill methods reported to a Recorder.
const (
	FillRecent       = "recent"
	FillMedian       = "median"
	FillInterpolated = "interpolated"
)

// Options configures the preprocessing operations
type Options struct {
	// MetadataColumns is the number of trailing non-year columns the input
	// table must carry.
	MetadataColumns int `validate:"min=1"`

	// SeriesNameColumn names the metadata column used for grouping.
	SeriesNameColumn string `validate:"required"`

	// LookbackYears is how many feature years before the last one are
	// searched for a recent value before falling back to the median.
	LookbackYears int `validate:"min=0"`

	// InterpolationLimit caps how many consecutive missing cells before a
	// known value may be filled.
	InterpolationLimit int `validate:"min=1"`
}

// DefaultOptions returns default processing options
func DefaultOptions() Options {
	return Options{
		MetadataColumns:    config.DefaultMetadataColumns,
		SeriesNameColumn:   config.DefaultSeriesNameColumn,
		LookbackYears:      config.DefaultLookbackYears,
		InterpolationLimit: config.DefaultInterpolationLimit,
	}
}

// OptionsFromConfig maps the dataset and imputation sections of cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		MetadataColumns:    cfg.Dataset.MetadataColumns,
		SeriesNameColumn:   cfg.Dataset.SeriesNameColumn,
		LookbackYears:      cfg.Imputation.LookbackYears,
		InterpolationLimit: cfg.Imputation.InterpolationLimit,
	}
}

// Recorder receives counters from the operations. infrastructure.Metrics
// satisfies it.
type Recorder interface {
	RowsSelected(operation string, n int)
	CellsFilled(method string, n int)
	EmptyMedianGroup(indicator string)
	ObserveDuration(operation string, d time.Duration)
}

type noopRecorder struct{}

func (noopRecorder) RowsSelected(string, int)              {}
func (noopRecorder) CellsFilled(string, int)               {}
func (noopRecorder) EmptyMedianGroup(string)               {}
func (noopRecorder) ObserveDuration(string, time.Duration) {}

// ImputeStatistics summarises one imputation pass
type ImputeStatistics struct {
	RowsSelected      int
	Indicators        int
	RecentFills       int
	MedianFills       int
	NaNMedianFills    int
	InterpolatedCells int
	RemainingMissing  int
}
