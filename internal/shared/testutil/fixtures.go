package testutil

import (
	"fmt"
	"math"

	"mdgprep/pkg/contracts/domain"
)

// NaN is shorthand for a missing observation in fixtures.
var NaN = math.NaN()

// MetadataColumns is the trailing column layout of the competition file.
var MetadataColumns = []string{"Country Name", "Series Code", "Series Name"}

// YearLabels returns labels in the training-file style, "1972 [YR1972]".
func YearLabels(first, last int) []string {
	labels := make([]string, 0, last-first+1)
	for y := first; y <= last; y++ {
		labels = append(labels, fmt.Sprintf("%d [YR%d]", y, y))
	}
	return labels
}

// TableBuilder assembles small indicator tables for tests.
type TableBuilder struct {
	labels []string
	rows   []domain.IndicatorRow
}

// NewTableBuilder starts a table with year columns first..last.
func NewTableBuilder(first, last int) *TableBuilder {
	return &TableBuilder{labels: YearLabels(first, last)}
}

// NewTableBuilderWithLabels starts a table with arbitrary value column labels.
func NewTableBuilderWithLabels(labels ...string) *TableBuilder {
	return &TableBuilder{labels: labels}
}

// Row adds a row. values must match the number of year columns.
func (b *TableBuilder) Row(id, country, series string, values ...float64) *TableBuilder {
	if len(values) != len(b.labels) {
		panic(fmt.Sprintf("row %s: got %d values for %d columns", id, len(values), len(b.labels)))
	}
	b.rows = append(b.rows, domain.IndicatorRow{
		ID:       id,
		Values:   append([]float64(nil), values...),
		Metadata: []string{country, "CODE." + series, series},
	})
	return b
}

// Build returns the table.
func (b *TableBuilder) Build() *domain.IndicatorTable {
	return domain.NewIndicatorTable(
		append([]string(nil), b.labels...),
		append([]string(nil), MetadataColumns...),
		b.rows,
	)
}

// Repeat returns n copies of v, handy for long NaN runs.
func Repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// Concat joins value slices.
func Concat(parts ...[]float64) []float64 {
	var out []float64
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
