package domain

import "math"

// IndicatorRow is one country/indicator time series of the training table.
// Values are aligned with IndicatorTable.ValueColumns and use NaN for missing
// observations. Metadata is aligned with IndicatorTable.MetadataColumns.
type IndicatorRow struct {
	ID       string
	Values   []float64
	Metadata []string
}

// IndicatorTable is the raw training set as loaded from disk: an opaque row
// identifier, the year columns with their original text labels
// (for example "1972 [YR1972]") in chronological order, and the trailing
// metadata columns, the last of which names the indicator ("Series Name").
type IndicatorTable struct {
	ValueColumns    []string
	MetadataColumns []string
	Rows            []IndicatorRow

	index map[string]int
}

// NewIndicatorTable builds a table and its row index. When an id occurs more
// than once the first occurrence is the one returned by Lookup.
func NewIndicatorTable(valueColumns, metadataColumns []string, rows []IndicatorRow) *IndicatorTable {
	t := &IndicatorTable{
		ValueColumns:    valueColumns,
		MetadataColumns: metadataColumns,
		Rows:            rows,
		index:           make(map[string]int, len(rows)),
	}
	for i, row := range rows {
		if _, exists := t.index[row.ID]; !exists {
			t.index[row.ID] = i
		}
	}
	return t
}

// Len returns the number of rows in the table.
func (t *IndicatorTable) Len() int {
	return len(t.Rows)
}

// Lookup returns the row with the given id.
func (t *IndicatorTable) Lookup(id string) (IndicatorRow, bool) {
	if t.index == nil {
		for _, row := range t.Rows {
			if row.ID == id {
				return row, true
			}
		}
		return IndicatorRow{}, false
	}
	i, ok := t.index[id]
	if !ok {
		return IndicatorRow{}, false
	}
	return t.Rows[i], true
}

// MetadataIndex returns the position of the named metadata column, or -1.
func (t *IndicatorTable) MetadataIndex(name string) int {
	for i, col := range t.MetadataColumns {
		if col == name {
			return i
		}
	}
	return -1
}

// FeatureMatrix is the X side of a split: one row per submit row and one
// integer-labelled column per feature year.
type FeatureMatrix struct {
	RowIDs []string
	Years  []int
	Values [][]float64
}

// Rows returns the number of rows.
func (m *FeatureMatrix) Rows() int {
	return len(m.RowIDs)
}

// Cols returns the number of year columns.
func (m *FeatureMatrix) Cols() int {
	return len(m.Years)
}

// YearIndex returns the column position of year, or -1.
func (m *FeatureMatrix) YearIndex(year int) int {
	for i, y := range m.Years {
		if y == year {
			return i
		}
	}
	return -1
}

// Column returns a copy of the values stored for year.
func (m *FeatureMatrix) Column(year int) ([]float64, bool) {
	j := m.YearIndex(year)
	if j < 0 {
		return nil, false
	}
	col := make([]float64, len(m.Values))
	for i, row := range m.Values {
		col[i] = row[j]
	}
	return col, true
}

// Clone returns a deep copy so that callers can fill cells without aliasing
// the source matrix.
func (m *FeatureMatrix) Clone() *FeatureMatrix {
	out := &FeatureMatrix{
		RowIDs: append([]string(nil), m.RowIDs...),
		Years:  append([]int(nil), m.Years...),
		Values: make([][]float64, len(m.Values)),
	}
	for i, row := range m.Values {
		out.Values[i] = append([]float64(nil), row...)
	}
	return out
}

// MissingCount returns the number of NaN cells.
func (m *FeatureMatrix) MissingCount() int {
	n := 0
	for _, row := range m.Values {
		for _, v := range row {
			if math.IsNaN(v) {
				n++
			}
		}
	}
	return n
}

// TargetSeries is the Y side of a split: the target-year value of every
// submit row, in the same order as the feature matrix.
type TargetSeries struct {
	Year   int
	RowIDs []string
	Values []float64
}

// Len returns the number of targets.
func (s *TargetSeries) Len() int {
	return len(s.Values)
}

// Split pairs the features of the submit rows with their targets.
type Split struct {
	X *FeatureMatrix
	Y *TargetSeries
}
