package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() *IndicatorTable {
	return NewIndicatorTable(
		[]string{"2006 x", "2007 x"},
		[]string{"Country Name", "Series Code", "Series Name"},
		[]IndicatorRow{
			{ID: "1", Values: []float64{1, 2}, Metadata: []string{"Chad", "A", "GDP"}},
			{ID: "2", Values: []float64{3, 4}, Metadata: []string{"Peru", "A", "GDP"}},
			{ID: "1", Values: []float64{9, 9}, Metadata: []string{"Mali", "A", "GDP"}},
		},
	)
}

func TestIndicatorTable_Lookup(t *testing.T) {
	table := sampleTable()

	row, ok := table.Lookup("1")
	require.True(t, ok)
	assert.Equal(t, "Chad", row.Metadata[0], "first occurrence wins")

	_, ok = table.Lookup("3")
	assert.False(t, ok)
	assert.Equal(t, 3, table.Len())
}

func TestIndicatorTable_LookupWithoutIndex(t *testing.T) {
	table := &IndicatorTable{Rows: []IndicatorRow{{ID: "x", Values: []float64{1}}}}

	row, ok := table.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, []float64{1}, row.Values)

	_, ok = table.Lookup("y")
	assert.False(t, ok)
}

func TestIndicatorTable_MetadataIndex(t *testing.T) {
	table := sampleTable()
	assert.Equal(t, 2, table.MetadataIndex("Series Name"))
	assert.Equal(t, 0, table.MetadataIndex("Country Name"))
	assert.Equal(t, -1, table.MetadataIndex("Indicator"))
}

func TestFeatureMatrix(t *testing.T) {
	m := &FeatureMatrix{
		RowIDs: []string{"a", "b"},
		Years:  []int{2005, 2006},
		Values: [][]float64{{1, math.NaN()}, {3, 4}},
	}

	assert.Equal(t, 2, m.Rows())
	assert.Equal(t, 2, m.Cols())
	assert.Equal(t, 1, m.YearIndex(2006))
	assert.Equal(t, -1, m.YearIndex(2007))
	assert.Equal(t, 1, m.MissingCount())

	col, ok := m.Column(2005)
	require.True(t, ok)
	assert.Equal(t, []float64{1, 3}, col)
	col[0] = 100
	assert.Equal(t, 1.0, m.Values[0][0])

	_, ok = m.Column(1999)
	assert.False(t, ok)
}

func TestFeatureMatrix_Clone(t *testing.T) {
	m := &FeatureMatrix{
		RowIDs: []string{"a"},
		Years:  []int{2005},
		Values: [][]float64{{math.NaN()}},
	}

	c := m.Clone()
	c.Values[0][0] = 7
	c.RowIDs[0] = "z"
	c.Years[0] = 1

	assert.True(t, math.IsNaN(m.Values[0][0]))
	assert.Equal(t, "a", m.RowIDs[0])
	assert.Equal(t, 2005, m.Years[0])
}
