package dataprocessing

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertFloats compares slices treating NaN as equal to NaN.
func assertFloats(t *testing.T, want, got []float64, msgAndArgs ...interface{}) {
	t.Helper()
	require.Len(t, got, len(want), msgAndArgs...)
	for i := range want {
		if math.IsNaN(want[i]) {
			assert.True(t, math.IsNaN(got[i]), "index %d: want NaN, got %v", i, got[i])
			continue
		}
		assert.InDelta(t, want[i], got[i], 1e-9, "index %d", i)
	}
}

// assertBitsEqual checks two matrices for bit-identical values.
func assertBitsEqual(t *testing.T, want, got [][]float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		require.Len(t, got[i], len(want[i]))
		for j := range want[i] {
			assert.Equal(t, math.Float64bits(want[i][j]), math.Float64bits(got[i][j]), "cell %d,%d", i, j)
		}
	}
}

type fakeRecorder struct {
	rows      map[string]int
	fills     map[string]int
	empty     []string
	durations map[string]int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{
		rows:      map[string]int{},
		fills:     map[string]int{},
		durations: map[string]int{},
	}
}

func (f *fakeRecorder) RowsSelected(op string, n int)              { f.rows[op] += n }
func (f *fakeRecorder) CellsFilled(method string, n int)           { f.fills[method] += n }
func (f *fakeRecorder) EmptyMedianGroup(name string)               { f.empty = append(f.empty, name) }
func (f *fakeRecorder) ObserveDuration(op string, _ time.Duration) { f.durations[op]++ }
