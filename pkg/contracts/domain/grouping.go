package domain

import (
	"iter"
	"sort"
)

// VizFrame holds submit rows with integer year columns followed by the
// original metadata columns, ready for plotting.
type VizFrame struct {
	Years           []int
	MetadataColumns []string
	RowIDs          []string
	Values          [][]float64
	Metadata        [][]string
}

// Len returns the number of rows in the frame.
func (f *VizFrame) Len() int {
	return len(f.RowIDs)
}

// subset returns a new frame holding the rows at the given positions. Row
// slices are shared with the parent frame.
func (f *VizFrame) subset(positions []int) *VizFrame {
	out := &VizFrame{
		Years:           f.Years,
		MetadataColumns: f.MetadataColumns,
		RowIDs:          make([]string, len(positions)),
		Values:          make([][]float64, len(positions)),
		Metadata:        make([][]string, len(positions)),
	}
	for i, p := range positions {
		out.RowIDs[i] = f.RowIDs[p]
		out.Values[i] = f.Values[p]
		out.Metadata[i] = f.Metadata[p]
	}
	return out
}

// SeriesGrouping is a grouped view over a VizFrame keyed by indicator name.
// Groups are not aggregated; a sub-frame is only built when it is requested.
type SeriesGrouping struct {
	Column string

	frame     *VizFrame
	keys      []string
	positions map[string][]int
}

// NewSeriesGrouping creates a grouping over frame. positions maps each key to
// the row positions of frame belonging to it. Keys are kept in ascending order.
func NewSeriesGrouping(column string, frame *VizFrame, positions map[string][]int) *SeriesGrouping {
	keys := make([]string, 0, len(positions))
	for key := range positions {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return &SeriesGrouping{
		Column:    column,
		frame:     frame,
		keys:      keys,
		positions: positions,
	}
}

// Frame returns the underlying ungrouped frame.
func (g *SeriesGrouping) Frame() *VizFrame {
	return g.frame
}

// Len returns the number of groups.
func (g *SeriesGrouping) Len() int {
	return len(g.keys)
}

// Keys returns the group keys in ascending order.
func (g *SeriesGrouping) Keys() []string {
	return append([]string(nil), g.keys...)
}

// Size returns the number of rows in the group, 0 for an unknown key.
func (g *SeriesGrouping) Size(key string) int {
	return len(g.positions[key])
}

// Group materialises the rows belonging to key.
func (g *SeriesGrouping) Group(key string) (*VizFrame, bool) {
	positions, ok := g.positions[key]
	if !ok {
		return nil, false
	}
	return g.frame.subset(positions), true
}

// All iterates over the groups in key order.
func (g *SeriesGrouping) All() iter.Seq2[string, *VizFrame] {
	return func(yield func(string, *VizFrame) bool) {
		for _, key := range g.keys {
			if !yield(key, g.frame.subset(g.positions[key])) {
				return
			}
		}
	}
}
