package exporter

import (
	"math"
	"strconv"
)

// formatFloat writes the shortest representation that round-trips. NaN is
// written as an empty cell.
func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// formatYear formats a year column label.
func formatYear(year int) string {
	return strconv.Itoa(year)
}
