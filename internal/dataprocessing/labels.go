package dataprocessing

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "mdgprep/internal/errors"
)

// ParseYearLabel returns the integer before the first space of a column
// label, so "1972 [YR1972]" yields 1972.
func ParseYearLabel(label string) (int, error) {
	token, _, _ := strings.Cut(label, " ")
	year, err := strconv.Atoi(token)
	if err != nil {
		return 0, apperrors.NewParsingError(fmt.Sprintf("column label %q has no leading year", label), err).
			WithContext("label", label)
	}
	return year, nil
}

// ParseYearLabels relabels every column, failing on the first bad label.
func ParseYearLabels(labels []string) ([]int, error) {
	years := make([]int, len(labels))
	for i, label := range labels {
		year, err := ParseYearLabel(label)
		if err != nil {
			return nil, err
		}
		years[i] = year
	}
	return years, nil
}
