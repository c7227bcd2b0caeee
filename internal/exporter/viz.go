package exporter

import (
	"log/slog"

	apperrors "mdgprep/internal/errors"
	"mdgprep/pkg/contracts/domain"
)

// VizHeaders are the leading columns of the long-form export. The frame's
// metadata columns follow.
var VizHeaders = []string{"series_name", "row_id", "year", "value"}

// VizExporter writes series groupings in long form
type VizExporter struct {
	csvWriter *CSVWriter
}

// NewVizExporter creates a new viz exporter
func NewVizExporter(csvWriter *CSVWriter) *VizExporter {
	return &VizExporter{csvWriter: csvWriter}
}

// ExportGrouping writes one line per row and year, groups in key order and
// rows in selection order within a group. It returns the number of lines
// written.
func (v *VizExporter) ExportGrouping(grouping *domain.SeriesGrouping, filePath string) (int, error) {
	if grouping == nil || grouping.Frame() == nil {
		return 0, apperrors.NewValidationError("grouping is nil", nil)
	}
	frame := grouping.Frame()

	headers := append(append([]string(nil), VizHeaders...), frame.MetadataColumns...)
	stream, err := v.csvWriter.CreateStreamWriter(filePath, headers)
	if err != nil {
		return 0, err
	}

	for key, group := range grouping.All() {
		for i, id := range group.RowIDs {
			for j, year := range group.Years {
				record := make([]string, 0, len(headers))
				record = append(record, key, id, formatYear(year), formatFloat(group.Values[i][j]))
				record = append(record, group.Metadata[i]...)
				if err := stream.WriteRecord(record); err != nil {
					stream.Close()
					return stream.Count(), err
				}
			}
		}
	}

	if err := stream.Close(); err != nil {
		return stream.Count(), err
	}

	v.csvWriter.logger.Info("Wrote viz groups",
		slog.String("full_path", stream.Path()),
		slog.Int("groups", grouping.Len()),
		slog.Int("records", stream.Count()))
	return stream.Count(), nil
}
