package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	apperrors "mdgprep/internal/errors"
	"mdgprep/pkg/contracts/domain"
)

// ForViz selects the submit rows, keeps every year column (target year
// included) next to the metadata columns and groups the rows by indicator
// name. Nothing is aggregated: each group is a view over the selected rows.
//
// Rows with an empty indicator name belong to no group and are logged.
func (p *Preprocessor) ForViz(ctx context.Context, table *domain.IndicatorTable, submitRows []string) (*domain.SeriesGrouping, error) {
	start := time.Now()

	sel, err := p.selectRows(table, submitRows)
	if err != nil {
		p.logger.ErrorContext(ctx, "row selection failed",
			slog.String("operation", OperationViz),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("viz preprocessing: %w", err)
	}

	nameIdx := table.MetadataIndex(p.opts.SeriesNameColumn)
	if nameIdx < 0 {
		return nil, fmt.Errorf("viz preprocessing: %w",
			apperrors.NewSchemaError(fmt.Sprintf("table has no %q column", p.opts.SeriesNameColumn)))
	}

	frame := &domain.VizFrame{
		Years:           sel.years,
		MetadataColumns: append([]string(nil), table.MetadataColumns...),
		RowIDs:          make([]string, len(sel.rows)),
		Values:          make([][]float64, len(sel.rows)),
		Metadata:        make([][]string, len(sel.rows)),
	}

	positions := make(map[string][]int)
	unnamed := 0
	for i, row := range sel.rows {
		frame.RowIDs[i] = row.ID
		frame.Values[i] = append([]float64(nil), row.Values...)
		frame.Metadata[i] = append([]string(nil), row.Metadata...)

		name := row.Metadata[nameIdx]
		if strings.TrimSpace(name) == "" {
			unnamed++
			continue
		}
		positions[name] = append(positions[name], i)
	}

	if unnamed > 0 {
		p.logger.WarnContext(ctx, "rows without indicator name left out of grouping",
			slog.Int("rows", unnamed),
			slog.String("column", p.opts.SeriesNameColumn))
	}

	grouping := domain.NewSeriesGrouping(p.opts.SeriesNameColumn, frame, positions)

	p.recorder.RowsSelected(OperationViz, len(sel.rows))
	p.recorder.ObserveDuration(OperationViz, time.Since(start))
	p.logger.InfoContext(ctx, "grouped submit rows by indicator",
		slog.Int("rows", frame.Len()),
		slog.Int("groups", grouping.Len()))

	return grouping, nil
}
