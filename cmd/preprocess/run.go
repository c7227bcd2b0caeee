package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"mdgprep/internal/config"
	"mdgprep/internal/dataprocessing"
	"mdgprep/internal/exporter"
	"mdgprep/internal/infrastructure"
	"mdgprep/internal/validation"
	"mdgprep/pkg/contracts/domain"
)

// inputs holds everything read from disk before an operation runs.
type inputs struct {
	table      *domain.IndicatorTable
	submitRows []string
}

// run loads the configuration and inputs, runs one operation and writes its
// results and the run metrics.
func run(ctx context.Context, opts rootOptions, operation string) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.OutDir != "" {
		cfg.Paths.ReportsDir = opts.OutDir
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer infrastructure.CloseLogFile()

	ctx = infrastructure.EnsureTraceID(ctx)
	logger = infrastructure.WithComponent(logger, "cli")
	start := time.Now()

	logger.InfoContext(ctx, "Starting preprocessing run",
		slog.String("operation", operation),
		slog.String("train", opts.TrainPath),
		slog.String("submit", opts.SubmitPath),
		slog.String("format", opts.Format))

	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}
	if err := checkPaths(validation.NewFileValidator(logger), opts, cfg.Paths.ReportsDir); err != nil {
		return err
	}

	in, err := loadInputs(ctx, cfg, opts.TrainPath, opts.SubmitPath)
	if err != nil {
		infrastructure.WithError(logger, err).ErrorContext(ctx, "Failed to load inputs")
		return err
	}
	logger.InfoContext(ctx, "Loaded inputs",
		slog.Int("table_rows", in.table.Len()),
		slog.Int("year_columns", len(in.table.ValueColumns)),
		slog.Int("submit_rows", len(in.submitRows)))

	metrics := infrastructure.NewMetrics()
	preprocessor, err := dataprocessing.NewPreprocessor(logger, metrics, dataprocessing.OptionsFromConfig(cfg))
	if err != nil {
		return err
	}

	writer := exporter.NewCSVWriter(cfg.Paths.ReportsDir)
	outputs, err := execute(ctx, preprocessor, writer, operation, opts.Format, in)
	if err != nil {
		infrastructure.WithError(logger, err).ErrorContext(ctx, "Preprocessing failed",
			slog.String("operation", operation))
		return err
	}

	if cfg.Metrics.Enabled {
		if err := metrics.WriteTextfile(cfg.Metrics.TextfilePath); err != nil {
			// metrics are best effort for a batch run
			infrastructure.WithError(logger, err).WarnContext(ctx, "Failed to write metrics textfile")
		}
	}

	logger.InfoContext(ctx, "Preprocessing run complete",
		slog.String("operation", operation),
		slog.Any("outputs", outputs),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// checkPaths fails fast on unreadable inputs or an unwritable output
// directory.
func checkPaths(v *validation.FileValidator, opts rootOptions, outDir string) error {
	if err := v.ValidateTableFile(opts.TrainPath); err != nil {
		return fmt.Errorf("invalid training table: %w", err)
	}
	if err := v.ValidateCSVFile(opts.SubmitPath); err != nil {
		return fmt.Errorf("invalid submit rows file: %w", err)
	}
	return v.ValidateOutputDirectory(outDir)
}

// loadInputs reads the training table and the submit rows concurrently.
func loadInputs(ctx context.Context, cfg *config.Config, trainPath, submitPath string) (*inputs, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var in inputs
	var g errgroup.Group

	g.Go(func() error {
		table, err := dataprocessing.ParseTableFile(trainPath, dataprocessing.ParseOptionsFromConfig(cfg))
		if err != nil {
			return fmt.Errorf("failed to load training table: %w", err)
		}
		in.table = table
		return nil
	})
	g.Go(func() error {
		ids, err := dataprocessing.ParseSubmitRowsFile(submitPath)
		if err != nil {
			return fmt.Errorf("failed to load submit rows: %w", err)
		}
		in.submitRows = ids
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &in, nil
}

// execute runs operation and exports its result, returning the paths written.
func execute(ctx context.Context, p *dataprocessing.Preprocessor, writer *exporter.CSVWriter, operation, format string, in *inputs) ([]string, error) {
	switch operation {
	case dataprocessing.OperationSimple:
		split, err := p.Simple(ctx, in.table, in.submitRows)
		if err != nil {
			return nil, err
		}
		return exportSplit(writer, split, format)

	case dataprocessing.OperationImpute:
		split, _, err := p.AvgNaNs(ctx, in.table, in.submitRows)
		if err != nil {
			return nil, err
		}
		return exportSplit(writer, split, format)

	case dataprocessing.OperationViz:
		grouping, err := p.ForViz(ctx, in.table, in.submitRows)
		if err != nil {
			return nil, err
		}
		if _, err := exporter.NewVizExporter(writer).ExportGrouping(grouping, config.VizCSV); err != nil {
			return nil, err
		}
		return []string{writer.ResolvePath(config.VizCSV)}, nil

	default:
		return nil, fmt.Errorf("unknown operation %q", operation)
	}
}

func exportSplit(writer *exporter.CSVWriter, split *domain.Split, format string) ([]string, error) {
	splits := exporter.NewSplitExporter(writer)

	if format == formatXLSX {
		if err := splits.ExportWorkbook(split, config.SplitWorkbook); err != nil {
			return nil, err
		}
		return []string{writer.ResolvePath(config.SplitWorkbook)}, nil
	}

	if err := splits.ExportCSV(split, config.FeaturesCSV, config.TargetsCSV); err != nil {
		return nil, err
	}
	return []string{writer.ResolvePath(config.FeaturesCSV), writer.ResolvePath(config.TargetsCSV)}, nil
}
