package main

import (
	"context"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"mdgprep/internal/config"
	"mdgprep/internal/dataprocessing"
	"mdgprep/pkg/contracts"
)

// Output formats of the simple and impute commands.
const (
	formatCSV  = "csv"
	formatXLSX = "xlsx"
)

type rootOptions struct {
	ConfigPath string
	TrainPath  string `validate:"required"`
	SubmitPath string `validate:"required"`
	OutDir     string
	Format     string `validate:"oneof=csv xlsx"`
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:           config.AppName,
		Short:         "Prepare MDG indicator tables for forecasting and plotting",
		Version:       contracts.GetFullVersionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "Config file (default: mdgprep.yaml or configs/mdgprep.yaml)")
	flags.StringVar(&opts.TrainPath, "train", "", "Training table, .csv or .xlsx (required)")
	flags.StringVar(&opts.SubmitPath, "submit", "", "Submission CSV listing the rows to predict (required)")
	flags.StringVar(&opts.OutDir, "out", "", "Output directory (default: paths.reports_dir)")
	flags.StringVar(&opts.Format, "format", formatCSV, "Output format for splits: csv or xlsx")

	cmd.AddCommand(
		newOperationCmd(&opts, dataprocessing.OperationSimple,
			"Split submit rows into features and the target year, leaving gaps as-is"),
		newOperationCmd(&opts, dataprocessing.OperationImpute,
			"Split submit rows and fill feature gaps from recent values, medians and interpolation"),
		newOperationCmd(&opts, dataprocessing.OperationViz,
			"Group submit rows by indicator and write them in long form for plotting"),
	)

	return cmd
}

func newOperationCmd(opts *rootOptions, operation, short string) *cobra.Command {
	return &cobra.Command{
		Use:   operation,
		Short: short,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return validateOptions(*opts)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), *opts, operation)
		},
	}
}

// validateOptions checks the flags shared by every subcommand.
func validateOptions(opts rootOptions) error {
	if err := validator.New().Struct(opts); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}
