// Package dataprocessing prepares the macroeconomic indicator training table
// for the 2007 prediction task.
//
// # Architecture
//
// The package is organized into three parts:
//
// 1. Parser: reads the training table (CSV or xlsx) and the submit row ids
// 2. Preprocessor: selects submit rows and derives model inputs from them
// 3. Interpolation: the per-row gap filling used by the imputer
//
// The preprocessor offers three independent operations over the same input:
//
//   - Simple splits the submit rows into features (1972-2006) and targets (2007)
//   - ForViz keeps the metadata columns and groups the rows by indicator name
//   - AvgNaNs splits like Simple, then fills the last feature year from recent
//     values or the indicator's cross-sectional median and interpolates the rest
//
// # Usage
//
//	table, err := dataprocessing.ParseTableFile("TrainingSet.csv", dataprocessing.DefaultParseOptions())
//	if err != nil {
//	    return err
//	}
//	rows, err := dataprocessing.ParseSubmitRowsFile("SubmissionRows.csv")
//	if err != nil {
//	    return err
//	}
//
//	p, err := dataprocessing.NewPreprocessor(logger, metrics, dataprocessing.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	split, stats, err := p.AvgNaNs(ctx, table, rows)
//
// # Error Handling
//
// Errors are *errors.AppError values from mdgprep/internal/errors, wrapped with
// the name of the failing operation:
//
//   - NOT_FOUND when a submit row is absent from the table
//   - PARSING when a year column label has no leading integer or a cell is not a number
//   - SCHEMA when the table layout does not match the configured options
//
// A NaN cross-sectional median is not an error: it is used as the fill value
// and reported through the logger and the Recorder.
package dataprocessing
