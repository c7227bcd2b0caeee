// Package exporter writes preprocessing results to disk.
//
// CSVWriter is the low level writer: whole files through WriteCSV, or row by
// row through a StreamWriter. Relative paths resolve inside the reports
// directory.
//
// SplitExporter writes a feature/target split either as two CSV files
// (features.csv with one column per year, targets.csv with the target year)
// or as a single workbook with "features" and "targets" sheets.
//
// VizExporter flattens a series grouping into long form, one line per
// row and year, which plotting tools can pivot back as needed.
//
// Missing observations are written as empty cells everywhere.
//
// Example usage:
//
//	writer := exporter.NewCSVWriter(cfg.Paths.ReportsDir)
//	splits := exporter.NewSplitExporter(writer)
//	err := splits.ExportCSV(split, config.FeaturesCSV, config.TargetsCSV)
package exporter
