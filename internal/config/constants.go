package config

// Application constants
const (
	AppName = "mdgprep"

	// Training table layout
	DefaultMetadataColumns  = 3
	DefaultSeriesNameColumn = "Series Name"

	// Imputation
	DefaultLookbackYears      = 9
	DefaultInterpolationLimit = 50

	// File Paths (relative to the working directory)
	DefaultDataDir    = "data"
	DefaultReportsDir = "data/reports"
	DefaultLogsDir    = "logs"

	// Output file names
	FeaturesCSV   = "features.csv"
	TargetsCSV    = "targets.csv"
	VizCSV        = "viz_groups.csv"
	SplitWorkbook = "split.xlsx"
)
