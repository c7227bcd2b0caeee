// Package config provides centralized configuration management for mdgprep.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Environment variables (highest priority)
//  2. YAML configuration file
//  3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern MDG_<SECTION>_<FIELD>:
//
//	MDG_LOGGING_LEVEL=debug
//	MDG_DATASET_SERIES_NAME_COLUMN="Series Name"
//	MDG_IMPUTATION_LOOKBACK_YEARS=9
//	MDG_METRICS_TEXTFILE_PATH=/var/lib/node_exporter/mdgprep.prom
//
// MDG_CONFIG points at the YAML file when it is not in one of the default
// locations (mdgprep.yaml, configs/mdgprep.yaml).
//
// # Validation
//
// The merged configuration is validated with go-playground/validator struct
// tags before it is returned.
package config
