// Package shared groups helpers that are used across mdgprep packages but
// belong to none of them.
//
// The testutil subpackage provides:
//
//   - a slog handler that captures records for assertions
//   - builders for small indicator tables with NaN-aware year rows
package shared
