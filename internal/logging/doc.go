// Package logging builds the slog loggers used across modq.
//
// It provides a console handler that renders compact single-line output
// with a leading component label, a JSON handler for machine consumption,
// multi-destination writers (stdout plus logfile), and standardized
// attribute helpers so the daemon and the reviewer surface log the same
// field names for items, outcomes, and risk levels.
package logging
