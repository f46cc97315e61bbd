// Package logging configures the process-wide structured logger.
// All packages log through log/slog; this package selects the handler,
// level, and format from configuration and installs the default logger.
package logging
