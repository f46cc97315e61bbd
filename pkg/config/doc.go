// Package config loads, defaults, and validates gateway configuration.
//
// Configuration comes from a YAML file, optionally overridden by PARLEY_*
// environment variables. A fsnotify-based watcher supports live log-level
// changes without a restart.
package config
