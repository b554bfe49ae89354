// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load() layers defaults, an optional YAML file, and environment vars.
// - External errors must be wrapped via this package's error helpers.
package config

import "runtime"

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address for serve mode, e.g. ":9080".
	Addr string `koanf:"addr"`

	// TopN sets the podium size per leaderboard.
	TopN int `koanf:"top_n"`

	// Workers sets the number of goroutines ranking cohorts.
	Workers int `koanf:"workers"`

	// Divisions lists division names from most to least preferred.
	// Entries not in the list always rank worse than every listed one.
	Divisions []string `koanf:"divisions"`

	// CommentPrefix marks source lines to strip before CSV parsing.
	CommentPrefix string `koanf:"comment_prefix"`

	// PlacedOnly excludes rows whose Place is not a non-negative
	// integer (no-shows and the like) before grouping.
	PlacedOnly bool `koanf:"placed_only"`

	// MaxUploadBytes caps the request body size for HTTP uploads.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:      "info",
		Addr:          ":9080",
		TopN:          3,
		Workers:       runtime.NumCPU(),
		Divisions:     []string{"Sub-Junior", "Junior", "M1", "M2", "M3", "Open"},
		CommentPrefix: "//",
		PlacedOnly:    false,

		MaxUploadBytes: 16 << 20, // 16 MiB
	}
}
