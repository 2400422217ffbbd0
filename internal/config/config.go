// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the sync
// client. It aggregates all sub-configurations and is populated by merging
// values from a .env file, environment variables, command-line flags and an
// optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds logging and presentation settings.
	App App `envPrefix:"APP_"`

	// Adapter holds the remote notes API settings.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Storage selects and configures the durable queue backend.
	Storage Storage `envPrefix:"STORAGE_"`

	// Workers holds the background sync job settings.
	Workers Workers `envPrefix:"WORKERS_"`

	// Connectivity configures the reachability probe.
	Connectivity Connectivity `envPrefix:"CONNECTIVITY_"`

	// Control configures the local HTTP control API.
	Control Control `envPrefix:"CONTROL_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds process-wide settings.
type App struct {
	// LogFile is the rotating log file path. Empty means stdout.
	// Env: APP_LOG_FILE
	LogFile string `env:"LOG_FILE"`

	// LogMaxSizeMB is the size after which the log file is rotated.
	// Env: APP_LOG_MAX_SIZE_MB
	LogMaxSizeMB int `env:"LOG_MAX_SIZE_MB"`

	// LogMaxBackups is the number of rotated files kept.
	// Env: APP_LOG_MAX_BACKUPS
	LogMaxBackups int `env:"LOG_MAX_BACKUPS"`

	// LogMaxAgeDays is the retention of rotated files.
	// Env: APP_LOG_MAX_AGE_DAYS
	LogMaxAgeDays int `env:"LOG_MAX_AGE_DAYS"`

	// LogLevel is a zerolog level name ("debug", "info", ...).
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`

	// TUI enables the terminal status bar.
	// Env: APP_TUI
	TUI bool `env:"TUI"`
}

// Adapter holds settings of the remote notes API.
type Adapter struct {
	// HTTPAddress is the base URL of the notes API
	// (e.g. "http://localhost:8080/api").
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds a single outbound request (e.g. "10s").
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// AccessToken is the bearer token sent with every request.
	// Env: ADAPTER_ACCESS_TOKEN
	AccessToken string `env:"ACCESS_TOKEN"`

	// RefreshToken is exchanged at /auth/refresh for a new access token.
	// Env: ADAPTER_REFRESH_TOKEN
	RefreshToken string `env:"REFRESH_TOKEN"`
}

// Storage groups the configuration for the queue persistence backends.
type Storage struct {
	// Driver is either "sqlite" or "file".
	// Env: STORAGE_DRIVER
	Driver string `env:"DRIVER"`

	// DB holds the SQLite connection settings.
	DB DB `envPrefix:"DB_"`

	// Files holds the JSON file backend settings.
	Files Files `envPrefix:"FILES_"`
}

// DB holds connection settings for the SQLite backend.
type DB struct {
	// DSN is the go-sqlite3 data source name (e.g. "file:notes-sync.db").
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Files holds paths of the file backend.
type Files struct {
	// QueuePath is the JSON file holding the pending action queue.
	// Env: STORAGE_FILES_QUEUE_PATH
	QueuePath string `env:"QUEUE_PATH"`

	// DeadLetterPath is the JSON-lines file of abandoned actions.
	// Env: STORAGE_FILES_DEAD_LETTER_PATH
	DeadLetterPath string `env:"DEAD_LETTER_PATH"`
}

// Workers holds configuration for the background sync job.
type Workers struct {
	// SyncInterval is the period of the scheduled drain pass.
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`

	// MaxAttempts is the default attempt ceiling of new actions.
	// Env: WORKERS_MAX_ATTEMPTS
	MaxAttempts int `env:"MAX_ATTEMPTS"`

	// BackoffBase is the first delay of the retry backoff between passes.
	// Env: WORKERS_BACKOFF_BASE
	BackoffBase time.Duration `env:"BACKOFF_BASE"`

	// BackoffMax caps the retry backoff.
	// Env: WORKERS_BACKOFF_MAX
	BackoffMax time.Duration `env:"BACKOFF_MAX"`
}

// Connectivity configures the reachability probe.
type Connectivity struct {
	// ProbeURL is requested with HEAD to decide internet reachability.
	// Defaults to the adapter address.
	// Env: CONNECTIVITY_PROBE_URL
	ProbeURL string `env:"PROBE_URL"`

	// Interval is the polling period of the probe.
	// Env: CONNECTIVITY_INTERVAL
	Interval time.Duration `env:"INTERVAL"`

	// Timeout bounds a single probe.
	// Env: CONNECTIVITY_TIMEOUT
	Timeout time.Duration `env:"TIMEOUT"`
}

// Control configures the local HTTP control API.
type Control struct {
	// HTTPAddress is the listen address in "host:port" form. Empty disables
	// the control API.
	// Env: CONTROL_ADDRESS
	HTTPAddress string `env:"ADDRESS"`
}

// GetStructuredConfig loads, merges, and validates the configuration from all
// available sources in the following priority order (later sources override
// non-zero fields of earlier ones):
//  1. .env file (only fills variables that are not already set)
//  2. Environment variables
//  3. Command-line flags
//  4. JSON file (path resolved from sources 1-3)
func GetStructuredConfig(args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withDotEnv("").
		withEnv().
		withFlags(args).
		withJSON().
		build()
}
