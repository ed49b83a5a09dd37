// Package constants provides centralized constant values used throughout Planwise.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// Directory and file names used by Planwise for state persistence.
const (
	// PlanwiseHome is the hidden directory name where Planwise stores all its data.
	// This directory is created in the user's home directory.
	PlanwiseHome = ".planwise"

	// ConfigFileName is the name of the YAML configuration file.
	ConfigFileName = "config.yaml"

	// HistoryFileName is the name of the encrypted action-history blob.
	HistoryFileName = "history.enc"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"

	// CLILogFileName is the rotating log file written by the CLI.
	CLILogFileName = "planwise.log"
)

// Log rotation settings for the CLI log file.
const (
	// LogMaxSizeMB is the maximum size of a log file before rotation.
	LogMaxSizeMB = 10

	// LogMaxBackups is the number of rotated files to keep.
	LogMaxBackups = 3

	// LogMaxAgeDays is the maximum age of a rotated file in days.
	LogMaxAgeDays = 30

	// LogCompress enables gzip compression of rotated files.
	LogCompress = true
)

// Retry configuration for provider calls.
const (
	// MaxRetryAttempts is the total number of attempts for a provider request,
	// including the first one. Auth and validation failures are never retried.
	MaxRetryAttempts = 3

	// InitialBackoff is the delay before the first retry. Each subsequent
	// retry doubles it (delay = InitialBackoff * 2^attempt).
	InitialBackoff = 1 * time.Second

	// BackoffMultiplier doubles the backoff after every failed attempt.
	BackoffMultiplier = 2
)

// Provider request defaults.
const (
	// DefaultRequestTimeout bounds a single provider HTTP round trip.
	DefaultRequestTimeout = 120 * time.Second
)

// Action-history policy.
const (
	// MaxHistoryEntries caps the persisted action history. When the cap is
	// exceeded the oldest entries are dropped first.
	MaxHistoryEntries = 50

	// MinUndoWindowMinutes is the smallest configurable undo window.
	MinUndoWindowMinutes = 1

	// MaxUndoWindowMinutes is the largest configurable undo window (24 hours).
	MaxUndoWindowMinutes = 1440

	// DefaultUndoWindowMinutes is the undo window used when none is configured.
	DefaultUndoWindowMinutes = 30
)

// Workspace layout defaults used when the engine synthesizes a new table.
const (
	// TablePositionStep staggers auto-created tables so they do not
	// visually overlap in the host UI.
	TablePositionStep = 30

	// DefaultTableStartTime is the start time given to auto-created day tables.
	DefaultTableStartTime = "09:00"
)

// DateFormat values supported for rendering day-table titles.
const (
	// DateFormatISO renders dates as 2026-01-27.
	DateFormatISO = "iso"

	// DateFormatWeekday renders dates as "Tuesday, Jan 27".
	DateFormatWeekday = "weekday"
)
