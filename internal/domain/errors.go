package domain

import "errors"

// Domain errors represent error conditions in the restart workflow.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrScan is returned when no usable restart point can be found in a run log.
	ErrScan = errors.New("flashrestart: scan failed")

	// ErrBackup is returned when the pre-edit copy of a configuration file
	// could not be written. The configuration file is left untouched.
	ErrBackup = errors.New("flashrestart: backup failed")

	// ErrLocked is returned when another writer holds the advisory lock on a
	// configuration file for longer than the lock timeout.
	ErrLocked = errors.New("flashrestart: configuration file is locked")

	// ErrInvalidKey is returned when an override key is not a plain identifier.
	ErrInvalidKey = errors.New("flashrestart: invalid parameter name")

	// ErrInvalidValue is returned when an override value has no textual form.
	ErrInvalidValue = errors.New("flashrestart: unsupported parameter value")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("flashrestart: invalid configuration")
)
