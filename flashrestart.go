// Package flashrestart resumes FLASH simulation runs from their last checkpoint.
//
// It finds the restart point in a run log and rewrites the run's parameter
// file to match, keeping a timestamped backup of the original.
//
// Example usage:
//
//	point, err := flashrestart.GetRestartPoint("tdyno2016_", "run/tdyno2016.log")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := flashrestart.ApplyRestart(ctx, point, "run/flash.par"); err != nil {
//	    log.Fatal(err)
//	}
package flashrestart

import (
	"context"

	"github.com/bft-labs/flashrestart/internal/domain"
	"github.com/bft-labs/flashrestart/pkg/logscan"
	"github.com/bft-labs/flashrestart/pkg/parfile"
)

// RestartPoint is the checkpoint to restart from and the first plot number
// the restarted run writes.
type RestartPoint = domain.RestartPoint

// Overrides maps parameter names to replacement values.
type Overrides = parfile.Overrides

// Errors returned by the entry points; check them with errors.Is.
var (
	ErrScan          = domain.ErrScan
	ErrBackup        = domain.ErrBackup
	ErrLocked        = domain.ErrLocked
	ErrInvalidKey    = domain.ErrInvalidKey
	ErrInvalidValue  = domain.ErrInvalidValue
	ErrInvalidConfig = domain.ErrInvalidConfig
)

// GetRestartPoint scans the log at logPath for the close events of the run
// named baseName. The error wraps ErrScan when no checkpoint was closed.
func GetRestartPoint(baseName, logPath string) (RestartPoint, error) {
	return logscan.Scan(baseName, logPath)
}

// ApplyRestart points the parameter file at configPath to p. The file is
// backed up first; the error wraps ErrBackup if that fails.
func ApplyRestart(ctx context.Context, p RestartPoint, configPath string) error {
	return parfile.ApplyRestart(ctx, p, configPath)
}

// ApplyOverrides rewrites the values of the given parameters in the file at
// configPath. Parameters missing from the file are skipped.
func ApplyOverrides(ctx context.Context, overrides Overrides, configPath string) error {
	return parfile.ApplyOverrides(ctx, overrides, configPath)
}
