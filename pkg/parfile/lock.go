package parfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/bft-labs/flashrestart/internal/domain"
)

const (
	DefaultLockTimeout    = 5 * time.Second
	DefaultLockRetry      = 50 * time.Millisecond
	DefaultLockStaleAfter = 10 * time.Minute
)

type lockConfig struct {
	timeout    time.Duration
	retry      time.Duration
	staleAfter time.Duration
}

func lockPath(path string) string { return path + ".lock" }

// acquireLock takes the advisory lock for path and returns its release func.
// The lock is a sibling file created with O_EXCL; a lock file older than
// staleAfter is assumed to be left over from a crashed writer and removed.
// A lock that cannot be created at all (missing or read-only directory) is
// reported as ErrBackup, since the backup beside it cannot be written either.
func acquireLock(ctx context.Context, path string, cfg lockConfig) (func(), error) {
	lp := lockPath(path)
	start := time.Now()
	for {
		f, err := os.OpenFile(lp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err == nil {
			fmt.Fprintf(f, "%d\n", os.Getpid())
			f.Close()
			return func() { _ = os.Remove(lp) }, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("%w: acquire lock: %w", domain.ErrBackup, err)
		}
		if staleLock(lp, cfg.staleAfter) {
			_ = os.Remove(lp)
			continue
		}
		if time.Since(start) >= cfg.timeout {
			return nil, fmt.Errorf("%w: %s still held after %s", domain.ErrLocked, lp, cfg.timeout)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(cfg.retry):
		}
	}
}

func staleLock(lp string, staleAfter time.Duration) bool {
	if staleAfter <= 0 {
		return false
	}
	info, err := os.Stat(lp)
	if err != nil {
		return false
	}
	return time.Since(info.ModTime()) > staleAfter
}
