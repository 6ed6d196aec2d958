package logscan

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/flashrestart/internal/domain"
	"github.com/bft-labs/flashrestart/pkg/log"
)

// DefaultFollowDebounce coalesces bursts of log writes into one re-scan.
const DefaultFollowDebounce = 250 * time.Millisecond

// Follow scans logPath now and again after every write to it, calling fn
// each time the restart point changes. A log that has no checkpoint yet is
// not an error; Follow keeps waiting. It returns when ctx is done, or with
// the first error fn returns.
//
// Follow only reads the log; it never edits the run's configuration.
func (s *Scanner) Follow(ctx context.Context, baseName, logPath string, debounce time.Duration, fn func(RestartPoint) error) error {
	if debounce <= 0 {
		debounce = DefaultFollowDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory so truncate-and-recreate by the simulation is seen.
	dir := filepath.Dir(logPath)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	var (
		last  RestartPoint
		seen  bool
		timer *time.Timer
		fire  <-chan time.Time
	)
	check := func() error {
		point, err := s.Scan(baseName, logPath)
		if err != nil {
			if errors.Is(err, domain.ErrScan) {
				s.logger.Debug("no restart point yet", log.String("log", logPath))
				return nil
			}
			s.logger.Warn("scan failed", log.String("log", logPath), log.Err(err))
			return nil
		}
		if seen && point == last {
			return nil
		}
		last, seen = point, true
		return fn(point)
	}

	if err := check(); err != nil {
		return err
	}

	name := filepath.Base(logPath)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if err := check(); err != nil {
				return err
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("log watcher error", log.Err(err))
		}
	}
}
