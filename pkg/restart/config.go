package restart

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/bft-labs/flashrestart/internal/domain"
	"github.com/bft-labs/flashrestart/pkg/parfile"
)

// Defaults FLASH itself uses when the parameter file does not set them.
const (
	DefaultParFile  = "flash.par"
	DefaultBaseName = "flash_"
	DefaultLogFile  = "flash.log"
)

// Config locates the files of one simulation run.
type Config struct {
	// SimDir is the run directory. Relative file names resolve against it.
	SimDir string

	// ParFile is the runtime parameter file. Defaults to flash.par.
	ParFile string

	// LogFile is the run log. Read from log_file in ParFile when empty.
	LogFile string

	// BaseName is the output file prefix. Read from basenm in ParFile when empty.
	BaseName string

	// LockTimeout bounds the wait for a concurrent edit.
	LockTimeout time.Duration
}

// SetDefaults fills in defaults that do not depend on the parameter file.
func (c *Config) SetDefaults() {
	if c.SimDir == "" {
		c.SimDir = "."
	}
	if c.ParFile == "" {
		c.ParFile = DefaultParFile
	}
	if c.LockTimeout <= 0 {
		c.LockTimeout = parfile.DefaultLockTimeout
	}
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if c.ParFile == "" {
		return fmt.Errorf("%w: parameter file is required", domain.ErrInvalidConfig)
	}
	if c.LockTimeout < 0 {
		return fmt.Errorf("%w: lock timeout must not be negative", domain.ErrInvalidConfig)
	}
	return nil
}

// ParPath returns the resolved parameter file path.
func (c Config) ParPath() string { return rootify(c.ParFile, c.SimDir) }

// LogPath returns the resolved log file path.
func (c Config) LogPath() string { return rootify(c.LogFile, c.SimDir) }

// rootify returns path unchanged if absolute, otherwise joined to dir.
func rootify(path, dir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
