package cliconfig

import (
	"fmt"
	"strconv"
	"time"

	"github.com/bft-labs/flashrestart/internal/domain"
	"github.com/bft-labs/flashrestart/pkg/log"
	"github.com/bft-labs/flashrestart/pkg/logscan"
	"github.com/bft-labs/flashrestart/pkg/parfile"
	"github.com/bft-labs/flashrestart/pkg/restart"
)

// Config holds CLI configuration for flashrestart.
type Config struct {
	SimDir   string
	ParFile  string
	LogFile  string
	BaseName string

	LockTimeout    time.Duration
	FollowDebounce time.Duration
	LogLevel       string

	KeepBackups    int
	ArchiveBackups bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		SimDir:         ".",
		ParFile:        restart.DefaultParFile,
		LockTimeout:    parfile.DefaultLockTimeout,
		FollowDebounce: logscan.DefaultFollowDebounce,
		LogLevel:       "info",
		KeepBackups:    10,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.SimDir == "" {
		c.SimDir = "."
	}
	if c.ParFile == "" {
		return fmt.Errorf("%w: par-file is required", domain.ErrInvalidConfig)
	}
	if c.LockTimeout <= 0 {
		return fmt.Errorf("%w: lock timeout must be positive", domain.ErrInvalidConfig)
	}
	if c.FollowDebounce <= 0 {
		return fmt.Errorf("%w: follow debounce must be positive", domain.ErrInvalidConfig)
	}
	if c.KeepBackups < 0 {
		return fmt.Errorf("%w: keep must not be negative", domain.ErrInvalidConfig)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}
	return nil
}

// RestartConfig converts the CLI configuration for pkg/restart.
func (c Config) RestartConfig() restart.Config {
	return restart.Config{
		SimDir:      c.SimDir,
		ParFile:     c.ParFile,
		LogFile:     c.LogFile,
		BaseName:    c.BaseName,
		LockTimeout: c.LockTimeout,
	}
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value from a pointer if not nil and flag not changed.
func (s *configSetter) setInt(flag string, value *int, dst *int) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
