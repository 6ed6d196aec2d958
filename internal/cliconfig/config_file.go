package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	SimDir         string `toml:"sim_dir"`
	ParFile        string `toml:"par_file"`
	LogFile        string `toml:"log_file"`
	BaseName       string `toml:"basenm"`
	LockTimeout    string `toml:"lock_timeout"`
	FollowDebounce string `toml:"follow_debounce"`
	LogLevel       string `toml:"log_level"`
	KeepBackups    *int   `toml:"keep_backups"`
	ArchiveBackups *bool  `toml:"archive_backups"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.flashrestart/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".flashrestart", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("sim-dir", fc.SimDir, &cfg.SimDir)
	s.setString("par-file", fc.ParFile, &cfg.ParFile)
	s.setString("log-file", fc.LogFile, &cfg.LogFile)
	s.setString("basenm", fc.BaseName, &cfg.BaseName)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	if err := s.setDuration("lock-timeout", fc.LockTimeout, &cfg.LockTimeout); err != nil {
		return err
	}
	if err := s.setDuration("debounce", fc.FollowDebounce, &cfg.FollowDebounce); err != nil {
		return err
	}

	s.setInt("keep", fc.KeepBackups, &cfg.KeepBackups)
	s.setBool("archive", fc.ArchiveBackups, &cfg.ArchiveBackups)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
