package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (FLASHRESTART_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("sim-dir", os.Getenv("FLASHRESTART_SIM_DIR"), &cfg.SimDir)
	s.setString("par-file", os.Getenv("FLASHRESTART_PAR_FILE"), &cfg.ParFile)
	s.setString("log-file", os.Getenv("FLASHRESTART_LOG_FILE"), &cfg.LogFile)
	s.setString("basenm", os.Getenv("FLASHRESTART_BASENM"), &cfg.BaseName)
	s.setString("log-level", os.Getenv("FLASHRESTART_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setDuration("lock-timeout", os.Getenv("FLASHRESTART_LOCK_TIMEOUT"), &cfg.LockTimeout); err != nil {
		return err
	}
	if err := s.setDuration("debounce", os.Getenv("FLASHRESTART_FOLLOW_DEBOUNCE"), &cfg.FollowDebounce); err != nil {
		return err
	}

	if err := s.setIntFromString("keep", os.Getenv("FLASHRESTART_KEEP_BACKUPS"), &cfg.KeepBackups); err != nil {
		return err
	}
	s.setBoolFromString("archive", os.Getenv("FLASHRESTART_ARCHIVE_BACKUPS"), &cfg.ArchiveBackups)

	return nil
}
