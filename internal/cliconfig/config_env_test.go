package cliconfig

import (
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		changed  map[string]bool
		initial  Config
		expected Config
		wantErr  bool
	}{
		{
			name: "applies all valid env vars",
			envVars: map[string]string{
				"FLASHRESTART_SIM_DIR":         "/env/run",
				"FLASHRESTART_PAR_FILE":        "env.par",
				"FLASHRESTART_LOG_FILE":        "env.log",
				"FLASHRESTART_BASENM":          "env_",
				"FLASHRESTART_LOCK_TIMEOUT":    "2m",
				"FLASHRESTART_FOLLOW_DEBOUNCE": "500ms",
				"FLASHRESTART_LOG_LEVEL":       "error",
				"FLASHRESTART_KEEP_BACKUPS":    "2",
				"FLASHRESTART_ARCHIVE_BACKUPS": "true",
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				SimDir:         "/env/run",
				ParFile:        "env.par",
				LogFile:        "env.log",
				BaseName:       "env_",
				LockTimeout:    2 * time.Minute,
				FollowDebounce: 500 * time.Millisecond,
				LogLevel:       "error",
				KeepBackups:    2,
				ArchiveBackups: true,
			},
		},
		{
			name: "respects changed flags",
			envVars: map[string]string{
				"FLASHRESTART_SIM_DIR":  "/env/run",
				"FLASHRESTART_PAR_FILE": "env.par",
			},
			changed: map[string]bool{"sim-dir": true},
			initial: Config{SimDir: "/flag/run"},
			expected: Config{
				SimDir:  "/flag/run",
				ParFile: "env.par",
			},
		},
		{
			name: "returns error for invalid duration",
			envVars: map[string]string{
				"FLASHRESTART_LOCK_TIMEOUT": "not-a-duration",
			},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name: "returns error for invalid int",
			envVars: map[string]string{
				"FLASHRESTART_KEEP_BACKUPS": "many",
			},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name: "handles bool '1' as true",
			envVars: map[string]string{
				"FLASHRESTART_ARCHIVE_BACKUPS": "1",
			},
			changed:  map[string]bool{},
			expected: Config{ArchiveBackups: true},
		},
		{
			name: "handles bool 'false' as false",
			envVars: map[string]string{
				"FLASHRESTART_ARCHIVE_BACKUPS": "false",
			},
			changed:  map[string]bool{},
			initial:  Config{ArchiveBackups: true},
			expected: Config{ArchiveBackups: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg := tt.initial
			err := ApplyEnvConfig(&cfg, tt.changed)

			if tt.wantErr && err == nil {
				t.Error("ApplyEnvConfig() expected error but got nil")
				return
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ApplyEnvConfig() unexpected error: %v", err)
				return
			}
			if !tt.wantErr && cfg != tt.expected {
				t.Errorf("ApplyEnvConfig() = %+v, want %+v", cfg, tt.expected)
			}
		})
	}
}

// Integration test: precedence order (CLI > Env > File)
func TestConfigPrecedence(t *testing.T) {
	keep := 9

	fileConf := FileConfig{
		SimDir:      "/file/run",
		ParFile:     "file.par",
		LogFile:     "file.log",
		KeepBackups: &keep,
	}

	t.Setenv("FLASHRESTART_SIM_DIR", "/env/run")
	t.Setenv("FLASHRESTART_PAR_FILE", "env.par")
	t.Setenv("FLASHRESTART_BASENM", "env_")

	// Simulate CLI flags
	changed := map[string]bool{
		"sim-dir": true,
	}

	cfg := Config{
		SimDir: "/cli/run",
	}

	if err := ApplyFileConfig(&cfg, fileConf, changed); err != nil {
		t.Fatalf("ApplyFileConfig failed: %v", err)
	}
	if err := ApplyEnvConfig(&cfg, changed); err != nil {
		t.Fatalf("ApplyEnvConfig failed: %v", err)
	}

	if cfg.SimDir != "/cli/run" {
		t.Errorf("SimDir = %v, want /cli/run (CLI should win)", cfg.SimDir)
	}
	if cfg.ParFile != "env.par" {
		t.Errorf("ParFile = %v, want env.par (env should override file)", cfg.ParFile)
	}
	if cfg.BaseName != "env_" {
		t.Errorf("BaseName = %v, want env_ (env should set)", cfg.BaseName)
	}
	if cfg.LogFile != "file.log" {
		t.Errorf("LogFile = %v, want file.log (file should set)", cfg.LogFile)
	}
	if cfg.KeepBackups != 9 {
		t.Errorf("KeepBackups = %v, want 9 (file should set)", cfg.KeepBackups)
	}
}
