package domain

import (
	"time"

	"github.com/google/uuid"
)

// EditMode names the kind of parameter-file edit a journal entry records.
type EditMode string

const (
	// ModeRestart marks an edit that pointed the file at a restart point.
	ModeRestart EditMode = "restart"

	// ModeSet marks an edit that applied parameter overrides.
	ModeSet EditMode = "set"
)

// JournalEntry records one successful parameter-file edit.
type JournalEntry struct {
	ID      uuid.UUID `json:"id"`
	At      time.Time `json:"at"`
	Mode    EditMode  `json:"mode"`
	ParFile string    `json:"par_file"`
	Backup  string    `json:"backup"`

	// Checkpoint and Plot are set for restart entries.
	Checkpoint *int `json:"checkpoint,omitempty"`
	Plot       *int `json:"plot,omitempty"`

	// Keys lists the parameters that were rewritten; Skipped those absent
	// from the file.
	Keys    []string `json:"keys"`
	Skipped []string `json:"skipped,omitempty"`
}

// NewJournalEntry returns an entry with a fresh ID stamped at now (UTC).
func NewJournalEntry(mode EditMode, now time.Time) JournalEntry {
	return JournalEntry{ID: uuid.New(), At: now.UTC(), Mode: mode}
}
