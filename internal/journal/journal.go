// Package journal keeps a record of the parameter-file edits made for a run.
package journal

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/bft-labs/flashrestart/internal/domain"
	"github.com/bft-labs/flashrestart/internal/ports"
)

const (
	dirName  = ".flashrestart"
	fileName = "journal.json"
)

var _ ports.JournalRepository = (*FileRepository)(nil)

// FileRepository implements ports.JournalRepository as a JSON array under
// <simDir>/.flashrestart/journal.json.
type FileRepository struct {
	dir string
}

// NewFileRepository creates a FileRepository for the given simulation directory.
func NewFileRepository(simDir string) *FileRepository {
	return &FileRepository{dir: filepath.Join(simDir, dirName)}
}

// Load returns all entries, oldest first.
// Returns an empty journal and nil error if no journal file exists.
func (r *FileRepository) Load(ctx context.Context) ([]domain.JournalEntry, error) {
	data, err := os.ReadFile(r.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []domain.JournalEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Append adds e and persists the journal atomically.
func (r *FileRepository) Append(ctx context.Context, e domain.JournalEntry) error {
	entries, err := r.Load(ctx)
	if err != nil {
		return err
	}
	entries = append(entries, e)

	if err := os.MkdirAll(r.dir, 0o700); err != nil {
		return err
	}

	path := r.Path()
	tmp := path + ".tmp"

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Path returns the full path to the journal file.
func (r *FileRepository) Path() string {
	return filepath.Join(r.dir, fileName)
}
