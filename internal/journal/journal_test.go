package journal

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bft-labs/flashrestart/internal/domain"
)

func TestFileRepository_LoadMissing(t *testing.T) {
	repo := NewFileRepository(t.TempDir())
	entries, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("Load() = %v, want empty", entries)
	}
}

func TestFileRepository_AppendRoundTrip(t *testing.T) {
	dir := t.TempDir()
	repo := NewFileRepository(dir)
	ctx := context.Background()
	now := time.Date(2026, 10, 17, 9, 5, 0, 0, time.UTC)

	chk, plt := 220, 45
	first := domain.NewJournalEntry(domain.ModeRestart, now)
	first.ParFile = filepath.Join(dir, "flash.par")
	first.Backup = first.ParFile + ".bak_20261017_0905"
	first.Checkpoint, first.Plot = &chk, &plt
	first.Keys = []string{"restart", "checkpointFileNumber", "plotFileNumber"}

	second := domain.NewJournalEntry(domain.ModeSet, now.Add(time.Minute))
	second.Keys = []string{"basenm"}
	second.Skipped = []string{"nend"}

	for _, e := range []domain.JournalEntry{first, second} {
		if err := repo.Append(ctx, e); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Load() returned %d entries, want 2", len(got))
	}
	if got[0].ID != first.ID || got[1].ID != second.ID {
		t.Errorf("entry IDs not preserved in order")
	}
	if first.ID == second.ID {
		t.Errorf("entries share an ID")
	}
	if got[0].Checkpoint == nil || *got[0].Checkpoint != 220 || *got[0].Plot != 45 {
		t.Errorf("restart indices not preserved: %+v", got[0])
	}
	if got[1].Checkpoint != nil {
		t.Errorf("set entry should have no checkpoint")
	}
	if !got[0].At.Equal(now) {
		t.Errorf("At = %v, want %v", got[0].At, now)
	}
	if _, err := os.Stat(repo.Path() + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind")
	}
}

func TestFileRepository_CorruptJournal(t *testing.T) {
	dir := t.TempDir()
	repo := NewFileRepository(dir)
	if err := os.MkdirAll(filepath.Dir(repo.Path()), 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(repo.Path(), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Load(context.Background()); err == nil {
		t.Fatal("expected error for corrupt journal")
	}
	if err := repo.Append(context.Background(), domain.NewJournalEntry(domain.ModeSet, time.Now())); err == nil {
		t.Fatal("Append must not overwrite a corrupt journal")
	}
}
