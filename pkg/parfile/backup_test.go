package parfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bft-labs/flashrestart/internal/domain"
)

func TestBackupPath(t *testing.T) {
	at := time.Date(2016, 9, 19, 13, 5, 59, 0, time.Local)
	if got, want := BackupPath("/runs/flash.par", at), "/runs/flash.par.bak_20160919_1305"; got != want {
		t.Errorf("BackupPath() = %s, want %s", got, want)
	}
}

func TestBackup(t *testing.T) {
	path := writePar(t, samplePar)

	dst, err := Backup(path, fixedNow)
	if err != nil {
		t.Fatalf("Backup() error = %v", err)
	}
	if readFile(t, dst) != samplePar {
		t.Error("backup content differs")
	}

	// Same minute replaces the earlier copy.
	if err := os.WriteFile(path, []byte("nend = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Backup(path, fixedNow.Add(10*time.Second)); err != nil {
		t.Fatalf("second Backup() error = %v", err)
	}
	if readFile(t, dst) != "nend = 1\n" {
		t.Error("same-minute backup should hold the latest pre-edit content")
	}
}

func TestBackup_NotRegularFile(t *testing.T) {
	dir := t.TempDir()
	_, err := Backup(dir, fixedNow)
	if !errors.Is(err, domain.ErrBackup) {
		t.Fatalf("Backup(dir) error = %v, want ErrBackup", err)
	}
	if _, statErr := os.Stat(BackupPath(dir, fixedNow)); !errors.Is(statErr, os.ErrNotExist) {
		t.Error("no backup should be created for a directory")
	}
	leftovers, _ := filepath.Glob(filepath.Join(filepath.Dir(dir), "*.tmp-*"))
	if len(leftovers) != 0 {
		t.Errorf("temporary files left behind: %v", leftovers)
	}
}
