package parfile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/bft-labs/flashrestart/internal/domain"
)

const (
	backupInfix      = ".bak_"
	backupTimeLayout = "20060102_1504"
)

// BackupPath returns the backup name for path at time t.
func BackupPath(path string, t time.Time) string {
	return path + backupInfix + t.Format(backupTimeLayout)
}

// Backup copies path to BackupPath(path, t) and returns the backup path.
// A backup from the same minute is replaced. Every failure wraps
// domain.ErrBackup.
func Backup(path string, t time.Time) (string, error) {
	dst := BackupPath(path, t)
	if err := copyFileAtomic(path, dst); err != nil {
		return "", fmt.Errorf("%w: copy %s to %s: %w", domain.ErrBackup, path, dst, err)
	}
	return dst, nil
}

func copyFileAtomic(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", src)
	}

	return writeAtomic(dst, info.Mode().Perm(), func(w io.Writer) error {
		_, err := io.Copy(w, in)
		return err
	})
}

// writeFileAtomic replaces path with data. Readers see either the old or the
// new content, never a prefix of it.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	return writeAtomic(path, perm, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

func writeAtomic(path string, perm os.FileMode, fill func(io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = fill(tmp); err != nil {
		return err
	}
	if err = tmp.Chmod(perm); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
