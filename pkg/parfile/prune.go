package parfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/zstd"

	"github.com/bft-labs/flashrestart/internal/domain"
	"github.com/bft-labs/flashrestart/pkg/log"
)

const archiveExt = ".zst"

// BackupFile is one backup of a parameter file.
type BackupFile struct {
	Path     string
	TakenAt  time.Time
	Size     int64
	Archived bool
}

// ListBackups returns the backups of path, oldest first. Archived backups
// are included and flagged.
func ListBackups(path string) ([]BackupFile, error) {
	dir := filepath.Dir(path)
	prefix := filepath.Base(path) + backupInfix

	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var out []BackupFile
	for _, e := range ents {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) {
			continue
		}
		stamp := strings.TrimPrefix(name, prefix)
		archived := strings.HasSuffix(stamp, archiveExt)
		stamp = strings.TrimSuffix(stamp, archiveExt)
		taken, err := time.ParseInLocation(backupTimeLayout, stamp, time.Local)
		if err != nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, err
		}
		out = append(out, BackupFile{
			Path:     filepath.Join(dir, name),
			TakenAt:  taken,
			Size:     info.Size(),
			Archived: archived,
		})
	}

	// The timestamp layout sorts lexically; the archived copy of a minute
	// sorts after its plain one.
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// PruneOptions controls backup retention.
type PruneOptions struct {
	// Keep is how many of the newest plain backups stay untouched.
	Keep int

	// Archive compresses older backups to <name>.zst instead of deleting them.
	Archive bool
}

// PruneResult reports what Prune did.
type PruneResult struct {
	Removed  []string
	Archived []string
	Freed    int64
}

// Prune trims the plain backups of path down to the newest opts.Keep.
// Already archived backups are never touched.
func (r *Rewriter) Prune(ctx context.Context, path string, opts PruneOptions) (PruneResult, error) {
	if opts.Keep < 0 {
		return PruneResult{}, fmt.Errorf("%w: keep must not be negative", domain.ErrInvalidConfig)
	}

	all, err := ListBackups(path)
	if err != nil {
		return PruneResult{}, fmt.Errorf("list backups: %w", err)
	}
	var plain []BackupFile
	for _, b := range all {
		if !b.Archived {
			plain = append(plain, b)
		}
	}
	if len(plain) <= opts.Keep {
		return PruneResult{}, nil
	}

	var res PruneResult
	for _, b := range plain[:len(plain)-opts.Keep] {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		if opts.Archive {
			written, err := archiveBackup(b.Path)
			if err != nil {
				r.logger.Error("backup archive failed", log.String("backup", b.Path), log.Err(err))
				continue
			}
			res.Archived = append(res.Archived, b.Path+archiveExt)
			res.Freed += b.Size - written
			continue
		}

		if err := os.Remove(b.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			r.logger.Error("backup remove failed", log.String("backup", b.Path), log.Err(err))
			continue
		}
		res.Removed = append(res.Removed, b.Path)
		res.Freed += b.Size
	}

	if len(res.Removed)+len(res.Archived) > 0 {
		r.logger.Info("backup prune completed",
			log.String("path", path),
			log.Int("removed", len(res.Removed)),
			log.Int("archived", len(res.Archived)),
			log.String("freed", humanize.Bytes(uint64(max(res.Freed, 0)))))
	}
	return res, nil
}

// archiveBackup compresses src to src.zst, removes src and returns the
// compressed size.
func archiveBackup(src string) (int64, error) {
	dst := src + archiveExt
	if err := compressTo(dst, src); err != nil {
		return 0, err
	}
	info, err := os.Stat(dst)
	if err != nil {
		return 0, err
	}
	if err := os.Remove(src); err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// compressTo writes the zstd encoding of src to dst atomically.
func compressTo(dst, src string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	return writeAtomic(dst, 0o600, func(w io.Writer) error {
		enc, err := zstd.NewWriter(w)
		if err != nil {
			return err
		}
		if _, err := io.Copy(enc, in); err != nil {
			enc.Close()
			return err
		}
		return enc.Close()
	})
}

// ReadArchived returns the original content of an archived backup.
func ReadArchived(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return io.ReadAll(dec)
}
