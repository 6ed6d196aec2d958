package restart

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/bft-labs/flashrestart/internal/domain"
	"github.com/bft-labs/flashrestart/internal/journal"
	"github.com/bft-labs/flashrestart/internal/ports"
	"github.com/bft-labs/flashrestart/pkg/log"
	"github.com/bft-labs/flashrestart/pkg/logscan"
	"github.com/bft-labs/flashrestart/pkg/parfile"
)

// RestartPoint is the checkpoint/plot pair a restart resumes from.
type RestartPoint = domain.RestartPoint

// Journal records applied edits.
type Journal = ports.JournalRepository

// Option configures optional behavior of a Restarter.
type Option func(*options)

type options struct {
	logger  log.Logger
	journal Journal
	now     func() time.Time
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l log.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithJournal overrides where edits are recorded. The default is the
// file journal under <SimDir>/.flashrestart.
func WithJournal(j Journal) Option {
	return func(o *options) {
		o.journal = j
	}
}

// WithClock sets the clock used for backups and journal entries.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// Restarter prepares one simulation directory for restarts.
type Restarter struct {
	cfg      Config
	logger   log.Logger
	journal  Journal
	now      func() time.Time
	scanner  *logscan.Scanner
	rewriter *parfile.Rewriter
}

// Result describes an applied restart.
type Result struct {
	Point  RestartPoint
	Report parfile.Report
}

// New creates a Restarter. Returns an error if the configuration is invalid.
func New(cfg Config, opts ...Option) (*Restarter, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	logger := log.OrNoop(o.logger)
	if o.now == nil {
		o.now = time.Now
	}
	if o.journal == nil {
		o.journal = journal.NewFileRepository(cfg.SimDir)
	}

	return &Restarter{
		cfg:     cfg,
		logger:  logger,
		journal: o.journal,
		now:     o.now,
		scanner: logscan.New(logger),
		rewriter: parfile.NewRewriter(
			parfile.WithLogger(logger),
			parfile.WithClock(o.now),
			parfile.WithLockTimeout(cfg.LockTimeout),
		),
	}, nil
}

// Config returns the configuration with defaults applied.
func (r *Restarter) Config() Config { return r.cfg }

// ResolveRun fills BaseName and LogFile from the parameter file, falling
// back to the FLASH defaults when the file does not set them.
func (r *Restarter) ResolveRun() (baseName, logPath string, err error) {
	baseName, logFile := r.cfg.BaseName, r.cfg.LogFile
	if baseName == "" {
		if baseName, err = r.param(parfile.KeyBaseName, DefaultBaseName); err != nil {
			return "", "", err
		}
	}
	if logFile == "" {
		if logFile, err = r.param(parfile.KeyLogFile, DefaultLogFile); err != nil {
			return "", "", err
		}
	}
	return baseName, rootify(logFile, r.cfg.SimDir), nil
}

func (r *Restarter) param(key, def string) (string, error) {
	v, ok, err := parfile.ReadParam(r.cfg.ParPath(), key)
	if err != nil {
		return "", err
	}
	if !ok || v == "" {
		r.logger.Debug("parameter not set, using default", log.String("key", key), log.String("default", def))
		return def, nil
	}
	return v, nil
}

// Scan finds the restart point of the run.
func (r *Restarter) Scan(ctx context.Context) (RestartPoint, error) {
	if err := ctx.Err(); err != nil {
		return RestartPoint{}, err
	}
	baseName, logPath, err := r.ResolveRun()
	if err != nil {
		return RestartPoint{}, err
	}
	return r.scanner.Scan(baseName, logPath)
}

// Follow reports every new restart point as the run writes its log.
func (r *Restarter) Follow(ctx context.Context, debounce time.Duration, fn func(RestartPoint) error) error {
	baseName, logPath, err := r.ResolveRun()
	if err != nil {
		return err
	}
	return r.scanner.Follow(ctx, baseName, logPath, debounce, fn)
}

// Restart scans the log and applies the restart point to the parameter file.
func (r *Restarter) Restart(ctx context.Context) (Result, error) {
	point, err := r.Scan(ctx)
	if err != nil {
		return Result{}, err
	}
	rep, err := r.Apply(ctx, point)
	if err != nil {
		return Result{}, err
	}
	return Result{Point: point, Report: rep}, nil
}

// Plan scans the log and returns the parameter text a restart would write,
// without changing anything.
func (r *Restarter) Plan(ctx context.Context) (Result, string, error) {
	point, err := r.Scan(ctx)
	if err != nil {
		return Result{}, "", err
	}
	text, rep, err := r.rewriter.Preview(r.cfg.ParPath(), parfile.RestartRules(point))
	if err != nil {
		return Result{}, "", err
	}
	return Result{Point: point, Report: rep}, text, nil
}

// Apply points the parameter file at p.
func (r *Restarter) Apply(ctx context.Context, p RestartPoint) (parfile.Report, error) {
	rep, err := r.rewriter.ApplyRestart(ctx, p, r.cfg.ParPath())
	if err != nil {
		return parfile.Report{}, err
	}

	e := r.entry(domain.ModeRestart, rep)
	chk, plt := p.Checkpoint, p.Plot
	e.Checkpoint, e.Plot = &chk, &plt
	r.record(ctx, e)
	return rep, nil
}

// Set applies arbitrary parameter overrides.
func (r *Restarter) Set(ctx context.Context, overrides parfile.Overrides) (parfile.Report, error) {
	if len(overrides) == 0 {
		return parfile.Report{}, fmt.Errorf("%w: no parameters to set", domain.ErrInvalidConfig)
	}
	rep, err := r.rewriter.ApplyOverrides(ctx, overrides, r.cfg.ParPath())
	if err != nil {
		return parfile.Report{}, err
	}
	r.record(ctx, r.entry(domain.ModeSet, rep))
	return rep, nil
}

// Prune applies backup retention to the parameter file's backups.
func (r *Restarter) Prune(ctx context.Context, opts parfile.PruneOptions) (parfile.PruneResult, error) {
	return r.rewriter.Prune(ctx, r.cfg.ParPath(), opts)
}

// History returns the recorded edits, oldest first.
func (r *Restarter) History(ctx context.Context) ([]domain.JournalEntry, error) {
	return r.journal.Load(ctx)
}

func (r *Restarter) entry(mode domain.EditMode, rep parfile.Report) domain.JournalEntry {
	e := domain.NewJournalEntry(mode, r.now())
	e.ParFile = rep.Path
	e.Backup = rep.Backup
	e.Skipped = rep.Skipped()
	for k, n := range rep.Matches {
		if n > 0 {
			e.Keys = append(e.Keys, k)
		}
	}
	sort.Strings(e.Keys)
	return e
}

// record appends to the journal. The edit has already landed, so a journal
// failure is logged rather than returned.
func (r *Restarter) record(ctx context.Context, e domain.JournalEntry) {
	if err := r.journal.Append(ctx, e); err != nil {
		r.logger.Error("journal append failed", log.String("id", e.ID.String()), log.Err(err))
	}
}
