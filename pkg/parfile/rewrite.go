package parfile

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/bft-labs/flashrestart/internal/domain"
	"github.com/bft-labs/flashrestart/pkg/log"
)

// Parameter names a restart touches.
const (
	KeyRestart              = "restart"
	KeyCheckpointFileNumber = "checkpointFileNumber"
	KeyPlotFileNumber       = "plotFileNumber"
	KeyBaseName             = "basenm"
	KeyLogFile              = "log_file"
)

// Overrides maps parameter names to replacement values; see FormatValue
// for the accepted value types.
type Overrides map[string]any

// Rule replaces the value of Key when it matches ValuePattern.
type Rule struct {
	Key          string
	ValuePattern string
	Value        string
}

// RestartRules returns the rules that point a parameter file at p.
func RestartRules(p domain.RestartPoint) []Rule {
	return []Rule{
		{Key: KeyRestart, ValuePattern: `(?i:\.(?:true|false)\.)`, Value: ".true."},
		{Key: KeyCheckpointFileNumber, ValuePattern: `[0-9]+`, Value: strconv.Itoa(p.Checkpoint)},
		{Key: KeyPlotFileNumber, ValuePattern: `[0-9]+`, Value: strconv.Itoa(p.Plot)},
	}
}

// OverrideRules returns one rule per override, replacing the first
// non-whitespace token after the key. Rules are sorted by key.
func OverrideRules(overrides Overrides) ([]Rule, error) {
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rules := make([]Rule, 0, len(keys))
	for _, k := range keys {
		if !ValidKey(k) {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidKey, k)
		}
		v, err := FormatValue(overrides[k])
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", k, err)
		}
		rules = append(rules, Rule{Key: k, ValuePattern: `\S+`, Value: v})
	}
	return rules, nil
}

// Report describes a completed edit.
type Report struct {
	// Path is the edited file.
	Path string

	// Backup is the pre-edit copy; empty for a preview.
	Backup string

	// Matches counts rewritten lines per key. A zero means the key was
	// absent and skipped.
	Matches map[string]int
}

// Skipped returns the keys that matched no line, sorted.
func (r Report) Skipped() []string {
	var out []string
	for k, n := range r.Matches {
		if n == 0 {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// Rewriter applies rules to parameter files.
type Rewriter struct {
	logger log.Logger
	now    func() time.Time
	lock   lockConfig
}

// Option configures a Rewriter.
type Option func(*Rewriter)

// WithLogger sets the logger. The default discards output.
func WithLogger(l log.Logger) Option {
	return func(r *Rewriter) {
		r.logger = log.OrNoop(l)
	}
}

// WithClock sets the clock used to name backups.
func WithClock(now func() time.Time) Option {
	return func(r *Rewriter) {
		if now != nil {
			r.now = now
		}
	}
}

// WithLockTimeout bounds how long an edit waits for another writer.
func WithLockTimeout(d time.Duration) Option {
	return func(r *Rewriter) {
		if d > 0 {
			r.lock.timeout = d
		}
	}
}

// WithLockStaleAfter sets the age after which a leftover lock is removed.
// Zero disables stale lock recovery.
func WithLockStaleAfter(d time.Duration) Option {
	return func(r *Rewriter) {
		r.lock.staleAfter = d
	}
}

// NewRewriter creates a Rewriter.
func NewRewriter(opts ...Option) *Rewriter {
	r := &Rewriter{
		logger: log.NoopLogger{},
		now:    time.Now,
		lock: lockConfig{
			timeout:    DefaultLockTimeout,
			retry:      DefaultLockRetry,
			staleAfter: DefaultLockStaleAfter,
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ApplyRestart sets restart = .true. and the checkpoint and plot file
// numbers of the file at path to p.
func (r *Rewriter) ApplyRestart(ctx context.Context, p domain.RestartPoint, path string) (Report, error) {
	if !p.Valid() {
		return Report{}, fmt.Errorf("%w: negative restart index (%s)", domain.ErrInvalidValue, p)
	}
	return r.Edit(ctx, path, RestartRules(p))
}

// ApplyOverrides rewrites the value of every key in overrides. Keys absent
// from the file are skipped.
func (r *Rewriter) ApplyOverrides(ctx context.Context, overrides Overrides, path string) (Report, error) {
	rules, err := OverrideRules(overrides)
	if err != nil {
		return Report{}, err
	}
	return r.Edit(ctx, path, rules)
}

// Edit locks path, backs it up, applies rules in order and atomically
// replaces the file. Nothing is written unless the backup succeeded.
func (r *Rewriter) Edit(ctx context.Context, path string, rules []Rule) (Report, error) {
	compiled, err := compileRules(rules)
	if err != nil {
		return Report{}, err
	}

	release, err := acquireLock(ctx, path, r.lock)
	if err != nil {
		return Report{}, err
	}
	defer release()

	backup, err := Backup(path, r.now())
	if err != nil {
		return Report{}, err
	}
	r.logger.Debug("parameter file backed up", log.String("path", path), log.String("backup", backup))

	info, err := os.Stat(path)
	if err != nil {
		return Report{}, fmt.Errorf("stat parameters: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("read parameters: %w", err)
	}

	text, matches := r.apply(path, string(data), rules, compiled)

	if err := writeFileAtomic(path, []byte(text), info.Mode().Perm()); err != nil {
		return Report{}, fmt.Errorf("write parameters %s (original kept in %s): %w", path, backup, err)
	}

	r.logger.Info("parameter file updated",
		log.String("path", path),
		log.String("backup", backup),
		log.Int("keys", len(rules)))
	return Report{Path: path, Backup: backup, Matches: matches}, nil
}

// Preview returns the text Edit would write, without locking, backing up
// or writing anything.
func (r *Rewriter) Preview(path string, rules []Rule) (string, Report, error) {
	compiled, err := compileRules(rules)
	if err != nil {
		return "", Report{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", Report{}, fmt.Errorf("read parameters: %w", err)
	}
	text, matches := r.apply(path, string(data), rules, compiled)
	return text, Report{Path: path, Matches: matches}, nil
}

func (r *Rewriter) apply(path, text string, rules []Rule, compiled []*regexp.Regexp) (string, map[string]int) {
	matches := make(map[string]int, len(rules))
	for i, rule := range rules {
		var n int
		text, n = substitute(compiled[i], text, rule.Value)
		matches[rule.Key] += n
		switch {
		case n == 0:
			r.logger.Info("parameter not found, skipped", log.String("path", path), log.String("key", rule.Key))
		case n > 1:
			r.logger.Warn("parameter assigned on several lines, all rewritten",
				log.String("path", path), log.String("key", rule.Key), log.Int("lines", n))
		}
	}
	return text, matches
}

func compileRules(rules []Rule) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, len(rules))
	for i, rule := range rules {
		if !ValidKey(rule.Key) {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidKey, rule.Key)
		}
		pattern := rule.ValuePattern
		if pattern == "" {
			pattern = `\S+`
		}
		if _, err := regexp.Compile(pattern); err != nil {
			return nil, fmt.Errorf("%w: value pattern for %s: %v", domain.ErrInvalidValue, rule.Key, err)
		}
		out[i] = assignment(rule.Key, pattern)
	}
	return out, nil
}

// ApplyRestart applies p to the file at path with a default Rewriter.
func ApplyRestart(ctx context.Context, p domain.RestartPoint, path string) error {
	_, err := NewRewriter().ApplyRestart(ctx, p, path)
	return err
}

// ApplyOverrides applies overrides to the file at path with a default Rewriter.
func ApplyOverrides(ctx context.Context, overrides Overrides, path string) error {
	_, err := NewRewriter().ApplyOverrides(ctx, overrides, path)
	return err
}
