package logscan

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"

	"github.com/bft-labs/flashrestart/internal/domain"
	"github.com/bft-labs/flashrestart/pkg/log"
)

// RestartPoint is the checkpoint/plot pair a scan produces.
type RestartPoint = domain.RestartPoint

// CloseEvent is a single plot or checkpoint close record.
type CloseEvent = domain.CloseEvent

// Scanner extracts restart points from run logs.
type Scanner struct {
	logger log.Logger
}

// New creates a Scanner. A nil logger discards the defaulted-plot warning.
func New(logger log.Logger) *Scanner {
	return &Scanner{logger: log.OrNoop(logger)}
}

// Scan reads the log at logPath with a Scanner that does not log.
func Scan(baseName, logPath string) (RestartPoint, error) {
	return New(nil).Scan(baseName, logPath)
}

// closePattern matches the close events written for baseName.
func closePattern(baseName string) *regexp.Regexp {
	return regexp.MustCompile(`close: type=[a-z]*? name=` + regexp.QuoteMeta(baseName) +
		`hdf5_([pltchk]*?)(?:_cnt)?_([0-9]+)`)
}

// ParseEvents returns the close events for baseName in the order they
// appear in r.
func ParseEvents(r io.Reader, baseName string) ([]CloseEvent, error) {
	re := closePattern(baseName)
	br := bufio.NewReader(r)

	var events []CloseEvent
	for {
		line, err := br.ReadString('\n')
		for _, m := range re.FindAllStringSubmatch(line, -1) {
			idx, convErr := strconv.Atoi(m[2])
			if convErr != nil {
				return nil, fmt.Errorf("%w: index %q: %v", domain.ErrScan, m[2], convErr)
			}
			events = append(events, CloseEvent{Kind: domain.Kind(m[1]), Index: idx})
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return events, nil
			}
			return nil, err
		}
	}
}

// Scan reads the log at logPath and resolves the restart point for baseName.
func (s *Scanner) Scan(baseName, logPath string) (RestartPoint, error) {
	f, err := os.Open(logPath)
	if err != nil {
		return RestartPoint{}, fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	events, err := ParseEvents(f, baseName)
	if err != nil {
		return RestartPoint{}, fmt.Errorf("read log %s: %w", logPath, err)
	}
	return s.resolve(events, baseName, logPath)
}

func (s *Scanner) resolve(events []CloseEvent, baseName, logPath string) (RestartPoint, error) {
	res, ok := domain.Resolve(events)
	if !ok {
		return RestartPoint{}, fmt.Errorf("%w: no checkpoint close event for %q in %s; nothing to restart from",
			domain.ErrScan, baseName, logPath)
	}
	if res.PlotDefaulted {
		s.logger.Warn("no plot file closed before checkpoint, starting plot numbering at 0",
			log.String("log", logPath),
			log.Int("checkpoint", res.Point.Checkpoint))
	}
	if !res.Point.Valid() {
		return RestartPoint{}, fmt.Errorf("%w: negative index in %s (%s), unsafe to restart",
			domain.ErrScan, logPath, res.Point)
	}

	s.logger.Debug("restart point resolved",
		log.String("log", logPath),
		log.Int("events", len(events)),
		log.Int("checkpoint", res.Point.Checkpoint),
		log.Int("plot", res.Point.Plot))
	return res.Point, nil
}
