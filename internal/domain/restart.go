package domain

import "fmt"

// Kind is the artifact type token of a close event.
type Kind string

const (
	// KindPlot marks a plot file close event.
	KindPlot Kind = "plt"

	// KindCheckpoint marks a checkpoint file close event.
	KindCheckpoint Kind = "chk"
)

// CloseEvent is a single file-close record extracted from a run log.
type CloseEvent struct {
	// Kind is the artifact type token ("plt", "chk", or anything else the
	// log pattern admits, which is ignored when resolving).
	Kind Kind

	// Index is the serial number of the written artifact.
	Index int
}

// RestartPoint identifies where a restarted run picks up.
type RestartPoint struct {
	// Checkpoint is the index of the checkpoint to restart from.
	Checkpoint int `json:"checkpoint"`

	// Plot is the index of the first plot file the restarted run writes.
	Plot int `json:"plot"`
}

// Valid reports whether both indices are non-negative.
func (p RestartPoint) Valid() bool {
	return p.Checkpoint >= 0 && p.Plot >= 0
}

// String returns a compact human-readable form.
func (p RestartPoint) String() string {
	return fmt.Sprintf("checkpoint=%d plot=%d", p.Checkpoint, p.Plot)
}

// Resolution is the outcome of walking a close-event sequence.
type Resolution struct {
	Point RestartPoint

	// PlotDefaulted is set when no plot was closed before the checkpoint and
	// Point.Plot fell back to zero.
	PlotDefaulted bool
}

// Resolve picks the restart point from close events given in log order.
//
// The most recent checkpoint wins. The plot number resumes one past the most
// recent plot closed before that checkpoint. ok is false when the sequence
// holds no checkpoint at all.
func Resolve(events []CloseEvent) (res Resolution, ok bool) {
	foundChk := false
	for i := len(events) - 1; i >= 0; i-- {
		ev := events[i]
		if !foundChk {
			if ev.Kind == KindCheckpoint {
				res.Point.Checkpoint = ev.Index
				foundChk = true
			}
			continue
		}
		if ev.Kind == KindPlot {
			res.Point.Plot = ev.Index + 1
			return res, true
		}
	}
	if !foundChk {
		return Resolution{}, false
	}
	res.Point.Plot = 0
	res.PlotDefaulted = true
	return res, true
}
