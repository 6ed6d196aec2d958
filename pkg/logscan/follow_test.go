package logscan

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestFollow_ReportsNewRestartPoints(t *testing.T) {
	path := writeLog(t, closeLine(base, "plt", 0))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	points := make(chan RestartPoint, 8)
	done := make(chan error, 1)
	go func() {
		done <- New(nil).Follow(ctx, base, path, 20*time.Millisecond, func(p RestartPoint) error {
			points <- p
			return nil
		})
	}()

	// Give the watcher time to register before the simulation writes.
	time.Sleep(100 * time.Millisecond)
	appendLog(t, path, closeLine(base, "chk", 0))

	select {
	case p := <-points:
		if p != (RestartPoint{Checkpoint: 0, Plot: 1}) {
			t.Fatalf("first point = %+v, want {0 1}", p)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for first restart point")
	}

	appendLog(t, path, closeLine(base, "plt", 1)+closeLine(base, "chk", 1))

	select {
	case p := <-points:
		if p != (RestartPoint{Checkpoint: 1, Plot: 2}) {
			t.Fatalf("second point = %+v, want {1 2}", p)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for second restart point")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Follow() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Follow did not return after cancel")
	}
}

func TestFollow_StopsOnCallbackError(t *testing.T) {
	path := writeLog(t, closeLine(base, "plt", 0), closeLine(base, "chk", 0))

	stop := context.Canceled
	err := New(nil).Follow(context.Background(), base, path, 0, func(RestartPoint) error {
		return stop
	})
	if err != stop {
		t.Fatalf("Follow() error = %v, want %v", err, stop)
	}
}

func appendLog(t *testing.T, path, text string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()
	if _, err := f.WriteString(text); err != nil {
		t.Fatalf("append log: %v", err)
	}
}
