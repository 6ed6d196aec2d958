package domain

import "testing"

func TestResolve(t *testing.T) {
	plt := func(i int) CloseEvent { return CloseEvent{Kind: KindPlot, Index: i} }
	chk := func(i int) CloseEvent { return CloseEvent{Kind: KindCheckpoint, Index: i} }

	tests := []struct {
		name          string
		events        []CloseEvent
		want          RestartPoint
		wantDefaulted bool
		wantOK        bool
	}{
		{
			name:   "empty",
			wantOK: false,
		},
		{
			name:   "plots only",
			events: []CloseEvent{plt(0), plt(1)},
			wantOK: false,
		},
		{
			name:   "latest checkpoint, plot before it",
			events: []CloseEvent{plt(0), chk(0), plt(1), chk(1), plt(2)},
			want:   RestartPoint{Checkpoint: 1, Plot: 2},
			wantOK: true,
		},
		{
			name:          "no plot before checkpoint",
			events:        []CloseEvent{chk(4), plt(9)},
			want:          RestartPoint{Checkpoint: 4, Plot: 0},
			wantDefaulted: true,
			wantOK:        true,
		},
		{
			name:   "walk stops at first plot",
			events: []CloseEvent{plt(1), plt(5), chk(2)},
			want:   RestartPoint{Checkpoint: 2, Plot: 6},
			wantOK: true,
		},
		{
			name:   "unknown kinds skipped",
			events: []CloseEvent{plt(3), {Kind: "ck", Index: 50}, chk(0), {Kind: "", Index: 8}},
			want:   RestartPoint{Checkpoint: 0, Plot: 4},
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(tt.events)
			if ok != tt.wantOK {
				t.Fatalf("Resolve() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.Point != tt.want {
				t.Errorf("Resolve() = %+v, want %+v", got.Point, tt.want)
			}
			if got.PlotDefaulted != tt.wantDefaulted {
				t.Errorf("PlotDefaulted = %v, want %v", got.PlotDefaulted, tt.wantDefaulted)
			}
		})
	}
}

func TestRestartPoint_Valid(t *testing.T) {
	if !(RestartPoint{Checkpoint: 0, Plot: 0}).Valid() {
		t.Error("zero point should be valid")
	}
	if (RestartPoint{Checkpoint: -1, Plot: 3}).Valid() {
		t.Error("negative checkpoint should be invalid")
	}
	if (RestartPoint{Checkpoint: 2, Plot: -1}).Valid() {
		t.Error("negative plot should be invalid")
	}
}
