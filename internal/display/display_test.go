package display

import (
	"math"
	"testing"

	"github.com/sweeney/farmtech/internal/logic"
)

func TestLines(t *testing.T) {
	tests := []struct {
		name      string
		st        logic.State
		snap      logic.Snapshot
		wantLine1 string
		wantLine2 string
	}{
		{
			name:      "energized",
			st:        logic.State{Valid: true, ButtonActive: true, OutputEnergized: true},
			snap:      logic.Snapshot{Humidity: 50, Temperature: 25, Light: 300},
			wantLine1: "25.0C 50.0%",
			wantLine2: "L:300 ON ",
		},
		{
			name:      "de-energized",
			st:        logic.State{Valid: true},
			snap:      logic.Snapshot{Humidity: 62.47, Temperature: 18.96, Light: 12},
			wantLine1: "19.0C 62.5%",
			wantLine2: "L:12 OFF",
		},
		{
			name:      "failed read",
			st:        logic.State{},
			snap:      logic.Snapshot{Humidity: math.NaN(), Temperature: math.NaN(), Light: 0},
			wantLine1: "NaNC NaN%",
			wantLine2: "L:0 OFF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l1, l2 := Lines(tt.st, tt.snap)
			if l1 != tt.wantLine1 {
				t.Errorf("line1: got %q, want %q", l1, tt.wantLine1)
			}
			if l2 != tt.wantLine2 {
				t.Errorf("line2: got %q, want %q", l2, tt.wantLine2)
			}
		})
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"L:300 ON ", 16, "L:300 ON        "},
		{"", 4, "    "},
		{"0123456789ABCDEFGH", 16, "0123456789ABCDEF"},
		{"exact", 5, "exact"},
		{"anything", 0, ""},
		{"anything", -1, ""},
	}
	for _, tt := range tests {
		if got := fit(tt.in, tt.width); got != tt.want {
			t.Errorf("fit(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestFakeRenderer(t *testing.T) {
	f := NewFakeRenderer()
	if err := f.Render("a", "b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.Frames) != 1 || f.Frames[0] != (Frame{Line1: "a", Line2: "b"}) {
		t.Errorf("frames: got %+v", f.Frames)
	}
}

func TestNop(t *testing.T) {
	var r Renderer = Nop{}
	if err := r.Render("x", "y"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
