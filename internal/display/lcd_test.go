package display

import (
	"errors"
	"testing"
)

// expander records every byte sequence written to the PCF8574.
type expander struct {
	writes [][]byte
	err    error
	closed bool
}

func (e *expander) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	e.writes = append(e.writes, append([]byte(nil), p...))
	return len(p), nil
}

func (e *expander) Close() error {
	e.closed = true
	return nil
}

// text decodes the data bytes (RS set) latched by writes, one nibble per write.
func text(writes [][]byte) string {
	var out []byte
	var high byte
	half := false
	for _, w := range writes {
		if w[0]&bitRS == 0 {
			continue
		}
		if !half {
			high = w[0] & 0xF0
			half = true
			continue
		}
		out = append(out, high|(w[0]&0xF0)>>4)
		half = false
	}
	return string(out)
}

func newTestLCD(t *testing.T, cols, rows int) (*LCD, *expander) {
	t.Helper()
	dev := &expander{}
	l, err := newLCD(dev, dev, cols, rows)
	if err != nil {
		t.Fatalf("newLCD: %v", err)
	}
	dev.writes = nil
	return l, dev
}

func TestLCDRenderPadsRows(t *testing.T) {
	l, dev := newTestLCD(t, 16, 2)

	if err := l.Render("25.0C 50.0%", "L:300 ON "); err != nil {
		t.Fatalf("Render: %v", err)
	}

	want := "25.0C 50.0%     " + "L:300 ON        "
	if got := text(dev.writes); got != want {
		t.Errorf("rendered text: got %q, want %q", got, want)
	}
	for i, w := range dev.writes {
		if w[0]&bitBacklight == 0 {
			t.Fatalf("write %d: backlight bit cleared", i)
		}
		if w[1]&bitEnable == 0 || w[2]&bitEnable != 0 {
			t.Fatalf("write %d: enable not pulsed: % x", i, w)
		}
	}
}

func TestLCDCloseKeepsLastFrame(t *testing.T) {
	l, dev := newTestLCD(t, 16, 2)

	if err := l.Render("Shutting down", ""); err != nil {
		t.Fatalf("Render: %v", err)
	}
	n := len(dev.writes)

	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if len(dev.writes) != n {
		t.Errorf("Close wrote %d sequences to the display, want none", len(dev.writes)-n)
	}
	if !dev.closed {
		t.Error("expected bus to be closed")
	}
	if last := dev.writes[n-1]; last[0]&bitBacklight == 0 {
		t.Error("backlight must stay on after the shutdown notice")
	}
}

func TestNewLCDRejectsBadGeometry(t *testing.T) {
	tests := []struct {
		name       string
		cols, rows int
	}{
		{"negative cols", -1, 2},
		{"zero cols", 0, 2},
		{"zero rows", 16, 0},
		{"too many rows", 20, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := &expander{}
			if _, err := newLCD(dev, dev, tt.cols, tt.rows); err == nil {
				t.Error("expected error")
			}
			if len(dev.writes) != 0 {
				t.Error("nothing should be written for a rejected geometry")
			}
		})
	}
}

func TestNewLCDInitError(t *testing.T) {
	dev := &expander{err: errors.New("i2c nack")}
	if _, err := newLCD(dev, dev, 16, 2); err == nil {
		t.Error("expected init error")
	}
}
