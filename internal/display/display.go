// Package display renders controller state onto a two-line character display.
package display

import (
	"fmt"
	"strconv"

	"github.com/sweeney/farmtech/internal/logic"
)

// Renderer accepts a two-line text rendering.
type Renderer interface {
	Render(line1, line2 string) error
	Close() error
}

// Lines returns the two display lines for a cycle.
//
//	line 1: "25.0C 50.0%"
//	line 2: "L:300 ON " or "L:300 OFF"
func Lines(st logic.State, snap logic.Snapshot) (string, string) {
	line1 := fmt.Sprintf("%.1fC %.1f%%", snap.Temperature, snap.Humidity)
	status := "OFF"
	if st.OutputEnergized {
		status = "ON "
	}
	line2 := "L:" + strconv.Itoa(snap.Light) + " " + status
	return line1, line2
}

// Nop discards every rendering. Used when no display is fitted.
type Nop struct{}

// Render does nothing.
func (Nop) Render(line1, line2 string) error { return nil }

// Close does nothing.
func (Nop) Close() error { return nil }
