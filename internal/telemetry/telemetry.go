// Package telemetry frames one cycle of controller state as line-delimited
// text for a serial monitor or plotter.
//
// Each cycle produces, in order:
//
//	{"sensors":{"humidity":50.0,"temperature":25.0,"light":300},"buttons":{"btnP":true,"btnK":false}}
//	---
//	{"validation":{"sensorsValid":true,"buttonActive":true}}
//	---
//	25.0,50.0,300
//
// Floats are printed in their shortest exact form with at least one decimal,
// so the printed value always agrees with the validation result.
// The stream is fire-and-forget. Failed reads print as NaN without escaping.
package telemetry

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/sweeney/farmtech/internal/logic"
)

// Separator is the line between records.
const Separator = "---"

// lineEnd matches the Arduino println convention serial tools expect.
const lineEnd = "\r\n"

// Format returns the full telemetry block for one cycle.
func Format(st logic.State, snap logic.Snapshot) []byte {
	var b bytes.Buffer

	b.WriteString(`{"sensors":{"humidity":`)
	b.WriteString(formatFloat(snap.Humidity))
	b.WriteString(`,"temperature":`)
	b.WriteString(formatFloat(snap.Temperature))
	b.WriteString(`,"light":`)
	b.WriteString(strconv.Itoa(snap.Light))
	b.WriteString(`},"buttons":{"btnP":`)
	b.WriteString(strconv.FormatBool(snap.PrimaryPressed))
	b.WriteString(`,"btnK":`)
	b.WriteString(strconv.FormatBool(snap.SecondaryPressed))
	b.WriteString(`}}`)
	b.WriteString(lineEnd)

	b.WriteString(Separator + lineEnd)

	b.WriteString(`{"validation":{"sensorsValid":`)
	b.WriteString(strconv.FormatBool(st.Valid))
	b.WriteString(`,"buttonActive":`)
	b.WriteString(strconv.FormatBool(st.ButtonActive))
	b.WriteString(`}}`)
	b.WriteString(lineEnd)

	b.WriteString(Separator + lineEnd)

	b.WriteString(formatFloat(snap.Temperature))
	b.WriteByte(',')
	b.WriteString(formatFloat(snap.Humidity))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(snap.Light))
	b.WriteString(lineEnd)

	return b.Bytes()
}

// formatFloat prints v without rounding. Whole numbers get a trailing ".0".
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if math.IsNaN(v) || math.IsInf(v, 0) || strings.ContainsRune(s, '.') {
		return s
	}
	return s + ".0"
}

// Writer emits one telemetry block per cycle to a byte stream.
type Writer struct {
	w io.Writer
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Emit writes the block for one cycle in a single Write call.
func (t *Writer) Emit(st logic.State, snap logic.Snapshot) error {
	block := Format(st, snap)
	n, err := t.w.Write(block)
	if err != nil {
		return fmt.Errorf("write telemetry: %w", err)
	}
	if n != len(block) {
		return fmt.Errorf("write telemetry: short write %d/%d", n, len(block))
	}
	return nil
}
