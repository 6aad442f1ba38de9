// Package control runs one sample, validate, actuate, report cycle.
package control

import (
	"log"

	"github.com/sweeney/farmtech/internal/display"
	"github.com/sweeney/farmtech/internal/gpio"
	"github.com/sweeney/farmtech/internal/logic"
)

// ShutdownLine is rendered on the display when the loop stops.
const ShutdownLine = "Shutting down"

// Sampler produces one snapshot per cycle.
type Sampler interface {
	Acquire() logic.Snapshot
}

// Emitter writes one telemetry block per cycle.
type Emitter interface {
	Emit(st logic.State, snap logic.Snapshot) error
}

// Controller wires acquisition to the outputs and reporters.
// It holds no state between cycles; the caller threads logic.State through Cycle.
type Controller struct {
	sampler   Sampler
	output    gpio.Output
	display   display.Renderer
	telemetry Emitter
}

// New creates a Controller.
func New(sampler Sampler, output gpio.Output, disp display.Renderer, telemetry Emitter) *Controller {
	return &Controller{
		sampler:   sampler,
		output:    output,
		display:   disp,
		telemetry: telemetry,
	}
}

// Cycle acquires a snapshot, evaluates it, drives the outputs, then renders
// the display and emits telemetry, in that order. The returned state is
// computed from the new snapshot alone; prev is only used to log mode changes.
// Collaborator errors are logged and never alter the decision.
func (c *Controller) Cycle(prev logic.State) (logic.State, logic.Snapshot) {
	snap := c.sampler.Acquire()
	st := logic.Evaluate(snap)

	if err := c.output.Set(st.OutputEnergized); err != nil {
		log.Printf("control: output write error: %v", err)
	}

	if st.Mode() != prev.Mode() {
		log.Printf("control: %s (valid=%v buttons=%v)", st.Mode(), st.Valid, st.ButtonActive)
	}
	if snap.SensorFault() {
		log.Printf("control: sensor read failed (humidity=%v temperature=%v light=%d)", snap.Humidity, snap.Temperature, snap.Light)
	}

	line1, line2 := display.Lines(st, snap)
	if err := c.display.Render(line1, line2); err != nil {
		log.Printf("control: display error: %v", err)
	}

	if err := c.telemetry.Emit(st, snap); err != nil {
		log.Printf("control: telemetry error: %v", err)
	}

	return st, snap
}

// Shutdown de-energizes the outputs and shows a shutdown notice.
// The output error is returned; a display error is only logged.
func (c *Controller) Shutdown() error {
	err := c.output.Set(false)
	if rerr := c.display.Render(ShutdownLine, ""); rerr != nil {
		log.Printf("control: display error: %v", rerr)
	}
	return err
}
