//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealReader reads the buttons from actual hardware using the Linux GPIO character device.
type RealReader struct {
	chip    *gpiocdev.Chip
	buttons *gpiocdev.Lines
}

// NewRealReader requests the two button lines as inputs with pull-up.
func NewRealReader(chipName string, pinP, pinK int) (*RealReader, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	// Buttons short the line to ground when pressed.
	lines, err := chip.RequestLines([]int{pinP, pinK}, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request button pins %d,%d: %w", pinP, pinK, err)
	}

	return &RealReader{chip: chip, buttons: lines}, nil
}

// Read returns the logical states of button P and button K.
// Inverts raw GPIO: raw low (0) = pressed, raw high (1) = released.
func (r *RealReader) Read() (bool, bool, error) {
	raw := make([]int, 2)
	if err := r.buttons.Values(raw); err != nil {
		return false, false, fmt.Errorf("read button pins: %w", err)
	}
	return raw[0] == 0, raw[1] == 0, nil
}

// Close releases GPIO resources.
func (r *RealReader) Close() error {
	var errs []error
	if r.buttons != nil {
		if err := r.buttons.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close button pins: %w", err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// RealOutput drives the relay and LED lines as one request, so a single
// ioctl sets both and they can never disagree after Set returns.
type RealOutput struct {
	chip  *gpiocdev.Chip
	lines *gpiocdev.Lines
}

// NewRealOutput requests the relay and LED lines as outputs, initially low.
func NewRealOutput(chipName string, pinRelay, pinLED int) (*RealOutput, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	lines, err := chip.RequestLines([]int{pinRelay, pinLED}, gpiocdev.AsOutput(0, 0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request output pins %d,%d: %w", pinRelay, pinLED, err)
	}

	return &RealOutput{chip: chip, lines: lines}, nil
}

// Set drives relay and LED high when energized, low otherwise.
func (o *RealOutput) Set(energized bool) error {
	v := 0
	if energized {
		v = 1
	}
	if err := o.lines.SetValues([]int{v, v}); err != nil {
		return fmt.Errorf("set output pins: %w", err)
	}
	return nil
}

// Close drives both outputs low, then reconfigures the lines to input with
// pull-down (matching Pi boot defaults) before releasing them, so the relay
// cannot be left energized across a restart.
func (o *RealOutput) Close() error {
	var errs []error
	if o.lines != nil {
		if err := o.lines.SetValues([]int{0, 0}); err != nil {
			errs = append(errs, fmt.Errorf("de-energize output pins: %w", err))
		}
		if err := o.lines.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure output pins: %w", err))
		}
		if err := o.lines.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close output pins: %w", err))
		}
	}
	if o.chip != nil {
		if err := o.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
