package display

import (
	"fmt"
	"io"
	"strings"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// DefaultAddr is the usual PCF8574 backpack address.
const DefaultAddr = 0x27

// PCF8574 bit assignments on the common HD44780 backpack.
const (
	bitRS        = 0x01
	bitEnable    = 0x04
	bitBacklight = 0x08
)

// HD44780 commands.
const (
	cmdClear       = 0x01
	cmdEntryMode   = 0x06 // increment, no shift
	cmdDisplayOn   = 0x0C // display on, cursor off, blink off
	cmdFunctionSet = 0x28 // 4-bit, 2 lines, 5x8 font
	cmdSetDDRAM    = 0x80
)

var rowOffsets = [4]byte{0x00, 0x40, 0x14, 0x54}

// LCD drives an HD44780 character display through a PCF8574 I2C expander.
type LCD struct {
	bus       io.Closer
	dev       io.Writer
	cols      int
	rows      int
	backlight byte
}

// NewLCD opens the bus, initializes the controller in 4-bit mode,
// turns the backlight on and clears the screen.
func NewLCD(busName string, addr uint16, cols, rows int) (*LCD, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}

	l, err := newLCD(&i2c.Dev{Bus: bus, Addr: addr}, bus, cols, rows)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("lcd at 0x%02X: %w", addr, err)
	}
	return l, nil
}

// newLCD initializes a display behind dev. bus is closed by Close.
func newLCD(dev io.Writer, bus io.Closer, cols, rows int) (*LCD, error) {
	if cols < 1 {
		return nil, fmt.Errorf("unsupported column count %d", cols)
	}
	if rows < 1 || rows > len(rowOffsets) {
		return nil, fmt.Errorf("unsupported row count %d", rows)
	}
	l := &LCD{
		bus:       bus,
		dev:       dev,
		cols:      cols,
		rows:      rows,
		backlight: bitBacklight,
	}
	if err := l.init(); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	return l, nil
}

func (l *LCD) init() error {
	time.Sleep(50 * time.Millisecond)

	// Reset into 8-bit mode three times, then switch to 4-bit.
	for _, wait := range []time.Duration{4500 * time.Microsecond, 4500 * time.Microsecond, 150 * time.Microsecond} {
		if err := l.write4(0x30, 0); err != nil {
			return err
		}
		time.Sleep(wait)
	}
	if err := l.write4(0x20, 0); err != nil {
		return err
	}

	for _, c := range []byte{cmdFunctionSet, cmdDisplayOn, cmdEntryMode} {
		if err := l.command(c); err != nil {
			return err
		}
	}
	return l.Clear()
}

// write4 latches the high nibble of b with the given register select bits.
func (l *LCD) write4(b, mode byte) error {
	v := (b & 0xF0) | mode | l.backlight
	_, err := l.dev.Write([]byte{v, v | bitEnable, v})
	return err
}

func (l *LCD) send(b, mode byte) error {
	if err := l.write4(b, mode); err != nil {
		return err
	}
	return l.write4(b<<4, mode)
}

func (l *LCD) command(c byte) error {
	return l.send(c, 0)
}

// Clear blanks the display and homes the cursor.
func (l *LCD) Clear() error {
	if err := l.command(cmdClear); err != nil {
		return err
	}
	time.Sleep(2 * time.Millisecond)
	return nil
}

// Render writes line1 and line2 to the first two rows, padded to the
// display width so characters left over from a longer line are erased.
func (l *LCD) Render(line1, line2 string) error {
	for row, text := range []string{line1, line2} {
		if row >= l.rows {
			break
		}
		if err := l.command(cmdSetDDRAM | rowOffsets[row]); err != nil {
			return fmt.Errorf("lcd: set cursor row %d: %w", row, err)
		}
		for _, c := range []byte(fit(text, l.cols)) {
			if err := l.send(c, bitRS); err != nil {
				return fmt.Errorf("lcd: write row %d: %w", row, err)
			}
		}
	}
	return nil
}

// Splash shows text on the first row for hold, then clears.
func (l *LCD) Splash(text string, hold time.Duration) error {
	if err := l.Render(text, ""); err != nil {
		return err
	}
	time.Sleep(hold)
	return l.Clear()
}

// Close releases the bus. The expander latches its outputs, so the last
// frame (the shutdown notice on a clean exit) stays lit after the process ends.
func (l *LCD) Close() error {
	if err := l.bus.Close(); err != nil {
		return fmt.Errorf("close i2c bus: %w", err)
	}
	return nil
}

// fit truncates or space-pads s to exactly width bytes.
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if len(s) >= width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}
