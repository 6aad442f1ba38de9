// Package gpio provides button inputs and relay/LED outputs with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Reader reads the two button inputs.
type Reader interface {
	// Read returns the logical states of button P and button K.
	// The buttons are wired active-low: raw low = logical pressed.
	// Returns (primaryPressed, secondaryPressed, error).
	Read() (bool, bool, error)

	// Close releases GPIO resources.
	Close() error
}

// Output drives the relay and the indicator LED.
type Output interface {
	// Set drives both outputs to the same level in a single request.
	Set(energized bool) error

	// Close de-energizes and releases GPIO resources.
	Close() error
}

// DefaultChip is the GPIO character device the lines are requested from.
const DefaultChip = "gpiochip0"

// Pin definitions (BCM numbering)
const (
	DefaultPinButtonP = 18
	DefaultPinButtonK = 19
	DefaultPinRelay   = 16
	DefaultPinLED     = 23
)
