package telemetry

import (
	"fmt"
	"io"
	"os"

	"go.bug.st/serial"
)

const (
	// DefaultPort is the Pi's primary UART.
	DefaultPort = "/dev/ttyS0"
	// DefaultBaudRate matches the original firmware's Serial.begin.
	DefaultBaudRate = 9600

	// StdoutPort selects standard output instead of a serial device.
	StdoutPort = "-"
)

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// Open returns the byte stream telemetry is written to: a serial port at
// baudRate 8N1, or stdout when port is StdoutPort.
func Open(port string, baudRate int) (io.WriteCloser, error) {
	if port == StdoutPort {
		return nopCloser{os.Stdout}, nil
	}
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}

	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	p, err := serial.Open(port, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", port, err)
	}
	return p, nil
}

// Ports lists the serial ports present on this host.
func Ports() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}
	return ports, nil
}
