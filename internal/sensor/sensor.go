// Package sensor provides the environmental sensor collaborator.
// Failed reads are reported as sentinels (NaN or logic.LightReadFailed),
// never as errors, so validation downstream fails on its own.
package sensor

// Reader reads raw environmental values.
type Reader interface {
	// ReadHumidity returns relative humidity in percent, or NaN on failure.
	ReadHumidity() float64

	// ReadTemperature returns the temperature in degrees Celsius, or NaN on failure.
	ReadTemperature() float64

	// ReadLight returns the light level in 12-bit ADC units, or
	// logic.LightReadFailed on failure.
	ReadLight() int

	// Close releases the underlying bus.
	Close() error
}

// Default I2C addresses and channel.
const (
	DefaultEnvAddr      = 0x76 // BME280, SDO low
	DefaultADCAddr      = 0x48 // ADS1115, ADDR to GND
	DefaultLightChannel = 0
)
