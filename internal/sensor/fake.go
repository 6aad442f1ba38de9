package sensor

import "math"

// Reading is one scripted set of sensor values.
type Reading struct {
	Humidity    float64
	Temperature float64
	Light       int
}

// FakeReader is a test double that returns scripted readings.
// Each call to ReadLight advances to the next reading, so a full
// humidity/temperature/light sequence consumes one Reading.
type FakeReader struct {
	Readings []Reading
	index    int

	// Failed, if set, makes humidity and temperature read as NaN.
	Failed bool

	Closed bool
}

// NewFakeReader creates a FakeReader with the given readings.
func NewFakeReader(readings []Reading) *FakeReader {
	return &FakeReader{Readings: readings}
}

func (f *FakeReader) current() Reading {
	if len(f.Readings) == 0 {
		return Reading{Humidity: math.NaN(), Temperature: math.NaN()}
	}
	return f.Readings[f.index]
}

// ReadHumidity returns the current scripted humidity.
func (f *FakeReader) ReadHumidity() float64 {
	if f.Failed {
		return math.NaN()
	}
	return f.current().Humidity
}

// ReadTemperature returns the current scripted temperature.
func (f *FakeReader) ReadTemperature() float64 {
	if f.Failed {
		return math.NaN()
	}
	return f.current().Temperature
}

// ReadLight returns the current scripted light value and advances.
// If readings are exhausted, the last one repeats.
func (f *FakeReader) ReadLight() int {
	r := f.current()
	if f.index < len(f.Readings)-1 {
		f.index++
	}
	return r.Light
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}
