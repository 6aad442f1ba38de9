package gpio

import "errors"

// FakeReader is a test double that returns scripted button values.
type FakeReader struct {
	// Samples contains scripted values to return.
	// Each call to Read() consumes the next sample.
	Samples []Sample

	// index tracks current position in Samples
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// Sample represents a single button reading (already in logical form).
type Sample struct {
	Primary   bool // true = pressed
	Secondary bool // true = pressed
}

// NewFakeReader creates a FakeReader with the given samples.
func NewFakeReader(samples []Sample) *FakeReader {
	return &FakeReader{Samples: samples}
}

// Read returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeReader) Read() (bool, bool, error) {
	if f.ReadError != nil {
		return false, false, f.ReadError
	}

	if len(f.Samples) == 0 {
		return false, false, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	return sample.Primary, sample.Secondary, nil
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the reader to the beginning of samples.
func (f *FakeReader) Reset() {
	f.index = 0
	f.Closed = false
}

// FakeOutput records output writes for test assertions.
type FakeOutput struct {
	// Relay and LED hold the current level of each line.
	Relay bool
	LED   bool

	// Writes contains every value passed to Set, in order.
	Writes []bool

	// SetError, if set, will be returned by Set and nothing is recorded.
	SetError error

	Closed bool
}

// NewFakeOutput creates a FakeOutput with both lines low.
func NewFakeOutput() *FakeOutput {
	return &FakeOutput{}
}

// Set records the value and drives both lines.
func (f *FakeOutput) Set(energized bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.Relay = energized
	f.LED = energized
	f.Writes = append(f.Writes, energized)
	return nil
}

// Close drives both lines low and marks the output as closed.
func (f *FakeOutput) Close() error {
	f.Relay = false
	f.LED = false
	f.Closed = true
	return nil
}
