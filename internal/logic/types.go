// Package logic contains the pure decision rules of the controller.
// This package has NO external dependencies (no GPIO, I2C, serial, MQTT or time.Sleep).
// Every function is a function of its arguments only.
package logic

import (
	"math"
	"time"
)

// Acceptable ranges for the environmental readings. Bounds are inclusive.
const (
	HumidityMin = 30.0
	HumidityMax = 80.0
	TempMin     = 10.0
	TempMax     = 50.0
	LightMin    = 0
	LightMax    = 700
)

// LightReadFailed is the light value reported when the ADC read fails.
// It sits below LightMin so validation fails without a special case.
const LightReadFailed = -1

// Mode is the externally visible actuation state.
type Mode string

const (
	ModeEnergized   Mode = "ENERGIZED"
	ModeDeEnergized Mode = "DE-ENERGIZED"
)

// Snapshot is one cycle's set of readings. It is never mutated after capture.
type Snapshot struct {
	Humidity    float64 // percent RH, NaN = failed read
	Temperature float64 // degrees C, NaN = failed read
	Light       int     // raw ADC units, LightReadFailed = failed read

	// Logical inverse of the active-low pin level: true = pressed.
	PrimaryPressed   bool // button P
	SecondaryPressed bool // button K

	Time time.Time
}

// SensorFault reports whether any reading carries a failed-read sentinel.
// It is diagnostic only; validation does not consult it.
func (s Snapshot) SensorFault() bool {
	return math.IsNaN(s.Humidity) || math.IsNaN(s.Temperature) || s.Light == LightReadFailed
}

// State is the result of evaluating one snapshot.
// OutputEnergized is always Valid && ButtonActive; construct it with Evaluate.
type State struct {
	Valid           bool
	ButtonActive    bool
	OutputEnergized bool
}

// Mode returns ENERGIZED or DE-ENERGIZED.
func (s State) Mode() Mode {
	if s.OutputEnergized {
		return ModeEnergized
	}
	return ModeDeEnergized
}
