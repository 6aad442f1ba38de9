// Package acquire builds one snapshot per cycle from the sensor and buttons.
// It is purely observational: nothing is validated, clamped or retried here.
package acquire

import (
	"log"
	"time"

	"github.com/sweeney/farmtech/internal/gpio"
	"github.com/sweeney/farmtech/internal/logic"
	"github.com/sweeney/farmtech/internal/sensor"
)

// Acquirer reads all inputs for one cycle.
type Acquirer struct {
	sensor  sensor.Reader
	buttons gpio.Reader
	now     func() time.Time
}

// New creates an Acquirer. now stamps each snapshot.
func New(s sensor.Reader, buttons gpio.Reader, now func() time.Time) *Acquirer {
	return &Acquirer{sensor: s, buttons: buttons, now: now}
}

// Acquire reads humidity, temperature, light and both buttons.
// Sensor sentinels pass through unmodified. A button read error is logged
// and both buttons read as released.
func (a *Acquirer) Acquire() logic.Snapshot {
	snap := logic.Snapshot{
		Time:        a.now(),
		Humidity:    a.sensor.ReadHumidity(),
		Temperature: a.sensor.ReadTemperature(),
		Light:       a.sensor.ReadLight(),
	}

	p, k, err := a.buttons.Read()
	if err != nil {
		log.Printf("acquire: button read error: %v", err)
		return snap
	}
	snap.PrimaryPressed = p
	snap.SecondaryPressed = k
	return snap
}
