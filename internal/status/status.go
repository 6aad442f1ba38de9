// Package status provides a thread-safe status tracker for the controller.
// The control loop writes it once per cycle; HTTP handlers read it.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/farmtech/internal/logic"
)

// NetworkInfo contains network state. This is a local copy to avoid
// importing internal/mqtt from status.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains controller configuration for display.
type Config struct {
	PeriodMs   int64
	SerialPort string
	BaudRate   int
	Broker     string
	HTTPAddr   string
	Display    bool
}

// Counts tracks cycle outcomes since startup.
type Counts struct {
	Cycles       int
	Invalid      int // cycles where validation failed
	SensorFaults int // cycles with a failed sensor read
	Energized    int // cycles with the output energized
}

// Snapshot is a point-in-time view of controller state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	State         logic.State
	Reading       logic.Snapshot
	HaveReading   bool
	Counts        Counts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the controller started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable controller state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update records the outcome of one cycle.
// Called from runLoop after every cycle.
func (t *Tracker) Update(st logic.State, reading logic.Snapshot) {
	t.mu.Lock()
	t.snap.State = st
	t.snap.Reading = reading
	t.snap.HaveReading = true
	t.snap.Counts.Cycles++
	if !st.Valid {
		t.snap.Counts.Invalid++
	}
	if reading.SensorFault() {
		t.snap.Counts.SensorFaults++
	}
	if st.OutputEnergized {
		t.snap.Counts.Energized++
	}
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the controller state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
