package status

import (
	"encoding/json"
	"math"
	"time"

	"github.com/sweeney/farmtech/internal/logic"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Mode          string       `json:"mode"`
	Valid         bool         `json:"sensors_valid"`
	ButtonActive  bool         `json:"button_active"`
	Reading       *ReadingJSON `json:"reading,omitempty"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"cycle_counts"`
	Network       *NetworkJSON `json:"network,omitempty"`
	Config        ConfigJSON   `json:"config"`
}

// ReadingJSON is the latest snapshot. Failed reads are null.
type ReadingJSON struct {
	Humidity    *float64 `json:"humidity"`
	Temperature *float64 `json:"temperature"`
	Light       *int     `json:"light"`
	BtnP        bool     `json:"btnP"`
	BtnK        bool     `json:"btnK"`
	SensorFault bool     `json:"sensor_fault"`
	Timestamp   string   `json:"timestamp"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of cycle counts.
type CountsJSON struct {
	Cycles       int `json:"cycles"`
	Invalid      int `json:"invalid"`
	SensorFaults int `json:"sensor_faults"`
	Energized    int `json:"energized"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of controller config.
type ConfigJSON struct {
	PeriodMs   int64  `json:"period_ms"`
	SerialPort string `json:"serial_port"`
	BaudRate   int    `json:"baud_rate"`
	Broker     string `json:"broker"`
	HTTPAddr   string `json:"http_addr"`
	Display    bool   `json:"display"`
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func buildReading(r logic.Snapshot) *ReadingJSON {
	rj := &ReadingJSON{
		Humidity:    finite(r.Humidity),
		Temperature: finite(r.Temperature),
		BtnP:        r.PrimaryPressed,
		BtnK:        r.SecondaryPressed,
		SensorFault: r.SensorFault(),
		Timestamp:   r.Time.UTC().Format(time.RFC3339),
	}
	if r.Light != logic.LightReadFailed {
		l := r.Light
		rj.Light = &l
	}
	return rj
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		Mode:          string(snap.State.Mode()),
		Valid:         snap.State.Valid,
		ButtonActive:  snap.State.ButtonActive,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Cycles:       snap.Counts.Cycles,
			Invalid:      snap.Counts.Invalid,
			SensorFaults: snap.Counts.SensorFaults,
			Energized:    snap.Counts.Energized,
		},
		Config: ConfigJSON{
			PeriodMs:   snap.Config.PeriodMs,
			SerialPort: snap.Config.SerialPort,
			BaudRate:   snap.Config.BaudRate,
			Broker:     snap.Config.Broker,
			HTTPAddr:   snap.Config.HTTPAddr,
			Display:    snap.Config.Display,
		},
	}
	if !snap.HaveReading {
		inner.Mode = "UNKNOWN"
	} else {
		inner.Reading = buildReading(snap.Reading)
	}
	return inner
}

func buildNetwork(snap Snapshot, inner *StatusInner) {
	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	buildNetwork(snap, &inner)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	buildNetwork(snap, &inner)

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
