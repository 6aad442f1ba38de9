// Package mqtt mirrors controller state to an MQTT broker with abstraction for testing.
// Publishing is fire-and-forget: nothing is queued while disconnected.
package mqtt

import (
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/sweeney/farmtech/internal/logic"
)

// Topic is the MQTT topic for per-cycle telemetry.
const Topic = "farmtech/controller/telemetry"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "farmtech/controller/system"

// DefaultClientID identifies the controller to the broker.
const DefaultClientID = "farmtech-controller"

// ErrNotConnected is returned when a message is dropped because the broker is unreachable.
var ErrNotConnected = errors.New("mqtt: not connected, message dropped")

// Publisher publishes controller state to MQTT.
type Publisher interface {
	// Publish sends one cycle's state to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(st logic.State, snap logic.Snapshot) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the per-cycle MQTT message.
type Payload struct {
	Controller ControllerPayload `json:"controller"`
}

// ControllerPayload contains one cycle's readings and decision.
type ControllerPayload struct {
	Timestamp   string            `json:"timestamp"`
	Mode        string            `json:"mode"`
	Sensors     SensorsPayload    `json:"sensors"`
	Buttons     ButtonsPayload    `json:"buttons"`
	Validation  ValidationPayload `json:"validation"`
	SensorFault bool              `json:"sensor_fault"`
}

// SensorsPayload holds the raw readings. Failed reads are null.
type SensorsPayload struct {
	Humidity    *float64 `json:"humidity"`
	Temperature *float64 `json:"temperature"`
	Light       *int     `json:"light"`
}

// ButtonsPayload holds the logical button states.
type ButtonsPayload struct {
	BtnP bool `json:"btnP"`
	BtnK bool `json:"btnK"`
}

// ValidationPayload holds the derived flags.
type ValidationPayload struct {
	SensorsValid bool `json:"sensorsValid"`
	ButtonActive bool `json:"buttonActive"`
}

func floatOrNull(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func lightOrNull(v int) *int {
	if v == logic.LightReadFailed {
		return nil
	}
	return &v
}

// FormatPayload creates the JSON payload for one cycle.
func FormatPayload(st logic.State, snap logic.Snapshot) ([]byte, error) {
	payload := Payload{
		Controller: ControllerPayload{
			Timestamp: snap.Time.UTC().Format(time.RFC3339),
			Mode:      string(st.Mode()),
			Sensors: SensorsPayload{
				Humidity:    floatOrNull(snap.Humidity),
				Temperature: floatOrNull(snap.Temperature),
				Light:       lightOrNull(snap.Light),
			},
			Buttons: ButtonsPayload{
				BtnP: snap.PrimaryPressed,
				BtnK: snap.SecondaryPressed,
			},
			Validation: ValidationPayload{
				SensorsValid: st.Valid,
				ButtonActive: st.ButtonActive,
			},
			SensorFault: snap.SensorFault(),
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events (LWT) that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp,omitempty"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Event:  event.Event,
			Reason: event.Reason,
		},
	}
	if !event.Timestamp.IsZero() {
		payload.System.Timestamp = event.Timestamp.UTC().Format(time.RFC3339)
	}
	return json.Marshal(payload)
}

// willPayload is registered with the broker and published if the
// controller drops off without a clean shutdown.
func willPayload() []byte {
	data, _ := FormatSystemPayload(SystemEvent{Event: "OFFLINE", Reason: "CONNECTION_LOST"})
	return data
}
