package mqtt

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/sweeney/farmtech/internal/logic"
)

func testSnapshot() logic.Snapshot {
	return logic.Snapshot{
		Humidity:       50.5,
		Temperature:    25.25,
		Light:          300,
		PrimaryPressed: true,
		Time:           time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC),
	}
}

func TestFormatPayload(t *testing.T) {
	snap := testSnapshot()
	st := logic.Evaluate(snap)

	payload, err := FormatPayload(st, snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed Payload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	c := parsed.Controller
	if c.Timestamp != "2026-02-02T22:18:12Z" {
		t.Errorf("unexpected timestamp: %s", c.Timestamp)
	}
	if c.Mode != "ENERGIZED" {
		t.Errorf("unexpected mode: %s", c.Mode)
	}
	if c.Sensors.Humidity == nil || *c.Sensors.Humidity != 50.5 {
		t.Errorf("unexpected humidity: %v", c.Sensors.Humidity)
	}
	if c.Sensors.Temperature == nil || *c.Sensors.Temperature != 25.25 {
		t.Errorf("unexpected temperature: %v", c.Sensors.Temperature)
	}
	if c.Sensors.Light == nil || *c.Sensors.Light != 300 {
		t.Errorf("unexpected light: %v", c.Sensors.Light)
	}
	if !c.Buttons.BtnP || c.Buttons.BtnK {
		t.Errorf("unexpected buttons: %+v", c.Buttons)
	}
	if !c.Validation.SensorsValid || !c.Validation.ButtonActive {
		t.Errorf("unexpected validation: %+v", c.Validation)
	}
	if c.SensorFault {
		t.Error("expected sensor_fault=false")
	}
}

func TestFormatPayloadFailedReadsAreNull(t *testing.T) {
	snap := testSnapshot()
	snap.Humidity = math.NaN()
	snap.Light = logic.LightReadFailed
	st := logic.Evaluate(snap)

	payload, err := FormatPayload(st, snap)
	if err != nil {
		t.Fatalf("NaN must not break JSON encoding: %v", err)
	}

	var raw map[string]map[string]interface{}
	if err := json.Unmarshal(payload, &raw); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	sensors := raw["controller"]["sensors"].(map[string]interface{})
	if v, ok := sensors["humidity"]; !ok || v != nil {
		t.Errorf("humidity: got %v, want null", v)
	}
	if v, ok := sensors["light"]; !ok || v != nil {
		t.Errorf("light: got %v, want null", v)
	}
	if sensors["temperature"] != 25.25 {
		t.Errorf("temperature: got %v, want 25.25", sensors["temperature"])
	}
	if raw["controller"]["sensor_fault"] != true {
		t.Error("expected sensor_fault=true")
	}
	if raw["controller"]["mode"] != "DE-ENERGIZED" {
		t.Errorf("mode: got %v, want DE-ENERGIZED", raw["controller"]["mode"])
	}
}

func TestFormatPayloadTimezoneConversion(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	snap := testSnapshot()
	snap.Time = time.Date(2026, 2, 3, 0, 18, 12, 0, loc)

	payload, _ := FormatPayload(logic.Evaluate(snap), snap)

	var parsed Payload
	json.Unmarshal(payload, &parsed)
	if parsed.Controller.Timestamp != "2026-02-02T22:18:12Z" {
		t.Errorf("expected UTC timestamp, got %s", parsed.Controller.Timestamp)
	}
}

func TestTopics(t *testing.T) {
	if Topic != "farmtech/controller/telemetry" {
		t.Errorf("unexpected topic: %s", Topic)
	}
	if TopicSystem != "farmtech/controller/system" {
		t.Errorf("unexpected system topic: %s", TopicSystem)
	}
}

func TestFormatSystemPayloadExactJSON(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `{"system":{"timestamp":"2026-02-02T22:18:12Z","event":"SHUTDOWN","reason":"SIGTERM"}}`
	if string(payload) != want {
		t.Errorf("payload:\n got %s\nwant %s", payload, want)
	}
}

func TestFormatSystemPayloadRawPassthrough(t *testing.T) {
	raw := []byte(`{"status":{"event":"STARTUP"}}`)
	payload, err := FormatSystemPayload(SystemEvent{Event: "STARTUP", RawPayload: raw})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(payload) != string(raw) {
		t.Errorf("expected raw payload, got %s", payload)
	}
}

func TestWillPayloadFormat(t *testing.T) {
	want := `{"system":{"event":"OFFLINE","reason":"CONNECTION_LOST"}}`
	if got := string(willPayload()); got != want {
		t.Errorf("will payload:\n got %s\nwant %s", got, want)
	}
}

func TestFakePublisher(t *testing.T) {
	f := NewFakePublisher()
	snap := testSnapshot()
	st := logic.Evaluate(snap)

	if err := f.Publish(st, snap); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.Cycles) != 1 {
		t.Fatalf("expected 1 cycle, got %d", len(f.Cycles))
	}
	if f.Cycles[0].State != st {
		t.Errorf("unexpected state: %+v", f.Cycles[0].State)
	}
	if len(f.Payloads) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(f.Payloads))
	}
}

func TestFakePublisherError(t *testing.T) {
	f := NewFakePublisher()
	f.PublishError = errors.New("broker down")

	snap := testSnapshot()
	if err := f.Publish(logic.Evaluate(snap), snap); err == nil {
		t.Error("expected error")
	}
	if len(f.Cycles) != 0 {
		t.Errorf("expected no recorded cycles on error, got %d", len(f.Cycles))
	}
}

func TestFakePublisherPublishSystem(t *testing.T) {
	f := NewFakePublisher()

	event := SystemEvent{Timestamp: time.Now(), Event: "STARTUP", Retained: true}
	if err := f.PublishSystem(event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.SystemEvents) != 1 {
		t.Fatalf("expected 1 system event, got %d", len(f.SystemEvents))
	}
	if !f.SystemEvents[0].Retained {
		t.Error("expected retained flag to be recorded")
	}
	if len(f.SystemPayloads) != 1 {
		t.Fatalf("expected 1 system payload, got %d", len(f.SystemPayloads))
	}
}

func TestFakePublisherReset(t *testing.T) {
	f := NewFakePublisher()
	snap := testSnapshot()
	f.Publish(logic.Evaluate(snap), snap)
	f.PublishSystem(SystemEvent{Event: "STARTUP"})
	f.Close()
	f.Connected = true

	f.Reset()

	if len(f.Cycles) != 0 || len(f.Payloads) != 0 || len(f.SystemEvents) != 0 || len(f.SystemPayloads) != 0 {
		t.Error("Reset should clear recorded messages")
	}
	if f.Closed || f.Connected {
		t.Error("Reset should clear Closed and Connected")
	}
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	snap := testSnapshot()
	if err := p.Publish(logic.Evaluate(snap), snap); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := p.PublishSystem(SystemEvent{Event: "STARTUP"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if (Nop{}).IsConnected() {
		t.Error("Nop should never report connected")
	}
}
