package gpio

import (
	"errors"
	"testing"
)

func TestFakeReaderRead(t *testing.T) {
	samples := []Sample{
		{Primary: true, Secondary: false},
		{Primary: false, Secondary: true},
		{Primary: true, Secondary: true},
	}

	f := NewFakeReader(samples)

	for i, want := range samples {
		p, s, err := f.Read()
		if err != nil {
			t.Fatalf("sample %d: unexpected error: %v", i, err)
		}
		if p != want.Primary || s != want.Secondary {
			t.Errorf("sample %d: expected (%v, %v), got (%v, %v)", i, want.Primary, want.Secondary, p, s)
		}
	}

	// Fourth read should repeat last sample
	p, s, err := f.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != true || s != true {
		t.Errorf("repeat: expected (true, true), got (%v, %v)", p, s)
	}
}

func TestFakeReaderNoSamples(t *testing.T) {
	f := NewFakeReader(nil)

	_, _, err := f.Read()
	if err == nil {
		t.Error("expected error with no samples")
	}
}

func TestFakeReaderError(t *testing.T) {
	f := NewFakeReader([]Sample{{Primary: true}})
	f.ReadError = errors.New("simulated error")

	_, _, err := f.Read()
	if err == nil {
		t.Fatal("expected error to be returned")
	}
	if err.Error() != "simulated error" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFakeReaderReset(t *testing.T) {
	f := NewFakeReader([]Sample{{Primary: true}, {Secondary: true}})

	f.Read()
	f.Reset()

	p, s, _ := f.Read()
	if p != true || s != false {
		t.Errorf("after reset: expected (true, false), got (%v, %v)", p, s)
	}
}

func TestFakeOutputDrivesBothLines(t *testing.T) {
	o := NewFakeOutput()

	for _, v := range []bool{true, false, true} {
		if err := o.Set(v); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if o.Relay != v || o.LED != v {
			t.Errorf("Set(%v): relay=%v led=%v", v, o.Relay, o.LED)
		}
	}

	if len(o.Writes) != 3 {
		t.Errorf("expected 3 writes, got %d", len(o.Writes))
	}
}

func TestFakeOutputError(t *testing.T) {
	o := NewFakeOutput()
	o.SetError = errors.New("line busy")

	if err := o.Set(true); err == nil {
		t.Error("expected error")
	}
	if o.Relay || o.LED {
		t.Error("failed Set should not change line levels")
	}
}

func TestFakeOutputCloseDeEnergizes(t *testing.T) {
	o := NewFakeOutput()
	o.Set(true)

	if err := o.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Relay || o.LED {
		t.Error("Close should drive both lines low")
	}
	if !o.Closed {
		t.Error("should be closed after Close()")
	}
}
