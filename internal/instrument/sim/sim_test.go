// internal/instrument/sim/sim_test.go
package sim

import (
	"testing"

	"github.com/mseiler/irqbench/internal/instrument"
)

func TestStatusProgression(t *testing.T) {
	d := New()

	if s, _ := d.InStatus(); s != instrument.StateReady {
		t.Fatalf("state before arm = %d, want ready", s)
	}

	if err := d.InBufferSize(100); err != nil {
		t.Fatalf("InBufferSize() err=%v", err)
	}
	if err := d.InArm(); err != nil {
		t.Fatalf("InArm() err=%v", err)
	}

	// Armed until the generator fires.
	if s, _ := d.InStatus(); s != instrument.StateArmed {
		t.Fatalf("state after arm = %d, want armed", s)
	}

	if err := d.OutStart(); err != nil {
		t.Fatalf("OutStart() err=%v", err)
	}
	if s, _ := d.InStatus(); s != instrument.StateDone {
		t.Fatalf("state after fire = %d, want done", s)
	}
}

func TestReadBackAssertsResponse(t *testing.T) {
	d := New()
	d.ResponseDelay = 10
	d.ResponseMask = 0x01

	if err := d.InBufferSize(32); err != nil {
		t.Fatalf("InBufferSize() err=%v", err)
	}
	if err := d.InArm(); err != nil {
		t.Fatalf("InArm() err=%v", err)
	}
	if err := d.OutStart(); err != nil {
		t.Fatalf("OutStart() err=%v", err)
	}

	buf := make([]byte, 32)
	if err := d.InReadData(buf); err != nil {
		t.Fatalf("InReadData() err=%v", err)
	}

	if buf[9] != 0 {
		t.Fatalf("sample 9 = %#x, want idle before response", buf[9])
	}
	for i := 10; i < 32; i++ {
		if buf[i]&0x01 == 0 {
			t.Fatalf("sample %d = %#x, response should stay asserted", i, buf[i])
		}
	}
}

func TestReadBackLengthMustMatchBuffer(t *testing.T) {
	d := New()
	if err := d.InBufferSize(16); err != nil {
		t.Fatalf("InBufferSize() err=%v", err)
	}

	if err := d.InReadData(make([]byte, 8)); err == nil {
		t.Fatal("expected error for mismatched read length")
	}
}

func TestClosedDeviceRejectsCalls(t *testing.T) {
	d := New()
	if err := d.Close(); err != nil {
		t.Fatalf("Close() err=%v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("second Close() err=%v, want idempotent close", err)
	}
	if err := d.InArm(); err == nil {
		t.Fatal("expected error for use after close")
	}
}

func TestRegisteredDriver(t *testing.T) {
	dev, err := instrument.Open("sim")
	if err != nil {
		t.Fatalf("Open(sim) err=%v", err)
	}
	if err := dev.Close(); err != nil {
		t.Fatalf("Close() err=%v", err)
	}
}
