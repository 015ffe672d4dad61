// internal/instrument/sim/sim.go
package sim

import (
	"github.com/pkg/errors"

	"github.com/mseiler/irqbench/internal/instrument"
)

func init() {
	instrument.Register("sim", func() (instrument.Device, error) {
		return New(), nil
	})
}

// Device simulates the instrument in memory: arming starts a capture that
// completes after a fixed number of status polls once the generator has
// fired, and the read-back buffer asserts the response mask from
// ResponseDelay onwards. Used by tests and --driver sim dry runs.
type Device struct {
	// Behavior knobs. Defaults mimic a target answering 25 samples
	// after the trigger.
	ResponseDelay int  // sample index where the response bit asserts
	ResponseMask  byte // bits asserted from ResponseDelay onwards
	NoResponse    bool // capture completes but the response never appears
	DonePolls     int  // status polls after fire before StateDone
	InternalClock float64

	// Last-applied configuration, visible for assertions.
	OutDividerVal   uint32
	OutLow, OutHigh uint32
	OutRunSeconds   float64
	OutRepeatCount  uint32
	OutIdleLevel    instrument.IdleLevel
	InDividerVal    uint32
	BufferSize      int
	TriggerPos      int
	EdgeRiseMask    uint32
	EdgeFallMask    uint32

	armed  bool
	fired  bool
	polls  int
	closed bool
}

// New returns a simulated device with default response behavior.
func New() *Device {
	return &Device{
		ResponseDelay: 25,
		ResponseMask:  0x01,
		DonePolls:     1,
		InternalClock: 800e6,
	}
}

// ---- pattern generator ----

func (d *Device) OutEnable(channel int, enable bool) error { return d.ok() }

func (d *Device) OutDivider(channel int, divider uint32) error {
	if err := d.ok(); err != nil {
		return err
	}
	d.OutDividerVal = divider
	return nil
}

func (d *Device) OutCounter(channel int, lowCount, highCount uint32) error {
	if err := d.ok(); err != nil {
		return err
	}
	d.OutLow, d.OutHigh = lowCount, highCount
	return nil
}

func (d *Device) OutRun(seconds float64) error {
	if err := d.ok(); err != nil {
		return err
	}
	d.OutRunSeconds = seconds
	return nil
}

func (d *Device) OutRepeat(count uint32) error {
	if err := d.ok(); err != nil {
		return err
	}
	d.OutRepeatCount = count
	return nil
}

func (d *Device) OutIdle(channel int, level instrument.IdleLevel) error {
	if err := d.ok(); err != nil {
		return err
	}
	d.OutIdleLevel = level
	return nil
}

func (d *Device) OutCounterInit(channel int, startHigh bool, phase uint32) error {
	return d.ok()
}

func (d *Device) OutStart() error {
	if err := d.ok(); err != nil {
		return err
	}
	d.fired = true
	return nil
}

// ---- logic capture ----

func (d *Device) InInternalClock() (float64, error) {
	if err := d.ok(); err != nil {
		return 0, err
	}
	return d.InternalClock, nil
}

func (d *Device) InDivider(divider uint32) error {
	if err := d.ok(); err != nil {
		return err
	}
	d.InDividerVal = divider
	return nil
}

func (d *Device) InSampleFormat(bits int) error {
	if err := d.ok(); err != nil {
		return err
	}
	if bits != 8 {
		return errors.Errorf("sim: unsupported sample format %d bits", bits)
	}
	return nil
}

func (d *Device) InBufferSize(samples int) error {
	if err := d.ok(); err != nil {
		return err
	}
	d.BufferSize = samples
	return nil
}

func (d *Device) InTriggerSource(src instrument.TriggerSource) error { return d.ok() }

func (d *Device) InTriggerPosition(samplesAfterTrigger int) error {
	if err := d.ok(); err != nil {
		return err
	}
	d.TriggerPos = samplesAfterTrigger
	return nil
}

func (d *Device) InTrigger(levelLow, levelHigh, edgeRise, edgeFall uint32) error {
	if err := d.ok(); err != nil {
		return err
	}
	d.EdgeRiseMask, d.EdgeFallMask = edgeRise, edgeFall
	return nil
}

func (d *Device) InArm() error {
	if err := d.ok(); err != nil {
		return err
	}
	d.armed = true
	d.fired = false
	d.polls = 0
	return nil
}

func (d *Device) InStatus() (instrument.AcqState, error) {
	if err := d.ok(); err != nil {
		return 0, err
	}
	if !d.armed {
		return instrument.StateReady, nil
	}
	if !d.fired {
		// Waiting for the trigger edge.
		return instrument.StateArmed, nil
	}
	d.polls++
	if d.polls < d.DonePolls {
		return instrument.StateTriggered, nil
	}
	return instrument.StateDone, nil
}

func (d *Device) InReadData(buf []byte) error {
	if err := d.ok(); err != nil {
		return err
	}
	if len(buf) != d.BufferSize {
		return errors.Errorf("sim: read of %d samples but buffer size is %d", len(buf), d.BufferSize)
	}
	for i := range buf {
		buf[i] = 0
	}
	if !d.NoResponse && d.ResponseDelay < len(buf) {
		// The response line stays asserted once it fires.
		for i := d.ResponseDelay; i < len(buf); i++ {
			buf[i] |= d.ResponseMask
		}
	}
	d.armed = false
	return nil
}

func (d *Device) Close() error {
	d.closed = true
	return nil
}

func (d *Device) ok() error {
	if d.closed {
		return errors.New("sim: device closed")
	}
	return nil
}
