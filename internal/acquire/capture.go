// internal/acquire/capture.go
package acquire

import (
	"math"

	"github.com/pkg/errors"

	"github.com/mseiler/irqbench/internal/instrument"
)

// sampleFormatBits: one byte per sample, each bit one input line.
const sampleFormatBits = 8

// CaptureConfig describes one triggered acquisition on the logic capture
// unit.
type CaptureConfig struct {
	SampleRateHz float64
	Duration     float64 // seconds of capture

	TriggerChannel  int
	TriggerEdge     instrument.Edge
	TriggerPosition int // samples recorded after the trigger event
}

// SampleCount derives the buffer length: floor(Duration * SampleRateHz).
func (c CaptureConfig) SampleCount() int {
	return int(math.Floor(c.Duration * c.SampleRateHz))
}

// Validate checks the acquisition geometry. Declarative only, no IO.
func (c CaptureConfig) Validate() error {
	if c.SampleRateHz <= 0 {
		return errors.New("capture: sample rate must be > 0")
	}
	if c.Duration <= 0 {
		return errors.New("capture: duration must be > 0")
	}
	if n := c.SampleCount(); n < 1 {
		return errors.Errorf("capture: duration %g s at %g Hz yields %d samples, need at least 1", c.Duration, c.SampleRateHz, n)
	}
	if c.TriggerPosition > c.SampleCount() {
		return errors.Errorf("capture: trigger position %d exceeds sample count %d", c.TriggerPosition, c.SampleCount())
	}
	return nil
}

// Apply programs the capture unit. The clock divider is derived by integer
// division of the internal clock by the requested rate: a rate that does
// not divide the internal clock cleanly silently truncates, and the
// effective sample rate differs from the requested one. Callers pick rates
// that divide cleanly.
func (c CaptureConfig) Apply(dev instrument.Device) error {
	baseHz, err := dev.InInternalClock()
	if err != nil {
		return errors.Wrap(err, "capture: internal clock")
	}

	divider := uint32(baseHz / c.SampleRateHz)
	if divider == 0 {
		return errors.Errorf("capture: sample rate %g Hz exceeds internal clock %g Hz", c.SampleRateHz, baseHz)
	}
	if err := dev.InDivider(divider); err != nil {
		return errors.Wrap(err, "capture: divider")
	}

	if err := dev.InSampleFormat(sampleFormatBits); err != nil {
		return errors.Wrap(err, "capture: sample format")
	}
	if err := dev.InBufferSize(c.SampleCount()); err != nil {
		return errors.Wrap(err, "capture: buffer size")
	}

	if err := dev.InTriggerSource(instrument.TriggerDetectorDigitalIn); err != nil {
		return errors.Wrap(err, "capture: trigger source")
	}
	if err := dev.InTriggerPosition(c.TriggerPosition); err != nil {
		return errors.Wrap(err, "capture: trigger position")
	}

	// One bit per input line in the detector masks.
	line := uint32(1) << uint(c.TriggerChannel)
	var rise, fall uint32
	switch c.TriggerEdge {
	case instrument.EdgeRising:
		rise = line
	case instrument.EdgeFalling:
		fall = line
	}
	if err := dev.InTrigger(0, 0, rise, fall); err != nil {
		return errors.Wrap(err, "capture: trigger edge")
	}

	return nil
}
