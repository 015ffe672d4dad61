// internal/instrument/instrument.go
package instrument

import (
	"github.com/pkg/errors"
)

// Device is the driver-agnostic surface over the instrument's two digital
// channels: the pattern generator (Out*) and the logic capture unit (In*).
// One implementation per driver; the rest of the rig depends on this
// contract only.
//
// All configuration calls take effect on the next Arm/Start; none of them
// block.
type Device interface {
	// ---- PATTERN GENERATOR ----

	OutEnable(channel int, enable bool) error
	OutDivider(channel int, divider uint32) error
	OutCounter(channel int, lowCount, highCount uint32) error
	OutRun(seconds float64) error
	OutRepeat(count uint32) error
	OutIdle(channel int, level IdleLevel) error
	OutCounterInit(channel int, startHigh bool, phase uint32) error

	// OutStart begins pulse generation. Fire instruction, not blocking.
	OutStart() error

	// ---- LOGIC CAPTURE ----

	// InInternalClock reports the capture unit's base clock in Hz.
	InInternalClock() (float64, error)
	InDivider(divider uint32) error
	InSampleFormat(bits int) error
	InBufferSize(samples int) error
	InTriggerSource(src TriggerSource) error
	InTriggerPosition(samplesAfterTrigger int) error

	// InTrigger sets the trigger detector masks, one bit per input line:
	// level-low, level-high, rising-edge, falling-edge.
	InTrigger(levelLow, levelHigh, edgeRise, edgeFall uint32) error

	// InArm starts sample-clocked recording gated by the trigger condition.
	InArm() error

	// InStatus queries the capture state without side effects.
	InStatus() (AcqState, error)

	// InReadData reads back exactly len(buf) samples of a completed capture.
	InReadData(buf []byte) error

	// Close releases the device. Idempotent.
	Close() error
}

// IdleLevel is the logic level a generator channel holds when it is not
// driving its programmed waveform.
type IdleLevel int

const (
	IdleInit IdleLevel = 0 // resume from counter init value
	IdleLow  IdleLevel = 1
	IdleHigh IdleLevel = 2
	IdleZero IdleLevel = 3 // high impedance
)

// TriggerSource selects what gates the capture.
type TriggerSource int

// TriggerDetectorDigitalIn gates capture on the digital input edge
// detector. The only source the rig uses.
const TriggerDetectorDigitalIn TriggerSource = 3

// Edge selects the signal transition a trigger reacts to.
type Edge int

const (
	EdgeRising Edge = iota
	EdgeFalling
)

// AcqState is the capture unit's acquisition state.
type AcqState int

const (
	StateReady     AcqState = 0
	StateArmed     AcqState = 1
	StateDone      AcqState = 2
	StateTriggered AcqState = 3
	StateConfig    AcqState = 4
	StatePrefill   AcqState = 5
)

// ---- DRIVER REGISTRY ----

// ErrDeviceNotFound reports that a driver could not reach its hardware.
// Fatal to the run; the rig never retries an open.
var ErrDeviceNotFound = errors.New("instrument: device not found")

// OpenFunc opens a connection to one physical (or simulated) instrument.
type OpenFunc func() (Device, error)

var drivers = map[string]OpenFunc{}

// Register makes a driver selectable by name. Called from driver package
// init; a duplicate name is a programming error.
func Register(name string, open OpenFunc) {
	if _, dup := drivers[name]; dup {
		panic("instrument: duplicate driver " + name)
	}
	drivers[name] = open
}

// Open selects a driver by name and opens the device.
func Open(name string) (Device, error) {
	open, ok := drivers[name]
	if !ok {
		return nil, errors.Errorf("instrument: unknown driver %q", name)
	}
	dev, err := open()
	if err != nil {
		return nil, errors.Wrapf(err, "instrument: open %q", name)
	}
	return dev, nil
}
