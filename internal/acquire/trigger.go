// internal/acquire/trigger.go
package acquire

import (
	"github.com/pkg/errors"

	"github.com/mseiler/irqbench/internal/instrument"
)

// TriggerConfig describes the single pulse the pattern generator emits to
// kick the target. Counts are in ticks of the generator base clock divided
// by ClockDivider.
type TriggerConfig struct {
	Channel      int
	ClockDivider uint32
	LowCount     uint32
	HighCount    uint32
	Idle         instrument.IdleLevel
	RunDuration  float64 // seconds the generator runs
	Repeat       uint32
}

// Validate checks the pulse shape. Declarative only, no IO.
func (c TriggerConfig) Validate() error {
	if c.ClockDivider == 0 {
		return errors.New("trigger: clock divider must be > 0")
	}
	if c.LowCount+c.HighCount == 0 {
		return errors.New("trigger: low+high pulse counts must be > 0")
	}
	if c.RunDuration <= 0 {
		return errors.New("trigger: run duration must be > 0")
	}
	return nil
}

// PulsePeriod reports the duration of one full low/high cycle at the given
// generator base clock. A RunDuration shorter than this truncates the
// pulse; the hardware does not correct it.
func (c TriggerConfig) PulsePeriod(baseClockHz float64) float64 {
	return float64(c.LowCount+c.HighCount) * float64(c.ClockDivider) / baseClockHz
}

// Apply programs the generator channel. The call order is a hardware
// protocol requirement: enable, divider, counters, run duration, repeat,
// idle level, counter init phase. Reordering produces an incorrectly
// shaped pulse.
func (c TriggerConfig) Apply(dev instrument.Device) error {
	steps := []struct {
		op string
		fn func() error
	}{
		{"enable", func() error { return dev.OutEnable(c.Channel, true) }},
		{"divider", func() error { return dev.OutDivider(c.Channel, c.ClockDivider) }},
		{"counter", func() error { return dev.OutCounter(c.Channel, c.LowCount, c.HighCount) }},
		{"run", func() error { return dev.OutRun(c.RunDuration) }},
		{"repeat", func() error { return dev.OutRepeat(c.Repeat) }},
		{"idle", func() error { return dev.OutIdle(c.Channel, c.Idle) }},
		{"counter init", func() error { return dev.OutCounterInit(c.Channel, true, 0) }},
	}
	for _, s := range steps {
		if err := s.fn(); err != nil {
			return errors.Wrapf(err, "trigger: %s", s.op)
		}
	}
	return nil
}
