// internal/runner/builder.go
package runner

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/mseiler/irqbench/internal/acquire"
	cfg "github.com/mseiler/irqbench/internal/config"
	"github.com/mseiler/irqbench/internal/instrument"
)

// Build converts a validated, normalized config into a Runner wired to an
// open device and its collaborators. power may be nil when no fixture is
// configured.
func Build(c *cfg.Config, dev instrument.Device, flasher FirmwareLoader, power PowerCycler, logger *log.Logger) (*Runner, error) {
	idle, err := idleLevel(c.Measure.Pulse.IdleLevel)
	if err != nil {
		return nil, err
	}

	opts := Options{
		SampleRateHz: c.Measure.SampleRateHz,
		Repetitions:  c.Measure.Repetitions,
		ResponseMask: 1 << c.Measure.ResponseBit,

		PollInterval:   time.Duration(c.Instrument.PollIntervalMs) * time.Millisecond,
		CaptureTimeout: time.Duration(c.Instrument.CaptureTimeoutMs) * time.Millisecond,

		Pulse: acquire.TriggerConfig{
			Channel:      c.Measure.Pulse.Channel,
			ClockDivider: c.Measure.Pulse.ClockDivider,
			LowCount:     c.Measure.Pulse.LowCount,
			HighCount:    c.Measure.Pulse.HighCount,
			Idle:         idle,
			RunDuration:  c.Measure.Pulse.RunDurationS,
			Repeat:       c.Measure.Pulse.Repeat,
		},

		ContinueOnFlashFailure: c.Flash.ContinueOnFailure,
		OutputDir:              c.Output.Dir,
	}

	cases := make([]Case, 0, len(c.Cases))
	for _, cc := range c.Cases {
		cases = append(cases, Case{
			Name:            cc.Name,
			Release:         cc.Build == "release",
			Duration:        cc.DurationS,
			TriggerOnOutput: cc.TriggerOnOutput,
			MaxLatency:      cc.MaxLatencyS,
		})
	}

	return New(dev, flasher, power, cases, opts, logger)
}

func idleLevel(s string) (instrument.IdleLevel, error) {
	switch s {
	case "low":
		return instrument.IdleLow, nil
	case "high":
		return instrument.IdleHigh, nil
	case "zero":
		return instrument.IdleZero, nil
	case "init":
		return instrument.IdleInit, nil
	}
	return 0, errors.Errorf("runner: unknown idle level %q", s)
}
