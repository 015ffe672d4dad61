// internal/config/validate.go
package config

import (
	"fmt"
)

// Validate checks configuration correctness.
// It performs declarative validation only and accepts zero values that
// Normalize will default afterwards.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	// ------------------------------------------------------------
	// MEASUREMENT
	// ------------------------------------------------------------

	if cfg.Measure.SampleRateHz < 0 {
		return fmt.Errorf("measure: sample_rate_hz must be >= 0")
	}
	if cfg.Measure.Repetitions < 0 {
		return fmt.Errorf("measure: repetitions must be >= 0")
	}
	if cfg.Measure.ResponseBit > 7 {
		return fmt.Errorf("measure: response_bit %d out of range 0-7", cfg.Measure.ResponseBit)
	}

	switch cfg.Measure.Pulse.IdleLevel {
	case "", "low", "high", "zero", "init":
	default:
		return fmt.Errorf("measure: unknown pulse idle_level %q", cfg.Measure.Pulse.IdleLevel)
	}
	if cfg.Measure.Pulse.RunDurationS < 0 {
		return fmt.Errorf("measure: pulse run_duration_s must be >= 0")
	}

	// ------------------------------------------------------------
	// INSTRUMENT
	// ------------------------------------------------------------

	if cfg.Instrument.PollIntervalMs < 0 {
		return fmt.Errorf("instrument: poll_interval_ms must be >= 0")
	}
	if cfg.Instrument.CaptureTimeoutMs < 0 {
		return fmt.Errorf("instrument: capture_timeout_ms must be >= 0")
	}

	// ------------------------------------------------------------
	// FIXTURE (OPT-IN)
	// ------------------------------------------------------------

	if cfg.Fixture != nil {
		if cfg.Fixture.Endpoint == "" {
			return fmt.Errorf("fixture: endpoint is required when fixture is set")
		}
		if cfg.Fixture.HoldMs < 0 || cfg.Fixture.SettleMs < 0 {
			return fmt.Errorf("fixture: hold_ms and settle_ms must be >= 0")
		}
	}

	// ------------------------------------------------------------
	// TEST CASES
	// ------------------------------------------------------------

	if len(cfg.Cases) == 0 {
		return fmt.Errorf("at least one test case is required")
	}

	seen := make(map[string]bool)

	for _, c := range cfg.Cases {
		if c.Name == "" {
			return fmt.Errorf("case: name is required")
		}

		switch c.Build {
		case "", "debug", "release":
		default:
			return fmt.Errorf("case %q: unknown build %q (want debug or release)", c.Name, c.Build)
		}

		// Two cases of the same name and variant would collide in the
		// result table. An empty build defaults to release.
		build := c.Build
		if build == "" {
			build = "release"
		}
		key := c.Name + "|" + build
		if seen[key] {
			return fmt.Errorf("case %q (%s) defined twice", c.Name, c.Build)
		}
		seen[key] = true

		if c.DurationS <= 0 {
			return fmt.Errorf("case %q: duration_s must be > 0", c.Name)
		}
		if c.MaxLatencyS < 0 {
			return fmt.Errorf("case %q: max_latency_s must be >= 0", c.Name)
		}
	}

	return nil
}
