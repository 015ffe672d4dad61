// internal/config/normalize.go
package config

// Defaults reproduce the bench's standing setup: a 100 MHz capture clock,
// 100 repetitions per case, and a 10 ms low / 90 ms high pulse (divider
// 1000 against an 800 MHz generator base clock, idle high, one shot over
// a 0.1 s run).
const (
	DefaultDriver           = "dwf"
	DefaultPollIntervalMs   = 10
	DefaultCaptureTimeoutMs = 5000

	DefaultSampleRateHz = 100e6
	DefaultRepetitions  = 100

	DefaultPulseDivider = 1000
	DefaultPulseLow     = 1000
	DefaultPulseHigh    = 9000
	DefaultPulseIdle    = "high"
	DefaultPulseRunS    = 0.1
	DefaultPulseRepeat  = 1

	DefaultChip         = "STM32F411RE"
	DefaultFlashCommand = "flash"

	DefaultOutputDir = "result"
)

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	// ------------------------------------------------------------
	// INSTRUMENT
	// ------------------------------------------------------------

	if cfg.Instrument.Driver == "" {
		cfg.Instrument.Driver = DefaultDriver
	}
	if cfg.Instrument.PollIntervalMs == 0 {
		cfg.Instrument.PollIntervalMs = DefaultPollIntervalMs
	}
	if cfg.Instrument.CaptureTimeoutMs == 0 {
		cfg.Instrument.CaptureTimeoutMs = DefaultCaptureTimeoutMs
	}

	// ------------------------------------------------------------
	// MEASUREMENT
	// ------------------------------------------------------------

	if cfg.Measure.SampleRateHz == 0 {
		cfg.Measure.SampleRateHz = DefaultSampleRateHz
	}
	if cfg.Measure.Repetitions == 0 {
		cfg.Measure.Repetitions = DefaultRepetitions
	}

	p := &cfg.Measure.Pulse
	if p.ClockDivider == 0 {
		p.ClockDivider = DefaultPulseDivider
	}
	if p.LowCount == 0 && p.HighCount == 0 {
		p.LowCount = DefaultPulseLow
		p.HighCount = DefaultPulseHigh
	}
	if p.IdleLevel == "" {
		p.IdleLevel = DefaultPulseIdle
	}
	if p.RunDurationS == 0 {
		p.RunDurationS = DefaultPulseRunS
	}
	if p.Repeat == 0 {
		p.Repeat = DefaultPulseRepeat
	}

	// ------------------------------------------------------------
	// FLASH
	// ------------------------------------------------------------

	if cfg.Flash.Chip == "" {
		cfg.Flash.Chip = DefaultChip
	}
	if cfg.Flash.Command == "" {
		cfg.Flash.Command = DefaultFlashCommand
	}
	if cfg.Flash.Dir == "" {
		cfg.Flash.Dir = "."
	}

	// ------------------------------------------------------------
	// OUTPUT + CASES
	// ------------------------------------------------------------

	if cfg.Output.Dir == "" {
		cfg.Output.Dir = DefaultOutputDir
	}

	for i := range cfg.Cases {
		if cfg.Cases[i].Build == "" {
			cfg.Cases[i].Build = "release"
		}
	}
}
