// internal/config/config.go
package config

type Config struct {
	Instrument InstrumentConfig `yaml:"instrument"`
	Measure    MeasureConfig    `yaml:"measure"`
	Flash      FlashConfig      `yaml:"flash"`
	Fixture    *FixtureConfig   `yaml:"fixture"` // optional power-control relay
	Output     OutputConfig     `yaml:"output"`
	Cases      []CaseConfig     `yaml:"cases"`
}

// ---- INSTRUMENT ----

type InstrumentConfig struct {
	Driver           string `yaml:"driver"`
	PollIntervalMs   int    `yaml:"poll_interval_ms"`
	CaptureTimeoutMs int    `yaml:"capture_timeout_ms"`
}

// ---- MEASUREMENT ----

type MeasureConfig struct {
	SampleRateHz float64     `yaml:"sample_rate_hz"`
	Repetitions  int         `yaml:"repetitions"`
	ResponseBit  uint8       `yaml:"response_bit"` // input line index the target asserts
	Pulse        PulseConfig `yaml:"pulse"`
}

// PulseConfig shapes the trigger pulse the pattern generator emits.
type PulseConfig struct {
	Channel      int     `yaml:"channel"`
	ClockDivider uint32  `yaml:"clock_divider"`
	LowCount     uint32  `yaml:"low_count"`
	HighCount    uint32  `yaml:"high_count"`
	IdleLevel    string  `yaml:"idle_level"` // low | high | zero | init
	RunDurationS float64 `yaml:"run_duration_s"`
	Repeat       uint32  `yaml:"repeat"`
}

// ---- FLASH ----

type FlashConfig struct {
	Chip    string `yaml:"chip"`
	Command string `yaml:"command"` // cargo subcommand
	Dir     string `yaml:"dir"`     // firmware crate directory

	// ContinueOnFailure keeps the run going after a failed flash; the
	// failed case records no results. Default: abort the run.
	ContinueOnFailure bool `yaml:"continue_on_failure"`
}

// ---- FIXTURE (OPT-IN) ----

type FixtureConfig struct {
	Endpoint  string `yaml:"endpoint"`
	UnitID    uint8  `yaml:"unit_id"`
	Coil      uint16 `yaml:"coil"`
	TimeoutMs int    `yaml:"timeout_ms"`
	HoldMs    int    `yaml:"hold_ms"`
	SettleMs  int    `yaml:"settle_ms"`
}

// ---- OUTPUT ----

type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// ---- TEST CASE ----

type CaseConfig struct {
	Name      string  `yaml:"name"`
	Build     string  `yaml:"build"` // debug | release
	DurationS float64 `yaml:"duration_s"`

	// TriggerOnOutput triggers capture on the looped-back pulse line
	// instead of the response line.
	TriggerOnOutput bool `yaml:"trigger_on_output"`

	// MaxLatencyS, when set, flags cases whose worst measurement exceeds
	// the bound in the run summary. Advisory, never fatal.
	MaxLatencyS float64 `yaml:"max_latency_s"`
}
