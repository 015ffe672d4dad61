// internal/runner/runner.go
package runner

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/mseiler/irqbench/internal/acquire"
	"github.com/mseiler/irqbench/internal/flash"
	"github.com/mseiler/irqbench/internal/instrument"
	"github.com/mseiler/irqbench/internal/latency"
	"github.com/mseiler/irqbench/internal/result"
)

// Input line assignment on the bench: the target asserts its response on
// line 0; the generator pulse is looped back into line 1.
const (
	responseLine      = 0
	pulseLoopbackLine = 1
)

// Case is one firmware variant to measure.
type Case struct {
	Name     string
	Release  bool
	Duration float64 // capture window in seconds

	// TriggerOnOutput gates capture on the looped-back pulse instead of
	// the response line.
	TriggerOnOutput bool

	// MaxLatency flags measurements above this bound in the run summary.
	// Zero disables the check.
	MaxLatency float64
}

// Column is the result-table key for the case.
func (c Case) Column() string {
	if c.Release {
		return c.Name + "_release"
	}
	return c.Name + "_debug"
}

// FirmwareLoader rebuilds and flashes one firmware test target.
type FirmwareLoader interface {
	Flash(ctx context.Context, test string, release bool) error
}

// PowerCycler power-cycles the target fixture. Optional.
type PowerCycler interface {
	Cycle(ctx context.Context) error
}

// Options is the runner's immutable runtime configuration.
type Options struct {
	SampleRateHz float64
	Repetitions  int
	ResponseMask byte

	PollInterval   time.Duration
	CaptureTimeout time.Duration

	Pulse acquire.TriggerConfig

	ContinueOnFlashFailure bool
	OutputDir              string
}

// Runner walks the configured cases in order: power-cycle, flash, then
// the measurement loop, persisting each case column as it completes.
type Runner struct {
	dev     instrument.Device
	flasher FirmwareLoader
	power   PowerCycler // nil when no fixture is configured
	cases   []Case
	opts    Options
	logger  *log.Logger
}

// New creates a runner with immutable config.
func New(dev instrument.Device, flasher FirmwareLoader, power PowerCycler, cases []Case, opts Options, logger *log.Logger) (*Runner, error) {
	if dev == nil {
		return nil, errors.New("runner: device required")
	}
	if flasher == nil {
		return nil, errors.New("runner: flasher required")
	}
	if len(cases) == 0 {
		return nil, errors.New("runner: at least one case required")
	}
	if opts.Repetitions < 1 {
		return nil, errors.New("runner: repetitions must be >= 1")
	}
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	return &Runner{
		dev:     dev,
		flasher: flasher,
		power:   power,
		cases:   cases,
		opts:    opts,
		logger:  logger,
	}, nil
}

// Run measures every case and persists per-case columns, the aggregate
// raw table and the descriptive statistics. A flash failure aborts the
// run unless ContinueOnFlashFailure is set, in which case the failed case
// is skipped and the rest still run.
func (r *Runner) Run(ctx context.Context) (*result.Set, error) {
	if err := os.MkdirAll(r.opts.OutputDir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "runner: create output dir %s", r.opts.OutputDir)
	}

	set := result.NewSet()

	for _, c := range r.cases {
		if err := r.runCase(ctx, c, set); err != nil {
			if r.opts.ContinueOnFlashFailure && isFlashFailure(err) {
				r.logger.Error("flash failed, skipping case", "case", c.Column(), "err", err)
				continue
			}
			return nil, err
		}

		// Persist immediately so a later failure cannot lose a
		// completed case.
		if err := set.WriteColumn(r.opts.OutputDir, c.Column(), c.Name); err != nil {
			return nil, err
		}

		r.summarize(c, set)
	}

	if err := set.WriteRaw(filepath.Join(r.opts.OutputDir, "raw.csv")); err != nil {
		return nil, err
	}
	if err := set.WriteStats(filepath.Join(r.opts.OutputDir, "stats.csv")); err != nil {
		return nil, err
	}

	return set, nil
}

func (r *Runner) runCase(ctx context.Context, c Case, set *result.Set) error {
	capture := r.captureConfig(c)
	if err := capture.Validate(); err != nil {
		return errors.Wrapf(err, "case %s", c.Column())
	}
	if err := r.opts.Pulse.Validate(); err != nil {
		return errors.Wrapf(err, "case %s", c.Column())
	}

	if r.power != nil {
		r.logger.Info("power cycling target", "case", c.Column())
		if err := r.power.Cycle(ctx); err != nil {
			return errors.Wrapf(err, "case %s", c.Column())
		}
	}

	r.logger.Info("flashing firmware", "case", c.Name, "release", c.Release)
	if err := r.flasher.Flash(ctx, c.Name, c.Release); err != nil {
		return errors.Wrapf(err, "case %s", c.Column())
	}

	engine, err := acquire.NewEngine(r.dev, capture.SampleCount(), r.opts.PollInterval, r.opts.CaptureTimeout)
	if err != nil {
		return errors.Wrapf(err, "case %s", c.Column())
	}

	r.logger.Info("measuring latency", "case", c.Column(), "repetitions", r.opts.Repetitions)

	for i := 0; i < r.opts.Repetitions; i++ {
		v, err := r.measureOnce(ctx, capture, engine)
		if err != nil {
			return errors.Wrapf(err, "case %s repetition %d", c.Column(), i)
		}
		set.Append(c.Column(), v)
		r.logger.Debug("repetition done", "case", c.Column(), "i", i, "latency_s", v)
	}

	return nil
}

// measureOnce runs one configure/arm/fire/wait/extract cycle. A capture
// timeout is a recordable outcome (the sentinel), not an error: the
// trigger simply went unanswered.
func (r *Runner) measureOnce(ctx context.Context, capture acquire.CaptureConfig, engine *acquire.Engine) (float64, error) {
	if err := r.opts.Pulse.Apply(r.dev); err != nil {
		return 0, err
	}
	if err := capture.Apply(r.dev); err != nil {
		return 0, err
	}

	if err := engine.Arm(); err != nil {
		return 0, err
	}
	if err := engine.Fire(); err != nil {
		return 0, err
	}

	samples, err := engine.Wait(ctx)
	if errors.Is(err, acquire.ErrCaptureTimeout) {
		r.logger.Warn("capture timed out, recording no-response")
		return latency.NotFound, nil
	}
	if err != nil {
		return 0, err
	}

	return latency.Extract(samples, r.opts.SampleRateHz, r.opts.ResponseMask), nil
}

// captureConfig derives the acquisition geometry for one case. Trigger
// position equals the sample count: the buffer holds post-trigger samples
// only, so index 0 is the trigger instant.
func (r *Runner) captureConfig(c Case) acquire.CaptureConfig {
	cfg := acquire.CaptureConfig{
		SampleRateHz:   r.opts.SampleRateHz,
		Duration:       c.Duration,
		TriggerChannel: responseLine,
		TriggerEdge:    instrument.EdgeFalling,
	}
	if c.TriggerOnOutput {
		cfg.TriggerChannel = pulseLoopbackLine
	}
	cfg.TriggerPosition = cfg.SampleCount()
	return cfg
}

// summarize logs the per-case outcome and checks the advisory bound.
func (r *Runner) summarize(c Case, set *result.Set) {
	sum := result.Describe(set.Column(c.Column()))

	r.logger.Info("case done",
		"case", c.Column(),
		"valid", sum.Valid,
		"total", sum.Count,
		"mean_s", sum.Mean,
		"max_s", sum.Max,
	)

	if c.MaxLatency > 0 && sum.Valid > 0 && sum.Max > c.MaxLatency {
		r.logger.Warn("latency bound exceeded",
			"case", c.Column(),
			"max_s", sum.Max,
			"bound_s", c.MaxLatency,
		)
	}
}

func isFlashFailure(err error) bool {
	var fe *flash.Error
	return errors.As(err, &fe)
}
