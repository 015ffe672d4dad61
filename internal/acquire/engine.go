// internal/acquire/engine.go
package acquire

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/mseiler/irqbench/internal/instrument"
)

// ErrCaptureTimeout reports that the trigger event was not observed within
// the engine's wait bound. Recorded per repetition, never fatal to a run.
var ErrCaptureTimeout = errors.New("acquire: timed out waiting for capture to complete")

// ErrBadState reports an Arm/Fire/Wait call made out of sequence. A
// re-entrant configure or arm while an acquisition is outstanding is
// undefined on the hardware, so the engine rejects it up front.
var ErrBadState = errors.New("acquire: call out of state order")

type phase int

const (
	phaseIdle phase = iota
	phaseArmed
	phaseFired
)

// Engine runs one triggered acquisition at a time: Arm starts the gated
// recording, Fire activates the pattern generator, Wait polls until the
// instrument reports completion and retrieves the sample buffer. Exactly
// one retrieval per Arm/Fire cycle; the engine never retains the buffer.
type Engine struct {
	dev          instrument.Device
	sampleCount  int
	pollInterval time.Duration
	timeout      time.Duration

	state phase
}

// NewEngine wires an engine to an open device. pollInterval is the
// cooperative sleep between status queries; timeout bounds Wait.
func NewEngine(dev instrument.Device, sampleCount int, pollInterval, timeout time.Duration) (*Engine, error) {
	if sampleCount < 1 {
		return nil, errors.New("acquire: sample count must be >= 1")
	}
	if pollInterval <= 0 {
		return nil, errors.New("acquire: poll interval must be > 0")
	}
	if timeout <= 0 {
		return nil, errors.New("acquire: timeout must be > 0")
	}
	return &Engine{
		dev:          dev,
		sampleCount:  sampleCount,
		pollInterval: pollInterval,
		timeout:      timeout,
	}, nil
}

// Arm begins the capture: the instrument records sample-clocked data gated
// by the configured trigger condition.
func (e *Engine) Arm() error {
	if e.state != phaseIdle {
		return errors.Wrap(ErrBadState, "arm while acquisition outstanding")
	}
	if err := e.dev.InArm(); err != nil {
		return errors.Wrap(err, "acquire: arm")
	}
	e.state = phaseArmed
	return nil
}

// Fire activates the pattern generator. Non-blocking; the capture unit
// moves toward completion once it observes the configured edge.
func (e *Engine) Fire() error {
	if e.state != phaseArmed {
		return errors.Wrap(ErrBadState, "fire before arm")
	}
	if err := e.dev.OutStart(); err != nil {
		return errors.Wrap(err, "acquire: fire")
	}
	e.state = phaseFired
	return nil
}

// Wait polls instrument status at the configured interval until the
// acquisition completes, then reads back exactly the configured number of
// samples. Returns ErrCaptureTimeout when the bound elapses and the
// context error when ctx is canceled. The engine returns to idle on every
// exit path.
func (e *Engine) Wait(ctx context.Context) ([]byte, error) {
	if e.state != phaseFired {
		return nil, errors.Wrap(ErrBadState, "wait before fire")
	}
	defer func() { e.state = phaseIdle }()

	deadline := time.Now().Add(e.timeout)
	ticker := time.NewTicker(e.pollInterval)
	defer ticker.Stop()

	for {
		state, err := e.dev.InStatus()
		if err != nil {
			return nil, errors.Wrap(err, "acquire: status")
		}
		if state == instrument.StateDone {
			break
		}

		if time.Now().After(deadline) {
			return nil, ErrCaptureTimeout
		}

		select {
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), "acquire: wait")
		case <-ticker.C:
		}
	}

	buf := make([]byte, e.sampleCount)
	if err := e.dev.InReadData(buf); err != nil {
		return nil, errors.Wrap(err, "acquire: read samples")
	}
	return buf, nil
}
