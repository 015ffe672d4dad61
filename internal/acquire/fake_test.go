// internal/acquire/fake_test.go
package acquire

import (
	"fmt"
	"strings"

	"github.com/mseiler/irqbench/internal/instrument"
)

// fakeDevice records every call in order and lets tests script the status
// progression and read-back contents.
type fakeDevice struct {
	calls []string

	internalClock float64
	statuses      []instrument.AcqState // consumed per InStatus call; last repeats
	readBack      []byte

	failOp string // op name whose call returns an error
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		internalClock: 800e6,
		statuses:      []instrument.AcqState{instrument.StateDone},
	}
}

func (f *fakeDevice) record(op string, args ...interface{}) error {
	call := fmt.Sprintf(op, args...)
	f.calls = append(f.calls, call)
	if f.failOp != "" && strings.HasPrefix(call, f.failOp) {
		return fmt.Errorf("fake: %s failed", f.failOp)
	}
	return nil
}

func (f *fakeDevice) OutEnable(ch int, en bool) error   { return f.record("out-enable %d %v", ch, en) }
func (f *fakeDevice) OutDivider(ch int, d uint32) error { return f.record("out-divider %d %d", ch, d) }
func (f *fakeDevice) OutCounter(ch int, lo, hi uint32) error {
	return f.record("out-counter %d %d %d", ch, lo, hi)
}
func (f *fakeDevice) OutRun(s float64) error   { return f.record("out-run %g", s) }
func (f *fakeDevice) OutRepeat(n uint32) error { return f.record("out-repeat %d", n) }
func (f *fakeDevice) OutIdle(ch int, l instrument.IdleLevel) error {
	return f.record("out-idle %d %d", ch, l)
}
func (f *fakeDevice) OutCounterInit(ch int, high bool, phase uint32) error {
	return f.record("out-counter-init %d %v %d", ch, high, phase)
}
func (f *fakeDevice) OutStart() error { return f.record("out-start") }

func (f *fakeDevice) InInternalClock() (float64, error) {
	if err := f.record("in-internal-clock"); err != nil {
		return 0, err
	}
	return f.internalClock, nil
}
func (f *fakeDevice) InDivider(d uint32) error    { return f.record("in-divider %d", d) }
func (f *fakeDevice) InSampleFormat(b int) error  { return f.record("in-sample-format %d", b) }
func (f *fakeDevice) InBufferSize(n int) error    { return f.record("in-buffer-size %d", n) }
func (f *fakeDevice) InTriggerSource(s instrument.TriggerSource) error {
	return f.record("in-trigger-source %d", s)
}
func (f *fakeDevice) InTriggerPosition(n int) error { return f.record("in-trigger-position %d", n) }
func (f *fakeDevice) InTrigger(ll, lh, rise, fall uint32) error {
	return f.record("in-trigger %d %d %d %d", ll, lh, rise, fall)
}
func (f *fakeDevice) InArm() error { return f.record("in-arm") }

func (f *fakeDevice) InStatus() (instrument.AcqState, error) {
	if err := f.record("in-status"); err != nil {
		return 0, err
	}
	s := f.statuses[0]
	if len(f.statuses) > 1 {
		f.statuses = f.statuses[1:]
	}
	return s, nil
}

func (f *fakeDevice) InReadData(buf []byte) error {
	if err := f.record("in-read-data %d", len(buf)); err != nil {
		return err
	}
	copy(buf, f.readBack)
	return nil
}

func (f *fakeDevice) Close() error { return f.record("close") }
