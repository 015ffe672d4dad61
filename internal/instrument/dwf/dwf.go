//go:build dwf

// internal/instrument/dwf/dwf.go
package dwf

/*
#cgo linux LDFLAGS: -ldwf
#cgo darwin LDFLAGS: -F/Library/Frameworks -framework dwf

#include <stdlib.h>
#include <dwf.h>
*/
import "C"

import (
	"unsafe"

	"github.com/pkg/errors"

	"github.com/mseiler/irqbench/internal/instrument"
)

func init() {
	instrument.Register("dwf", open)
}

type device struct {
	h C.HDWF
}

// open connects to the first enumerated device. No retries: a bench has
// exactly one instrument, and a failed open is fatal to the run.
func open() (instrument.Device, error) {
	var h C.HDWF
	if C.FDwfDeviceOpen(C.int(-1), &h) == 0 || h == C.hdwfNone {
		return nil, errors.Wrap(instrument.ErrDeviceNotFound, lastError())
	}
	return &device{h: h}, nil
}

// lastError fetches the runtime's last error text.
func lastError() string {
	var buf [512]C.char
	C.FDwfGetLastErrorMsg(&buf[0])
	return C.GoString(&buf[0])
}

func (d *device) call(ok C.int, op string) error {
	if ok == 0 {
		return errors.Errorf("dwf: %s: %s", op, lastError())
	}
	return nil
}

func cbool(b bool) C.int {
	if b {
		return 1
	}
	return 0
}

// ---- pattern generator ----

func (d *device) OutEnable(channel int, enable bool) error {
	return d.call(C.FDwfDigitalOutEnableSet(d.h, C.int(channel), cbool(enable)), "out enable")
}

func (d *device) OutDivider(channel int, divider uint32) error {
	return d.call(C.FDwfDigitalOutDividerSet(d.h, C.int(channel), C.uint(divider)), "out divider")
}

func (d *device) OutCounter(channel int, lowCount, highCount uint32) error {
	return d.call(C.FDwfDigitalOutCounterSet(d.h, C.int(channel), C.uint(lowCount), C.uint(highCount)), "out counter")
}

func (d *device) OutRun(seconds float64) error {
	return d.call(C.FDwfDigitalOutRunSet(d.h, C.double(seconds)), "out run")
}

func (d *device) OutRepeat(count uint32) error {
	return d.call(C.FDwfDigitalOutRepeatSet(d.h, C.uint(count)), "out repeat")
}

func (d *device) OutIdle(channel int, level instrument.IdleLevel) error {
	return d.call(C.FDwfDigitalOutIdleSet(d.h, C.int(channel), C.DwfDigitalOutIdle(level)), "out idle")
}

func (d *device) OutCounterInit(channel int, startHigh bool, phase uint32) error {
	return d.call(C.FDwfDigitalOutCounterInitSet(d.h, C.int(channel), cbool(startHigh), C.uint(phase)), "out counter init")
}

func (d *device) OutStart() error {
	return d.call(C.FDwfDigitalOutConfigure(d.h, 1), "out start")
}

// ---- logic capture ----

func (d *device) InInternalClock() (float64, error) {
	var hz C.double
	if err := d.call(C.FDwfDigitalInInternalClockInfo(d.h, &hz), "in internal clock"); err != nil {
		return 0, err
	}
	return float64(hz), nil
}

func (d *device) InDivider(divider uint32) error {
	return d.call(C.FDwfDigitalInDividerSet(d.h, C.uint(divider)), "in divider")
}

func (d *device) InSampleFormat(bits int) error {
	return d.call(C.FDwfDigitalInSampleFormatSet(d.h, C.int(bits)), "in sample format")
}

func (d *device) InBufferSize(samples int) error {
	return d.call(C.FDwfDigitalInBufferSizeSet(d.h, C.int(samples)), "in buffer size")
}

func (d *device) InTriggerSource(src instrument.TriggerSource) error {
	return d.call(C.FDwfDigitalInTriggerSourceSet(d.h, C.TRIGSRC(src)), "in trigger source")
}

func (d *device) InTriggerPosition(samplesAfterTrigger int) error {
	return d.call(C.FDwfDigitalInTriggerPositionSet(d.h, C.uint(samplesAfterTrigger)), "in trigger position")
}

func (d *device) InTrigger(levelLow, levelHigh, edgeRise, edgeFall uint32) error {
	return d.call(C.FDwfDigitalInTriggerSet(d.h, C.uint(levelLow), C.uint(levelHigh), C.uint(edgeRise), C.uint(edgeFall)), "in trigger")
}

func (d *device) InArm() error {
	// fReconfigure=false, fStart=true: begin recording gated by trigger.
	return d.call(C.FDwfDigitalInConfigure(d.h, 0, 1), "in arm")
}

func (d *device) InStatus() (instrument.AcqState, error) {
	var sts C.DwfState
	if err := d.call(C.FDwfDigitalInStatus(d.h, 1, &sts), "in status"); err != nil {
		return 0, err
	}
	return instrument.AcqState(sts), nil
}

func (d *device) InReadData(buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	return d.call(C.FDwfDigitalInStatusData(d.h, unsafe.Pointer(&buf[0]), C.int(len(buf))), "in read data")
}

func (d *device) Close() error {
	if d.h == C.hdwfNone {
		return nil
	}
	ok := C.FDwfDeviceClose(d.h)
	d.h = C.hdwfNone
	return d.call(ok, "close")
}
