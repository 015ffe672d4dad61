// Package dwf drives Digilent instruments (Digital Discovery, Analog
// Discovery) through the vendor WaveForms runtime. The wire protocol lives
// entirely inside libdwf; this package is a thin binding that maps the
// instrument.Device contract onto the FDwf entry points.
//
// Building the real binding requires the WaveForms SDK and the `dwf` build
// tag:
//
//	go build -tags dwf ./...
//
// Without the tag the driver registers a stub that fails at open, so the
// rest of the rig (and the sim driver) builds everywhere.
package dwf
