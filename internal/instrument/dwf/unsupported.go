//go:build !dwf

// internal/instrument/dwf/unsupported.go
package dwf

import (
	"github.com/pkg/errors"

	"github.com/mseiler/irqbench/internal/instrument"
)

func init() {
	instrument.Register("dwf", func() (instrument.Device, error) {
		return nil, errors.New("dwf: built without the dwf tag; rebuild with -tags dwf and the WaveForms SDK installed")
	})
}
