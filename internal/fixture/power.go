// internal/fixture/power.go
package fixture

import (
	"context"
	"time"

	"github.com/goburrow/modbus"
	"github.com/pkg/errors"
)

// coilWriter is the exact contract the power switch uses; the goburrow
// Modbus client satisfies it.
type coilWriter interface {
	WriteSingleCoil(address, value uint16) ([]byte, error)
}

const (
	coilOn  uint16 = 0xFF00
	coilOff uint16 = 0x0000
)

// Config locates the bench power relay on the Modbus TCP network.
type Config struct {
	Endpoint string
	UnitID   uint8
	Coil     uint16
	Timeout  time.Duration
	Hold     time.Duration // off time during a power cycle
	Settle   time.Duration // boot time granted after power returns
}

// PowerSwitch drives the relay that feeds the target board. Used to
// power-cycle the DUT into a known state before flashing.
type PowerSwitch struct {
	client coilWriter
	cfg    Config
}

// New connects to the relay and returns the switch plus a closer for the
// underlying TCP handler. Connection is made once, up front: a relay that
// cannot be reached fails the run before any firmware is touched.
func New(cfg Config) (*PowerSwitch, func() error, error) {
	if cfg.Endpoint == "" {
		return nil, nil, errors.New("fixture: endpoint required")
	}

	handler := modbus.NewTCPClientHandler(cfg.Endpoint)
	handler.Timeout = cfg.Timeout
	handler.SlaveId = byte(cfg.UnitID)

	if err := handler.Connect(); err != nil {
		return nil, nil, errors.Wrapf(err, "fixture: connect %s", cfg.Endpoint)
	}

	p := &PowerSwitch{
		client: modbus.NewClient(handler),
		cfg:    cfg,
	}
	return p, handler.Close, nil
}

// On energizes the relay.
func (p *PowerSwitch) On() error {
	if _, err := p.client.WriteSingleCoil(p.cfg.Coil, coilOn); err != nil {
		return errors.Wrap(err, "fixture: power on")
	}
	return nil
}

// Off de-energizes the relay.
func (p *PowerSwitch) Off() error {
	if _, err := p.client.WriteSingleCoil(p.cfg.Coil, coilOff); err != nil {
		return errors.Wrap(err, "fixture: power off")
	}
	return nil
}

// Cycle drops target power for the configured hold time, restores it, and
// waits for the settle time so the board is booted before flashing.
func (p *PowerSwitch) Cycle(ctx context.Context) error {
	if err := p.Off(); err != nil {
		return err
	}
	if err := sleep(ctx, p.cfg.Hold); err != nil {
		return err
	}
	if err := p.On(); err != nil {
		return err
	}
	return sleep(ctx, p.cfg.Settle)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "fixture: power cycle")
	case <-t.C:
		return nil
	}
}
