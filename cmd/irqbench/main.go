// cmd/irqbench/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mseiler/irqbench/internal/config"
	"github.com/mseiler/irqbench/internal/fixture"
	"github.com/mseiler/irqbench/internal/flash"
	"github.com/mseiler/irqbench/internal/instrument"
	_ "github.com/mseiler/irqbench/internal/instrument/dwf"
	_ "github.com/mseiler/irqbench/internal/instrument/sim"
	"github.com/mseiler/irqbench/internal/runner"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "irqbench",
	})

	cfgPath := "irqbench.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Fatal("config load failed", "err", err)
	}

	if err := config.Validate(cfg); err != nil {
		logger.Fatal("config validation failed", "err", err)
	}

	config.Normalize(cfg)

	// --------------------
	// Open instrument (closed on every exit path below)
	// --------------------

	dev, err := instrument.Open(cfg.Instrument.Driver)
	if err != nil {
		logger.Fatal("instrument open failed", "driver", cfg.Instrument.Driver, "err", err)
	}
	defer dev.Close()

	// --------------------
	// Collaborators
	// --------------------

	flasher := flash.New(cfg.Flash.Chip, cfg.Flash.Command, cfg.Flash.Dir)

	// Fatal exits without running defers, so failure paths release the
	// device and the fixture handler by hand.
	closePower := func() error { return nil }
	fail := func(msg string, keyvals ...interface{}) {
		dev.Close()
		closePower()
		logger.Fatal(msg, keyvals...)
	}

	var power runner.PowerCycler
	if cfg.Fixture != nil {
		p, closer, err := fixture.New(fixture.Config{
			Endpoint: cfg.Fixture.Endpoint,
			UnitID:   cfg.Fixture.UnitID,
			Coil:     cfg.Fixture.Coil,
			Timeout:  time.Duration(cfg.Fixture.TimeoutMs) * time.Millisecond,
			Hold:     time.Duration(cfg.Fixture.HoldMs) * time.Millisecond,
			Settle:   time.Duration(cfg.Fixture.SettleMs) * time.Millisecond,
		})
		if err != nil {
			fail("fixture connect failed", "err", err)
		}
		defer closer()
		closePower = closer
		power = p
	}

	// --------------------
	// Run
	// --------------------

	r, err := runner.Build(cfg, dev, flasher, power, logger)
	if err != nil {
		fail("runner build failed", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	set, err := r.Run(ctx)
	if err != nil {
		fail("measurement run failed", "err", err)
	}

	logger.Info("run complete", "cases", len(set.Columns()), "output", cfg.Output.Dir)
}
