package main

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"gobot.io/x/gobot/v2/platforms/friendlyelec/nanopi"
	"periph.io/x/conn/v3/physic"

	"github.com/mklimuk/transducer"
	"github.com/mklimuk/transducer/adapter"
	"github.com/mklimuk/transducer/config"
	"github.com/mklimuk/transducer/i2c"
	"github.com/mklimuk/transducer/pressure"
)

// openBus returns the configured transport and a function releasing it.
func openBus(ctx context.Context, cfg config.BusConfig, model pressure.Model) (transducer.I2CBus, func() error, error) {
	nop := func() error { return nil }
	switch cfg.Adapter {
	case config.AdapterMCP2221:
		var ids []int
		if cfg.Device != "" {
			id, err := strconv.Atoi(cfg.Device)
			if err != nil {
				return nil, nil, fmt.Errorf("invalid MCP2221 index %q: %w", cfg.Device, err)
			}
			ids = append(ids, id)
		}
		a := adapter.NewMCP2221(ids...)
		if err := a.Init(ctx); err != nil {
			return nil, nil, err
		}
		if cfg.SpeedHz > 0 {
			if err := a.SetSpeed(ctx, cfg.SpeedHz); err != nil {
				return nil, nil, err
			}
		}
		return a, nop, nil
	case config.AdapterGeneric:
		bus, err := i2c.NewGenericBus(cfg.Device)
		if err != nil {
			return nil, nil, err
		}
		if cfg.SpeedHz > 0 {
			if err := bus.SetSpeed(physic.Frequency(cfg.SpeedHz) * physic.Hertz); err != nil {
				_ = bus.Close()
				return nil, nil, err
			}
		}
		return bus, bus.Close, nil
	case config.AdapterNanoPi:
		npi := nanopi.NewNeoAdaptor()
		if err := npi.I2cBusAdaptor.Connect(); err != nil {
			return nil, nil, fmt.Errorf("adaptor connect error: %w", err)
		}
		busNr := npi.DefaultI2cBus()
		if cfg.Device != "" {
			nr, err := strconv.Atoi(cfg.Device)
			if err != nil {
				_ = npi.I2cBusAdaptor.Finalize()
				return nil, nil, fmt.Errorf("invalid i2c bus number %q: %w", cfg.Device, err)
			}
			busNr = nr
		}
		bus := i2c.NewGobotBus(npi, busNr)
		return bus, func() error {
			err := bus.Close()
			if ferr := npi.I2cBusAdaptor.Finalize(); ferr != nil && err == nil {
				err = ferr
			}
			return err
		}, nil
	case config.AdapterSim:
		sim, err := pressure.NewSimulator(model, simulatedAtmosphere(model))
		if err != nil {
			return nil, nil, err
		}
		sim.SetAddress(cfg.Address)
		return sim, nop, nil
	}
	return nil, nil, fmt.Errorf("unsupported adapter %q", cfg.Adapter)
}

// simulatedAtmosphere drifts slowly around the middle of the model range.
func simulatedAtmosphere(model pressure.Model) pressure.ReadingBehaviorFunc {
	rng, _ := pressure.Lookup(model)
	start := time.Now()
	return func(ctx context.Context) (pressure.Reading, error) {
		phase := time.Since(start).Seconds() / 60 * 2 * math.Pi
		mid := (rng.Min + rng.Max) / 2
		return pressure.Reading{
			PressurePa:   (mid + rng.Span()*0.05*math.Sin(phase)) * pressure.MbarToPa,
			TemperatureC: 22 + math.Sin(phase/3),
		}, nil
	}
}
