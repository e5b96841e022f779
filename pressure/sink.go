package pressure

import (
	"context"

	"periph.io/x/conn/v3/physic"
)

// Reading is the converted output of one completed transaction.
type Reading struct {
	PressurePa   float64 `json:"pressure_pa"`
	TemperatureC float64 `json:"temperature_c"`
}

// Env expresses the reading in periph physical units.
func (r Reading) Env() physic.Env {
	return physic.Env{
		Pressure:    physic.Pressure(r.PressurePa * float64(physic.Pascal)),
		Temperature: physic.ZeroCelsius + physic.Temperature(r.TemperatureC*float64(physic.Kelvin)),
	}
}

// Sink receives one engineering-unit value per successful reading.
type Sink interface {
	Publish(ctx context.Context, value float64) error
}

type SinkFunc func(ctx context.Context, value float64) error

func (f SinkFunc) Publish(ctx context.Context, value float64) error {
	return f(ctx, value)
}

// Observer is notified of every completed (non-pending) drive cycle.
type Observer interface {
	Observe(status Status, err error)
}
