// Package sink holds the destinations a transducer reading can be published
// to. Every destination hands out one pressure.Sink per measured quantity.
package sink

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mklimuk/transducer"
	"github.com/mklimuk/transducer/pressure"
)

// Quantity names a measured value.
type Quantity string

const (
	Pressure    Quantity = "pressure"
	Temperature Quantity = "temperature"
)

// Unit is the unit values of the quantity are published in.
func (q Quantity) Unit() string {
	switch q {
	case Pressure:
		return "Pa"
	case Temperature:
		return "°C"
	}
	return ""
}

// Multi publishes to every sink and joins their errors.
type Multi []pressure.Sink

func (m Multi) Publish(ctx context.Context, value float64) error {
	var errs []error
	for _, s := range m {
		if err := s.Publish(ctx, value); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Log writes every value to the logger.
func Log(logger *slog.Logger, q Quantity) pressure.Sink {
	return pressure.SinkFunc(func(ctx context.Context, value float64) error {
		logger.InfoContext(ctx, "reading", "quantity", string(q), "value", value, "unit", q.Unit())
		return nil
	})
}

// Latest keeps the most recent reading. The driver publishes temperature
// before pressure, so a temperature is held back until the pressure of the same
// measurement commits both as one reading. Get never mixes quantities from two
// measurements.
type Latest struct {
	mx          sync.RWMutex
	clock       transducer.Clock
	reading     pressure.Reading
	complete    bool
	pendingTemp float64
	hasPending  bool
	updated     time.Time
}

func NewLatest(clock transducer.Clock) *Latest {
	if clock == nil {
		clock = transducer.SystemClock{}
	}
	return &Latest{clock: clock}
}

func (l *Latest) For(q Quantity) pressure.Sink {
	return pressure.SinkFunc(func(ctx context.Context, value float64) error {
		l.mx.Lock()
		defer l.mx.Unlock()
		switch q {
		case Temperature:
			l.pendingTemp = value
			l.hasPending = true
		case Pressure:
			if !l.hasPending {
				// no temperature for this measurement, keep the previous pair
				return nil
			}
			l.reading = pressure.Reading{PressurePa: value, TemperatureC: l.pendingTemp}
			l.hasPending = false
			l.complete = true
			l.updated = l.clock.Now()
		}
		return nil
	})
}

// Get returns the last complete reading and the time it was committed.
func (l *Latest) Get() (pressure.Reading, time.Time, bool) {
	l.mx.RLock()
	defer l.mx.RUnlock()
	if !l.complete {
		return pressure.Reading{}, time.Time{}, false
	}
	return l.reading, l.updated, true
}
