package pressure

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mklimuk/transducer"
)

var ErrNoRequest = errors.New("simulator: read without measurement request")

// ReadingBehaviorFunc produces the reading a simulated sensor reports.
type ReadingBehaviorFunc func(ctx context.Context) (Reading, error)

var _ transducer.I2CBus = &Simulator{}

// Simulator is an in-memory I2C bus with a single AMS5935 attached. It
// accepts both measurement commands and answers reads with a frame encoded
// from the behavior function, so the driver can run without hardware.
//
// Example usage:
//
//	sim, err := NewSimulator(Model1000A, func(ctx context.Context) (Reading, error) {
//		return Reading{PressurePa: 50_000, TemperatureC: 21.5}, nil
//	})
//	s := NewAMS5935(sim)
type Simulator struct {
	mx       sync.Mutex
	address  byte
	rng      Range
	behavior ReadingBehaviorFunc
	pending  bool
	requests int
	reads    int
}

// NewSimulator fails for unknown models and for ranges that cannot be
// encoded.
func NewSimulator(model Model, behavior ReadingBehaviorFunc) (*Simulator, error) {
	rng, err := Lookup(model)
	if err != nil {
		return nil, err
	}
	if err := rng.Validate(); err != nil {
		return nil, fmt.Errorf("simulator: %s: %w", model, err)
	}
	return &Simulator{address: DefaultAddress, rng: rng, behavior: behavior}, nil
}

// SetAddress moves the simulated device to another address.
func (s *Simulator) SetAddress(address byte) {
	s.mx.Lock()
	defer s.mx.Unlock()
	s.address = address
}

func (s *Simulator) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	s.mx.Lock()
	defer s.mx.Unlock()
	if address != s.address {
		return fmt.Errorf("simulator: no device at %#x", address)
	}
	if len(buffer) != 1 || (buffer[0] != cmdSingleMeasurement && buffer[0] != cmdFourFoldOversampling) {
		return fmt.Errorf("simulator: unsupported command % X", buffer)
	}
	s.pending = true
	s.requests++
	return nil
}

func (s *Simulator) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	s.mx.Lock()
	defer s.mx.Unlock()
	if address != s.address {
		return fmt.Errorf("simulator: no device at %#x", address)
	}
	if !s.pending {
		return ErrNoRequest
	}
	s.pending = false
	s.reads++
	reading, err := s.behavior(ctx)
	if err != nil {
		return err
	}
	frame := EncodeFrame(Counts{
		Pressure:    PressureCounts(reading.PressurePa/MbarToPa, s.rng),
		Temperature: TemperatureCounts(reading.TemperatureC),
	})
	copy(buffer, frame)
	return nil
}

func (s *Simulator) Release(ctx context.Context) error {
	return nil
}

// Requests returns the number of measurement requests and reads served.
func (s *Simulator) Requests() (requests int, reads int) {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.requests, s.reads
}
