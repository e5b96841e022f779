package pressure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mklimuk/transducer"
)

// DefaultAddress is the factory 7-bit I2C address of the AMS5935.
const DefaultAddress = 0x28

var ErrNoModel = errors.New("ams5935: transducer model not set")
var ErrSetupFailed = errors.New("ams5935: failed to read from sensor during setup")
var ErrFailed = errors.New("ams5935: sensor marked failed")

type AMS5935Opts struct {
	Address       byte
	Mode          Mode
	Clock         transducer.Clock
	Logger        *slog.Logger
	SetupAttempts int
	RetryPause    time.Duration
	Pressure      Sink
	Temperature   Sink
	Observer      Observer
}

type AMS5935Opt func(*AMS5935Opts)

func WithAddress(address byte) AMS5935Opt {
	return func(o *AMS5935Opts) {
		o.Address = address
	}
}

func WithMode(mode Mode) AMS5935Opt {
	return func(o *AMS5935Opts) {
		o.Mode = mode
	}
}

func WithClock(clock transducer.Clock) AMS5935Opt {
	return func(o *AMS5935Opts) {
		o.Clock = clock
	}
}

func WithLogger(logger *slog.Logger) AMS5935Opt {
	return func(o *AMS5935Opts) {
		o.Logger = logger
	}
}

// WithSetupAttempts bounds the number of drive cycles run by Setup.
func WithSetupAttempts(attempts int) AMS5935Opt {
	return func(o *AMS5935Opts) {
		o.SetupAttempts = attempts
	}
}

// WithRetryPause sets the pause between Setup attempts.
func WithRetryPause(pause time.Duration) AMS5935Opt {
	return func(o *AMS5935Opts) {
		o.RetryPause = pause
	}
}

// WithPressureSink receives pressure in pascal.
func WithPressureSink(sink Sink) AMS5935Opt {
	return func(o *AMS5935Opts) {
		o.Pressure = sink
	}
}

// WithTemperatureSink receives temperature in degrees Celsius.
func WithTemperatureSink(sink Sink) AMS5935Opt {
	return func(o *AMS5935Opts) {
		o.Temperature = sink
	}
}

func WithObserver(observer Observer) AMS5935Opt {
	return func(o *AMS5935Opts) {
		o.Observer = observer
	}
}

// AMS5935 represents an Analog Microelectronics AMS5935 digital pressure and
// temperature transducer.
// Typical usage:
//
//	s := NewAMS5935(bus, WithPressureSink(p), WithTemperatureSink(t))
//	if err := s.SetModel(Model0100DB); err != nil { ... }
//	if err := s.Setup(ctx); err != nil { ... }
//	// on every scheduler tick
//	status, err := s.Update(ctx)
//
// Update never blocks: a reading is assembled over several calls, the first
// one sends the measurement request and a later one, once the settling time
// has passed, reads and publishes the result.
type AMS5935 struct {
	config AMS5935Opts
	logger *slog.Logger
	device *transducer.Device
	tx     *Transaction

	model    Model
	rng      Range
	hasModel bool
	failed   bool
}

func NewAMS5935(bus transducer.I2CBus, opts ...AMS5935Opt) *AMS5935 {
	config := AMS5935Opts{
		Address:       DefaultAddress,
		Mode:          ModeSingle,
		Clock:         transducer.SystemClock{},
		Logger:        slog.Default(),
		SetupAttempts: 10,
		RetryPause:    10 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(&config)
	}
	logger := config.Logger.With("component", "ams5935", "address", fmt.Sprintf("%#x", config.Address))
	device := transducer.NewDevice(bus, config.Address)
	return &AMS5935{
		config: config,
		logger: logger,
		device: device,
		tx:     NewTransaction(device, config.Mode, config.Clock, logger),
	}
}

// SetModel selects the catalog entry used for conversion. It must be called
// before Setup and may be called again to reconfigure the driver.
func (s *AMS5935) SetModel(m Model) error {
	rng, err := Lookup(m)
	if err != nil {
		return err
	}
	if err := rng.Validate(); err != nil {
		return fmt.Errorf("%s: %w", m, err)
	}
	s.model = m
	s.rng = rng
	s.hasModel = true
	return nil
}

func (s *AMS5935) Model() Model {
	return s.model
}

func (s *AMS5935) Range() Range {
	return s.rng
}

func (s *AMS5935) Mode() Mode {
	return s.config.Mode
}

// Failed reports whether Setup exhausted its attempt budget.
func (s *AMS5935) Failed() bool {
	return s.failed
}

func (s *AMS5935) String() string {
	if !s.hasModel {
		return fmt.Sprintf("AMS5935{addr: %#x}", s.config.Address)
	}
	return fmt.Sprintf("%s{addr: %#x}", s.model, s.config.Address)
}

// Setup checks that the sensor answers by running drive cycles until one
// succeeds. It sleeps the retry pause between attempts, and at least the
// settling time after a request. It must run before the sensor is polled with
// Update. Exhausting the attempt budget marks the sensor failed.
func (s *AMS5935) Setup(ctx context.Context) error {
	if !s.hasModel {
		return ErrNoModel
	}
	s.tx.Reset()
	var lastErr error
	last := StatusPending
	for i := range s.config.SetupAttempts {
		if i > 0 {
			pause := s.config.RetryPause
			// a pending request needs its settling time before the next drive
			if last == StatusPending {
				pause = max(pause, s.config.Mode.SettlingTime())
			}
			if err := wait(ctx, pause); err != nil {
				return err
			}
		}
		res := s.tx.Drive(ctx)
		last = res.Status
		switch res.Status {
		case StatusSuccess:
			s.observe(res)
			s.logger.Info("sensor ready", "model", s.model.String(), "attempts", i+1)
			return nil
		case StatusFailure:
			s.observe(res)
			lastErr = res.Err
		}
	}
	s.failed = true
	s.tx.Reset()
	s.logger.Error("failed to read from ams5935", "attempts", s.config.SetupAttempts, "error", lastErr)
	if lastErr == nil {
		return fmt.Errorf("%w: no response after %d attempts", ErrSetupFailed, s.config.SetupAttempts)
	}
	return fmt.Errorf("%w: %d attempts: %w", ErrSetupFailed, s.config.SetupAttempts, lastErr)
}

// Update runs one drive cycle. On success the reading is handed to the sinks,
// on failure nothing is published and the next call starts a new request.
func (s *AMS5935) Update(ctx context.Context) (Status, error) {
	if s.failed {
		return StatusFailure, ErrFailed
	}
	if !s.hasModel {
		return StatusFailure, ErrNoModel
	}
	res := s.tx.Drive(ctx)
	switch res.Status {
	case StatusFailure:
		s.observe(res)
		s.logger.Warn("measurement failed", "error", res.Err)
		return StatusFailure, res.Err
	case StatusSuccess:
		s.observe(res)
		reading := Convert(res.Counts, s.rng)
		s.logger.Debug("got reading",
			"pressure_mbar", reading.PressurePa/MbarToPa,
			"pressure_pa", reading.PressurePa,
			"temperature_c", reading.TemperatureC)
		return StatusSuccess, s.publish(ctx, reading)
	}
	return StatusPending, nil
}

// Read performs a complete measurement, sleeping through the settling time.
// It is meant for one-shot use and must not be mixed with a running Update loop.
func (s *AMS5935) Read(ctx context.Context) (Reading, error) {
	if s.failed {
		return Reading{}, ErrFailed
	}
	if !s.hasModel {
		return Reading{}, ErrNoModel
	}
	for {
		res := s.tx.Drive(ctx)
		switch res.Status {
		case StatusSuccess:
			return Convert(res.Counts, s.rng), nil
		case StatusFailure:
			return Reading{}, res.Err
		}
		if err := wait(ctx, s.config.Mode.SettlingTime()); err != nil {
			s.tx.Reset()
			return Reading{}, err
		}
	}
}

// DumpConfig logs the driver configuration.
func (s *AMS5935) DumpConfig() {
	attrs := []any{
		"mode", s.config.Mode.String(),
		"pressure_sink", s.config.Pressure != nil,
		"temperature_sink", s.config.Temperature != nil,
		"setup_attempts", s.config.SetupAttempts,
	}
	if s.hasModel {
		attrs = append(attrs, "model", s.model.String(), "min_mbar", s.rng.Min, "max_mbar", s.rng.Max)
	}
	if s.failed {
		attrs = append(attrs, "failed", true)
	}
	s.logger.Info("AMS5935", attrs...)
}

func (s *AMS5935) publish(ctx context.Context, reading Reading) error {
	var errs []error
	if s.config.Temperature != nil {
		if err := s.config.Temperature.Publish(ctx, reading.TemperatureC); err != nil {
			errs = append(errs, fmt.Errorf("ams5935: publish temperature: %w", err))
		}
	}
	if s.config.Pressure != nil {
		if err := s.config.Pressure.Publish(ctx, reading.PressurePa); err != nil {
			errs = append(errs, fmt.Errorf("ams5935: publish pressure: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (s *AMS5935) observe(res Result) {
	if s.config.Observer != nil {
		s.config.Observer.Observe(res.Status, res.Err)
	}
}

func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
