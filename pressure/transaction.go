package pressure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mklimuk/transducer"
)

// Measurement request commands. The master starts a measurement cycle with
// 0xAA (single measurement) or 0xAD (four-fold oversampling).
const (
	cmdSingleMeasurement    byte = 0xAA
	cmdFourFoldOversampling byte = 0xAD
)

const (
	singleMeasurementTime    = 4 * time.Millisecond
	fourFoldOversamplingTime = 15 * time.Millisecond
)

// Mode selects the measurement request. Command and settling time always
// change together.
type Mode uint8

const (
	ModeSingle Mode = iota
	ModeOversampled
)

func (m Mode) Command() byte {
	if m == ModeOversampled {
		return cmdFourFoldOversampling
	}
	return cmdSingleMeasurement
}

// SettlingTime is the minimum delay between the request and a valid response.
func (m Mode) SettlingTime() time.Duration {
	if m == ModeOversampled {
		return fourFoldOversamplingTime
	}
	return singleMeasurementTime
}

func (m Mode) String() string {
	if m == ModeOversampled {
		return "oversampled"
	}
	return "single"
}

type Status int

const (
	StatusPending Status = iota
	StatusSuccess
	StatusFailure
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	default:
		return "pending"
	}
}

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAwaitingResponse
)

func (p Phase) String() string {
	if p == PhaseAwaitingResponse {
		return "awaiting-response"
	}
	return "idle"
}

// State is the part of a transaction that survives between drive cycles.
type State struct {
	Phase       Phase
	RequestedAt time.Time
	Mode        Mode
}

// Result is the outcome of a single drive cycle. Counts are only valid on
// StatusSuccess and Err is only set on StatusFailure.
type Result struct {
	Status Status
	Counts Counts
	Err    error
}

// Transaction runs the request/settle/read cycle of one device. Drive never
// waits: the settling interval is checked against the clock on every call.
// A Transaction is not safe for concurrent use.
type Transaction struct {
	device   transducer.I2CDevice
	clock    transducer.Clock
	logger   *slog.Logger
	mode     Mode
	state    State
	writeErr error
	buf      []byte
}

func NewTransaction(device transducer.I2CDevice, mode Mode, clock transducer.Clock, logger *slog.Logger) *Transaction {
	if clock == nil {
		clock = transducer.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Transaction{
		device: device,
		clock:  clock,
		logger: logger,
		mode:   mode,
		state:  State{Phase: PhaseIdle, Mode: mode},
		buf:    make([]byte, FrameSize),
	}
}

func (t *Transaction) State() State {
	return t.state
}

// Reset abandons an in-flight request; the next drive issues a new one.
func (t *Transaction) Reset() {
	t.state = State{Phase: PhaseIdle, Mode: t.mode}
	t.writeErr = nil
}

// Drive advances the transaction by at most one phase.
func (t *Transaction) Drive(ctx context.Context) Result {
	now := t.clock.Now()
	if t.state.Phase == PhaseIdle {
		t.request(ctx, now)
		return Result{Status: StatusPending}
	}
	if now.Sub(t.state.RequestedAt) < t.state.Mode.SettlingTime() {
		return Result{Status: StatusPending}
	}
	return t.collect(ctx)
}

func (t *Transaction) request(ctx context.Context, now time.Time) {
	err := t.device.Write(ctx, []byte{t.mode.Command()})
	if err != nil {
		// the read after the settling interval reports the actual fault
		t.logger.Warn("measurement request failed", "command", fmt.Sprintf("%#x", t.mode.Command()), "error", err)
	}
	t.writeErr = err
	t.state = State{Phase: PhaseAwaitingResponse, RequestedAt: now, Mode: t.mode}
}

func (t *Transaction) collect(ctx context.Context) Result {
	writeErr := t.writeErr
	t.Reset()
	clear(t.buf)
	err := t.device.Read(ctx, t.buf)
	if err != nil {
		err = fmt.Errorf("ams5935: read failed: %w", err)
		if writeErr != nil {
			err = errors.Join(err, fmt.Errorf("ams5935: request failed: %w", writeErr))
		}
		return Result{Status: StatusFailure, Err: err}
	}
	counts, err := ParseFrame(t.buf)
	if err != nil {
		return Result{Status: StatusFailure, Err: err}
	}
	t.logger.Debug("raw measurement",
		"pressure", fmt.Sprintf("%X", counts.Pressure),
		"temperature", fmt.Sprintf("%X", counts.Temperature),
		"status", fmt.Sprintf("%#x", counts.Status))
	return Result{Status: StatusSuccess, Counts: counts}
}
