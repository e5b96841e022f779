package poll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/transducer/pressure"
)

type MockComponent struct {
	mock.Mock
}

func (m *MockComponent) Setup(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockComponent) Update(ctx context.Context) (pressure.Status, error) {
	args := m.Called(ctx)
	return args.Get(0).(pressure.Status), args.Error(1)
}

func TestRun_UpdatesUntilCancelled(t *testing.T) {
	c := new(MockComponent)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	updates := 0
	c.On("Setup", mock.Anything).Return(nil).Once()
	c.On("Update", mock.Anything).Run(func(args mock.Arguments) {
		updates++
		if updates >= 3 {
			cancel()
		}
	}).Return(pressure.StatusPending, nil)

	err := Run(ctx, c, time.Millisecond, nil)
	require.NoError(t, err)
	// a tick may race with the cancellation
	assert.GreaterOrEqual(t, updates, 3)
	c.AssertExpectations(t)
}

func TestRun_UpdateErrorsAreTransient(t *testing.T) {
	c := new(MockComponent)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.On("Setup", mock.Anything).Return(nil)
	c.On("Update", mock.Anything).Return(pressure.StatusFailure, errors.New("nack")).Twice()
	c.On("Update", mock.Anything).Run(func(args mock.Arguments) { cancel() }).Return(pressure.StatusSuccess, nil)

	require.NoError(t, Run(ctx, c, time.Millisecond, nil))
	assert.GreaterOrEqual(t, len(c.Calls), 4)
}

func TestRun_SetupFailure(t *testing.T) {
	c := new(MockComponent)
	c.On("Setup", mock.Anything).Return(pressure.ErrSetupFailed)

	err := Run(context.Background(), c, time.Millisecond, nil)
	assert.ErrorIs(t, err, pressure.ErrSetupFailed)
	c.AssertNotCalled(t, "Update", mock.Anything)
}

func TestRun_StopsOnFailedComponent(t *testing.T) {
	c := new(MockComponent)
	c.On("Setup", mock.Anything).Return(nil)
	c.On("Update", mock.Anything).Return(pressure.StatusFailure, pressure.ErrFailed)

	err := Run(context.Background(), c, time.Millisecond, nil)
	assert.ErrorIs(t, err, pressure.ErrFailed)
}

func TestRun_InvalidInterval(t *testing.T) {
	assert.Error(t, Run(context.Background(), new(MockComponent), 0, nil))
}

func TestRun_WithSimulatedSensor(t *testing.T) {
	sim, err := pressure.NewSimulator(pressure.Model1000A, func(ctx context.Context) (pressure.Reading, error) {
		return pressure.Reading{PressurePa: 50_000, TemperatureC: 20}, nil
	})
	require.NoError(t, err)
	got := make(chan float64, 1)
	s := pressure.NewAMS5935(sim, pressure.WithPressureSink(pressure.SinkFunc(func(ctx context.Context, v float64) error {
		select {
		case got <- v:
		default:
		}
		return nil
	})))
	require.NoError(t, s.SetModel(pressure.Model1000A))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- Run(ctx, s, 5*time.Millisecond, nil) }()
	select {
	case v := <-got:
		assert.InDelta(t, 50_000, v, 0.1)
	case <-ctx.Done():
		t.Fatal("no reading published")
	}
	cancel()
	assert.NoError(t, <-done)
}
