package sink

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/transducer/pressure"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

func TestMulti(t *testing.T) {
	var got []float64
	ok := pressure.SinkFunc(func(ctx context.Context, v float64) error {
		got = append(got, v)
		return nil
	})
	boom := errors.New("boom")
	failing := pressure.SinkFunc(func(ctx context.Context, v float64) error {
		return boom
	})

	err := Multi{ok, failing, ok}.Publish(context.Background(), 1.5)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []float64{1.5, 1.5}, got)
	assert.NoError(t, Multi{}.Publish(context.Background(), 1))
}

func TestLog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	require.NoError(t, Log(logger, Pressure).Publish(context.Background(), 101325))
	assert.Contains(t, buf.String(), "quantity=pressure")
	assert.Contains(t, buf.String(), "value=101325")
	assert.Contains(t, buf.String(), "unit=Pa")
}

func TestLatest(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	l := NewLatest(fixedClock{now})
	ctx := context.Background()

	_, _, ok := l.Get()
	assert.False(t, ok)

	require.NoError(t, l.For(Temperature).Publish(ctx, 21.5))
	_, _, ok = l.Get()
	assert.False(t, ok, "pressure not seen yet")

	require.NoError(t, l.For(Pressure).Publish(ctx, 99_000))
	r, at, ok := l.Get()
	require.True(t, ok)
	assert.Equal(t, pressure.Reading{PressurePa: 99_000, TemperatureC: 21.5}, r)
	assert.Equal(t, now, at)
}

func TestLatest_NeverMixesMeasurements(t *testing.T) {
	clock := &steppingClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	l := NewLatest(clock)
	ctx := context.Background()

	require.NoError(t, l.For(Temperature).Publish(ctx, 21.5))
	require.NoError(t, l.For(Pressure).Publish(ctx, 99_000))
	first := clock.now

	// next measurement is half published
	clock.now = clock.now.Add(time.Second)
	require.NoError(t, l.For(Temperature).Publish(ctx, 30))
	r, at, ok := l.Get()
	require.True(t, ok)
	assert.Equal(t, pressure.Reading{PressurePa: 99_000, TemperatureC: 21.5}, r)
	assert.Equal(t, first, at)

	require.NoError(t, l.For(Pressure).Publish(ctx, 101_000))
	r, at, ok = l.Get()
	require.True(t, ok)
	assert.Equal(t, pressure.Reading{PressurePa: 101_000, TemperatureC: 30}, r)
	assert.Equal(t, clock.now, at)

	// a pressure without its temperature does not pair with the old one
	require.NoError(t, l.For(Pressure).Publish(ctx, 50_000))
	r, _, _ = l.Get()
	assert.Equal(t, pressure.Reading{PressurePa: 101_000, TemperatureC: 30}, r)
}

type steppingClock struct {
	now time.Time
}

func (c *steppingClock) Now() time.Time {
	return c.now
}

func TestQuantity_Unit(t *testing.T) {
	assert.Equal(t, "Pa", Pressure.Unit())
	assert.Equal(t, "°C", Temperature.Unit())
	assert.Equal(t, "", Quantity("humidity").Unit())
}
