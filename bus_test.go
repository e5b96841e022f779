package transducer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingBus struct {
	writes map[byte][][]byte
	reads  map[byte]int
	err    error
}

func (b *recordingBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	b.reads[address]++
	for i := range buffer {
		buffer[i] = address
	}
	return b.err
}

func (b *recordingBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	b.writes[address] = append(b.writes[address], buffer)
	return b.err
}

func (b *recordingBus) Release(ctx context.Context) error {
	return nil
}

func TestDevice(t *testing.T) {
	bus := &recordingBus{writes: map[byte][][]byte{}, reads: map[byte]int{}}
	d := NewDevice(bus, 0x28)
	assert.Equal(t, byte(0x28), d.Addr())

	require.NoError(t, d.Write(context.Background(), []byte{0xAA}))
	buf := make([]byte, 3)
	require.NoError(t, d.Read(context.Background(), buf))
	assert.Equal(t, [][]byte{{0xAA}}, bus.writes[0x28])
	assert.Equal(t, 1, bus.reads[0x28])
	assert.Equal(t, []byte{0x28, 0x28, 0x28}, buf)

	bus.err = ErrBusBusy
	assert.True(t, errors.Is(d.Write(context.Background(), nil), ErrBusBusy))
}

func TestSystemClock(t *testing.T) {
	c := SystemClock{}
	a := c.Now()
	assert.False(t, c.Now().Before(a))
}
