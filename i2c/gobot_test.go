package i2c

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gobot "gobot.io/x/gobot/v2/drivers/i2c"
)

type fakeConnection struct {
	gobot.Connection
	written  [][]byte
	response []byte
	readErr  error
	closed   bool
}

func (c *fakeConnection) Write(b []byte) (int, error) {
	c.written = append(c.written, append([]byte(nil), b...))
	return len(b), nil
}

func (c *fakeConnection) Read(b []byte) (int, error) {
	if c.readErr != nil {
		return 0, c.readErr
	}
	return copy(b, c.response), nil
}

func (c *fakeConnection) Close() error {
	c.closed = true
	return nil
}

type fakeConnector struct {
	conns  map[int]*fakeConnection
	opened []int
}

func (f *fakeConnector) GetI2cConnection(address int, busNr int) (gobot.Connection, error) {
	f.opened = append(f.opened, address)
	conn, ok := f.conns[address]
	if !ok {
		return nil, errors.New("no device")
	}
	return conn, nil
}

func (f *fakeConnector) DefaultI2cBus() int {
	return 0
}

func TestGobotBus(t *testing.T) {
	conn := &fakeConnection{response: []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06}}
	connector := &fakeConnector{conns: map[int]*fakeConnection{0x28: conn}}
	bus := NewGobotBus(connector, 2)
	ctx := context.Background()

	require.NoError(t, bus.WriteToAddr(ctx, 0x28, []byte{0xAA}))
	buf := make([]byte, 7)
	require.NoError(t, bus.ReadFromAddr(ctx, 0x28, buf))
	assert.Equal(t, conn.response, buf)
	assert.Equal(t, [][]byte{{0xAA}}, conn.written)
	// connection is reused
	assert.Equal(t, []int{0x28}, connector.opened)

	err := bus.WriteToAddr(ctx, 0x30, []byte{0xAA})
	assert.ErrorContains(t, err, "could not open i2c connection to 30 on bus 2")

	require.NoError(t, bus.Close())
	assert.True(t, conn.closed)
}

func TestGobotBus_ShortRead(t *testing.T) {
	conn := &fakeConnection{response: []byte{0x00, 0x01}}
	bus := NewGobotBus(&fakeConnector{conns: map[int]*fakeConnection{0x28: conn}}, 0)
	err := bus.ReadFromAddr(context.Background(), 0x28, make([]byte, 7))
	assert.ErrorContains(t, err, "short read from i2c bus 28: 2 of 7 bytes")
}
