package adapter

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/transducer"
)

type fakeHID struct {
	requests  [][]byte
	responses [][]byte
	closed    int
}

func (f *fakeHID) Write(p []byte) (int, error) {
	f.requests = append(f.requests, append([]byte(nil), p...))
	return len(p), nil
}

func (f *fakeHID) Read(p []byte) (int, error) {
	if len(f.responses) == 0 {
		return 0, io.EOF
	}
	resp := make([]byte, reportSize)
	copy(resp, f.responses[0])
	f.responses = f.responses[1:]
	return copy(p, resp), nil
}

func (f *fakeHID) Close() error {
	f.closed++
	return nil
}

func newTestAdapter(dev *fakeHID) *MCP2221 {
	d := NewMCP2221()
	d.open = func() (io.ReadWriteCloser, error) { return dev, nil }
	d.responseWait = 0
	return d
}

func TestMCP2221_WriteToAddr(t *testing.T) {
	dev := &fakeHID{responses: [][]byte{{cmdI2CWriteData, 0x00}}}
	d := newTestAdapter(dev)

	require.NoError(t, d.WriteToAddr(context.Background(), 0x28, []byte{0xAA}))
	require.Len(t, dev.requests, 1)
	assert.Equal(t, []byte{cmdI2CWriteData, 0x01, 0x00, 0x50, 0xAA}, dev.requests[0][:5])
	assert.Equal(t, 1, dev.closed)
}

func TestMCP2221_WriteBusy(t *testing.T) {
	dev := &fakeHID{responses: [][]byte{{cmdI2CWriteData, 0x01}}}
	d := newTestAdapter(dev)

	err := d.WriteToAddr(context.Background(), 0x28, []byte{0xAA})
	assert.ErrorIs(t, err, transducer.ErrBusBusy)
}

func TestMCP2221_ReadFromAddr(t *testing.T) {
	frame := []byte{0x00, 0x00, 0x30, 0x00, 0x00, 0x20, 0x00}
	get := append([]byte{cmdI2CGetData, 0x00, 0x00, byte(len(frame))}, frame...)
	dev := &fakeHID{responses: [][]byte{{cmdI2CReadData, 0x00}, get}}
	d := newTestAdapter(dev)

	buf := make([]byte, len(frame))
	require.NoError(t, d.ReadFromAddr(context.Background(), 0x28, buf))
	assert.Equal(t, frame, buf)
	require.Len(t, dev.requests, 2)
	assert.Equal(t, []byte{cmdI2CReadData, 0x07, 0x00, 0x51}, dev.requests[0][:4])
	assert.Equal(t, byte(cmdI2CGetData), dev.requests[1][0])
}

func TestMCP2221_ReadSizeMismatch(t *testing.T) {
	dev := &fakeHID{responses: [][]byte{{cmdI2CReadData, 0x00}, {cmdI2CGetData, 0x00, 0x00, 127}}}
	d := newTestAdapter(dev)

	err := d.ReadFromAddr(context.Background(), 0x28, make([]byte, 7))
	assert.EqualError(t, err, "invalid data size byte; expected 7, got 127")
}

func TestMCP2221_SetSpeed(t *testing.T) {
	dev := &fakeHID{responses: [][]byte{{cmdStatusSetParams, 0x00, 0x00, statusSetSpeed}}}
	d := newTestAdapter(dev)

	require.NoError(t, d.SetSpeed(context.Background(), 100_000))
	assert.Equal(t, byte(117), dev.requests[0][4])

	assert.Error(t, d.SetSpeed(context.Background(), 10))
	assert.Error(t, d.SetSpeed(context.Background(), 0))
}

func TestMCP2221_OpenError(t *testing.T) {
	d := NewMCP2221()
	d.open = func() (io.ReadWriteCloser, error) { return nil, ErrDeviceNotFound }
	err := d.Init(context.Background())
	assert.ErrorIs(t, err, ErrDeviceNotFound)
	assert.True(t, errors.Is(d.Release(context.Background()), ErrDeviceNotFound))
}

func TestBufferToStatus(t *testing.T) {
	buf := make([]byte, reportSize)
	buf[9], buf[10] = 0x07, 0x00
	buf[11], buf[12] = 0x05, 0x00
	buf[13] = 2
	buf[14] = 117
	buf[15] = 9
	buf[16], buf[17] = 0x50, 0x00
	buf[25] = 1
	status := bufferToStatus(buf)
	assert.Equal(t, &MCP2221Status{
		I2CDataBufferCounter:   2,
		I2CSpeedDivider:        117,
		I2CTimeout:             9,
		CurrentAddress:         "5000",
		LastWriteRequestedSize: 7,
		LastWriteSentSize:      5,
		ReadPending:            1,
	}, status)
}
