package transducer

import (
	"context"
	"fmt"
	"time"
)

var ErrBusBusy = fmt.Errorf("I2C engine is busy (command not completed)")

type BusReader interface {
	Read(ctx context.Context, buffer []byte) error
}

type BusWriter interface {
	Write(ctx context.Context, buffer []byte) error
}

type AddressableReader interface {
	ReadFromAddr(ctx context.Context, address byte, buffer []byte) error
}

type AddressableWriter interface {
	WriteToAddr(ctx context.Context, address byte, buffer []byte) error
	Release(ctx context.Context) error
}

type I2CBus interface {
	AddressableReader
	AddressableWriter
}

type I2CDevice interface {
	BusReader
	BusWriter
}

// Clock is a monotonic time source used for elapsed-time comparisons.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock; time.Now carries a monotonic reading so
// comparisons between two values are immune to clock steps.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// Device binds an I2CBus to a single 7-bit address.
type Device struct {
	bus  I2CBus
	addr byte
}

var _ I2CDevice = &Device{}

func NewDevice(bus I2CBus, addr byte) *Device {
	return &Device{bus: bus, addr: addr}
}

func (d *Device) Addr() byte {
	return d.addr
}

func (d *Device) Read(ctx context.Context, buffer []byte) error {
	return d.bus.ReadFromAddr(ctx, d.addr, buffer)
}

func (d *Device) Write(ctx context.Context, buffer []byte) error {
	return d.bus.WriteToAddr(ctx, d.addr, buffer)
}
