package pressure

import (
	"errors"
	"fmt"
)

// FrameSize is the length of the measurement response.
const FrameSize = 7

var ErrFrameSize = errors.New("ams5935: invalid response frame size")

// Counts holds the raw digital outputs of one measurement.
type Counts struct {
	Status      byte
	Pressure    uint32
	Temperature uint32
}

// ParseFrame decodes a response frame: status byte followed by 24-bit
// big-endian pressure and temperature counts.
func ParseFrame(buf []byte) (Counts, error) {
	if len(buf) != FrameSize {
		return Counts{}, fmt.Errorf("%w: expected %d, got %d", ErrFrameSize, FrameSize, len(buf))
	}
	return Counts{
		Status:      buf[0],
		Pressure:    uint24(buf[1:4]),
		Temperature: uint24(buf[4:7]),
	}, nil
}

// EncodeFrame is the inverse of ParseFrame. Counts wider than 24 bits are truncated.
func EncodeFrame(c Counts) []byte {
	return []byte{
		c.Status,
		byte(c.Pressure >> 16), byte(c.Pressure >> 8), byte(c.Pressure),
		byte(c.Temperature >> 16), byte(c.Temperature >> 8), byte(c.Temperature),
	}
}

func uint24(b []byte) uint32 {
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}
