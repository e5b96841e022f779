package pressure

import "math"

const (
	// DigitalMax is the digital output at the top of the rated range.
	DigitalMax = 1 << 24
	// DigitalMin is the digital output at the bottom of the rated range.
	DigitalMin = 0.1 * DigitalMax
	MbarToPa   = 100.0

	countsMask = DigitalMax - 1
)

// Sensitivity is the number of counts per millibar for the given range.
func Sensitivity(r Range) float64 {
	return (DigitalMax - DigitalMin) / r.Span()
}

// PressureMbar converts a raw pressure count into millibar. Counts outside
// the calibrated window are converted as-is.
func PressureMbar(counts uint32, r Range) float64 {
	return (float64(counts)-DigitalMin)/Sensitivity(r) + r.Min
}

func PressurePa(counts uint32, r Range) float64 {
	return PressureMbar(counts, r) * MbarToPa
}

// TemperatureC converts a raw temperature count into degrees Celsius.
// The divisor is exactly 2^24.
func TemperatureC(counts uint32) float64 {
	return float64(counts)*165/DigitalMax - 40.0
}

// PressureCounts is the inverse of PressureMbar, rounded to the nearest count
// and saturated to the 24-bit output field.
func PressureCounts(mbar float64, r Range) uint32 {
	return saturate((mbar-r.Min)*Sensitivity(r) + DigitalMin)
}

// TemperatureCounts is the inverse of TemperatureC.
func TemperatureCounts(celsius float64) uint32 {
	return saturate((celsius + 40.0) * DigitalMax / 165)
}

func saturate(v float64) uint32 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > countsMask {
		return countsMask
	}
	return uint32(v)
}

// Convert turns raw counts into a reading for the given range.
func Convert(c Counts, r Range) Reading {
	return Reading{
		PressurePa:   PressurePa(c.Pressure, r),
		TemperatureC: TemperatureC(c.Temperature),
	}
}
