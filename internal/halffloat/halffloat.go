// Package halffloat decodes IEEE-754 binary16 values.
//
// Devices ship half-precision quantities inside 16-bit integer registers;
// Go has no native half type, so the layout is unpacked by hand:
// 1 sign bit, 5 exponent bits (bias 15), 10 mantissa bits.
package halffloat

import "math"

const (
	signMask     = 0x8000
	exponentMask = 0x7C00
	mantissaMask = 0x03FF

	exponentShift = 10
	exponentMax   = 31
	bias          = 15
	mantissaScale = 1024.0
)

// Decode converts a binary16 bit pattern to float64.
// Total over all 65536 inputs.
func Decode(bits uint16) float64 {
	sign := 1.0
	if bits&signMask != 0 {
		sign = -1.0
	}
	exponent := int((bits & exponentMask) >> exponentShift)
	mantissa := float64(bits & mantissaMask)

	switch exponent {
	case 0:
		if mantissa == 0 {
			return math.Copysign(0, sign)
		}
		// subnormal
		return sign * (mantissa / mantissaScale) * math.Ldexp(1, 1-bias)
	case exponentMax:
		if mantissa == 0 {
			return math.Inf(int(sign))
		}
		return math.NaN()
	}

	return sign * (1 + mantissa/mantissaScale) * math.Ldexp(1, exponent-bias)
}

// FromInt decodes the low 16 bits of a raw register value.
// Transports hand Int16 registers back sign-extended.
func FromInt(v int64) float64 {
	return Decode(uint16(v & 0xFFFF))
}
