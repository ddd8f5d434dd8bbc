// internal/response/response.go
package response

import (
	"github.com/tamzrod/motor-telemetry/internal/register"
)

// Value is one raw register value as returned by the device.
// Exactly one of Int / Float is meaningful, depending on Type.
type Value struct {
	Type  register.WireType
	Int   int64   // Int8, Int16, Int32
	Float float32 // Float32
}

// IntValue builds an integer-typed value.
func IntValue(t register.WireType, v int64) Value {
	return Value{Type: t, Int: v}
}

// FloatValue builds a Float32 value.
func FloatValue(v float32) Value {
	return Value{Type: register.Float32, Float: v}
}

// Raw maps registers to raw values. May be a strict subset of the query.
type Raw map[register.Address]Value

// Lookup returns the raw value for addr and whether the device answered it.
func (r Raw) Lookup(addr register.Address) (Value, bool) {
	v, ok := r[addr]
	return v, ok
}

// Get returns def when addr is absent. Absence is not an error.
func Get(r Raw, addr register.Address, def Value) Value {
	if v, ok := r[addr]; ok {
		return v
	}
	return def
}

// Int returns the raw integer for addr, or def when the register is absent
// or was not answered with an integer type. No decoding is applied.
func (r Raw) Int(addr register.Address, def int64) int64 {
	v, ok := r[addr]
	if !ok || !v.Type.IsInteger() {
		return def
	}
	return v.Int
}

// Float returns a Float32 register widened to float64, or def.
// Integer-typed values are never reinterpreted here.
func (r Raw) Float(addr register.Address, def float64) float64 {
	v, ok := r[addr]
	if !ok || v.Type != register.Float32 {
		return def
	}
	return float64(v.Float)
}
