// internal/telemetry/reading.go
package telemetry

import (
	"math"

	"github.com/tamzrod/motor-telemetry/internal/halffloat"
	"github.com/tamzrod/motor-telemetry/internal/health"
	"github.com/tamzrod/motor-telemetry/internal/quaternion"
	"github.com/tamzrod/motor-telemetry/internal/register"
	"github.com/tamzrod/motor-telemetry/internal/response"
)

// Reading is one decoded poll cycle.
type Reading struct {
	Values health.Measurements

	// Quaternion is set only when all three components were queried.
	Quaternion *quaternion.Sample

	// Missing lists queried bindings the device did not answer.
	Missing []string

	Raw response.Raw
}

// Decode turns a raw response into measurements.
// Only bindings present in q are decoded. Absent half-encoded registers
// default to raw 0 (decoding to 0.0); absent float and integer registers
// become NaN. Either way the binding is listed in Missing.
func (l *Layout) Decode(q register.Query, raw response.Raw) Reading {
	r := Reading{
		Values: make(health.Measurements, len(l.Bindings)+1),
		Raw:    raw,
	}

	for _, b := range l.Bindings {
		if _, queried := q.Type(b.Address); !queried {
			continue
		}
		if _, ok := raw.Lookup(b.Address); !ok {
			r.Missing = append(r.Missing, b.Name)
		}

		switch b.Encoding {
		case Half:
			r.Values[b.Name] = halffloat.FromInt(raw.Int(b.Address, 0))
		case Float:
			r.Values[b.Name] = raw.Float(b.Address, math.NaN())
		case Integer:
			v, ok := raw.Lookup(b.Address)
			if ok && v.Type.IsInteger() {
				r.Values[b.Name] = float64(v.Int)
			} else {
				r.Values[b.Name] = math.NaN()
			}
		}
	}

	if l.Quaternion == nil {
		return r
	}

	var comps [3]float64
	queried := 0
	for i, n := range l.Quaternion.Names() {
		if v, ok := r.Values[n]; ok {
			comps[i] = v
			queried++
		}
	}
	if queried == 0 {
		return r
	}

	sumSquares := comps[0]*comps[0] + comps[1]*comps[1] + comps[2]*comps[2]
	r.Values[MeasurementQuaternionMagnitude] = math.Sqrt(sumSquares)

	if queried == 3 {
		s := quaternion.FromComponents(comps[0], comps[1], comps[2])
		r.Quaternion = &s
	}

	return r
}
