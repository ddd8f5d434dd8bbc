// internal/writer/amqp/message.go
package amqp

import (
	"math"
	"sort"
	"time"

	"github.com/tamzrod/motor-telemetry/internal/health"
	"github.com/tamzrod/motor-telemetry/internal/poller"
)

// Message is the JSON document published per poll cycle.
// Unavailable values are encoded as null.
type Message struct {
	Target     uint8               `json:"target"`
	At         time.Time           `json:"at"`
	Error      string              `json:"error,omitempty"`
	Values     map[string]*float64 `json:"values,omitempty"`
	Missing    []string            `json:"missing,omitempty"`
	Quaternion *Quaternion         `json:"quaternion,omitempty"`
	Verdict    *health.Verdict     `json:"verdict,omitempty"`
}

// Quaternion components are null when not finite.
type Quaternion struct {
	W     *float64 `json:"w"`
	X     *float64 `json:"x"`
	Y     *float64 `json:"y"`
	Z     *float64 `json:"z"`
	Valid bool     `json:"valid"`
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// NewMessage converts a poll result.
func NewMessage(res poller.PollResult) Message {
	m := Message{
		Target: res.Target,
		At:     res.At.UTC(),
	}
	if res.Err != nil {
		m.Error = res.Err.Error()
		return m
	}

	m.Values = make(map[string]*float64, len(res.Reading.Values))
	for k, v := range res.Reading.Values {
		m.Values[k] = finite(v)
	}

	if len(res.Reading.Missing) > 0 {
		m.Missing = append([]string(nil), res.Reading.Missing...)
		sort.Strings(m.Missing)
	}

	if q := res.Reading.Quaternion; q != nil {
		m.Quaternion = &Quaternion{
			W:     finite(q.W),
			X:     finite(q.X),
			Y:     finite(q.Y),
			Z:     finite(q.Z),
			Valid: q.Valid,
		}
	}

	v := res.Verdict
	m.Verdict = &v
	return m
}
