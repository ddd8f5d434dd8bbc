// internal/health/types.go
package health

import "fmt"

// Kind selects the predicate a rule applies.
type Kind string

const (
	// KindAvailable fails only when the reading is missing.
	KindAvailable Kind = "available"
	// KindMagnitude fails when the value is exactly zero.
	KindMagnitude Kind = "magnitude"
	// KindPosition fails when the value is exactly zero, flagged as suspicious.
	KindPosition Kind = "position"
	// KindRange fails outside the closed interval [Low, High].
	KindRange Kind = "range"
)

func (k Kind) valid() bool {
	switch k {
	case KindAvailable, KindMagnitude, KindPosition, KindRange:
		return true
	}
	return false
}

// Bounds is a closed interval.
type Bounds struct {
	Low  float64 `yaml:"low" json:"low"`
	High float64 `yaml:"high" json:"high"`
}

// Contains is inclusive at both ends.
func (b Bounds) Contains(v float64) bool {
	return v >= b.Low && v <= b.High
}

func (b Bounds) String() string {
	return fmt.Sprintf("%g-%g", b.Low, b.High)
}

// Rule binds one predicate to one named measurement.
type Rule struct {
	Name        string `yaml:"name"`
	Kind        Kind   `yaml:"kind"`
	Measurement string `yaml:"measurement"`
	Bounds      Bounds `yaml:"bounds"` // KindRange only
	Group       string `yaml:"group"`  // optional, e.g. "motor"; skippable as a unit
	Hint        string `yaml:"hint"`   // appended to "not available" reasons
}

// Status of a single check.
type Status uint8

const (
	Pass Status = iota
	Fail
	Skipped
)

func (s Status) String() string {
	switch s {
	case Pass:
		return "PASS"
	case Fail:
		return "FAIL"
	case Skipped:
		return "SKIP"
	default:
		return "UNKNOWN"
	}
}

// MarshalText keeps JSON verdicts readable.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Check is the outcome of one rule.
type Check struct {
	Name        string  `json:"name"`
	Measurement string  `json:"measurement"`
	Kind        Kind    `json:"kind"`
	Status      Status  `json:"status"`
	Value       float64 `json:"-"`
	Reason      string  `json:"reason,omitempty"`

	// Suspicious marks a failure on a legal but implausible value.
	Suspicious bool `json:"suspicious,omitempty"`
}

// Verdict aggregates every check performed in one evaluation.
type Verdict struct {
	Checks []Check `json:"checks"`
	Passed bool    `json:"passed"`
}

// Failed returns the failed checks in rule order.
func (v Verdict) Failed() []Check {
	var out []Check
	for _, c := range v.Checks {
		if c.Status == Fail {
			out = append(out, c)
		}
	}
	return out
}

// Check returns the named check.
func (v Verdict) Check(name string) (Check, bool) {
	for _, c := range v.Checks {
		if c.Name == name {
			return c, true
		}
	}
	return Check{}, false
}

// Measurements holds decoded values by name. NaN means "not available".
type Measurements map[string]float64
