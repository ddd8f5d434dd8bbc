// internal/health/evaluator.go
package health

import (
	"fmt"
	"math"
	"sort"

	"github.com/pkg/errors"
)

const reasonNotAvailable = "reading not available"

// Evaluator applies a fixed rule set. Immutable after New.
type Evaluator struct {
	rules []Rule
	skip  map[string]bool
}

// New validates rules. skip lists rule names or groups to leave out.
func New(rules []Rule, skip ...string) (*Evaluator, error) {
	seen := make(map[string]bool, len(rules))
	for i, r := range rules {
		if r.Name == "" {
			return nil, errors.Errorf("health: rule %d: name required", i)
		}
		if seen[r.Name] {
			return nil, errors.Errorf("health: duplicate rule %q", r.Name)
		}
		seen[r.Name] = true

		if !r.Kind.valid() {
			return nil, errors.Errorf("health: rule %q: unknown kind %q", r.Name, r.Kind)
		}
		if r.Measurement == "" {
			return nil, errors.Errorf("health: rule %q: measurement required", r.Name)
		}
		if r.Kind == KindRange {
			if math.IsNaN(r.Bounds.Low) || math.IsNaN(r.Bounds.High) || r.Bounds.Low > r.Bounds.High {
				return nil, errors.Errorf("health: rule %q: invalid bounds %s", r.Name, r.Bounds)
			}
		}
	}

	sk := make(map[string]bool, len(skip))
	for _, s := range skip {
		sk[s] = true
	}

	return &Evaluator{
		rules: append([]Rule(nil), rules...),
		skip:  sk,
	}, nil
}

// Rules returns a copy of the configured rules.
func (e *Evaluator) Rules() []Rule {
	return append([]Rule(nil), e.rules...)
}

// Evaluate runs every rule against m. Missing keys count as NaN.
// Skipped rules are reported but do not take part in the verdict.
func (e *Evaluator) Evaluate(m Measurements) Verdict {
	v := Verdict{
		Checks: make([]Check, 0, len(e.rules)),
		Passed: true,
	}

	for _, r := range e.rules {
		c := Check{
			Name:        r.Name,
			Measurement: r.Measurement,
			Kind:        r.Kind,
		}

		if e.skip[r.Name] || (r.Group != "" && e.skip[r.Group]) {
			c.Status = Skipped
			v.Checks = append(v.Checks, c)
			continue
		}

		value, ok := m[r.Measurement]
		if !ok {
			value = math.NaN()
		}
		c.Value = value
		apply(r, &c)

		if c.Status == Fail {
			v.Passed = false
		}
		v.Checks = append(v.Checks, c)
	}

	return v
}

func apply(r Rule, c *Check) {
	if math.IsNaN(c.Value) {
		c.Status = Fail
		c.Reason = reasonNotAvailable
		if r.Hint != "" {
			c.Reason += "; " + r.Hint
		}
		return
	}

	switch r.Kind {
	case KindAvailable:
		c.Status = Pass

	case KindMagnitude:
		if c.Value == 0 {
			c.Status = Fail
			c.Reason = "values are all zero"
			return
		}
		c.Status = Pass
		c.Reason = "non-zero"

	case KindPosition:
		if c.Value == 0 {
			c.Status = Fail
			c.Suspicious = true
			c.Reason = "value is zero (maybe unlucky)"
			return
		}
		c.Status = Pass
		c.Reason = "non-zero"

	case KindRange:
		if !r.Bounds.Contains(c.Value) {
			c.Status = Fail
			c.Reason = fmt.Sprintf("%.2f outside normal range (%s)", c.Value, r.Bounds)
			return
		}
		c.Status = Pass
		c.Reason = fmt.Sprintf("within normal range (%s)", r.Bounds)
	}
}

// Evaluate applies one inclusive range check per threshold entry,
// in measurement-name order.
func Evaluate(decoded Measurements, thresholds map[string]Bounds) Verdict {
	names := make([]string, 0, len(thresholds))
	for n := range thresholds {
		names = append(names, n)
	}
	sort.Strings(names)

	rules := make([]Rule, 0, len(names))
	for _, n := range names {
		rules = append(rules, Rule{
			Name:        n,
			Kind:        KindRange,
			Measurement: n,
			Bounds:      thresholds[n],
		})
	}

	// Inverted bounds contain nothing, so such a check simply fails.
	e := &Evaluator{rules: rules, skip: map[string]bool{}}
	return e.Evaluate(decoded)
}
