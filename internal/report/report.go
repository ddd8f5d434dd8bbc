// internal/report/report.go
package report

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/tamzrod/motor-telemetry/internal/health"
	"github.com/tamzrod/motor-telemetry/internal/telemetry"
)

// printer keeps the first write error so callers check once.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.6f", v)
}

// Values writes one "name: value" line per measurement, sorted by name.
func Values(w io.Writer, m health.Measurements) error {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)

	p := &printer{w: w}
	for _, n := range names {
		p.printf("%s: %s\n", n, formatValue(m[n]))
	}
	return p.err
}

// Verdict writes one line per check followed by the overall outcome.
func Verdict(w io.Writer, v health.Verdict) error {
	p := &printer{w: w}
	for _, c := range v.Checks {
		switch c.Status {
		case health.Pass:
			p.printf("PASS: %s %s.\n", c.Name, c.Reason)
		case health.Fail:
			p.printf("ERROR: %s %s!\n", c.Name, c.Reason)
		case health.Skipped:
			p.printf("SKIP: %s\n", c.Name)
		}
	}

	p.printf("\nOverall health check:\n")
	if v.Passed {
		p.printf("SUCCESS: All health checks passed!\n")
	} else {
		p.printf("FAILURE: One or more health checks failed!\n")
	}
	return p.err
}

// Quaternion writes the raw and converted components of one reading,
// then the reconstructed quaternion and any base channels.
func Quaternion(w io.Writer, l *telemetry.Layout, r telemetry.Reading) error {
	p := &printer{w: w}
	if l.Quaternion == nil {
		return nil
	}

	var sumSquares float64
	for _, n := range l.Quaternion.Names() {
		v, ok := r.Values[n]
		if !ok {
			continue
		}
		b, _ := l.Binding(n)
		raw := uint16(r.Raw.Int(b.Address, 0) & 0xFFFF)
		p.printf("%s: raw=0x%04x value=%s\n", n, raw, formatValue(v))
		sumSquares += v * v
	}
	p.printf("sum of squares: %.6f\n", sumSquares)

	if q := r.Quaternion; q != nil {
		if q.Valid {
			p.printf("quaternion [w, x, y, z]: %s\n", q)
		} else {
			p.printf("quaternion invalid (sum of squares %.6f > 1)\n", q.SumSquares)
		}
	}

	for _, n := range l.Base {
		if v, ok := r.Values[n]; ok {
			p.printf("%s: %s\n", n, formatValue(v))
		}
	}
	return p.err
}
