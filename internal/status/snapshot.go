// internal/status/snapshot.go
package status

import "github.com/tamzrod/motor-telemetry/internal/health"

// Snapshot represents exactly what the writer is allowed to deliver.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	Health         uint16
	LastErrorCode  uint16
	SecondsInError uint16
	FailedChecks   uint16
	CheckCount     uint16
}

// FromVerdict fills health, failed-check mask and check count from a verdict.
// Skipped checks keep their bit position but are never set.
// Checks beyond MaxTrackedChecks are counted but not masked.
func FromVerdict(v health.Verdict) Snapshot {
	s := Snapshot{Health: HealthOK}

	for i, c := range v.Checks {
		if c.Status == health.Skipped {
			continue
		}
		s.CheckCount++
		if c.Status == health.Fail && i < MaxTrackedChecks {
			s.FailedChecks |= 1 << uint(i)
		}
	}
	if !v.Passed {
		s.Health = HealthDegraded
	}
	return s
}
