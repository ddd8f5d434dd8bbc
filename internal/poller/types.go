// internal/poller/types.go
package poller

import (
	"time"

	"github.com/tamzrod/motor-telemetry/internal/health"
	"github.com/tamzrod/motor-telemetry/internal/register"
	"github.com/tamzrod/motor-telemetry/internal/telemetry"
)

// PollResult is a snapshot produced by one poll cycle.
type PollResult struct {
	Target uint8
	At     time.Time
	Query  register.Query

	// Reading and Verdict are valid only when Err is nil.
	Reading telemetry.Reading
	Verdict health.Verdict

	Err error // non-nil means the query round-trip failed
}
