// internal/status/tracker.go
package status

import (
	"context"
	"net"

	"github.com/goburrow/modbus"
	"github.com/pkg/errors"

	"github.com/tamzrod/motor-telemetry/internal/health"
)

// Tracker owns the device status state between poll cycles.
// Not safe for concurrent use; one goroutine per device.
type Tracker struct {
	snap Snapshot
}

// NewTracker starts in HealthUnknown.
func NewTracker() *Tracker {
	return &Tracker{snap: Snapshot{Health: HealthUnknown}}
}

// Snapshot returns the current state.
func (t *Tracker) Snapshot() Snapshot {
	return t.snap
}

// Observe folds one poll outcome in and reports whether anything changed.
// seconds_in_error is reset on a passing verdict and only advanced by Tick.
func (t *Tracker) Observe(err error, v health.Verdict) (Snapshot, bool) {
	next := t.snap

	if err != nil {
		next.Health = HealthError
		next.LastErrorCode = ErrorCode(err)
		// verdict of a failed round-trip is meaningless; keep the last mask
	} else {
		fromVerdict := FromVerdict(v)
		next.Health = fromVerdict.Health
		next.FailedChecks = fromVerdict.FailedChecks
		next.CheckCount = fromVerdict.CheckCount
		next.LastErrorCode = 0
		if next.Health == HealthOK {
			next.SecondsInError = 0
		}
	}

	changed := next != t.snap
	t.snap = next
	return next, changed
}

// Tick advances seconds_in_error while not OK. Call at 1 Hz.
// Saturates at 65535.
func (t *Tracker) Tick() (Snapshot, bool) {
	if t.snap.Health == HealthOK || t.snap.Health == HealthUnknown {
		return t.snap, false
	}
	if t.snap.SecondsInError == 65535 {
		return t.snap, false
	}
	t.snap.SecondsInError++
	return t.snap, true
}

// Codes written to SlotLastErrorCode. Modbus exceptions keep their own
// code (1-255); everything else lands in 0x01xx.
const (
	ErrorCodeGeneric  uint16 = 0x0100
	ErrorCodeTimeout  uint16 = 0x0101
	ErrorCodeCanceled uint16 = 0x0102
)

// ErrorCode maps a poll error to its status code. nil maps to 0.
func ErrorCode(err error) uint16 {
	if err == nil {
		return 0
	}

	var me *modbus.ModbusError
	if errors.As(err, &me) {
		return uint16(me.ExceptionCode)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorCodeTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return ErrorCodeTimeout
	}
	if errors.Is(err, context.Canceled) {
		return ErrorCodeCanceled
	}

	return ErrorCodeGeneric
}
