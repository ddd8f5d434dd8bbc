package status

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/goburrow/modbus"
	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/tamzrod/motor-telemetry/internal/health"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

var (
	passing = health.Verdict{Passed: true, Checks: []health.Check{{Name: "a", Status: health.Pass}}}
	failing = health.Verdict{Passed: false, Checks: []health.Check{{Name: "a", Status: health.Fail}}}
)

func TestTracker_StartsUnknownAndDoesNotTick(t *testing.T) {
	tr := NewTracker()
	assert.Equal(t, HealthUnknown, tr.Snapshot().Health)

	_, changed := tr.Tick()
	assert.False(t, changed)
}

func TestTracker_ErrorThenRecovery(t *testing.T) {
	tr := NewTracker()

	snap, changed := tr.Observe(fmt.Errorf("wrapped: %w", &modbus.ModbusError{FunctionCode: 3, ExceptionCode: 11}), health.Verdict{})
	assert.True(t, changed)
	assert.Equal(t, HealthError, snap.Health)
	assert.Equal(t, uint16(11), snap.LastErrorCode)

	_, changed = tr.Observe(errors.New("still down"), health.Verdict{})
	assert.True(t, changed, "error code changes to generic")

	for i := 0; i < 3; i++ {
		_, changed = tr.Tick()
		assert.True(t, changed)
	}
	assert.Equal(t, uint16(3), tr.Snapshot().SecondsInError)

	snap, changed = tr.Observe(nil, passing)
	assert.True(t, changed)
	assert.Equal(t, HealthOK, snap.Health)
	assert.Equal(t, uint16(0), snap.SecondsInError)
	assert.Equal(t, uint16(0), snap.LastErrorCode)

	_, changed = tr.Observe(nil, passing)
	assert.False(t, changed)
}

func TestTracker_DegradedTicks(t *testing.T) {
	tr := NewTracker()

	snap, _ := tr.Observe(nil, failing)
	assert.Equal(t, HealthDegraded, snap.Health)
	assert.Equal(t, uint16(1), snap.FailedChecks)

	snap, changed := tr.Tick()
	assert.True(t, changed)
	assert.Equal(t, uint16(1), snap.SecondsInError)
}

func TestTracker_TickSaturates(t *testing.T) {
	tr := NewTracker()
	tr.Observe(errors.New("x"), health.Verdict{})
	tr.snap.SecondsInError = 65535

	_, changed := tr.Tick()
	assert.False(t, changed)
	assert.Equal(t, uint16(65535), tr.Snapshot().SecondsInError)
}

func TestErrorCode(t *testing.T) {
	cases := map[string]struct {
		err  error
		want uint16
	}{
		"nil":              {nil, 0},
		"plain":            {errors.New("plain"), ErrorCodeGeneric},
		"modbus exception": {pkgerrors.Wrap(&modbus.ModbusError{FunctionCode: 3, ExceptionCode: 2}, "poller: query target 1"), 2},
		"deadline":         {pkgerrors.Wrap(context.DeadlineExceeded, "poller"), ErrorCodeTimeout},
		"net timeout":      {pkgerrors.Wrapf(timeoutErr{}, "modbus: read %s", "0x006"), ErrorCodeTimeout},
		"canceled":         {pkgerrors.Wrap(context.Canceled, "poller"), ErrorCodeCanceled},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, c.want, ErrorCode(c.err))
		})
	}
}
