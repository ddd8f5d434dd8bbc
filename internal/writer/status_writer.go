// internal/writer/status_writer.go
package writer

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/tamzrod/motor-telemetry/internal/status"
)

// deviceStatusWriter owns one device block in status memory.
// The first write, and the first write after any failure, asserts the whole
// block including the name; otherwise only changed slots are written.
type deviceStatusWriter struct {
	plan StatusPlan
	cli  endpointClient

	needFull bool
	last     status.Snapshot
	name     []uint16
}

// NewDeviceStatusWriter builds a status writer for one device block.
func NewDeviceStatusWriter(plan StatusPlan, cli endpointClient) *deviceStatusWriter {
	return &deviceStatusWriter{
		plan:     plan,
		cli:      cli,
		needFull: true,
		last:     status.Snapshot{Health: status.HealthUnknown},
		name:     status.EncodeName(plan.DeviceName),
	}
}

type slotWrite struct {
	name string
	slot uint16
	have *uint16
	want uint16
}

// WriteStatus delivers s verbatim.
func (sw *deviceStatusWriter) WriteStatus(s status.Snapshot) error {
	if sw == nil {
		return errors.New("status writer: disabled")
	}
	if sw.cli == nil {
		return errors.Errorf("status writer: no client for %s", sw.plan.Endpoint)
	}

	base := sw.plan.BaseSlot * status.SlotsPerDevice

	if sw.needFull {
		if err := sw.cli.WriteRegisters(sw.plan.UnitID, base, status.Block(s, sw.name)); err != nil {
			return errors.Wrap(err, "status writer: full block")
		}
		sw.needFull = false
		sw.last = s
		return nil
	}

	pending := []slotWrite{
		{"health", status.SlotHealthCode, &sw.last.Health, s.Health},
		{"last_error", status.SlotLastErrorCode, &sw.last.LastErrorCode, s.LastErrorCode},
		{"seconds_in_error", status.SlotSecondsInError, &sw.last.SecondsInError, s.SecondsInError},
		{"failed_checks", status.SlotFailedChecks, &sw.last.FailedChecks, s.FailedChecks},
		{"check_count", status.SlotCheckCount, &sw.last.CheckCount, s.CheckCount},
	}

	var failed []string
	for _, w := range pending {
		if *w.have == w.want {
			continue
		}
		if err := sw.cli.WriteRegisters(sw.plan.UnitID, base+w.slot, []uint16{w.want}); err != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", w.name, err))
			continue
		}
		*w.have = w.want
	}

	if len(failed) > 0 {
		// memory may now be partly stale
		sw.needFull = true
		return errors.Errorf("status writer: %s", strings.Join(failed, "; "))
	}
	return nil
}
