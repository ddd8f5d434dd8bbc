// internal/writer/device_status_writer_test.go
package writer

import (
	"errors"
	"testing"

	cfg "github.com/tamzrod/motor-telemetry/internal/config"
	"github.com/tamzrod/motor-telemetry/internal/status"
)

// ---- fake endpoint client ----

type fakeEndpointClient struct {
	fail bool

	writes       int
	lastUnitID   uint8
	lastRegsAddr uint16
	lastRegs     []uint16
}

func (f *fakeEndpointClient) WriteRegisters(unitID uint8, addr uint16, regs []uint16) error {
	if f.fail {
		return errors.New("write failed")
	}
	f.writes++
	f.lastUnitID = unitID
	f.lastRegsAddr = addr
	f.lastRegs = append([]uint16(nil), regs...)
	return nil
}

func testPlan() StatusPlan {
	return StatusPlan{
		Endpoint:   "status-endpoint",
		UnitID:     1,
		BaseSlot:   2,
		DeviceName: "MOTEUS-01",
	}
}

// ---- tests ----

func TestDeviceNameWrittenOnFullAssertOnly(t *testing.T) {
	cli := &fakeEndpointClient{}
	plan := testPlan()
	sw := NewDeviceStatusWriter(plan, cli)

	// ---- first write: FULL ASSERT ----
	first := status.Snapshot{Health: status.HealthOK, CheckCount: 4}

	if err := sw.WriteStatus(first); err != nil {
		t.Fatalf("initial full assert failed: %v", err)
	}

	// Expect full block at slot base
	if len(cli.lastRegs) != status.SlotsPerDevice {
		t.Fatalf("expected full block write (%d regs), got %d", status.SlotsPerDevice, len(cli.lastRegs))
	}
	if cli.lastRegsAddr != plan.BaseSlot*status.SlotsPerDevice {
		t.Fatalf("unexpected base addr: %d", cli.lastRegsAddr)
	}
	if cli.lastRegs[status.SlotCheckCount] != 4 {
		t.Fatalf("check count not written: %d", cli.lastRegs[status.SlotCheckCount])
	}

	// Verify device name encoding EXACTLY
	expectedNameRegs := status.EncodeName(plan.DeviceName)
	for i := 0; i < status.SlotDeviceNameSlots; i++ {
		slot := status.SlotDeviceNameStart + i
		if cli.lastRegs[slot] != expectedNameRegs[i] {
			t.Fatalf("device name slot %d mismatch: got=%d want=%d", slot, cli.lastRegs[slot], expectedNameRegs[i])
		}
	}
	if expectedNameRegs[0] != uint16('M')<<8|uint16('O') {
		t.Fatalf("unexpected name encoding: 0x%04x", expectedNameRegs[0])
	}

	// ---- second write: INCREMENTAL ONLY ----
	second := status.Snapshot{Health: status.HealthDegraded, FailedChecks: 0b100, CheckCount: 4}

	if err := sw.WriteStatus(second); err != nil {
		t.Fatalf("incremental write failed: %v", err)
	}

	// Incremental update must NOT re-write full block
	if len(cli.lastRegs) == status.SlotsPerDevice {
		t.Fatalf("device name should not be rewritten on incremental update")
	}
	// health + failed_checks changed
	if cli.writes != 3 {
		t.Fatalf("expected 3 writes total, got %d", cli.writes)
	}
	if cli.lastRegsAddr != plan.BaseSlot*status.SlotsPerDevice+status.SlotFailedChecks {
		t.Fatalf("unexpected last write addr: %d", cli.lastRegsAddr)
	}
}

func TestSecondsInErrorResetOnRecovery(t *testing.T) {
	cli := &fakeEndpointClient{}
	plan := testPlan()
	sw := NewDeviceStatusWriter(plan, cli)

	// simulate ERROR
	errSnap := status.Snapshot{Health: status.HealthError, LastErrorCode: 42, SecondsInError: 3}
	if err := sw.WriteStatus(errSnap); err != nil {
		t.Fatalf("error snapshot write failed: %v", err)
	}

	// simulate recovery of seconds only
	okSnap := errSnap
	okSnap.SecondsInError = 0
	if err := sw.WriteStatus(okSnap); err != nil {
		t.Fatalf("recovery snapshot write failed: %v", err)
	}

	expectedAddr := plan.BaseSlot*status.SlotsPerDevice + status.SlotSecondsInError
	if cli.lastRegsAddr != expectedAddr {
		t.Fatalf("unexpected write addr: got=%d want=%d", cli.lastRegsAddr, expectedAddr)
	}
	if len(cli.lastRegs) != 1 || cli.lastRegs[0] != 0 {
		t.Fatalf("seconds_in_error not reset: %v", cli.lastRegs)
	}
}

func TestFailureForcesFullReassert(t *testing.T) {
	cli := &fakeEndpointClient{}
	sw := NewDeviceStatusWriter(testPlan(), cli)

	if err := sw.WriteStatus(status.Snapshot{Health: status.HealthOK}); err != nil {
		t.Fatalf("first write failed: %v", err)
	}

	cli.fail = true
	if err := sw.WriteStatus(status.Snapshot{Health: status.HealthError, LastErrorCode: 1}); err == nil {
		t.Fatalf("expected write error")
	}

	cli.fail = false
	if err := sw.WriteStatus(status.Snapshot{Health: status.HealthError, LastErrorCode: 1}); err != nil {
		t.Fatalf("write after failure: %v", err)
	}
	if len(cli.lastRegs) != status.SlotsPerDevice {
		t.Fatalf("expected full block after failure, got %d regs", len(cli.lastRegs))
	}
}

func TestBuildStatusPlan(t *testing.T) {
	if BuildStatusPlan(&cfg.Config{}) != nil {
		t.Fatalf("expected nil plan without status section")
	}

	p := BuildStatusPlan(&cfg.Config{Status: &cfg.StatusConfig{Endpoint: "ep:502", UnitID: 3, Slot: 1, DeviceName: "x"}})
	if p == nil || p.Endpoint != "ep:502" || p.UnitID != 3 || p.BaseSlot != 1 {
		t.Fatalf("unexpected plan: %+v", p)
	}
}

func TestBuildStatusWriter_Disabled(t *testing.T) {
	sw, closeFn, enabled, err := BuildStatusWriter(&cfg.Config{})
	if err != nil || enabled || sw != nil {
		t.Fatalf("expected disabled writer, got enabled=%v err=%v", enabled, err)
	}
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
