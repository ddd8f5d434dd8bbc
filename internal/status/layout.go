// internal/status/layout.go
package status

// Status block geometry. One block of SlotsPerDevice holding registers per
// device, addressed as BaseSlot * SlotsPerDevice. Fixed on the wire.
const (
	SlotsPerDevice = 20

	SlotHealthCode     = 0
	SlotLastErrorCode  = 1
	SlotSecondsInError = 2
	SlotFailedChecks   = 3 // bit i set when check i failed
	SlotCheckCount     = 4 // checks that took part in the verdict

	SlotReservedStart = 5
	SlotReservedEnd   = 10

	// device name sits at the end: 16 ASCII chars, two per register
	SlotDeviceNameStart = 11
	SlotDeviceNameSlots = 8
	SlotDeviceNameEnd   = SlotDeviceNameStart + SlotDeviceNameSlots - 1
	DeviceNameMaxChars  = 2 * SlotDeviceNameSlots

	MaxTrackedChecks = 16

	// highest base slot whose whole block fits the 16-bit address space
	MaxSlot = 65536/SlotsPerDevice - 1
)

// Health codes for SlotHealthCode.
const (
	HealthUnknown  uint16 = 0 // boot, nothing polled yet
	HealthOK       uint16 = 1 // answered and every check passed
	HealthError    uint16 = 2 // query round-trip failed
	HealthDegraded uint16 = 5 // answered but a check failed; 3 and 4 stay unassigned
)
