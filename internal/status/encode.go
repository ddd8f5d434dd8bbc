// internal/status/encode.go
package status

// Encode lays out the live slots of a snapshot. Reserved and name slots stay zero.
func Encode(s Snapshot) []uint16 {
	regs := make([]uint16, SlotsPerDevice)

	regs[SlotHealthCode] = s.Health
	regs[SlotLastErrorCode] = s.LastErrorCode
	regs[SlotSecondsInError] = s.SecondsInError
	regs[SlotFailedChecks] = s.FailedChecks
	regs[SlotCheckCount] = s.CheckCount

	return regs
}

// Block is Encode plus the device name registers.
func Block(s Snapshot, name []uint16) []uint16 {
	regs := Encode(s)
	copy(regs[SlotDeviceNameStart:SlotDeviceNameEnd+1], name)
	return regs
}

// EncodeName packs up to DeviceNameMaxChars characters, two per register,
// high byte first. Non-printable bytes become '?'. Short names are zero padded.
func EncodeName(name string) []uint16 {
	out := make([]uint16, SlotDeviceNameSlots)

	b := []byte(name)
	if len(b) > DeviceNameMaxChars {
		b = b[:DeviceNameMaxChars]
	}

	for i, c := range b {
		if c < 0x20 || c > 0x7E {
			c = '?'
		}
		if i%2 == 0 {
			out[i/2] |= uint16(c) << 8
		} else {
			out[i/2] |= uint16(c)
		}
	}
	return out
}
