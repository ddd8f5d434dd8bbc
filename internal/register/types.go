// internal/register/types.go
package register

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Address identifies a device register.
// Opaque beyond its numeric value.
type Address uint16

func (a Address) String() string {
	return fmt.Sprintf("0x%03x", uint16(a))
}

// WireType describes how a register value is encoded on the wire.
type WireType uint8

const (
	Invalid WireType = iota
	Int8
	Int16
	Int32
	Float32
)

// Size returns the encoded width in bytes.
func (t WireType) Size() int {
	switch t {
	case Int8:
		return 1
	case Int16:
		return 2
	case Int32, Float32:
		return 4
	default:
		return 0
	}
}

// Words returns the number of 16-bit transport words the value occupies.
// Int8 still occupies one full word.
func (t WireType) Words() uint16 {
	switch t {
	case Int8, Int16:
		return 1
	case Int32, Float32:
		return 2
	default:
		return 0
	}
}

// IsInteger reports whether raw values of this type are signed integers.
func (t WireType) IsInteger() bool {
	return t == Int8 || t == Int16 || t == Int32
}

func (t WireType) Valid() bool {
	return t >= Int8 && t <= Float32
}

func (t WireType) String() string {
	switch t {
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Float32:
		return "f32"
	default:
		return fmt.Sprintf("invalid(%d)", uint8(t))
	}
}

// ParseWireType accepts the text forms used in config files.
func ParseWireType(s string) (WireType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "int8", "i8":
		return Int8, nil
	case "int16", "i16":
		return Int16, nil
	case "int32", "i32":
		return Int32, nil
	case "f32", "float32", "float":
		return Float32, nil
	default:
		return Invalid, fmt.Errorf("register: unknown wire type %q", s)
	}
}

// UnmarshalYAML decodes a wire type from its text form.
func (t *WireType) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseWireType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalYAML encodes a wire type as its text form.
func (t WireType) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

// Request asks for one register decoded as one wire type.
type Request struct {
	Address Address
	Type    WireType
}
