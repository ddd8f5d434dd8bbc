package response

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tamzrod/motor-telemetry/internal/register"
)

func TestGet_AbsentReturnsDefault(t *testing.T) {
	raw := Raw{}
	def := IntValue(register.Int16, 0)

	assert.Equal(t, def, Get(raw, 0x072, def))
}

func TestGet_Present(t *testing.T) {
	raw := Raw{0x050: FloatValue(0.5)}

	assert.Equal(t, FloatValue(0.5), Get(raw, 0x050, FloatValue(float32(math.NaN()))))
}

func TestInt(t *testing.T) {
	raw := Raw{
		0x072: IntValue(register.Int16, 0x3C00),
		0x050: FloatValue(0.5),
	}

	assert.Equal(t, int64(0x3C00), raw.Int(0x072, 0))
	assert.Equal(t, int64(7), raw.Int(0x073, 7), "absent")
	assert.Equal(t, int64(7), raw.Int(0x050, 7), "float-typed value is not reinterpreted")
}

func TestFloat(t *testing.T) {
	raw := Raw{
		0x00e: FloatValue(34.0),
		0x072: IntValue(register.Int16, 0x3C00),
	}

	assert.Equal(t, 34.0, raw.Float(0x00e, math.NaN()))
	assert.True(t, math.IsNaN(raw.Float(0x00a, math.NaN())), "absent")
	assert.True(t, math.IsNaN(raw.Float(0x072, math.NaN())), "int-typed value is not reinterpreted")
}

func TestLookup(t *testing.T) {
	raw := Raw{0x006: FloatValue(0.25)}

	v, ok := raw.Lookup(0x006)
	assert.True(t, ok)
	assert.Equal(t, float32(0.25), v.Float)

	_, ok = raw.Lookup(0x007)
	assert.False(t, ok)
}
