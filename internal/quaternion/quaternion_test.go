package quaternion

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReconstruct_ValidTriplesAreUnit(t *testing.T) {
	triples := [][3]float64{
		{0, 0, 0},
		{0.5, 0.5, 0.5},
		{0.1, -0.2, 0.3},
		{-0.7071, 0, 0.7071},
		{0.6, 0.8, 0},
		{0.57735, 0.57735, 0.57735},
	}

	for _, tr := range triples {
		x, y, z := tr[0], tr[1], tr[2]
		if x*x+y*y+z*z > 1 {
			continue
		}
		w, ok := Reconstruct(x, y, z)
		assert.True(t, ok, "triple %v", tr)
		assert.InDelta(t, 1.0, w*w+x*x+y*y+z*z, 1e-6, "triple %v", tr)
	}
}

func TestReconstruct_Grid(t *testing.T) {
	for x := -1.0; x <= 1.0; x += 0.125 {
		for y := -1.0; y <= 1.0; y += 0.125 {
			for z := -1.0; z <= 1.0; z += 0.125 {
				s := x*x + y*y + z*z
				w, ok := Reconstruct(x, y, z)
				if s > 1 {
					assert.False(t, ok)
					assert.Equal(t, 0.0, w)
					continue
				}
				assert.True(t, ok)
				assert.InDelta(t, 1.0, w*w+s, 1e-6)
			}
		}
	}
}

func TestReconstruct_Invalid(t *testing.T) {
	w, ok := Reconstruct(0.9, 0.9, 0.9)
	assert.False(t, ok)
	assert.Equal(t, 0.0, w)
}

func TestReconstruct_BoundaryIsValid(t *testing.T) {
	w, ok := Reconstruct(1.0, 0.0, 0.0)
	assert.True(t, ok)
	assert.Equal(t, 0.0, w)
}

func TestReconstruct_JustAboveBoundary(t *testing.T) {
	x := math.Nextafter(1.0, 2.0)
	_, ok := Reconstruct(x, 0, 0)
	assert.False(t, ok)
}

func TestReconstruct_NaN(t *testing.T) {
	w, ok := Reconstruct(math.NaN(), 0, 0)
	assert.False(t, ok)
	assert.Equal(t, 0.0, w)
}

func TestFromComponents(t *testing.T) {
	s := FromComponents(0.6, 0.0, 0.0)
	assert.True(t, s.Valid)
	assert.InDelta(t, 0.8, s.W, 1e-12)
	assert.InDelta(t, 0.36, s.SumSquares, 1e-12)
	assert.InDelta(t, 0.6, s.Magnitude(), 1e-12)
	assert.Equal(t, "[0.8000, 0.6000, 0.0000, 0.0000]", s.String())
}
