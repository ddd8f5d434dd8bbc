// internal/quaternion/quaternion.go
package quaternion

import (
	"fmt"
	"math"
)

// Reconstruct derives w of a unit quaternion from x, y, z.
// The boundary is strict: s == 1 is valid and yields w = 0.
// When s > 1 the triple cannot belong to a unit quaternion: w = 0, valid = false.
// A NaN component is treated the same way.
func Reconstruct(x, y, z float64) (w float64, valid bool) {
	s := x*x + y*y + z*z
	if s > 1.0 || math.IsNaN(s) {
		return 0.0, false
	}
	return math.Sqrt(1.0 - s), true
}

// Sample is one decoded orientation reading.
type Sample struct {
	W, X, Y, Z float64

	SumSquares float64 // x² + y² + z²
	Valid      bool
}

// FromComponents builds a sample, completing w.
func FromComponents(x, y, z float64) Sample {
	w, ok := Reconstruct(x, y, z)
	return Sample{
		W:          w,
		X:          x,
		Y:          y,
		Z:          z,
		SumSquares: x*x + y*y + z*z,
		Valid:      ok,
	}
}

// Magnitude is the norm of the vector part.
func (s Sample) Magnitude() float64 {
	return math.Sqrt(s.SumSquares)
}

// String prints in (w, x, y, z) order.
func (s Sample) String() string {
	return fmt.Sprintf("[%.4f, %.4f, %.4f, %.4f]", s.W, s.X, s.Y, s.Z)
}
