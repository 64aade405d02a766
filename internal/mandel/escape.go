package mandel

import (
	"math"
	"math/cmplx"
)

// Region within the complex plane.
type Region struct {
	Xmin, Xmax float64
	Ymin, Ymax float64
}

// View returns the region of half-size (1.6z, 1.5z) around (cx, cy).
// At z=1 and centre (-0.4, 0) this is the classic [-2,1.2]x[-1.5,1.5] view.
func View(cx, cy, z float64) Region {
	return Region{
		Xmin: cx - 1.6*z,
		Xmax: cx + 1.6*z,
		Ymin: cy - 1.5*z,
		Ymax: cy + 1.5*z,
	}
}

// Escape returns the smooth iteration count at which z -> z^2 + c leaves
// the radius-2 disc, or maxIter if it never does.
func Escape(c complex128, maxIter int) float64 {
	z := complex(0, 0)
	for i := 0; i < maxIter; i++ {
		z = z*z + c
		if real(z)*real(z)+imag(z)*imag(z) > 4 {
			mu := float64(i) + 1 - math.Log(math.Log(cmplx.Abs(z)))/math.Log(2)
			return math.Max(mu, 0)
		}
	}
	return float64(maxIter)
}
