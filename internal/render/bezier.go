package render

import "github.com/san-kum/dendrite/internal/dendrite"

// DefaultSamples is the number of points used to draw one curve.
const DefaultSamples = 20

// Bezier evaluates the quadratic curve of s at t in [0,1].
func Bezier(s dendrite.Segment, t float64) dendrite.Point {
	u := 1 - t
	a, b, c := u*u, 2*u*t, t*t
	return dendrite.Point{
		X: a*s.Start.X + b*s.Control.X + c*s.End.X,
		Y: a*s.Start.Y + b*s.Control.Y + c*s.End.Y,
	}
}

// Sample returns n evenly spaced points along s, ends included.
func Sample(s dendrite.Segment, n int) []dendrite.Point {
	if n < 2 {
		n = 2
	}
	pts := make([]dendrite.Point, n)
	for i := range pts {
		pts[i] = Bezier(s, float64(i)/float64(n-1))
	}
	pts[0], pts[n-1] = s.Start, s.End
	return pts
}
