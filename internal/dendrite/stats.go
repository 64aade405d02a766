package dendrite

import "math"

// DepthStat summarises the segments grown at one depth.
type DepthStat struct {
	Depth      int
	Segments   int
	MeanLength float64
}

type Stats struct {
	Roots     int
	Segments  int
	Terminals int
	PerDepth  []DepthStat
}

// Stats aggregates segment counts and mean chord lengths per depth.
func (f *Forest) Stats() Stats {
	st := Stats{
		Roots:     len(f.Roots),
		Segments:  len(f.Segments),
		Terminals: len(f.Terminals),
		PerDepth:  make([]DepthStat, f.MaxDepth()+1),
	}
	sums := make([]float64, len(st.PerDepth))
	for _, s := range f.Segments {
		if s.Depth < 0 || s.Depth >= len(st.PerDepth) {
			continue
		}
		st.PerDepth[s.Depth].Segments++
		sums[s.Depth] += s.Length()
	}
	for d := range st.PerDepth {
		st.PerDepth[d].Depth = d
		if n := st.PerDepth[d].Segments; n > 0 {
			st.PerDepth[d].MeanLength = sums[d] / float64(n)
		}
	}
	return st
}

// DepthHistogram returns the number of segments at each depth.
func (f *Forest) DepthHistogram() []int {
	st := f.Stats()
	h := make([]int, len(st.PerDepth))
	for i, d := range st.PerDepth {
		h[i] = d.Segments
	}
	return h
}

// Bounds returns the bounding box of every point the forest draws,
// control points included.
func (f *Forest) Bounds() (lo, hi Point) {
	if len(f.Segments) == 0 {
		return f.Params.Origin, f.Params.Origin
	}
	lo = Point{math.Inf(1), math.Inf(1)}
	hi = Point{math.Inf(-1), math.Inf(-1)}
	grow := func(p Point) {
		lo.X, lo.Y = math.Min(lo.X, p.X), math.Min(lo.Y, p.Y)
		hi.X, hi.Y = math.Max(hi.X, p.X), math.Max(hi.Y, p.Y)
	}
	for _, s := range f.Segments {
		grow(s.Start)
		grow(s.Control)
		grow(s.End)
	}
	return lo, hi
}
