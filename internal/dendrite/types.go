package dendrite

import (
	"math"
)

// MaxDepthLimit bounds recursion. Output grows up to 3^(depth+1) edges per root.
const MaxDepthLimit = 12

// RootKeyStride separates the color keys of neighbouring roots.
const RootKeyStride = 10

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) Add(dx, dy float64) Point { return Point{p.X + dx, p.Y + dy} }

// Polar returns the point length units away along angle (radians).
func (p Point) Polar(angle, length float64) Point {
	return Point{p.X + length*math.Cos(angle), p.Y + length*math.Sin(angle)}
}

func (p Point) Dist(q Point) float64 { return math.Hypot(q.X-p.X, q.Y-p.Y) }

func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Segment is one edge of a tree, drawn as a quadratic Bézier curve
// from Start through Control to End.
type Segment struct {
	Start    Point `json:"start"`
	Control  Point `json:"control"`
	End      Point `json:"end"`
	ColorKey int   `json:"color_key"`
	// Depth is the generation of the node this edge grows from.
	Depth int `json:"depth"`
	// Parent indexes the segment ending at Start, or -1 for root edges.
	Parent int `json:"parent"`
}

// Length is the chord length, not the arc length.
func (s Segment) Length() float64 { return s.Start.Dist(s.End) }

// Terminal marks a leaf where recursion stopped.
type Terminal struct {
	At       Point `json:"at"`
	ColorKey int   `json:"color_key"`
	Depth    int   `json:"depth"`
	// Segment indexes the edge that leads into this leaf.
	Segment int `json:"segment"`
}

// Source is the random stream threaded through generation.
// *rand.Rand satisfies it.
type Source interface {
	Float64() float64
	Intn(n int) int
}

// Range is a closed sampling interval.
type Range struct {
	Min, Max float64
}

func (r Range) sample(rng Source) float64 {
	return r.Min + (r.Max-r.Min)*rng.Float64()
}

func (r Range) valid() bool {
	return !math.IsNaN(r.Min) && !math.IsNaN(r.Max) && !math.IsInf(r.Min, 0) && !math.IsInf(r.Max, 0) && r.Min <= r.Max
}

// Params shapes a single tree.
type Params struct {
	MaxDepth   int
	BaseLength float64
	// MaxSpread is the largest heading deviation of a child from its parent.
	MaxSpread float64

	MinBranches  int
	MaxBranches  int
	LengthFactor Range
	// ControlSpread is the heading deviation of the Bézier control point.
	ControlSpread float64
	ControlLength Range
	Decay         float64
}

func DefaultParams() Params {
	return Params{
		MaxDepth:      7,
		BaseLength:    1.0,
		MaxSpread:     math.Pi / 4,
		MinBranches:   2,
		MaxBranches:   3,
		LengthFactor:  Range{0.7, 1.1},
		ControlSpread: 0.5,
		ControlLength: Range{0.3, 0.7},
		Decay:         0.8,
	}
}

// Validate rejects parameters that cannot produce a finite tree.
func (p Params) Validate() error {
	switch {
	case p.MaxDepth < 0:
		return paramErr("max_depth", float64(p.MaxDepth), ErrInvalidDepth)
	case p.MaxDepth > MaxDepthLimit:
		return paramErr("max_depth", float64(p.MaxDepth), ErrDepthLimit)
	case !positive(p.BaseLength):
		return paramErr("base_length", p.BaseLength, ErrInvalidLength)
	case !nonNegative(p.MaxSpread):
		return paramErr("max_spread", p.MaxSpread, ErrInvalidAngle)
	case p.MinBranches < 1 || p.MaxBranches < p.MinBranches:
		return paramErr("min_branches", float64(p.MinBranches), ErrInvalidBranching)
	case !p.LengthFactor.valid() || p.LengthFactor.Min <= 0:
		return paramErr("length_factor", p.LengthFactor.Min, ErrInvalidRange)
	case !nonNegative(p.ControlSpread):
		return paramErr("control_spread", p.ControlSpread, ErrInvalidAngle)
	case !p.ControlLength.valid() || p.ControlLength.Min < 0:
		return paramErr("control_length", p.ControlLength.Min, ErrInvalidRange)
	case !positive(p.Decay):
		return paramErr("decay", p.Decay, ErrInvalidLength)
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func nonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}
