package metrics

import (
	"math"

	"github.com/san-kum/dendrite/internal/dendrite"
)

// Reach is the distance from the origin to the farthest terminal.
type Reach struct {
	name string
	mean
}

func NewReach() *Reach {
	return &Reach{name: "reach"}
}

func (r *Reach) Name() string { return r.name }

func (r *Reach) Observe(f *dendrite.Forest) {
	far := 0.0
	for _, t := range f.Terminals {
		far = math.Max(far, f.Params.Origin.Dist(t.At))
	}
	r.add(far)
}

func (r *Reach) Value() float64 { return r.value() }

func (r *Reach) Reset() { r.reset() }

// Containment is the fraction of forests drawn entirely inside the square
// window [-extent, extent], control points included.
type Containment struct {
	name    string
	extent  float64
	escaped int
	samples int
}

func NewContainment(extent float64) *Containment {
	return &Containment{
		name:   "contained",
		extent: extent,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(f *dendrite.Forest) {
	c.samples++
	lo, hi := f.Bounds()
	for _, v := range []float64{lo.X, lo.Y, hi.X, hi.Y} {
		if math.Abs(v) > c.extent {
			c.escaped++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.escaped)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.escaped = 0
	c.samples = 0
}
