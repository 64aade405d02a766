package dendrite

import (
	"fmt"
	"math"
)

// Grow builds one tree rooted at origin whose first edges point roughly
// along heading. Segments come back in pre-order; terminals in the order
// their leaves were reached.
func Grow(rng Source, origin Point, heading float64, rootIndex int, p Params) ([]Segment, []Terminal, error) {
	if err := p.Validate(); err != nil {
		return nil, nil, err
	}
	if !origin.IsFinite() {
		return nil, nil, fmt.Errorf("origin %v: %w", origin, ErrInvalidRange)
	}
	if math.IsNaN(heading) || math.IsInf(heading, 0) {
		return nil, nil, paramErr("heading", heading, ErrInvalidAngle)
	}
	g := grower{rng: rng, p: p}
	segs, terms := g.node(origin, heading, 0, p.BaseLength, rootIndex*RootKeyStride)
	return segs, terms, nil
}

type grower struct {
	rng Source
	p   Params
}

// node grows the subtree below one node. Parent and Segment indices in the
// returned slices are local: -1 refers to the edge that led into this node.
func (g grower) node(at Point, heading float64, depth int, length float64, key int) ([]Segment, []Terminal) {
	if depth > g.p.MaxDepth {
		return nil, []Terminal{{At: at, ColorKey: key, Depth: depth, Segment: -1}}
	}

	n := g.p.MinBranches
	if span := g.p.MaxBranches - g.p.MinBranches; span > 0 {
		n += g.rng.Intn(span + 1)
	}

	var segs []Segment
	var terms []Terminal
	for i := 0; i < n; i++ {
		theta := heading + g.spread(g.p.MaxSpread)
		l := length * g.p.LengthFactor.sample(g.rng)
		ctrlAngle := heading + g.spread(g.p.ControlSpread)
		ctrlLen := l * g.p.ControlLength.sample(g.rng)

		end := at.Polar(theta, l)
		base := len(segs)
		segs = append(segs, Segment{
			Start:    at,
			Control:  at.Polar(ctrlAngle, ctrlLen),
			End:      end,
			ColorKey: key,
			Depth:    depth,
			Parent:   -1,
		})

		childSegs, childTerms := g.node(end, theta, depth+1, length*g.p.Decay, key+1)
		segs = appendRebased(segs, childSegs, base)
		terms = appendTerminals(terms, childTerms, base)
	}
	return segs, terms
}

func (g grower) spread(max float64) float64 {
	return Range{-max, max}.sample(g.rng)
}

// appendRebased appends child segments grown below the edge at index edge.
// A local parent of -1 means that edge; other indices shift past it.
func appendRebased(dst, child []Segment, edge int) []Segment {
	offset := edge + 1
	for _, s := range child {
		if s.Parent < 0 {
			s.Parent = edge
		} else {
			s.Parent += offset
		}
		dst = append(dst, s)
	}
	return dst
}

func appendTerminals(dst, child []Terminal, edge int) []Terminal {
	offset := edge + 1
	for _, t := range child {
		if t.Segment < 0 {
			t.Segment = edge
		} else {
			t.Segment += offset
		}
		dst = append(dst, t)
	}
	return dst
}
