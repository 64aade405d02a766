package dendrite

import (
	"fmt"
	"math"
)

// ForestParams configures the multi-root driver.
type ForestParams struct {
	Tree   Params
	Roots  int
	Origin Point
	// Jitter is the largest random offset added to each evenly spaced root heading.
	Jitter float64
}

func DefaultForestParams() ForestParams {
	return ForestParams{
		Tree:   DefaultParams(),
		Roots:  4,
		Jitter: 0.2,
	}
}

func (fp ForestParams) Validate() error {
	if fp.Roots < 1 {
		return paramErr("roots", float64(fp.Roots), ErrInvalidRoots)
	}
	if !nonNegative(fp.Jitter) {
		return paramErr("jitter", fp.Jitter, ErrInvalidAngle)
	}
	if !fp.Origin.IsFinite() {
		return fmt.Errorf("origin %v: %w", fp.Origin, ErrInvalidRange)
	}
	return fp.Tree.Validate()
}

// Root records where one tree of a forest starts.
type Root struct {
	Index   int
	Heading float64
	// First and Count delimit the root's subtree in Forest.Segments.
	First, Count int
}

// Forest is the eagerly built, replayable output of the multi-root driver.
type Forest struct {
	Params    ForestParams
	Roots     []Root
	Segments  []Segment
	Terminals []Terminal
}

// BaseHeading returns the evenly spaced heading of root i out of n.
func BaseHeading(i, n int) float64 {
	return float64(i) * 2 * math.Pi / float64(n)
}

// GrowForest grows fp.Roots trees from a shared origin, drawing every random
// value from rng in root order.
func GrowForest(rng Source, fp ForestParams) (*Forest, error) {
	if err := fp.Validate(); err != nil {
		return nil, err
	}

	f := &Forest{Params: fp, Roots: make([]Root, 0, fp.Roots)}
	for i := 0; i < fp.Roots; i++ {
		heading := BaseHeading(i, fp.Roots) + Range{-fp.Jitter, fp.Jitter}.sample(rng)
		segs, terms, err := Grow(rng, fp.Origin, heading, i, fp.Tree)
		if err != nil {
			return nil, fmt.Errorf("root %d: %w", i, err)
		}
		f.add(i, heading, segs, terms)
	}
	return f, nil
}

// add appends one root's output, shifting its indices past what is already there.
func (f *Forest) add(index int, heading float64, segs []Segment, terms []Terminal) {
	offset := len(f.Segments)
	f.Roots = append(f.Roots, Root{Index: index, Heading: heading, First: offset, Count: len(segs)})
	for _, s := range segs {
		if s.Parent >= 0 {
			s.Parent += offset
		}
		f.Segments = append(f.Segments, s)
	}
	for _, t := range terms {
		t.Segment += offset
		f.Terminals = append(f.Terminals, t)
	}
}

// MaxDepth is the tree depth limit the forest was grown with.
func (f *Forest) MaxDepth() int { return f.Params.Tree.MaxDepth }

// Check verifies the structural invariants every generated forest must hold:
// segments chain end-to-start, parents precede children with a smaller depth,
// and every leaf edge carries exactly one terminal.
func (f *Forest) Check() error {
	hasChild := make([]bool, len(f.Segments))
	leafTerms := make([]int, len(f.Segments))

	for i, s := range f.Segments {
		if s.Parent < 0 {
			if s.Depth != 0 {
				return fmt.Errorf("%w: root edge %d has depth %d", ErrBrokenInvariant, i, s.Depth)
			}
			if s.Start != f.Params.Origin {
				return fmt.Errorf("%w: root edge %d starts at %v, not origin", ErrBrokenInvariant, i, s.Start)
			}
			continue
		}
		if s.Parent >= i {
			return fmt.Errorf("%w: segment %d emitted before parent %d", ErrBrokenInvariant, i, s.Parent)
		}
		p := f.Segments[s.Parent]
		if p.End != s.Start {
			return fmt.Errorf("%w: segment %d does not start at parent end", ErrBrokenInvariant, i)
		}
		if p.Depth+1 != s.Depth {
			return fmt.Errorf("%w: segment %d depth %d under parent depth %d", ErrBrokenInvariant, i, s.Depth, p.Depth)
		}
		hasChild[s.Parent] = true
	}

	for i, t := range f.Terminals {
		if t.Segment < 0 || t.Segment >= len(f.Segments) {
			return fmt.Errorf("%w: terminal %d points at segment %d", ErrBrokenInvariant, i, t.Segment)
		}
		edge := f.Segments[t.Segment]
		if edge.End != t.At || edge.Depth+1 != t.Depth {
			return fmt.Errorf("%w: terminal %d detached from its edge", ErrBrokenInvariant, i)
		}
		if t.Depth <= f.MaxDepth() {
			return fmt.Errorf("%w: terminal %d at depth %d within max depth", ErrBrokenInvariant, i, t.Depth)
		}
		leafTerms[t.Segment]++
	}

	for i := range f.Segments {
		switch {
		case hasChild[i] && leafTerms[i] > 0:
			return fmt.Errorf("%w: segment %d is both inner and leaf", ErrBrokenInvariant, i)
		case !hasChild[i] && leafTerms[i] != 1:
			return fmt.Errorf("%w: leaf segment %d has %d terminals", ErrBrokenInvariant, i, leafTerms[i])
		}
	}
	return nil
}
