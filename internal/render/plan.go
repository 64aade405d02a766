package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/dendrite/internal/dendrite"
)

var ErrNoFrames = errors.New("render: frame count must be positive")

// Reveal selects when terminals and node dots appear during a replay.
type Reveal int

const (
	// RevealEdge shows a dot as soon as the edge it closes is drawn.
	RevealEdge Reveal = iota
	// RevealDepth stages dots by generation: the dot closing an edge of
	// depth d shows once DepthGate(progress, d, maxDepth) holds. Terminals
	// are gated on their leading edge, since their own depth of maxDepth+1
	// never passes the gate.
	RevealDepth
)

func (r Reveal) String() string {
	if r == RevealDepth {
		return "depth"
	}
	return "edge"
}

// ParseReveal accepts "edge" or "depth"; empty means edge.
func ParseReveal(s string) (Reveal, error) {
	switch s {
	case "", "edge":
		return RevealEdge, nil
	case "depth":
		return RevealDepth, nil
	}
	return RevealEdge, fmt.Errorf("render: unknown reveal %q (want edge or depth)", s)
}

// Frame is what one animation frame shows.
type Frame struct {
	Index    int
	Progress float64
	// Segments is a prefix of the forest's emission order.
	Segments  []dendrite.Segment
	Terminals []dendrite.Terminal
	Total     int
	MaxDepth  int
	Reveal    Reveal
}

// DotVisible reports whether the dot closing an edge of the given depth is
// shown in this frame.
func (fr Frame) DotVisible(depth int) bool {
	return fr.Reveal == RevealEdge || DepthGate(fr.Progress, depth, fr.MaxDepth)
}

type Plan struct {
	forest *dendrite.Forest
	frames int
	reveal Reveal
}

func NewPlan(f *dendrite.Forest, frames int) (*Plan, error) {
	if frames < 1 {
		return nil, ErrNoFrames
	}
	return &Plan{forest: f, frames: frames}, nil
}

func (p *Plan) Frames() int { return p.frames }

func (p *Plan) SetReveal(r Reveal) { p.reveal = r }

func (p *Plan) Forest() *dendrite.Forest { return p.forest }

// Progress maps frame k onto [0,1]. A single-frame plan shows everything.
func (p *Plan) Progress(k int) float64 {
	if p.frames == 1 {
		return 1
	}
	return math.Min(math.Max(float64(k)/float64(p.frames-1), 0), 1)
}

// Frame returns frame k of the plan. The prefix length is computed in
// integers so that frame k of n always shows floor(total*k/(n-1)) segments.
func (p *Plan) Frame(k int) Frame {
	total := len(p.forest.Segments)
	n := total
	if p.frames > 1 {
		n = min(max(total*k/(p.frames-1), 0), total)
	}
	fr := p.prefix(n, p.Progress(k))
	fr.Index = k
	return fr
}

func (p *Plan) prefix(n int, f float64) Frame {
	fr := Frame{
		Progress:  f,
		Segments:  p.forest.Segments[:n],
		Terminals: make([]dendrite.Terminal, 0),
		Total:     len(p.forest.Segments),
		MaxDepth:  p.forest.MaxDepth(),
		Reveal:    p.reveal,
	}
	for _, t := range p.forest.Terminals {
		if t.Segment < n && fr.DotVisible(t.Depth-1) {
			fr.Terminals = append(fr.Terminals, t)
		}
	}
	return fr
}

// DepthGate is the depth-staged reveal rule: an element at depth becomes
// visible once progress passes depth/(maxDepth+1).
func DepthGate(progress float64, depth, maxDepth int) bool {
	return progress > float64(depth)/float64(maxDepth+1)
}
