package dendrite

import (
	"errors"
	"math"
	"math/rand"
	"reflect"
	"testing"
)

// fixedSource returns the same value for every draw.
type fixedSource struct {
	f float64
	n int
}

func (s fixedSource) Float64() float64 { return s.f }
func (s fixedSource) Intn(int) int     { return s.n }

func near(a, b float64) bool { return math.Abs(a-b) < 1e-12 }

func TestGrowMaxDepthZero(t *testing.T) {
	p := DefaultParams()
	p.MaxDepth = 0

	for seed := int64(0); seed < 25; seed++ {
		rng := rand.New(rand.NewSource(seed))
		segs, terms, err := Grow(rng, Point{}, 0, 0, p)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if len(segs) < 2 || len(segs) > 3 {
			t.Errorf("seed %d: expected 2 or 3 segments, got %d", seed, len(segs))
		}
		if len(terms) != len(segs) {
			t.Errorf("seed %d: expected %d terminals, got %d", seed, len(segs), len(terms))
		}
		for i, s := range segs {
			if s.Depth != 0 || s.Parent != -1 || s.Start != (Point{}) {
				t.Errorf("seed %d: segment %d is not a root edge: %+v", seed, i, s)
			}
		}
		for i, term := range terms {
			if term.Depth != 1 {
				t.Errorf("seed %d: terminal %d depth %d, want 1", seed, i, term.Depth)
			}
			if term.At != segs[term.Segment].End {
				t.Errorf("seed %d: terminal %d not at its edge end", seed, i)
			}
		}
	}
}

func TestGrowFixedSource(t *testing.T) {
	p := DefaultParams()
	p.MaxDepth = 1

	// 0.5 centres every symmetric spread, so the tree is a straight line.
	segs, terms, err := Grow(fixedSource{f: 0.5, n: 0}, Point{}, 0, 2, p)
	if err != nil {
		t.Fatalf("grow failed: %v", err)
	}

	if len(segs) != 6 {
		t.Fatalf("expected 6 segments, got %d", len(segs))
	}
	wantParents := []int{-1, 0, 0, -1, 3, 3}
	wantDepths := []int{0, 1, 1, 0, 1, 1}
	for i, s := range segs {
		if s.Parent != wantParents[i] {
			t.Errorf("segment %d: parent %d, want %d", i, s.Parent, wantParents[i])
		}
		if s.Depth != wantDepths[i] {
			t.Errorf("segment %d: depth %d, want %d", i, s.Depth, wantDepths[i])
		}
		if s.ColorKey != 20+s.Depth {
			t.Errorf("segment %d: color key %d, want %d", i, s.ColorKey, 20+s.Depth)
		}
	}

	root := segs[0]
	if !near(root.End.X, 0.9) || !near(root.End.Y, 0) {
		t.Errorf("root edge end = %v, want (0.9, 0)", root.End)
	}
	if !near(root.Control.X, 0.45) {
		t.Errorf("root control = %v, want (0.45, 0)", root.Control)
	}
	if !near(segs[1].End.X, 0.9+0.8*0.9) {
		t.Errorf("child end = %v, want x=%.3f", segs[1].End, 0.9+0.8*0.9)
	}

	wantTerms := []int{1, 2, 4, 5}
	if len(terms) != len(wantTerms) {
		t.Fatalf("expected %d terminals, got %d", len(wantTerms), len(terms))
	}
	for i, term := range terms {
		if term.Segment != wantTerms[i] {
			t.Errorf("terminal %d: segment %d, want %d", i, term.Segment, wantTerms[i])
		}
		if term.Depth != 2 || term.ColorKey != 22 {
			t.Errorf("terminal %d: depth %d key %d", i, term.Depth, term.ColorKey)
		}
	}
}

func TestGrowFixedBranchCount(t *testing.T) {
	p := DefaultParams()
	p.MaxDepth = 3
	p.MinBranches, p.MaxBranches = 3, 3

	segs, terms, err := Grow(rand.New(rand.NewSource(7)), Point{}, 1.0, 0, p)
	if err != nil {
		t.Fatalf("grow failed: %v", err)
	}
	// 3 + 9 + 27 + 81
	if len(segs) != 120 {
		t.Errorf("expected 120 segments, got %d", len(segs))
	}
	if len(terms) != 81 {
		t.Errorf("expected 81 terminals, got %d", len(terms))
	}
}

func TestGrowDeterministic(t *testing.T) {
	p := DefaultParams()
	p.MaxDepth = 5

	s1, t1, err := Grow(rand.New(rand.NewSource(42)), Point{1, -1}, 0.3, 1, p)
	if err != nil {
		t.Fatal(err)
	}
	s2, t2, err := Grow(rand.New(rand.NewSource(42)), Point{1, -1}, 0.3, 1, p)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(s1, s2) || !reflect.DeepEqual(t1, t2) {
		t.Error("same seed produced different trees")
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
		want   error
	}{
		{"negative depth", func(p *Params) { p.MaxDepth = -1 }, ErrInvalidDepth},
		{"depth over limit", func(p *Params) { p.MaxDepth = MaxDepthLimit + 1 }, ErrDepthLimit},
		{"zero length", func(p *Params) { p.BaseLength = 0 }, ErrInvalidLength},
		{"negative length", func(p *Params) { p.BaseLength = -1 }, ErrInvalidLength},
		{"NaN length", func(p *Params) { p.BaseLength = math.NaN() }, ErrInvalidLength},
		{"infinite length", func(p *Params) { p.BaseLength = math.Inf(1) }, ErrInvalidLength},
		{"negative spread", func(p *Params) { p.MaxSpread = -0.1 }, ErrInvalidAngle},
		{"no branches", func(p *Params) { p.MinBranches = 0 }, ErrInvalidBranching},
		{"inverted branches", func(p *Params) { p.MinBranches, p.MaxBranches = 3, 2 }, ErrInvalidBranching},
		{"inverted factor", func(p *Params) { p.LengthFactor = Range{1.1, 0.7} }, ErrInvalidRange},
		{"zero decay", func(p *Params) { p.Decay = 0 }, ErrInvalidLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			err := p.Validate()
			if !errors.Is(err, tt.want) {
				t.Fatalf("Validate() = %v, want %v", err, tt.want)
			}
			var pe *ParamError
			if !errors.As(err, &pe) || pe.Field == "" {
				t.Errorf("expected a ParamError naming the field, got %v", err)
			}

			if _, _, err := Grow(fixedSource{f: 0.5}, Point{}, 0, 0, p); !errors.Is(err, tt.want) {
				t.Errorf("Grow() = %v, want %v", err, tt.want)
			}
		})
	}

	if err := DefaultParams().Validate(); err != nil {
		t.Errorf("default params rejected: %v", err)
	}
}

func TestGrowRejectsBadHeading(t *testing.T) {
	_, _, err := Grow(fixedSource{f: 0.5}, Point{}, math.NaN(), 0, DefaultParams())
	if !errors.Is(err, ErrInvalidAngle) {
		t.Errorf("expected ErrInvalidAngle, got %v", err)
	}
}

func TestGrowForestHeadingsWithoutJitter(t *testing.T) {
	fp := DefaultForestParams()
	fp.Tree.MaxDepth = 1
	fp.Jitter = 0

	f, err := GrowForest(rand.New(rand.NewSource(1)), fp)
	if err != nil {
		t.Fatalf("grow forest failed: %v", err)
	}

	want := []float64{0, math.Pi / 2, math.Pi, 3 * math.Pi / 2}
	if len(f.Roots) != len(want) {
		t.Fatalf("expected %d roots, got %d", len(want), len(f.Roots))
	}
	for i, r := range f.Roots {
		if r.Heading != want[i] {
			t.Errorf("root %d heading = %v, want %v", i, r.Heading, want[i])
		}
	}
}

func TestGrowForestRootSpans(t *testing.T) {
	f, err := GrowForest(rand.New(rand.NewSource(3)), DefaultForestParams())
	if err != nil {
		t.Fatal(err)
	}
	next := 0
	for i, r := range f.Roots {
		if r.First != next {
			t.Errorf("root %d starts at %d, want %d", i, r.First, next)
		}
		for _, s := range f.Segments[r.First : r.First+r.Count] {
			if s.ColorKey/RootKeyStride != i {
				t.Errorf("root %d owns a segment keyed %d", i, s.ColorKey)
				break
			}
		}
		next += r.Count
	}
	if next != len(f.Segments) {
		t.Errorf("root spans cover %d of %d segments", next, len(f.Segments))
	}
	if err := f.Check(); err != nil {
		t.Errorf("check failed: %v", err)
	}
}

func TestGrowForestParallelDeterministic(t *testing.T) {
	fp := DefaultForestParams()
	fp.Tree.MaxDepth = 5

	a, err := GrowForestParallel(t.Context(), fp, 99)
	if err != nil {
		t.Fatal(err)
	}
	b, err := GrowForestParallel(t.Context(), fp, 99)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("parallel growth is not reproducible")
	}
	if err := a.Check(); err != nil {
		t.Errorf("check failed: %v", err)
	}
}

func TestCheckDetectsCorruption(t *testing.T) {
	fp := DefaultForestParams()
	fp.Tree.MaxDepth = 2

	tests := []struct {
		name   string
		mutate func(*Forest)
	}{
		{"moved start", func(f *Forest) { f.Segments[1].Start.X += 1 }},
		{"parent after child", func(f *Forest) { f.Segments[1].Parent = 5 }},
		{"lost terminal", func(f *Forest) { f.Terminals = f.Terminals[1:] }},
		{"shallow terminal", func(f *Forest) { f.Terminals[0].Depth = 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := GrowForest(rand.New(rand.NewSource(5)), fp)
			if err != nil {
				t.Fatal(err)
			}
			tt.mutate(f)
			if err := f.Check(); !errors.Is(err, ErrBrokenInvariant) {
				t.Errorf("Check() = %v, want ErrBrokenInvariant", err)
			}
		})
	}
}

func TestStats(t *testing.T) {
	fp := DefaultForestParams()
	fp.Roots = 1
	fp.Tree.MaxDepth = 1

	f, err := GrowForest(fixedSource{f: 0.5, n: 0}, fp)
	if err != nil {
		t.Fatal(err)
	}
	st := f.Stats()
	if st.Segments != 6 || st.Terminals != 4 || st.Roots != 1 {
		t.Errorf("unexpected totals: %+v", st)
	}
	hist := f.DepthHistogram()
	if !reflect.DeepEqual(hist, []int{2, 4}) {
		t.Errorf("histogram = %v, want [2 4]", hist)
	}
	if !near(st.PerDepth[0].MeanLength, 0.9) {
		t.Errorf("depth 0 mean length = %v, want 0.9", st.PerDepth[0].MeanLength)
	}

	lo, hi := f.Bounds()
	if !near(lo.X, 0) || !near(hi.X, 0.9+0.8*0.9) {
		t.Errorf("bounds = %v..%v", lo, hi)
	}
}
