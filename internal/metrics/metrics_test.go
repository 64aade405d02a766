package metrics

import (
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/dendrite/internal/dendrite"
)

// straight is one root, one branch per node, each edge along +x.
func straight(t *testing.T, depth int) *dendrite.Forest {
	t.Helper()
	fp := dendrite.DefaultForestParams()
	fp.Roots = 1
	fp.Jitter = 0
	fp.Tree.MaxDepth = depth
	fp.Tree.MinBranches, fp.Tree.MaxBranches = 1, 1
	fp.Tree.MaxSpread = 0
	fp.Tree.ControlSpread = 0
	fp.Tree.LengthFactor = dendrite.Range{Min: 1, Max: 1}
	fp.Tree.Decay = 1
	f, err := dendrite.GrowForest(rand.New(rand.NewSource(1)), fp)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestCounts(t *testing.T) {
	f := straight(t, 2)
	segs, terms := NewSegmentCount(), NewTerminalCount()
	segs.Observe(f)
	terms.Observe(f)
	if segs.Value() != 3 || terms.Value() != 1 {
		t.Errorf("segments %v terminals %v, want 3 and 1", segs.Value(), terms.Value())
	}

	segs.Observe(straight(t, 4))
	if segs.Value() != 4 {
		t.Errorf("mean segments = %v, want 4", segs.Value())
	}

	segs.Reset()
	if segs.Value() != 0 {
		t.Errorf("value after reset = %v", segs.Value())
	}
}

func TestMeanLengthAndReach(t *testing.T) {
	f := straight(t, 2)
	ml, reach := NewMeanLength(), NewReach()
	ml.Observe(f)
	reach.Observe(f)
	if math.Abs(ml.Value()-1) > 1e-12 {
		t.Errorf("mean length = %v, want 1", ml.Value())
	}
	if math.Abs(reach.Value()-3) > 1e-12 {
		t.Errorf("reach = %v, want 3", reach.Value())
	}
}

func TestContainment(t *testing.T) {
	c := NewContainment(2.5)
	if c.Value() != 1 {
		t.Errorf("empty containment = %v, want 1", c.Value())
	}
	c.Observe(straight(t, 1))
	c.Observe(straight(t, 3))
	if c.Value() != 0.5 {
		t.Errorf("containment = %v, want 0.5", c.Value())
	}
	c.Reset()
	if c.Value() != 1 {
		t.Errorf("containment after reset = %v", c.Value())
	}
}

func TestDefaultNames(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Default(3) {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %s", m.Name())
		}
		seen[m.Name()] = true
	}
	if len(seen) != 5 {
		t.Errorf("expected 5 metrics, got %d", len(seen))
	}
}
