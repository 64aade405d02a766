package dendrite_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/dendrite/internal/dendrite"
)

func childrenOf(segs []dendrite.Segment) map[int][]int {
	kids := make(map[int][]int)
	for i, s := range segs {
		kids[s.Parent] = append(kids[s.Parent], i)
	}
	return kids
}

var _ = Describe("Grow", func() {
	var p dendrite.Params

	BeforeEach(func() {
		p = dendrite.DefaultParams()
		p.MaxSpread = math.Pi / 4
		p.BaseLength = 1.0
	})

	grow := func(seed int64) ([]dendrite.Segment, []dendrite.Terminal) {
		segs, terms, err := dendrite.Grow(rand.New(rand.NewSource(seed)), dendrite.Point{}, 0, 0, p)
		Expect(err).NotTo(HaveOccurred())
		return segs, terms
	}

	Context("with max depth 2", func() {
		BeforeEach(func() { p.MaxDepth = 2 })

		It("fans out two or three ways at every level", func() {
			for seed := int64(0); seed < 20; seed++ {
				segs, terms := grow(seed)
				kids := childrenOf(segs)

				Expect(len(kids[-1])).To(BeNumerically(">=", 2))
				Expect(len(kids[-1])).To(BeNumerically("<=", 3))
				for i, s := range segs {
					if s.Depth == p.MaxDepth {
						Expect(kids).NotTo(HaveKey(i))
						continue
					}
					Expect(len(kids[i])).To(BeNumerically(">=", 2))
					Expect(len(kids[i])).To(BeNumerically("<=", 3))
				}

				Expect(len(terms)).To(BeNumerically(">=", 8))
				Expect(len(terms)).To(BeNumerically("<=", 27))
				for _, t := range terms {
					Expect(t.Depth).To(Equal(3))
				}
			}
		})
	})

	Context("with max depth 1", func() {
		BeforeEach(func() { p.MaxDepth = 1 })

		It("ends in four to nine terminals", func() {
			for seed := int64(0); seed < 20; seed++ {
				_, terms := grow(seed)
				Expect(len(terms)).To(BeNumerically(">=", 4))
				Expect(len(terms)).To(BeNumerically("<=", 9))
			}
		})
	})

	Context("with the default depth", func() {
		It("chains every segment onto its parent's end", func() {
			segs, _ := grow(42)
			for _, s := range segs {
				if s.Parent < 0 {
					Expect(s.Depth).To(Equal(0))
					Expect(s.Start).To(Equal(dendrite.Point{}))
					continue
				}
				Expect(s.Start).To(Equal(segs[s.Parent].End))
			}
		})

		It("emits segments in pre-order", func() {
			segs, _ := grow(42)
			for b, sb := range segs {
				for a := 0; a < b; a++ {
					if segs[a].End == sb.Start {
						Expect(segs[a].Depth).To(BeNumerically("<", sb.Depth))
					}
				}
			}
		})

		It("produces one terminal per leaf edge", func() {
			segs, terms := grow(42)
			kids := childrenOf(segs)
			leaves := 0
			for i := range segs {
				if _, ok := kids[i]; !ok {
					leaves++
				}
			}
			Expect(terms).To(HaveLen(leaves))
			for _, t := range terms {
				Expect(t.Depth).To(BeNumerically(">", p.MaxDepth))
			}
		})

		It("keeps each child within the spread of its parent heading", func() {
			segs, _ := grow(7)
			for _, s := range segs {
				if s.Parent < 0 {
					continue
				}
				parent := segs[s.Parent]
				ph := math.Atan2(parent.End.Y-parent.Start.Y, parent.End.X-parent.Start.X)
				ch := math.Atan2(s.End.Y-s.Start.Y, s.End.X-s.Start.X)
				diff := math.Remainder(ch-ph, 2*math.Pi)
				Expect(math.Abs(diff)).To(BeNumerically("<=", p.MaxSpread+1e-9))
			}
		})
	})
})

var _ = Describe("GrowForest", func() {
	It("spaces four unjittered roots a quarter turn apart", func() {
		fp := dendrite.DefaultForestParams()
		fp.Jitter = 0
		fp.Tree.MaxDepth = 0

		f, err := dendrite.GrowForest(rand.New(rand.NewSource(11)), fp)
		Expect(err).NotTo(HaveOccurred())
		headings := make([]float64, 0, len(f.Roots))
		for _, r := range f.Roots {
			headings = append(headings, r.Heading)
		}
		Expect(headings).To(Equal([]float64{0, math.Pi / 2, math.Pi, 3 * math.Pi / 2}))
	})

	It("keeps jittered headings near their slot", func() {
		fp := dendrite.DefaultForestParams()
		f, err := dendrite.GrowForest(rand.New(rand.NewSource(12)), fp)
		Expect(err).NotTo(HaveOccurred())
		for i, r := range f.Roots {
			Expect(r.Heading).To(BeNumerically("~", dendrite.BaseHeading(i, fp.Roots), fp.Jitter))
		}
	})

	It("passes its own structural check", func() {
		f, err := dendrite.GrowForest(rand.New(rand.NewSource(13)), dendrite.DefaultForestParams())
		Expect(err).NotTo(HaveOccurred())
		Expect(f.Check()).To(Succeed())
	})

	It("rejects a forest without roots before growing anything", func() {
		fp := dendrite.DefaultForestParams()
		fp.Roots = 0
		_, err := dendrite.GrowForest(rand.New(rand.NewSource(1)), fp)
		Expect(err).To(MatchError(dendrite.ErrInvalidRoots))
	})

	It("matches between sequential seeds only when seeds match", func() {
		fp := dendrite.DefaultForestParams()
		fp.Tree.MaxDepth = 4
		a, _ := dendrite.GrowForest(rand.New(rand.NewSource(1)), fp)
		b, _ := dendrite.GrowForest(rand.New(rand.NewSource(1)), fp)
		c, _ := dendrite.GrowForest(rand.New(rand.NewSource(2)), fp)
		Expect(a).To(Equal(b))
		Expect(a.Segments).NotTo(Equal(c.Segments))
	})
})
