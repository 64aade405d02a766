package dendrite

import (
	"context"
	"fmt"
	"math/rand"

	"golang.org/x/sync/errgroup"
)

type rootResult struct {
	heading float64
	segs    []Segment
	terms   []Terminal
}

// GrowForestParallel grows each root on its own goroutine. Root i draws from
// a source seeded with seed+i, so the result depends only on seed.
func GrowForestParallel(ctx context.Context, fp ForestParams, seed int64) (*Forest, error) {
	if err := fp.Validate(); err != nil {
		return nil, err
	}

	results := make([]rootResult, fp.Roots)
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < fp.Roots; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewSource(seed + int64(i)))
			heading := BaseHeading(i, fp.Roots) + Range{-fp.Jitter, fp.Jitter}.sample(rng)
			segs, terms, err := Grow(rng, fp.Origin, heading, i, fp.Tree)
			if err != nil {
				return fmt.Errorf("root %d: %w", i, err)
			}
			results[i] = rootResult{heading: heading, segs: segs, terms: terms}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	f := &Forest{Params: fp, Roots: make([]Root, 0, fp.Roots)}
	for i, r := range results {
		f.add(i, r.heading, r.segs, r.terms)
	}
	return f, nil
}
