// Package dendrite grows fractal branch trees for replay animation.
//
// A tree is grown recursively from a root point. Every node that is not yet
// past the configured depth sprouts two or three children; each edge is a
// quadratic Bézier curve. The generator emits two flat sequences:
//
//   - [Segment]: one per edge, in pre-order (a parent always precedes its children)
//   - [Terminal]: one per leaf, where recursion stopped
//
// # Example
//
//	rng := rand.New(rand.NewSource(42))
//	forest, err := dendrite.GrowForest(rng, dendrite.DefaultForestParams())
//	if err != nil {
//	    return err
//	}
//	fmt.Println(len(forest.Segments), len(forest.Terminals))
//
// # Determinism
//
// All randomness comes from the [Source] passed in. The same seed always
// yields the same forest. [GrowForestParallel] gives every root its own
// source so its output does not depend on goroutine scheduling.
package dendrite
