package sweep

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/dendrite/internal/config"
	"github.com/san-kum/dendrite/internal/dendrite"
	"github.com/san-kum/dendrite/internal/metrics"
)

var ErrUnknownParam = errors.New("sweep: unknown parameter")

// Params lists the forest settings a sweep can vary.
var Params = []string{"roots", "max_depth", "base_length", "spread", "jitter", "min_branches", "max_branches", "decay"}

// Apply sets one named forest setting. Integer settings are rounded.
func Apply(fc *config.ForestConfig, param string, v float64) error {
	switch param {
	case "roots":
		fc.Roots = int(math.Round(v))
	case "max_depth":
		fc.MaxDepth = int(math.Round(v))
	case "base_length":
		fc.BaseLength = v
	case "spread":
		fc.Spread = v
	case "jitter":
		fc.Jitter = v
	case "min_branches":
		fc.MinBranches = int(math.Round(v))
	case "max_branches":
		fc.MaxBranches = int(math.Round(v))
	case "decay":
		fc.Decay = v
	default:
		return fmt.Errorf("%w: %q", ErrUnknownParam, param)
	}
	return nil
}

// Axis is one swept setting, evenly spaced from Min to Max inclusive.
type Axis struct {
	Param    string
	Min, Max float64
	Steps    int
}

func (a Axis) Values() []float64 {
	if a.Steps <= 1 {
		return []float64{a.Min}
	}
	out := make([]float64, a.Steps)
	step := (a.Max - a.Min) / float64(a.Steps-1)
	for i := range out {
		out[i] = a.Min + float64(i)*step
	}
	out[a.Steps-1] = a.Max
	return out
}

// Point is one grid cell: the swept values and the metric means over its trials.
type Point struct {
	Values  map[string]float64
	Metrics map[string]float64
	Trials  int
}

// Grid grows trials forests, seeded base.Seed+i, for every combination of
// axis values and summarizes each combination with newMetrics. Points come
// back with the first axis varying slowest.
func Grid(ctx context.Context, base *config.Config, axes []Axis, trials int, newMetrics func() []metrics.Metric) ([]Point, error) {
	if trials < 1 {
		return nil, fmt.Errorf("sweep: trials must be positive, got %d", trials)
	}
	for _, a := range axes {
		var probe config.ForestConfig
		if err := Apply(&probe, a.Param, 0); err != nil {
			return nil, err
		}
	}

	var points []Point
	err := walk(axes, map[string]float64{}, func(values map[string]float64) error {
		cfg := *base
		for p, v := range values {
			Apply(&cfg.Forest, p, v)
		}
		ms, err := evaluate(ctx, &cfg, trials, newMetrics())
		if err != nil {
			return fmt.Errorf("%v: %w", values, err)
		}
		points = append(points, Point{Values: values, Metrics: ms, Trials: trials})
		return nil
	})
	return points, err
}

// walk calls fn with every combination of axis values.
func walk(axes []Axis, current map[string]float64, fn func(map[string]float64) error) error {
	if len(axes) == 0 {
		values := make(map[string]float64, len(current))
		for k, v := range current {
			values[k] = v
		}
		return fn(values)
	}
	for _, v := range axes[0].Values() {
		current[axes[0].Param] = v
		if err := walk(axes[1:], current, fn); err != nil {
			return err
		}
	}
	delete(current, axes[0].Param)
	return nil
}

// evaluate grows the trials concurrently and observes them in seed order.
func evaluate(ctx context.Context, cfg *config.Config, trials int, ms []metrics.Metric) (map[string]float64, error) {
	fp := cfg.ForestParams()
	if err := fp.Validate(); err != nil {
		return nil, err
	}

	forests := make([]*dendrite.Forest, trials)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range forests {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := dendrite.GrowForest(rand.New(rand.NewSource(cfg.Seed+int64(i))), fp)
			forests[i] = f
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		m.Reset()
		for _, f := range forests {
			m.Observe(f)
		}
		out[m.Name()] = m.Value()
	}
	return out, nil
}
