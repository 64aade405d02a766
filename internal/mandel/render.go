package mandel

import (
	"context"
	"fmt"
	"image"
	"runtime"
	"sync"
)

// Render computes region into a w x h image. Rows are split into bands
// rendered concurrently; cancellation is checked between rows.
func Render(ctx context.Context, r Region, w, h, maxIter int, cmap Colormap) (*image.RGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("mandel: invalid size %dx%d", w, h)
	}
	if maxIter < 1 {
		return nil, fmt.Errorf("mandel: max iterations must be positive, got %d", maxIter)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	dx := (r.Xmax - r.Xmin) / float64(w)
	dy := (r.Ymax - r.Ymin) / float64(h)

	ParallelFor(h, 8, func(start, end int) {
		for py := start; py < end; py++ {
			if ctx.Err() != nil {
				return
			}
			// row 0 is the top of the view
			y := r.Ymax - (float64(py)+0.5)*dy
			for px := 0; px < w; px++ {
				x := r.Xmin + (float64(px)+0.5)*dx
				img.SetRGBA(px, py, Shade(cmap, Escape(complex(x, y), maxIter), maxIter))
			}
		}
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return img, nil
}

// ParallelFor executes fn over [0, n) split into contiguous chunks.
func ParallelFor(n, minChunk int, fn func(start, end int)) {
	numWorkers := runtime.GOMAXPROCS(0)
	if n <= minChunk || numWorkers <= 1 {
		fn(0, n)
		return
	}

	workers := numWorkers
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
