package mandel

import (
	"context"
	"fmt"
	"image"
	"math"
)

// ZoomConfig describes a zoom animation.
type ZoomConfig struct {
	Width, Height int
	Frames        int
	MaxIter       int
	// ZoomStart and ZoomEnd scale the view; smaller is deeper.
	ZoomStart, ZoomEnd float64
	CenterX, CenterY   float64

	// ScaleCenter moves the centre with the zoom factor, so the view
	// closes in on the origin instead of on the centre.
	ScaleCenter bool
	Colormap    Colormap
}

func DefaultZoomConfig() ZoomConfig {
	return ZoomConfig{
		Width:       400,
		Height:      400,
		Frames:      60,
		MaxIter:     50,
		ZoomStart:   1,
		ZoomEnd:     0.1,
		CenterX:     -0.4,
		ScaleCenter: true,
		Colormap:    Twilight,
	}
}

// FrameView returns the region shown at zoom factor z.
func (c ZoomConfig) FrameView(z float64) Region {
	cx, cy := c.CenterX, c.CenterY
	if c.ScaleCenter {
		cx, cy = cx*z, cy*z
	}
	return View(cx, cy, z)
}

// Scales returns the zoom factor for each frame, evenly spaced from start
// to end inclusive.
func Scales(start, end float64, frames int) []float64 {
	if frames == 1 {
		return []float64{start}
	}
	out := make([]float64, frames)
	step := (end - start) / float64(frames-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[frames-1] = end
	return out
}

// Zoom renders the full frame sequence. onFrame, if set, is called after
// each frame with its index.
func Zoom(ctx context.Context, cfg ZoomConfig, onFrame func(int)) ([]*image.RGBA, error) {
	if cfg.Frames < 1 {
		return nil, fmt.Errorf("mandel: frames must be positive, got %d", cfg.Frames)
	}
	if !(cfg.ZoomStart > 0) || !(cfg.ZoomEnd > 0) || math.IsInf(cfg.ZoomStart, 0) {
		return nil, fmt.Errorf("mandel: zoom must be positive, got %g..%g", cfg.ZoomStart, cfg.ZoomEnd)
	}
	cmap := cfg.Colormap
	if cmap == nil {
		cmap = Twilight
	}

	scales := Scales(cfg.ZoomStart, cfg.ZoomEnd, cfg.Frames)
	frames := make([]*image.RGBA, 0, len(scales))
	for i, z := range scales {
		img, err := Render(ctx, cfg.FrameView(z), cfg.Width, cfg.Height, cfg.MaxIter, cmap)
		if err != nil {
			return frames, fmt.Errorf("frame %d: %w", i, err)
		}
		frames = append(frames, img)
		if onFrame != nil {
			onFrame(i)
		}
	}
	return frames, nil
}
