package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/san-kum/dendrite/internal/dendrite"
	"github.com/san-kum/dendrite/internal/palette"
)

const (
	strokeAlpha = 0.85
	dotAlpha    = 0.95
	dotSides    = 12
)

// Options controls how frames are rasterized.
type Options struct {
	Width, Height int
	// Extent is the half-width of the square world window centred on the origin.
	Extent    float64
	LineWidth float64
	DotRadius float64
	Samples   int
	// NodeDots marks the end of every drawn segment, not only terminals.
	NodeDots   bool
	Caption    bool
	Background color.Color
}

func DefaultOptions() Options {
	return Options{
		Width:      600,
		Height:     600,
		Extent:     3,
		LineWidth:  1.2,
		DotRadius:  1.5,
		Samples:    DefaultSamples,
		NodeDots:   true,
		Background: color.Black,
	}
}

// unit circle, precomputed once
var dotTable = func() [dotSides][2]float64 {
	var t [dotSides][2]float64
	for i := range t {
		a := float64(i) * 2 * math.Pi / dotSides
		t[i] = [2]float64{math.Cos(a), math.Sin(a)}
	}
	return t
}()

// Rasterizer draws frames. It reuses its scanline buffers and is not safe
// for concurrent use.
type Rasterizer struct {
	opts Options
	z    *vector.Rasterizer
}

func NewRasterizer(opts Options) (*Rasterizer, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("render: invalid size %dx%d", opts.Width, opts.Height)
	}
	if !(opts.Extent > 0) {
		return nil, fmt.Errorf("render: extent must be positive, got %g", opts.Extent)
	}
	if opts.Samples < 2 {
		opts.Samples = DefaultSamples
	}
	if opts.Background == nil {
		opts.Background = color.Black
	}
	return &Rasterizer{opts: opts, z: vector.NewRasterizer(opts.Width, opts.Height)}, nil
}

func (r *Rasterizer) Options() Options { return r.opts }

// project maps world coordinates to pixel coordinates, y up.
func (r *Rasterizer) project(p dendrite.Point) (float32, float32) {
	e := r.opts.Extent
	x := (p.X + e) / (2 * e) * float64(r.opts.Width)
	y := (e - p.Y) / (2 * e) * float64(r.opts.Height)
	return float32(x), float32(y)
}

// Draw renders fr onto a fresh image.
func (r *Rasterizer) Draw(fr Frame) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.opts.Width, r.opts.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(r.opts.Background), image.Point{}, draw.Src)

	for _, s := range fr.Segments {
		c := palette.ColorFor(s.Depth, fr.MaxDepth, s.ColorKey)
		r.stroke(img, Sample(s, r.opts.Samples), withAlpha(c, strokeAlpha))
		if r.opts.NodeDots && fr.DotVisible(s.Depth) {
			r.dot(img, s.End, withAlpha(c, dotAlpha))
		}
	}
	for _, t := range fr.Terminals {
		c := palette.ColorFor(t.Depth, fr.MaxDepth, t.ColorKey)
		r.dot(img, t.At, withAlpha(c, dotAlpha))
	}

	if r.opts.Caption {
		r.caption(img, fmt.Sprintf("%3d%%  %d/%d", int(fr.Progress*100), len(fr.Segments), fr.Total))
	}
	return img
}

func withAlpha(c palette.Color, a float64) color.NRGBA {
	red, green, blue := c.RGB()
	return color.NRGBA{
		R: uint8(red*255 + 0.5),
		G: uint8(green*255 + 0.5),
		B: uint8(blue*255 + 0.5),
		A: uint8(a*255 + 0.5),
	}
}

// stroke fills one quad per polyline step; overlapping coverage saturates.
func (r *Rasterizer) stroke(dst draw.Image, pts []dendrite.Point, c color.Color) {
	hw := float32(r.opts.LineWidth / 2)
	r.z.Reset(r.opts.Width, r.opts.Height)
	drawn := false
	for i := 1; i < len(pts); i++ {
		x0, y0 := r.project(pts[i-1])
		x1, y1 := r.project(pts[i])
		dx, dy := x1-x0, y1-y0
		l := float32(math.Hypot(float64(dx), float64(dy)))
		if l == 0 {
			continue
		}
		nx, ny := -dy/l*hw, dx/l*hw
		r.z.MoveTo(x0+nx, y0+ny)
		r.z.LineTo(x1+nx, y1+ny)
		r.z.LineTo(x1-nx, y1-ny)
		r.z.LineTo(x0-nx, y0-ny)
		r.z.ClosePath()
		drawn = true
	}
	if drawn {
		r.z.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{})
	}
}

func (r *Rasterizer) dot(dst draw.Image, at dendrite.Point, c color.Color) {
	cx, cy := r.project(at)
	rad := r.opts.DotRadius
	r.z.Reset(r.opts.Width, r.opts.Height)
	for i, v := range dotTable {
		x, y := cx+float32(v[0]*rad), cy+float32(v[1]*rad)
		if i == 0 {
			r.z.MoveTo(x, y)
		} else {
			r.z.LineTo(x, y)
		}
	}
	r.z.ClosePath()
	r.z.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{})
}

func (r *Rasterizer) caption(dst draw.Image, text string) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.Gray{Y: 160}),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(8, r.opts.Height-8),
	}
	d.DrawString(text)
}
