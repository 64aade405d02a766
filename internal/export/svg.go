package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/dendrite/internal/dendrite"
	"github.com/san-kum/dendrite/internal/palette"
	"github.com/san-kum/dendrite/internal/render"
)

// SVGOptions sizes the output. A zero Extent fits the drawing's bounds.
type SVGOptions struct {
	Width, Height int
	Extent        float64
	StrokeWidth   float64
	DotRadius     float64
	Background    string
}

func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Width:       800,
		Height:      800,
		StrokeWidth: 1.2,
		DotRadius:   2,
		Background:  "#000000",
	}
}

type window struct {
	minX, minY, rangeX, rangeY float64
	w, h                       float64
}

func (v window) xy(p dendrite.Point) (float64, float64) {
	x := (p.X - v.minX) / v.rangeX * v.w
	y := v.h - (p.Y-v.minY)/v.rangeY*v.h
	return x, y
}

func fitWindow(f *dendrite.Forest, opts SVGOptions) window {
	w := window{w: float64(opts.Width), h: float64(opts.Height)}
	if opts.Extent > 0 {
		w.minX, w.minY = -opts.Extent, -opts.Extent
		w.rangeX, w.rangeY = 2*opts.Extent, 2*opts.Extent
		return w
	}

	lo, hi := f.Bounds()
	rangeX := hi.X - lo.X
	rangeY := hi.Y - lo.Y
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	// Add padding
	w.minX = lo.X - rangeX*0.1
	w.minY = lo.Y - rangeY*0.1
	w.rangeX = rangeX * 1.2
	w.rangeY = rangeY * 1.2
	return w
}

// ForestToSVG draws the whole forest.
func ForestToSVG(f *dendrite.Forest, opts SVGOptions) string {
	p, _ := render.NewPlan(f, 1)
	return FrameToSVG(f, p.Frame(0), opts)
}

// FrameToSVG draws one replay frame of f. The window is fitted to the whole
// forest so consecutive frames line up.
func FrameToSVG(f *dendrite.Forest, fr render.Frame, opts SVGOptions) string {
	v := fitWindow(f, opts)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="none" stroke-width="%.2f" stroke-opacity="0.85" stroke-linecap="round">
`, opts.Width, opts.Height, opts.Width, opts.Height, opts.Background, opts.StrokeWidth))

	for _, s := range fr.Segments {
		x0, y0 := v.xy(s.Start)
		cx, cy := v.xy(s.Control)
		x1, y1 := v.xy(s.End)
		c := palette.ColorFor(s.Depth, fr.MaxDepth, s.ColorKey)
		sb.WriteString(fmt.Sprintf(`<path stroke="%s" d="M%.2f,%.2f Q%.2f,%.2f %.2f,%.2f"/>
`, c.Hex(), x0, y0, cx, cy, x1, y1))
	}
	sb.WriteString("</g>\n<g fill-opacity=\"0.95\">\n")

	for _, t := range fr.Terminals {
		x, y := v.xy(t.At)
		c := palette.ColorFor(t.Depth, fr.MaxDepth, t.ColorKey)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>
`, x, y, opts.DotRadius, c.Hex()))
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}
