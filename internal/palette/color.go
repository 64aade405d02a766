// Package palette maps tree depth and color keys to colors.
package palette

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	Saturation = 0.7
	ValueMin   = 0.3
	ValueMax   = 1.0
)

// Color is an HSV color with every channel in [0,1].
type Color struct {
	H, S, V float64
}

// ColorFor derives the color of an element at depth in a tree grown to
// maxDepth. The hue comes from key, brightness rises with depth and is
// clamped once depth reaches maxDepth.
func ColorFor(depth, maxDepth, key int) Color {
	h := float64(((key%100)+100)%100) / 100

	t := 1.0
	if maxDepth > 0 {
		t = float64(depth) / float64(maxDepth)
	}
	t = min(max(t, 0), 1)

	return Color{H: h, S: Saturation, V: (1-t)*ValueMin + t*ValueMax}
}

func (c Color) colorful() colorful.Color {
	return colorful.Hsv(c.H*360, c.S, c.V)
}

// RGB returns the red, green and blue channels in [0,1].
func (c Color) RGB() (r, g, b float64) {
	cc := c.colorful().Clamped()
	return cc.R, cc.G, cc.B
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.colorful().Clamped().RGBA()
}

func (c Color) Hex() string {
	return c.colorful().Clamped().Hex()
}

func (c Color) String() string {
	return fmt.Sprintf("hsv(%.2f, %.2f, %.2f)", c.H, c.S, c.V)
}
