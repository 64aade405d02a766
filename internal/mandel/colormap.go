package mandel

import (
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Colormap maps t in [0,1] to a color.
type Colormap func(t float64) color.RGBA

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// cyclic light-purple-dark-red-light ramp
var twilightStops = []colorful.Color{
	mustHex("#e2d9e2"),
	mustHex("#7c8fc0"),
	mustHex("#5e43a5"),
	mustHex("#2f1436"),
	mustHex("#8a3347"),
	mustHex("#c5816a"),
	mustHex("#e2d9e2"),
}

// Twilight is a cyclic colormap; t and t+1 give the same color.
func Twilight(t float64) color.RGBA {
	t = t - math.Floor(t)
	seg := t * float64(len(twilightStops)-1)
	i := int(seg)
	if i >= len(twilightStops)-1 {
		i = len(twilightStops) - 2
	}
	c := twilightStops[i].BlendLab(twilightStops[i+1], seg-float64(i)).Clamped()
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// Shade colors a smooth escape count; points inside the set are black.
func Shade(cmap Colormap, mu float64, maxIter int) color.RGBA {
	if mu >= float64(maxIter) {
		return color.RGBA{A: 255}
	}
	return cmap(mu / float64(maxIter))
}
