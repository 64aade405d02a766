package render

import (
	"context"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
)

// Animate rasterizes every frame of the plan in order.
func Animate(ctx context.Context, p *Plan, r *Rasterizer) ([]*image.RGBA, error) {
	frames := make([]*image.RGBA, 0, p.Frames())
	for k := 0; k < p.Frames(); k++ {
		if err := ctx.Err(); err != nil {
			return frames, err
		}
		frames = append(frames, r.Draw(p.Frame(k)))
	}
	return frames, nil
}

// EncodeGIF writes frames as a looping animation. delay is in hundredths
// of a second.
func EncodeGIF(w io.Writer, frames []*image.RGBA, delay int) error {
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range frames {
		pm := image.NewPaletted(frame.Bounds(), palette.Plan9)
		draw.Draw(pm, pm.Bounds(), frame, frame.Bounds().Min, draw.Src)
		anim.Image = append(anim.Image, pm)
		anim.Delay = append(anim.Delay, delay)
	}
	return gif.EncodeAll(w, &anim)
}
