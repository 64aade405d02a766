package render

import (
	"bytes"
	"context"
	"image/color"
	"image/gif"
	"testing"
)

func lit(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r+g+b > 0
}

func TestNewRasterizerValidates(t *testing.T) {
	opts := DefaultOptions()
	opts.Width = 0
	if _, err := NewRasterizer(opts); err == nil {
		t.Error("expected error for zero width")
	}
	opts = DefaultOptions()
	opts.Extent = 0
	if _, err := NewRasterizer(opts); err == nil {
		t.Error("expected error for zero extent")
	}
}

func TestRasterizerDraw(t *testing.T) {
	f := testForest(t, 3)
	p, _ := NewPlan(f, 10)

	opts := DefaultOptions()
	opts.Width, opts.Height = 120, 120
	r, err := NewRasterizer(opts)
	if err != nil {
		t.Fatal(err)
	}

	empty := r.Draw(p.Frame(0))
	for y := 0; y < 120; y++ {
		for x := 0; x < 120; x++ {
			if lit(empty.At(x, y)) {
				t.Fatalf("frame 0 has a lit pixel at (%d, %d)", x, y)
			}
		}
	}

	full := r.Draw(p.Frame(9))
	count := 0
	for y := 0; y < 120; y++ {
		for x := 0; x < 120; x++ {
			if lit(full.At(x, y)) {
				count++
			}
		}
	}
	if count == 0 {
		t.Fatal("final frame is blank")
	}
	// all roots start at the origin, the centre of the window
	if !lit(full.At(60, 60)) && !lit(full.At(59, 59)) && !lit(full.At(60, 59)) && !lit(full.At(59, 60)) {
		t.Error("nothing drawn at the origin")
	}
}

func TestAnimateAndEncodeGIF(t *testing.T) {
	f := testForest(t, 2)
	p, _ := NewPlan(f, 5)

	opts := DefaultOptions()
	opts.Width, opts.Height = 64, 64
	opts.Caption = true
	r, err := NewRasterizer(opts)
	if err != nil {
		t.Fatal(err)
	}

	frames, err := Animate(context.Background(), p, r)
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 5 {
		t.Fatalf("expected 5 frames, got %d", len(frames))
	}

	var buf bytes.Buffer
	if err := EncodeGIF(&buf, frames, 6); err != nil {
		t.Fatalf("encode: %v", err)
	}
	g, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(g.Image) != 5 || g.Delay[0] != 6 {
		t.Errorf("decoded %d frames with delay %d", len(g.Image), g.Delay[0])
	}
}

func TestAnimateCancelled(t *testing.T) {
	f := testForest(t, 1)
	p, _ := NewPlan(f, 50)
	r, _ := NewRasterizer(DefaultOptions())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Animate(ctx, p, r); err == nil {
		t.Error("expected context error")
	}
}
