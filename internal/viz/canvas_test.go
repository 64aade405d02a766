package viz

import (
	"strings"
	"testing"
)

func TestCanvasSetUnset(t *testing.T) {
	c := NewCanvas(4, 2)
	if c.SubWidth() != 8 || c.SubHeight() != 8 {
		t.Fatalf("sub-pixel size %dx%d, want 8x8", c.SubWidth(), c.SubHeight())
	}

	c.Set(0, 0, "#ff0000")
	c.Set(1, 3, "")
	if c.Grid[0][0] != 0x2800|0x1|0x80 {
		t.Errorf("cell = %U, want %U", c.Grid[0][0], rune(0x2800|0x1|0x80))
	}
	if c.Colors[0][0] != "#ff0000" {
		t.Errorf("color = %q, want #ff0000", c.Colors[0][0])
	}
	if !c.IsSet(1, 3) || c.IsSet(1, 2) {
		t.Error("IsSet disagrees with Set")
	}

	c.Unset(0, 0)
	if c.Colors[0][0] != "#ff0000" {
		t.Error("cell with lit dots lost its colour")
	}
	c.Unset(1, 3)
	if c.Grid[0][0] != 0x2800 || c.Colors[0][0] != "" {
		t.Errorf("cell not blank after unsetting every dot: %U %q", c.Grid[0][0], c.Colors[0][0])
	}
}

func TestCanvasOutOfBounds(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Set(-1, 0, "#fff")
	c.Set(0, -1, "#fff")
	c.Set(4, 0, "#fff")
	c.Set(0, 8, "#fff")
	if strings.ContainsFunc(c.String(), func(r rune) bool { return r > 0x2800 }) {
		t.Error("out of bounds set leaked onto the canvas")
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawLine(0, 0, 19, 19, "#00ff00")
	for i := 0; i < 20; i++ {
		if !c.IsSet(i, i) {
			t.Errorf("diagonal pixel (%d,%d) not set", i, i)
		}
	}
	if c.IsSet(19, 0) {
		t.Error("unexpected pixel off the line")
	}

	c.Clear()
	c.DrawLine(5, 3, 5, 3, "")
	if !c.IsSet(5, 3) {
		t.Error("degenerate line should set its single point")
	}
}

func TestCanvasRender(t *testing.T) {
	c := NewCanvas(3, 1)
	c.Set(0, 0, "#ff0000")
	c.Set(2, 0, "#ff0000")
	out := c.Render()
	if strings.Count(out, "\n") != 1 {
		t.Errorf("expected one line, got %q", out)
	}
	if !strings.ContainsRune(out, 0x2801) {
		t.Errorf("rendered canvas lost its dots: %q", out)
	}
}
