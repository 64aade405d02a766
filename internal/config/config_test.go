package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/dendrite/internal/render"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Forest.Roots != 4 {
		t.Errorf("expected 4 roots, got %d", cfg.Forest.Roots)
	}
	if cfg.Forest.MaxDepth != 7 {
		t.Errorf("expected max depth 7, got %d", cfg.Forest.MaxDepth)
	}
	if cfg.Forest.Spread != math.Pi/4 {
		t.Errorf("expected spread pi/4, got %f", cfg.Forest.Spread)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestForestParams(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Forest.OriginX = 1.5
	fp := cfg.ForestParams()

	if fp.Roots != 4 || fp.Tree.MaxDepth != 7 || fp.Origin.X != 1.5 {
		t.Errorf("unexpected params: %+v", fp)
	}
	if fp.Tree.LengthFactor.Min != 0.7 || fp.Tree.LengthFactor.Max != 1.1 {
		t.Errorf("shape defaults lost: %+v", fp.Tree.LengthFactor)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative depth", func(c *Config) { c.Forest.MaxDepth = -1 }},
		{"zero length", func(c *Config) { c.Forest.BaseLength = 0 }},
		{"no roots", func(c *Config) { c.Forest.Roots = 0 }},
		{"zero frames", func(c *Config) { c.Render.Frames = 0 }},
		{"zero width", func(c *Config) { c.Render.Width = 0 }},
		{"zero extent", func(c *Config) { c.Render.Extent = 0 }},
		{"zero iterations", func(c *Config) { c.Mandel.MaxIter = 0 }},
		{"negative zoom", func(c *Config) { c.Mandel.ZoomEnd = -1 }},
		{"unknown reveal", func(c *Config) { c.Render.Reveal = "zigzag" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forest.yaml")

	cfg := DefaultConfig()
	cfg.Seed = 7
	cfg.Forest.Roots = 6
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Seed != 7 || loaded.Forest.Roots != 6 {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := "seed: 9\nforest:\n  max_depth: 3\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Forest.MaxDepth != 3 {
		t.Errorf("expected max depth 3, got %d", cfg.Forest.MaxDepth)
	}
	if cfg.Forest.Roots != DefaultRoots {
		t.Errorf("expected default roots, got %d", cfg.Forest.Roots)
	}
	if cfg.Render.Frames != DefaultFrames {
		t.Errorf("expected default frames, got %d", cfg.Render.Frames)
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("forest: [1, 2"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("tree", "sapling")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Forest.Roots != 1 {
		t.Errorf("expected 1 root, got %d", cfg.Forest.Roots)
	}

	cfg.Forest.Roots = 99
	if GetPreset("tree", "sapling").Forest.Roots != 1 {
		t.Error("GetPreset leaked a shared pointer")
	}

	for _, kind := range []string{"tree", "mandel"} {
		for _, name := range ListPresets(kind) {
			if err := GetPreset(kind, name).Validate(); err != nil {
				t.Errorf("preset %s/%s invalid: %v", kind, name, err)
			}
		}
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("tree", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "neuron") != nil {
		t.Error("expected nil for nonexistent kind")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("tree")
	if len(presets) == 0 {
		t.Error("expected presets for tree")
	}
	for i := 1; i < len(presets); i++ {
		if presets[i-1] > presets[i] {
			t.Errorf("presets not sorted: %v", presets)
		}
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent kind")
	}
}

func TestGIFDelay(t *testing.T) {
	if GIFDelay(60) != 6 || GIFDelay(5) != 1 {
		t.Errorf("GIFDelay(60)=%d GIFDelay(5)=%d", GIFDelay(60), GIFDelay(5))
	}
}

func TestZoomConfig(t *testing.T) {
	cfg := GetPreset("mandel", "seahorse")
	zc := cfg.ZoomConfig()
	if zc.CenterX != -0.75 || zc.CenterY != 0.1 || zc.MaxIter != 200 || zc.ZoomEnd != 0.02 {
		t.Errorf("unexpected zoom config: %+v", zc)
	}
	if zc.Colormap == nil {
		t.Error("zoom config lost its colormap")
	}
	if zc.ScaleCenter {
		t.Error("seahorse should zoom on a fixed centre")
	}
	if !GetPreset("mandel", "classic").ZoomConfig().ScaleCenter {
		t.Error("classic should zoom towards the origin")
	}
}

func TestReveal(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Reveal() != render.RevealEdge {
		t.Errorf("default reveal = %v", cfg.Reveal())
	}
	cfg.Render.Reveal = "depth"
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.Reveal() != render.RevealDepth {
		t.Errorf("reveal = %v, want depth", cfg.Reveal())
	}
}
