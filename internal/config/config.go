package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/dendrite/internal/dendrite"
	"github.com/san-kum/dendrite/internal/mandel"
	"github.com/san-kum/dendrite/internal/render"
)

const (
	DefaultRoots      = 4
	DefaultMaxDepth   = 7
	DefaultBaseLength = 1.0
	DefaultJitter     = 0.2
	DefaultFrames     = 101
	DefaultDelayMs    = 60
	DefaultExtent     = 3.0
	DefaultSize       = 600
)

type Config struct {
	Name   string       `yaml:"name"`
	Seed   int64        `yaml:"seed"`
	Forest ForestConfig `yaml:"forest"`
	Render RenderConfig `yaml:"render"`
	Mandel MandelConfig `yaml:"mandel"`
}

type ForestConfig struct {
	Roots       int     `yaml:"roots"`
	MaxDepth    int     `yaml:"max_depth"`
	BaseLength  float64 `yaml:"base_length"`
	Spread      float64 `yaml:"spread"`
	Jitter      float64 `yaml:"jitter"`
	MinBranches int     `yaml:"min_branches"`
	MaxBranches int     `yaml:"max_branches"`
	Decay       float64 `yaml:"decay"`
	OriginX     float64 `yaml:"origin_x"`
	OriginY     float64 `yaml:"origin_y"`
}

type RenderConfig struct {
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	Frames    int     `yaml:"frames"`
	DelayMs   int     `yaml:"delay_ms"`
	Extent    float64 `yaml:"extent"`
	LineWidth float64 `yaml:"line_width"`
	DotRadius float64 `yaml:"dot_radius"`
	NodeDots  bool    `yaml:"node_dots"`
	Caption   bool    `yaml:"caption"`

	// Reveal is "edge" or "depth", see render.ParseReveal.
	Reveal string `yaml:"reveal"`
}

type MandelConfig struct {
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	Frames    int     `yaml:"frames"`
	DelayMs   int     `yaml:"delay_ms"`
	MaxIter   int     `yaml:"max_iter"`
	ZoomStart float64 `yaml:"zoom_start"`
	ZoomEnd   float64 `yaml:"zoom_end"`
	CenterX   float64 `yaml:"center_x"`
	CenterY   float64 `yaml:"center_y"`

	// ScaleCenter zooms towards the origin, as the classic view does.
	ScaleCenter bool `yaml:"scale_center"`
}

func DefaultConfig() *Config {
	return &Config{
		Name: "neuron",
		Seed: 42,
		Forest: ForestConfig{
			Roots:       DefaultRoots,
			MaxDepth:    DefaultMaxDepth,
			BaseLength:  DefaultBaseLength,
			Spread:      math.Pi / 4,
			Jitter:      DefaultJitter,
			MinBranches: 2,
			MaxBranches: 3,
			Decay:       0.8,
		},
		Render: RenderConfig{
			Width:     DefaultSize,
			Height:    DefaultSize,
			Frames:    DefaultFrames,
			DelayMs:   DefaultDelayMs,
			Extent:    DefaultExtent,
			LineWidth: 1.2,
			DotRadius: 1.5,
			NodeDots:  true,
			Reveal:    "edge",
		},
		Mandel: MandelConfig{
			Width:       400,
			Height:      400,
			Frames:      60,
			DelayMs:     100,
			MaxIter:     50,
			ZoomStart:   1,
			ZoomEnd:     0.1,
			CenterX:     -0.4,
			ScaleCenter: true,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ForestParams maps the forest section onto generator parameters, keeping
// the generator defaults for the shape knobs the file does not carry.
func (c *Config) ForestParams() dendrite.ForestParams {
	fp := dendrite.DefaultForestParams()
	fp.Roots = c.Forest.Roots
	fp.Jitter = c.Forest.Jitter
	fp.Origin = dendrite.Point{X: c.Forest.OriginX, Y: c.Forest.OriginY}
	fp.Tree.MaxDepth = c.Forest.MaxDepth
	fp.Tree.BaseLength = c.Forest.BaseLength
	fp.Tree.MaxSpread = c.Forest.Spread
	fp.Tree.MinBranches = c.Forest.MinBranches
	fp.Tree.MaxBranches = c.Forest.MaxBranches
	fp.Tree.Decay = c.Forest.Decay
	return fp
}

func (c *Config) RenderOptions() render.Options {
	opts := render.DefaultOptions()
	opts.Width = c.Render.Width
	opts.Height = c.Render.Height
	opts.Extent = c.Render.Extent
	opts.LineWidth = c.Render.LineWidth
	opts.DotRadius = c.Render.DotRadius
	opts.NodeDots = c.Render.NodeDots
	opts.Caption = c.Render.Caption
	return opts
}

// Reveal returns the replay dot policy; Validate rejects unknown names.
func (c *Config) Reveal() render.Reveal {
	r, _ := render.ParseReveal(c.Render.Reveal)
	return r
}

func (c *Config) ZoomConfig() mandel.ZoomConfig {
	zc := mandel.DefaultZoomConfig()
	zc.Width = c.Mandel.Width
	zc.Height = c.Mandel.Height
	zc.Frames = c.Mandel.Frames
	zc.MaxIter = c.Mandel.MaxIter
	zc.ZoomStart = c.Mandel.ZoomStart
	zc.ZoomEnd = c.Mandel.ZoomEnd
	zc.CenterX = c.Mandel.CenterX
	zc.CenterY = c.Mandel.CenterY
	zc.ScaleCenter = c.Mandel.ScaleCenter
	return zc
}

// GIFDelay converts a millisecond delay to GIF hundredths, at least 1.
func GIFDelay(ms int) int {
	return max(ms/10, 1)
}

// Validate checks every section before anything is generated.
func (c *Config) Validate() error {
	if err := c.ForestParams().Validate(); err != nil {
		return fmt.Errorf("forest: %w", err)
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("render: size must be positive, got %dx%d", c.Render.Width, c.Render.Height)
	}
	if c.Render.Frames < 1 {
		return fmt.Errorf("render: frames must be positive, got %d", c.Render.Frames)
	}
	if c.Render.Extent <= 0 {
		return fmt.Errorf("render: extent must be positive, got %g", c.Render.Extent)
	}
	if _, err := render.ParseReveal(c.Render.Reveal); err != nil {
		return err
	}
	if c.Mandel.MaxIter < 1 || c.Mandel.Frames < 1 {
		return fmt.Errorf("mandel: max_iter and frames must be positive")
	}
	if c.Mandel.ZoomStart <= 0 || c.Mandel.ZoomEnd <= 0 {
		return fmt.Errorf("mandel: zoom must be positive")
	}
	return nil
}
