package config

import "sort"

func preset(name string, mutate func(*Config)) *Config {
	cfg := DefaultConfig()
	cfg.Name = name
	mutate(cfg)
	return cfg
}

var Presets = map[string]map[string]*Config{
	"tree": {
		"neuron": preset("neuron", func(c *Config) {}),
		"sapling": preset("sapling", func(c *Config) {
			c.Forest.Roots = 1
			c.Forest.MaxDepth = 5
			c.Forest.Jitter = 0
			c.Forest.Spread = 0.5
			c.Forest.OriginY = -2.5
			c.Forest.BaseLength = 1.2
		}),
		"coral": preset("coral", func(c *Config) {
			c.Forest.Roots = 6
			c.Forest.MaxDepth = 6
			c.Forest.Spread = 1.0
			c.Forest.BaseLength = 0.8
		}),
		"starburst": preset("starburst", func(c *Config) {
			c.Forest.Roots = 12
			c.Forest.MaxDepth = 4
			c.Forest.Spread = 0.3
			c.Forest.MinBranches = 2
			c.Forest.MaxBranches = 2
			c.Forest.Jitter = 0
		}),
		"dense": preset("dense", func(c *Config) {
			c.Forest.MaxDepth = 8
			c.Forest.MinBranches = 3
			c.Forest.MaxBranches = 3
			c.Forest.Decay = 0.7
		}),
	},
	"mandel": {
		"classic": preset("classic", func(c *Config) {}),
		"seahorse": preset("seahorse", func(c *Config) {
			c.Mandel.CenterX = -0.75
			c.Mandel.CenterY = 0.1
			c.Mandel.ScaleCenter = false
			c.Mandel.ZoomEnd = 0.02
			c.Mandel.MaxIter = 200
		}),
		"elephant": preset("elephant", func(c *Config) {
			c.Mandel.CenterX = 0.28
			c.Mandel.CenterY = 0.008
			c.Mandel.ScaleCenter = false
			c.Mandel.ZoomEnd = 0.03
			c.Mandel.MaxIter = 200
		}),
	},
}

// GetPreset returns a copy so callers can override fields freely.
func GetPreset(kind, name string) *Config {
	kindPresets, ok := Presets[kind]
	if !ok {
		return nil
	}
	cfg, ok := kindPresets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets(kind string) []string {
	kindPresets, ok := Presets[kind]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(kindPresets))
	for name := range kindPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
