package config

import (
	"sort"

	"github.com/san-kum/bouncesim/internal/physics"
)

// Presets are named variations on DefaultConfig.
var Presets = map[string]func(*Config){
	"default": func(*Config) {},
	"zero-g": func(c *Config) {
		c.World.GravityX, c.World.GravityY = 0, 0
		c.Ball.Restitution = 0.9
		c.World.WallRestitution = 0.9
	},
	"pinball": func(c *Config) {
		c.World.EndingWall = physics.WallBottom.String()
		c.World.GravityStrength = 0.05
		c.Ball.Restitution = 0.8
		c.Spawn.Interval = 2
	},
	"crowd": func(c *Config) {
		c.Ball.Radius = 12
		c.Spawn.Interval = 0.25
		c.Spawn.Limit = 400
		c.Solver.Iterations = 4
	},
	"bouncy": func(c *Config) {
		c.Ball.Restitution = 1.1
		c.World.WallRestitution = 1
		c.Spawn.Limit = 30
	},
}

// GetPreset returns a fresh config for the named preset, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
