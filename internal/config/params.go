package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/bouncesim/internal/dynamo"
)

// tunables are the numeric fields reachable by name, for sweeps and
// command line overrides.
var tunables = map[string]func(*Config, float64){
	"radius":            func(c *Config, v float64) { c.Ball.Radius = v },
	"restitution":       func(c *Config, v float64) { c.Ball.Restitution = v },
	"max_speed":         func(c *Config, v float64) { c.Ball.MaxSpeed = v },
	"spawn_interval":    func(c *Config, v float64) { c.Spawn.Interval = v },
	"spawn_limit":       func(c *Config, v float64) { c.Spawn.Limit = int(v) },
	"iterations":        func(c *Config, v float64) { c.Solver.Iterations = int(v) },
	"idle_lifetime":     func(c *Config, v float64) { c.Solver.IdleLifetime = v },
	"beta_ball_ball":    func(c *Config, v float64) { c.Solver.BetaBallBall = v },
	"beta_ball_barrier": func(c *Config, v float64) { c.Solver.BetaBallBarrier = v },
	"slop":              func(c *Config, v float64) { c.Solver.Slop = v },
	"warm_start":        func(c *Config, v float64) { c.Solver.WarmStart = v },
	"grid_scale":        func(c *Config, v float64) { c.World.GridScale = v },
	"gravity_strength":  func(c *Config, v float64) { c.World.GravityStrength = v },
	"wall_restitution":  func(c *Config, v float64) { c.World.WallRestitution = v },
}

// SetParam assigns a tunable field by name. Integer fields truncate v.
func (c *Config) SetParam(name string, v float64) error {
	set, ok := tunables[name]
	if !ok {
		return fmt.Errorf("%w: unknown parameter %q", dynamo.ErrInvalidParameter, name)
	}
	set(c, v)
	return nil
}

// ParamNames lists the names SetParam accepts, sorted.
func ParamNames() []string {
	names := make([]string, 0, len(tunables))
	for name := range tunables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
