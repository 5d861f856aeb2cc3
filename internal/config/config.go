package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/bouncesim/internal/dynamo"
	"github.com/san-kum/bouncesim/internal/physics"
	"github.com/san-kum/bouncesim/internal/sim"
	"github.com/san-kum/bouncesim/internal/solver"
)

const (
	DefaultWidth   = 800.0
	DefaultHeight  = 600.0
	DefaultFrames  = 600
	DefaultDt      = 1.0
	DefaultFPS     = 30
	DefaultAddr    = ":8080"
	DefaultDataDir = "data"
)

type Config struct {
	Arena  ArenaConfig  `yaml:"arena"`
	Ball   BallConfig   `yaml:"ball"`
	Spawn  SpawnConfig  `yaml:"spawn"`
	Solver SolverConfig `yaml:"solver"`
	World  WorldConfig  `yaml:"world"`
	Run    RunConfig    `yaml:"run"`
	Server ServerConfig `yaml:"server"`
}

type ArenaConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type BallConfig struct {
	Radius           float64 `yaml:"radius"`
	Restitution      float64 `yaml:"restitution"`
	MaxSpeed         float64 `yaml:"max_speed"`
	GravityReduction float64 `yaml:"gravity_reduction"`
	Colors           int     `yaml:"colors"`
}

type SpawnConfig struct {
	Interval float64 `yaml:"interval"`
	MinSpeed float64 `yaml:"min_speed"`
	MaxSpeed float64 `yaml:"max_speed"`
	Limit    int     `yaml:"limit"`
}

type SolverConfig struct {
	Iterations      int     `yaml:"iterations"`
	IdleLifetime    float64 `yaml:"idle_lifetime"`
	BetaBallBall    float64 `yaml:"beta_ball_ball"`
	BetaBallBarrier float64 `yaml:"beta_ball_barrier"`
	Slop            float64 `yaml:"slop"`
	WarmStart       float64 `yaml:"warm_start"`
}

type WorldConfig struct {
	GridScale          float64 `yaml:"grid_scale"`
	GravityStrength    float64 `yaml:"gravity_strength"`
	GravityX           float64 `yaml:"gravity_x"`
	GravityY           float64 `yaml:"gravity_y"`
	WallWidth          float64 `yaml:"wall_width"`
	WallRestitution    float64 `yaml:"wall_restitution"`
	EndingWall         string  `yaml:"ending_wall"`
	BarrierRestitution float64 `yaml:"barrier_restitution"`
}

type RunConfig struct {
	Frames  int     `yaml:"frames"`
	Dt      float64 `yaml:"dt"`
	Seed    int64   `yaml:"seed"`
	FPS     int     `yaml:"fps"`
	DataDir string  `yaml:"data_dir"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

func DefaultConfig() *Config {
	spec := physics.DefaultBallSpec()
	sp := solver.DefaultParams()
	return &Config{
		Arena: ArenaConfig{Width: DefaultWidth, Height: DefaultHeight},
		Ball: BallConfig{
			Radius:           spec.Radius,
			Restitution:      spec.Restitution,
			MaxSpeed:         spec.MaxSpeed,
			GravityReduction: spec.GravityReduction,
			Colors:           spec.Colors,
		},
		Spawn: SpawnConfig{
			Interval: sim.DefaultSpawnInterval,
			MinSpeed: physics.DefaultSpawnMinSpd,
			MaxSpeed: physics.DefaultSpawnMaxSpd,
			Limit:    sim.DefaultPopulationLimit,
		},
		Solver: SolverConfig{
			Iterations:      sp.Iterations,
			IdleLifetime:    sp.IdleLifetime,
			BetaBallBall:    sp.BetaBallBall,
			BetaBallBarrier: sp.BetaBallBarrier,
			Slop:            sp.Slop,
			WarmStart:       sp.WarmStartFactor,
		},
		World: WorldConfig{
			GridScale:          sim.DefaultGridScale,
			GravityStrength:    sim.DefaultGravityStrength,
			GravityY:           1,
			WallWidth:          physics.DefaultWallWidth,
			WallRestitution:    physics.DefaultWallRestitution,
			EndingWall:         physics.WallNone.String(),
			BarrierRestitution: physics.DefaultWallRestitution,
		},
		Run: RunConfig{
			Frames:  DefaultFrames,
			Dt:      DefaultDt,
			FPS:     DefaultFPS,
			DataDir: DefaultDataDir,
		},
		Server: ServerConfig{Addr: DefaultAddr},
	}
}

// Load reads a yaml file on top of the defaults.
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

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Bounds is the arena size as a vector.
func (c *Config) Bounds() dynamo.Vector2 {
	return dynamo.Vec(c.Arena.Width, c.Arena.Height)
}

// Gravity is the configured gravity direction before strength scaling.
func (c *Config) Gravity() dynamo.Vector2 {
	return dynamo.Vec(c.World.GravityX, c.World.GravityY)
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error
	bad := func(field, format string, args ...any) {
		errs = append(errs, fmt.Errorf("%s: %w: %s", field, dynamo.ErrInvalidParameter, fmt.Sprintf(format, args...)))
	}

	if !(c.Arena.Width > 0) || !(c.Arena.Height > 0) {
		errs = append(errs, fmt.Errorf("arena: %w: %gx%g", dynamo.ErrInvalidBounds, c.Arena.Width, c.Arena.Height))
	}
	if _, ok := physics.ParseWall(c.World.EndingWall); !ok {
		bad("world.ending_wall", "unknown wall %q", c.World.EndingWall)
	}
	if !(c.Run.Dt > 0) {
		bad("run.dt", "must be positive, got %g", c.Run.Dt)
	}
	if c.Run.Frames < 0 {
		bad("run.frames", "must be non-negative, got %d", c.Run.Frames)
	}
	if c.Run.FPS <= 0 {
		bad("run.fps", "must be positive, got %d", c.Run.FPS)
	}
	if c.Ball.Colors < 1 {
		bad("ball.colors", "must be at least 1, got %d", c.Ball.Colors)
	}
	if err := c.SimConfig().Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// SimConfig maps the file layout onto the simulator configuration.
// An unknown ending wall maps to none; Validate reports it.
func (c *Config) SimConfig() sim.Config {
	ending, _ := physics.ParseWall(c.World.EndingWall)
	return sim.Config{
		Ball: physics.BallSpec{
			Radius:           c.Ball.Radius,
			Restitution:      c.Ball.Restitution,
			MaxSpeed:         c.Ball.MaxSpeed,
			GravityReduction: c.Ball.GravityReduction,
			Colors:           c.Ball.Colors,
		},
		Solver: solver.Params{
			Iterations:      c.Solver.Iterations,
			IdleLifetime:    c.Solver.IdleLifetime,
			BetaBallBall:    c.Solver.BetaBallBall,
			BetaBallBarrier: c.Solver.BetaBallBarrier,
			Slop:            c.Solver.Slop,
			WarmStartFactor: c.Solver.WarmStart,
		},
		GridScale:          c.World.GridScale,
		SpawnInterval:      c.Spawn.Interval,
		SpawnMinSpeed:      c.Spawn.MinSpeed,
		SpawnMaxSpeed:      c.Spawn.MaxSpeed,
		PopulationLimit:    c.Spawn.Limit,
		GravityStrength:    c.World.GravityStrength,
		WallWidth:          c.World.WallWidth,
		WallRestitution:    c.World.WallRestitution,
		EndingWall:         ending,
		BarrierRestitution: c.World.BarrierRestitution,
		Seed:               c.Run.Seed,
		PerfReportInterval: sim.DefaultPerfReportInterval,
	}
}
