package sim

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/bouncesim/internal/dynamo"
	"github.com/san-kum/bouncesim/internal/physics"
	"github.com/san-kum/bouncesim/internal/solver"
)

// State is the lifecycle of a Simulator.
type State int

const (
	StateUninitialized State = iota
	StateInitialized
	StateRunning
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

const (
	DefaultGridScale          = 1.05
	DefaultSpawnInterval      = 1.0
	DefaultPopulationLimit    = 100
	DefaultGravityStrength    = 0.01
	DefaultPerfReportInterval = 50
)

// Config holds everything a Simulator needs besides the arena bounds.
type Config struct {
	Ball   physics.BallSpec
	Solver solver.Params

	// GridScale multiplies the ball diameter to get the grid cell size.
	GridScale float64

	SpawnInterval   float64
	SpawnMinSpeed   float64
	SpawnMaxSpeed   float64
	PopulationLimit int

	// GravityStrength scales the vector passed to SetGravity.
	GravityStrength float64

	WallWidth          float64
	WallRestitution    float64
	EndingWall         physics.Wall
	BarrierRestitution float64

	Seed int64

	// PerfReportInterval is the number of Advance calls between performance
	// log lines. Zero disables the report.
	PerfReportInterval int
}

func DefaultConfig() Config {
	return Config{
		Ball:               physics.DefaultBallSpec(),
		Solver:             solver.DefaultParams(),
		GridScale:          DefaultGridScale,
		SpawnInterval:      DefaultSpawnInterval,
		SpawnMinSpeed:      physics.DefaultSpawnMinSpd,
		SpawnMaxSpeed:      physics.DefaultSpawnMaxSpd,
		PopulationLimit:    DefaultPopulationLimit,
		GravityStrength:    DefaultGravityStrength,
		WallWidth:          physics.DefaultWallWidth,
		WallRestitution:    physics.DefaultWallRestitution,
		EndingWall:         physics.WallNone,
		BarrierRestitution: physics.DefaultWallRestitution,
		PerfReportInterval: DefaultPerfReportInterval,
	}
}

// CellSize is the side of one collision grid cell.
func (c Config) CellSize() float64 {
	return c.GridScale * 2 * c.Ball.Radius
}

func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{dynamo.ErrInvalidParameter}, args...)...))
	}

	if !(c.Ball.Radius > 0) {
		bad("ball radius must be positive, got %g", c.Ball.Radius)
	}
	if !(c.Ball.MaxSpeed > 0) || math.IsInf(c.Ball.MaxSpeed, 1) {
		bad("ball max speed must be positive and finite, got %g", c.Ball.MaxSpeed)
	}
	if c.Ball.Restitution < 0 {
		bad("ball restitution must be non-negative, got %g", c.Ball.Restitution)
	}
	if !(c.GridScale > 1) {
		bad("grid scale must exceed 1, got %g", c.GridScale)
	}
	if c.SpawnInterval < 0 {
		bad("spawn interval must be non-negative, got %g", c.SpawnInterval)
	}
	if c.SpawnMinSpeed < 0 || c.SpawnMaxSpeed < c.SpawnMinSpeed {
		bad("spawn speed range [%g, %g) is invalid", c.SpawnMinSpeed, c.SpawnMaxSpeed)
	}
	if c.PopulationLimit < 0 {
		bad("population limit must be non-negative, got %d", c.PopulationLimit)
	}
	if !(c.WallWidth > 0) {
		bad("wall width must be positive, got %g", c.WallWidth)
	}
	if err := c.Solver.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// BodyState is a copy of one ball's state.
type BodyState struct {
	ID       physics.EntityID
	Position dynamo.Vector2
	Velocity dynamo.Vector2
	Radius   float64
}

func (b BodyState) KineticEnergy() float64 {
	return 0.5 * b.Velocity.MagSq()
}

// Frame is what observers and metrics see after each stepped Advance.
type Frame struct {
	Time        float64
	Population  int
	LostBalls   int
	SubSteps    int
	Constraints int
	Bodies      []BodyState
}

// KineticEnergy sums the kinetic energy of every body in the frame.
func (f Frame) KineticEnergy() float64 {
	var e float64
	for _, b := range f.Bodies {
		e += b.KineticEnergy()
	}
	return e
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(f Frame)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Frame)

func (fn ObserverFunc) OnStep(f Frame) { fn(f) }
