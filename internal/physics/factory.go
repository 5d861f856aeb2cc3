package physics

import "github.com/san-kum/bouncesim/internal/dynamo"

const (
	NumColors          = 4
	BaseBallRadius     = 30.0
	BaseRestitution    = 0.5
	BaseMaxSpeed       = 20.0
	MinBarrierLength   = 20.0
	DefaultSpawnMinSpd = 3.0
	DefaultSpawnMaxSpd = 6.0
)

// BallSpec describes the balls a factory produces.
type BallSpec struct {
	Radius           float64
	Restitution      float64
	MaxSpeed         float64
	GravityReduction float64
	Colors           int
}

func DefaultBallSpec() BallSpec {
	return BallSpec{
		Radius:           BaseBallRadius,
		Restitution:      BaseRestitution,
		MaxSpeed:         BaseMaxSpeed,
		GravityReduction: GravityReductionOnContact,
		Colors:           NumColors,
	}
}

// BallFactory stamps out balls from a spec, cycling through the palette.
type BallFactory struct {
	spec      BallSpec
	nextColor int
}

func NewBallFactory(spec BallSpec) *BallFactory {
	if spec.Colors < 1 {
		spec.Colors = 1
	}
	return &BallFactory{spec: spec}
}

func (f *BallFactory) Spec() BallSpec { return f.spec }

// Create returns a ball at rest at the origin; callers set its pose.
func (f *BallFactory) Create() *Ball {
	b := NewBall(dynamo.Zero(), f.spec.Radius)
	b.Restitution = f.spec.Restitution
	b.MaxSpeed = f.spec.MaxSpeed
	b.GravityReduction = f.spec.GravityReduction
	b.ColorIndex = f.nextColor
	f.nextColor = (f.nextColor + 1) % f.spec.Colors
	return b
}

// NewPlayerBarrier builds a thin barrier drawn by the player. Segments
// shorter than MinBarrierLength are rejected as degenerate.
func NewPlayerBarrier(start, end dynamo.Vector2, restitution float64) (*Barrier, error) {
	if end.Sub(start).Mag() < MinBarrierLength {
		return nil, dynamo.ErrDegenerateGeometry
	}
	b, err := NewBarrier(start, end, PlayerBarrierWidth)
	if err != nil {
		return nil, err
	}
	b.Restitution = restitution
	return b, nil
}
