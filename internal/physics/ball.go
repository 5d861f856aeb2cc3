package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/bouncesim/internal/dynamo"
	"github.com/san-kum/bouncesim/internal/paint"
)

const (
	// NegativeTimeEps admits roots slightly before "now" caused by rounding.
	NegativeTimeEps = -1e-4

	// GravityReductionOnContact scales gravity for a ball held by a violated constraint.
	GravityReductionOnContact = 0.01
)

// Ball is a circular rigid body with unit mass.
type Ball struct {
	base

	Position    dynamo.Vector2
	Velocity    dynamo.Vector2
	Radius      float64
	ColorIndex  int
	Restitution float64
	MaxSpeed    float64

	// GravityReduction multiplies gravity while reduceGravity is set.
	GravityReduction float64

	gravity       dynamo.Vector2
	reduceGravity bool
	cell          CellKey
	marked        bool
}

// NewBall returns a ball at rest at pos.
func NewBall(pos dynamo.Vector2, radius float64) *Ball {
	return &Ball{
		Position:         pos,
		Radius:           radius,
		Restitution:      1,
		MaxSpeed:         math.Inf(1),
		GravityReduction: GravityReductionOnContact,
	}
}

// Travel clamps the speed to MaxSpeed, then moves the ball by Velocity·dt.
func (b *Ball) Travel(dt float64) {
	if speed := b.Velocity.CacheMag(); speed > b.MaxSpeed {
		b.Velocity = b.Velocity.Scale(b.MaxSpeed / speed)
	}
	b.Position = b.Position.Add(b.Velocity.Scale(dt))
}

func (b *Ball) SpeedLimit() float64     { return b.MaxSpeed }
func (b *Ball) BoundingRadius() float64 { return b.Radius }

func (b *Ball) SetGravity(g dynamo.Vector2) { b.gravity = g }
func (b *Ball) Gravity() dynamo.Vector2     { return b.gravity }

// ReduceGravity flags the ball so its next gravity application is scaled down.
func (b *Ball) ReduceGravity() { b.reduceGravity = true }

func (b *Ball) GravityReduced() bool { return b.reduceGravity }

// ApplyGravityAcceleration adds gravity·dt to the velocity, scaled by
// GravityReduction when flagged, and clears the flag.
func (b *Ball) ApplyGravityAcceleration(dt float64) {
	factor := 1.0
	if b.reduceGravity {
		factor = b.GravityReduction
	}
	b.Velocity = b.Velocity.Add(b.gravity.Scale(dt * factor))
	b.reduceGravity = false
}

func (b *Ball) KineticEnergy() float64 {
	return 0.5 * b.Velocity.MagSq()
}

func (b *Ball) Collided(other Collidable) bool {
	switch o := other.(type) {
	case *Ball:
		return b.Position.Sub(o.Position).Mag() <= b.Radius+o.Radius
	case *Barrier:
		return o.Collided(b)
	default:
		return false
	}
}

// MarkGrid registers the ball in the cell holding its center.
func (b *Ball) MarkGrid(g *CollisionGrid) {
	k := g.KeyFor(b.Position)
	g.Mark(k, b)
	b.cell = k
	b.marked = true
}

func (b *Ball) UnmarkGrid(g *CollisionGrid) {
	if !b.marked {
		return
	}
	g.Unmark(b.cell, b)
	b.marked = false
}

// Marked reports whether the ball is currently registered on a grid.
func (b *Ball) Marked() bool { return b.marked }

// Cell returns the ball's grid cell. Calling it on an unmarked ball is a bug.
func (b *Ball) Cell() CellKey {
	if !b.marked {
		panic(fmt.Sprintf("physics: grid cell of ball %d read before MarkGrid", b.id))
	}
	return b.cell
}

// PotentialColliders returns every other collidable registered in the ball's
// cell and its eight neighbors, deduplicated, in grid scan order.
func (b *Ball) PotentialColliders(g *CollisionGrid) []Collidable {
	var out []Collidable
	seen := make(map[EntityID]struct{})
	for _, k := range g.NeighborKeys(b.Cell()) {
		for _, c := range g.Entities(k) {
			if c.ID() == b.id {
				continue
			}
			if _, dup := seen[c.ID()]; dup {
				continue
			}
			seen[c.ID()] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

func (b *Ball) CollisionTime(other Collidable) float64 {
	switch o := other.(type) {
	case *Ball:
		return b.ballCollisionTime(o)
	case *Barrier:
		return b.barrierCollisionTime(o)
	default:
		return dynamo.NoCollision
	}
}

func (b *Ball) ballCollisionTime(o *Ball) float64 {
	dR := b.Position.Sub(o.Position)
	dV := b.Velocity.Sub(o.Velocity)
	rSum := b.Radius + o.Radius

	if separating(dR, dV, 0) {
		return dynamo.NoCollision
	}

	a := dV.MagSq()
	bq := 2 * dR.Dot(dV)
	c := dynamo.SafeDifferenceOfSquares(dR.MagSq(), rSum*rSum)
	if c <= 0 {
		// already touching and still closing
		return 0
	}

	t1, t2, ok := dynamo.QuadraticSolution(a, bq, c)
	if !ok {
		return dynamo.NoCollision
	}

	best := math.Inf(1)
	for _, t := range [2]float64{t1, t2} {
		if t >= NegativeTimeEps && !separating(dR, dV, t) && t < best {
			best = t
		}
	}
	if math.IsInf(best, 1) {
		return dynamo.NoCollision
	}
	return math.Max(best, 0)
}

func (b *Ball) barrierCollisionTime(w *Barrier) float64 {
	n := w.Normal()
	d := w.SignedDistance(b.Position)
	vn := b.Velocity.Dot(n)

	// parallel or moving away
	if vn == 0 || d*vn >= 0 {
		return dynamo.NoCollision
	}

	reach := b.Radius + w.Width/2
	gap := dynamo.SafeDifferenceOfSquares(math.Abs(d), reach)
	t := math.Max(gap, 0) / math.Abs(vn)

	contact := b.Position.Add(b.Velocity.Scale(t))
	s := w.Projection(contact)
	if s < -b.Radius || s > w.Length()+b.Radius {
		return dynamo.NoCollision
	}
	return t
}

// separating reports whether two bodies with relative position dR and
// relative velocity dV are moving apart at time t.
func separating(dR, dV dynamo.Vector2, t float64) bool {
	return dR.Dot(dV)+t*dV.MagSq() >= 0
}

func (b *Ball) Shape() paint.Shape {
	return paint.Circle{
		Center:     paint.PointOf(b.Position),
		Radius:     b.Radius,
		ColorIndex: b.ColorIndex,
	}
}
