package solver

import (
	"math"

	"github.com/san-kum/bouncesim/internal/dynamo"
	"github.com/san-kum/bouncesim/internal/physics"
)

// ballBallMass is the effective mass of the pair along the contact normal:
// two unit masses each receiving the full impulse.
const ballBallMass = 2.0

// BallBall keeps two balls from interpenetrating.
type BallBall struct {
	activity

	a, b *physics.Ball
	beta float64
	slop float64
}

func NewBallBall(a, b *physics.Ball, p Params) *BallBall {
	return &BallBall{a: a, b: b, beta: p.BetaBallBall, slop: p.Slop}
}

func (c *BallBall) Key() PairKey { return MakePairKey(c.a.ID(), c.b.ID()) }

// normal points from a to b. Coincident centers fall back to +x.
func (c *BallBall) normal() dynamo.Vector2 {
	d := c.b.Position.Sub(c.a.Position)
	if d.MagSq() == 0 {
		return dynamo.Vec(1, 0)
	}
	return d.Unit()
}

func (c *BallBall) EvalC() float64 {
	return c.b.Position.Sub(c.a.Position).Mag() - (c.a.Radius + c.b.Radius)
}

func (c *BallBall) EvalCdot() float64 {
	return c.normal().Dot(c.b.Velocity.Sub(c.a.Velocity))
}

func (c *BallBall) Satisfied() bool {
	if c.EvalC() >= 0 || c.EvalCdot() > 0 {
		return true
	}
	c.a.ReduceGravity()
	c.b.ReduceGravity()
	return false
}

func (c *BallBall) restitution() float64 {
	return math.Min(c.a.Restitution, c.b.Restitution)
}

func (c *BallBall) EvalImpulse(dt float64) float64 {
	target := targetSpeed(c.restitution(), c.cdotInit, c.beta, dt, c.EvalC(), c.slop)
	return (target - c.EvalCdot()) / ballBallMass
}

func (c *BallBall) ApplyImpulse(lambda float64) {
	c.push(lambda)
	c.touch(lambda)
}

func (c *BallBall) push(lambda float64) {
	j := c.normal().Scale(lambda)
	c.b.Velocity = c.b.Velocity.Add(j)
	c.a.Velocity = c.a.Velocity.Sub(j)
}

func (c *BallBall) ResetInitialQuantities() {
	c.beginStep(c.EvalCdot())
}

func (c *BallBall) WarmStart(factor float64) {
	if c.lastAccum == 0 || factor == 0 || c.Satisfied() {
		return
	}
	lambda := factor * c.lastAccum
	c.push(lambda)
	c.accum += lambda
}
