package solver

import (
	"math"

	"github.com/san-kum/bouncesim/internal/dynamo"
	"github.com/san-kum/bouncesim/internal/physics"
)

// BallBarrier keeps a ball on one side of a static barrier. The side is
// latched on first contact so a ball pushed past the center line is still
// driven back the way it came.
//
// Contact with an ending barrier never produces an impulse; the ball is
// handed to the removal callback instead.
type BallBarrier struct {
	activity

	ball    *physics.Ball
	barrier *physics.Barrier
	beta    float64
	slop    float64
	side    float64
	onEnd   func(*physics.Ball)
	ended   bool
}

func NewBallBarrier(ball *physics.Ball, barrier *physics.Barrier, p Params, onEnd func(*physics.Ball)) *BallBarrier {
	c := &BallBarrier{
		ball:    ball,
		barrier: barrier,
		beta:    p.BetaBallBarrier,
		slop:    p.Slop,
		onEnd:   onEnd,
	}
	c.side = c.currentSide()
	return c
}

func (c *BallBarrier) Key() PairKey { return MakePairKey(c.ball.ID(), c.barrier.ID()) }

func (c *BallBarrier) currentSide() float64 {
	if c.barrier.SignedDistance(c.ball.Position) < 0 {
		return -1
	}
	return 1
}

func (c *BallBarrier) reach() float64 {
	return c.ball.Radius + c.barrier.Width/2
}

// direction is the barrier normal pointing towards the ball's latched side.
func (c *BallBarrier) direction() dynamo.Vector2 {
	return c.barrier.Normal().Scale(c.side)
}

func (c *BallBarrier) EvalC() float64 {
	return c.side*c.barrier.SignedDistance(c.ball.Position) - c.reach()
}

func (c *BallBarrier) EvalCdot() float64 {
	return c.direction().Dot(c.ball.Velocity)
}

// Satisfied is always true while the ball's center projects outside the segment.
func (c *BallBarrier) Satisfied() bool {
	if c.ended || !c.barrier.WithinSpan(c.ball.Position) {
		return true
	}
	if c.barrier.Ending() {
		if c.EvalC() >= 0 {
			return true
		}
		c.ball.ReduceGravity()
		return false
	}
	if c.EvalC() >= 0 || c.EvalCdot() > 0 {
		return true
	}
	c.ball.ReduceGravity()
	return false
}

func (c *BallBarrier) restitution() float64 {
	return math.Min(c.ball.Restitution, c.barrier.Restitution)
}

func (c *BallBarrier) EvalImpulse(dt float64) float64 {
	if c.barrier.Ending() {
		return 0
	}
	target := targetSpeed(c.restitution(), c.cdotInit, c.beta, dt, c.EvalC(), c.slop)
	return target - c.EvalCdot()
}

func (c *BallBarrier) ApplyImpulse(lambda float64) {
	if c.barrier.Ending() {
		c.end()
		c.touch(0)
		return
	}
	c.push(lambda)
	c.touch(lambda)
}

func (c *BallBarrier) end() {
	if c.ended {
		return
	}
	c.ended = true
	if c.onEnd != nil {
		c.onEnd(c.ball)
	}
}

func (c *BallBarrier) push(lambda float64) {
	c.ball.Velocity = c.ball.Velocity.Add(c.direction().Scale(lambda))
}

// ResetInitialQuantities re-latches the side whenever the ball is clear of the barrier.
func (c *BallBarrier) ResetInitialQuantities() {
	if math.Abs(c.barrier.SignedDistance(c.ball.Position)) >= c.reach() {
		c.side = c.currentSide()
	}
	c.beginStep(c.EvalCdot())
}

func (c *BallBarrier) WarmStart(factor float64) {
	if c.barrier.Ending() || c.lastAccum == 0 || factor == 0 || c.Satisfied() {
		return
	}
	lambda := factor * c.lastAccum
	c.push(lambda)
	c.accum += lambda
}
