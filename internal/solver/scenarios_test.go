package solver

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/bouncesim/internal/dynamo"
	"github.com/san-kum/bouncesim/internal/physics"
)

var _ = Describe("Solver scenarios", func() {
	var (
		params Params
		w      *testWorld
	)

	BeforeEach(func() {
		params = DefaultParams()
		w = newTestWorld(params)
	})

	Describe("two overlapping balls at rest", func() {
		var a, b *physics.Ball

		BeforeEach(func() {
			a = w.ball(20, 20, 3)
			b = w.ball(23, 20, 3)
			a.Restitution, b.Restitution = 0.5, 0.5
		})

		It("pushes them apart along the line of centers", func() {
			w.step(1)
			Expect(a.Velocity.X()).To(BeNumerically("<", 0))
			Expect(b.Velocity.X()).To(BeNumerically(">", 0))
			Expect(a.Velocity.Y()).To(BeZero())
			Expect(b.Velocity.Y()).To(BeZero())
		})

		It("settles to within slop after a fixed number of steps", func() {
			for i := 0; i < 120; i++ {
				w.step(1)
			}
			sep := b.Position.Sub(a.Position).Mag() - (a.Radius + b.Radius)
			Expect(sep).To(BeNumerically(">=", -params.Slop))
		})
	})

	Describe("a ball resting on a floor under gravity", func() {
		var (
			floor *physics.Barrier
			ball  *physics.Ball
		)

		BeforeEach(func() {
			floor = w.barrier(dynamo.Vec(0, 40), dynamo.Vec(100, 40), 2, false)
			ball = w.ball(50, 37, 2)
			ball.Restitution = 0.5
			ball.SetGravity(dynamo.Vec(0, 0.1))
		})

		It("never sinks further than slop", func() {
			reach := ball.Radius + floor.Width/2
			for i := 0; i < 500; i++ {
				w.step(1)
				gap := -floor.SignedDistance(ball.Position) - reach
				Expect(gap).To(BeNumerically(">", -params.Slop), "step %d", i)
			}
		})
	})

	Describe("an ending barrier", func() {
		It("reports each ball exactly once", func() {
			w.barrier(dynamo.Vec(0, 40), dynamo.Vec(100, 40), 2, true)
			first := w.ball(30, 36, 2)
			second := w.ball(70, 30, 2)
			first.Velocity = dynamo.Vec(0, 1)
			second.Velocity = dynamo.Vec(0, 1)

			for i := 0; i < 20; i++ {
				w.step(1)
			}

			Expect(w.ended).To(ConsistOf(first.ID(), second.ID()))
		})
	})
})
