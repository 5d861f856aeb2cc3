package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/bouncesim/internal/dynamo"
	"github.com/san-kum/bouncesim/internal/paint"
	"github.com/san-kum/bouncesim/internal/physics"
)

func place(s *Simulator, x, y, vx, vy, restitution float64) *physics.Ball {
	b := physics.NewBallFactory(s.Config().Ball).Create()
	b.Position = dynamo.Vec(x, y)
	b.Velocity = dynamo.Vec(vx, vy)
	b.Restitution = restitution
	Expect(s.AddBall(b)).To(BeTrue())
	return b
}

var _ = Describe("Simulator scenarios", func() {
	var (
		cfg Config
		s   *Simulator
	)

	start := func(w, h float64) {
		s = New(cfg)
		bounds := dynamo.Vec(w, h)
		Expect(s.Initialize(&bounds)).To(Succeed())
		s.Run()
	}

	BeforeEach(func() {
		cfg = DefaultConfig()
		cfg.PopulationLimit = 0
	})

	Context("head-on elastic collision", func() {
		It("exchanges the velocities of two equal balls", func() {
			start(400, 300)
			a := place(s, 140, 150, 2, 0, 1)
			b := place(s, 260, 150, -2, 0, 1)

			for i := 0; i < 30; i++ {
				s.Advance(1)
			}

			Expect(a.Velocity.X()).To(BeNumerically("~", -2, 1e-9))
			Expect(b.Velocity.X()).To(BeNumerically("~", 2, 1e-9))
			Expect(a.Velocity.Y()).To(BeNumerically("~", 0, 1e-12))
			Expect(b.Velocity.Y()).To(BeNumerically("~", 0, 1e-12))
		})
	})

	Context("wall containment", func() {
		It("never lets a ball sink into a wall beyond slop", func() {
			start(400, 300)
			ball := place(s, 200, 150, 15, 4, 0.5)
			reach := ball.Radius + cfg.WallWidth/2

			for i := 0; i < 1000; i++ {
				s.Advance(1.0 / 60)
				p := ball.Position
				for _, gap := range []float64{p.X(), 400 - p.X(), p.Y(), 300 - p.Y()} {
					Expect(gap - reach).To(BeNumerically(">=", -cfg.Solver.Slop), "step %d at %v", i, p)
				}
			}
			Expect(ball.Velocity.X()).To(BeNumerically("<", 0), "ball never reached the right wall")
		})

		It("holds under gravity with whole-frame steps", func() {
			cfg.GravityStrength = 0.05
			start(400, 300)
			ball := place(s, 200, 150, 8, -3, 0.5)
			s.SetGravity(dynamo.Vec(0, 1))
			reach := ball.Radius + cfg.WallWidth/2

			for i := 0; i < 1000; i++ {
				s.Advance(1)
				p := ball.Position
				Expect(300 - p.Y() - reach).To(BeNumerically(">=", -cfg.Solver.Slop), "step %d", i)
				Expect(p.X() - reach).To(BeNumerically(">=", -cfg.Solver.Slop), "step %d", i)
				Expect(400 - p.X() - reach).To(BeNumerically(">=", -cfg.Solver.Slop), "step %d", i)
			}
		})
	})

	Context("ending wall", func() {
		BeforeEach(func() {
			cfg.EndingWall = physics.WallBottom
		})

		It("removes a ball exactly once and counts it", func() {
			start(400, 300)
			place(s, 200, 200, 0, 5, 0.5)
			place(s, 100, 100, 0, 0, 0.5)

			prev := s.Population()
			Expect(prev).To(Equal(2))
			for i := 0; i < 40; i++ {
				s.Advance(1)
				Expect(prev - s.Population()).To(BeNumerically("<=", 1))
				prev = s.Population()
			}

			Expect(s.Population()).To(Equal(1))
			Expect(s.LostBalls()).To(Equal(1))
		})

		It("paints the lost counter", func() {
			start(400, 300)
			place(s, 200, 200, 0, 5, 0.5)
			for i := 0; i < 40; i++ {
				s.Advance(1)
			}

			var texts []string
			for _, item := range s.Snapshot().Items {
				if t, ok := item.(paint.Text); ok {
					texts = append(texts, t.Text)
				}
			}
			Expect(texts).To(ConsistOf("Lost: 1"))
		})
	})

	Context("player barriers", func() {
		It("deflects a falling ball", func() {
			cfg.GravityStrength = 0.05
			start(600, 400)
			Expect(s.AddBarrier(dynamo.Vec(100, 250), dynamo.Vec(500, 250))).To(BeTrue())
			ball := place(s, 300, 100, 0, 0, 0.5)
			s.SetGravity(dynamo.Vec(0, 1))

			for i := 0; i < 300; i++ {
				s.Advance(1)
			}
			Expect(ball.Position.Y()).To(BeNumerically("<", 250-ball.Radius))
		})
	})
})
