package metrics

import (
	"math"

	"github.com/san-kum/bouncesim/internal/sim"
)

// MaxOverlap returns the deepest ball-ball overlap in the frame, or 0.
func MaxOverlap(bodies []sim.BodyState) float64 {
	var worst float64
	for i := range bodies {
		for j := i + 1; j < len(bodies); j++ {
			a, b := bodies[i], bodies[j]
			depth := a.Radius + b.Radius - b.Position.Sub(a.Position).Mag()
			worst = math.Max(worst, depth)
		}
	}
	return worst
}

// Penetration is the deepest ball-ball overlap seen over all frames.
type Penetration struct {
	name  string
	worst float64
}

func NewPenetration() *Penetration {
	return &Penetration{name: "max_penetration"}
}

func (p *Penetration) Name() string { return p.name }

func (p *Penetration) Observe(f sim.Frame) {
	p.worst = math.Max(p.worst, MaxOverlap(f.Bodies))
}

func (p *Penetration) Value() float64 { return p.worst }

func (p *Penetration) Reset() { p.worst = 0 }

// Stability is the fraction of frames whose deepest overlap stays within
// threshold, typically the solver slop.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(f sim.Frame) {
	s.samples++
	if MaxOverlap(f.Bodies) > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
