package metrics

import "github.com/san-kum/bouncesim/internal/sim"

// Population reports the population of the last observed frame.
type Population struct {
	name string
	last int
	peak int
}

func NewPopulation() *Population {
	return &Population{name: "population"}
}

func (p *Population) Name() string { return p.name }

func (p *Population) Observe(f sim.Frame) {
	p.last = f.Population
	p.peak = max(p.peak, f.Population)
}

func (p *Population) Value() float64 { return float64(p.last) }

// Peak is the largest population seen since the last Reset.
func (p *Population) Peak() int { return p.peak }

func (p *Population) Reset() {
	p.last = 0
	p.peak = 0
}

// LostBalls reports the lost-ball counter of the last observed frame.
type LostBalls struct {
	name string
	last int
}

func NewLostBalls() *LostBalls {
	return &LostBalls{name: "lost_balls"}
}

func (l *LostBalls) Name() string        { return l.name }
func (l *LostBalls) Observe(f sim.Frame) { l.last = f.LostBalls }
func (l *LostBalls) Value() float64      { return float64(l.last) }
func (l *LostBalls) Reset()              { l.last = 0 }

// SubStepLoad is the mean number of sub-steps per frame.
type SubStepLoad struct {
	name    string
	sum     int
	samples int
}

func NewSubStepLoad() *SubStepLoad {
	return &SubStepLoad{name: "substeps_per_frame"}
}

func (s *SubStepLoad) Name() string {
	return s.name
}

func (s *SubStepLoad) Observe(f sim.Frame) {
	s.sum += f.SubSteps
	s.samples++
}

func (s *SubStepLoad) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return float64(s.sum) / float64(s.samples)
}

func (s *SubStepLoad) Reset() {
	s.sum = 0
	s.samples = 0
}
