package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/bouncesim/internal/dynamo"
	"github.com/san-kum/bouncesim/internal/sim"
)

func body(x, y, vx, vy, r float64) sim.BodyState {
	return sim.BodyState{Position: dynamo.Vec(x, y), Velocity: dynamo.Vec(vx, vy), Radius: r}
}

func TestEnergy(t *testing.T) {
	m := NewEnergy()
	m.Observe(sim.Frame{Bodies: []sim.BodyState{body(0, 0, 3, 4, 1)}})
	m.Observe(sim.Frame{Bodies: []sim.BodyState{body(0, 0, 1, 0, 1), body(5, 5, 0, 1, 1)}})

	// (12.5 + 1) / 2
	if math.Abs(m.Value()-6.75) > 1e-12 {
		t.Errorf("mean energy = %v, want 6.75", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyGrowth(t *testing.T) {
	m := NewEnergyGrowth()
	frames := []sim.Frame{
		{Population: 1, Bodies: []sim.BodyState{body(0, 0, 2, 0, 1)}},
		{Population: 1, Bodies: []sim.BodyState{body(0, 0, 1, 0, 1)}},
		{Population: 1, Bodies: []sim.BodyState{body(0, 0, 1.1, 0, 1)}},
		// spawn: population changed, not counted
		{Population: 2, Bodies: []sim.BodyState{body(0, 0, 1.1, 0, 1), body(9, 9, 5, 0, 1)}},
	}
	for _, f := range frames {
		m.Observe(f)
	}

	want := 1.21 - 1
	if math.Abs(m.Value()-want) > 1e-9 {
		t.Errorf("growth = %v, want %v", m.Value(), want)
	}
}

func TestPopulationAndLost(t *testing.T) {
	p := NewPopulation()
	l := NewLostBalls()
	for _, f := range []sim.Frame{
		{Population: 3, LostBalls: 0},
		{Population: 5, LostBalls: 1},
		{Population: 4, LostBalls: 2},
	} {
		p.Observe(f)
		l.Observe(f)
	}

	if p.Value() != 4 || p.Peak() != 5 {
		t.Errorf("population = %v peak %d", p.Value(), p.Peak())
	}
	if l.Value() != 2 {
		t.Errorf("lost = %v, want 2", l.Value())
	}
}

func TestMaxOverlap(t *testing.T) {
	tests := []struct {
		name   string
		bodies []sim.BodyState
		want   float64
	}{
		{"empty", nil, 0},
		{"apart", []sim.BodyState{body(0, 0, 0, 0, 1), body(5, 0, 0, 0, 1)}, 0},
		{"overlap", []sim.BodyState{body(0, 0, 0, 0, 1), body(1.5, 0, 0, 0, 1)}, 0.5},
		{"worst of three", []sim.BodyState{
			body(0, 0, 0, 0, 1), body(1.5, 0, 0, 0, 1), body(10, 0, 0, 0, 2), body(12, 0, 0, 0, 2),
		}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaxOverlap(tt.bodies); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("MaxOverlap = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStability(t *testing.T) {
	s := NewStability(0.5)
	if s.Value() != 1 {
		t.Error("no samples should read as fully stable")
	}

	s.Observe(sim.Frame{Bodies: []sim.BodyState{body(0, 0, 0, 0, 1), body(1.8, 0, 0, 0, 1)}})
	s.Observe(sim.Frame{Bodies: []sim.BodyState{body(0, 0, 0, 0, 1), body(1, 0, 0, 0, 1)}})

	if math.Abs(s.Value()-0.5) > 1e-12 {
		t.Errorf("stability = %v, want 0.5", s.Value())
	}
}

func TestStandardWithSimulator(t *testing.T) {
	cfg := sim.DefaultConfig()
	s := sim.New(cfg)
	bounds := dynamo.Vec(800, 600)
	if err := s.Initialize(&bounds); err != nil {
		t.Fatal(err)
	}
	for _, m := range Standard(cfg.Solver.Slop) {
		s.AddMetric(m)
	}
	s.Run()
	for i := 0; i < 50; i++ {
		s.Advance(1)
	}

	values := s.Metrics()
	if len(values) != 7 {
		t.Fatalf("expected 7 metrics, got %v", values)
	}
	if values["population"] < 1 {
		t.Errorf("population metric = %v", values["population"])
	}
	if values["substeps_per_frame"] < 1 {
		t.Errorf("substeps metric = %v", values["substeps_per_frame"])
	}
}
