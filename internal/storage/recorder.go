package storage

import (
	"fmt"

	"github.com/san-kum/bouncesim/internal/sim"
)

// Sample is one row of a run's time series.
type Sample struct {
	Time        float64 `json:"time"`
	Population  int     `json:"population"`
	LostBalls   int     `json:"lost"`
	Energy      float64 `json:"energy"`
	SubSteps    int     `json:"substeps"`
	Constraints int     `json:"constraints"`
}

func SampleOf(f sim.Frame) Sample {
	return Sample{
		Time:        f.Time,
		Population:  f.Population,
		LostBalls:   f.LostBalls,
		Energy:      f.KineticEnergy(),
		SubSteps:    f.SubSteps,
		Constraints: f.Constraints,
	}
}

// Recorder is a sim.Observer that keeps every Nth frame as a Sample.
type Recorder struct {
	every   int
	seen    int
	samples []Sample
}

func NewRecorder(every int) *Recorder {
	if every < 1 {
		every = 1
	}
	return &Recorder{every: every}
}

func (r *Recorder) OnStep(f sim.Frame) {
	if r.seen%r.every == 0 {
		r.samples = append(r.samples, SampleOf(f))
	}
	r.seen++
}

func (r *Recorder) Samples() []Sample { return r.samples }

// SeriesNames lists the columns Series accepts.
var SeriesNames = []string{"population", "lost", "energy", "substeps", "constraints"}

// Series extracts one column from samples.
func Series(samples []Sample, name string) ([]float64, error) {
	pick, ok := map[string]func(Sample) float64{
		"population":  func(s Sample) float64 { return float64(s.Population) },
		"lost":        func(s Sample) float64 { return float64(s.LostBalls) },
		"energy":      func(s Sample) float64 { return s.Energy },
		"substeps":    func(s Sample) float64 { return float64(s.SubSteps) },
		"constraints": func(s Sample) float64 { return float64(s.Constraints) },
	}[name]
	if !ok {
		return nil, fmt.Errorf("unknown series %q", name)
	}
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = pick(s)
	}
	return out, nil
}
