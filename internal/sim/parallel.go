package sim

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/bouncesim/internal/dynamo"
)

// Summary is the outcome of one ensemble member.
type Summary struct {
	Seed          int64
	Frames        int
	SubSteps      int
	Population    int
	LostBalls     int
	SimTime       float64
	KineticEnergy float64
	Elapsed       time.Duration
}

// StepsPerSecond is the sub-step throughput of the run.
func (s Summary) StepsPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.SubSteps) / s.Elapsed.Seconds()
}

// Ensemble runs independent simulators with consecutive seeds in parallel.
type Ensemble struct {
	cfg       Config
	numRuns   int
	seedStart int64

	Bounds  dynamo.Vector2
	Gravity dynamo.Vector2
	Workers int
}

func NewEnsemble(cfg Config, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{
		cfg:       cfg,
		numRuns:   numRuns,
		seedStart: seedStart,
		Bounds:    dynamo.Vec(800, 600),
		Gravity:   dynamo.Vec(0, 1),
		Workers:   runtime.NumCPU(),
	}
}

// Run advances every member frames times by dt. Results are ordered by seed.
func (e *Ensemble) Run(ctx context.Context, frames int, dt float64) ([]Summary, error) {
	results := make([]Summary, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	if e.Workers > 0 {
		g.SetLimit(e.Workers)
	}
	for i := 0; i < e.numRuns; i++ {
		g.Go(func() error {
			cfg := e.cfg
			cfg.Seed = e.seedStart + int64(i)

			s := New(cfg)
			bounds := e.Bounds
			if err := s.Initialize(&bounds); err != nil {
				return err
			}
			s.SetGravity(e.Gravity)

			steps := 0
			s.AddObserver(ObserverFunc(func(f Frame) { steps += f.SubSteps }))

			start := time.Now()
			if err := s.RunFrames(ctx, frames, dt); err != nil {
				return err
			}
			results[i] = Summary{
				Seed:          cfg.Seed,
				Frames:        frames,
				SubSteps:      steps,
				Population:    s.Population(),
				LostBalls:     s.LostBalls(),
				SimTime:       s.SimulationTime(),
				KineticEnergy: s.KineticEnergy(),
				Elapsed:       time.Since(start),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
