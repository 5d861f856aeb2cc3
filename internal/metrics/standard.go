package metrics

import "github.com/san-kum/bouncesim/internal/sim"

// Standard returns the metric set the CLI attaches to every run.
func Standard(slop float64) []sim.Metric {
	return []sim.Metric{
		NewPopulation(),
		NewLostBalls(),
		NewEnergy(),
		NewEnergyGrowth(),
		NewPenetration(),
		NewStability(slop),
		NewSubStepLoad(),
	}
}
