// Package optim searches simulator parameters for the best value of a
// run metric.
package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/bouncesim/internal/config"
	"github.com/san-kum/bouncesim/internal/metrics"
)

// Evaluate runs the simulation at one parameter point and returns the
// metric being optimized.
type Evaluate func(ctx context.Context, params map[string]float64) (float64, error)

type Trial struct {
	Params map[string]float64
	Value  float64
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64

	// Maximize flips the search to prefer larger values.
	Maximize bool
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search evaluates every point of the grid in order and returns the best
// trial together with all of them.
func (g *GridSearch) Search(ctx context.Context, eval Evaluate) (Trial, []Trial, error) {
	if len(g.paramNames) != len(g.ranges) {
		return Trial{}, nil, fmt.Errorf("optim: %d parameters but %d ranges", len(g.paramNames), len(g.ranges))
	}

	best := Trial{Value: math.Inf(1)}
	if g.Maximize {
		best.Value = math.Inf(-1)
	}
	var trials []Trial

	err := g.searchRecursive(ctx, 0, make(map[string]float64), eval, &best, &trials)
	if err != nil {
		return Trial{}, trials, err
	}
	return best, trials, nil
}

func (g *GridSearch) better(a, b float64) bool {
	if g.Maximize {
		return a > b
	}
	return a < b
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	eval Evaluate,
	best *Trial,
	trials *[]Trial,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		val, err := eval(ctx, current)
		if err != nil {
			return fmt.Errorf("evaluate %v: %w", current, err)
		}
		*trials = append(*trials, Trial{Params: current, Value: val})
		if best.Params == nil || g.better(val, best.Value) {
			*best = Trial{Params: current, Value: val}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, eval, best, trials); err != nil {
			return err
		}
	}
	return nil
}

// SimEvaluator builds an Evaluate that applies params on a copy of base,
// runs base.Run.Frames frames and reads metric from the standard set.
func SimEvaluator(base *config.Config, metric string) Evaluate {
	return func(ctx context.Context, params map[string]float64) (float64, error) {
		cfg := base.Clone()
		for name, v := range params {
			if err := cfg.SetParam(name, v); err != nil {
				return 0, err
			}
		}
		s, err := cfg.NewSimulator()
		if err != nil {
			return 0, err
		}
		for _, m := range metrics.Standard(cfg.Solver.Slop) {
			s.AddMetric(m)
		}
		if err := s.RunFrames(ctx, cfg.Run.Frames, cfg.Run.Dt); err != nil {
			return 0, err
		}
		val, ok := s.Metrics()[metric]
		if !ok {
			return 0, fmt.Errorf("unknown metric %q", metric)
		}
		return val, nil
	}
}
