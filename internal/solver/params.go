package solver

import (
	"errors"
	"fmt"

	"github.com/san-kum/bouncesim/internal/dynamo"
)

const (
	DefaultIterations      = 2
	DefaultIdleLifetime    = 10.0
	DefaultBetaBallBall    = 0.02
	DefaultBetaBallBarrier = 0.1
	DefaultSlop            = 0.5
	DefaultWarmStartFactor = 0.5
)

// Params tunes the solver.
type Params struct {
	Iterations      int
	IdleLifetime    float64
	BetaBallBall    float64
	BetaBallBarrier float64
	Slop            float64
	WarmStartFactor float64
}

func DefaultParams() Params {
	return Params{
		Iterations:      DefaultIterations,
		IdleLifetime:    DefaultIdleLifetime,
		BetaBallBall:    DefaultBetaBallBall,
		BetaBallBarrier: DefaultBetaBallBarrier,
		Slop:            DefaultSlop,
		WarmStartFactor: DefaultWarmStartFactor,
	}
}

func (p Params) Validate() error {
	var errs []error
	if p.Iterations < 1 {
		errs = append(errs, fmt.Errorf("%w: iterations must be at least 1, got %d", dynamo.ErrInvalidParameter, p.Iterations))
	}
	if p.IdleLifetime <= 0 {
		errs = append(errs, fmt.Errorf("%w: idle lifetime must be positive, got %g", dynamo.ErrInvalidParameter, p.IdleLifetime))
	}
	if p.BetaBallBall < 0 || p.BetaBallBarrier < 0 {
		errs = append(errs, fmt.Errorf("%w: stabilization gains must be non-negative", dynamo.ErrInvalidParameter))
	}
	if p.Slop < 0 {
		errs = append(errs, fmt.Errorf("%w: slop must be non-negative, got %g", dynamo.ErrInvalidParameter, p.Slop))
	}
	if p.WarmStartFactor < 0 || p.WarmStartFactor > 1 {
		errs = append(errs, fmt.Errorf("%w: warm start factor must be in [0, 1], got %g", dynamo.ErrInvalidParameter, p.WarmStartFactor))
	}
	return errors.Join(errs...)
}
