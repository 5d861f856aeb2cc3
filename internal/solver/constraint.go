package solver

import (
	"math"

	"github.com/san-kum/bouncesim/internal/physics"
)

// PairKey identifies an unordered pair of entities. Lo is always the smaller ID.
type PairKey struct {
	Lo, Hi physics.EntityID
}

func MakePairKey(a, b physics.EntityID) PairKey {
	if a > b {
		a, b = b, a
	}
	return PairKey{Lo: a, Hi: b}
}

// Involves reports whether id is one of the pair.
func (k PairKey) Involves(id physics.EntityID) bool {
	return k.Lo == id || k.Hi == id
}

// Constraint is one persistent contact between two collidables.
type Constraint interface {
	Key() PairKey

	// Satisfied reports C >= 0 or Ċ > 0. A violated constraint flags its
	// balls for reduced gravity as a side effect.
	Satisfied() bool

	// EvalC is the signed separation, non-negative when not penetrating.
	EvalC() float64
	// EvalCdot is the rate of change of EvalC.
	EvalCdot() float64

	// EvalImpulse returns the corrective impulse magnitude for a step of dt.
	EvalImpulse(dt float64) float64
	// ApplyImpulse pushes the participants apart by lambda and marks the
	// constraint active.
	ApplyImpulse(lambda float64)

	// ResetInitialQuantities runs once per step before any pass.
	ResetInitialQuantities()
	// WarmStart applies factor times the previous step's accumulated impulse
	// when the constraint is violated.
	WarmStart(factor float64)

	Age(dt float64)
	TimedOut(lifetime float64) bool
}

// activity tracks idle time and the impulse accumulated over a step.
type activity struct {
	idle      float64
	accum     float64
	lastAccum float64
	cdotInit  float64
}

func (a *activity) Age(dt float64) { a.idle += dt }

func (a *activity) TimedOut(lifetime float64) bool { return a.idle >= lifetime }

func (a *activity) touch(lambda float64) {
	a.accum += lambda
	a.idle = 0
}

func (a *activity) beginStep(cdot float64) {
	a.lastAccum = a.accum
	a.accum = 0
	a.cdotInit = cdot
}

// correctedC drops penetrations shallower than slop.
func correctedC(c, slop float64) float64 {
	if c >= 0 {
		return 0
	}
	return math.Min(c+slop, 0)
}

// approach keeps only the closing part of the initial velocity, so
// restitution never pulls separating bodies together.
func approach(cdotInit float64) float64 {
	return math.Min(cdotInit, 0)
}

// targetSpeed is the separating speed a violated constraint is driven to:
// the restitution bounce or the Baumgarte push, whichever is larger. The
// push never stacks on top of a bounce.
func targetSpeed(e, cdotInit, beta, dt, c, slop float64) float64 {
	return math.Max(-e*approach(cdotInit), -beta/dt*correctedC(c, slop))
}
