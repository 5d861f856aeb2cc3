// Package solver resolves contacts between balls and barriers with
// persistent velocity constraints.
//
// One constraint exists per interacting pair, keyed by the canonical
// (lower ID, higher ID) pair. A constraint survives between steps so its
// accumulated impulse can warm-start the next step, and is evicted after
// it has gone unused for the idle lifetime.
//
// Each [Solver.Step]:
//
//  1. creates constraints for every new neighbor pair on the grid
//  2. captures the initial closing velocity of every constraint
//  3. applies gravity to every ball
//  4. warm-starts violated constraints from the previous step
//  5. runs a fixed number of sequential-impulse passes
//  6. ages constraints and purges idle ones
//
// Impulses use Baumgarte stabilization with a slop allowance:
//
//	λ = -(Ċ + e·Ċ₀ + (β/dt)·min(C+slop, 0)) / m_eff
//
// Iteration order is creation order, so a step is deterministic for a
// given entity order.
package solver
