// Package physics holds the bodies of the bouncing-ball world and the
// spatial index they live on.
//
// Entities are described by small capability interfaces rather than one
// hierarchy:
//
//   - [Collidable]: can touch others and registers in a [CollisionGrid]
//   - [Mobile]: moves every sub-step and predicts contact times
//   - [Paintable]: contributes one [paint.Shape] to a snapshot
//   - [GravitySensitive]: accelerates under the ambient gravity vector
//
// [Ball] implements all four. [Barrier] is collidable and paintable only.
//
// # Grid
//
// The grid cell must be larger than every ball diameter, so a ball's
// contact partners are always found in its own cell or one of the eight
// neighbors. Barriers register in every cell their thickened outline
// crosses; that set is traced once and reused for the barrier's lifetime.
//
//	g := physics.NewCollisionGrid(2 * 1.05 * radius)
//	ball.MarkGrid(g)
//	for _, other := range ball.PotentialColliders(g) {
//	    ...
//	}
//
// Nothing here is safe for concurrent use.
package physics
