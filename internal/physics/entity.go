package physics

import (
	"github.com/san-kum/bouncesim/internal/dynamo"
	"github.com/san-kum/bouncesim/internal/paint"
)

// EntityID is the stable identity of an entity inside one simulator.
// Zero means "not yet added".
type EntityID uint64

// Entity is anything the simulator tracks.
type Entity interface {
	ID() EntityID
	SetID(id EntityID)
}

// Collidable entities can touch each other and occupy grid cells.
type Collidable interface {
	Entity
	Collided(other Collidable) bool
	MarkGrid(g *CollisionGrid)
	UnmarkGrid(g *CollisionGrid)
}

// Mobile entities move every sub-step.
type Mobile interface {
	Entity
	Travel(dt float64)
	PotentialColliders(g *CollisionGrid) []Collidable
	// CollisionTime returns the earliest time >= 0 at which the entity first
	// touches other, or dynamo.NoCollision.
	CollisionTime(other Collidable) float64
	SpeedLimit() float64
	BoundingRadius() float64
}

// Paintable entities contribute one primitive to the snapshot.
type Paintable interface {
	Entity
	Shape() paint.Shape
}

// GravitySensitive entities accelerate under the ambient gravity vector.
type GravitySensitive interface {
	Entity
	SetGravity(g dynamo.Vector2)
	ApplyGravityAcceleration(dt float64)
}

type base struct {
	id EntityID
}

func (b *base) ID() EntityID      { return b.id }
func (b *base) SetID(id EntityID) { b.id = id }
