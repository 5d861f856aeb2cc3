package physics

import (
	"math"

	"github.com/san-kum/bouncesim/internal/dynamo"
)

// CellKey addresses one grid cell. Key space is unbounded in both directions.
type CellKey struct {
	I, J int
}

// CollisionGrid is a uniform spatial hash over the arena. The cell size must
// exceed the diameter of every mobile entity so that any contact partner sits
// in the same or an adjacent cell.
type CollisionGrid struct {
	cellSize float64
	cells    map[CellKey][]Collidable
}

func NewCollisionGrid(cellSize float64) *CollisionGrid {
	return &CollisionGrid{
		cellSize: cellSize,
		cells:    make(map[CellKey][]Collidable),
	}
}

// KeyFor returns the cell containing pos.
func (g *CollisionGrid) KeyFor(pos dynamo.Vector2) CellKey {
	return CellKey{
		I: int(math.Floor(pos.X() / g.cellSize)),
		J: int(math.Floor(pos.Y() / g.cellSize)),
	}
}

// Mark registers e in cell k. Registering the same entity twice is a no-op.
func (g *CollisionGrid) Mark(k CellKey, e Collidable) {
	cell := g.cells[k]
	for _, c := range cell {
		if c.ID() == e.ID() {
			return
		}
	}
	g.cells[k] = append(cell, e)
}

// Unmark removes e from cell k if present.
func (g *CollisionGrid) Unmark(k CellKey, e Collidable) {
	cell := g.cells[k]
	for i, c := range cell {
		if c.ID() != e.ID() {
			continue
		}
		last := len(cell) - 1
		copy(cell[i:], cell[i+1:])
		cell[last] = nil
		cell = cell[:last]
		break
	}
	if len(cell) == 0 {
		delete(g.cells, k)
		return
	}
	g.cells[k] = cell
}

// Entities returns a view of the entities in cell k.
// INTERNAL USE ONLY - the slice is invalidated by the next Mark/Unmark on k.
func (g *CollisionGrid) Entities(k CellKey) []Collidable {
	return g.cells[k]
}

// Contains reports whether the entity with the given id is registered in k.
func (g *CollisionGrid) Contains(k CellKey, id EntityID) bool {
	for _, c := range g.cells[k] {
		if c.ID() == id {
			return true
		}
	}
	return false
}

// NeighborKeys returns k and its eight surrounding cells, row by row.
func (g *CollisionGrid) NeighborKeys(k CellKey) [9]CellKey {
	var out [9]CellKey
	n := 0
	for dj := -1; dj <= 1; dj++ {
		for di := -1; di <= 1; di++ {
			out[n] = CellKey{I: k.I + di, J: k.J + dj}
			n++
		}
	}
	return out
}

// Adjacent reports whether a and b are identical, edge-adjacent or diagonal.
func (g *CollisionGrid) Adjacent(a, b CellKey) bool {
	di, dj := a.I-b.I, a.J-b.J
	return di >= -1 && di <= 1 && dj >= -1 && dj <= 1
}

func (g *CollisionGrid) MinCellDimension() float64 { return g.cellSize }

// OccupiedCells returns the number of non-empty cells.
func (g *CollisionGrid) OccupiedCells() int { return len(g.cells) }

// Clear drops every registration.
func (g *CollisionGrid) Clear() {
	g.cells = make(map[CellKey][]Collidable)
}
