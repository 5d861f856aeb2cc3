package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/bouncesim/internal/dynamo"
	"github.com/san-kum/bouncesim/internal/paint"
)

const (
	DefaultWallWidth       = 1.0
	DefaultWallRestitution = 0.5
	PlayerBarrierWidth     = 4.0
)

// Barrier is a static line segment of finite thickness.
type Barrier struct {
	base

	Start       dynamo.Vector2
	End         dynamo.Vector2
	Width       float64
	Restitution float64

	ending    bool
	direction dynamo.Vector2
	normal    dynamo.Vector2
	length    float64
	cells     []CellKey
	cached    bool
}

// NewBarrier builds a barrier from start to end. A zero-length segment
// cannot produce contacts and is rejected.
func NewBarrier(start, end dynamo.Vector2, width float64) (*Barrier, error) {
	span := end.Sub(start)
	length := span.CacheMag()
	if length == 0 {
		return nil, fmt.Errorf("%w: barrier %v -> %v has zero length", dynamo.ErrDegenerateGeometry, start, end)
	}
	return &Barrier{
		Start:       start,
		End:         end,
		Width:       width,
		Restitution: DefaultWallRestitution,
		direction:   span.Unit(),
		normal:      span.UnitNormal(),
		length:      length,
	}, nil
}

// NewEndingBarrier builds a barrier that removes every ball touching it.
func NewEndingBarrier(start, end dynamo.Vector2, width float64) (*Barrier, error) {
	b, err := NewBarrier(start, end, width)
	if err != nil {
		return nil, err
	}
	b.ending = true
	return b, nil
}

// Ending reports whether contact removes the ball instead of bouncing it.
func (w *Barrier) Ending() bool { return w.ending }

func (w *Barrier) Normal() dynamo.Vector2    { return w.normal }
func (w *Barrier) Direction() dynamo.Vector2 { return w.direction }
func (w *Barrier) Length() float64           { return w.length }

// SignedDistance is the distance from p to the barrier's center line,
// positive on the side Normal points to.
func (w *Barrier) SignedDistance(p dynamo.Vector2) float64 {
	return p.Sub(w.Start).Dot(w.normal)
}

// Projection is the coordinate of p along the segment, 0 at Start and Length at End.
func (w *Barrier) Projection(p dynamo.Vector2) float64 {
	return p.Sub(w.Start).Dot(w.direction)
}

// WithinSpan reports whether p projects onto the segment itself.
func (w *Barrier) WithinSpan(p dynamo.Vector2) bool {
	s := w.Projection(p)
	return s >= 0 && s <= w.length
}

func (w *Barrier) Collided(other Collidable) bool {
	b, ok := other.(*Ball)
	if !ok {
		return false
	}
	if math.Abs(w.SignedDistance(b.Position)) > w.Width/2+b.Radius {
		return false
	}
	s := w.Projection(b.Position)
	return s >= -b.Radius && s <= w.length+b.Radius
}

// MarkGrid registers the barrier in every cell its thickened outline crosses.
// The cell set is computed on first use and reused afterwards.
func (w *Barrier) MarkGrid(g *CollisionGrid) {
	if !w.cached {
		w.cells = w.traceCells(g)
		w.cached = true
	}
	for _, k := range w.cells {
		g.Mark(k, w)
	}
}

func (w *Barrier) UnmarkGrid(g *CollisionGrid) {
	for _, k := range w.cells {
		g.Unmark(k, w)
	}
}

// Cells returns the cached cell set; nil until the first MarkGrid.
func (w *Barrier) Cells() []CellKey { return w.cells }

func (w *Barrier) Shape() paint.Shape {
	return paint.Line{
		Start: paint.PointOf(w.Start),
		End:   paint.PointOf(w.End),
		Width: w.Width,
	}
}

// corners of the thickened segment, in outline order
func (w *Barrier) corners() [4]dynamo.Vector2 {
	off := w.normal.Scale(w.Width / 2)
	return [4]dynamo.Vector2{
		w.Start.Add(off),
		w.Start.Sub(off),
		w.End.Sub(off),
		w.End.Add(off),
	}
}

type cellSet struct {
	keys []CellKey
	seen map[CellKey]struct{}
}

func (s *cellSet) add(k CellKey) {
	if _, ok := s.seen[k]; ok {
		return
	}
	s.seen[k] = struct{}{}
	s.keys = append(s.keys, k)
}

func (w *Barrier) traceCells(g *CollisionGrid) []CellKey {
	set := &cellSet{seen: make(map[CellKey]struct{})}
	c := w.corners()
	for i := range c {
		a, b := c[i], c[(i+1)%len(c)]
		set.add(g.KeyFor(a))
		set.add(g.KeyFor(b))
		bisect(g, a, b, set)
	}
	return set.keys
}

// bisect splits a-b at its midpoint until both ends of every piece land in
// identical or adjacent cells, collecting the midpoint cells on the way.
func bisect(g *CollisionGrid, a, b dynamo.Vector2, set *cellSet) {
	if g.Adjacent(g.KeyFor(a), g.KeyFor(b)) {
		return
	}
	mid := dynamo.Midpoint(a, b)
	set.add(g.KeyFor(mid))
	bisect(g, a, mid, set)
	bisect(g, mid, b, set)
}
