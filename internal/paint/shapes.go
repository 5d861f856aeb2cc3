// Package paint holds the drawable primitives produced by the simulation.
//
// A ShapeList is a self-contained value: every primitive stores copied
// coordinates, so hosts may read it while the next step runs.
package paint

import "github.com/san-kum/bouncesim/internal/dynamo"

// Point is a plain coordinate pair, free of any simulation state.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PointOf copies v into a Point.
func PointOf(v dynamo.Vector2) Point {
	return Point{X: v.X(), Y: v.Y()}
}

type Kind int

const (
	KindCircle Kind = iota
	KindLine
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindCircle:
		return "circle"
	case KindLine:
		return "line"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Shape is one drawable primitive.
type Shape interface {
	Kind() Kind
}

type Circle struct {
	Center     Point
	Radius     float64
	ColorIndex int
}

func (Circle) Kind() Kind { return KindCircle }

type Line struct {
	Start Point
	End   Point
	Width float64
}

func (Line) Kind() Kind { return KindLine }

type Text struct {
	Text     string
	Position Point
}

func (Text) Kind() Kind { return KindText }

// ShapeList is the snapshot handed to renderers. UpperLeft and LowerRight
// span the arena so hosts can scale the drawing to their surface.
type ShapeList struct {
	UpperLeft  Point
	LowerRight Point
	Items      []Shape
}

func (l ShapeList) Width() float64  { return l.LowerRight.X - l.UpperLeft.X }
func (l ShapeList) Height() float64 { return l.LowerRight.Y - l.UpperLeft.Y }

// Empty reports whether the list carries no arena, as returned before initialization.
func (l ShapeList) Empty() bool {
	return l.Width() <= 0 || l.Height() <= 0
}

// Count returns the number of primitives of kind k.
func (l ShapeList) Count(k Kind) int {
	n := 0
	for _, s := range l.Items {
		if s.Kind() == k {
			n++
		}
	}
	return n
}
