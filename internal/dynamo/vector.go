package dynamo

import (
	"fmt"
	"math"
)

// Vector2 is an immutable 2D vector in double precision.
type Vector2 struct {
	x, y   float64
	mag    float64
	hasMag bool
}

// Vec returns the vector (x, y).
func Vec(x, y float64) Vector2 {
	return Vector2{x: x, y: y}
}

// Zero returns the zero vector.
func Zero() Vector2 { return Vector2{} }

func (v Vector2) X() float64 { return v.x }
func (v Vector2) Y() float64 { return v.y }

func (v Vector2) Add(o Vector2) Vector2 {
	return Vector2{x: v.x + o.x, y: v.y + o.y}
}

func (v Vector2) Sub(o Vector2) Vector2 {
	return Vector2{x: v.x - o.x, y: v.y - o.y}
}

// Scale multiplies both components by k. A known magnitude carries over as |k|·mag.
func (v Vector2) Scale(k float64) Vector2 {
	out := Vector2{x: v.x * k, y: v.y * k}
	if v.hasMag {
		out.mag = math.Abs(k) * v.mag
		out.hasMag = true
	}
	return out
}

func (v Vector2) Dot(o Vector2) float64 {
	return v.x*o.x + v.y*o.y
}

// Cross returns the z component of the 3D cross product v × o.
func (v Vector2) Cross(o Vector2) float64 {
	return v.x*o.y - v.y*o.x
}

func (v Vector2) MagSq() float64 {
	return v.x*v.x + v.y*v.y
}

// Mag returns the length of v, using the cached value when present.
func (v Vector2) Mag() float64 {
	if v.hasMag {
		return v.mag
	}
	return math.Sqrt(v.x*v.x + v.y*v.y)
}

// CacheMag returns the length of v and stores it on the receiver so later
// calls to Mag or CacheMag on the same variable skip the square root.
func (v *Vector2) CacheMag() float64 {
	if !v.hasMag {
		v.mag = math.Sqrt(v.x*v.x + v.y*v.y)
		v.hasMag = true
	}
	return v.mag
}

// Unit returns v scaled to length one. The zero vector maps to itself.
func (v Vector2) Unit() Vector2 {
	m := v.Mag()
	if m == 0 {
		return Vector2{}
	}
	return Vector2{x: v.x / m, y: v.y / m, mag: 1, hasMag: true}
}

// UnitNormal returns a unit vector perpendicular to v, rotated a quarter turn
// counter-clockwise. The zero vector yields (0, 1).
func (v Vector2) UnitNormal() Vector2 {
	if v.x == 0 && v.y == 0 {
		return Vector2{x: 0, y: 1, mag: 1, hasMag: true}
	}
	return Vector2{x: -v.y, y: v.x}.Unit()
}

func (v Vector2) Equal(o Vector2) bool {
	return v.x == o.x && v.y == o.y
}

func (v Vector2) IsValid() bool {
	return !math.IsNaN(v.x) && !math.IsNaN(v.y) && !math.IsInf(v.x, 0) && !math.IsInf(v.y, 0)
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Vector2) Vector2 {
	return Vector2{x: (a.x + b.x) / 2, y: (a.y + b.y) / 2}
}

func (v Vector2) String() string {
	return fmt.Sprintf("(%.4f, %.4f)", v.x, v.y)
}
