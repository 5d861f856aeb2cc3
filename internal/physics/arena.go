package physics

import (
	"math/rand"

	"github.com/san-kum/bouncesim/internal/dynamo"
)

// Wall names one side of the arena.
type Wall int

const (
	WallNone Wall = iota
	WallTop
	WallRight
	WallBottom
	WallLeft
)

func (w Wall) String() string {
	switch w {
	case WallTop:
		return "top"
	case WallRight:
		return "right"
	case WallBottom:
		return "bottom"
	case WallLeft:
		return "left"
	default:
		return "none"
	}
}

// ParseWall maps a config name to a Wall; unknown names map to WallNone.
func ParseWall(s string) (Wall, bool) {
	switch s {
	case "", "none":
		return WallNone, true
	case "top":
		return WallTop, true
	case "right":
		return WallRight, true
	case "bottom":
		return WallBottom, true
	case "left":
		return WallLeft, true
	default:
		return WallNone, false
	}
}

// Arena is the rectangle the balls live in, anchored at the origin.
type Arena struct {
	Lower dynamo.Vector2
	Upper dynamo.Vector2
}

func NewArena(dims dynamo.Vector2) Arena {
	return Arena{Lower: dynamo.Zero(), Upper: dims}
}

func (a Arena) Width() float64  { return a.Upper.X() - a.Lower.X() }
func (a Arena) Height() float64 { return a.Upper.Y() - a.Lower.Y() }

func (a Arena) Valid() bool {
	return a.Width() > 0 && a.Height() > 0
}

// Corners returns the four corners clockwise from Lower (screen coordinates,
// y grows downwards), so edge i runs from corner i to corner i+1:
// top, right, bottom, left.
func (a Arena) Corners() [4]dynamo.Vector2 {
	return [4]dynamo.Vector2{
		a.Lower,
		dynamo.Vec(a.Upper.X(), a.Lower.Y()),
		a.Upper,
		dynamo.Vec(a.Lower.X(), a.Upper.Y()),
	}
}

// SpawnArea is the central region, inset by a quarter of each dimension.
func (a Arena) SpawnArea() Arena {
	off := dynamo.Vec(a.Width()/4, a.Height()/4)
	return Arena{Lower: a.Lower.Add(off), Upper: a.Upper.Sub(off)}
}

// SpawnPose draws a position inside SpawnArea and a velocity with uniform
// direction and speed in [minSpeed, maxSpeed).
func (a Arena) SpawnPose(rng *rand.Rand, minSpeed, maxSpeed float64) (pos, vel dynamo.Vector2) {
	area := a.SpawnArea()
	pos = dynamo.RandomInBox(rng, area.Lower, area.Upper)
	vel = dynamo.RandomUnit(rng).Scale(dynamo.RandomInRange(rng, minSpeed, maxSpeed))
	return pos, vel
}

// Walls builds the four outer barriers. The wall named ending, if any, removes balls.
func (a Arena) Walls(width, restitution float64, ending Wall) ([]*Barrier, error) {
	c := a.Corners()
	walls := make([]*Barrier, 0, len(c))
	for i := range c {
		side := Wall(i + 1)
		var (
			w   *Barrier
			err error
		)
		if side == ending {
			w, err = NewEndingBarrier(c[i], c[(i+1)%len(c)], width)
		} else {
			w, err = NewBarrier(c[i], c[(i+1)%len(c)], width)
		}
		if err != nil {
			return nil, err
		}
		w.Restitution = restitution
		walls = append(walls, w)
	}
	return walls, nil
}
