package physics

import (
	"fmt"

	"github.com/san-kum/bouncesim/internal/dynamo"
	"github.com/san-kum/bouncesim/internal/paint"
)

// LostBallsText position, in arena units from the upper left corner.
const (
	LostBallsTextX = 40.0
	LostBallsTextY = 60.0
)

// LostBallsText paints the number of balls removed by ending barriers.
type LostBallsText struct {
	base

	Position dynamo.Vector2
	Count    int
}

func NewLostBallsText() *LostBallsText {
	return &LostBallsText{Position: dynamo.Vec(LostBallsTextX, LostBallsTextY)}
}

func (t *LostBallsText) Shape() paint.Shape {
	return paint.Text{
		Text:     fmt.Sprintf("Lost: %d", t.Count),
		Position: paint.PointOf(t.Position),
	}
}
