package dynamo

import "fmt"

// Rotation is the display rotation reported by the host, in degrees.
type Rotation int

const (
	Rotation0   Rotation = 0
	Rotation90  Rotation = 90
	Rotation180 Rotation = 180
	Rotation270 Rotation = 270
)

// RotateSensorToDisplay maps a gravity reading from sensor axes into display axes.
func RotateSensorToDisplay(rot Rotation, in Vector2) (Vector2, error) {
	switch rot {
	case Rotation0:
		return in, nil
	case Rotation90:
		return Vec(-in.y, in.x), nil
	case Rotation180:
		return in.Scale(-1), nil
	case Rotation270:
		return Vec(in.y, -in.x), nil
	default:
		return Vector2{}, fmt.Errorf("%w: rotation %d", ErrInvalidParameter, rot)
	}
}
