package dynamo

import (
	"math"
	"math/rand"
)

// RandomUnit returns a uniformly distributed direction.
func RandomUnit(rng *rand.Rand) Vector2 {
	angle := 2 * math.Pi * rng.Float64()
	return Vector2{x: math.Cos(angle), y: math.Sin(angle), mag: 1, hasMag: true}
}

// RandomInRange returns a value uniformly drawn from [lo, hi).
func RandomInRange(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// RandomInBox returns a point uniformly drawn from the box spanned by lo and hi.
func RandomInBox(rng *rand.Rand, lo, hi Vector2) Vector2 {
	return Vector2{
		x: lo.x + rng.Float64()*(hi.x-lo.x),
		y: lo.y + rng.Float64()*(hi.y-lo.y),
	}
}
