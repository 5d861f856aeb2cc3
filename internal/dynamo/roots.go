package dynamo

import "math"

// QuadraticSolution returns the two real roots of a·t² + b·t + c = 0.
//
// The roots are combined through q = -(b + sign(b)·√disc)/2 so that the
// larger-magnitude root never subtracts nearly equal terms. ok is false when
// the discriminant is not positive or when a is exactly zero; callers that
// can produce a ≈ 0 must treat the linear case themselves.
func QuadraticSolution(a, b, c float64) (t1, t2 float64, ok bool) {
	if a == 0 {
		return 0, 0, false
	}
	disc := b*b - 4*a*c
	if disc <= 0 {
		return 0, 0, false
	}
	sqrtDisc := math.Sqrt(disc)
	var q float64
	if b >= 0 {
		q = -(b + sqrtDisc) / 2
	} else {
		q = -(b - sqrtDisc) / 2
	}
	return q / a, c / q, true
}

// SafeDifferenceOfSquares returns (a²-b²)/(a+b). The collision-time solvers
// feed it squared lengths, so far-apart bodies do not subtract two large,
// nearly equal magnitudes directly. When a+b is zero it returns a-b.
func SafeDifferenceOfSquares(a, b float64) float64 {
	sum := a + b
	if sum == 0 {
		return a - b
	}
	return (a*a - b*b) / sum
}
