// Package dynamo provides the numeric primitives shared by the simulation.
//
// The package defines:
//
//   - [Vector2]: immutable 2D vector with a lazily cached magnitude
//   - [QuadraticSolution]: numerically stable real roots of a·t² + b·t + c
//   - [SafeDifferenceOfSquares]: a² - b² without cancellation for a ≈ b
//   - [RotateSensorToDisplay]: maps a device gravity reading into display axes
//
// # Magnitude cache
//
// A Vector2 computes its magnitude on first use through [Vector2.CacheMag]
// and keeps it on that instance. Every arithmetic operation returns a fresh
// vector, so a cached value never leaks into a different logical vector.
//
// # Thread Safety
//
// Vector2 values are safe to copy between goroutines. CacheMag writes to the
// receiver and must not race with readers of the same variable.
package dynamo
