package dynamo

import "errors"

// Domain errors for simulation operations.
var (
	// ErrInvalidBounds indicates arena dimensions that do not enclose a positive area.
	ErrInvalidBounds = errors.New("dynamo: arena bounds must have positive width and height")

	// ErrDegenerateGeometry indicates a zero-length barrier or a zero direction vector.
	ErrDegenerateGeometry = errors.New("dynamo: degenerate geometry")

	// ErrInvalidParameter indicates a parameter value outside its valid range.
	ErrInvalidParameter = errors.New("dynamo: parameter out of valid bounds")

	// ErrNotRunning indicates an operation that requires a running simulation.
	ErrNotRunning = errors.New("dynamo: simulation not running")
)

// NoCollision is returned by collision-time queries when the bodies never touch.
const NoCollision = -1.0
