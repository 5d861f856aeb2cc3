// Package viz draws the arena in the terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live view of one simulator, fed by a frame ticker
//   - [Canvas]: Braille-based pixel canvas that renders a paint.ShapeList
//   - [PlotSeries]: asciigraph charts for recorded runs
//   - Theme selection with 3 built-in color schemes
//
// # Key Bindings
//
//	Space  - Pause/Resume simulation
//	R      - Restart the arena
//	Arrows - Tilt gravity
//	0      - Level gravity
//	T      - Cycle color themes
//	?      - Show help overlay
package viz
