// Package viz provides the terminal driver for the particle arena.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live arena view with kinetic energy chart and stats panel
//   - [NewInteractiveApp]: preset menu that launches a tuned live view
//   - [Canvas]: Braille-based pixel canvas, [Viewport] maps world to canvas
//   - Theme selection with 4 built-in color schemes
//
// # Key Bindings
//
//	P     - Pause/Resume simulation
//	Space - Freeze (drop all velocities every sub-step)
//	Up    - Invert gravity
//	Click - Spawn at the cursor (throttled by the emitter)
//	R     - Refill from the config seed
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//
// # Recording
//
// The G key records the canvas as a monochrome GIF, saved as verlet.gif in
// the current directory when recording stops.
package viz
