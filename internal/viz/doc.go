// Package viz replays grown forests in the terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: frame-by-frame replay of one forest with a stats panel
//   - [Canvas]: Braille-based pixel canvas with per-cell colour
//   - a preset picker started by [RunPicker]
//
// # Key Bindings
//
//	Space - Pause/Resume, restart once finished
//	R     - Regrow with the next seed
//	+/-   - Change replay speed
//	T     - Cycle color themes
//	S     - Save the current frame as SVG
//	?     - Show help overlay
package viz
