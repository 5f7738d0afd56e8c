// Package viz draws the engine in the terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: the live view, one engine advanced per tick
//   - [Canvas]: Braille-based pixel canvas with per-cell color
//   - [DrawScene] and [DrawPV]: the mechanism and the P-V trace
//   - Theme selection with 5 built-in color schemes
//
// # Key Bindings
//
//	Space - Pause/Resume
//	S     - Step while paused
//	N     - Jump to the next stroke while paused
//	R     - Reset
//	+/-   - RPM ±10
//	[/]   - RPM ±100
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//
// # Recording
//
// G starts capturing the engine canvas each frame; pressing it again (or
// quitting) writes the frames to the configured GIF path.
package viz
