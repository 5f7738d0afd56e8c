// Package dynamo provides the primitives shared by the engine core.
//
// The package defines the small value types every core package speaks:
//
//   - [Vec2]: 2D point or vector in screen space (y grows downward)
//   - [Rect]: axis-aligned box, used for the moving combustion chamber
//   - [Clamp]: the scalar clamp used instead of rejecting numeric input
//
// It also owns the sentinel errors returned when a configuration is
// rejected at construction time. Per-frame computation never fails; only
// construction does.
package dynamo
