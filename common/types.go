// package common contains plain types and helpers shared throughout the engine. They are not interface-wrapped structs, just plain structs
// that express commonly used data-types.
package common

import "github.com/gogpu/gputypes"

// Size is a width/height pair in physical pixels.
type Size struct {
	Width  uint32 `toml:"width" yaml:"width"`
	Height uint32 `toml:"height" yaml:"height"`
}

// Clamped returns the size with each dimension raised to at least 1.
// Surfaces and depth attachments can never be configured with a zero extent.
func (s Size) Clamped() Size {
	return Size{Width: AtLeast(s.Width, 1), Height: AtLeast(s.Height, 1)}
}

// ClampedSize converts signed platform dimensions to a Size of at least 1x1.
//
// Parameters:
//   - width, height: dimensions as reported by the windowing layer (may be zero or negative)
//
// Returns:
//   - Size: the clamped size
func ClampedSize(width, height int) Size {
	return Size{Width: uint32(AtLeast(width, 1)), Height: uint32(AtLeast(height, 1))}
}

// Position is a window position in screen coordinates.
type Position struct {
	X int `toml:"x" yaml:"x"`
	Y int `toml:"y" yaml:"y"`
}

// Color is an RGBA color with components in [0, 1].
type Color [4]float32

// Common colors.
var (
	White = Color{1, 1, 1, 1}
	Black = Color{0, 0, 0, 1}
)

// RGBA builds a Color from its components.
func RGBA(r, g, b, a float32) Color {
	return Color{r, g, b, a}
}

// GPU converts the color to the float64 clear value used by render pass descriptors.
func (c Color) GPU() gputypes.Color {
	return gputypes.NewColor(float64(c[0]), float64(c[1]), float64(c[2]), float64(c[3]))
}
