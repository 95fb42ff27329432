// Package paint holds the frame's deferred draw state: colors, shape
// commands, the Painter that accumulates them, and the Mesh type the
// tessellator fills. Nothing here touches a GPU; shapes are recorded
// during the widget pass and consumed read-only afterwards.
package paint

import "image/color"

// Color is straight (non-premultiplied) 8-bit RGBA, stored the way it
// lands in the vertex buffer.
type Color struct {
	R, G, B, A uint8
}

// Std converts to the standard library's premultiplied color type.
func (c Color) Std() color.RGBA {
	a := uint16(c.A)
	return color.RGBA{
		R: uint8(uint16(c.R) * a / 255),
		G: uint8(uint16(c.G) * a / 255),
		B: uint8(uint16(c.B) * a / 255),
		A: c.A,
	}
}

func RGBA(r, g, b, a uint8) Color { return Color{r, g, b, a} }
func RGB(r, g, b uint8) Color     { return Color{r, g, b, 255} }

// Gray is an opaque gray of the given level.
func Gray(v uint8) Color { return Color{v, v, v, 255} }

var (
	Transparent = Color{}
	Black       = RGB(0, 0, 0)
	White       = RGB(255, 255, 255)
	Red         = RGB(255, 64, 64)
	Green       = RGB(64, 255, 64)
	Blue        = RGB(64, 128, 255)
	Yellow      = RGB(255, 220, 60)
)

// WithAlpha returns the color with its alpha replaced.
func (c Color) WithAlpha(a uint8) Color {
	c.A = a
	return c
}

// MulAlpha scales the alpha channel by f in [0,1]. The feathering ring
// uses this to fade coverage to zero.
func (c Color) MulAlpha(f float32) Color {
	if f <= 0 {
		c.A = 0
	} else if f < 1 {
		c.A = uint8(f*float32(c.A) + 0.5)
	}
	return c
}

// IsInvisible reports a color that cannot affect any pixel.
func (c Color) IsInvisible() bool { return c.A == 0 }
