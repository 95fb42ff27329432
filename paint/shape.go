package paint

import (
	"github.com/hubastard/canopy/font"
	"github.com/hubastard/canopy/gmath"
)

// Shape is one abstract draw command. The set is closed: the
// tessellator switches over every kind.
type Shape interface{ isShape() }

// Stroke describes an outline. A zero-width or invisible stroke draws
// nothing.
type Stroke struct {
	Width float32
	Color Color
}

func (s Stroke) IsEmpty() bool { return s.Width <= 0 || s.Color.IsInvisible() }

// RectShape fills and/or outlines an axis-aligned rectangle, with
// optional rounded corners.
type RectShape struct {
	Rect         gmath.Rect
	CornerRadius float32
	Fill         Color
	Stroke       Stroke
}

// CircleShape fills and/or outlines a circle.
type CircleShape struct {
	Center gmath.Vec2
	Radius float32
	Fill   Color
	Stroke Stroke
}

// LineShape strokes an open polyline through Points.
type LineShape struct {
	Points []gmath.Vec2
	Stroke Stroke
}

// PolygonShape fills a closed polygon and/or strokes its outline.
// Convex polygons tessellate as a fan; concave ones go through ear
// clipping. Self-intersecting outlines are a caller bug and produce
// unspecified (but not crashing) geometry.
type PolygonShape struct {
	Points []gmath.Vec2
	Fill   Color
	Stroke Stroke
}

// TextShape draws a pre-shaped galley with its origin (left edge of
// the first baseline row's top) at Pos. Shaping happened when the
// galley was built; the tessellator only emits atlas quads.
type TextShape struct {
	Pos    gmath.Vec2
	Galley *font.Galley
	Color  Color
}

// ImageShape draws a textured quad from a host-registered texture,
// with sub-rect UVs in [0,1] and a tint.
type ImageShape struct {
	Rect    gmath.Rect
	UV      gmath.Rect
	Tint    Color
	Texture TextureID
}

// NoopShape draws nothing. Pass it to Frame.SetShape to cancel a
// previously recorded shape without splicing the frame's shape list.
type NoopShape struct{}

func (NoopShape) isShape()    {}
func (RectShape) isShape()    {}
func (CircleShape) isShape()  {}
func (LineShape) isShape()    {}
func (PolygonShape) isShape() {}
func (TextShape) isShape()    {}
func (ImageShape) isShape()   {}

// Layer is the paint-order key. Shapes draw in (layer, insertion)
// order regardless of spatial position.
type Layer int

const (
	LayerBackground Layer = iota
	LayerMiddle
	LayerForeground
	LayerTooltip
	LayerDebug
)

// ClippedShape is a recorded command: the shape, the clip rect it must
// stay inside, and its layer.
type ClippedShape struct {
	ClipRect gmath.Rect
	Layer    Layer
	Shape    Shape
}

// TextureID names a texture the host registered with its renderer.
// AtlasTexture is the shared font/white-pixel atlas the core owns.
type TextureID int64

const AtlasTexture TextureID = 0
