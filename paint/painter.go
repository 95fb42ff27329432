package paint

import (
	"sort"

	"github.com/hubastard/canopy/font"
	"github.com/hubastard/canopy/gmath"
)

// Frame is one frame's accumulated command list. The context resets it
// at begin-frame, widget code appends through Painters, and the
// tessellator consumes the sorted result after the widget pass; the
// two phases never overlap.
type Frame struct {
	shapes []ClippedShape
}

func NewFrame() *Frame { return &Frame{} }

// Reset empties the list, keeping capacity across frames.
func (f *Frame) Reset() { f.shapes = f.shapes[:0] }

func (f *Frame) Len() int { return len(f.shapes) }

// Sorted returns the commands in paint order: by layer, stable within
// a layer so insertion order is the z-order.
func (f *Frame) Sorted() []ClippedShape {
	sort.SliceStable(f.shapes, func(i, j int) bool {
		return f.shapes[i].Layer < f.shapes[j].Layer
	})
	return f.shapes
}

// Painter appends shapes to a Frame under a fixed clip rect and layer.
// It is a value: deriving a sub-painter (tighter clip, other layer)
// copies it, so scopes nest without explicit push/pop.
type Painter struct {
	frame *Frame
	clip  gmath.Rect
	layer Layer
}

// NewPainter paints into frame, clipped to clip, on LayerMiddle.
func NewPainter(frame *Frame, clip gmath.Rect) Painter {
	return Painter{frame: frame, clip: clip, layer: LayerMiddle}
}

func (p Painter) ClipRect() gmath.Rect { return p.clip }
func (p Painter) Layer() Layer         { return p.layer }

// WithClip returns a painter whose clip is the intersection of p's
// clip and r. A child scope can only shrink the visible region.
func (p Painter) WithClip(r gmath.Rect) Painter {
	p.clip = p.clip.Intersect(r)
	return p
}

// WithLayer returns a painter on another layer with the same clip.
func (p Painter) WithLayer(l Layer) Painter {
	p.layer = l
	return p
}

// Add records one shape and returns its index in the frame, for
// replacing via Frame.SetShape later in the same frame. Shapes
// entirely outside the clip rect are dropped here, before they cost
// anything downstream; dropped shapes return -1.
func (p Painter) Add(s Shape) int {
	if p.frame == nil || p.clip.IsEmpty() {
		return -1
	}
	if b, ok := shapeBounds(s); ok && !p.clip.Intersects(b) {
		return -1
	}
	p.frame.shapes = append(p.frame.shapes, ClippedShape{
		ClipRect: p.clip,
		Layer:    p.layer,
		Shape:    s,
	})
	return len(p.frame.shapes) - 1
}

// SetShape replaces a recorded shape in place. Widgets that must paint
// before they know their final look (a background behind content of
// unknown size) record a placeholder, then swap it; NoopShape cancels
// it entirely.
func (f *Frame) SetShape(i int, s Shape) {
	if i >= 0 && i < len(f.shapes) {
		f.shapes[i].Shape = s
	}
}

func shapeBounds(s Shape) (gmath.Rect, bool) {
	switch sh := s.(type) {
	case RectShape:
		return sh.Rect.Expand(sh.Stroke.Width), true
	case CircleShape:
		return gmath.RectCenterSize(sh.Center, gmath.Splat(2*(sh.Radius+sh.Stroke.Width))), true
	case TextShape:
		return gmath.RectMinSize(sh.Pos, sh.Galley.Size), true
	case ImageShape:
		return sh.Rect, true
	case LineShape:
		return pointsBounds(sh.Points).Expand(sh.Stroke.Width), len(sh.Points) > 0
	case PolygonShape:
		return pointsBounds(sh.Points).Expand(sh.Stroke.Width), len(sh.Points) > 0
	}
	return gmath.Rect{}, false
}

func pointsBounds(pts []gmath.Vec2) gmath.Rect {
	b := gmath.Nothing()
	for _, pt := range pts {
		b = b.ExtendWith(pt)
	}
	return b
}

// --- convenience emitters ---

func (p Painter) RectFilled(r gmath.Rect, cornerRadius float32, fill Color) {
	p.Add(RectShape{Rect: r, CornerRadius: cornerRadius, Fill: fill})
}

func (p Painter) RectStroke(r gmath.Rect, cornerRadius float32, stroke Stroke) {
	p.Add(RectShape{Rect: r, CornerRadius: cornerRadius, Stroke: stroke})
}

func (p Painter) Rect(r gmath.Rect, cornerRadius float32, fill Color, stroke Stroke) {
	p.Add(RectShape{Rect: r, CornerRadius: cornerRadius, Fill: fill, Stroke: stroke})
}

func (p Painter) LineSegment(a, b gmath.Vec2, stroke Stroke) {
	p.Add(LineShape{Points: []gmath.Vec2{a, b}, Stroke: stroke})
}

func (p Painter) Circle(center gmath.Vec2, radius float32, fill Color, stroke Stroke) {
	p.Add(CircleShape{Center: center, Radius: radius, Fill: fill, Stroke: stroke})
}

// Galley draws a pre-shaped text run with its top-left at pos.
func (p Painter) Galley(pos gmath.Vec2, g *font.Galley, color Color) {
	p.Add(TextShape{Pos: pos, Galley: g, Color: color})
}

// Text shapes and draws text in one call, returning the galley so the
// caller can reuse the measured size.
func (p Painter) Text(f *font.Font, pos gmath.Vec2, text string, color Color) *font.Galley {
	g := font.LayoutSingleLine(f, text)
	p.Galley(pos, g, color)
	return g
}

// DebugRect outlines r on the debug layer.
func (p Painter) DebugRect(r gmath.Rect, color Color) {
	p.WithLayer(LayerDebug).RectStroke(r, 0, Stroke{Width: 1, Color: color})
}
