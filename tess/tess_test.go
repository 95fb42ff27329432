package tess

import (
	"testing"

	"github.com/hubastard/canopy/font"
	"github.com/hubastard/canopy/gmath"
	"github.com/hubastard/canopy/paint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rect(x0, y0, x1, y1 float32) gmath.Rect {
	return gmath.RectMinMax(gmath.V2(x0, y0), gmath.V2(x1, y1))
}

func newTess(opts Options) *Tessellator {
	return New(opts, font.NewAtlas(128, 1024))
}

func clipped(clip gmath.Rect, s paint.Shape) paint.ClippedShape {
	return paint.ClippedShape{ClipRect: clip, Layer: paint.LayerMiddle, Shape: s}
}

// triangleArea sums the unsigned area of every triangle in the mesh.
func triangleArea(m paint.Mesh) float32 {
	var sum float32
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a := m.Vertices[m.Indices[i]].Pos
		b := m.Vertices[m.Indices[i+1]].Pos
		c := m.Vertices[m.Indices[i+2]].Pos
		ab := b.Sub(a)
		ac := c.Sub(a)
		cross := ab.X*ac.Y - ab.Y*ac.X
		if cross < 0 {
			cross = -cross
		}
		sum += cross / 2
	}
	return sum
}

func TestRectFillClosure(t *testing.T) {
	// Feathering off: the fan must cover exactly the rect's area.
	ts := newTess(Options{FeatherWidth: -1})
	calls := ts.Tessellate([]paint.ClippedShape{
		clipped(rect(0, 0, 100, 100), paint.RectShape{Rect: rect(10, 10, 30, 40), Fill: paint.Red}),
	}, 1)
	require.Len(t, calls, 1)
	assert.InDelta(t, 20*30, triangleArea(calls[0].Mesh), 0.01)
}

func TestFeatheredRectCoversWithRing(t *testing.T) {
	ts := newTess(Options{})
	calls := ts.Tessellate([]paint.ClippedShape{
		clipped(rect(0, 0, 100, 100), paint.RectShape{Rect: rect(10, 10, 30, 40), Fill: paint.Red}),
	}, 1)
	require.Len(t, calls, 1)
	m := calls[0].Mesh
	// 4 inner + 4 outer vertices, 2 fan triangles + 8 ring triangles.
	assert.Len(t, m.Vertices, 8)
	assert.Len(t, m.Indices, 30)

	// The ring fades to zero alpha at its outer edge.
	var opaque, transparent int
	for _, v := range m.Vertices {
		if v.Color.A == 0 {
			transparent++
		} else {
			opaque++
		}
	}
	assert.Equal(t, 4, opaque)
	assert.Equal(t, 4, transparent)

	// Ring midline sits on the outline: total cover, counting the
	// ring at half weight, still matches the rect's area.
	assert.InDelta(t, 20*30, triangleArea(m), 2*(20+30)+4)
}

func TestClipContainment(t *testing.T) {
	clip := rect(0, 0, 50, 50)
	shapes := []paint.ClippedShape{
		clipped(clip, paint.RectShape{Rect: rect(5, 5, 45, 45), Fill: paint.Red}),
		clipped(clip, paint.CircleShape{Center: gmath.V2(25, 25), Radius: 10, Fill: paint.Blue}),
		clipped(clip, paint.LineShape{Points: []gmath.Vec2{gmath.V2(5, 5), gmath.V2(45, 45)}, Stroke: paint.Stroke{Width: 2, Color: paint.White}}),
	}
	calls := newTess(Options{}).Tessellate(shapes, 1)
	for _, c := range calls {
		for _, v := range c.Mesh.Vertices {
			assert.True(t, c.ClipRect.Expand(0.001).Contains(v.Pos), "vertex %v outside clip", v.Pos)
		}
	}
}

func TestRectCrossingClipIsClamped(t *testing.T) {
	clip := rect(0, 0, 50, 50)
	calls := newTess(Options{}).Tessellate([]paint.ClippedShape{
		clipped(clip, paint.RectShape{Rect: rect(40, 40, 100, 100), Fill: paint.Red}),
	}, 1)
	require.Len(t, calls, 1)
	for _, v := range calls[0].Mesh.Vertices {
		assert.True(t, clip.Contains(v.Pos))
	}
	assert.InDelta(t, 10*10, triangleArea(calls[0].Mesh), 0.01)
}

func TestImageQuadClampsUVs(t *testing.T) {
	clip := rect(0, 0, 50, 100)
	calls := newTess(Options{}).Tessellate([]paint.ClippedShape{
		clipped(clip, paint.ImageShape{
			Rect:    rect(0, 0, 100, 100),
			Tint:    paint.White,
			Texture: paint.TextureID(7),
		}),
	}, 1)
	require.Len(t, calls, 1)
	m := calls[0].Mesh
	assert.Equal(t, paint.TextureID(7), m.Texture)
	// Right half is cut away: max U ends at 0.5.
	var maxU float32
	for _, v := range m.Vertices {
		if v.UV.X > maxU {
			maxU = v.UV.X
		}
	}
	assert.InDelta(t, 0.5, maxU, 0.001)
}

func TestDrawCallCoalescing(t *testing.T) {
	clipA := rect(0, 0, 100, 100)
	clipB := rect(0, 0, 50, 50)
	shapes := []paint.ClippedShape{
		clipped(clipA, paint.RectShape{Rect: rect(1, 1, 9, 9), Fill: paint.Red}),
		clipped(clipA, paint.RectShape{Rect: rect(11, 1, 19, 9), Fill: paint.Green}),
		clipped(clipB, paint.RectShape{Rect: rect(1, 11, 9, 19), Fill: paint.Blue}),
		clipped(clipA, paint.ImageShape{Rect: rect(1, 21, 9, 29), Tint: paint.White, Texture: 3}),
		clipped(clipA, paint.RectShape{Rect: rect(1, 31, 9, 39), Fill: paint.Red}),
	}
	calls := newTess(Options{}).Tessellate(shapes, 1)
	// Same clip+texture coalesce; each change starts a new call.
	require.Len(t, calls, 4)
	assert.Equal(t, paint.AtlasTexture, calls[0].Mesh.Texture)
	assert.Equal(t, clipB, calls[1].ClipRect)
	assert.Equal(t, paint.TextureID(3), calls[2].Mesh.Texture)
	assert.Equal(t, paint.AtlasTexture, calls[3].Mesh.Texture)
}

func TestDegenerateShapesDropped(t *testing.T) {
	clip := rect(0, 0, 100, 100)
	nan := float32(0)
	nan = nan / nan
	shapes := []paint.ClippedShape{
		clipped(clip, paint.RectShape{Rect: rect(10, 10, 10, 40), Fill: paint.Red}),             // zero width
		clipped(clip, paint.RectShape{Rect: rect(nan, 10, 20, 40), Fill: paint.Red}),            // NaN
		clipped(clip, paint.CircleShape{Center: gmath.V2(5, 5), Radius: 0, Fill: paint.Red}),    // zero radius
		clipped(clip, paint.LineShape{Points: []gmath.Vec2{gmath.V2(1, 1)}, Stroke: paint.Stroke{Width: 1, Color: paint.Red}}), // one point
		clipped(clip, paint.PolygonShape{Points: []gmath.Vec2{gmath.V2(1, 1), gmath.V2(2, 2)}, Fill: paint.Red}),              // two points
		clipped(clip, paint.RectShape{Rect: rect(10, 10, 20, 20)}),                              // invisible fill, no stroke
	}
	calls := newTess(Options{}).Tessellate(shapes, 1)
	assert.Empty(t, calls, "bad shapes are dropped, not fatal")
}

func TestConcavePolygonFills(t *testing.T) {
	// An L shape: convex fan would leak outside; ear clipping must
	// cover exactly the two rectangles' area.
	pts := []gmath.Vec2{
		gmath.V2(0, 0), gmath.V2(40, 0), gmath.V2(40, 20),
		gmath.V2(20, 20), gmath.V2(20, 40), gmath.V2(0, 40),
	}
	calls := newTess(Options{FeatherWidth: -1}).Tessellate([]paint.ClippedShape{
		clipped(rect(-10, -10, 100, 100), paint.PolygonShape{Points: pts, Fill: paint.Red}),
	}, 1)
	require.Len(t, calls, 1)
	assert.InDelta(t, 40*20+20*20, triangleArea(calls[0].Mesh), 0.01)
}

func TestTextEmitsQuadPerGlyph(t *testing.T) {
	atlas := font.NewAtlas(128, 1024)
	f := font.NewFont(&font.StubRasterizer{}, atlas)
	g := font.LayoutSingleLine(f, "ab c")

	ts := New(Options{}, atlas)
	calls := ts.Tessellate([]paint.ClippedShape{
		clipped(rect(0, 0, 200, 200), paint.TextShape{Pos: gmath.V2(10, 10), Galley: g, Color: paint.White}),
	}, 1)
	require.Len(t, calls, 1)
	m := calls[0].Mesh
	// Three drawable glyphs (the space has no bitmap): 4 verts each.
	assert.Len(t, m.Vertices, 12)
	assert.Len(t, m.Indices, 18)
	// Glyph quads sample real atlas UVs, not the white pixel.
	wu, wv := atlas.WhiteUV()
	for _, v := range m.Vertices {
		assert.NotEqual(t, gmath.V2(wu, wv), v.UV)
	}
}

func TestPixelsPerPointScalesOnce(t *testing.T) {
	clip := rect(0, 0, 100, 100)
	shape := clipped(clip, paint.RectShape{Rect: rect(10, 10, 30, 30), Fill: paint.Red})

	one := newTess(Options{FeatherWidth: -1}).Tessellate([]paint.ClippedShape{shape}, 1)
	two := newTess(Options{FeatherWidth: -1}).Tessellate([]paint.ClippedShape{shape}, 2)
	require.Len(t, one, 1)
	require.Len(t, two, 1)

	assert.Equal(t, rect(0, 0, 200, 200), two[0].ClipRect)
	for i, v := range two[0].Mesh.Vertices {
		assert.Equal(t, one[0].Mesh.Vertices[i].Pos.Scale(2), v.Pos)
	}
}

func TestFeatherWidthConstantInPixels(t *testing.T) {
	clip := rect(0, 0, 100, 100)
	shape := clipped(clip, paint.RectShape{Rect: rect(20, 20, 80, 80), Fill: paint.Red})

	calls := newTess(Options{FeatherWidth: 1}).Tessellate([]paint.ClippedShape{shape}, 4)
	require.Len(t, calls, 1)
	m := calls[0].Mesh
	// Inner and outer ring vertices straddle the outline by one
	// physical pixel in total after scaling.
	inner, outer := m.Vertices[0].Pos, m.Vertices[1].Pos
	assert.InDelta(t, 1, outer.Sub(inner).Length(), 0.01)
}

func TestPolylineStrokeGeometry(t *testing.T) {
	clip := rect(0, 0, 100, 100)
	calls := newTess(Options{}).Tessellate([]paint.ClippedShape{
		clipped(clip, paint.LineShape{
			Points: []gmath.Vec2{gmath.V2(10, 50), gmath.V2(90, 50)},
			Stroke: paint.Stroke{Width: 4, Color: paint.White},
		}),
	}, 1)
	require.Len(t, calls, 1)
	m := calls[0].Mesh
	assert.Len(t, m.Vertices, 8, "four lanes per point")
	// Outer lanes transparent, core lanes solid.
	assert.Equal(t, uint8(0), m.Vertices[0].Color.A)
	assert.Equal(t, uint8(255), m.Vertices[1].Color.A)
	assert.Equal(t, uint8(255), m.Vertices[2].Color.A)
	assert.Equal(t, uint8(0), m.Vertices[3].Color.A)
}

func TestHairlineFadesInsteadOfVanishing(t *testing.T) {
	clip := rect(0, 0, 100, 100)
	calls := newTess(Options{}).Tessellate([]paint.ClippedShape{
		clipped(clip, paint.LineShape{
			Points: []gmath.Vec2{gmath.V2(10, 50), gmath.V2(90, 50)},
			Stroke: paint.Stroke{Width: 0.25, Color: paint.White},
		}),
	}, 1)
	require.Len(t, calls, 1)
	var maxA uint8
	for _, v := range calls[0].Mesh.Vertices {
		if v.Color.A > maxA {
			maxA = v.Color.A
		}
	}
	assert.Greater(t, maxA, uint8(0))
	assert.Less(t, maxA, uint8(255), "sub-pixel width renders via reduced alpha")
}
