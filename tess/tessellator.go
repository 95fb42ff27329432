package tess

import (
	earcut "github.com/flywave/go-earcut"
	"github.com/hubastard/canopy/font"
	"github.com/hubastard/canopy/gmath"
	"github.com/hubastard/canopy/paint"
)

// Options tune the tessellator. Zero values mean defaults.
type Options struct {
	// FeatherWidth is the antialiasing ring width in physical pixels.
	// Zero means 1; negative disables feathering.
	FeatherWidth float32
}

func (o Options) defaults() Options {
	if o.FeatherWidth == 0 {
		o.FeatherWidth = 1
	}
	return o
}

// DrawCall is one backend submission: a mesh, the texture it samples
// and the scissor rect it must be clipped to. Clip rect and vertex
// positions are both in physical pixels.
type DrawCall struct {
	ClipRect gmath.Rect
	Mesh     paint.Mesh
}

// Tessellator converts sorted shape commands into draw calls. It
// keeps scratch buffers between frames, so one instance per Context;
// it is not safe for concurrent use.
type Tessellator struct {
	opts  Options
	atlas *font.Atlas

	path    path
	flat    []float64 // earcut input scratch
	calls   []DrawCall
	whiteUV gmath.Vec2

	// feather is in points for the current frame (constant in
	// physical pixels across zoom levels).
	feather float32
}

func New(opts Options, atlas *font.Atlas) *Tessellator {
	return &Tessellator{opts: opts.defaults(), atlas: atlas}
}

// Tessellate turns one frame's paint-ordered shapes into draw calls.
// pixelsPerPoint scales all output vertex positions and clip rects,
// applied once at the end so the feather ring stays one physical
// pixel wide at any zoom.
func (t *Tessellator) Tessellate(shapes []paint.ClippedShape, pixelsPerPoint float32) []DrawCall {
	if pixelsPerPoint <= 0 {
		pixelsPerPoint = 1
	}
	t.calls = t.calls[:0]
	t.feather = t.opts.FeatherWidth / pixelsPerPoint
	if t.opts.FeatherWidth < 0 {
		t.feather = 0
	}
	u, v := t.atlas.WhiteUV()
	t.whiteUV = gmath.V2(u, v)

	for _, cs := range shapes {
		t.shape(cs)
	}

	// The one and only scale application.
	for ci := range t.calls {
		c := &t.calls[ci]
		c.ClipRect.Min = c.ClipRect.Min.Scale(pixelsPerPoint)
		c.ClipRect.Max = c.ClipRect.Max.Scale(pixelsPerPoint)
		for vi := range c.Mesh.Vertices {
			c.Mesh.Vertices[vi].Pos = c.Mesh.Vertices[vi].Pos.Scale(pixelsPerPoint)
		}
	}

	out := make([]DrawCall, 0, len(t.calls))
	for _, c := range t.calls {
		if !c.Mesh.IsEmpty() {
			out = append(out, c)
		}
	}
	return out
}

// mesh returns the mesh for (clip, texture), reusing the current draw
// call when both match so consecutive compatible shapes coalesce into
// one backend submission.
func (t *Tessellator) mesh(clip gmath.Rect, tex paint.TextureID) *paint.Mesh {
	if n := len(t.calls); n > 0 {
		c := &t.calls[n-1]
		if c.ClipRect == clip && c.Mesh.Texture == tex {
			return &c.Mesh
		}
	}
	t.calls = append(t.calls, DrawCall{
		ClipRect: clip,
		Mesh:     paint.Mesh{Texture: tex},
	})
	return &t.calls[len(t.calls)-1].Mesh
}

func (t *Tessellator) shape(cs paint.ClippedShape) {
	if cs.ClipRect.IsEmpty() || !cs.ClipRect.IsFinite() {
		return
	}
	switch s := cs.Shape.(type) {
	case paint.RectShape:
		t.rect(cs.ClipRect, s)
	case paint.CircleShape:
		t.circle(cs.ClipRect, s)
	case paint.LineShape:
		t.polyline(cs.ClipRect, s.Points, s.Stroke, false)
	case paint.PolygonShape:
		t.polygon(cs.ClipRect, s)
	case paint.TextShape:
		t.text(cs.ClipRect, s)
	case paint.ImageShape:
		t.image(cs.ClipRect, s)
	}
}

func (t *Tessellator) rect(clip gmath.Rect, s paint.RectShape) {
	r := s.Rect
	if r.IsEmpty() || !r.IsFinite() {
		return
	}
	if s.CornerRadius <= 0 && s.Stroke.IsEmpty() && !s.Fill.IsInvisible() && !clip.ContainsRect(r.Expand(t.feather)) {
		// Plain fill crossing the clip edge: clamp vertices to the
		// clip rect instead of leaning on the backend scissor. The
		// cut edge is the clip boundary, so it needs no feather.
		t.clampedQuad(clip, r, gmath.RectMinMax(t.whiteUV, t.whiteUV), s.Fill, paint.AtlasTexture)
		return
	}
	t.path.clear()
	t.path.addRoundedRect(r, s.CornerRadius)
	if !s.Fill.IsInvisible() {
		t.fillConvex(clip, t.path.points, s.Fill)
	}
	if !s.Stroke.IsEmpty() {
		t.polyline(clip, t.path.points, s.Stroke, true)
	}
}

func (t *Tessellator) circle(clip gmath.Rect, s paint.CircleShape) {
	if s.Radius <= 0 || !s.Center.IsFinite() {
		return
	}
	t.path.clear()
	t.path.addCircle(s.Center, s.Radius)
	if !s.Fill.IsInvisible() {
		t.fillConvex(clip, t.path.points, s.Fill)
	}
	if !s.Stroke.IsEmpty() {
		t.polyline(clip, t.path.points, s.Stroke, true)
	}
}

func (t *Tessellator) polygon(clip gmath.Rect, s paint.PolygonShape) {
	if len(s.Points) < 3 || !finitePoints(s.Points) {
		return
	}
	if !s.Fill.IsInvisible() {
		if isConvex(s.Points) {
			t.fillConvex(clip, s.Points, s.Fill)
		} else {
			t.fillConcave(clip, s.Points, s.Fill)
		}
	}
	if !s.Stroke.IsEmpty() {
		t.polyline(clip, s.Points, s.Stroke, true)
	}
}

// fillConvex emits a triangle fan over the interior plus the feather
// ring: inner vertices at the outline carry full alpha, ring vertices
// one feather width outward fade to zero.
func (t *Tessellator) fillConvex(clip gmath.Rect, pts []gmath.Vec2, fill paint.Color) {
	n := len(pts)
	if n < 3 {
		return
	}
	m := t.mesh(clip, paint.AtlasTexture)
	if t.feather <= 0 {
		m.Reserve(n, (n-2)*3)
		base := uint32(len(m.Vertices))
		for _, pt := range pts {
			m.AddVertex(paint.Vertex{Pos: pt, UV: t.whiteUV, Color: fill})
		}
		for i := 2; i < n; i++ {
			m.AddTriangle(base, base+uint32(i-1), base+uint32(i))
		}
		return
	}

	// Save normals: t.path may alias pts.
	t.path.points = append(t.path.points[:0], pts...)
	t.path.computeNormals(true)
	normals := t.path.normals

	m.Reserve(2*n, (n-2)*3+n*6)
	base := uint32(len(m.Vertices))
	out := fill.MulAlpha(0)
	half := t.feather * 0.5
	for i, pt := range pts {
		// Even: inner, odd: outer.
		m.AddVertex(paint.Vertex{Pos: pt.Sub(normals[i].Scale(half)), UV: t.whiteUV, Color: fill})
		m.AddVertex(paint.Vertex{Pos: pt.Add(normals[i].Scale(half)), UV: t.whiteUV, Color: out})
	}
	inner := func(i int) uint32 { return base + 2*uint32(i%n) }
	outer := func(i int) uint32 { return base + 2*uint32(i%n) + 1 }
	for i := 2; i < n; i++ {
		m.AddTriangle(inner(0), inner(i-1), inner(i))
	}
	for i := 0; i < n; i++ {
		m.AddTriangle(inner(i), outer(i), outer(i+1))
		m.AddTriangle(inner(i), outer(i+1), inner(i+1))
	}
}

// fillConcave ear-clips the interior and runs the same feather ring
// along the outline.
func (t *Tessellator) fillConcave(clip gmath.Rect, pts []gmath.Vec2, fill paint.Color) {
	t.flat = t.flat[:0]
	for _, pt := range pts {
		t.flat = append(t.flat, float64(pt.X), float64(pt.Y))
	}
	indices, err := earcut.Earcut(t.flat, nil, 2)
	if err != nil || len(indices) < 3 {
		// Unfixable outline: drop the fill, never the frame.
		return
	}
	m := t.mesh(clip, paint.AtlasTexture)
	base := uint32(len(m.Vertices))
	for _, pt := range pts {
		m.AddVertex(paint.Vertex{Pos: pt, UV: t.whiteUV, Color: fill})
	}
	for i := 0; i+2 < len(indices); i += 3 {
		m.AddTriangle(base+uint32(indices[i]), base+uint32(indices[i+1]), base+uint32(indices[i+2]))
	}
	if t.feather > 0 {
		t.featherRing(m, pts, fill)
	}
}

// featherRing adds just the fading border band along a closed
// outline, for fills whose interior was triangulated separately.
func (t *Tessellator) featherRing(m *paint.Mesh, pts []gmath.Vec2, fill paint.Color) {
	n := len(pts)
	t.path.points = append(t.path.points[:0], pts...)
	t.path.computeNormals(true)
	normals := t.path.normals

	base := uint32(len(m.Vertices))
	out := fill.MulAlpha(0)
	for i, pt := range pts {
		m.AddVertex(paint.Vertex{Pos: pt, UV: t.whiteUV, Color: fill})
		m.AddVertex(paint.Vertex{Pos: pt.Add(normals[i].Scale(t.feather)), UV: t.whiteUV, Color: out})
	}
	for i := 0; i < n; i++ {
		i0 := base + 2*uint32(i)
		i1 := base + 2*uint32((i+1)%n)
		m.AddTriangle(i0, i0+1, i1+1)
		m.AddTriangle(i0, i1+1, i1)
	}
}

// polyline strokes an open or closed point run. Each point expands to
// four vertices across the stroke: two transparent feather edges
// around a solid core. Strokes thinner than the feather width render
// at feather width with alpha compensating, so hairlines stay smooth.
func (t *Tessellator) polyline(clip gmath.Rect, pts []gmath.Vec2, stroke paint.Stroke, closed bool) {
	n := len(pts)
	if n < 2 || stroke.IsEmpty() || !finitePoints(pts) {
		return
	}
	color := stroke.Color
	width := stroke.Width
	if t.feather > 0 && width < t.feather {
		color = color.MulAlpha(width / t.feather)
		width = t.feather
	}
	core := width - t.feather
	if core < 0 {
		core = 0
	}

	t.path.points = append(t.path.points[:0], pts...)
	t.path.computeNormals(closed)
	normals := t.path.normals

	m := t.mesh(clip, paint.AtlasTexture)
	base := uint32(len(m.Vertices))
	outAlpha := color.MulAlpha(0)
	for i, pt := range pts {
		nm := normals[i]
		outerOff := nm.Scale(core*0.5 + t.feather)
		innerOff := nm.Scale(core * 0.5)
		m.AddVertex(paint.Vertex{Pos: pt.Add(outerOff), UV: t.whiteUV, Color: outAlpha})
		m.AddVertex(paint.Vertex{Pos: pt.Add(innerOff), UV: t.whiteUV, Color: color})
		m.AddVertex(paint.Vertex{Pos: pt.Sub(innerOff), UV: t.whiteUV, Color: color})
		m.AddVertex(paint.Vertex{Pos: pt.Sub(outerOff), UV: t.whiteUV, Color: outAlpha})
	}
	segs := n - 1
	if closed {
		segs = n
	}
	for s := 0; s < segs; s++ {
		a := base + 4*uint32(s)
		b := base + 4*uint32((s+1)%n)
		for lane := uint32(0); lane < 3; lane++ {
			m.AddTriangle(a+lane, b+lane, b+lane+1)
			m.AddTriangle(a+lane, b+lane+1, a+lane+1)
		}
	}
}

func (t *Tessellator) text(clip gmath.Rect, s paint.TextShape) {
	if s.Galley == nil || s.Color.IsInvisible() || !s.Pos.IsFinite() {
		return
	}
	aw, ah := t.atlas.Size()
	sw, sh := float32(aw), float32(ah)
	m := t.mesh(clip, paint.AtlasTexture)
	for _, row := range s.Galley.Rows {
		for _, pg := range row.Glyphs {
			g := pg.Glyph
			if g.Empty() {
				continue
			}
			min := gmath.V2(
				s.Pos.X+pg.X+g.BearingX,
				s.Pos.Y+row.Y-g.BearingY,
			)
			quad := gmath.RectMinSize(min, gmath.V2(float32(g.W), float32(g.H)))
			uv := gmath.RectMinMax(
				gmath.V2(float32(g.AtlasPos.X)/sw, float32(g.AtlasPos.Y)/sh),
				gmath.V2(float32(g.AtlasPos.X+g.W)/sw, float32(g.AtlasPos.Y+g.H)/sh),
			)
			t.quadInto(m, clip, quad, uv, s.Color)
		}
	}
}

func (t *Tessellator) image(clip gmath.Rect, s paint.ImageShape) {
	if s.Rect.IsEmpty() || !s.Rect.IsFinite() || s.Tint.IsInvisible() {
		return
	}
	uv := s.UV
	if uv.IsEmpty() {
		uv = gmath.RectMinMax(gmath.V2(0, 0), gmath.V2(1, 1))
	}
	t.clampedQuad(clip, s.Rect, uv, s.Tint, s.Texture)
}

func (t *Tessellator) clampedQuad(clip, r, uv gmath.Rect, color paint.Color, tex paint.TextureID) {
	m := t.mesh(clip, tex)
	t.quadInto(m, clip, r, uv, color)
}

// quadInto emits one axis-aligned textured quad, clamped to the clip
// rect with UVs re-interpolated; quads fully outside are skipped.
// Clamping is exact for axis-aligned geometry, which is why rects and
// glyphs take this path while curves rely on the backend scissor.
func (t *Tessellator) quadInto(m *paint.Mesh, clip, r, uv gmath.Rect, color paint.Color) {
	c := r.Intersect(clip)
	if c.IsEmpty() {
		return
	}
	cuv := uv
	if c != r && r.Width() > 0 && r.Height() > 0 {
		lerpU := func(x float32) float32 {
			return uv.Min.X + (uv.Max.X-uv.Min.X)*(x-r.Min.X)/r.Width()
		}
		lerpV := func(y float32) float32 {
			return uv.Min.Y + (uv.Max.Y-uv.Min.Y)*(y-r.Min.Y)/r.Height()
		}
		cuv = gmath.RectMinMax(
			gmath.V2(lerpU(c.Min.X), lerpV(c.Min.Y)),
			gmath.V2(lerpU(c.Max.X), lerpV(c.Max.Y)),
		)
	}
	base := uint32(len(m.Vertices))
	m.AddVertex(paint.Vertex{Pos: c.LeftTop(), UV: cuv.LeftTop(), Color: color})
	m.AddVertex(paint.Vertex{Pos: c.RightTop(), UV: cuv.RightTop(), Color: color})
	m.AddVertex(paint.Vertex{Pos: c.RightBottom(), UV: cuv.RightBottom(), Color: color})
	m.AddVertex(paint.Vertex{Pos: c.LeftBottom(), UV: cuv.LeftBottom(), Color: color})
	m.AddTriangle(base, base+1, base+2)
	m.AddTriangle(base, base+2, base+3)
}
