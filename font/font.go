package font

import "image"

// Glyph is one cached glyph: placement metrics plus the pixel region
// it occupies in the shared atlas. UVs are computed from AtlasPos and
// the atlas size at tessellation time, so they stay valid when the
// atlas grows.
type Glyph struct {
	Rune     rune
	Advance  float32
	BearingX float32
	BearingY float32
	W, H     int
	AtlasPos image.Point
}

// Empty reports a glyph with no bitmap (whitespace): advance only.
func (g *Glyph) Empty() bool { return g.W == 0 || g.H == 0 }

// Font pairs a Rasterizer with the shared Atlas and caches glyphs on
// first use. Characters the rasterizer cannot supply fall back to a
// replacement box so a text run never fails over one missing glyph.
type Font struct {
	rast  Rasterizer
	atlas *Atlas

	glyphs      map[rune]*Glyph
	replacement *Glyph
	atlasFull   bool
}

// NewFont wraps a rasterizer. Fonts sharing an atlas share its
// texture, which keeps text from different fonts in one draw call.
func NewFont(rast Rasterizer, atlas *Atlas) *Font {
	return &Font{
		rast:   rast,
		atlas:  atlas,
		glyphs: make(map[rune]*Glyph, 128),
	}
}

func (f *Font) Metrics() Metrics { return f.rast.Metrics() }
func (f *Font) Atlas() *Atlas    { return f.atlas }

// Kern is the extra advance between two runes, usually negative.
func (f *Font) Kern(a, b rune) float32 { return f.rast.Kern(a, b) }

// Glyph returns the cached glyph for r, rasterizing it into the atlas
// on first request. Unknown characters yield the replacement glyph.
func (f *Font) Glyph(r rune) *Glyph {
	if g, ok := f.glyphs[r]; ok {
		return g
	}
	g := f.rasterize(r)
	if g == nil {
		g = f.replacementGlyph()
	}
	f.glyphs[r] = g
	return g
}

func (f *Font) rasterize(r rune) *Glyph {
	raster, ok := f.rast.Rasterize(r)
	if !ok {
		return nil
	}
	g := &Glyph{
		Rune:     r,
		Advance:  raster.Advance,
		BearingX: raster.BearingX,
		BearingY: raster.BearingY,
		W:        raster.W,
		H:        raster.H,
	}
	if g.Empty() {
		return g
	}
	src := &image.Alpha{
		Pix:    raster.Alpha,
		Stride: raster.W,
		Rect:   image.Rect(0, 0, raster.W, raster.H),
	}
	pos, err := f.atlas.Allocate(src)
	if err != nil {
		// Atlas full: keep the metrics so layout still works, draw
		// nothing, and let the host see the signal and rebuild.
		f.atlasFull = true
		g.W, g.H = 0, 0
		return g
	}
	g.AtlasPos = pos
	return g
}

// replacementGlyph is a hollow box standing in for any character the
// rasterizer does not cover, sized off the font's ascent.
func (f *Font) replacementGlyph() *Glyph {
	if f.replacement != nil {
		return f.replacement
	}
	m := f.rast.Metrics()
	h := int(m.Ascent * 0.8)
	if h < 4 {
		h = 4
	}
	w := h * 2 / 3
	if w < 3 {
		w = 3
	}
	src := image.NewAlpha(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x == 0 || y == 0 || x == w-1 || y == h-1 {
				src.Pix[y*w+x] = 0xff
			}
		}
	}
	g := &Glyph{
		Rune:     '�',
		Advance:  float32(w) + 2,
		BearingX: 1,
		BearingY: float32(h),
		W:        w,
		H:        h,
	}
	if pos, err := f.atlas.Allocate(src); err == nil {
		g.AtlasPos = pos
	} else {
		f.atlasFull = true
		g.W, g.H = 0, 0
	}
	f.replacement = g
	return g
}

// TakeAtlasFull reports and clears the atlas-full condition. Surfaced
// once per frame in the platform output rather than as an error, so a
// text run with one uncachable glyph still renders the rest.
func (f *Font) TakeAtlasFull() bool {
	full := f.atlasFull
	f.atlasFull = false
	return full
}
