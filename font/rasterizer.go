// Package font turns text into atlas-backed glyph geometry. Outline
// extraction and rasterization are delegated to a Rasterizer (the
// stock implementation wraps golang.org/x/image opentype faces); this
// package owns the texture atlas, the per-rune glyph cache and the
// shaping of strings into positioned glyph rows (galleys).
package font

import (
	"fmt"
	"image"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Metrics are vertical font metrics in points. Descent is a positive
// distance below the baseline.
type Metrics struct {
	Ascent  float32
	Descent float32
	LineGap float32
}

// LineHeight is the baseline-to-baseline distance.
func (m Metrics) LineHeight() float32 { return m.Ascent + m.Descent + m.LineGap }

// GlyphRaster is a single rasterized glyph: a tight alpha-coverage
// bitmap plus the metrics needed to place it against a baseline.
type GlyphRaster struct {
	// Alpha holds W*H coverage bytes, row-major.
	Alpha []byte
	W, H  int

	// BearingX is the left side bearing; BearingY the distance from
	// the baseline up to the bitmap top.
	BearingX float32
	BearingY float32
	Advance  float32
}

// Rasterizer is the black-box glyph provider. The core asks it for
// bitmaps and metrics; everything about font files, hinting and
// outlines stays behind this boundary.
type Rasterizer interface {
	Metrics() Metrics
	HasGlyph(r rune) bool
	Rasterize(r rune) (GlyphRaster, bool)
	// Kern returns the extra advance between two runes, usually
	// negative or zero.
	Kern(a, b rune) float32
}

// OpenType is a Rasterizer over an opentype face at a fixed size.
type OpenType struct {
	face    xfont.Face
	metrics Metrics
}

// NewOpenType parses TTF/OTF bytes and prepares a face at sizePts.
func NewOpenType(data []byte, sizePts float32) (*OpenType, error) {
	ft, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{
		Size: float64(sizePts), DPI: 72, Hinting: xfont.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	m := face.Metrics()
	asc := fixedToFloat(m.Ascent)
	desc := fixedToFloat(m.Descent)
	return &OpenType{
		face: face,
		metrics: Metrics{
			Ascent:  asc,
			Descent: desc,
			LineGap: fixedToFloat(m.Height) - asc - desc,
		},
	}, nil
}

func (o *OpenType) Metrics() Metrics { return o.metrics }

func (o *OpenType) HasGlyph(r rune) bool {
	_, _, ok := o.face.GlyphBounds(r)
	return ok
}

func (o *OpenType) Kern(a, b rune) float32 {
	return fixedToFloat(o.face.Kern(a, b))
}

func (o *OpenType) Rasterize(r rune) (GlyphRaster, bool) {
	bounds, adv, ok := o.face.GlyphBounds(r)
	if !ok {
		return GlyphRaster{}, false
	}
	w := (bounds.Max.X - bounds.Min.X).Ceil()
	h := (bounds.Max.Y - bounds.Min.Y).Ceil()
	g := GlyphRaster{
		W: w, H: h,
		BearingX: fixedToFloat(bounds.Min.X),
		BearingY: -fixedToFloat(bounds.Min.Y),
		Advance:  fixedToFloat(adv),
	}
	if w <= 0 || h <= 0 {
		// Whitespace: advance only, nothing to draw.
		g.W, g.H = 0, 0
		return g, true
	}

	dst := image.NewAlpha(image.Rect(0, 0, w, h))
	d := xfont.Drawer{Dst: dst, Src: image.White, Face: o.face}
	// Place the dot so the glyph bounding box lands at the origin.
	d.Dot = fixed.Point26_6{X: -bounds.Min.X, Y: -bounds.Min.Y}
	d.DrawString(string(r))
	g.Alpha = dst.Pix
	return g, true
}

func fixedToFloat(v fixed.Int26_6) float32 { return float32(v) / 64 }
