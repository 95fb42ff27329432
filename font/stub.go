package font

// StubRasterizer is a deterministic monospace provider for tests and
// headless runs: every ASCII glyph is a solid AdvancePx-2 by AscentPx
// block. No font file, no filesystem, no kerning.
type StubRasterizer struct {
	// AdvancePx is the fixed advance; zero means 8.
	AdvancePx float32
	// AscentPx is the ascent; zero means 10. Descent is a quarter of
	// the ascent.
	AscentPx float32
	// Missing lists runes reported as not covered, to exercise the
	// replacement-glyph path.
	Missing []rune
}

func (s *StubRasterizer) advance() float32 {
	if s.AdvancePx <= 0 {
		return 8
	}
	return s.AdvancePx
}

func (s *StubRasterizer) ascent() float32 {
	if s.AscentPx <= 0 {
		return 10
	}
	return s.AscentPx
}

func (s *StubRasterizer) Metrics() Metrics {
	return Metrics{Ascent: s.ascent(), Descent: s.ascent() / 4, LineGap: 0}
}

func (s *StubRasterizer) HasGlyph(r rune) bool {
	for _, m := range s.Missing {
		if m == r {
			return false
		}
	}
	return r >= ' ' && r < 127
}

func (s *StubRasterizer) Kern(a, b rune) float32 { return 0 }

func (s *StubRasterizer) Rasterize(r rune) (GlyphRaster, bool) {
	if !s.HasGlyph(r) {
		return GlyphRaster{}, false
	}
	adv := s.advance()
	g := GlyphRaster{Advance: adv}
	if r == ' ' {
		return g, true
	}
	w, h := int(adv)-2, int(s.ascent())
	g.W, g.H = w, h
	g.BearingX = 1
	g.BearingY = s.ascent()
	g.Alpha = make([]byte, w*h)
	for i := range g.Alpha {
		g.Alpha[i] = 0xff
	}
	return g, true
}
