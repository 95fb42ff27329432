package font

import (
	"testing"

	"github.com/hubastard/canopy/gmath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFont(t *testing.T) *Font {
	t.Helper()
	return NewFont(&StubRasterizer{}, NewAtlas(128, 1024))
}

func TestAtlasAllocatesAndReportsDelta(t *testing.T) {
	a := NewAtlas(128, 1024)

	// The white block is dirty from construction, and fully opaque
	// so untextured vertices sampling it pass their color through.
	d, ok := a.TakeDelta()
	require.True(t, ok)
	assert.Equal(t, 0, d.Min.X)
	u, v := a.WhiteUV()
	w, h := a.Size()
	assert.Equal(t, uint8(0xff), a.Image().AlphaAt(int(u*float32(w)), int(v*float32(h))).A)
	_, ok = a.TakeDelta()
	assert.False(t, ok)

	f := NewFont(&StubRasterizer{}, a)
	g := f.Glyph('A')
	require.False(t, g.Empty())
	d, ok = a.TakeDelta()
	require.True(t, ok)
	assert.Equal(t, g.W, d.Dx())
	assert.Equal(t, g.H, d.Dy())
}

func TestAtlasGrowsThenFills(t *testing.T) {
	a := NewAtlas(64, 128)
	f := NewFont(&StubRasterizer{AdvancePx: 30, AscentPx: 30}, a)

	// Pack glyphs until the 64px atlas must double.
	for r := rune('a'); r <= 'z'; r++ {
		f.Glyph(r)
	}
	w, _ := a.Size()
	assert.Equal(t, 128, w)

	// Keep going past the 128px limit: recoverable signal, no panic,
	// glyphs degrade to advance-only.
	for r := rune('A'); r <= 'Z'; r++ {
		f.Glyph(r)
	}
	assert.True(t, f.TakeAtlasFull())
	assert.False(t, f.TakeAtlasFull(), "signal clears once read")
}

func TestGlyphCacheReuses(t *testing.T) {
	f := testFont(t)
	g1 := f.Glyph('x')
	g2 := f.Glyph('x')
	assert.Same(t, g1, g2)
}

func TestMissingGlyphFallsBack(t *testing.T) {
	f := NewFont(&StubRasterizer{Missing: []rune{'Q'}}, NewAtlas(128, 1024))
	g := f.Glyph('Q')
	require.NotNil(t, g)
	assert.Equal(t, '�', g.Rune)
	assert.False(t, g.Empty(), "replacement box is drawable")

	// All missing runes share the replacement entry.
	assert.Same(t, g, f.Glyph('ÿ'))
}

func TestLayoutSingleLineAdvances(t *testing.T) {
	f := testFont(t)
	g := LayoutSingleLine(f, "abc")
	require.Len(t, g.Rows, 1)
	row := g.Rows[0]
	require.Len(t, row.Glyphs, 3)
	assert.Equal(t, float32(0), row.Glyphs[0].X)
	assert.Equal(t, float32(8), row.Glyphs[1].X)
	assert.Equal(t, float32(16), row.Glyphs[2].X)
	assert.Equal(t, float32(24), row.Width)
	assert.Equal(t, float32(24), g.Size.X)
}

func TestLayoutWrapsAtWordBoundary(t *testing.T) {
	f := testFont(t) // 8px per glyph
	// "aaa bbb" is 56px; wrap at 40 puts "bbb" on row two.
	g := Layout(f, "aaa bbb", 40)
	require.Len(t, g.Rows, 2)
	assert.Equal(t, 0, g.Rows[0].CharStart)
	assert.Equal(t, 4, g.Rows[0].CharEnd)
	assert.Equal(t, 4, g.Rows[1].CharStart)
	assert.Equal(t, 7, g.Rows[1].CharEnd)
	assert.Equal(t, float32(0), g.Rows[1].Glyphs[0].X, "word restarts at the margin")
}

func TestLayoutWrapLineCountIsMinimal(t *testing.T) {
	f := testFont(t) // 8px per glyph, no spacing beyond advance
	// Three 5-glyph words = 40px each plus separating spaces; at
	// 100px two fit per line, so two lines total.
	g := Layout(f, "aaaaa bbbbb ccccc", 100)
	assert.Len(t, g.Rows, 2)
}

func TestLayoutSplitsOverlongWord(t *testing.T) {
	f := testFont(t)
	g := Layout(f, "aaaaaaaaaa", 40) // 80px word, 40px line: 5 per row
	require.Len(t, g.Rows, 2)
	assert.Len(t, g.Rows[0].Glyphs, 5)
	assert.Len(t, g.Rows[1].Glyphs, 5)
}

func TestLayoutHonorsNewline(t *testing.T) {
	f := testFont(t)
	g := Layout(f, "ab\ncd", 1000)
	require.Len(t, g.Rows, 2)
	assert.Equal(t, 3, g.Rows[0].CharEnd, "newline belongs to the row it ends")
	lineH := f.Metrics().LineHeight()
	assert.Equal(t, g.Rows[0].Y+lineH, g.Rows[1].Y)
}

func TestCharPosRoundTrip(t *testing.T) {
	f := testFont(t)
	g := Layout(f, "ab\ncd", 1000)

	for _, char := range []int{0, 1, 2, 3, 4, 5} {
		pos := g.CharPos(char)
		assert.Equal(t, char, g.CharAt(pos.Add(gmath.V2(1, 0))), "char %d", char)
	}

	// End-of-text cursor slot sits after the last glyph.
	end := g.CharPos(g.NumChars())
	assert.Equal(t, float32(16), end.X)
}

func TestCharAtClampsOutside(t *testing.T) {
	f := testFont(t)
	g := LayoutSingleLine(f, "abc")
	assert.Equal(t, 0, g.CharAt(gmath.V2(-100, -100)))
	assert.Equal(t, 3, g.CharAt(gmath.V2(1000, 1000)))
}
