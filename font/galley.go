package font

import "github.com/hubastard/canopy/gmath"

// PlacedGlyph is one shaped glyph: its cached atlas entry plus the
// pen X offset from the galley origin. Kerning is already folded into
// X, so the tessellator only emits quads.
type PlacedGlyph struct {
	Glyph *Glyph
	X     float32
	// Char is the rune index in the source text, for cursor mapping.
	Char int
}

// Row is one laid-out line. Y is the baseline offset from the galley
// origin; Width is the pen advance of the whole line.
type Row struct {
	Glyphs []PlacedGlyph
	Y      float32
	Width  float32
	// CharStart/CharEnd delimit the rune range [start,end) this row
	// covers in the source text. A row break from wrapping does not
	// consume a character; a '\n' belongs to the row it ends.
	CharStart, CharEnd int
}

// Galley is a shaped text run: the string resolved to positioned
// glyphs, once, at paint time. The tessellator and the text-cursor
// logic both consume it without re-shaping.
type Galley struct {
	Text string
	Font *Font
	Rows []Row
	// Size is the bounding box: max row width by total line height.
	Size gmath.Vec2
}

// LayoutSingleLine shapes text as one row, '\n' treated like any
// other missing glyph.
func LayoutSingleLine(f *Font, text string) *Galley {
	return Layout(f, text, -1)
}

// Layout shapes text with greedy word wrapping at wrapWidth points.
// A negative wrapWidth disables wrapping; '\n' always breaks. A word
// longer than the wrap width is split mid-word rather than overflowed.
func Layout(f *Font, text string, wrapWidth float32) *Galley {
	g := &Galley{Text: text, Font: f}
	m := f.Metrics()
	lineH := m.LineHeight()

	runes := []rune(text)
	baseline := m.Ascent

	row := Row{Y: baseline}
	rowStart := 0
	// Index into row.Glyphs of the glyph after the last space, for
	// word wrapping; -1 when the current word started the row.
	lastBreak := -1
	var prev rune
	hasPrev := false

	flush := func(end int, nextStart int) {
		row.CharStart = rowStart
		row.CharEnd = end
		if row.Width > g.Size.X {
			g.Size.X = row.Width
		}
		g.Rows = append(g.Rows, row)
		baseline += lineH
		row = Row{Y: baseline}
		rowStart = nextStart
		lastBreak = -1
		hasPrev = false
	}

	for i, r := range runes {
		if r == '\n' && wrapWidth >= 0 {
			flush(i+1, i+1)
			continue
		}
		glyph := f.Glyph(r)
		pen := row.Width
		if hasPrev {
			pen += f.Kern(prev, r)
		}
		advanceTo := pen + glyph.Advance

		if wrapWidth >= 0 && advanceTo > wrapWidth && len(row.Glyphs) > 0 {
			if r == ' ' {
				// Trailing space hangs past the wrap edge; the next
				// non-space glyph starts the new row.
				flush(i+1, i+1)
				continue
			}
			if lastBreak > 0 && lastBreak < len(row.Glyphs) {
				// Move the current word down to the next row.
				word := row.Glyphs[lastBreak:]
				wordStart := word[0].Char
				shift := word[0].X
				row.Glyphs = row.Glyphs[:lastBreak]
				row.Width = shift
				flush(wordStart, wordStart)
				for _, pg := range word {
					pg.X -= shift
					row.Glyphs = append(row.Glyphs, pg)
				}
				last := word[len(word)-1]
				row.Width = last.X - shift + last.Glyph.Advance
				pen = row.Width
				advanceTo = pen + glyph.Advance
			} else {
				// Either a word longer than the line (split it) or a
				// new word starting exactly at the wrap edge.
				flush(i, i)
				pen = 0
				advanceTo = glyph.Advance
			}
		}

		row.Glyphs = append(row.Glyphs, PlacedGlyph{Glyph: glyph, X: pen, Char: i})
		row.Width = advanceTo
		if r == ' ' {
			lastBreak = len(row.Glyphs)
		}
		prev, hasPrev = r, true
	}
	flush(len(runes), len(runes))

	g.Size.Y = float32(len(g.Rows)) * lineH
	return g
}

// NumChars is the rune length of the source text.
func (g *Galley) NumChars() int {
	if len(g.Rows) == 0 {
		return 0
	}
	return g.Rows[len(g.Rows)-1].CharEnd
}

// CharPos returns the pen position of the rune at index char,
// relative to the galley origin: X at the glyph's left edge, Y at the
// row's baseline. char == NumChars() addresses the end-of-text cursor
// slot.
func (g *Galley) CharPos(char int) gmath.Vec2 {
	for i, row := range g.Rows {
		if char >= row.CharEnd && i < len(g.Rows)-1 {
			continue
		}
		x := row.Width
		for _, pg := range row.Glyphs {
			if pg.Char >= char {
				x = pg.X
				break
			}
		}
		return gmath.V2(x, row.Y)
	}
	return gmath.Vec2{}
}

// CharAt maps a position (galley-relative) to the rune index whose
// cursor slot is nearest, the inverse of CharPos for mouse clicks.
func (g *Galley) CharAt(pos gmath.Vec2) int {
	if len(g.Rows) == 0 {
		return 0
	}
	m := g.Font.Metrics()
	rowIdx := int(pos.Y / m.LineHeight())
	if rowIdx < 0 {
		rowIdx = 0
	}
	if rowIdx >= len(g.Rows) {
		rowIdx = len(g.Rows) - 1
	}
	row := g.Rows[rowIdx]
	for _, pg := range row.Glyphs {
		if pos.X < pg.X+pg.Glyph.Advance/2 {
			return pg.Char
		}
	}
	end := row.CharEnd
	// Do not land after the terminating newline of a wrapped row.
	if end > row.CharStart && rowIdx < len(g.Rows)-1 {
		if runes := []rune(g.Text); end-1 < len(runes) && runes[end-1] == '\n' {
			end--
		}
	}
	return end
}
