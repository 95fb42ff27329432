package gui

import (
	"github.com/hubastard/canopy/gmath"
	"github.com/hubastard/canopy/paint"
)

// Direction is the main axis a region lays widgets along.
type Direction int

const (
	TopDown Direction = iota
	LeftRight
	RightLeft
	BottomUp
)

// Horizontal reports a main axis along X.
func (d Direction) Horizontal() bool { return d == LeftRight || d == RightLeft }

// Reversed reports growth toward -X/-Y.
func (d Direction) Reversed() bool { return d == RightLeft || d == BottomUp }

// Align positions items inside surplus space.
type Align int

const (
	AlignStart Align = iota
	AlignCenter
	AlignEnd
	// AlignJustify spreads surplus into the gaps between items.
	AlignJustify
)

// layoutFrame is one entry of the placement stack: where the cursor
// is, what space remains, and how allocations advance. Each Ui owns
// exactly one; nested regions are nested Uis.
type layoutFrame struct {
	dir     Direction
	avail   gmath.Rect
	cursor  gmath.Vec2
	spacing gmath.Vec2
	wrap    bool

	// lineCross is the cross-axis high-water mark of the current
	// line, deciding how far a wrap advances.
	lineCross float32

	// bounds accumulates every allocated rect: the region's realized
	// size, reported to the parent on close.
	bounds gmath.Rect

	// rowRects are this line's allocations, for post-hoc
	// justification. Reset on wrap.
	rowRects []gmath.Rect
}

func newLayoutFrame(dir Direction, avail gmath.Rect, spacing gmath.Vec2, wrap bool) layoutFrame {
	f := layoutFrame{
		dir:     dir,
		avail:   avail,
		spacing: spacing,
		wrap:    wrap,
		bounds:  gmath.Nothing(),
	}
	f.cursor = f.startCursor()
	return f
}

func (f *layoutFrame) startCursor() gmath.Vec2 {
	switch f.dir {
	case RightLeft:
		return gmath.V2(f.avail.Max.X, f.avail.Min.Y)
	case BottomUp:
		return gmath.V2(f.avail.Min.X, f.avail.Max.Y)
	default:
		return f.avail.Min
	}
}

// allocate carves a rect of the desired size at the cursor, wrapping
// first when the line would overflow, and advances the cursor along
// the main axis by size plus spacing. Size never overflows: it clamps
// to what the region has, and the caller decides between clipping and
// scrolling.
func (f *layoutFrame) allocate(desired gmath.Vec2) gmath.Rect {
	desired = desired.Max(gmath.Vec2{})
	if f.wrap && len(f.rowRects) > 0 && f.overflows(desired) {
		f.newLine()
	}
	size := desired.Min(f.remaining().Max(gmath.Vec2{}))

	var r gmath.Rect
	switch f.dir {
	case RightLeft:
		r = gmath.RectMinSize(gmath.V2(f.cursor.X-size.X, f.cursor.Y), size)
		f.cursor.X = r.Min.X - f.spacing.X
	case BottomUp:
		r = gmath.RectMinSize(gmath.V2(f.cursor.X, f.cursor.Y-size.Y), size)
		f.cursor.Y = r.Min.Y - f.spacing.Y
	case LeftRight:
		r = gmath.RectMinSize(f.cursor, size)
		f.cursor.X = r.Max.X + f.spacing.X
	default: // TopDown
		r = gmath.RectMinSize(f.cursor, size)
		f.cursor.Y = r.Max.Y + f.spacing.Y
	}

	cross := size.Y
	if !f.dir.Horizontal() {
		cross = size.X
	}
	if cross > f.lineCross {
		f.lineCross = cross
	}
	f.bounds = f.bounds.Union(r)
	f.rowRects = append(f.rowRects, r)
	return r
}

// remaining is the space left from the cursor to the region's far
// edge on both axes; allocations clamp to it rather than overflow.
func (f *layoutFrame) remaining() gmath.Vec2 {
	switch f.dir {
	case RightLeft:
		return gmath.V2(f.cursor.X-f.avail.Min.X, f.avail.Max.Y-f.cursor.Y)
	case BottomUp:
		return gmath.V2(f.avail.Max.X-f.cursor.X, f.cursor.Y-f.avail.Min.Y)
	default:
		return f.avail.Max.Sub(f.cursor)
	}
}

// overflows reports whether an allocation of size would pass the end
// of the current line.
func (f *layoutFrame) overflows(size gmath.Vec2) bool {
	switch f.dir {
	case LeftRight:
		return f.cursor.X+size.X > f.avail.Max.X
	case RightLeft:
		return f.cursor.X-size.X < f.avail.Min.X
	case TopDown:
		return f.cursor.Y+size.Y > f.avail.Max.Y
	default:
		return f.cursor.Y-size.Y < f.avail.Min.Y
	}
}

// newLine wraps: the main-axis cursor rewinds to the start and the
// cross axis advances past the tallest item of the finished line.
func (f *layoutFrame) newLine() {
	start := f.startCursor()
	if f.dir.Horizontal() {
		f.cursor.X = start.X
		f.cursor.Y += f.lineCross + f.spacing.Y
	} else {
		f.cursor.Y = start.Y
		f.cursor.X += f.lineCross + f.spacing.X
	}
	f.lineCross = 0
	f.rowRects = f.rowRects[:0]
}

// realized is the bounding box of everything allocated so far; zero
// rect while empty.
func (f *layoutFrame) realized() gmath.Rect {
	if f.bounds.Min.X > f.bounds.Max.X {
		return gmath.RectMinSize(f.avail.Min, gmath.Vec2{})
	}
	return f.bounds
}

// JustifyRow redistributes a completed row's rects along main-axis
// surplus inside bounds. Only positions change, never sizes or order,
// so widget logic does not re-run; callers repaint at the returned
// rects or use it before painting.
func JustifyRow(rects []gmath.Rect, bounds gmath.Rect, dir Direction, align Align) []gmath.Rect {
	if len(rects) == 0 || align == AlignStart {
		return rects
	}
	horizontal := dir.Horizontal()
	var used float32
	for _, r := range rects {
		if horizontal {
			used += r.Width()
		} else {
			used += r.Height()
		}
	}
	span := bounds.Height()
	if horizontal {
		span = bounds.Width()
	}
	var gaps float32
	if horizontal {
		gaps = rects[len(rects)-1].Min.X - rects[0].Min.X
		for _, r := range rects[:len(rects)-1] {
			gaps -= r.Width()
		}
	} else {
		gaps = rects[len(rects)-1].Min.Y - rects[0].Min.Y
		for _, r := range rects[:len(rects)-1] {
			gaps -= r.Height()
		}
	}
	surplus := span - used - gaps
	if surplus <= 0 {
		return rects
	}

	out := make([]gmath.Rect, len(rects))
	switch align {
	case AlignCenter, AlignEnd:
		shift := surplus
		if align == AlignCenter {
			shift = surplus / 2
		}
		d := gmath.V2(shift, 0)
		if !horizontal {
			d = gmath.V2(0, shift)
		}
		for i, r := range rects {
			out[i] = r.Translate(d)
		}
	case AlignJustify:
		extra := surplus / float32(max(len(rects)-1, 1))
		for i, r := range rects {
			shift := extra * float32(i)
			if horizontal {
				out[i] = r.Translate(gmath.V2(shift, 0))
			} else {
				out[i] = r.Translate(gmath.V2(0, shift))
			}
		}
	default:
		copy(out, rects)
	}
	return out
}

// AlignRowCross aligns a completed row's rects across the main axis,
// so mixed-size items in one horizontal row can line up on center or
// bottom within the row's cross extent (bounds). Each rect shifts
// independently; AlignJustify has no cross-axis meaning and behaves
// like AlignStart.
func AlignRowCross(rects []gmath.Rect, bounds gmath.Rect, dir Direction, align Align) []gmath.Rect {
	if len(rects) == 0 || align == AlignStart || align == AlignJustify {
		return rects
	}
	horizontal := dir.Horizontal()
	out := make([]gmath.Rect, len(rects))
	for i, r := range rects {
		var surplus float32
		if horizontal {
			surplus = bounds.Height() - r.Height()
		} else {
			surplus = bounds.Width() - r.Width()
		}
		if surplus <= 0 {
			out[i] = r
			continue
		}
		shift := surplus
		if align == AlignCenter {
			shift = surplus / 2
		}
		if horizontal {
			out[i] = r.Translate(gmath.V2(0, bounds.Min.Y+shift-r.Min.Y))
		} else {
			out[i] = r.Translate(gmath.V2(bounds.Min.X+shift-r.Min.X, 0))
		}
	}
	return out
}

// Ui is one placement context: widgets ask it for space and paint
// through it. Nested regions are child Uis whose realized size
// advances the parent's cursor on Close.
type Ui struct {
	ctx     *Context
	id      Id
	frame   layoutFrame
	painter paint.Painter
	parent  *Ui
}

// Id returns the Ui's scope Id; widget Ids fold their labels into it.
func (ui *Ui) Id() Id { return ui.id }

// Ctx exposes the frame orchestrator for widgets that need input,
// memory or fonts.
func (ui *Ui) Ctx() *Context { return ui.ctx }

// Painter paints under this region's clip rect.
func (ui *Ui) Painter() paint.Painter { return ui.painter }

// AvailableRect is the space not yet allocated, from the cursor to
// the region's far corner.
func (ui *Ui) AvailableRect() gmath.Rect {
	f := &ui.frame
	switch f.dir {
	case RightLeft:
		return gmath.RectMinMax(gmath.V2(f.avail.Min.X, f.cursor.Y), gmath.V2(f.cursor.X, f.avail.Max.Y))
	case BottomUp:
		return gmath.RectMinMax(gmath.V2(f.cursor.X, f.avail.Min.Y), gmath.V2(f.avail.Max.X, f.cursor.Y))
	default:
		return gmath.RectMinMax(f.cursor, f.avail.Max)
	}
}

// AllocateSpace is the single placement primitive: it returns the
// concrete rect for a widget wanting desired points and advances the
// cursor. See layoutFrame.allocate for the wrap and clamp rules.
func (ui *Ui) AllocateSpace(desired gmath.Vec2) gmath.Rect {
	return ui.frame.allocate(desired)
}

// AllocateRow allocates one rect per size as a single row, then
// redistributes the row in a post-hoc pass: align spreads main-axis
// surplus, cross lines mixed-size items up within the row's extent
// (the tallest item sets it). The returned rects are final; paint
// after calling.
func (ui *Ui) AllocateRow(sizes []gmath.Vec2, align, cross Align) []gmath.Rect {
	rects := make([]gmath.Rect, len(sizes))
	row := gmath.Nothing()
	for i, s := range sizes {
		rects[i] = ui.frame.allocate(s)
		row = row.Union(rects[i])
	}
	rects = JustifyRow(rects, ui.frame.avail, ui.frame.dir, align)
	return AlignRowCross(rects, row, ui.frame.dir, cross)
}

// MinRect is the bounding box of everything this region allocated.
func (ui *Ui) MinRect() gmath.Rect { return ui.frame.realized() }

// child opens a nested region over rect. Closing it advances the
// parent cursor by the child's realized bounds, so parents hug
// content they could not measure in advance.
func (ui *Ui) child(rect gmath.Rect, dir Direction, wrap bool, clip bool) *Ui {
	c := &Ui{
		ctx:     ui.ctx,
		id:      ui.id,
		frame:   newLayoutFrame(dir, rect, ui.ctx.style.ItemSpacing, wrap),
		painter: ui.painter,
		parent:  ui,
	}
	if clip {
		c.painter = ui.painter.WithClip(rect)
	}
	return c
}

func (ui *Ui) close() {
	if ui.parent == nil {
		return
	}
	ui.parent.frame.allocate(ui.frame.realized().Size())
}

// Vertical runs body in a nested top-down region carved from the
// remaining space, then advances this Ui's cursor by the realized
// size.
func (ui *Ui) Vertical(body func(*Ui)) gmath.Rect {
	return ui.Region(TopDown, false, body)
}

// Horizontal runs body in a nested left-right region.
func (ui *Ui) Horizontal(body func(*Ui)) gmath.Rect {
	return ui.Region(LeftRight, false, body)
}

// HorizontalWrapped runs body in a left-right region that wraps onto
// new lines at the right edge.
func (ui *Ui) HorizontalWrapped(body func(*Ui)) gmath.Rect {
	return ui.Region(LeftRight, true, body)
}

// Region opens a nested region with the given direction and wrap
// policy over the remaining space, runs body, closes it and returns
// the child's realized bounds.
func (ui *Ui) Region(dir Direction, wrap bool, body func(*Ui)) gmath.Rect {
	c := ui.child(ui.AvailableRect(), dir, wrap, false)
	body(c)
	c.close()
	return c.frame.realized()
}

// ScopeId runs body with extra Id discrimination, for widgets created
// in loops: ui.ScopeId(i, func(ui *gui.Ui) { ... }).
func (ui *Ui) ScopeId(index int, body func(*Ui)) {
	saved := ui.id
	ui.id = ui.id.WithInt(index)
	body(ui)
	ui.id = saved
}
