package gui

import (
	"strconv"

	"github.com/hubastard/canopy/font"
	"github.com/hubastard/canopy/gmath"
	"github.com/hubastard/canopy/input"
	"github.com/hubastard/canopy/paint"
)

// AllocatePainter is the escape hatch for custom widgets: it carves
// out the desired rect and returns it with a painter clipped to it.
func (ui *Ui) AllocatePainter(desired gmath.Vec2) (gmath.Rect, paint.Painter) {
	rect := ui.AllocateSpace(desired)
	return rect, ui.painter.WithClip(rect)
}

// Label shows text, word-wrapped to the remaining width.
func (ui *Ui) Label(text string) {
	ui.ColoredLabel(text, ui.ctx.style.TextColor)
}

// WeakLabel shows de-emphasized text.
func (ui *Ui) WeakLabel(text string) {
	ui.ColoredLabel(text, ui.ctx.style.WeakTextColor)
}

func (ui *Ui) ColoredLabel(text string, color paint.Color) {
	wrap := ui.AvailableRect().Width()
	galley := font.Layout(ui.ctx.font, text, wrap)
	rect := ui.AllocateSpace(galley.Size)
	ui.painter.Galley(rect.Min, galley, color)
}

// Heading shows a single unwrapped line; long text clips.
func (ui *Ui) Heading(text string) {
	galley := font.LayoutSingleLine(ui.ctx.font, text)
	rect := ui.AllocateSpace(galley.Size)
	ui.painter.WithClip(rect).Galley(rect.Min, galley, ui.ctx.style.TextColor)
}

// Button shows a clickable labeled box. Check resp.Clicked.
func (ui *Ui) Button(label string) Response {
	ctx := ui.ctx
	style := &ctx.style
	id := ui.id.WithString(label)
	ui.RegisterWidgetId(id)
	ctx.mem.RegisterFocusable(id)

	galley := font.LayoutSingleLine(ctx.font, label)
	size := galley.Size.Add(style.Padding.Scale(2))
	rect := ui.AllocateSpace(size)
	resp := ui.Interact(rect, id, SenseClick)
	if resp.Pressed {
		ctx.mem.RequestFocus(id)
	}
	if ctx.mem.HasFocus(id) && ctx.input.KeyPressed(input.KeyEnter) {
		resp.Clicked = true
	}

	fill := style.WidgetFill
	switch {
	case ctx.mem.IsActive(id):
		fill = style.ActiveFill
	case resp.Hovered:
		fill = style.HoveredFill
		ctx.SetCursorIcon(CursorPointingHand)
	}
	stroke := style.Stroke
	if ctx.mem.HasFocus(id) {
		stroke = style.FocusedStroke
	}
	ui.painter.Rect(rect, style.CornerRadius, fill, stroke)
	textPos := rect.Center().Sub(galley.Size.Scale(0.5))
	ui.painter.WithClip(rect).Galley(textPos, galley, style.TextColor)
	return resp
}

// Checkbox toggles *v on click.
func (ui *Ui) Checkbox(label string, v *bool) Response {
	ctx := ui.ctx
	style := &ctx.style
	id := ui.id.WithString(label)
	ui.RegisterWidgetId(id)
	ctx.mem.RegisterFocusable(id)

	galley := font.LayoutSingleLine(ctx.font, label)
	box := galley.Size.Y
	size := gmath.V2(box+style.ItemSpacing.X+galley.Size.X, box)
	rect := ui.AllocateSpace(size)
	resp := ui.Interact(rect, id, SenseClick)
	if resp.Clicked {
		*v = !*v
	}
	if ctx.mem.HasFocus(id) && ctx.input.KeyPressed(input.KeySpace) {
		*v = !*v
		resp.Clicked = true
	}
	if resp.Pressed {
		ctx.mem.RequestFocus(id)
	}

	boxRect := gmath.RectMinSize(rect.Min, gmath.Splat(box))
	fill := style.WidgetFill
	if resp.Hovered {
		fill = style.HoveredFill
	}
	stroke := style.Stroke
	if ctx.mem.HasFocus(id) {
		stroke = style.FocusedStroke
	}
	ui.painter.Rect(boxRect, style.CornerRadius, fill, stroke)
	if *v {
		ui.painter.RectFilled(boxRect.Expand(-box*0.25), style.CornerRadius*0.5, style.TextColor)
	}
	textPos := gmath.V2(boxRect.Max.X+style.ItemSpacing.X, rect.Min.Y)
	ui.painter.Galley(textPos, galley, style.TextColor)
	return resp
}

// Slider drags *v across [min, max] along a horizontal track.
func (ui *Ui) Slider(label string, v *float32, min, max float32) Response {
	ctx := ui.ctx
	style := &ctx.style
	id := ui.id.WithString(label)
	ui.RegisterWidgetId(id)

	const knobRadius = 6
	width := gmath.Clamp(ui.AvailableRect().Width()*0.5, 4*knobRadius, 240)
	rect := ui.AllocateSpace(gmath.V2(width, 2*knobRadius))
	resp := ui.Interact(rect, id, SenseClick|SenseDrag)

	trackMin := rect.Min.X + knobRadius
	trackMax := rect.Max.X - knobRadius
	if resp.Pressed || resp.Dragged {
		if pos, ok := ctx.input.PointerPos(); ok && trackMax > trackMin {
			t := gmath.Clamp((pos.X-trackMin)/(trackMax-trackMin), 0, 1)
			*v = min + t*(max-min)
		}
	}
	*v = gmath.Clamp(*v, min, max)

	mid := rect.Center().Y
	ui.painter.LineSegment(gmath.V2(trackMin, mid), gmath.V2(trackMax, mid), style.Stroke)
	var t float32
	if max > min {
		t = (*v - min) / (max - min)
	}
	knob := gmath.V2(trackMin+t*(trackMax-trackMin), mid)
	fill := style.WidgetFill
	if resp.Hovered || ctx.mem.IsActive(id) {
		fill = style.ActiveFill
		ctx.SetCursorIcon(CursorResizeHorizontal)
	}
	ui.painter.Circle(knob, knobRadius, fill, style.Stroke)

	// Label and live value to the right of the track.
	text := label + ": " + strconv.FormatFloat(float64(*v), 'g', 4, 32)
	galley := font.LayoutSingleLine(ctx.font, text)
	ui.painter.Galley(gmath.V2(rect.Max.X+style.ItemSpacing.X, mid-galley.Size.Y/2), galley, style.TextColor)
	return resp
}

// CollapsingHeader shows a toggling header; body runs only while
// open. The open flag lives in Memory, so it survives frames without
// the caller tracking anything. Returns whether the body ran.
func (ui *Ui) CollapsingHeader(label string, body func(*Ui)) bool {
	ctx := ui.ctx
	style := &ctx.style
	id := ui.id.WithString(label)
	ui.RegisterWidgetId(id)
	st := ctx.mem.GetOrCreate(id)

	galley := font.LayoutSingleLine(ctx.font, label)
	tri := galley.Size.Y
	size := gmath.V2(ui.AvailableRect().Width(), galley.Size.Y+style.Padding.Y*2)
	rect := ui.AllocateSpace(size)
	resp := ui.Interact(rect, id, SenseClick)
	if resp.Clicked {
		st.Collapsed = !st.Collapsed
	}

	fill := style.WidgetFill
	if resp.Hovered {
		fill = style.HoveredFill
		ctx.SetCursorIcon(CursorPointingHand)
	}
	ui.painter.Rect(rect, style.CornerRadius, fill, paint.Stroke{})

	// Disclosure triangle, pointing right when collapsed, down when
	// open.
	c := gmath.V2(rect.Min.X+style.Padding.X+tri/2, rect.Center().Y)
	h := tri * 0.3
	var pts []gmath.Vec2
	if st.Collapsed {
		pts = []gmath.Vec2{c.Add(gmath.V2(-h*0.6, -h)), c.Add(gmath.V2(h, 0)), c.Add(gmath.V2(-h*0.6, h))}
	} else {
		pts = []gmath.Vec2{c.Add(gmath.V2(-h, -h*0.6)), c.Add(gmath.V2(h, -h*0.6)), c.Add(gmath.V2(0, h))}
	}
	ui.painter.Add(paint.PolygonShape{Points: pts, Fill: style.TextColor})

	textPos := gmath.V2(rect.Min.X+style.Padding.X+tri+style.ItemSpacing.X, rect.Center().Y-galley.Size.Y/2)
	ui.painter.WithClip(rect).Galley(textPos, galley, style.TextColor)

	if st.Collapsed {
		return false
	}
	indent := gmath.V2(style.Padding.X*2, 0)
	inner := ui.AvailableRect()
	inner.Min = inner.Min.Add(indent)
	c2 := ui.child(inner, TopDown, false, false)
	body(c2)
	c2.close()
	return true
}

// ScrollArea shows body inside a fixed-height viewport, scrolled by
// wheel or by dragging the scrollbar thumb. The scroll offset and the
// measured content height persist in Memory; the content height is
// last frame's (the layout cache), which is one frame stale after a
// content change and correct otherwise.
func (ui *Ui) ScrollArea(label string, height float32, body func(*Ui)) {
	ctx := ui.ctx
	style := &ctx.style
	id := ui.id.WithString(label)
	ui.RegisterWidgetId(id)
	st := ctx.mem.GetOrCreate(id)

	outer := ui.AllocateSpace(gmath.V2(ui.AvailableRect().Width(), height))
	viewH := outer.Height()
	contentH := st.Size.Y
	maxOffset := contentH - viewH
	if maxOffset < 0 {
		maxOffset = 0
	}
	st.ScrollOffset.Y = gmath.Clamp(st.ScrollOffset.Y, 0, maxOffset)

	hover := ui.Interact(outer, id, SenseHover)
	if hover.Hovered {
		st.ScrollOffset.Y = gmath.Clamp(st.ScrollOffset.Y-ctx.input.ScrollDelta().Y, 0, maxOffset)
	}

	// Content flows in an untruncated rect shifted up by the offset;
	// the painter's clip keeps it inside the viewport.
	inner := gmath.RectMinMax(
		outer.Min.Sub(gmath.V2(0, st.ScrollOffset.Y)),
		gmath.V2(outer.Max.X-style.ScrollbarWidth, gmath.Everything().Max.Y),
	)
	child := ui.child(inner, TopDown, false, true)
	child.painter = child.painter.WithClip(outer)
	body(child)
	st.Size = child.frame.realized().Size()

	if maxOffset > 0 {
		track := gmath.RectMinMax(
			gmath.V2(outer.Max.X-style.ScrollbarWidth, outer.Min.Y),
			outer.Max,
		)
		thumbH := gmath.Clamp(viewH*viewH/contentH, 16, viewH)
		thumbY := outer.Min.Y + (st.ScrollOffset.Y/maxOffset)*(viewH-thumbH)
		thumb := gmath.RectMinSize(gmath.V2(track.Min.X, thumbY), gmath.V2(style.ScrollbarWidth, thumbH))

		thumbId := id.WithString("thumb")
		resp := ui.Interact(thumb, thumbId, SenseDrag)
		if resp.Dragged && viewH > thumbH {
			st.ScrollOffset.Y = gmath.Clamp(
				st.ScrollOffset.Y+resp.DragDelta.Y*maxOffset/(viewH-thumbH), 0, maxOffset)
		}
		ui.painter.RectFilled(track, 0, style.WindowFill)
		fill := style.WidgetFill
		if resp.Hovered || ctx.mem.IsActive(thumbId) {
			fill = style.HoveredFill
		}
		ui.painter.RectFilled(thumb, style.ScrollbarWidth/2, fill)
	}
}

// Separator draws a thin line across the region and advances.
func (ui *Ui) Separator() {
	style := &ui.ctx.style
	if ui.frame.dir.Horizontal() {
		rect := ui.AllocateSpace(gmath.V2(style.ItemSpacing.X, ui.AvailableRect().Height()))
		x := rect.Center().X
		ui.painter.LineSegment(gmath.V2(x, rect.Min.Y), gmath.V2(x, rect.Max.Y), style.Stroke)
	} else {
		rect := ui.AllocateSpace(gmath.V2(ui.AvailableRect().Width(), style.ItemSpacing.Y))
		y := rect.Center().Y
		ui.painter.LineSegment(gmath.V2(rect.Min.X, y), gmath.V2(rect.Max.X, y), style.Stroke)
	}
}
