package gui

import (
	"github.com/hubastard/canopy/gmath"
	"github.com/hubastard/canopy/input"
)

// Sense is what kinds of interaction a widget listens for.
type Sense uint8

const (
	SenseHover Sense = 1 << iota
	SenseClick
	SenseDrag
)

func (s Sense) has(f Sense) bool { return s&f != 0 }

// Response is what one widget learned about the pointer this frame.
// All flags are for this frame only; an unclicked frame reports
// everything false again.
type Response struct {
	Id   Id
	Rect gmath.Rect

	// Hovered: the pointer is over the widget's visible (clipped)
	// rect and no other widget owns it.
	Hovered bool

	// Clicked: a press+release pair completed inside the rect within
	// the click thresholds.
	Clicked       bool
	DoubleClicked bool

	// Pressed: the primary button went down inside the rect this
	// frame.
	Pressed bool

	// Dragged: this widget owns the pointer and it moved past the
	// drag threshold. DragDelta is this frame's movement.
	Dragged   bool
	DragDelta gmath.Vec2

	// Released: the primary button came up this frame while this
	// widget owned it.
	Released bool
}

// Interact resolves pointer interaction for rect under id. The rect
// is first cut to the painter's clip, so covered or scrolled-away
// parts of a widget do not react. Drag ownership is exclusive: once a
// press lands in a widget it stays "active" until release, and other
// widgets report nothing meanwhile.
func (ui *Ui) Interact(rect gmath.Rect, id Id, sense Sense) Response {
	ctx := ui.ctx
	in := &ctx.input
	mem := ctx.mem
	r := Response{Id: id, Rect: rect}

	visible := rect.Intersect(ui.painter.ClipRect())
	pos, hasPointer := in.PointerPos()
	over := hasPointer && !visible.IsEmpty() && visible.Contains(pos)

	active := mem.IsActive(id)
	if sense.has(SenseHover) || sense.has(SenseClick) || sense.has(SenseDrag) {
		r.Hovered = over && (!mem.AnyActive() || active)
	}

	if !sense.has(SenseClick) && !sense.has(SenseDrag) {
		return r
	}

	if over && in.PointerPressed(input.ButtonPrimary) && !mem.AnyActive() {
		r.Pressed = true
		mem.SetActive(id)
		st := mem.GetOrCreate(id)
		st.DragOrigin = pos
		active = true
	}

	if active {
		if sense.has(SenseDrag) && in.Dragging(input.ButtonPrimary) {
			r.Dragged = true
			r.DragDelta = in.PointerDelta()
		}
		if in.PointerReleased(input.ButtonPrimary) {
			r.Released = true
			mem.ClearActive()
			if sense.has(SenseClick) && over && in.Clicked(input.ButtonPrimary) {
				r.Clicked = true
				r.DoubleClicked = in.DoubleClicked(input.ButtonPrimary)
			}
		}
	}
	return r
}

// RegisterWidgetId records id for the frame's duplicate check; every
// widget calls it once per frame with its final Id.
func (ui *Ui) RegisterWidgetId(id Id) {
	ui.ctx.noteWidgetId(id)
}
