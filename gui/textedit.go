package gui

import (
	"github.com/hubastard/canopy/font"
	"github.com/hubastard/canopy/gmath"
	"github.com/hubastard/canopy/input"
	"github.com/hubastard/canopy/paint"
)

// TextEdit is a single-line editable text box. The caret position
// lives in Memory under the widget's Id; the string itself belongs to
// the caller. Returns the interaction response; check
// ctx.Memory().LostFocus(resp.Id) to commit on defocus.
func (ui *Ui) TextEdit(label string, text *string) Response {
	ctx := ui.ctx
	style := &ctx.style
	id := ui.id.WithString(label)
	ui.RegisterWidgetId(id)
	ctx.mem.RegisterFocusable(id)
	st := ctx.mem.GetOrCreate(id)

	galley := font.LayoutSingleLine(ctx.font, *text)
	lineH := ctx.font.Metrics().LineHeight()
	size := gmath.V2(ui.AvailableRect().Width(), lineH+style.Padding.Y*2)
	rect := ui.AllocateSpace(size)
	textPos := rect.Min.Add(style.Padding)

	resp := ui.Interact(rect, id, SenseClick|SenseDrag)
	if resp.Hovered {
		ctx.SetCursorIcon(CursorText)
	}
	if resp.Pressed {
		ctx.mem.RequestFocus(id)
		if pos, ok := ctx.input.PointerPos(); ok {
			st.TextCursor = galley.CharAt(pos.Sub(textPos))
		}
	} else if ctx.mem.HasFocus(id) && ctx.input.PointerPressed(input.ButtonPrimary) {
		// A press anywhere else defocuses the box, so the loss is
		// observable right after this call.
		ctx.mem.SurrenderFocus(id)
	}

	focused := ctx.mem.HasFocus(id)
	if focused {
		if changed := editText(ctx, st, text); changed {
			galley = font.LayoutSingleLine(ctx.font, *text)
		}
		if ctx.input.KeyPressed(input.KeyEscape) {
			ctx.mem.SurrenderFocus(id)
			focused = false
		}
	}
	st.TextCursor = clampInt(st.TextCursor, 0, galley.NumChars())

	stroke := style.Stroke
	if focused {
		stroke = style.FocusedStroke
	}
	ui.painter.Rect(rect, style.CornerRadius, style.WindowFill, stroke)
	clipped := ui.painter.WithClip(rect)
	clipped.Galley(textPos, galley, style.TextColor)

	if focused {
		// Blinking caret; repaint requests keep the blink running
		// with no other input.
		ctx.RequestRepaint()
		if int(ctx.input.Time()/0.5)%2 == 0 {
			caret := textPos.Add(gmath.V2(galley.CharPos(st.TextCursor).X, 0))
			clipped.LineSegment(caret, caret.Add(gmath.V2(0, lineH)),
				paint.Stroke{Width: 1, Color: style.TextColor})
		}
	}
	return resp
}

// editText applies this frame's ordered events to the string, moving
// the caret in Memory. Returns whether the text changed.
func editText(ctx *Context, st *State, text *string) bool {
	runes := []rune(*text)
	cursor := clampInt(st.TextCursor, 0, len(runes))
	changed := false

	insert := func(s string) {
		ins := []rune(s)
		runes = append(runes[:cursor], append(append([]rune{}, ins...), runes[cursor:]...)...)
		cursor += len(ins)
		changed = true
	}

	for _, ev := range ctx.input.Events {
		switch e := ev.(type) {
		case input.EventText:
			insert(e.Text)
		case input.EventPaste:
			insert(e.Text)
		case input.EventCopy:
			ctx.CopyText(string(runes))
		case input.EventCut:
			ctx.CopyText(string(runes))
			runes = runes[:0]
			cursor = 0
			changed = true
		case input.EventKey:
			if !e.Down {
				continue
			}
			switch e.Key {
			case input.KeyBackspace:
				if cursor > 0 {
					runes = append(runes[:cursor-1], runes[cursor:]...)
					cursor--
					changed = true
				}
			case input.KeyDelete:
				if cursor < len(runes) {
					runes = append(runes[:cursor], runes[cursor+1:]...)
					changed = true
				}
			case input.KeyArrowLeft:
				if cursor > 0 {
					cursor--
				}
			case input.KeyArrowRight:
				if cursor < len(runes) {
					cursor++
				}
			case input.KeyHome:
				cursor = 0
			case input.KeyEnd:
				cursor = len(runes)
			}
		}
	}

	st.TextCursor = cursor
	if changed {
		*text = string(runes)
	}
	return changed
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
