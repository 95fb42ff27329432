package gui

import (
	"testing"

	"github.com/hubastard/canopy/font"
	"github.com/hubastard/canopy/gmath"
	"github.com/hubastard/canopy/input"
	"github.com/hubastard/canopy/paint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCtx(opts Options) *Context {
	return New(opts, &font.StubRasterizer{})
}

func pressAt(pos gmath.Vec2) input.Event {
	return input.EventPointerButton{Pos: pos, Button: input.ButtonPrimary, Down: true}
}

func releaseAt(pos gmath.Vec2) input.Event {
	return input.EventPointerButton{Pos: pos, Button: input.ButtonPrimary, Down: false}
}

func TestButtonClickEndToEnd(t *testing.T) {
	c := testCtx(Options{})
	inButton := gmath.V2(10, 10)

	runFrame := func(time float64, events ...input.Event) (clicked bool) {
		ui := c.BeginFrame(input.RawInput{Time: time, Events: events})
		ui.Vertical(func(panel *Ui) {
			if panel.Button("OK").Clicked {
				clicked = true
			}
		})
		c.EndFrame()
		return clicked
	}

	assert.False(t, runFrame(0.1))
	assert.False(t, runFrame(0.2, pressAt(inButton)), "press alone is not a click")
	assert.True(t, runFrame(0.3, releaseAt(inButton)), "press+release inside the rect clicks")
	assert.False(t, runFrame(0.4), "click is a one-frame signal")
}

func TestClickOutsideDoesNothing(t *testing.T) {
	c := testCtx(Options{})
	far := gmath.V2(700, 500)

	clicked := false
	frame := func(time float64, events ...input.Event) {
		ui := c.BeginFrame(input.RawInput{Time: time, Events: events})
		if ui.Button("OK").Clicked {
			clicked = true
		}
		c.EndFrame()
	}
	frame(0.1, pressAt(far))
	frame(0.2, releaseAt(far))
	assert.False(t, clicked)
}

func TestDragMovesPastClickThreshold(t *testing.T) {
	c := testCtx(Options{})
	var dragged, clicked bool

	frame := func(time float64, events ...input.Event) {
		ui := c.BeginFrame(input.RawInput{Time: time, Events: events})
		rect := ui.AllocateSpace(gmath.V2(100, 100))
		resp := ui.Interact(rect, ui.Id().WithString("pad"), SenseClick|SenseDrag)
		dragged = dragged || resp.Dragged
		clicked = clicked || resp.Clicked
		c.EndFrame()
	}

	frame(0.1, pressAt(gmath.V2(50, 50)))
	frame(0.2, input.EventPointerMove{Pos: gmath.V2(80, 50)})
	assert.True(t, dragged)
	frame(0.3, releaseAt(gmath.V2(80, 50)))
	assert.False(t, clicked, "a drag never reports as a click")
}

func TestSingleFrameInFlight(t *testing.T) {
	c := testCtx(Options{})
	c.BeginFrame(input.RawInput{Time: 0.1})
	assert.Panics(t, func() { c.BeginFrame(input.RawInput{Time: 0.2}) })
	c.EndFrame()
	assert.Panics(t, func() { c.EndFrame() })
}

func TestRunFrameRecoversToPartialFrame(t *testing.T) {
	c := testCtx(Options{})
	out := c.RunFrame(input.RawInput{Time: 0.1}, func(ui *Ui) {
		ui.Painter().RectFilled(gmath.RectMinSize(gmath.V2(10, 10), gmath.V2(50, 50)), 0, paint.Red)
		panic("widget bug")
	})
	// The shape painted before the panic still renders.
	require.NotEmpty(t, out.DrawCalls)
	assert.NotEmpty(t, out.DrawCalls[0].Mesh.Vertices)

	// The context is usable again.
	assert.NotPanics(t, func() { c.RunFrame(input.RawInput{Time: 0.2}, func(*Ui) {}) })
}

func TestDuplicateIdDetection(t *testing.T) {
	c := testCtx(Options{DebugIds: true})
	ui := c.BeginFrame(input.RawInput{Time: 0.1})
	ui.Button("Same")
	ui.Button("Same")
	assert.Equal(t, 1, c.DuplicateIds())
	c.EndFrame()

	// Discriminated via ScopeId: no collision.
	ui = c.BeginFrame(input.RawInput{Time: 0.2})
	for i := 0; i < 2; i++ {
		ui.ScopeId(i, func(ui *Ui) { ui.Button("Same") })
	}
	assert.Equal(t, 0, c.DuplicateIds())
	c.EndFrame()
}

func TestVisualChangeFlag(t *testing.T) {
	c := testCtx(Options{})
	body := func(label string) func(*Ui) {
		return func(ui *Ui) { ui.Label(label) }
	}

	out1 := c.RunFrame(input.RawInput{Time: 0.1}, body("hello"))
	assert.True(t, out1.VisualChange, "first frame always draws")
	assert.NotNil(t, out1.TexturesDelta, "new glyphs entered the atlas")

	out2 := c.RunFrame(input.RawInput{Time: 0.2}, body("hello"))
	assert.False(t, out2.VisualChange, "identical frame can skip the GPU submit")
	assert.Nil(t, out2.TexturesDelta)

	out3 := c.RunFrame(input.RawInput{Time: 0.3}, body("world"))
	assert.True(t, out3.VisualChange)
}

func TestVisualChangeSeesTextureSwap(t *testing.T) {
	c := testCtx(Options{})
	body := func(tex paint.TextureID) func(*Ui) {
		return func(ui *Ui) {
			ui.Painter().Add(paint.ImageShape{
				Rect:    gmath.RectMinSize(gmath.V2(10, 10), gmath.V2(32, 32)),
				UV:      gmath.RectMinSize(gmath.Vec2{}, gmath.V2(1, 1)),
				Tint:    paint.White,
				Texture: tex,
			})
		}
	}
	c.RunFrame(input.RawInput{Time: 0.1}, body(1))
	out := c.RunFrame(input.RawInput{Time: 0.2}, body(1))
	assert.False(t, out.VisualChange)

	// Same geometry, different texture: the host must not skip it.
	out = c.RunFrame(input.RawInput{Time: 0.3}, body(2))
	assert.True(t, out.VisualChange)
}

func TestCheckboxTogglesBoundValue(t *testing.T) {
	c := testCtx(Options{})
	v := false
	frame := func(time float64, events ...input.Event) {
		ui := c.BeginFrame(input.RawInput{Time: time, Events: events})
		ui.Checkbox("Enable", &v)
		c.EndFrame()
	}
	pos := gmath.V2(10, 10)
	frame(0.1)
	frame(0.2, pressAt(pos))
	frame(0.3, releaseAt(pos))
	assert.True(t, v)
	frame(0.4, pressAt(pos))
	frame(0.5, releaseAt(pos))
	assert.False(t, v)
}

func TestCollapsingHeaderRemembersAcrossFrames(t *testing.T) {
	c := testCtx(Options{})
	var bodyRan bool
	frame := func(time float64, events ...input.Event) {
		bodyRan = false
		ui := c.BeginFrame(input.RawInput{Time: time, Events: events})
		ui.CollapsingHeader("Details", func(*Ui) { bodyRan = true })
		c.EndFrame()
	}
	pos := gmath.V2(20, 12)
	frame(0.1)
	assert.True(t, bodyRan, "open by default")

	frame(0.2, pressAt(pos))
	frame(0.3, releaseAt(pos))
	assert.False(t, bodyRan, "click collapses")
	frame(0.4)
	assert.False(t, bodyRan, "stays collapsed with no input: state persisted")
}

func TestTextEditTyping(t *testing.T) {
	c := testCtx(Options{})
	text := ""
	frame := func(time float64, events ...input.Event) {
		ui := c.BeginFrame(input.RawInput{Time: time, Events: events})
		ui.TextEdit("name", &text)
		c.EndFrame()
	}
	pos := gmath.V2(20, 12)
	frame(0.1)
	frame(0.2, pressAt(pos))
	frame(0.3, releaseAt(pos))

	frame(0.4, input.EventText{Text: "hi"})
	assert.Equal(t, "hi", text)

	frame(0.5, input.EventKey{Key: input.KeyBackspace, Down: true})
	assert.Equal(t, "h", text)

	// Move home, type before the existing rune.
	frame(0.6, input.EventKey{Key: input.KeyHome, Down: true})
	frame(0.7, input.EventText{Text: "a"})
	assert.Equal(t, "ah", text)
}

func TestTextEditIgnoresInputWithoutFocus(t *testing.T) {
	c := testCtx(Options{})
	text := ""
	ui := c.BeginFrame(input.RawInput{Time: 0.1, Events: []input.Event{input.EventText{Text: "x"}}})
	ui.TextEdit("name", &text)
	c.EndFrame()
	assert.Equal(t, "", text)
}

func TestTabMovesFocusInFrameOrder(t *testing.T) {
	c := testCtx(Options{})
	var first, second Id
	frame := func(time float64, events ...input.Event) {
		ui := c.BeginFrame(input.RawInput{Time: time, Events: events})
		first = ui.Id().WithString("First")
		second = ui.Id().WithString("Second")
		ui.Button("First")
		ui.Button("Second")
		c.EndFrame()
	}
	frame(0.1, input.EventKey{Key: input.KeyTab, Down: true})
	assert.True(t, c.Memory().HasFocus(first))
	frame(0.2, input.EventKey{Key: input.KeyTab, Down: true})
	assert.True(t, c.Memory().HasFocus(second))
}

func TestScrollAreaClampsAndScrolls(t *testing.T) {
	c := testCtx(Options{})
	frame := func(time float64, events ...input.Event) {
		ui := c.BeginFrame(input.RawInput{Time: time, Events: events})
		ui.ScrollArea("list", 100, func(list *Ui) {
			for i := 0; i < 50; i++ {
				list.ScopeId(i, func(row *Ui) { row.AllocateSpace(gmath.V2(100, 20)) })
			}
		})
		c.EndFrame()
	}
	id := RootId.WithString("list")

	frame(0.1) // measures content
	st := c.Memory().GetOrCreate(id)
	assert.Greater(t, st.Size.Y, float32(900), "content height cached for next frame")

	// Wheel over the viewport scrolls; offset clamps at the ends.
	frame(0.2, input.EventPointerMove{Pos: gmath.V2(50, 50)}, input.EventScroll{Delta: gmath.V2(0, -40)})
	assert.Equal(t, float32(40), c.Memory().GetOrCreate(id).ScrollOffset.Y)

	frame(0.3, input.EventScroll{Delta: gmath.V2(0, 1e6)})
	assert.Equal(t, float32(0), c.Memory().GetOrCreate(id).ScrollOffset.Y, "clamped at top")
}

func TestMemoryEvictionThroughContext(t *testing.T) {
	c := testCtx(Options{RetentionFrames: 2})
	show := true
	frame := func(time float64) {
		ui := c.BeginFrame(input.RawInput{Time: time})
		if show {
			ui.CollapsingHeader("Gone", func(*Ui) {})
		}
		c.EndFrame()
	}
	id := RootId.WithString("Gone")
	frame(0.1)
	assert.True(t, c.Memory().Contains(id))

	show = false
	for i := 0; i < 4; i++ {
		frame(0.2 + float64(i)/10)
	}
	assert.False(t, c.Memory().Contains(id), "evicted after the retention window")
}

func TestFocusExclusiveThroughWidgets(t *testing.T) {
	c := testCtx(Options{})
	text1, text2 := "", ""
	var id1, id2 Id
	frame := func(time float64, events ...input.Event) {
		ui := c.BeginFrame(input.RawInput{Time: time, Events: events})
		id1 = ui.Id().WithString("a")
		id2 = ui.Id().WithString("b")
		ui.TextEdit("a", &text1)
		ui.TextEdit("b", &text2)
		c.EndFrame()
	}
	frame(0.1)
	// Click the first edit, then the second: focus moves, never both.
	frame(0.2, pressAt(gmath.V2(20, 12)))
	assert.True(t, c.Memory().HasFocus(id1))

	frame(0.3, releaseAt(gmath.V2(20, 12)))
	frame(0.4, pressAt(gmath.V2(20, 40)))
	assert.True(t, c.Memory().HasFocus(id2))
	assert.False(t, c.Memory().HasFocus(id1))
}

func TestTextEditCommitsOnDefocus(t *testing.T) {
	c := testCtx(Options{})
	text1, text2 := "", ""
	committed := ""
	frame := func(time float64, events ...input.Event) {
		ui := c.BeginFrame(input.RawInput{Time: time, Events: events})
		resp := ui.TextEdit("a", &text1)
		if c.Memory().LostFocus(resp.Id) {
			committed = text1
		}
		ui.TextEdit("b", &text2)
		c.EndFrame()
	}
	frame(0.1)
	frame(0.2, pressAt(gmath.V2(20, 12)))
	frame(0.3, releaseAt(gmath.V2(20, 12)), input.EventText{Text: "hi"})
	assert.Equal(t, "hi", text1)
	assert.Empty(t, committed)

	// Clicking the second edit defocuses the first; the commit check
	// right after its own call observes the loss.
	frame(0.4, pressAt(gmath.V2(20, 40)))
	assert.Equal(t, "hi", committed)

	// The signal does not linger past the following frame.
	committed = ""
	frame(0.5, releaseAt(gmath.V2(20, 40)))
	committed = ""
	frame(0.6)
	assert.Empty(t, committed)
}
