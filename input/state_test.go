package input

import (
	"testing"

	"github.com/hubastard/canopy/gmath"
	"github.com/stretchr/testify/assert"
)

func press(pos gmath.Vec2) Event {
	return EventPointerButton{Pos: pos, Button: ButtonPrimary, Down: true}
}

func release(pos gmath.Vec2) Event {
	return EventPointerButton{Pos: pos, Button: ButtonPrimary, Down: false}
}

func TestClickWithinThresholds(t *testing.T) {
	s := NewState(Options{})
	s = s.Next(RawInput{Time: 0.1, Events: []Event{press(gmath.V2(10, 10))}})
	assert.True(t, s.PointerPressed(ButtonPrimary))
	assert.False(t, s.Clicked(ButtonPrimary))

	s = s.Next(RawInput{Time: 0.2, Events: []Event{
		EventPointerMove{Pos: gmath.V2(12, 10)},
		release(gmath.V2(12, 10)),
	}})
	assert.True(t, s.Clicked(ButtonPrimary))
	assert.False(t, s.DoubleClicked(ButtonPrimary))

	// Nothing new next frame: click is a one-frame signal.
	s = s.Next(RawInput{Time: 0.3})
	assert.False(t, s.Clicked(ButtonPrimary))
}

func TestHeldTooLongIsNotAClick(t *testing.T) {
	s := NewState(Options{})
	s = s.Next(RawInput{Time: 0.1, Events: []Event{press(gmath.V2(10, 10))}})
	s = s.Next(RawInput{Time: 2.0, Events: []Event{release(gmath.V2(10, 10))}})
	assert.True(t, s.PointerReleased(ButtonPrimary))
	assert.False(t, s.Clicked(ButtonPrimary))
}

func TestDragThreshold(t *testing.T) {
	s := NewState(Options{})
	s = s.Next(RawInput{Time: 0.1, Events: []Event{press(gmath.V2(10, 10))}})
	assert.False(t, s.Dragging(ButtonPrimary))

	// Small movement: still a click candidate.
	s = s.Next(RawInput{Time: 0.15, Events: []Event{EventPointerMove{Pos: gmath.V2(13, 10)}}})
	assert.False(t, s.Dragging(ButtonPrimary))

	// Cross the threshold: now a drag, never again a click.
	s = s.Next(RawInput{Time: 0.2, Events: []Event{EventPointerMove{Pos: gmath.V2(30, 10)}}})
	assert.True(t, s.Dragging(ButtonPrimary))

	s = s.Next(RawInput{Time: 0.25, Events: []Event{release(gmath.V2(30, 10))}})
	assert.False(t, s.Clicked(ButtonPrimary))
	assert.False(t, s.Dragging(ButtonPrimary))
}

func TestDoubleClick(t *testing.T) {
	s := NewState(Options{})
	s = s.Next(RawInput{Time: 0.1, Events: []Event{press(gmath.V2(5, 5)), release(gmath.V2(5, 5))}})
	assert.True(t, s.Clicked(ButtonPrimary))
	assert.False(t, s.DoubleClicked(ButtonPrimary))

	s = s.Next(RawInput{Time: 0.25, Events: []Event{press(gmath.V2(6, 5)), release(gmath.V2(6, 5))}})
	assert.True(t, s.Clicked(ButtonPrimary))
	assert.True(t, s.DoubleClicked(ButtonPrimary))
}

func TestDoubleClickTooSlow(t *testing.T) {
	s := NewState(Options{})
	s = s.Next(RawInput{Time: 0.1, Events: []Event{press(gmath.V2(5, 5)), release(gmath.V2(5, 5))}})
	s = s.Next(RawInput{Time: 1.5, Events: []Event{press(gmath.V2(5, 5)), release(gmath.V2(5, 5))}})
	assert.True(t, s.Clicked(ButtonPrimary))
	assert.False(t, s.DoubleClicked(ButtonPrimary))
}

func TestMoveCoalescing(t *testing.T) {
	s := NewState(Options{})
	s = s.Next(RawInput{Time: 0.1, Events: []Event{EventPointerMove{Pos: gmath.V2(0, 0)}}})

	s = s.Next(RawInput{Time: 0.2, Events: []Event{
		EventPointerMove{Pos: gmath.V2(1, 0)},
		EventPointerMove{Pos: gmath.V2(2, 0)},
		EventPointerMove{Pos: gmath.V2(5, 0)},
	}})
	assert.Len(t, s.Events, 1)
	pos, ok := s.PointerPos()
	assert.True(t, ok)
	assert.Equal(t, gmath.V2(5, 0), pos)
	assert.Equal(t, gmath.V2(5, 0), s.PointerDelta())
}

func TestMoveCoalescingKeepsOrderAroundButtons(t *testing.T) {
	s := NewState(Options{})
	s = s.Next(RawInput{Time: 0.1, Events: []Event{
		EventPointerMove{Pos: gmath.V2(1, 0)},
		EventPointerMove{Pos: gmath.V2(2, 0)},
		press(gmath.V2(2, 0)),
		EventPointerMove{Pos: gmath.V2(3, 0)},
	}})
	// Two runs of moves separated by the press: 3 events survive.
	assert.Len(t, s.Events, 3)
}

func TestKeyRepeatsPassThrough(t *testing.T) {
	s := NewState(Options{})
	s = s.Next(RawInput{Time: 0.1, Events: []Event{
		EventKey{Key: KeyArrowLeft, Down: true},
		EventKey{Key: KeyArrowLeft, Down: true, Repeat: true},
		EventKey{Key: KeyArrowLeft, Down: true, Repeat: true},
	}})
	assert.True(t, s.KeyDown(KeyArrowLeft))
	assert.Len(t, s.KeyPresses(), 3)
	assert.False(t, s.KeyPresses()[0].Repeat)
	assert.True(t, s.KeyPresses()[2].Repeat)
}

func TestTextAccumulates(t *testing.T) {
	s := NewState(Options{})
	s = s.Next(RawInput{Time: 0.1, Events: []Event{
		EventText{Text: "he"},
		EventText{Text: "llo"},
	}})
	assert.Equal(t, "hello", s.TextTyped())
}

func TestScreenAndScale(t *testing.T) {
	s := NewState(Options{})
	s = s.Next(RawInput{Time: 0.1, ScreenSize: gmath.V2(640, 480), PixelsPerPoint: 2})
	assert.Equal(t, gmath.RectMinSize(gmath.V2(0, 0), gmath.V2(640, 480)), s.ScreenRect())
	assert.Equal(t, float32(2), s.PixelsPerPoint())

	// Omitted values persist.
	s = s.Next(RawInput{Time: 0.2})
	assert.Equal(t, float32(2), s.PixelsPerPoint())
	assert.Equal(t, float32(640), s.ScreenRect().Width())
}
