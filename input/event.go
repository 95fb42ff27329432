// Package input normalizes a frame's raw pointer/keyboard events into
// semantic state the GUI core can query: pointer position and delta,
// press/release/click/double-click per button, drag-threshold
// detection, scroll, modifiers and text input.
package input

import "github.com/hubastard/canopy/gmath"

// Event is one raw host event. Hosts translate their native events
// (GLFW callbacks, ebiten polls, ...) into these before each frame.
type Event interface{ isEvent() }

// EventPointerMove reports the pointer at a new position, in logical
// points. Consecutive moves are coalesced during ingestion.
type EventPointerMove struct {
	Pos gmath.Vec2
}

// EventPointerGone reports the pointer leaving the window.
type EventPointerGone struct{}

// EventPointerButton reports a button transition at a position.
type EventPointerButton struct {
	Pos    gmath.Vec2
	Button PointerButton
	Down   bool
	Mods   Modifiers
}

// EventScroll reports wheel/trackpad scrolling in points.
type EventScroll struct {
	Delta gmath.Vec2
}

// EventKey reports a keyboard key transition. OS key repeats arrive
// as additional down events with Repeat set; they are passed through,
// not deduplicated.
type EventKey struct {
	Key    Key
	Down   bool
	Repeat bool
	Mods   Modifiers
}

// EventText reports committed text input (post-IME).
type EventText struct {
	Text string
}

// EventCopy, EventCut and EventPaste are the clipboard intents,
// already translated from the platform chord (ctrl/cmd+C, ...).
type EventCopy struct{}
type EventCut struct{}
type EventPaste struct {
	Text string
}

func (EventPointerMove) isEvent()   {}
func (EventPointerGone) isEvent()   {}
func (EventPointerButton) isEvent() {}
func (EventScroll) isEvent()        {}
func (EventKey) isEvent()           {}
func (EventText) isEvent()          {}
func (EventCopy) isEvent()          {}
func (EventCut) isEvent()           {}
func (EventPaste) isEvent()         {}

// PointerButton identifies a mouse/pointer button.
type PointerButton int

const (
	ButtonPrimary PointerButton = iota
	ButtonSecondary
	ButtonMiddle

	NumPointerButtons
)

// Key identifies a keyboard key the core cares about. Hosts map
// everything else to KeyUnknown and it is ignored.
type Key int

const (
	KeyUnknown Key = iota

	KeyEscape
	KeyTab
	KeyBackspace
	KeyEnter
	KeySpace
	KeyInsert
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown

	KeyArrowLeft
	KeyArrowRight
	KeyArrowUp
	KeyArrowDown

	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ

	KeyNum0
	KeyNum1
	KeyNum2
	KeyNum3
	KeyNum4
	KeyNum5
	KeyNum6
	KeyNum7
	KeyNum8
	KeyNum9

	numKeys
)

// Modifiers is a bitset of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModSuper
)

func (m Modifiers) Shift() bool { return m&ModShift != 0 }
func (m Modifiers) Ctrl() bool  { return m&ModCtrl != 0 }
func (m Modifiers) Alt() bool   { return m&ModAlt != 0 }
func (m Modifiers) Super() bool { return m&ModSuper != 0 }

// RawInput is everything a host hands the core for one frame.
type RawInput struct {
	// Events in the order they occurred since the previous frame.
	Events []Event

	// ScreenSize is the logical size of the drawable area in points.
	ScreenSize gmath.Vec2

	// PixelsPerPoint is the HiDPI scale factor. Zero means "keep the
	// previous value" (1 on the first frame).
	PixelsPerPoint float32

	// Time is the host clock in seconds. Used for click timing and
	// cursor blinking. Zero means "advance by a nominal frame".
	Time float64
}

// Options are the interaction policy constants. They are deliberately
// configurable; there is no canonical value across GUI toolkits.
type Options struct {
	// MaxClickDist is how far (points) the pointer may travel between
	// press and release and still count as a click.
	MaxClickDist float32

	// MaxClickDuration is how long (seconds) a button may be held and
	// still count as a click.
	MaxClickDuration float64

	// DoubleClickDelay is the maximum gap (seconds) between two clicks
	// for the second to report as a double click.
	DoubleClickDelay float64

	// DragThreshold is the travel (points) after which a press stops
	// being a click candidate and becomes a drag.
	DragThreshold float32
}

// Defaults fills zero fields with the stock policy.
func (o Options) Defaults() Options {
	if o.MaxClickDist <= 0 {
		o.MaxClickDist = 6
	}
	if o.MaxClickDuration <= 0 {
		o.MaxClickDuration = 0.6
	}
	if o.DoubleClickDelay <= 0 {
		o.DoubleClickDelay = 0.3
	}
	if o.DragThreshold <= 0 {
		o.DragThreshold = 6
	}
	return o
}
