package input

import "github.com/hubastard/canopy/gmath"

// KeyPress is one key-down occurrence this frame. Repeats from the OS
// arrive as separate presses with Repeat set.
type KeyPress struct {
	Key    Key
	Repeat bool
	Mods   Modifiers
}

// State is the per-frame semantic view of the input. Build the first
// one with NewState, then derive each frame's state from the previous
// with Next. Values are immutable once built; widget code only reads.
type State struct {
	opts Options

	// Events is this frame's coalesced event list, kept for widgets
	// that consume events in order (text editing).
	Events []Event

	time           float64
	screenRect     gmath.Rect
	pixelsPerPoint float32

	Pointer Pointer

	scroll gmath.Vec2
	mods   Modifiers

	keysDown     [numKeys]bool
	keysPressed  []KeyPress
	keysReleased []Key
	text         string
}

// Pointer tracks the pointing device across the frame.
type Pointer struct {
	pos    gmath.Vec2
	hasPos bool
	delta  gmath.Vec2

	down          [NumPointerButtons]bool
	pressed       [NumPointerButtons]bool
	released      [NumPointerButtons]bool
	clicked       [NumPointerButtons]bool
	doubleClicked [NumPointerButtons]bool

	pressOrigin [NumPointerButtons]gmath.Vec2
	pressTime   [NumPointerButtons]float64
	dragStarted [NumPointerButtons]bool

	lastClickTime [NumPointerButtons]float64
	lastClickPos  [NumPointerButtons]gmath.Vec2
}

// NewState returns the state before any input arrived.
func NewState(opts Options) State {
	return State{
		opts:           opts.Defaults(),
		pixelsPerPoint: 1,
		screenRect:     gmath.RectMinSize(gmath.Vec2{}, gmath.V2(800, 600)),
	}
}

// Next folds one frame of raw events into a new state. The previous
// state supplies everything that persists across frames (pointer
// position, held buttons and keys, click chaining).
func (s State) Next(raw RawInput) State {
	n := State{
		opts:           s.opts,
		time:           raw.Time,
		screenRect:     s.screenRect,
		pixelsPerPoint: s.pixelsPerPoint,
		Pointer:        s.Pointer,
		mods:           s.mods,
		keysDown:       s.keysDown,
	}
	if n.time <= s.time {
		// Host did not supply a clock; advance by a nominal frame.
		n.time = s.time + 1.0/60.0
	}
	if raw.ScreenSize.X > 0 && raw.ScreenSize.Y > 0 {
		n.screenRect = gmath.RectMinSize(gmath.Vec2{}, raw.ScreenSize)
	}
	if raw.PixelsPerPoint > 0 {
		n.pixelsPerPoint = raw.PixelsPerPoint
	}

	// Per-frame pointer flags reset; held state carried over.
	p := &n.Pointer
	p.delta = gmath.Vec2{}
	for b := range p.pressed {
		p.pressed[b] = false
		p.released[b] = false
		p.clicked[b] = false
		p.doubleClicked[b] = false
	}

	n.Events = coalesceMoves(raw.Events)
	for _, ev := range n.Events {
		switch e := ev.(type) {
		case EventPointerMove:
			if p.hasPos {
				p.delta = p.delta.Add(e.Pos.Sub(p.pos))
			}
			p.pos = e.Pos
			p.hasPos = true
			p.updateDragThreshold(s.opts)
		case EventPointerGone:
			p.hasPos = false
		case EventPointerButton:
			n.mods = e.Mods
			if e.Button < 0 || e.Button >= NumPointerButtons {
				break
			}
			p.pos = e.Pos
			p.hasPos = true
			if e.Down {
				p.press(e.Button, e.Pos, n.time)
			} else {
				p.release(e.Button, e.Pos, n.time, s.opts)
			}
		case EventScroll:
			n.scroll = n.scroll.Add(e.Delta)
		case EventKey:
			n.mods = e.Mods
			if e.Key <= KeyUnknown || e.Key >= numKeys {
				break
			}
			if e.Down {
				n.keysDown[e.Key] = true
				n.keysPressed = append(n.keysPressed, KeyPress{e.Key, e.Repeat, e.Mods})
			} else {
				n.keysDown[e.Key] = false
				n.keysReleased = append(n.keysReleased, e.Key)
			}
		case EventText:
			n.text += e.Text
		}
	}
	p.updateDragThreshold(s.opts)
	return n
}

// coalesceMoves drops every pointer move in a consecutive run except
// the last one. Hosts can deliver hundreds of moves per frame; only
// the final position matters to widgets, and the accumulated delta is
// preserved because it is derived from positions.
func coalesceMoves(events []Event) []Event {
	out := make([]Event, 0, len(events))
	for _, ev := range events {
		if _, isMove := ev.(EventPointerMove); isMove && len(out) > 0 {
			if _, prevMove := out[len(out)-1].(EventPointerMove); prevMove {
				out[len(out)-1] = ev
				continue
			}
		}
		out = append(out, ev)
	}
	return out
}

func (p *Pointer) press(b PointerButton, pos gmath.Vec2, t float64) {
	p.down[b] = true
	p.pressed[b] = true
	p.pressOrigin[b] = pos
	p.pressTime[b] = t
	p.dragStarted[b] = false
}

func (p *Pointer) release(b PointerButton, pos gmath.Vec2, t float64, o Options) {
	if !p.down[b] {
		return
	}
	p.down[b] = false
	p.released[b] = true

	held := t - p.pressTime[b]
	dist := pos.Sub(p.pressOrigin[b]).Length()
	if p.dragStarted[b] || held > o.MaxClickDuration || dist > o.MaxClickDist {
		return
	}
	p.clicked[b] = true
	if t-p.lastClickTime[b] <= o.DoubleClickDelay &&
		pos.Sub(p.lastClickPos[b]).Length() <= o.MaxClickDist {
		p.doubleClicked[b] = true
		// Reset the chain so a triple press does not double twice.
		p.lastClickTime[b] = 0
	} else {
		p.lastClickTime[b] = t
		p.lastClickPos[b] = pos
	}
}

func (p *Pointer) updateDragThreshold(o Options) {
	for b := range p.down {
		if p.down[b] && !p.dragStarted[b] {
			if p.pos.Sub(p.pressOrigin[b]).Length() > o.DragThreshold {
				p.dragStarted[b] = true
			}
		}
	}
}

// --- queries ---

func (s *State) Time() float64           { return s.time }
func (s *State) ScreenRect() gmath.Rect  { return s.screenRect }
func (s *State) PixelsPerPoint() float32 { return s.pixelsPerPoint }
func (s *State) Modifiers() Modifiers    { return s.mods }
func (s *State) ScrollDelta() gmath.Vec2 { return s.scroll }

// PointerPos returns the latest pointer position, if the pointer is
// over the window at all.
func (s *State) PointerPos() (gmath.Vec2, bool) {
	return s.Pointer.pos, s.Pointer.hasPos
}

func (s *State) PointerDelta() gmath.Vec2 { return s.Pointer.delta }

func (s *State) PointerDown(b PointerButton) bool     { return s.Pointer.down[b] }
func (s *State) PointerPressed(b PointerButton) bool  { return s.Pointer.pressed[b] }
func (s *State) PointerReleased(b PointerButton) bool { return s.Pointer.released[b] }

// Clicked reports a press+release pair that stayed within the click
// distance and duration limits. A double click reports both Clicked
// and DoubleClicked on its frame.
func (s *State) Clicked(b PointerButton) bool       { return s.Pointer.clicked[b] }
func (s *State) DoubleClicked(b PointerButton) bool { return s.Pointer.doubleClicked[b] }

// Dragging reports that b is held and the pointer has moved past the
// drag threshold since the press. Before the threshold the press is
// still a click candidate.
func (s *State) Dragging(b PointerButton) bool {
	return s.Pointer.down[b] && s.Pointer.dragStarted[b]
}

// PressOrigin returns where b was pressed, valid while b is down or
// released this frame.
func (s *State) PressOrigin(b PointerButton) (gmath.Vec2, bool) {
	if s.Pointer.down[b] || s.Pointer.released[b] {
		return s.Pointer.pressOrigin[b], true
	}
	return gmath.Vec2{}, false
}

func (s *State) AnyPointerDown() bool {
	for _, d := range s.Pointer.down {
		if d {
			return true
		}
	}
	return false
}

func (s *State) KeyDown(k Key) bool { return k > KeyUnknown && k < numKeys && s.keysDown[k] }

// KeyPressed reports any press of k this frame, key repeats included.
func (s *State) KeyPressed(k Key) bool {
	for _, kp := range s.keysPressed {
		if kp.Key == k {
			return true
		}
	}
	return false
}

// KeyPresses returns this frame's presses in order, repeats included.
func (s *State) KeyPresses() []KeyPress { return s.keysPressed }

func (s *State) KeyReleased(k Key) bool {
	for _, r := range s.keysReleased {
		if r == k {
			return true
		}
	}
	return false
}

// TextTyped is the concatenation of this frame's text events.
func (s *State) TextTyped() string { return s.text }
