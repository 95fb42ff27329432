package gui

import "github.com/hubastard/canopy/gmath"

// State is the per-widget interaction state that must survive across
// frames: everything an immediate-mode widget cannot re-derive from
// its arguments. Created lazily on first access, evicted when its Id
// goes untouched for the retention window.
type State struct {
	// Collapsed is the open/closed flag of collapsible regions.
	Collapsed bool

	// ScrollOffset is the scroll position of a scrollable region, in
	// points, positive scrolling content up/left.
	ScrollOffset gmath.Vec2

	// DragOrigin is where the active drag started, valid while this
	// Id is the active widget.
	DragOrigin gmath.Vec2

	// TextCursor is the rune index of the caret in an editable text.
	TextCursor int

	// Size is the widget's realized size last frame. A layout cache:
	// containers that cannot know their content size up front read
	// last frame's answer instead of a second layout pass.
	Size gmath.Vec2

	lastTouched uint64
}

// Memory is the Id-keyed arena of States plus the frame-global
// interaction owners (keyboard focus, active drag). It is the only
// thing the Context keeps between frames besides input chaining; the
// widget tree itself is rebuilt from scratch every frame.
type Memory struct {
	states map[Id]*State
	frame  uint64

	// retention is how many frames an untouched entry survives.
	retention uint64

	focus     Id
	hasFocus  bool
	lostFocus Id
	// lostFocusPrev carries last frame's loss: widgets running before
	// the transfer happened still see it on their next pass.
	lostFocusPrev Id

	active    Id
	hasActive bool

	// focusOrder is the order widgets registered focus-eligibility
	// this frame; Tab traversal follows it because frame content may
	// reorder between frames.
	focusOrder  []Id
	focusNext   bool
	focusToLast bool
}

// NewMemory creates an empty store evicting entries untouched for
// retentionFrames (minimum 1).
func NewMemory(retentionFrames int) *Memory {
	if retentionFrames < 1 {
		retentionFrames = 1
	}
	return &Memory{
		states:    make(map[Id]*State),
		retention: uint64(retentionFrames),
	}
}

// GetOrCreate returns the state for id, creating a zero-valued entry
// on first access, and marks it touched this frame. Never fails.
func (m *Memory) GetOrCreate(id Id) *State {
	s, ok := m.states[id]
	if !ok {
		s = &State{}
		m.states[id] = s
	}
	s.lastTouched = m.frame
	return s
}

// Contains reports whether id currently has an entry, without
// touching it.
func (m *Memory) Contains(id Id) bool {
	_, ok := m.states[id]
	return ok
}

func (m *Memory) Len() int { return len(m.states) }

// --- keyboard focus: at most one holder ---

// RequestFocus transfers keyboard focus to id, clearing the previous
// holder.
func (m *Memory) RequestFocus(id Id) {
	if m.hasFocus && m.focus != id {
		m.lostFocus = m.focus
	}
	m.focus = id
	m.hasFocus = true
}

// SurrenderFocus drops focus if id holds it.
func (m *Memory) SurrenderFocus(id Id) {
	if m.hasFocus && m.focus == id {
		m.hasFocus = false
		m.lostFocus = id
	}
}

func (m *Memory) HasFocus(id Id) bool { return m.hasFocus && m.focus == id }

// LostFocus reports that id held focus and lost it, either earlier
// this frame or during the previous one: a widget may lose focus
// before or after its own call runs, so the signal spans both. Commit
// a text edit on it.
func (m *Memory) LostFocus(id Id) bool { return m.lostFocus == id || m.lostFocusPrev == id }

// FocusedId returns the current holder, if any.
func (m *Memory) FocusedId() (Id, bool) { return m.focus, m.hasFocus }

// RegisterFocusable records id as focus-eligible this frame, in call
// order, for Tab traversal.
func (m *Memory) RegisterFocusable(id Id) {
	m.focusOrder = append(m.focusOrder, id)
}

// AdvanceFocus asks for focus to move to the next (or previous)
// focus-eligible widget at end-of-frame, once the full frame order is
// known.
func (m *Memory) AdvanceFocus(backwards bool) {
	m.focusNext = true
	m.focusToLast = backwards
}

func (m *Memory) applyFocusAdvance() {
	if !m.focusNext {
		return
	}
	m.focusNext = false
	if len(m.focusOrder) == 0 {
		return
	}
	step := 1
	if m.focusToLast {
		step = -1
	}
	n := len(m.focusOrder)
	next := m.focusOrder[0]
	if m.focusToLast {
		next = m.focusOrder[n-1]
	}
	if m.hasFocus {
		for i, id := range m.focusOrder {
			if id == m.focus {
				next = m.focusOrder[((i+step)%n+n)%n]
				break
			}
		}
	}
	m.RequestFocus(next)
}

// --- active widget (drag owner): at most one ---

// SetActive makes id the drag owner.
func (m *Memory) SetActive(id Id) {
	m.active = id
	m.hasActive = true
}

func (m *Memory) IsActive(id Id) bool { return m.hasActive && m.active == id }

// ClearActive releases the drag owner (on pointer release).
func (m *Memory) ClearActive() { m.hasActive = false }

// AnyActive reports whether some widget owns the pointer.
func (m *Memory) AnyActive() bool { return m.hasActive }

// --- frame lifecycle ---

func (m *Memory) beginFrame() {
	m.frame++
	m.lostFocusPrev = m.lostFocus
	m.lostFocus = 0
	m.focusOrder = m.focusOrder[:0]
}

// endFrame applies deferred focus traversal and evicts entries whose
// last touch is older than the retention window, bounding growth for
// UIs whose content shrinks (lists, tabs).
func (m *Memory) endFrame() {
	m.applyFocusAdvance()
	for id, s := range m.states {
		if m.frame-s.lastTouched > m.retention {
			delete(m.states, id)
		}
	}
}

// Reset drops everything: states, focus, the active widget. The frame
// counter keeps running so eviction bookkeeping stays monotonic.
func (m *Memory) Reset() {
	m.states = make(map[Id]*State)
	m.hasFocus = false
	m.lostFocus = 0
	m.lostFocusPrev = 0
	m.hasActive = false
	m.focusOrder = m.focusOrder[:0]
	m.focusNext = false
}
