// Package platform hosts the GUI inside a GLFW window: it owns the
// OS window and GL context, translates native events into input
// events, and applies the frame's platform output (cursor icon,
// clipboard).
package platform

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/hubastard/canopy/gmath"
	"github.com/hubastard/canopy/gui"
	"github.com/hubastard/canopy/input"
)

// Config describes the window to open.
type Config struct {
	Title  string
	Width  int // logical points
	Height int
	VSync  bool
}

// Window wraps a GLFW window and buffers its events between frames.
type Window struct {
	w      *glfw.Window
	events []input.Event

	cursors     map[gui.CursorIcon]*glfw.Cursor
	lastCursor  gui.CursorIcon
	repaintHint bool
}

// New opens the window and makes its GL context current. Must be
// called on the main goroutine, before any GL call.
func New(cfg Config) (*Window, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("init glfw: %w", err)
	}

	// GL 3.3 core profile (Mac requires forward-compatible flag).
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Samples, 0)

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	win.MakeContextCurrent()
	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	pw := &Window{
		w: win,
		cursors: map[gui.CursorIcon]*glfw.Cursor{
			gui.CursorPointingHand:     glfw.CreateStandardCursor(glfw.HandCursor),
			gui.CursorText:             glfw.CreateStandardCursor(glfw.IBeamCursor),
			gui.CursorResizeHorizontal: glfw.CreateStandardCursor(glfw.HResizeCursor),
			gui.CursorResizeVertical:   glfw.CreateStandardCursor(glfw.VResizeCursor),
		},
	}

	// Callbacks push translated events into the frame buffer.
	win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		pw.push(input.EventPointerMove{Pos: gmath.V2(float32(x), float32(y))})
	})
	win.SetCursorEnterCallback(func(_ *glfw.Window, entered bool) {
		if !entered {
			pw.push(input.EventPointerGone{})
		}
	})
	win.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		b, ok := translateButton(button)
		if !ok {
			return
		}
		x, y := w.GetCursorPos()
		pw.push(input.EventPointerButton{
			Pos:    gmath.V2(float32(x), float32(y)),
			Button: b,
			Down:   action == glfw.Press,
			Mods:   translateMods(mods),
		})
	})
	win.SetScrollCallback(func(_ *glfw.Window, xoff, yoff float64) {
		// One wheel notch scrolls a couple of text lines.
		const pointsPerTick = 32
		pw.push(input.EventScroll{Delta: gmath.V2(float32(xoff)*pointsPerTick, float32(yoff)*pointsPerTick)})
	})
	win.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		m := translateMods(mods)
		if action != glfw.Release && m.Ctrl() {
			// Clipboard chords become semantic events; the GUI core
			// never sees the raw key.
			switch key {
			case glfw.KeyC:
				pw.push(input.EventCopy{})
				return
			case glfw.KeyX:
				pw.push(input.EventCut{})
				return
			case glfw.KeyV:
				pw.push(input.EventPaste{Text: w.GetClipboardString()})
				return
			}
		}
		k := translateKey(key)
		if k == input.KeyUnknown {
			return
		}
		pw.push(input.EventKey{
			Key:    k,
			Down:   action != glfw.Release,
			Repeat: action == glfw.Repeat,
			Mods:   m,
		})
	})
	win.SetCharCallback(func(_ *glfw.Window, r rune) {
		pw.push(input.EventText{Text: string(r)})
	})

	return pw, nil
}

func (pw *Window) push(ev input.Event) { pw.events = append(pw.events, ev) }

// PollInput pumps the OS event queue and returns everything that
// arrived since the previous call, packaged for one GUI frame.
func (pw *Window) PollInput() input.RawInput {
	pw.events = pw.events[:0]
	if pw.repaintHint {
		pw.repaintHint = false
		glfw.PollEvents()
	} else {
		glfw.WaitEventsTimeout(1.0 / 30)
	}

	winW, winH := pw.w.GetSize()
	fbW, _ := pw.w.GetFramebufferSize()
	ppp := float32(1)
	if winW > 0 {
		ppp = float32(fbW) / float32(winW)
	}
	return input.RawInput{
		Events:         pw.events,
		ScreenSize:     gmath.V2(float32(winW), float32(winH)),
		PixelsPerPoint: ppp,
		Time:           glfw.GetTime(),
	}
}

// ApplyOutput performs the frame's platform side effects.
func (pw *Window) ApplyOutput(out gui.PlatformOutput) {
	if out.CursorIcon != pw.lastCursor {
		if c := pw.cursors[out.CursorIcon]; c != nil {
			pw.w.SetCursor(c)
		} else {
			pw.w.SetCursor(nil)
		}
		pw.lastCursor = out.CursorIcon
	}
	if out.CopiedText != "" {
		pw.w.SetClipboardString(out.CopiedText)
	}
	if out.NeedsRepaint {
		pw.repaintHint = true
	}
}

func (pw *Window) ShouldClose() bool           { return pw.w.ShouldClose() }
func (pw *Window) SwapBuffers()                { pw.w.SwapBuffers() }
func (pw *Window) SetTitle(t string)           { pw.w.SetTitle(t) }
func (pw *Window) FramebufferSize() (int, int) { return pw.w.GetFramebufferSize() }

// Destroy tears the window and the GLFW state down.
func (pw *Window) Destroy() {
	pw.w.Destroy()
	glfw.Terminate()
}

func translateButton(b glfw.MouseButton) (input.PointerButton, bool) {
	switch b {
	case glfw.MouseButtonLeft:
		return input.ButtonPrimary, true
	case glfw.MouseButtonRight:
		return input.ButtonSecondary, true
	case glfw.MouseButtonMiddle:
		return input.ButtonMiddle, true
	}
	return 0, false
}

func translateMods(m glfw.ModifierKey) input.Modifiers {
	var out input.Modifiers
	if m&glfw.ModShift != 0 {
		out |= input.ModShift
	}
	if m&glfw.ModControl != 0 {
		out |= input.ModCtrl
	}
	if m&glfw.ModAlt != 0 {
		out |= input.ModAlt
	}
	if m&glfw.ModSuper != 0 {
		out |= input.ModSuper
	}
	return out
}

func translateKey(k glfw.Key) input.Key {
	switch {
	case k >= glfw.KeyA && k <= glfw.KeyZ:
		return input.KeyA + input.Key(k-glfw.KeyA)
	case k >= glfw.Key0 && k <= glfw.Key9:
		return input.KeyNum0 + input.Key(k-glfw.Key0)
	}
	switch k {
	case glfw.KeyEscape:
		return input.KeyEscape
	case glfw.KeyTab:
		return input.KeyTab
	case glfw.KeyBackspace:
		return input.KeyBackspace
	case glfw.KeyEnter, glfw.KeyKPEnter:
		return input.KeyEnter
	case glfw.KeySpace:
		return input.KeySpace
	case glfw.KeyInsert:
		return input.KeyInsert
	case glfw.KeyDelete:
		return input.KeyDelete
	case glfw.KeyHome:
		return input.KeyHome
	case glfw.KeyEnd:
		return input.KeyEnd
	case glfw.KeyPageUp:
		return input.KeyPageUp
	case glfw.KeyPageDown:
		return input.KeyPageDown
	case glfw.KeyLeft:
		return input.KeyArrowLeft
	case glfw.KeyRight:
		return input.KeyArrowRight
	case glfw.KeyUp:
		return input.KeyArrowUp
	case glfw.KeyDown:
		return input.KeyArrowDown
	}
	return input.KeyUnknown
}
