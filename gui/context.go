package gui

import (
	"hash/fnv"
	"image"
	"log"
	"math"

	"github.com/hubastard/canopy/font"
	"github.com/hubastard/canopy/gmath"
	"github.com/hubastard/canopy/input"
	"github.com/hubastard/canopy/paint"
	"github.com/hubastard/canopy/tess"
)

// CursorIcon is a platform-effect request: which pointer cursor the
// host should show.
type CursorIcon int

const (
	CursorDefault CursorIcon = iota
	CursorPointingHand
	CursorText
	CursorResizeHorizontal
	CursorResizeVertical
	CursorMove
)

// PlatformOutput is the frame's side-effect requests for the host.
type PlatformOutput struct {
	CursorIcon CursorIcon

	// CopiedText, when non-empty, asks the host to place it on the
	// clipboard.
	CopiedText string

	// NeedsRepaint asks for another frame even without new input
	// (cursor blink, animations).
	NeedsRepaint bool

	// AtlasFull signals the glyph atlas hit its size limit; the host
	// may rebuild with a bigger limit or fewer fonts.
	AtlasFull bool
}

// TexturesDelta describes what changed in the atlas texture since the
// previous frame: upload Image's Rect sub-region.
type TexturesDelta struct {
	Rect  image.Rectangle
	Image *image.Alpha
}

// Output is everything one frame produces.
type Output struct {
	DrawCalls []tess.DrawCall
	Platform  PlatformOutput

	// TexturesDelta is nil when the atlas did not change.
	TexturesDelta *TexturesDelta

	// VisualChange is false when this frame's geometry is identical
	// to the previous frame's, letting a host skip the GPU submit.
	VisualChange bool
}

// Options configure a Context. Zero values mean defaults.
type Options struct {
	Input input.Options
	Tess  tess.Options

	// RetentionFrames is how many frames an untouched Memory entry
	// survives before eviction. Zero means 60.
	RetentionFrames int

	// AtlasSize/MaxAtlasSize bound the glyph atlas in pixels. Zero
	// means 256 growing to 4096.
	AtlasSize    int
	MaxAtlasSize int

	// DebugIds enables the same-frame duplicate-Id check; collisions
	// log once per frame instead of silently overwriting state.
	DebugIds bool
}

// Context runs one frame at a time: BeginFrame ingests input and
// resets the paint buffer, widget code runs against the returned root
// Ui, EndFrame sweeps memory, tessellates and hands back the Output.
// Exactly one frame may be in flight; a second BeginFrame before
// EndFrame panics. Contexts are fully independent of each other, but
// a single Context must not be shared between goroutines.
type Context struct {
	style Style
	mem   *Memory
	input input.State
	frame *paint.Frame
	atlas *font.Atlas
	font  *font.Font
	tess  *tess.Tessellator

	inFrame  bool
	frameNum uint64

	debugIds bool
	seenIds  map[Id]int

	cursorIcon   CursorIcon
	copiedText   string
	needsRepaint bool

	lastHash uint64
}

// New creates an independent Context rendering text through rast.
func New(opts Options, rast font.Rasterizer) *Context {
	if opts.RetentionFrames <= 0 {
		opts.RetentionFrames = 60
	}
	if opts.AtlasSize <= 0 {
		opts.AtlasSize = 256
	}
	if opts.MaxAtlasSize <= 0 {
		opts.MaxAtlasSize = 4096
	}
	atlas := font.NewAtlas(opts.AtlasSize, opts.MaxAtlasSize)
	return &Context{
		style:    DefaultStyle(),
		mem:      NewMemory(opts.RetentionFrames),
		input:    input.NewState(opts.Input),
		frame:    paint.NewFrame(),
		atlas:    atlas,
		font:     font.NewFont(rast, atlas),
		tess:     tess.New(opts.Tess, atlas),
		debugIds: opts.DebugIds,
		seenIds:  make(map[Id]int),
	}
}

func (c *Context) Memory() *Memory        { return c.mem }
func (c *Context) Input() *input.State    { return &c.input }
func (c *Context) Font() *font.Font       { return c.font }
func (c *Context) Atlas() *font.Atlas     { return c.atlas }
func (c *Context) Style() Style           { return c.style }
func (c *Context) SetStyle(s Style)       { c.style = s }
func (c *Context) FrameCounter() uint64   { return c.frameNum }

// SetCursorIcon requests a pointer cursor for this frame; the last
// caller wins.
func (c *Context) SetCursorIcon(icon CursorIcon) { c.cursorIcon = icon }

// CopyText requests a clipboard copy in this frame's output.
func (c *Context) CopyText(text string) { c.copiedText = text }

// RequestRepaint asks the host for another frame even without input.
func (c *Context) RequestRepaint() { c.needsRepaint = true }

// BeginFrame starts a frame: folds raw into the input state, ages
// memory, resets the paint buffer and returns the root Ui covering
// the screen. Calling it again before EndFrame is the one programmer
// error that is allowed to be fatal.
func (c *Context) BeginFrame(raw input.RawInput) *Ui {
	if c.inFrame {
		panic("gui: BeginFrame called while a frame is already in flight")
	}
	c.inFrame = true
	c.frameNum++
	c.input = c.input.Next(raw)
	c.mem.beginFrame()
	c.frame.Reset()
	c.cursorIcon = CursorDefault
	c.copiedText = ""
	c.needsRepaint = false
	clear(c.seenIds)

	screen := c.input.ScreenRect()
	return &Ui{
		ctx:     c,
		id:      RootId,
		frame:   newLayoutFrame(TopDown, screen.Expand2(c.style.Padding.Neg()), c.style.ItemSpacing, false),
		painter: paint.NewPainter(c.frame, screen),
	}
}

// EndFrame finishes the frame: applies Tab focus traversal, sweeps
// memory, tessellates the recorded shapes and returns the output.
func (c *Context) EndFrame() Output {
	if !c.inFrame {
		panic("gui: EndFrame without BeginFrame")
	}
	c.inFrame = false

	for _, kp := range c.input.KeyPresses() {
		if kp.Key == input.KeyTab {
			c.mem.AdvanceFocus(kp.Mods.Shift())
		}
	}
	if !c.input.AnyPointerDown() {
		// The drag owner released outside any widget, or its widget
		// vanished this frame; never leave the pointer owned.
		c.mem.ClearActive()
	}
	c.mem.endFrame()

	calls := c.tess.Tessellate(c.frame.Sorted(), c.input.PixelsPerPoint())

	out := Output{
		DrawCalls: calls,
		Platform: PlatformOutput{
			CursorIcon:   c.cursorIcon,
			CopiedText:   c.copiedText,
			NeedsRepaint: c.needsRepaint,
			AtlasFull:    c.font.TakeAtlasFull(),
		},
	}
	if delta, ok := c.atlas.TakeDelta(); ok {
		out.TexturesDelta = &TexturesDelta{Rect: delta, Image: c.atlas.Image()}
	}
	h := hashCalls(calls)
	out.VisualChange = h != c.lastHash || out.TexturesDelta != nil
	c.lastHash = h
	return out
}

// RunFrame wraps one whole frame, recovering a panic inside body so a
// broken widget still yields a renderable (partial) frame: whatever
// was painted before the panic is tessellated and returned.
func (c *Context) RunFrame(raw input.RawInput, body func(*Ui)) Output {
	ui := c.BeginFrame(raw)
	func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("gui: recovered panic during frame %d: %v", c.frameNum, r)
			}
		}()
		body(ui)
	}()
	return c.EndFrame()
}

// noteWidgetId tracks the Ids seen this frame. A duplicate means two
// widgets share persistent state: last write wins on transient flags,
// which is a styling-level bug, not a crash. Logged in debug mode.
func (c *Context) noteWidgetId(id Id) {
	if !c.debugIds {
		return
	}
	c.seenIds[id]++
	if c.seenIds[id] == 2 {
		log.Printf("gui: duplicate widget %v in frame %d (fold an index via ScopeId?)", id, c.frameNum)
	}
}

// DuplicateIds reports how many Ids collided this frame so far; zero
// outside debug mode.
func (c *Context) DuplicateIds() int {
	var n int
	for _, count := range c.seenIds {
		if count > 1 {
			n++
		}
	}
	return n
}

func hashCalls(calls []tess.DrawCall) uint64 {
	h := fnv.New64a()
	var buf [4]byte
	put := func(f float32) {
		bits := math.Float32bits(f)
		buf[0] = byte(bits)
		buf[1] = byte(bits >> 8)
		buf[2] = byte(bits >> 16)
		buf[3] = byte(bits >> 24)
		h.Write(buf[:])
	}
	putRect := func(r gmath.Rect) {
		put(r.Min.X)
		put(r.Min.Y)
		put(r.Max.X)
		put(r.Max.Y)
	}
	for _, c := range calls {
		putRect(c.ClipRect)
		tex := uint64(c.Mesh.Texture)
		h.Write([]byte{
			byte(tex), byte(tex >> 8), byte(tex >> 16), byte(tex >> 24),
			byte(tex >> 32), byte(tex >> 40), byte(tex >> 48), byte(tex >> 56),
		})
		for _, v := range c.Mesh.Vertices {
			put(v.Pos.X)
			put(v.Pos.Y)
			put(v.UV.X)
			put(v.UV.Y)
			h.Write([]byte{v.Color.R, v.Color.G, v.Color.B, v.Color.A})
		}
	}
	return h.Sum64()
}
