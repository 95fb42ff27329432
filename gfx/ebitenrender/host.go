// Package ebitenrender hosts the GUI inside an ebiten game: it polls
// ebiten's input into raw events, runs one GUI frame per Update, and
// renders the draw calls with DrawTriangles.
package ebitenrender

import (
	"image"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hubastard/canopy/gmath"
	"github.com/hubastard/canopy/gui"
	"github.com/hubastard/canopy/input"
	"github.com/hubastard/canopy/paint"
)

// Host implements ebiten.Game around a gui.Context. Set Body to the
// per-frame widget function before running.
type Host struct {
	Ctx        *gui.Context
	Body       func(*gui.Ui)
	Background paint.Color

	out    gui.Output
	width  int
	height int
	start  time.Time

	atlas    *ebiten.Image
	textures map[paint.TextureID]*ebiten.Image
	nextID   paint.TextureID

	// Ebiten has no system clipboard access, so copy/cut/paste stay
	// inside the process.
	clipboard string

	scratch16 []paint.Mesh16
	scratchV  []ebiten.Vertex
}

func NewHost(ctx *gui.Context, body func(*gui.Ui)) *Host {
	return &Host{
		Ctx:        ctx,
		Body:       body,
		Background: paint.RGB(20, 22, 26),
		start:      time.Now(),
		textures:   make(map[paint.TextureID]*ebiten.Image),
		nextID:     paint.AtlasTexture + 1,
	}
}

// CreateTexture registers img for ImageShape draws.
func (h *Host) CreateTexture(img image.Image) paint.TextureID {
	id := h.nextID
	h.nextID++
	h.textures[id] = ebiten.NewImageFromImage(img)
	return id
}

func (h *Host) Update() error {
	h.out = h.Ctx.RunFrame(h.gatherInput(), h.Body)
	if h.out.Platform.CopiedText != "" {
		h.clipboard = h.out.Platform.CopiedText
	}
	return nil
}

func (h *Host) Draw(screen *ebiten.Image) {
	screen.Fill(h.Background.Std())
	if h.out.TexturesDelta != nil {
		h.updateAtlas(h.out.TexturesDelta)
	}
	if h.atlas == nil {
		return
	}

	for _, call := range h.out.DrawCalls {
		clip := image.Rect(
			int(call.ClipRect.Min.X), int(call.ClipRect.Min.Y),
			int(call.ClipRect.Max.X+0.5), int(call.ClipRect.Max.Y+0.5),
		)
		dst, ok := screen.SubImage(clip).(*ebiten.Image)
		if !ok || clip.Empty() {
			continue
		}
		src := h.resolve(call.Mesh.Texture)
		if src == nil {
			continue
		}
		srcW := float32(src.Bounds().Dx())
		srcH := float32(src.Bounds().Dy())

		h.scratch16 = call.Mesh.Split16(h.scratch16[:0])
		for _, chunk := range h.scratch16 {
			verts := h.scratchV[:0]
			for _, v := range chunk.Vertices {
				// Ebiten blends premultiplied; fold the straight
				// alpha into the color scale.
				a := float32(v.Color.A) / 255
				verts = append(verts, ebiten.Vertex{
					DstX:   v.Pos.X,
					DstY:   v.Pos.Y,
					SrcX:   v.UV.X * srcW,
					SrcY:   v.UV.Y * srcH,
					ColorR: float32(v.Color.R) / 255 * a,
					ColorG: float32(v.Color.G) / 255 * a,
					ColorB: float32(v.Color.B) / 255 * a,
					ColorA: a,
				})
			}
			h.scratchV = verts
			dst.DrawTriangles(verts, chunk.Indices, src, nil)
		}
	}
}

func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	h.width, h.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

func (h *Host) resolve(id paint.TextureID) *ebiten.Image {
	if id == paint.AtlasTexture {
		return h.atlas
	}
	return h.textures[id]
}

// updateAtlas mirrors the glyph coverage into a premultiplied white
// RGBA image, whole on growth and by dirty rect otherwise.
func (h *Host) updateAtlas(delta *gui.TexturesDelta) {
	bounds := delta.Image.Bounds()
	if h.atlas == nil || h.atlas.Bounds() != bounds {
		h.atlas = ebiten.NewImage(bounds.Dx(), bounds.Dy())
		h.writeAtlasRect(delta.Image, bounds)
		return
	}
	h.writeAtlasRect(delta.Image, delta.Rect)
}

func (h *Host) writeAtlasRect(img *image.Alpha, r image.Rectangle) {
	w, hgt := r.Dx(), r.Dy()
	if w <= 0 || hgt <= 0 {
		return
	}
	pix := make([]byte, 4*w*hgt)
	for y := 0; y < hgt; y++ {
		row := img.Pix[img.PixOffset(r.Min.X, r.Min.Y+y):]
		for x := 0; x < w; x++ {
			a := row[x]
			o := 4 * (y*w + x)
			pix[o+0] = a
			pix[o+1] = a
			pix[o+2] = a
			pix[o+3] = a
		}
	}
	h.atlas.SubImage(r).(*ebiten.Image).WritePixels(pix)
}

func (h *Host) gatherInput() input.RawInput {
	var events []input.Event

	x, y := ebiten.CursorPosition()
	events = append(events, input.EventPointerMove{Pos: gmath.V2(float32(x), float32(y))})

	mods := currentMods()
	pos := gmath.V2(float32(x), float32(y))
	for eb, b := range mouseButtons {
		if inpututil.IsMouseButtonJustPressed(eb) {
			events = append(events, input.EventPointerButton{Pos: pos, Button: b, Down: true, Mods: mods})
		}
		if inpututil.IsMouseButtonJustReleased(eb) {
			events = append(events, input.EventPointerButton{Pos: pos, Button: b, Down: false, Mods: mods})
		}
	}

	if wx, wy := ebiten.Wheel(); wx != 0 || wy != 0 {
		const pointsPerTick = 32
		events = append(events, input.EventScroll{Delta: gmath.V2(float32(wx)*pointsPerTick, float32(wy)*pointsPerTick)})
	}

	for _, k := range inpututil.AppendJustPressedKeys(nil) {
		if mods.Ctrl() {
			switch k {
			case ebiten.KeyC:
				events = append(events, input.EventCopy{})
				continue
			case ebiten.KeyX:
				events = append(events, input.EventCut{})
				continue
			case ebiten.KeyV:
				events = append(events, input.EventPaste{Text: h.clipboard})
				continue
			}
		}
		if ik, ok := keyMap[k]; ok {
			events = append(events, input.EventKey{Key: ik, Down: true, Mods: mods})
		}
	}
	for _, k := range inpututil.AppendJustReleasedKeys(nil) {
		if ik, ok := keyMap[k]; ok {
			events = append(events, input.EventKey{Key: ik, Down: false, Mods: mods})
		}
	}
	if chars := ebiten.AppendInputChars(nil); len(chars) > 0 {
		events = append(events, input.EventText{Text: string(chars)})
	}

	return input.RawInput{
		Events:         events,
		ScreenSize:     gmath.V2(float32(h.width), float32(h.height)),
		PixelsPerPoint: 1,
		Time:           time.Since(h.start).Seconds(),
	}
}

func currentMods() input.Modifiers {
	var m input.Modifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		m |= input.ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		m |= input.ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		m |= input.ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		m |= input.ModSuper
	}
	return m
}

var mouseButtons = map[ebiten.MouseButton]input.PointerButton{
	ebiten.MouseButtonLeft:   input.ButtonPrimary,
	ebiten.MouseButtonRight:  input.ButtonSecondary,
	ebiten.MouseButtonMiddle: input.ButtonMiddle,
}

var keyMap = buildKeyMap()

func buildKeyMap() map[ebiten.Key]input.Key {
	m := map[ebiten.Key]input.Key{
		ebiten.KeyEscape:     input.KeyEscape,
		ebiten.KeyTab:        input.KeyTab,
		ebiten.KeyBackspace:  input.KeyBackspace,
		ebiten.KeyEnter:      input.KeyEnter,
		ebiten.KeySpace:      input.KeySpace,
		ebiten.KeyInsert:     input.KeyInsert,
		ebiten.KeyDelete:     input.KeyDelete,
		ebiten.KeyHome:       input.KeyHome,
		ebiten.KeyEnd:        input.KeyEnd,
		ebiten.KeyPageUp:     input.KeyPageUp,
		ebiten.KeyPageDown:   input.KeyPageDown,
		ebiten.KeyArrowLeft:  input.KeyArrowLeft,
		ebiten.KeyArrowRight: input.KeyArrowRight,
		ebiten.KeyArrowUp:    input.KeyArrowUp,
		ebiten.KeyArrowDown:  input.KeyArrowDown,
	}
	for i := 0; i < 26; i++ {
		m[ebiten.KeyA+ebiten.Key(i)] = input.KeyA + input.Key(i)
	}
	for i := 0; i < 10; i++ {
		m[ebiten.KeyDigit0+ebiten.Key(i)] = input.KeyNum0 + input.Key(i)
	}
	return m
}
