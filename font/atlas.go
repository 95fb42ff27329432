package font

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
)

// ErrAtlasFull reports that an allocation did not fit even after the
// atlas grew to its maximum size. Recoverable: a host may evict cached
// glyphs (drop the Font and Atlas, rebuild) and retry.
var ErrAtlasFull = errors.New("font: atlas full")

// Atlas is the texture-atlas allocation map: a shelf packer over a
// single alpha-coverage image shared by every font. Glyph bitmaps are
// blitted in as they are first needed; the changed region accumulates
// so a host can upload only the delta each frame.
//
// The top-left corner holds a small opaque block. Untextured geometry
// samples its center, letting text and solid shapes share one texture
// and one draw call.
type Atlas struct {
	img     *image.Alpha
	maxSize int

	// Shelf cursor.
	x, y, rowH int

	dirty    image.Rectangle
	hasDirty bool
}

const atlasPadding = 1

// whiteSize is the side of the reserved opaque block at (0,0).
const whiteSize = 4

// NewAtlas creates an empty atlas of size*size pixels that grows on
// demand up to maxSize*maxSize.
func NewAtlas(size, maxSize int) *Atlas {
	if size < whiteSize*2 {
		size = 64
	}
	if maxSize < size {
		maxSize = size
	}
	a := &Atlas{
		img:     image.NewAlpha(image.Rect(0, 0, size, size)),
		maxSize: maxSize,
	}
	for py := 0; py < whiteSize; py++ {
		for px := 0; px < whiteSize; px++ {
			a.img.SetAlpha(px, py, color.Alpha{A: 0xff})
		}
	}
	a.x = whiteSize + atlasPadding
	a.rowH = whiteSize
	a.markDirty(image.Rect(0, 0, whiteSize, whiteSize))
	return a
}

// Image exposes the backing pixels. Hosts upload it (or the dirty
// sub-region) as an alpha texture; treat it as read-only.
func (a *Atlas) Image() *image.Alpha { return a.img }

// Size returns the current atlas dimensions in pixels.
func (a *Atlas) Size() (w, h int) {
	b := a.img.Bounds()
	return b.Dx(), b.Dy()
}

// WhiteUV is the UV coordinate of the center of the reserved opaque
// block. Vertices of untextured shapes carry this UV.
func (a *Atlas) WhiteUV() (u, v float32) {
	w, h := a.Size()
	c := float32(whiteSize) / 2
	return c / float32(w), c / float32(h)
}

// Allocate reserves a w*h pixel region and copies src into it. The
// atlas doubles in size when the shelf overflows; past maxSize it
// returns ErrAtlasFull.
func (a *Atlas) Allocate(src *image.Alpha) (image.Point, error) {
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	for {
		p, ok := a.reserve(w, h)
		if ok {
			draw.Draw(a.img, image.Rect(p.X, p.Y, p.X+w, p.Y+h), src, src.Bounds().Min, draw.Src)
			a.markDirty(image.Rect(p.X, p.Y, p.X+w, p.Y+h))
			return p, nil
		}
		if err := a.grow(w, h); err != nil {
			return image.Point{}, err
		}
	}
}

func (a *Atlas) reserve(w, h int) (image.Point, bool) {
	aw, ah := a.Size()
	if w+2*atlasPadding > aw || h+2*atlasPadding > ah {
		return image.Point{}, false
	}
	if a.x+w+atlasPadding > aw {
		// New shelf.
		a.x = atlasPadding
		a.y += a.rowH + atlasPadding
		a.rowH = 0
	}
	if a.y+h+atlasPadding > ah {
		return image.Point{}, false
	}
	p := image.Pt(a.x, a.y)
	a.x += w + atlasPadding
	if h > a.rowH {
		a.rowH = h
	}
	return p, true
}

// grow doubles the atlas, repositioning nothing: existing shelves stay
// where they are and packing continues below them. Glyph UVs are
// derived from the atlas size at tessellation time, so they survive
// the resize; the whole image is dirty afterwards.
func (a *Atlas) grow(needW, needH int) error {
	aw, _ := a.Size()
	next := aw * 2
	if next > a.maxSize || needW+2*atlasPadding > a.maxSize || needH+2*atlasPadding > a.maxSize {
		return ErrAtlasFull
	}
	grown := image.NewAlpha(image.Rect(0, 0, next, next))
	draw.Draw(grown, a.img.Bounds(), a.img, image.Point{}, draw.Src)
	a.img = grown
	a.markDirty(grown.Bounds())
	return nil
}

func (a *Atlas) markDirty(r image.Rectangle) {
	if a.hasDirty {
		a.dirty = a.dirty.Union(r)
	} else {
		a.dirty = r
		a.hasDirty = true
	}
}

// TakeDelta returns the region changed since the last call, clearing
// it. The "atlas changed" signal: hosts re-upload only this
// sub-rectangle (or everything, if the rect covers the whole image
// after a resize).
func (a *Atlas) TakeDelta() (image.Rectangle, bool) {
	if !a.hasDirty {
		return image.Rectangle{}, false
	}
	d := a.dirty
	a.hasDirty = false
	a.dirty = image.Rectangle{}
	return d, true
}
