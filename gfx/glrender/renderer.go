// Package glrender draws tessellated GUI frames with OpenGL 3.3 core.
// One shader, one interleaved stream buffer, one scissor per draw
// call; the glyph atlas lives in an R8 texture.
package glrender

import (
	"fmt"
	"image"
	"image/draw"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/hubastard/canopy/gui"
	"github.com/hubastard/canopy/paint"
)

// paint.Vertex is pos2 + uv2 float32 plus rgba8: 20 tightly packed
// bytes, uploaded as-is.
const vertexStride = 20

type texture struct {
	id    uint32
	alpha bool // sampled as coverage, not color
}

// Renderer owns the GL objects for GUI drawing. Create it after the
// context is current, on the same thread as every later call.
type Renderer struct {
	program uint32
	vao     uint32
	vbo     uint32
	ebo     uint32

	uScreen   int32
	uAlphaTex int32

	atlas    texture
	atlasW   int
	atlasH   int
	textures map[paint.TextureID]texture
	nextID   paint.TextureID
}

func New() (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("init gl: %w", err)
	}

	r := &Renderer{
		textures: make(map[paint.TextureID]texture),
		nextID:   paint.AtlasTexture + 1,
	}
	var err error
	r.program, err = makeProgram(vertexSource, fragmentSource)
	if err != nil {
		return nil, err
	}
	r.uScreen = gl.GetUniformLocation(r.program, gl.Str("uScreen\x00"))
	r.uAlphaTex = gl.GetUniformLocation(r.program, gl.Str("uAlphaTex\x00"))

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.GenBuffers(1, &r.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)

	// layout(location = 0) in vec2 aPos;
	// layout(location = 1) in vec2 aUV;
	// layout(location = 2) in vec4 aColor;
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, vertexStride, unsafe.Pointer(uintptr(0)))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, vertexStride, unsafe.Pointer(uintptr(8)))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 4, gl.UNSIGNED_BYTE, true, vertexStride, unsafe.Pointer(uintptr(16)))

	gl.BindVertexArray(0)
	return r, nil
}

// Destroy releases every GL object the renderer created.
func (r *Renderer) Destroy() {
	for _, t := range r.textures {
		gl.DeleteTextures(1, &t.id)
	}
	if r.atlas.id != 0 {
		gl.DeleteTextures(1, &r.atlas.id)
	}
	if r.ebo != 0 {
		gl.DeleteBuffers(1, &r.ebo)
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
	}
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
	}
}

// CreateTexture uploads img and returns a handle for ImageShape.
func (r *Renderer) CreateTexture(img image.Image) paint.TextureID {
	rgba, ok := img.(*image.RGBA)
	if !ok {
		rgba = image.NewRGBA(img.Bounds())
		draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	}
	w := rgba.Bounds().Dx()
	h := rgba.Bounds().Dy()

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(w), int32(h), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba.Pix))

	id := r.nextID
	r.nextID++
	r.textures[id] = texture{id: tex}
	return id
}

// FreeTexture releases a handle from CreateTexture.
func (r *Renderer) FreeTexture(id paint.TextureID) {
	if t, ok := r.textures[id]; ok {
		gl.DeleteTextures(1, &t.id)
		delete(r.textures, id)
	}
}

// updateAtlas applies the frame's glyph texture delta. A grown atlas
// is re-uploaded whole; otherwise only the dirty rows go up.
func (r *Renderer) updateAtlas(delta *gui.TexturesDelta) {
	img := delta.Image
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	defer gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)

	if r.atlas.id == 0 || w != r.atlasW || h != r.atlasH {
		if r.atlas.id == 0 {
			gl.GenTextures(1, &r.atlas.id)
			r.atlas.alpha = true
		}
		gl.BindTexture(gl.TEXTURE_2D, r.atlas.id)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.R8, int32(w), int32(h), 0,
			gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
		r.atlasW = w
		r.atlasH = h
		return
	}

	d := delta.Rect
	gl.BindTexture(gl.TEXTURE_2D, r.atlas.id)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride))
	gl.TexSubImage2D(gl.TEXTURE_2D, 0,
		int32(d.Min.X), int32(d.Min.Y), int32(d.Dx()), int32(d.Dy()),
		gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix[img.PixOffset(d.Min.X, d.Min.Y):]))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
}

// Paint renders one frame's output into the current framebuffer of
// fbW x fbH physical pixels. The caller clears and swaps.
func (r *Renderer) Paint(out gui.Output, fbW, fbH int) {
	if out.TexturesDelta != nil {
		r.updateAtlas(out.TexturesDelta)
	}
	if len(out.DrawCalls) == 0 {
		return
	}

	gl.Viewport(0, 0, int32(fbW), int32(fbH))
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.SCISSOR_TEST)

	gl.UseProgram(r.program)
	gl.Uniform2f(r.uScreen, float32(fbW), float32(fbH))
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)

	for _, call := range out.DrawCalls {
		mesh := call.Mesh
		if len(mesh.Indices) == 0 {
			continue
		}
		tex := r.resolve(mesh.Texture)
		if tex.id == 0 {
			continue
		}

		// Scissor is in window coordinates with a bottom-left origin.
		clip := call.ClipRect
		sx := int32(clip.Min.X)
		sy := int32(float32(fbH) - clip.Max.Y)
		sw := int32(clip.Width() + 0.5)
		sh := int32(clip.Height() + 0.5)
		if sw <= 0 || sh <= 0 {
			continue
		}
		gl.Scissor(sx, sy, sw, sh)

		gl.BindTexture(gl.TEXTURE_2D, tex.id)
		if tex.alpha {
			gl.Uniform1i(r.uAlphaTex, 1)
		} else {
			gl.Uniform1i(r.uAlphaTex, 0)
		}

		gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*vertexStride,
			gl.Ptr(mesh.Vertices), gl.STREAM_DRAW)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4,
			gl.Ptr(mesh.Indices), gl.STREAM_DRAW)
		gl.DrawElements(gl.TRIANGLES, int32(len(mesh.Indices)), gl.UNSIGNED_INT, nil)
	}

	gl.BindVertexArray(0)
	gl.UseProgram(0)
	gl.Disable(gl.SCISSOR_TEST)
}

func (r *Renderer) resolve(id paint.TextureID) texture {
	if id == paint.AtlasTexture {
		return r.atlas
	}
	return r.textures[id]
}

// Clear fills the framebuffer with a background color.
func (r *Renderer) Clear(c paint.Color) {
	gl.Disable(gl.SCISSOR_TEST)
	gl.ClearColor(float32(c.R)/255, float32(c.G)/255, float32(c.B)/255, float32(c.A)/255)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

const vertexSource = `
#version 330 core
layout(location=0) in vec2 aPos;
layout(location=1) in vec2 aUV;
layout(location=2) in vec4 aColor;
uniform vec2 uScreen;
out vec2 vUV;
out vec4 vColor;
void main() {
    vUV = aUV;
    vColor = aColor;
    vec2 ndc = vec2(2.0 * aPos.x / uScreen.x - 1.0, 1.0 - 2.0 * aPos.y / uScreen.y);
    gl_Position = vec4(ndc, 0.0, 1.0);
}
` + "\x00"

const fragmentSource = `
#version 330 core
in vec2 vUV;
in vec4 vColor;
uniform sampler2D uTex;
uniform int uAlphaTex;
out vec4 FragColor;
void main() {
    vec4 tex = texture(uTex, vUV);
    if (uAlphaTex == 1) {
        tex = vec4(1.0, 1.0, 1.0, tex.r);
    }
    FragColor = vColor * tex;
}
` + "\x00"

// --- Shader utilities ---

func makeShader(src string, shaderType uint32) (uint32, error) {
	sh := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	defer free()
	gl.ShaderSource(sh, 1, csrc, nil)
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen))
		gl.GetShaderInfoLog(sh, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("shader compile error: %s", log)
	}
	return sh, nil
}

func makeProgram(vsSrc, fsSrc string) (uint32, error) {
	vs, err := makeShader(vsSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := makeShader(fsSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}
	prog := gl.CreateProgram()
	gl.AttachShader(prog, vs)
	gl.AttachShader(prog, fs)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("program link error: %s", log)
	}
	return prog, nil
}
