package paint

import "github.com/hubastard/canopy/gmath"

// Vertex is one tessellated vertex exactly as backends consume it:
// position in physical pixels, UV into the bound texture, straight
// RGBA color.
type Vertex struct {
	Pos   gmath.Vec2
	UV    gmath.Vec2
	Color Color
}

// Mesh is a triangle list built fresh each frame and discarded
// wholesale; nothing mutates a previous frame's mesh.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Texture  TextureID
}

func (m *Mesh) IsEmpty() bool { return len(m.Indices) == 0 }

// AddTriangle records one triangle by vertex index.
func (m *Mesh) AddTriangle(a, b, c uint32) {
	m.Indices = append(m.Indices, a, b, c)
}

// AddVertex appends a vertex and returns its index.
func (m *Mesh) AddVertex(v Vertex) uint32 {
	m.Vertices = append(m.Vertices, v)
	return uint32(len(m.Vertices) - 1)
}

// Reserve grows the backing slices ahead of a known-size batch.
func (m *Mesh) Reserve(verts, inds int) {
	if cap(m.Vertices)-len(m.Vertices) < verts {
		grown := make([]Vertex, len(m.Vertices), len(m.Vertices)+verts)
		copy(grown, m.Vertices)
		m.Vertices = grown
	}
	if cap(m.Indices)-len(m.Indices) < inds {
		grown := make([]uint32, len(m.Indices), len(m.Indices)+inds)
		copy(grown, m.Indices)
		m.Indices = grown
	}
}

// Append copies o's triangles into m, offsetting indices.
func (m *Mesh) Append(o *Mesh) {
	base := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, o.Vertices...)
	for _, i := range o.Indices {
		m.Indices = append(m.Indices, base+i)
	}
}

// Mesh16 is a mesh with 16-bit indices, for backends limited to
// uint16 index buffers.
type Mesh16 struct {
	Vertices []Vertex
	Indices  []uint16
	Texture  TextureID
}

// Split16 partitions m into chunks addressable with 16-bit indices.
// Triangles are never split; each chunk re-bases the vertices it
// references.
func (m *Mesh) Split16(out []Mesh16) []Mesh16 {
	const maxVerts = 1 << 16
	if len(m.Vertices) < maxVerts {
		cur := Mesh16{Vertices: m.Vertices, Texture: m.Texture}
		cur.Indices = make([]uint16, len(m.Indices))
		for i, idx := range m.Indices {
			cur.Indices[i] = uint16(idx)
		}
		return append(out, cur)
	}

	// Remap per chunk: walk triangles, translating each referenced
	// vertex into the chunk the first time it appears.
	remap := make(map[uint32]uint16, maxVerts)
	cur := Mesh16{Texture: m.Texture}
	flush := func() {
		if len(cur.Indices) > 0 {
			out = append(out, cur)
		}
		cur = Mesh16{Texture: m.Texture}
		clear(remap)
	}
	for i := 0; i+2 < len(m.Indices); i += 3 {
		if len(cur.Vertices)+3 > maxVerts {
			flush()
		}
		for _, idx := range m.Indices[i : i+3] {
			local, ok := remap[idx]
			if !ok {
				local = uint16(len(cur.Vertices))
				cur.Vertices = append(cur.Vertices, m.Vertices[idx])
				remap[idx] = local
			}
			cur.Indices = append(cur.Indices, local)
		}
	}
	flush()
	return out
}
