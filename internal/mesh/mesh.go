// Package mesh holds polygon mesh data with vertex groups and the topology
// edits the ragdoll builder needs.
package mesh

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Mesh is a polygon mesh. Faces index into Vertices; Weights[v] maps a vertex
// group index (into Groups) to the deform weight of vertex v.
type Mesh struct {
	Name     string
	Vertices []rl.Vector3
	Faces    [][]int
	Groups   []string
	Weights  []map[int]float32
}

// New creates a mesh from vertex positions and faces.
func New(name string, vertices []rl.Vector3, faces [][]int) *Mesh {
	m := &Mesh{
		Name:     name,
		Vertices: append([]rl.Vector3(nil), vertices...),
		Faces:    make([][]int, len(faces)),
		Weights:  make([]map[int]float32, len(vertices)),
	}
	for i, f := range faces {
		m.Faces[i] = append([]int(nil), f...)
	}
	return m
}

var cubeVerts = []rl.Vector3{
	{X: 1, Y: 1, Z: -1}, {X: 1, Y: -1, Z: -1}, {X: -1, Y: -1, Z: -1}, {X: -1, Y: 1, Z: -1},
	{X: 1, Y: 1, Z: 1}, {X: 1, Y: -1, Z: 1}, {X: -1, Y: -1, Z: 1}, {X: -1, Y: 1, Z: 1},
}

var cubeFaces = [][]int{
	{0, 1, 2, 3}, {4, 7, 6, 5}, {0, 4, 5, 1}, {1, 5, 6, 2}, {2, 6, 7, 3}, {4, 0, 3, 7},
}

// NewCube returns a cube spanning [-1,1] on every axis.
func NewCube(name string) *Mesh {
	return New(name, cubeVerts, cubeFaces)
}

func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

func (m *Mesh) FaceCount() int {
	return len(m.Faces)
}

func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Copy returns a deep copy.
func (m *Mesh) Copy() *Mesh {
	c := New(m.Name, m.Vertices, m.Faces)
	c.Groups = append([]string(nil), m.Groups...)
	for i, w := range m.Weights {
		if w == nil {
			continue
		}
		cw := make(map[int]float32, len(w))
		for g, v := range w {
			cw[g] = v
		}
		c.Weights[i] = cw
	}
	return c
}

// GroupIndex returns the index of the named vertex group, or -1.
func (m *Mesh) GroupIndex(name string) int {
	for i, g := range m.Groups {
		if g == name {
			return i
		}
	}
	return -1
}

// AddGroup returns the index of the named group, creating it if needed.
func (m *Mesh) AddGroup(name string) int {
	if i := m.GroupIndex(name); i >= 0 {
		return i
	}
	m.Groups = append(m.Groups, name)
	return len(m.Groups) - 1
}

// SetWeight assigns vertex v a weight in group g.
func (m *Mesh) SetWeight(v, g int, w float32) {
	for len(m.Weights) < len(m.Vertices) {
		m.Weights = append(m.Weights, nil)
	}
	if m.Weights[v] == nil {
		m.Weights[v] = make(map[int]float32)
	}
	m.Weights[v][g] = w
}

// Weight returns the weight of vertex v in group g and whether it is assigned.
func (m *Mesh) Weight(v, g int) (float32, bool) {
	if v >= len(m.Weights) || m.Weights[v] == nil {
		return 0, false
	}
	w, ok := m.Weights[v][g]
	return w, ok
}

// Transform applies mat to every vertex in place.
func (m *Mesh) Transform(mat rl.Matrix) {
	for i, v := range m.Vertices {
		m.Vertices[i] = rl.Vector3Transform(v, mat)
	}
}

// Bounds returns the axis-aligned extent of the vertices.
func (m *Mesh) Bounds() (min, max rl.Vector3) {
	if len(m.Vertices) == 0 {
		return
	}
	min, max = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		min = rl.Vector3Min(min, v)
		max = rl.Vector3Max(max, v)
	}
	return
}

// DissolveVerts removes the given vertices. Faces lose the dissolved corners
// and are dropped once fewer than three corners remain.
func (m *Mesh) DissolveVerts(verts []int) {
	if len(verts) == 0 {
		return
	}
	drop := make(map[int]bool, len(verts))
	for _, v := range verts {
		drop[v] = true
	}
	m.keepVertices(func(i int) bool { return !drop[i] })
}

// DeleteLoose removes vertices that no face uses and returns how many went.
func (m *Mesh) DeleteLoose() int {
	used := make([]bool, len(m.Vertices))
	for _, f := range m.Faces {
		for _, v := range f {
			used[v] = true
		}
	}
	before := len(m.Vertices)
	m.keepVertices(func(i int) bool { return used[i] })
	return before - len(m.Vertices)
}

// keepVertices compacts the mesh to the vertices for which keep is true.
func (m *Mesh) keepVertices(keep func(int) bool) {
	remap := make([]int, len(m.Vertices))
	verts := m.Vertices[:0]
	weights := make([]map[int]float32, 0, len(m.Vertices))
	for i, v := range m.Vertices {
		if !keep(i) {
			remap[i] = -1
			continue
		}
		remap[i] = len(verts)
		verts = append(verts, v)
		if i < len(m.Weights) {
			weights = append(weights, m.Weights[i])
		} else {
			weights = append(weights, nil)
		}
	}
	m.Vertices = verts
	m.Weights = weights

	faces := m.Faces[:0]
	for _, f := range m.Faces {
		nf := make([]int, 0, len(f))
		for _, v := range f {
			if remap[v] >= 0 {
				nf = append(nf, remap[v])
			}
		}
		if len(nf) >= 3 {
			faces = append(faces, nf)
		}
	}
	m.Faces = faces
}
