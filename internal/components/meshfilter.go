package components

import (
	"autoragdoll/internal/engine"
	"autoragdoll/internal/mesh"
)

// MeshFilter makes a GameObject a MESH and holds its data and modifier stack.
type MeshFilter struct {
	engine.BaseComponent
	Mesh      *mesh.Mesh
	Modifiers []mesh.Modifier
}

func NewMeshFilter(m *mesh.Mesh) *MeshFilter {
	return &MeshFilter{Mesh: m}
}

func (m *MeshFilter) ObjectType() string { return "MESH" }

// Convert bakes the modifier stack into the mesh data and clears it.
func (m *MeshFilter) Convert() error {
	if len(m.Modifiers) == 0 {
		return nil
	}
	baked, err := mesh.Apply(m.Mesh, m.Modifiers)
	if err != nil {
		return err
	}
	baked.Name = m.Mesh.Name
	m.Mesh = baked
	m.Modifiers = nil
	return nil
}

// TypeName implements engine.Serializable
func (m *MeshFilter) TypeName() string {
	return "MeshFilter"
}

// Serialize implements engine.Serializable
func (m *MeshFilter) Serialize() map[string]any {
	verts := make([][3]float32, len(m.Mesh.Vertices))
	for i, v := range m.Mesh.Vertices {
		verts[i] = [3]float32{v.X, v.Y, v.Z}
	}
	mods := make([]string, len(m.Modifiers))
	for i, mod := range m.Modifiers {
		mods[i] = mod.Name()
	}
	return map[string]any{
		"type":      "MeshFilter",
		"mesh":      m.Mesh.Name,
		"vertices":  verts,
		"faces":     m.Mesh.Faces,
		"groups":    m.Mesh.Groups,
		"modifiers": mods,
	}
}
