package ragdoll

import (
	"autoragdoll/internal/components"
	"autoragdoll/internal/engine"
	"autoragdoll/internal/mesh"
	"autoragdoll/internal/rig"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// BoneCenterMatrix returns the armature-space rest frame of the point halfway
// between the bone's head and tail.
func BoneCenterMatrix(b *rig.Bone) rl.Matrix {
	return engine.Mul(b.MatrixLocal(), rl.MatrixTranslate(0, b.Length/2, 0))
}

// RebaseOrigin moves g's origin by t while applying inverse(t) to its mesh,
// so the geometry keeps its world position.
func RebaseOrigin(g *engine.GameObject, t rl.Matrix) {
	g.Local = engine.Mul(g.Local, t)
	if mf := engine.GetComponent[*components.MeshFilter](g); mf != nil && mf.Mesh != nil {
		mf.Mesh.Transform(rl.MatrixInvert(t))
	}
}

// IsolateWeightRegion dissolves every vertex whose weight in group is below
// threshold. Vertices not assigned to the group count as weight 0.
func IsolateWeightRegion(m *mesh.Mesh, group int, threshold float32) {
	var dissolve []int
	for v := range m.Vertices {
		if w, ok := m.Weight(v, group); !ok || w < threshold {
			dissolve = append(dissolve, v)
		}
	}
	m.DissolveVerts(dissolve)
}

// PruneLooseGeometry removes vertices that no face uses and returns how many.
func PruneLooseGeometry(m *mesh.Mesh) int {
	return m.DeleteLoose()
}
