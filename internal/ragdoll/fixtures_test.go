package ragdoll

import (
	"math"
	"testing"

	"autoragdoll/internal/components"
	"autoragdoll/internal/config"
	"autoragdoll/internal/engine"
	"autoragdoll/internal/mesh"
	"autoragdoll/internal/physics"
	"autoragdoll/internal/rig"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/rs/zerolog"
)

// armatureWorld places the test armature off the origin and turned about Z.
var armatureWorld = engine.Mul(rl.MatrixTranslate(0.5, 0, 1), rl.MatrixRotateZ(math.Pi/2))

func near(a, b rl.Vector3) bool {
	return rl.Vector3Distance(a, b) < 1e-4
}

func origin(m rl.Matrix) rl.Vector3 {
	return rl.Vector3{X: m.M12, Y: m.M13, Z: m.M14}
}

// chainSkeleton builds bones of length 1 stacked along +Y, each parented to
// the previous one.
func chainSkeleton(t *testing.T, names ...string) *rig.Skeleton {
	t.Helper()
	s := rig.NewSkeleton()
	parent := ""
	for i, name := range names {
		y := float32(i)
		if _, err := s.AddBoneHeadTail(name, parent, rl.Vector3{Y: y}, rl.Vector3{Y: y + 1}, 0); err != nil {
			t.Fatal(err)
		}
		parent = name
	}
	return s
}

func addArmature(scene *engine.Scene, s *rig.Skeleton) (*engine.GameObject, *rig.Armature) {
	obj := engine.NewGameObject("Armature")
	obj.Local = armatureWorld
	arm := rig.NewArmature(s)
	obj.AddComponent(arm)
	scene.AddGameObject(obj)
	arm.Evaluate()
	return obj, arm
}

// boxVerts returns the armature-space corners of the donor region of bone i.
func boxVerts(i int) []rl.Vector3 {
	y0, y1 := float32(i), float32(i+1)
	return []rl.Vector3{
		{X: 0.2, Y: y1, Z: -0.2}, {X: 0.2, Y: y0, Z: -0.2}, {X: -0.2, Y: y0, Z: -0.2}, {X: -0.2, Y: y1, Z: -0.2},
		{X: 0.2, Y: y1, Z: 0.2}, {X: 0.2, Y: y0, Z: 0.2}, {X: -0.2, Y: y0, Z: 0.2}, {X: -0.2, Y: y1, Z: 0.2},
	}
}

var boxFaces = [][]int{
	{0, 1, 2, 3}, {4, 7, 6, 5}, {0, 4, 5, 1}, {1, 5, 6, 2}, {2, 6, 7, 3}, {4, 0, 3, 7},
}

// addDonor builds a mesh of one box per bone in world space. Each box is
// fully weighted to its bone's group when the group is listed in groups.
func addDonor(scene *engine.Scene, s *rig.Skeleton, groups ...string) *engine.GameObject {
	var verts []rl.Vector3
	var faces [][]int
	for i := range s.Bones {
		base := len(verts)
		for _, v := range boxVerts(i) {
			verts = append(verts, rl.Vector3Transform(v, armatureWorld))
		}
		for _, f := range boxFaces {
			faces = append(faces, []int{base + f[0], base + f[1], base + f[2], base + f[3]})
		}
	}
	m := mesh.New("Body", verts, faces)
	for _, name := range groups {
		g := m.AddGroup(name)
		for i, b := range s.Bones {
			if b.Name != name {
				continue
			}
			for v := i * 8; v < i*8+8; v++ {
				m.SetWeight(v, g, 1)
			}
		}
	}
	obj := engine.NewGameObject("Body")
	obj.AddComponent(components.NewMeshFilter(m))
	scene.AddGameObject(obj)
	return obj
}

func newTestContext() *Context {
	return NewContext(engine.NewScene("Scene"), physics.NewPhysicsWorld(), config.Default(), zerolog.Nop())
}

func worldVerts(g *engine.GameObject) []rl.Vector3 {
	mf := engine.GetComponent[*components.MeshFilter](g)
	world := g.WorldMatrix()
	out := make([]rl.Vector3, len(mf.Mesh.Vertices))
	for i, v := range mf.Mesh.Vertices {
		out[i] = rl.Vector3Transform(v, world)
	}
	return out
}

func influences(r *Ragdoll) []float32 {
	var out []float32
	for _, b := range r.Bindings {
		out = append(out, b.Constraint.Influence())
	}
	for _, j := range r.Joints {
		out = append(out, j.Constraint.Influence())
	}
	return out
}
