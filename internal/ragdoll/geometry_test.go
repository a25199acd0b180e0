package ragdoll

import (
	"math"
	"math/rand"
	"testing"

	"autoragdoll/internal/components"
	"autoragdoll/internal/engine"
	"autoragdoll/internal/mesh"
	"autoragdoll/internal/rig"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestBoneCenterMatrix(t *testing.T) {
	s := rig.NewSkeleton()
	b, err := s.AddBoneHeadTail("arm", "", rl.Vector3{X: 1}, rl.Vector3{X: 1, Z: 2}, 0)
	if err != nil {
		t.Fatal(err)
	}
	m := BoneCenterMatrix(b)
	if !near(origin(m), rl.Vector3{X: 1, Z: 1}) {
		t.Errorf("Expected center (1,0,1), got %v", origin(m))
	}
	yAxis := rl.Vector3Subtract(rl.Vector3Transform(rl.Vector3{Y: 1}, m), origin(m))
	if !near(yAxis, rl.Vector3{Z: 1}) {
		t.Errorf("Center frame should keep the bone's orientation, got Y axis %v", yAxis)
	}
}

func TestRebaseOriginRoundTrip(t *testing.T) {
	transforms := []rl.Matrix{
		rl.MatrixTranslate(1, -2, 3),
		rl.MatrixRotateXYZ(rl.Vector3{X: 0.3, Y: -1.1, Z: 2}),
		engine.Mul(rl.MatrixScale(2, 0.5, 3), rl.MatrixRotateY(0.7)),
		engine.Mul(rl.MatrixRotateZ(1), engine.Mul(rl.MatrixScale(1, 4, 1), rl.MatrixRotateX(0.4))),
	}
	for i, tr := range transforms {
		g := engine.NewGameObject("segment")
		g.AddComponent(components.NewMeshFilter(mesh.NewCube("segment")))
		g.Local = engine.Mul(rl.MatrixTranslate(0, 1, 0), rl.MatrixRotateZ(0.25))
		local := g.Local
		before := worldVerts(g)

		RebaseOrigin(g, tr)
		for k, v := range worldVerts(g) {
			if !near(v, before[k]) {
				t.Fatalf("transform %d: vertex %d moved from %v to %v", i, k, before[k], v)
			}
		}

		RebaseOrigin(g, rl.MatrixInvert(tr))
		for k, v := range worldVerts(g) {
			if !near(v, before[k]) {
				t.Fatalf("transform %d: vertex %d not restored: %v", i, k, v)
			}
		}
		if !near(origin(g.Local), origin(local)) {
			t.Errorf("transform %d: origin not restored, got %v", i, origin(g.Local))
		}
		mf := engine.GetComponent[*components.MeshFilter](g)
		for k, v := range mf.Mesh.Vertices {
			if !near(v, mesh.NewCube("").Vertices[k]) {
				t.Errorf("transform %d: mesh vertex %d not restored: %v", i, k, v)
			}
		}
	}
}

func TestIsolateWeightRegionThreshold(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	src := mesh.New("src", nil, nil)
	g := src.AddGroup("bone")
	other := src.AddGroup("other")
	weights := make(map[int]float32)
	for i := 0; i < 300; i++ {
		src.Vertices = append(src.Vertices, rl.Vector3{X: float32(i)})
		if i%3 == 2 {
			src.Faces = append(src.Faces, []int{i - 2, i - 1, i})
		}
		switch {
		case i%7 == 0:
			// unassigned
		case i%11 == 0:
			src.SetWeight(i, other, 1)
		default:
			w := rng.Float32()
			src.SetWeight(i, g, w)
			weights[i] = w
		}
	}

	for _, threshold := range []float32{0.05, 0.25, 0.5, 0.75, 0.9, 0.99} {
		m := src.Copy()
		IsolateWeightRegion(m, g, threshold)

		kept := make(map[int]bool)
		for _, v := range m.Vertices {
			kept[int(v.X)] = true
		}
		for i := 0; i < 300; i++ {
			w, assigned := weights[i]
			want := assigned && w >= threshold
			if kept[i] != want {
				t.Fatalf("threshold %v: vertex %d (weight %v, assigned %v) kept=%v", threshold, i, w, assigned, kept[i])
			}
		}
		for _, f := range m.Faces {
			for _, v := range f {
				if v < 0 || v >= m.VertexCount() {
					t.Fatalf("threshold %v: face references missing vertex %d", threshold, v)
				}
			}
		}
	}
}

func TestIsolateKeepsExactThreshold(t *testing.T) {
	m := mesh.New("m", []rl.Vector3{{}, {X: 1}, {Y: 1}}, [][]int{{0, 1, 2}})
	g := m.AddGroup("bone")
	m.SetWeight(0, g, 0.9)
	m.SetWeight(1, g, 0.9)
	m.SetWeight(2, g, 0.8999)

	IsolateWeightRegion(m, g, 0.9)
	if m.VertexCount() != 2 {
		t.Errorf("Expected 2 vertices at exactly the threshold, got %d", m.VertexCount())
	}
	if m.FaceCount() != 0 {
		t.Errorf("A triangle losing a corner should collapse, got %d faces", m.FaceCount())
	}
}

func TestPruneLooseGeometry(t *testing.T) {
	m := mesh.New("m", []rl.Vector3{{}, {X: 1}, {Y: 1}, {Z: 5}, {Z: 6}}, [][]int{{0, 1, 2}})
	if removed := PruneLooseGeometry(m); removed != 2 {
		t.Errorf("Expected 2 loose vertices removed, got %d", removed)
	}
	if m.VertexCount() != 3 || m.FaceCount() != 1 {
		t.Errorf("Unexpected mesh after prune: %d verts, %d faces", m.VertexCount(), m.FaceCount())
	}
	if math.Abs(float64(m.Vertices[2].Y-1)) > 1e-6 {
		t.Error("Face vertices should be untouched")
	}
}
