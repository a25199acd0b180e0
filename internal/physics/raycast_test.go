package physics

import (
	"math"
	"testing"

	"autoragdoll/internal/components"
	"autoragdoll/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestRaycastClosestBody(t *testing.T) {
	scene := engine.NewScene("Test")
	w := NewPhysicsWorld()
	near := cubeAt(scene, "near", rl.MatrixTranslate(0, 0, 0))
	far := cubeAt(scene, "far", rl.MatrixTranslate(0, 5, 0))
	cubeAt(scene, "not a body", rl.MatrixTranslate(0, -5, 0))
	w.AddRigidBody(far, components.BodyActive, components.ShapeBox)
	w.AddRigidBody(near, components.BodyActive, components.ShapeBox)

	hit, ok := w.Raycast(rl.Vector3{Y: -10}, rl.Vector3{Y: 1}, 100)
	if !ok || hit.GameObject != near {
		t.Fatalf("Expected to hit near, got %+v", hit)
	}
	if math.Abs(float64(hit.Distance-9)) > 1e-4 {
		t.Errorf("Expected distance 9, got %f", hit.Distance)
	}
	if rl.Vector3Distance(hit.Normal, rl.Vector3{Y: -1}) > 1e-4 {
		t.Errorf("Expected -Y normal, got %v", hit.Normal)
	}

	if _, ok := w.Raycast(rl.Vector3{Y: -10}, rl.Vector3{Y: 1}, 5); ok {
		t.Error("Hit beyond max distance should be ignored")
	}
	if _, ok := w.Raycast(rl.Vector3{X: 3, Y: -10}, rl.Vector3{Y: 1}, 100); ok {
		t.Error("Ray passing beside the boxes should miss")
	}
}

func TestRaycastRotatedBox(t *testing.T) {
	scene := engine.NewScene("Test")
	w := NewPhysicsWorld()
	// a thin slab rotated 45 degrees about Z
	g := cubeAt(scene, "slab", engine.Mul(rl.MatrixRotateZ(math.Pi/4), rl.MatrixScale(1, 0.1, 1)))
	w.AddRigidBody(g, components.BodyActive, components.ShapeBox)

	// the corner region of the unrotated AABB is empty
	if _, ok := w.Raycast(rl.Vector3{X: 0.6, Y: -0.6, Z: 10}, rl.Vector3{Z: -1}, 100); ok {
		t.Error("Ray through the empty corner should miss")
	}
	hit, ok := w.Raycast(rl.Vector3{X: 0.5, Y: 0.5, Z: 10}, rl.Vector3{Z: -1}, 100)
	if !ok {
		t.Fatal("Ray along the slab diagonal should hit")
	}
	if math.Abs(float64(hit.Distance-9)) > 1e-4 {
		t.Errorf("Expected distance 9, got %f", hit.Distance)
	}
}

func TestRaycastFromInside(t *testing.T) {
	scene := engine.NewScene("Test")
	w := NewPhysicsWorld()
	g := cubeAt(scene, "a", rl.MatrixIdentity())
	w.AddRigidBody(g, components.BodyActive, components.ShapeBox)

	hit, ok := w.Raycast(rl.Vector3{}, rl.Vector3{X: 2}, 100)
	if !ok || math.Abs(float64(hit.Distance-1)) > 1e-4 {
		t.Errorf("Expected exit hit at 1, got %+v %v", hit, ok)
	}
}
