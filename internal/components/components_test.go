package components

import (
	"testing"

	"autoragdoll/internal/engine"
	"autoragdoll/internal/mesh"
)

func TestParseCollisionShape(t *testing.T) {
	for _, s := range []string{"BOX", "CAPSULE", "CYLINDER", "CONVEX_HULL", "MESH"} {
		if _, ok := ParseCollisionShape(s); !ok {
			t.Errorf("Expected %s to parse", s)
		}
	}
	if _, ok := ParseCollisionShape("box"); ok {
		t.Error("Shape names are upper case")
	}
	if !ShapeCapsule.Primitive() || ShapeConvexHull.Primitive() {
		t.Error("Primitive classification is wrong")
	}
}

func TestRigidBodyDefaults(t *testing.T) {
	rb := NewRigidBody(BodyActive, ShapeBox)
	if rb.Type.String() != "ACTIVE" || !rb.Enabled || rb.Mass != 1 {
		t.Errorf("Unexpected defaults %+v", rb)
	}
	data := rb.Serialize()
	if data["collisionShape"] != "BOX" {
		t.Errorf("Expected BOX, got %v", data["collisionShape"])
	}
}

func TestConstraintLimits(t *testing.T) {
	c := NewRigidBodyConstraint(ConstraintGeneric)
	c.UseLimitAng = [3]bool{true, true, true}
	c.LockLinear()
	c.FreeAngular()

	for i := 0; i < 3; i++ {
		if !c.UseLimitLin[i] || c.LimitLinLower[i] != 0 || c.LimitLinUpper[i] != 0 {
			t.Errorf("Linear axis %d not locked", i)
		}
		if c.UseLimitAng[i] {
			t.Errorf("Angular axis %d should be free", i)
		}
	}
}

func TestConstraintInfluence(t *testing.T) {
	c := NewRigidBodyConstraint(ConstraintGeneric)
	if !c.Enabled() {
		t.Error("New constraint should be enabled")
	}
	if err := c.SetFloat("influence", 0); err != nil {
		t.Fatal(err)
	}
	if c.Enabled() {
		t.Error("Zero influence should disable the constraint")
	}
	if v, _ := c.Float("influence"); v != 0 {
		t.Errorf("Expected 0, got %v", v)
	}
	if err := c.SetFloat("breaking_threshold", 1); err == nil {
		t.Error("Unknown property should fail")
	}
}

func TestMeshFilterConvert(t *testing.T) {
	g := engine.NewGameObject("cube")
	mf := NewMeshFilter(mesh.NewCube("cube"))
	g.AddComponent(mf)

	if g.Type() != "MESH" {
		t.Errorf("Expected MESH, got %s", g.Type())
	}
	if err := mf.Convert(); err != nil {
		t.Fatalf("Convert without modifiers failed: %v", err)
	}

	mf.Modifiers = append(mf.Modifiers, mesh.Remesh{VoxelSize: 0.5, MaxVoxels: 100000})
	if err := mf.Convert(); err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if len(mf.Modifiers) != 0 {
		t.Error("Modifiers should be cleared after convert")
	}
	if mf.Mesh.Name != "cube" || mf.Mesh.IsEmpty() {
		t.Error("Converted mesh should keep its name and have geometry")
	}
}

func TestMeshFilterConvertError(t *testing.T) {
	mf := NewMeshFilter(mesh.NewCube("cube"))
	original := mf.Mesh
	mf.Modifiers = []mesh.Modifier{mesh.Remesh{VoxelSize: 0.001, MaxVoxels: 10}}
	if err := mf.Convert(); err == nil {
		t.Fatal("Expected budget error")
	}
	if mf.Mesh != original || len(mf.Modifiers) != 1 {
		t.Error("Failed convert should leave the filter untouched")
	}
}

func TestEmptyIsEmptyType(t *testing.T) {
	g := engine.NewGameObject("joint")
	g.AddComponent(NewEmpty(EmptyArrows, 0.2))
	if g.Type() != "EMPTY" {
		t.Errorf("Expected EMPTY, got %s", g.Type())
	}
	if e := engine.GetComponent[*Empty](g); e == nil || e.Size != 0.2 {
		t.Error("Empty component not found")
	}
}
