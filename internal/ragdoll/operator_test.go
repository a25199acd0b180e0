package ragdoll

import (
	"errors"
	"testing"

	"autoragdoll/internal/components"
	"autoragdoll/internal/config"
	"autoragdoll/internal/engine"
	"autoragdoll/internal/mesh"
	"autoragdoll/internal/rig"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func remeshedScene(t *testing.T, bones []string, groups ...string) (*Context, *engine.GameObject, *rig.Armature, *engine.GameObject) {
	t.Helper()
	ctx := newTestContext()
	s := chainSkeleton(t, bones...)
	obj, arm := addArmature(ctx.Scene, s)
	donor := addDonor(ctx.Scene, s, groups...)
	ctx.Scene.Select(donor, true)
	ctx.Scene.Select(obj, true)
	ctx.Scene.Active = donor
	return ctx, obj, arm, donor
}

func TestRemeshedWithoutRemesh(t *testing.T) {
	names := []string{"root", "mid", "tip"}
	ctx, obj, _, donor := remeshedScene(t, names, names...)

	op := &RemeshedRagdollOperator{HideOriginalMesh: true, VoxelSize: 0.1, CollisionShape: components.ShapeMesh}
	status, err := op.Execute(ctx)
	if err != nil || status != StatusFinished {
		t.Fatalf("Expected FINISHED, got %s %v %v", status, err, ctx.Reports)
	}
	r := ctx.Ragdolls[0]
	if r.Mode != "weight-region" {
		t.Errorf("Unexpected mode %q", r.Mode)
	}
	if len(r.Segments) != 3 || len(r.Joints) != 2 {
		t.Fatalf("Expected 3 segments and 2 joints, got %d and %d", len(r.Segments), len(r.Joints))
	}
	if r.Joints[0].Object.Name != "root collider & mid collider" {
		t.Errorf("Unexpected joint name %q", r.Joints[0].Object.Name)
	}

	for i, s := range r.Segments {
		if s.Object.Name != names[i]+" collider" {
			t.Errorf("Unexpected segment name %q", s.Object.Name)
		}
		mf := engine.GetComponent[*components.MeshFilter](s.Object)
		if mf.Mesh.VertexCount() != 8 || mf.Mesh.FaceCount() != 6 {
			t.Errorf("%s: expected the 8 vertex box, got %d verts %d faces", s.Object.Name, mf.Mesh.VertexCount(), mf.Mesh.FaceCount())
		}
		if len(mf.Modifiers) != 0 {
			t.Errorf("%s: modifiers should be applied", s.Object.Name)
		}

		// geometry stays where the donor had it
		for _, v := range worldVerts(s.Object) {
			found := false
			for _, want := range boxVerts(i) {
				if near(v, rl.Vector3Transform(want, armatureWorld)) {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("%s: vertex %v is not part of the donor region", s.Object.Name, v)
			}
		}

		center := rl.Vector3Transform(rl.Vector3{Y: float32(i) + 0.5}, armatureWorld)
		if got := s.Object.WorldPosition(); !near(got, center) {
			t.Errorf("%s: origin should be at the bone center %v, got %v", s.Object.Name, center, got)
		}
		if s.Body.CollisionShape != components.ShapeMesh {
			t.Errorf("%s: expected MESH shape, got %s", s.Object.Name, s.Body.CollisionShape)
		}
	}

	for _, b := range r.Bindings {
		if b.Anchor != nil {
			t.Errorf("%s: weight-region bindings target segments directly", b.PoseBone.Name())
		}
		if b.Constraint.TargetRef().UID != b.Segment.Object.UID {
			t.Errorf("%s: binding does not target its segment", b.PoseBone.Name())
		}
	}

	if donor.Visible {
		t.Error("Donor should be hidden")
	}
	if sel := ctx.Scene.SelectedObjects(); len(sel) != 1 || sel[0] != obj {
		t.Error("Only the armature should stay selected")
	}
	if ctx.Scene.Active != obj {
		t.Error("Armature should be active")
	}
}

func TestRemeshedKeepsDonorVisible(t *testing.T) {
	names := []string{"root", "mid"}
	ctx, _, _, donor := remeshedScene(t, names, names...)

	op := &RemeshedRagdollOperator{VoxelSize: 0.1, CollisionShape: components.ShapeConvexHull}
	if status, err := op.Execute(ctx); err != nil || status != StatusFinished {
		t.Fatalf("Expected FINISHED, got %s %v", status, err)
	}
	if !donor.Visible {
		t.Error("Donor should stay visible")
	}
	if got := ctx.Ragdolls[0].Segments[0].Body.CollisionShape; got != components.ShapeConvexHull {
		t.Errorf("Expected CONVEX_HULL, got %s", got)
	}
}

func TestRemeshedWithRemesh(t *testing.T) {
	names := []string{"root", "mid"}
	ctx, _, _, _ := remeshedScene(t, names, names...)

	op := &RemeshedRagdollOperator{Remesh: true, VoxelSize: 0.1, CollisionShape: components.ShapeMesh}
	if status, err := op.Execute(ctx); err != nil || status != StatusFinished {
		t.Fatalf("Expected FINISHED, got %s %v", status, err)
	}
	for _, s := range ctx.Ragdolls[0].Segments {
		mf := engine.GetComponent[*components.MeshFilter](s.Object)
		if mf.Mesh.IsEmpty() {
			t.Errorf("%s: remeshed segment is empty", s.Object.Name)
		}
		if len(mf.Modifiers) != 0 {
			t.Errorf("%s: remesh should be applied", s.Object.Name)
		}
		// voxel shell encloses the carved box
		min, max := mf.Mesh.Bounds()
		if max.Y-min.Y < 1 || max.X-min.X < 0.4 {
			t.Errorf("%s: remeshed bounds too small: %v %v", s.Object.Name, min, max)
		}
	}
}

func TestMissingVertexGroupRollsBack(t *testing.T) {
	ctx, obj, arm, donor := remeshedScene(t, []string{"hips", "spine", "head"}, "hips", "head")
	objects := len(ctx.Scene.GameObjects)

	op := &RemeshedRagdollOperator{HideOriginalMesh: true, VoxelSize: 0.1, CollisionShape: components.ShapeConvexHull}
	status, err := op.Execute(ctx)
	if err != nil {
		t.Fatalf("Missing groups should be reported, not returned: %v", err)
	}
	if status != StatusCancelled {
		t.Errorf("Expected CANCELLED, got %s", status)
	}
	if rep := ctx.LastReport(); rep.Level != ReportError || rep.Message != `Missing vertex group "spine"` {
		t.Errorf("Unexpected report %+v", rep)
	}

	if len(ctx.Ragdolls) != 0 {
		t.Error("No ragdoll should be recorded")
	}
	if len(ctx.Scene.GameObjects) != objects {
		t.Errorf("Expected %d objects after rollback, got %d", objects, len(ctx.Scene.GameObjects))
	}
	if len(ctx.Scene.Collections()) != 0 || len(ctx.Scene.Collection.Children) != 0 {
		t.Error("Collections should be removed")
	}
	if obj.Prop(EnabledProp) != nil {
		t.Error("Control flag should be removed")
	}
	if len(obj.Children) != 0 {
		t.Error("Armature should have no children left")
	}
	for _, pb := range arm.PoseBones {
		if len(pb.Constraints) != 0 {
			t.Errorf("%s: constraints left behind", pb.Name())
		}
	}
	if len(ctx.Physics.Bodies) != 0 || len(ctx.Physics.Constraints) != 0 {
		t.Error("Physics world should be empty")
	}
	if arm.PosePosition != rig.PosePose {
		t.Error("Armature should be back in pose position")
	}
	if !donor.Visible {
		t.Error("Donor should not be hidden")
	}
	if !ctx.Scene.IsSelected(obj) || !ctx.Scene.IsSelected(donor) || ctx.Scene.Active != donor {
		t.Error("Selection should be restored")
	}
}

func TestRemeshedSelection(t *testing.T) {
	names := []string{"root"}
	ctx, _, _, _ := remeshedScene(t, names, names...)
	extra := engine.NewGameObject("Empty")
	ctx.Scene.AddGameObject(extra)
	ctx.Scene.Select(extra, true)

	op := &RemeshedRagdollOperator{VoxelSize: 0.1, CollisionShape: components.ShapeConvexHull}
	status, err := op.Execute(ctx)
	if err != nil || status != StatusCancelled {
		t.Fatalf("Expected CANCELLED without error, got %s %v", status, err)
	}
	if rep := ctx.LastReport(); rep.Message != "Select an armature and a mesh" {
		t.Errorf("Unexpected report %+v", rep)
	}
	if len(ctx.Scene.Collections()) != 0 {
		t.Error("Nothing should be built")
	}

	// two meshes are not an armature and a mesh
	ctx2, obj, _, donor := remeshedScene(t, names, names...)
	ctx2.Scene.Select(obj, false)
	other := addDonor(ctx2.Scene, chainSkeleton(t, "root"), "root")
	ctx2.Scene.Select(other, true)
	ctx2.Scene.Select(donor, true)
	if status, _ := op.Execute(ctx2); status != StatusCancelled {
		t.Errorf("Expected CANCELLED for two meshes, got %s", status)
	}
}

func TestRemeshedInvalidVoxelSize(t *testing.T) {
	names := []string{"root"}
	ctx, _, _, _ := remeshedScene(t, names, names...)

	op := &RemeshedRagdollOperator{Remesh: true, VoxelSize: 0, CollisionShape: components.ShapeConvexHull}
	status, err := op.Execute(ctx)
	if err != nil || status != StatusCancelled {
		t.Fatalf("Expected CANCELLED without error, got %s %v", status, err)
	}
	if rep := ctx.LastReport(); rep.Message != "Voxel size must be greater than zero" {
		t.Errorf("Unexpected report %+v", rep)
	}
}

func TestRemeshedInvalidCollisionShape(t *testing.T) {
	names := []string{"root"}
	ctx, _, _, _ := remeshedScene(t, names, names...)

	op := &RemeshedRagdollOperator{VoxelSize: 0.1, CollisionShape: components.ShapeBox}
	if status, err := op.Execute(ctx); err == nil || status != StatusCancelled {
		t.Errorf("Expected an error for BOX, got %s %v", status, err)
	}
}

func TestVoxelBudgetRollsBack(t *testing.T) {
	names := []string{"root", "mid"}
	ctx, obj, _, _ := remeshedScene(t, names, names...)
	ctx.Settings.Remesh.MaxVoxels = 10
	objects := len(ctx.Scene.GameObjects)

	op := &RemeshedRagdollOperator{Remesh: true, VoxelSize: 0.1, CollisionShape: components.ShapeMesh}
	status, err := op.Execute(ctx)
	if !errors.Is(err, mesh.ErrVoxelBudget) {
		t.Fatalf("Expected voxel budget error, got %v", err)
	}
	if status != StatusCancelled {
		t.Errorf("Expected CANCELLED, got %s", status)
	}
	if len(ctx.Scene.GameObjects) != objects || obj.Prop(EnabledProp) != nil {
		t.Error("Scene should be rolled back")
	}
}

func TestTinyVoxelSizeRollsBack(t *testing.T) {
	names := []string{"root", "mid"}
	ctx, obj, _, _ := remeshedScene(t, names, names...)
	ctx.Settings.Remesh.MaxVoxels = 0
	objects := len(ctx.Scene.GameObjects)

	op := &RemeshedRagdollOperator{Remesh: true, VoxelSize: 1e-7, CollisionShape: components.ShapeConvexHull}
	if _, err := op.Execute(ctx); !errors.Is(err, mesh.ErrVoxelBudget) {
		t.Fatalf("Expected voxel budget error, got %v", err)
	}
	if len(ctx.Scene.GameObjects) != objects || obj.Prop(EnabledProp) != nil {
		t.Error("Scene should be rolled back")
	}
}

func TestUndo(t *testing.T) {
	names := []string{"root", "mid", "tip"}
	ctx, obj, arm, donor := remeshedScene(t, names, names...)
	objects := len(ctx.Scene.GameObjects)

	op := &RemeshedRagdollOperator{HideOriginalMesh: true, VoxelSize: 0.1, CollisionShape: components.ShapeConvexHull}
	if status, err := op.Execute(ctx); err != nil || status != StatusFinished {
		t.Fatalf("Expected FINISHED, got %s %v", status, err)
	}
	if len(ctx.Scene.GameObjects) == objects {
		t.Fatal("Build should add objects")
	}

	if !ctx.Undo() {
		t.Fatal("Undo should succeed")
	}
	if len(ctx.Scene.GameObjects) != objects {
		t.Errorf("Expected %d objects after undo, got %d", objects, len(ctx.Scene.GameObjects))
	}
	if !donor.Visible {
		t.Error("Donor should be visible again")
	}
	if obj.Prop(EnabledProp) != nil || len(ctx.Ragdolls) != 0 {
		t.Error("Ragdoll state should be gone")
	}
	for _, pb := range arm.PoseBones {
		if len(pb.Constraints) != 0 {
			t.Errorf("%s: constraints left behind", pb.Name())
		}
	}
	if ctx.Undo() {
		t.Error("Second undo should have nothing to revert")
	}
}

func TestUndoStackIsBounded(t *testing.T) {
	ctx := newTestContext()
	obj, _ := addArmature(ctx.Scene, chainSkeleton(t, "root"))
	ctx.Scene.SelectSingle(obj)

	op := &SimpleRagdollOperator{SegmentShape: components.ShapeCylinder}
	for i := 0; i < maxUndoStack+5; i++ {
		if status, err := op.Execute(ctx); err != nil || status != StatusFinished {
			t.Fatalf("build %d failed: %s %v", i, status, err)
		}
	}
	undone := 0
	for ctx.Undo() {
		undone++
	}
	if undone != maxUndoStack {
		t.Errorf("Expected %d undos, got %d", maxUndoStack, undone)
	}
	if len(ctx.Ragdolls) != 5 {
		t.Errorf("Expected 5 ragdolls beyond the undo stack, got %d", len(ctx.Ragdolls))
	}
}

func TestOperatorsFromSettings(t *testing.T) {
	s := config.Default()
	simple, err := SimpleFromSettings(s)
	if err != nil || simple.SegmentShape != components.ShapeBox {
		t.Errorf("Unexpected simple operator %+v %v", simple, err)
	}
	remeshed, err := RemeshedFromSettings(s)
	if err != nil {
		t.Fatal(err)
	}
	if remeshed.CollisionShape != components.ShapeConvexHull || !remeshed.Remesh || remeshed.VoxelSize != 0.1 {
		t.Errorf("Unexpected remeshed operator %+v", remeshed)
	}

	s.Simple.Shape = "MESH"
	if _, err := SimpleFromSettings(s); err == nil {
		t.Error("MESH is not a primitive segment shape")
	}
	s.Remeshed.CollisionShape = "SPHERE"
	if _, err := RemeshedFromSettings(s); err == nil {
		t.Error("SPHERE is not a collision shape")
	}
	s.Remeshed.CollisionShape = "capsule"
	if _, err := RemeshedFromSettings(s); err == nil {
		t.Error("CAPSULE is not allowed for weight-region segments")
	}
}

func TestNewOperator(t *testing.T) {
	s := config.Default()
	if op, err := NewOperator("simple", s); err != nil {
		t.Errorf("simple: %v", err)
	} else if _, ok := op.(*SimpleRagdollOperator); !ok {
		t.Errorf("Expected *SimpleRagdollOperator, got %T", op)
	}
	if op, err := NewOperator("remeshed", s); err != nil {
		t.Errorf("remeshed: %v", err)
	} else if _, ok := op.(*RemeshedRagdollOperator); !ok {
		t.Errorf("Expected *RemeshedRagdollOperator, got %T", op)
	}
	if _, err := NewOperator("explode", s); err == nil {
		t.Error("Expected an error for an unknown command")
	}

	s.Simple.Shape = "SPHERE"
	op, err := NewOperator("simple", s)
	if err == nil {
		t.Fatal("Expected an error for an invalid shape")
	}
	if op != nil {
		t.Errorf("Expected a nil operator on error, got %#v", op)
	}
}
