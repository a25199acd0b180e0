package ragdoll

import (
	"fmt"
	"math"

	"autoragdoll/internal/components"
	"autoragdoll/internal/engine"
	"autoragdoll/internal/mesh"
	"autoragdoll/internal/rig"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Segment is the rigid proxy generated for one bone.
type Segment struct {
	Bone   *rig.Bone
	Object *engine.GameObject
	Body   *components.RigidBody
}

// SegmentBuilder produces the segment object for a bone.
type SegmentBuilder interface {
	// Mode names the strategy in logs and exports.
	Mode() string
	// AnchorOffset is the local rotation of the anchor a rotation binding
	// targets instead of the segment itself; false means no anchor.
	AnchorOffset() (rl.Matrix, bool)

	buildSegment(c *construction, bone *rig.Bone) (*engine.GameObject, error)
	finish(c *construction)
}

// PrimitiveSegments builds one cube-meshed segment per bone, sized from the
// bone length and tagged with a primitive collision shape.
type PrimitiveSegments struct {
	Shape       components.CollisionShape
	LengthRatio float32 // share of the bone length the segment spans
	RadiusRatio float32 // half-width as a share of the bone length
}

func (p *PrimitiveSegments) Mode() string { return "primitive" }

// The segment's long axis is its local Z; the anchor turns it back onto the bone's Y.
func (p *PrimitiveSegments) AnchorOffset() (rl.Matrix, bool) {
	return rl.MatrixRotateX(math.Pi / 2), true
}

func (p *PrimitiveSegments) buildSegment(c *construction, bone *rig.Bone) (*engine.GameObject, error) {
	radius := p.RadiusRatio * bone.Length
	halfLength := bone.Length / 2 * p.LengthRatio

	data := mesh.NewCube(bone.Name + " collider")
	data.Transform(rl.MatrixScale(radius, radius, halfLength))

	seg := engine.NewGameObject(bone.Name)
	seg.AddComponent(components.NewMeshFilter(data))
	seg.DisplayType = engine.DisplayWire
	seg.HideRender = true
	c.addSegmentObject(seg)

	c.armatureObject.AddChild(seg)
	seg.SetWorldMatrix(engine.Mul(c.armatureWorld, engine.Mul(BoneCenterMatrix(bone), rl.MatrixRotateX(-math.Pi/2))))

	c.physics.AddRigidBody(seg, components.BodyActive, p.Shape)
	return seg, nil
}

func (p *PrimitiveSegments) finish(c *construction) {}

// WeightRegionSegments carves each segment out of a copy of Donor, keeping
// the vertices painted to the bone's vertex group.
type WeightRegionSegments struct {
	Donor          *engine.GameObject
	Threshold      float32
	Remesh         bool
	VoxelSize      float32
	MaxVoxels      int
	CollisionShape components.CollisionShape
	HideDonor      bool
}

func (w *WeightRegionSegments) Mode() string { return "weight-region" }

// Segments keep the donor orientation, so bindings target them directly.
func (w *WeightRegionSegments) AnchorOffset() (rl.Matrix, bool) {
	return rl.MatrixIdentity(), false
}

func (w *WeightRegionSegments) buildSegment(c *construction, bone *rig.Bone) (*engine.GameObject, error) {
	donor := engine.GetComponent[*components.MeshFilter](w.Donor)
	if donor == nil {
		panic(fmt.Sprintf("donor %q has no mesh", w.Donor.Name))
	}

	name := bone.Name + " collider"
	data := donor.Mesh.Copy()
	data.Name = name
	mf := components.NewMeshFilter(data)
	mf.Modifiers = append([]mesh.Modifier(nil), donor.Modifiers...)

	seg := engine.NewGameObject(name)
	seg.AddComponent(mf)
	seg.DisplayType = w.Donor.DisplayType
	seg.HideRender = w.Donor.HideRender
	c.addSegmentObject(seg)
	if w.Donor.Parent != nil {
		w.Donor.Parent.AddChild(seg)
		seg.ParentBone = w.Donor.ParentBone
	}
	seg.Local = w.Donor.Local

	if err := mf.Convert(); err != nil {
		return nil, fmt.Errorf("segment %q: %w", name, err)
	}

	group := mf.Mesh.GroupIndex(bone.Name)
	if group < 0 {
		return nil, newError("Missing vertex group %q", bone.Name)
	}
	IsolateWeightRegion(mf.Mesh, group, w.Threshold)

	// Place the origin at the bone center, keeping the geometry where it is
	target := engine.Mul(c.armatureWorld, BoneCenterMatrix(bone))
	RebaseOrigin(seg, engine.Mul(rl.MatrixInvert(seg.WorldMatrix()), target))

	PruneLooseGeometry(mf.Mesh)

	if w.Remesh {
		mf.Modifiers = append(mf.Modifiers, mesh.Remesh{VoxelSize: w.VoxelSize, MaxVoxels: w.MaxVoxels})
		if err := mf.Convert(); err != nil {
			return nil, fmt.Errorf("segment %q: %w", name, err)
		}
	}

	c.physics.AddRigidBody(seg, components.BodyActive, w.CollisionShape)
	return seg, nil
}

func (w *WeightRegionSegments) finish(c *construction) {
	if w.HideDonor {
		c.journal.hide(w.Donor)
	}
}
