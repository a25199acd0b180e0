package ragdoll

import (
	"fmt"

	"autoragdoll/internal/components"
	"autoragdoll/internal/driver"
	"autoragdoll/internal/engine"
	"autoragdoll/internal/rig"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Joint links a segment to the segment of its bone's parent.
type Joint struct {
	Parent     *Segment
	Child      *Segment
	Object     *engine.GameObject
	Constraint *components.RigidBodyConstraint
	Driver     *driver.Driver
}

// Binding ties a pose bone to its segment. Root bones follow the segment's
// full transform; other bones copy its rotation, through Anchor when set.
type Binding struct {
	Segment    *Segment
	PoseBone   *rig.PoseBone
	Constraint rig.Constraint
	Anchor     *engine.GameObject
	Driver     *driver.Driver
}

// Full reports whether the binding carries position as well as rotation.
func (b *Binding) Full() bool {
	_, ok := b.Constraint.(*rig.ChildOf)
	return ok
}

// connect binds every pose bone to its segment and creates one joint per
// segment whose bone has a parent with a segment.
func (c *construction) connect(segments SegmentBuilder) error {
	r := c.ragdoll
	byBone := make(map[*rig.Bone]*Segment, len(r.Segments))
	for _, s := range r.Segments {
		byBone[s.Bone] = s
	}

	offset, useAnchor := segments.AnchorOffset()
	for _, s := range r.Segments {
		pb := c.armature.PoseBone(s.Bone.Name)
		if pb == nil || pb.Bone != s.Bone {
			panic(fmt.Sprintf("segment %q: bone %q is not part of armature %q", s.Object.Name, s.Bone.Name, c.armatureObject.Name))
		}

		binding := &Binding{Segment: s, PoseBone: pb}
		if s.Bone.Parent == nil {
			co := rig.NewChildOf(s.Object)
			co.UseScale = [3]bool{}
			co.SetInverse(c.scene)
			binding.Constraint = co
		} else {
			target := s.Object
			if useAnchor {
				binding.Anchor = c.anchor(s, offset)
				target = binding.Anchor
			}
			binding.Constraint = rig.NewCopyRotation(target)
		}
		c.journal.addPoseConstraint(pb, binding.Constraint)

		d, err := r.Controller.BindInfluence(c.armatureObject, binding.Constraint)
		if err != nil {
			return err
		}
		binding.Driver = d
		r.Bindings = append(r.Bindings, binding)

		if s.Bone.Parent == nil {
			continue
		}
		if parent, ok := byBone[s.Bone.Parent]; ok {
			if err := c.joint(parent, s); err != nil {
				return err
			}
		}
	}
	return nil
}

// anchor creates the zero-mass empty a rotation binding targets, parented to
// the segment and turned by offset.
func (c *construction) anchor(s *Segment, offset rl.Matrix) *engine.GameObject {
	empty := engine.NewGameObject(s.Object.Name + " offset empty")
	empty.AddComponent(components.NewEmpty(components.EmptySingleArrow, c.displayRatio*s.Bone.Length))
	c.addSegmentObject(empty)
	s.Object.AddChild(empty)
	empty.Local = offset
	return empty
}

// joint creates the constraint empty between parent and child at the child
// bone's head.
func (c *construction) joint(parent, child *Segment) error {
	r := c.ragdoll
	obj := engine.NewGameObject(parent.Object.Name + " & " + child.Object.Name)
	obj.AddComponent(components.NewEmpty(components.EmptyArrows, c.displayRatio*child.Bone.Length))
	c.addJointObject(obj)
	c.armatureObject.AddChild(obj)
	obj.SetWorldMatrix(engine.Mul(c.armatureWorld, child.Bone.MatrixLocal()))

	con := c.physics.AddConstraint(obj, components.ConstraintGeneric)
	con.Object1.Set(parent.Object)
	con.Object2.Set(child.Object)
	con.DisableCollisions = false
	con.LockLinear()
	con.FreeAngular()

	d, err := r.Controller.BindInfluence(obj, con)
	if err != nil {
		return err
	}
	r.Joints = append(r.Joints, &Joint{
		Parent:     parent,
		Child:      child,
		Object:     obj,
		Constraint: con,
		Driver:     d,
	})
	c.log.Debug().Str("joint", obj.Name).Msg("joint created")
	return nil
}
