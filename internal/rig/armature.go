package rig

import (
	"autoragdoll/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// PosePosition selects whether the armature shows its rest or posed state.
type PosePosition int

const (
	PosePose PosePosition = iota
	PoseRest
)

func (p PosePosition) String() string {
	if p == PoseRest {
		return "REST"
	}
	return "POSE"
}

// PoseBone is the posed counterpart of a Bone and carries its constraints.
type PoseBone struct {
	Bone        *Bone
	Matrix      rl.Matrix // evaluated armature-space head frame
	Constraints []Constraint
}

func (p *PoseBone) Name() string { return p.Bone.Name }

func (p *PoseBone) AddConstraint(c Constraint) {
	p.Constraints = append(p.Constraints, c)
}

func (p *PoseBone) RemoveConstraint(c Constraint) bool {
	for i, existing := range p.Constraints {
		if existing == c {
			p.Constraints = append(p.Constraints[:i], p.Constraints[i+1:]...)
			return true
		}
	}
	return false
}

// Armature makes a GameObject an ARMATURE carrying a skeleton.
type Armature struct {
	engine.BaseComponent
	Skeleton     *Skeleton
	PosePosition PosePosition
	PoseBones    []*PoseBone
	byName       map[string]*PoseBone
}

func NewArmature(s *Skeleton) *Armature {
	a := &Armature{
		Skeleton:  s,
		PoseBones: make([]*PoseBone, 0, len(s.Bones)),
		byName:    make(map[string]*PoseBone, len(s.Bones)),
	}
	for _, b := range s.Bones {
		pb := &PoseBone{Bone: b, Matrix: b.MatrixLocal()}
		a.PoseBones = append(a.PoseBones, pb)
		a.byName[b.Name] = pb
	}
	return a
}

func (a *Armature) ObjectType() string { return "ARMATURE" }

func (a *Armature) PoseBone(name string) *PoseBone {
	return a.byName[name]
}

// BoneMatrix returns the evaluated armature-space frame of the named bone.
func (a *Armature) BoneMatrix(name string) (rl.Matrix, bool) {
	pb, ok := a.byName[name]
	if !ok {
		return rl.Matrix{}, false
	}
	return pb.Matrix, true
}

// Evaluate recomputes every pose bone. In rest position constraints are ignored.
func (a *Armature) Evaluate() {
	g := a.GetGameObject()
	armWorld := rl.MatrixIdentity()
	var scene *engine.Scene
	if g != nil {
		armWorld = g.WorldMatrix()
		scene = g.Scene
	}
	invArm := rl.MatrixInvert(armWorld)

	for _, pb := range a.PoseBones {
		local := pb.Bone.Rest
		if parent := pb.Bone.Parent; parent != nil {
			local = engine.Mul(a.byName[parent.Name].Matrix, pb.Bone.Rest)
		}
		if a.PosePosition == PoseRest || scene == nil || len(pb.Constraints) == 0 {
			pb.Matrix = local
			continue
		}
		world := engine.Mul(armWorld, local)
		for _, c := range pb.Constraints {
			world = c.apply(world, scene)
		}
		pb.Matrix = engine.Mul(invArm, world)
	}
}

func (a *Armature) Update(deltaTime float32) {
	a.Evaluate()
}

func (a *Armature) TypeName() string { return "Armature" }

func (a *Armature) Serialize() map[string]any {
	bones := make([]map[string]any, 0, len(a.PoseBones))
	for _, pb := range a.PoseBones {
		parent := ""
		if pb.Bone.Parent != nil {
			parent = pb.Bone.Parent.Name
		}
		constraints := make([]map[string]any, 0, len(pb.Constraints))
		for _, c := range pb.Constraints {
			constraints = append(constraints, map[string]any{
				"type":      c.Kind(),
				"target":    c.TargetRef().UID,
				"influence": c.Influence(),
			})
		}
		bones = append(bones, map[string]any{
			"name":        pb.Bone.Name,
			"parent":      parent,
			"length":      pb.Bone.Length,
			"head":        vec(pb.Bone.Head()),
			"tail":        vec(pb.Bone.Tail()),
			"constraints": constraints,
		})
	}
	return map[string]any{
		"type":         "Armature",
		"posePosition": a.PosePosition.String(),
		"bones":        bones,
	}
}

func vec(v rl.Vector3) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}
