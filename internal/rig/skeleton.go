// Package rig models skeletons: bones with rest transforms, the armature
// component that owns them, and pose-bone constraints.
package rig

import (
	"fmt"

	"autoragdoll/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Bone is one link of a skeleton. Its Y axis runs from head to tail.
type Bone struct {
	Name     string
	Parent   *Bone
	Children []*Bone
	Rest     rl.Matrix // head frame relative to the parent's head frame; armature space for roots
	Length   float32
}

// MatrixLocal returns the bone's rest head frame in armature space.
func (b *Bone) MatrixLocal() rl.Matrix {
	if b.Parent == nil {
		return b.Rest
	}
	return engine.Mul(b.Parent.MatrixLocal(), b.Rest)
}

// Head returns the armature-space rest position of the bone's root.
func (b *Bone) Head() rl.Vector3 {
	m := b.MatrixLocal()
	return rl.Vector3{X: m.M12, Y: m.M13, Z: m.M14}
}

// Tail returns the armature-space rest position of the bone's tip.
func (b *Bone) Tail() rl.Vector3 {
	return rl.Vector3Transform(rl.Vector3{Y: b.Length}, b.MatrixLocal())
}

// Skeleton owns an ordered set of bones; parents always precede children.
type Skeleton struct {
	Bones  []*Bone
	byName map[string]*Bone
}

func NewSkeleton() *Skeleton {
	return &Skeleton{byName: make(map[string]*Bone)}
}

// AddBone appends a bone. parent may be empty for a root; otherwise it must
// name a bone already in the skeleton, which keeps the hierarchy acyclic.
func (s *Skeleton) AddBone(name, parent string, rest rl.Matrix, length float32) (*Bone, error) {
	if name == "" {
		return nil, fmt.Errorf("bone name is empty")
	}
	if _, exists := s.byName[name]; exists {
		return nil, fmt.Errorf("duplicate bone %q", name)
	}
	b := &Bone{Name: name, Rest: rest, Length: length}
	if parent != "" {
		p, ok := s.byName[parent]
		if !ok {
			return nil, fmt.Errorf("bone %q: unknown parent %q", name, parent)
		}
		b.Parent = p
		p.Children = append(p.Children, b)
	}
	s.Bones = append(s.Bones, b)
	s.byName[name] = b
	return b, nil
}

// AddBoneHeadTail adds a bone from armature-space head/tail positions and a
// roll angle in radians about the head-to-tail axis.
func (s *Skeleton) AddBoneHeadTail(name, parent string, head, tail rl.Vector3, roll float32) (*Bone, error) {
	world, length := FromHeadTail(head, tail, roll)
	if length == 0 {
		return nil, fmt.Errorf("bone %q has zero length", name)
	}
	rest := world
	if parent != "" {
		p, ok := s.byName[parent]
		if !ok {
			return nil, fmt.Errorf("bone %q: unknown parent %q", name, parent)
		}
		rest = engine.Mul(rl.MatrixInvert(p.MatrixLocal()), world)
	}
	return s.AddBone(name, parent, rest, length)
}

func (s *Skeleton) Bone(name string) *Bone {
	return s.byName[name]
}

// Roots returns the bones without a parent, in skeleton order.
func (s *Skeleton) Roots() []*Bone {
	var roots []*Bone
	for _, b := range s.Bones {
		if b.Parent == nil {
			roots = append(roots, b)
		}
	}
	return roots
}

var yAxis = rl.Vector3{Y: 1}

// FromHeadTail returns the head frame whose Y axis points from head to tail,
// rolled about that axis, and the bone length.
func FromHeadTail(head, tail rl.Vector3, roll float32) (rl.Matrix, float32) {
	d := rl.Vector3Subtract(tail, head)
	length := rl.Vector3Length(d)
	if length == 0 {
		return rl.MatrixTranslate(head.X, head.Y, head.Z), 0
	}
	dir := rl.Vector3Scale(d, 1/length)

	var align rl.Quaternion
	if rl.Vector3DotProduct(yAxis, dir) < -0.9999 {
		align = rl.QuaternionFromAxisAngle(rl.Vector3{Z: 1}, rl.Pi)
	} else {
		align = rl.QuaternionFromVector3ToVector3(yAxis, dir)
	}
	rot := rl.QuaternionMultiply(rl.QuaternionFromAxisAngle(dir, roll), align)
	return engine.Mul(rl.MatrixTranslate(head.X, head.Y, head.Z), rl.QuaternionToMatrix(rot)), length
}
