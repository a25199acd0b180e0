package rig

import (
	"fmt"

	"autoragdoll/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Constraint adjusts a pose bone's world matrix toward a target object.
type Constraint interface {
	Kind() string
	TargetRef() engine.GameObjectRef
	Influence() float32
	SetFloat(path string, v float32) error
	Float(path string) (float32, error)
	apply(world rl.Matrix, scene *engine.Scene) rl.Matrix
}

type influence struct {
	value float32
}

func (i *influence) Influence() float32 { return i.value }

func (i *influence) SetFloat(path string, v float32) error {
	if path != "influence" {
		return fmt.Errorf("constraint has no float property %q", path)
	}
	i.value = v
	return nil
}

func (i *influence) Float(path string) (float32, error) {
	if path != "influence" {
		return 0, fmt.Errorf("constraint has no float property %q", path)
	}
	return i.value, nil
}

// CopyRotation makes the bone take its target's world rotation.
type CopyRotation struct {
	influence
	Target engine.GameObjectRef
}

func NewCopyRotation(target *engine.GameObject) *CopyRotation {
	return &CopyRotation{influence: influence{value: 1}, Target: engine.RefTo(target)}
}

func (c *CopyRotation) Kind() string                    { return "COPY_ROTATION" }
func (c *CopyRotation) TargetRef() engine.GameObjectRef { return c.Target }

func (c *CopyRotation) apply(world rl.Matrix, scene *engine.Scene) rl.Matrix {
	target := c.Target.Get(scene)
	if target == nil {
		return world
	}
	t, _, s := engine.Decompose(world)
	_, r, _ := engine.Decompose(target.WorldMatrix())
	return engine.Blend(world, engine.Compose(t, r, s), c.value)
}

// ChildOf makes the bone follow its target's full transform as if parented.
// Inverse is captured when the constraint is bound so the bone does not jump.
type ChildOf struct {
	influence
	Target   engine.GameObjectRef
	UseScale [3]bool
	Inverse  rl.Matrix
}

func NewChildOf(target *engine.GameObject) *ChildOf {
	return &ChildOf{
		influence: influence{value: 1},
		Target:    engine.RefTo(target),
		UseScale:  [3]bool{true, true, true},
		Inverse:   rl.MatrixIdentity(),
	}
}

func (c *ChildOf) Kind() string                    { return "CHILD_OF" }
func (c *ChildOf) TargetRef() engine.GameObjectRef { return c.Target }

// SetInverse records the inverse of the target's current world matrix.
func (c *ChildOf) SetInverse(scene *engine.Scene) {
	target := c.Target.Get(scene)
	if target == nil {
		return
	}
	c.Inverse = rl.MatrixInvert(c.targetMatrix(target))
}

func (c *ChildOf) targetMatrix(target *engine.GameObject) rl.Matrix {
	m := target.WorldMatrix()
	if c.UseScale == [3]bool{true, true, true} {
		return m
	}
	t, r, s := engine.Decompose(m)
	if !c.UseScale[0] {
		s.X = 1
	}
	if !c.UseScale[1] {
		s.Y = 1
	}
	if !c.UseScale[2] {
		s.Z = 1
	}
	return engine.Compose(t, r, s)
}

func (c *ChildOf) apply(world rl.Matrix, scene *engine.Scene) rl.Matrix {
	target := c.Target.Get(scene)
	if target == nil {
		return world
	}
	followed := engine.Mul(c.targetMatrix(target), engine.Mul(c.Inverse, world))
	return engine.Blend(world, followed, c.value)
}
