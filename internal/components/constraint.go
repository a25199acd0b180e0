package components

import (
	"fmt"

	"autoragdoll/internal/engine"
)

// ConstraintType is the rigid body constraint kind. Only GENERIC is produced.
type ConstraintType string

const ConstraintGeneric ConstraintType = "GENERIC"

// Axis limits are indexed X, Y, Z.
type RigidBodyConstraint struct {
	engine.BaseComponent
	Type              ConstraintType
	Object1           engine.GameObjectRef
	Object2           engine.GameObjectRef
	DisableCollisions bool

	UseLimitLin   [3]bool
	LimitLinLower [3]float32
	LimitLinUpper [3]float32

	UseLimitAng   [3]bool
	LimitAngLower [3]float32 // radians
	LimitAngUpper [3]float32

	influence float32
}

func NewRigidBodyConstraint(t ConstraintType) *RigidBodyConstraint {
	return &RigidBodyConstraint{
		Type:              t,
		DisableCollisions: true,
		influence:         1,
	}
}

// LockLinear limits translation on every axis to [0,0].
func (c *RigidBodyConstraint) LockLinear() {
	for i := range c.UseLimitLin {
		c.UseLimitLin[i] = true
		c.LimitLinLower[i] = 0
		c.LimitLinUpper[i] = 0
	}
}

// FreeAngular removes every rotation limit.
func (c *RigidBodyConstraint) FreeAngular() {
	for i := range c.UseLimitAng {
		c.UseLimitAng[i] = false
		c.LimitAngLower[i] = 0
		c.LimitAngUpper[i] = 0
	}
}

// Enabled reports whether the solver should honour the constraint.
func (c *RigidBodyConstraint) Enabled() bool {
	return c.influence > 0
}

func (c *RigidBodyConstraint) Influence() float32 {
	return c.influence
}

func (c *RigidBodyConstraint) SetFloat(path string, v float32) error {
	if path != "influence" {
		return fmt.Errorf("rigid body constraint has no float property %q", path)
	}
	c.influence = v
	return nil
}

func (c *RigidBodyConstraint) Float(path string) (float32, error) {
	if path != "influence" {
		return 0, fmt.Errorf("rigid body constraint has no float property %q", path)
	}
	return c.influence, nil
}

// TypeName implements engine.Serializable
func (c *RigidBodyConstraint) TypeName() string {
	return "RigidBodyConstraint"
}

// Serialize implements engine.Serializable
func (c *RigidBodyConstraint) Serialize() map[string]any {
	return map[string]any{
		"type":              "RigidBodyConstraint",
		"constraintType":    string(c.Type),
		"object1":           c.Object1.UID,
		"object2":           c.Object2.UID,
		"disableCollisions": c.DisableCollisions,
		"useLimitLin":       c.UseLimitLin,
		"limitLinLower":     c.LimitLinLower,
		"limitLinUpper":     c.LimitLinUpper,
		"useLimitAng":       c.UseLimitAng,
		"limitAngLower":     c.LimitAngLower,
		"limitAngUpper":     c.LimitAngUpper,
		"influence":         c.influence,
	}
}
