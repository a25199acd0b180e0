package components

import (
	"autoragdoll/internal/engine"
)

// BodyType is the rigid body simulation role.
type BodyType int

const (
	BodyActive BodyType = iota
	BodyPassive
)

func (b BodyType) String() string {
	if b == BodyPassive {
		return "PASSIVE"
	}
	return "ACTIVE"
}

// CollisionShape is the collider classification handed to the solver.
type CollisionShape string

const (
	ShapeBox        CollisionShape = "BOX"
	ShapeCapsule    CollisionShape = "CAPSULE"
	ShapeCylinder   CollisionShape = "CYLINDER"
	ShapeConvexHull CollisionShape = "CONVEX_HULL"
	ShapeMesh       CollisionShape = "MESH"
)

// ParseCollisionShape accepts the upper-case shape names.
func ParseCollisionShape(s string) (CollisionShape, bool) {
	switch cs := CollisionShape(s); cs {
	case ShapeBox, ShapeCapsule, ShapeCylinder, ShapeConvexHull, ShapeMesh:
		return cs, true
	}
	return "", false
}

// Primitive reports whether the shape is sized from the object bounds
// rather than taken from the mesh.
func (c CollisionShape) Primitive() bool {
	return c == ShapeBox || c == ShapeCapsule || c == ShapeCylinder
}

type RigidBody struct {
	engine.BaseComponent
	Type           BodyType
	CollisionShape CollisionShape
	Mass           float32
	Friction       float32
	Bounciness     float32
	Enabled        bool
}

func NewRigidBody(bodyType BodyType, shape CollisionShape) *RigidBody {
	return &RigidBody{
		Type:           bodyType,
		CollisionShape: shape,
		Mass:           1.0,
		Friction:       0.5,
		Bounciness:     0,
		Enabled:        true,
	}
}

// TypeName implements engine.Serializable
func (r *RigidBody) TypeName() string {
	return "RigidBody"
}

// Serialize implements engine.Serializable
func (r *RigidBody) Serialize() map[string]any {
	return map[string]any{
		"type":           "RigidBody",
		"bodyType":       r.Type.String(),
		"collisionShape": string(r.CollisionShape),
		"mass":           r.Mass,
		"friction":       r.Friction,
		"bounciness":     r.Bounciness,
		"enabled":        r.Enabled,
	}
}
