// Package physics is the rigid-body registry the ragdoll builder writes to.
// It records bodies and constraints and answers spatial queries about them;
// simulation is left to whichever solver consumes the scene.
package physics

import (
	"fmt"
	"sort"

	"autoragdoll/internal/components"
	"autoragdoll/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// CollisionPair represents two bodies whose bounds overlap
type CollisionPair struct {
	A, B *engine.GameObject
}

// makePair creates a consistent collision pair (smaller UID first)
func makePair(a, b *engine.GameObject) CollisionPair {
	if a.UID > b.UID {
		return CollisionPair{A: b, B: a}
	}
	return CollisionPair{A: a, B: b}
}

type PhysicsWorld struct {
	Gravity     rl.Vector3
	Bodies      []*engine.GameObject // objects carrying a RigidBody
	Constraints []*engine.GameObject // objects carrying a RigidBodyConstraint
}

func NewPhysicsWorld() *PhysicsWorld {
	return &PhysicsWorld{
		Gravity:     rl.Vector3{X: 0, Y: 0, Z: -9.81},
		Bodies:      make([]*engine.GameObject, 0),
		Constraints: make([]*engine.GameObject, 0),
	}
}

// AddRigidBody attaches a RigidBody to g and registers it.
func (p *PhysicsWorld) AddRigidBody(g *engine.GameObject, bodyType components.BodyType, shape components.CollisionShape) *components.RigidBody {
	rb := engine.GetComponent[*components.RigidBody](g)
	if rb == nil {
		rb = components.NewRigidBody(bodyType, shape)
		g.AddComponent(rb)
	} else {
		rb.Type = bodyType
		rb.CollisionShape = shape
	}
	if !contains(p.Bodies, g) {
		p.Bodies = append(p.Bodies, g)
	}
	return rb
}

// AddConstraint attaches a RigidBodyConstraint to g and registers it.
func (p *PhysicsWorld) AddConstraint(g *engine.GameObject, t components.ConstraintType) *components.RigidBodyConstraint {
	c := engine.GetComponent[*components.RigidBodyConstraint](g)
	if c == nil {
		c = components.NewRigidBodyConstraint(t)
		g.AddComponent(c)
	} else {
		c.Type = t
	}
	if !contains(p.Constraints, g) {
		p.Constraints = append(p.Constraints, g)
	}
	return c
}

// RemoveObject unregisters g as a body or a constraint holder.
func (p *PhysicsWorld) RemoveObject(g *engine.GameObject) {
	p.Bodies = without(p.Bodies, g)
	p.Constraints = without(p.Constraints, g)
}

// HasBody reports whether g is a registered body.
func (p *PhysicsWorld) HasBody(g *engine.GameObject) bool {
	return contains(p.Bodies, g)
}

// Validate checks that every registered constraint links two distinct
// registered bodies that still exist in scene.
func (p *PhysicsWorld) Validate(scene *engine.Scene) error {
	for _, g := range p.Constraints {
		c := engine.GetComponent[*components.RigidBodyConstraint](g)
		if c == nil {
			return fmt.Errorf("constraint %q: component missing", g.Name)
		}
		a, b := c.Object1.Get(scene), c.Object2.Get(scene)
		if a == nil || b == nil {
			return fmt.Errorf("constraint %q: unresolved body", g.Name)
		}
		if a == b {
			return fmt.Errorf("constraint %q: links %q to itself", g.Name, a.Name)
		}
		if !p.HasBody(a) || !p.HasBody(b) {
			return fmt.Errorf("constraint %q: %q or %q is not a rigid body", g.Name, a.Name, b.Name)
		}
	}
	return nil
}

// OBB returns the oriented world box of a body's geometry. Objects without
// mesh data collapse to their origin.
func (p *PhysicsWorld) OBB(g *engine.GameObject) OBB {
	world := g.WorldMatrix()
	mf := engine.GetComponent[*components.MeshFilter](g)
	if mf == nil || mf.Mesh == nil || mf.Mesh.VertexCount() == 0 {
		return NewOBBFromMatrix(world, rl.Vector3{}, rl.Vector3{})
	}
	min, max := mf.Mesh.Bounds()
	return NewOBBFromMatrix(world, min, max)
}

// Bounds returns the world AABB of a body.
func (p *PhysicsWorld) Bounds(g *engine.GameObject) AABB {
	return p.OBB(g).Bounds()
}

// WorldBounds returns the box enclosing every registered body.
func (p *PhysicsWorld) WorldBounds() AABB {
	if len(p.Bodies) == 0 {
		return AABB{}
	}
	box := p.Bounds(p.Bodies[0])
	for _, g := range p.Bodies[1:] {
		box = box.Union(p.Bounds(g))
	}
	return box
}

// Overlapping returns body pairs whose oriented boxes intersect, ordered by
// UID. Pairs linked by a constraint with collisions disabled are skipped.
func (p *PhysicsWorld) Overlapping(scene *engine.Scene) []CollisionPair {
	ignored := make(map[CollisionPair]bool)
	for _, g := range p.Constraints {
		c := engine.GetComponent[*components.RigidBodyConstraint](g)
		if c == nil || !c.DisableCollisions || !c.Enabled() {
			continue
		}
		a, b := c.Object1.Get(scene), c.Object2.Get(scene)
		if a != nil && b != nil {
			ignored[makePair(a, b)] = true
		}
	}

	boxes := make([]OBB, len(p.Bodies))
	bounds := make([]AABB, len(p.Bodies))
	for i, g := range p.Bodies {
		boxes[i] = p.OBB(g)
		bounds[i] = boxes[i].Bounds()
	}

	var pairs []CollisionPair
	for i := range p.Bodies {
		for j := i + 1; j < len(p.Bodies); j++ {
			// Broad phase on AABBs, narrow phase with SAT
			if !bounds[i].Intersects(bounds[j]) || !boxes[i].IntersectsOBB(boxes[j]) {
				continue
			}
			pair := makePair(p.Bodies[i], p.Bodies[j])
			if !ignored[pair] {
				pairs = append(pairs, pair)
			}
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A.UID != pairs[j].A.UID {
			return pairs[i].A.UID < pairs[j].A.UID
		}
		return pairs[i].B.UID < pairs[j].B.UID
	})
	return pairs
}

func contains(list []*engine.GameObject, g *engine.GameObject) bool {
	for _, obj := range list {
		if obj == g {
			return true
		}
	}
	return false
}

func without(list []*engine.GameObject, g *engine.GameObject) []*engine.GameObject {
	for i, obj := range list {
		if obj == g {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
