package engine

import (
	"sync/atomic"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var nextUID atomic.Uint64

// DisplayType controls how an object is drawn in the viewport.
type DisplayType int

const (
	DisplaySolid DisplayType = iota
	DisplayWire
)

func (d DisplayType) String() string {
	if d == DisplayWire {
		return "WIRE"
	}
	return "SOLID"
}

// BoneParent is implemented by components that expose bone frames to children
// parented with ParentBone.
type BoneParent interface {
	BoneMatrix(name string) (rl.Matrix, bool)
}

// ObjectTyper is implemented by components that give their GameObject a type
// (ARMATURE, MESH ...). Objects without one are EMPTY.
type ObjectTyper interface {
	ObjectType() string
}

type GameObject struct {
	UID         uint64
	Name        string
	Local       rl.Matrix // relative to Parent (or to ParentBone when set)
	Visible     bool
	HideRender  bool
	DisplayType DisplayType
	Scene       *Scene
	Parent      *GameObject
	ParentBone  string
	Children    []*GameObject
	props       []*Property
	components  []Component
	started     bool
}

func NewGameObject(name string) *GameObject {
	return &GameObject{
		UID:        nextUID.Add(1),
		Name:       name,
		Local:      rl.MatrixIdentity(),
		Visible:    true,
		components: make([]Component, 0),
		Children:   make([]*GameObject, 0),
	}
}

func (g *GameObject) AddComponent(c Component) {
	c.SetGameObject(g)
	g.components = append(g.components, c)
}

// RemoveComponent detaches c. Returns false if c was not attached.
func (g *GameObject) RemoveComponent(c Component) bool {
	for i, existing := range g.components {
		if existing == c {
			g.components = append(g.components[:i], g.components[i+1:]...)
			c.SetGameObject(nil)
			return true
		}
	}
	return false
}

// GetComponent returns the first component of type T
func GetComponent[T Component](g *GameObject) T {
	var zero T
	for _, c := range g.components {
		if typed, ok := c.(T); ok {
			return typed
		}
	}
	return zero
}

// GetComponents returns every component of type T in insertion order.
func GetComponents[T Component](g *GameObject) []T {
	var result []T
	for _, c := range g.components {
		if typed, ok := c.(T); ok {
			result = append(result, typed)
		}
	}
	return result
}

func (g *GameObject) Start() {
	if g.started {
		return
	}
	for _, c := range g.components {
		c.Start()
	}
	g.started = true
}

func (g *GameObject) Update(deltaTime float32) {
	for _, c := range g.components {
		c.Update(deltaTime)
	}
}

func (g *GameObject) Components() []Component {
	return g.components
}

// Type reports the object type from its first typed component.
func (g *GameObject) Type() string {
	for _, c := range g.components {
		if t, ok := c.(ObjectTyper); ok {
			return t.ObjectType()
		}
	}
	return "EMPTY"
}

func (g *GameObject) AddChild(child *GameObject) {
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	child.Parent = g
	g.Children = append(g.Children, child)
}

func (g *GameObject) RemoveChild(child *GameObject) {
	for i, c := range g.Children {
		if c == child {
			g.Children = append(g.Children[:i], g.Children[i+1:]...)
			child.Parent = nil
			child.ParentBone = ""
			return
		}
	}
}

// parentMatrix is the world frame Local is expressed in.
func (g *GameObject) parentMatrix() rl.Matrix {
	if g.Parent == nil {
		return rl.MatrixIdentity()
	}
	pm := g.Parent.WorldMatrix()
	if g.ParentBone == "" {
		return pm
	}
	for _, c := range g.Parent.components {
		if bp, ok := c.(BoneParent); ok {
			if bm, found := bp.BoneMatrix(g.ParentBone); found {
				return Mul(pm, bm)
			}
		}
	}
	return pm
}

// WorldMatrix composes the parent chain down to this object.
func (g *GameObject) WorldMatrix() rl.Matrix {
	if g.Parent == nil {
		return g.Local
	}
	return Mul(g.parentMatrix(), g.Local)
}

// SetWorldMatrix places the object in world space, keeping its parent.
func (g *GameObject) SetWorldMatrix(m rl.Matrix) {
	if g.Parent == nil {
		g.Local = m
		return
	}
	g.Local = Mul(rl.MatrixInvert(g.parentMatrix()), m)
}

func (g *GameObject) WorldPosition() rl.Vector3 {
	m := g.WorldMatrix()
	return rl.Vector3{X: m.M12, Y: m.M13, Z: m.M14}
}

// Mul returns a @ b in column-vector notation: b is applied first, then a.
// raylib's MatrixMultiply takes its arguments in application order.
func Mul(a, b rl.Matrix) rl.Matrix {
	return rl.MatrixMultiply(b, a)
}
