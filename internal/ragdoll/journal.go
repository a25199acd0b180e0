package ragdoll

import (
	"autoragdoll/internal/driver"
	"autoragdoll/internal/engine"
	"autoragdoll/internal/physics"
	"autoragdoll/internal/rig"
)

const maxUndoStack = 50

// undoActionType represents the type of scene change a journal can revert
type undoActionType int

const (
	undoAddObject undoActionType = iota
	undoAddCollection
	undoAddComponent
	undoAddPoseConstraint
	undoSetProp
	undoHide
)

// undoState captures one scene change
type undoState struct {
	Type       undoActionType
	Object     *engine.GameObject
	Collection *engine.Collection
	Parent     *engine.Collection
	Component  engine.Component
	PoseBone   *rig.PoseBone
	Constraint rig.Constraint

	// For property undo: the value to restore, unless the property is new
	Prop      string
	PropIsNew bool
	PrevValue any

	PrevVisible bool
}

// Journal records every scene change made by one construction so the whole
// construction can be reverted as a unit.
type Journal struct {
	scene   *engine.Scene
	physics *physics.PhysicsWorld
	states  []undoState

	selection []*engine.GameObject
	active    *engine.GameObject
}

func newJournal(scene *engine.Scene, world *physics.PhysicsWorld) *Journal {
	return &Journal{
		scene:     scene,
		physics:   world,
		selection: scene.SelectedObjects(),
		active:    scene.Active,
	}
}

// Len returns the number of recorded changes.
func (j *Journal) Len() int {
	return len(j.states)
}

func (j *Journal) addObject(g *engine.GameObject) {
	j.scene.AddGameObject(g)
	j.states = append(j.states, undoState{Type: undoAddObject, Object: g})
}

func (j *Journal) addCollection(name string, parent *engine.Collection) *engine.Collection {
	c := j.scene.NewCollection(name)
	parent.LinkChild(c)
	j.states = append(j.states, undoState{Type: undoAddCollection, Collection: c, Parent: parent})
	return c
}

// componentAdded records a component already attached to g.
func (j *Journal) componentAdded(g *engine.GameObject, c engine.Component) {
	j.states = append(j.states, undoState{Type: undoAddComponent, Object: g, Component: c})
}

func (j *Journal) addPoseConstraint(pb *rig.PoseBone, c rig.Constraint) {
	pb.AddConstraint(c)
	j.states = append(j.states, undoState{Type: undoAddPoseConstraint, PoseBone: pb, Constraint: c})
}

func (j *Journal) setProp(g *engine.GameObject, name string, value any) *engine.Property {
	state := undoState{Type: undoSetProp, Object: g, Prop: name}
	if p := g.Prop(name); p != nil {
		state.PrevValue = p.Value
	} else {
		state.PropIsNew = true
	}
	j.states = append(j.states, state)
	return g.SetProp(name, value)
}

func (j *Journal) hide(g *engine.GameObject) {
	j.states = append(j.states, undoState{Type: undoHide, Object: g, PrevVisible: g.Visible})
	g.Visible = false
}

// Rollback reverts every recorded change, newest first, and restores the
// selection captured when the journal was opened.
func (j *Journal) Rollback() {
	for i := len(j.states) - 1; i >= 0; i-- {
		state := j.states[i]
		switch state.Type {
		case undoAddObject:
			for _, d := range engine.GetComponents[*driver.Driver](state.Object) {
				d.Release()
			}
			j.physics.RemoveObject(state.Object)
			j.scene.RemoveGameObject(state.Object)

		case undoAddCollection:
			state.Parent.UnlinkChild(state.Collection)
			j.scene.RemoveCollection(state.Collection)

		case undoAddComponent:
			if d, ok := state.Component.(*driver.Driver); ok {
				d.Release()
			}
			state.Object.RemoveComponent(state.Component)

		case undoAddPoseConstraint:
			state.PoseBone.RemoveConstraint(state.Constraint)

		case undoSetProp:
			if state.PropIsNew {
				state.Object.DeleteProp(state.Prop)
			} else if p := state.Object.Prop(state.Prop); p != nil {
				p.Set(state.PrevValue)
			}

		case undoHide:
			state.Object.Visible = state.PrevVisible
		}
	}
	j.states = nil

	j.scene.DeselectAll()
	for _, g := range j.selection {
		if j.scene.FindByUID(g.UID) == g {
			j.scene.Select(g, true)
		}
	}
	j.scene.Active = j.active
}
