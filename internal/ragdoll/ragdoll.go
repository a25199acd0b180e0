// Package ragdoll generates rigid-body ragdolls from skeletons: one segment
// per bone, joints between each segment and its parent's, and pose-bone
// bindings whose influence follows a single enable flag on the armature.
package ragdoll

import (
	"autoragdoll/internal/components"
	"autoragdoll/internal/engine"
	"autoragdoll/internal/physics"
	"autoragdoll/internal/rig"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/rs/zerolog"
)

// Ragdoll groups everything one construction created.
type Ragdoll struct {
	Armature   *engine.GameObject
	Controller *Controller
	Mode       string

	Collection        *engine.Collection
	SegmentCollection *engine.Collection
	JointCollection   *engine.Collection

	Segments []*Segment
	Joints   []*Joint
	Bindings []*Binding

	journal *Journal
}

// Segment returns the segment built for the named bone, or nil.
func (r *Ragdoll) Segment(bone string) *Segment {
	for _, s := range r.Segments {
		if s.Bone.Name == bone {
			return s
		}
	}
	return nil
}

// Enabled reports the flag state.
func (r *Ragdoll) Enabled() bool {
	return r.Controller.Enabled()
}

// SetEnabled switches every binding and joint on or off.
func (r *Ragdoll) SetEnabled(enabled bool) {
	r.Controller.SetEnabled(enabled)
}

// Builder runs constructions against a scene and its physics world.
type Builder struct {
	Scene    *engine.Scene
	Physics  *physics.PhysicsWorld
	Segments SegmentBuilder
	// AnchorDisplayRatio sizes joint and anchor empties from the bone length.
	AnchorDisplayRatio float32
	Log                zerolog.Logger
}

// construction is the state shared by the steps of one Build.
type construction struct {
	scene          *engine.Scene
	physics        *physics.PhysicsWorld
	journal        *Journal
	log            zerolog.Logger
	armatureObject *engine.GameObject
	armature       *rig.Armature
	armatureWorld  rl.Matrix
	ragdoll        *Ragdoll
	displayRatio   float32
}

func (c *construction) addSegmentObject(g *engine.GameObject) {
	c.journal.addObject(g)
	c.ragdoll.SegmentCollection.Link(g)
}

func (c *construction) addJointObject(g *engine.GameObject) {
	c.journal.addObject(g)
	c.ragdoll.JointCollection.Link(g)
}

// Build generates a ragdoll for armatureObject. The armature is held in rest
// position while building and returned to pose position on every exit. On
// error every change made so far is rolled back; *Error values are
// preconditions the user can fix.
func (b *Builder) Build(armatureObject *engine.GameObject) (r *Ragdoll, err error) {
	if armatureObject == nil {
		return nil, newError("No active object. Select an armature object and try again")
	}
	if t := armatureObject.Type(); t != "ARMATURE" {
		return nil, newError("The object type of %q is %q. Select an armature object and try again", armatureObject.Name, t)
	}
	arm := engine.GetComponent[*rig.Armature](armatureObject)

	arm.PosePosition = rig.PoseRest
	arm.Evaluate()
	defer func() {
		arm.PosePosition = rig.PosePose
		arm.Evaluate()
	}()

	c := &construction{
		scene:          b.Scene,
		physics:        b.Physics,
		journal:        newJournal(b.Scene, b.Physics),
		log:            b.Log.With().Str("armature", armatureObject.Name).Str("mode", b.Segments.Mode()).Logger(),
		armatureObject: armatureObject,
		armature:       arm,
		armatureWorld:  armatureObject.WorldMatrix(),
		displayRatio:   b.AnchorDisplayRatio,
	}
	defer func() {
		if err != nil {
			c.log.Debug().Int("changes", c.journal.Len()).Msg("rolling back")
			c.journal.Rollback()
			r = nil
		}
	}()

	c.log.Info().Int("bones", len(arm.Skeleton.Bones)).Msg("building ragdoll")

	r = &Ragdoll{
		Armature:   armatureObject,
		Mode:       b.Segments.Mode(),
		Controller: newController(armatureObject, c.journal),
		journal:    c.journal,
	}
	c.ragdoll = r
	r.Collection = c.journal.addCollection(armatureObject.Name+" ragdoll", b.Scene.Collection)
	r.SegmentCollection = c.journal.addCollection(armatureObject.Name+" ragdoll segments", r.Collection)
	r.JointCollection = c.journal.addCollection(armatureObject.Name+" ragdoll joints", r.Collection)

	for _, bone := range arm.Skeleton.Bones {
		obj, err := b.Segments.buildSegment(c, bone)
		if err != nil {
			return nil, err
		}
		r.Segments = append(r.Segments, &Segment{
			Bone:   bone,
			Object: obj,
			Body:   engine.GetComponent[*components.RigidBody](obj),
		})
		c.log.Debug().Str("bone", bone.Name).Str("segment", obj.Name).Msg("segment built")
	}

	if err := c.connect(b.Segments); err != nil {
		return nil, err
	}
	b.Segments.finish(c)

	b.Scene.SelectSingle(armatureObject)
	c.log.Info().
		Int("segments", len(r.Segments)).
		Int("joints", len(r.Joints)).
		Int("bindings", len(r.Bindings)).
		Msg("ragdoll built")
	return r, nil
}
