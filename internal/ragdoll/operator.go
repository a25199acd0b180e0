package ragdoll

import (
	"errors"
	"fmt"

	"autoragdoll/internal/components"
	"autoragdoll/internal/config"
	"autoragdoll/internal/engine"
	"autoragdoll/internal/physics"

	"github.com/rs/zerolog"
)

// Status is the outcome of an operator.
type Status int

const (
	StatusFinished Status = iota
	StatusCancelled
)

func (s Status) String() string {
	if s == StatusCancelled {
		return "CANCELLED"
	}
	return "FINISHED"
}

type ReportLevel string

const (
	ReportInfo  ReportLevel = "INFO"
	ReportError ReportLevel = "ERROR"
)

// Report is a message shown to the user after an operator ran.
type Report struct {
	Level   ReportLevel
	Message string
}

// Context is what operators run against. Successful runs are kept on an undo
// stack so Undo can remove them again.
type Context struct {
	Scene    *engine.Scene
	Physics  *physics.PhysicsWorld
	Settings config.Settings
	Log      zerolog.Logger

	Reports  []Report
	Ragdolls []*Ragdoll

	undoStack []*Ragdoll
}

func NewContext(scene *engine.Scene, world *physics.PhysicsWorld, settings config.Settings, log zerolog.Logger) *Context {
	return &Context{Scene: scene, Physics: world, Settings: settings, Log: log}
}

func (ctx *Context) report(level ReportLevel, msg string) {
	ctx.Reports = append(ctx.Reports, Report{Level: level, Message: msg})
}

// LastReport returns the newest report, or a zero Report.
func (ctx *Context) LastReport() Report {
	if len(ctx.Reports) == 0 {
		return Report{}
	}
	return ctx.Reports[len(ctx.Reports)-1]
}

func (ctx *Context) builder(segments SegmentBuilder) *Builder {
	return &Builder{
		Scene:              ctx.Scene,
		Physics:            ctx.Physics,
		Segments:           segments,
		AnchorDisplayRatio: ctx.Settings.Anchor.DisplayRatio,
		Log:                ctx.Log,
	}
}

// finish turns a build result into an operator result.
func (ctx *Context) finish(r *Ragdoll, err error) (Status, error) {
	var userErr *Error
	if errors.As(err, &userErr) {
		ctx.report(ReportError, userErr.Message)
		ctx.Log.Warn().Str("reason", userErr.Message).Msg("ragdoll cancelled")
		return StatusCancelled, nil
	}
	if err != nil {
		return StatusCancelled, err
	}

	// Cap stack size
	if len(ctx.undoStack) >= maxUndoStack {
		ctx.undoStack = ctx.undoStack[1:]
	}
	ctx.undoStack = append(ctx.undoStack, r)
	ctx.Ragdolls = append(ctx.Ragdolls, r)
	ctx.report(ReportInfo, fmt.Sprintf("Created %s ragdoll for %q: %d segments, %d joints",
		r.Mode, r.Armature.Name, len(r.Segments), len(r.Joints)))
	return StatusFinished, nil
}

// Undo removes the most recent ragdoll still on the undo stack.
func (ctx *Context) Undo() bool {
	if len(ctx.undoStack) == 0 {
		return false
	}
	r := ctx.undoStack[len(ctx.undoStack)-1]
	ctx.undoStack = ctx.undoStack[:len(ctx.undoStack)-1]

	r.journal.Rollback()
	for i, existing := range ctx.Ragdolls {
		if existing == r {
			ctx.Ragdolls = append(ctx.Ragdolls[:i], ctx.Ragdolls[i+1:]...)
			break
		}
	}
	ctx.Log.Info().Str("armature", r.Armature.Name).Msg("ragdoll undone")
	return true
}

// Operator is a command run against a Context.
type Operator interface {
	Execute(ctx *Context) (Status, error)
}

// SimpleRagdollOperator builds primitive segments for the active armature.
type SimpleRagdollOperator struct {
	SegmentShape components.CollisionShape
}

func (o *SimpleRagdollOperator) Execute(ctx *Context) (Status, error) {
	if !o.SegmentShape.Primitive() {
		return StatusCancelled, fmt.Errorf("segment shape %q is not BOX, CAPSULE or CYLINDER", o.SegmentShape)
	}
	r, err := ctx.builder(&PrimitiveSegments{
		Shape:       o.SegmentShape,
		LengthRatio: ctx.Settings.Segment.LengthRatio,
		RadiusRatio: ctx.Settings.Segment.RadiusRatio,
	}).Build(ctx.Scene.Active)
	return ctx.finish(r, err)
}

// RemeshedRagdollOperator builds weight-region segments from the selected
// mesh for the selected armature.
type RemeshedRagdollOperator struct {
	HideOriginalMesh bool
	Remesh           bool
	VoxelSize        float32
	CollisionShape   components.CollisionShape
}

func (o *RemeshedRagdollOperator) Execute(ctx *Context) (Status, error) {
	if o.CollisionShape != components.ShapeConvexHull && o.CollisionShape != components.ShapeMesh {
		return StatusCancelled, fmt.Errorf("collision shape %q is not CONVEX_HULL or MESH", o.CollisionShape)
	}
	if o.VoxelSize <= 0 {
		return ctx.finish(nil, newError("Voxel size must be greater than zero"))
	}

	selected := ctx.Scene.SelectedObjects()
	if len(selected) != 2 {
		return ctx.finish(nil, newError("Select an armature and a mesh"))
	}
	var armature, donor *engine.GameObject
	for _, g := range selected {
		switch g.Type() {
		case "MESH":
			donor = g
		case "ARMATURE":
			armature = g
		}
	}
	if armature == nil || donor == nil {
		return ctx.finish(nil, newError("Select an armature and a mesh"))
	}

	r, err := ctx.builder(&WeightRegionSegments{
		Donor:          donor,
		Threshold:      ctx.Settings.VGroup.Threshold,
		Remesh:         o.Remesh,
		VoxelSize:      o.VoxelSize,
		MaxVoxels:      ctx.Settings.Remesh.MaxVoxels,
		CollisionShape: o.CollisionShape,
		HideDonor:      o.HideOriginalMesh,
	}).Build(armature)
	return ctx.finish(r, err)
}

// SimpleFromSettings returns the simple operator configured by s.
func SimpleFromSettings(s config.Settings) (*SimpleRagdollOperator, error) {
	shape, ok := components.ParseCollisionShape(s.Simple.Shape)
	if !ok || !shape.Primitive() {
		return nil, fmt.Errorf("simple.shape: unknown segment shape %q", s.Simple.Shape)
	}
	return &SimpleRagdollOperator{SegmentShape: shape}, nil
}

// RemeshedFromSettings returns the remeshed operator configured by s.
func RemeshedFromSettings(s config.Settings) (*RemeshedRagdollOperator, error) {
	shape, ok := components.ParseCollisionShape(s.Remeshed.CollisionShape)
	if !ok || shape.Primitive() {
		return nil, fmt.Errorf("remeshed.collisionShape: unknown collision shape %q", s.Remeshed.CollisionShape)
	}
	return &RemeshedRagdollOperator{
		HideOriginalMesh: s.Remeshed.HideOriginalMesh,
		Remesh:           s.Remesh.Enabled,
		VoxelSize:        s.Remesh.VoxelSize,
		CollisionShape:   shape,
	}, nil
}

// NewOperator returns the operator for a command name, "simple" or "remeshed".
func NewOperator(command string, s config.Settings) (Operator, error) {
	switch command {
	case "simple":
		op, err := SimpleFromSettings(s)
		if err != nil {
			return nil, err
		}
		return op, nil
	case "remeshed":
		op, err := RemeshedFromSettings(s)
		if err != nil {
			return nil, err
		}
		return op, nil
	}
	return nil, fmt.Errorf("unknown command %q (want simple or remeshed)", command)
}
