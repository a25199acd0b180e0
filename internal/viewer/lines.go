package viewer

import (
	"autoragdoll/internal/components"
	"autoragdoll/internal/engine"
	"autoragdoll/internal/rig"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var (
	colorMesh     = rl.NewColor(200, 200, 208, 255)
	colorSegment  = rl.NewColor(255, 161, 0, 255)
	colorBone     = rl.NewColor(108, 99, 255, 255)
	colorJoint    = rl.NewColor(0, 228, 48, 255)
	colorDisabled = rl.NewColor(230, 41, 55, 255)
	colorAnchor   = rl.NewColor(167, 139, 250, 255)
)

// Line is one wire segment in world space.
type Line struct {
	Start, End rl.Vector3
	Color      rl.Color
}

// SceneLines returns the wireframe of every visible object in scene.
func SceneLines(scene *engine.Scene) []Line {
	var lines []Line
	for _, g := range scene.GameObjects {
		if !g.Visible {
			continue
		}
		lines = append(lines, objectLines(g)...)
	}
	return lines
}

// HighlightLines returns the mesh wireframe of g recolored.
func HighlightLines(g *engine.GameObject, color rl.Color) []Line {
	var lines []Line
	for _, l := range objectLines(g) {
		if l.Color == colorSegment || l.Color == colorMesh {
			l.Color = color
			lines = append(lines, l)
		}
	}
	return lines
}

func objectLines(g *engine.GameObject) []Line {
	world := g.WorldMatrix()
	var lines []Line
	if mf := engine.GetComponent[*components.MeshFilter](g); mf != nil && mf.Mesh != nil {
		color := colorMesh
		if engine.GetComponent[*components.RigidBody](g) != nil {
			color = colorSegment
		}
		for _, e := range meshEdges(mf.Mesh.Faces) {
			lines = append(lines, Line{
				Start: rl.Vector3Transform(mf.Mesh.Vertices[e[0]], world),
				End:   rl.Vector3Transform(mf.Mesh.Vertices[e[1]], world),
				Color: color,
			})
		}
	}
	if arm := engine.GetComponent[*rig.Armature](g); arm != nil {
		for _, pb := range arm.PoseBones {
			m := engine.Mul(world, pb.Matrix)
			lines = append(lines, Line{
				Start: rl.Vector3Transform(rl.Vector3{}, m),
				End:   rl.Vector3Transform(rl.Vector3{Y: pb.Bone.Length}, m),
				Color: colorBone,
			})
		}
	}
	if empty := engine.GetComponent[*components.Empty](g); empty != nil {
		color := colorAnchor
		if c := engine.GetComponent[*components.RigidBodyConstraint](g); c != nil {
			color = colorJoint
			if !c.Enabled() {
				color = colorDisabled
			}
		}
		lines = append(lines, emptyLines(empty, world, color)...)
	}
	return lines
}

func emptyLines(e *components.Empty, world rl.Matrix, color rl.Color) []Line {
	origin := rl.Vector3Transform(rl.Vector3{}, world)
	axis := func(v rl.Vector3) rl.Vector3 {
		return rl.Vector3Transform(rl.Vector3Scale(v, e.Size), world)
	}
	x, y, z := rl.Vector3{X: 1}, rl.Vector3{Y: 1}, rl.Vector3{Z: 1}
	switch e.Display {
	case components.EmptySingleArrow:
		return []Line{{Start: origin, End: axis(z), Color: color}}
	case components.EmptyPlainAxes:
		var lines []Line
		for _, v := range []rl.Vector3{x, y, z} {
			lines = append(lines, Line{Start: axis(rl.Vector3Negate(v)), End: axis(v), Color: color})
		}
		return lines
	default:
		return []Line{
			{Start: origin, End: axis(x), Color: color},
			{Start: origin, End: axis(y), Color: color},
			{Start: origin, End: axis(z), Color: color},
		}
	}
}

// meshEdges returns each face edge once, lower vertex index first.
func meshEdges(faces [][]int) [][2]int {
	seen := make(map[[2]int]bool)
	var edges [][2]int
	for _, f := range faces {
		for i := range f {
			a, b := f[i], f[(i+1)%len(f)]
			if a > b {
				a, b = b, a
			}
			e := [2]int{a, b}
			if a == b || seen[e] {
				continue
			}
			seen[e] = true
			edges = append(edges, e)
		}
	}
	return edges
}
