// Package scenefile loads input scenes from YAML and exports generated
// scenes to JSON.
package scenefile

import (
	"fmt"
	"os"
	"sort"

	"autoragdoll/internal/components"
	"autoragdoll/internal/engine"
	"autoragdoll/internal/mesh"
	"autoragdoll/internal/rig"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"
)

// --- YAML types ---

type File struct {
	Armatures []ArmatureDef `yaml:"armatures"`
	Meshes    []MeshDef     `yaml:"meshes"`
	Selection []string      `yaml:"selection"`
	Active    string        `yaml:"active"`
}

type TransformDef struct {
	Location []float32 `yaml:"location"`
	Rotation []float32 `yaml:"rotation"` // XYZ euler, radians
	Scale    []float32 `yaml:"scale"`
}

type ArmatureDef struct {
	Name      string       `yaml:"name"`
	Transform TransformDef `yaml:"transform"`
	Bones     []BoneDef    `yaml:"bones"`
}

type BoneDef struct {
	Name   string    `yaml:"name"`
	Parent string    `yaml:"parent"`
	Head   []float32 `yaml:"head"`
	Tail   []float32 `yaml:"tail"`
	Roll   float32   `yaml:"roll"`
}

type MeshDef struct {
	Name       string                     `yaml:"name"`
	Transform  TransformDef               `yaml:"transform"`
	Parent     string                     `yaml:"parent"`
	ParentBone string                     `yaml:"parent_bone"`
	Vertices   [][]float32                `yaml:"vertices"`
	Faces      [][]int                    `yaml:"faces"`
	Groups     map[string]map[int]float32 `yaml:"groups"`
	Skin       *SkinDef                   `yaml:"skin"`
	Remesh     *RemeshDef                 `yaml:"remesh"`
	Props      map[string]any             `yaml:"props"`
}

// SkinDef generates one weighted box per bone of an armature, placed where
// the bone rests in world space.
type SkinDef struct {
	Armature string  `yaml:"armature"`
	Radius   float32 `yaml:"radius"`
}

// RemeshDef adds a voxel remesh modifier to the mesh's stack.
type RemeshDef struct {
	VoxelSize float32 `yaml:"voxel_size"`
	MaxVoxels int     `yaml:"max_voxels"`
}

// --- Loading ---

func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("scenefile: unmarshal: %w", err)
	}
	return &f, nil
}

func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenefile: read %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// LoadScene reads path and builds a new scene from it.
func LoadScene(path string) (*engine.Scene, error) {
	f, err := Load(path)
	if err != nil {
		return nil, err
	}
	scene := engine.NewScene(path)
	if err := f.Populate(scene); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return scene, nil
}

// Populate adds the file's objects to scene and applies its selection.
func (f *File) Populate(scene *engine.Scene) error {
	for _, def := range f.Armatures {
		g, err := buildArmature(def)
		if err != nil {
			return err
		}
		scene.AddGameObject(g)
		scene.Collection.Link(g)
		engine.GetComponent[*rig.Armature](g).Evaluate()
	}

	for _, def := range f.Meshes {
		g, err := buildMesh(scene, def)
		if err != nil {
			return err
		}
		scene.AddGameObject(g)
		scene.Collection.Link(g)
	}

	return Select(scene, f.Selection, f.Active)
}

// Select replaces the scene selection with the named objects and makes
// active the active object. An empty active name leaves it unchanged.
func Select(scene *engine.Scene, names []string, active string) error {
	scene.DeselectAll()
	for _, name := range names {
		g := scene.FindByName(name)
		if g == nil {
			return fmt.Errorf("selection: unknown object %q", name)
		}
		scene.Select(g, true)
	}
	if active != "" {
		g := scene.FindByName(active)
		if g == nil {
			return fmt.Errorf("active: unknown object %q", active)
		}
		scene.Active = g
	}
	return nil
}

func buildArmature(def ArmatureDef) (*engine.GameObject, error) {
	local, err := def.Transform.matrix()
	if err != nil {
		return nil, fmt.Errorf("armature %q: %w", def.Name, err)
	}
	s := rig.NewSkeleton()
	for _, b := range def.Bones {
		head, err := vec3(b.Head)
		if err != nil {
			return nil, fmt.Errorf("armature %q: bone %q head: %w", def.Name, b.Name, err)
		}
		tail, err := vec3(b.Tail)
		if err != nil {
			return nil, fmt.Errorf("armature %q: bone %q tail: %w", def.Name, b.Name, err)
		}
		if _, err := s.AddBoneHeadTail(b.Name, b.Parent, head, tail, b.Roll); err != nil {
			return nil, fmt.Errorf("armature %q: %w", def.Name, err)
		}
	}

	g := engine.NewGameObject(def.Name)
	g.Local = local
	g.AddComponent(rig.NewArmature(s))
	return g, nil
}

func buildMesh(scene *engine.Scene, def MeshDef) (*engine.GameObject, error) {
	local, err := def.Transform.matrix()
	if err != nil {
		return nil, fmt.Errorf("mesh %q: %w", def.Name, err)
	}

	var data *mesh.Mesh
	if def.Skin != nil {
		data, err = skin(scene, def.Name, *def.Skin)
	} else {
		data, err = meshData(def)
	}
	if err != nil {
		return nil, fmt.Errorf("mesh %q: %w", def.Name, err)
	}

	g := engine.NewGameObject(def.Name)
	mf := components.NewMeshFilter(data)
	if def.Remesh != nil {
		mf.Modifiers = append(mf.Modifiers, mesh.Remesh{VoxelSize: def.Remesh.VoxelSize, MaxVoxels: def.Remesh.MaxVoxels})
	}
	g.AddComponent(mf)
	for _, name := range sortedKeys(def.Props) {
		g.SetProp(name, def.Props[name])
	}

	if def.Parent != "" {
		parent := scene.FindByName(def.Parent)
		if parent == nil {
			return nil, fmt.Errorf("mesh %q: unknown parent %q", def.Name, def.Parent)
		}
		if def.ParentBone != "" {
			arm := engine.GetComponent[*rig.Armature](parent)
			if arm == nil || arm.PoseBone(def.ParentBone) == nil {
				return nil, fmt.Errorf("mesh %q: parent %q has no bone %q", def.Name, def.Parent, def.ParentBone)
			}
			g.ParentBone = def.ParentBone
		}
		parent.AddChild(g)
	}
	g.Local = local
	return g, nil
}

func meshData(def MeshDef) (*mesh.Mesh, error) {
	verts := make([]rl.Vector3, len(def.Vertices))
	for i, v := range def.Vertices {
		p, err := vec3(v)
		if err != nil {
			return nil, fmt.Errorf("vertex %d: %w", i, err)
		}
		verts[i] = p
	}
	for i, f := range def.Faces {
		if len(f) < 3 {
			return nil, fmt.Errorf("face %d has %d corners", i, len(f))
		}
		for _, v := range f {
			if v < 0 || v >= len(verts) {
				return nil, fmt.Errorf("face %d: vertex %d out of range", i, v)
			}
		}
	}

	m := mesh.New(def.Name, verts, def.Faces)
	for _, name := range sortedKeys(def.Groups) {
		weights := def.Groups[name]
		g := m.AddGroup(name)
		for v, w := range weights {
			if v < 0 || v >= len(verts) {
				return nil, fmt.Errorf("group %q: vertex %d out of range", name, v)
			}
			m.SetWeight(v, g, w)
		}
	}
	return m, nil
}

var boxFaces = [][]int{
	{0, 1, 2, 3}, {4, 7, 6, 5}, {0, 4, 5, 1}, {1, 5, 6, 2}, {2, 6, 7, 3}, {4, 0, 3, 7},
}

// skin builds the mesh described by a SkinDef in world space.
func skin(scene *engine.Scene, name string, def SkinDef) (*mesh.Mesh, error) {
	obj := scene.FindByName(def.Armature)
	if obj == nil {
		return nil, fmt.Errorf("skin: unknown armature %q", def.Armature)
	}
	arm := engine.GetComponent[*rig.Armature](obj)
	if arm == nil {
		return nil, fmt.Errorf("skin: %q is not an armature", def.Armature)
	}
	if def.Radius <= 0 {
		return nil, fmt.Errorf("skin: radius must be positive, got %g", def.Radius)
	}

	world := obj.WorldMatrix()
	m := mesh.New(name, nil, nil)
	r := def.Radius
	for _, b := range arm.Skeleton.Bones {
		frame := engine.Mul(world, b.MatrixLocal())
		base := len(m.Vertices)
		for _, c := range []rl.Vector3{
			{X: r, Y: b.Length, Z: -r}, {X: r, Z: -r}, {X: -r, Z: -r}, {X: -r, Y: b.Length, Z: -r},
			{X: r, Y: b.Length, Z: r}, {X: r, Z: r}, {X: -r, Z: r}, {X: -r, Y: b.Length, Z: r},
		} {
			m.Vertices = append(m.Vertices, rl.Vector3Transform(c, frame))
		}
		for _, f := range boxFaces {
			m.Faces = append(m.Faces, []int{base + f[0], base + f[1], base + f[2], base + f[3]})
		}
		g := m.AddGroup(b.Name)
		for v := base; v < base+8; v++ {
			m.SetWeight(v, g, 1)
		}
	}
	return m, nil
}

func (t TransformDef) matrix() (rl.Matrix, error) {
	loc := rl.Vector3{}
	rot := rl.Vector3{}
	scale := rl.Vector3{X: 1, Y: 1, Z: 1}
	var err error
	if t.Location != nil {
		if loc, err = vec3(t.Location); err != nil {
			return rl.Matrix{}, fmt.Errorf("location: %w", err)
		}
	}
	if t.Rotation != nil {
		if rot, err = vec3(t.Rotation); err != nil {
			return rl.Matrix{}, fmt.Errorf("rotation: %w", err)
		}
	}
	if t.Scale != nil {
		if scale, err = vec3(t.Scale); err != nil {
			return rl.Matrix{}, fmt.Errorf("scale: %w", err)
		}
	}
	return engine.Mul(rl.MatrixTranslate(loc.X, loc.Y, loc.Z),
		engine.Mul(rl.MatrixRotateXYZ(rot), rl.MatrixScale(scale.X, scale.Y, scale.Z))), nil
}

func vec3(v []float32) (rl.Vector3, error) {
	if len(v) != 3 {
		return rl.Vector3{}, fmt.Errorf("expected 3 components, got %d", len(v))
	}
	return rl.Vector3{X: v[0], Y: v[1], Z: v[2]}, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
