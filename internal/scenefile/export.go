package scenefile

import (
	"encoding/json"
	"fmt"
	"os"

	"autoragdoll/internal/engine"
	"autoragdoll/internal/physics"
)

// --- JSON types ---

type SceneExport struct {
	Name        string           `json:"name"`
	Objects     []ObjectExport   `json:"objects"`
	Collection  CollectionExport `json:"collection"`
	Physics     PhysicsExport    `json:"physics"`
	Selection   []uint64         `json:"selection"`
	Active      uint64           `json:"active,omitempty"`
	Diagnostics []string         `json:"diagnostics,omitempty"`
}

type ObjectExport struct {
	UID        uint64           `json:"uid"`
	Name       string           `json:"name"`
	Type       string           `json:"type"`
	Parent     uint64           `json:"parent,omitempty"`
	ParentBone string           `json:"parentBone,omitempty"`
	Location   [3]float32       `json:"location"`
	Rotation   [4]float32       `json:"rotation"` // quaternion x, y, z, w
	Scale      [3]float32       `json:"scale"`
	Visible    bool             `json:"visible"`
	HideRender bool             `json:"hideRender,omitempty"`
	Display    string           `json:"display"`
	Props      []PropExport     `json:"props,omitempty"`
	Components []map[string]any `json:"components"`
}

type PropExport struct {
	Name        string `json:"name"`
	Value       any    `json:"value"`
	Default     any    `json:"default,omitempty"`
	Description string `json:"description,omitempty"`
}

type CollectionExport struct {
	Name     string             `json:"name"`
	Objects  []uint64           `json:"objects,omitempty"`
	Children []CollectionExport `json:"children,omitempty"`
}

type PhysicsExport struct {
	Gravity     [3]float32 `json:"gravity"`
	Bodies      []uint64   `json:"bodies"`
	Constraints []uint64   `json:"constraints"`
}

// --- Export ---

// Export describes scene and the physics world registered against it.
// Constraint problems and colliding bodies are listed as diagnostics.
func Export(scene *engine.Scene, world *physics.PhysicsWorld) SceneExport {
	out := SceneExport{
		Name:       scene.Name,
		Objects:    make([]ObjectExport, 0, len(scene.GameObjects)),
		Collection: exportCollection(scene.Collection),
		Selection:  make([]uint64, 0),
	}
	for _, g := range scene.GameObjects {
		out.Objects = append(out.Objects, exportObject(g))
	}
	for _, g := range scene.SelectedObjects() {
		out.Selection = append(out.Selection, g.UID)
	}
	if scene.Active != nil {
		out.Active = scene.Active.UID
	}

	if world != nil {
		out.Physics = PhysicsExport{
			Gravity:     [3]float32{world.Gravity.X, world.Gravity.Y, world.Gravity.Z},
			Bodies:      uids(world.Bodies),
			Constraints: uids(world.Constraints),
		}
		if err := world.Validate(scene); err != nil {
			out.Diagnostics = append(out.Diagnostics, err.Error())
		}
		for _, pair := range world.Overlapping(scene) {
			out.Diagnostics = append(out.Diagnostics, fmt.Sprintf("bodies %q and %q overlap", pair.A.Name, pair.B.Name))
		}
	}
	return out
}

func exportObject(g *engine.GameObject) ObjectExport {
	t, r, s := engine.Decompose(g.Local)
	obj := ObjectExport{
		UID:        g.UID,
		Name:       g.Name,
		Type:       g.Type(),
		ParentBone: g.ParentBone,
		Location:   [3]float32{t.X, t.Y, t.Z},
		Rotation:   [4]float32{r.X, r.Y, r.Z, r.W},
		Scale:      [3]float32{s.X, s.Y, s.Z},
		Visible:    g.Visible,
		HideRender: g.HideRender,
		Display:    g.DisplayType.String(),
		Components: make([]map[string]any, 0, len(g.Components())),
	}
	if g.Parent != nil {
		obj.Parent = g.Parent.UID
	}
	for _, p := range g.Props() {
		obj.Props = append(obj.Props, PropExport{
			Name:        p.Name,
			Value:       p.Value,
			Default:     p.Default,
			Description: p.Description,
		})
	}
	for _, c := range g.Components() {
		if raw := serializeComponent(c); raw != nil {
			obj.Components = append(obj.Components, raw)
		}
	}
	return obj
}

func serializeComponent(c engine.Component) map[string]any {
	s, ok := c.(engine.Serializable)
	if !ok {
		return nil
	}
	data := s.Serialize()
	if _, ok := data["type"]; !ok {
		data["type"] = s.TypeName()
	}
	return data
}

func exportCollection(c *engine.Collection) CollectionExport {
	out := CollectionExport{Name: c.Name, Objects: uids(c.Objects)}
	for _, child := range c.Children {
		out.Children = append(out.Children, exportCollection(child))
	}
	return out
}

func uids(objects []*engine.GameObject) []uint64 {
	out := make([]uint64, 0, len(objects))
	for _, g := range objects {
		out = append(out, g.UID)
	}
	return out
}

// --- Saving ---

func Marshal(scene *engine.Scene, world *physics.PhysicsWorld) ([]byte, error) {
	data, err := json.MarshalIndent(Export(scene, world), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal scene: %w", err)
	}
	return data, nil
}

func SaveScene(path string, scene *engine.Scene, world *physics.PhysicsWorld) error {
	data, err := Marshal(scene, world)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write scene: %w", err)
	}
	return nil
}
