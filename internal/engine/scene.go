package engine

type Scene struct {
	Name        string
	GameObjects []*GameObject
	Collection  *Collection // master collection, always present
	Active      *GameObject

	uidIndex    map[uint64]*GameObject
	selected    map[*GameObject]bool
	collections []*Collection
}

func NewScene(name string) *Scene {
	return &Scene{
		Name:        name,
		GameObjects: make([]*GameObject, 0),
		Collection:  &Collection{Name: "Scene Collection"},
		uidIndex:    make(map[uint64]*GameObject),
		selected:    make(map[*GameObject]bool),
	}
}

func (s *Scene) AddGameObject(g *GameObject) {
	s.GameObjects = append(s.GameObjects, g)
	s.uidIndex[g.UID] = g
	g.Scene = s
}

// RemoveGameObject drops g from the scene, its selection and every collection.
func (s *Scene) RemoveGameObject(g *GameObject) {
	for i, obj := range s.GameObjects {
		if obj == g {
			s.GameObjects = append(s.GameObjects[:i], s.GameObjects[i+1:]...)
			break
		}
	}
	delete(s.uidIndex, g.UID)
	delete(s.selected, g)
	if s.Active == g {
		s.Active = nil
	}
	s.Collection.unlinkRecursive(g)
	for _, c := range s.collections {
		c.Unlink(g)
	}
	if g.Parent != nil {
		g.Parent.RemoveChild(g)
	}
	g.Scene = nil
}

func (s *Scene) FindByUID(uid uint64) *GameObject {
	return s.uidIndex[uid]
}

func (s *Scene) FindByName(name string) *GameObject {
	for _, g := range s.GameObjects {
		if g.Name == name {
			return g
		}
	}
	return nil
}

// Select sets the selection state of g.
func (s *Scene) Select(g *GameObject, selected bool) {
	if selected {
		s.selected[g] = true
	} else {
		delete(s.selected, g)
	}
}

func (s *Scene) IsSelected(g *GameObject) bool {
	return s.selected[g]
}

func (s *Scene) DeselectAll() {
	s.selected = make(map[*GameObject]bool)
}

// SelectSingle deselects everything, then selects g and makes it active.
func (s *Scene) SelectSingle(g *GameObject) {
	s.DeselectAll()
	s.Select(g, true)
	s.Active = g
}

// SelectedObjects returns the selection in scene order.
func (s *Scene) SelectedObjects() []*GameObject {
	var result []*GameObject
	for _, g := range s.GameObjects {
		if s.selected[g] {
			result = append(result, g)
		}
	}
	return result
}

// NewCollection creates a collection that is not linked anywhere yet.
func (s *Scene) NewCollection(name string) *Collection {
	c := &Collection{Name: name}
	s.collections = append(s.collections, c)
	return c
}

// RemoveCollection unlinks c from every parent and forgets it.
func (s *Scene) RemoveCollection(c *Collection) {
	s.Collection.UnlinkChild(c)
	kept := s.collections[:0]
	for _, existing := range s.collections {
		if existing == c {
			continue
		}
		existing.UnlinkChild(c)
		kept = append(kept, existing)
	}
	s.collections = kept
}

// Collections returns every collection created through NewCollection.
func (s *Scene) Collections() []*Collection {
	return s.collections
}

func (s *Scene) Start() {
	for _, g := range s.GameObjects {
		g.Start()
	}
}

// Update runs one evaluation cycle over every object.
func (s *Scene) Update(deltaTime float32) {
	for _, g := range s.GameObjects {
		g.Update(deltaTime)
	}
}
