package engine

// Collection is a named group of objects and child collections.
// Linking an object does not change its parent or transform.
type Collection struct {
	Name     string
	Objects  []*GameObject
	Children []*Collection
}

// Link adds g to the collection once.
func (c *Collection) Link(g *GameObject) {
	if c.Has(g) {
		return
	}
	c.Objects = append(c.Objects, g)
}

func (c *Collection) Unlink(g *GameObject) {
	for i, obj := range c.Objects {
		if obj == g {
			c.Objects = append(c.Objects[:i], c.Objects[i+1:]...)
			return
		}
	}
}

func (c *Collection) Has(g *GameObject) bool {
	for _, obj := range c.Objects {
		if obj == g {
			return true
		}
	}
	return false
}

// LinkChild nests child under c once.
func (c *Collection) LinkChild(child *Collection) {
	for _, existing := range c.Children {
		if existing == child {
			return
		}
	}
	c.Children = append(c.Children, child)
}

func (c *Collection) UnlinkChild(child *Collection) {
	for i, existing := range c.Children {
		if existing == child {
			c.Children = append(c.Children[:i], c.Children[i+1:]...)
			return
		}
	}
}

// AllObjects returns the objects of c and its descendants, depth first.
func (c *Collection) AllObjects() []*GameObject {
	result := append([]*GameObject(nil), c.Objects...)
	for _, child := range c.Children {
		result = append(result, child.AllObjects()...)
	}
	return result
}

func (c *Collection) unlinkRecursive(g *GameObject) {
	c.Unlink(g)
	for _, child := range c.Children {
		child.unlinkRecursive(g)
	}
}
