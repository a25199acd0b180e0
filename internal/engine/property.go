package engine

// Property is a named custom property on a GameObject with editor metadata.
type Property struct {
	Name        string
	Value       any
	Default     any
	Description string
	OnChanged   EventWithArg[any]
}

// Set stores v and notifies listeners.
func (p *Property) Set(v any) {
	p.Value = v
	p.OnChanged.Invoke(v)
}

// Bool returns the value as a bool; non-bool values are false.
func (p *Property) Bool() bool {
	b, _ := p.Value.(bool)
	return b
}

// UpdateUI sets the default and description shown next to the property.
func (p *Property) UpdateUI(def any, description string) {
	p.Default = def
	p.Description = description
}

// SetProp creates or overwrites the named property and returns it.
func (g *GameObject) SetProp(name string, value any) *Property {
	if p := g.Prop(name); p != nil {
		p.Set(value)
		return p
	}
	p := &Property{Name: name, Value: value, Default: value}
	g.props = append(g.props, p)
	return p
}

// Prop returns the named property, or nil.
func (g *GameObject) Prop(name string) *Property {
	for _, p := range g.props {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// DeleteProp removes the named property.
func (g *GameObject) DeleteProp(name string) {
	for i, p := range g.props {
		if p.Name == name {
			g.props = append(g.props[:i], g.props[i+1:]...)
			return
		}
	}
}

// Props returns all custom properties in creation order.
func (g *GameObject) Props() []*Property {
	return g.props
}
