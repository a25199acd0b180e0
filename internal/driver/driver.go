// Package driver evaluates single-expression drivers that feed a float
// property of one object from custom properties of others.
package driver

import (
	"fmt"

	"autoragdoll/internal/engine"

	"github.com/d5/tengo/v2"
)

const resultVar = "__result"

// Drivable is anything with named float properties a driver can write.
type Drivable interface {
	SetFloat(path string, v float32) error
	Float(path string) (float32, error)
}

// Variable binds an expression name to a custom property of Owner.
type Variable struct {
	Name     string
	Owner    *engine.GameObject
	Property *engine.Property

	listener engine.ListenerID
}

// Driver is a component; Scene.Update re-evaluates it every cycle.
type Driver struct {
	engine.BaseComponent
	Expression string
	Variables  []*Variable
	Target     Drivable
	Path       string

	// Err holds the last compile or evaluation failure, nil when valid.
	Err error

	compiled *tengo.Compiled
	watching bool
}

// Attach creates a driver writing target's path property and adds it to owner.
func Attach(owner *engine.GameObject, target Drivable, path string) *Driver {
	d := &Driver{Target: target, Path: path}
	owner.AddComponent(d)
	return d
}

// AddVariable binds name to prop. The driver must be recompiled afterwards.
func (d *Driver) AddVariable(name string, owner *engine.GameObject, prop *engine.Property) *Variable {
	v := &Variable{Name: name, Owner: owner, Property: prop}
	d.Variables = append(d.Variables, v)
	d.compiled = nil
	if d.watching {
		d.watch(v)
	}
	return v
}

// SetExpression compiles expr against the current variables.
func (d *Driver) SetExpression(expr string) error {
	d.Expression = expr
	d.compiled = nil
	return d.compile()
}

func (d *Driver) compile() error {
	script := tengo.NewScript([]byte(fmt.Sprintf("%s := (%s)", resultVar, d.Expression)))
	for _, v := range d.Variables {
		if err := script.Add(v.Name, v.Property.Value); err != nil {
			d.Err = fmt.Errorf("driver variable %q: %w", v.Name, err)
			return d.Err
		}
	}
	compiled, err := script.Compile()
	if err != nil {
		d.Err = fmt.Errorf("driver expression %q: %w", d.Expression, err)
		return d.Err
	}
	d.compiled = compiled
	d.Err = nil
	return nil
}

// Evaluate runs the expression with current variable values and writes the
// result to the target. Booleans evaluate to 1 or 0.
func (d *Driver) Evaluate() error {
	if d.compiled == nil {
		if err := d.compile(); err != nil {
			return err
		}
	}
	for _, v := range d.Variables {
		if err := d.compiled.Set(v.Name, v.Property.Value); err != nil {
			d.Err = fmt.Errorf("driver variable %q: %w", v.Name, err)
			return d.Err
		}
	}
	if err := d.compiled.Run(); err != nil {
		d.Err = fmt.Errorf("driver expression %q: %w", d.Expression, err)
		return d.Err
	}
	value, err := toFloat(d.compiled.Get(resultVar).Value())
	if err != nil {
		d.Err = fmt.Errorf("driver expression %q: %w", d.Expression, err)
		return d.Err
	}
	if err := d.Target.SetFloat(d.Path, value); err != nil {
		d.Err = err
		return err
	}
	d.Err = nil
	return nil
}

func toFloat(v any) (float32, error) {
	switch x := v.(type) {
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case int64:
		return float32(x), nil
	case float64:
		return float32(x), nil
	}
	return 0, fmt.Errorf("result %v (%T) is not numeric", v, v)
}

// Watch re-evaluates the driver as soon as any variable's property changes,
// without waiting for the next Scene.Update.
func (d *Driver) Watch() {
	if d.watching {
		return
	}
	d.watching = true
	for _, v := range d.Variables {
		d.watch(v)
	}
}

func (d *Driver) watch(v *Variable) {
	v.listener = v.Property.OnChanged.AddListener(func(any) {
		_ = d.Evaluate()
	})
}

// Release stops watching variable properties.
func (d *Driver) Release() {
	if !d.watching {
		return
	}
	for _, v := range d.Variables {
		v.Property.OnChanged.RemoveListener(v.listener)
	}
	d.watching = false
}

func (d *Driver) Update(deltaTime float32) {
	_ = d.Evaluate()
}

// TypeName implements engine.Serializable
func (d *Driver) TypeName() string {
	return "Driver"
}

// Serialize implements engine.Serializable
func (d *Driver) Serialize() map[string]any {
	vars := make([]map[string]any, 0, len(d.Variables))
	for _, v := range d.Variables {
		var owner uint64
		if v.Owner != nil {
			owner = v.Owner.UID
		}
		vars = append(vars, map[string]any{
			"name":     v.Name,
			"owner":    owner,
			"property": v.Property.Name,
		})
	}
	data := map[string]any{
		"type":       "Driver",
		"expression": d.Expression,
		"path":       d.Path,
		"variables":  vars,
	}
	if d.Err != nil {
		data["error"] = d.Err.Error()
	}
	return data
}
