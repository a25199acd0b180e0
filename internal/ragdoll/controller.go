package ragdoll

import (
	"fmt"

	"autoragdoll/internal/driver"
	"autoragdoll/internal/engine"
)

const (
	// EnabledProp is the custom property on the armature toggling the ragdoll.
	EnabledProp        = "Ragdoll enabled"
	enabledDescription = "Ragdoll enabled state"

	driverVariable = "var"
	influencePath  = "influence"
)

// Controller owns the ragdoll's enable flag and every driver reading it.
type Controller struct {
	Owner   *engine.GameObject
	Flag    *engine.Property
	Drivers []*driver.Driver

	journal *Journal
}

func newController(owner *engine.GameObject, j *Journal) *Controller {
	flag := j.setProp(owner, EnabledProp, true)
	flag.UpdateUI(true, enabledDescription)
	return &Controller{Owner: owner, Flag: flag, journal: j}
}

// BindInfluence drives target's influence with the flag through a
// pass-through expression. The driver lives on host and re-evaluates as soon
// as the flag changes.
func (c *Controller) BindInfluence(host *engine.GameObject, target driver.Drivable) (*driver.Driver, error) {
	d := driver.Attach(host, target, influencePath)
	c.journal.componentAdded(host, d)

	v := d.AddVariable(driverVariable, c.Owner, c.Flag)
	if err := d.SetExpression(v.Name); err != nil {
		return nil, fmt.Errorf("bind influence on %q: %w", host.Name, err)
	}
	if err := d.Evaluate(); err != nil {
		return nil, fmt.Errorf("bind influence on %q: %w", host.Name, err)
	}
	d.Watch()
	c.Drivers = append(c.Drivers, d)
	return d, nil
}

func (c *Controller) Enabled() bool {
	return c.Flag.Bool()
}

// SetEnabled flips the flag; bound influences follow immediately.
func (c *Controller) SetEnabled(enabled bool) {
	c.Flag.Set(enabled)
}
