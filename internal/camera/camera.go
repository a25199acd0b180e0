package camera

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// OrbitCamera circles a target point in a Z-up scene.
type OrbitCamera struct {
	Target    rl.Vector3
	Distance  float32
	Yaw       float32 // degrees about Z
	Pitch     float32 // degrees above the XY plane
	LookSpeed float32
	ZoomSpeed float32
	PanSpeed  float32

	MinDistance float32
	MaxDistance float32
}

func New(target rl.Vector3, distance float32) *OrbitCamera {
	return &OrbitCamera{
		Target:      target,
		Distance:    distance,
		Yaw:         -60.0,
		Pitch:       20.0,
		LookSpeed:   0.3,
		ZoomSpeed:   0.1,   // Share of the distance per wheel step
		PanSpeed:    0.002, // Share of the distance per pixel
		MinDistance: 0.1,
		MaxDistance: 500,
	}
}

// Frame aims the camera at the box min..max and backs off until it fits.
func (c *OrbitCamera) Frame(min, max rl.Vector3) {
	c.Target = rl.Vector3Scale(rl.Vector3Add(min, max), 0.5)
	radius := rl.Vector3Distance(min, max) / 2
	if radius < 0.5 {
		radius = 0.5
	}
	c.Distance = c.clampDistance(radius * 3)
}

func (c *OrbitCamera) Update(deltaTime float32) {
	mouseDelta := rl.GetMouseDelta()

	// Orbit with the left button, pan with the middle button or shift+left
	panning := rl.IsMouseButtonDown(rl.MouseMiddleButton) ||
		(rl.IsMouseButtonDown(rl.MouseLeftButton) && rl.IsKeyDown(rl.KeyLeftShift))
	switch {
	case panning:
		c.Pan(mouseDelta.X, mouseDelta.Y)
	case rl.IsMouseButtonDown(rl.MouseLeftButton):
		c.Orbit(mouseDelta.X*c.LookSpeed, -mouseDelta.Y*c.LookSpeed)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		c.Zoom(wheel)
	}
}

// Orbit turns the camera by yaw and pitch degrees. Pitch stays short of the poles.
func (c *OrbitCamera) Orbit(yaw, pitch float32) {
	c.Yaw += yaw
	c.Pitch += pitch

	// Clamp pitch
	if c.Pitch > 89 {
		c.Pitch = 89
	}
	if c.Pitch < -89 {
		c.Pitch = -89
	}
}

// Zoom moves toward the target for positive steps.
func (c *OrbitCamera) Zoom(steps float32) {
	c.Distance = c.clampDistance(c.Distance * (1 - steps*c.ZoomSpeed))
}

// Pan slides the target in the view plane by a screen-space delta.
func (c *OrbitCamera) Pan(dx, dy float32) {
	forward, right := c.getDirections()
	up := rl.Vector3CrossProduct(right, forward)
	scale := c.Distance * c.PanSpeed
	c.Target = rl.Vector3Add(c.Target, rl.Vector3Scale(right, -dx*scale))
	c.Target = rl.Vector3Add(c.Target, rl.Vector3Scale(up, dy*scale))
}

func (c *OrbitCamera) clampDistance(d float32) float32 {
	if d < c.MinDistance {
		return c.MinDistance
	}
	if d > c.MaxDistance {
		return c.MaxDistance
	}
	return d
}

// getDirections returns the unit view direction and the horizontal right vector.
func (c *OrbitCamera) getDirections() (forward, right rl.Vector3) {
	yawRad := float64(c.Yaw) * math.Pi / 180
	pitchRad := float64(c.Pitch) * math.Pi / 180
	forward = rl.Vector3{
		X: float32(-math.Cos(yawRad) * math.Cos(pitchRad)),
		Y: float32(-math.Sin(yawRad) * math.Cos(pitchRad)),
		Z: float32(-math.Sin(pitchRad)),
	}
	right = rl.Vector3{
		X: float32(-math.Sin(yawRad)),
		Y: float32(math.Cos(yawRad)),
		Z: 0,
	}
	return
}

// Position is where the camera sits on its orbit.
func (c *OrbitCamera) Position() rl.Vector3 {
	forward, _ := c.getDirections()
	return rl.Vector3Subtract(c.Target, rl.Vector3Scale(forward, c.Distance))
}

func (c *OrbitCamera) GetRaylibCamera() rl.Camera3D {
	return rl.Camera3D{
		Position:   c.Position(),
		Target:     c.Target,
		Up:         rl.Vector3{X: 0, Y: 0, Z: 1},
		Fovy:       45,
		Projection: rl.CameraPerspective,
	}
}
