package camera

import (
	"math"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestPositionDistance(t *testing.T) {
	c := New(rl.Vector3{X: 1, Y: 2, Z: 3}, 5)
	for _, yaw := range []float32{0, 45, 170, -90} {
		c.Yaw = yaw
		d := rl.Vector3Distance(c.Position(), c.Target)
		if math.Abs(float64(d-5)) > 1e-4 {
			t.Errorf("yaw %v: expected distance 5, got %v", yaw, d)
		}
	}
}

func TestPitchAboveTarget(t *testing.T) {
	c := New(rl.Vector3{}, 10)
	c.Pitch = 30
	if p := c.Position(); p.Z <= 0 {
		t.Errorf("Positive pitch should put the camera above the target, got %v", p)
	}
}

func TestOrbitClampsPitch(t *testing.T) {
	c := New(rl.Vector3{}, 10)
	c.Orbit(10, 500)
	if c.Pitch != 89 {
		t.Errorf("Expected pitch 89, got %v", c.Pitch)
	}
	c.Orbit(0, -500)
	if c.Pitch != -89 {
		t.Errorf("Expected pitch -89, got %v", c.Pitch)
	}
}

func TestZoomClamps(t *testing.T) {
	c := New(rl.Vector3{}, 10)
	c.Zoom(1)
	if c.Distance >= 10 {
		t.Errorf("Zooming in should reduce distance, got %v", c.Distance)
	}
	for i := 0; i < 200; i++ {
		c.Zoom(5)
	}
	if c.Distance != c.MinDistance {
		t.Errorf("Expected min distance, got %v", c.Distance)
	}
}

func TestFrame(t *testing.T) {
	c := New(rl.Vector3{}, 1)
	c.Frame(rl.Vector3{X: -1, Y: -1, Z: 0}, rl.Vector3{X: 1, Y: 1, Z: 2})
	if rl.Vector3Distance(c.Target, rl.Vector3{Z: 1}) > 1e-5 {
		t.Errorf("Expected target at box center, got %v", c.Target)
	}
	if c.Distance < rl.Vector3Distance(rl.Vector3{X: -1, Y: -1}, rl.Vector3{X: 1, Y: 1, Z: 2})/2 {
		t.Errorf("Camera too close to fit the box: %v", c.Distance)
	}
}

func TestPanKeepsDistance(t *testing.T) {
	c := New(rl.Vector3{}, 4)
	before := rl.Vector3Subtract(c.Position(), c.Target)
	c.Pan(30, -10)
	if rl.Vector3Distance(c.Target, rl.Vector3{}) == 0 {
		t.Error("Pan should move the target")
	}
	after := rl.Vector3Subtract(c.Position(), c.Target)
	if rl.Vector3Distance(before, after) > 1e-4 {
		t.Error("Pan should not change the view offset")
	}
}
