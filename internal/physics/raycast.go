package physics

import (
	"autoragdoll/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type RaycastHit struct {
	GameObject *engine.GameObject
	Point      rl.Vector3
	Normal     rl.Vector3
	Distance   float32
}

// Raycast returns the closest body whose oriented box the ray enters within
// maxDistance.
func (p *PhysicsWorld) Raycast(origin, direction rl.Vector3, maxDistance float32) (RaycastHit, bool) {
	direction = rl.Vector3Normalize(direction)
	var closestHit RaycastHit
	closestHit.Distance = maxDistance
	hit := false

	for _, obj := range p.Bodies {
		if hitInfo, ok := raycastOBB(origin, direction, p.OBB(obj), maxDistance); ok {
			if hitInfo.Distance < closestHit.Distance {
				closestHit = hitInfo
				closestHit.GameObject = obj
				hit = true
			}
		}
	}

	return closestHit, hit
}

// raycastOBB runs the slab test in the box's local frame.
func raycastOBB(origin, direction rl.Vector3, box OBB, maxDistance float32) (RaycastHit, bool) {
	rel := rl.Vector3Subtract(origin, box.Center)
	half := [3]float32{box.HalfSize.X, box.HalfSize.Y, box.HalfSize.Z}

	tmin, tmax := float32(-1e30), float32(1e30)
	enterAxis, enterSign := -1, float32(0)
	for i, axis := range box.Axes {
		o := rl.Vector3DotProduct(rel, axis)
		d := rl.Vector3DotProduct(direction, axis)
		if absf(d) < 1e-8 {
			if o < -half[i] || o > half[i] {
				return RaycastHit{}, false
			}
			continue
		}
		t1 := (-half[i] - o) / d
		t2 := (half[i] - o) / d
		sign := float32(-1)
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = 1
		}
		if t1 > tmin {
			tmin = t1
			enterAxis, enterSign = i, sign
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return RaycastHit{}, false
		}
	}

	if tmax < 0 || tmin > maxDistance {
		return RaycastHit{}, false
	}

	// Origin inside the box: report the exit point
	t := tmin
	if t < 0 {
		t = tmax
		enterAxis = -1
	}
	if t > maxDistance {
		return RaycastHit{}, false
	}

	point := rl.Vector3Add(origin, rl.Vector3Scale(direction, t))
	normal := rl.Vector3Negate(direction)
	if enterAxis >= 0 {
		normal = rl.Vector3Scale(box.Axes[enterAxis], enterSign)
	}

	return RaycastHit{Point: point, Normal: normal, Distance: t}, true
}
