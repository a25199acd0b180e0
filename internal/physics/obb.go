package physics

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OBB represents an Oriented Bounding Box
type OBB struct {
	Center   rl.Vector3    // World-space center
	HalfSize rl.Vector3    // Half-extents along local axes
	Axes     [3]rl.Vector3 // Local X, Y, Z axes (rotated)
}

// NewOBBFromMatrix wraps the local box [min,max] placed by world. Scale in
// world is folded into the half-extents.
func NewOBBFromMatrix(world rl.Matrix, min, max rl.Vector3) OBB {
	cols := [3]rl.Vector3{
		{X: world.M0, Y: world.M1, Z: world.M2},
		{X: world.M4, Y: world.M5, Z: world.M6},
		{X: world.M8, Y: world.M9, Z: world.M10},
	}
	half := rl.Vector3Scale(rl.Vector3Subtract(max, min), 0.5)
	scale := [3]float32{rl.Vector3Length(cols[0]), rl.Vector3Length(cols[1]), rl.Vector3Length(cols[2])}

	var axes [3]rl.Vector3
	for i, c := range cols {
		if scale[i] > 0 {
			axes[i] = rl.Vector3Scale(c, 1/scale[i])
		}
	}
	localCenter := rl.Vector3Scale(rl.Vector3Add(min, max), 0.5)
	return OBB{
		Center:   rl.Vector3Transform(localCenter, world),
		HalfSize: rl.Vector3{X: half.X * scale[0], Y: half.Y * scale[1], Z: half.Z * scale[2]},
		Axes:     axes,
	}
}

// NewAABBasOBB creates an axis-aligned OBB (no rotation)
func NewAABBasOBB(center, size rl.Vector3) OBB {
	return OBB{
		Center:   center,
		HalfSize: rl.Vector3{X: size.X / 2, Y: size.Y / 2, Z: size.Z / 2},
		Axes: [3]rl.Vector3{
			{X: 1, Y: 0, Z: 0},
			{X: 0, Y: 1, Z: 0},
			{X: 0, Y: 0, Z: 1},
		},
	}
}

// IntersectsOBB tests if two OBBs intersect using the Separating Axis Theorem
func (a OBB) IntersectsOBB(b OBB) bool {
	t := rl.Vector3Subtract(b.Center, a.Center)

	// 3 face normals from each box, then the 9 edge cross products
	for i := 0; i < 3; i++ {
		if !overlapOnAxis(a, b, a.Axes[i], t) {
			return false
		}
	}
	for i := 0; i < 3; i++ {
		if !overlapOnAxis(a, b, b.Axes[i], t) {
			return false
		}
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			axis := rl.Vector3CrossProduct(a.Axes[i], b.Axes[j])
			// Skip near-zero axes (parallel edges)
			if rl.Vector3Length(axis) > 0.0001 {
				axis = rl.Vector3Normalize(axis)
				if !overlapOnAxis(a, b, axis, t) {
					return false
				}
			}
		}
	}
	return true
}

// Bounds returns the world AABB enclosing the box.
func (a OBB) Bounds() AABB {
	var ext rl.Vector3
	half := [3]float32{a.HalfSize.X, a.HalfSize.Y, a.HalfSize.Z}
	for i, axis := range a.Axes {
		ext.X += half[i] * absf(axis.X)
		ext.Y += half[i] * absf(axis.Y)
		ext.Z += half[i] * absf(axis.Z)
	}
	return AABB{Min: rl.Vector3Subtract(a.Center, ext), Max: rl.Vector3Add(a.Center, ext)}
}

// overlapOnAxis checks if two OBBs overlap when projected onto a given axis
func overlapOnAxis(a, b OBB, axis, t rl.Vector3) bool {
	aProjection := a.HalfSize.X*absf(rl.Vector3DotProduct(a.Axes[0], axis)) +
		a.HalfSize.Y*absf(rl.Vector3DotProduct(a.Axes[1], axis)) +
		a.HalfSize.Z*absf(rl.Vector3DotProduct(a.Axes[2], axis))

	bProjection := b.HalfSize.X*absf(rl.Vector3DotProduct(b.Axes[0], axis)) +
		b.HalfSize.Y*absf(rl.Vector3DotProduct(b.Axes[1], axis)) +
		b.HalfSize.Z*absf(rl.Vector3DotProduct(b.Axes[2], axis))

	distance := absf(rl.Vector3DotProduct(t, axis))
	return distance <= aProjection+bProjection
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
