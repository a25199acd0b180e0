package engine

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Decompose splits m into translation, rotation and per-axis scale.
// Shear is not representable and is dropped.
func Decompose(m rl.Matrix) (rl.Vector3, rl.Quaternion, rl.Vector3) {
	t := rl.Vector3{X: m.M12, Y: m.M13, Z: m.M14}
	x := rl.Vector3{X: m.M0, Y: m.M1, Z: m.M2}
	y := rl.Vector3{X: m.M4, Y: m.M5, Z: m.M6}
	z := rl.Vector3{X: m.M8, Y: m.M9, Z: m.M10}
	s := rl.Vector3{X: rl.Vector3Length(x), Y: rl.Vector3Length(y), Z: rl.Vector3Length(z)}
	if s.X != 0 {
		x = rl.Vector3Scale(x, 1/s.X)
	}
	if s.Y != 0 {
		y = rl.Vector3Scale(y, 1/s.Y)
	}
	if s.Z != 0 {
		z = rl.Vector3Scale(z, 1/s.Z)
	}
	rot := rl.Matrix{
		M0: x.X, M1: x.Y, M2: x.Z,
		M4: y.X, M5: y.Y, M6: y.Z,
		M8: z.X, M9: z.Y, M10: z.Z,
		M15: 1,
	}
	return t, rl.QuaternionNormalize(rl.QuaternionFromMatrix(rot)), s
}

// Compose builds translation @ rotation @ scale.
func Compose(t rl.Vector3, r rl.Quaternion, s rl.Vector3) rl.Matrix {
	return Mul(rl.MatrixTranslate(t.X, t.Y, t.Z), Mul(rl.QuaternionToMatrix(r), rl.MatrixScale(s.X, s.Y, s.Z)))
}

// Blend interpolates between a and b: translation and scale linearly,
// rotation spherically. f=0 gives a, f=1 gives b.
func Blend(a, b rl.Matrix, f float32) rl.Matrix {
	if f <= 0 {
		return a
	}
	if f >= 1 {
		return b
	}
	at, ar, as := Decompose(a)
	bt, br, bs := Decompose(b)
	return Compose(rl.Vector3Lerp(at, bt, f), rl.QuaternionSlerp(ar, br, f), rl.Vector3Lerp(as, bs, f))
}

// WithoutScale removes the scale from m, keeping translation and rotation.
func WithoutScale(m rl.Matrix) rl.Matrix {
	t, r, _ := Decompose(m)
	return Compose(t, r, rl.Vector3{X: 1, Y: 1, Z: 1})
}
