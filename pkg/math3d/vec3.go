// Package math3d provides the vector and matrix primitives used by the
// gravity renderer and physics.
package math3d

import "math"

// Epsilon is the per-component tolerance used by Vec3.Equal.
const Epsilon = 2.220446049250313e-16

// Vec3 is a double-precision 3D vector. Methods never mutate the receiver.
type Vec3 struct {
	X, Y, Z float64
}

// V3 creates a new Vec3.
func V3(x, y, z float64) Vec3 { return Vec3{x, y, z} }

// Zero3 returns the zero vector.
func Zero3() Vec3 { return Vec3{} }

// Up returns world up, +Y.
func Up() Vec3 { return Vec3{Y: 1} }

// Add returns a + b.
func (a Vec3) Add(b Vec3) Vec3 { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }

// Sub returns a - b.
func (a Vec3) Sub(b Vec3) Vec3 { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }

// Mul multiplies component by component.
func (a Vec3) Mul(b Vec3) Vec3 { return Vec3{a.X * b.X, a.Y * b.Y, a.Z * b.Z} }

// Scale returns a * s.
func (a Vec3) Scale(s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }

// Div divides by s. Dividing by zero yields the zero vector.
func (a Vec3) Div(s float64) Vec3 {
	if s == 0 {
		return Vec3{}
	}
	return a.Scale(1 / s)
}

// Negate returns -a.
func (a Vec3) Negate() Vec3 { return Vec3{-a.X, -a.Y, -a.Z} }

// Dot returns a · b.
func (a Vec3) Dot(b Vec3) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

// Cross returns a × b (right-handed).
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}

// LenSq returns the squared length.
func (a Vec3) LenSq() float64 { return a.Dot(a) }

// Len returns the Euclidean length.
func (a Vec3) Len() float64 { return math.Sqrt(a.Dot(a)) }

// Distance returns |a - b|.
func (a Vec3) Distance(b Vec3) float64 { return a.Sub(b).Len() }

// Normalize returns a unit vector along a, or the zero vector when a has
// no length.
func (a Vec3) Normalize() Vec3 {
	l := a.Len()
	if l == 0 {
		return Vec3{}
	}
	return Vec3{a.X / l, a.Y / l, a.Z / l}
}

// Lerp blends from a (t = 0) to b (t = 1).
func (a Vec3) Lerp(b Vec3, t float64) Vec3 { return a.Add(b.Sub(a).Scale(t)) }

// Equal reports whether every component differs by less than Epsilon.
// Vectors that drift apart by accumulated rounding compare unequal, so Vec3
// is not a reliable map key.
func (a Vec3) Equal(b Vec3) bool { return a.Sub(b).Abs().maxComponent() < Epsilon }

// ApproxEqual reports whether every component differs by at most tol.
func (a Vec3) ApproxEqual(b Vec3, tol float64) bool { return a.Sub(b).Abs().maxComponent() <= tol }

func (a Vec3) maxComponent() float64 { return max(a.X, a.Y, a.Z) }

// Component returns the X, Y or Z component for axis 0, 1 or 2.
func (a Vec3) Component(axis int) float64 {
	switch axis {
	case 0:
		return a.X
	case 1:
		return a.Y
	default:
		return a.Z
	}
}

// Min returns the per-component minimum.
func (a Vec3) Min(b Vec3) Vec3 { return Vec3{min(a.X, b.X), min(a.Y, b.Y), min(a.Z, b.Z)} }

// Max returns the per-component maximum.
func (a Vec3) Max(b Vec3) Vec3 { return Vec3{max(a.X, b.X), max(a.Y, b.Y), max(a.Z, b.Z)} }

// Abs returns the per-component absolute value.
func (a Vec3) Abs() Vec3 { return Vec3{math.Abs(a.X), math.Abs(a.Y), math.Abs(a.Z)} }

// IsFinite reports whether no component is NaN or infinite.
func (a Vec3) IsFinite() bool {
	for _, c := range [3]float64{a.X, a.Y, a.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// RotateAround turns a about pivot by the Euler angles: X first, then Y,
// then Z.
func (a Vec3) RotateAround(pivot, angles Vec3) Vec3 {
	return Euler(angles).MulDir(a.Sub(pivot)).Add(pivot)
}
