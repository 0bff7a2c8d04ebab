package math3d

import "math"

// Mat4 is a column-major 4x4 matrix: element (row, col) is m[col*4+row].
// The camera keeps its projection in one; rotation only needs the upper
// 3x3 block.
type Mat4 [16]float64

// Perspective maps view space, looking down -Z, to clip space. View depth
// in [near, far] lands on NDC z in [-1, 1] after the divide. fovy is the
// vertical field of view in radians.
func Perspective(fovy, aspect, near, far float64) Mat4 {
	var m Mat4
	f := 1 / math.Tan(fovy/2)
	depth := near - far
	m[0] = f / aspect
	m[5] = f
	m[10] = (far + near) / depth
	m[11] = -1
	m[14] = 2 * far * near / depth
	return m
}

// Euler builds the rotation that turns about X by angles.X, then about Y,
// then about Z (R = Rz·Ry·Rx).
func Euler(angles Vec3) Mat4 {
	sx, cx := math.Sincos(angles.X)
	sy, cy := math.Sincos(angles.Y)
	sz, cz := math.Sincos(angles.Z)
	return Mat4{
		cz * cy, sz * cy, -sy, 0,
		cz*sy*sx - sz*cx, sz*sy*sx + cz*cx, cy * sx, 0,
		cz*sy*cx + sz*sx, sz*sy*cx - cz*sx, cy * cx, 0,
		0, 0, 0, 1,
	}
}

// at returns element (row, col).
func (m Mat4) at(row, col int) float64 { return m[col*4+row] }

// MulDir applies the 3x3 block to v, ignoring translation.
func (m Mat4) MulDir(v Vec3) Vec3 {
	return Vec3{
		X: m.at(0, 0)*v.X + m.at(0, 1)*v.Y + m.at(0, 2)*v.Z,
		Y: m.at(1, 0)*v.X + m.at(1, 1)*v.Y + m.at(1, 2)*v.Z,
		Z: m.at(2, 0)*v.X + m.at(2, 1)*v.Y + m.at(2, 2)*v.Z,
	}
}

// MulVec4 returns m·v.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	var out [4]float64
	in := [4]float64{v.X, v.Y, v.Z, v.W}
	for row := range 4 {
		for col := range 4 {
			out[row] += m.at(row, col) * in[col]
		}
	}
	return Vec4{out[0], out[1], out[2], out[3]}
}
