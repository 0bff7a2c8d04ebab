package math3d

import (
	"math"
	"testing"
)

var sampleVectors = []Vec3{
	V3(1, 0, 0),
	V3(0, -3, 4),
	V3(1e-7, 2e-7, -3e-7),
	V3(123.5, -987.25, 0.125),
	V3(-1, -1, -1),
}

func TestNormalizeUnitLength(t *testing.T) {
	for _, v := range sampleVectors {
		n := v.Normalize()
		if math.Abs(n.Len()-1) > 1e-12 {
			t.Errorf("Normalize(%v).Len() = %v, want 1", v, n.Len())
		}
	}
}

func TestNormalizeZero(t *testing.T) {
	n := Zero3().Normalize()
	if n != Zero3() {
		t.Errorf("Normalize(0) = %v, want zero vector", n)
	}
	if !n.IsFinite() {
		t.Error("Normalize(0) produced non-finite components")
	}
}

func TestCrossAntiCommutative(t *testing.T) {
	for _, a := range sampleVectors {
		for _, b := range sampleVectors {
			ab := a.Cross(b)
			ba := b.Cross(a).Negate()
			if !ab.ApproxEqual(ba, 1e-9) {
				t.Errorf("cross(%v, %v) = %v, -cross(b, a) = %v", a, b, ab, ba)
			}
		}
	}
}

func TestDotCommutative(t *testing.T) {
	for _, a := range sampleVectors {
		for _, b := range sampleVectors {
			if a.Dot(b) != b.Dot(a) {
				t.Errorf("dot(%v, %v) != dot(%v, %v)", a, b, b, a)
			}
		}
	}
}

func TestEqualEpsilon(t *testing.T) {
	tests := []struct {
		name string
		a, b Vec3
		want bool
	}{
		{"identical", V3(1, 2, 3), V3(1, 2, 3), true},
		{"sub-epsilon drift", V3(0, 0, 0), V3(Epsilon/2, 0, 0), true},
		{"visible difference", V3(1, 2, 3), V3(1, 2, 3.0001), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Equal(tc.b); got != tc.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestDivByZero(t *testing.T) {
	if got := V3(1, 2, 3).Div(0); got != Zero3() {
		t.Errorf("Div(0) = %v, want zero vector", got)
	}
}

func TestLerp(t *testing.T) {
	a := V3(0, 0, 0)
	b := V3(10, -20, 30)
	mid := a.Lerp(b, 0.5)
	if !mid.ApproxEqual(V3(5, -10, 15), 1e-12) {
		t.Errorf("Lerp(0.5) = %v, want (5, -10, 15)", mid)
	}
}

func TestRotateAround(t *testing.T) {
	tests := []struct {
		name   string
		point  Vec3
		pivot  Vec3
		angles Vec3
		want   Vec3
	}{
		{"quarter turn about Y", V3(1, 0, 0), Zero3(), V3(0, math.Pi/2, 0), V3(0, 0, -1)},
		{"quarter turn about Z", V3(1, 0, 0), Zero3(), V3(0, 0, math.Pi/2), V3(0, 1, 0)},
		{"offset pivot", V3(2, 0, 0), V3(1, 0, 0), V3(0, 0, math.Pi), V3(0, 0, 0)},
		{"no rotation", V3(3, 4, 5), V3(1, 1, 1), Zero3(), V3(3, 4, 5)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.point.RotateAround(tc.pivot, tc.angles)
			if !got.ApproxEqual(tc.want, 1e-9) {
				t.Errorf("RotateAround = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestPerspectiveDepthRemap(t *testing.T) {
	near, far := 0.1, 100.0
	proj := Perspective(math.Pi/2, 1, near, far)

	tests := []struct {
		name  string
		depth float64
		want  float64
	}{
		{"near plane", near, -1},
		{"far plane", far, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ndc := proj.MulVec4(V4(0, 0, -tc.depth, 1)).PerspectiveDivide()
			if math.Abs(ndc.Z-tc.want) > 1e-9 {
				t.Errorf("ndc.Z = %v, want %v", ndc.Z, tc.want)
			}
		})
	}
}
