package geometry

import (
	"math"
	"testing"
)

func TestVec3Arithmetic(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, -1, 2}

	if got := a.Add(b); got != (Vec3{5, 1, 5}) {
		t.Errorf("Add = %v, want {5 1 5}", got)
	}
	if got := a.Sub(b); got != (Vec3{-3, 3, 1}) {
		t.Errorf("Sub = %v, want {-3 3 1}", got)
	}
	if got := a.Mul(2); got != (Vec3{2, 4, 6}) {
		t.Errorf("Mul = %v, want {2 4 6}", got)
	}
	if got := a.Negate(); got != (Vec3{-1, -2, -3}) {
		t.Errorf("Negate = %v, want {-1 -2 -3}", got)
	}
}

func TestVec3DotCross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	z := Vec3{0, 0, 1}

	if got := x.Dot(y); got != 0 {
		t.Errorf("Dot(x,y) = %v, want 0", got)
	}
	if got := x.Cross(y); got != z {
		t.Errorf("Cross(x,y) = %v, want %v", got, z)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := Vec3{3, 4, 0}
	n := v.Normalize()
	if math.Abs(n.Length()-1) > 1e-12 {
		t.Errorf("normalized length = %v, want 1", n.Length())
	}

	zero := Vec3{0, 0, 0}
	if zero.Normalize() != zero {
		t.Errorf("Normalize of zero vector should return zero, got %v", zero.Normalize())
	}
}

func TestMaxDimension(t *testing.T) {
	cases := []struct {
		v    Vec3
		want int
	}{
		{Vec3{5, 1, 1}, 0},
		{Vec3{1, 5, 1}, 1},
		{Vec3{1, 1, 5}, 2},
	}
	for _, c := range cases {
		if got := c.v.MaxDimension(); got != c.want {
			t.Errorf("MaxDimension(%v) = %d, want %d", c.v, got, c.want)
		}
	}
}

func TestPermute(t *testing.T) {
	v := Vec3{10, 20, 30}
	got := v.Permute(2, 0, 1)
	if want := (Vec3{30, 10, 20}); got != want {
		t.Errorf("Permute = %v, want %v", got, want)
	}
}

func TestCoordinateSystemOrthonormal(t *testing.T) {
	normals := []Vec3{
		{0, 0, 1},
		{0, 0, -1},
		{1, 0, 0},
		{0.577, 0.577, 0.577},
	}
	for _, n := range normals {
		n = n.Normalize()
		s, tt := CoordinateSystem(n)

		if math.Abs(s.Length()-1) > 1e-9 {
			t.Errorf("s not unit length for n=%v: %v", n, s.Length())
		}
		if math.Abs(tt.Length()-1) > 1e-9 {
			t.Errorf("t not unit length for n=%v: %v", n, tt.Length())
		}
		if math.Abs(s.Dot(n)) > 1e-9 {
			t.Errorf("s not perpendicular to n=%v: dot=%v", n, s.Dot(n))
		}
		if math.Abs(tt.Dot(n)) > 1e-9 {
			t.Errorf("t not perpendicular to n=%v: dot=%v", n, tt.Dot(n))
		}
		if math.Abs(s.Dot(tt)) > 1e-9 {
			t.Errorf("s not perpendicular to t for n=%v: dot=%v", n, s.Dot(tt))
		}
	}
}

func TestFaceForward(t *testing.T) {
	n := Vec3{0, 0, 1}
	v := Vec3{0, 0, -1}
	got := FaceForward(n, v)
	if got != n.Negate() {
		t.Errorf("FaceForward should flip n against v, got %v", got)
	}

	v2 := Vec3{0, 0, 1}
	if got := FaceForward(n, v2); got != n {
		t.Errorf("FaceForward should keep n when already aligned, got %v", got)
	}
}

func TestHasNaN(t *testing.T) {
	if (Vec3{1, 2, 3}).HasNaN() {
		t.Error("finite vector reported HasNaN")
	}
	if !(Vec3{math.NaN(), 0, 0}).HasNaN() {
		t.Error("NaN vector not detected")
	}
}
