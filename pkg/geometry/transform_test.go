package geometry

import (
	"math"
	"testing"
)

func approxEqual(a, b Vec3, eps float64) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps && math.Abs(a.Z-b.Z) < eps
}

func TestTransformInverseRoundTrip(t *testing.T) {
	tr := Translate(Vec3{1, 2, 3}).Compose(RotateAxis(37, Vec3{0, 1, 0})).Compose(Scale(Vec3{2, 3, 0.5}))
	inv := tr.Inverse()

	p := Point3{5, -2, 9}
	got := inv.Point(tr.Point(p))
	if !approxEqual(got, p, 1e-9) {
		t.Errorf("Inverse().Point(Point(p)) = %v, want %v", got, p)
	}
}

func TestComposeMatchesSequentialApplication(t *testing.T) {
	a := Translate(Vec3{1, 0, 0})
	b := Scale(Vec3{2, 2, 2})
	composed := a.Compose(b)

	p := Point3{1, 1, 1}
	viaCompose := composed.Point(p)
	viaSequential := a.Point(b.Point(p))

	if !approxEqual(viaCompose, viaSequential, 1e-9) {
		t.Errorf("composed transform disagrees with sequential application: %v vs %v", viaCompose, viaSequential)
	}
}

func TestTranslateIdentityOnVector(t *testing.T) {
	tr := Translate(Vec3{5, -3, 2})
	v := Vec3{1, 1, 1}
	if got := tr.Vector(v); got != v {
		t.Errorf("translation must not affect vectors, got %v", got)
	}
}

func TestRotateAxisPreservesLength(t *testing.T) {
	tr := RotateAxis(73, Vec3{1, 1, 0})
	v := Vec3{3, -1, 2}
	got := tr.Vector(v)
	if math.Abs(got.Length()-v.Length()) > 1e-9 {
		t.Errorf("rotation changed vector length: %v vs %v", got.Length(), v.Length())
	}
}

func TestLookAtOrthonormal(t *testing.T) {
	tr := LookAt(Vec3{0, 0, -5}, Vec3{0, 0, 0}, Vec3{0, 1, 0})
	right := tr.Vector(Vec3{1, 0, 0})
	up := tr.Vector(Vec3{0, 1, 0})
	dir := tr.Vector(Vec3{0, 0, 1})

	if math.Abs(right.Dot(up)) > 1e-9 || math.Abs(up.Dot(dir)) > 1e-9 || math.Abs(right.Dot(dir)) > 1e-9 {
		t.Errorf("LookAt basis not orthogonal: right=%v up=%v dir=%v", right, up, dir)
	}

	eyeWorld := tr.Point(Point3{0, 0, 0})
	if !approxEqual(eyeWorld, Vec3{0, 0, -5}, 1e-9) {
		t.Errorf("LookAt should map camera origin to eye position, got %v", eyeWorld)
	}
}

func TestBoundsTransformContainsTransformedCorners(t *testing.T) {
	b := NewBounds3(Point3{-1, -1, -1}, Point3{1, 1, 1})
	tr := RotateAxis(45, Vec3{0, 0, 1}).Compose(Translate(Vec3{2, 0, 0}))
	tb := tr.Bounds(b)

	for i := 0; i < 8; i++ {
		c := tr.Point(b.Corner(i))
		if c.X < tb.Min.X-1e-9 || c.X > tb.Max.X+1e-9 ||
			c.Y < tb.Min.Y-1e-9 || c.Y > tb.Max.Y+1e-9 ||
			c.Z < tb.Min.Z-1e-9 || c.Z > tb.Max.Z+1e-9 {
			t.Errorf("transformed corner %v not contained in transformed bounds %v", c, tb)
		}
	}
}

func TestSwapsHandedness(t *testing.T) {
	if IdentityTransform().SwapsHandedness() {
		t.Error("identity should not swap handedness")
	}
	if !Scale(Vec3{-1, 1, 1}).SwapsHandedness() {
		t.Error("single-axis negative scale should swap handedness")
	}
	if Scale(Vec3{-1, -1, 1}).SwapsHandedness() {
		t.Error("double-axis negative scale should not swap handedness")
	}
}
