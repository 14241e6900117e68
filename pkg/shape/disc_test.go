package shape

import (
	"math"
	"testing"

	"goray/pkg/geometry"
)

func TestDiscIntersectHitsWithinRadius(t *testing.T) {
	d := NewDisc(geometry.IdentityTransform(), 0, 2, 0, false)
	r := geometry.NewRay(geometry.Point3{X: 0.5, Y: 0.5, Z: -5}, geometry.Vec3{X: 0, Y: 0, Z: 1})
	hit, ok := d.Intersect(r)
	if !ok {
		t.Fatal("expected a hit within the disc's radius")
	}
	if math.Abs(hit.T-5) > 1e-9 {
		t.Errorf("tHit = %v, want 5", hit.T)
	}
}

func TestDiscIntersectMissesBeyondRadius(t *testing.T) {
	d := NewDisc(geometry.IdentityTransform(), 0, 1, 0, false)
	r := geometry.NewRay(geometry.Point3{X: 3, Y: 0, Z: -5}, geometry.Vec3{X: 0, Y: 0, Z: 1})
	if _, ok := d.Intersect(r); ok {
		t.Error("ray beyond the disc's radius should not hit")
	}
}

func TestDiscIntersectMissesWithinInnerHole(t *testing.T) {
	d := NewDisc(geometry.IdentityTransform(), 0, 2, 1, false)
	r := geometry.NewRay(geometry.Point3{X: 0.2, Y: 0, Z: -5}, geometry.Vec3{X: 0, Y: 0, Z: 1})
	if _, ok := d.Intersect(r); ok {
		t.Error("ray through the disc's inner hole should not hit")
	}
}

func TestDiscAreaAccountsForInnerRadius(t *testing.T) {
	d := NewDisc(geometry.IdentityTransform(), 0, 2, 1, false)
	want := math.Pi * (4 - 1)
	if math.Abs(d.Area()-want) > 1e-9 {
		t.Errorf("Area() = %v, want %v", d.Area(), want)
	}
}

func TestDiscParallelRayMisses(t *testing.T) {
	d := NewDisc(geometry.IdentityTransform(), 0, 2, 0, false)
	r := geometry.NewRay(geometry.Point3{X: 0, Y: 0, Z: 5}, geometry.Vec3{X: 1, Y: 0, Z: 0})
	if _, ok := d.Intersect(r); ok {
		t.Error("a ray parallel to the disc's plane should never hit")
	}
}

func TestDiscSampleLiesAtHeight(t *testing.T) {
	d := NewDisc(geometry.Translate(geometry.Vec3{X: 0, Y: 0, Z: 7}), 2, 3, 0, false)
	intr, pdf := d.Sample(geometry.Vec2{X: 0.4, Y: 0.6})
	if math.Abs(intr.P.Z-9) > 1e-6 {
		t.Errorf("sampled point z = %v, want 9 (height 2 + translate 7)", intr.P.Z)
	}
	if pdf <= 0 {
		t.Errorf("expected positive pdf, got %v", pdf)
	}
}
