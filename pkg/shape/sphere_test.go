package shape

import (
	"math"
	"testing"

	"goray/pkg/geometry"
)

func TestSphereIntersectHitsFromOutside(t *testing.T) {
	s := NewSphere(geometry.IdentityTransform(), 1, false)
	r := geometry.NewRay(geometry.Point3{X: -5, Y: 0, Z: 0}, geometry.Vec3{X: 1, Y: 0, Z: 0})

	hit, ok := s.Intersect(r)
	if !ok {
		t.Fatal("expected a hit")
	}
	if math.Abs(hit.T-4) > 1e-9 {
		t.Errorf("tHit = %v, want 4", hit.T)
	}
	if math.Abs(hit.Intr.P.Length()-1) > 1e-9 {
		t.Errorf("hit point should lie on unit sphere, got %v", hit.Intr.P)
	}
	if hit.Intr.N.Dot(geometry.Vec3{X: -1, Y: 0, Z: 0}) < 0.99 {
		t.Errorf("normal at (-1,0,0) should point toward -x, got %v", hit.Intr.N)
	}
}

func TestSphereIntersectMisses(t *testing.T) {
	s := NewSphere(geometry.IdentityTransform(), 1, false)
	r := geometry.NewRay(geometry.Point3{X: -5, Y: 5, Z: 0}, geometry.Vec3{X: 1, Y: 0, Z: 0})
	if _, ok := s.Intersect(r); ok {
		t.Error("ray passing beside the sphere should not hit")
	}
}

func TestSphereIntersectBehindOriginMisses(t *testing.T) {
	s := NewSphere(geometry.IdentityTransform(), 1, false)
	r := geometry.NewRay(geometry.Point3{X: 5, Y: 0, Z: 0}, geometry.Vec3{X: 1, Y: 0, Z: 0})
	if _, ok := s.Intersect(r); ok {
		t.Error("sphere entirely behind the ray origin should not hit")
	}
}

func TestSphereWorldBoundContainsSphere(t *testing.T) {
	tr := geometry.Translate(geometry.Vec3{X: 2, Y: 0, Z: 0})
	s := NewSphere(tr, 1.5, false)
	b := s.WorldBound()

	center := geometry.Point3{X: 2, Y: 0, Z: 0}
	for _, d := range []geometry.Vec3{{X: 1, Y: 0, Z: 0}, {X: -1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: 0, Z: 1}} {
		p := center.Add(d.Mul(1.5))
		if p.X < b.Min.X-1e-9 || p.X > b.Max.X+1e-9 ||
			p.Y < b.Min.Y-1e-9 || p.Y > b.Max.Y+1e-9 ||
			p.Z < b.Min.Z-1e-9 || p.Z > b.Max.Z+1e-9 {
			t.Errorf("surface point %v outside world bound %v", p, b)
		}
	}
}

func TestSphereAreaMatchesFormula(t *testing.T) {
	s := NewSphere(geometry.IdentityTransform(), 2, false)
	want := 4 * math.Pi * 4
	if math.Abs(s.Area()-want) > 1e-9 {
		t.Errorf("Area() = %v, want %v", s.Area(), want)
	}
}

func TestSphereSampleLiesOnSurface(t *testing.T) {
	s := NewSphere(geometry.Translate(geometry.Vec3{X: 1, Y: 2, Z: 3}), 2, false)
	for _, u := range []geometry.Vec2{{X: 0.1, Y: 0.2}, {X: 0.5, Y: 0.5}, {X: 0.9, Y: 0.9}} {
		intr, pdf := s.Sample(u)
		d := intr.P.Sub(geometry.Point3{X: 1, Y: 2, Z: 3}).Length()
		if math.Abs(d-2) > 1e-6 {
			t.Errorf("sampled point at distance %v from center, want 2", d)
		}
		if pdf <= 0 {
			t.Errorf("expected positive pdf, got %v", pdf)
		}
	}
}

func TestSphereReverseOrientationFlipsNormal(t *testing.T) {
	forward := NewSphere(geometry.IdentityTransform(), 1, false)
	reversed := NewSphere(geometry.IdentityTransform(), 1, true)
	r := geometry.NewRay(geometry.Point3{X: -5, Y: 0, Z: 0}, geometry.Vec3{X: 1, Y: 0, Z: 0})

	hf, _ := forward.Intersect(r)
	hr, _ := reversed.Intersect(r)
	if hf.Intr.N.Add(hr.Intr.N).Length() > 1e-9 {
		t.Errorf("reversed sphere normal should be negated: %v vs %v", hf.Intr.N, hr.Intr.N)
	}
}
