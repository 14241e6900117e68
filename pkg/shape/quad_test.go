package shape

import (
	"math"
	"testing"

	"goray/pkg/geometry"
)

func TestQuadIntersectHitsInterior(t *testing.T) {
	q := NewQuad(geometry.IdentityTransform(), geometry.Point3{X: -1, Y: -1, Z: 0},
		geometry.Vec3{X: 2, Y: 0, Z: 0}, geometry.Vec3{X: 0, Y: 2, Z: 0}, false)

	r := geometry.NewRay(geometry.Point3{X: 0.25, Y: 0.25, Z: -5}, geometry.Vec3{X: 0, Y: 0, Z: 1})
	hit, ok := q.Intersect(r)
	if !ok {
		t.Fatal("expected a hit inside the quad")
	}
	if math.Abs(hit.T-5) > 1e-9 {
		t.Errorf("tHit = %v, want 5", hit.T)
	}
}

func TestQuadIntersectMissesOutsideFootprint(t *testing.T) {
	q := NewQuad(geometry.IdentityTransform(), geometry.Point3{X: -1, Y: -1, Z: 0},
		geometry.Vec3{X: 2, Y: 0, Z: 0}, geometry.Vec3{X: 0, Y: 2, Z: 0}, false)
	r := geometry.NewRay(geometry.Point3{X: 5, Y: 5, Z: -5}, geometry.Vec3{X: 0, Y: 0, Z: 1})
	if _, ok := q.Intersect(r); ok {
		t.Error("ray outside the quad's footprint should not hit")
	}
}

func TestQuadAreaMatchesEdgeCrossProduct(t *testing.T) {
	q := NewQuad(geometry.IdentityTransform(), geometry.Point3{}, geometry.Vec3{X: 3}, geometry.Vec3{Y: 4}, false)
	if math.Abs(q.Area()-12) > 1e-9 {
		t.Errorf("Area() = %v, want 12", q.Area())
	}
}

func TestQuadReverseOrientationFlipsNormal(t *testing.T) {
	forward := NewQuad(geometry.IdentityTransform(), geometry.Point3{X: -1, Y: -1}, geometry.Vec3{X: 2}, geometry.Vec3{Y: 2}, false)
	reversed := NewQuad(geometry.IdentityTransform(), geometry.Point3{X: -1, Y: -1}, geometry.Vec3{X: 2}, geometry.Vec3{Y: 2}, true)
	if forward.worldNormal.Add(reversed.worldNormal).Length() > 1e-9 {
		t.Errorf("reversed quad normal should be negated: %v vs %v", forward.worldNormal, reversed.worldNormal)
	}
}

func TestQuadSampleLiesWithinParallelogram(t *testing.T) {
	q := NewQuad(geometry.IdentityTransform(), geometry.Point3{X: -1, Y: -1, Z: 2}, geometry.Vec3{X: 2}, geometry.Vec3{Y: 2}, false)
	intr, pdf := q.Sample(geometry.Vec2{X: 0.3, Y: 0.9})
	if math.Abs(intr.P.Z-2) > 1e-9 {
		t.Errorf("sampled point should lie in the quad's plane, got %v", intr.P)
	}
	if pdf <= 0 {
		t.Errorf("expected positive pdf, got %v", pdf)
	}
}

func TestQuadWorldBoundContainsAllCorners(t *testing.T) {
	q := NewQuad(geometry.IdentityTransform(), geometry.Point3{X: -1, Y: -2, Z: 3}, geometry.Vec3{X: 2}, geometry.Vec3{Y: 4}, false)
	b := q.WorldBound()
	corners := []geometry.Point3{
		{X: -1, Y: -2, Z: 3}, {X: 1, Y: -2, Z: 3}, {X: -1, Y: 2, Z: 3}, {X: 1, Y: 2, Z: 3},
	}
	for _, c := range corners {
		if c.X < b.Min.X-1e-9 || c.X > b.Max.X+1e-9 || c.Y < b.Min.Y-1e-9 || c.Y > b.Max.Y+1e-9 {
			t.Errorf("corner %v outside world bound %v", c, b)
		}
	}
}
