package geometry

import (
	"math"
	"testing"
)

func TestUnionMonotonicallyGrows(t *testing.T) {
	b1 := NewBounds3(Point3{0, 0, 0}, Point3{1, 1, 1})
	b2 := NewBounds3(Point3{2, -1, 0.5}, Point3{3, 0, 2})

	u := b1.Union(b2)

	if u.SurfaceArea() < b1.SurfaceArea() || u.SurfaceArea() < b2.SurfaceArea() {
		t.Errorf("union surface area %v smaller than an input", u.SurfaceArea())
	}
	if !u.Overlaps(b1) || !u.Overlaps(b2) {
		t.Error("union must overlap both inputs")
	}
}

func TestEmptyBoundsIsUnionIdentity(t *testing.T) {
	b := NewBounds3(Point3{-1, -2, -3}, Point3{4, 5, 6})
	u := EmptyBounds3().Union(b)
	if u != b {
		t.Errorf("EmptyBounds3().Union(b) = %v, want %v", u, b)
	}
}

func TestUnionPointExpandsBounds(t *testing.T) {
	b := NewBounds3(Point3{0, 0, 0}, Point3{1, 1, 1})
	p := Point3{5, -3, 0.5}
	u := b.UnionPoint(p)

	if u.Min.X > p.X || u.Min.Y > p.Y || u.Max.X < p.X {
		t.Errorf("UnionPoint did not expand to contain %v: %v", p, u)
	}
}

func TestCornerRoundTrip(t *testing.T) {
	b := NewBounds3(Point3{0, 0, 0}, Point3{2, 3, 4})
	for i := 0; i < 8; i++ {
		c := b.Corner(i)
		if c.X != 0 && c.X != 2 {
			t.Errorf("corner %d has unexpected X %v", i, c.X)
		}
		if c.Y != 0 && c.Y != 3 {
			t.Errorf("corner %d has unexpected Y %v", i, c.Y)
		}
		if c.Z != 0 && c.Z != 4 {
			t.Errorf("corner %d has unexpected Z %v", i, c.Z)
		}
	}
}

func TestBoundingSphereContainsCorners(t *testing.T) {
	b := NewBounds3(Point3{-1, -2, -3}, Point3{4, 5, 6})
	center, radius := b.BoundingSphere()
	for i := 0; i < 8; i++ {
		d := b.Corner(i).Sub(center).Length()
		if d > radius+1e-9 {
			t.Errorf("corner %d at distance %v exceeds bounding sphere radius %v", i, d, radius)
		}
	}
}

func TestIntersectPAgreesWithSlabTest(t *testing.T) {
	b := NewBounds3(Point3{-1, -1, -1}, Point3{1, 1, 1})

	hit := NewRay(Point3{-5, 0, 0}, Vec3{1, 0, 0})
	cache := NewRayIntersectCache(hit.Direction)
	if !b.IntersectP(hit, cache) {
		t.Error("ray through the box center should intersect")
	}

	miss := NewRay(Point3{-5, 5, 0}, Vec3{1, 0, 0})
	missCache := NewRayIntersectCache(miss.Direction)
	if b.IntersectP(miss, missCache) {
		t.Error("ray passing beside the box should not intersect")
	}

	behind := NewRay(Point3{5, 0, 0}, Vec3{1, 0, 0})
	behindCache := NewRayIntersectCache(behind.Direction)
	if b.IntersectP(behind, behindCache) {
		t.Error("ray pointing away from the box should not intersect")
	}
}

func TestOffsetIsZeroToOne(t *testing.T) {
	b := NewBounds3(Point3{0, 0, 0}, Point3{10, 10, 10})
	o := b.Offset(Point3{5, 0, 10})
	if math.Abs(o.X-0.5) > 1e-9 || o.Y != 0 || o.Z != 1 {
		t.Errorf("Offset = %v, want {0.5 0 1}", o)
	}
}
