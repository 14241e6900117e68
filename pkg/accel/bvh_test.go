package accel

import (
	"math"
	"math/rand"
	"testing"

	"goray/pkg/geometry"
	"goray/pkg/shape"
)

func spherePrims(centers []geometry.Point3, radius float64) []Primitive {
	prims := make([]Primitive, len(centers))
	for i, c := range centers {
		prims[i] = Primitive{
			Shape:      shape.NewSphere(geometry.Translate(geometry.Vec3(c)), radius, false),
			MaterialID: i,
			LightID:    -1,
		}
	}
	return prims
}

func linearIntersect(prims []Primitive, r geometry.Ray) (Hit, bool) {
	var best Hit
	found := false
	for i := range prims {
		if hit, ok := prims[i].Shape.Intersect(r); ok {
			if !found || hit.T < best.T {
				best = Hit{T: hit.T, Intr: hit.Intr, Primitive: &prims[i]}
				r.TMax = hit.T
				found = true
			}
		}
	}
	return best, found
}

func TestBVHMatchesLinearScan(t *testing.T) {
	random := rand.New(rand.NewSource(7))
	centers := make([]geometry.Point3, 50)
	for i := range centers {
		centers[i] = geometry.Point3{
			X: random.Float64()*20 - 10,
			Y: random.Float64()*20 - 10,
			Z: random.Float64()*20 - 10,
		}
	}

	reference := spherePrims(centers, 0.5)
	bvhInput := spherePrims(centers, 0.5)
	bvh := NewBVHAggregate(bvhInput, 2)

	for i := 0; i < 200; i++ {
		origin := geometry.Point3{X: random.Float64()*40 - 20, Y: random.Float64()*40 - 20, Z: -30}
		dir := geometry.Vec3{
			X: random.Float64()*2 - 1,
			Y: random.Float64()*2 - 1,
			Z: 1,
		}.Normalize()
		r := geometry.NewRay(origin, dir)

		wantHit, wantOK := linearIntersect(reference, r)
		gotHit, gotOK := bvh.Intersect(r)

		if wantOK != gotOK {
			t.Fatalf("ray %d: linear found=%v, bvh found=%v", i, wantOK, gotOK)
		}
		if wantOK && math.Abs(wantHit.T-gotHit.T) > 1e-9 {
			t.Errorf("ray %d: linear t=%v, bvh t=%v", i, wantHit.T, gotHit.T)
		}
	}
}

func TestBVHIntersectPAgreesWithIntersect(t *testing.T) {
	random := rand.New(rand.NewSource(11))
	centers := make([]geometry.Point3, 30)
	for i := range centers {
		centers[i] = geometry.Point3{X: random.Float64() * 10, Y: random.Float64() * 10, Z: random.Float64() * 10}
	}
	bvh := NewBVHAggregate(spherePrims(centers, 1), 1)

	for i := 0; i < 100; i++ {
		origin := geometry.Point3{X: -5, Y: random.Float64() * 10, Z: random.Float64() * 10}
		r := geometry.NewRay(origin, geometry.Vec3{X: 1, Y: 0, Z: 0})
		_, hitFound := bvh.Intersect(r)
		anyFound := bvh.IntersectP(r)
		if hitFound != anyFound {
			t.Errorf("ray %d: Intersect found=%v but IntersectP=%v", i, hitFound, anyFound)
		}
	}
}

func TestBVHWorldBoundContainsAllPrimitives(t *testing.T) {
	centers := []geometry.Point3{{X: -5, Y: 0, Z: 0}, {X: 5, Y: 0, Z: 0}, {X: 0, Y: 8, Z: -3}}
	bvh := NewBVHAggregate(spherePrims(centers, 1), 1)
	wb := bvh.WorldBound()

	for _, c := range centers {
		b := geometry.NewBounds3(c, c)
		if !wb.Overlaps(b) {
			t.Errorf("world bound %v doesn't contain primitive center %v", wb, c)
		}
	}
}

func TestBVHEmptyHasNoBound(t *testing.T) {
	bvh := NewBVHAggregate(nil, 1)
	if _, ok := bvh.Intersect(geometry.NewRay(geometry.Point3{}, geometry.Vec3{X: 1})); ok {
		t.Error("empty BVH should never report a hit")
	}
	if bvh.IntersectP(geometry.NewRay(geometry.Point3{}, geometry.Vec3{X: 1})) {
		t.Error("empty BVH should never report an any-hit")
	}
}

func TestBVHPreservesAllPrimitives(t *testing.T) {
	centers := make([]geometry.Point3, 17)
	for i := range centers {
		centers[i] = geometry.Point3{X: float64(i), Y: 0, Z: 0}
	}
	bvh := NewBVHAggregate(spherePrims(centers, 0.1), 4)
	if got := len(bvh.Primitives()); got != len(centers) {
		t.Errorf("BVH dropped primitives during build: got %d, want %d", got, len(centers))
	}
}
