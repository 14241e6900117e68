package geometry

import "math"

// Ray carries an origin, direction and a mutable upper bound TMax. TMax is
// finite for shadow/visibility rays and +Inf for camera and scattered rays;
// closest-hit traversal shrinks it monotonically as nearer hits are found.
type Ray struct {
	Origin    Point3
	Direction Vec3
	TMax      float64
}

func NewRay(origin Point3, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction, TMax: math.Inf(1)}
}

// NewRayBetween builds a shadow ray from p toward q with TMax just short of
// 1 so the endpoint itself is excluded from any-hit traversal.
func NewRayBetween(p, q Point3) Ray {
	d := q.Sub(p)
	return Ray{Origin: p, Direction: d, TMax: 1 - shadowEpsilon}
}

const shadowEpsilon = 1e-3

func (r Ray) At(t float64) Point3 { return r.Origin.Add(r.Direction.Mul(t)) }

// RayIntersectCache precomputes 1/d componentwise and the sign of each
// component, used by the slab test to avoid repeated divisions.
type RayIntersectCache struct {
	InvDir Vec3
	NegDir [3]bool
}

func NewRayIntersectCache(d Vec3) RayIntersectCache {
	inv := Vec3{1 / d.X, 1 / d.Y, 1 / d.Z}
	return RayIntersectCache{
		InvDir: inv,
		NegDir: [3]bool{d.X < 0, d.Y < 0, d.Z < 0},
	}
}
