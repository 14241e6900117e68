package geometry

import "math"

// Bounds3 is an axis-aligned box stored as its two extreme corners. Min must
// be componentwise <= Max; every constructor and union operation here
// restores that after combining arbitrary inputs.
type Bounds3 struct {
	Min, Max Point3
}

// EmptyBounds3 returns a bounds whose Min/Max are inverted so that unioning
// it with anything yields that thing unchanged — the identity element for Union.
func EmptyBounds3() Bounds3 {
	inf := math.Inf(1)
	return Bounds3{Min: Vec3{inf, inf, inf}, Max: Vec3{-inf, -inf, -inf}}
}

func NewBounds3(a, b Point3) Bounds3 {
	return Bounds3{
		Min: Vec3{math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z)},
		Max: Vec3{math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z)},
	}
}

func (b Bounds3) UnionPoint(p Point3) Bounds3 {
	return Bounds3{
		Min: Vec3{math.Min(b.Min.X, p.X), math.Min(b.Min.Y, p.Y), math.Min(b.Min.Z, p.Z)},
		Max: Vec3{math.Max(b.Max.X, p.X), math.Max(b.Max.Y, p.Y), math.Max(b.Max.Z, p.Z)},
	}
}

func (b Bounds3) Union(o Bounds3) Bounds3 {
	return Bounds3{
		Min: Vec3{math.Min(b.Min.X, o.Min.X), math.Min(b.Min.Y, o.Min.Y), math.Min(b.Min.Z, o.Min.Z)},
		Max: Vec3{math.Max(b.Max.X, o.Max.X), math.Max(b.Max.Y, o.Max.Y), math.Max(b.Max.Z, o.Max.Z)},
	}
}

func (b Bounds3) Intersect(o Bounds3) Bounds3 {
	return Bounds3{
		Min: Vec3{math.Max(b.Min.X, o.Min.X), math.Max(b.Min.Y, o.Min.Y), math.Max(b.Min.Z, o.Min.Z)},
		Max: Vec3{math.Min(b.Max.X, o.Max.X), math.Min(b.Max.Y, o.Max.Y), math.Min(b.Max.Z, o.Max.Z)},
	}
}

func (b Bounds3) Overlaps(o Bounds3) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y &&
		b.Min.Z <= o.Max.Z && b.Max.Z >= o.Min.Z
}

func (b Bounds3) Diagonal() Vec3 { return b.Max.Sub(b.Min) }

func (b Bounds3) SurfaceArea() float64 {
	d := b.Diagonal()
	return 2 * (d.X*d.Y + d.Y*d.Z + d.Z*d.X)
}

func (b Bounds3) Volume() float64 {
	d := b.Diagonal()
	return d.X * d.Y * d.Z
}

func (b Bounds3) Centroid() Point3 { return b.Min.Add(b.Max).Mul(0.5) }

// MaximumExtent returns the axis (0,1,2) along which the box is longest.
func (b Bounds3) MaximumExtent() int { return b.Diagonal().MaxDimension() }

// Corner returns one of the eight corners of the box, selected by a 3-bit
// index where bit i chooses Min (0) or Max (1) on axis i.
func (b Bounds3) Corner(i int) Point3 {
	return Vec3{
		X: b.corner(i, 0),
		Y: b.corner(i, 1),
		Z: b.corner(i, 2),
	}
}

func (b Bounds3) corner(i, axis int) float64 {
	if i&(1<<uint(axis)) != 0 {
		return b.Max.Component(axis)
	}
	return b.Min.Component(axis)
}

// Offset returns the position of p relative to the box, normalized to [0,1]
// on each axis where the box has nonzero extent.
func (b Bounds3) Offset(p Point3) Vec3 {
	o := p.Sub(b.Min)
	d := b.Diagonal()
	if d.X > 0 {
		o.X /= d.X
	}
	if d.Y > 0 {
		o.Y /= d.Y
	}
	if d.Z > 0 {
		o.Z /= d.Z
	}
	return o
}

// BoundingSphere returns a center and radius that enclose the box, used by
// infinite and distant lights to place their shadow-ray endpoints outside
// the scene.
func (b Bounds3) BoundingSphere() (center Point3, radius float64) {
	center = b.Centroid()
	radius = b.Max.Sub(center).Length()
	return center, radius
}

// IntersectP implements the ray-bounds slab test of spec.md §4.1 using a
// precomputed inverse-direction/sign cache. It returns whether the ray's
// segment [0, ray.TMax] overlaps the box.
func (b Bounds3) IntersectP(r Ray, cache RayIntersectCache) bool {
	tMin, tMax := 0.0, r.TMax

	bounds := [2]Point3{b.Min, b.Max}
	for axis := 0; axis < 3; axis++ {
		d := r.Direction.Component(axis)
		if d == 0 {
			o := r.Origin.Component(axis)
			if o < b.Min.Component(axis) || o > b.Max.Component(axis) {
				return false
			}
			continue
		}
		var neg, pos int
		if cache.NegDir[axis] {
			neg, pos = 1, 0
		} else {
			neg, pos = 0, 1
		}
		invD := cache.InvDir.Component(axis)
		o := r.Origin.Component(axis)
		tNear := (bounds[neg].Component(axis) - o) * invD
		tFar := (bounds[pos].Component(axis) - o) * invD

		if tNear > tMin {
			tMin = tNear
		}
		if tFar < tMax {
			tMax = tFar
		}
		if tMin > tMax {
			return false
		}
	}
	return tMin < r.TMax && tMax > 0
}

// Bounds returns the bounds of the eight transformed corners of b.
func (t Transform) Bounds(b Bounds3) Bounds3 {
	ret := EmptyBounds3()
	for i := 0; i < 8; i++ {
		ret = ret.UnionPoint(t.Point(b.Corner(i)))
	}
	return ret
}
