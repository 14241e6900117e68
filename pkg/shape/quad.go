package shape

import (
	"goray/pkg/geometry"
)

// Quad is a planar parallelogram defined by a corner point and two edge
// vectors, commonly used as a rectangular area light. It is a supplemented
// shape (original_source/ scenes build area lights out of paired triangles,
// but a dedicated quad avoids the asymmetric-sampling seam a two-triangle
// split introduces along its diagonal).
type Quad struct {
	ObjectToWorld, WorldToObject geometry.Transform
	Corner                       geometry.Point3
	EdgeU, EdgeV                 geometry.Vec3
	ReverseOrientation           bool

	worldCorner        geometry.Point3
	worldU, worldV     geometry.Vec3
	worldNormal        geometry.Normal3
	area               float64
}

func NewQuad(o2w geometry.Transform, corner geometry.Point3, edgeU, edgeV geometry.Vec3, reverseOrientation bool) *Quad {
	q := &Quad{
		ObjectToWorld:      o2w,
		WorldToObject:      o2w.Inverse(),
		Corner:             corner,
		EdgeU:              edgeU,
		EdgeV:              edgeV,
		ReverseOrientation: reverseOrientation,
	}
	q.worldCorner = o2w.Point(corner)
	cu := o2w.Point(corner.Add(edgeU))
	cv := o2w.Point(corner.Add(edgeV))
	q.worldU = cu.Sub(q.worldCorner)
	q.worldV = cv.Sub(q.worldCorner)
	n := q.worldU.Cross(q.worldV)
	q.area = n.Length()
	n = n.Normalize()
	if reverseOrientation {
		n = n.Negate()
	}
	q.worldNormal = n
	return q
}

func (q *Quad) WorldBound() geometry.Bounds3 {
	b := geometry.NewBounds3(q.worldCorner, q.worldCorner.Add(q.worldU))
	b = b.UnionPoint(q.worldCorner.Add(q.worldV))
	b = b.UnionPoint(q.worldCorner.Add(q.worldU).Add(q.worldV))
	return b
}

func (q *Quad) Area() float64 { return q.area }

// Intersect treats the quad as lying in the plane through worldCorner with
// normal worldNormal, then checks the hit point's (u,v) parametric
// coordinates against the unit square.
func (q *Quad) Intersect(r geometry.Ray) (Hit, bool) {
	denom := q.worldNormal.Dot(r.Direction)
	if denom == 0 {
		return Hit{}, false
	}
	t := q.worldNormal.Dot(q.worldCorner.Sub(r.Origin)) / denom
	if t <= 0 || t >= r.TMax {
		return Hit{}, false
	}
	pHit := r.At(t)
	rel := pHit.Sub(q.worldCorner)

	uu := q.worldU.LengthSquared()
	vv := q.worldV.LengthSquared()
	uv := q.worldU.Dot(q.worldV)
	wu := rel.Dot(q.worldU)
	wv := rel.Dot(q.worldV)
	det := uu*vv - uv*uv
	if det == 0 {
		return Hit{}, false
	}
	u := (wu*vv - wv*uv) / det
	v := (wv*uu - wu*uv) / det
	if u < 0 || u > 1 || v < 0 || v > 1 {
		return Hit{}, false
	}

	return Hit{T: t, Intr: Interaction{
		P:    pHit,
		N:    q.worldNormal,
		Wo:   r.Origin.Sub(pHit).Normalize(),
		UV:   geometry.Vec2{X: u, Y: v},
		DPDU: q.worldU,
		DPDV: q.worldV,
	}}, true
}

func (q *Quad) IntersectP(r geometry.Ray) bool {
	_, ok := q.Intersect(r)
	return ok
}

func (q *Quad) Sample(u geometry.Vec2) (Interaction, float64) {
	p := q.worldCorner.Add(q.worldU.Mul(u.X)).Add(q.worldV.Mul(u.Y))
	return Interaction{P: p, N: q.worldNormal}, 1 / q.area
}

func (q *Quad) SampleFromPoint(ref Interaction, u geometry.Vec2) (Interaction, float64) {
	return SampleFromPointDefault(q, ref, u)
}

func (q *Quad) PDFFromPoint(ref Interaction, wi geometry.Vec3) float64 {
	return PDFFromPointDefault(q, ref, wi)
}
