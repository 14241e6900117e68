// Package shape implements the surface primitives of spec.md Component B:
// spheres, triangle meshes, discs and quads, each able to bound itself,
// report surface area, intersect a ray (spheres and triangles also give a
// conservative error bound on the hit position; discs and quads report a
// zero bound), and sample a point on (or visible from) their surface
// for direct-lighting estimation.
package shape

import (
	"math"

	"goray/pkg/geometry"
)

// Interaction records a point on a shape's surface together with the
// floating-point error bound on that point (spec.md §4.1's p_error) and the
// local shading frame.
type Interaction struct {
	P       geometry.Point3
	PError  geometry.Vec3
	N       geometry.Normal3
	Wo      geometry.Vec3
	UV      geometry.Vec2
	DPDU    geometry.Vec3
	DPDV    geometry.Vec3
}

// OffsetRayOrigin nudges P along N (oriented toward w) by an amount derived
// from PError, producing a point to start the next ray from that is safe
// from immediate self-intersection.
func (it Interaction) OffsetRayOrigin(w geometry.Vec3) geometry.Point3 {
	d := it.N.Abs().Dot(it.PError)
	offset := it.N.Mul(d)
	if w.Dot(it.N) < 0 {
		offset = offset.Negate()
	}
	p := it.P.Add(offset)
	for axis := 0; axis < 3; axis++ {
		v := p.Component(axis)
		if offset.Component(axis) > 0 {
			p = p.WithComponent(axis, math.Nextafter(v, math.Inf(1)))
		} else if offset.Component(axis) < 0 {
			p = p.WithComponent(axis, math.Nextafter(v, math.Inf(-1)))
		}
	}
	return p
}

// SpawnRay builds a ray leaving this interaction toward direction d, offset
// to avoid self-intersection.
func (it Interaction) SpawnRay(d geometry.Vec3) geometry.Ray {
	return geometry.NewRay(it.OffsetRayOrigin(d), d)
}

// SpawnRayTo builds a shadow ray from this interaction toward a point.
func (it Interaction) SpawnRayTo(p geometry.Point3) geometry.Ray {
	origin := it.OffsetRayOrigin(p.Sub(it.P))
	return geometry.NewRayBetween(origin, p)
}

// Hit is the result of a successful ray-shape intersection: the parametric
// distance along the ray and the resulting surface interaction.
type Hit struct {
	T    float64
	Intr Interaction
}

// Shape is the common interface for all surface primitives.
type Shape interface {
	WorldBound() geometry.Bounds3
	Area() float64

	// Intersect returns the closest hit with r (r.TMax bounds the search) and
	// reports whether one was found.
	Intersect(r geometry.Ray) (Hit, bool)

	// IntersectP is a cheaper any-hit predicate used for shadow rays.
	IntersectP(r geometry.Ray) bool

	// Sample draws a point on the shape's surface with respect to area
	// measure, returning the interaction and the PDF (1/Area for uniform
	// samplers).
	Sample(u geometry.Vec2) (Interaction, float64)

	// SampleFromPoint draws a point on the shape as seen from a reference
	// interaction, returning a PDF with respect to solid angle at ref.
	// The default implementation (via SampleFromPointDefault) converts an
	// area sample; shapes that admit a better strategy (Sphere's cone
	// sampling) override it.
	SampleFromPoint(ref Interaction, u geometry.Vec2) (Interaction, float64)

	// PDFFromPoint returns the solid-angle PDF of sampling direction wi from
	// ref via SampleFromPoint, used by MIS when the light sampling strategy
	// and the BSDF sampling strategy must be compared on the same measure.
	PDFFromPoint(ref Interaction, wi geometry.Vec3) float64
}

// SampleFromPointDefault implements the generic area-to-solid-angle
// conversion shared by shapes with no closed-form visible-cone sampling
// strategy: sample the full surface uniformly by area, then convert.
func SampleFromPointDefault(s Shape, ref Interaction, u geometry.Vec2) (Interaction, float64) {
	intr, pdfArea := s.Sample(u)
	wi := intr.P.Sub(ref.P)
	distSq := wi.LengthSquared()
	if distSq == 0 {
		return intr, 0
	}
	wi = wi.Normalize()
	cosTheta := intr.N.AbsDot(wi.Negate())
	if cosTheta == 0 {
		return intr, 0
	}
	pdf := pdfArea * distSq / cosTheta
	if math.IsInf(pdf, 1) || math.IsNaN(pdf) {
		pdf = 0
	}
	return intr, pdf
}

// PDFFromPointDefault is the solid-angle PDF matching SampleFromPointDefault:
// it traces a ray from ref toward wi, finds where it lands on s, and
// converts that hit's area PDF to a solid-angle PDF.
func PDFFromPointDefault(s Shape, ref Interaction, wi geometry.Vec3) float64 {
	r := ref.SpawnRay(wi)
	hit, ok := s.Intersect(r)
	if !ok {
		return 0
	}
	distSq := hit.Intr.P.Sub(ref.P).LengthSquared()
	cosTheta := hit.Intr.N.AbsDot(wi.Negate())
	if cosTheta == 0 {
		return 0
	}
	return distSq / (cosTheta * s.Area())
}
