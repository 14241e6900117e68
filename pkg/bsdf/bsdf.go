package bsdf

import (
	"math"

	"goray/pkg/geometry"
	"goray/pkg/spectrum"
)

// BSDF composes one or more BxDF lobes at a shading point, converting
// between world space (where the integrator works) and the lobes' local
// frame where the shading normal is (0,0,1). Per spec.md §4.6, sampling
// picks among the lobes with equal probability, f sums every lobe's
// contribution, and pdf averages every lobe's pdf. Delta lobes are kept in
// a separate list: F and PDF cover only the non-delta lobes, a sampled
// delta lobe reports its own f/pdf alone, and SampleNonSpecular draws from
// the non-delta lobes only. Sample itself chooses among delta and
// non-delta lobes together.
type BSDF struct {
	Ns, Ss, Ts geometry.Vec3 // shading normal and an orthonormal tangent frame
	Ng         geometry.Normal3 // geometric normal, for same-side rejection

	lobes      []BxDF
	deltaLobes []BxDF
}

// NewBSDF builds a shading frame from the surface interaction's shading
// normal (falling back to dpdu for the tangent when it is not perpendicular
// enough) and an empty lobe set; call Add to attach lobes.
func NewBSDF(ns, dpdu, ng geometry.Vec3) *BSDF {
	ss := dpdu.Sub(ns.Mul(ns.Dot(dpdu)))
	if ss.LengthSquared() < 1e-12 {
		ss, _ = geometry.CoordinateSystem(ns)
	} else {
		ss = ss.Normalize()
	}
	ts := ns.Cross(ss)
	return &BSDF{Ns: ns, Ss: ss, Ts: ts, Ng: ng}
}

func (b *BSDF) Add(x BxDF) {
	if x.Type().IsSpecular() {
		b.deltaLobes = append(b.deltaLobes, x)
	} else {
		b.lobes = append(b.lobes, x)
	}
}

func (b *BSDF) toLocal(v geometry.Vec3) geometry.Vec3 {
	return geometry.Vec3{X: v.Dot(b.Ss), Y: v.Dot(b.Ts), Z: v.Dot(b.Ns)}
}

func (b *BSDF) toWorld(v geometry.Vec3) geometry.Vec3 {
	return b.Ss.Mul(v.X).Add(b.Ts.Mul(v.Y)).Add(b.Ns.Mul(v.Z))
}

// IsSpecular reports whether every lobe attached to the BSDF is a delta
// lobe, used by the integrator to skip direct-light sampling at a vertex
// whose reflectance can never be hit by a point/area light sample.
func (b *BSDF) IsSpecular() bool { return len(b.lobes) == 0 && len(b.deltaLobes) > 0 }

// NumComponents is the total lobe count (delta + non-delta), used to
// detect a surface with no scattering at all (pure emitter backface).
func (b *BSDF) NumComponents() int { return len(b.lobes) + len(b.deltaLobes) }

// AllLobes returns every attached lobe, delta and non-delta alike, used by
// the mix material to re-wrap and reweight another BSDF's lobes wholesale.
func (b *BSDF) AllLobes() []BxDF {
	out := make([]BxDF, 0, len(b.lobes)+len(b.deltaLobes))
	out = append(out, b.lobes...)
	out = append(out, b.deltaLobes...)
	return out
}

// SpecularLobes returns just the delta lobes, used by the direct-lighting
// integrator to trace each one explicitly (spec.md §4.9).
func (b *BSDF) SpecularLobes() []BxDF { return b.deltaLobes }

// SampleLobe draws an incident direction from a single given lobe
// (typically one returned by SpecularLobes), converting to and from the
// BSDF's local shading frame so callers never need their own frame logic.
func (b *BSDF) SampleLobe(lobe BxDF, woWorld geometry.Vec3, u geometry.Vec2) (f spectrum.Spectrum, wiWorld geometry.Vec3, pdf float64, ok bool) {
	wo := b.toLocal(woWorld)
	lf, wi, lpdf, sOK := lobe.Sample(wo, u)
	if !sOK {
		return spectrum.Black, geometry.Vec3{}, 0, false
	}
	return lf, b.toWorld(wi), lpdf, true
}

func sameSide(wWorld, ng geometry.Vec3) bool { return wWorld.Dot(ng) > 0 }

// F evaluates the sum of every non-delta lobe's contribution for the given
// world-space directions, masking reflection-only lobes against
// transmission and vice versa based on which side of the geometric normal
// wi falls on (the standard shading/geometric normal consistency check).
func (b *BSDF) F(woW, wiW geometry.Vec3) spectrum.Spectrum {
	wo, wi := b.toLocal(woW), b.toLocal(wiW)
	if wo.Z == 0 {
		return spectrum.Black
	}
	reflect := sameSide(wiW, b.Ng) == sameSide(woW, b.Ng)
	sum := spectrum.Black
	for _, lobe := range b.lobes {
		t := lobe.Type()
		if reflect && t&Reflection != 0 || !reflect && t&Transmission != 0 {
			sum = sum.Add(lobe.F(wo, wi))
		}
	}
	return sum
}

// PDF averages the PDF of every non-delta lobe, matching spec.md §4.6's
// mixture-density contract so that Sample's equal-probability lobe choice
// and PDF's reported density stay consistent (required for unbiased MIS).
func (b *BSDF) PDF(woW, wiW geometry.Vec3) float64 {
	if len(b.lobes) == 0 {
		return 0
	}
	wo, wi := b.toLocal(woW), b.toLocal(wiW)
	if wo.Z == 0 {
		return 0
	}
	sum := 0.0
	for _, lobe := range b.lobes {
		sum += lobe.PDF(wo, wi)
	}
	return sum / float64(len(b.lobes))
}

// Sample picks among all attached lobes (delta and non-delta together)
// with equal probability, draws an incident direction from that lobe, and
// returns the aggregate f/pdf consistent with F/PDF above: for a sampled
// non-delta lobe, f sums every non-delta lobe's contribution and pdf
// averages every non-delta lobe's pdf at the sampled direction; for a
// sampled delta lobe, f/pdf come from that lobe alone (other lobes
// contribute zero probability of producing the same wi).
func (b *BSDF) Sample(woW geometry.Vec3, lobeU float64, u geometry.Vec2) (f spectrum.Spectrum, wiW geometry.Vec3, pdf float64, sampledType LobeType, ok bool) {
	nLobes := len(b.lobes) + len(b.deltaLobes)
	if nLobes == 0 {
		return spectrum.Black, geometry.Vec3{}, 0, 0, false
	}
	wo := b.toLocal(woW)
	if wo.Z == 0 {
		return spectrum.Black, geometry.Vec3{}, 0, 0, false
	}

	idx := int(lobeU * float64(nLobes))
	if idx >= nLobes {
		idx = nLobes - 1
	}

	var chosen BxDF
	isDelta := idx >= len(b.lobes)
	if isDelta {
		chosen = b.deltaLobes[idx-len(b.lobes)]
	} else {
		chosen = b.lobes[idx]
	}

	lf, wi, lpdf, sOK := chosen.Sample(wo, u)
	if !sOK || lpdf == 0 {
		return spectrum.Black, geometry.Vec3{}, 0, 0, false
	}
	wiW = b.toWorld(wi)

	if isDelta {
		return lf, wiW, lpdf, chosen.Type(), true
	}

	totalPDF := 0.0
	for _, lobe := range b.lobes {
		totalPDF += lobe.PDF(wo, wi)
	}
	totalPDF /= float64(len(b.lobes))

	reflect := sameSide(wiW, b.Ng) == sameSide(woW, b.Ng)
	sumF := spectrum.Black
	for _, lobe := range b.lobes {
		t := lobe.Type()
		if reflect && t&Reflection != 0 || !reflect && t&Transmission != 0 {
			sumF = sumF.Add(lobe.F(wo, wi))
		}
	}
	if totalPDF == 0 || math.IsNaN(totalPDF) {
		return spectrum.Black, geometry.Vec3{}, 0, 0, false
	}
	return sumF, wiW, totalPDF, chosen.Type(), true
}

// SampleNonSpecular is Sample restricted to the non-delta lobe pool, used
// by the BSDF-sampling strategy of the MIS direct-lighting estimator
// (spec.md §4.9 step 3): a delta lobe has zero probability of landing on
// any light's sampled direction, so including it in that strategy would
// only waste samples, not bias the estimate either way this excludes.
func (b *BSDF) SampleNonSpecular(woW geometry.Vec3, lobeU float64, u geometry.Vec2) (f spectrum.Spectrum, wiW geometry.Vec3, pdf float64, ok bool) {
	if len(b.lobes) == 0 {
		return spectrum.Black, geometry.Vec3{}, 0, false
	}
	wo := b.toLocal(woW)
	if wo.Z == 0 {
		return spectrum.Black, geometry.Vec3{}, 0, false
	}

	idx := int(lobeU * float64(len(b.lobes)))
	if idx >= len(b.lobes) {
		idx = len(b.lobes) - 1
	}
	chosen := b.lobes[idx]

	_, wi, lpdf, sOK := chosen.Sample(wo, u)
	if !sOK || lpdf == 0 {
		return spectrum.Black, geometry.Vec3{}, 0, false
	}
	wiW = b.toWorld(wi)

	totalPDF := 0.0
	for _, lobe := range b.lobes {
		totalPDF += lobe.PDF(wo, wi)
	}
	totalPDF /= float64(len(b.lobes))
	if totalPDF == 0 || math.IsNaN(totalPDF) {
		return spectrum.Black, geometry.Vec3{}, 0, false
	}

	reflect := sameSide(wiW, b.Ng) == sameSide(woW, b.Ng)
	sumF := spectrum.Black
	for _, lobe := range b.lobes {
		t := lobe.Type()
		if reflect && t&Reflection != 0 || !reflect && t&Transmission != 0 {
			sumF = sumF.Add(lobe.F(wo, wi))
		}
	}
	return sumF, wiW, totalPDF, true
}
