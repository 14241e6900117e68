package integrator

import (
	"goray/pkg/geometry"
	"goray/pkg/sampler"
	"goray/pkg/scene"
	"goray/pkg/spectrum"
)

// DirectLighting is the recursive direct-light integrator of spec.md
// §4.9: at each hit, pick one light uniformly and apply the two-strategy
// MIS estimator; for delta BSDFs, additionally trace each delta lobe once
// and recurse with depth+1, since a delta lobe can never be sampled by
// uniformSampleOneLight's light-sampling half.
type DirectLighting struct {
	MaxDepth int
}

func (d DirectLighting) Li(r geometry.Ray, sc *scene.Scene, samp sampler.Sampler) spectrum.Spectrum {
	return d.li(r, sc, samp, 0)
}

func (d DirectLighting) li(r geometry.Ray, sc *scene.Scene, samp sampler.Sampler, depth int) spectrum.Spectrum {
	hit, ok := sc.Intersect(r)
	if !ok {
		return escapeRadiance(sc, r)
	}

	l := spectrum.Black
	if al := sc.AreaLightFor(hit.Primitive); al != nil {
		l = l.Add(al.EmittedRadianceAt(hit.Intr.N, hit.Intr.Wo))
	}

	mat := sc.MaterialFor(hit.Primitive)
	if mat == nil {
		return l
	}
	b := mat.ComputeBSDF(hit.Intr)
	wo := hit.Intr.Wo

	if b.NumComponents() == 0 {
		return l
	}

	if !b.IsSpecular() {
		l = l.Add(uniformSampleOneLight(sc, hit.Intr, b, wo, samp))
	}

	if depth+1 < d.MaxDepth {
		for _, lobe := range b.SpecularLobes() {
			f, wi, pdf, sOK := b.SampleLobe(lobe, wo, samp.Get2D())
			if !sOK || pdf == 0 || f.IsBlack() {
				continue
			}
			rNext := hit.Intr.SpawnRay(wi)
			li := d.li(rNext, sc, samp, depth+1)
			if li.IsBlack() {
				continue
			}
			weight := wi.AbsDot(hit.Intr.N) / pdf
			l = l.Add(f.Mul(li).Scale(weight))
		}
	}

	return l
}
