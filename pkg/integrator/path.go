package integrator

import (
	"math"

	"goray/pkg/bsdf"
	"goray/pkg/geometry"
	"goray/pkg/sampler"
	"goray/pkg/scene"
	"goray/pkg/spectrum"
)

// Path is the iterative path integrator of spec.md §4.9: throughput beta
// starts at 1; on each bounce, Le is added only at bounce 0 or right after
// a specular delta bounce (since other bounces already accounted for
// direct light via MIS at the previous vertex); Russian roulette begins
// after bounce 3.
type Path struct {
	MaxDepth int
}

func (p Path) Li(r geometry.Ray, sc *scene.Scene, samp sampler.Sampler) spectrum.Spectrum {
	l := spectrum.Black
	beta := spectrum.New(1, 1, 1)
	specularBounce := true

	ray := r
	for bounce := 0; ; bounce++ {
		hit, ok := sc.Intersect(ray)
		if !ok {
			if bounce == 0 || specularBounce {
				l = l.Add(beta.Mul(escapeRadiance(sc, ray)))
			}
			break
		}

		if bounce == 0 || specularBounce {
			if al := sc.AreaLightFor(hit.Primitive); al != nil {
				l = l.Add(beta.Mul(al.EmittedRadianceAt(hit.Intr.N, hit.Intr.Wo)))
			}
		}

		if bounce+1 >= p.MaxDepth {
			break
		}

		mat := sc.MaterialFor(hit.Primitive)
		if mat == nil {
			break
		}
		b := mat.ComputeBSDF(hit.Intr)
		wo := hit.Intr.Wo
		if b.NumComponents() == 0 {
			break
		}

		if !b.IsSpecular() {
			l = l.Add(beta.Mul(uniformSampleOneLight(sc, hit.Intr, b, wo, samp)))
		}

		f, wi, pdf, sampledType, ok := b.Sample(wo, samp.Get1D(), samp.Get2D())
		if !ok || pdf == 0 || f.IsBlack() {
			break
		}
		beta = beta.Mul(f).Scale(wi.AbsDot(hit.Intr.N) / pdf)
		specularBounce = sampledType&bsdf.Specular != 0

		ray = hit.Intr.SpawnRay(wi)

		if bounce > 3 {
			q := math.Max(0.05, 1-beta.Luminance())
			if samp.Get1D() < q {
				break
			}
			beta = beta.Scale(1 / (1 - q))
		}
	}

	return l
}
