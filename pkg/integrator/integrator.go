// Package integrator implements the Monte Carlo light transport estimators
// of spec.md §4.9: a recursive direct-light integrator and an iterative
// path integrator, both applying multiple importance sampling between
// light-sampling and BSDF-sampling strategies via the power heuristic.
package integrator

import (
	"math"

	"goray/pkg/bsdf"
	"goray/pkg/geometry"
	"goray/pkg/light"
	"goray/pkg/sampler"
	"goray/pkg/sampling"
	"goray/pkg/scene"
	"goray/pkg/shape"
	"goray/pkg/spectrum"
)

// Integrator estimates the radiance arriving along a camera ray.
type Integrator interface {
	Li(r geometry.Ray, sc *scene.Scene, samp sampler.Sampler) spectrum.Spectrum
}

// escapeRadiance sums Le from every infinite light for a ray that left the
// scene without hitting anything.
func escapeRadiance(sc *scene.Scene, r geometry.Ray) spectrum.Spectrum {
	sum := spectrum.Black
	for _, inf := range sc.InfiniteLights {
		sum = sum.Add(inf.Le(r))
	}
	return sum
}

// uniformSampleOneLight picks one light uniformly from the scene's light
// list and applies MIS between light-sampling and BSDF-sampling, the
// shared two-strategy estimator used by both integrators (spec.md §4.9).
func uniformSampleOneLight(sc *scene.Scene, intr shape.Interaction, b *bsdf.BSDF, wo geometry.Vec3, samp sampler.Sampler) spectrum.Spectrum {
	nLights := len(sc.Lights)
	if nLights == 0 {
		return spectrum.Black
	}
	lightNum := int(samp.Get1D() * float64(nLights))
	if lightNum >= nLights {
		lightNum = nLights - 1
	}
	lt := sc.Lights[lightNum]
	lightPdfSelect := 1.0 / float64(nLights)

	ld := estimateDirect(sc, intr, b, wo, lt, samp)
	return ld.Scale(1 / lightPdfSelect)
}

// estimateDirect implements the MIS two-sample estimator for a single
// light: one sample drawn from the light's strategy, one from the BSDF's,
// each weighted by the power heuristic.
func estimateDirect(sc *scene.Scene, intr shape.Interaction, b *bsdf.BSDF, wo geometry.Vec3, lt light.Light, samp sampler.Sampler) spectrum.Spectrum {
	ld := spectrum.Black

	uLight := samp.Get2D()
	ls := lt.SampleFromPoint(intr, uLight)
	if ls.Pdf > 0 && !ls.Li.IsBlack() {
		f := b.F(wo, ls.Wi).Scale(ls.Wi.AbsDot(intr.N))
		if !f.IsBlack() {
			if ls.Vis.Unoccluded(sc) {
				if lt.IsDelta() {
					ld = ld.Add(f.Mul(ls.Li).Scale(1 / ls.Pdf))
				} else {
					scatteringPdf := b.PDF(wo, ls.Wi)
					weight := sampling.PowerHeuristic(1, ls.Pdf, 1, scatteringPdf)
					ld = ld.Add(f.Mul(ls.Li).Scale(weight / ls.Pdf))
				}
			}
		}
	}

	if !lt.IsDelta() {
		uScatter := samp.Get2D()
		f, wi, scatteringPdf, ok := b.SampleNonSpecular(wo, samp.Get1D(), uScatter)
		if ok && scatteringPdf > 0 && !f.IsBlack() {
			lightPdf := lt.PDFFromPoint(intr, wi)
			if lightPdf > 0 {
				weight := sampling.PowerHeuristic(1, scatteringPdf, 1, lightPdf)
				r := intr.SpawnRay(wi)
				if hit, hitOK := sc.Intersect(r); hitOK {
					if al := sc.AreaLightFor(hit.Primitive); al != nil && lightsMatch(lt, al) {
						le := al.EmittedRadianceAt(hit.Intr.N, hit.Intr.Wo)
						if !le.IsBlack() {
							fCos := f.Scale(wi.AbsDot(intr.N))
							ld = ld.Add(fCos.Mul(le).Scale(weight / scatteringPdf))
						}
					}
				} else {
					le := escapeRadianceFor(lt, r)
					if !le.IsBlack() {
						fCos := f.Scale(wi.AbsDot(intr.N))
						ld = ld.Add(fCos.Mul(le).Scale(weight / scatteringPdf))
					}
				}
			}
		}
	}

	return ld
}

func lightsMatch(lt light.Light, al *light.DiffuseAreaLight) bool {
	if concrete, ok := lt.(*light.DiffuseAreaLight); ok {
		return concrete == al
	}
	return false
}

func escapeRadianceFor(lt light.Light, r geometry.Ray) spectrum.Spectrum {
	if inf, ok := lt.(*light.InfiniteAreaLight); ok {
		return inf.Le(r)
	}
	return spectrum.Black
}

func clamp01(v float64) float64 { return math.Max(0, math.Min(1, v)) }
