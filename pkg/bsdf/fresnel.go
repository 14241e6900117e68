// Package bsdf implements the reflectance model of spec.md Component F:
// individual BxDF lobes (Lambertian, Oren-Nayar, specular and microfacet
// reflection/transmission) composed into a BSDF that samples, evaluates
// and reports a PDF as a single unit, per the mixture contract in §4.6.
package bsdf

import (
	"math"

	"goray/pkg/geometry"
	"goray/pkg/spectrum"
)

// FrDielectric evaluates the unpolarized Fresnel reflectance of a dielectric
// interface given the cosine of the incident angle (signed: negative means
// the ray is exiting the denser medium) and the relative index of
// refraction etaI/etaT.
func FrDielectric(cosThetaI, etaI, etaT float64) float64 {
	cosThetaI = clamp(cosThetaI, -1, 1)
	if cosThetaI < 0 {
		etaI, etaT = etaT, etaI
		cosThetaI = -cosThetaI
	}

	sin2ThetaI := math.Max(0, 1-cosThetaI*cosThetaI)
	sin2ThetaT := etaI * etaI / (etaT * etaT) * sin2ThetaI
	if sin2ThetaT >= 1 {
		return 1 // total internal reflection
	}
	cosThetaT := math.Sqrt(1 - sin2ThetaT)

	rParl := (etaT*cosThetaI - etaI*cosThetaT) / (etaT*cosThetaI + etaI*cosThetaT)
	rPerp := (etaI*cosThetaI - etaT*cosThetaT) / (etaI*cosThetaI + etaT*cosThetaT)
	return (rParl*rParl + rPerp*rPerp) / 2
}

// FrConductor evaluates the Fresnel reflectance of a conductor (metal)
// interface given its complex index of refraction eta + i*k, used by
// microfacet reflection on metallic materials.
func FrConductor(cosThetaI float64, etaI float64, eta, k spectrum.Spectrum) spectrum.Spectrum {
	cosThetaI = clamp(cosThetaI, -1, 1)
	cos2 := cosThetaI * cosThetaI
	sin2 := 1 - cos2

	conductorChannel := func(eta, k float64) float64 {
		eta2 := eta * eta
		k2 := k * k
		t0 := eta2 - k2 - sin2
		a2plusb2 := math.Sqrt(math.Max(0, t0*t0+4*eta2*k2))
		t1 := a2plusb2 + cos2
		a := math.Sqrt(math.Max(0, (a2plusb2+t0)/2))
		t2 := 2 * a * cosThetaI
		rs := (t1 - t2) / (t1 + t2)

		t3 := cos2*a2plusb2 + sin2*sin2
		t4 := t2 * sin2
		rp := rs * (t3 - t4) / (t3 + t4)
		return (rs + rp) / 2
	}

	return spectrum.New(
		conductorChannel(eta.R/etaI, k.R/etaI),
		conductorChannel(eta.G/etaI, k.G/etaI),
		conductorChannel(eta.B/etaI, k.B/etaI),
	)
}

func clamp(v, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, v)) }

func cosTheta(w geometry.Vec3) float64     { return w.Z }
func absCosTheta(w geometry.Vec3) float64  { return math.Abs(w.Z) }
func sameHemisphere(a, b geometry.Vec3) bool { return a.Z*b.Z > 0 }

// reflect computes the mirror direction of wo about n in the local shading
// frame where n = (0,0,1).
func reflect(wo geometry.Vec3) geometry.Vec3 {
	return geometry.Vec3{X: -wo.X, Y: -wo.Y, Z: wo.Z}
}

// refract computes the refracted direction of wi across a surface with
// normal n (oriented into the same hemisphere as wi) and relative IOR eta,
// reporting false on total internal reflection.
func refract(wi, n geometry.Vec3, eta float64) (wt geometry.Vec3, ok bool) {
	cosThetaI := n.Dot(wi)
	sin2ThetaI := math.Max(0, 1-cosThetaI*cosThetaI)
	sin2ThetaT := sin2ThetaI / (eta * eta)
	if sin2ThetaT >= 1 {
		return geometry.Vec3{}, false
	}
	cosThetaT := math.Sqrt(1 - sin2ThetaT)
	wt = wi.Negate().Div(eta).Add(n.Mul(cosThetaI/eta - cosThetaT))
	return wt, true
}
