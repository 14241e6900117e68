package bsdf

import (
	"math"

	"goray/pkg/geometry"
	"goray/pkg/spectrum"
)

// TrowbridgeReitz is the GGX microfacet normal distribution function, used
// by the uber/glass/metal materials' glossy lobes (spec.md §4.7).
type TrowbridgeReitz struct {
	AlphaX, AlphaY float64
}

// RoughnessToAlpha converts a perceptually-linear [0,1] roughness value to
// the distribution's alpha parameter via pbrt's quartic-in-log fit, matching
// the polynomial named in spec.md §4.7.
func RoughnessToAlpha(roughness float64) float64 {
	roughness = math.Max(roughness, 1e-3)
	x := math.Log(roughness)
	return 1.62142 + 0.819955*x + 0.1734*x*x + 0.0171201*x*x*x + 0.000640711*x*x*x*x
}

func (d TrowbridgeReitz) D(wh geometry.Vec3) float64 {
	tan2 := tan2Theta(wh)
	if math.IsInf(tan2, 1) {
		return 0
	}
	cos4 := cosTheta(wh) * cosTheta(wh) * cosTheta(wh) * cosTheta(wh)
	if cos4 < 1e-16 {
		return 0
	}
	sinPhi, cosPhi := sinCosPhi(wh)
	e := tan2 * (cosPhi*cosPhi/(d.AlphaX*d.AlphaX) + sinPhi*sinPhi/(d.AlphaY*d.AlphaY))
	denom := math.Pi * d.AlphaX * d.AlphaY * cos4 * (1 + e) * (1 + e)
	if denom == 0 {
		return 0
	}
	return 1 / denom
}

func (d TrowbridgeReitz) lambda(w geometry.Vec3) float64 {
	absTanTheta := math.Abs(tanTheta(w))
	if math.IsInf(absTanTheta, 1) {
		return 0
	}
	sinPhi, cosPhi := sinCosPhi(w)
	alpha := math.Sqrt(cosPhi*cosPhi*d.AlphaX*d.AlphaX + sinPhi*sinPhi*d.AlphaY*d.AlphaY)
	alpha2Tan2 := (alpha * absTanTheta) * (alpha * absTanTheta)
	return (-1 + math.Sqrt(1+alpha2Tan2)) / 2
}

// G is the Smith masking-shadowing term for the pair (wo, wi).
func (d TrowbridgeReitz) G(wo, wi geometry.Vec3) float64 {
	return 1 / (1 + d.lambda(wo) + d.lambda(wi))
}

func (d TrowbridgeReitz) G1(w geometry.Vec3) float64 {
	return 1 / (1 + d.lambda(w))
}

// SampleWh importance-samples a half-vector distributed according to D,
// using the standard polar parameterization (no visible-normal sampling,
// matching the simpler variant named in spec.md §9's open questions).
func (d TrowbridgeReitz) SampleWh(wo geometry.Vec3, u geometry.Vec2) geometry.Vec3 {
	var cosTheta, phi float64
	if d.AlphaX == d.AlphaY {
		tanTheta2 := d.AlphaX * d.AlphaX * u.X / (1 - u.X)
		cosTheta = 1 / math.Sqrt(1+tanTheta2)
		phi = 2 * math.Pi * u.Y
	} else {
		phi = math.Atan(d.AlphaY/d.AlphaX*math.Tan(2*math.Pi*u.Y+0.5*math.Pi))
		if u.Y > 0.5 {
			phi += math.Pi
		}
		sinPhi, cosPhi := math.Sin(phi), math.Cos(phi)
		ax2, ay2 := d.AlphaX*d.AlphaX, d.AlphaY*d.AlphaY
		alpha2 := 1 / (cosPhi*cosPhi/ax2 + sinPhi*sinPhi/ay2)
		tanTheta2 := alpha2 * u.X / (1 - u.X)
		cosTheta = 1 / math.Sqrt(1+tanTheta2)
	}
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	wh := geometry.Vec3{X: sinTheta * math.Cos(phi), Y: sinTheta * math.Sin(phi), Z: cosTheta}
	if !sameHemisphere(wo, wh) {
		wh = wh.Negate()
	}
	return wh
}

func (d TrowbridgeReitz) PDF(wo, wh geometry.Vec3) float64 {
	return d.D(wh) * d.G1(wo) * math.Abs(wo.Dot(wh)) / absCosTheta(wo)
}

func tan2Theta(w geometry.Vec3) float64 { return sinTheta2(w) / (w.Z * w.Z) }
func tanTheta(w geometry.Vec3) float64  { return sinTheta(w) / w.Z }

// MicrofacetReflection is a glossy reflective lobe combining a
// TrowbridgeReitz distribution with dielectric Fresnel, used by plastic
// and uber materials' specular coat.
type MicrofacetReflection struct {
	R          spectrum.Spectrum
	Dist       TrowbridgeReitz
	EtaI, EtaT float64
}

func (m MicrofacetReflection) Type() LobeType { return Reflection | Glossy }

func (m MicrofacetReflection) F(wo, wi geometry.Vec3) spectrum.Spectrum {
	if !sameHemisphere(wo, wi) {
		return spectrum.Black
	}
	cosThetaO, cosThetaI := absCosTheta(wo), absCosTheta(wi)
	wh := wi.Add(wo)
	if wh.IsZero() || cosThetaI == 0 || cosThetaO == 0 {
		return spectrum.Black
	}
	wh = wh.Normalize()
	fr := FrDielectric(wi.Dot(wh), m.EtaI, m.EtaT)
	d := m.Dist.D(wh)
	g := m.Dist.G(wo, wi)
	return m.R.Scale(d * g * fr / (4 * cosThetaI * cosThetaO))
}

func (m MicrofacetReflection) Sample(wo geometry.Vec3, u geometry.Vec2) (spectrum.Spectrum, geometry.Vec3, float64, bool) {
	if wo.Z == 0 {
		return spectrum.Black, geometry.Vec3{}, 0, false
	}
	wh := m.Dist.SampleWh(wo, u)
	wi := reflectAbout(wo, wh)
	if !sameHemisphere(wo, wi) {
		return spectrum.Black, geometry.Vec3{}, 0, false
	}
	pdf := m.Dist.PDF(wo, wh) / (4 * wo.Dot(wh))
	return m.F(wo, wi), wi, pdf, true
}

func reflectAbout(wo, wh geometry.Vec3) geometry.Vec3 {
	return wo.Negate().Add(wh.Mul(2 * wo.Dot(wh)))
}

func (m MicrofacetReflection) PDF(wo, wi geometry.Vec3) float64 {
	if !sameHemisphere(wo, wi) {
		return 0
	}
	wh := wi.Add(wo)
	if wh.IsZero() {
		return 0
	}
	wh = wh.Normalize()
	return m.Dist.PDF(wo, wh) / (4 * wo.Dot(wh))
}

// MicrofacetTransmission is a glossy refractive lobe, used by the "uber"
// material's transmissive component.
type MicrofacetTransmission struct {
	T          spectrum.Spectrum
	Dist       TrowbridgeReitz
	EtaA, EtaB float64
}

func (m MicrofacetTransmission) Type() LobeType { return Transmission | Glossy }

func (m MicrofacetTransmission) F(wo, wi geometry.Vec3) spectrum.Spectrum {
	if sameHemisphere(wo, wi) {
		return spectrum.Black
	}
	cosThetaO, cosThetaI := cosTheta(wo), cosTheta(wi)
	if cosThetaO == 0 || cosThetaI == 0 {
		return spectrum.Black
	}
	eta := m.EtaB / m.EtaA
	if cosThetaO > 0 {
		eta = m.EtaA / m.EtaB
	}
	wh := wo.Add(wi.Mul(eta)).Normalize()
	if wh.Z < 0 {
		wh = wh.Negate()
	}
	if wo.Dot(wh)*wi.Dot(wh) > 0 {
		return spectrum.Black
	}
	fr := FrDielectric(wo.Dot(wh), m.EtaA, m.EtaB)
	sqrtDenom := wo.Dot(wh) + eta*wi.Dot(wh)
	factor := 1 / eta

	d := m.Dist.D(wh)
	g := m.Dist.G(wo, wi)
	num := d * g * (1 - fr) * factor * factor * math.Abs(wi.Dot(wh)) * math.Abs(wo.Dot(wh))
	denom := math.Abs(cosThetaI) * math.Abs(cosThetaO) * sqrtDenom * sqrtDenom
	if denom == 0 {
		return spectrum.Black
	}
	return m.T.Scale(num / denom)
}

func (m MicrofacetTransmission) Sample(wo geometry.Vec3, u geometry.Vec2) (spectrum.Spectrum, geometry.Vec3, float64, bool) {
	if wo.Z == 0 {
		return spectrum.Black, geometry.Vec3{}, 0, false
	}
	wh := m.Dist.SampleWh(wo, u)
	eta := m.EtaA / m.EtaB
	if cosTheta(wo) < 0 {
		eta = m.EtaB / m.EtaA
	}
	wi, ok := refract(wo, faceForwardNormal(wh, wo), eta)
	if !ok {
		return spectrum.Black, geometry.Vec3{}, 0, false
	}
	return m.F(wo, wi), wi, m.PDF(wo, wi), true
}

func faceForwardNormal(n, v geometry.Vec3) geometry.Vec3 {
	if n.Dot(v) < 0 {
		return n.Negate()
	}
	return n
}

func (m MicrofacetTransmission) PDF(wo, wi geometry.Vec3) float64 {
	if sameHemisphere(wo, wi) {
		return 0
	}
	eta := m.EtaB / m.EtaA
	if cosTheta(wo) > 0 {
		eta = m.EtaA / m.EtaB
	}
	wh := wo.Add(wi.Mul(eta)).Normalize()
	if wo.Dot(wh)*wi.Dot(wh) > 0 {
		return 0
	}
	sqrtDenom := wo.Dot(wh) + eta*wi.Dot(wh)
	dwhDwi := math.Abs((eta * eta * wi.Dot(wh)) / (sqrtDenom * sqrtDenom))
	return m.Dist.PDF(wo, wh) * dwhDwi
}
