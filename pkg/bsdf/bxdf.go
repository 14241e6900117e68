package bsdf

import (
	"math"

	"goray/pkg/geometry"
	"goray/pkg/sampling"
	"goray/pkg/spectrum"
)

// LobeType classifies a BxDF so the integrator can tell delta lobes (which
// can never be hit by light sampling and must be handled specially in MIS)
// apart from ordinary glossy/diffuse lobes.
type LobeType int

const (
	Reflection LobeType = 1 << iota
	Transmission
	Diffuse
	Glossy
	Specular
)

// BxDF is a single scattering lobe evaluated in the local shading frame,
// where the surface normal is always (0,0,1) and wo/wi both point away
// from the surface.
type BxDF interface {
	Type() LobeType
	// F evaluates the lobe for a given pair of directions; for delta lobes
	// this is always zero (all their energy is in Sample's explicit direction).
	F(wo, wi geometry.Vec3) spectrum.Spectrum
	// Sample draws an incident direction wi and returns f(wo,wi), wi, and
	// the PDF with respect to solid angle (PDF is undefined/unused for
	// delta lobes, which report pdf=1 by convention, except FresnelSpecular,
	// which reports the probability of the branch it chose).
	Sample(wo geometry.Vec3, u geometry.Vec2) (f spectrum.Spectrum, wi geometry.Vec3, pdf float64, ok bool)
	PDF(wo, wi geometry.Vec3) float64
}

func (t LobeType) IsSpecular() bool { return t&Specular != 0 }

// Lambertian is a perfectly diffuse reflective lobe.
type Lambertian struct {
	R spectrum.Spectrum
}

func (l Lambertian) Type() LobeType { return Reflection | Diffuse }

func (l Lambertian) F(wo, wi geometry.Vec3) spectrum.Spectrum {
	if !sameHemisphere(wo, wi) {
		return spectrum.Black
	}
	return l.R.Scale(1 / math.Pi)
}

func (l Lambertian) Sample(wo geometry.Vec3, u geometry.Vec2) (spectrum.Spectrum, geometry.Vec3, float64, bool) {
	wi := sampling.CosineSampleHemisphere(u)
	if wo.Z < 0 {
		wi.Z = -wi.Z
	}
	pdf := l.PDF(wo, wi)
	return l.F(wo, wi), wi, pdf, true
}

func (l Lambertian) PDF(wo, wi geometry.Vec3) float64 {
	if !sameHemisphere(wo, wi) {
		return 0
	}
	return sampling.CosineHemispherePDF(absCosTheta(wi))
}

// OrenNayar is a microfacet diffuse lobe accounting for surface roughness
// via the Oren-Nayar approximation, used by "matte" materials with
// nonzero sigma.
type OrenNayar struct {
	R          spectrum.Spectrum
	A, B       float64 // precomputed from sigma at construction
}

// NewOrenNayar precomputes the A/B coefficients from a roughness angle
// sigma given in degrees, per spec.md §4.7's matte material.
func NewOrenNayar(r spectrum.Spectrum, sigmaDegrees float64) OrenNayar {
	sigma := sigmaDegrees * math.Pi / 180
	sigma2 := sigma * sigma
	a := 1 - sigma2/(2*(sigma2+0.33))
	b := 0.45 * sigma2 / (sigma2 + 0.09)
	return OrenNayar{R: r, A: a, B: b}
}

func (o OrenNayar) Type() LobeType { return Reflection | Diffuse }

func (o OrenNayar) F(wo, wi geometry.Vec3) spectrum.Spectrum {
	if !sameHemisphere(wo, wi) {
		return spectrum.Black
	}
	sinThetaI := sinTheta(wi)
	sinThetaO := sinTheta(wo)
	maxCos := 0.0
	if sinThetaI > 1e-4 && sinThetaO > 1e-4 {
		sinPhiI, cosPhiI := sinCosPhi(wi)
		sinPhiO, cosPhiO := sinCosPhi(wo)
		dCos := cosPhiI*cosPhiO + sinPhiI*sinPhiO
		maxCos = math.Max(0, dCos)
	}
	var sinAlpha, tanBeta float64
	if absCosTheta(wi) > absCosTheta(wo) {
		sinAlpha, tanBeta = sinThetaO, sinThetaI/absCosTheta(wi)
	} else {
		sinAlpha, tanBeta = sinThetaI, sinThetaO/absCosTheta(wo)
	}
	return o.R.Scale((1 / math.Pi) * (o.A + o.B*maxCos*sinAlpha*tanBeta))
}

func (o OrenNayar) Sample(wo geometry.Vec3, u geometry.Vec2) (spectrum.Spectrum, geometry.Vec3, float64, bool) {
	wi := sampling.CosineSampleHemisphere(u)
	if wo.Z < 0 {
		wi.Z = -wi.Z
	}
	return o.F(wo, wi), wi, o.PDF(wo, wi), true
}

func (o OrenNayar) PDF(wo, wi geometry.Vec3) float64 {
	if !sameHemisphere(wo, wi) {
		return 0
	}
	return sampling.CosineHemispherePDF(absCosTheta(wi))
}

func sinTheta2(w geometry.Vec3) float64 { return math.Max(0, 1-w.Z*w.Z) }
func sinTheta(w geometry.Vec3) float64  { return math.Sqrt(sinTheta2(w)) }

func sinCosPhi(w geometry.Vec3) (sinPhi, cosPhi float64) {
	st := sinTheta(w)
	if st == 0 {
		return 0, 1
	}
	return clamp(w.Y/st, -1, 1), clamp(w.X/st, -1, 1)
}

// SpecularReflection is a perfect-mirror delta lobe with Fresnel-weighted
// reflectance.
type SpecularReflection struct {
	R            spectrum.Spectrum
	EtaI, EtaT   float64
}

func (s SpecularReflection) Type() LobeType { return Reflection | Specular }

func (s SpecularReflection) F(wo, wi geometry.Vec3) spectrum.Spectrum { return spectrum.Black }
func (s SpecularReflection) PDF(wo, wi geometry.Vec3) float64        { return 0 }

func (s SpecularReflection) Sample(wo geometry.Vec3, u geometry.Vec2) (spectrum.Spectrum, geometry.Vec3, float64, bool) {
	wi := geometry.Vec3{X: -wo.X, Y: -wo.Y, Z: wo.Z}
	fr := FrDielectric(cosTheta(wi), s.EtaI, s.EtaT)
	f := s.R.Scale(fr / absCosTheta(wi))
	return f, wi, 1, true
}

// SpecularTransmission is a perfect dielectric refraction delta lobe.
type SpecularTransmission struct {
	T          spectrum.Spectrum
	EtaA, EtaB float64 // outside / inside indices of refraction
}

func (s SpecularTransmission) Type() LobeType { return Transmission | Specular }
func (s SpecularTransmission) F(wo, wi geometry.Vec3) spectrum.Spectrum { return spectrum.Black }
func (s SpecularTransmission) PDF(wo, wi geometry.Vec3) float64        { return 0 }

func (s SpecularTransmission) Sample(wo geometry.Vec3, u geometry.Vec2) (spectrum.Spectrum, geometry.Vec3, float64, bool) {
	entering := cosTheta(wo) > 0
	etaI, etaT := s.EtaA, s.EtaB
	if !entering {
		etaI, etaT = etaT, etaI
	}
	n := geometry.Vec3{Z: 1}
	if cosTheta(wo) < 0 {
		n = n.Negate()
	}
	wi, ok := refract(wo, n, etaI/etaT)
	if !ok {
		return spectrum.Black, geometry.Vec3{}, 0, false
	}
	ft := s.T.Scale(1 - FrDielectric(cosTheta(wi), etaI, etaT))
	// Radiance scales by (etaI/etaT)^2 under refraction for light transport
	// (non-symmetric BSDF correction from a camera path).
	ft = ft.Scale((etaI * etaI) / (etaT * etaT))
	f := ft.Scale(1 / absCosTheta(wi))
	return f, wi, 1, true
}

// FresnelSpecular combines reflection and transmission into one delta lobe,
// choosing between them stochastically with probability equal to the
// Fresnel reflectance, used by "glass" materials.
type FresnelSpecular struct {
	R, T       spectrum.Spectrum
	EtaA, EtaB float64
}

func (s FresnelSpecular) Type() LobeType { return Reflection | Transmission | Specular }
func (s FresnelSpecular) F(wo, wi geometry.Vec3) spectrum.Spectrum { return spectrum.Black }
func (s FresnelSpecular) PDF(wo, wi geometry.Vec3) float64        { return 0 }

func (s FresnelSpecular) Sample(wo geometry.Vec3, u geometry.Vec2) (spectrum.Spectrum, geometry.Vec3, float64, bool) {
	fr := FrDielectric(cosTheta(wo), s.EtaA, s.EtaB)
	if u.X < fr {
		wi := reflect(wo)
		f := s.R.Scale(fr / absCosTheta(wi))
		return f, wi, fr, true
	}
	entering := cosTheta(wo) > 0
	etaI, etaT := s.EtaA, s.EtaB
	if !entering {
		etaI, etaT = etaT, etaI
	}
	n := geometry.Vec3{Z: 1}
	if cosTheta(wo) < 0 {
		n = n.Negate()
	}
	wi, ok := refract(wo, n, etaI/etaT)
	if !ok {
		return spectrum.Black, geometry.Vec3{}, 0, false
	}
	ft := s.T.Scale((1 - fr) * (etaI * etaI) / (etaT * etaT))
	f := ft.Scale(1 / absCosTheta(wi))
	return f, wi, 1 - fr, true
}
