// Package material implements the parametric BSDF recipes of spec.md
// Component G: matte, plastic, mirror, glass, uber and translucent
// materials, each building a bsdf.BSDF from its textures evaluated at a
// shading point.
package material

import (
	"goray/pkg/bsdf"
	"goray/pkg/geometry"
	"goray/pkg/shape"
	"goray/pkg/spectrum"
	"goray/pkg/texture"
)

// Material builds a BSDF at a given surface interaction. Implementations
// are expected to be stateless and safe for concurrent use across worker
// goroutines, matching spec.md's render-time immutability invariant.
type Material interface {
	ComputeBSDF(intr shape.Interaction) *bsdf.BSDF
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func newFrame(intr shape.Interaction) *bsdf.BSDF {
	ns := intr.N
	dpdu := intr.DPDU
	if dpdu.IsZero() {
		dpdu, _ = geometry.CoordinateSystem(ns)
	}
	return bsdf.NewBSDF(ns, dpdu, intr.N)
}

// Matte is a Lambertian (sigma=0) or Oren-Nayar (sigma>0) diffuse material,
// per spec.md's material table.
type Matte struct {
	Kd    texture.Texture[spectrum.Spectrum]
	Sigma texture.Texture[float64]
}

func (m Matte) ComputeBSDF(intr shape.Interaction) *bsdf.BSDF {
	b := newFrame(intr)
	kd := m.Kd.Evaluate(intr.UV, intr.P)
	if kd.IsBlack() {
		return b
	}
	sigma := 0.0
	if m.Sigma != nil {
		sigma = clamp(m.Sigma.Evaluate(intr.UV, intr.P), 0, 90)
	}
	if sigma == 0 {
		b.Add(bsdf.Lambertian{R: kd})
	} else {
		b.Add(bsdf.NewOrenNayar(kd, sigma))
	}
	return b
}

// Plastic combines a diffuse base coat with a glossy dielectric specular
// layer, per spec.md's material table.
type Plastic struct {
	Kd, Ks    texture.Texture[spectrum.Spectrum]
	Roughness texture.Texture[float64]
}

func (m Plastic) ComputeBSDF(intr shape.Interaction) *bsdf.BSDF {
	b := newFrame(intr)
	kd := m.Kd.Evaluate(intr.UV, intr.P)
	if !kd.IsBlack() {
		b.Add(bsdf.Lambertian{R: kd})
	}
	ks := m.Ks.Evaluate(intr.UV, intr.P)
	if !ks.IsBlack() {
		rough := m.Roughness.Evaluate(intr.UV, intr.P)
		alpha := bsdf.RoughnessToAlpha(rough)
		b.Add(bsdf.MicrofacetReflection{
			R:    ks,
			Dist: bsdf.TrowbridgeReitz{AlphaX: alpha, AlphaY: alpha},
			EtaI: 1, EtaT: 1.5,
		})
	}
	return b
}

// Mirror is a perfect specular reflector with constant (unity) Fresnel,
// per spec.md's material table.
type Mirror struct {
	Kr texture.Texture[spectrum.Spectrum]
}

func (m Mirror) ComputeBSDF(intr shape.Interaction) *bsdf.BSDF {
	b := newFrame(intr)
	kr := m.Kr.Evaluate(intr.UV, intr.P)
	if !kr.IsBlack() {
		b.Add(unityFresnelReflection{R: kr})
	}
	return b
}

// unityFresnelReflection is SpecularReflection with Fresnel pinned to 1,
// matching spec.md's note that mirror uses "constant-unity Fresnel"
// instead of a dielectric term.
type unityFresnelReflection struct {
	R spectrum.Spectrum
}

func (u unityFresnelReflection) Type() bsdf.LobeType { return bsdf.Reflection | bsdf.Specular }
func (u unityFresnelReflection) F(wo, wi geometry.Vec3) spectrum.Spectrum { return spectrum.Black }
func (u unityFresnelReflection) PDF(wo, wi geometry.Vec3) float64        { return 0 }
func (u unityFresnelReflection) Sample(wo geometry.Vec3, uv geometry.Vec2) (spectrum.Spectrum, geometry.Vec3, float64, bool) {
	wi := geometry.Vec3{X: -wo.X, Y: -wo.Y, Z: wo.Z}
	cosI := wi.Z
	if cosI == 0 {
		return spectrum.Black, geometry.Vec3{}, 0, false
	}
	f := u.R.Scale(1 / absF(cosI))
	return f, wi, 1, true
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Glass combines dielectric specular reflection and transmission, per
// spec.md's material table.
type Glass struct {
	Kr, Kt texture.Texture[spectrum.Spectrum]
	Eta    texture.Texture[float64]
}

func (m Glass) ComputeBSDF(intr shape.Interaction) *bsdf.BSDF {
	b := newFrame(intr)
	kr := m.Kr.Evaluate(intr.UV, intr.P)
	kt := m.Kt.Evaluate(intr.UV, intr.P)
	eta := 1.5
	if m.Eta != nil {
		eta = m.Eta.Evaluate(intr.UV, intr.P)
	}
	if kr.IsBlack() && kt.IsBlack() {
		return b
	}
	b.Add(bsdf.FresnelSpecular{R: kr, T: kt, EtaA: 1, EtaB: eta})
	return b
}

// Translucent is a two-sided diffuse+glossy material whose reflective and
// transmissive contributions are each scaled by separate textures, per
// spec.md's material table.
type Translucent struct {
	Kd, Ks           texture.Texture[spectrum.Spectrum]
	Roughness        texture.Texture[float64]
	Reflect, Transmit texture.Texture[spectrum.Spectrum]
}

func (m Translucent) ComputeBSDF(intr shape.Interaction) *bsdf.BSDF {
	b := newFrame(intr)
	refl := m.Reflect.Evaluate(intr.UV, intr.P)
	trans := m.Transmit.Evaluate(intr.UV, intr.P)
	kd := m.Kd.Evaluate(intr.UV, intr.P)
	ks := m.Ks.Evaluate(intr.UV, intr.P)
	rough := 0.0
	if m.Roughness != nil {
		rough = m.Roughness.Evaluate(intr.UV, intr.P)
	}
	alpha := bsdf.RoughnessToAlpha(rough)

	if !kd.IsBlack() {
		if !refl.IsBlack() {
			b.Add(scaledLambertian{inner: bsdf.Lambertian{R: kd}, scale: refl, reflectOnly: true})
		}
		if !trans.IsBlack() {
			b.Add(scaledLambertian{inner: bsdf.Lambertian{R: kd}, scale: trans, reflectOnly: false})
		}
	}
	if !ks.IsBlack() {
		dist := bsdf.TrowbridgeReitz{AlphaX: alpha, AlphaY: alpha}
		if !refl.IsBlack() {
			b.Add(bsdf.MicrofacetReflection{R: ks.Mul(refl), Dist: dist, EtaI: 1, EtaT: 1.5})
		}
		if !trans.IsBlack() {
			b.Add(bsdf.MicrofacetTransmission{T: ks.Mul(trans), Dist: dist, EtaA: 1, EtaB: 1.5})
		}
	}
	return b
}

// scaledLambertian wraps Lambertian to restrict it to one side (reflection
// or transmission) and scale by an arbitrary factor, used to build
// translucent's four-way split between Kd/Ks x reflect/transmit.
type scaledLambertian struct {
	inner       bsdf.Lambertian
	scale       spectrum.Spectrum
	reflectOnly bool
}

func (s scaledLambertian) Type() bsdf.LobeType {
	if s.reflectOnly {
		return bsdf.Reflection | bsdf.Diffuse
	}
	return bsdf.Transmission | bsdf.Diffuse
}

func (s scaledLambertian) F(wo, wi geometry.Vec3) spectrum.Spectrum {
	sameSide := wo.Z*wi.Z > 0
	if sameSide != s.reflectOnly {
		return spectrum.Black
	}
	return s.inner.R.Mul(s.scale).Scale(1 / piConst)
}

const piConst = 3.14159265358979323846

func (s scaledLambertian) Sample(wo geometry.Vec3, u geometry.Vec2) (spectrum.Spectrum, geometry.Vec3, float64, bool) {
	f, wi, pdf, ok := s.inner.Sample(wo, u)
	if !ok {
		return spectrum.Black, geometry.Vec3{}, 0, false
	}
	if !s.reflectOnly {
		wi.Z = -wi.Z
	}
	return s.F(wo, wi), wi, s.PDF(wo, wi), true
}

func (s scaledLambertian) PDF(wo, wi geometry.Vec3) float64 {
	sameSide := wo.Z*wi.Z > 0
	if sameSide != s.reflectOnly {
		return 0
	}
	return s.inner.PDF(wo, geometry.Vec3{X: wi.X, Y: wi.Y, Z: absF(wi.Z)})
}

// Uber is the general-purpose material combining an optional diffuse base,
// glossy specular coat, delta specular reflection/transmission, and an
// opacity-driven pass-through transmission lobe, per spec.md's material
// table.
type Uber struct {
	Kd, Ks, Kr, Kt texture.Texture[spectrum.Spectrum]
	Roughness      texture.Texture[float64]
	Eta            texture.Texture[float64]
	Opacity        texture.Texture[spectrum.Spectrum] // nil means fully opaque
}

func (m Uber) ComputeBSDF(intr shape.Interaction) *bsdf.BSDF {
	b := newFrame(intr)

	opacity := spectrum.New(1, 1, 1)
	if m.Opacity != nil {
		opacity = m.Opacity.Evaluate(intr.UV, intr.P)
	}
	transparency := spectrum.New(1, 1, 1).Sub(opacity).Clamp(0, 1)
	if !transparency.IsBlack() {
		b.Add(passThrough{T: transparency})
	}

	eta := 1.5
	if m.Eta != nil {
		eta = m.Eta.Evaluate(intr.UV, intr.P)
	}

	if m.Kd != nil {
		kd := m.Kd.Evaluate(intr.UV, intr.P).Mul(opacity)
		if !kd.IsBlack() {
			b.Add(bsdf.Lambertian{R: kd})
		}
	}
	if m.Ks != nil {
		ks := m.Ks.Evaluate(intr.UV, intr.P).Mul(opacity)
		if !ks.IsBlack() {
			rough := 0.0
			if m.Roughness != nil {
				rough = m.Roughness.Evaluate(intr.UV, intr.P)
			}
			alpha := bsdf.RoughnessToAlpha(rough)
			b.Add(bsdf.MicrofacetReflection{
				R: ks, Dist: bsdf.TrowbridgeReitz{AlphaX: alpha, AlphaY: alpha}, EtaI: 1, EtaT: eta,
			})
		}
	}
	if m.Kr != nil {
		kr := m.Kr.Evaluate(intr.UV, intr.P).Mul(opacity)
		if !kr.IsBlack() {
			b.Add(bsdf.SpecularReflection{R: kr, EtaI: 1, EtaT: eta})
		}
	}
	if m.Kt != nil {
		kt := m.Kt.Evaluate(intr.UV, intr.P).Mul(opacity)
		if !kt.IsBlack() {
			b.Add(bsdf.SpecularTransmission{T: kt, EtaA: 1, EtaB: eta})
		}
	}
	return b
}

// passThrough is a delta lobe that transmits straight through the surface
// unrefracted, scaled by T — the "opacity < 1" pass-through lobe named in
// spec.md's uber material row.
type passThrough struct {
	T spectrum.Spectrum
}

func (p passThrough) Type() bsdf.LobeType { return bsdf.Transmission | bsdf.Specular }
func (p passThrough) F(wo, wi geometry.Vec3) spectrum.Spectrum { return spectrum.Black }
func (p passThrough) PDF(wo, wi geometry.Vec3) float64        { return 0 }

func (p passThrough) Sample(wo geometry.Vec3, u geometry.Vec2) (spectrum.Spectrum, geometry.Vec3, float64, bool) {
	wi := wo.Negate()
	cosI := absF(wi.Z)
	if cosI == 0 {
		return spectrum.Black, geometry.Vec3{}, 0, false
	}
	return p.T.Scale(1 / cosI), wi, 1, true
}

// Mix blends two materials' BSDFs by scaling each lobe's contribution by a
// per-material weight, implementing the "mix material" node referenced in
// scene files that interpolate between two named materials.
type Mix struct {
	M1, M2 Material
	Amount texture.Texture[float64] // 0 selects M1 entirely, 1 selects M2
}

func (m Mix) ComputeBSDF(intr shape.Interaction) *bsdf.BSDF {
	t := clamp(m.Amount.Evaluate(intr.UV, intr.P), 0, 1)
	b1 := m.M1.ComputeBSDF(intr)
	b2 := m.M2.ComputeBSDF(intr)
	out := newFrame(intr)
	for _, l := range b1.AllLobes() {
		out.Add(scaledLobe{inner: l, scale: 1 - t})
	}
	for _, l := range b2.AllLobes() {
		out.Add(scaledLobe{inner: l, scale: t})
	}
	return out
}

// scaledLobe wraps an arbitrary BxDF to multiply its f (and, for sampling,
// the returned f) by a constant scale, implementing Mix's per-material
// weighting without needing per-lobe-type scaled variants.
type scaledLobe struct {
	inner bsdf.BxDF
	scale float64
}

func (s scaledLobe) Type() bsdf.LobeType { return s.inner.Type() }
func (s scaledLobe) F(wo, wi geometry.Vec3) spectrum.Spectrum {
	return s.inner.F(wo, wi).Scale(s.scale)
}
func (s scaledLobe) PDF(wo, wi geometry.Vec3) float64 { return s.inner.PDF(wo, wi) }
func (s scaledLobe) Sample(wo geometry.Vec3, u geometry.Vec2) (spectrum.Spectrum, geometry.Vec3, float64, bool) {
	f, wi, pdf, ok := s.inner.Sample(wo, u)
	return f.Scale(s.scale), wi, pdf, ok
}
