// Package light implements the emitter types of spec.md Component H: point,
// distant, diffuse-area and infinite-area (environment map) lights, each
// able to sample an incident direction from a reference point and report a
// solid-angle PDF for that sample, for use by the MIS light-sampling
// strategy in pkg/integrator.
package light

import (
	"math"

	"goray/pkg/geometry"
	"goray/pkg/sampling"
	"goray/pkg/shape"
	"goray/pkg/spectrum"
)

// VisibilityTester owns the shadow ray between a reference point and a
// sampled light point; Unoccluded traces it as an any-hit query excluding
// the endpoint itself (spec.md §4's t_max just-short-of-1 convention).
type VisibilityTester struct {
	Ray geometry.Ray
}

func NewVisibilityTester(from, to geometry.Point3) VisibilityTester {
	return VisibilityTester{Ray: geometry.NewRayBetween(from, to)}
}

// Occluder is satisfied by any structure offering any-hit shadow queries;
// pkg/accel.BVHAggregate implements it.
type Occluder interface {
	IntersectP(r geometry.Ray) bool
}

func (vt VisibilityTester) Unoccluded(scene Occluder) bool {
	return !scene.IntersectP(vt.Ray)
}

// SampleResult is what every light's SampleFromPoint call returns.
type SampleResult struct {
	Wi  geometry.Vec3
	Li  spectrum.Spectrum
	Pdf float64
	Vis VisibilityTester
}

// Light is the common interface for all emitters.
type Light interface {
	SampleFromPoint(ref shape.Interaction, u geometry.Vec2) SampleResult
	PDFFromPoint(ref shape.Interaction, wi geometry.Vec3) float64
	// Le returns the radiance emitted along a ray that escaped the scene
	// without hitting anything; zero for all but infinite-area lights.
	Le(r geometry.Ray) spectrum.Spectrum
	IsDelta() bool
}

// PointLight emits uniformly in all directions from a single point.
type PointLight struct {
	P         geometry.Point3
	Intensity spectrum.Spectrum
}

func (p PointLight) SampleFromPoint(ref shape.Interaction, u geometry.Vec2) SampleResult {
	wi := p.P.Sub(ref.P)
	distSq := wi.LengthSquared()
	if distSq == 0 {
		return SampleResult{}
	}
	wi = wi.Normalize()
	li := p.Intensity.Scale(1 / distSq)
	return SampleResult{Wi: wi, Li: li, Pdf: 1, Vis: NewVisibilityTester(ref.OffsetRayOrigin(wi), p.P)}
}

func (p PointLight) PDFFromPoint(ref shape.Interaction, wi geometry.Vec3) float64 { return 0 }
func (p PointLight) Le(r geometry.Ray) spectrum.Spectrum                        { return spectrum.Black }
func (p PointLight) IsDelta() bool                                              { return true }

// DistantLight emits parallel rays from an infinitely distant direction,
// as though from a directional sun.
type DistantLight struct {
	Direction geometry.Vec3 // direction light travels (from light to scene)
	L         spectrum.Spectrum
	WorldRadius float64
}

func (d DistantLight) SampleFromPoint(ref shape.Interaction, u geometry.Vec2) SampleResult {
	wi := d.Direction.Negate().Normalize()
	farPoint := ref.P.Add(wi.Mul(2 * d.WorldRadius))
	return SampleResult{Wi: wi, Li: d.L, Pdf: 1, Vis: NewVisibilityTester(ref.OffsetRayOrigin(wi), farPoint)}
}

func (d DistantLight) PDFFromPoint(ref shape.Interaction, wi geometry.Vec3) float64 { return 0 }
func (d DistantLight) Le(r geometry.Ray) spectrum.Spectrum                        { return spectrum.Black }
func (d DistantLight) IsDelta() bool                                              { return true }

// DiffuseAreaLight emits Le uniformly from the front (outward-normal) side
// of an arbitrary Shape.
type DiffuseAreaLight struct {
	Shape shape.Shape
	Le_   spectrum.Spectrum
	TwoSided bool
}

func (a DiffuseAreaLight) emittedRadiance(n geometry.Normal3, w geometry.Vec3) spectrum.Spectrum {
	if a.TwoSided || n.Dot(w) > 0 {
		return a.Le_
	}
	return spectrum.Black
}

func (a DiffuseAreaLight) SampleFromPoint(ref shape.Interaction, u geometry.Vec2) SampleResult {
	pIntr, pdf := a.Shape.SampleFromPoint(ref, u)
	if pdf == 0 {
		return SampleResult{}
	}
	wi := pIntr.P.Sub(ref.P)
	if wi.IsZero() {
		return SampleResult{}
	}
	wi = wi.Normalize()
	li := a.emittedRadiance(pIntr.N, wi.Negate())
	vis := NewVisibilityTester(ref.OffsetRayOrigin(wi), pIntr.OffsetRayOrigin(wi.Negate()))
	return SampleResult{Wi: wi, Li: li, Pdf: pdf, Vis: vis}
}

func (a DiffuseAreaLight) PDFFromPoint(ref shape.Interaction, wi geometry.Vec3) float64 {
	return a.Shape.PDFFromPoint(ref, wi)
}

func (a DiffuseAreaLight) Le(r geometry.Ray) spectrum.Spectrum { return spectrum.Black }
func (a DiffuseAreaLight) IsDelta() bool                       { return false }

// EmittedRadianceAt returns Le for a ray that directly hit the light's
// shape (as opposed to one found via SampleFromPoint), used by the
// integrator when it hits an emissive primitive on a camera/BSDF ray.
func (a DiffuseAreaLight) EmittedRadianceAt(n geometry.Normal3, wOut geometry.Vec3) spectrum.Spectrum {
	return a.emittedRadiance(n, wOut)
}

// InfiniteAreaLight represents a distant environment, sampled by the 2D
// luminance distribution of its equirectangular map, per spec.md §4.8.
type InfiniteAreaLight struct {
	LightToWorld, WorldToLight geometry.Transform
	Map                        EnvironmentMap
	Distribution               *sampling.Distribution2D
	WorldRadius                float64
}

// EnvironmentMap is satisfied by the image-backed texture used to store
// the equirectangular environment; kept minimal so pkg/light need not
// import pkg/texture's generic type directly.
type EnvironmentMap interface {
	Lookup(uv geometry.Vec2) spectrum.Spectrum
}

// NewInfiniteAreaLight builds the importance-sampling distribution from a
// luminance image, sin(theta)-weighting each row as pbrt-derived renderers
// do so that poles (which a naive equirectangular grid over-samples) are
// not over-weighted.
func NewInfiniteAreaLight(l2w geometry.Transform, m EnvironmentMap, width, height int, worldRadius float64) *InfiniteAreaLight {
	img := make([]float64, width*height)
	for v := 0; v < height; v++ {
		theta := math.Pi * (float64(v) + 0.5) / float64(height)
		sinTheta := math.Sin(theta)
		for u := 0; u < width; u++ {
			uv := geometry.Vec2{X: (float64(u) + 0.5) / float64(width), Y: (float64(v) + 0.5) / float64(height)}
			img[v*width+u] = m.Lookup(uv).Luminance() * sinTheta
		}
	}
	return &InfiniteAreaLight{
		LightToWorld: l2w, WorldToLight: l2w.Inverse(), Map: m,
		Distribution: sampling.NewDistribution2D(img, width, height),
		WorldRadius:  worldRadius,
	}
}

func (inf *InfiniteAreaLight) SampleFromPoint(ref shape.Interaction, u geometry.Vec2) SampleResult {
	uv, mapPdf := inf.Distribution.SampleContinuous(u)
	if mapPdf == 0 {
		return SampleResult{}
	}
	theta := uv.Y * math.Pi
	phi := uv.X * 2 * math.Pi
	sinTheta, cosTheta := math.Sin(theta), math.Cos(theta)
	if sinTheta == 0 {
		return SampleResult{}
	}
	dirLocal := geometry.Vec3{
		X: sinTheta * math.Cos(phi),
		Y: sinTheta * math.Sin(phi),
		Z: cosTheta,
	}
	wi := inf.LightToWorld.Vector(dirLocal).Normalize()
	pdf := mapPdf / (2 * math.Pi * math.Pi * sinTheta)
	li := inf.Map.Lookup(uv)
	farPoint := ref.P.Add(wi.Mul(2 * inf.WorldRadius))
	return SampleResult{Wi: wi, Li: li, Pdf: pdf, Vis: NewVisibilityTester(ref.OffsetRayOrigin(wi), farPoint)}
}

func (inf *InfiniteAreaLight) PDFFromPoint(ref shape.Interaction, wi geometry.Vec3) float64 {
	dirLocal := inf.WorldToLight.Vector(wi).Normalize()
	theta := math.Acos(clampF(dirLocal.Z, -1, 1))
	phi := math.Atan2(dirLocal.Y, dirLocal.X)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	sinTheta := math.Sin(theta)
	if sinTheta == 0 {
		return 0
	}
	uv := geometry.Vec2{X: phi / (2 * math.Pi), Y: theta / math.Pi}
	return inf.Distribution.PDF(uv) / (2 * math.Pi * math.Pi * sinTheta)
}

func (inf *InfiniteAreaLight) Le(r geometry.Ray) spectrum.Spectrum {
	dirLocal := inf.WorldToLight.Vector(r.Direction).Normalize()
	theta := math.Acos(clampF(dirLocal.Z, -1, 1))
	phi := math.Atan2(dirLocal.Y, dirLocal.X)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	uv := geometry.Vec2{X: phi / (2 * math.Pi), Y: theta / math.Pi}
	return inf.Map.Lookup(uv)
}

func (inf *InfiniteAreaLight) IsDelta() bool { return false }

func clampF(v, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, v)) }
