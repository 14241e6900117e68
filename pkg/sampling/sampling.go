// Package sampling collects the Monte Carlo sampling helpers shared by
// shapes, lights and BxDFs (spec.md Component N): disk/hemisphere/triangle
// sampling, 1D/2D piecewise-constant distributions, and the MIS heuristics.
package sampling

import (
	"math"

	"goray/pkg/geometry"
)

// ConcentricSampleDisk maps a uniform [0,1)^2 sample to a uniform sample on
// the unit disk using Shirley's concentric mapping (the canonical choice
// adopted per spec.md §9 over the several divergent variants in the source).
func ConcentricSampleDisk(u geometry.Vec2) geometry.Vec2 {
	ox := 2*u.X - 1
	oy := 2*u.Y - 1
	if ox == 0 && oy == 0 {
		return geometry.Vec2{}
	}
	var theta, r float64
	if math.Abs(ox) > math.Abs(oy) {
		r = ox
		theta = (math.Pi / 4) * (oy / ox)
	} else {
		r = oy
		theta = math.Pi/2 - (math.Pi/4)*(ox/oy)
	}
	return geometry.Vec2{X: r * math.Cos(theta), Y: r * math.Sin(theta)}
}

// CosineSampleHemisphere draws a direction from the cosine-weighted
// hemisphere around +z via Malley's method (concentric disk + projection).
func CosineSampleHemisphere(u geometry.Vec2) geometry.Vec3 {
	d := ConcentricSampleDisk(u)
	z := math.Sqrt(math.Max(0, 1-d.X*d.X-d.Y*d.Y))
	return geometry.Vec3{X: d.X, Y: d.Y, Z: z}
}

func CosineHemispherePDF(cosTheta float64) float64 { return cosTheta / math.Pi }

// UniformSampleHemisphere draws a direction uniformly over the hemisphere
// around +z; PDF is the constant 1/(2π).
func UniformSampleHemisphere(u geometry.Vec2) geometry.Vec3 {
	z := u.X
	r := math.Sqrt(math.Max(0, 1-z*z))
	phi := 2 * math.Pi * u.Y
	return geometry.Vec3{X: r * math.Cos(phi), Y: r * math.Sin(phi), Z: z}
}

const UniformHemispherePDF = 1 / (2 * math.Pi)

// UniformSampleSphere draws a direction uniformly over the full sphere; PDF
// is the constant 1/(4π). Per spec.md §9, unconditional area-light sampling
// of a closed surface uses this (not the hemisphere variant).
func UniformSampleSphere(u geometry.Vec2) geometry.Vec3 {
	z := 1 - 2*u.X
	r := math.Sqrt(math.Max(0, 1-z*z))
	phi := 2 * math.Pi * u.Y
	return geometry.Vec3{X: r * math.Cos(phi), Y: r * math.Sin(phi), Z: z}
}

const UniformSpherePDF = 1 / (4 * math.Pi)

// UniformSampleCone draws a direction uniformly within a cone of half-angle
// cosThetaMax around +z, used for sphere sampling from an external
// reference point (spec.md §4.2).
func UniformSampleCone(u geometry.Vec2, cosThetaMax float64) geometry.Vec3 {
	cosTheta := (1-u.X)*1 + u.X*cosThetaMax
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	phi := 2 * math.Pi * u.Y
	return geometry.Vec3{X: math.Cos(phi) * sinTheta, Y: math.Sin(phi) * sinTheta, Z: cosTheta}
}

func UniformConePDF(cosThetaMax float64) float64 {
	return 1 / (2 * math.Pi * (1 - cosThetaMax))
}

// UniformSampleTriangle maps a uniform sample to barycentric coordinates
// (b0, b1, b2) with b0+b1+b2 = 1, bi >= 0, using the square-root
// low-distortion mapping.
func UniformSampleTriangle(u geometry.Vec2) (b0, b1, b2 float64) {
	su0 := math.Sqrt(u.X)
	b0 = 1 - su0
	b1 = u.Y * su0
	b2 = 1 - b0 - b1
	return
}

// PowerHeuristic implements the β=2 power heuristic for combining two
// sampling strategies' PDFs, per spec.md §4.9/§8.
func PowerHeuristic(nf int, fPdf float64, ng int, gPdf float64) float64 {
	f := float64(nf) * fPdf
	g := float64(ng) * gPdf
	if f+g == 0 {
		return 0
	}
	return (f * f) / (f*f + g*g)
}

// SphereUniformPDF is the PDF (per unit area) for uniform sampling of a
// sphere's surface.
func SphereUniformPDF(radius float64) float64 {
	return 1 / (4 * math.Pi * radius * radius)
}
