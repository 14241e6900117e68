package light

import (
	"math"
	"testing"

	"goray/pkg/geometry"
	"goray/pkg/shape"
	"goray/pkg/spectrum"
)

// alwaysVisible is an Occluder stub that reports no occlusion, used to
// isolate SampleFromPoint's geometry from shadow testing.
type alwaysVisible struct{}

func (alwaysVisible) IntersectP(r geometry.Ray) bool { return false }

func TestPointLightInverseSquareFalloff(t *testing.T) {
	p := PointLight{P: geometry.Point3{X: 0, Y: 0, Z: 0}, Intensity: spectrum.Gray(1)}
	near := shape.Interaction{P: geometry.Point3{X: 1, Y: 0, Z: 0}, N: geometry.Vec3{X: -1, Y: 0, Z: 0}}
	far := shape.Interaction{P: geometry.Point3{X: 2, Y: 0, Z: 0}, N: geometry.Vec3{X: -1, Y: 0, Z: 0}}

	sNear := p.SampleFromPoint(near, geometry.Vec2{})
	sFar := p.SampleFromPoint(far, geometry.Vec2{})

	if math.Abs(sNear.Li.R-1) > 1e-9 {
		t.Errorf("intensity 1 at distance 1 should give Li.R=1, got %v", sNear.Li.R)
	}
	if math.Abs(sFar.Li.R-0.25) > 1e-9 {
		t.Errorf("intensity 1 at distance 2 should give Li.R=0.25, got %v", sFar.Li.R)
	}
}

func TestPointLightIsDelta(t *testing.T) {
	p := PointLight{P: geometry.Point3{}, Intensity: spectrum.Gray(1)}
	if !p.IsDelta() {
		t.Error("PointLight should be a delta light")
	}
	if p.PDFFromPoint(shape.Interaction{}, geometry.Vec3{X: 0, Y: 0, Z: 1}) != 0 {
		t.Error("delta light PDFFromPoint should be 0")
	}
}

func TestDistantLightParallelDirection(t *testing.T) {
	d := DistantLight{Direction: geometry.Vec3{X: 0, Y: 0, Z: -1}, L: spectrum.Gray(2), WorldRadius: 100}
	a := d.SampleFromPoint(shape.Interaction{P: geometry.Point3{X: 0, Y: 0, Z: 0}}, geometry.Vec2{})
	b := d.SampleFromPoint(shape.Interaction{P: geometry.Point3{X: 50, Y: -30, Z: 10}}, geometry.Vec2{})

	if a.Wi != b.Wi {
		t.Errorf("distant light direction should be independent of reference point: %v vs %v", a.Wi, b.Wi)
	}
	want := geometry.Vec3{X: 0, Y: 0, Z: 1}
	if a.Wi.Sub(want).Length() > 1e-9 {
		t.Errorf("Wi should point opposite travel direction: got %v, want %v", a.Wi, want)
	}
}

func TestDiffuseAreaLightEmitsOnlyFromFrontFace(t *testing.T) {
	sph := shape.NewSphere(geometry.IdentityTransform(), 1, false)
	al := DiffuseAreaLight{Shape: sph, Le_: spectrum.Gray(5), TwoSided: false}

	n := geometry.Vec3{X: 1, Y: 0, Z: 0}
	outward := al.EmittedRadianceAt(n, geometry.Vec3{X: 1, Y: 0, Z: 0})
	inward := al.EmittedRadianceAt(n, geometry.Vec3{X: -1, Y: 0, Z: 0})

	if outward.IsBlack() {
		t.Error("one-sided area light should emit toward the outward normal side")
	}
	if !inward.IsBlack() {
		t.Error("one-sided area light should not emit toward the back side")
	}
}

func TestDiffuseAreaLightTwoSidedEmitsBothWays(t *testing.T) {
	sph := shape.NewSphere(geometry.IdentityTransform(), 1, false)
	al := DiffuseAreaLight{Shape: sph, Le_: spectrum.Gray(5), TwoSided: true}
	n := geometry.Vec3{X: 1, Y: 0, Z: 0}
	if al.EmittedRadianceAt(n, geometry.Vec3{X: -1, Y: 0, Z: 0}).IsBlack() {
		t.Error("two-sided area light should emit from both sides")
	}
}

func TestDiffuseAreaLightSamplePDFAgreesWithShape(t *testing.T) {
	sph := shape.NewSphere(geometry.Translate(geometry.Vec3{X: 5, Y: 0, Z: 0}), 1, false)
	al := DiffuseAreaLight{Shape: sph, Le_: spectrum.Gray(1), TwoSided: true}
	ref := shape.Interaction{P: geometry.Point3{X: 0, Y: 0, Z: 0}, N: geometry.Vec3{X: 1, Y: 0, Z: 0}}

	s := al.SampleFromPoint(ref, geometry.Vec2{X: 0.3, Y: 0.7})
	if s.Pdf <= 0 {
		t.Fatal("expected positive pdf")
	}
	want := al.PDFFromPoint(ref, s.Wi)
	if math.Abs(want-s.Pdf) > 1e-6 {
		t.Errorf("PDFFromPoint(%v) = %v, want sample pdf %v", s.Wi, want, s.Pdf)
	}
}

func TestInfiniteAreaLightLeReturnsConstantMapColor(t *testing.T) {
	const w, h = 16, 8
	m := &constantEnvMap{c: spectrum.New(0.2, 0.4, 0.8)}
	inf := NewInfiniteAreaLight(geometry.IdentityTransform(), m, w, h, 1000)

	r := geometry.NewRay(geometry.Point3{}, geometry.Vec3{X: 0, Y: 1, Z: 0.3}.Normalize())
	le := inf.Le(r)
	if le != m.c {
		t.Errorf("Le for a constant environment should return the constant color, got %v", le)
	}
}

func TestInfiniteAreaLightSamplePDFConsistency(t *testing.T) {
	const w, h = 32, 16
	m := &checkeredEnvMap{}
	inf := NewInfiniteAreaLight(geometry.IdentityTransform(), m, w, h, 1000)
	ref := shape.Interaction{P: geometry.Point3{}}

	for i := 0; i < 20; i++ {
		u := geometry.Vec2{X: (float64(i) + 0.5) / 20, Y: (float64(i*7%20) + 0.5) / 20}
		s := inf.SampleFromPoint(ref, u)
		if s.Pdf <= 0 {
			continue
		}
		got := inf.PDFFromPoint(ref, s.Wi)
		if math.Abs(got-s.Pdf) > 1e-6 {
			t.Errorf("sample %d: PDFFromPoint disagrees with sampled pdf: %v vs %v", i, got, s.Pdf)
		}
	}
}

type constantEnvMap struct{ c spectrum.Spectrum }

func (m *constantEnvMap) Lookup(uv geometry.Vec2) spectrum.Spectrum { return m.c }

// checkeredEnvMap varies spatially so the importance-sampling distribution
// is non-degenerate, exercising SampleContinuous's piecewise-constant selection.
type checkeredEnvMap struct{}

func (checkeredEnvMap) Lookup(uv geometry.Vec2) spectrum.Spectrum {
	iu := int(uv.X * 8)
	iv := int(uv.Y * 8)
	if (iu+iv)%2 == 0 {
		return spectrum.Gray(1)
	}
	return spectrum.Gray(0.1)
}
