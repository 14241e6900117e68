package material

import (
	"math"
	"testing"

	"goray/pkg/geometry"
	"goray/pkg/shape"
	"goray/pkg/spectrum"
	"goray/pkg/texture"
)

func flatInteraction() shape.Interaction {
	return shape.Interaction{
		P:    geometry.Point3{},
		N:    geometry.Normal3{X: 0, Y: 0, Z: 1},
		DPDU: geometry.Vec3{X: 1, Y: 0, Z: 0},
		UV:   geometry.Vec2{X: 0.5, Y: 0.5},
	}
}

func TestMatteZeroKdProducesNoLobes(t *testing.T) {
	m := Matte{Kd: texture.NewConstant(spectrum.Black)}
	b := m.ComputeBSDF(flatInteraction())
	if b.NumComponents() != 0 {
		t.Errorf("a black Kd should attach no lobes, got %d", b.NumComponents())
	}
}

func TestMatteZeroSigmaIsLambertian(t *testing.T) {
	m := Matte{Kd: texture.NewConstant(spectrum.Gray(0.5))}
	b := m.ComputeBSDF(flatInteraction())
	if b.NumComponents() != 1 {
		t.Fatalf("expected exactly one lobe, got %d", b.NumComponents())
	}
	wo := geometry.Vec3{X: 0, Y: 0, Z: 1}
	wi := geometry.Vec3{X: 0, Y: 0, Z: 1}
	want := 0.5 / math.Pi
	if math.Abs(b.F(wo, wi).R-want) > 1e-9 {
		t.Errorf("F = %v, want %v", b.F(wo, wi).R, want)
	}
}

func TestMatteNonZeroSigmaUsesOrenNayar(t *testing.T) {
	m := Matte{
		Kd:    texture.NewConstant(spectrum.Gray(0.5)),
		Sigma: texture.NewConstant(20.0),
	}
	b := m.ComputeBSDF(flatInteraction())
	wo := geometry.Vec3{X: 0.3, Y: 0, Z: 0.9539}
	wi := geometry.Vec3{X: -0.3, Y: 0, Z: 0.9539}
	lambertian := 0.5 / math.Pi
	if math.Abs(b.F(wo, wi).R-lambertian) < 1e-6 {
		t.Error("sigma > 0 should diverge from the flat Lambertian response")
	}
}

func TestMirrorIsPureSpecular(t *testing.T) {
	m := Mirror{Kr: texture.NewConstant(spectrum.Gray(0.9))}
	b := m.ComputeBSDF(flatInteraction())
	if !b.IsSpecular() {
		t.Error("a mirror BSDF should report IsSpecular")
	}
	wo := geometry.Vec3{X: 0.2, Y: 0.3, Z: 0.9327}
	lobes := b.SpecularLobes()
	if len(lobes) != 1 {
		t.Fatalf("expected one delta lobe, got %d", len(lobes))
	}
	f, wi, pdf, ok := b.SampleLobe(lobes[0], wo, geometry.Vec2{})
	if !ok {
		t.Fatal("mirror sample should succeed")
	}
	if pdf != 1 {
		t.Errorf("mirror delta lobe pdf = %v, want 1", pdf)
	}
	if math.Abs(wi.Z-wo.Z) > 1e-9 || math.Abs(wi.X+wo.X) > 1e-9 || math.Abs(wi.Y+wo.Y) > 1e-9 {
		t.Errorf("reflected direction %v is not the mirror of %v about the shading normal", wi, wo)
	}
	if f.IsBlack() {
		t.Error("mirror sample should return nonzero reflectance")
	}
}

func TestGlassZeroReflectanceAndTransmittanceProducesNoLobes(t *testing.T) {
	m := Glass{
		Kr: texture.NewConstant(spectrum.Black),
		Kt: texture.NewConstant(spectrum.Black),
	}
	b := m.ComputeBSDF(flatInteraction())
	if b.NumComponents() != 0 {
		t.Errorf("expected zero lobes when both Kr and Kt are black, got %d", b.NumComponents())
	}
}

func TestGlassNonzeroKtAttachesSpecularLobe(t *testing.T) {
	m := Glass{
		Kr: texture.NewConstant(spectrum.Gray(0.1)),
		Kt: texture.NewConstant(spectrum.Gray(0.9)),
	}
	b := m.ComputeBSDF(flatInteraction())
	if !b.IsSpecular() || len(b.SpecularLobes()) != 1 {
		t.Errorf("glass should attach exactly one delta lobe, got %d non-delta / %d delta",
			len(b.AllLobes())-len(b.SpecularLobes()), len(b.SpecularLobes()))
	}
}

func TestPlasticCombinesDiffuseAndGlossyLobes(t *testing.T) {
	m := Plastic{
		Kd:        texture.NewConstant(spectrum.Gray(0.4)),
		Ks:        texture.NewConstant(spectrum.Gray(0.3)),
		Roughness: texture.NewConstant(0.1),
	}
	b := m.ComputeBSDF(flatInteraction())
	if b.NumComponents() != 2 {
		t.Fatalf("expected a diffuse lobe plus a glossy lobe, got %d", b.NumComponents())
	}
	if b.IsSpecular() {
		t.Error("plastic's glossy lobe is non-delta, BSDF should not report IsSpecular")
	}
}

func TestUberOpacityBelowOneAddsPassThroughLobe(t *testing.T) {
	m := Uber{
		Kd:      texture.NewConstant(spectrum.Gray(0.5)),
		Opacity: texture.NewConstant(spectrum.Gray(0.5)),
	}
	b := m.ComputeBSDF(flatInteraction())
	if len(b.SpecularLobes()) != 1 {
		t.Fatalf("expected one pass-through delta lobe for opacity < 1, got %d", len(b.SpecularLobes()))
	}
}

func TestUberFullyOpaqueOmitsPassThroughLobe(t *testing.T) {
	m := Uber{Kd: texture.NewConstant(spectrum.Gray(0.5))}
	b := m.ComputeBSDF(flatInteraction())
	if len(b.SpecularLobes()) != 0 {
		t.Errorf("a fully opaque uber material should attach no pass-through lobe, got %d", len(b.SpecularLobes()))
	}
}

func TestMixAtZeroAmountMatchesFirstMaterial(t *testing.T) {
	m1 := Matte{Kd: texture.NewConstant(spectrum.Gray(0.8))}
	m2 := Matte{Kd: texture.NewConstant(spectrum.Gray(0.2))}
	mix := Mix{M1: m1, M2: m2, Amount: texture.NewConstant(0.0)}

	intr := flatInteraction()
	wo := geometry.Vec3{X: 0, Y: 0, Z: 1}
	wi := geometry.Vec3{X: 0, Y: 0, Z: 1}

	got := mix.ComputeBSDF(intr).F(wo, wi)
	want := m1.ComputeBSDF(intr).F(wo, wi)
	if math.Abs(got.R-want.R) > 1e-9 {
		t.Errorf("Mix at amount=0 should match M1: got %v, want %v", got, want)
	}
}

func TestMixAtOneAmountMatchesSecondMaterial(t *testing.T) {
	m1 := Matte{Kd: texture.NewConstant(spectrum.Gray(0.8))}
	m2 := Matte{Kd: texture.NewConstant(spectrum.Gray(0.2))}
	mix := Mix{M1: m1, M2: m2, Amount: texture.NewConstant(1.0)}

	intr := flatInteraction()
	wo := geometry.Vec3{X: 0, Y: 0, Z: 1}
	wi := geometry.Vec3{X: 0, Y: 0, Z: 1}

	got := mix.ComputeBSDF(intr).F(wo, wi)
	want := m2.ComputeBSDF(intr).F(wo, wi)
	if math.Abs(got.R-want.R) > 1e-9 {
		t.Errorf("Mix at amount=1 should match M2: got %v, want %v", got, want)
	}
}

func TestMixHalfwaySumsToUnscaledTotal(t *testing.T) {
	m1 := Matte{Kd: texture.NewConstant(spectrum.Gray(0.8))}
	m2 := Matte{Kd: texture.NewConstant(spectrum.Gray(0.2))}
	mix := Mix{M1: m1, M2: m2, Amount: texture.NewConstant(0.5)}

	intr := flatInteraction()
	wo := geometry.Vec3{X: 0, Y: 0, Z: 1}
	wi := geometry.Vec3{X: 0, Y: 0, Z: 1}

	got := mix.ComputeBSDF(intr).F(wo, wi)
	f1 := m1.ComputeBSDF(intr).F(wo, wi)
	f2 := m2.ComputeBSDF(intr).F(wo, wi)
	want := f1.Scale(0.5).Add(f2.Scale(0.5))
	if math.Abs(got.R-want.R) > 1e-9 {
		t.Errorf("Mix at amount=0.5 = %v, want average %v", got, want)
	}
}

// TestPlasticSamplePDFAgreesWithPDF checks the composite BSDF's mixture-density
// contract: for each of many samples from a multi-lobe BSDF, the pdf
// reported by Sample for a non-delta outcome should equal PDF evaluated
// directly at the same directions.
func TestPlasticSamplePDFAgreesWithPDF(t *testing.T) {
	m := Plastic{
		Kd:        texture.NewConstant(spectrum.Gray(0.5)),
		Ks:        texture.NewConstant(spectrum.Gray(0.3)),
		Roughness: texture.NewConstant(0.3),
	}
	intr := flatInteraction()
	wo := geometry.Vec3{X: 0.1, Y: 0.2, Z: 0.9747}

	lobeUs := []float64{0.1, 0.4, 0.6, 0.9}
	us := []geometry.Vec2{{X: 0.3, Y: 0.7}, {X: 0.6, Y: 0.2}, {X: 0.8, Y: 0.5}, {X: 0.25, Y: 0.9}}
	for i, lu := range lobeUs {
		b := m.ComputeBSDF(intr)
		_, wi, pdf, _, ok := b.Sample(wo, lu, us[i])
		if !ok {
			continue
		}
		recomputed := b.PDF(wo, wi)
		if math.Abs(pdf-recomputed) > 1e-6 {
			t.Errorf("sample %d: Sample pdf = %v, PDF(wo,wi) = %v, want equal", i, pdf, recomputed)
		}
	}
}
