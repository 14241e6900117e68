package sceneformat

import (
	"testing"

	"goray/pkg/geometry"
	"goray/pkg/spectrum"
)

func TestParamSetFloatFallsBackToDefault(t *testing.T) {
	p := ParamSet{}
	if got := p.Float("missing", 3.5); got != 3.5 {
		t.Errorf("Float on a missing key = %v, want default 3.5", got)
	}
	p["radius"] = Param{Type: "float", Values: []string{"2.0"}}
	if got := p.Float("radius", 0); got != 2.0 {
		t.Errorf("Float(radius) = %v, want 2.0", got)
	}
}

func TestParamSetFloatInvalidValueFallsBack(t *testing.T) {
	p := ParamSet{"x": Param{Type: "float", Values: []string{"not-a-number"}}}
	if got := p.Float("x", 9); got != 9 {
		t.Errorf("Float with invalid value = %v, want default 9", got)
	}
}

func TestParamSetFloatsParsesAll(t *testing.T) {
	p := ParamSet{"v": Param{Type: "float", Values: []string{"1", "2", "3"}}}
	got := p.Floats("v")
	want := []float64{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("Floats = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Floats[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestParamSetIntAndBool(t *testing.T) {
	p := ParamSet{
		"n":        Param{Type: "integer", Values: []string{"7"}},
		"flag":     Param{Type: "bool", Values: []string{"true"}},
		"flagOff":  Param{Type: "bool", Values: []string{"false"}},
	}
	if got := p.Int("n", 0); got != 7 {
		t.Errorf("Int(n) = %v, want 7", got)
	}
	if !p.Bool("flag", false) {
		t.Error("Bool(flag) should be true")
	}
	if p.Bool("flagOff", true) {
		t.Error("Bool(flagOff) should be false")
	}
	if p.Bool("missing", true) != true {
		t.Error("Bool on a missing key should return the default")
	}
}

func TestParamSetHas(t *testing.T) {
	p := ParamSet{"a": Param{Type: "float", Values: []string{"1"}}}
	if !p.Has("a") {
		t.Error("Has(a) should be true")
	}
	if p.Has("b") {
		t.Error("Has(b) should be false")
	}
}

func TestParamSetSpectrumScalarBroadcasts(t *testing.T) {
	p := ParamSet{"Kd": Param{Type: "float", Values: []string{"0.5"}}}
	got := p.Spectrum("Kd", spectrum.Black)
	if got != spectrum.Gray(0.5) {
		t.Errorf("Spectrum with one value = %v, want gray 0.5", got)
	}
}

func TestParamSetSpectrumTripleIsRGB(t *testing.T) {
	p := ParamSet{"Kd": Param{Type: "color", Values: []string{"0.1", "0.2", "0.3"}}}
	got := p.Spectrum("Kd", spectrum.Black)
	want := spectrum.New(0.1, 0.2, 0.3)
	if got != want {
		t.Errorf("Spectrum with three values = %v, want %v", got, want)
	}
}

func TestParamSetSpectrumMissingIsDefault(t *testing.T) {
	p := ParamSet{}
	def := spectrum.New(1, 1, 1)
	if got := p.Spectrum("Kd", def); got != def {
		t.Errorf("Spectrum on missing key = %v, want default %v", got, def)
	}
}

func TestParamSetPoint3AndVector3(t *testing.T) {
	p := ParamSet{"p": Param{Type: "point", Values: []string{"1", "2", "3"}}}
	got := p.Point3("p", geometry.Point3{})
	want := geometry.Point3{X: 1, Y: 2, Z: 3}
	if got != want {
		t.Errorf("Point3 = %v, want %v", got, want)
	}

	p2 := ParamSet{"v": Param{Type: "vector", Values: []string{"4", "5"}}}
	gotV := p2.Vector3("v", geometry.Vec3{X: 9, Y: 9, Z: 9})
	wantV := geometry.Vec3{X: 9, Y: 9, Z: 9}
	if gotV != wantV {
		t.Errorf("Vector3 with wrong arity should fall back to default, got %v want %v", gotV, wantV)
	}
}
