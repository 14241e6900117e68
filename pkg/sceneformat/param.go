package sceneformat

import (
	"strconv"

	"goray/pkg/geometry"
	"goray/pkg/spectrum"
)

// Param is one typed, possibly multi-valued entry from a `"type name"
// [values...]` parameter list (spec.md §6).
type Param struct {
	Type   string
	Values []string
}

// ParamSet is the full set of named parameters attached to a single
// directive, plus the accessors materials/lights/shapes use to read them
// with a fallback default when absent.
type ParamSet map[string]Param

func (p ParamSet) Float(name string, def float64) float64 {
	v, ok := p[name]
	if !ok || len(v.Values) == 0 {
		return def
	}
	f, err := strconv.ParseFloat(v.Values[0], 64)
	if err != nil {
		return def
	}
	return f
}

func (p ParamSet) Floats(name string) []float64 {
	v, ok := p[name]
	if !ok {
		return nil
	}
	out := make([]float64, 0, len(v.Values))
	for _, s := range v.Values {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			continue
		}
		out = append(out, f)
	}
	return out
}

func (p ParamSet) Int(name string, def int) int {
	v, ok := p[name]
	if !ok || len(v.Values) == 0 {
		return def
	}
	n, err := strconv.Atoi(v.Values[0])
	if err != nil {
		return def
	}
	return n
}

func (p ParamSet) Ints(name string) []int {
	v, ok := p[name]
	if !ok {
		return nil
	}
	out := make([]int, 0, len(v.Values))
	for _, s := range v.Values {
		n, err := strconv.Atoi(s)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}

func (p ParamSet) Bool(name string, def bool) bool {
	v, ok := p[name]
	if !ok || len(v.Values) == 0 {
		return def
	}
	return v.Values[0] == "true"
}

func (p ParamSet) String(name, def string) string {
	v, ok := p[name]
	if !ok || len(v.Values) == 0 {
		return def
	}
	return v.Values[0]
}

func (p ParamSet) Has(name string) bool {
	_, ok := p[name]
	return ok
}

func (p ParamSet) Spectrum(name string, def spectrum.Spectrum) spectrum.Spectrum {
	v, ok := p[name]
	if !ok {
		return def
	}
	switch len(v.Values) {
	case 1:
		g, err := strconv.ParseFloat(v.Values[0], 64)
		if err != nil {
			return def
		}
		return spectrum.Gray(g)
	case 3:
		vals := p.Floats(name)
		if len(vals) != 3 {
			return def
		}
		return spectrum.New(vals[0], vals[1], vals[2])
	default:
		return def
	}
}

func (p ParamSet) Point3(name string, def geometry.Point3) geometry.Point3 {
	vals := p.Floats(name)
	if len(vals) != 3 {
		return def
	}
	return geometry.Point3{X: vals[0], Y: vals[1], Z: vals[2]}
}

func (p ParamSet) Vector3(name string, def geometry.Vec3) geometry.Vec3 {
	vals := p.Floats(name)
	if len(vals) != 3 {
		return def
	}
	return geometry.Vec3{X: vals[0], Y: vals[1], Z: vals[2]}
}
