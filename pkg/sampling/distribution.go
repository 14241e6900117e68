package sampling

import (
	"sort"

	"goray/pkg/geometry"
)

// Distribution1D is a piecewise-constant 1D probability distribution built
// from a function sampled at n points, supporting O(log n) inverse-CDF
// sampling. It underlies Distribution2D's per-row/per-column sampling used
// by infinite-area light importance sampling (spec.md §4.8).
type Distribution1D struct {
	func_   []float64
	cdf     []float64
	funcInt float64
}

func NewDistribution1D(f []float64) *Distribution1D {
	n := len(f)
	cdf := make([]float64, n+1)
	for i := 1; i <= n; i++ {
		cdf[i] = cdf[i-1] + f[i-1]/float64(n)
	}
	funcInt := cdf[n]
	if funcInt == 0 {
		for i := 1; i <= n; i++ {
			cdf[i] = float64(i) / float64(n)
		}
	} else {
		for i := 1; i <= n; i++ {
			cdf[i] /= funcInt
		}
	}
	d := &Distribution1D{func_: append([]float64(nil), f...), cdf: cdf, funcInt: funcInt}
	return d
}

// SampleContinuous maps u in [0,1) to a value in [0,1) distributed
// proportionally to the original function, returning the value, its PDF,
// and the bucket index it fell in.
func (d *Distribution1D) SampleContinuous(u float64) (value, pdf float64, offset int) {
	n := len(d.func_)
	offset = sort.Search(len(d.cdf), func(i int) bool { return d.cdf[i] > u }) - 1
	if offset < 0 {
		offset = 0
	}
	if offset > n-1 {
		offset = n - 1
	}
	du := u - d.cdf[offset]
	if d.cdf[offset+1]-d.cdf[offset] > 0 {
		du /= d.cdf[offset+1] - d.cdf[offset]
	}
	if d.funcInt > 0 {
		pdf = d.func_[offset] / d.funcInt
	}
	value = (float64(offset) + du) / float64(n)
	return value, pdf, offset
}

func (d *Distribution1D) FuncInt() float64 { return d.funcInt }

// Distribution2D builds one conditional Distribution1D per row plus a
// marginal Distribution1D over the row integrals, for a 2D function sampled
// on a nu x nv grid (row-major, v is the outer/marginal
// dimension), the standard conditional/marginal decomposition for
// importance-sampling an environment map by its luminance.
type Distribution2D struct {
	conditional []*Distribution1D // one per row (v)
	marginal    *Distribution1D
}

func NewDistribution2D(f []float64, nu, nv int) *Distribution2D {
	conditional := make([]*Distribution1D, nv)
	marginalFunc := make([]float64, nv)
	for v := 0; v < nv; v++ {
		row := f[v*nu : (v+1)*nu]
		conditional[v] = NewDistribution1D(row)
		marginalFunc[v] = conditional[v].FuncInt()
	}
	return &Distribution2D{conditional: conditional, marginal: NewDistribution1D(marginalFunc)}
}

// SampleContinuous draws (u,v) in [0,1)^2 proportionally to the original
// function, returning the combined PDF (with respect to (u,v) measure).
func (d *Distribution2D) SampleContinuous(u geometry.Vec2) (uv geometry.Vec2, pdf float64) {
	v, pdfV, vOffset := d.marginal.SampleContinuous(u.Y)
	uVal, pdfU, _ := d.conditional[vOffset].SampleContinuous(u.X)
	return geometry.Vec2{X: uVal, Y: v}, pdfU * pdfV
}

// PDF returns the density of (u,v) under the distribution built at
// construction, used to weight BSDF-sampled escape rays in MIS against the
// environment map's importance sampling.
func (d *Distribution2D) PDF(uv geometry.Vec2) float64 {
	nu := len(d.conditional[0].func_)
	nv := len(d.conditional)
	iu := clampInt(int(uv.X*float64(nu)), 0, nu-1)
	iv := clampInt(int(uv.Y*float64(nv)), 0, nv-1)
	if d.marginal.funcInt == 0 {
		return 0
	}
	return d.conditional[iv].func_[iu] / d.marginal.funcInt
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
