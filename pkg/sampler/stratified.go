package sampler

import (
	"math/rand"

	"goray/pkg/geometry"
)

// StratifiedSampler is a supplemented sampler (original_source/ offers a
// simpler jittered-grid strategy alongside Halton): the first 2D draw of
// each sample falls in one cell of a roughly-square jittered grid, and all
// values come from one random stream seeded from the pixel at SetPixel.
// Values are reproducible for a given pixel and order of draws since
// SetPixel, not for (pixel, sample, dim) alone; Clone restarts the copy's
// stream at the pixel seed while keeping the sample and dimension cursor.
type StratifiedSampler struct {
	spp   int
	nx, ny int
	pixel [2]int
	sampleIndex int
	dim         int
	rng         *rand.Rand
}

func NewStratifiedSampler(samplesPerPixel int) *StratifiedSampler {
	nx, ny := gridFactors(samplesPerPixel)
	return &StratifiedSampler{spp: samplesPerPixel, nx: nx, ny: ny}
}

// gridFactors picks the most-square nx*ny >= n grid dimensions.
func gridFactors(n int) (nx, ny int) {
	if n <= 0 {
		return 1, 1
	}
	nx = 1
	for nx*nx < n {
		nx++
	}
	ny = (n + nx - 1) / nx
	return nx, ny
}

func (s *StratifiedSampler) SamplesPerPixel() int { return s.spp }

func (s *StratifiedSampler) SetPixel(p [2]int) {
	s.pixel = p
	s.sampleIndex = 0
	s.dim = 0
	seed := int64(p[0])*2654435761 + int64(p[1])*40503 + 1
	s.rng = rand.New(rand.NewSource(seed))
}

func (s *StratifiedSampler) NextSample() {
	s.sampleIndex++
	s.dim = 0
}

func (s *StratifiedSampler) Get1D() float64 {
	s.dim++
	return s.rng.Float64()
}

func (s *StratifiedSampler) Get2D() geometry.Vec2 {
	// The first 2D draw of a sample is stratified over the pixel's jittered
	// grid; later dimensions fall back to plain jittered random pairs,
	// matching the teacher's per-sample rand.Float64 usage for bounce
	// directions where stratification no longer pays off.
	if s.dim == 0 {
		cell := s.sampleIndex % (s.nx * s.ny)
		cx := cell % s.nx
		cy := cell / s.nx
		u := (float64(cx) + s.rng.Float64()) / float64(s.nx)
		v := (float64(cy) + s.rng.Float64()) / float64(s.ny)
		s.dim += 2
		return geometry.Vec2{X: u, Y: v}
	}
	s.dim += 2
	return geometry.Vec2{X: s.rng.Float64(), Y: s.rng.Float64()}
}

func (s *StratifiedSampler) Clone() Sampler {
	c := &StratifiedSampler{spp: s.spp, nx: s.nx, ny: s.ny, pixel: s.pixel, sampleIndex: s.sampleIndex, dim: s.dim}
	if s.rng != nil {
		c.rng = rand.New(rand.NewSource(int64(s.pixel[0])*2654435761 + int64(s.pixel[1])*40503 + 1))
	}
	return c
}
