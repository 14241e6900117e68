package sampler

import (
	"math"
	"math/rand"

	"goray/pkg/geometry"
)

// firstPrimes lists enough primes to cover any realistic sample path depth
// (one prime base per dimension), per spec.md §4.10.
var firstPrimes = sievePrimes(256)

func sievePrimes(n int) []int {
	// Generates the first n primes via trial division; n is small (256),
	// so simplicity wins over an actual sieve of Eratosthenes.
	primes := make([]int, 0, n)
	candidate := 2
	for len(primes) < n {
		isPrime := true
		for _, p := range primes {
			if p*p > candidate {
				break
			}
			if candidate%p == 0 {
				isPrime = false
				break
			}
		}
		if isPrime {
			primes = append(primes, candidate)
		}
		candidate++
	}
	return primes
}

// HaltonSampler implements the scrambled-radical-inverse Halton sequence
// described in spec.md §4.10: one prime base per dimension, a per-pixel
// digit permutation and a per-pixel starting offset into the sequence
// decorrelating neighboring pixels, and a cursor of
// (pixel, sampleIndex, dim) that fully determines every value produced.
type HaltonSampler struct {
	spp  int
	pixel [2]int
	sampleIndex int
	dim         int

	// perms caches the digit permutation for each (base, pixel) pair
	// computed so far, keyed by dimension index; invalidated on SetPixel.
	perms map[int][]int
}

func NewHaltonSampler(samplesPerPixel int) *HaltonSampler {
	return &HaltonSampler{spp: samplesPerPixel, perms: make(map[int][]int)}
}

func (h *HaltonSampler) SamplesPerPixel() int { return h.spp }

func (h *HaltonSampler) SetPixel(p [2]int) {
	h.pixel = p
	h.sampleIndex = 0
	h.dim = 0
	h.perms = make(map[int][]int)
}

func (h *HaltonSampler) NextSample() {
	h.sampleIndex++
	h.dim = 0
}

// permutationFor returns (building and caching on first use) the digit
// permutation for dimension dim's prime base, seeded deterministically from
// the current pixel coordinates and dim. Small bases have few permutations
// (base 2 has two), so different pixels often share one; the same pixel
// always reproduces the same permutation (satisfying the determinism
// invariant).
func (h *HaltonSampler) permutationFor(dim int) []int {
	if p, ok := h.perms[dim]; ok {
		return p
	}
	base := firstPrimes[dim%len(firstPrimes)]
	seed := pixelSeed(h.pixel, dim)
	rng := rand.New(rand.NewSource(seed))
	perm := make([]int, base)
	for i := range perm {
		perm[i] = i
	}
	rng.Shuffle(base, func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })
	h.perms[dim] = perm
	return perm
}

func pixelSeed(pixel [2]int, dim int) int64 {
	x := int64(pixel[0])
	y := int64(pixel[1])
	d := int64(dim)
	// A simple deterministic mix; collisions across (pixel, dim) would only
	// degrade decorrelation quality, never determinism, since the seed is a
	// pure function of its inputs.
	h := x*2654435761 + y*40503 + d*2246822519 + 1
	return h
}

// scrambledRadicalInverse computes the radical inverse of index in the
// given base, applying perm to each base-b digit before accumulating it
// (a digit-permutation scramble, simpler than Owen scrambling but
// sufficient to decorrelate per-pixel subsequences as spec.md requires).
func scrambledRadicalInverse(base int, index uint64, perm []int) float64 {
	invBase := 1.0 / float64(base)
	reversed := uint64(0)
	invBaseN := 1.0
	result := 0.0
	for index > 0 {
		digit := index % uint64(base)
		index /= uint64(base)
		reversed = reversed*uint64(base) + uint64(perm[digit])
		invBaseN *= invBase
	}
	result = float64(reversed) * invBaseN
	if result >= 1 {
		result = math.Nextafter(1, 0)
	}
	return result
}

func (h *HaltonSampler) Get1D() float64 {
	perm := h.permutationFor(h.dim)
	base := firstPrimes[h.dim%len(firstPrimes)]
	// +1 keeps sample index 0 from degenerating to 0 in every dimension
	// (radical inverse of 0 is 0 regardless of scrambling). The per-pixel
	// offset starts each pixel at its own point of the sequence, so pixels
	// whose small-base permutations coincide still produce different values.
	offset := uint64(pixelSeed(h.pixel, 0)) % (1 << 16)
	v := scrambledRadicalInverse(base, uint64(h.sampleIndex)+1+offset, perm)
	h.dim++
	if v >= 1 {
		v = math.Nextafter(1, 0)
	}
	return v
}

func (h *HaltonSampler) Get2D() geometry.Vec2 {
	return geometry.Vec2{X: h.Get1D(), Y: h.Get1D()}
}

func (h *HaltonSampler) Clone() Sampler {
	c := &HaltonSampler{spp: h.spp, pixel: h.pixel, sampleIndex: h.sampleIndex, dim: h.dim, perms: make(map[int][]int, len(h.perms))}
	for k, v := range h.perms {
		c.perms[k] = append([]int(nil), v...)
	}
	return c
}
