// Package sampler implements the stateful sample-stream cursor of spec.md
// Component I: a deterministic Halton low-discrepancy sampler plus a
// simpler stratified sampler. Halton values are determined by (pixel,
// sample, dim) alone; stratified values are determined by the pixel and the
// order of draws since SetPixel.
package sampler

import "goray/pkg/geometry"

// Sampler is a stateful cursor producing samples in [0,1) for the current
// pixel/sample/dimension. HaltonSampler's value for a given (pixel,
// sampleIndex, dim) is determined by those three values alone;
// StratifiedSampler's values are determined by the pixel and the sequence
// of calls made since SetPixel. Neither depends on other pixels or
// goroutines.
type Sampler interface {
	SetPixel(p [2]int)
	NextSample()
	Get1D() float64
	Get2D() geometry.Vec2
	// Clone returns an independent deep copy with its own cursor state, for
	// handing one private instance to each render worker.
	Clone() Sampler
	SamplesPerPixel() int
}
