package texture

import (
	"math"

	"goray/pkg/geometry"
)

// Checkerboard alternates between two sub-textures based on the parity of
// floor(u*UScale) + floor(v*VScale). Because it only ever selects one of
// its two inputs rather than combining them arithmetically, it works for
// any T without requiring arithmetic type constraints.
type Checkerboard[T any] struct {
	Even, Odd      Texture[T]
	UScale, VScale float64
}

func NewCheckerboard[T any](even, odd Texture[T], uScale, vScale float64) Checkerboard[T] {
	if uScale == 0 {
		uScale = 1
	}
	if vScale == 0 {
		vScale = 1
	}
	return Checkerboard[T]{Even: even, Odd: odd, UScale: uScale, VScale: vScale}
}

func (c Checkerboard[T]) Evaluate(uv geometry.Vec2, p geometry.Point3) T {
	iu := int(math.Floor(uv.X * c.UScale))
	iv := int(math.Floor(uv.Y * c.VScale))
	if (iu+iv)%2 == 0 {
		return c.Even.Evaluate(uv, p)
	}
	return c.Odd.Evaluate(uv, p)
}
