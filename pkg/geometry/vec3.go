// Package geometry implements the fixed-dimension linear-algebra objects the
// rest of the renderer builds on: vectors, points, normals, rays, bounds and
// transforms.
package geometry

import (
	"fmt"
	"math"
)

// Vec3 is a 3-component vector over Float. Point3 and Normal3 are the same
// representation used in different roles; the distinction is in the methods
// a caller chooses to call (Normal3 is expected to stay unit length and is
// never translated by a Transform), not in the Go type system.
type Vec3 struct {
	X, Y, Z float64
}

// Point3 and Normal3 alias Vec3: PBRT-style renderers keep these distinct at
// the type level, but a single float64 triple with role-specific helper
// methods (Transform.Point vs Transform.Normal) carries the same invariants
// with far less code, matching how the teacher's core.Vec3 does triple duty
// as point, vector and color.
type Point3 = Vec3
type Normal3 = Vec3

// Vec2 is a 2-component vector, used for texture coordinates and 2D samples.
type Vec2 struct {
	X, Y float64
}

func NewVec3(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }
func NewVec2(x, y float64) Vec2    { return Vec2{X: x, Y: y} }

func (v Vec3) String() string { return fmt.Sprintf("{%.4g, %.4g, %.4g}", v.X, v.Y, v.Z) }

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Mul(s float64) Vec3   { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Div(s float64) Vec3   { return v.Mul(1 / s) }
func (v Vec3) Negate() Vec3         { return Vec3{-v.X, -v.Y, -v.Z} }
func (v Vec3) MulVec(o Vec3) Vec3   { return Vec3{v.X * o.X, v.Y * o.Y, v.Z * o.Z} }
func (v Vec3) Dot(o Vec3) float64   { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) AbsDot(o Vec3) float64 { return math.Abs(v.Dot(o)) }

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) LengthSquared() float64 { return v.Dot(v) }
func (v Vec3) Length() float64        { return math.Sqrt(v.LengthSquared()) }

func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Div(l)
}

// Abs returns the componentwise absolute value, used when building error bounds.
func (v Vec3) Abs() Vec3 { return Vec3{math.Abs(v.X), math.Abs(v.Y), math.Abs(v.Z)} }

func (v Vec3) MaxComponent() float64 { return math.Max(v.X, math.Max(v.Y, v.Z)) }

// MaxDimension returns the axis index (0,1,2) of the largest component by
// signed comparison; callers pass Abs() (or a non-negative vector such as a
// bounds diagonal) to compare magnitudes.
func (v Vec3) MaxDimension() int {
	switch {
	case v.X > v.Y && v.X > v.Z:
		return 0
	case v.Y > v.Z:
		return 1
	default:
		return 2
	}
}

func (v Vec3) Component(axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func (v Vec3) WithComponent(axis int, val float64) Vec3 {
	switch axis {
	case 0:
		v.X = val
	case 1:
		v.Y = val
	default:
		v.Z = val
	}
	return v
}

// Permute reorders components by the given axis indices, used by the
// triangle intersection routine to rotate the largest |d| component to z.
func (v Vec3) Permute(x, y, z int) Vec3 {
	return Vec3{v.Component(x), v.Component(y), v.Component(z)}
}

func (v Vec3) Clamp(lo, hi float64) Vec3 {
	return Vec3{
		math.Max(lo, math.Min(hi, v.X)),
		math.Max(lo, math.Min(hi, v.Y)),
		math.Max(lo, math.Min(hi, v.Z)),
	}
}

func (v Vec3) IsZero() bool { return v.X == 0 && v.Y == 0 && v.Z == 0 }

// HasNaN reports whether any component is NaN, used to discard degenerate samples.
func (v Vec3) HasNaN() bool {
	return math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsNaN(v.Z)
}

// FaceForward flips n so it lies in the same hemisphere as v.
func FaceForward(n, v Vec3) Vec3 {
	if n.Dot(v) < 0 {
		return n.Negate()
	}
	return n
}

// CoordinateSystem builds an orthonormal frame (s, t) given a unit vector n,
// using the Frisvad/Duff branchless construction so it is well conditioned
// even as n.Z approaches -1.
func CoordinateSystem(n Vec3) (s, t Vec3) {
	sign := math.Copysign(1, n.Z)
	a := -1 / (sign + n.Z)
	b := n.X * n.Y * a
	s = Vec3{1 + sign*n.X*n.X*a, sign * b, -sign * n.X}
	t = Vec3{b, sign + n.Y*n.Y*a, -n.Y}
	return s, t
}

func (v Vec2) Add(o Vec2) Vec2    { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2    { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Mul(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
