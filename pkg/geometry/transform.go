package geometry

import "math"

// Mat4 is a 4x4 row-major matrix.
type Mat4 [4][4]float64

func Identity4() Mat4 {
	var m Mat4
	for i := 0; i < 4; i++ {
		m[i][i] = 1
	}
	return m
}

func (a Mat4) Mul(b Mat4) Mat4 {
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += a[i][k] * b[k][j]
			}
			r[i][j] = sum
		}
	}
	return r
}

func (a Mat4) Transpose() Mat4 {
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r[i][j] = a[j][i]
		}
	}
	return r
}

// Inverse computes the inverse via Gauss-Jordan elimination with partial
// pivoting. A singular matrix is not detected: a zero pivot is replaced by
// 1e-12 and no error is returned.
func (a Mat4) Inverse() Mat4 {
	m := a
	inv := Identity4()
	for col := 0; col < 4; col++ {
		pivot := col
		best := math.Abs(m[col][col])
		for r := col + 1; r < 4; r++ {
			if v := math.Abs(m[r][col]); v > best {
				best = v
				pivot = r
			}
		}
		m[col], m[pivot] = m[pivot], m[col]
		inv[col], inv[pivot] = inv[pivot], inv[col]

		d := m[col][col]
		if d == 0 {
			d = 1e-12
		}
		for j := 0; j < 4; j++ {
			m[col][j] /= d
			inv[col][j] /= d
		}
		for r := 0; r < 4; r++ {
			if r == col {
				continue
			}
			f := m[r][col]
			for j := 0; j < 4; j++ {
				m[r][j] -= f * m[col][j]
				inv[r][j] -= f * inv[col][j]
			}
		}
	}
	return inv
}

// Transform pairs a matrix with its precomputed inverse. Composition is
// associative and Inverse() swaps the pair, matching spec.md §3.
type Transform struct {
	M, MInv Mat4
}

func NewTransform(m Mat4) Transform { return Transform{M: m, MInv: m.Inverse()} }

func IdentityTransform() Transform { return Transform{M: Identity4(), MInv: Identity4()} }

func (t Transform) Inverse() Transform { return Transform{M: t.MInv, MInv: t.M} }

func (t Transform) Compose(o Transform) Transform {
	return Transform{M: t.M.Mul(o.M), MInv: o.MInv.Mul(t.MInv)}
}

func Translate(delta Vec3) Transform {
	m := Identity4()
	m[0][3], m[1][3], m[2][3] = delta.X, delta.Y, delta.Z
	inv := Identity4()
	inv[0][3], inv[1][3], inv[2][3] = -delta.X, -delta.Y, -delta.Z
	return Transform{M: m, MInv: inv}
}

func Scale(s Vec3) Transform {
	m := Identity4()
	m[0][0], m[1][1], m[2][2] = s.X, s.Y, s.Z
	inv := Identity4()
	inv[0][0], inv[1][1], inv[2][2] = 1/s.X, 1/s.Y, 1/s.Z
	return Transform{M: m, MInv: inv}
}

// RotateAxis builds a rotation of theta degrees about an arbitrary unit axis.
func RotateAxis(theta float64, axis Vec3) Transform {
	a := axis.Normalize()
	sinT, cosT := math.Sincos(theta * math.Pi / 180)
	var m Mat4
	m[0][0] = a.X*a.X + (1-a.X*a.X)*cosT
	m[0][1] = a.X*a.Y*(1-cosT) - a.Z*sinT
	m[0][2] = a.X*a.Z*(1-cosT) + a.Y*sinT
	m[1][0] = a.X*a.Y*(1-cosT) + a.Z*sinT
	m[1][1] = a.Y*a.Y + (1-a.Y*a.Y)*cosT
	m[1][2] = a.Y*a.Z*(1-cosT) - a.X*sinT
	m[2][0] = a.X*a.Z*(1-cosT) - a.Y*sinT
	m[2][1] = a.Y*a.Z*(1-cosT) + a.X*sinT
	m[2][2] = a.Z*a.Z + (1-a.Z*a.Z)*cosT
	m[3][3] = 1
	return Transform{M: m, MInv: m.Transpose()}
}

// LookAt builds a camera-to-world transform from an eye position, a look-at
// target, and an up vector.
func LookAt(eye, look, up Vec3) Transform {
	dir := look.Sub(eye).Normalize()
	right := up.Normalize().Cross(dir).Normalize()
	newUp := dir.Cross(right)

	var m Mat4
	m[0][0], m[1][0], m[2][0] = right.X, right.Y, right.Z
	m[0][1], m[1][1], m[2][1] = newUp.X, newUp.Y, newUp.Z
	m[0][2], m[1][2], m[2][2] = dir.X, dir.Y, dir.Z
	m[0][3], m[1][3], m[2][3] = eye.X, eye.Y, eye.Z
	m[3][3] = 1
	return Transform{M: m, MInv: m.Inverse()}
}

// Perspective builds a perspective projection with the given vertical field
// of view (degrees) and near/far clip planes, mapping the view frustum's
// x and y to the canonical [-1,1] screen range and z (near..far) to [0,1].
func Perspective(fov, near, far float64) Transform {
	persp := Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, far / (far - near), -far * near / (far - near)},
		{0, 0, 1, 0},
	}
	invTanAng := 1 / math.Tan(fov*math.Pi/360)
	scale := Scale(Vec3{invTanAng, invTanAng, 1})
	return scale.Compose(Transform{M: persp, MInv: persp.Inverse()})
}

// Point applies the transform to a point (includes translation).
func (t Transform) Point(p Point3) Point3 {
	m := t.M
	x := m[0][0]*p.X + m[0][1]*p.Y + m[0][2]*p.Z + m[0][3]
	y := m[1][0]*p.X + m[1][1]*p.Y + m[1][2]*p.Z + m[1][3]
	z := m[2][0]*p.X + m[2][1]*p.Y + m[2][2]*p.Z + m[2][3]
	w := m[3][0]*p.X + m[3][1]*p.Y + m[3][2]*p.Z + m[3][3]
	if w == 1 {
		return Vec3{x, y, z}
	}
	return Vec3{x / w, y / w, z / w}
}

// Vector applies the transform to a vector (translation-free).
func (t Transform) Vector(v Vec3) Vec3 {
	m := t.M
	return Vec3{
		m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Normal applies the transform to a normal using the inverse-transpose rule
// so that normals stay perpendicular to transformed surfaces under
// non-uniform scale.
func (t Transform) Normal(n Vec3) Vec3 {
	m := t.MInv
	return Vec3{
		m[0][0]*n.X + m[1][0]*n.Y + m[2][0]*n.Z,
		m[0][1]*n.X + m[1][1]*n.Y + m[2][1]*n.Z,
		m[0][2]*n.X + m[1][2]*n.Y + m[2][2]*n.Z,
	}
}

func (t Transform) Ray(r Ray) Ray {
	return Ray{Origin: t.Point(r.Origin), Direction: t.Vector(r.Direction), TMax: r.TMax}
}

// SwapsHandedness reports whether the transform's 3x3 linear part has
// negative determinant, which flips triangle winding and must be corrected
// by negating computed geometric normals.
func (t Transform) SwapsHandedness() bool {
	m := t.M
	det := m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
	return det < 0
}
