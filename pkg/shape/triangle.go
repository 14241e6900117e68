package shape

import (
	"math"

	"goray/pkg/geometry"
	"goray/pkg/sampling"
)

// TriangleMesh owns the shared vertex/index/normal/uv buffers for a set of
// triangles; individual Triangle shapes index into it rather than copying
// per-vertex data, matching how the teacher's mesh loader keeps one buffer
// per OBJ/PLY file.
type TriangleMesh struct {
	ObjectToWorld geometry.Transform
	Indices       []int
	P             []geometry.Point3
	N             []geometry.Normal3 // optional, per-vertex shading normals
	UV            []geometry.Vec2    // optional
}

// NewTriangleMesh transforms the given object-space vertices into world
// space once at load time, matching spec.md §4.3.
func NewTriangleMesh(o2w geometry.Transform, indices []int, p []geometry.Point3, n []geometry.Normal3, uv []geometry.Vec2) *TriangleMesh {
	worldP := make([]geometry.Point3, len(p))
	for i, v := range p {
		worldP[i] = o2w.Point(v)
	}
	var worldN []geometry.Normal3
	if n != nil {
		worldN = make([]geometry.Normal3, len(n))
		for i, v := range n {
			worldN[i] = o2w.Normal(v).Normalize()
		}
	}
	return &TriangleMesh{ObjectToWorld: o2w, Indices: indices, P: worldP, N: worldN, UV: uv}
}

// Triangles returns one Triangle Shape per face of the mesh.
func (m *TriangleMesh) Triangles() []Shape {
	n := len(m.Indices) / 3
	out := make([]Shape, n)
	for i := 0; i < n; i++ {
		out[i] = &Triangle{Mesh: m, Index: i}
	}
	return out
}

// Triangle is a single face of a TriangleMesh, referencing shared vertex
// data by index rather than storing its own copy (spec.md §4.3).
type Triangle struct {
	Mesh  *TriangleMesh
	Index int
}

func (t *Triangle) vertexIndices() (int, int, int) {
	i := 3 * t.Index
	idx := t.Mesh.Indices
	return idx[i], idx[i+1], idx[i+2]
}

func (t *Triangle) positions() (p0, p1, p2 geometry.Point3) {
	i0, i1, i2 := t.vertexIndices()
	return t.Mesh.P[i0], t.Mesh.P[i1], t.Mesh.P[i2]
}

func (t *Triangle) WorldBound() geometry.Bounds3 {
	p0, p1, p2 := t.positions()
	return geometry.NewBounds3(p0, p1).UnionPoint(p2)
}

func (t *Triangle) geometricNormal() geometry.Normal3 {
	p0, p1, p2 := t.positions()
	return p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
}

func (t *Triangle) Area() float64 {
	p0, p1, p2 := t.positions()
	return 0.5 * p1.Sub(p0).Cross(p2.Sub(p0)).Length()
}

// Intersect implements the watertight ray-triangle test of
// spec.md §4.3: translate so the ray origin is at the origin, permute axes
// so |d.z| is the largest magnitude component, shear so the ray direction
// is +z, then test the sign of the three edge functions.
func (t *Triangle) Intersect(r geometry.Ray) (Hit, bool) {
	p0, p1, p2 := t.positions()

	p0t := p0.Sub(r.Origin)
	p1t := p1.Sub(r.Origin)
	p2t := p2.Sub(r.Origin)

	kz := r.Direction.Abs().MaxDimension()
	kx := kz + 1
	if kx == 3 {
		kx = 0
	}
	ky := kx + 1
	if ky == 3 {
		ky = 0
	}
	d := r.Direction.Permute(kx, ky, kz)
	p0t = p0t.Permute(kx, ky, kz)
	p1t = p1t.Permute(kx, ky, kz)
	p2t = p2t.Permute(kx, ky, kz)

	sx := -d.X / d.Z
	sy := -d.Y / d.Z
	sz := 1 / d.Z
	p0t.X += sx * p0t.Z
	p0t.Y += sy * p0t.Z
	p1t.X += sx * p1t.Z
	p1t.Y += sy * p1t.Z
	p2t.X += sx * p2t.Z
	p2t.Y += sy * p2t.Z

	e0 := p1t.X*p2t.Y - p1t.Y*p2t.X
	e1 := p2t.X*p0t.Y - p2t.Y*p0t.X
	e2 := p0t.X*p1t.Y - p0t.Y*p1t.X

	if (e0 < 0 || e1 < 0 || e2 < 0) && (e0 > 0 || e1 > 0 || e2 > 0) {
		return Hit{}, false
	}
	det := e0 + e1 + e2
	if det == 0 {
		return Hit{}, false
	}

	p0t.Z *= sz
	p1t.Z *= sz
	p2t.Z *= sz
	tScaled := e0*p0t.Z + e1*p1t.Z + e2*p2t.Z
	if det < 0 && (tScaled >= 0 || tScaled < r.TMax*det) {
		return Hit{}, false
	} else if det > 0 && (tScaled <= 0 || tScaled > r.TMax*det) {
		return Hit{}, false
	}

	invDet := 1 / det
	b0 := e0 * invDet
	b1 := e1 * invDet
	b2 := e2 * invDet
	tHit := tScaled * invDet

	maxZt := p0t.Z
	if math.Abs(p1t.Z) > math.Abs(maxZt) {
		maxZt = p1t.Z
	}
	if math.Abs(p2t.Z) > math.Abs(maxZt) {
		maxZt = p2t.Z
	}
	deltaZ := geometry.Gamma(3) * math.Abs(maxZt)

	maxXt := math.Max(math.Abs(p0t.X), math.Max(math.Abs(p1t.X), math.Abs(p2t.X)))
	maxYt := math.Max(math.Abs(p0t.Y), math.Max(math.Abs(p1t.Y), math.Abs(p2t.Y)))
	deltaX := geometry.Gamma(5) * (maxXt + maxZt)
	deltaY := geometry.Gamma(5) * (maxYt + maxZt)

	deltaE := 2 * (geometry.Gamma(2)*maxXt*maxYt + deltaY*maxXt + deltaX*maxYt)
	maxE := math.Max(math.Abs(e0), math.Max(math.Abs(e1), math.Abs(e2)))
	deltaT := 3 * (geometry.Gamma(3)*maxE*maxZt + deltaE*maxZt + deltaZ*maxE) * math.Abs(invDet)
	if tHit <= deltaT {
		return Hit{}, false
	}

	pHit := p0.Mul(b0).Add(p1.Mul(b1)).Add(p2.Mul(b2))
	xAbsSum := math.Abs(b0*p0.X) + math.Abs(b1*p1.X) + math.Abs(b2*p2.X)
	yAbsSum := math.Abs(b0*p0.Y) + math.Abs(b1*p1.Y) + math.Abs(b2*p2.Y)
	zAbsSum := math.Abs(b0*p0.Z) + math.Abs(b1*p1.Z) + math.Abs(b2*p2.Z)
	pError := geometry.Vec3{X: xAbsSum, Y: yAbsSum, Z: zAbsSum}.Mul(geometry.Gamma(7))

	n := t.geometricNormal()
	uv0, uv1, uv2 := t.uvs()
	uv := uv0.Mul(b0).Add(uv1.Mul(b1)).Add(uv2.Mul(b2))

	if t.Mesh.N != nil {
		i0, i1, i2 := t.vertexIndices()
		ns := t.Mesh.N[i0].Mul(b0).Add(t.Mesh.N[i1].Mul(b1)).Add(t.Mesh.N[i2].Mul(b2))
		if !ns.IsZero() {
			ns = ns.Normalize()
			n = geometry.FaceForward(n, ns)
		}
	}

	dpdu, dpdv := t.partialDerivatives(uv0, uv1, uv2, p0, p1, p2)

	return Hit{T: tHit, Intr: Interaction{
		P:      pHit,
		PError: pError,
		N:      n,
		Wo:     r.Origin.Sub(pHit).Normalize(),
		UV:     uv,
		DPDU:   dpdu,
		DPDV:   dpdv,
	}}, true
}

func (t *Triangle) partialDerivatives(uv0, uv1, uv2 geometry.Vec2, p0, p1, p2 geometry.Point3) (dpdu, dpdv geometry.Vec3) {
	duv02 := uv0.Sub(uv2)
	duv12 := uv1.Sub(uv2)
	dp02 := p0.Sub(p2)
	dp12 := p1.Sub(p2)
	determinant := duv02.X*duv12.Y - duv02.Y*duv12.X
	if determinant == 0 {
		_, ns := geometry.CoordinateSystem(t.geometricNormal())
		return ns, t.geometricNormal().Cross(ns)
	}
	invDet := 1 / determinant
	dpdu = dp02.Mul(duv12.Y).Sub(dp12.Mul(duv02.Y)).Mul(invDet)
	dpdv = dp12.Mul(duv02.X).Sub(dp02.Mul(duv12.X)).Mul(invDet)
	return dpdu, dpdv
}

func (t *Triangle) uvs() (uv0, uv1, uv2 geometry.Vec2) {
	if t.Mesh.UV == nil {
		return geometry.Vec2{X: 0, Y: 0}, geometry.Vec2{X: 1, Y: 0}, geometry.Vec2{X: 1, Y: 1}
	}
	i0, i1, i2 := t.vertexIndices()
	return t.Mesh.UV[i0], t.Mesh.UV[i1], t.Mesh.UV[i2]
}

func (t *Triangle) IntersectP(r geometry.Ray) bool {
	_, ok := t.Intersect(r)
	return ok
}

func (t *Triangle) Sample(u geometry.Vec2) (Interaction, float64) {
	b0, b1, b2 := sampling.UniformSampleTriangle(u)
	p0, p1, p2 := t.positions()
	p := p0.Mul(b0).Add(p1.Mul(b1)).Add(p2.Mul(b2))
	n := t.geometricNormal()

	xAbsSum := math.Abs(b0*p0.X) + math.Abs(b1*p1.X) + math.Abs(b2*p2.X)
	yAbsSum := math.Abs(b0*p0.Y) + math.Abs(b1*p1.Y) + math.Abs(b2*p2.Y)
	zAbsSum := math.Abs(b0*p0.Z) + math.Abs(b1*p1.Z) + math.Abs(b2*p2.Z)
	pError := geometry.Vec3{X: xAbsSum, Y: yAbsSum, Z: zAbsSum}.Mul(geometry.Gamma(6))

	return Interaction{P: p, N: n, PError: pError}, 1 / t.Area()
}

func (t *Triangle) SampleFromPoint(ref Interaction, u geometry.Vec2) (Interaction, float64) {
	return SampleFromPointDefault(t, ref, u)
}

func (t *Triangle) PDFFromPoint(ref Interaction, wi geometry.Vec3) float64 {
	return PDFFromPointDefault(t, ref, wi)
}
