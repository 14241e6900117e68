package shape

import (
	"math"

	"goray/pkg/geometry"
	"goray/pkg/sampling"
)

// Sphere is a full sphere of the given radius centered at the origin of
// ObjectToWorld (partial spheres via zMin/zMax/phiMax are not needed by the
// scenes this renderer targets, so only the full-sphere case is implemented).
type Sphere struct {
	ObjectToWorld, WorldToObject geometry.Transform
	Radius                       float64
	ReverseOrientation           bool
}

func NewSphere(o2w geometry.Transform, radius float64, reverseOrientation bool) *Sphere {
	return &Sphere{
		ObjectToWorld:      o2w,
		WorldToObject:      o2w.Inverse(),
		Radius:             radius,
		ReverseOrientation: reverseOrientation,
	}
}

func (s *Sphere) objectBound() geometry.Bounds3 {
	r := s.Radius
	return geometry.NewBounds3(geometry.Vec3{X: -r, Y: -r, Z: -r}, geometry.Vec3{X: r, Y: r, Z: r})
}

func (s *Sphere) WorldBound() geometry.Bounds3 {
	return s.ObjectToWorld.Bounds(s.objectBound())
}

func (s *Sphere) Area() float64 { return 4 * math.Pi * s.Radius * s.Radius }

// solveQuadratic finds the two real roots of a t^2 + b t + c = 0 using the
// numerically stable form that avoids catastrophic cancellation.
func solveQuadratic(a, b, c float64) (t0, t1 float64, ok bool) {
	discrim := b*b - 4*a*c
	if discrim < 0 {
		return 0, 0, false
	}
	rootDiscrim := math.Sqrt(discrim)
	var q float64
	if b < 0 {
		q = -0.5 * (b - rootDiscrim)
	} else {
		q = -0.5 * (b + rootDiscrim)
	}
	t0, t1 = q/a, c/q
	if t0 > t1 {
		t0, t1 = t1, t0
	}
	return t0, t1, true
}

func (s *Sphere) basicIntersect(r geometry.Ray) (tHit float64, pHit geometry.Point3, pError geometry.Vec3, ok bool) {
	ray := s.WorldToObject.Ray(r)

	ox, oy, oz := ray.Origin.X, ray.Origin.Y, ray.Origin.Z
	dx, dy, dz := ray.Direction.X, ray.Direction.Y, ray.Direction.Z
	a := dx*dx + dy*dy + dz*dz
	b := 2 * (dx*ox + dy*oy + dz*oz)
	c := ox*ox + oy*oy + oz*oz - s.Radius*s.Radius

	t0, t1, found := solveQuadratic(a, b, c)
	if !found {
		return 0, geometry.Vec3{}, geometry.Vec3{}, false
	}
	if t0 > ray.TMax || t1 <= 0 {
		return 0, geometry.Vec3{}, geometry.Vec3{}, false
	}
	tShapeHit := t0
	if tShapeHit <= 0 {
		tShapeHit = t1
		if tShapeHit > ray.TMax {
			return 0, geometry.Vec3{}, geometry.Vec3{}, false
		}
	}

	pObj := ray.At(tShapeHit)
	pObj = pObj.Mul(s.Radius / pObj.Length())
	if pObj.X == 0 && pObj.Y == 0 {
		pObj.X = 1e-5 * s.Radius
	}

	errBound := geometry.Gamma(5) * pObj.Abs().MaxComponent()
	pErr := pObj.Abs().Mul(errBound)

	pHitWorld := s.ObjectToWorld.Point(pObj)
	return tShapeHit, pHitWorld, pErr, true
}

func (s *Sphere) fillInteraction(r geometry.Ray, tHit float64, pObjWorld geometry.Point3, pError geometry.Vec3) Interaction {
	pObj := s.WorldToObject.Point(pObjWorld)
	n := s.ObjectToWorld.Normal(pObj).Normalize()
	if s.ReverseOrientation {
		n = n.Negate()
	}

	phi := math.Atan2(pObj.Y, pObj.X)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	theta := math.Acos(clampF(pObj.Z/s.Radius, -1, 1))
	u := phi / (2 * math.Pi)
	v := theta / math.Pi

	zRadius := math.Sqrt(pObj.X*pObj.X + pObj.Y*pObj.Y)
	var dpdu geometry.Vec3
	if zRadius == 0 {
		dpdu = geometry.Vec3{X: 1}
	} else {
		dpdu = geometry.Vec3{X: -2 * math.Pi * pObj.Y, Y: 2 * math.Pi * pObj.X}
	}
	dpdv := geometry.Vec3{X: pObj.Z * math.Cos(phi), Y: pObj.Z * math.Sin(phi), Z: -s.Radius * math.Sin(theta)}.Mul(math.Pi)
	dpduWorld := s.ObjectToWorld.Vector(dpdu)
	dpdvWorld := s.ObjectToWorld.Vector(dpdv)

	return Interaction{
		P:      pObjWorld,
		PError: pError,
		N:      n,
		Wo:     r.Origin.Sub(pObjWorld).Normalize(),
		UV:     geometry.Vec2{X: u, Y: v},
		DPDU:   dpduWorld,
		DPDV:   dpdvWorld,
	}
}

func clampF(v, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, v)) }

func (s *Sphere) Intersect(r geometry.Ray) (Hit, bool) {
	tHit, pHit, pErr, ok := s.basicIntersect(r)
	if !ok {
		return Hit{}, false
	}
	intr := s.fillInteraction(r, tHit, pHit, pErr)
	return Hit{T: tHit, Intr: intr}, true
}

func (s *Sphere) IntersectP(r geometry.Ray) bool {
	_, _, _, ok := s.basicIntersect(r)
	return ok
}

// Sample draws a point uniformly over the full sphere surface (spec.md §9:
// unconditional sampling is uniform-over-sphere, not hemisphere-restricted).
func (s *Sphere) Sample(u geometry.Vec2) (Interaction, float64) {
	pObj := sampling.UniformSampleSphere(u).Mul(s.Radius)
	n := s.ObjectToWorld.Normal(pObj).Normalize()
	if s.ReverseOrientation {
		n = n.Negate()
	}
	p := s.ObjectToWorld.Point(pObj)
	pErrWorld := p.Abs().Mul(geometry.Gamma(5))
	return Interaction{P: p, N: n, PError: pErrWorld}, 1 / s.Area()
}

// SampleFromPoint uses the closed-form cone-sampling strategy: when the
// reference point lies outside the sphere, sample a direction within the
// cone subtended by the sphere instead of sampling the whole surface, which
// greatly reduces variance for small, distant spheres.
func (s *Sphere) SampleFromPoint(ref Interaction, u geometry.Vec2) (Interaction, float64) {
	worldCenter := s.ObjectToWorld.Point(geometry.Vec3{})
	distSq := worldCenter.Sub(ref.P).LengthSquared()
	if distSq <= s.Radius*s.Radius {
		return SampleFromPointDefault(s, ref, u)
	}

	dc := math.Sqrt(distSq)
	invDc := 1 / dc
	wc := worldCenter.Sub(ref.P).Mul(invDc)
	wcX, wcY := geometry.CoordinateSystem(wc)

	sinThetaMax := s.Radius * invDc
	sinThetaMax2 := sinThetaMax * sinThetaMax
	cosThetaMax := math.Sqrt(math.Max(0, 1-sinThetaMax2))

	cosTheta := (cosThetaMax-1)*u.X + 1
	sinTheta2 := 1 - cosTheta*cosTheta
	if sinThetaMax2 < 0.00068523 {
		sinTheta2 = sinThetaMax2 * u.X
		cosTheta = math.Sqrt(1 - sinTheta2)
	}

	cosAlpha := sinTheta2/sinThetaMax + cosTheta*math.Sqrt(math.Max(0, 1-sinTheta2*dc*dc/(s.Radius*s.Radius)))
	sinAlpha := math.Sqrt(math.Max(0, 1-cosAlpha*cosAlpha))
	phi := u.Y * 2 * math.Pi

	nWorld := wc.Negate().Mul(cosAlpha).
		Add(wcX.Mul(sinAlpha * math.Cos(phi))).
		Add(wcY.Mul(sinAlpha * math.Sin(phi)))
	pWorld := worldCenter.Add(nWorld.Mul(s.Radius))

	n := nWorld.Normalize()
	if s.ReverseOrientation {
		n = n.Negate()
	}
	pErr := pWorld.Abs().Mul(geometry.Gamma(5))

	pdf := sampling.UniformConePDF(cosThetaMax)
	return Interaction{P: pWorld, N: n, PError: pErr}, pdf
}

func (s *Sphere) PDFFromPoint(ref Interaction, wi geometry.Vec3) float64 {
	worldCenter := s.ObjectToWorld.Point(geometry.Vec3{})
	distSq := worldCenter.Sub(ref.P).LengthSquared()
	if distSq <= s.Radius*s.Radius {
		return PDFFromPointDefault(s, ref, wi)
	}
	sinThetaMax2 := s.Radius * s.Radius / distSq
	cosThetaMax := math.Sqrt(math.Max(0, 1-sinThetaMax2))
	return sampling.UniformConePDF(cosThetaMax)
}
