package shape

import (
	"math"

	"goray/pkg/geometry"
	"goray/pkg/sampling"
)

// Disc is a flat circular disc lying in the object-space z=Height plane,
// centered on the z axis, with InnerRadius=0 for a full disc. It is not part
// of the distilled spec but is implemented as a supplemented shape since
// original_source/ scenes reference it for area lights and ground planes.
type Disc struct {
	ObjectToWorld, WorldToObject geometry.Transform
	Height                       float64
	Radius, InnerRadius          float64
	ReverseOrientation           bool
}

func NewDisc(o2w geometry.Transform, height, radius, innerRadius float64, reverseOrientation bool) *Disc {
	return &Disc{
		ObjectToWorld:      o2w,
		WorldToObject:      o2w.Inverse(),
		Height:             height,
		Radius:             radius,
		InnerRadius:        innerRadius,
		ReverseOrientation: reverseOrientation,
	}
}

func (d *Disc) WorldBound() geometry.Bounds3 {
	r := d.Radius
	ob := geometry.NewBounds3(
		geometry.Vec3{X: -r, Y: -r, Z: d.Height},
		geometry.Vec3{X: r, Y: r, Z: d.Height},
	)
	return d.ObjectToWorld.Bounds(ob)
}

func (d *Disc) Area() float64 {
	return math.Pi * (d.Radius*d.Radius - d.InnerRadius*d.InnerRadius)
}

func (d *Disc) Intersect(r geometry.Ray) (Hit, bool) {
	ray := d.WorldToObject.Ray(r)
	if ray.Direction.Z == 0 {
		return Hit{}, false
	}
	tShapeHit := (d.Height - ray.Origin.Z) / ray.Direction.Z
	if tShapeHit <= 0 || tShapeHit >= ray.TMax {
		return Hit{}, false
	}
	pHit := ray.At(tShapeHit)
	dist2 := pHit.X*pHit.X + pHit.Y*pHit.Y
	if dist2 > d.Radius*d.Radius || dist2 < d.InnerRadius*d.InnerRadius {
		return Hit{}, false
	}

	phi := math.Atan2(pHit.Y, pHit.X)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	rHit := math.Sqrt(dist2)
	u := phi / (2 * math.Pi)
	v := (d.Radius - rHit) / (d.Radius - d.InnerRadius)

	dpdu := geometry.Vec3{X: -2 * math.Pi * pHit.Y, Y: 2 * math.Pi * pHit.X}
	dpdv := geometry.Vec3{X: pHit.X, Y: pHit.Y}.Mul((d.InnerRadius - d.Radius) / rHit)

	n := geometry.Vec3{Z: 1}
	nWorld := d.ObjectToWorld.Normal(n).Normalize()
	if d.ReverseOrientation {
		nWorld = nWorld.Negate()
	}

	pError := geometry.Vec3{}
	pWorld := d.ObjectToWorld.Point(pHit)

	return Hit{T: tShapeHit, Intr: Interaction{
		P:      pWorld,
		PError: pError,
		N:      nWorld,
		Wo:     r.Origin.Sub(pWorld).Normalize(),
		UV:     geometry.Vec2{X: u, Y: v},
		DPDU:   d.ObjectToWorld.Vector(dpdu),
		DPDV:   d.ObjectToWorld.Vector(dpdv),
	}}, true
}

func (d *Disc) IntersectP(r geometry.Ray) bool {
	_, ok := d.Intersect(r)
	return ok
}

func (d *Disc) Sample(u geometry.Vec2) (Interaction, float64) {
	pd := sampling.ConcentricSampleDisk(u)
	scale := d.Radius
	if d.InnerRadius > 0 {
		// Remap the unit-disc radius so points are uniform over the annulus.
		if r2 := pd.X*pd.X + pd.Y*pd.Y; r2 > 0 {
			ri2 := d.InnerRadius * d.InnerRadius
			scale = math.Sqrt(ri2+r2*(d.Radius*d.Radius-ri2)) / math.Sqrt(r2)
		}
	}
	pObj := geometry.Vec3{X: pd.X * scale, Y: pd.Y * scale, Z: d.Height}
	n := d.ObjectToWorld.Normal(geometry.Vec3{Z: 1}).Normalize()
	if d.ReverseOrientation {
		n = n.Negate()
	}
	p := d.ObjectToWorld.Point(pObj)
	return Interaction{P: p, N: n}, 1 / d.Area()
}

func (d *Disc) SampleFromPoint(ref Interaction, u geometry.Vec2) (Interaction, float64) {
	return SampleFromPointDefault(d, ref, u)
}

func (d *Disc) PDFFromPoint(ref Interaction, wi geometry.Vec3) float64 {
	return PDFFromPointDefault(d, ref, wi)
}
