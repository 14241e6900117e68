package camera

import (
	"math"
	"testing"

	"goray/pkg/geometry"
)

func TestGenerateRayOriginatesAtEye(t *testing.T) {
	eye := geometry.Point3{X: 1, Y: 2, Z: 3}
	c2w := geometry.LookAt(eye, geometry.Point3{X: 1, Y: 2, Z: 10}, geometry.Vec3{X: 0, Y: 1, Z: 0})
	cam := NewPerspective(c2w, 60, 200, 100, 0, 0)

	r := cam.GenerateRay(geometry.Vec2{X: 100, Y: 50}, geometry.Vec2{})
	if d := r.Origin.Sub(eye).Length(); d > 1e-6 {
		t.Errorf("ray origin = %v, want eye %v (d=%v)", r.Origin, eye, d)
	}
}

func TestGenerateRayCenterPixelPointsForward(t *testing.T) {
	eye := geometry.Point3{X: 0, Y: 0, Z: 0}
	look := geometry.Point3{X: 0, Y: 0, Z: 1}
	c2w := geometry.LookAt(eye, look, geometry.Vec3{X: 0, Y: 1, Z: 0})
	cam := NewPerspective(c2w, 90, 100, 100, 0, 0)

	r := cam.GenerateRay(geometry.Vec2{X: 50, Y: 50}, geometry.Vec2{})
	want := look.Sub(eye).Normalize()
	if d := r.Direction.Sub(want).Length(); d > 0.05 {
		t.Errorf("center pixel ray direction %v too far from forward %v (d=%v)", r.Direction, want, d)
	}
}

func TestGenerateRayUnitLength(t *testing.T) {
	cam := NewPerspective(geometry.IdentityTransform(), 45, 64, 48, 0, 0)
	r := cam.GenerateRay(geometry.Vec2{X: 10, Y: 10}, geometry.Vec2{})
	if math.Abs(r.Direction.Length()-1) > 1e-9 {
		t.Errorf("ray direction should be normalized, got length %v", r.Direction.Length())
	}
}

func TestLensRadiusZeroIgnoresLensSample(t *testing.T) {
	cam := NewPerspective(geometry.IdentityTransform(), 60, 100, 100, 0, 10)
	a := cam.GenerateRay(geometry.Vec2{X: 30, Y: 40}, geometry.Vec2{X: 0.1, Y: 0.9})
	b := cam.GenerateRay(geometry.Vec2{X: 30, Y: 40}, geometry.Vec2{X: 0.9, Y: 0.1})
	if a.Origin != b.Origin || a.Direction.Sub(b.Direction).Length() > 1e-9 {
		t.Error("zero lens radius should make the lens sample irrelevant")
	}
}

func TestLensRadiusPositiveOffsetsOrigin(t *testing.T) {
	cam := NewPerspective(geometry.IdentityTransform(), 60, 100, 100, 0.5, 10)
	a := cam.GenerateRay(geometry.Vec2{X: 50, Y: 50}, geometry.Vec2{X: 0.2, Y: 0.7})
	b := cam.GenerateRay(geometry.Vec2{X: 50, Y: 50}, geometry.Vec2{X: 0.8, Y: 0.3})
	if a.Origin == b.Origin {
		t.Error("nonzero lens radius should vary ray origin across lens samples")
	}
}

func TestClipsOutRejectsBoundsBehindCamera(t *testing.T) {
	cam := NewPerspective(geometry.IdentityTransform(), 60, 100, 100, 0, 0)
	behind := geometry.NewBounds3(geometry.Point3{X: -1, Y: -1, Z: -20}, geometry.Point3{X: 1, Y: 1, Z: -10})
	if !cam.ClipsOut(behind) {
		t.Error("bounds entirely behind the camera should clip out")
	}
}

func TestClipsOutAcceptsVisibleBounds(t *testing.T) {
	cam := NewPerspective(geometry.IdentityTransform(), 90, 100, 100, 0, 0)
	visible := geometry.NewBounds3(geometry.Point3{X: -0.5, Y: -0.5, Z: 5}, geometry.Point3{X: 0.5, Y: 0.5, Z: 6})
	if cam.ClipsOut(visible) {
		t.Error("bounds in front of and within the camera's view should not clip out")
	}
}

func TestClipsOutRejectsBoundsOutsideFrustum(t *testing.T) {
	cam := NewPerspective(geometry.IdentityTransform(), 30, 100, 100, 0, 0)
	farOffAxis := geometry.NewBounds3(geometry.Point3{X: 500, Y: 500, Z: 5}, geometry.Point3{X: 501, Y: 501, Z: 6})
	if !cam.ClipsOut(farOffAxis) {
		t.Error("bounds far outside the narrow frustum should clip out")
	}
}
