// Package camera implements the perspective (and thin-lens) camera model
// of spec.md §4.11 (Component K... folded into the render pipeline): a
// raster-to-camera transform built from a perspective projection and a
// screen window, plus a clipper predicate used to cull primitives before
// BVH build.
package camera

import (
	"goray/pkg/geometry"
	"goray/pkg/sampling"
)

// Camera is the common interface consumed by the render loop.
type Camera interface {
	// GenerateRay maps a film-space sample point (pFilm, in raster pixel
	// coordinates with sub-pixel fraction) and a lens sample to a world
	// space ray.
	GenerateRay(pFilm, pLens geometry.Vec2) geometry.Ray
	// ClipsOut reports whether every corner of a world-space bound
	// projects outside the raster rectangle or behind the camera (z < 0
	// in camera space), per spec.md §4.11's clipper predicate.
	ClipsOut(b geometry.Bounds3) bool
}

// Perspective is a pinhole (or, with LensRadius > 0, thin-lens) camera.
type Perspective struct {
	CameraToWorld geometry.Transform
	RasterToCamera geometry.Transform
	WorldToCamera geometry.Transform

	LensRadius    float64
	FocalDistance float64

	ResX, ResY int
}

// NewPerspective builds the raster-to-camera transform described in
// spec.md §4.11: perspective(fov, near, far) composed with a screen window
// scaled to preserve aspect ratio, inverted once at construction.
func NewPerspective(c2w geometry.Transform, fovDegrees float64, resX, resY int, lensRadius, focalDistance float64) *Perspective {
	aspect := float64(resX) / float64(resY)
	var screenMin, screenMax geometry.Vec2
	if aspect > 1 {
		screenMin = geometry.Vec2{X: -aspect, Y: -1}
		screenMax = geometry.Vec2{X: aspect, Y: 1}
	} else {
		screenMin = geometry.Vec2{X: -1, Y: -1 / aspect}
		screenMax = geometry.Vec2{X: 1, Y: 1 / aspect}
	}

	screenToRaster := geometry.Scale(geometry.Vec3{X: float64(resX), Y: float64(resY), Z: 1}).
		Compose(geometry.Scale(geometry.Vec3{
			X: 1 / (screenMax.X - screenMin.X),
			Y: 1 / (screenMin.Y - screenMax.Y),
			Z: 1,
		})).
		Compose(geometry.Translate(geometry.Vec3{X: -screenMin.X, Y: -screenMax.Y, Z: 0}))

	persp := geometry.Perspective(fovDegrees, 1e-2, 1000)
	cameraToScreen := persp
	rasterToCamera := screenToRaster.Compose(cameraToScreen).Inverse()

	return &Perspective{
		CameraToWorld:  c2w,
		WorldToCamera:  c2w.Inverse(),
		RasterToCamera: rasterToCamera,
		LensRadius:     lensRadius,
		FocalDistance:  focalDistance,
		ResX:           resX,
		ResY:           resY,
	}
}

func (p *Perspective) GenerateRay(pFilm, pLens geometry.Vec2) geometry.Ray {
	pCamera := p.RasterToCamera.Point(geometry.Vec3{X: pFilm.X, Y: pFilm.Y, Z: 0})
	dir := pCamera.Normalize()
	r := geometry.NewRay(geometry.Vec3{}, dir)

	if p.LensRadius > 0 {
		ld := sampling.ConcentricSampleDisk(pLens).Mul(p.LensRadius)
		ft := p.FocalDistance / r.Direction.Z
		pFocus := r.At(ft)
		r.Origin = geometry.Vec3{X: ld.X, Y: ld.Y, Z: 0}
		r.Direction = pFocus.Sub(r.Origin).Normalize()
	}

	return p.CameraToWorld.Ray(r)
}

// ClipsOut implements spec.md §4.11's clipper predicate: true iff every
// corner of b projects outside the raster rectangle or lies behind the
// camera.
func (p *Perspective) ClipsOut(b geometry.Bounds3) bool {
	cameraToRaster := p.RasterToCamera.Inverse()
	for i := 0; i < 8; i++ {
		corner := b.Corner(i)
		cam := p.WorldToCamera.Point(corner)
		if cam.Z < 0 {
			continue
		}
		raster := cameraToRaster.Point(cam)
		if raster.X >= 0 && raster.X < float64(p.ResX) && raster.Y >= 0 && raster.Y < float64(p.ResY) {
			return false
		}
	}
	return true
}
