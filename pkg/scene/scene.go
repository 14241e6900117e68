// Package scene owns the fully-built scene graph the renderer traces
// against: the BVH over all primitives, the light list, and the lookup
// from a hit primitive back to its material or emitting light (spec.md
// §3's ownership model — "the Scene exclusively owns its BVH and light
// array").
package scene

import (
	"goray/pkg/accel"
	"goray/pkg/geometry"
	"goray/pkg/light"
	"goray/pkg/material"
)

// Scene is the immutable, fully-built graph traced during rendering. None
// of its fields mutate after scene build, so it is safe to share by
// pointer (read-only) across render worker goroutines.
type Scene struct {
	BVH    *accel.BVHAggregate
	Lights []light.Light

	// Materials and AreaLights are indexed by accel.Primitive's
	// MaterialID/LightID, resolving a BVH hit back to scene data.
	Materials  []material.Material
	AreaLights []*light.DiffuseAreaLight // indexed by LightID; nil entries never occur for LightID >= 0

	// InfiniteLights holds the subset of Lights that can return radiance
	// for a ray that escapes the scene without hitting anything
	// (environment maps), checked by the integrator on a miss.
	InfiniteLights []*light.InfiniteAreaLight
}

// MaterialFor resolves a BVH hit's primitive to its material.
func (s *Scene) MaterialFor(p *accel.Primitive) material.Material {
	if p.MaterialID < 0 || p.MaterialID >= len(s.Materials) {
		return nil
	}
	return s.Materials[p.MaterialID]
}

// AreaLightFor resolves a BVH hit's primitive to its emitting light, or
// nil if the primitive is not emissive.
func (s *Scene) AreaLightFor(p *accel.Primitive) *light.DiffuseAreaLight {
	if p.LightID < 0 || p.LightID >= len(s.AreaLights) {
		return nil
	}
	return s.AreaLights[p.LightID]
}

// Intersect finds the closest-hit primitive along r.
func (s *Scene) Intersect(r geometry.Ray) (accel.Hit, bool) {
	return s.BVH.Intersect(r)
}

// IntersectP satisfies light.Occluder, routing shadow-ray any-hit queries
// straight to the BVH.
func (s *Scene) IntersectP(r geometry.Ray) bool {
	return s.BVH.IntersectP(r)
}

// WorldBound returns the scene's bounding box, whose bounding sphere sets
// the world radius of infinite and distant lights.
func (s *Scene) WorldBound() geometry.Bounds3 {
	return s.BVH.WorldBound()
}
