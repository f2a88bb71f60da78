package integrator

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// MinHitDistance is the smallest parametric distance accepted as a hit.
// Anything closer is treated as the ray re-hitting its own origin.
const MinHitDistance = 1e-4

// SceneHit is the nearest intersection of a ray with a scene
type SceneHit struct {
	Object *scene.Object
	Index  int // Position of Object in the scene
	Record *geometry.HitRecord
}

// TraceResult describes how a ray color was resolved
type TraceResult struct {
	Color   core.Vec3
	Bounces int       // Mirror bounces followed
	Hit     *SceneHit // Surface that was finally shaded, nil if the ray escaped
}

// nearestFunc matches NearestHit so tests can observe search calls
type nearestFunc func(ray core.Ray, s *scene.Scene, tMin, tMax float64) (*SceneHit, bool)

// WhittedIntegrator shades the nearest surface with a single shadowed point
// light and follows perfect mirror reflections up to a fixed depth
type WhittedIntegrator struct {
	config  scene.SamplingConfig
	nearest nearestFunc
}

// NewWhittedIntegrator creates a new integrator using MaxDepth and SurfaceBias from config
func NewWhittedIntegrator(config scene.SamplingConfig) *WhittedIntegrator {
	return &WhittedIntegrator{
		config:  config,
		nearest: NearestHit,
	}
}

// NearestHit scans every object in the scene and returns the one with the
// smallest hit distance in (tMin, tMax). Object order does not affect which
// distance wins; exact ties keep the earlier object.
func NearestHit(ray core.Ray, s *scene.Scene, tMin, tMax float64) (*SceneHit, bool) {
	var closest *SceneHit
	closestSoFar := tMax

	for i := range s.Objects {
		obj := &s.Objects[i]
		if hit, isHit := obj.Shape.Hit(ray, tMin, closestSoFar); isHit && hit.T > tMin && hit.T < closestSoFar {
			closestSoFar = hit.T
			closest = &SceneHit{Object: obj, Index: i, Record: hit}
		}
	}

	return closest, closest != nil
}

// Occluded reports whether any object lies between point and the light.
// point should already be offset away from its surface.
func (wi *WhittedIntegrator) Occluded(point core.Vec3, lightPos core.Vec3, s *scene.Scene) bool {
	toLight := lightPos.Subtract(point)
	distance := toLight.Length()
	direction, ok := toLight.NormalizeChecked()
	if !ok {
		// Point coincides with the light; nothing can be in between
		return false
	}

	shadowRay := core.NewRay(point, direction)
	// Hits exactly at the light's distance still count as occluding
	tMax := math.Nextafter(distance, math.Inf(1))
	for i := range s.Objects {
		if _, isHit := s.Objects[i].Shape.Hit(shadowRay, MinHitDistance, tMax); isHit {
			return true
		}
	}
	return false
}

// Shade computes direct Lambertian illumination from the scene's light at a hit.
// Shadowed points and points facing away from the light are black.
func (wi *WhittedIntegrator) Shade(hit *SceneHit, s *scene.Scene) core.Vec3 {
	black := core.Vec3{}

	normal, ok := hit.Record.Normal.NormalizeChecked()
	if !ok {
		return black
	}

	point := hit.Record.Point.Add(normal.Multiply(wi.config.SurfaceBias))
	lightDir, ok := s.Light.Position.Subtract(point).NormalizeChecked()
	if !ok {
		return black
	}

	cosTheta := max(0, lightDir.Dot(normal))
	if cosTheta == 0 {
		return black
	}

	if wi.Occluded(point, s.Light.Position, s) {
		return black
	}

	return hit.Object.Color.Multiply(cosTheta)
}

// RayColor returns the color seen along ray
func (wi *WhittedIntegrator) RayColor(ray core.Ray, s *scene.Scene) core.Vec3 {
	return wi.Trace(ray, s).Color
}

// Trace follows ray through mirror reflections. It stops at the first
// non-reflective surface, or shades the current mirror as diffuse once
// MaxDepth bounces have been taken. A ray that escapes all geometry takes
// the scene background color.
func (wi *WhittedIntegrator) Trace(ray core.Ray, s *scene.Scene) TraceResult {
	bounces := 0
	for depth := wi.config.MaxDepth; ; depth-- {
		hit, isHit := wi.nearest(ray, s, MinHitDistance, math.Inf(1))
		if !isHit {
			return TraceResult{Color: s.BackgroundColor(), Bounces: bounces}
		}

		if !hit.Object.Reflective || depth <= 0 {
			return TraceResult{Color: wi.Shade(hit, s), Bounces: bounces, Hit: hit}
		}

		reflected, ok := wi.reflect(ray, hit.Record)
		if !ok {
			return TraceResult{Color: wi.Shade(hit, s), Bounces: bounces, Hit: hit}
		}
		ray = reflected
		bounces++
	}
}

// reflect builds the mirror ray leaving a hit, starting just off the surface
func (wi *WhittedIntegrator) reflect(ray core.Ray, record *geometry.HitRecord) (core.Ray, bool) {
	direction, ok := ray.Direction.NormalizeChecked()
	if !ok {
		return core.Ray{}, false
	}
	normal, ok := record.Normal.NormalizeChecked()
	if !ok {
		return core.Ray{}, false
	}

	origin := record.Point.Add(normal.Multiply(wi.config.SurfaceBias))
	return core.NewRay(origin, direction.Reflect(normal)), true
}

var _ Integrator = (*WhittedIntegrator)(nil)
