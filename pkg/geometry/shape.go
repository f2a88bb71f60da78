package geometry

import (
	"errors"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ErrDegenerateShape is returned when a shape cannot be intersected meaningfully
var ErrDegenerateShape = errors.New("degenerate shape")

// HitRecord contains information about a ray-object intersection.
// It is recomputed per query and never shared between queries.
type HitRecord struct {
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Unit surface normal, facing against the ray
	T         float64   // Parameter t along the ray
	U, V      float64   // Surface parameterization in [0,1]
	FrontFace bool      // Whether ray hit the front face
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// Shape interface for objects that can be hit by rays
type Shape interface {
	Hit(ray core.Ray, tMin, tMax float64) (*HitRecord, bool)
}

// Validator is implemented by shapes that can reject degenerate parameters
// before they are placed in a scene
type Validator interface {
	Validate() error
}
