package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// cornellWallRadius is large enough that the visible cap of each wall sphere
// is indistinguishable from a plane at box scale
const cornellWallRadius = 1e5

// NewCornellScene creates a Cornell box whose five walls are very large
// spheres, containing a mirror sphere and a diffuse sphere. The front of
// the box is open and the background is black.
func NewCornellScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	defaultCameraConfig := geometry.CameraConfig{
		Center:      core.NewVec3(0, 5, 14), // Outside the open front of the box
		LookAt:      core.NewVec3(0, 5, 0),
		Up:          core.NewVec3(0, 1, 0),
		Width:       400,
		AspectRatio: 1.0, // Square aspect ratio for Cornell box
		VFov:        45.0,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	s := NewScene("cornell", cameraConfig,
		core.NewVec3(0, 0, 0),    // black background
		core.NewVec3(0, 9.5, -4), // light just below the ceiling
	)
	s.SamplingConfig.SamplesPerPixel = 8
	s.SamplingConfig.MaxDepth = 5

	white := core.NewVec3(0.73, 0.73, 0.73)
	red := core.NewVec3(0.65, 0.05, 0.05)
	green := core.NewVec3(0.12, 0.45, 0.15)

	// Box spans x in [-5,5], y in [0,10], z in [-10,0]. Each wall sphere
	// sits outside the box with its surface on the wall plane.
	R := cornellWallRadius
	s.AddSphere("left wall", core.NewVec3(-5-R, 5, -5), R, red, false)
	s.AddSphere("right wall", core.NewVec3(5+R, 5, -5), R, green, false)
	s.AddSphere("floor", core.NewVec3(0, -R, -5), R, white, false)
	s.AddSphere("ceiling", core.NewVec3(0, 10+R, -5), R, white, false)
	s.AddSphere("back wall", core.NewVec3(0, 5, -10-R), R, white, false)

	s.AddSphere("mirror sphere", core.NewVec3(-2, 2, -6), 2, core.NewVec3(1, 1, 1), true)
	s.AddSphere("diffuse sphere", core.NewVec3(2.5, 1.5, -3), 1.5, white, false)

	return s
}
