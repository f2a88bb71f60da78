package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// NewDefaultScene creates the default scene: a red sphere in front of the
// camera flanked by a mirror sphere and a blue sphere, resting on a ground sphere
func NewDefaultScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	defaultCameraConfig := geometry.CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		Width:       400,
		AspectRatio: 16.0 / 9.0,
		VFov:        90.0, // Viewport two units high at focal distance one
	}

	// Apply any overrides using the reusable merge function
	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	s := NewScene("default", cameraConfig,
		core.NewVec3(0.5, 0.7, 1.0), // sky blue background
		core.NewVec3(-2, 4, 1),      // light above and behind the camera
	)
	s.SamplingConfig.SamplesPerPixel = 4
	s.SamplingConfig.MaxDepth = 3

	s.AddSphere("red", core.NewVec3(0, 0, -1), 0.5, core.NewVec3(1, 0, 0), false)
	s.AddSphere("mirror", core.NewVec3(1.05, 0, -1.2), 0.5, core.NewVec3(0.9, 0.9, 0.9), true)
	s.AddSphere("blue", core.NewVec3(-1.05, 0, -1.2), 0.5, core.NewVec3(0.1, 0.2, 0.8), false)
	s.AddSphere("ground", core.NewVec3(0, -100.5, -1), 100, core.NewVec3(0.6, 0.6, 0.4), false)

	return s
}
