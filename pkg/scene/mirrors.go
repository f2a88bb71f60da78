package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// NewMirrorsScene creates a hall of mirrors: two large facing mirror spheres
// with the camera between them. Rays bounce back and forth until the depth
// limit is reached, which makes the MaxDepth setting directly visible.
func NewMirrorsScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	defaultCameraConfig := geometry.CameraConfig{
		Center:      core.NewVec3(0.3, 0.4, 1.5),
		LookAt:      core.NewVec3(0, 0, -4),
		Up:          core.NewVec3(0, 1, 0),
		Width:       400,
		AspectRatio: 16.0 / 9.0,
		VFov:        60.0,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	s := NewScene("mirrors", cameraConfig,
		core.NewVec3(0.15, 0.15, 0.2),
		core.NewVec3(0, 6, 0),
	)
	s.SamplingConfig.SamplesPerPixel = 4
	s.SamplingConfig.MaxDepth = 8

	s.AddSphere("front mirror", core.NewVec3(0, 0, -6), 3, core.NewVec3(0.9, 0.9, 0.9), true)
	s.AddSphere("rear mirror", core.NewVec3(0, 0, 6), 3, core.NewVec3(0.9, 0.9, 0.9), true)
	s.AddSphere("orange", core.NewVec3(0.8, -0.5, -1.5), 0.5, core.NewVec3(1.0, 0.5, 0.1), false)
	s.AddSphere("teal", core.NewVec3(-0.9, -0.6, 0.5), 0.4, core.NewVec3(0.1, 0.7, 0.6), false)
	s.AddSphere("ground", core.NewVec3(0, -1001, 0), 1000, core.NewVec3(0.5, 0.5, 0.5), false)

	return s
}
