package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func testCameraConfig() CameraConfig {
	return CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		Width:       401,
		AspectRatio: 1.0,
		VFov:        90.0,
	}
}

func TestCamera_CenterRayLooksForward(t *testing.T) {
	camera := NewCamera(testCameraConfig())

	ray := camera.GetRay(200, 200, 0.5, 0.5)
	dir := ray.Direction.Normalize()
	expected := core.NewVec3(0, 0, -1)

	if dir.Subtract(expected).Length() > 1e-9 {
		t.Errorf("Expected center ray direction %v, got %v", expected, dir)
	}
	if ray.Origin != (core.Vec3{}) {
		t.Errorf("Expected ray origin at camera center, got %v", ray.Origin)
	}
}

func TestCamera_CornersSpanViewport(t *testing.T) {
	config := testCameraConfig()
	config.Width = 400
	camera := NewCamera(config)

	// With a 90° fov and focal distance 1, the viewport spans [-1,1] on both axes
	topLeft := camera.GetRay(0, 0, 0, 0).Direction
	if topLeft.Subtract(core.NewVec3(-1, 1, -1)).Length() > 1e-9 {
		t.Errorf("Expected top-left corner (-1,1,-1), got %v", topLeft)
	}

	bottomRight := camera.GetRay(399, 399, 1, 1).Direction
	if bottomRight.Subtract(core.NewVec3(1, -1, -1)).Length() > 1e-9 {
		t.Errorf("Expected bottom-right corner (1,-1,-1), got %v", bottomRight)
	}
}

func TestCamera_RowsIncreaseDownward(t *testing.T) {
	camera := NewCamera(testCameraConfig())

	upper := camera.GetRay(10, 10, 0.5, 0.5).Direction
	lower := camera.GetRay(10, 300, 0.5, 0.5).Direction
	if lower.Y >= upper.Y {
		t.Errorf("Expected higher row index to point lower: row 10 y=%f, row 300 y=%f", upper.Y, lower.Y)
	}

	left := camera.GetRay(10, 10, 0.5, 0.5).Direction
	right := camera.GetRay(300, 10, 0.5, 0.5).Direction
	if right.X <= left.X {
		t.Errorf("Expected higher column index to point right: col 10 x=%f, col 300 x=%f", left.X, right.X)
	}
}

func TestCamera_Height(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		aspect   float64
		expected int
	}{
		{"square", 400, 1.0, 400},
		{"16:9", 400, 16.0 / 9.0, 225},
		{"very wide clamps to one", 10, 100.0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := testCameraConfig()
			config.Width = tt.width
			config.AspectRatio = tt.aspect
			if got := config.Height(); got != tt.expected {
				t.Errorf("Expected height %d, got %d", tt.expected, got)
			}
			if got := NewCamera(config).Height(); got != tt.expected {
				t.Errorf("Expected camera height %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestCameraConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*CameraConfig)
		valid  bool
	}{
		{"valid", func(c *CameraConfig) {}, true},
		{"zero width", func(c *CameraConfig) { c.Width = 0 }, false},
		{"zero aspect", func(c *CameraConfig) { c.AspectRatio = 0 }, false},
		{"fov too wide", func(c *CameraConfig) { c.VFov = 180 }, false},
		{"look at center", func(c *CameraConfig) { c.LookAt = c.Center }, false},
		{"up parallel to view", func(c *CameraConfig) { c.Up = core.NewVec3(0, 0, 1) }, false},
		{"NaN aspect", func(c *CameraConfig) { c.AspectRatio = math.NaN() }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := testCameraConfig()
			tt.modify(&config)
			err := config.Validate()
			if tt.valid && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidCamera) {
				t.Errorf("Expected ErrInvalidCamera, got %v", err)
			}
		})
	}
}

func TestMergeCameraConfig(t *testing.T) {
	base := testCameraConfig()
	merged := MergeCameraConfig(base, CameraConfig{Width: 800, VFov: 40})

	if merged.Width != 800 || merged.VFov != 40 {
		t.Errorf("Expected overrides applied, got width=%d vfov=%f", merged.Width, merged.VFov)
	}
	if merged.Center != base.Center || merged.LookAt != base.LookAt || merged.AspectRatio != base.AspectRatio {
		t.Errorf("Expected unset fields to keep base values, got %+v", merged)
	}
}
