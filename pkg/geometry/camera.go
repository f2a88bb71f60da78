package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ErrInvalidCamera is returned for camera configurations that cannot produce rays
var ErrInvalidCamera = errors.New("invalid camera")

// CameraConfig contains all camera configuration parameters
type CameraConfig struct {
	Center      core.Vec3 // Camera position
	LookAt      core.Vec3 // Point the camera is looking at
	Up          core.Vec3 // Up direction
	Width       int       // Image width in pixels
	AspectRatio float64   // Width / height
	VFov        float64   // Vertical field of view in degrees
}

// Validate checks that the configuration describes a usable camera
func (c CameraConfig) Validate() error {
	if c.Width <= 0 {
		return fmt.Errorf("%w: width must be positive, got %d", ErrInvalidCamera, c.Width)
	}
	if c.AspectRatio <= 0 || math.IsInf(c.AspectRatio, 0) || math.IsNaN(c.AspectRatio) {
		return fmt.Errorf("%w: aspect ratio must be positive, got %v", ErrInvalidCamera, c.AspectRatio)
	}
	if c.VFov <= 0 || c.VFov >= 180 {
		return fmt.Errorf("%w: vertical fov must be in (0,180), got %v", ErrInvalidCamera, c.VFov)
	}
	forward, ok := c.LookAt.Subtract(c.Center).NormalizeChecked()
	if !ok {
		return fmt.Errorf("%w: look-at point coincides with camera center", ErrInvalidCamera)
	}
	if _, ok := c.Up.Cross(forward).NormalizeChecked(); !ok {
		return fmt.Errorf("%w: up vector is zero or parallel to view direction", ErrInvalidCamera)
	}
	return nil
}

// Height returns the image height implied by width and aspect ratio (at least 1)
func (c CameraConfig) Height() int {
	return max(1, int(float64(c.Width)/c.AspectRatio))
}

// MergeCameraConfig returns base with every non-zero field of override applied
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base
	if override.Center != (core.Vec3{}) {
		result.Center = override.Center
	}
	if override.LookAt != (core.Vec3{}) {
		result.LookAt = override.LookAt
	}
	if override.Up != (core.Vec3{}) {
		result.Up = override.Up
	}
	if override.Width != 0 {
		result.Width = override.Width
	}
	if override.AspectRatio != 0 {
		result.AspectRatio = override.AspectRatio
	}
	if override.VFov != 0 {
		result.VFov = override.VFov
	}
	return result
}

// Camera maps pixel coordinates to primary rays through a viewport one
// unit in front of the camera center
type Camera struct {
	config      CameraConfig
	origin      core.Vec3
	upperLeft   core.Vec3 // Top-left corner of the viewport
	pixelDeltaU core.Vec3 // One pixel to the right
	pixelDeltaV core.Vec3 // One pixel down
	height      int
}

// NewCamera creates a camera from the given configuration.
// The configuration is expected to have passed Validate.
func NewCamera(config CameraConfig) *Camera {
	height := config.Height()

	theta := config.VFov * math.Pi / 180.0
	viewportHeight := 2.0 * math.Tan(theta/2)
	viewportWidth := viewportHeight * float64(config.Width) / float64(height)

	// Orthonormal camera basis
	w := config.Center.Subtract(config.LookAt).Normalize()
	u := config.Up.Cross(w).Normalize()
	v := w.Cross(u)

	viewportU := u.Multiply(viewportWidth)
	viewportV := v.Multiply(-viewportHeight)

	upperLeft := config.Center.
		Subtract(w).
		Subtract(viewportU.Multiply(0.5)).
		Subtract(viewportV.Multiply(0.5))

	return &Camera{
		config:      config,
		origin:      config.Center,
		upperLeft:   upperLeft,
		pixelDeltaU: viewportU.Multiply(1.0 / float64(config.Width)),
		pixelDeltaV: viewportV.Multiply(1.0 / float64(height)),
		height:      height,
	}
}

// GetRay returns the primary ray through pixel (x, y) at sub-pixel offset
// (dx, dy) in [0,1)². Pixel (0,0) is the top-left corner of the image and
// (0.5, 0.5) is the pixel center.
func (c *Camera) GetRay(x, y int, dx, dy float64) core.Ray {
	pixel := c.upperLeft.
		Add(c.pixelDeltaU.Multiply(float64(x) + dx)).
		Add(c.pixelDeltaV.Multiply(float64(y) + dy))

	return core.NewRay(c.origin, pixel.Subtract(c.origin))
}

// Width returns the image width in pixels
func (c *Camera) Width() int { return c.config.Width }

// Height returns the image height in pixels
func (c *Camera) Height() int { return c.height }

// Config returns the configuration the camera was built from
func (c *Camera) Config() CameraConfig { return c.config }
