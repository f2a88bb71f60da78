package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

var (
	// ErrEmptyScene is returned when a scene has no objects to intersect
	ErrEmptyScene = errors.New("scene has no objects")
	// ErrNoBackground is returned when no background color was configured
	ErrNoBackground = errors.New("scene has no background color")
	// ErrNoCamera is returned when a scene has no camera
	ErrNoCamera = errors.New("scene has no camera")
	// ErrInvalidSampling is returned for unusable sampling parameters
	ErrInvalidSampling = errors.New("invalid sampling config")
	// ErrInvalidColor is returned when an object color is NaN or infinite
	ErrInvalidColor = errors.New("invalid object color")
)

// DefaultSurfaceBias is the default offset applied along the surface normal
// before casting shadow and reflection rays, so that a secondary ray does not
// re-intersect the surface it starts on due to floating-point error.
const DefaultSurfaceBias = 0.01

// Object pairs a shape with its surface appearance
type Object struct {
	Name       string
	Shape      geometry.Shape
	Color      core.Vec3
	Reflective bool
}

// PointLight is a white, full-intensity light with no geometry
type PointLight struct {
	Position core.Vec3
}

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width           int     // Image width
	Height          int     // Image height
	SamplesPerPixel int     // Number of rays per pixel (1 = single center ray)
	MaxDepth        int     // Maximum number of mirror bounces
	SurfaceBias     float64 // Normal offset for secondary ray origins
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 1,
		MaxDepth:        3,
		SurfaceBias:     DefaultSurfaceBias,
	}
}

// Validate checks the sampling parameters
func (c SamplingConfig) Validate() error {
	if c.SamplesPerPixel < 1 {
		return fmt.Errorf("%w: samples per pixel must be at least 1, got %d", ErrInvalidSampling, c.SamplesPerPixel)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("%w: max depth must not be negative, got %d", ErrInvalidSampling, c.MaxDepth)
	}
	if c.SurfaceBias < 0 || math.IsNaN(c.SurfaceBias) || math.IsInf(c.SurfaceBias, 0) {
		return fmt.Errorf("%w: surface bias must be a non-negative number, got %v", ErrInvalidSampling, c.SurfaceBias)
	}
	return nil
}

// Scene contains all the elements needed for rendering.
// A scene must not be modified while a render is in progress.
type Scene struct {
	Name           string
	Camera         *geometry.Camera
	CameraConfig   geometry.CameraConfig
	Objects        []Object
	Light          PointLight
	Background     *core.Vec3 // Color for rays that escape all geometry; required
	SamplingConfig SamplingConfig
}

// NewScene creates an empty scene with the given camera and background
func NewScene(name string, cameraConfig geometry.CameraConfig, background core.Vec3, light core.Vec3) *Scene {
	samplingConfig := DefaultSamplingConfig()
	samplingConfig.Width = cameraConfig.Width
	samplingConfig.Height = cameraConfig.Height()

	return &Scene{
		Name:           name,
		Camera:         geometry.NewCamera(cameraConfig),
		CameraConfig:   cameraConfig,
		Objects:        make([]Object, 0),
		Light:          PointLight{Position: light},
		Background:     &background,
		SamplingConfig: samplingConfig,
	}
}

// AddSphere appends a sphere object to the scene
func (s *Scene) AddSphere(name string, center core.Vec3, radius float64, color core.Vec3, reflective bool) {
	s.Objects = append(s.Objects, Object{
		Name:       name,
		Shape:      geometry.NewSphere(center, radius),
		Color:      color,
		Reflective: reflective,
	})
}

// SetCameraConfig replaces the camera and keeps the image size in sync
func (s *Scene) SetCameraConfig(config geometry.CameraConfig) {
	s.CameraConfig = config
	s.Camera = geometry.NewCamera(config)
	s.SamplingConfig.Width = config.Width
	s.SamplingConfig.Height = config.Height()
}

// BackgroundColor returns the configured background, or black if unset.
// Validate rejects scenes without a background before rendering.
func (s *Scene) BackgroundColor() core.Vec3 {
	if s.Background == nil {
		return core.Vec3{}
	}
	return *s.Background
}

// Validate checks the scene before rendering so that configuration
// mistakes fail fast instead of rendering undefined colors
func (s *Scene) Validate() error {
	if len(s.Objects) == 0 {
		return ErrEmptyScene
	}
	if s.Background == nil {
		return ErrNoBackground
	}
	if !s.Background.IsFinite() {
		return fmt.Errorf("%w: background %v is not finite", ErrNoBackground, *s.Background)
	}
	if s.Camera == nil {
		return ErrNoCamera
	}
	if err := s.CameraConfig.Validate(); err != nil {
		return err
	}
	if !s.Light.Position.IsFinite() {
		return fmt.Errorf("light position %v is not finite", s.Light.Position)
	}
	if err := s.SamplingConfig.Validate(); err != nil {
		return err
	}

	for i, obj := range s.Objects {
		if obj.Shape == nil {
			return fmt.Errorf("object %d (%s): %w: no shape", i, obj.Name, geometry.ErrDegenerateShape)
		}
		if !obj.Color.IsFinite() {
			return fmt.Errorf("object %d (%s): %w: %v is not finite", i, obj.Name, ErrInvalidColor, obj.Color)
		}
		if validator, ok := obj.Shape.(geometry.Validator); ok {
			if err := validator.Validate(); err != nil {
				return fmt.Errorf("object %d (%s): %w", i, obj.Name, err)
			}
		}
	}

	return nil
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Objects)
}
