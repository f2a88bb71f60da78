package renderer

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"math/rand"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// PixelSink receives finished pixels from a render pass
type PixelSink interface {
	// Present stores the final color of pixel (x, y)
	Present(x, y int, r, g, b, a uint8)
	// FrameComplete is called once after every pixel of a pass was presented
	FrameComplete()
}

// ImageSink is a PixelSink backed by an in-memory RGBA image
type ImageSink struct {
	Image  *image.RGBA
	Frames int // Number of completed frames
}

// NewImageSink creates an image sink of the given size
func NewImageSink(width, height int) *ImageSink {
	return &ImageSink{Image: image.NewRGBA(image.Rect(0, 0, width, height))}
}

func (s *ImageSink) Present(x, y int, r, g, b, a uint8) {
	s.Image.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: a})
}

func (s *ImageSink) FrameComplete() {
	s.Frames++
}

// Raytracer drives an integrator over every pixel of a scene's camera
type Raytracer struct {
	scene      *scene.Scene
	width      int
	height     int
	config     scene.SamplingConfig
	integrator integrator.Integrator
	random     *rand.Rand
}

// NewRaytracer validates the scene and creates a raytracer for it.
// A nil integrator selects the Whitted integrator configured from the scene.
func NewRaytracer(s *scene.Scene, integ integrator.Integrator) (*Raytracer, error) {
	if s == nil {
		return nil, fmt.Errorf("invalid scene: %w", scene.ErrEmptyScene)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scene %q: %w", s.Name, err)
	}
	if integ == nil {
		integ = integrator.NewWhittedIntegrator(s.SamplingConfig)
	}

	return &Raytracer{
		scene:      s,
		width:      s.Camera.Width(),
		height:     s.Camera.Height(),
		config:     s.SamplingConfig,
		integrator: integ,
		random:     rand.New(rand.NewSource(42)), // Deterministic for testing
	}, nil
}

// SetSamplesPerPixel changes the number of rays averaged per pixel
func (rt *Raytracer) SetSamplesPerPixel(samples int) {
	rt.config.SamplesPerPixel = max(1, samples)
}

// Width returns the image width in pixels
func (rt *Raytracer) Width() int { return rt.width }

// Height returns the image height in pixels
func (rt *Raytracer) Height() int { return rt.height }

// jittered reports whether samples are placed randomly inside the pixel
func (rt *Raytracer) jittered() bool {
	return rt.config.SamplesPerPixel > 1
}

// sample traces one camera ray through pixel (x, y)
func (rt *Raytracer) sample(x, y int, random *rand.Rand) core.Vec3 {
	dx, dy := 0.5, 0.5
	if rt.jittered() {
		dx, dy = random.Float64(), random.Float64()
	}
	ray := rt.scene.Camera.GetRay(x, y, dx, dy)
	return rt.integrator.RayColor(ray, rt.scene)
}

// SamplePixel returns the color of pixel (x, y). With one sample per pixel
// a single ray passes through the pixel center; otherwise the colors of
// SamplesPerPixel uniformly jittered rays are averaged.
func (rt *Raytracer) SamplePixel(x, y int, random *rand.Rand) core.Vec3 {
	n := max(1, rt.config.SamplesPerPixel)
	colorAccum := core.Vec3{}
	for i := 0; i < n; i++ {
		colorAccum = colorAccum.Add(rt.sample(x, y, random))
	}
	return colorAccum.Multiply(1.0 / float64(n))
}

// RenderPass renders every pixel in row-major order on the calling goroutine,
// presents each one to sink and then signals the end of the frame
func (rt *Raytracer) RenderPass(sink PixelSink) RenderStats {
	stats := newRenderStats(rt.width*rt.height, rt.config.SamplesPerPixel)
	samples := max(1, rt.config.SamplesPerPixel)

	for y := 0; y < rt.height; y++ {
		for x := 0; x < rt.width; x++ {
			c := ColorToRGBA(rt.SamplePixel(x, y, rt.random))
			sink.Present(x, y, c.R, c.G, c.B, c.A)
			stats.update(samples)
		}
	}
	sink.FrameComplete()

	stats.finalize()
	return stats
}

// RenderBounds adds samples to every pixel inside bounds until each has
// targetSamples, accumulating into the shared pixelStats array. Callers
// rendering in parallel must hand out non-overlapping bounds.
func (rt *Raytracer) RenderBounds(bounds image.Rectangle, pixelStats [][]PixelStats, random *rand.Rand, targetSamples int) RenderStats {
	stats := newRenderStats(bounds.Dx()*bounds.Dy(), targetSamples)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			ps := &pixelStats[y][x]
			initialSampleCount := ps.SampleCount
			for ps.SampleCount < targetSamples {
				ps.AddSample(rt.sample(x, y, random))
			}
			stats.update(ps.SampleCount - initialSampleCount)
		}
	}

	stats.finalize()
	return stats
}

// ColorToRGBA converts a linear color to 8-bit RGBA. Each channel is clamped
// to [0,1] before scaling, so over-bright values saturate instead of wrapping.
// Alpha is always opaque.
func ColorToRGBA(c core.Vec3) color.RGBA {
	return color.RGBA{
		R: toByte(c.X),
		G: toByte(c.Y),
		B: toByte(c.Z),
		A: 255,
	}
}

func toByte(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(255 * v)
}
