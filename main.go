package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// renderSettings holds command line overrides; zero or negative values keep the scene's own setting
type renderSettings struct {
	width   int
	samples int
	depth   int
	bias    float64
	workers int
	passes  int
}

func main() {
	sceneType := flag.String("scene", "default", "Built-in scene name, scene file name, or path to a .scene file")
	width := flag.Int("width", 0, "Image width in pixels (0 = scene default)")
	samples := flag.Int("samples", 0, "Samples per pixel (0 = scene default, 1 = single center ray)")
	depth := flag.Int("depth", -1, "Maximum mirror bounces (-1 = scene default)")
	bias := flag.Float64("bias", -1, "Surface offset for shadow and reflection rays (-1 = scene default)")
	workers := flag.Int("workers", 0, "Parallel tile workers (0 = single-threaded render)")
	passes := flag.Int("passes", 1, "Progressive passes when rendering with workers")
	outputRoot := flag.String("output", "output", "Root directory for rendered images")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		printHelp()
		return
	}

	fmt.Println("Starting Whitted Raytracer...")

	settings := renderSettings{
		width:   *width,
		samples: *samples,
		depth:   *depth,
		bias:    *bias,
		workers: *workers,
		passes:  *passes,
	}

	selectedScene, err := createScene(*sceneType, geometry.CameraConfig{Width: settings.width})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating scene: %v\n", err)
		os.Exit(1)
	}
	if err := applySamplingOverrides(selectedScene, settings); err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring scene: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Using scene %q (%d objects, %dx%d, %d samples, depth %d)\n",
		selectedScene.Name, selectedScene.GetPrimitiveCount(),
		selectedScene.SamplingConfig.Width, selectedScene.SamplingConfig.Height,
		selectedScene.SamplingConfig.SamplesPerPixel, selectedScene.SamplingConfig.MaxDepth)

	startTime := time.Now()
	img, stats, err := render(selectedScene, settings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Render completed in %v\n", time.Since(startTime))
	fmt.Printf("Samples per pixel: %.1f (range %d - %d)\n",
		stats.AverageSamples, stats.MinSamples, stats.MaxSamplesUsed)

	filename, err := savePNG(img, filepath.Join(*outputRoot, outputName(*sceneType)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error saving render: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Render saved as %s\n", filename)
}

func printHelp() {
	fmt.Println("Whitted Raytracer")
	fmt.Println("Usage: raytracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Built-in scenes:")
	for _, info := range scene.BuiltinScenes() {
		fmt.Printf("  %-12s %s\n", info.ID, info.Description)
	}

	if files, err := loaders.ListSceneFiles(loaders.FindScenesDir()); err == nil && len(files) > 0 {
		fmt.Println()
		fmt.Println("Scene files:")
		for _, info := range files {
			fmt.Printf("  %-12s %s\n", strings.TrimPrefix(info.ID, loaders.FileSceneIDPrefix), info.Description)
		}
	}

	fmt.Println()
	fmt.Println("Output will be saved to output/<scene>/render_<timestamp>.png")
}

// createScene resolves a built-in scene name, a scene file name in the scenes
// directory, or a direct path to a scene file
func createScene(sceneType string, cameraOverrides ...geometry.CameraConfig) (*scene.Scene, error) {
	if sceneType == "" {
		return nil, fmt.Errorf("no scene specified")
	}

	if path, ok := findSceneFile(sceneType); ok {
		return loaders.LoadScene(path, cameraOverrides...)
	}

	s, err := scene.NewBuiltinScene(sceneType, cameraOverrides...)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// findSceneFile returns the scene file path for sceneType, if one exists.
// Paths ending in the scene extension are used as given; bare names are
// looked up in the scenes directory.
func findSceneFile(sceneType string) (string, bool) {
	if strings.HasSuffix(sceneType, loaders.SceneFileExt) {
		return sceneType, true
	}

	dir := loaders.FindScenesDir()
	if dir == "" {
		return "", false
	}
	return loaders.FindSceneFile(dir, loaders.FileSceneIDPrefix+sceneType)
}

// applySamplingOverrides applies command line sampling settings and revalidates the scene
func applySamplingOverrides(s *scene.Scene, settings renderSettings) error {
	if settings.samples > 0 {
		s.SamplingConfig.SamplesPerPixel = settings.samples
	}
	if settings.depth >= 0 {
		s.SamplingConfig.MaxDepth = settings.depth
	}
	if settings.bias >= 0 {
		s.SamplingConfig.SurfaceBias = settings.bias
	}
	return s.Validate()
}

// render runs the single-threaded baseline render, or the tiled progressive
// renderer when workers are requested
func render(s *scene.Scene, settings renderSettings) (*image.RGBA, renderer.RenderStats, error) {
	if settings.workers <= 0 {
		raytracer, err := renderer.NewRaytracer(s, nil)
		if err != nil {
			return nil, renderer.RenderStats{}, err
		}
		sink := renderer.NewImageSink(raytracer.Width(), raytracer.Height())
		stats := raytracer.RenderPass(sink)
		return sink.Image, stats, nil
	}

	config := renderer.DefaultProgressiveConfig()
	config.MaxSamplesPerPixel = s.SamplingConfig.SamplesPerPixel
	config.MaxPasses = max(1, settings.passes)
	config.NumWorkers = settings.workers

	progressive, err := renderer.NewProgressiveRaytracer(s, config, nil, renderer.NewDefaultLogger())
	if err != nil {
		return nil, renderer.RenderStats{}, err
	}

	passChan, _, errChan := progressive.RenderProgressive(context.Background(), renderer.RenderOptions{})
	var last renderer.PassResult
	for pass := range passChan {
		last = pass
	}
	if err := <-errChan; err != nil {
		return nil, renderer.RenderStats{}, err
	}
	return last.Image, last.Stats, nil
}

// outputName returns the output subdirectory name for a scene argument
func outputName(sceneType string) string {
	base := filepath.Base(sceneType)
	return strings.TrimSuffix(base, loaders.SceneFileExt)
}

// savePNG writes img to a timestamped file in outputDir and returns its path
func savePNG(img image.Image, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(outputDir, fmt.Sprintf("render_%s.png", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return filename, nil
}
