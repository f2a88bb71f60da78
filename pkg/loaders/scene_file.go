package loaders

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// SceneFileExt is the extension of text scene files
const SceneFileExt = ".scene"

var (
	// ErrSceneSyntax is returned for malformed scene file statements
	ErrSceneSyntax = errors.New("scene file syntax error")
	// ErrMissingLight is returned when a scene file declares no light
	ErrMissingLight = errors.New("scene file has no Light statement")
	// ErrDuplicateLight is returned when a scene file declares more than one light
	ErrDuplicateLight = errors.New("scene file has more than one Light statement")
)

// Keys accepted by each keyword/value statement, with the number of values they take
var (
	cameraKeys   = map[string]int{"center": 3, "lookat": 3, "up": 3, "width": 1, "aspect": 1, "vfov": 1}
	samplingKeys = map[string]int{"samples": 1, "depth": 1, "bias": 1}
	sphereKeys   = map[string]int{"center": 3, "radius": 1, "color": 3, "reflective": 0}
)

// DefaultFileCameraConfig is used for any camera setting a scene file omits
func DefaultFileCameraConfig() geometry.CameraConfig {
	return geometry.CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		Width:       400,
		AspectRatio: 16.0 / 9.0,
		VFov:        90.0,
	}
}

type sphereSpec struct {
	name       string
	center     core.Vec3
	radius     float64
	color      core.Vec3
	reflective bool
}

// sceneParser accumulates statements until the whole file has been read
type sceneParser struct {
	name         string
	cameraConfig geometry.CameraConfig
	sampling     scene.SamplingConfig
	background   *core.Vec3
	light        *core.Vec3
	spheres      []sphereSpec
	lineNumber   int
}

func newSceneParser() *sceneParser {
	return &sceneParser{
		name:         "file",
		cameraConfig: DefaultFileCameraConfig(),
		sampling:     scene.DefaultSamplingConfig(),
	}
}

// ParseScene parses a text scene description. The returned scene has passed
// Validate. Camera overrides are applied on top of the file's camera.
func ParseScene(reader io.Reader, cameraOverrides ...geometry.CameraConfig) (*scene.Scene, error) {
	parser := newSceneParser()

	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		parser.lineNumber++
		if err := parser.processLine(scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}

	return parser.build(cameraOverrides...)
}

// LoadScene loads and parses a scene file
func LoadScene(filename string, cameraOverrides ...geometry.CameraConfig) (*scene.Scene, error) {
	if err := validateFilePath(filename); err != nil {
		return nil, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	s, err := ParseScene(file, cameraOverrides...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return s, nil
}

// processLine processes a single statement line
func (p *sceneParser) processLine(line string) error {
	// Strip trailing comments
	if i := strings.Index(line, "#"); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	keyword, args := fields[0], fields[1:]
	var err error
	switch keyword {
	case "Name":
		err = p.parseName(args)
	case "Camera":
		err = p.parseCamera(args)
	case "Sampling":
		err = p.parseSampling(args)
	case "Background":
		err = p.parseBackground(args)
	case "Light":
		err = p.parseLight(args)
	case "Sphere":
		err = p.parseSphere(args)
	default:
		err = fmt.Errorf("%w: unknown statement", ErrSceneSyntax)
	}

	if err != nil {
		return fmt.Errorf("line %d (%s): %w", p.lineNumber, keyword, err)
	}
	return nil
}

func (p *sceneParser) parseName(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: Name takes exactly one word", ErrSceneSyntax)
	}
	p.name = args[0]
	return nil
}

func (p *sceneParser) parseCamera(args []string) error {
	return parseKeyValues(args, cameraKeys, func(key string, values []float64) error {
		switch key {
		case "center":
			p.cameraConfig.Center = vecFrom(values)
		case "lookat":
			p.cameraConfig.LookAt = vecFrom(values)
		case "up":
			p.cameraConfig.Up = vecFrom(values)
		case "width":
			width, err := asInt(key, values[0])
			if err != nil {
				return err
			}
			p.cameraConfig.Width = width
		case "aspect":
			p.cameraConfig.AspectRatio = values[0]
		case "vfov":
			p.cameraConfig.VFov = values[0]
		}
		return nil
	})
}

func (p *sceneParser) parseSampling(args []string) error {
	return parseKeyValues(args, samplingKeys, func(key string, values []float64) error {
		switch key {
		case "samples":
			samples, err := asInt(key, values[0])
			if err != nil {
				return err
			}
			p.sampling.SamplesPerPixel = samples
		case "depth":
			depth, err := asInt(key, values[0])
			if err != nil {
				return err
			}
			p.sampling.MaxDepth = depth
		case "bias":
			p.sampling.SurfaceBias = values[0]
		}
		return nil
	})
}

func (p *sceneParser) parseBackground(args []string) error {
	values, err := parseFloats(args, 3)
	if err != nil {
		return err
	}
	background := vecFrom(values)
	p.background = &background
	return nil
}

func (p *sceneParser) parseLight(args []string) error {
	if p.light != nil {
		return ErrDuplicateLight
	}
	values, err := parseFloats(args, 3)
	if err != nil {
		return err
	}
	light := vecFrom(values)
	p.light = &light
	return nil
}

func (p *sceneParser) parseSphere(args []string) error {
	spec := sphereSpec{
		name:  fmt.Sprintf("sphere%d", len(p.spheres)),
		color: core.NewVec3(1, 1, 1),
	}
	seenRadius, seenCenter := false, false

	// name takes a word, not a number, so it is pulled out before the numeric keys
	var numeric []string
	for i := 0; i < len(args); i++ {
		if args[i] == "name" {
			if i+1 >= len(args) {
				return fmt.Errorf("%w: name needs a value", ErrSceneSyntax)
			}
			spec.name = args[i+1]
			i++
			continue
		}
		numeric = append(numeric, args[i])
	}

	err := parseKeyValues(numeric, sphereKeys, func(key string, values []float64) error {
		switch key {
		case "center":
			spec.center = vecFrom(values)
			seenCenter = true
		case "radius":
			spec.radius = values[0]
			seenRadius = true
		case "color":
			spec.color = vecFrom(values)
		case "reflective":
			spec.reflective = true
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !seenCenter || !seenRadius {
		return fmt.Errorf("%w: Sphere needs center and radius", ErrSceneSyntax)
	}

	p.spheres = append(p.spheres, spec)
	return nil
}

// build assembles and validates the scene once every line has been read
func (p *sceneParser) build(cameraOverrides ...geometry.CameraConfig) (*scene.Scene, error) {
	if p.light == nil {
		return nil, ErrMissingLight
	}

	cameraConfig := p.cameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(cameraConfig, cameraOverrides[0])
	}

	s := scene.NewScene(p.name, cameraConfig, core.Vec3{}, *p.light)
	// Keep a missing background missing so validation reports it
	s.Background = p.background

	sampling := p.sampling
	sampling.Width = s.SamplingConfig.Width
	sampling.Height = s.SamplingConfig.Height
	s.SamplingConfig = sampling

	for _, sphere := range p.spheres {
		s.AddSphere(sphere.name, sphere.center, sphere.radius, sphere.color, sphere.reflective)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// parseKeyValues walks "key v1 v2 ... key v1 ..." sequences, checking each key
// against the allowed set and its value count
func parseKeyValues(args []string, allowed map[string]int, apply func(key string, values []float64) error) error {
	for i := 0; i < len(args); {
		key := args[i]
		count, ok := allowed[key]
		if !ok {
			return fmt.Errorf("%w: unknown key %q", ErrSceneSyntax, key)
		}
		if i+1+count > len(args) {
			return fmt.Errorf("%w: %s needs %d values", ErrSceneSyntax, key, count)
		}

		values, err := parseFloats(args[i+1:i+1+count], count)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if err := apply(key, values); err != nil {
			return err
		}
		i += 1 + count
	}
	return nil
}

// parseFloats parses exactly n numbers
func parseFloats(args []string, n int) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%w: expected %d values, got %d", ErrSceneSyntax, n, len(args))
	}
	values := make([]float64, n)
	for i, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid number %q", ErrSceneSyntax, arg)
		}
		values[i] = v
	}
	return values, nil
}

func asInt(key string, v float64) (int, error) {
	if v != float64(int(v)) {
		return 0, fmt.Errorf("%w: %s must be a whole number, got %v", ErrSceneSyntax, key, v)
	}
	return int(v), nil
}

func vecFrom(values []float64) core.Vec3 {
	return core.NewVec3(values[0], values[1], values[2])
}

// validateFilePath validates a file path for security issues
func validateFilePath(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	// Check for null bytes (could indicate path manipulation)
	if strings.Contains(filename, "\x00") {
		return fmt.Errorf("invalid file path: null bytes not allowed")
	}

	cleanPath := filepath.Clean(filename)

	// Only allow files under a scenes directory or the temp directory (for tests)
	if !strings.HasPrefix(cleanPath, "scenes"+string(filepath.Separator)) &&
		!strings.HasPrefix(cleanPath, os.TempDir()) &&
		!strings.Contains(cleanPath, string(filepath.Separator)+"scenes"+string(filepath.Separator)) {
		return fmt.Errorf("file path must be in a scenes/ directory")
	}

	if !strings.HasSuffix(strings.ToLower(cleanPath), SceneFileExt) {
		return fmt.Errorf("invalid file type: only %s files are allowed", SceneFileExt)
	}

	if len(cleanPath) > 512 {
		return fmt.Errorf("file path too long: maximum 512 characters allowed")
	}

	return nil
}
