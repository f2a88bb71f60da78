package scene

import (
	"errors"
	"fmt"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// ErrUnknownScene is returned when a scene name is not registered
var ErrUnknownScene = errors.New("unknown scene")

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "file"
	FilePath    string `json:"filePath"`    // Path to scene file (file type only)
}

// BuiltinGroup is the group name used for scenes compiled into the binary
const BuiltinGroup = "Built-in Scenes"

type builtinScene struct {
	info    SceneInfo
	factory func(...geometry.CameraConfig) *Scene
}

var builtinScenes = []builtinScene{
	{
		info: SceneInfo{
			ID:          "default",
			DisplayName: "Default Scene",
			Description: "Red sphere between a mirror sphere and a blue sphere",
		},
		factory: NewDefaultScene,
	},
	{
		info: SceneInfo{
			ID:          "cornell",
			DisplayName: "Cornell Box",
			Description: "Cornell box built from sphere walls with a mirror sphere",
		},
		factory: NewCornellScene,
	},
	{
		info: SceneInfo{
			ID:          "mirrors",
			DisplayName: "Hall of Mirrors",
			Description: "Two facing mirror spheres bounded by the bounce depth",
		},
		factory: NewMirrorsScene,
	},
	{
		info: SceneInfo{
			ID:          "spheregrid",
			DisplayName: "Sphere Grid",
			Description: "10x10 grid of colored diffuse and mirror spheres",
		},
		factory: NewSphereGridScene,
	},
}

// BuiltinScenes returns metadata for every built-in scene in display order
func BuiltinScenes() []SceneInfo {
	infos := make([]SceneInfo, 0, len(builtinScenes))
	for _, b := range builtinScenes {
		info := b.info
		info.Group = BuiltinGroup
		info.Type = "builtin"
		infos = append(infos, info)
	}
	return infos
}

// NewBuiltinScene creates the built-in scene with the given ID
func NewBuiltinScene(id string, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	for _, b := range builtinScenes {
		if b.info.ID == id {
			return b.factory(cameraOverrides...), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownScene, id)
}

// TitleCase converts a filename-style string to title case
// e.g., "cornell-empty" -> "Cornell Empty"
func TitleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
