package loaders

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// FileGroup is the default group for discovered scene files
const FileGroup = "Scene Files"

// FileSceneIDPrefix marks scene IDs that refer to a scene file
const FileSceneIDPrefix = "file:"

// FindScenesDir returns the first scenes directory found relative to the
// working directory, or "" if there is none
func FindScenesDir() string {
	for _, path := range []string{"scenes", "../scenes"} {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return path
		}
	}
	return ""
}

// ListSceneFiles scans dir for scene files and returns their metadata sorted
// by display name. A missing directory yields an empty list.
func ListSceneFiles(dir string) ([]scene.SceneInfo, error) {
	if dir == "" {
		return []scene.SceneInfo{}, nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return []scene.SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*"+SceneFileExt))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := make([]scene.SceneInfo, 0, len(files))
	for _, filePath := range files {
		info, err := ParseSceneMetadata(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read metadata for %s: %w", filePath, err)
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ParseSceneMetadata extracts metadata from the header comments of a scene file.
// Recognized headers are "# Title:", "# Description:" and "# Group:".
func ParseSceneMetadata(filePath string) (scene.SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	info := scene.SceneInfo{
		ID:          FileSceneIDPrefix + nameWithoutExt,
		DisplayName: scene.TitleCase(nameWithoutExt),
		Group:       FileGroup,
		Type:        "file",
		FilePath:    filePath,
	}

	file, err := os.Open(filePath)
	if err != nil {
		return info, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		// Headers end at the first statement
		if !strings.HasPrefix(line, "#") {
			break
		}

		content := strings.TrimSpace(strings.TrimPrefix(line, "#"))
		switch {
		case strings.HasPrefix(content, "Title:"):
			info.DisplayName = strings.TrimSpace(strings.TrimPrefix(content, "Title:"))
		case strings.HasPrefix(content, "Description:"):
			info.Description = strings.TrimSpace(strings.TrimPrefix(content, "Description:"))
		case strings.HasPrefix(content, "Group:"):
			info.Group = strings.TrimSpace(strings.TrimPrefix(content, "Group:"))
		}
	}

	return info, scanner.Err()
}

// FindSceneFile resolves a scene file ID such as "file:glass-hall" to its path in dir
func FindSceneFile(dir, id string) (string, bool) {
	name, ok := strings.CutPrefix(id, FileSceneIDPrefix)
	if !ok || name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", false
	}
	path := filepath.Join(dir, name+SceneFileExt)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}
