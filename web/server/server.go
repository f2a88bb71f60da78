package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// DefaultTileSize is the tile edge length used for web renders
const DefaultTileSize = 64

// Server handles web requests for the raytracer
type Server struct {
	port      int
	scenesDir string // Directory searched for scene files ("" = none)
}

// NewServer creates a new web server
func NewServer(port int) *Server {
	return &Server{port: port, scenesDir: loaders.FindScenesDir()}
}

// NewServerWithScenesDir creates a server that discovers scene files in dir
func NewServerWithScenesDir(port int, dir string) *Server {
	return &Server{port: port, scenesDir: dir}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene       string  `json:"scene"`       // Scene ID (built-in name or "file:<name>")
	Width       int     `json:"width"`       // Image width
	Height      int     `json:"height"`      // Image height (0 = scene aspect ratio)
	MaxSamples  int     `json:"maxSamples"`  // Maximum samples per pixel
	MaxPasses   int     `json:"maxPasses"`   // Maximum number of passes
	MaxDepth    int     `json:"maxDepth"`    // Mirror bounce limit (-1 = scene default)
	SurfaceBias float64 `json:"surfaceBias"` // Secondary ray offset (-1 = scene default)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string            `json:"name"`
	Scenes []scene.SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

// Handler returns the HTTP handler serving the API and static files
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir("static/")))

	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in scenes followed by discovered scene files, grouped by category
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := s.listScenes()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// listScenes groups every known scene, built-in group first then alphabetical
func (s *Server) listScenes() (ScenesResponse, error) {
	var response ScenesResponse

	fileScenes, err := loaders.ListSceneFiles(s.scenesDir)
	if err != nil {
		return response, fmt.Errorf("failed to list scene files: %w", err)
	}
	allScenes := append(scene.BuiltinScenes(), fileScenes...)

	groupMap := make(map[string][]scene.SceneInfo)
	for _, info := range allScenes {
		groupMap[info.Group] = append(groupMap[info.Group], info)
	}

	var groupNames []string
	for groupName := range groupMap {
		if groupName != scene.BuiltinGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	if builtinGroup, exists := groupMap[scene.BuiltinGroup]; exists {
		response.Groups = append(response.Groups, SceneGroup{Name: scene.BuiltinGroup, Scenes: builtinGroup})
	}
	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{Name: groupName, Scenes: groupMap[groupName]})
	}

	return response, nil
}

// parseCommonSceneParams parses the scene and image size parameters shared by render and inspect
func (s *Server) parseCommonSceneParams(r *http.Request, req *RenderRequest) error {
	query := r.URL.Query()

	req.Scene = query.Get("scene")
	if req.Scene == "" {
		req.Scene = "default"
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 400, 16, 2000); err != nil {
		return err
	}
	if req.Height, err = parseIntParam(query, "height", 0, 16, 2000); err != nil {
		return err
	}
	return nil
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	req := &RenderRequest{}
	if err := s.parseCommonSceneParams(r, req); err != nil {
		return nil, err
	}

	query := r.URL.Query()
	var err error
	if req.MaxSamples, err = parseIntParam(query, "maxSamples", 16, 1, 10000); err != nil {
		return nil, err
	}
	if req.MaxPasses, err = parseIntParam(query, "maxPasses", 5, 1, 100); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(query, "maxDepth", -1, 0, 50); err != nil {
		return nil, err
	}
	if req.SurfaceBias, err = parseFloatParam(query, "surfaceBias", -1, 0, 1); err != nil {
		return nil, err
	}

	// Performance warning
	if req.Width*max(req.Height, req.Width) > 800*600 && req.MaxSamples > 100 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}

	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %f and %f, got: %f", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// createScene builds the requested scene sized to the request. Sampling
// overrides from the request are applied and the result is validated.
func (s *Server) createScene(req *RenderRequest) (*scene.Scene, error) {
	cameraOverride := geometry.CameraConfig{Width: req.Width}
	if req.Height > 0 {
		cameraOverride.AspectRatio = float64(req.Width) / float64(req.Height)
	}

	var sceneObj *scene.Scene
	if path, ok := loaders.FindSceneFile(s.scenesDir, req.Scene); ok {
		loaded, err := loaders.LoadScene(path, cameraOverride)
		if err != nil {
			return nil, err
		}
		sceneObj = loaded
	} else {
		builtin, err := scene.NewBuiltinScene(req.Scene, cameraOverride)
		if err != nil {
			return nil, err
		}
		sceneObj = builtin
	}

	if req.MaxSamples > 0 {
		sceneObj.SamplingConfig.SamplesPerPixel = req.MaxSamples
	}
	if req.MaxDepth >= 0 {
		sceneObj.SamplingConfig.MaxDepth = req.MaxDepth
	}
	if req.SurfaceBias >= 0 {
		sceneObj.SamplingConfig.SurfaceBias = req.SurfaceBias
	}

	if err := sceneObj.Validate(); err != nil {
		return nil, err
	}
	return sceneObj, nil
}

// writeJSON writes v as a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}
