package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	ObjectIndex  int                    `json:"objectIndex"`
	ObjectName   string                 `json:"objectName,omitempty"`
	GeometryType string                 `json:"geometryType,omitempty"`
	Color        string                 `json:"color"` // Final pixel color as hex
	Reflective   bool                   `json:"reflective"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	InShadow     bool                   `json:"inShadow"`
	Bounces      int                    `json:"bounces"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// InspectResult is the first surface along a pixel's center ray and the traced color
type InspectResult struct {
	Hit      *integrator.SceneHit // nil when the ray escapes
	InShadow bool
	Trace    integrator.TraceResult
}

// inspectPixel casts the center ray through a pixel and reports the first
// object hit, whether that point is shadowed, and the color the pixel resolves to
func inspectPixel(sceneObj *scene.Scene, pixelX, pixelY int) InspectResult {
	ray := sceneObj.Camera.GetRay(pixelX, pixelY, 0.5, 0.5)
	whitted := integrator.NewWhittedIntegrator(sceneObj.SamplingConfig)

	result := InspectResult{Trace: whitted.Trace(ray, sceneObj)}

	hit, isHit := integrator.NearestHit(ray, sceneObj, integrator.MinHitDistance, math.Inf(1))
	if !isHit {
		return result
	}
	result.Hit = hit

	if normal, ok := hit.Record.Normal.NormalizeChecked(); ok {
		point := hit.Record.Point.Add(normal.Multiply(sceneObj.SamplingConfig.SurfaceBias))
		result.InShadow = whitted.Occluded(point, sceneObj.Light.Position, sceneObj)
	}
	return result
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(shape geometry.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = vecArray(geom.Center)
		properties["radius"] = geom.Radius
		return "sphere", properties
	default:
		return "unknown", properties
	}
}

// extractObjectInfo describes the surface appearance of an object
func extractObjectInfo(obj *scene.Object) map[string]interface{} {
	return map[string]interface{}{
		"albedo":     vecArray(obj.Color),
		"color":      colorHex(obj.Color),
		"reflective": obj.Reflective,
	}
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// colorHex formats a linear color the way it would be written to the image
func colorHex(c core.Vec3) string {
	rgba := renderer.ColorToRGBA(c)
	return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	inspectReq := &RenderRequest{MaxDepth: -1, SurfaceBias: -1}
	if err := s.parseCommonSceneParams(r, inspectReq); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid scene parameters: " + err.Error()})
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid x coordinate"})
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid y coordinate"})
		return
	}

	sceneObj, err := s.createScene(inspectReq)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("Unable to create scene %q: %v", inspectReq.Scene, err)})
		return
	}

	if pixelX < 0 || pixelX >= sceneObj.SamplingConfig.Width || pixelY < 0 || pixelY >= sceneObj.SamplingConfig.Height {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Pixel coordinates out of bounds"})
		return
	}

	result := inspectPixel(sceneObj, pixelX, pixelY)
	response := InspectResponse{
		ObjectIndex: -1,
		Color:       colorHex(result.Trace.Color),
		Bounces:     result.Trace.Bounces,
	}

	if result.Hit != nil {
		record := result.Hit.Record
		geometryType, geometryProps := extractGeometryInfo(result.Hit.Object.Shape)

		response.Hit = true
		response.ObjectIndex = result.Hit.Index
		response.ObjectName = result.Hit.Object.Name
		response.GeometryType = geometryType
		response.Reflective = result.Hit.Object.Reflective
		response.Point = vecArray(record.Point)
		response.Normal = vecArray(record.Normal)
		response.Distance = record.T
		response.FrontFace = record.FrontFace
		response.InShadow = result.InShadow
		response.Properties = map[string]interface{}{
			"object":   extractObjectInfo(result.Hit.Object),
			"geometry": geometryProps,
		}
	}

	writeJSON(w, http.StatusOK, response)
}
