package renderer

import (
	"context"
	"errors"
	"image"
	"strings"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

func TestProgressiveSampleCalculation(t *testing.T) {
	// Test the sample calculation logic without creating a full raytracer
	config := DefaultProgressiveConfig()
	config.InitialSamples = 1
	config.MaxSamplesPerPixel = 50
	config.MaxPasses = 7

	// Create a minimal progressive raytracer for testing
	pr := &ProgressiveRaytracer{
		config: config,
	}

	// Test sample progression with linear distribution
	// Pass 1: 1 sample
	// Pass 2-6: (50-1)/6 = 8.16 -> 8 samples per pass -> 1 + 8*1 = 9, 1 + 8*2 = 17, etc.
	// Pass 7: 50 (final pass gets all remaining)
	expectedTotalSamples := []int{1, 9, 17, 25, 33, 41, 50}

	for pass := 1; pass <= 7; pass++ {
		totalSamples := pr.getSamplesForPass(pass)

		if totalSamples != expectedTotalSamples[pass-1] {
			t.Errorf("Pass %d: expected %d total samples, got %d",
				pass, expectedTotalSamples[pass-1], totalSamples)
		}
	}
}

func TestProgressiveConfig(t *testing.T) {
	// Test default configuration
	config := DefaultProgressiveConfig()

	if config.TileSize != 64 {
		t.Errorf("Expected default tile size 64, got %d", config.TileSize)
	}

	if config.InitialSamples != 1 {
		t.Errorf("Expected default initial samples 1, got %d", config.InitialSamples)
	}

	if config.MaxSamplesPerPixel != 50 {
		t.Errorf("Expected default max samples 50, got %d", config.MaxSamplesPerPixel)
	}

	if config.MaxPasses != 7 {
		t.Errorf("Expected default max passes 7, got %d", config.MaxPasses)
	}

}

func TestNewTileGrid(t *testing.T) {
	// Test tile grid generation for a 400x225 image with 64x64 tiles
	width, height, tileSize := 400, 225, 64
	tiles := NewTileGrid(width, height, tileSize)

	// Calculate expected number of tiles
	expectedTilesX := (width + tileSize - 1) / tileSize   // 7 tiles
	expectedTilesY := (height + tileSize - 1) / tileSize  // 4 tiles
	expectedTotalTiles := expectedTilesX * expectedTilesY // 28 tiles

	if len(tiles) != expectedTotalTiles {
		t.Errorf("Expected %d tiles, got %d", expectedTotalTiles, len(tiles))
	}

	// Test that tiles cover the entire image without gaps or overlaps
	covered := make([][]bool, height)
	for y := range covered {
		covered[y] = make([]bool, width)
	}

	for _, tile := range tiles {
		for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
			for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
				if x >= width || y >= height {
					t.Errorf("Tile %d extends beyond image bounds at (%d,%d)", tile.ID, x, y)
				}
				if covered[y][x] {
					t.Errorf("Pixel (%d,%d) is covered by multiple tiles", x, y)
				}
				covered[y][x] = true
			}
		}
	}

	// Verify all pixels are covered
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !covered[y][x] {
				t.Errorf("Pixel (%d,%d) is not covered by any tile", x, y)
			}
		}
	}
}

func TestTileDeterministicRandom(t *testing.T) {
	bounds := image.Rect(0, 0, 64, 64)
	tile1 := NewTile(42, bounds)
	tile2 := NewTile(42, bounds)

	val1 := tile1.Random.Float64()
	val2 := tile2.Random.Float64()
	if val1 != val2 {
		t.Errorf("Tiles with same ID should produce same random values: %f != %f", val1, val2)
	}

	tile3 := NewTile(43, bounds)
	if val1 == tile3.Random.Float64() {
		t.Error("Tiles with different IDs should produce different random values")
	}
}

func TestProgressiveConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*ProgressiveConfig)
		valid  bool
	}{
		{"default", func(c *ProgressiveConfig) {}, true},
		{"zero tile size", func(c *ProgressiveConfig) { c.TileSize = 0 }, false},
		{"zero initial samples", func(c *ProgressiveConfig) { c.InitialSamples = 0 }, false},
		{"zero max samples", func(c *ProgressiveConfig) { c.MaxSamplesPerPixel = 0 }, false},
		{"zero passes", func(c *ProgressiveConfig) { c.MaxPasses = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultProgressiveConfig()
			tt.modify(&config)
			err := config.Validate()
			if tt.valid && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidProgressiveConfig) {
				t.Errorf("Expected ErrInvalidProgressiveConfig, got %v", err)
			}
		})
	}
}

func TestProgressiveSamplesNeverExceedMax(t *testing.T) {
	pr := &ProgressiveRaytracer{config: ProgressiveConfig{
		TileSize:           8,
		InitialSamples:     4,
		MaxSamplesPerPixel: 3,
		MaxPasses:          5,
	}}

	for pass := 1; pass <= 5; pass++ {
		if got := pr.getSamplesForPass(pass); got > 3 || got < 1 {
			t.Errorf("Pass %d: expected samples in [1,3], got %d", pass, got)
		}
	}
}

// createProgressiveTestScene creates a small built-in scene for progressive tests
func createProgressiveTestScene(t *testing.T) *scene.Scene {
	t.Helper()
	s, err := scene.NewBuiltinScene("default")
	if err != nil {
		t.Fatal(err)
	}
	config := s.CameraConfig
	config.Width = 40
	s.SetCameraConfig(config)
	return s
}

// renderAll drains a progressive render and returns the passes it produced
func renderAll(t *testing.T, pr *ProgressiveRaytracer, options RenderOptions) ([]PassResult, []TileCompletionResult) {
	t.Helper()
	passChan, tileChan, errChan := pr.RenderProgressive(context.Background(), options)

	var tiles []TileCompletionResult
	tilesDone := make(chan struct{})
	go func() {
		defer close(tilesDone)
		for tile := range tileChan {
			tiles = append(tiles, tile)
		}
	}()

	var passes []PassResult
	for pass := range passChan {
		passes = append(passes, pass)
	}
	<-tilesDone

	if err := <-errChan; err != nil {
		t.Fatalf("Unexpected render error: %v", err)
	}
	return passes, tiles
}

func TestProgressiveRaytracer_RendersAllPasses(t *testing.T) {
	s := createProgressiveTestScene(t)
	config := ProgressiveConfig{
		TileSize:           16,
		InitialSamples:     1,
		MaxSamplesPerPixel: 5,
		MaxPasses:          3,
		NumWorkers:         2,
	}

	pr, err := NewProgressiveRaytracer(s, config, nil, &core.NopLogger{})
	if err != nil {
		t.Fatal(err)
	}

	passes, tiles := renderAll(t, pr, RenderOptions{TileUpdates: true})
	if len(passes) != 3 {
		t.Fatalf("Expected 3 passes, got %d", len(passes))
	}
	if !passes[2].IsLast || passes[0].IsLast {
		t.Error("Expected only the final pass to be marked last")
	}

	final := passes[2]
	if final.Stats.MinSamples != 5 || final.Stats.MaxSamplesUsed != 5 {
		t.Errorf("Expected every pixel at 5 samples, got %+v", final.Stats)
	}
	if final.Image.Bounds() != image.Rect(0, 0, pr.Width(), pr.Height()) {
		t.Errorf("Unexpected image bounds %v", final.Image.Bounds())
	}

	// 40x22 image in 16 pixel tiles is a 3x2 grid
	if len(tiles) != 3*6 {
		t.Errorf("Expected 18 tile events, got %d", len(tiles))
	}
}

func TestProgressiveRaytracer_DeterministicAcrossWorkerCounts(t *testing.T) {
	render := func(workers int) *image.RGBA {
		config := ProgressiveConfig{
			TileSize:           8,
			InitialSamples:     1,
			MaxSamplesPerPixel: 4,
			MaxPasses:          2,
			NumWorkers:         workers,
		}
		pr, err := NewProgressiveRaytracer(createProgressiveTestScene(t), config, nil, &core.NopLogger{})
		if err != nil {
			t.Fatal(err)
		}
		passes, _ := renderAll(t, pr, RenderOptions{})
		return passes[len(passes)-1].Image
	}

	single := render(1)
	parallel := render(4)
	for i := range single.Pix {
		if single.Pix[i] != parallel.Pix[i] {
			t.Fatalf("Images differ at byte %d: %d != %d", i, single.Pix[i], parallel.Pix[i])
		}
	}
}

func TestProgressiveRaytracer_SinglePassMatchesBaseline(t *testing.T) {
	// One sample per pixel uses center rays in both render paths
	s := createProgressiveTestScene(t)
	s.SamplingConfig.SamplesPerPixel = 1

	rt, err := NewRaytracer(s, nil)
	if err != nil {
		t.Fatal(err)
	}
	sink := NewImageSink(rt.Width(), rt.Height())
	rt.RenderPass(sink)

	config := ProgressiveConfig{TileSize: 16, InitialSamples: 1, MaxSamplesPerPixel: 1, MaxPasses: 1, NumWorkers: 3}
	pr, err := NewProgressiveRaytracer(s, config, nil, &core.NopLogger{})
	if err != nil {
		t.Fatal(err)
	}
	passes, _ := renderAll(t, pr, RenderOptions{})

	if len(passes) != 1 {
		t.Fatalf("Expected 1 pass, got %d", len(passes))
	}
	for i := range sink.Image.Pix {
		if sink.Image.Pix[i] != passes[0].Image.Pix[i] {
			t.Fatalf("Images differ at byte %d", i)
		}
	}
}

func TestProgressiveRaytracer_Cancellation(t *testing.T) {
	pr, err := NewProgressiveRaytracer(createProgressiveTestScene(t), DefaultProgressiveConfig(), nil, &core.NopLogger{})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	passChan, _, errChan := pr.RenderProgressive(ctx, RenderOptions{})
	for range passChan {
		t.Error("Expected no passes after cancellation")
	}
	if err := <-errChan; !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestProgressiveRaytracer_TileFailure(t *testing.T) {
	// Only the bottom-right tile fails
	failing := &MockIntegrator{colorFn: func(ray core.Ray) core.Vec3 {
		if ray.Direction.X > 0.5 && ray.Direction.Y < -0.3 {
			panic("bad sample")
		}
		return core.NewVec3(0.5, 0.5, 0.5)
	}}

	config := ProgressiveConfig{TileSize: 16, InitialSamples: 1, MaxSamplesPerPixel: 2, MaxPasses: 2, NumWorkers: 1}
	pr, err := NewProgressiveRaytracer(createProgressiveTestScene(t), config, failing, &core.NopLogger{})
	if err != nil {
		t.Fatal(err)
	}

	passChan, _, errChan := pr.RenderProgressive(context.Background(), RenderOptions{})
	for range passChan {
		t.Error("Expected no completed passes when a tile fails")
	}
	err = <-errChan
	if !errors.Is(err, ErrTileFailed) {
		t.Fatalf("Expected ErrTileFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "bad sample") {
		t.Errorf("Expected the panic value in %q", err.Error())
	}
}

func TestNewProgressiveRaytracer_InvalidInput(t *testing.T) {
	s := createProgressiveTestScene(t)
	config := DefaultProgressiveConfig()
	config.MaxPasses = 0
	if _, err := NewProgressiveRaytracer(s, config, nil, nil); !errors.Is(err, ErrInvalidProgressiveConfig) {
		t.Errorf("Expected ErrInvalidProgressiveConfig, got %v", err)
	}

	s.Objects = nil
	if _, err := NewProgressiveRaytracer(s, DefaultProgressiveConfig(), nil, nil); !errors.Is(err, scene.ErrEmptyScene) {
		t.Errorf("Expected ErrEmptyScene, got %v", err)
	}
}
