package server

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

// writeTestImage saves img as a PNG in a per-test temp directory.
func writeTestImage(t *testing.T, img image.Image) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sample.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// createTestImageFile creates a uniformly coloured PNG and returns its path.
func createTestImageFile(t *testing.T, width, height int, c color.Color) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return writeTestImage(t, img)
}

// createNoiseImageFile creates a PNG of deterministic random pixels.
func createNoiseImageFile(t *testing.T, width, height int) string {
	t.Helper()

	rng := rand.New(rand.NewSource(7))
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256)), 255})
		}
	}
	return writeTestImage(t, img)
}

// callTool sends a tools/call request and returns the response.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) *MCPResponse {
	t.Helper()

	params := map[string]interface{}{
		"name":      name,
		"arguments": args,
	}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("failed to marshal params: %v", err)
	}

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

// decodeToolResult unwraps the MCP text content of a successful call into v.
func decodeToolResult(t *testing.T, resp *MCPResponse, v interface{}) {
	t.Helper()

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 {
		t.Fatalf("content should hold exactly one item, got %v", result["content"])
	}
	text, ok := content[0]["text"].(string)
	if !ok {
		t.Fatal("content text should be a string")
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		t.Fatalf("failed to decode tool result: %v", err)
	}
}

func expectToolError(t *testing.T, resp *MCPResponse) {
	t.Helper()

	if resp.Error == nil {
		t.Fatal("Expected error response")
	}
	if resp.Error.Code != -32000 {
		t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
	}
}

type synthesisResponse struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	MeanColor   struct {
		Hex string `json:"hex"`
	} `json:"mean_color"`
	Algorithm  string `json:"algorithm"`
	OutputPath string `json:"output_path"`
}

func TestHandleToolsCall_ImageLoad(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 100, 80, color.RGBA{255, 0, 0, 255})

	var info struct {
		Width  int    `json:"width"`
		Height int    `json:"height"`
		Format string `json:"format"`
	}
	decodeToolResult(t, callTool(t, s, "image_load", map[string]interface{}{"path": imgPath}), &info)

	if info.Width != 100 || info.Height != 80 {
		t.Errorf("dimensions: got %dx%d, want 100x80", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("format: got %q, want png", info.Format)
	}
}

func TestHandleToolsCall_ImageDimensions(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 200, 150, color.RGBA{0, 255, 0, 255})

	var dims struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	}
	decodeToolResult(t, callTool(t, s, "image_dimensions", map[string]interface{}{"path": imgPath}), &dims)

	if dims.Width != 200 || dims.Height != 150 {
		t.Errorf("dimensions: got %dx%d, want 200x150", dims.Width, dims.Height)
	}
}

func TestHandleToolsCall_ImageCrop(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 100, 100, color.RGBA{0, 0, 255, 255})

	tests := []struct {
		name       string
		args       map[string]interface{}
		wantW      int
		wantH      int
		wantFailed bool
	}{
		{
			name: "region",
			args: map[string]interface{}{
				"path":   imgPath,
				"region": map[string]int{"x1": 10, "y1": 20, "x2": 40, "y2": 30},
			},
			wantW: 30,
			wantH: 10,
		},
		{
			name: "scaled",
			args: map[string]interface{}{
				"path":   imgPath,
				"region": map[string]int{"x1": 0, "y1": 0, "x2": 50, "y2": 50},
				"scale":  2.0,
			},
			wantW: 100,
			wantH: 100,
		},
		{
			name:       "missing region",
			args:       map[string]interface{}{"path": imgPath},
			wantFailed: true,
		},
		{
			name: "region outside image",
			args: map[string]interface{}{
				"path":   imgPath,
				"region": map[string]int{"x1": 90, "y1": 90, "x2": 110, "y2": 110},
			},
			wantFailed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := callTool(t, s, "image_crop", tt.args)
			if tt.wantFailed {
				expectToolError(t, resp)
				return
			}

			var res synthesisResponse
			decodeToolResult(t, resp, &res)
			if res.Width != tt.wantW || res.Height != tt.wantH {
				t.Errorf("size: got %dx%d, want %dx%d", res.Width, res.Height, tt.wantW, tt.wantH)
			}
			if res.MeanColor.Hex != "#0000ff" {
				t.Errorf("mean colour: got %s, want #0000ff", res.MeanColor.Hex)
			}
		})
	}
}

func TestHandleToolsCall_TextureQuilt(t *testing.T) {
	s := New()
	imgPath := createNoiseImageFile(t, 16, 16)

	var res synthesisResponse
	decodeToolResult(t, callTool(t, s, "texture_quilt", map[string]interface{}{
		"path":        imgPath,
		"width":       30,
		"height":      22,
		"patch_size":  8,
		"overlap":     2,
		"random_seed": 1,
	}), &res)

	if res.Width != 30 || res.Height != 22 {
		t.Errorf("size: got %dx%d, want 30x22", res.Width, res.Height)
	}
	if res.Algorithm != "quilt" {
		t.Errorf("algorithm: got %q, want quilt", res.Algorithm)
	}
	if res.MimeType != "image/png" {
		t.Errorf("mime type: got %q, want image/png", res.MimeType)
	}
	if res.ImageBase64 == "" {
		t.Error("image_base64 is empty")
	}
}

func TestHandleToolsCall_TextureQuiltDefaults(t *testing.T) {
	s := New()
	// Smaller than the default patch size, which must shrink to fit.
	imgPath := createTestImageFile(t, 12, 12, color.RGBA{40, 80, 120, 255})

	var res synthesisResponse
	decodeToolResult(t, callTool(t, s, "texture_quilt", map[string]interface{}{
		"path":   imgPath,
		"width":  20,
		"height": 20,
	}), &res)

	if res.Width != 20 || res.Height != 20 {
		t.Errorf("size: got %dx%d, want 20x20", res.Width, res.Height)
	}
	if res.MeanColor.Hex != "#285078" {
		t.Errorf("uniform sample should quilt to a uniform result, mean %s", res.MeanColor.Hex)
	}
}

func TestHandleToolsCall_TextureQuiltOutputAndGrid(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 16, 16, color.RGBA{0, 0, 0, 255})
	outPath := filepath.Join(t.TempDir(), "out.png")

	var res synthesisResponse
	decodeToolResult(t, callTool(t, s, "texture_quilt", map[string]interface{}{
		"path":            imgPath,
		"width":           24,
		"height":          24,
		"patch_size":      8,
		"overlap":         2,
		"show_patch_grid": true,
		"grid_color":      "#00FF00",
		"output_path":     outPath,
	}), &res)

	if res.OutputPath != outPath {
		t.Errorf("output_path: got %q, want %q", res.OutputPath, outPath)
	}
	// The grid only decorates the preview; the saved file stays black.
	if res.MeanColor.Hex == "#000000" {
		t.Error("preview should carry the grid overlay")
	}

	f, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("output file not written: %v", err)
	}
	defer f.Close()
	saved, err := png.Decode(f)
	if err != nil {
		t.Fatalf("failed to decode output: %v", err)
	}
	if saved.Bounds().Dx() != 24 || saved.Bounds().Dy() != 24 {
		t.Errorf("saved size: got %v, want 24x24", saved.Bounds())
	}
	for y := 0; y < 24; y++ {
		for x := 0; x < 24; x++ {
			if r, g, b, _ := saved.At(x, y).RGBA(); r|g|b != 0 {
				t.Fatalf("saved pixel (%d,%d) is not black", x, y)
			}
		}
	}
}

func TestHandleToolsCall_TextureQuiltInvalid(t *testing.T) {
	s := New()
	imgPath := createNoiseImageFile(t, 16, 16)

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"overlap too large", map[string]interface{}{"path": imgPath, "width": 20, "height": 20, "patch_size": 4, "overlap": 3}},
		{"patch larger than sample", map[string]interface{}{"path": imgPath, "width": 20, "height": 20, "patch_size": 20, "overlap": 4}},
		{"zero width", map[string]interface{}{"path": imgPath, "width": 0, "height": 20}},
		{"unknown distance", map[string]interface{}{"path": imgPath, "width": 20, "height": 20, "distance": "lab"}},
		{"half a seed", map[string]interface{}{"path": imgPath, "width": 20, "height": 20, "seed_x": 1}},
		{"output too large", map[string]interface{}{"path": imgPath, "width": 100000, "height": 100000}},
		{"selection chance out of range", map[string]interface{}{"path": imgPath, "width": 20, "height": 20, "selection_chance": 1.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectToolError(t, callTool(t, s, "texture_quilt", tt.args))
		})
	}
}

func TestHandleToolsCall_TextureGrow(t *testing.T) {
	s := New()
	imgPath := createNoiseImageFile(t, 8, 8)

	var res synthesisResponse
	decodeToolResult(t, callTool(t, s, "texture_grow", map[string]interface{}{
		"path":        imgPath,
		"width":       7,
		"height":      6,
		"window_size": 3,
		"random_seed": 3,
	}), &res)

	if res.Width != 7 || res.Height != 6 {
		t.Errorf("size: got %dx%d, want 7x6", res.Width, res.Height)
	}
	if res.Algorithm != "grow" {
		t.Errorf("algorithm: got %q, want grow", res.Algorithm)
	}
}

func TestHandleToolsCall_TextureGrowInvalid(t *testing.T) {
	s := New()
	imgPath := createNoiseImageFile(t, 8, 8)

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"even window", map[string]interface{}{"path": imgPath, "width": 6, "height": 6, "window_size": 4}},
		{"output too small", map[string]interface{}{"path": imgPath, "width": 2, "height": 6}},
		{"output too large", map[string]interface{}{"path": imgPath, "width": maxOutputPixels, "height": 2}},
		{"seed outside sample", map[string]interface{}{"path": imgPath, "width": 6, "height": 6, "seed_x": 6, "seed_y": 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectToolError(t, callTool(t, s, "texture_grow", tt.args))
		})
	}
}

func TestHandleToolsCall_NonExistentFile(t *testing.T) {
	s := New()

	for _, tool := range []string{"image_load", "image_dimensions", "texture_quilt", "texture_grow"} {
		t.Run(tool, func(t *testing.T) {
			resp := callTool(t, s, tool, map[string]interface{}{
				"path":   "/nonexistent/sample.png",
				"width":  10,
				"height": 10,
			})
			expectToolError(t, resp)
		})
	}
}

func TestHandleToolsCall_InvalidTool(t *testing.T) {
	s := New()
	resp := callTool(t, s, "image_detect_text", map[string]interface{}{})
	expectToolError(t, resp)
	if resp.Error.Data != "unknown tool: image_detect_text" {
		t.Errorf("Error data: got %q", resp.Error.Data)
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := New()
	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`"not an object"`),
	})
	if resp.Error == nil || resp.Error.Code != -32602 {
		t.Errorf("expected -32602, got %+v", resp.Error)
	}
}

func TestSynthesisArgsCheckSize(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantErr       bool
	}{
		{"small", 64, 64, false},
		{"at the limit", 4096, 4096, false},
		{"one row over", 4096, 4097, true},
		{"huge", 100000, 100000, true},
		{"zero is left to parameter validation", 0, 100000, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := synthesisArgs{Width: tt.width, Height: tt.height}.checkSize()
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSynthesisArgsSeed(t *testing.T) {
	one, two := 1, 2
	tests := []struct {
		name    string
		args    synthesisArgs
		want    *image.Point
		wantErr bool
	}{
		{"none", synthesisArgs{}, nil, false},
		{"both", synthesisArgs{SeedX: &one, SeedY: &two}, &image.Point{X: 1, Y: 2}, false},
		{"only x", synthesisArgs{SeedX: &one}, nil, true},
		{"only y", synthesisArgs{SeedY: &two}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.args.seed()
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			switch {
			case got == nil && tt.want == nil:
			case got == nil || tt.want == nil || *got != *tt.want:
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
