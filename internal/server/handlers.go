package server

import (
	"encoding/json"
	"fmt"
	"image"
	"log"
	"time"

	"github.com/ironsheep/texture-synth-mcp/internal/imaging"
	"github.com/ironsheep/texture-synth-mcp/internal/synthesis"
)

// Defaults applied when a synthesis argument is omitted.
const (
	defaultPatchSize  = 32
	defaultWindowSize = 11
	defaultGridColor  = "#FF0000"
)

// maxOutputPixels caps the synthesized area a client may request, so a
// single call cannot exhaust the server's memory.
const maxOutputPixels = 4096 * 4096

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "texture_quilt").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		if s.debug {
			log.Printf("tool %s failed after %v: %v", params.Name, time.Since(start), err)
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	if s.debug {
		log.Printf("tool %s finished in %v", params.Name, time.Since(start))
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Sample Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "image_crop":
		return s.handleImageCrop(args)

	// Texture Synthesis
	case "texture_quilt":
		return s.handleTextureQuilt(args)
	case "texture_grow":
		return s.handleTextureGrow(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Sample Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

type imageCropArgs struct {
	Path   string          `json:"path"`
	Region *imaging.Region `json:"region"`
	Scale  float64         `json:"scale"`
}

func (s *Server) handleImageCrop(args json.RawMessage) (interface{}, error) {
	var a imageCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Region == nil {
		return nil, fmt.Errorf("region is required")
	}
	sample, err := s.loadSample(a.Path, a.Region)
	if err != nil {
		return nil, err
	}
	return imaging.EncodeResult(sample, defaultScale(a.Scale))
}

// === Texture Synthesis Handlers ===

// SynthesisResult is returned by the synthesis tools.
type SynthesisResult struct {
	*imaging.ImageResult
	Algorithm  string `json:"algorithm"`
	ElapsedMs  int64  `json:"elapsed_ms"`
	OutputPath string `json:"output_path,omitempty"`
}

// synthesisArgs are shared by texture_quilt and texture_grow.
type synthesisArgs struct {
	Path       string          `json:"path"`
	Region     *imaging.Region `json:"region,omitempty"`
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	SeedX      *int            `json:"seed_x,omitempty"`
	SeedY      *int            `json:"seed_y,omitempty"`
	RandomSeed *int64          `json:"random_seed,omitempty"`
	Scale      float64         `json:"scale"`
	OutputPath string          `json:"output_path,omitempty"`
}

// checkSize rejects outputs above maxOutputPixels before any work is done.
func (a synthesisArgs) checkSize() error {
	if a.Width > 0 && a.Height > 0 && int64(a.Width)*int64(a.Height) > maxOutputPixels {
		return fmt.Errorf("output %dx%d exceeds the limit of %d pixels", a.Width, a.Height, maxOutputPixels)
	}
	return nil
}

// seed returns the seed point when both coordinates are given.
func (a synthesisArgs) seed() (*image.Point, error) {
	switch {
	case a.SeedX == nil && a.SeedY == nil:
		return nil, nil
	case a.SeedX == nil || a.SeedY == nil:
		return nil, fmt.Errorf("seed_x and seed_y must be given together")
	default:
		return &image.Point{X: *a.SeedX, Y: *a.SeedY}, nil
	}
}

type textureQuiltArgs struct {
	synthesisArgs
	PatchSize       int      `json:"patch_size"`
	Overlap         int      `json:"overlap"`
	SelectionChance *float64 `json:"selection_chance,omitempty"`
	Distance        string   `json:"distance"`
	ShowPatchGrid   bool     `json:"show_patch_grid"`
	GridColor       string   `json:"grid_color"`
}

func (s *Server) handleTextureQuilt(args json.RawMessage) (interface{}, error) {
	var a textureQuiltArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if err := a.checkSize(); err != nil {
		return nil, err
	}
	sample, err := s.loadSample(a.Path, a.Region)
	if err != nil {
		return nil, err
	}

	if a.PatchSize == 0 {
		b := sample.Bounds()
		a.PatchSize = min(defaultPatchSize, b.Dx(), b.Dy())
	}
	if a.Overlap == 0 {
		a.Overlap = max(1, a.PatchSize/4)
	}
	if a.GridColor == "" {
		a.GridColor = defaultGridColor
	}

	dist, err := synthesis.DistanceByName(a.Distance)
	if err != nil {
		return nil, err
	}
	seed, err := a.seed()
	if err != nil {
		return nil, err
	}
	params, err := synthesis.NewQuilterParams(image.Pt(a.Width, a.Height), a.PatchSize, a.Overlap, seed, a.SelectionChance, dist)
	if err != nil {
		return nil, err
	}

	q := synthesis.NewQuilter(sample, params)
	if a.RandomSeed != nil {
		q.SetRandomSeed(*a.RandomSeed)
	}

	start := time.Now()
	out, err := q.QuiltImage()
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	preview := image.Image(out)
	if a.ShowPatchGrid {
		if preview, err = imaging.PatchGridOverlay(out, params.Step(), a.GridColor); err != nil {
			return nil, err
		}
	}
	return s.finishSynthesis("quilt", out, preview, elapsed, a.synthesisArgs)
}

type textureGrowArgs struct {
	synthesisArgs
	WindowSize int `json:"window_size"`
}

func (s *Server) handleTextureGrow(args json.RawMessage) (interface{}, error) {
	var a textureGrowArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if err := a.checkSize(); err != nil {
		return nil, err
	}
	if a.WindowSize == 0 {
		a.WindowSize = defaultWindowSize
	}
	sample, err := s.loadSample(a.Path, a.Region)
	if err != nil {
		return nil, err
	}

	seed, err := a.seed()
	if err != nil {
		return nil, err
	}
	params, err := synthesis.NewPixelSearchParams(image.Pt(a.Width, a.Height), a.WindowSize, seed)
	if err != nil {
		return nil, err
	}
	ps, err := synthesis.NewPixelSearch(sample, params)
	if err != nil {
		return nil, err
	}
	if a.RandomSeed != nil {
		ps.SetRandomSeed(*a.RandomSeed)
	}

	start := time.Now()
	out, err := ps.Synthesize()
	if err != nil {
		return nil, err
	}
	return s.finishSynthesis("grow", out, out, time.Since(start), a.synthesisArgs)
}

// loadSample loads path through the cache and cuts out the sample region.
func (s *Server) loadSample(path string, region *imaging.Region) (image.Image, error) {
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleRegion(img, region)
}

// finishSynthesis writes the result to disk if requested and encodes the
// preview for the client.
func (s *Server) finishSynthesis(algorithm string, out, preview image.Image, elapsed time.Duration, a synthesisArgs) (*SynthesisResult, error) {
	if a.OutputPath != "" {
		if err := imaging.SavePNG(out, a.OutputPath); err != nil {
			return nil, err
		}
	}

	encoded, err := imaging.EncodeResult(preview, defaultScale(a.Scale))
	if err != nil {
		return nil, err
	}
	if s.debug {
		log.Printf("%s: %dx%d in %v", algorithm, out.Bounds().Dx(), out.Bounds().Dy(), elapsed)
	}

	return &SynthesisResult{
		ImageResult: encoded,
		Algorithm:   algorithm,
		ElapsedMs:   elapsed.Milliseconds(),
		OutputPath:  a.OutputPath,
	}, nil
}

func defaultScale(scale float64) float64 {
	if scale == 0 {
		return 1.0
	}
	return scale
}
