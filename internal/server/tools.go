package server

import "fmt"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the sample image file",
	}
}

func regionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": "Optional sample rectangle; the whole image is used when omitted",
		"properties": map[string]interface{}{
			"x1": map[string]interface{}{"type": "integer", "description": "Left edge X coordinate (0-based)"},
			"y1": map[string]interface{}{"type": "integer", "description": "Top edge Y coordinate (0-based)"},
			"x2": map[string]interface{}{"type": "integer", "description": "Right edge X coordinate (exclusive)"},
			"y2": map[string]interface{}{"type": "integer", "description": "Bottom edge Y coordinate (exclusive)"},
		},
		"required": []string{"x1", "y1", "x2", "y2"},
	}
}

// synthesisProperties are shared by both synthesis tools.
func synthesisProperties() map[string]interface{} {
	return map[string]interface{}{
		"path":   pathProperty(),
		"region": regionProperty(),
		"width": map[string]interface{}{
			"type":        "integer",
			"description": fmt.Sprintf("Output width in pixels (width*height at most %d)", maxOutputPixels),
		},
		"height": map[string]interface{}{
			"type":        "integer",
			"description": fmt.Sprintf("Output height in pixels (width*height at most %d)", maxOutputPixels),
		},
		"seed_x": map[string]interface{}{
			"type":        "integer",
			"description": "Optional X of the seed block in the sample (random when omitted)",
		},
		"seed_y": map[string]interface{}{
			"type":        "integer",
			"description": "Optional Y of the seed block in the sample (random when omitted)",
		},
		"random_seed": map[string]interface{}{
			"type":        "integer",
			"description": "Optional random seed for a reproducible result",
		},
		"scale": map[string]interface{}{
			"type":        "number",
			"description": "Optional scale factor applied to the returned image. Default 1.0",
			"default":     1.0,
		},
		"output_path": map[string]interface{}{
			"type":        "string",
			"description": "Optional path to also write the unscaled result as PNG",
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	quilt := synthesisProperties()
	quilt["patch_size"] = map[string]interface{}{
		"type":        "integer",
		"description": "Side of the square patches copied from the sample. Default min(32, sample size)",
	}
	quilt["overlap"] = map[string]interface{}{
		"type":        "integer",
		"description": "Width of the band shared by neighbouring patches, at most patch_size/2. Default patch_size/4",
	}
	quilt["selection_chance"] = map[string]interface{}{
		"type":        "number",
		"description": "Optional probability in (0,1) of skipping each candidate patch; speeds up large samples",
	}
	quilt["distance"] = map[string]interface{}{
		"type":        "string",
		"enum":        []string{"l1", "l2"},
		"description": "Pixel distance used to score overlaps. Default l2",
		"default":     "l2",
	}
	quilt["show_patch_grid"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Draw the patch grid over the returned image",
		"default":     false,
	}
	quilt["grid_color"] = map[string]interface{}{
		"type":        "string",
		"description": "Grid color as #RRGGBB. Default #FF0000",
		"default":     "#FF0000",
	}

	grow := synthesisProperties()
	grow["window_size"] = map[string]interface{}{
		"type":        "integer",
		"description": "Odd side of the neighbourhood compared for each pixel. Default 11",
		"default":     11,
	}

	return []Tool{
		// Sample Information
		{
			Name:        "image_load",
			Description: "Load a sample image and return its dimensions and format.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{"path": pathProperty()},
				"required":   []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{"path": pathProperty()},
				"required":   []string{"path"},
			},
		},
		{
			Name:        "image_crop",
			Description: "Preview a sample region as base64-encoded PNG before synthesizing from it.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty(),
					"region": regionProperty(),
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 4.0 to enlarge a small sample). Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path", "region"},
			},
		},

		// Texture Synthesis
		{
			Name:        "texture_quilt",
			Description: "Synthesize a larger texture from a sample by stitching overlapping patches along minimum-error seams (image quilting). Fast; best for structured textures.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": quilt,
				"required":   []string{"path", "width", "height"},
			},
		},
		{
			Name:        "texture_grow",
			Description: "Synthesize a texture pixel by pixel, growing outward from a 3x3 seed by neighbourhood matching. Slow; keep outputs small.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": grow,
				"required":   []string{"path", "width", "height"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
