package server

import "github.com/ironsheep/pill-counter-mcp/internal/ocr"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// imageSourceProperties is the shared input contract for tools that accept a
// photograph either as a file path or as inline base64 bytes. Exactly one of
// the two must be supplied.
func imageSourceProperties() map[string]interface{} {
	return map[string]interface{}{
		"image_path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to the photograph file (PNG, JPEG, or GIF)",
		},
		"image_base64": map[string]interface{}{
			"type":        "string",
			"description": "Base64-encoded photograph bytes, as an alternative to image_path",
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	countProps := imageSourceProperties()
	for k, v := range map[string]interface{}{
		// Region
		"region_shape": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"circle", "rect"},
			"description": "Trusted-region shape: circle (spotlight mask) or rect (concentric crop). Default circle",
		},
		"region_extent": map[string]interface{}{
			"type":        "number",
			"description": "Fraction of the frame kept for analysis, in (0, 1]. Default 0.7",
		},

		// Channel conditioning
		"channel": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"red", "green", "blue", "auto"},
			"description": "Color channel used as the scalar signal. auto picks the channel with the greatest dispersion over the trusted region. Default green",
		},
		"clip_limit": map[string]interface{}{
			"type":        "number",
			"description": "Contrast-limited equalization aggressiveness, > 0; 0 disables. Default 5.0",
		},
		"blur_kernel": map[string]interface{}{
			"type":        "integer",
			"description": "Odd Gaussian kernel width for texture suppression; 1 disables. Default 15",
		},

		// Binarization
		"binarize": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"otsu", "fixed", "adaptive", "hsv-range"},
			"description": "Thresholding strategy. Default otsu",
		},
		"threshold": map[string]interface{}{
			"type":        "integer",
			"description": "Fixed-mode cutoff, 0-255. Default 127",
		},
		"block_size": map[string]interface{}{
			"type":        "integer",
			"description": "Adaptive-mode neighborhood width, odd and >= 3. Default 31",
		},
		"c": map[string]interface{}{
			"type":        "number",
			"description": "Adaptive-mode offset subtracted from the local mean. Default 5",
		},
		"inverse": map[string]interface{}{
			"type":        "boolean",
			"description": "Flip polarity: foreground is below the cutoff (dark pills on light background). Default false",
		},
		"hue_min":  map[string]interface{}{"type": "number", "description": "hsv-range hue lower bound in degrees, 0-360. min > max wraps through 0"},
		"hue_max":  map[string]interface{}{"type": "number", "description": "hsv-range hue upper bound in degrees, 0-360"},
		"sat_min":  map[string]interface{}{"type": "number", "description": "hsv-range saturation lower bound, 0-1"},
		"sat_max":  map[string]interface{}{"type": "number", "description": "hsv-range saturation upper bound, 0-1"},
		"val_min":  map[string]interface{}{"type": "number", "description": "hsv-range value lower bound, 0-1"},
		"val_max":  map[string]interface{}{"type": "number", "description": "hsv-range value upper bound, 0-1"},
		"open_radius": map[string]interface{}{
			"type":        "number",
			"description": "Morphological opening radius to remove speck noise; 0 disables. Default 0",
		},
		"close_radius": map[string]interface{}{
			"type":        "number",
			"description": "Morphological closing radius to patch small holes; 0 disables. Default 0",
		},
		"close_iterations": map[string]interface{}{
			"type":        "integer",
			"description": "Number of closing passes. Default 0",
		},
		"fill_holes": map[string]interface{}{
			"type":        "boolean",
			"description": "Patch every fully enclosed hole after closing. Default false",
		},

		// Separation
		"separate": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"distance", "hough"},
			"description": "How touching pills are split: distance (transform + peaks) or hough (geometric circle fit). Default distance",
		},
		"peaks": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"threshold", "maxima"},
			"description": "Distance-mode peak extraction rule. Default threshold",
		},
		"tau": map[string]interface{}{
			"type":        "number",
			"description": "Peak cutoff as a fraction of the maximum distance, in (0, 1). Default 0.5",
		},
		"min_dist": map[string]interface{}{
			"type":        "integer",
			"description": "Minimum center separation in pixels. Default 20",
		},
		"min_peak_area": map[string]interface{}{
			"type":        "integer",
			"description": "Discard peak regions below this pixel count. Default 0",
		},
		"r_min": map[string]interface{}{
			"type":        "integer",
			"description": "Hough radius search lower bound. Default 10",
		},
		"r_max": map[string]interface{}{
			"type":        "integer",
			"description": "Hough radius search upper bound. Default 60",
		},

		// Filtering
		"filter": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"fixed", "group"},
			"description": "Candidate acceptance rule: fixed geometric bounds or group statistics. Default fixed",
		},
		"min_area": map[string]interface{}{
			"type":        "number",
			"description": "Minimum candidate pixel area. Default 10",
		},
		"max_area": map[string]interface{}{
			"type":        "number",
			"description": "Maximum candidate pixel area; 0 disables the ceiling. Default 0",
		},
		"min_circularity": map[string]interface{}{
			"type":        "number",
			"description": "Reject shapes below this circularity (1.0 = perfect disc); 0 disables. Default 0",
		},
		"max_center_frac": map[string]interface{}{
			"type":        "number",
			"description": "Reject centroids beyond this fraction of the trusted-region radius from its center, in (0, 1]. Default 0.9",
		},

		"include_debug": map[string]interface{}{
			"type":        "boolean",
			"description": "Attach base64 PNG snapshots of the intermediate stages (spotlight, signal, binary, distance) to the result",
		},
	} {
		countProps[k] = v
	}

	tools := []Tool{
		{
			Name:        "pill_count",
			Description: "Count the pills in a photograph. Returns the count, per-pill geometry and color, and an annotated image with numbered markers. All tuning parameters are optional; the defaults suit a centered pile of light pills on a dark tray.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": countProps,
			},
		},
		{
			Name:        "pill_image_info",
			Description: "Load a photograph and return its dimensions, format, and file size. Caches the decoded image so a follow-up pill_count on the same path is free.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the photograph file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "pill_crop_detection",
			Description: "Extract a close-up of one counted pill, centered on its reported centroid and sized to its radius. Use after pill_count to inspect an individual detection.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": cropDetectionProperties(),
				"required":   []string{"x", "y"},
			},
		},
	}

	if ocr.Available() {
		tools = append(tools, Tool{
			Name:        "pill_read_imprint",
			Description: "Read the imprint code stamped on one counted pill using OCR. Best effort; embossed imprints often defeat recognition. Upscaling via the scale parameter helps.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": cropDetectionProperties(),
				"required":   []string{"x", "y"},
			},
		})
	}

	return tools
}

// cropDetectionProperties is shared by pill_crop_detection and
// pill_read_imprint, which both operate on a close-up window around one
// detection.
func cropDetectionProperties() map[string]interface{} {
	props := imageSourceProperties()
	for k, v := range map[string]interface{}{
		"x": map[string]interface{}{
			"type":        "integer",
			"description": "Detection centroid X in original-frame coordinates, as reported by pill_count",
		},
		"y": map[string]interface{}{
			"type":        "integer",
			"description": "Detection centroid Y in original-frame coordinates",
		},
		"radius": map[string]interface{}{
			"type":        "integer",
			"description": "Detection radius in pixels; small values are widened so the close-up stays usable. Default 12",
		},
		"scale": map[string]interface{}{
			"type":        "number",
			"description": "Output scale factor (e.g. 2.0 to double size). Default 1.0",
		},
	} {
		props[k] = v
	}
	return props
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
