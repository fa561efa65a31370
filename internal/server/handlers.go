package server

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"

	"github.com/ironsheep/pill-counter-mcp/internal/imaging"
	"github.com/ironsheep/pill-counter-mcp/internal/ocr"
	"github.com/ironsheep/pill-counter-mcp/internal/pill"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "pill_count").
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

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
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
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads the photograph from cache or inline bytes
//  4. Calls into the pill/imaging/ocr packages
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "pill_count":
		return s.handlePillCount(args)
	case "pill_image_info":
		return s.handlePillImageInfo(args)
	case "pill_crop_detection":
		return s.handlePillCropDetection(args)
	case "pill_read_imprint":
		return s.handlePillReadImprint(args)
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
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// imageSourceArgs is embedded by every tool that accepts a photograph either
// by path or as inline base64 bytes.
type imageSourceArgs struct {
	ImagePath   string `json:"image_path"`
	ImageBase64 string `json:"image_base64"`
}

// loadFrame resolves an image source to a decoded frame. Path sources go
// through the cache; inline sources are decoded fresh each call.
func (s *Server) loadFrame(src imageSourceArgs) (image.Image, error) {
	switch {
	case src.ImagePath != "" && src.ImageBase64 != "":
		return nil, fmt.Errorf("supply image_path or image_base64, not both")
	case src.ImagePath != "":
		return s.cache.Load(src.ImagePath)
	case src.ImageBase64 != "":
		data, err := base64.StdEncoding.DecodeString(src.ImageBase64)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 image data: %w", err)
		}
		return imaging.DecodeBytes(data)
	default:
		return nil, fmt.Errorf("supply image_path or image_base64")
	}
}

// === pill_count ===

// pillCountArgs mirrors the flat tool schema. Every tuning field is a
// pointer so an absent argument falls back to the default tuning rather than
// a zero value; the pipeline itself validates the merged configuration.
type pillCountArgs struct {
	imageSourceArgs

	RegionShape  *string  `json:"region_shape"`
	RegionExtent *float64 `json:"region_extent"`

	Channel    *string  `json:"channel"`
	ClipLimit  *float64 `json:"clip_limit"`
	BlurKernel *int     `json:"blur_kernel"`

	Binarize  *string  `json:"binarize"`
	Threshold *int     `json:"threshold"`
	BlockSize *int     `json:"block_size"`
	C         *float64 `json:"c"`
	Inverse   *bool    `json:"inverse"`

	HueMin *float64 `json:"hue_min"`
	HueMax *float64 `json:"hue_max"`
	SatMin *float64 `json:"sat_min"`
	SatMax *float64 `json:"sat_max"`
	ValMin *float64 `json:"val_min"`
	ValMax *float64 `json:"val_max"`

	OpenRadius      *float64 `json:"open_radius"`
	CloseRadius     *float64 `json:"close_radius"`
	CloseIterations *int     `json:"close_iterations"`
	FillHoles       *bool    `json:"fill_holes"`

	Separate    *string  `json:"separate"`
	Peaks       *string  `json:"peaks"`
	Tau         *float64 `json:"tau"`
	MinDist     *int     `json:"min_dist"`
	MinPeakArea *int     `json:"min_peak_area"`
	RMin        *int     `json:"r_min"`
	RMax        *int     `json:"r_max"`

	Filter         *string  `json:"filter"`
	MinArea        *float64 `json:"min_area"`
	MaxArea        *float64 `json:"max_area"`
	MinCircularity *float64 `json:"min_circularity"`
	MaxCenterFrac  *float64 `json:"max_center_frac"`

	IncludeDebug bool `json:"include_debug"`
}

// toConfig overlays the supplied arguments on the default tuning. Validation
// happens inside the pipeline, not here, so out-of-domain values surface as
// the pipeline's own configuration errors.
func (a *pillCountArgs) toConfig() pill.Config {
	cfg := pill.DefaultConfig()

	setString(&cfg.Region.Shape, a.RegionShape)
	setFloat(&cfg.Region.Extent, a.RegionExtent)

	setString(&cfg.Channel.Mode, a.Channel)
	setFloat(&cfg.Channel.ClipLimit, a.ClipLimit)
	setInt(&cfg.Channel.BlurKernel, a.BlurKernel)

	setString(&cfg.Binarize.Mode, a.Binarize)
	setInt(&cfg.Binarize.Threshold, a.Threshold)
	setInt(&cfg.Binarize.BlockSize, a.BlockSize)
	setFloat(&cfg.Binarize.C, a.C)
	setBool(&cfg.Binarize.Inverse, a.Inverse)

	setFloat(&cfg.Binarize.HSV.HueMin, a.HueMin)
	setFloat(&cfg.Binarize.HSV.HueMax, a.HueMax)
	setFloat(&cfg.Binarize.HSV.SatMin, a.SatMin)
	setFloat(&cfg.Binarize.HSV.SatMax, a.SatMax)
	setFloat(&cfg.Binarize.HSV.ValMin, a.ValMin)
	setFloat(&cfg.Binarize.HSV.ValMax, a.ValMax)

	setFloat(&cfg.Binarize.OpenRadius, a.OpenRadius)
	setFloat(&cfg.Binarize.CloseRadius, a.CloseRadius)
	setInt(&cfg.Binarize.CloseIterations, a.CloseIterations)
	setBool(&cfg.Binarize.FillHoles, a.FillHoles)

	setString(&cfg.Separate.Mode, a.Separate)
	setString(&cfg.Separate.Peaks, a.Peaks)
	setFloat(&cfg.Separate.Tau, a.Tau)
	setInt(&cfg.Separate.MinDist, a.MinDist)
	setInt(&cfg.Separate.MinPeakArea, a.MinPeakArea)
	setInt(&cfg.Separate.RMin, a.RMin)
	setInt(&cfg.Separate.RMax, a.RMax)

	setString(&cfg.Filter.Mode, a.Filter)
	setFloat(&cfg.Filter.MinArea, a.MinArea)
	setFloat(&cfg.Filter.MaxArea, a.MaxArea)
	setFloat(&cfg.Filter.MinCircularity, a.MinCircularity)
	setFloat(&cfg.Filter.MaxCenterFrac, a.MaxCenterFrac)

	cfg.Debug = a.IncludeDebug
	return cfg
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func (s *Server) handlePillCount(args json.RawMessage) (interface{}, error) {
	var a pillCountArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	frame, err := s.loadFrame(a.imageSourceArgs)
	if err != nil {
		return nil, err
	}
	return pill.Count(frame, a.toConfig())
}

// === pill_image_info ===

type pillImageInfoArgs struct {
	Path string `json:"path"`
}

func (s *Server) handlePillImageInfo(args json.RawMessage) (interface{}, error) {
	var a pillImageInfoArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

// === pill_crop_detection / pill_read_imprint ===

type cropDetectionArgs struct {
	imageSourceArgs
	X      int     `json:"x"`
	Y      int     `json:"y"`
	Radius int     `json:"radius"`
	Scale  float64 `json:"scale"`
}

func (s *Server) handlePillCropDetection(args json.RawMessage) (interface{}, error) {
	var a cropDetectionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	frame, err := s.loadFrame(a.imageSourceArgs)
	if err != nil {
		return nil, err
	}
	return imaging.CropDetection(frame, a.X, a.Y, a.Radius, a.Scale)
}

// handlePillReadImprint crops the detection close-up, then hands the pixels
// to the OCR engine. A default 2x upscale noticeably improves recognition of
// the small imprint glyphs.
func (s *Server) handlePillReadImprint(args json.RawMessage) (interface{}, error) {
	var a cropDetectionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 2.0
	}
	frame, err := s.loadFrame(a.imageSourceArgs)
	if err != nil {
		return nil, err
	}

	closeup, err := imaging.CropDetectionImage(frame, a.X, a.Y, a.Radius, a.Scale)
	if err != nil {
		return nil, err
	}
	return ocr.ReadImprint(closeup)
}
