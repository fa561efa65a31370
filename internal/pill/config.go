package pill

import (
	"fmt"

	"github.com/ironsheep/pill-counter-mcp/internal/detection"
)

// ConfigError reports a configuration value outside its valid domain. Every
// option is checked up front by Config.Validate, before any pipeline stage
// executes, so a bad value can never surface as a half-processed result.
type ConfigError struct {
	// Option is the dotted option name, e.g. "blur.kernel".
	Option string

	// Reason describes the violated constraint.
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Option, e.Reason)
}

// Region shape, channel, binarize, separate, peak, and filter mode names
// accepted by the configuration.
const (
	ShapeCircle = "circle"
	ShapeRect   = "rect"

	ChannelRed   = "red"
	ChannelGreen = "green"
	ChannelBlue  = "blue"
	ChannelAuto  = "auto"

	BinarizeOtsu     = "otsu"
	BinarizeFixed    = "fixed"
	BinarizeAdaptive = "adaptive"
	BinarizeHSVRange = "hsv-range"

	SeparateDistance = "distance"
	SeparateHough    = "hough"

	PeaksThreshold = "threshold"
	PeaksMaxima    = "maxima"

	FilterFixed = "fixed"
	FilterGroup = "group"
)

// RegionConfig restricts analysis to a trusted sub-area of the frame.
type RegionConfig struct {
	// Shape is circle (spotlight mask) or rect (concentric crop).
	Shape string `json:"shape"`

	// Extent is the fraction of the frame kept, in (0, 1]. For circles the
	// trusted radius is extent x min(H, W)/2.
	Extent float64 `json:"extent"`
}

// ChannelConfig selects and conditions the scalar signal fed to
// binarization.
type ChannelConfig struct {
	// Mode picks the channel: red, green, blue, or auto (greatest
	// dispersion over the trusted region wins).
	Mode string `json:"mode"`

	// ClipLimit is the contrast-limited equalization aggressiveness, > 0.
	// Zero disables equalization.
	ClipLimit float64 `json:"clip_limit"`

	// BlurKernel is the odd Gaussian kernel width for texture
	// suppression. 1 disables smoothing. Even values are rejected.
	BlurKernel int `json:"blur_kernel"`
}

// BinarizeConfig chooses the thresholding strategy and morphological
// cleanup.
type BinarizeConfig struct {
	// Mode is otsu, fixed, adaptive, or hsv-range.
	Mode string `json:"mode"`

	// Threshold is the fixed-mode cutoff, 0-255.
	Threshold int `json:"threshold"`

	// BlockSize is the adaptive-mode neighborhood width, odd and >= 3.
	BlockSize int `json:"block_size"`

	// C is the adaptive-mode offset subtracted from the local mean.
	C float64 `json:"c"`

	// Inverse flips polarity: foreground is below the cutoff. For dark
	// pills on a light background.
	Inverse bool `json:"inverse"`

	// HSV is the hsv-range mode's interval box.
	HSV detection.HSVRange `json:"hsv"`

	// OpenRadius, when > 0, applies morphological opening to remove
	// speck noise.
	OpenRadius float64 `json:"open_radius"`

	// CloseRadius and CloseIterations, when > 0, apply repeated
	// morphological closing to patch small holes.
	CloseRadius     float64 `json:"close_radius"`
	CloseIterations int     `json:"close_iterations"`

	// FillHoles patches every fully enclosed hole after closing.
	FillHoles bool `json:"fill_holes"`
}

// SeparateConfig controls how touching pills are split apart.
type SeparateConfig struct {
	// Mode is distance (transform + peak extraction) or hough (geometric
	// circle fit, skipping binarization).
	Mode string `json:"mode"`

	// Peaks is the distance-mode extraction rule: threshold or maxima.
	Peaks string `json:"peaks"`

	// Tau is the peak-extraction fraction of the maximum distance, in
	// (0, 1). Lower merges close pills, higher fragments single pills.
	Tau float64 `json:"tau"`

	// MinDist is the minimum center separation in pixels, > 0. Bounds the
	// local-maxima window and Hough center spacing.
	MinDist int `json:"min_dist"`

	// MinPeakArea discards peak regions below this pixel count before
	// they become candidates, >= 0.
	MinPeakArea int `json:"min_peak_area"`

	// RMin, RMax bound the Hough radius search.
	RMin int `json:"r_min"`
	RMax int `json:"r_max"`
}

// FilterConfig decides which candidates count as pills.
type FilterConfig struct {
	// Mode is fixed (absolute geometric bounds) or group (statistics of
	// the observed population).
	Mode string `json:"mode"`

	// MinArea, MaxArea bound candidate pixel area. MaxArea 0 disables the
	// ceiling.
	MinArea float64 `json:"min_area"`
	MaxArea float64 `json:"max_area"`

	// MinCircularity, when > 0, rejects shapes below this descriptor
	// value (1.0 = perfect disc).
	MinCircularity float64 `json:"min_circularity"`

	// MaxCenterFrac rejects centroids beyond this fraction of the
	// trusted-region radius from its center, in (0, 1].
	MaxCenterFrac float64 `json:"max_center_frac"`

	// GroupMinAreaFrac and GroupMaxSpreadFrac are the group-mode
	// heuristic constants: reject below this fraction of the median
	// area, or beyond this fraction of the frame width from the group
	// centroid. Empirically tuned values, not derived ones.
	GroupMinAreaFrac   float64 `json:"group_min_area_frac"`
	GroupMaxSpreadFrac float64 `json:"group_max_spread_frac"`
}

// Config is the complete, immutable tuning of one counting invocation. The
// pipeline holds no global state: every invocation is a pure function of
// (frame, Config).
type Config struct {
	Region   RegionConfig   `json:"region"`
	Channel  ChannelConfig  `json:"channel"`
	Binarize BinarizeConfig `json:"binarize"`
	Separate SeparateConfig `json:"separate"`
	Filter   FilterConfig   `json:"filter"`

	// Debug attaches intermediate-stage snapshots to the result.
	Debug bool `json:"debug"`
}

// DefaultConfig returns the reference tuning: an aggressive centered
// spotlight, green channel, strong equalization and smoothing, Otsu
// thresholding, and distance-peak separation at half maximum.
func DefaultConfig() Config {
	return Config{
		Region: RegionConfig{
			Shape:  ShapeCircle,
			Extent: 0.7,
		},
		Channel: ChannelConfig{
			Mode:       ChannelGreen,
			ClipLimit:  5.0,
			BlurKernel: 15,
		},
		Binarize: BinarizeConfig{
			Mode:      BinarizeOtsu,
			Threshold: 127,
			BlockSize: 31,
			C:         5,
		},
		Separate: SeparateConfig{
			Mode:        SeparateDistance,
			Peaks:       PeaksThreshold,
			Tau:         0.5,
			MinDist:     20,
			MinPeakArea: 0,
			RMin:        10,
			RMax:        60,
		},
		Filter: FilterConfig{
			Mode:               FilterFixed,
			MinArea:            10,
			MaxCenterFrac:      0.9,
			GroupMinAreaFrac:   0.2,
			GroupMaxSpreadFrac: 0.4,
		},
	}
}

// Validate rejects every out-of-domain option before the pipeline runs.
// The first violation found is returned as a *ConfigError.
func (c Config) Validate() error {
	switch c.Region.Shape {
	case ShapeCircle, ShapeRect:
	default:
		return &ConfigError{Option: "region.shape", Reason: fmt.Sprintf("unknown shape %q", c.Region.Shape)}
	}
	if c.Region.Extent <= 0 || c.Region.Extent > 1 {
		return &ConfigError{Option: "region.extent", Reason: fmt.Sprintf("must be in (0, 1], got %g", c.Region.Extent)}
	}

	switch c.Channel.Mode {
	case ChannelRed, ChannelGreen, ChannelBlue, ChannelAuto:
	default:
		return &ConfigError{Option: "channel.mode", Reason: fmt.Sprintf("unknown mode %q", c.Channel.Mode)}
	}
	if c.Channel.ClipLimit < 0 {
		return &ConfigError{Option: "contrast.clipLimit", Reason: fmt.Sprintf("must be >= 0, got %g", c.Channel.ClipLimit)}
	}
	if c.Channel.BlurKernel < 1 {
		return &ConfigError{Option: "blur.kernel", Reason: fmt.Sprintf("must be positive, got %d", c.Channel.BlurKernel)}
	}
	if c.Channel.BlurKernel%2 == 0 {
		return &ConfigError{Option: "blur.kernel", Reason: fmt.Sprintf("must be odd, got %d", c.Channel.BlurKernel)}
	}

	switch c.Binarize.Mode {
	case BinarizeOtsu, BinarizeFixed, BinarizeAdaptive, BinarizeHSVRange:
	default:
		return &ConfigError{Option: "binarize.mode", Reason: fmt.Sprintf("unknown mode %q", c.Binarize.Mode)}
	}
	if c.Binarize.Threshold < 0 || c.Binarize.Threshold > 255 {
		return &ConfigError{Option: "binarize.threshold", Reason: fmt.Sprintf("must be in [0, 255], got %d", c.Binarize.Threshold)}
	}
	if c.Binarize.Mode == BinarizeAdaptive {
		if c.Binarize.BlockSize < 3 {
			return &ConfigError{Option: "binarize.blockSize", Reason: fmt.Sprintf("must be >= 3, got %d", c.Binarize.BlockSize)}
		}
		if c.Binarize.BlockSize%2 == 0 {
			return &ConfigError{Option: "binarize.blockSize", Reason: fmt.Sprintf("must be odd, got %d", c.Binarize.BlockSize)}
		}
	}
	if c.Binarize.Mode == BinarizeHSVRange {
		hsv := c.Binarize.HSV
		if hsv.HueMin < 0 || hsv.HueMin > 360 || hsv.HueMax < 0 || hsv.HueMax > 360 {
			return &ConfigError{Option: "binarize.hsv", Reason: "hue bounds must be in [0, 360]"}
		}
		if hsv.SatMin < 0 || hsv.SatMax > 1 || hsv.ValMin < 0 || hsv.ValMax > 1 {
			return &ConfigError{Option: "binarize.hsv", Reason: "saturation and value bounds must be in [0, 1]"}
		}
	}
	if c.Binarize.OpenRadius < 0 {
		return &ConfigError{Option: "binarize.openRadius", Reason: "must be >= 0"}
	}
	if c.Binarize.CloseRadius < 0 || c.Binarize.CloseIterations < 0 {
		return &ConfigError{Option: "binarize.close", Reason: "radius and iterations must be >= 0"}
	}

	switch c.Separate.Mode {
	case SeparateDistance, SeparateHough:
	default:
		return &ConfigError{Option: "separate.mode", Reason: fmt.Sprintf("unknown mode %q", c.Separate.Mode)}
	}
	switch c.Separate.Peaks {
	case PeaksThreshold, PeaksMaxima:
	default:
		return &ConfigError{Option: "separate.peaks", Reason: fmt.Sprintf("unknown extraction rule %q", c.Separate.Peaks)}
	}
	if c.Separate.Tau <= 0 || c.Separate.Tau >= 1 {
		return &ConfigError{Option: "separate.tau", Reason: fmt.Sprintf("must be in (0, 1), got %g", c.Separate.Tau)}
	}
	if c.Separate.MinDist <= 0 {
		return &ConfigError{Option: "separate.minDist", Reason: fmt.Sprintf("must be positive, got %d", c.Separate.MinDist)}
	}
	if c.Separate.MinPeakArea < 0 {
		return &ConfigError{Option: "separate.minPeakArea", Reason: "must be >= 0"}
	}
	if c.Separate.Mode == SeparateHough {
		if c.Separate.RMin < 1 {
			return &ConfigError{Option: "separate.rMin", Reason: fmt.Sprintf("must be >= 1, got %d", c.Separate.RMin)}
		}
		if c.Separate.RMax < c.Separate.RMin {
			return &ConfigError{Option: "separate.rMax", Reason: fmt.Sprintf("must be >= rMin, got %d < %d", c.Separate.RMax, c.Separate.RMin)}
		}
	}

	switch c.Filter.Mode {
	case FilterFixed, FilterGroup:
	default:
		return &ConfigError{Option: "filter.mode", Reason: fmt.Sprintf("unknown mode %q", c.Filter.Mode)}
	}
	if c.Filter.MinArea < 0 {
		return &ConfigError{Option: "filter.minArea", Reason: "must be >= 0"}
	}
	if c.Filter.MaxArea < 0 {
		return &ConfigError{Option: "filter.maxArea", Reason: "must be >= 0"}
	}
	if c.Filter.MinCircularity < 0 || c.Filter.MinCircularity > 1 {
		return &ConfigError{Option: "filter.minCircularity", Reason: fmt.Sprintf("must be in [0, 1], got %g", c.Filter.MinCircularity)}
	}
	if c.Filter.MaxCenterFrac <= 0 || c.Filter.MaxCenterFrac > 1 {
		return &ConfigError{Option: "filter.maxCenterFrac", Reason: fmt.Sprintf("must be in (0, 1], got %g", c.Filter.MaxCenterFrac)}
	}
	if c.Filter.GroupMinAreaFrac < 0 || c.Filter.GroupMaxSpreadFrac < 0 {
		return &ConfigError{Option: "filter.group", Reason: "heuristic fractions must be >= 0"}
	}

	return nil
}
