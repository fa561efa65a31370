package pill

import (
	"errors"
	"strings"
	"testing"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default configuration rejected: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		option string
	}{
		{"unknown shape", func(c *Config) { c.Region.Shape = "oval" }, "region.shape"},
		{"extent zero", func(c *Config) { c.Region.Extent = 0 }, "region.extent"},
		{"extent above one", func(c *Config) { c.Region.Extent = 1.5 }, "region.extent"},
		{"unknown channel", func(c *Config) { c.Channel.Mode = "alpha" }, "channel.mode"},
		{"negative clip limit", func(c *Config) { c.Channel.ClipLimit = -1 }, "contrast.clipLimit"},
		{"zero blur kernel", func(c *Config) { c.Channel.BlurKernel = 0 }, "blur.kernel"},
		{"even blur kernel", func(c *Config) { c.Channel.BlurKernel = 4 }, "blur.kernel"},
		{"unknown binarize mode", func(c *Config) { c.Binarize.Mode = "triangle" }, "binarize.mode"},
		{"threshold too high", func(c *Config) { c.Binarize.Threshold = 256 }, "binarize.threshold"},
		{"threshold negative", func(c *Config) { c.Binarize.Threshold = -1 }, "binarize.threshold"},
		{"adaptive block too small", func(c *Config) {
			c.Binarize.Mode = BinarizeAdaptive
			c.Binarize.BlockSize = 2
		}, "binarize.blockSize"},
		{"adaptive block even", func(c *Config) {
			c.Binarize.Mode = BinarizeAdaptive
			c.Binarize.BlockSize = 30
		}, "binarize.blockSize"},
		{"hsv hue out of range", func(c *Config) {
			c.Binarize.Mode = BinarizeHSVRange
			c.Binarize.HSV.HueMax = 400
		}, "binarize.hsv"},
		{"hsv saturation out of range", func(c *Config) {
			c.Binarize.Mode = BinarizeHSVRange
			c.Binarize.HSV.SatMax = 1.5
		}, "binarize.hsv"},
		{"negative open radius", func(c *Config) { c.Binarize.OpenRadius = -1 }, "binarize.openRadius"},
		{"negative close radius", func(c *Config) { c.Binarize.CloseRadius = -1 }, "binarize.close"},
		{"unknown separate mode", func(c *Config) { c.Separate.Mode = "watershed" }, "separate.mode"},
		{"unknown peak rule", func(c *Config) { c.Separate.Peaks = "ridges" }, "separate.peaks"},
		{"tau zero", func(c *Config) { c.Separate.Tau = 0 }, "separate.tau"},
		{"tau one", func(c *Config) { c.Separate.Tau = 1 }, "separate.tau"},
		{"min dist zero", func(c *Config) { c.Separate.MinDist = 0 }, "separate.minDist"},
		{"negative min peak area", func(c *Config) { c.Separate.MinPeakArea = -1 }, "separate.minPeakArea"},
		{"hough rMin zero", func(c *Config) {
			c.Separate.Mode = SeparateHough
			c.Separate.RMin = 0
		}, "separate.rMin"},
		{"hough rMax below rMin", func(c *Config) {
			c.Separate.Mode = SeparateHough
			c.Separate.RMin = 30
			c.Separate.RMax = 20
		}, "separate.rMax"},
		{"unknown filter mode", func(c *Config) { c.Filter.Mode = "strict" }, "filter.mode"},
		{"negative min area", func(c *Config) { c.Filter.MinArea = -1 }, "filter.minArea"},
		{"negative max area", func(c *Config) { c.Filter.MaxArea = -1 }, "filter.maxArea"},
		{"circularity above one", func(c *Config) { c.Filter.MinCircularity = 1.5 }, "filter.minCircularity"},
		{"center frac zero", func(c *Config) { c.Filter.MaxCenterFrac = 0 }, "filter.maxCenterFrac"},
		{"center frac above one", func(c *Config) { c.Filter.MaxCenterFrac = 1.5 }, "filter.maxCenterFrac"},
		{"negative group fraction", func(c *Config) { c.Filter.GroupMinAreaFrac = -0.1 }, "filter.group"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("want *ConfigError, got %v", err)
			}
			if cfgErr.Option != tt.option {
				t.Errorf("option: got %s, want %s", cfgErr.Option, tt.option)
			}
		})
	}
}

func TestValidate_AdaptiveOptionsIgnoredElsewhere(t *testing.T) {
	// Block size constraints bind only when the adaptive strategy is
	// selected.
	cfg := DefaultConfig()
	cfg.Binarize.Mode = BinarizeOtsu
	cfg.Binarize.BlockSize = 2

	if err := cfg.Validate(); err != nil {
		t.Errorf("otsu mode should ignore block size: %v", err)
	}
}

func TestValidate_HoughOptionsIgnoredElsewhere(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Separate.Mode = SeparateDistance
	cfg.Separate.RMin = 0
	cfg.Separate.RMax = 0

	if err := cfg.Validate(); err != nil {
		t.Errorf("distance mode should ignore radius bounds: %v", err)
	}
}

func TestConfigError_Message(t *testing.T) {
	err := &ConfigError{Option: "separate.tau", Reason: "must be in (0, 1), got 2"}

	msg := err.Error()
	if !strings.Contains(msg, "separate.tau") || !strings.Contains(msg, "must be in (0, 1)") {
		t.Errorf("message: got %q", msg)
	}
}
