package pill

import (
	"fmt"
	"image"
	"log"
	"strconv"

	"github.com/ironsheep/pill-counter-mcp/internal/detection"
	"github.com/ironsheep/pill-counter-mcp/internal/imaging"
)

// claheTiles is the equalization tile grid dimension. The reference tuning
// uses an 8x8 grid; the clip limit is the exposed tunable.
const claheTiles = 8

// CountBytes decodes a submitted photograph and counts the pills in it.
// Undecodable bytes surface as a *imaging.DecodeError with no partial
// result.
func CountBytes(data []byte, cfg Config) (*Result, error) {
	frame, err := imaging.DecodeBytes(data)
	if err != nil {
		return nil, err
	}
	return Count(frame, cfg)
}

// Count runs the five-stage counting pipeline on a decoded frame:
//
//  1. Restrict analysis to the trusted region (spotlight or crop)
//  2. Reduce the color frame to one contrast-maximized grayscale signal
//  3. Binarize the signal and clean the result morphologically
//  4. Split touching pills via distance-field peaks, or fit circles
//  5. Filter candidates and report the survivors
//
// The frame is never mutated; every stage derives new buffers, so
// concurrent invocations share nothing. The result is deterministic for a
// fixed (frame, cfg) pair.
//
// Configuration is validated in full before any stage runs; the only
// errors after that point are annotation encoding failures.
func Count(frame image.Image, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	bounds := frame.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	mask := imaging.BuildMask(width, height, cfg.Region.Shape, cfg.Region.Extent)
	if mask.Radius < 1 || mask.Work.Dx() < 1 || mask.Work.Dy() < 1 {
		return nil, &ConfigError{
			Option: "region.extent",
			Reason: fmt.Sprintf("extent %g leaves no trusted pixels in a %dx%d frame", cfg.Region.Extent, width, height),
		}
	}

	if uniformRegion(frame, mask) {
		// An all-background trusted region has nothing to segment; every
		// thresholding strategy degenerates on it, so short-circuit to an
		// empty result instead of letting a strategy invent foreground.
		// Clutter outside the region cannot rescue the frame: only trusted
		// pixels count.
		log.Printf("pill count degenerate result: uniform trusted region")
		return emptyResult(frame, mask)
	}

	work := mask.Select(frame)

	debug := map[string]string{}
	snapshot := func(name string, img image.Image) {
		if !cfg.Debug {
			return
		}
		if encoded, err := imaging.EncodeBase64PNG(img); err == nil {
			debug[name] = encoded
		}
	}
	snapshot("spotlight", work)

	var candidates []detection.Candidate

	if cfg.Separate.Mode == SeparateHough {
		signal := normalize(work, mask, cfg.Channel)
		snapshot("signal", signal)
		candidates = detection.HoughCircles(signal,
			cfg.Separate.RMin, cfg.Separate.RMax, cfg.Separate.MinDist, mask.Contains)
	} else {
		bin := binarize(work, mask, cfg, snapshot)
		bin = cleanup(bin, cfg.Binarize)
		bin = mask.Apply(bin)
		snapshot("binary", bin)

		field := detection.DistanceTransform(bin)
		snapshot("distance", field.ToGray())

		candidates = detection.ExtractPeaks(field,
			cfg.Separate.Peaks, cfg.Separate.Tau, cfg.Separate.MinDist, cfg.Separate.MinPeakArea)
	}

	if cfg.Filter.Mode == FilterGroup {
		candidates = detection.FilterGroup(candidates, detection.GroupRules{
			MinAreaFrac:   cfg.Filter.GroupMinAreaFrac,
			MaxSpreadFrac: cfg.Filter.GroupMaxSpreadFrac,
			FrameWidth:    mask.Work.Dx(),
		})
	} else {
		candidates = detection.FilterFixed(candidates, detection.FixedRules{
			MinArea:        cfg.Filter.MinArea,
			MaxArea:        cfg.Filter.MaxArea,
			MinCircularity: cfg.Filter.MinCircularity,
			MaxCenterFrac:  cfg.Filter.MaxCenterFrac,
			CenterX:        mask.CX,
			CenterY:        mask.CY,
			Radius:         mask.Radius,
		})
	}

	if len(candidates) == 0 {
		// Degenerate but valid: count zero, distinguishable in logs from a
		// pipeline failure.
		log.Printf("pill count degenerate result: no candidates survived filtering")
	}

	detections := make([]Detection, 0, len(candidates))
	markers := make([]imaging.Marker, 0, len(candidates))
	for i, c := range candidates {
		// Translate working coordinates back to the original frame.
		ox := c.X + mask.Offset.X + bounds.Min.X
		oy := c.Y + mask.Offset.Y + bounds.Min.Y
		label := strconv.Itoa(i + 1)

		detections = append(detections, Detection{
			Index:       i + 1,
			X:           ox - bounds.Min.X,
			Y:           oy - bounds.Min.Y,
			Area:        c.Area,
			Radius:      c.Radius,
			Circularity: c.Circularity,
			Color:       imaging.SampleHex(frame, ox, oy),
		})
		markers = append(markers, imaging.Marker{
			X:      ox - bounds.Min.X,
			Y:      oy - bounds.Min.Y,
			Radius: int(c.Radius),
			Label:  label,
		})
	}

	annotated := imaging.Annotate(frame, mask, markers)
	encoded, err := imaging.EncodeBase64PNG(annotated)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Count:           len(detections),
		Detections:      detections,
		AnnotatedBase64: encoded,
		MimeType:        "image/png",
	}
	if cfg.Debug {
		result.DebugImages = debug
	}
	return result, nil
}

// uniformRegion reports whether every frame pixel inside the trusted region
// has the same color.
func uniformRegion(frame image.Image, m *imaging.Mask) bool {
	bounds := frame.Bounds()
	first := true
	var r0, g0, b0, a0 uint32
	for y := 0; y < m.Work.Dy(); y++ {
		for x := 0; x < m.Work.Dx(); x++ {
			if !m.Contains(x, y) {
				continue
			}
			r, g, b, a := frame.At(x+m.Offset.X+bounds.Min.X, y+m.Offset.Y+bounds.Min.Y).RGBA()
			if first {
				r0, g0, b0, a0 = r, g, b, a
				first = false
				continue
			}
			if r != r0 || g != g0 || b != b0 || a != a0 {
				return false
			}
		}
	}
	return true
}

// emptyResult annotates the untouched frame with only the region outline and
// reports a count of zero.
func emptyResult(frame image.Image, mask *imaging.Mask) (*Result, error) {
	annotated := imaging.Annotate(frame, mask, nil)
	encoded, err := imaging.EncodeBase64PNG(annotated)
	if err != nil {
		return nil, err
	}
	return &Result{
		Count:           0,
		Detections:      []Detection{},
		AnnotatedBase64: encoded,
		MimeType:        "image/png",
	}, nil
}

// normalize reduces the masked color frame to the scalar signal: channel
// pick (resolving auto selection), contrast equalization, texture
// smoothing.
func normalize(work *image.RGBA, mask *imaging.Mask, cfg ChannelConfig) *image.Gray {
	mode := cfg.Mode
	if mode == ChannelAuto {
		mode = imaging.PickChannel(work, mask)
	}
	signal := imaging.ExtractChannel(work, mode)
	if cfg.ClipLimit > 0 {
		signal = imaging.CLAHE(signal, cfg.ClipLimit, claheTiles)
	}
	return imaging.Smooth(signal, cfg.BlurKernel)
}

// binarize dispatches to the configured thresholding strategy.
func binarize(work *image.RGBA, mask *imaging.Mask, cfg Config, snapshot func(string, image.Image)) *image.Gray {
	if cfg.Binarize.Mode == BinarizeHSVRange {
		// Color-range thresholding reads the color frame directly; no
		// scalar signal exists on this path.
		return detection.BinarizeHSVRange(work, cfg.Binarize.HSV)
	}

	signal := normalize(work, mask, cfg.Channel)
	snapshot("signal", signal)

	switch cfg.Binarize.Mode {
	case BinarizeFixed:
		return detection.BinarizeFixed(signal, uint8(cfg.Binarize.Threshold), cfg.Binarize.Inverse)
	case BinarizeAdaptive:
		return detection.BinarizeAdaptive(signal, cfg.Binarize.BlockSize, cfg.Binarize.C, cfg.Binarize.Inverse)
	default:
		// The automatic threshold sees only trusted pixels; the spotlighted
		// exterior would otherwise drag the cutoff to the spotlight edge.
		return detection.BinarizeOtsu(signal, cfg.Binarize.Inverse, mask.Contains)
	}
}

// cleanup applies the configured morphological post-processing.
func cleanup(bin *image.Gray, cfg BinarizeConfig) *image.Gray {
	bin = detection.Open(bin, cfg.OpenRadius)
	bin = detection.Close(bin, cfg.CloseRadius, cfg.CloseIterations)
	if cfg.FillHoles {
		bin = detection.FillHoles(bin)
	}
	return bin
}
