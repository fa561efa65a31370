package imaging

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Region shapes supported by BuildMask.
const (
	RegionCircle = "circle"
	RegionRect   = "rect"
)

// Mask describes the trusted region of a frame: the area where the user was
// instructed to place the pills. Everything outside it is treated as
// background clutter regardless of what later stages see there.
//
// A Mask is computed once per invocation from the frame dimensions and the
// region configuration, and is read-only afterward. Coordinates are in the
// working frame: for circle masks the working frame is the full frame; for
// rect masks it is the concentric crop, and Offset translates working
// coordinates back to the original frame for annotation.
type Mask struct {
	// Shape is RegionCircle or RegionRect.
	Shape string

	// CX, CY is the geometric center of the trusted region in working
	// coordinates.
	CX, CY int

	// Radius is the trusted-region radius in pixels. For rect masks it is
	// half the shorter side of the kept rectangle, used by the
	// distance-from-center filter.
	Radius int

	// Work is the bounds of the working frame (full frame for circle,
	// cropped frame for rect).
	Work image.Rectangle

	// Offset translates working coordinates to original-frame coordinates.
	// Zero for circle masks.
	Offset image.Point
}

// BuildMask derives the trusted region from frame dimensions and the region
// configuration. extent is the fraction of the frame kept: for circles the
// radius is extent x min(width, height)/2; for rectangles a border strip of
// (1-extent)/2 is removed from each side.
//
// The caller validates extent before building; an extent that produces a
// sub-pixel region is a configuration error and must be rejected upstream.
func BuildMask(width, height int, shape string, extent float64) *Mask {
	if shape == RegionRect {
		border := (1 - extent) / 2
		x0 := int(float64(width) * border)
		y0 := int(float64(height) * border)
		x1 := width - x0
		y1 := height - y0
		w := x1 - x0
		h := y1 - y0
		r := w
		if h < r {
			r = h
		}
		return &Mask{
			Shape:  RegionRect,
			CX:     w / 2,
			CY:     h / 2,
			Radius: r / 2,
			Work:   image.Rect(0, 0, w, h),
			Offset: image.Pt(x0, y0),
		}
	}

	min := width
	if height < min {
		min = height
	}
	return &Mask{
		Shape:  RegionCircle,
		CX:     width / 2,
		CY:     height / 2,
		Radius: int(extent * float64(min) / 2),
		Work:   image.Rect(0, 0, width, height),
	}
}

// Contains reports whether the working-frame pixel (x, y) lies inside the
// trusted region.
func (m *Mask) Contains(x, y int) bool {
	if !(image.Pt(x, y).In(m.Work)) {
		return false
	}
	if m.Shape == RegionRect {
		return true
	}
	dx := x - m.CX
	dy := y - m.CY
	return dx*dx+dy*dy <= m.Radius*m.Radius
}

// Select restricts a frame to the mask's trusted region and returns the
// working frame for all subsequent stages.
//
// For circle masks this is the spotlight operation: every pixel outside the
// circle is forced to pure black in all channels rather than merely ignored.
// Zeroed pixels still participate in whole-frame statistics (notably the
// Otsu histogram), deliberately biasing them toward "background is black" so
// the automatic threshold separates pills from an effectively removed
// background.
//
// For rect masks the frame is cropped structurally: the returned image is
// smaller and the mask's Offset records the translation.
func (m *Mask) Select(img image.Image) *image.RGBA {
	if m.Shape == RegionRect {
		crop := image.Rectangle{Min: m.Offset, Max: m.Offset.Add(m.Work.Max)}
		crop = crop.Add(img.Bounds().Min)
		cropped := imaging.Crop(img, crop)
		out := image.NewRGBA(m.Work)
		for y := 0; y < m.Work.Dy(); y++ {
			for x := 0; x < m.Work.Dx(); x++ {
				out.Set(x, y, cropped.At(x, y))
			}
		}
		return out
	}

	bounds := img.Bounds()
	out := image.NewRGBA(m.Work)
	for y := 0; y < m.Work.Dy(); y++ {
		for x := 0; x < m.Work.Dx(); x++ {
			if m.Contains(x, y) {
				out.Set(x, y, img.At(x+bounds.Min.X, y+bounds.Min.Y))
			} else {
				out.Set(x, y, color.RGBA{A: 255})
			}
		}
	}
	return out
}

// Apply re-imposes the mask on a binary map, forcing every pixel outside the
// trusted region to background. Run after morphological cleanup so filter
// bleed can never resurrect foreground beyond the region boundary: the mask
// dominates the threshold.
//
// The input is modified in place and returned for chaining; it is always a
// stage-local buffer, never the caller's frame.
func (m *Mask) Apply(bin *image.Gray) *image.Gray {
	b := bin.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if !m.Contains(x-b.Min.X, y-b.Min.Y) {
				bin.SetGray(x, y, color.Gray{})
			}
		}
	}
	return bin
}
