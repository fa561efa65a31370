package detection

import (
	"image"
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// HSVRange is a closed interval box in HSV space. Hue is in degrees (0-360),
// saturation and value in [0, 1]. A pixel is inside the range only if all
// three components fall within their intervals.
//
// Hue is circular: when HueMin > HueMax the interval wraps through 0, so a
// red range like [340, 20] works as expected.
type HSVRange struct {
	HueMin float64 `json:"hue_min"`
	HueMax float64 `json:"hue_max"`
	SatMin float64 `json:"sat_min"`
	SatMax float64 `json:"sat_max"`
	ValMin float64 `json:"val_min"`
	ValMax float64 `json:"val_max"`
}

// Contains reports whether the HSV triple falls inside the range.
func (r HSVRange) Contains(h, s, v float64) bool {
	if s < r.SatMin || s > r.SatMax || v < r.ValMin || v > r.ValMax {
		return false
	}
	if r.HueMin <= r.HueMax {
		return h >= r.HueMin && h <= r.HueMax
	}
	return h >= r.HueMin || h <= r.HueMax
}

// BinarizeHSVRange builds a binary map directly from the color frame:
// foreground wherever the pixel's HSV triple falls inside the range. This
// bypasses the scalar signal entirely and is the right tool when the pill
// color is known and distinct (a pink pill against both wood and a red lid).
//
// A range matching zero pixels is a valid outcome: the map is empty and the
// count comes out zero.
func BinarizeHSVRange(frame image.Image, r HSVRange) *image.Gray {
	bounds := frame.Bounds()
	bin := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			pr, pg, pb, _ := frame.At(x, y).RGBA()
			c := colorful.Color{
				R: float64(pr>>8) / 255,
				G: float64(pg>>8) / 255,
				B: float64(pb>>8) / 255,
			}
			if r.Contains(c.Hsv()) {
				bin.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return bin
}
