package imaging

import (
	"fmt"
	"image"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// SampleHex returns the pixel color at (x, y) as a "#RRGGBB" hex string.
// Detections carry the color sampled at their centroid so the caller can
// tell the user what kind of pill was counted.
//
// No bounds checking is performed; the caller supplies centroid coordinates
// that are inside the frame by construction.
func SampleHex(img image.Image, x, y int) string {
	r, g, b, _ := img.At(x, y).RGBA()
	return fmt.Sprintf("#%02X%02X%02X", uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// SampleHSV returns the pixel color at (x, y) in HSV space: hue in degrees
// (0-360), saturation and value in [0, 1].
func SampleHSV(img image.Image, x, y int) (h, s, v float64) {
	r, g, b, _ := img.At(x, y).RGBA()
	c := colorful.Color{
		R: float64(r>>8) / 255,
		G: float64(g>>8) / 255,
		B: float64(b>>8) / 255,
	}
	return c.Hsv()
}
