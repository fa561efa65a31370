package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// CropResult contains a cropped close-up image encoded for transport.
type CropResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// CropDetection extracts a close-up of one detection from the original frame.
//
// The crop is a square window centered on the detection centroid, sized to
// twice the detection radius plus a small margin so the whole pill and a bit
// of surrounding context are visible. The window is clamped to the frame
// bounds, and an optional scale factor enlarges the result for inspection
// (Lanczos resampling).
//
// Parameters:
//   - img: Original decoded frame.
//   - cx, cy: Detection centroid in original-frame coordinates.
//   - radius: Detection radius in pixels; values below 12 are widened so
//     tiny detections still produce a usable close-up.
//   - scale: Output scale factor; values <= 0 default to 1.0.
func CropDetection(img image.Image, cx, cy, radius int, scale float64) (*CropResult, error) {
	cropped, err := CropDetectionImage(img, cx, cy, radius, scale)
	if err != nil {
		return nil, err
	}

	encoded, err := EncodeBase64PNG(cropped)
	if err != nil {
		return nil, err
	}

	return &CropResult{
		Width:       cropped.Bounds().Dx(),
		Height:      cropped.Bounds().Dy(),
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

// CropDetectionImage is CropDetection without the transport encoding; the
// imprint reader consumes the pixels directly.
func CropDetectionImage(img image.Image, cx, cy, radius int, scale float64) (image.Image, error) {
	bounds := img.Bounds()
	if radius < 12 {
		radius = 12
	}
	half := radius + radius/2

	x0 := clampInt(cx-half, bounds.Min.X, bounds.Max.X)
	y0 := clampInt(cy-half, bounds.Min.Y, bounds.Max.Y)
	x1 := clampInt(cx+half, bounds.Min.X, bounds.Max.X)
	y1 := clampInt(cy+half, bounds.Min.Y, bounds.Max.Y)
	if x0 >= x1 || y0 >= y1 {
		return nil, fmt.Errorf("detection center (%d,%d) outside image bounds", cx, cy)
	}

	cropped := imaging.Crop(img, image.Rect(x0, y0, x1, y1))

	if scale > 0 && scale != 1.0 {
		w := int(float64(cropped.Bounds().Dx()) * scale)
		h := int(float64(cropped.Bounds().Dy()) * scale)
		cropped = imaging.Resize(cropped, w, h, imaging.Lanczos)
	}
	return cropped, nil
}
