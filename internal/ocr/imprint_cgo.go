//go:build cgo && linux

package ocr

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Available reports that this binary was built with Tesseract support.
func Available() bool {
	return true
}

// readImprint writes the close-up to a temporary PNG (Tesseract reads from
// disk), then runs a single-line recognition pass restricted to the imprint
// character set.
func readImprint(img image.Image) (*ImprintResult, error) {
	path, err := saveTempPNG(img)
	if err != nil {
		return nil, err
	}
	defer os.Remove(path)

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage("eng"); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetWhitelist(imprintWhitelist); err != nil {
		return nil, fmt.Errorf("failed to set whitelist: %w", err)
	}
	if err := client.SetImage(path); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	result := &ImprintResult{Text: strings.TrimSpace(text)}

	// Mean word confidence; recognition without box data still returns
	// the text with zero confidence.
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err == nil && len(boxes) > 0 {
		var sum float64
		for _, box := range boxes {
			sum += box.Confidence
		}
		result.Confidence = sum / float64(len(boxes)) / 100.0
	}

	return result, nil
}

// saveTempPNG writes an image to a temporary PNG file and returns its path.
// The caller removes the file.
func saveTempPNG(img image.Image) (string, error) {
	f, err := os.CreateTemp("", "pill-imprint-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to encode temp image: %w", err)
	}
	return f.Name(), nil
}
