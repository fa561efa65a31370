//go:build !cgo || !linux

package ocr

import (
	"errors"
	"image"
)

// ErrNotBuilt is returned by ReadImprint on builds without Tesseract.
var ErrNotBuilt = errors.New("imprint reading unavailable: built without OCR support (requires cgo and Tesseract)")

// Available reports that this binary was built without Tesseract support.
func Available() bool {
	return false
}

func readImprint(_ image.Image) (*ImprintResult, error) {
	return nil, ErrNotBuilt
}
