package ocr

import "image"

// ImprintResult contains the text read from a pill close-up.
type ImprintResult struct {
	// Text is the recognized imprint with surrounding whitespace trimmed.
	// Empty when nothing legible was found.
	Text string `json:"text"`

	// Confidence is the mean word confidence reported by the OCR engine,
	// 0.0 to 1.0. Zero when no words were recognized.
	Confidence float64 `json:"confidence"`
}

// imprintWhitelist restricts recognition to the character set that appears
// on pill imprints: uppercase letters, digits, and a few separators.
const imprintWhitelist = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-/. "

// ReadImprint runs OCR over a pill close-up image and returns the imprint
// text. On builds without OCR support it returns an error; check Available
// first to expose the capability conditionally.
func ReadImprint(img image.Image) (*ImprintResult, error) {
	return readImprint(img)
}
