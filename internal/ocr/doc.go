// Package ocr reads the imprint code stamped or printed on a pill using
// Tesseract OCR.
//
// Pill imprints (e.g. "L484", "TEVA 3109") identify a medication far more
// reliably than color or shape. This package runs OCR over a close-up crop
// of one detection so the caller can surface the code alongside the count.
// It does not attempt to match codes against a drug database.
//
// # Build Requirements
//
// Tesseract is a native dependency, so the real implementation is gated
// behind cgo on Linux (the gosseract/v2 bindings). Without cgo the package
// still compiles: ReadImprint returns a clear "built without OCR support"
// error and Available reports false, letting the server expose the tool
// conditionally.
//
// System prerequisites for the cgo build:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract (cgo path is Linux-only here)
//
// # Accuracy
//
// Imprint OCR is best-effort. Embossed (not printed) imprints photograph
// with low contrast and often defeat Tesseract; scores below roughly 0.5
// confidence should be treated as noise. Upscaling the crop before OCR
// (the server does this) measurably helps.
package ocr
