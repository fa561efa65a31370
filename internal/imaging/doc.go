// Package imaging provides the image-side primitives of the pill counting
// pipeline: decoding, region masking, channel normalization, contrast
// equalization, smoothing, annotation, and close-up cropping.
//
// The package works with standard Go image.Image types. Coordinates are
// 0-based with the origin at the top-left corner, X increasing rightward and
// Y increasing downward.
//
// # Pipeline Role
//
// The counting pipeline consumes this package in stage order:
//
//  1. DecodeBytes / ImageCache.Load turn input bytes into an immutable frame
//  2. BuildMask + Mask.Select restrict analysis to the trusted region
//  3. ExtractChannel / PickChannel reduce the color frame to one signal
//  4. CLAHE locally equalizes contrast; Smooth suppresses surface texture
//  5. Annotate renders detections back onto a copy of the original frame
//
// Each function is a pure transformation: inputs are never mutated (the one
// documented exception is Mask.Apply, which edits a stage-local binary
// buffer in place). Nothing in this package holds state across invocations
// except ImageCache, which caches immutable decoded frames by path.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. All other operations allocate their
// own output buffers, so concurrent counting invocations never share mutable
// memory.
//
// # Error Handling
//
// Undecodable input bytes produce a *DecodeError. Out-of-domain tuning
// values (even blur kernels, zero region extents) are a configuration
// concern and are rejected by the pipeline before any function here runs;
// these functions document their preconditions instead of re-checking them.
package imaging
