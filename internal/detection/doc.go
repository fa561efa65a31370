// Package detection implements the binarization and separation algorithms
// of the pill counting pipeline.
//
// The package turns a normalized grayscale signal into pill candidates in
// three steps:
//
//  1. Binarization: global-automatic (Otsu), global-manual, locally
//     adaptive, or HSV color-range thresholding, plus morphological
//     cleanup (opening, closing, hole filling)
//  2. Separation: Euclidean distance transform and peak extraction to
//     split touching pills, or a Hough circle transform as a geometric
//     alternative that skips binarization entirely
//  3. Filtering: fixed geometric rules or group statistics reduce the
//     candidates to one detection per physical pill
//
// # Separating Touching Pills
//
// Touching pills binarize into one connected blob, so naive component
// counting undercounts. The distance transform gives every foreground pixel
// its distance to the nearest background pixel; a round pill produces one
// interior maximum, touching pills produce several maxima separated by a
// saddle at the contact waist. Extracting those peaks (by fraction-of-max
// thresholding or windowed local maxima) recovers one candidate per pill.
// The fraction tau trades under-separation against over-separation and is
// deliberately an exposed tunable.
//
// # Coordinate System
//
// All coordinates are working-frame pixels: origin at the top-left of the
// (possibly cropped) trusted frame, X rightward, Y downward. The pipeline
// translates back to original-frame coordinates for annotation.
//
// # Determinism
//
// Every function here is a pure, deterministic transformation. Component
// discovery is row-major, Hough results are fully tie-broken, and no
// randomness or map iteration order leaks into results, so a fixed frame
// and configuration always produce identical candidates.
//
// # Performance Considerations
//
// The binarizers, morphology, and distance transform are linear in pixel
// count. The Hough circle search is O(pixels x radii) and dominates when
// enabled; keep the radius range tight.
package detection
