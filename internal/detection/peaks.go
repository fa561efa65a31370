package detection

import (
	"image"
	"math"
)

// Candidate is a detected region that may represent one pill: a centroid in
// working-frame coordinates plus the geometry the filter stage judges it by.
// Candidates are ephemeral; survivors become numbered detections.
type Candidate struct {
	// X, Y is the candidate centroid.
	X, Y int

	// Area in pixels. For threshold-extracted peaks this is the peak
	// region's own area; for local-maxima
	// peaks and Hough circles it is the implied object area pi*r^2.
	Area float64

	// Radius is the implied object radius in pixels.
	Radius float64

	// Circularity is the shape descriptor of the underlying region, 1.0
	// for a perfect disc. Extraction modes without a meaningful contour
	// (local maxima, circle fits) report 1.0.
	Circularity float64

	// BBox bounds the underlying region where one exists.
	BBox image.Rectangle
}

// Peak extraction modes.
const (
	// PeaksThreshold cuts the distance field at tau x max and takes each
	// connected component of the cut as one peak.
	PeaksThreshold = "threshold"

	// PeaksMaxima keeps only pixels that are the maximum of the local
	// window spanning minDist on each side and exceed tau x max, then
	// groups plateaus.
	PeaksMaxima = "maxima"
)

// ExtractPeaks reduces a distance field to pill candidates, one per distance
// peak.
//
// tau is the peak-extraction fraction of the global maximum, the central
// tunable of the separator: lower values merge nearby pills into one peak
// (undercount), higher values fragment a single pill's distance ridge
// (overcount). The trade-off is exposed, not resolved here.
//
// In PeaksThreshold mode the field is cut at tau x max and each connected
// component of the cut becomes a candidate with the component's own area
// and centroid. In PeaksMaxima mode a pixel survives only if it equals the
// maximum of the window spanning minDist on each side of it, so a peak
// closer than minDist to a stronger one cannot survive; the distance value
// at the peak is the inscribed radius of the object, giving the candidate
// its radius and area.
//
// Peak regions smaller than minPeakArea pixels are discarded as noise
// before becoming candidates. An empty or all-background field yields no
// candidates.
func ExtractPeaks(field *DistanceField, mode string, tau float64, minDist, minPeakArea int) []Candidate {
	max := field.Max()
	if max <= 0 {
		return nil
	}
	cut := float32(tau) * max

	width := field.Width
	height := field.Height
	grid := make([]bool, width*height)

	switch mode {
	case PeaksMaxima:
		// The suppression footprint spans minDist on each side, so two
		// peaks closer than minDist always see each other's window.
		half := minDist
		if half < 1 {
			half = 1
		}
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				d := field.At(x, y)
				if d <= 0 || d < cut {
					continue
				}
				peak := true
				for wy := y - half; wy <= y+half && peak; wy++ {
					for wx := x - half; wx <= x+half; wx++ {
						if field.At(wx, wy) > d {
							peak = false
							break
						}
					}
				}
				if peak {
					grid[y*width+x] = true
				}
			}
		}
	default: // PeaksThreshold
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				if field.At(x, y) >= cut {
					grid[y*width+x] = true
				}
			}
		}
	}

	regions := FindRegions(grid, width, height)
	candidates := make([]Candidate, 0, len(regions))
	for i := range regions {
		r := &regions[i]
		if r.Area < minPeakArea {
			continue
		}
		cx, cy := r.Centroid()

		if mode == PeaksMaxima {
			// The distance at the peak is the object's inscribed radius.
			radius := float64(field.At(cx, cy))
			if radius <= 0 {
				// Centroid of a ragged plateau can fall off the plateau;
				// fall back to the region's own maximum.
				radius = plateauMax(field, r)
			}
			candidates = append(candidates, Candidate{
				X:           cx,
				Y:           cy,
				Area:        math.Pi * radius * radius,
				Radius:      radius,
				Circularity: 1.0,
				BBox:        r.BBox,
			})
			continue
		}

		candidates = append(candidates, Candidate{
			X:           cx,
			Y:           cy,
			Area:        float64(r.Area),
			Radius:      math.Sqrt(float64(r.Area) / math.Pi),
			Circularity: r.Circularity(),
			BBox:        r.BBox,
		})
	}
	return candidates
}

// plateauMax scans a region's bounding box for the largest distance value.
func plateauMax(field *DistanceField, r *Region) float64 {
	var max float32
	for y := r.BBox.Min.Y; y < r.BBox.Max.Y; y++ {
		for x := r.BBox.Min.X; x < r.BBox.Max.X; x++ {
			if d := field.At(x, y); d > max {
				max = d
			}
		}
	}
	return float64(max)
}
