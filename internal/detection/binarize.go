package detection

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/histogram"
)

// OtsuThreshold computes the Otsu-optimal global threshold for a grayscale
// signal: the cutoff that maximizes between-class intensity variance (and so
// minimizes the combined within-class variance) over the signal histogram.
//
// The result is deterministic: among equally good cutoffs the lowest is
// chosen.
func OtsuThreshold(signal *image.Gray) uint8 {
	return otsuFromBins(histogram.NewRGBAHistogram(signal).R.Bins)
}

// otsuFromBins runs the Otsu between-class variance search on a 256-bin
// intensity histogram.
func otsuFromBins(bins []int) uint8 {
	total := 0
	var sumAll float64
	for v, count := range bins {
		total += count
		sumAll += float64(v) * float64(count)
	}
	if total == 0 {
		return 0
	}

	var best uint8
	var bestVar float64
	var sumBack float64
	wBack := 0

	for t := 0; t < 256; t++ {
		wBack += bins[t]
		if wBack == 0 {
			continue
		}
		wFore := total - wBack
		if wFore == 0 {
			break
		}
		sumBack += float64(t) * float64(bins[t])

		meanBack := sumBack / float64(wBack)
		meanFore := (sumAll - sumBack) / float64(wFore)
		diff := meanBack - meanFore
		between := float64(wBack) * float64(wFore) * diff * diff

		if between > bestVar {
			bestVar = between
			best = uint8(t)
		}
	}
	return best
}

// BinarizeFixed converts a signal to a binary map using one global cutoff:
// pixels with intensity strictly above the threshold become foreground
// (255), the rest background (0). The threshold itself belongs to the
// background class, which is what the Otsu search returns. With inverse set
// the polarity flips, for dark pills on a light background.
//
// The comparison runs on the raw pixel values. Routing a grayscale image
// through a luminance-weighted thresholder would reclassify values at the
// cutoff through float truncation.
func BinarizeFixed(signal *image.Gray, threshold uint8, inverse bool) *image.Gray {
	fore, back := uint8(255), uint8(0)
	if inverse {
		fore, back = back, fore
	}
	bin := image.NewGray(signal.Bounds())
	for i, v := range signal.Pix {
		if v > threshold {
			bin.Pix[i] = fore
		} else {
			bin.Pix[i] = back
		}
	}
	return bin
}

// BinarizeOtsu applies the Otsu-selected global threshold. No tunables;
// fully deterministic for a given signal.
//
// When inRegion is non-nil the threshold is computed from the histogram of
// the trusted-region pixels only. A circular spotlight zeroes everything
// outside the region, and that mass of pure black would otherwise dominate
// the histogram and pull the automatic cutoff down to the exterior/interior
// boundary, binarizing the whole trusted region as one region-sized
// foreground blob. Restricting the histogram keeps the two classes the ones
// that matter: in-region background versus pills. The cutoff is then
// applied to the full signal; exterior zeros fall below any in-region
// cutoff.
//
// A region with a single distinct intensity has no two classes to separate;
// it binarizes to all-background so a blank photograph counts zero pills
// instead of one region-sized blob.
func BinarizeOtsu(signal *image.Gray, inverse bool, inRegion func(x, y int) bool) *image.Gray {
	var bins []int
	if inRegion == nil {
		bins = histogram.NewRGBAHistogram(signal).R.Bins
	} else {
		bins = make([]int, 256)
		bounds := signal.Bounds()
		for y := 0; y < bounds.Dy(); y++ {
			for x := 0; x < bounds.Dx(); x++ {
				if inRegion(x, y) {
					bins[signal.GrayAt(x+bounds.Min.X, y+bounds.Min.Y).Y]++
				}
			}
		}
	}

	distinct := 0
	for _, count := range bins {
		if count > 0 {
			distinct++
		}
	}
	if distinct < 2 {
		return image.NewGray(signal.Bounds())
	}
	return BinarizeFixed(signal, otsuFromBins(bins), inverse)
}

// BinarizeAdaptive thresholds each pixel against the mean intensity of its
// local blockSize x blockSize neighborhood minus the offset c. This is the
// strategy of choice when illumination varies across the frame: a single
// global cutoff that works at the bright side of the photo drowns the dim
// side, but a local mean tracks the illumination gradient.
//
// blockSize must be odd and >= 3 (validated by the caller). The local mean
// is computed with an integral image, so cost is independent of block size.
// Window edges clamp to the frame.
func BinarizeAdaptive(signal *image.Gray, blockSize int, c float64, inverse bool) *image.Gray {
	bounds := signal.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	// integral[y+1][x+1] = sum of all pixels above-left of (x, y) inclusive.
	integral := make([][]int64, height+1)
	integral[0] = make([]int64, width+1)
	for y := 0; y < height; y++ {
		integral[y+1] = make([]int64, width+1)
		var rowSum int64
		for x := 0; x < width; x++ {
			rowSum += int64(signal.GrayAt(x+bounds.Min.X, y+bounds.Min.Y).Y)
			integral[y+1][x+1] = integral[y][x+1] + rowSum
		}
	}

	half := blockSize / 2
	bin := image.NewGray(bounds)
	for y := 0; y < height; y++ {
		y0 := maxInt(y-half, 0)
		y1 := minInt(y+half+1, height)
		for x := 0; x < width; x++ {
			x0 := maxInt(x-half, 0)
			x1 := minInt(x+half+1, width)

			area := int64(y1-y0) * int64(x1-x0)
			sum := integral[y1][x1] - integral[y0][x1] - integral[y1][x0] + integral[y0][x0]
			mean := float64(sum) / float64(area)

			v := float64(signal.GrayAt(x+bounds.Min.X, y+bounds.Min.Y).Y)
			fore := v > mean-c
			if inverse {
				fore = !fore
			}
			if fore {
				bin.SetGray(x+bounds.Min.X, y+bounds.Min.Y, color.Gray{Y: 255})
			}
		}
	}
	return bin
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
