package imaging

import (
	"image"
	"image/color"
)

// CLAHE performs contrast-limited adaptive histogram equalization on a
// grayscale signal.
//
// The image is divided into a tiles x tiles grid. Each tile gets its own
// histogram equalization mapping, and every pixel is remapped by bilinear
// interpolation between the mappings of the four surrounding tile centers,
// which avoids visible tile seams.
//
// clipLimit bounds how steep any tile's mapping may become: histogram bins
// are clipped at clipLimit times the uniform bin height and the excess is
// redistributed evenly across all bins. Low limits approach a plain
// contrast stretch; high limits approach unlimited equalization, which
// amplifies noise in flat areas. The pill pipeline uses an aggressive
// default (5.0) because the spotlighted background is already near-black
// and the goal is to push pill interiors toward saturation.
//
// Parameters:
//   - src: Grayscale signal to equalize.
//   - clipLimit: Contrast limit, > 0. Typical range 1.0-8.0.
//   - tiles: Tile grid dimension, >= 1. The reference configuration is 8.
//
// The source image is not modified; a new grid is returned.
func CLAHE(src *image.Gray, clipLimit float64, tiles int) *image.Gray {
	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return src
	}
	if tiles < 1 {
		tiles = 1
	}
	if tiles > width {
		tiles = width
	}
	if tiles > height {
		tiles = height
	}

	tileW := (width + tiles - 1) / tiles
	tileH := (height + tiles - 1) / tiles

	// Per-tile equalization mappings.
	mappings := make([][]uint8, tiles*tiles)
	for ty := 0; ty < tiles; ty++ {
		for tx := 0; tx < tiles; tx++ {
			x0 := tx * tileW
			y0 := ty * tileH
			x1 := x0 + tileW
			y1 := y0 + tileH
			if x1 > width {
				x1 = width
			}
			if y1 > height {
				y1 = height
			}
			mappings[ty*tiles+tx] = tileMapping(src, x0, y0, x1, y1, clipLimit)
		}
	}

	// Remap each pixel by bilinear interpolation between the four
	// surrounding tile mappings.
	out := image.NewGray(bounds)
	for y := 0; y < height; y++ {
		gy := (float64(y)+0.5)/float64(tileH) - 0.5
		ty0 := int(gy)
		if gy < 0 {
			ty0 = -1
		}
		ty1 := ty0 + 1
		fy := gy - float64(ty0)
		cty0 := clampInt(ty0, 0, tiles-1)
		cty1 := clampInt(ty1, 0, tiles-1)

		for x := 0; x < width; x++ {
			gx := (float64(x)+0.5)/float64(tileW) - 0.5
			tx0 := int(gx)
			if gx < 0 {
				tx0 = -1
			}
			tx1 := tx0 + 1
			fx := gx - float64(tx0)
			ctx0 := clampInt(tx0, 0, tiles-1)
			ctx1 := clampInt(tx1, 0, tiles-1)

			v := src.GrayAt(x+bounds.Min.X, y+bounds.Min.Y).Y
			tl := float64(mappings[cty0*tiles+ctx0][v])
			tr := float64(mappings[cty0*tiles+ctx1][v])
			bl := float64(mappings[cty1*tiles+ctx0][v])
			br := float64(mappings[cty1*tiles+ctx1][v])

			top := tl + (tr-tl)*fx
			bottom := bl + (br-bl)*fx
			out.SetGray(x+bounds.Min.X, y+bounds.Min.Y, grayColor(top+(bottom-top)*fy))
		}
	}
	return out
}

// tileMapping builds the clipped equalization lookup table for one tile.
func tileMapping(src *image.Gray, x0, y0, x1, y1 int, clipLimit float64) []uint8 {
	bounds := src.Bounds()
	var hist [256]int
	pixels := 0
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			hist[src.GrayAt(x+bounds.Min.X, y+bounds.Min.Y).Y]++
			pixels++
		}
	}

	mapping := make([]uint8, 256)
	if pixels == 0 {
		for i := range mapping {
			mapping[i] = uint8(i)
		}
		return mapping
	}

	// Clip bins and pool the excess.
	clip := int(clipLimit * float64(pixels) / 256)
	if clip < 1 {
		clip = 1
	}
	excess := 0
	for i, count := range hist {
		if count > clip {
			excess += count - clip
			hist[i] = clip
		}
	}

	// Redistribute the pooled excess evenly; the remainder goes to the
	// lowest bins, which keeps the mapping deterministic.
	share := excess / 256
	rem := excess % 256
	for i := range hist {
		hist[i] += share
		if i < rem {
			hist[i]++
		}
	}

	// Cumulative distribution scaled to the full intensity range.
	cdf := 0
	for i, count := range hist {
		cdf += count
		mapping[i] = uint8((cdf*255 + pixels/2) / pixels)
	}
	return mapping
}

func grayColor(v float64) color.Gray {
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return color.Gray{Y: uint8(v + 0.5)}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
