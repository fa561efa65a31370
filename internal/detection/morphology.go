package detection

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
)

// Open performs morphological opening (erode then dilate) on a binary map.
// Opening removes speck noise smaller than the structuring radius without
// shrinking the surviving blobs.
func Open(bin *image.Gray, radius float64) *image.Gray {
	if radius <= 0 {
		return bin
	}
	return rebinarize(effect.Dilate(effect.Erode(bin, radius), radius))
}

// Close performs morphological closing (dilate then erode), repeated
// iterations times. Closing patches small dark gaps inside blobs, such as
// holes punched by specular highlights or engraved pill markings.
func Close(bin *image.Gray, radius float64, iterations int) *image.Gray {
	if radius <= 0 || iterations <= 0 {
		return bin
	}
	out := bin
	for i := 0; i < iterations; i++ {
		out = rebinarize(effect.Erode(effect.Dilate(out, radius), radius))
	}
	return out
}

// FillHoles patches every enclosed background region inside a foreground
// blob. Background connected to the frame border stays background;
// everything else is interior and becomes foreground. This repairs pills
// whose centers binarized dark (glossy coatings, printed imprints) more
// thoroughly than closing can.
func FillHoles(bin *image.Gray) *image.Gray {
	bounds := bin.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	outside := make([]bool, width*height)

	// Flood fill the background from every border pixel.
	var stack []image.Point
	push := func(x, y int) {
		if x < 0 || x >= width || y < 0 || y >= height {
			return
		}
		idx := y*width + x
		if outside[idx] || bin.GrayAt(x+bounds.Min.X, y+bounds.Min.Y).Y != 0 {
			return
		}
		outside[idx] = true
		stack = append(stack, image.Pt(x, y))
	}

	for x := 0; x < width; x++ {
		push(x, 0)
		push(x, height-1)
	}
	for y := 0; y < height; y++ {
		push(0, y)
		push(width-1, y)
	}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		push(p.X+1, p.Y)
		push(p.X-1, p.Y)
		push(p.X, p.Y+1)
		push(p.X, p.Y-1)
	}

	out := image.NewGray(bounds)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if bin.GrayAt(x+bounds.Min.X, y+bounds.Min.Y).Y != 0 || !outside[y*width+x] {
				out.SetGray(x+bounds.Min.X, y+bounds.Min.Y, color.Gray{Y: 255})
			}
		}
	}
	return out
}

// rebinarize snaps the RGBA output of a grayscale morphology filter back to
// a clean {0, 255} binary map.
func rebinarize(img image.Image) *image.Gray {
	return segment.Threshold(img, 128)
}
