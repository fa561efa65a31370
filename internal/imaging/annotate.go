package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
)

// Annotation colors: red centroid dot, green
// enclosing ring, yellow label, yellow trusted-region outline.
var (
	dotColor     = color.RGBA{R: 255, A: 255}
	ringColor    = color.RGBA{G: 255, A: 255}
	labelColor   = color.RGBA{R: 255, G: 255, A: 255}
	labelBack    = color.RGBA{A: 180}
	outlineColor = color.RGBA{R: 255, G: 255, A: 255}
)

// Marker is one detection to draw: a centroid position in original-frame
// coordinates, an enclosing ring radius, and a short numeric label.
type Marker struct {
	X, Y   int
	Radius int
	Label  string
}

// Annotate draws detection markers and the trusted-region outline onto a
// private copy of the original frame. The source frame is never touched;
// every invocation returns a freshly allocated image.
//
// Each marker gets a filled centroid dot, an enclosing ring, and its label
// rendered just above-left of the centroid. The region outline shows the
// user where the counter actually looked.
func Annotate(frame image.Image, m *Mask, markers []Marker) *image.RGBA {
	bounds := frame.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(out, out.Bounds(), frame, bounds.Min, draw.Src)

	drawRegionOutline(out, m)

	for _, mk := range markers {
		drawDisc(out, mk.X, mk.Y, 6, dotColor)
		ring := mk.Radius
		if ring < 12 {
			ring = 12
		}
		drawCircle(out, mk.X, mk.Y, ring, ringColor)
		drawCircle(out, mk.X, mk.Y, ring+1, ringColor)
		drawLabel(out, mk.X-10, mk.Y-10-ring, mk.Label, labelColor, labelBack)
	}

	return out
}

// drawRegionOutline traces the trusted-region boundary in original-frame
// coordinates.
func drawRegionOutline(img *image.RGBA, m *Mask) {
	if m.Shape == RegionRect {
		x0 := m.Offset.X
		y0 := m.Offset.Y
		x1 := x0 + m.Work.Dx() - 1
		y1 := y0 + m.Work.Dy() - 1
		for x := x0; x <= x1; x++ {
			setIfInside(img, x, y0, outlineColor)
			setIfInside(img, x, y1, outlineColor)
		}
		for y := y0; y <= y1; y++ {
			setIfInside(img, x0, y, outlineColor)
			setIfInside(img, x1, y, outlineColor)
		}
		return
	}
	drawCircle(img, m.CX, m.CY, m.Radius, outlineColor)
	drawCircle(img, m.CX, m.CY, m.Radius-1, outlineColor)
}

// drawCircle traces a circle outline using the midpoint algorithm.
func drawCircle(img *image.RGBA, cx, cy, radius int, c color.RGBA) {
	if radius < 0 {
		return
	}
	x := radius
	y := 0
	err := 0
	for x >= y {
		setIfInside(img, cx+x, cy+y, c)
		setIfInside(img, cx+y, cy+x, c)
		setIfInside(img, cx-y, cy+x, c)
		setIfInside(img, cx-x, cy+y, c)
		setIfInside(img, cx-x, cy-y, c)
		setIfInside(img, cx-y, cy-x, c)
		setIfInside(img, cx+y, cy-x, c)
		setIfInside(img, cx+x, cy-y, c)
		if err <= 0 {
			y++
			err += 2*y + 1
		}
		if err > 0 {
			x--
			err -= 2*x + 1
		}
	}
}

// drawDisc fills a circle of the given radius.
func drawDisc(img *image.RGBA, cx, cy, radius int, c color.RGBA) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= radius*radius {
				setIfInside(img, cx+dx, cy+dy, c)
			}
		}
	}
}

func setIfInside(img *image.RGBA, x, y int, c color.RGBA) {
	if (image.Point{X: x, Y: y}).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}

// drawLabel draws a numeric text label at the given position using a small
// built-in 3x5 pixel font. Detection labels are ordinal numbers, so only
// digits are needed; unknown runes advance the cursor without drawing.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	glyphs := map[rune][]string{
		'0': {"111", "101", "101", "101", "111"},
		'1': {"010", "110", "010", "010", "111"},
		'2': {"111", "001", "111", "100", "111"},
		'3': {"111", "001", "111", "001", "111"},
		'4': {"101", "101", "111", "001", "001"},
		'5': {"111", "100", "111", "001", "111"},
		'6': {"111", "100", "111", "101", "111"},
		'7': {"111", "001", "001", "001", "001"},
		'8': {"111", "101", "111", "101", "111"},
		'9': {"111", "101", "111", "001", "111"},
	}

	bounds := img.Bounds()
	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			px, py := x+dx, y+dy
			if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
				img.Set(px, py, bg)
			}
		}
	}

	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel == '1' {
					px, py := cx+col, y+row
					if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
						img.Set(px, py, fg)
					}
				}
			}
		}
		cx += charWidth
	}
}

// EncodeBase64PNG encodes an image as a base64 PNG string for transport in
// JSON tool results. Annotated frames and debug grids all travel this way.
func EncodeBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
