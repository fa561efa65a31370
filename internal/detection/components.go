package detection

import (
	"image"
)

// Region is one connected component of a binary grid, with the statistics
// the candidate filter needs. Coordinates are working-frame pixels.
type Region struct {
	// Area is the number of pixels in the component.
	Area int

	// Perimeter is the count of boundary pixels: component pixels with at
	// least one 4-neighbor outside the component. An approximation of the
	// true contour length, adequate for the circularity descriptor.
	Perimeter int

	// BBox is the tight bounding box of the component.
	BBox image.Rectangle

	sumX, sumY int64
}

// Centroid returns the area centroid of the region.
func (r *Region) Centroid() (x, y int) {
	return int(r.sumX / int64(r.Area)), int(r.sumY / int64(r.Area))
}

// Circularity returns 4*pi*area/perimeter^2: 1.0 for a perfect disc, lower
// for elongated or ragged shapes. Capsules score around 0.7-0.9; thin
// reflection streaks score far lower.
func (r *Region) Circularity() float64 {
	if r.Perimeter == 0 {
		return 0
	}
	p := float64(r.Perimeter)
	return 4 * 3.141592653589793 * float64(r.Area) / (p * p)
}

// FindRegions labels the 8-connected components of a boolean grid.
//
// The scan is row-major from the top-left, so the order regions are
// discovered in is deterministic for a given grid. Detection numbering is
// derived from this order and must stay reproducible, so do not reorder.
func FindRegions(grid []bool, width, height int) []Region {
	visited := make([]bool, len(grid))
	var regions []Region

	var stack []image.Point
	for sy := 0; sy < height; sy++ {
		for sx := 0; sx < width; sx++ {
			start := sy*width + sx
			if !grid[start] || visited[start] {
				continue
			}

			region := Region{
				BBox: image.Rect(sx, sy, sx+1, sy+1),
			}
			visited[start] = true
			stack = append(stack[:0], image.Pt(sx, sy))

			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]

				region.Area++
				region.sumX += int64(p.X)
				region.sumY += int64(p.Y)
				if p.X < region.BBox.Min.X {
					region.BBox.Min.X = p.X
				}
				if p.Y < region.BBox.Min.Y {
					region.BBox.Min.Y = p.Y
				}
				if p.X+1 > region.BBox.Max.X {
					region.BBox.Max.X = p.X + 1
				}
				if p.Y+1 > region.BBox.Max.Y {
					region.BBox.Max.Y = p.Y + 1
				}

				boundary := false
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						if dx == 0 && dy == 0 {
							continue
						}
						nx, ny := p.X+dx, p.Y+dy
						inside := nx >= 0 && nx < width && ny >= 0 && ny < height && grid[ny*width+nx]
						if !inside {
							if dx == 0 || dy == 0 {
								boundary = true
							}
							continue
						}
						idx := ny*width + nx
						if !visited[idx] {
							visited[idx] = true
							stack = append(stack, image.Pt(nx, ny))
						}
					}
				}
				if boundary {
					region.Perimeter++
				}
			}

			regions = append(regions, region)
		}
	}

	return regions
}

// grayMask converts a {0, 255} binary map into the boolean grid used by
// FindRegions.
func grayMask(bin *image.Gray) ([]bool, int, int) {
	bounds := bin.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	grid := make([]bool, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			grid[y*width+x] = bin.GrayAt(x+bounds.Min.X, y+bounds.Min.Y).Y != 0
		}
	}
	return grid, width, height
}
