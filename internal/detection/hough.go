package detection

import (
	"image"
	"math"
	"sort"
)

// houghEdgeThreshold is the gradient magnitude above which a signal pixel
// counts as an edge for circle voting.
const houghEdgeThreshold = 30

// HoughCircles searches the smoothed signal for circular edge patterns
// using a Hough transform over the radius range [rMin, rMax]. It is the
// alternative separation path: instead of binarizing and splitting blobs,
// each accepted circle is a candidate directly.
//
// inRegion restricts the search to the trusted region: edge pixels outside
// it do not vote and centers outside it are not accepted.
//
// For each radius an accumulator collects votes from edge pixels, cast
// every 5 degrees around the pixel. Pixel quantization spreads one center's
// support across a few adjacent cells, so acceptance works on the 3x3
// pooled vote score: centers whose pooled score reaches 3x the radius
// (about half the edge pixels of a full circumference landing one vote
// each) and are local score maxima become circles. Accepted circles are
// then thinned so no two centers lie within minDist of each other, keeping
// the stronger score. The returned order is score descending with position
// tie-breaks, so numbering is reproducible.
func HoughCircles(signal *image.Gray, rMin, rMax, minDist int, inRegion func(x, y int) bool) []Candidate {
	bounds := signal.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if rMin < 1 {
		rMin = 1
	}

	edges := gradientEdges(signal)

	type circle struct {
		x, y, r, votes int
	}
	var circles []circle

	for radius := rMin; radius <= rMax; radius++ {
		accumulator := make([]int, width*height)

		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				if !edges[y*width+x] || !inRegion(x, y) {
					continue
				}
				for angle := 0; angle < 360; angle += 5 {
					rad := float64(angle) * math.Pi / 180
					cx := x - int(math.Round(float64(radius)*math.Cos(rad)))
					cy := y - int(math.Round(float64(radius)*math.Sin(rad)))
					if cx >= 0 && cx < width && cy >= 0 && cy < height {
						accumulator[cy*width+cx]++
					}
				}
			}
		}

		// Pool each cell with its 3x3 neighborhood: a true center's votes
		// land across adjacent cells, and single-cell counts fall short of
		// any radius-proportional threshold as the radius grows.
		score := make([]int, width*height)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				s := 0
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						ny, nx := y+dy, x+dx
						if ny >= 0 && ny < height && nx >= 0 && nx < width {
							s += accumulator[ny*width+nx]
						}
					}
				}
				score[y*width+x] = s
			}
		}

		threshold := 3 * radius
		if threshold < 3 {
			threshold = 3
		}
		for y := radius; y < height-radius; y++ {
			for x := radius; x < width-radius; x++ {
				votes := score[y*width+x]
				if votes < threshold || !inRegion(x, y) {
					continue
				}

				isMax := true
				for dy := -5; dy <= 5 && isMax; dy++ {
					for dx := -5; dx <= 5; dx++ {
						if dx == 0 && dy == 0 {
							continue
						}
						ny, nx := y+dy, x+dx
						if ny >= 0 && ny < height && nx >= 0 && nx < width &&
							score[ny*width+nx] > votes {
							isMax = false
							break
						}
					}
				}
				if isMax {
					circles = append(circles, circle{x: x, y: y, r: radius, votes: votes})
				}
			}
		}
	}

	// Strongest first; full tie-break keeps the order deterministic.
	sort.Slice(circles, func(i, j int) bool {
		a, b := circles[i], circles[j]
		if a.votes != b.votes {
			return a.votes > b.votes
		}
		if a.y != b.y {
			return a.y < b.y
		}
		if a.x != b.x {
			return a.x < b.x
		}
		return a.r < b.r
	})

	// Enforce the minimum center-to-center separation.
	var candidates []Candidate
	for _, c := range circles {
		tooClose := false
		for _, kept := range candidates {
			dx := float64(c.x - kept.X)
			dy := float64(c.y - kept.Y)
			if math.Sqrt(dx*dx+dy*dy) < float64(minDist) {
				tooClose = true
				break
			}
		}
		if tooClose {
			continue
		}
		r := float64(c.r)
		candidates = append(candidates, Candidate{
			X:           c.x,
			Y:           c.y,
			Area:        math.Pi * r * r,
			Radius:      r,
			Circularity: 1.0,
			BBox:        image.Rect(c.x-c.r, c.y-c.r, c.x+c.r+1, c.y+c.r+1),
		})
	}
	return candidates
}

// gradientEdges marks pixels whose horizontal or vertical intensity step
// exceeds the edge threshold. Border pixels are never edges.
func gradientEdges(signal *image.Gray) []bool {
	bounds := signal.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	edges := make([]bool, width*height)

	at := func(x, y int) int {
		return int(signal.GrayAt(x+bounds.Min.X, y+bounds.Min.Y).Y)
	}

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			c := at(x, y)
			dx := c - at(x+1, y)
			dy := c - at(x, y+1)
			if dx < 0 {
				dx = -dx
			}
			if dy < 0 {
				dy = -dy
			}
			if dx > houghEdgeThreshold || dy > houghEdgeThreshold {
				edges[y*width+x] = true
			}
		}
	}
	return edges
}
