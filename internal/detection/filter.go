package detection

import (
	"math"
	"sort"
)

// FixedRules is the geometric candidate filter: absolute bounds applied as
// an AND across every enabled rule. Zero values disable the optional rules.
type FixedRules struct {
	// MinArea rejects candidates below this pixel area. Removes the
	// few-pixel noise specks that survive morphology.
	MinArea float64

	// MaxArea, when > 0, rejects candidates above this pixel area.
	MaxArea float64

	// MinCircularity, when > 0, rejects candidates whose shape descriptor
	// falls below it. Tuned low it admits capsules; tuned high it rejects
	// everything but round tablets and, usefully, elongated reflection
	// artifacts.
	MinCircularity float64

	// MaxCenterFrac rejects candidates whose centroid lies beyond this
	// fraction of the trusted-region radius from the region center. The
	// final defense against rim and edge artifacts that survived masking.
	MaxCenterFrac float64

	// CenterX, CenterY, Radius describe the trusted region in working
	// coordinates.
	CenterX, CenterY int
	Radius           int
}

// FilterFixed applies the fixed geometric rules, preserving candidate order.
func FilterFixed(candidates []Candidate, rules FixedRules) []Candidate {
	kept := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Area < rules.MinArea {
			continue
		}
		if rules.MaxArea > 0 && c.Area > rules.MaxArea {
			continue
		}
		if rules.MinCircularity > 0 && c.Circularity < rules.MinCircularity {
			continue
		}
		if rules.MaxCenterFrac > 0 && rules.Radius > 0 {
			dx := float64(c.X - rules.CenterX)
			dy := float64(c.Y - rules.CenterY)
			if math.Sqrt(dx*dx+dy*dy) > rules.MaxCenterFrac*float64(rules.Radius) {
				continue
			}
		}
		kept = append(kept, c)
	}
	return kept
}

// GroupRules is the population-statistics filter: instead of absolute
// bounds it measures each candidate against the group actually observed in
// this one photograph. Robust to unknown pill sizes, but unreliable when
// fewer than three true pills are present (the median is then dominated by
// whatever noise survived).
//
// The two fractions are heuristics from informal experimentation, exposed
// as configuration rather than hard-coded; re-tune them per deployment.
type GroupRules struct {
	// MinAreaFrac rejects candidates whose area is below this fraction of
	// the group median area. Reference value 0.2.
	MinAreaFrac float64

	// MaxSpreadFrac rejects candidates whose centroid is farther from the
	// centroid-of-centroids than this fraction of the frame width.
	// Reference value 0.4.
	MaxSpreadFrac float64

	// FrameWidth is the working-frame width the spread fraction scales by.
	FrameWidth int
}

// FilterGroup applies the group-statistics rules, preserving candidate
// order. With no candidates it returns the input unchanged.
func FilterGroup(candidates []Candidate, rules GroupRules) []Candidate {
	if len(candidates) == 0 {
		return candidates
	}

	areas := make([]float64, len(candidates))
	var sumX, sumY float64
	for i, c := range candidates {
		areas[i] = c.Area
		sumX += float64(c.X)
		sumY += float64(c.Y)
	}
	sort.Float64s(areas)
	median := areas[len(areas)/2]
	if len(areas)%2 == 0 {
		median = (areas[len(areas)/2-1] + areas[len(areas)/2]) / 2
	}
	meanX := sumX / float64(len(candidates))
	meanY := sumY / float64(len(candidates))

	kept := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if rules.MinAreaFrac > 0 && c.Area < rules.MinAreaFrac*median {
			continue
		}
		if rules.MaxSpreadFrac > 0 && rules.FrameWidth > 0 {
			dx := float64(c.X) - meanX
			dy := float64(c.Y) - meanY
			if math.Sqrt(dx*dx+dy*dy) > rules.MaxSpreadFrac*float64(rules.FrameWidth) {
				continue
			}
		}
		kept = append(kept, c)
	}
	return kept
}
