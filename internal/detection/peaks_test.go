package detection

import (
	"image"
	"math"
	"testing"
)

func TestExtractPeaks_TwoSeparateDiscs(t *testing.T) {
	bin := discSignal(60, 30, [][2]int{{15, 15}, {45, 15}}, 8, 255, 0)
	field := DistanceTransform(bin)

	candidates := ExtractPeaks(field, PeaksThreshold, 0.5, 20, 1)
	if len(candidates) != 2 {
		t.Fatalf("candidates: got %d, want 2", len(candidates))
	}
	// Row-major discovery: the left peak comes first.
	if candidates[0].X >= candidates[1].X {
		t.Errorf("order: got x %d then %d", candidates[0].X, candidates[1].X)
	}
	for i, c := range candidates {
		wantX := []int{15, 45}[i]
		if abs(c.X-wantX) > 2 || abs(c.Y-15) > 2 {
			t.Errorf("candidate %d centroid: got (%d,%d)", i, c.X, c.Y)
		}
	}
}

func TestExtractPeaks_TauControlsSplitting(t *testing.T) {
	// Two overlapping discs form a dumbbell: one blob, two distance maxima
	// with a saddle at the waist. A low cut keeps the saddle above water
	// (one peak); a high cut severs it (two peaks).
	bin := discSignal(56, 30, [][2]int{{20, 15}, {36, 15}}, 10, 255, 0)
	field := DistanceTransform(bin)

	low := ExtractPeaks(field, PeaksThreshold, 0.4, 20, 1)
	if len(low) != 1 {
		t.Errorf("tau 0.4: got %d peaks, want 1", len(low))
	}

	high := ExtractPeaks(field, PeaksThreshold, 0.8, 20, 1)
	if len(high) != 2 {
		t.Errorf("tau 0.8: got %d peaks, want 2", len(high))
	}
}

func TestExtractPeaks_MaximaSplitsTouchingDiscs(t *testing.T) {
	// Two discs touching at a wide waist. The saddle distance stays above
	// the 0.5 cut, so threshold extraction sees a single component; the
	// local-maxima mode still finds both centers.
	bin := discSignal(150, 80, [][2]int{{50, 40}, {100, 40}}, 30, 255, 0)
	field := DistanceTransform(bin)

	merged := ExtractPeaks(field, PeaksThreshold, 0.5, 20, 1)
	if len(merged) != 1 {
		t.Errorf("threshold mode: got %d peaks, want 1 (merged)", len(merged))
	}

	split := ExtractPeaks(field, PeaksMaxima, 0.5, 20, 1)
	if len(split) != 2 {
		t.Fatalf("maxima mode: got %d peaks, want 2", len(split))
	}
	for i, c := range split {
		wantX := []int{50, 100}[i]
		if abs(c.X-wantX) > 3 || abs(c.Y-40) > 3 {
			t.Errorf("peak %d: got (%d,%d), want near (%d,40)", i, c.X, c.Y, wantX)
		}
		// The peak distance is the inscribed radius.
		if c.Radius < 27 || c.Radius > 33 {
			t.Errorf("peak %d radius: got %g, want ~30", i, c.Radius)
		}
		if math.Abs(c.Area-math.Pi*c.Radius*c.Radius) > 0.01 {
			t.Errorf("peak %d area not pi*r^2: got %g", i, c.Area)
		}
	}
}

func TestExtractPeaks_MaximaSuppressionWindow(t *testing.T) {
	// Two separate discs of unequal size with centers 18 apart. At min_dist
	// 20 the weaker peak sits inside the stronger peak's suppression window,
	// so only the stronger one survives.
	bin := grayImage(64, 30, func(x, y int) uint8 {
		if (x-18)*(x-18)+(y-15)*(y-15) <= 100 {
			return 255
		}
		if (x-36)*(x-36)+(y-15)*(y-15) <= 49 {
			return 255
		}
		return 0
	})
	field := DistanceTransform(bin)

	candidates := ExtractPeaks(field, PeaksMaxima, 0.4, 20, 1)
	if len(candidates) != 1 {
		t.Fatalf("candidates: got %d, want 1", len(candidates))
	}
	c := candidates[0]
	if abs(c.X-18) > 2 || abs(c.Y-15) > 2 {
		t.Errorf("surviving peak: got (%d,%d), want near (18,15)", c.X, c.Y)
	}
}

func TestExtractPeaks_MinPeakArea(t *testing.T) {
	bin := discSignal(40, 40, [][2]int{{20, 20}}, 10, 255, 0)
	field := DistanceTransform(bin)

	if got := ExtractPeaks(field, PeaksThreshold, 0.5, 20, 10000); len(got) != 0 {
		t.Errorf("oversized min peak area: got %d candidates, want 0", len(got))
	}
}

func TestExtractPeaks_EmptyField(t *testing.T) {
	field := DistanceTransform(image.NewGray(image.Rect(0, 0, 30, 30)))

	if got := ExtractPeaks(field, PeaksThreshold, 0.5, 20, 1); got != nil {
		t.Errorf("empty field: got %d candidates, want none", len(got))
	}
}

func TestExtractPeaks_Deterministic(t *testing.T) {
	bin := discSignal(80, 40, [][2]int{{20, 20}, {60, 20}}, 12, 255, 0)
	field := DistanceTransform(bin)

	a := ExtractPeaks(field, PeaksThreshold, 0.5, 20, 1)
	b := ExtractPeaks(field, PeaksThreshold, 0.5, 20, 1)
	if len(a) != len(b) {
		t.Fatalf("runs differ in length: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("candidate %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
