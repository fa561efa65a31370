package detection

import (
	"testing"
)

func allRegion(x, y int) bool { return true }

func TestHoughCircles_SingleDisc(t *testing.T) {
	signal := discSignal(80, 80, [][2]int{{40, 40}}, 15, 200, 0)

	candidates := HoughCircles(signal, 10, 20, 30, allRegion)
	if len(candidates) != 1 {
		t.Fatalf("candidates: got %d, want 1", len(candidates))
	}

	c := candidates[0]
	if abs(c.X-40) > 3 || abs(c.Y-40) > 3 {
		t.Errorf("center: got (%d,%d), want near (40,40)", c.X, c.Y)
	}
	if c.Radius < 13 || c.Radius > 18 {
		t.Errorf("radius: got %g, want ~15", c.Radius)
	}
	if c.Circularity != 1.0 {
		t.Errorf("circularity: got %g, want 1", c.Circularity)
	}
}

func TestHoughCircles_TwoDiscs(t *testing.T) {
	signal := discSignal(120, 80, [][2]int{{30, 40}, {90, 40}}, 12, 200, 0)

	candidates := HoughCircles(signal, 10, 14, 20, allRegion)
	if len(candidates) != 2 {
		t.Fatalf("candidates: got %d, want 2", len(candidates))
	}

	// Order is vote strength, not position; match each disc by proximity.
	for _, wantX := range []int{30, 90} {
		found := false
		for _, c := range candidates {
			if abs(c.X-wantX) <= 4 && abs(c.Y-40) <= 4 {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("no candidate near (%d,40): %+v", wantX, candidates)
		}
	}
}

func TestHoughCircles_LargeRadius(t *testing.T) {
	// A radius-30 disc searched over [20, 40]: the support for a large
	// circle lands across adjacent accumulator cells, and the pooled score
	// still has to clear the radius-proportional acceptance bar.
	signal := discSignal(200, 200, [][2]int{{100, 100}}, 30, 200, 0)

	candidates := HoughCircles(signal, 20, 40, 60, allRegion)
	if len(candidates) != 1 {
		t.Fatalf("candidates: got %d, want 1", len(candidates))
	}

	c := candidates[0]
	if abs(c.X-100) > 3 || abs(c.Y-100) > 3 {
		t.Errorf("center: got (%d,%d), want near (100,100)", c.X, c.Y)
	}
	if c.Radius < 27 || c.Radius > 33 {
		t.Errorf("radius: got %g, want ~30", c.Radius)
	}
}

func TestHoughCircles_MinDistThinning(t *testing.T) {
	// A single disc searched over a wide radius range produces near-center
	// maxima at several radii; the separation rule must collapse them.
	signal := discSignal(80, 80, [][2]int{{40, 40}}, 15, 200, 0)

	candidates := HoughCircles(signal, 10, 20, 60, allRegion)
	if len(candidates) != 1 {
		t.Errorf("candidates: got %d, want 1 after thinning", len(candidates))
	}
}

func TestHoughCircles_RegionRestriction(t *testing.T) {
	signal := discSignal(80, 80, [][2]int{{40, 40}}, 15, 200, 0)

	leftEdgeOnly := func(x, y int) bool { return x < 20 }
	if got := HoughCircles(signal, 10, 20, 30, leftEdgeOnly); len(got) != 0 {
		t.Errorf("restricted region: got %d candidates, want 0", len(got))
	}
}

func TestHoughCircles_NoEdges(t *testing.T) {
	signal := grayImage(60, 60, func(x, y int) uint8 { return 128 })

	if got := HoughCircles(signal, 10, 20, 20, allRegion); len(got) != 0 {
		t.Errorf("flat signal: got %d candidates, want 0", len(got))
	}
}

func TestHoughCircles_Deterministic(t *testing.T) {
	signal := discSignal(120, 80, [][2]int{{30, 40}, {90, 40}}, 12, 200, 0)

	a := HoughCircles(signal, 10, 14, 20, allRegion)
	b := HoughCircles(signal, 10, 14, 20, allRegion)
	if len(a) != len(b) {
		t.Fatalf("runs differ in length: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("candidate %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}
