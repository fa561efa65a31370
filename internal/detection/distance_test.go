package detection

import (
	"image"
	"testing"
)

func TestDistanceTransform_SingleDisc(t *testing.T) {
	bin := discSignal(40, 40, [][2]int{{20, 20}}, 10, 255, 0)

	field := DistanceTransform(bin)

	// The disc's inscribed radius is 10; chamfer approximation stays within
	// a couple of percent.
	max := field.Max()
	if max < 9 || max > 12 {
		t.Errorf("max distance: got %g, want ~10", max)
	}
	if center := field.At(20, 20); float64(center) < float64(max)*0.95 {
		t.Errorf("center distance %g well below max %g", center, max)
	}
	if field.At(2, 2) != 0 {
		t.Error("background pixel should be zero")
	}
	// Just inside the boundary the distance is small.
	if d := field.At(20, 11); d > 3 {
		t.Errorf("boundary distance: got %g, want small", d)
	}
}

func TestDistanceTransform_FrameEdgeIsBackground(t *testing.T) {
	// An all-foreground frame: the frame border acts as background, so the
	// field is bounded by the half-width instead of growing without limit.
	bin := grayImage(21, 21, func(x, y int) uint8 { return 255 })

	field := DistanceTransform(bin)

	max := field.Max()
	if max < 9 || max > 13 {
		t.Errorf("max distance: got %g, want ~11", max)
	}
	if field.At(0, 0) > 2 {
		t.Errorf("corner distance: got %g, want ~1", field.At(0, 0))
	}
}

func TestDistanceTransform_EmptyMap(t *testing.T) {
	bin := image.NewGray(image.Rect(0, 0, 30, 30))

	field := DistanceTransform(bin)
	if field.Max() != 0 {
		t.Errorf("empty map max: got %g, want 0", field.Max())
	}
}

func TestDistanceField_AtOutOfRange(t *testing.T) {
	field := DistanceTransform(discSignal(20, 20, [][2]int{{10, 10}}, 5, 255, 0))

	for _, p := range [][2]int{{-1, 0}, {0, -1}, {20, 0}, {0, 20}} {
		if field.At(p[0], p[1]) != 0 {
			t.Errorf("At(%d,%d): got %g, want 0", p[0], p[1], field.At(p[0], p[1]))
		}
	}
}

func TestDistanceField_ToGray(t *testing.T) {
	bin := discSignal(40, 40, [][2]int{{20, 20}}, 10, 255, 0)

	field := DistanceTransform(bin)
	img := field.ToGray()

	if img.Bounds() != image.Rect(0, 0, 40, 40) {
		t.Fatalf("bounds: got %v", img.Bounds())
	}
	// The field maximum maps to full white.
	maxPix := uint8(0)
	for _, p := range img.Pix {
		if p > maxPix {
			maxPix = p
		}
	}
	if maxPix != 255 {
		t.Errorf("brightest pixel: got %d, want 255", maxPix)
	}
	if img.GrayAt(2, 2).Y != 0 {
		t.Error("background should render black")
	}
}

func TestDistanceField_ToGrayEmpty(t *testing.T) {
	field := DistanceTransform(image.NewGray(image.Rect(0, 0, 10, 10)))

	img := field.ToGray()
	for _, p := range img.Pix {
		if p != 0 {
			t.Fatal("empty field should render all black")
		}
	}
}
