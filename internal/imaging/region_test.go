package imaging

import (
	"image"
	"image/color"
	"testing"
)

// solidFrame returns a frame filled with one color.
func solidFrame(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestBuildMask_Circle(t *testing.T) {
	m := BuildMask(200, 100, RegionCircle, 0.7)

	if m.Shape != RegionCircle {
		t.Errorf("Shape: got %s, want circle", m.Shape)
	}
	if m.CX != 100 || m.CY != 50 {
		t.Errorf("Center: got (%d,%d), want (100,50)", m.CX, m.CY)
	}
	// Radius is extent x min(W,H)/2 = 0.7 x 50 = 35.
	if m.Radius != 35 {
		t.Errorf("Radius: got %d, want 35", m.Radius)
	}
	if m.Work != image.Rect(0, 0, 200, 100) {
		t.Errorf("Work: got %v, want full frame", m.Work)
	}
	if m.Offset != (image.Point{}) {
		t.Errorf("Offset: got %v, want zero", m.Offset)
	}
}

func TestBuildMask_Rect(t *testing.T) {
	m := BuildMask(200, 100, RegionRect, 0.5)

	// A border of (1-0.5)/2 = 25% is removed from each side.
	if m.Offset != image.Pt(50, 25) {
		t.Errorf("Offset: got %v, want (50,25)", m.Offset)
	}
	if m.Work != image.Rect(0, 0, 100, 50) {
		t.Errorf("Work: got %v, want 100x50", m.Work)
	}
	if m.CX != 50 || m.CY != 25 {
		t.Errorf("Center: got (%d,%d), want (50,25)", m.CX, m.CY)
	}
	if m.Radius != 25 {
		t.Errorf("Radius: got %d, want 25", m.Radius)
	}
}

func TestBuildMask_Deterministic(t *testing.T) {
	a := BuildMask(640, 480, RegionCircle, 0.7)
	b := BuildMask(640, 480, RegionCircle, 0.7)

	if *a != *b {
		t.Errorf("Same inputs produced different masks: %+v vs %+v", a, b)
	}
}

func TestMask_Contains_Circle(t *testing.T) {
	m := BuildMask(100, 100, RegionCircle, 0.5)
	// Radius 25, center (50,50).

	tests := []struct {
		x, y int
		want bool
	}{
		{50, 50, true},
		{50 + 25, 50, true},  // on the boundary
		{50 + 26, 50, false}, // just outside
		{0, 0, false},
		{-5, 50, false}, // outside the frame entirely
	}

	for _, tt := range tests {
		if got := m.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("Contains(%d,%d): got %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestMask_Contains_Rect(t *testing.T) {
	m := BuildMask(100, 100, RegionRect, 0.5)
	// Work is 50x50.

	if !m.Contains(0, 0) || !m.Contains(49, 49) {
		t.Error("Corners of the working frame should be inside a rect mask")
	}
	if m.Contains(50, 50) {
		t.Error("Points beyond the working frame should be outside")
	}
}

func TestMask_Select_CircleSpotlight(t *testing.T) {
	frame := solidFrame(100, 100, color.RGBA{200, 150, 100, 255})
	m := BuildMask(100, 100, RegionCircle, 0.5)

	work := m.Select(frame)

	if work.Bounds() != image.Rect(0, 0, 100, 100) {
		t.Fatalf("Working frame bounds: got %v", work.Bounds())
	}

	// Inside the spotlight the pixel survives untouched.
	if got := work.RGBAAt(50, 50); got != (color.RGBA{200, 150, 100, 255}) {
		t.Errorf("Inside spotlight: got %v", got)
	}
	// Outside it is forced to black, not merely ignored.
	if got := work.RGBAAt(2, 2); got != (color.RGBA{A: 255}) {
		t.Errorf("Outside spotlight: got %v, want black", got)
	}

	// The source frame is never mutated.
	if got := frame.RGBAAt(2, 2); got != (color.RGBA{200, 150, 100, 255}) {
		t.Errorf("Source frame was mutated at (2,2): %v", got)
	}
}

func TestMask_Select_RectCrop(t *testing.T) {
	frame := solidFrame(100, 100, color.RGBA{10, 20, 30, 255})
	frame.SetRGBA(50, 50, color.RGBA{250, 0, 0, 255})
	m := BuildMask(100, 100, RegionRect, 0.5)

	work := m.Select(frame)

	if work.Bounds().Dx() != 50 || work.Bounds().Dy() != 50 {
		t.Fatalf("Cropped frame: got %dx%d, want 50x50", work.Bounds().Dx(), work.Bounds().Dy())
	}
	// Original (50,50) lands at (25,25) after removing the 25px border.
	if got := work.RGBAAt(25, 25); got != (color.RGBA{250, 0, 0, 255}) {
		t.Errorf("Cropped pixel: got %v, want the marked pixel", got)
	}
}

func TestMask_Apply_Dominates(t *testing.T) {
	m := BuildMask(100, 100, RegionCircle, 0.5)

	// All-foreground binary map, as if thresholding had bled everywhere.
	bin := image.NewGray(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			bin.SetGray(x, y, color.Gray{Y: 255})
		}
	}

	out := m.Apply(bin)

	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			inside := m.Contains(x, y)
			fore := out.GrayAt(x, y).Y > 0
			if fore && !inside {
				t.Fatalf("Foreground survived outside the trusted region at (%d,%d)", x, y)
			}
			if !fore && inside {
				t.Fatalf("Foreground inside the trusted region was cleared at (%d,%d)", x, y)
			}
		}
	}
}

func TestMask_Apply_Idempotent(t *testing.T) {
	m := BuildMask(80, 80, RegionCircle, 0.6)

	bin := image.NewGray(image.Rect(0, 0, 80, 80))
	for y := 0; y < 80; y++ {
		for x := 0; x < 80; x++ {
			bin.SetGray(x, y, color.Gray{Y: 255})
		}
	}

	once := m.Apply(bin)
	snapshot := make([]uint8, len(once.Pix))
	copy(snapshot, once.Pix)

	twice := m.Apply(once)
	for i := range twice.Pix {
		if twice.Pix[i] != snapshot[i] {
			t.Fatal("Applying the mask twice changed the binary map")
		}
	}
}
