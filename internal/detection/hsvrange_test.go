package detection

import (
	"image"
	"image/color"
	"testing"
)

func TestHSVRange_Contains(t *testing.T) {
	r := HSVRange{HueMin: 100, HueMax: 140, SatMin: 0.5, SatMax: 1, ValMin: 0.5, ValMax: 1}

	tests := []struct {
		name    string
		h, s, v float64
		want    bool
	}{
		{"inside", 120, 0.8, 0.8, true},
		{"hue low", 90, 0.8, 0.8, false},
		{"hue high", 150, 0.8, 0.8, false},
		{"sat low", 120, 0.3, 0.8, false},
		{"val low", 120, 0.8, 0.3, false},
		{"hue boundary", 100, 0.5, 0.5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.h, tt.s, tt.v); got != tt.want {
				t.Errorf("Contains(%g,%g,%g): got %v, want %v", tt.h, tt.s, tt.v, got, tt.want)
			}
		})
	}
}

func TestHSVRange_HueWraparound(t *testing.T) {
	// A red range wrapping through 0.
	r := HSVRange{HueMin: 340, HueMax: 20, SatMin: 0, SatMax: 1, ValMin: 0, ValMax: 1}

	if !r.Contains(350, 0.5, 0.5) {
		t.Error("350 should be inside [340, 20]")
	}
	if !r.Contains(10, 0.5, 0.5) {
		t.Error("10 should be inside [340, 20]")
	}
	if r.Contains(180, 0.5, 0.5) {
		t.Error("180 should be outside [340, 20]")
	}
}

func TestBinarizeHSVRange(t *testing.T) {
	// Left half red, right half blue.
	frame := image.NewRGBA(image.Rect(0, 0, 20, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			if x < 10 {
				frame.SetRGBA(x, y, color.RGBA{255, 0, 0, 255})
			} else {
				frame.SetRGBA(x, y, color.RGBA{0, 0, 255, 255})
			}
		}
	}

	red := HSVRange{HueMin: 350, HueMax: 10, SatMin: 0.5, SatMax: 1, ValMin: 0.5, ValMax: 1}
	bin := BinarizeHSVRange(frame, red)

	if bin.GrayAt(5, 5).Y != 255 {
		t.Error("red pixel should match the red range")
	}
	if bin.GrayAt(15, 5).Y != 0 {
		t.Error("blue pixel should not match the red range")
	}
}

func TestBinarizeHSVRange_NoMatch(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for i := range frame.Pix {
		if i%4 == 0 || i%4 == 3 {
			frame.Pix[i] = 255 // red, opaque
		}
	}

	cyan := HSVRange{HueMin: 170, HueMax: 190, SatMin: 0.5, SatMax: 1, ValMin: 0.5, ValMax: 1}
	bin := BinarizeHSVRange(frame, cyan)

	if got := countForeground(bin); got != 0 {
		t.Errorf("no-match range: got %d foreground pixels, want 0", got)
	}
}
