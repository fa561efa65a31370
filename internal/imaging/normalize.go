package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/channel"
)

// Channel modes understood by ExtractChannel and PickChannel.
const (
	ChannelRed   = "red"
	ChannelGreen = "green"
	ChannelBlue  = "blue"
	ChannelAuto  = "auto"
)

// ExtractChannel reduces a color frame to the named single channel.
//
// Channel choice is domain knowledge: the green channel usually separates a
// pink pill from a wood-grain background better than luminance would, and
// the blue channel separates a pink pill from a red container lid (pink
// carries high blue, red carries almost none). The mode string must be one
// of red, green, or blue; auto selection is resolved by PickChannel first.
func ExtractChannel(img image.Image, mode string) *image.Gray {
	var c channel.Channel
	switch mode {
	case ChannelRed:
		c = channel.Red
	case ChannelBlue:
		c = channel.Blue
	default:
		c = channel.Green
	}
	return channel.Extract(img, c)
}

// PickChannel selects the color channel with the greatest intensity
// dispersion (standard deviation) over the trusted region. High dispersion
// is a proxy for "best separates pills from background" when nothing is
// known about the pill color.
//
// The choice is deterministic: ties are broken by the fixed priority
// green > red > blue, matching the manual default.
func PickChannel(img image.Image, m *Mask) string {
	var sum, sumSq [3]float64
	var n float64

	bounds := img.Bounds()
	for y := 0; y < m.Work.Dy(); y++ {
		for x := 0; x < m.Work.Dx(); x++ {
			if !m.Contains(x, y) {
				continue
			}
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			for i, v := range [3]uint32{r >> 8, g >> 8, b >> 8} {
				f := float64(v)
				sum[i] += f
				sumSq[i] += f * f
			}
			n++
		}
	}
	if n == 0 {
		return ChannelGreen
	}

	var stddev [3]float64
	for i := 0; i < 3; i++ {
		mean := sum[i] / n
		stddev[i] = math.Sqrt(sumSq[i]/n - mean*mean)
	}

	// Priority order on ties: green, red, blue.
	best := ChannelGreen
	bestDev := stddev[1]
	if stddev[0] > bestDev {
		best = ChannelRed
		bestDev = stddev[0]
	}
	if stddev[2] > bestDev {
		best = ChannelBlue
	}
	return best
}

// Smooth applies a Gaussian low-pass filter to the signal to suppress
// high-frequency surface texture: engraved pill markings, wood grain,
// specular glints. Without this a single pill with internal texture is
// misread as several objects once binarized.
//
// kernel is the odd filter width in pixels; the caller has already rejected
// even values. A kernel of 1 disables smoothing.
func Smooth(signal *image.Gray, kernel int) *image.Gray {
	if kernel <= 1 {
		return signal
	}
	blurred := blur.Gaussian(signal, float64(kernel/2))
	return channel.Extract(blurred, channel.Red)
}
