package capture

import (
	"fmt"
	"image"
)

// Curve maps normalised intensities below Low to 0, above High to 1 and
// stretches the band between them linearly.
type Curve struct {
	Low  float64 `mapstructure:"low" toml:"low"`
	High float64 `mapstructure:"high" toml:"high"`
}

var DefaultCurve = Curve{Low: 0.045, High: 0.06}

func (c Curve) Apply(v uint8) uint8 {
	n := float64(v) / 255
	var adj float64
	switch {
	case n < c.Low:
		adj = 0
	case n < c.High:
		adj = (n - c.Low) / (c.High - c.Low)
	default:
		adj = 1
	}
	return uint8(adj * 255)
}

func (c Curve) Valid() bool {
	return c.Low >= 0 && c.Low < c.High && c.High <= 1
}

// Decode converts a native framebuffer dump into a logical w×h image. The
// panel stores 16-bit little-endian samples rotated a quarter turn from the
// logical orientation; only the high byte carries intensity.
func Decode(raw []byte, w, h int, curve Curve) (*image.Gray, error) {
	if len(raw) < w*h*bytesPerSample {
		return nil, fmt.Errorf("%w: short framebuffer: %d bytes, want %d", ErrCapture, len(raw), w*h*bytesPerSample)
	}
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			src := (h - 1 - y) + (w-1-x)*h
			img.Pix[y*img.Stride+x] = curve.Apply(raw[src*bytesPerSample+1])
		}
	}
	return img, nil
}
