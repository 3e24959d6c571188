package raster

import (
	"image"
	"image/color"
	"image/png"
	"io"
)

// Bitmap is a row-major ink mask.
type Bitmap struct {
	Width  int
	Height int
	Pix    []bool
}

func NewBitmap(w, h int) Bitmap {
	return Bitmap{Width: w, Height: h, Pix: make([]bool, w*h)}
}

func (b Bitmap) At(x, y int) bool {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return false
	}
	return b.Pix[y*b.Width+x]
}

func (b Bitmap) Set(x, y int, ink bool) {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return
	}
	b.Pix[y*b.Width+x] = ink
}

// InkCount returns the number of ink pixels.
func (b Bitmap) InkCount() int {
	n := 0
	for _, p := range b.Pix {
		if p {
			n++
		}
	}
	return n
}

// Image renders the mask black on white.
func (b Bitmap) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, b.Width, b.Height))
	for i, ink := range b.Pix {
		if ink {
			img.Pix[i] = 0
		} else {
			img.Pix[i] = 0xff
		}
	}
	return img
}

// Encode writes the mask as a PNG.
func (b Bitmap) Encode(w io.Writer) error {
	return png.Encode(w, b.Image())
}

// FromImage thresholds img: a pixel is ink when its alpha exceeds 128.
func FromImage(img image.Image) Bitmap {
	r := img.Bounds()
	bm := NewBitmap(r.Dx(), r.Dy())
	if rgba, ok := img.(*image.RGBA); ok {
		for y := 0; y < bm.Height; y++ {
			row := rgba.Pix[rgba.PixOffset(r.Min.X, r.Min.Y+y):]
			for x := 0; x < bm.Width; x++ {
				bm.Pix[y*bm.Width+x] = row[x*4+3] > 128
			}
		}
		return bm
	}
	for y := 0; y < bm.Height; y++ {
		for x := 0; x < bm.Width; x++ {
			a := color.NRGBAModel.Convert(img.At(r.Min.X+x, r.Min.Y+y)).(color.NRGBA).A
			bm.Pix[y*bm.Width+x] = a > 128
		}
	}
	return bm
}
