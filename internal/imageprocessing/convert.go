package imageprocessing

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/rmitchellscott/ditherbox/internal/dither"
)

// ToNRGBA converts any image to non-premultiplied RGBA anchored at the
// origin.
func ToNRGBA(img image.Image) *image.NRGBA {
	if nrgba, ok := img.(*image.NRGBA); ok && nrgba.Rect.Min == (image.Point{}) {
		return nrgba
	}

	bounds := img.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(nrgba, nrgba.Bounds(), img, bounds.Min, draw.Src)
	return nrgba
}

// ToPixelBuffer converts an image into the normalized buffer the pipeline
// works on.
func ToPixelBuffer(img image.Image) (*dither.PixelBuffer, error) {
	nrgba := ToNRGBA(img)
	w, h := nrgba.Rect.Dx(), nrgba.Rect.Dy()

	var raw []byte
	if nrgba.Stride == w*4 {
		raw = nrgba.Pix[:w*h*4]
	} else {
		raw = make([]byte, 0, w*h*4)
		for y := 0; y < h; y++ {
			raw = append(raw, nrgba.Pix[y*nrgba.Stride:y*nrgba.Stride+w*4]...)
		}
	}
	return dither.FromBytes(w, h, raw)
}

// FromPixelBuffer converts a pipeline buffer back into an image.
func FromPixelBuffer(buf *dither.PixelBuffer) (*image.NRGBA, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	return &image.NRGBA{
		Pix:    buf.Bytes(),
		Stride: buf.Width * 4,
		Rect:   image.Rect(0, 0, buf.Width, buf.Height),
	}, nil
}

// ToGray returns img as *image.Gray when every pixel is opaque and has
// equal R, G and B. The second result is false otherwise.
func ToGray(img image.Image) (*image.Gray, bool) {
	nrgba := ToNRGBA(img)
	bounds := nrgba.Bounds()
	gray := image.NewGray(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := nrgba.NRGBAAt(x, y)
			if c.A != 0xff || c.R != c.G || c.G != c.B {
				return nil, false
			}
			gray.SetGray(x, y, color.Gray{Y: c.R})
		}
	}
	return gray, true
}

// BitDepthForLevels returns the packed grayscale PNG bit depth that holds
// exactly levels evenly spaced greys, or 0 when there is none below 8 bits.
func BitDepthForLevels(levels int) int {
	switch levels {
	case 2:
		return 1
	case 4:
		return 2
	case 16:
		return 4
	default:
		return 0
	}
}
