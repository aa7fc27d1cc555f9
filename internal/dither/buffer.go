package dither

import (
	"fmt"
	"math"
)

// PixelBuffer is a dense row-major RGBA image with channels in [0,1].
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []float32
}

// NewPixelBuffer allocates a transparent black buffer.
func NewPixelBuffer(width, height int) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	return &PixelBuffer{Width: width, Height: height, Pix: make([]float32, width*height*4)}, nil
}

// Validate checks that Pix matches the declared dimensions.
func (b *PixelBuffer) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil buffer", ErrInvalidDimensions)
	}
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, b.Width, b.Height)
	}
	if want := b.Width * b.Height * 4; len(b.Pix) != want {
		return fmt.Errorf("%w: %dx%d needs %d samples, have %d",
			ErrInvalidDimensions, b.Width, b.Height, want, len(b.Pix))
	}
	return nil
}

// Offset returns the index of the red sample of (x, y).
func (b *PixelBuffer) Offset(x, y int) int {
	return (y*b.Width + x) * 4
}

// RGBAt returns the colour of (x, y), ignoring alpha.
func (b *PixelBuffer) RGBAt(x, y int) RGB {
	i := b.Offset(x, y)
	return RGB{float64(b.Pix[i]), float64(b.Pix[i+1]), float64(b.Pix[i+2])}
}

// AlphaAt returns the alpha of (x, y).
func (b *PixelBuffer) AlphaAt(x, y int) float64 {
	return float64(b.Pix[b.Offset(x, y)+3])
}

// Set writes colour c and alpha a at (x, y).
func (b *PixelBuffer) Set(x, y int, c RGB, a float64) {
	i := b.Offset(x, y)
	b.Pix[i] = float32(c.R)
	b.Pix[i+1] = float32(c.G)
	b.Pix[i+2] = float32(c.B)
	b.Pix[i+3] = float32(a)
}

// Clone returns a deep copy of b.
func (b *PixelBuffer) Clone() *PixelBuffer {
	pix := make([]float32, len(b.Pix))
	copy(pix, b.Pix)
	return &PixelBuffer{Width: b.Width, Height: b.Height, Pix: pix}
}

// FromBytes builds a buffer from 8-bit RGBA samples (v/255).
func FromBytes(width, height int, rgba []byte) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 || len(rgba) != width*height*4 {
		return nil, fmt.Errorf("%w: %dx%d with %d bytes", ErrInvalidDimensions, width, height, len(rgba))
	}
	pix := make([]float32, len(rgba))
	for i, v := range rgba {
		pix[i] = ByteToUnit(v)
	}
	return &PixelBuffer{Width: width, Height: height, Pix: pix}, nil
}

// Bytes converts the buffer to 8-bit RGBA samples (round(clamp(v)*255)).
func (b *PixelBuffer) Bytes() []byte {
	out := make([]byte, len(b.Pix))
	for i, v := range b.Pix {
		out[i] = UnitToByte(float64(v))
	}
	return out
}

// ByteToUnit maps an 8-bit sample onto [0,1].
func ByteToUnit(v uint8) float32 {
	return float32(v) / 255
}

// UnitToByte maps a [0,1] sample onto 0..255, rounding to nearest.
func UnitToByte(v float64) uint8 {
	return uint8(math.Round(Clamp01(v) * 255))
}
