package imageprocessing

import (
	"fmt"
	"image"

	"github.com/rmitchellscott/ditherbox/internal/dither"
	"github.com/rmitchellscott/ditherbox/internal/sizing"
)

// Render brings src down to the working resolution and runs the selected
// algorithm over it. Dithering happens at working resolution, so matrix
// cells map onto pixelated blocks rather than display pixels.
func Render(src image.Image, working sizing.Size, p dither.Parameters) (*dither.PixelBuffer, error) {
	if src == nil {
		return nil, fmt.Errorf("input image is nil")
	}
	if err := working.Validate(); err != nil {
		return nil, err
	}

	buf, err := ToPixelBuffer(Downsample(src, working))
	if err != nil {
		return nil, fmt.Errorf("failed to convert source: %w", err)
	}
	return Apply(buf, p)
}

// Upscale turns a rendered buffer into an image of the given size using
// nearest-neighbour sampling.
func Upscale(buf *dither.PixelBuffer, size sizing.Size) (*image.NRGBA, error) {
	if err := size.Validate(); err != nil {
		return nil, err
	}
	img, err := FromPixelBuffer(buf)
	if err != nil {
		return nil, err
	}
	if buf.Width == size.Width && buf.Height == size.Height {
		return img, nil
	}
	return ScaleNearest(img, size), nil
}
