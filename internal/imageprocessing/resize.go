package imageprocessing

import (
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/rmitchellscott/ditherbox/internal/sizing"
)

// Downsample resamples img to the given size with bilinear filtering. It is
// used to bring a source down to the working (pixelated) resolution. When
// the size already matches, img is copied unchanged.
func Downsample(img image.Image, size sizing.Size) image.Image {
	if img == nil {
		return nil
	}
	bounds := img.Bounds()
	if bounds.Dx() == size.Width && bounds.Dy() == size.Height {
		return ToNRGBA(img)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, size.Width, size.Height))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, xdraw.Src, nil)
	return dst
}

// ScaleNearest resamples img with nearest-neighbour sampling so every
// pipeline pixel becomes a crisp block in the preview or export.
func ScaleNearest(img image.Image, size sizing.Size) *image.NRGBA {
	if img == nil {
		return nil
	}
	dst := image.NewNRGBA(image.Rect(0, 0, size.Width, size.Height))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}
