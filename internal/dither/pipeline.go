package dither

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// minBandRows keeps tiny images on a single goroutine.
const minBandRows = 16

// Process runs the levels adjustment and the ordered ditherer over every
// pixel of src and returns a new buffer of the same size. Alpha is copied
// unchanged. src is not modified.
func Process(src *PixelBuffer, p Parameters) (*PixelBuffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	dst := &PixelBuffer{Width: src.Width, Height: src.Height, Pix: make([]float32, len(src.Pix))}
	if err := ProcessInto(dst, src, p); err != nil {
		return nil, err
	}
	return dst, nil
}

// ProcessInto is Process writing into dst, which must have src's
// dimensions. dst may be src itself.
func ProcessInto(dst, src *PixelBuffer, p Parameters) error {
	if err := src.Validate(); err != nil {
		return err
	}
	if err := dst.Validate(); err != nil {
		return err
	}
	if dst.Width != src.Width || dst.Height != src.Height {
		return ErrInvalidDimensions
	}
	if err := p.Validate(); err != nil {
		return err
	}
	mx, err := CachedMatrix(p.MatrixM, p.MatrixN)
	if err != nil {
		return err
	}

	workers := runtime.GOMAXPROCS(0)
	band := (src.Height + workers - 1) / workers
	if band < minBandRows {
		band = minBandRows
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for y0 := 0; y0 < src.Height; y0 += band {
		y1 := min(y0+band, src.Height)
		g.Go(func() error {
			processRows(dst, src, p, mx, y0, y1)
			return nil
		})
	}
	return g.Wait()
}

func processRows(dst, src *PixelBuffer, p Parameters, mx *Matrix, y0, y1 int) {
	for y := y0; y < y1; y++ {
		for x := 0; x < src.Width; x++ {
			c := Adjust(src.RGBAt(x, y), p.Contrast, p.Brightness, p.Invert)
			out := DitherPixel(c, mx.Threshold(x, y), p.Levels, p.ColorMode, p.DitherEnabled)
			dst.Set(x, y, out, src.AlphaAt(x, y))
		}
	}
}

// AdjustBuffer applies only the levels stage to every pixel. The error-diffusion
// path uses it before handing pixels to its own quantizer.
func AdjustBuffer(src *PixelBuffer, p Parameters) (*PixelBuffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	dst := src.Clone()
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			c := Adjust(src.RGBAt(x, y), p.Contrast, p.Brightness, p.Invert)
			dst.Set(x, y, c, src.AlphaAt(x, y))
		}
	}
	return dst, nil
}
