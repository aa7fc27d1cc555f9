package dither

import (
	"fmt"
	"math"
)

// snapEpsilon absorbs float32 storage error so a value already sitting on
// a quantization level is not pushed to the next one.
const snapEpsilon = 1e-4

// Luminance weights (ITU-R BT.601), in thousandths.
const (
	lumaR = 299
	lumaG = 587
	lumaB = 114
)

// ValidateLevels reports whether levels is a usable level count.
func ValidateLevels(levels int) error {
	if levels < 2 {
		return fmt.Errorf("%w: %d (must be at least 2)", ErrInvalidQuantizeLevels, levels)
	}
	return nil
}

// Luminance returns the BT.601 weighted brightness of c.
func Luminance(c RGB) float64 {
	return (lumaR*c.R + lumaG*c.G + lumaB*c.B) / 1000
}

func levelStep(v float64, levels int) float64 {
	step := Clamp01(v) * float64(levels-1)
	if r := math.Round(step); math.Abs(step-r) < snapEpsilon {
		return r
	}
	return step
}

// Quantize snaps v to the nearest of levels evenly spaced values in [0,1].
// Ties round up. levels must be at least 2.
func Quantize(v float64, levels int) float64 {
	max := float64(levels - 1)
	return math.Floor(levelStep(v, levels)+0.5) / max
}

// QuantizeLevel is Quantize expressed as the integer level index.
func QuantizeLevel(v float64, levels int) int {
	return int(math.Floor(levelStep(v, levels) + 0.5))
}

// DitherLevel picks the level just below v, or the one above when the
// fractional position between them exceeds threshold.
func DitherLevel(v, threshold float64, levels int) int {
	step := levelStep(v, levels)
	floor := math.Floor(step)
	level := int(floor)
	if step-floor > threshold {
		level++
	}
	if level > levels-1 {
		level = levels - 1
	}
	if level < 0 {
		level = 0
	}
	return level
}

// DitherChannel is DitherLevel mapped back onto [0,1].
func DitherChannel(v, threshold float64, levels int) float64 {
	return float64(DitherLevel(v, threshold, levels)) / float64(levels-1)
}

// DitherPixel quantizes an adjusted colour. With enabled false the matrix
// threshold is ignored and plain rounding is used. In colour mode each
// channel is decided on its own; otherwise the decision is made on
// luminance and every channel is scaled by the quantized/original
// luminance ratio, which keeps the hue.
func DitherPixel(c RGB, threshold float64, levels int, colorMode, enabled bool) RGB {
	channel := func(v float64) float64 {
		if !enabled {
			return Quantize(v, levels)
		}
		return DitherChannel(v, threshold, levels)
	}

	if colorMode {
		return RGB{channel(c.R), channel(c.G), channel(c.B)}
	}

	y := Luminance(c)
	if y <= 0 {
		return RGB{}
	}
	ratio := channel(y) / y
	return RGB{
		R: Clamp01(c.R * ratio),
		G: Clamp01(c.G * ratio),
		B: Clamp01(c.B * ratio),
	}
}
