package dither

// RGB is a colour with channels normalized to [0,1].
type RGB struct {
	R, G, B float64
}

// Clamp01 limits v to [0,1].
func Clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// Clamp returns c with every channel limited to [0,1].
func (c RGB) Clamp() RGB {
	return RGB{Clamp01(c.R), Clamp01(c.G), Clamp01(c.B)}
}

// Adjust applies contrast and brightness around mid-grey, clamps, and
// optionally inverts. Zero contrast and brightness leave c unchanged apart
// from clamping.
func Adjust(c RGB, contrast, brightness float64, invert bool) RGB {
	return RGB{
		R: adjustChannel(c.R, contrast, brightness, invert),
		G: adjustChannel(c.G, contrast, brightness, invert),
		B: adjustChannel(c.B, contrast, brightness, invert),
	}
}

func adjustChannel(v, contrast, brightness float64, invert bool) float64 {
	if contrast != 0 || brightness != 0 {
		v = (v-0.5)*(1+contrast) + 0.5 + brightness
	}
	v = Clamp01(v)
	if invert {
		v = 1 - v
	}
	return v
}
