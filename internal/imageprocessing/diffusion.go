package imageprocessing

import (
	"fmt"
	"image/color"
	"sort"

	mdither "github.com/makeworld-the-better-one/dither/v2"

	"github.com/rmitchellscott/ditherbox/internal/dither"
)

var diffusionMatrices = map[string]mdither.ErrorDiffusionMatrix{
	"floyd-steinberg":     mdither.FloydSteinberg,
	"atkinson":            mdither.Atkinson,
	"stucki":              mdither.Stucki,
	"burkes":              mdither.Burkes,
	"sierra":              mdither.Sierra,
	"sierra-lite":         mdither.SierraLite,
	"jarvis-judice-ninke": mdither.JarvisJudiceNinke,
}

// Algorithms returns every accepted algorithm name, ordered first and the
// error-diffusion kernels after it in alphabetical order.
func Algorithms() []string {
	names := make([]string, 0, len(diffusionMatrices))
	for name := range diffusionMatrices {
		names = append(names, name)
	}
	sort.Strings(names)
	return append([]string{dither.AlgorithmOrdered}, names...)
}

// ValidateAlgorithm reports whether name is a registered algorithm. The
// empty name means ordered.
func ValidateAlgorithm(name string) error {
	if name == "" || name == dither.AlgorithmOrdered {
		return nil
	}
	if _, ok := diffusionMatrices[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
	return nil
}

// Apply runs the algorithm selected by p over buf. Ordered dithering and
// plain quantization (dithering disabled) go through dither.Process; the
// error-diffusion kernels go through Diffuse.
func Apply(buf *dither.PixelBuffer, p dither.Parameters) (*dither.PixelBuffer, error) {
	if err := ValidateAlgorithm(p.Algorithm); err != nil {
		return nil, err
	}
	if !p.DitherEnabled || p.Algorithm == "" || p.Algorithm == dither.AlgorithmOrdered {
		return dither.Process(buf, p)
	}
	return Diffuse(buf, p)
}

// Diffuse applies the levels adjustment and then error-diffuses the result
// onto the palette implied by the quantize levels: a grey ramp in luminance
// mode, a levels^3 RGB cube in colour mode. Alpha is copied from src.
func Diffuse(src *dither.PixelBuffer, p dither.Parameters) (*dither.PixelBuffer, error) {
	matrix, ok := diffusionMatrices[p.Algorithm]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, p.Algorithm)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	adjusted, err := dither.AdjustBuffer(src, p)
	if err != nil {
		return nil, err
	}
	for y := 0; y < adjusted.Height; y++ {
		for x := 0; x < adjusted.Width; x++ {
			c := adjusted.RGBAt(x, y)
			if !p.ColorMode {
				l := dither.Luminance(c)
				c = dither.RGB{R: l, G: l, B: l}
			}
			// The ditherer has no notion of transparency.
			adjusted.Set(x, y, c, 1)
		}
	}

	img, err := FromPixelBuffer(adjusted)
	if err != nil {
		return nil, err
	}

	d := mdither.NewDitherer(levelPalette(p.Levels, p.ColorMode))
	if d == nil {
		return nil, fmt.Errorf("%w: empty palette", dither.ErrInvalidQuantizeLevels)
	}
	d.Matrix = matrix
	d.Serpentine = true

	out, err := ToPixelBuffer(d.DitherCopy(img))
	if err != nil {
		return nil, err
	}
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			out.Set(x, y, out.RGBAt(x, y), src.AlphaAt(x, y))
		}
	}
	return out, nil
}

func levelPalette(levels int, colorMode bool) []color.Color {
	values := make([]uint8, levels)
	for i := range values {
		values[i] = dither.UnitToByte(float64(i) / float64(levels-1))
	}

	if !colorMode {
		palette := make([]color.Color, levels)
		for i, v := range values {
			palette[i] = color.RGBA{v, v, v, 255}
		}
		return palette
	}

	palette := make([]color.Color, 0, levels*levels*levels)
	for _, r := range values {
		for _, g := range values {
			for _, b := range values {
				palette = append(palette, color.RGBA{r, g, b, 255})
			}
		}
	}
	return palette
}
