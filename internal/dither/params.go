package dither

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// AlgorithmOrdered is the threshold-matrix algorithm implemented by Process.
const AlgorithmOrdered = "ordered"

// Parameters controls one pipeline run. The zero value is not usable; start
// from DefaultParameters.
type Parameters struct {
	Contrast      float64 `json:"contrast" yaml:"contrast"`
	Brightness    float64 `json:"brightness" yaml:"brightness"`
	Invert        bool    `json:"invert" yaml:"invert"`
	Levels        int     `json:"quantize" yaml:"quantize"`
	ColorMode     bool    `json:"color_mode" yaml:"color_mode"`
	DitherEnabled bool    `json:"dither_enabled" yaml:"dither_enabled"`
	MatrixM       int     `json:"matrix_m" yaml:"matrix_m"`
	MatrixN       int     `json:"matrix_n" yaml:"matrix_n"`
	// Algorithm selects ordered dithering or an error-diffusion kernel.
	// Process itself always runs the ordered path.
	Algorithm string `json:"algorithm" yaml:"algorithm"`
}

// DefaultParameters mirrors the editor's initial state: 2 levels, 2x2
// matrix, luminance mode, dithering on.
func DefaultParameters() Parameters {
	return Parameters{
		Levels:        2,
		DitherEnabled: true,
		MatrixM:       1,
		MatrixN:       1,
		Algorithm:     AlgorithmOrdered,
	}
}

// Validate checks the invariants the pipeline depends on.
func (p Parameters) Validate() error {
	if p.Contrast < -1 || p.Contrast > 1 {
		return fmt.Errorf("%w: contrast %v outside [-1,1]", ErrInvalidParameter, p.Contrast)
	}
	if p.Brightness < -1 || p.Brightness > 1 {
		return fmt.Errorf("%w: brightness %v outside [-1,1]", ErrInvalidParameter, p.Brightness)
	}
	if err := ValidateLevels(p.Levels); err != nil {
		return err
	}
	return ValidateExponents(p.MatrixM, p.MatrixN)
}

// MatrixSize renders the matrix dimensions as "WxH".
func (p Parameters) MatrixSize() string {
	return fmt.Sprintf("%dx%d", 1<<p.MatrixM, 1<<p.MatrixN)
}

// WithMatrixSize returns a copy of p using the named matrix size.
func (p Parameters) WithMatrixSize(size string) (Parameters, error) {
	m, n, err := ParseMatrixSize(size)
	if err != nil {
		return p, err
	}
	p.MatrixM, p.MatrixN = m, n
	return p, nil
}

// ParseMatrixSize resolves "2x2", "4x4", "8x8", a bare "4" (square), or a
// custom "WxH" with power-of-two sides into exponents.
func ParseMatrixSize(size string) (m, n int, err error) {
	s := strings.ToLower(strings.TrimSpace(size))
	w, h, found := strings.Cut(s, "x")
	if !found {
		h = w
	}

	m, err = sideExponent(w)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: matrix size %q", ErrInvalidParameter, size)
	}
	n, err = sideExponent(h)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: matrix size %q", ErrInvalidParameter, size)
	}
	if err := ValidateExponents(m, n); err != nil {
		return 0, 0, err
	}
	return m, n, nil
}

func sideExponent(s string) (int, error) {
	side, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if side <= 0 || side&(side-1) != 0 {
		return 0, fmt.Errorf("side %d is not a power of two", side)
	}
	return bits.TrailingZeros(uint(side)), nil
}

// Uniforms maps the parameters onto the shader uniforms of the GPU
// implementation so both paths can be compared pixel for pixel.
func (p Parameters) Uniforms() (map[string]any, error) {
	mx, err := CachedMatrix(p.MatrixM, p.MatrixN)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"contrast":     p.Contrast,
		"brightness":   p.Brightness,
		"invert":       boolUniform(p.Invert),
		"quantize":     p.Levels,
		"colorMode":    boolUniform(p.ColorMode),
		"ditherSize":   [2]int{mx.Width, mx.Height},
		"ditherMatrix": mx.Normalized(),
	}, nil
}

func boolUniform(b bool) int {
	if b {
		return 1
	}
	return 0
}
