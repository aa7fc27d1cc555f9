package dither

import "errors"

var (
	// ErrInvalidDimensions reports a buffer whose pixel slice does not match
	// its declared width and height, or non-positive dimensions.
	ErrInvalidDimensions = errors.New("invalid dimensions")
	// ErrInvalidQuantizeLevels reports a level count below two.
	ErrInvalidQuantizeLevels = errors.New("invalid quantize levels")
	// ErrInvalidMatrixExponents reports negative or oversized matrix exponents.
	ErrInvalidMatrixExponents = errors.New("invalid matrix exponents")
	// ErrInvalidParameter reports any other out-of-range parameter.
	ErrInvalidParameter = errors.New("invalid parameter")
)
