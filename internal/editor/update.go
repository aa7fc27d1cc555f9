package editor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rmitchellscott/ditherbox/internal/dither"
	"github.com/rmitchellscott/ditherbox/internal/imageprocessing"
	"github.com/rmitchellscott/ditherbox/internal/sizing"
)

var validate = validator.New()

// ParameterUpdate is a partial change to a session. Nil fields are left
// alone. Reset restores every parameter and output setting to its default
// before the other fields are applied.
type ParameterUpdate struct {
	Reset bool `json:"reset"`

	Pixelate       *int     `json:"pixelate" validate:"omitnil,min=1,max=32"`
	Contrast       *float64 `json:"contrast" validate:"omitnil,gte=-1,lte=1"`
	Brightness     *float64 `json:"brightness" validate:"omitnil,gte=-1,lte=1"`
	Invert         *bool    `json:"invert"`
	DitherEnabled  *bool    `json:"dither_enabled"`
	Quantize       *int     `json:"quantize" validate:"omitnil,min=2,max=16"`
	ColorMode      *bool    `json:"color_mode"`
	DitherSize     *string  `json:"dither_size" validate:"omitnil,min=1"`
	MatrixM        *int     `json:"matrix_m" validate:"omitnil,min=0,max=3"`
	MatrixN        *int     `json:"matrix_n" validate:"omitnil,min=0,max=3"`
	Algorithm      *string  `json:"algorithm"`
	OutputSizeMode *string  `json:"output_size_mode" validate:"omitnil,oneof=pixelated original"`
	OutputScale    *int     `json:"output_scale" validate:"omitnil,min=1,max=32"`
	Filename       *string  `json:"filename" validate:"omitnil,min=1,max=255"`
}

// Empty reports whether u changes nothing.
func (u ParameterUpdate) Empty() bool {
	return u == ParameterUpdate{}
}

// apply returns the parameters and settings that result from u without
// touching the inputs. Any invalid field rejects the whole update.
func (u ParameterUpdate) apply(p dither.Parameters, s OutputSettings) (dither.Parameters, OutputSettings, error) {
	if err := validate.Struct(u); err != nil {
		return p, s, fmt.Errorf("%w: %s", ErrInvalidUpdate, describeValidation(err))
	}

	if u.Reset {
		filename := s.Filename
		p, s = dither.DefaultParameters(), DefaultOutputSettings()
		s.Filename = filename
	}

	if u.Pixelate != nil {
		s.Pixelate = *u.Pixelate
	}
	if u.Contrast != nil {
		p.Contrast = *u.Contrast
	}
	if u.Brightness != nil {
		p.Brightness = *u.Brightness
	}
	if u.Invert != nil {
		p.Invert = *u.Invert
	}
	if u.DitherEnabled != nil {
		p.DitherEnabled = *u.DitherEnabled
	}
	if u.Quantize != nil {
		p.Levels = *u.Quantize
	}
	if u.ColorMode != nil {
		p.ColorMode = *u.ColorMode
	}
	if u.DitherSize != nil {
		next, err := p.WithMatrixSize(*u.DitherSize)
		if err != nil {
			return p, s, fmt.Errorf("%w: %v", ErrInvalidUpdate, err)
		}
		p = next
	}
	if u.MatrixM != nil {
		p.MatrixM = *u.MatrixM
	}
	if u.MatrixN != nil {
		p.MatrixN = *u.MatrixN
	}
	if u.Algorithm != nil {
		p.Algorithm = strings.ToLower(strings.TrimSpace(*u.Algorithm))
	}
	if u.OutputSizeMode != nil {
		s.SizeMode = sizing.Mode(*u.OutputSizeMode)
	}
	if u.OutputScale != nil {
		s.Scale = *u.OutputScale
	}
	if u.Filename != nil {
		if _, err := imageprocessing.FormatFromFilename(*u.Filename); err != nil {
			return p, s, fmt.Errorf("%w: %v", ErrInvalidUpdate, err)
		}
		s.Filename = strings.TrimSpace(*u.Filename)
	}

	if err := ValidateParameters(p); err != nil {
		return p, s, err
	}
	return p, s, nil
}

// ValidateParameters checks p against the editing surface, which is
// narrower than what the core accepts.
func ValidateParameters(p dither.Parameters) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidUpdate, err)
	}
	if p.Levels > MaxLevels {
		return fmt.Errorf("%w: quantize %d above %d", ErrInvalidUpdate, p.Levels, MaxLevels)
	}
	if p.MatrixM > MaxMatrixExponent || p.MatrixN > MaxMatrixExponent {
		return fmt.Errorf("%w: matrix %s larger than 8x8", ErrInvalidUpdate, p.MatrixSize())
	}
	if err := imageprocessing.ValidateAlgorithm(p.Algorithm); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidUpdate, err)
	}
	return nil
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, ve := range verrs {
		field := ve.Field()
		if ve.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", field, ve.Tag(), ve.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", field, ve.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
