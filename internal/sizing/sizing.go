// Package sizing computes the preview, working and export resolutions of an
// editing session.
package sizing

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrInvalidDimensions = errors.New("invalid dimensions")
	ErrInvalidFactor     = errors.New("invalid factor")
	ErrInvalidMode       = errors.New("invalid size mode")
)

// Mode selects how the export size is derived.
type Mode string

const (
	// ModePixelated exports the working resolution times the export scale.
	ModePixelated Mode = "pixelated"
	// ModeOriginal exports at the source resolution.
	ModeOriginal Mode = "original"
)

// ParseMode accepts a mode name case-insensitively. An empty string means
// ModePixelated.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModePixelated:
		return ModePixelated, nil
	case ModeOriginal:
		return ModeOriginal, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModePixelated || m == ModeOriginal
}

// Size is a width/height pair in pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Validate rejects non-positive dimensions.
func (s Size) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidDimensions, s)
	}
	return nil
}

func (s Size) aspect() float64 {
	return float64(s.Width) / float64(s.Height)
}

// PreviewSize fits source into container using a power-of-two scale, so the
// preview is always an exact integer multiple or fraction of the source.
// The axis that constrains the fit picks the scale.
func PreviewSize(container, source Size) (Size, error) {
	if err := container.Validate(); err != nil {
		return Size{}, fmt.Errorf("container: %w", err)
	}
	if err := source.Validate(); err != nil {
		return Size{}, fmt.Errorf("source: %w", err)
	}

	sar := source.aspect()
	var w, h float64
	if container.aspect() > sar {
		scale := powerOfTwoBelow(float64(container.Height) / float64(source.Height))
		h = math.Floor(float64(source.Height) * scale)
		w = math.Floor(h * sar)
	} else {
		scale := powerOfTwoBelow(float64(container.Width) / float64(source.Width))
		w = math.Floor(float64(source.Width) * scale)
		h = math.Floor(w / sar)
	}
	return Size{Width: atLeastOne(w), Height: atLeastOne(h)}, nil
}

func powerOfTwoBelow(ratio float64) float64 {
	return math.Exp2(math.Floor(math.Log2(ratio)))
}

func atLeastOne(v float64) int {
	if v < 1 {
		return 1
	}
	return int(v)
}

// WorkingSize is the pixelated resolution the pipeline runs at:
// floor(source/pixelate) on each axis, never below one pixel.
func WorkingSize(source Size, pixelate int) (Size, error) {
	if err := source.Validate(); err != nil {
		return Size{}, err
	}
	if pixelate < 1 {
		return Size{}, fmt.Errorf("%w: pixelate %d", ErrInvalidFactor, pixelate)
	}
	return Size{
		Width:  max(source.Width/pixelate, 1),
		Height: max(source.Height/pixelate, 1),
	}, nil
}

// ExportSize returns source in ModeOriginal (scale is ignored) and
// working*scale in ModePixelated.
func ExportSize(source, working Size, mode Mode, scale int) (Size, error) {
	if err := source.Validate(); err != nil {
		return Size{}, err
	}
	switch mode {
	case ModeOriginal:
		return source, nil
	case ModePixelated:
		if err := working.Validate(); err != nil {
			return Size{}, err
		}
		if scale < 1 {
			return Size{}, fmt.Errorf("%w: scale %d", ErrInvalidFactor, scale)
		}
		return Size{Width: working.Width * scale, Height: working.Height * scale}, nil
	}
	return Size{}, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
}
