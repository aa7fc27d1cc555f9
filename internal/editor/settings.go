package editor

import (
	"path/filepath"
	"strings"

	"github.com/rmitchellscott/ditherbox/internal/sizing"
)

// Configuration surface limits.
const (
	MinPixelate = 1
	MaxPixelate = 32
	MinLevels   = 2
	MaxLevels   = 16
	MinScale    = 1
	MaxScale    = 32
	// MaxMatrixExponent caps the matrix at 8x8 on the editing surface. The
	// core accepts larger matrices.
	MaxMatrixExponent = 3
	// DefaultMaxOutputPixels bounds preview and export area.
	DefaultMaxOutputPixels = 64_000_000
)

// DefaultFilename is proposed for export before any source is loaded.
const DefaultFilename = "result.png"

// OutputSettings are the per-session values that shape the working and
// export resolution rather than the pixel transform.
type OutputSettings struct {
	Pixelate int         `json:"pixelate" yaml:"pixelate"`
	SizeMode sizing.Mode `json:"output_size_mode" yaml:"output_size_mode"`
	Scale    int         `json:"output_scale" yaml:"output_scale"`
	Filename string      `json:"filename" yaml:"-"`
}

// DefaultOutputSettings returns pixelate 1, pixelated mode and scale 1.
func DefaultOutputSettings() OutputSettings {
	return OutputSettings{
		Pixelate: 1,
		SizeMode: sizing.ModePixelated,
		Scale:    1,
		Filename: DefaultFilename,
	}
}

// DefaultOutputFilename proposes an export name for an uploaded file:
// "photo.jpg" becomes "photo-dither.jpg". Names without an extension get
// a ".png" one.
func DefaultOutputFilename(sourceName string) string {
	base := filepath.Base(strings.TrimSpace(sourceName))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return DefaultFilename
	}

	parts := strings.Split(base, ".")
	if len(parts) < 2 || parts[0] == "" {
		return strings.TrimPrefix(base, ".") + "-dither.png"
	}
	return parts[0] + "-dither." + parts[len(parts)-1]
}
