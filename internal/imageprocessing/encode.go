package imageprocessing

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"
)

// Format is an export container format.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatGIF  Format = "gif"
)

// DefaultJPEGQuality is used when EncodeOptions leaves the quality unset.
const DefaultJPEGQuality = 92

// ExportExtensions lists the accepted export file extensions.
var ExportExtensions = []string{"png", "jpg", "jpeg", "gif"}

// FormatFromFilename picks the export format from the file extension.
func FormatFromFilename(filename string) (Format, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	switch ext {
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "gif":
		return FormatGIF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedExportFormat, filepath.Ext(filename))
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	switch f {
	case FormatJPEG:
		return "image/jpeg"
	case FormatGIF:
		return "image/gif"
	default:
		return "image/png"
	}
}

// EncodeOptions tunes Encode.
type EncodeOptions struct {
	// Levels is the quantize level count the image was produced with. PNG
	// output is bit-packed grayscale when it is 2, 4 or 16 and the image
	// holds only opaque greys on those levels.
	Levels      int
	JPEGQuality int
}

// Encode writes img in the given format.
func Encode(w io.Writer, img image.Image, format Format, opts EncodeOptions) error {
	switch format {
	case FormatPNG:
		return encodePNG(w, img, opts.Levels)
	case FormatJPEG:
		quality := opts.JPEGQuality
		if quality <= 0 {
			quality = DefaultJPEGQuality
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case FormatGIF:
		if paletted, ok := toExactPaletted(img); ok {
			return gif.Encode(w, paletted, nil)
		}
		return gif.Encode(w, img, &gif.Options{NumColors: 256})
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedExportFormat, format)
}

// EncodeBytes is Encode into a byte slice.
func EncodeBytes(img image.Image, format Format, opts EncodeOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, format, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodePNG(w io.Writer, img image.Image, levels int) error {
	if depth := BitDepthForLevels(levels); depth > 0 {
		if gray, ok := ToGray(img); ok {
			data, err := EncodeGrayPNG(gray, depth)
			if err == nil {
				_, err = w.Write(data)
				return err
			}
		}
	}
	encoder := png.Encoder{CompressionLevel: png.BestCompression}
	return encoder.Encode(w, img)
}

// toExactPaletted builds a paletted copy of img when it has at most 256
// distinct colours, so GIF export does not requantize dithered output.
func toExactPaletted(img image.Image) (*image.Paletted, bool) {
	nrgba := ToNRGBA(img)
	bounds := nrgba.Bounds()

	index := make(map[color.NRGBA]uint8)
	var palette color.Palette
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := nrgba.NRGBAAt(x, y)
			if c.A == 0 {
				c = color.NRGBA{}
			}
			if _, ok := index[c]; ok {
				continue
			}
			if len(palette) == 256 {
				return nil, false
			}
			index[c] = uint8(len(palette))
			palette = append(palette, c)
		}
	}

	paletted := image.NewPaletted(bounds, palette)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := nrgba.NRGBAAt(x, y)
			if c.A == 0 {
				c = color.NRGBA{}
			}
			paletted.SetColorIndex(x, y, index[c])
		}
	}
	return paletted, true
}
