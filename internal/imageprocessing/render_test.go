package imageprocessing

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/rmitchellscott/ditherbox/internal/dither"
	"github.com/rmitchellscott/ditherbox/internal/sizing"
)

func gradientImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 255 / w), uint8(y * 255 / h), 90, 255})
		}
	}
	return img
}

func TestPixelBufferConversionHandlesSubImages(t *testing.T) {
	full := gradientImage(10, 10)
	sub := full.SubImage(image.Rect(2, 3, 7, 9))

	buf, err := ToPixelBuffer(sub)
	if err != nil {
		t.Fatal(err)
	}
	if buf.Width != 5 || buf.Height != 6 {
		t.Fatalf("buffer is %dx%d", buf.Width, buf.Height)
	}

	back, err := FromPixelBuffer(buf)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 6; y++ {
		for x := 0; x < 5; x++ {
			if back.NRGBAAt(x, y) != full.NRGBAAt(x+2, y+3) {
				t.Fatalf("(%d,%d) = %v, want %v", x, y, back.NRGBAAt(x, y), full.NRGBAAt(x+2, y+3))
			}
		}
	}
}

func TestDecode(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, gradientImage(10, 10)); err != nil {
		t.Fatal(err)
	}

	img, format, err := Decode(bytes.NewReader(buf.Bytes()), 100)
	if err != nil {
		t.Fatal(err)
	}
	if format != "png" || img.Bounds().Dx() != 10 {
		t.Errorf("decoded %s %v", format, img.Bounds())
	}

	if _, _, err := Decode(bytes.NewReader(buf.Bytes()), 99); !errors.Is(err, ErrImageTooLarge) {
		t.Errorf("limit: %v", err)
	}
	if _, _, err := Decode(bytes.NewReader([]byte("not an image")), 0); !errors.Is(err, ErrDecode) {
		t.Errorf("garbage: %v", err)
	}
}

func TestIsUploadExtension(t *testing.T) {
	for name, want := range map[string]bool{
		"a.PNG": true, "b.jpeg": true, "c.webp": true, "d.tiff": true, "e.txt": false, "f": false,
	} {
		if got := IsUploadExtension(name); got != want {
			t.Errorf("IsUploadExtension(%q) = %v", name, got)
		}
	}
}

func TestRenderUsesWorkingResolution(t *testing.T) {
	out, err := Render(gradientImage(16, 12), sizing.Size{Width: 8, Height: 6}, dither.DefaultParameters())
	if err != nil {
		t.Fatal(err)
	}
	if out.Width != 8 || out.Height != 6 {
		t.Fatalf("rendered %dx%d", out.Width, out.Height)
	}
	raw := out.Bytes()
	for i := 3; i < len(raw); i += 4 {
		if raw[i] != 255 {
			t.Fatalf("alpha %d = %d", i, raw[i])
		}
	}
}

func TestUpscaleNearest(t *testing.T) {
	buf, err := dither.FromBytes(2, 1, []byte{255, 0, 0, 255, 0, 0, 255, 255})
	if err != nil {
		t.Fatal(err)
	}
	img, err := Upscale(buf, sizing.Size{Width: 4, Height: 2})
	if err != nil {
		t.Fatal(err)
	}
	red := color.NRGBA{255, 0, 0, 255}
	blue := color.NRGBA{0, 0, 255, 255}
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			want := red
			if x >= 2 {
				want = blue
			}
			if got := img.NRGBAAt(x, y); got != want {
				t.Errorf("(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestApplyDispatch(t *testing.T) {
	buf, err := ToPixelBuffer(gradientImage(12, 9))
	if err != nil {
		t.Fatal(err)
	}

	p := dither.DefaultParameters()
	p.Levels = 3
	want, err := dither.Process(buf, p)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Apply(buf, p)
	if err != nil {
		t.Fatal(err)
	}
	for i := range want.Pix {
		if got.Pix[i] != want.Pix[i] {
			t.Fatalf("ordered sample %d = %v, want %v", i, got.Pix[i], want.Pix[i])
		}
	}

	p.Algorithm = "riemersma"
	if _, err := Apply(buf, p); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Errorf("unknown algorithm: %v", err)
	}
}

func TestDiffuseStaysOnPalette(t *testing.T) {
	src := gradientImage(20, 10)
	src.SetNRGBA(0, 0, color.NRGBA{10, 20, 30, 40})
	buf, err := ToPixelBuffer(src)
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range Algorithms()[1:] {
		for _, colorMode := range []bool{false, true} {
			p := dither.DefaultParameters()
			p.Algorithm = name
			p.Levels = 3
			p.ColorMode = colorMode

			out, err := Apply(buf, p)
			if err != nil {
				t.Fatalf("%s: %v", name, err)
			}
			raw := out.Bytes()
			for i := 0; i < len(raw); i += 4 {
				r, g, b := raw[i], raw[i+1], raw[i+2]
				for _, v := range []uint8{r, g, b} {
					if v != 0 && v != 128 && v != 255 {
						t.Fatalf("%s color=%v: channel %d off palette", name, colorMode, v)
					}
				}
				if !colorMode && (r != g || g != b) {
					t.Fatalf("%s: luminance mode produced colour %d,%d,%d", name, r, g, b)
				}
			}
			if raw[3] != 40 {
				t.Errorf("%s: alpha = %d, want 40", name, raw[3])
			}
		}
	}
}

func TestAlgorithmsStartWithOrdered(t *testing.T) {
	names := Algorithms()
	if names[0] != dither.AlgorithmOrdered || len(names) != len(diffusionMatrices)+1 {
		t.Errorf("Algorithms() = %v", names)
	}
	if err := ValidateAlgorithm(""); err != nil {
		t.Errorf("empty name: %v", err)
	}
}
