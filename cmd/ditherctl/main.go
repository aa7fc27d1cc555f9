// Command ditherctl runs the dither pipeline over a single image file.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/rmitchellscott/ditherbox/internal/dither"
	"github.com/rmitchellscott/ditherbox/internal/editor"
	"github.com/rmitchellscott/ditherbox/internal/imageprocessing"
	"github.com/rmitchellscott/ditherbox/internal/logging"
	"github.com/rmitchellscott/ditherbox/internal/presets"
	"github.com/rmitchellscott/ditherbox/internal/version"
)

type options struct {
	input  string
	output string
	preset string

	update editor.ParameterUpdate
}

func main() {
	logging.Setup(logging.OptionsFromEnv())

	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "ditherctl:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "ditherctl",
		Usage:     "quantize and ordered-dither an image",
		UsageText: "ditherctl -input in.png [-output out.png] [options]",
		Version:   version.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "source image (png, jpeg, gif, webp, bmp, tiff)"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output file; the extension picks png, jpg or gif (default <input>-dither.<ext>)"},
			&cli.StringFlag{Name: "preset", Usage: "start from a built-in preset"},
			&cli.BoolFlag{Name: "list-presets", Usage: "list built-in presets and exit"},

			&cli.IntFlag{Name: "pixelate", Value: 1, Usage: "pixel block size (1-32)"},
			&cli.Float64Flag{Name: "contrast", Usage: "contrast (-1..1)"},
			&cli.Float64Flag{Name: "brightness", Usage: "brightness (-1..1)"},
			&cli.BoolFlag{Name: "invert", Usage: "invert the output"},
			&cli.IntFlag{Name: "levels", Value: 2, Usage: "quantize levels per channel (2-16)"},
			&cli.BoolFlag{Name: "color", Usage: "quantize each channel instead of luminance"},
			&cli.BoolFlag{Name: "nodither", Usage: "quantize without dithering"},
			&cli.StringFlag{Name: "matrix", Value: "2x2", Usage: "threshold matrix size: 2x2, 4x4, 8x8 or any power-of-two WxH up to 8x8"},
			&cli.StringFlag{Name: "mode", Value: "pixelated", Usage: "output size mode: pixelated or original"},
			&cli.IntFlag{Name: "scale", Value: 1, Usage: "output scale in pixelated mode (1-32)"},
			&cli.StringFlag{Name: "algorithm", Value: dither.AlgorithmOrdered, Usage: "algorithm: " + strings.Join(imageprocessing.Algorithms(), ", ")},
		},
		Action: ditherCmd,
	}
}

func ditherCmd(c *cli.Context) error {
	if c.Bool("list-presets") {
		return listPresets(c.App.Writer)
	}

	opts, err := optionsFromContext(c)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	if err := run(opts, c.App.Writer); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	return nil
}

// optionsFromContext builds the parameter update from the flags given on
// the command line. Flags left at their defaults do not override -preset.
func optionsFromContext(c *cli.Context) (*options, error) {
	opts := &options{
		input:  c.String("input"),
		output: c.String("output"),
		preset: c.String("preset"),
	}
	if opts.input == "" {
		return nil, fmt.Errorf("-input is required")
	}

	u := &opts.update
	if c.IsSet("pixelate") {
		u.Pixelate = intValue(c.Int("pixelate"))
	}
	if c.IsSet("contrast") {
		u.Contrast = floatValue(c.Float64("contrast"))
	}
	if c.IsSet("brightness") {
		u.Brightness = floatValue(c.Float64("brightness"))
	}
	if c.IsSet("invert") {
		u.Invert = boolValue(c.Bool("invert"))
	}
	if c.IsSet("levels") {
		u.Quantize = intValue(c.Int("levels"))
	}
	if c.IsSet("color") {
		u.ColorMode = boolValue(c.Bool("color"))
	}
	if c.IsSet("nodither") {
		u.DitherEnabled = boolValue(!c.Bool("nodither"))
	}
	if c.IsSet("matrix") {
		u.DitherSize = stringValue(c.String("matrix"))
	}
	if c.IsSet("mode") {
		u.OutputSizeMode = stringValue(strings.ToLower(strings.TrimSpace(c.String("mode"))))
	}
	if c.IsSet("scale") {
		u.OutputScale = intValue(c.Int("scale"))
	}
	if c.IsSet("algorithm") {
		u.Algorithm = stringValue(c.String("algorithm"))
	}
	if opts.output != "" {
		u.Filename = stringValue(opts.output)
	}
	return opts, nil
}

func intValue(v int) *int           { return &v }
func floatValue(v float64) *float64 { return &v }
func boolValue(v bool) *bool        { return &v }
func stringValue(v string) *string  { return &v }

func run(opts *options, w io.Writer) error {
	in, err := os.Open(opts.input)
	if err != nil {
		return err
	}
	img, _, err := imageprocessing.Decode(in, 0)
	in.Close()
	if err != nil {
		return err
	}

	s, err := editor.NewSession(img, filepath.Base(opts.input))
	if err != nil {
		return err
	}

	if opts.preset != "" {
		p, ok := presets.Find(opts.preset)
		if !ok {
			return fmt.Errorf("unknown preset %q (see -list-presets)", opts.preset)
		}
		if err := s.ApplyParameters(p.Parameters); err != nil {
			return err
		}
	}
	if !opts.update.Empty() {
		if err := s.Update(opts.update); err != nil {
			return err
		}
	}

	result, err := s.Export(editor.ExportRequest{})
	if err != nil {
		return err
	}

	output := opts.output
	if output == "" {
		output = filepath.Join(filepath.Dir(opts.input), result.Filename)
	}
	if err := os.WriteFile(output, result.Data, 0644); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s: %s %s, %d bytes\n", output, result.Format, result.Size, len(result.Data))
	return nil
}

func listPresets(w io.Writer) error {
	all, err := presets.Builtin()
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	for _, p := range all {
		fmt.Fprintf(w, "%-16s %s\n", p.ID, p.Description)
	}
	return nil
}
