package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rmitchellscott/ditherbox/internal/editor"
)

// DitherHandler runs one upload through the pipeline without keeping a
// session. Parameters come from the same multipart form as the file and
// use the field names of the parameter update.
func (h *Handler) DitherHandler(c *gin.Context) {
	img, filename, ok := h.readUpload(c)
	if !ok {
		return
	}

	form := formReader{c: c}
	update := editor.ParameterUpdate{
		Pixelate:       form.intValue("pixelate"),
		Contrast:       form.floatValue("contrast"),
		Brightness:     form.floatValue("brightness"),
		Invert:         form.boolValue("invert"),
		DitherEnabled:  form.boolValue("dither_enabled"),
		Quantize:       form.intValue("quantize"),
		ColorMode:      form.boolValue("color_mode"),
		DitherSize:     form.stringValue("dither_size"),
		MatrixM:        form.intValue("matrix_m"),
		MatrixN:        form.intValue("matrix_n"),
		Algorithm:      form.stringValue("algorithm"),
		OutputSizeMode: form.stringValue("output_size_mode"),
		OutputScale:    form.intValue("output_scale"),
		Filename:       form.stringValue("filename"),
	}
	if form.err != nil {
		respondError(c, form.err)
		return
	}

	s, err := editor.NewSession(img, filename)
	if err != nil {
		respondError(c, err)
		return
	}
	s.SetMaxOutputPixels(h.settings.MaxOutputPixels)

	if presetID := strings.TrimSpace(c.PostForm("preset")); presetID != "" {
		params, _, err := h.resolvePreset(presetID)
		if err != nil {
			respondError(c, err)
			return
		}
		if err := s.ApplyParameters(params); err != nil {
			respondError(c, err)
			return
		}
	}

	if !update.Empty() {
		if err := s.Update(update); err != nil {
			respondError(c, err)
			return
		}
	}

	result, err := s.Export(editor.ExportRequest{})
	if err != nil {
		respondError(c, err)
		return
	}
	writeExport(c, result)
}

// formReader collects optional multipart form values, keeping the first
// parse error.
type formReader struct {
	c   *gin.Context
	err error
}

func (f *formReader) value(key string) (string, bool) {
	raw, ok := f.c.GetPostForm(key)
	raw = strings.TrimSpace(raw)
	return raw, ok && raw != ""
}

func (f *formReader) fail(key, kind string) {
	if f.err == nil {
		f.err = fmt.Errorf("%w: %s must be %s", editor.ErrInvalidUpdate, key, kind)
	}
}

func (f *formReader) intValue(key string) *int {
	raw, ok := f.value(key)
	if !ok {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		f.fail(key, "an integer")
		return nil
	}
	return &v
}

func (f *formReader) floatValue(key string) *float64 {
	raw, ok := f.value(key)
	if !ok {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		f.fail(key, "a number")
		return nil
	}
	return &v
}

func (f *formReader) boolValue(key string) *bool {
	raw, ok := f.value(key)
	if !ok {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		f.fail(key, "a boolean")
		return nil
	}
	return &v
}

func (f *formReader) stringValue(key string) *string {
	raw, ok := f.value(key)
	if !ok {
		return nil
	}
	return &raw
}
