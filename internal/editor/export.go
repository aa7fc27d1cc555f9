package editor

import (
	"fmt"
	"strings"
	"time"

	"github.com/rmitchellscott/ditherbox/internal/imageprocessing"
	"github.com/rmitchellscott/ditherbox/internal/logging"
	"github.com/rmitchellscott/ditherbox/internal/sizing"
)

// ExportRequest overrides the session's output settings for one export.
// Zero values fall back to the session settings.
type ExportRequest struct {
	Filename string      `json:"filename"`
	Mode     sizing.Mode `json:"mode"`
	Scale    int         `json:"scale"`
}

// ExportResult is an encoded export.
type ExportResult struct {
	Filename    string
	Format      imageprocessing.Format
	ContentType string
	Size        sizing.Size
	Data        []byte
}

// Export encodes the current render at the export size. The format
// follows the filename extension. A failed export leaves the session
// settings unchanged.
func (s *Session) Export(req ExportRequest) (*ExportResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	filename := strings.TrimSpace(req.Filename)
	if filename == "" {
		filename = s.settings.Filename
	}
	format, err := imageprocessing.FormatFromFilename(filename)
	if err != nil {
		return nil, err
	}

	mode := req.Mode
	if mode == "" {
		mode = s.settings.SizeMode
	}
	scale := req.Scale
	if scale == 0 {
		scale = s.settings.Scale
	}
	if mode == sizing.ModePixelated && (scale < MinScale || scale > MaxScale) {
		return nil, fmt.Errorf("%w: scale %d outside [%d,%d]", sizing.ErrInvalidFactor, scale, MinScale, MaxScale)
	}

	res, err := s.resolveLocked(sizing.Size{}, mode, scale)
	if err != nil {
		return nil, err
	}
	if err := s.checkOutputLocked(res.Export); err != nil {
		return nil, err
	}

	buf, err := s.renderLocked()
	if err != nil {
		return nil, err
	}
	img, err := imageprocessing.Upscale(buf, res.Export)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	data, err := imageprocessing.EncodeBytes(img, format, imageprocessing.EncodeOptions{Levels: s.params.Levels})
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", format, err)
	}
	logging.InfoWithComponent(logging.ComponentExport, "exported session",
		"session_id", s.ID, "filename", filename, "size", res.Export.String(),
		"bytes", len(data), "duration", time.Since(start))

	return &ExportResult{
		Filename:    filename,
		Format:      format,
		ContentType: format.ContentType(),
		Size:        res.Export,
		Data:        data,
	}, nil
}
