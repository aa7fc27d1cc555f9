package handlers

import (
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rmitchellscott/ditherbox/internal/database"
	"github.com/rmitchellscott/ditherbox/internal/dither"
	"github.com/rmitchellscott/ditherbox/internal/editor"
	"github.com/rmitchellscott/ditherbox/internal/imageprocessing"
	"github.com/rmitchellscott/ditherbox/internal/logging"
	"github.com/rmitchellscott/ditherbox/internal/middleware"
	"github.com/rmitchellscott/ditherbox/internal/presets"
	"github.com/rmitchellscott/ditherbox/internal/sizing"
)

// readUpload decodes the multipart "file" field. On failure it writes the
// error response and returns ok=false.
func (h *Handler) readUpload(c *gin.Context) (img image.Image, filename string, ok bool) {
	header, err := c.FormFile("file")
	if err != nil {
		if middleware.IsBodyTooLarge(err) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Upload too large"})
			return nil, "", false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
		return nil, "", false
	}
	if !imageprocessing.IsUploadExtension(header.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Unsupported file type",
			"allowed": imageprocessing.UploadExtensions(),
		})
		return nil, "", false
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, err)
		return nil, "", false
	}
	defer file.Close()

	img, format, err := imageprocessing.Decode(file, h.settings.MaxSourcePixels)
	if err != nil {
		logging.WarnWithComponent(logging.ComponentAPI, "Rejected upload",
			"filename", header.Filename, "error", err)
		respondError(c, err)
		return nil, "", false
	}
	logging.DebugWithComponent(logging.ComponentAPI, "Decoded upload",
		"filename", header.Filename, "format", format, "bytes", header.Size)
	return img, header.Filename, true
}

// CreateSessionHandler starts an editing session from an uploaded image
func (h *Handler) CreateSessionHandler(c *gin.Context) {
	img, filename, ok := h.readUpload(c)
	if !ok {
		return
	}

	s, err := h.sessions.Create(img, filename)
	if err != nil {
		respondError(c, err)
		return
	}
	state, err := s.State()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": state})
}

// GetSessionHandler returns the current session state
func (h *Handler) GetSessionHandler(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	state, err := s.State()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": state})
}

// UpdateParametersHandler applies a partial parameter update
func (h *Handler) UpdateParametersHandler(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var update editor.ParameterUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if update.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No parameters supplied"})
		return
	}

	if err := s.Update(update); err != nil {
		respondError(c, err)
		return
	}
	state, err := s.State()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": state})
}

// PreviewHandler renders the session as a PNG fitted to ?width=&height=.
// Without a container the preview is drawn at source size.
func (h *Handler) PreviewHandler(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	source := s.SourceSize()
	width, err := queryInt(c, "width", source.Width)
	if err != nil {
		respondError(c, err)
		return
	}
	height, err := queryInt(c, "height", source.Height)
	if err != nil {
		respondError(c, err)
		return
	}

	img, size, err := s.Preview(sizing.Size{Width: width, Height: height})
	if err != nil {
		respondError(c, err)
		return
	}
	data, err := imageprocessing.EncodeBytes(img, imageprocessing.FormatPNG,
		imageprocessing.EncodeOptions{Levels: s.Parameters().Levels})
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Header("X-Preview-Size", size.String())
	c.Data(http.StatusOK, imageprocessing.FormatPNG.ContentType(), data)
}

// UniformsHandler returns the shader-uniform view of the current parameters
func (h *Handler) UniformsHandler(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	uniforms, err := s.Parameters().Uniforms()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"uniforms": uniforms})
}

// ExportHandler encodes the session at its export size. With ?store=true
// the file is written to export storage and its URL returned instead.
func (h *Handler) ExportHandler(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req editor.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := s.Export(req)
	if err != nil {
		respondError(c, err)
		return
	}

	store, _ := strconv.ParseBool(c.DefaultQuery("store", "false"))
	if store {
		if h.exports == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Export storage is disabled"})
			return
		}
		stored, err := h.exports.Store(result.Data, result.Filename)
		if err != nil {
			respondError(c, err)
			return
		}
		logging.InfoWithComponent(logging.ComponentStorage, "Stored export",
			"session_id", s.ID, "name", stored.Name, "bytes", stored.Size)
		c.JSON(http.StatusCreated, gin.H{
			"export":      stored,
			"filename":    result.Filename,
			"output_size": result.Size.String(),
		})
		return
	}

	writeExport(c, result)
}

func writeExport(c *gin.Context, result *editor.ExportResult) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Header("X-Output-Size", result.Size.String())
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

// DeleteSessionHandler drops a session
func (h *Handler) DeleteSessionHandler(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.sessions.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session deleted"})
}

// ApplyPresetHandler replaces the session parameters with a built-in or
// saved preset
func (h *Handler) ApplyPresetHandler(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	params, savedID, err := h.resolvePreset(c.Param("presetId"))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := s.ApplyParameters(params); err != nil {
		respondError(c, err)
		return
	}

	if savedID != uuid.Nil {
		if err := h.presets.RecordApply(savedID); err != nil {
			logging.WarnWithComponent(logging.ComponentPresets, "Failed to record preset use",
				"preset_id", savedID, "error", err)
		}
	}

	state, err := s.State()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": state})
}

// resolvePreset looks id up among the built-in presets first and then, if
// it parses as a UUID, among the saved ones. savedID is uuid.Nil for
// built-in presets.
func (h *Handler) resolvePreset(id string) (params dither.Parameters, savedID uuid.UUID, err error) {
	if p, ok := presets.Find(id); ok {
		return p.Parameters, uuid.Nil, nil
	}

	presetID, parseErr := uuid.Parse(id)
	if parseErr != nil || h.presets == nil {
		return dither.Parameters{}, uuid.Nil, fmt.Errorf("%w: %q", database.ErrPresetNotFound, id)
	}
	saved, err := h.presets.GetPresetByID(presetID)
	if err != nil {
		return dither.Parameters{}, uuid.Nil, err
	}
	return saved.Params(), saved.ID, nil
}
