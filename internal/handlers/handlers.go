package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rmitchellscott/ditherbox/internal/config"
	"github.com/rmitchellscott/ditherbox/internal/database"
	"github.com/rmitchellscott/ditherbox/internal/dither"
	"github.com/rmitchellscott/ditherbox/internal/editor"
	"github.com/rmitchellscott/ditherbox/internal/imageprocessing"
	"github.com/rmitchellscott/ditherbox/internal/logging"
	"github.com/rmitchellscott/ditherbox/internal/middleware"
	"github.com/rmitchellscott/ditherbox/internal/sizing"
	"github.com/rmitchellscott/ditherbox/internal/storage"
	"github.com/rmitchellscott/ditherbox/internal/version"
)

// matrixPresets are the sizes offered by the editor's matrix selector.
var matrixPresets = []string{"2x2", "4x4", "8x8"}

// Handler serves the editor API.
type Handler struct {
	sessions *editor.Manager
	presets  *database.PresetService
	exports  *storage.ExportStorage
	settings config.Settings
}

// New creates a Handler. presets and exports may be nil, which disables
// saved presets and stored exports respectively.
func New(sessions *editor.Manager, presets *database.PresetService, exports *storage.ExportStorage, settings config.Settings) *Handler {
	return &Handler{
		sessions: sessions,
		presets:  presets,
		exports:  exports,
		settings: settings,
	}
}

// RegisterRoutes mounts the API on api, which is expected to be the /api
// group.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/health", h.HealthHandler)
	api.GET("/version", VersionHandler)
	api.GET("/config", h.ConfigHandler)
	api.GET("/matrix", MatrixHandler)

	api.POST("/sessions", h.CreateSessionHandler)
	api.GET("/sessions/:id", h.GetSessionHandler)
	api.PATCH("/sessions/:id/parameters", h.UpdateParametersHandler)
	api.GET("/sessions/:id/preview", h.PreviewHandler)
	api.GET("/sessions/:id/uniforms", h.UniformsHandler)
	api.POST("/sessions/:id/export", h.ExportHandler)
	api.DELETE("/sessions/:id", h.DeleteSessionHandler)
	api.POST("/sessions/:id/presets/:presetId", h.ApplyPresetHandler)

	api.GET("/presets", h.ListPresetsHandler)
	api.POST("/presets", h.CreatePresetHandler)
	api.GET("/presets/:id", h.GetPresetHandler)
	api.DELETE("/presets/:id", h.DeletePresetHandler)

	api.POST("/dither", h.DitherHandler)
}

// HealthHandler reports liveness
func (h *Handler) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"sessions": h.sessions.Len(),
	})
}

// VersionHandler returns build information
func VersionHandler(c *gin.Context) {
	c.JSON(http.StatusOK, version.Get())
}

// ConfigHandler describes the editing surface for the frontend
func (h *Handler) ConfigHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ranges": gin.H{
			"pixelate":        valueRange(editor.MinPixelate, editor.MaxPixelate),
			"contrast":        valueRange(-1, 1),
			"brightness":      valueRange(-1, 1),
			"quantize":        valueRange(editor.MinLevels, editor.MaxLevels),
			"output_scale":    valueRange(editor.MinScale, editor.MaxScale),
			"matrix_exponent": valueRange(0, editor.MaxMatrixExponent),
		},
		"defaults": gin.H{
			"parameters": dither.DefaultParameters(),
			"settings":   editor.DefaultOutputSettings(),
		},
		"matrix_presets":    matrixPresets,
		"size_modes":        []sizing.Mode{sizing.ModePixelated, sizing.ModeOriginal},
		"algorithms":        imageprocessing.Algorithms(),
		"export_formats":    imageprocessing.ExportExtensions,
		"upload_extensions": imageprocessing.UploadExtensions(),
		"max_upload_bytes":  h.settings.MaxUploadBytes,
		"saved_presets":     h.presets != nil,
		"stored_exports":    h.exports != nil,
	})
}

func valueRange(lo, hi float64) gin.H {
	return gin.H{"min": lo, "max": hi}
}

// MatrixHandler returns a threshold matrix selected by ?size=WxH or by the
// exponents ?m=&n=.
func MatrixHandler(c *gin.Context) {
	var m, n int
	var err error

	if size := c.Query("size"); size != "" {
		m, n, err = dither.ParseMatrixSize(size)
	} else {
		m, err = queryInt(c, "m", 1)
		if err == nil {
			n, err = queryInt(c, "n", m)
		}
	}
	if err != nil {
		respondError(c, err)
		return
	}

	mx, err := dither.CachedMatrix(m, n)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"size":       mx.String(),
		"m":          mx.M,
		"n":          mx.N,
		"width":      mx.Width,
		"height":     mx.Height,
		"rows":       mx.Rows(),
		"normalized": mx.Normalized(),
	})
}

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", dither.ErrInvalidParameter, key)
	}
	return v, nil
}

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + param})
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) session(c *gin.Context) (*editor.Session, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return nil, false
	}
	s, err := h.sessions.Get(id)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return s, true
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, editor.ErrSessionNotFound),
		errors.Is(err, database.ErrPresetNotFound):
		return http.StatusNotFound
	case errors.Is(err, database.ErrPresetNameTaken):
		return http.StatusConflict
	case errors.Is(err, imageprocessing.ErrImageTooLarge),
		middleware.IsBodyTooLarge(err):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, editor.ErrInvalidUpdate),
		errors.Is(err, editor.ErrNoSource),
		errors.Is(err, dither.ErrInvalidDimensions),
		errors.Is(err, dither.ErrInvalidQuantizeLevels),
		errors.Is(err, dither.ErrInvalidMatrixExponents),
		errors.Is(err, dither.ErrInvalidParameter),
		errors.Is(err, sizing.ErrInvalidDimensions),
		errors.Is(err, sizing.ErrInvalidFactor),
		errors.Is(err, sizing.ErrInvalidMode),
		errors.Is(err, imageprocessing.ErrUnsupportedExportFormat),
		errors.Is(err, imageprocessing.ErrUnknownAlgorithm),
		errors.Is(err, imageprocessing.ErrDecode):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logging.ErrorWithComponent(logging.ComponentAPI, "Request failed",
			"method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
