package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rmitchellscott/ditherbox/internal/database"
	"github.com/rmitchellscott/ditherbox/internal/dither"
	"github.com/rmitchellscott/ditherbox/internal/editor"
	"github.com/rmitchellscott/ditherbox/internal/logging"
	"github.com/rmitchellscott/ditherbox/internal/presets"
)

func (h *Handler) requirePresetStore(c *gin.Context) bool {
	if h.presets == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Saved presets are disabled"})
		return false
	}
	return true
}

// ListPresetsHandler returns the built-in presets and every saved preset
func (h *Handler) ListPresetsHandler(c *gin.Context) {
	builtin, err := presets.Builtin()
	if err != nil {
		respondError(c, err)
		return
	}

	saved := []database.Preset{}
	if h.presets != nil {
		saved, err = h.presets.ListPresets()
		if err != nil {
			respondError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"builtin": builtin,
		"saved":   saved,
	})
}

// CreatePresetHandler saves a named parameter set
func (h *Handler) CreatePresetHandler(c *gin.Context) {
	if !h.requirePresetStore(c) {
		return
	}

	req := struct {
		Name        string            `json:"name" binding:"required,max=100"`
		Description string            `json:"description" binding:"max=500"`
		Parameters  dither.Parameters `json:"parameters"`
	}{Parameters: dither.DefaultParameters()}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Parameters.Algorithm == "" {
		req.Parameters.Algorithm = dither.AlgorithmOrdered
	}
	if err := editor.ValidateParameters(req.Parameters); err != nil {
		respondError(c, err)
		return
	}

	preset, err := h.presets.CreatePreset(req.Name, req.Description, req.Parameters)
	if err != nil {
		respondError(c, err)
		return
	}
	logging.InfoWithComponent(logging.ComponentPresets, "Saved preset",
		"preset_id", preset.ID, "name", preset.Name)
	c.JSON(http.StatusCreated, gin.H{"preset": preset})
}

// GetPresetHandler returns one preset. Built-in ids are accepted as well
// as saved preset UUIDs.
func (h *Handler) GetPresetHandler(c *gin.Context) {
	id := c.Param("id")
	if p, ok := presets.Find(id); ok {
		c.JSON(http.StatusOK, gin.H{"preset": p})
		return
	}
	if !h.requirePresetStore(c) {
		return
	}

	presetID, ok := parseID(c, "id")
	if !ok {
		return
	}
	preset, err := h.presets.GetPresetByID(presetID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"preset": preset})
}

// DeletePresetHandler removes a saved preset
func (h *Handler) DeletePresetHandler(c *gin.Context) {
	if _, builtin := presets.Find(c.Param("id")); builtin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Built-in presets cannot be deleted"})
		return
	}
	if !h.requirePresetStore(c) {
		return
	}

	presetID, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.presets.DeletePreset(presetID); err != nil {
		respondError(c, err)
		return
	}
	logging.InfoWithComponent(logging.ComponentPresets, "Deleted preset", "preset_id", presetID)
	c.JSON(http.StatusOK, gin.H{"message": "Preset deleted"})
}
