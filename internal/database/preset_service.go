package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/rmitchellscott/ditherbox/internal/dither"
)

var (
	// ErrPresetNotFound is returned for unknown preset ids.
	ErrPresetNotFound = errors.New("preset not found")
	// ErrPresetNameTaken is returned when a preset name is already in use.
	ErrPresetNameTaken = errors.New("preset name already exists")
)

// PresetService handles preset-related database operations
type PresetService struct {
	db *gorm.DB
}

// NewPresetService creates a new preset service
func NewPresetService(db *gorm.DB) *PresetService {
	return &PresetService{db: db}
}

// CreatePreset stores a new preset. params must already be valid.
func (ps *PresetService) CreatePreset(name, description string, params dither.Parameters) (*Preset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("preset name is required")
	}

	var count int64
	if err := ps.db.Model(&Preset{}).Where("LOWER(name) = LOWER(?)", name).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: %q", ErrPresetNameTaken, name)
	}

	preset := &Preset{
		Name:        name,
		Description: strings.TrimSpace(description),
		Parameters:  datatypes.NewJSONType(params),
	}
	if err := ps.db.Create(preset).Error; err != nil {
		return nil, err
	}
	return preset, nil
}

// GetPresetByID returns a preset by its ID
func (ps *PresetService) GetPresetByID(id uuid.UUID) (*Preset, error) {
	var preset Preset
	if err := ps.db.First(&preset, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPresetNotFound
		}
		return nil, err
	}
	return &preset, nil
}

// ListPresets returns all saved presets ordered by name
func (ps *PresetService) ListPresets() ([]Preset, error) {
	var presets []Preset
	err := ps.db.Order("name ASC").Find(&presets).Error
	return presets, err
}

// DeletePreset removes a preset
func (ps *PresetService) DeletePreset(id uuid.UUID) error {
	res := ps.db.Delete(&Preset{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPresetNotFound
	}
	return nil
}

// RecordApply bumps the usage counter of a preset.
func (ps *PresetService) RecordApply(id uuid.UUID) error {
	res := ps.db.Model(&Preset{}).Where("id = ?", id).
		UpdateColumn("apply_count", gorm.Expr("apply_count + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPresetNotFound
	}
	return nil
}
