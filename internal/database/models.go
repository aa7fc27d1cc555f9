package database

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/rmitchellscott/ditherbox/internal/dither"
)

// Preset is a user-saved set of dither parameters.
type Preset struct {
	ID          uuid.UUID                            `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string                               `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description string                               `gorm:"size:500" json:"description"`
	Parameters  datatypes.JSONType[dither.Parameters] `json:"parameters"`
	ApplyCount  int                                  `gorm:"default:0" json:"apply_count"`
	CreatedAt   time.Time                            `json:"created_at"`
	UpdatedAt   time.Time                            `json:"updated_at"`
}

// BeforeCreate sets UUID if not already set
func (p *Preset) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Params returns the stored dither parameters.
func (p *Preset) Params() dither.Parameters {
	return p.Parameters.Data()
}

// GetAllModels returns all models for auto-migration
func GetAllModels() []interface{} {
	return []interface{}{
		&Preset{},
	}
}
