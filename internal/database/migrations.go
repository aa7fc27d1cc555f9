package database

import (
	"time"

	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/rmitchellscott/ditherbox/internal/logging"
)

// RunMigrations runs any pending database migrations using gormigrate
func RunMigrations(db *gorm.DB) error {
	logging.InfoWithComponent(logging.ComponentDatabase, "running database migrations")

	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "202501010000_create_presets",
			Migrate: func(tx *gorm.DB) error {
				// Frozen copy of the first schema.
				type Preset struct {
					ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
					Name        string    `gorm:"size:100;not null;uniqueIndex"`
					Description string    `gorm:"size:500"`
					Parameters  datatypes.JSON
					CreatedAt   time.Time
					UpdatedAt   time.Time
				}
				return tx.AutoMigrate(&Preset{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("presets")
			},
		},
		{
			ID: "202501150000_add_preset_apply_count",
			Migrate: func(tx *gorm.DB) error {
				if tx.Migrator().HasColumn(&Preset{}, "apply_count") {
					return nil
				}
				return tx.Migrator().AddColumn(&Preset{}, "ApplyCount")
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropColumn(&Preset{}, "ApplyCount")
			},
		},
	})

	if err := m.Migrate(); err != nil {
		return err
	}

	logging.InfoWithComponent(logging.ComponentDatabase, "database migrations completed")
	return nil
}
