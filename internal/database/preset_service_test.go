package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rmitchellscott/ditherbox/internal/dither"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// A named shared-cache database per test keeps tests isolated while the
	// single pooled connection sees one schema.
	db, err := OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	if err != nil {
		t.Fatal(err)
	}
	if err := RunMigrations(db); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestPresetServiceCRUD(t *testing.T) {
	ps := NewPresetService(setupTestDB(t))

	params := dither.DefaultParameters()
	params.Levels = 4
	params.ColorMode = true
	params.MatrixM, params.MatrixN = 3, 1

	created, err := ps.CreatePreset("  Streaks ", "wide matrix", params)
	if err != nil {
		t.Fatal(err)
	}
	if created.ID == uuid.Nil || created.Name != "Streaks" {
		t.Fatalf("created = %+v", created)
	}

	got, err := ps.GetPresetByID(created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Params() != params {
		t.Errorf("stored params = %+v, want %+v", got.Params(), params)
	}

	if _, err := ps.CreatePreset("streaks", "", params); !errors.Is(err, ErrPresetNameTaken) {
		t.Errorf("duplicate name: %v", err)
	}
	if _, err := ps.CreatePreset("  ", "", params); err == nil {
		t.Error("empty name accepted")
	}

	if _, err := ps.CreatePreset("Another", "", dither.DefaultParameters()); err != nil {
		t.Fatal(err)
	}
	list, err := ps.ListPresets()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].Name != "Another" {
		t.Errorf("list = %+v", list)
	}

	if err := ps.RecordApply(created.ID); err != nil {
		t.Fatal(err)
	}
	got, _ = ps.GetPresetByID(created.ID)
	if got.ApplyCount != 1 {
		t.Errorf("apply count = %d", got.ApplyCount)
	}

	if err := ps.DeletePreset(created.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := ps.GetPresetByID(created.ID); !errors.Is(err, ErrPresetNotFound) {
		t.Errorf("deleted preset: %v", err)
	}
	if err := ps.DeletePreset(created.ID); !errors.Is(err, ErrPresetNotFound) {
		t.Errorf("double delete: %v", err)
	}
	if err := ps.RecordApply(uuid.New()); !errors.Is(err, ErrPresetNotFound) {
		t.Errorf("apply unknown: %v", err)
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	db := setupTestDB(t)
	if err := RunMigrations(db); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !db.Migrator().HasColumn(&Preset{}, "apply_count") {
		t.Error("apply_count column missing")
	}
}
