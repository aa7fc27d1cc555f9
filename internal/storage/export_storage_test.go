package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestStoreAndCleanup(t *testing.T) {
	dir := t.TempDir()
	s := NewExportStorage(filepath.Join(dir, "exports"), "/exports/")
	s.now = func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) }

	stored, err := s.Store([]byte("png bytes"), "../my photo-dither.PNG")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(stored.Name, "my_photo-dither_20240301_100000_") || !strings.HasSuffix(stored.Name, ".png") {
		t.Errorf("name = %q", stored.Name)
	}
	if stored.URL != "/exports/"+stored.Name || stored.Size != 9 {
		t.Errorf("stored = %+v", stored)
	}

	path := filepath.Join(s.GetBasePath(), stored.Name)
	if data, err := os.ReadFile(path); err != nil || string(data) != "png bytes" {
		t.Fatalf("read back %q, %v", data, err)
	}

	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatal(err)
	}
	fresh, err := s.Store([]byte("other"), "b.gif")
	if err != nil {
		t.Fatal(err)
	}

	s.now = time.Now
	removed, err := s.CleanupOldExports(time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 1 {
		t.Errorf("removed %d, want 1", removed)
	}
	if _, err := os.Stat(filepath.Join(s.GetBasePath(), fresh.Name)); err != nil {
		t.Errorf("fresh export removed: %v", err)
	}
}

func TestCleanupMissingDirectory(t *testing.T) {
	s := NewExportStorage(filepath.Join(t.TempDir(), "missing"), "/exports")
	if removed, err := s.CleanupOldExports(time.Hour); err != nil || removed != 0 {
		t.Errorf("CleanupOldExports = %d, %v", removed, err)
	}
}
