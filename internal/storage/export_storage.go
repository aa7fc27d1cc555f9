package storage

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rmitchellscott/ditherbox/internal/logging"
)

// ExportStorage keeps exported images on disk so they can be downloaded
// again through a public URL.
type ExportStorage struct {
	basePath string
	baseURL  string
	now      func() time.Time
}

// StoredExport describes one file written by Store.
type StoredExport struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Size int    `json:"size"`
}

// NewExportStorage creates a new export storage instance
func NewExportStorage(basePath, baseURL string) *ExportStorage {
	return &ExportStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
		now:      time.Now,
	}
}

// Store writes data under a name derived from filename, a timestamp and
// the content hash, and returns where it can be fetched.
func (s *ExportStorage) Store(data []byte, filename string) (StoredExport, error) {
	if err := os.MkdirAll(s.basePath, 0755); err != nil {
		return StoredExport{}, fmt.Errorf("failed to create export directory: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	stem := sanitizeName(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	hash := sha256.Sum256(data)
	timestamp := s.now().Format("20060102_150405")
	name := fmt.Sprintf("%s_%s_%x%s", stem, timestamp, hash[:8], ext)

	fullPath := filepath.Join(s.basePath, name)
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return StoredExport{}, fmt.Errorf("failed to write export file: %w", err)
	}

	return StoredExport{
		Name: name,
		URL:  fmt.Sprintf("%s/%s", s.baseURL, name),
		Size: len(data),
	}, nil
}

// sanitizeName keeps letters, digits, '-' and '_' so stored names never
// escape the export directory.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "export"
	}
	return b.String()
}

// CleanupOldExports removes exports older than maxAge and returns how many
// files were deleted.
func (s *ExportStorage) CleanupOldExports(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read export directory: %w", err)
	}

	cutoff := s.now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			fullPath := filepath.Join(s.basePath, entry.Name())
			if err := os.Remove(fullPath); err != nil {
				logging.WarnWithComponent(logging.ComponentStorage, "failed to remove old export", "path", fullPath, "error", err)
				continue
			}
			removed++
		}
	}
	return removed, nil
}

// GetBasePath returns the directory exports are written to
func (s *ExportStorage) GetBasePath() string {
	return s.basePath
}
