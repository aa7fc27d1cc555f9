package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetFallsBackToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "secret")
	if err := os.WriteFile(path, []byte("  from-file\n"), 0600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("DITHERBOX_TEST_VALUE", "")
	t.Setenv("DITHERBOX_TEST_VALUE_FILE", path)

	if got := Get("DITHERBOX_TEST_VALUE", "def"); got != "from-file" {
		t.Errorf("Get() = %q, want %q", got, "from-file")
	}
}

func TestTypedGetters(t *testing.T) {
	t.Setenv("DB_INT", "42")
	t.Setenv("DB_BAD_INT", "forty")
	t.Setenv("DB_BOOL", "yes")
	t.Setenv("DB_DURATION", "2d")
	t.Setenv("DB_LIST", "a, b,,c")

	if got := GetInt("DB_INT", 1); got != 42 {
		t.Errorf("GetInt = %d", got)
	}
	if got := GetInt("DB_BAD_INT", 7); got != 7 {
		t.Errorf("GetInt fallback = %d", got)
	}
	if got := GetBool("DB_BOOL", false); !got {
		t.Errorf("GetBool = %v", got)
	}
	if got := GetDuration("DB_DURATION", time.Second); got != 48*time.Hour {
		t.Errorf("GetDuration = %v", got)
	}
	got := GetList("DB_LIST", nil)
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("GetList = %v", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "MAX_UPLOAD_MB", "SESSION_TTL", "CORS_ALLOWED_ORIGINS", "SERVE_EXPORTS", "MAX_OUTPUT_PIXELS"} {
		t.Setenv(key, "")
	}

	s := Load()
	if s.Port != "8000" {
		t.Errorf("Port = %q", s.Port)
	}
	if s.MaxUploadBytes != 25<<20 {
		t.Errorf("MaxUploadBytes = %d", s.MaxUploadBytes)
	}
	if s.SessionTTL != time.Hour {
		t.Errorf("SessionTTL = %v", s.SessionTTL)
	}
	if len(s.AllowedOrigins) != 1 || s.AllowedOrigins[0] != "*" {
		t.Errorf("AllowedOrigins = %v", s.AllowedOrigins)
	}
	if !s.ServeExports || s.MaxOutputPixels != 64_000_000 {
		t.Errorf("ServeExports = %v, MaxOutputPixels = %d", s.ServeExports, s.MaxOutputPixels)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVE_EXPORTS", "no")
	t.Setenv("MAX_OUTPUT_PIXELS", "1000")

	s := Load()
	if s.ServeExports {
		t.Error("ServeExports should be disabled")
	}
	if s.MaxOutputPixels != 1000 {
		t.Errorf("MaxOutputPixels = %d", s.MaxOutputPixels)
	}
}
