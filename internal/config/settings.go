package config

import "time"

// Settings is the resolved server configuration.
type Settings struct {
	Port    string
	GinMode string

	DataDir   string
	ExportDir string
	ExportURL string
	// ServeExports mounts ExportDir under ExportURL.
	ServeExports bool

	ExportMaxAge    time.Duration
	SessionTTL      time.Duration
	MaxUploadBytes  int64
	MaxSourcePixels int
	MaxOutputPixels int
	RatePerMinute   int
	AllowedOrigins  []string
}

// Load reads Settings from the environment.
func Load() Settings {
	uploadMB := GetInt("MAX_UPLOAD_MB", 25)
	if uploadMB <= 0 {
		uploadMB = 25
	}

	return Settings{
		Port:            Get("PORT", "8000"),
		GinMode:         Get("GIN_MODE", ""),
		DataDir:         Get("DATA_DIR", "./data"),
		ExportDir:       Get("EXPORT_DIR", "./data/exports"),
		ExportURL:       Get("EXPORT_URL", "/exports"),
		ServeExports:    GetBool("SERVE_EXPORTS", true),
		ExportMaxAge:    GetDuration("EXPORT_MAX_AGE", 24*time.Hour),
		SessionTTL:      GetDuration("SESSION_TTL", time.Hour),
		MaxUploadBytes:  int64(uploadMB) << 20,
		MaxSourcePixels: GetInt("MAX_SOURCE_PIXELS", 40_000_000),
		MaxOutputPixels: GetInt("MAX_OUTPUT_PIXELS", 64_000_000),
		RatePerMinute:   GetInt("RATE_LIMIT_PER_MINUTE", 60),
		AllowedOrigins:  GetList("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
}
