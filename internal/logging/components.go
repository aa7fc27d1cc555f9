package logging

// Component constants for structured logging
const (
	ComponentStartup   = "startup"
	ComponentShutdown  = "shutdown"
	ComponentAPI       = "api"
	ComponentDatabase  = "database"
	ComponentEditor    = "editor"
	ComponentPipeline  = "pipeline"
	ComponentExport    = "export"
	ComponentPresets   = "presets"
	ComponentStorage   = "storage"
	ComponentPollers   = "pollers"
	ComponentRateLimit = "rate-limit"
	ComponentSessionGC = "session-gc"
)
