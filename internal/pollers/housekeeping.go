package pollers

import (
	"context"
	"time"

	"github.com/rmitchellscott/ditherbox/internal/editor"
	"github.com/rmitchellscott/ditherbox/internal/logging"
	"github.com/rmitchellscott/ditherbox/internal/middleware"
	"github.com/rmitchellscott/ditherbox/internal/storage"
)

// NewSessionSweeper expires idle editor sessions every interval.
func NewSessionSweeper(sessions *editor.Manager, interval time.Duration) *BasePoller {
	return NewBasePoller(DefaultConfig("session_sweeper", interval), func(ctx context.Context) error {
		if removed := sessions.Sweep(); removed > 0 {
			logging.InfoWithComponent(logging.ComponentSessionGC, "Expired idle sessions",
				"removed", removed, "remaining", sessions.Len())
		}
		return nil
	})
}

// NewExportCleaner deletes stored exports older than maxAge every
// interval. A non-positive maxAge keeps exports forever.
func NewExportCleaner(exports *storage.ExportStorage, interval, maxAge time.Duration) *BasePoller {
	config := DefaultConfig("export_cleaner", interval)
	config.Enabled = config.Enabled && maxAge > 0

	return NewBasePoller(config, func(ctx context.Context) error {
		removed, err := exports.CleanupOldExports(maxAge)
		if err != nil {
			return err
		}
		if removed > 0 {
			logging.InfoWithComponent(logging.ComponentStorage, "Removed old exports", "count", removed)
		}
		return nil
	})
}

// NewRateLimitCleaner drops limiters of clients that went quiet.
func NewRateLimitCleaner(limiter *middleware.IPRateLimiter) *BasePoller {
	return NewBasePoller(DefaultConfig("rate_limit_cleaner", limiter.IdleTTL()), func(ctx context.Context) error {
		if removed := limiter.Cleanup(time.Now()); removed > 0 {
			logging.DebugWithComponent(logging.ComponentRateLimit, "Dropped idle client limiters", "removed", removed)
		}
		return nil
	})
}
