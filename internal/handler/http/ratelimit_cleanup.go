package http

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"postboard/pkg/config"
)

// DefaultCleanupInterval is how often idle limiter buckets are pruned.
const DefaultCleanupInterval = 10 * time.Minute

// CleanupConfig controls rate limiter pruning.
type CleanupConfig struct {
	// Interval between prune runs.
	Interval time.Duration
	// IdleAfter is how long a bucket may go untouched before it is dropped.
	// Buckets idle this long have refilled completely.
	IdleAfter time.Duration
	// LimiterType labels log lines, e.g. "auth".
	LimiterType string
}

// LoadCleanupConfigFromEnv reads RATELIMIT_CLEANUP_INTERVAL. Invalid values
// fall back to the default.
func LoadCleanupConfigFromEnv(limiterType string) CleanupConfig {
	interval := config.GetEnvDuration("RATELIMIT_CLEANUP_INTERVAL", DefaultCleanupInterval)
	return CleanupConfig{
		Interval:    interval,
		IdleAfter:   interval,
		LimiterType: limiterType,
	}
}

// ScheduleRateLimitCleanup registers a job on c that prunes idle buckets from
// limiter. The caller owns c and starts and stops it.
func ScheduleRateLimitCleanup(c *cron.Cron, limiter *IPRateLimiter, cfg CleanupConfig, logger *slog.Logger) (cron.EntryID, error) {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultCleanupInterval
	}
	if cfg.IdleAfter <= 0 {
		cfg.IdleAfter = cfg.Interval
	}

	id, err := c.AddFunc(fmt.Sprintf("@every %s", cfg.Interval), func() {
		removed := limiter.Prune(cfg.IdleAfter)
		logger.Debug("rate limit cleanup completed",
			slog.String("limiter_type", cfg.LimiterType),
			slog.Int("keys_removed", removed),
			slog.Int("active_keys", limiter.Len()))
	})
	if err != nil {
		return 0, fmt.Errorf("schedule rate limit cleanup: %w", err)
	}

	logger.Info("rate limit cleanup scheduled",
		slog.String("limiter_type", cfg.LimiterType),
		slog.Duration("interval", cfg.Interval))
	return id, nil
}
