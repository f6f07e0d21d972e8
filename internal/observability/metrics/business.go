package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Result labels for ArticleOperationsTotal.
const (
	ResultSuccess      = "success"
	ResultRejected     = "rejected"
	ResultForbidden    = "forbidden"
	ResultNotFound     = "not_found"
	ResultUploadFailed = "upload_failed"
	ResultError        = "error"
)

// RecordArticleOperation records the outcome of a create, update or delete.
func RecordArticleOperation(operation, result string) {
	ArticleOperationsTotal.WithLabelValues(operation, result).Inc()
}

// UpdateContentTotals sets the article and user gauges.
func UpdateContentTotals(articles, users int64) {
	ArticlesTotal.Set(float64(articles))
	UsersTotal.Set(float64(users))
}

// StatsSource reports the current content totals.
type StatsSource interface {
	Counts(ctx context.Context) (articles, users int64, err error)
}

// RefreshContentTotals queries source once and updates the gauges. timeout
// bounds the query.
func RefreshContentTotals(ctx context.Context, source StatsSource, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	articles, users, err := source.Counts(ctx)
	if err != nil {
		StatsRefreshErrors.Inc()
		return fmt.Errorf("refresh content totals: %w", err)
	}
	UpdateContentTotals(articles, users)
	return nil
}

// ScheduleStatsRefresh registers a periodic refresh of the content gauges on
// c. interval must be positive.
func ScheduleStatsRefresh(c *cron.Cron, source StatsSource, interval time.Duration, logger *slog.Logger) (cron.EntryID, error) {
	if interval <= 0 {
		return 0, fmt.Errorf("stats refresh interval must be positive, got %s", interval)
	}
	if logger == nil {
		logger = slog.Default()
	}
	timeout := interval / 2
	return c.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		if err := RefreshContentTotals(context.Background(), source, timeout); err != nil {
			logger.Warn("content stats refresh failed", slog.Any("error", err))
		}
	})
}
