package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Content gauges reflect the store as of the last refresh.
var (
	ArticlesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "articles_total",
			Help: "Number of stored articles at the last refresh",
		},
	)

	UsersTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "users_total",
			Help: "Number of registered users at the last refresh",
		},
	)

	// StatsRefreshErrors counts failed refreshes of the content gauges.
	StatsRefreshErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "content_stats_refresh_errors_total",
			Help: "Total failed refreshes of the content gauges",
		},
	)
)

// ArticleOperationsTotal counts article lifecycle calls by outcome.
var ArticleOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "article_operations_total",
		Help: "Total article operations by operation and result",
	},
	[]string{"operation", "result"}, // create|update|delete, success|rejected|forbidden|not_found|upload_failed|error
)
