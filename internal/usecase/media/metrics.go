package media

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// uploadsTotal counts upload attempts by outcome
	uploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_uploads_total",
			Help: "Total number of image uploads",
		},
		[]string{"result"}, // success|rejected|provider_error
	)

	// uploadBytes tracks the size of normalized images handed to the store
	uploadBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "media_upload_bytes",
			Help:    "Size of stored images in bytes",
			Buckets: prometheus.ExponentialBuckets(16*1024, 2, 10), // 16KiB to 8MiB
		},
	)
)

const (
	resultSuccess       = "success"
	resultRejected      = "rejected"
	resultProviderError = "provider_error"
)

func recordUpload(result string, size int) {
	uploadsTotal.WithLabelValues(result).Inc()
	if result == resultSuccess {
		uploadBytes.Observe(float64(size))
	}
}
