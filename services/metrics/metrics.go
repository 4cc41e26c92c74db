package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "examally_notifications_total",
			Help: "Notification emails by kind and outcome (sent, skipped, failed)",
		},
		[]string{"kind", "outcome"},
	)

	VerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "examally_verifications_total",
			Help: "Verification code events (requested, verified, invalid, expired)",
		},
		[]string{"event"},
	)

	StoreFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "examally_store_fallbacks_total",
			Help: "Reads served from the local store because the record store was unavailable",
		},
		[]string{"collection"},
	)

	MarkPercentage = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "examally_mark_percentage",
			Help:    "Distribution of recorded mark percentages",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "examally_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)
