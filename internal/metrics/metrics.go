package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Reasons a click was not recorded
const (
	ReasonNotFound    = "not_found"
	ReasonRateLimited = "rate_limited"
	ReasonStoreError  = "store_error"
)

var (
	// ClicksRecorded counts clicks whose aggregates were written
	ClicksRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shortlink_clicks_recorded_total",
		Help: "Total number of clicks recorded into the aggregates",
	})

	// ClicksRejected counts tracking calls refused before any aggregate was written
	ClicksRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shortlink_clicks_rejected_total",
		Help: "Total number of tracking calls rejected, partitioned by reason",
	}, []string{"reason"})

	// ClicksDropped counts clicks discarded because the tracking queue was full
	ClicksDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shortlink_clicks_dropped_total",
		Help: "Total number of clicks dropped because the tracking queue was full",
	})

	// TrackingQueueDepth is the number of clicks waiting for a worker
	TrackingQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "shortlink_tracking_queue_depth",
		Help: "Number of clicks waiting in the tracking queue",
	})

	// StoreBackend reports the active key-value backend with value 1
	StoreBackend = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "shortlink_store_backend",
		Help: "Active key-value store backend (1 = active)",
	}, []string{"backend"})
)

// SetStoreBackend marks backend as the active store
func SetStoreBackend(backend string) {
	StoreBackend.Reset()
	StoreBackend.WithLabelValues(backend).Set(1)
}
