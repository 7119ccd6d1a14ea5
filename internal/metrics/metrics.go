package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Bid ledger

	BidsSubmittedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "printmarket",
		Name:      "bids_submitted_total",
		Help:      "Total bids accepted into the ledger as pending.",
	})

	BidsResolvedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "printmarket",
		Name:      "bids_resolved_total",
		Help:      "Total bids leaving pending, by terminal status.",
	}, []string{"outcome"})

	BidConflictsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "printmarket",
		Name:      "bid_conflicts_total",
		Help:      "Bid operations refused because of current ledger state, by reason.",
	}, []string{"reason"})

	// Matching

	MatchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "printmarket",
		Name:      "match_duration_seconds",
		Help:      "Time to load, score and rank candidates for one job.",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"query"})

	MatchCandidates = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "printmarket",
		Name:      "match_candidates",
		Help:      "Printers scored per match request.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
	})

	// Notifications

	NotificationsDeliveredTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "printmarket",
		Name:      "notifications_delivered_total",
		Help:      "Notifications handed to a sink successfully.",
	}, []string{"sink"})

	NotificationsFailedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "printmarket",
		Name:      "notifications_failed_total",
		Help:      "Notification deliveries that returned an error.",
	}, []string{"sink"})

	NotificationsDroppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "printmarket",
		Name:      "notifications_dropped_total",
		Help:      "Notifications discarded because the dispatch queue was full.",
	})

	NotificationQueueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "printmarket",
		Name:      "notification_queue_depth",
		Help:      "Notifications waiting for a dispatch worker.",
	})

	// Expiry sweeper

	ExpiredBidsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "printmarket",
		Name:      "expired_bids_total",
		Help:      "Pending bids moved to expired by the sweeper.",
	})

	ExpirySweepDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "printmarket",
		Name:      "expiry_sweep_duration_seconds",
		Help:      "Time taken for one expiry sweep.",
		Buckets:   prometheus.DefBuckets,
	})

	ExpirerStartTime = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "printmarket",
		Name:      "expirer_start_time_seconds",
		Help:      "Unix timestamp when the expiry sweeper started.",
	})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "printmarket",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "printmarket",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		BidsSubmittedTotal,
		BidsResolvedTotal,
		BidConflictsTotal,
		MatchDuration,
		MatchCandidates,
		NotificationsDeliveredTotal,
		NotificationsFailedTotal,
		NotificationsDroppedTotal,
		NotificationQueueDepth,
		ExpiredBidsTotal,
		ExpirySweepDuration,
		ExpirerStartTime,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}
