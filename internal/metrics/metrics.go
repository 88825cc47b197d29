package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label value constants to prevent typos
const (
	// Ad selection outcomes
	SelectionServed      = "served"
	SelectionNoCandidate = "no_candidate"

	// Ad event types
	EventImpression = "impression"
	EventClick      = "click"

	// Resolver outcomes
	ResolveExact    = "exact"
	ResolveSingular = "singularized"
	ResolveFuzzy    = "fuzzy"
	ResolveMiss     = "miss"

	// Push outcomes
	PushSent   = "sent"
	PushFailed = "failed"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"path", "method", "status_code"},
	)
)

// Ad Delivery Metrics
var (
	AdSelectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ad_selections_total",
			Help: "Total number of ad selection requests by placement and outcome",
		},
		[]string{"placement", "outcome"},
	)

	AdEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ad_events_total",
			Help: "Total number of recorded ad events",
		},
		[]string{"event"},
	)

	CampaignAutoPausesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "campaign_auto_pauses_total",
			Help: "Total number of campaigns auto-paused by budget or flight expiry",
		},
	)
)

// Catalog Metrics
var (
	ExerciseResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exercise_resolutions_total",
			Help: "Total number of exercise name resolutions by outcome",
		},
		[]string{"outcome"},
	)

	ProgramUpsertsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "program_upserts_total",
			Help: "Total number of program template upserts",
		},
	)
)

// Push Metrics
var (
	PushDeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "push_deliveries_total",
			Help: "Total number of push delivery attempts by outcome",
		},
		[]string{"outcome"},
	)
)
