package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "escaperoom_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "escaperoom_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Business metrics
	AgentsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "escaperoom_agents_created_total",
			Help: "Total agents created",
		},
	)

	RoomsLoaded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "escaperoom_rooms_loaded_total",
			Help: "Total existing rooms loaded",
		},
	)

	RoomsSaved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "escaperoom_rooms_saved_total",
			Help: "Total rooms saved",
		},
	)

	AuthFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "escaperoom_auth_failures_total",
			Help: "Total secret mismatches",
		},
		[]string{"op"}, // "create_or_load" or "save_room"
	)

	PuzzlesServed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "escaperoom_puzzles_served_total",
			Help: "Total puzzles returned to players",
		},
	)

	SolutionChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "escaperoom_solution_checks_total",
			Help: "Total solution checks",
		},
		[]string{"result"}, // "correct", "incorrect" or "error"
	)

	// Rate limit metrics
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "escaperoom_rate_limit_hits_total",
			Help: "Total rate limit hits",
		},
		[]string{"endpoint"},
	)

	BlockedRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "escaperoom_blocked_requests_total",
			Help: "Total blocked requests",
		},
		[]string{"reason"},
	)

	// Infrastructure metrics
	StoreLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "escaperoom_store_latency_seconds",
			Help:    "Document store operation latency",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
		},
		[]string{"backend", "op"},
	)

	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "escaperoom_store_errors_total",
			Help: "Document store operations that failed",
		},
		[]string{"backend", "op"},
	)
)
