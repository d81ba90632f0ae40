package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Registry holds every application metric; served at /api/metrics
	Registry = prometheus.NewRegistry()

	factory = promauto.With(Registry)

	// Buckets tuned for request latencies from a few milliseconds up to several seconds.
	// Identity provider and database round trips dominate the tail.
	CustomAPIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13}

	// HTTP Metrics
	HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_server_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"http_request_method"},
	)

	// Database Client Metrics
	DBRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_client_operation_duration_seconds",
			Help:    "Database client operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	DBRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_client_operation_total",
			Help: "Total number of database client operations",
		},
		[]string{"operation", "status"},
	)

	// Identity provider client metrics
	IdentityRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "identity_client_operation_duration_seconds",
			Help:    "Identity provider operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	IdentityRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "identity_client_operation_total",
			Help: "Total number of identity provider operations",
		},
		[]string{"operation", "status"},
	)

	CircuitBreakerState = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"breaker"},
	)

	// Storage Client Metrics
	StorageRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storage_client_operation_duration_seconds",
			Help:    "Storage client operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	StorageRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_client_operation_total",
			Help: "Total number of storage client operations",
		},
		[]string{"operation", "status"},
	)

	// Cache Metrics
	CacheHits = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_name"},
	)

	CacheMisses = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_name"},
	)

	CacheSize = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Number of entries in cache",
		},
		[]string{"cache_name"},
	)

	// Business Metrics
	GateDecisions = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notethatdown_gate_decisions_total",
			Help: "Request gate decisions by outcome",
		},
		[]string{"gate", "decision"},
	)

	SessionResolutions = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notethatdown_session_resolutions_total",
			Help: "Caller session resolutions by result",
		},
		[]string{"result"},
	)

	MagicLinkValidations = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notethatdown_magic_link_validations_total",
			Help: "Magic link validations by result",
		},
		[]string{"result"},
	)

	AuthRequests = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notethatdown_auth_requests_total",
			Help: "Authentication requests by operation and status",
		},
		[]string{"operation", "status"},
	)

	SubscriptionSubmissions = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notethatdown_subscription_submissions_total",
			Help: "Waitlist subscription submissions by status",
		},
		[]string{"status"},
	)

	OnboardingSubmissions = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notethatdown_onboarding_submissions_total",
			Help: "Onboarding questionnaire submissions by status",
		},
		[]string{"status"},
	)

	FormSubmissions = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notethatdown_form_submissions_total",
			Help: "Feedback form submissions by form and status",
		},
		[]string{"form", "status"},
	)

	// Infrastructure Metrics
	GoRoutines = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_goroutines",
			Help: "Number of goroutines",
		},
	)

	HeapAlloc = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_mem_heap_alloc_bytes",
			Help: "Heap allocated bytes",
		},
	)
)

// Init registers process collectors and a static info gauge carrying the service name
func Init(serviceName string) {
	info := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "service_info",
		Help:        "Static service information",
		ConstLabels: prometheus.Labels{"service_name": serviceName},
	})
	info.Set(1)

	Registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
		info,
	)
}

// RecordInfrastructureMetrics collects infrastructure metrics periodically
func RecordInfrastructureMetrics() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		for range ticker.C {
			var m runtime.MemStats
			runtime.ReadMemStats(&m)

			GoRoutines.Set(float64(runtime.NumGoroutine()))
			HeapAlloc.Set(float64(m.HeapAlloc))
		}
	}()
}

// MeasureDuration measures the duration of an operation
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}
