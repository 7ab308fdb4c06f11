package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ahau_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	// Identity gate failures
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ahau_auth_errors_total",
			Help: "Total number of authentication and authorization errors",
		},
		[]string{"type"}, // missing_bearer, invalid_token, tenant_access_denied, admin_required, ...
	)

	TenantOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ahau_tenant_operations_total",
			Help: "Total number of tenant operations",
		},
		[]string{"operation", "result"},
	)

	MembershipOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ahau_membership_operations_total",
			Help: "Total number of membership operations",
		},
		[]string{"operation", "result"},
	)

	DraftOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ahau_draft_operations_total",
			Help: "Total number of draft operations",
		},
		[]string{"operation", "result"},
	)

	// Profiles, templates and calendar slots
	EditorialOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ahau_editorial_operations_total",
			Help: "Total number of profile, template and calendar operations",
		},
		[]string{"resource", "operation", "result"},
	)

	PointsAwardedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ahau_points_awarded_total",
			Help: "Points awarded to members by action",
		},
		[]string{"action"},
	)

	SecretCacheCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ahau_secret_cache_total",
			Help: "Secret cache lookups by outcome",
		},
		[]string{"outcome"}, // hit, miss, invalidate, error
	)

	EventPublishCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ahau_events_published_total",
			Help: "Audit events handed to the publisher by type and result",
		},
		[]string{"type", "result"},
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ahau_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ahau_db_operation_duration_seconds",
			Help:    "Duration of store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	ContentGenerationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ahau_content_generation_duration_seconds",
			Help:    "Duration of content generation calls in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		},
		[]string{"result"},
	)
)

// Gauge metrics
var (
	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ahau_info",
			Help: "Information about the ahau service",
		},
		[]string{"version", "environment", "store"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestCounter)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(TenantOperationCounter)
	prometheus.MustRegister(MembershipOperationCounter)
	prometheus.MustRegister(DraftOperationCounter)
	prometheus.MustRegister(EditorialOperationCounter)
	prometheus.MustRegister(PointsAwardedCounter)
	prometheus.MustRegister(SecretCacheCounter)
	prometheus.MustRegister(EventPublishCounter)

	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)
	prometheus.MustRegister(ContentGenerationDuration)

	prometheus.MustRegister(InfoGauge)
}

// InitMetrics publishes the service info gauge.
func InitMetrics(version, environment, store string) {
	InfoGauge.With(prometheus.Labels{
		"version":     version,
		"environment": environment,
		"store":       store,
	}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation measures store operation durations.
//
//	defer prometheus.TrackDBOperation("get_membership")(time.Now())
func TrackDBOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(time.Time) {
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(time.Since(startTime).Seconds())
	}
}

// TrackContentGeneration measures one generation call.
func TrackContentGeneration() func(err error) {
	startTime := time.Now()
	return func(err error) {
		ContentGenerationDuration.With(prometheus.Labels{
			"result": result(err),
		}).Observe(time.Since(startTime).Seconds())
	}
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil && !c.Response().Committed {
				c.Error(err)
			}

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			RequestDuration.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Observe(duration)

			HTTPRequestCounter.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Inc()

			return err
		}
	}
}

// RecordAuthError records an authentication error by type
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordTenantOperation records a tenant operation and its outcome
func RecordTenantOperation(operation string, err error) {
	TenantOperationCounter.With(prometheus.Labels{"operation": operation, "result": result(err)}).Inc()
}

// RecordMembershipOperation records a membership operation and its outcome
func RecordMembershipOperation(operation string, err error) {
	MembershipOperationCounter.With(prometheus.Labels{"operation": operation, "result": result(err)}).Inc()
}

// RecordDraftOperation records a draft operation and its outcome
func RecordDraftOperation(operation string, err error) {
	DraftOperationCounter.With(prometheus.Labels{"operation": operation, "result": result(err)}).Inc()
}

// RecordEditorialOperation records a profile, template or calendar operation
func RecordEditorialOperation(resource, operation string, err error) {
	EditorialOperationCounter.With(prometheus.Labels{"resource": resource, "operation": operation, "result": result(err)}).Inc()
}

// RecordPointsAwarded adds awarded points for an action
func RecordPointsAwarded(action string, points int) {
	PointsAwardedCounter.With(prometheus.Labels{"action": action}).Add(float64(points))
}

// RecordSecretCache records a secret cache lookup outcome
func RecordSecretCache(outcome string) {
	SecretCacheCounter.With(prometheus.Labels{"outcome": outcome}).Inc()
}

// RecordEventPublish records an audit event publish attempt
func RecordEventPublish(eventType string, err error) {
	EventPublishCounter.With(prometheus.Labels{"type": eventType, "result": result(err)}).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
