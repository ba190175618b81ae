package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Define metrics
var (
	// Counter metrics
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_login_total",
			Help: "Total number of login attempts",
		},
	)

	RegisterCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_register_total",
			Help: "Total number of organization registrations",
		},
	)

	OrgOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "org_operations_total",
			Help: "Total number of organization operations by type",
		},
		[]string{"operation"},
	)

	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"endpoint", "method", "status"},
	)

	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_errors_total",
			Help: "Total number of authentication errors by type",
		},
		[]string{"type"},
	)

	OrgErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "org_errors_total",
			Help: "Total number of organization-related errors",
		},
		[]string{"org_id", "error_type"},
	)

	CascadeDeletionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "org_cascade_deletions_total",
			Help: "Total number of cascade delete and reset operations",
		},
		[]string{"mode"},
	)

	// Histogram metrics
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// Gauge metrics
	ActiveTokensGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "auth_active_tokens",
			Help: "Number of currently active tokens",
		},
	)

	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "service_info",
			Help: "Information about the service",
		},
		[]string{"version"},
	)

	ActiveOrganizationsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "organizations_active",
			Help: "Number of currently active organizations",
		},
	)

	UsersPerOrganizationGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "organization_users",
			Help: "Number of users per organization",
		},
		[]string{"org_id", "org_slug"},
	)
)

func init() {
	// Register counters
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(RegisterCounter)
	prometheus.MustRegister(OrgOperationCounter)
	prometheus.MustRegister(HTTPRequestCounter)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(OrgErrorCounter)
	prometheus.MustRegister(CascadeDeletionCounter)

	// Register histograms
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)

	// Register gauges
	prometheus.MustRegister(ActiveTokensGauge)
	prometheus.MustRegister(InfoGauge)
	prometheus.MustRegister(ActiveOrganizationsGauge)
	prometheus.MustRegister(UsersPerOrganizationGauge)

	// Set initial service info
	InfoGauge.With(prometheus.Labels{"version": "1.0.0"}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation measures database operation durations
func TrackDBOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(duration)
	}
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			// Execute the request handler
			err := next(c)

			// Record request duration
			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			// Record metrics
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

// IncreaseActiveTokens increments the active tokens gauge
func IncreaseActiveTokens() {
	ActiveTokensGauge.Inc()
}

// DecreaseActiveTokens decrements the active tokens gauge
func DecreaseActiveTokens() {
	ActiveTokensGauge.Dec()
}

// RecordAuthError records an authentication error by type
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordOrgError records an organization-related error
func RecordOrgError(orgID uint, errorType string) {
	OrgErrorCounter.With(prometheus.Labels{
		"org_id":     strconv.FormatUint(uint64(orgID), 10),
		"error_type": errorType,
	}).Inc()
}

// RecordOrgOperation records an organization operation
func RecordOrgOperation(operation string) {
	OrgOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordCascadeDeletion records a cascade delete or reset operation
func RecordCascadeDeletion(mode string) {
	CascadeDeletionCounter.With(prometheus.Labels{"mode": mode}).Inc()
}

// UpdateActiveOrganizations updates the active organizations gauge
func UpdateActiveOrganizations(count int) {
	ActiveOrganizationsGauge.Set(float64(count))
}

// UpdateUsersPerOrganization updates the users per organization gauge
func UpdateUsersPerOrganization(orgID uint, orgSlug string, count int) {
	UsersPerOrganizationGauge.With(prometheus.Labels{
		"org_id":   strconv.FormatUint(uint64(orgID), 10),
		"org_slug": orgSlug,
	}).Set(float64(count))
}
