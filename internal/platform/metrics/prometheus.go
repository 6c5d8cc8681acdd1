package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// Business metrics
	residentsRegistered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "residents_registered_total",
			Help: "Total number of residents registered",
		},
		[]string{"gender"},
	)

	visitsRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "visits_recorded_total",
			Help: "Total number of visits recorded",
		},
	)

	growthChecksRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "growth_checks_total",
			Help: "Total number of child growth checks recorded",
		},
		[]string{"nutrition_status"},
	)

	ancVisitsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "anc_visits_total",
			Help: "Total number of antenatal care visits recorded",
		},
		[]string{"high_risk"},
	)

	pncVisitsRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pnc_visits_total",
			Help: "Total number of postnatal care visits recorded",
		},
	)

	ncdFollowupsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ncd_followups_total",
			Help: "Total number of NCD follow-ups recorded",
		},
		[]string{"status_color"},
	)

	exportsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exports_generated_total",
			Help: "Total number of registry exports generated",
		},
		[]string{"dataset", "format"},
	)

	photosUploaded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photos_uploaded_total",
			Help: "Total number of resident photos uploaded",
		},
	)

	loginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logins_total",
			Help: "Total number of worker login attempts",
		},
		[]string{"outcome"},
	)

	auditEntriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "audit_entries_total",
			Help: "Total number of audit entries created",
		},
	)

	// Database metrics
	dbConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		},
	)

	dbQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware returns Echo middleware that records request counts, durations,
// and in-flight gauge. The route template (c.Path) is used as the path label
// so that /api/v1/residents/:id does not explode metric cardinality.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			httpRequestsInFlight.Inc()
			defer httpRequestsInFlight.Dec()

			err := next(c)

			status := c.Response().Status
			if err != nil {
				if httpErr, ok := err.(*echo.HTTPError); ok {
					status = httpErr.Code
				} else {
					status = http.StatusInternalServerError
				}
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}

			httpRequestsTotal.WithLabelValues(c.Request().Method, path, strconv.Itoa(status)).Inc()
			httpRequestDuration.WithLabelValues(c.Request().Method, path).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// --- Business metric helpers ---

// RecordResidentRegistered records a resident registration.
func RecordResidentRegistered(gender string) {
	residentsRegistered.WithLabelValues(gender).Inc()
}

// RecordVisit records a visit creation.
func RecordVisit() {
	visitsRecorded.Inc()
}

// RecordGrowthCheck records a growth monitoring entry.
func RecordGrowthCheck(nutritionStatus string) {
	growthChecksRecorded.WithLabelValues(nutritionStatus).Inc()
}

// RecordANCVisit records an antenatal care visit.
func RecordANCVisit(highRisk bool) {
	ancVisitsRecorded.WithLabelValues(strconv.FormatBool(highRisk)).Inc()
}

// RecordPNCVisit records a postnatal care visit.
func RecordPNCVisit() {
	pncVisitsRecorded.Inc()
}

// RecordNCDFollowup records an NCD follow-up with its triage color.
func RecordNCDFollowup(statusColor string) {
	ncdFollowupsRecorded.WithLabelValues(statusColor).Inc()
}

// RecordExport records an export download.
func RecordExport(dataset, format string) {
	exportsGenerated.WithLabelValues(dataset, format).Inc()
}

// RecordPhotoUpload records a resident photo upload.
func RecordPhotoUpload() {
	photosUploaded.Inc()
}

// RecordLogin records a worker login attempt.
func RecordLogin(success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	loginsTotal.WithLabelValues(outcome).Inc()
}

// RecordAuditEntry records an audit entry creation.
func RecordAuditEntry() {
	auditEntriesTotal.Inc()
}

// RecordDBConnections records active database connections.
func RecordDBConnections(count int) {
	dbConnectionsActive.Set(float64(count))
}

// RecordDBQuery records a database query duration.
func RecordDBQuery(operation string, duration time.Duration) {
	dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
