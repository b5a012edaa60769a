package metrics

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP/gRPC request metrics
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "requests_total",
			Help: "Total number of requests",
		},
		[]string{"service", "method", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "request_duration_seconds",
			Help:    "Request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method"},
	)

	// connection pool
	DatabaseConnections = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "database_connections",
			Help: "Current database connections",
		},
		[]string{"service", "status"},
	)

	// business metrics
	EduPointsTransactions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edupoints_transactions_total",
			Help: "Total number of committed EduPoints ledger rows",
		},
		[]string{"type"},
	)

	EduPointsAmount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edupoints_amount_total",
			Help: "Sum of EduPoints moved, by transaction type",
		},
		[]string{"type"},
	)

	EduPointsRedeemRejected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "edupoints_redeem_rejected_total",
			Help: "Redeem attempts rejected for insufficient balance",
		},
	)

	SubmissionsGraded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "submissions_graded_total",
			Help: "Submissions whose status was set by grading or review",
		},
		[]string{"status"},
	)

	PortfolioEntriesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "portfolio_entries_created_total",
			Help: "Portfolio entries inserted",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		DatabaseConnections,
		EduPointsTransactions,
		EduPointsAmount,
		EduPointsRedeemRejected,
		SubmissionsGraded,
		PortfolioEntriesCreated,
	)
}

// NewMetricsServer returns an HTTP server exposing /metrics on port.
func NewMetricsServer(port string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// RecordRequest records one handled request.
func RecordRequest(service, method, status string, duration time.Duration) {
	RequestsTotal.WithLabelValues(service, method, status).Inc()
	RequestDuration.WithLabelValues(service, method).Observe(duration.Seconds())
}

// RecordDBStats publishes a connection pool snapshot.
func RecordDBStats(service string, stats sql.DBStats) {
	DatabaseConnections.WithLabelValues(service, "open").Set(float64(stats.OpenConnections))
	DatabaseConnections.WithLabelValues(service, "in_use").Set(float64(stats.InUse))
	DatabaseConnections.WithLabelValues(service, "idle").Set(float64(stats.Idle))
}

func RecordLedgerTransaction(txType string, amount int64) {
	EduPointsTransactions.WithLabelValues(txType).Inc()
	EduPointsAmount.WithLabelValues(txType).Add(float64(amount))
}
