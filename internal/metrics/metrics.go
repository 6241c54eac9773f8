package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"socialdesk/internal/logging"
)

var (
	APIRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "socialdesk_api_requests_total",
		Help: "Backend calls by operation and outcome",
	}, []string{"op", "outcome"})
	APIDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "socialdesk_api_request_duration_seconds",
		Help:    "Backend call duration seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	Refreshes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "socialdesk_refresh_total",
		Help: "Collection refreshes by page and outcome",
	}, []string{"page", "outcome"})
	Notifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "socialdesk_notifications_total",
		Help: "Notifications raised by severity",
	}, []string{"severity"})
	CommandRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "socialdesk_command_runs_total",
		Help: "CLI command runs",
	}, []string{"cmd"})
	CommandErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "socialdesk_command_errors_total",
		Help: "CLI command failures",
	}, []string{"cmd"})
	PendingComments = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "socialdesk_pending_comments",
		Help: "Pending comments reported by the last stats fetch",
	})
)

func init() {
	prometheus.MustRegister(APIRequests, APIDuration, Refreshes, Notifications, CommandRuns, CommandErrors, PendingComments)
}

// StartServer starts a metrics HTTP server on addr (e.g., ":9090").
// An empty addr disables the server.
func StartServer(addr string) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			logging.Error("metrics_server_error", map[string]any{"addr": addr, "error": err.Error()})
		}
	}()
}

// ObserveAPI records one backend call.
func ObserveAPI(op string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	APIRequests.WithLabelValues(op, outcome).Inc()
	APIDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// IncRefresh counts a collection refresh for a page.
func IncRefresh(page string, ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	Refreshes.WithLabelValues(page, outcome).Inc()
}

func IncNotification(severity string) { Notifications.WithLabelValues(severity).Inc() }

func IncCommandRun(cmd string)   { CommandRuns.WithLabelValues(cmd).Inc() }
func IncCommandError(cmd string) { CommandErrors.WithLabelValues(cmd).Inc() }
