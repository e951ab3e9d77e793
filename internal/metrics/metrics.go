// Package metrics exposes the process' prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records pipeline runs and http requests.
type Collector struct {
	runs         *prometheus.CounterVec
	runDuration  *prometheus.HistogramVec
	fanoutUsers  *prometheus.GaugeVec
	httpRequests *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "class_notifier_runs_total",
			Help: "Pipeline runs by action and outcome.",
		}, []string{"action", "outcome"}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "class_notifier_run_duration_seconds",
			Help:    "Duration of a single user pipeline run.",
			Buckets: prometheus.DefBuckets,
		}, []string{"action"}),
		fanoutUsers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "class_notifier_fanout_users",
			Help: "Number of users in the last fan-out by action.",
		}, []string{"action"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "class_notifier_http_requests_total",
			Help: "HTTP requests served by route and status code.",
		}, []string{"method", "route", "status_code"}),
	}

	reg.MustRegister(
		c.runs,
		c.runDuration,
		c.fanoutUsers,
		c.httpRequests,
	)

	return c
}

func (c *Collector) RecordRun(action, outcome string, duration time.Duration) {
	c.runs.WithLabelValues(action, outcome).Inc()
	c.runDuration.WithLabelValues(action).Observe(duration.Seconds())
}

func (c *Collector) RecordFanout(action string, users int) {
	c.fanoutUsers.WithLabelValues(action).Set(float64(users))
}

func (c *Collector) RecordRequest(method, route string, statusCode int) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
}

// Handler returns the http handler prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
