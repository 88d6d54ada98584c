// ABOUTME: Prometheus metrics for playground runs, mounts, and HTTP traffic.
// ABOUTME: Metrics live on their own registry and are fed as an editor run observer.
package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/2389-research/playpen/editor"
)

const namespace = "playpen"

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Run metrics
	RunsTotal      *prometheus.CounterVec
	RunDuration    *prometheus.HistogramVec
	MarkersTotal   prometheus.Counter
	SupersededRuns prometheus.Counter
	TruncatedRuns  prometheus.Counter

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

var _ editor.Observer = (*Metrics)(nil)

// NewMetrics registers every metric on reg. A nil reg gets a fresh registry
// with the Go runtime and process collectors.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	factory := promauto.With(reg)

	return &Metrics{
		RunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Total number of completed runs by status",
			},
			[]string{"status"},
		),
		RunDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Time from run start to result, by status",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"status"},
		),
		MarkersTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "markers_total",
			Help:      "Total number of diagnostic markers applied to editors",
		}),
		SupersededRuns: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "superseded_runs_total",
			Help:      "Runs whose result was discarded because a newer run or a reset replaced them",
		}),
		TruncatedRuns: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "truncated_runs_total",
			Help:      "Runs whose output was shortened for display",
		}),
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latencies in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		registry: reg,
	}
}

// TrackMounts exposes the live mount count as a gauge.
func (m *Metrics) TrackMounts(count func() int) {
	promauto.With(m.registry).NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_mounts",
		Help:      "Number of live editor mounts",
	}, func() float64 { return float64(count()) })
}

// RunFinished records a finished run.
func (m *Metrics) RunFinished(rec editor.RunRecord) {
	if rec.Superseded {
		m.SupersededRuns.Inc()
		return
	}
	status := rec.Status.String()
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDuration.WithLabelValues(status).Observe(rec.Duration.Seconds())
	m.MarkersTotal.Add(float64(rec.Markers))
	if rec.Truncated {
		m.TruncatedRuns.Inc()
	}
}

// RecordRequest records one HTTP request.
func (m *Metrics) RecordRequest(method, route string, status int, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
