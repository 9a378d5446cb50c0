// Package metrics exposes Prometheus instruments for the HTTP API and the
// gated actions.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"invoicedesk/internal/gate"
)

type Metrics struct {
	gatherer        prometheus.Gatherer
	requestDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge
	gatedActions    *prometheus.CounterVec
	clients         prometheus.Gauge
}

// New registers the instruments on reg. A nil reg uses a fresh registry so
// tests can build as many as they like.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		gatherer: reg,
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "invoicedesk_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "invoicedesk_http_in_flight_requests",
			Help: "Requests currently being served.",
		}),
		gatedActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "invoicedesk_gated_actions_total",
			Help: "Completed export and send actions by outcome.",
		}, []string{"kind", "status"}),
		clients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "invoicedesk_directory_clients",
			Help: "Clients currently saved in the directory.",
		}),
	}
	reg.MustRegister(m.requestDuration, m.inFlight, m.gatedActions, m.clients)
	return m
}

// GinMiddleware records request latency by matched route.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		m.inFlight.Inc()
		start := time.Now()
		c.Next()
		m.inFlight.Dec()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// ObserveGate counts completed gated actions. It matches gate.Observer.
func (m *Metrics) ObserveGate(kind string, status gate.Status) {
	if m == nil {
		return
	}
	m.gatedActions.WithLabelValues(kind, string(status)).Inc()
}

func (m *Metrics) SetClients(n int) {
	if m == nil {
		return
	}
	m.clients.Set(float64(n))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
