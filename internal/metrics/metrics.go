// Package metrics provides Prometheus metrics for options pages.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "optionspage"

// Collector holds all Prometheus metrics. It satisfies options.Observer and
// storage.Observer.
type Collector struct {
	// Page metrics
	Renders        *prometheus.CounterVec
	RenderDuration *prometheus.HistogramVec
	Rejections     *prometheus.CounterVec

	// Submission metrics
	Submissions *prometheus.CounterVec

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Storage metrics
	StoreDuration *prometheus.HistogramVec
	StoreErrors   *prometheus.CounterVec

	// Config metrics
	ConfigReloads      prometheus.Counter
	DefinitionsReloads *prometheus.CounterVec
}

// New registers the collector with the default registry.
func New() *Collector {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the collector with reg.
func NewWithRegistry(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		Renders: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "renders_total",
				Help:      "Total number of page renders",
			},
			[]string{"page", "tab", "status"},
		),
		RenderDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "render_duration_seconds",
				Help:      "Page render duration in seconds",
				Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"page"},
		),
		Rejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rejections_total",
				Help:      "Total number of submitted values dropped by validation",
			},
			[]string{"page", "key"},
		),
		Submissions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "submissions_total",
				Help:      "Total number of settings submissions",
			},
			[]string{"page", "tab", "status"},
		),
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests processed",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		StoreDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "store_duration_seconds",
				Help:      "Storage backend call duration in seconds",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"op"},
		),
		StoreErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_errors_total",
				Help:      "Total number of failed storage backend calls",
			},
			[]string{"op"},
		),
		ConfigReloads: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "config_reloads_total",
				Help:      "Total number of configuration reloads",
			},
		),
		DefinitionsReloads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "definitions_reloads_total",
				Help:      "Total number of page definition reloads",
			},
			[]string{"status"},
		),
	}
}

// ObserveRender records a page render.
func (c *Collector) ObserveRender(page, tab string, elapsed time.Duration, err error) {
	c.Renders.WithLabelValues(page, tab, status(err)).Inc()
	c.RenderDuration.WithLabelValues(page).Observe(elapsed.Seconds())
}

// ObserveRejection records a value dropped by validation.
func (c *Collector) ObserveRejection(page, key string) {
	c.Rejections.WithLabelValues(page, key).Inc()
}

// ObserveStore records a storage backend call. Namespaces are not used as a
// label to keep cardinality bounded.
func (c *Collector) ObserveStore(op, _ string, elapsed time.Duration, err error) {
	c.StoreDuration.WithLabelValues(op).Observe(elapsed.Seconds())
	if err != nil {
		c.StoreErrors.WithLabelValues(op).Inc()
	}
}

// ObserveSubmission records a settings form submission.
func (c *Collector) ObserveSubmission(page, tab string, err error) {
	c.Submissions.WithLabelValues(page, tab, status(err)).Inc()
}

// ObserveRequest records an HTTP request.
func (c *Collector) ObserveRequest(method, route string, code int, elapsed time.Duration) {
	c.RequestsTotal.WithLabelValues(method, route, statusClass(code)).Inc()
	c.RequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveDefinitionsReload records a definitions reload.
func (c *Collector) ObserveDefinitionsReload(err error) {
	c.DefinitionsReloads.WithLabelValues(status(err)).Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	case code >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
