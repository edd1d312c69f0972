package web

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/JonMunkholm/wildlife/internal/chart"
	"github.com/JonMunkholm/wildlife/internal/core"
)

const metricsNamespace = "wildlife"

// metrics holds the dashboard's Prometheus collectors. Each Server owns its
// own registry so tests can build servers side by side.
type metrics struct {
	registry *prometheus.Registry

	// requestsTotal counts HTTP requests.
	// Labels: route (chi pattern), method, status
	requestsTotal *prometheus.CounterVec

	// requestDuration measures handler latency.
	// Labels: route
	requestDuration *prometheus.HistogramVec

	// chartRenders counts chart renders by kind and result (ok, error).
	chartRenders *prometheus.CounterVec

	// chartRenderSeconds measures one chart render.
	chartRenderSeconds prometheus.Histogram

	// exportsTotal counts CSV exports; exportedRows counts their rows.
	exportsTotal prometheus.Counter
	exportedRows prometheus.Counter

	// errorsTotal counts error responses by user-facing code.
	errorsTotal *prometheus.CounterVec
}

// newMetrics builds the collectors. boards is read on every scrape, so the
// board may be created after the metrics that instrument its renderer.
func newMetrics(session *core.Session, boards func() chart.BoardStats, limiter *core.Limiter) *metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	m := &metrics{
		registry: reg,
		requestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		chartRenders: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "chart",
			Name:      "renders_total",
			Help:      "Chart renders by kind and result",
		}, []string{"kind", "result"}),
		chartRenderSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "chart",
			Name:      "render_seconds",
			Help:      "Time to render one chart",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		exportsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "export",
			Name:      "requests_total",
			Help:      "CSV exports served",
		}),
		exportedRows: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "export",
			Name:      "rows_total",
			Help:      "Rows written by CSV exports",
		}),
		errorsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "errors_total",
			Help:      "Error responses by error code",
		}, []string{"code"}),
	}

	f.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: "dataset",
		Name:      "records",
		Help:      "Records in the loaded dataset",
	}, func() float64 {
		return float64(session.Status().Records)
	})
	f.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: "dataset",
		Name:      "ready",
		Help:      "1 when the dataset is loaded, 0 while loading, -1 after a failed load",
	}, func() float64 {
		switch session.Status().State {
		case core.StateReady:
			return 1
		case core.StateFailed:
			return -1
		}
		return 0
	})
	f.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: "chart",
		Name:      "handles_active",
		Help:      "Rendered chart handles currently held by the board",
	}, func() float64 {
		return float64(boards().Active)
	})
	f.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: "chart",
		Name:      "sets_cached",
		Help:      "Filter selections whose charts are held by the board",
	}, func() float64 {
		return float64(boards().Sets)
	})
	f.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: "render",
		Name:      "slots_in_use",
		Help:      "Render and export slots currently held",
	}, func() float64 {
		return float64(limiter.Active())
	})

	return m
}

// ObserveRequest implements middleware.Recorder.
func (m *metrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.requestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// instrumentRender wraps a chart renderer with render metrics.
func (m *metrics) instrumentRender(render chart.RenderFunc) chart.RenderFunc {
	return func(k chart.Kind, p core.Projection) ([]byte, error) {
		start := time.Now()
		data, err := render(k, p)
		m.chartRenderSeconds.Observe(time.Since(start).Seconds())

		result := "ok"
		if err != nil {
			result = "error"
		}
		m.chartRenders.WithLabelValues(string(k), result).Inc()
		return data, err
	}
}
