// Package metrics exposes Prometheus metrics for the calculator service.
package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/RMahshie/linkcalc/pkg/models"
)

// Collector bundles the calculator and HTTP metrics.
type Collector struct {
	gatherer prometheus.Gatherer

	Calculations   *prometheus.CounterVec
	SweepPoints    prometheus.Histogram
	HTTPRequests   *prometheus.CounterVec
	HTTPDurations  *prometheus.HistogramVec
	ActiveSessions prometheus.GaugeFunc
}

// NewCollector registers the metrics against reg, defaulting to the global
// registry when nil. sessions may be nil.
func NewCollector(reg prometheus.Registerer, sessions func() int) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	calcs, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "linkcalc_calculations_total",
		Help: "Calculations handled, labeled by mode and outcome (ok or the rejection reason).",
	}, []string{"mode", "outcome"}), "linkcalc_calculations_total")
	if err != nil {
		return nil, err
	}

	points, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "linkcalc_sweep_points",
		Help:    "Number of samples per successful frequency sweep.",
		Buckets: []float64{1, 10, 50, 100, 250, 500, 1000, 2000, 3000},
	}), "linkcalc_sweep_points")
	if err != nil {
		return nil, err
	}

	requests, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "linkcalc_http_requests_total",
		Help: "HTTP requests, labeled by method, route pattern and status code.",
	}, []string{"method", "route", "code"}), "linkcalc_http_requests_total")
	if err != nil {
		return nil, err
	}

	durations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "linkcalc_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"method", "route"}), "linkcalc_http_request_duration_seconds")
	if err != nil {
		return nil, err
	}

	c := &Collector{
		gatherer:      gatherer,
		Calculations:  calcs,
		SweepPoints:   points,
		HTTPRequests:  requests,
		HTTPDurations: durations,
	}

	if sessions != nil {
		gauge := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "linkcalc_active_sessions",
			Help: "Calculator pages currently held in memory.",
		}, func() float64 { return float64(sessions()) })
		if err := reg.Register(gauge); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return nil, err
			}
		}
		c.ActiveSessions = gauge
	}

	return c, nil
}

// RecordCalculation implements calculator.Recorder.
func (c *Collector) RecordCalculation(mode models.Mode, outcome string, points int) {
	if c == nil {
		return
	}
	c.Calculations.WithLabelValues(string(mode), outcome).Inc()
	if mode == models.ModeRange && outcome == "ok" {
		c.SweepPoints.Observe(float64(points))
	}
}

// Middleware records request counts and latencies by chi route pattern.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		c.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		c.HTTPDurations.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}
