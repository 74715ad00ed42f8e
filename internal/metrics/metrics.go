// Package metrics exports scheduler and frame-time metrics to Prometheus.
package metrics

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/phanxgames/reel"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics implements reel.TickObserver. Counters are fed the difference
// between successive cumulative scheduler stats.
type Metrics struct {
	registry *prometheus.Registry

	activeTimelines prometheus.Gauge
	timelines       *prometheus.CounterVec
	callbacks       prometheus.Counter
	ticks           prometheus.Counter
	updateSeconds   prometheus.Histogram

	last reel.SchedulerStats
}

var _ reel.TickObserver = (*Metrics)(nil)

// New creates metrics on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		activeTimelines: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "reel_active_timelines",
			Help: "Timelines currently registered with the scheduler",
		}),
		timelines: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reel_timelines_total",
				Help: "Timelines by lifecycle event",
			},
			[]string{"event"},
		),
		callbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reel_callbacks_total",
			Help: "Timeline callbacks fired",
		}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reel_ticks_total",
			Help: "Scheduler ticks",
		}),
		updateSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "reel_update_duration_seconds",
			Help:    "Wall time of Stage.Update",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
		}),
	}
	m.registry.MustRegister(m.activeTimelines, m.timelines, m.callbacks, m.ticks, m.updateSeconds)
	return m
}

// ObserveTick implements reel.TickObserver.
func (m *Metrics) ObserveTick(st reel.SchedulerStats, updateTime time.Duration) {
	m.activeTimelines.Set(float64(st.Active))
	m.timelines.WithLabelValues("registered").Add(delta(st.Registered, m.last.Registered))
	m.timelines.WithLabelValues("completed").Add(delta(st.Completed, m.last.Completed))
	m.timelines.WithLabelValues("killed").Add(delta(st.Killed, m.last.Killed))
	m.callbacks.Add(delta(st.Callbacks, m.last.Callbacks))
	m.ticks.Add(delta(st.Ticks, m.last.Ticks))
	m.updateSeconds.Observe(updateTime.Seconds())
	m.last = st
}

// delta guards against a scheduler swap resetting the cumulative counts.
func delta(cur, prev uint64) float64 {
	if cur < prev {
		return float64(cur)
	}
	return float64(cur - prev)
}

// Registry returns the registry holding the reel metrics.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve starts a /metrics server on addr in the background. Shut it down
// with the returned server's Close or Shutdown.
func (m *Metrics) Serve(addr string, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Info("starting metrics server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "err", err)
		}
	}()
	return srv
}
