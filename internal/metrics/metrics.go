// Package metrics exposes host counters in the Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"voxelapi.dev/api/event"
)

const namespace = "voxelapi"

type Metrics struct {
	registry *prometheus.Registry

	ExplosionsPosted    *prometheus.CounterVec
	ExplosionsCancelled *prometheus.CounterVec
	BlocksAffected      *prometheus.HistogramVec
	ListenerPanics      prometheus.Counter
	JournalFailures     prometheus.Counter
	RequestsRejected    *prometheus.CounterVec
	RelayClients        prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		ExplosionsPosted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "explosions_posted_total",
			Help:      "Explosion events posted on the bus.",
		}, []string{"world"}),
		ExplosionsCancelled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "explosions_cancelled_total",
			Help:      "Explosion events cancelled by a listener.",
		}, []string{"world"}),
		BlocksAffected: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "explosion_blocks_affected",
			Help:      "Block locations left after listeners filtered an explosion.",
			Buckets:   []float64{0, 1, 8, 32, 128, 512, 2048},
		}, []string{"world"}),
		ListenerPanics: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listener_panics_total",
			Help:      "Recovered event listener panics.",
		}),
		JournalFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "journal_sink_failures_total",
			Help:      "Failed journal sink writes.",
		}),
		RequestsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_rejected_total",
			Help:      "Explosion requests rejected, by protocol error code.",
		}, []string{"code"}),
		RelayClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "relay_observers",
			Help:      "Connected relay observers.",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.ExplosionsPosted,
		m.ExplosionsCancelled,
		m.BlocksAffected,
		m.ListenerPanics,
		m.JournalFailures,
		m.RequestsRejected,
		m.RelayClients,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Attach counts explosion outcomes once every other listener ran and wires
// the bus panic hook.
func (m *Metrics) Attach(bus *event.Bus) event.Registration {
	bus.OnPanic(func(string, event.Event, any) { m.ListenerPanics.Inc() })
	return event.Subscribe(bus, func(e event.WorldOnExplosionEvent) {
		w := e.World().Name()
		m.ExplosionsPosted.WithLabelValues(w).Inc()
		if e.IsCancelled() {
			m.ExplosionsCancelled.WithLabelValues(w).Inc()
			return
		}
		m.BlocksAffected.WithLabelValues(w).Observe(float64(len(e.Locations())))
	}, event.WithOrder(event.OrderPost), event.IncludeCancelled(), event.Named("metrics"))
}

// CounterFunc registers a counter read from fn at scrape time.
func (m *Metrics) CounterFunc(name, help string, fn func() float64) {
	m.registry.MustRegister(prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, fn))
}

// GaugeFunc registers a gauge read from fn at scrape time.
func (m *Metrics) GaugeFunc(name, help string, fn func() float64) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, fn))
}
