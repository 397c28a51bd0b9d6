package grove

import "github.com/prometheus/client_golang/prometheus"

// Resolution results recorded by grove_resolutions_total.
const (
	resultOK          = "ok"
	resultNotFound    = "not_found"
	resultAmbiguous   = "ambiguous"
	resultInvalidCast = "invalid_cast"
	resultError       = "error"
)

// lifetimeNone labels resolutions that failed before a binding was selected.
const lifetimeNone = "none"

type metrics struct {
	registrations *prometheus.CounterVec
	resolutions   *prometheus.CounterVec
	constructions *prometheus.CounterVec
	bindings      prometheus.Gauge
}

func newMetrics() *metrics {
	return &metrics{
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grove_registrations_total",
			Help: "Number of bindings successfully registered, by lifetime.",
		}, []string{"lifetime"}),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grove_resolutions_total",
			Help: "Number of resolve calls, by lifetime and result.",
		}, []string{"lifetime", "result"}),
		constructions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grove_constructions_total",
			Help: "Number of instances produced by binding factories, by lifetime.",
		}, []string{"lifetime"}),
		bindings: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "grove_bindings",
			Help: "Number of bindings currently held by the container.",
		}),
	}
}

func (m *metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.registrations, m.resolutions, m.constructions, m.bindings}
}

func (m *metrics) resolved(lifetime, result string) {
	m.resolutions.WithLabelValues(lifetime, result).Inc()
}
