// Package metrics exposes Prometheus counters for the application core.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the counters incremented by the service façade.
type Metrics struct {
	Actions *prometheus.CounterVec
	Exports *prometheus.CounterVec

	handler http.Handler
}

// New registers the application counters on a fresh registry. A dedicated
// registry keeps tests isolated from each other.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Actions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "listabot_actions_total",
			Help: "Number of façade actions processed, by action name.",
		}, []string{"action"}),
		Exports: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "listabot_exports_total",
			Help: "Number of export runs, by format and outcome.",
		}, []string{"format", "outcome"}),
		handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	}
}

// Handler serves the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return m.handler
}
