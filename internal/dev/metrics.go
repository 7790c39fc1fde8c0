package dev

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds the dev server's Prometheus metrics. A nil Collector
// is valid and records nothing.
type Collector struct {
	resolutions   *prometheus.CounterVec
	rebuilds      *prometheus.CounterVec
	reloadClients prometheus.Gauge
}

// NewCollector registers the dev server metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vitedge",
			Name:      "resolutions_total",
			Help:      "Route resolutions by group and outcome.",
		}, []string{"group", "outcome"}),

		rebuilds: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vitedge",
			Name:      "route_rebuilds_total",
			Help:      "Route table rebuilds by group and result.",
		}, []string{"group", "result"}),

		reloadClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "vitedge",
			Name:      "reload_clients",
			Help:      "Connected live-reload clients.",
		}),
	}
}

// RecordResolution counts one route resolution outcome.
func (c *Collector) RecordResolution(group, outcome string) {
	if c == nil {
		return
	}
	c.resolutions.WithLabelValues(group, outcome).Inc()
}

// RecordRebuild counts one route table rebuild.
func (c *Collector) RecordRebuild(group string, err error) {
	if c == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.rebuilds.WithLabelValues(group, result).Inc()
}

// SetReloadClients updates the connected client gauge.
func (c *Collector) SetReloadClients(n int) {
	if c == nil {
		return
	}
	c.reloadClients.Set(float64(n))
}
