package perf

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// RouterMetrics exports the routing database to Prometheus.
type RouterMetrics struct {
	Updates    *prometheus.CounterVec
	Events     *prometheus.CounterVec
	Entries    *prometheus.GaugeVec
	Capacity   *prometheus.GaugeVec
	LeaderCost prometheus.Gauge
}

func NewRouterMetrics(reg prometheus.Registerer) (*RouterMetrics, error) {
	if reg == nil {
		return nil, errors.New("metrics: Registerer cannot be nil")
	}
	m := &RouterMetrics{
		Updates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weft",
			Subsystem: "rdb",
			Name:      "route_updates_total",
			Help:      "Route advertisements processed, by outcome.",
		}, []string{"outcome"}),
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weft",
			Subsystem: "router",
			Name:      "events_total",
			Help:      "Router events, by event name.",
		}, []string{"event"}),
		Entries: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "weft",
			Subsystem: "rdb",
			Name:      "entries",
			Help:      "Entries held in each routing database pool.",
		}, []string{"pool"}),
		Capacity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "weft",
			Subsystem: "rdb",
			Name:      "capacity",
			Help:      "Capacity of each routing database pool.",
		}, []string{"pool"}),
		LeaderCost: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weft",
			Subsystem: "router",
			Name:      "leader_cost",
			Help:      "Path cost to the partition leader.",
		}),
	}
	for _, c := range []prometheus.Collector{m.Updates, m.Events, m.Entries, m.Capacity, m.LeaderCost} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
