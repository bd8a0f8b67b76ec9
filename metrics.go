package ecs

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metricsCollector adapts World.Stats() to prometheus.Collector, per
// SPEC_FULL.md §11: "a host that already runs a Prometheus registry can
// registry.MustRegister(world.Collector()) for zero extra glue." Grounded
// on the Collector pattern used throughout r3e-network-service_layer and
// DataDog-agent's pkg/telemetry, both of which require
// prometheus/client_golang directly.
type metricsCollector struct {
	world *World

	poolTotal   *prometheus.Desc
	poolFree    *prometheus.Desc
	poolUsed    *prometheus.Desc
	queryCount  *prometheus.Desc
	systemTime  *prometheus.Desc
	eventsFired *prometheus.Desc
	eventsDone  *prometheus.Desc
}

// Collector returns a prometheus.Collector backed by this World's Stats(),
// ready to be passed to a prometheus.Registry.
func (w *World) Collector() prometheus.Collector {
	return &metricsCollector{
		world: w,
		poolTotal: prometheus.NewDesc(
			"ecsy_component_pool_total", "Total component instances allocated for a type.",
			[]string{"component"}, nil,
		),
		poolFree: prometheus.NewDesc(
			"ecsy_component_pool_free", "Free (unattached) component instances for a type.",
			[]string{"component"}, nil,
		),
		poolUsed: prometheus.NewDesc(
			"ecsy_component_pool_used", "Component instances currently attached to an entity.",
			[]string{"component"}, nil,
		),
		queryCount: prometheus.NewDesc(
			"ecsy_query_entity_count", "Entities currently matching a query.",
			[]string{"query"}, nil,
		),
		systemTime: prometheus.NewDesc(
			"ecsy_system_execute_seconds", "Duration of the system's most recent Execute call.",
			[]string{"system"}, nil,
		),
		eventsFired: prometheus.NewDesc(
			"ecsy_events_fired_total", "Events fired on the world-level dispatcher.", nil, nil,
		),
		eventsDone: prometheus.NewDesc(
			"ecsy_events_handled_total", "Handler invocations completed on the world-level dispatcher.", nil, nil,
		),
	}
}

func (c *metricsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.poolTotal
	ch <- c.poolFree
	ch <- c.poolUsed
	ch <- c.queryCount
	ch <- c.systemTime
	ch <- c.eventsFired
	ch <- c.eventsDone
}

func (c *metricsCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.world.Stats()

	for _, comp := range stats.Components {
		ch <- prometheus.MustNewConstMetric(c.poolTotal, prometheus.GaugeValue, float64(comp.Total), comp.Name)
		ch <- prometheus.MustNewConstMetric(c.poolFree, prometheus.GaugeValue, float64(comp.Free), comp.Name)
		ch <- prometheus.MustNewConstMetric(c.poolUsed, prometheus.GaugeValue, float64(comp.Used), comp.Name)
	}

	for _, q := range stats.Queries {
		ch <- prometheus.MustNewConstMetric(c.queryCount, prometheus.GaugeValue, float64(q.EntityCount), q.Key)
	}

	for _, sys := range stats.Systems {
		ch <- prometheus.MustNewConstMetric(c.systemTime, prometheus.GaugeValue, sys.ExecuteTime.Seconds(), sys.Name)
	}

	ch <- prometheus.MustNewConstMetric(c.eventsFired, prometheus.CounterValue, float64(stats.Events.Fired))
	ch <- prometheus.MustNewConstMetric(c.eventsDone, prometheus.CounterValue, float64(stats.Events.Handled))
}
