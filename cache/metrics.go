// Copyright 2026 Rayrnond
// Licensed under the Apache-2.0 licence, see LICENCE file for details.

package cache

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "jda_cache"

// ControllerGauges holds the prometheus gauges for the cache.
type ControllerGauges struct {
	Guilds           prometheus.Gauge
	Emotes           prometheus.Gauge
	ChangesProcessed prometheus.Counter
	Evictions        prometheus.Counter
}

func createControllerGauges() *ControllerGauges {
	return &ControllerGauges{
		Guilds: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "guilds",
				Help:      "The number of guilds in the cache.",
			},
		),
		Emotes: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "emotes",
				Help:      "The number of emotes in the cache.",
			},
		),
		ChangesProcessed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "changes_processed_total",
				Help:      "The number of change events applied to the cache.",
			},
		),
		Evictions: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "evictions_total",
				Help:      "The number of guilds evicted from the cache.",
			},
		),
	}
}

// Describe is part of the prometheus.Collector interface.
func (g *ControllerGauges) Describe(ch chan<- *prometheus.Desc) {
	g.Guilds.Describe(ch)
	g.Emotes.Describe(ch)
	g.ChangesProcessed.Describe(ch)
	g.Evictions.Describe(ch)
}

// Collect is part of the prometheus.Collector interface.
func (g *ControllerGauges) Collect(ch chan<- prometheus.Metric) {
	g.Guilds.Collect(ch)
	g.Emotes.Collect(ch)
	g.ChangesProcessed.Collect(ch)
	g.Evictions.Collect(ch)
}
