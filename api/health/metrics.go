// Copyright (C) 2024-2026, Tommytrg. All rights reserved.
// See the file LICENSE for licensing terms.

package health

import "github.com/prometheus/client_golang/prometheus"

type metrics struct {
	failingChecks prometheus.Gauge
}

func newMetrics(registerer prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		failingChecks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "health",
			Name:      "checks_failing",
			Help:      "Number of health checks currently failing",
		}),
	}
	return m, registerer.Register(m.failingChecks)
}
