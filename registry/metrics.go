// Copyright (C) 2024-2026, Tommytrg. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	numRandomized  prometheus.Counter
	numDuplicates  prometheus.Counter
	numFeeUpgrades prometheus.Counter
	numClones      prometheus.Counter
	latestPosition prometheus.Gauge
}

func newMetrics(namespace string, registerer prometheus.Registerer) (*metrics, error) {
	m := &metrics{}
	return m, m.initialize(namespace, registerer)
}

func (m *metrics) initialize(namespace string, registerer prometheus.Registerer) error {
	m.numRandomized = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "randomize_requests",
		Help:      "Number of randomize requests posted to the oracle",
	})
	m.numDuplicates = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "randomize_duplicates",
		Help:      "Number of randomize requests absorbed as no-ops because the position was already populated",
	})
	m.numFeeUpgrades = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fee_upgrades",
		Help:      "Number of fee top-ups paid to the oracle",
	})
	m.numClones = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "clones",
		Help:      "Number of instances spawned by the factory",
	})
	m.latestPosition = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "latest_position",
		Help:      "Highest ledger position holding a randomize request",
	})

	for _, collector := range []prometheus.Collector{
		m.numRandomized,
		m.numDuplicates,
		m.numFeeUpgrades,
		m.numClones,
		m.latestPosition,
	} {
		if err := registerer.Register(collector); err != nil {
			return err
		}
	}
	return nil
}
