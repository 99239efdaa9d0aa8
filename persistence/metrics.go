// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package persistence

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	requests      *prometheus.CounterVec
	failures      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	savedBlocks   prometheus.Counter
	removedBlocks prometheus.Counter
	lastBlock     prometheus.Gauge
}

func newMetrics(registerer prometheus.Registerer) *metrics {
	return &metrics{
		requests: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "persistence",
			Name:      "requests_total",
			Help:      "Number of processed requests.",
		}, []string{"action"})),
		failures: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "persistence",
			Name:      "request_failures_total",
			Help:      "Number of failed requests.",
		}, []string{"action"})),
		duration: register(registerer, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "persistence",
			Name:      "request_duration_seconds",
			Help:      "Time spent processing requests.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"action"})),
		savedBlocks: register(registerer, prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "persistence",
			Name:      "saved_blocks_total",
			Help:      "Number of blocks committed to the database.",
		})),
		removedBlocks: register(registerer, prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "persistence",
			Name:      "removed_blocks_total",
			Help:      "Number of blocks removed from the database.",
		})),
		lastBlock: register(registerer, prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "persistence",
			Name:      "last_block",
			Help:      "Number of the highest committed block.",
		})),
	}
}

// register adds the collector to the registerer, if there is one. Actors
// sharing a registerer share the collectors registered first.
func register[T prometheus.Collector](registerer prometheus.Registerer, collector T) T {
	if registerer == nil {
		return collector
	}
	if err := registerer.Register(collector); err != nil {
		var registered prometheus.AlreadyRegisteredError
		if errors.As(err, &registered) {
			if existing, ok := registered.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(err)
	}
	return collector
}
