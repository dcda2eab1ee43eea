// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	getLatency metric.Averager

	reads   prometheus.Counter
	writes  prometheus.Counter
	deletes prometheus.Counter
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	getLatency, err := metric.NewAverager(
		"",
		"pebble_read_latency",
		"time spent waiting for db get",
		r,
	)
	if err != nil {
		return nil, err
	}
	m := &metrics{
		getLatency: getLatency,
		reads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pebble",
			Name:      "reads",
			Help:      "number of successful reads",
		}),
		writes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pebble",
			Name:      "writes",
			Help:      "number of writes",
		}),
		deletes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pebble",
			Name:      "deletes",
			Help:      "number of deletes",
		}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.reads),
		r.Register(m.writes),
		r.Register(m.deletes),
	)
	return m, errs.Err
}
