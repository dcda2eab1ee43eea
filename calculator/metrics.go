// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package calculator

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	executed *prometheus.CounterVec
	failed   *prometheus.CounterVec
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		executed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "calculator",
			Name:      "instructions_executed",
			Help:      "number of instructions applied successfully",
		}, []string{"operation"}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "calculator",
			Name:      "instructions_failed",
			Help:      "number of instructions rejected",
		}, []string{"code"}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.executed),
		r.Register(m.failed),
	)
	return m, errs.Err
}
