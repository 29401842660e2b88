// Copyright (C) 2024-2026, The ledgerquorum Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package metrics registers the orchestrator's Stats counters with
// Prometheus, grounded on the teacher's metrics package: plain
// prometheus.Counter/Gauge wrappers registered against a caller-supplied
// prometheus.Registerer, with registration errors returned rather than
// panicking.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ledgerquorum/scp-core/scp"
)

// Metrics mirrors scp.Stats as Prometheus gauges, one per Stats counter.
type Metrics struct {
	malformed prometheus.Gauge
	stale     prometheus.Gauge
	parked    prometheus.Gauge
	accepted  prometheus.Gauge
}

// New registers the consensus core's metrics against reg. namespace is
// prefixed to every series name (e.g. "scp").
func New(namespace string, reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		malformed: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "statements_malformed", Help: "Statements rejected for a bad signature or malformed encoding."}),
		stale:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "statements_stale", Help: "Statements ignored as older than the local slot window."}),
		parked:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "statements_parked", Help: "Statements queued awaiting a missing prerequisite."}),
		accepted:  prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "statements_accepted", Help: "Statements handed to their slot's state machine."}),
	}
	for _, c := range []prometheus.Collector{m.malformed, m.stale, m.parked, m.accepted} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Report copies the orchestrator's current Stats counters into the
// registered gauges. Callers sample this periodically (cmd/scpnode calls
// it on every tick of its close-interval ticker) rather than updating on
// every statement, keeping the hot path free of Prometheus calls.
func (m *Metrics) Report(stats scp.Stats) {
	m.malformed.Set(float64(stats.Malformed))
	m.stale.Set(float64(stats.Stale))
	m.parked.Set(float64(stats.Parked))
	m.accepted.Set(float64(stats.Accepted))
}
