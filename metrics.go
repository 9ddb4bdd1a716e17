// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kurento

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Request outcomes recorded by Metrics.
const (
	OutcomeOK              = "ok"
	OutcomeRemoteError     = "remote_error"
	OutcomeConnectionError = "connection_error"
	OutcomeAbandoned       = "abandoned"
)

// Metrics collects client-side counters. A nil *Metrics records nothing.
type Metrics struct {
	requests      *prometheus.CounterVec
	inFlight      prometheus.Gauge
	droppedFrames prometheus.Counter
	events        *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with registerer, if not nil.
func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kurento",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Requests sent to the media server, by method and outcome.",
		}, []string{"method", "outcome"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "kurento",
			Subsystem: "client",
			Name:      "requests_in_flight",
			Help:      "Requests awaiting a response.",
		}),
		droppedFrames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kurento",
			Subsystem: "client",
			Name:      "dropped_frames_total",
			Help:      "Inbound frames that were malformed or had no recipient.",
		}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kurento",
			Subsystem: "client",
			Name:      "events_total",
			Help:      "Event notifications received, by event type.",
		}, []string{"type"}),
	}

	if registerer == nil {
		return m, nil
	}

	for _, collector := range []prometheus.Collector{m.requests, m.inFlight, m.droppedFrames, m.events} {
		if err := registerer.Register(collector); err != nil {
			return nil, errors.Wrap(err, "Failed to register collector")
		}
	}
	return m, nil
}

func (m *Metrics) requestStarted() {
	if m == nil {
		return
	}
	m.inFlight.Inc()
}

func (m *Metrics) requestFinished(method, outcome string) {
	if m == nil {
		return
	}
	m.inFlight.Dec()
	m.requests.WithLabelValues(method, outcome).Inc()
}

func (m *Metrics) frameDropped() {
	if m == nil {
		return
	}
	m.droppedFrames.Inc()
}

func (m *Metrics) eventReceived(eventType string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(eventType).Inc()
}
