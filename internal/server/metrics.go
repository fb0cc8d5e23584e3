package server

import (
	"sync/atomic"
	"time"

	"github.com/Brownie44l1/http-fileserver/internal/response"
)

// Metrics holds server runtime counters. All fields are safe for
// concurrent use.
type Metrics struct {
	RequestsTotal     atomic.Int64
	ActiveConnections atomic.Int64
	Errors4xx         atomic.Int64
	Errors5xx         atomic.Int64

	TotalLatencyNs atomic.Int64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordRequest records a completed exchange
func (m *Metrics) RecordRequest(status response.StatusCode, duration time.Duration) {
	m.RequestsTotal.Add(1)
	m.TotalLatencyNs.Add(duration.Nanoseconds())

	switch {
	case status.IsClientError():
		m.Errors4xx.Add(1)
	case status.IsServerError():
		m.Errors5xx.Add(1)
	}
}

// AverageLatency returns average request latency
func (m *Metrics) AverageLatency() time.Duration {
	totalReqs := m.RequestsTotal.Load()
	if totalReqs == 0 {
		return 0
	}
	return time.Duration(m.TotalLatencyNs.Load() / totalReqs)
}

type MetricsSnapshot struct {
	RequestsTotal     int64
	ActiveConnections int64
	Errors4xx         int64
	Errors5xx         int64
	AverageLatency    time.Duration
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		RequestsTotal:     m.RequestsTotal.Load(),
		ActiveConnections: m.ActiveConnections.Load(),
		Errors4xx:         m.Errors4xx.Load(),
		Errors5xx:         m.Errors5xx.Load(),
		AverageLatency:    m.AverageLatency(),
	}
}
