// Package metrics provides application-level metrics collection.
// This is a lightweight metrics foundation using atomic counters.
// For production observability, consider integrating with Prometheus or similar.
package metrics

import (
	"sync/atomic"
	"time"
)

// Metrics holds application metrics using atomic counters for thread safety.
type Metrics struct {
	// Provider request metrics
	providerCallsTotal  atomic.Int64
	providerErrorsTotal atomic.Int64

	// Chain RPC metrics
	rpcCallsTotal   atomic.Int64
	rpcErrorsTotal  atomic.Int64
	rpcLatencyNanos atomic.Int64

	// Connection lifecycle metrics
	connectAttempts atomic.Int64
	connectFailures atomic.Int64
	disconnects     atomic.Int64
	resumes         atomic.Int64

	// Event bridge metrics
	accountEvents    atomic.Int64
	chainEvents      atomic.Int64
	disconnectEvents atomic.Int64
	staleDiscards    atomic.Int64
}

// Global is the global metrics instance.
// Use this for recording metrics throughout the application.
//
//nolint:gochecknoglobals // Intentional global for metrics access
var Global = &Metrics{}

// RecordProviderCall records a provider request with its success status.
func (m *Metrics) RecordProviderCall(err error) {
	m.providerCallsTotal.Add(1)
	if err != nil {
		m.providerErrorsTotal.Add(1)
	}
}

// RecordRPCCall records a chain RPC call with its duration and success status.
func (m *Metrics) RecordRPCCall(duration time.Duration, err error) {
	m.rpcCallsTotal.Add(1)
	m.rpcLatencyNanos.Add(duration.Nanoseconds())

	if err != nil {
		m.rpcErrorsTotal.Add(1)
	}
}

// RecordConnect records a connection attempt.
func (m *Metrics) RecordConnect(err error) {
	m.connectAttempts.Add(1)
	if err != nil {
		m.connectFailures.Add(1)
	}
}

// RecordDisconnect records a disconnect.
func (m *Metrics) RecordDisconnect() {
	m.disconnects.Add(1)
}

// RecordResume records a silent reconnection attempt.
func (m *Metrics) RecordResume() {
	m.resumes.Add(1)
}

// RecordEvent records a provider-pushed event by kind.
func (m *Metrics) RecordEvent(kind string) {
	switch kind {
	case "accountsChanged":
		m.accountEvents.Add(1)
	case "chainChanged":
		m.chainEvents.Add(1)
	case "disconnect":
		m.disconnectEvents.Add(1)
	}
}

// RecordStaleDiscard records an async result dropped by the sequencing guard.
func (m *Metrics) RecordStaleDiscard() {
	m.staleDiscards.Add(1)
}

// Snapshot is a point-in-time copy of all metrics.
type Snapshot struct {
	ProviderCallsTotal  int64
	ProviderErrorsTotal int64
	RPCCallsTotal       int64
	RPCErrorsTotal      int64
	RPCLatencyNanos     int64
	ConnectAttempts     int64
	ConnectFailures     int64
	Disconnects         int64
	Resumes             int64
	AccountEvents       int64
	ChainEvents         int64
	DisconnectEvents    int64
	StaleDiscards       int64
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		ProviderCallsTotal:  m.providerCallsTotal.Load(),
		ProviderErrorsTotal: m.providerErrorsTotal.Load(),
		RPCCallsTotal:       m.rpcCallsTotal.Load(),
		RPCErrorsTotal:      m.rpcErrorsTotal.Load(),
		RPCLatencyNanos:     m.rpcLatencyNanos.Load(),
		ConnectAttempts:     m.connectAttempts.Load(),
		ConnectFailures:     m.connectFailures.Load(),
		Disconnects:         m.disconnects.Load(),
		Resumes:             m.resumes.Load(),
		AccountEvents:       m.accountEvents.Load(),
		ChainEvents:         m.chainEvents.Load(),
		DisconnectEvents:    m.disconnectEvents.Load(),
		StaleDiscards:       m.staleDiscards.Load(),
	}
}

// RPCLatencyAvgMs returns the average RPC latency in milliseconds.
// Returns 0 if no calls have been made.
func (m *Metrics) RPCLatencyAvgMs() float64 {
	calls := m.rpcCallsTotal.Load()
	if calls == 0 {
		return 0
	}
	nanos := m.rpcLatencyNanos.Load()
	return float64(nanos) / float64(calls) / 1e6
}

// StaleDiscards returns the number of results dropped by the sequencing guard.
func (m *Metrics) StaleDiscards() int64 {
	return m.staleDiscards.Load()
}

// Reset resets all metrics to zero.
// Useful for testing.
func (m *Metrics) Reset() {
	m.providerCallsTotal.Store(0)
	m.providerErrorsTotal.Store(0)
	m.rpcCallsTotal.Store(0)
	m.rpcErrorsTotal.Store(0)
	m.rpcLatencyNanos.Store(0)
	m.connectAttempts.Store(0)
	m.connectFailures.Store(0)
	m.disconnects.Store(0)
	m.resumes.Store(0)
	m.accountEvents.Store(0)
	m.chainEvents.Store(0)
	m.disconnectEvents.Store(0)
	m.staleDiscards.Store(0)
}
