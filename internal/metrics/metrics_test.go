package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/halverson/walletsync/internal/metrics"
)

var errTest = errors.New("test error")

func TestRecordProviderCall(t *testing.T) {
	t.Parallel()
	m := &metrics.Metrics{}

	m.RecordProviderCall(nil)
	m.RecordProviderCall(errTest)

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.ProviderCallsTotal)
	assert.Equal(t, int64(1), snap.ProviderErrorsTotal)
}

func TestRecordRPCCall(t *testing.T) {
	t.Parallel()
	m := &metrics.Metrics{}

	m.RecordRPCCall(10*time.Millisecond, nil)
	m.RecordRPCCall(30*time.Millisecond, errTest)

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.RPCCallsTotal)
	assert.Equal(t, int64(1), snap.RPCErrorsTotal)
	assert.InDelta(t, 20.0, m.RPCLatencyAvgMs(), 0.01)
}

func TestRPCLatencyAvgNoCalls(t *testing.T) {
	t.Parallel()
	m := &metrics.Metrics{}
	assert.Zero(t, m.RPCLatencyAvgMs())
}

func TestRecordConnectLifecycle(t *testing.T) {
	t.Parallel()
	m := &metrics.Metrics{}

	m.RecordConnect(nil)
	m.RecordConnect(errTest)
	m.RecordDisconnect()
	m.RecordResume()

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.ConnectAttempts)
	assert.Equal(t, int64(1), snap.ConnectFailures)
	assert.Equal(t, int64(1), snap.Disconnects)
	assert.Equal(t, int64(1), snap.Resumes)
}

func TestRecordEvent(t *testing.T) {
	t.Parallel()
	m := &metrics.Metrics{}

	m.RecordEvent("accountsChanged")
	m.RecordEvent("accountsChanged")
	m.RecordEvent("chainChanged")
	m.RecordEvent("disconnect")
	m.RecordEvent("unknown") // ignored

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.AccountEvents)
	assert.Equal(t, int64(1), snap.ChainEvents)
	assert.Equal(t, int64(1), snap.DisconnectEvents)
}

func TestRecordStaleDiscard(t *testing.T) {
	t.Parallel()
	m := &metrics.Metrics{}

	m.RecordStaleDiscard()
	assert.Equal(t, int64(1), m.StaleDiscards())
}

func TestReset(t *testing.T) {
	t.Parallel()
	m := &metrics.Metrics{}

	m.RecordProviderCall(errTest)
	m.RecordRPCCall(time.Millisecond, errTest)
	m.RecordConnect(errTest)
	m.RecordEvent("disconnect")
	m.RecordStaleDiscard()

	m.Reset()
	assert.Equal(t, metrics.Snapshot{}, m.Snapshot())
}
