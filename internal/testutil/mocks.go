package testutil

import (
	"auroscope/internal/models"
	"auroscope/internal/providers"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu     sync.Mutex
	Logs   []LogEntry
	Closed bool
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (e LogEntry) Message() string {
	return fmt.Sprintf(e.Format, e.Args...)
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
}

// Contains reports whether a message of the given level contains substr.
func (m *MockLogger) Contains(level, substr string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Logs {
		if e.Level == level && strings.Contains(e.Message(), substr) {
			return true
		}
	}
	return false
}

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu                sync.Mutex
	Requests          map[string]int
	RemoteRequests    map[string]int
	Fallbacks         int
	ReportsOK         int
	ReportsFailed     int
	ReportRecords     map[string]int
	DuplicateCommands int
	CacheHits         int
	CacheMisses       int
	Persistence       int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Requests:       make(map[string]int),
		RemoteRequests: make(map[string]int),
		ReportRecords:  make(map[string]int),
	}
}

func (m *MockMetrics) IncRequestsTotal(endpoint string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests[fmt.Sprintf("%s:%d", endpoint, status)]++
}

func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}

func (m *MockMetrics) ObserveRemoteRequest(resource string, status int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RemoteRequests[fmt.Sprintf("%s:%d", resource, status)]++
}

func (m *MockMetrics) IncFetchFallbacks() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Fallbacks++
}

func (m *MockMetrics) IncReportsTotal(_ string, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ok {
		m.ReportsOK++
	} else {
		m.ReportsFailed++
	}
}

func (m *MockMetrics) ObserveReportDuration(_ string, _ time.Duration) {}

func (m *MockMetrics) SetReportRecords(period string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReportRecords[period] = count
}

func (m *MockMetrics) IncDuplicateCommands() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicateCommands++
}

func (m *MockMetrics) IncCacheHits(_ string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

func (m *MockMetrics) IncCacheMisses(_ string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}

func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Persistence++
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Acquire(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, busy := m.Data[key]; busy {
		return false
	}
	m.Data[key] = []byte{1}
	return true
}

func (m *MockCache) Release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
	Closed       bool
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// Default: return as-is (identity)
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() { m.Closed = true }

// MockBroadcaster implements schedule interfaces.BroadcasterInterface.
type MockBroadcaster struct {
	mu      sync.Mutex
	Err     error
	Periods []models.Period
}

func (m *MockBroadcaster) Broadcast(_ context.Context, period models.Period) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Periods = append(m.Periods, period)
	return m.Err
}

func (m *MockBroadcaster) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Periods)
}
