package monitoring

import (
	"sync"
	"time"
)

// Monitor keeps an in-process snapshot of planner activity
type Monitor struct {
	metrics      map[string]interface{}
	metricsMutex sync.RWMutex
	startTime    time.Time
}

// NewMonitor creates a new monitoring instance
func NewMonitor() *Monitor {
	return &Monitor{
		metrics:   make(map[string]interface{}),
		startTime: time.Now(),
	}
}

// RecordMetric records a metric value
func (m *Monitor) RecordMetric(name string, value interface{}) {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	m.metrics[name] = value
}

// IncrementMetric adds delta to an integer metric, starting from zero
func (m *Monitor) IncrementMetric(name string, delta int) {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	current, _ := m.metrics[name].(int)
	m.metrics[name] = current + delta
}

// GetMetric returns a specific metric value
func (m *Monitor) GetMetric(name string) (interface{}, bool) {
	m.metricsMutex.RLock()
	defer m.metricsMutex.RUnlock()
	value, exists := m.metrics[name]
	return value, exists
}

// GetMetrics returns all current metrics
func (m *Monitor) GetMetrics() map[string]interface{} {
	m.metricsMutex.RLock()
	defer m.metricsMutex.RUnlock()

	metrics := make(map[string]interface{}, len(m.metrics)+1)
	for k, v := range m.metrics {
		metrics[k] = v
	}

	metrics["uptime_seconds"] = time.Since(m.startTime).Seconds()

	return metrics
}

// Reset clears all metrics
func (m *Monitor) Reset() {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	m.metrics = make(map[string]interface{})
}

// RecordPlanResult stores the figures of a computed plan under the
// "plan_<date>_" prefix
func (m *Monitor) RecordPlanResult(date string, metrics map[string]interface{}) {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()

	prefix := "plan_" + date + "_"

	for k, v := range metrics {
		m.metrics[prefix+k] = v
	}

	m.metrics[prefix+"last_computed"] = time.Now().Format(time.RFC3339)
	m.metrics["last_plan_date"] = date
}
