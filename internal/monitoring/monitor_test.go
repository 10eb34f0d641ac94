package monitoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitor_GetMetrics(t *testing.T) {
	m := NewMonitor()
	m.RecordMetric("test_metric", 42)

	metrics := m.GetMetrics()

	assert.Equal(t, 42, metrics["test_metric"])
	assert.Contains(t, metrics, "uptime_seconds")

	value, ok := m.GetMetric("test_metric")
	require.True(t, ok)
	assert.Equal(t, 42, value)
}

func TestMonitor_IncrementMetric(t *testing.T) {
	m := NewMonitor()

	m.IncrementMetric("orders_submitted", 1)
	m.IncrementMetric("orders_submitted", 2)

	value, ok := m.GetMetric("orders_submitted")
	require.True(t, ok)
	assert.Equal(t, 3, value)
}

func TestMonitor_RecordPlanResult(t *testing.T) {
	m := NewMonitor()

	m.RecordPlanResult("2026-10-19", map[string]interface{}{
		"order_count": 12,
		"grand_total": 40,
	})

	metrics := m.GetMetrics()

	assert.Equal(t, 12, metrics["plan_2026-10-19_order_count"])
	assert.Equal(t, 40, metrics["plan_2026-10-19_grand_total"])
	assert.Contains(t, metrics, "plan_2026-10-19_last_computed")
	assert.Equal(t, "2026-10-19", metrics["last_plan_date"])
}

func TestMonitor_Reset(t *testing.T) {
	m := NewMonitor()
	m.RecordMetric("test_metric", 42)

	m.Reset()

	metrics := m.GetMetrics()

	assert.NotContains(t, metrics, "test_metric")
	assert.Contains(t, metrics, "uptime_seconds")
}
