package monitoring

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"mealprep/internal/models"
)

func samplePlan() models.DailyPlan {
	return models.DailyPlan{
		Date:       "2026-10-19",
		OrderCount: 3,
		Workload: models.Workload{
			GrandTotal: 10,
			Kitchen: []models.AllocationResult{
				{Worker: "María", Total: 7},
				{Worker: "Luis", Total: 3},
			},
			Packaging: []models.AllocationResult{
				{Worker: "Ana", Total: 10},
			},
		},
		Issues: []models.Issue{
			{Reason: "unparseable"},
			{Reason: "unparseable"},
			{Reason: "missing_menu_type"},
		},
	}
}

func TestObservePlan(t *testing.T) {
	c := NewMetricsCollector()

	c.ObservePlan(samplePlan(), 5*time.Millisecond)
	c.ObservePlan(samplePlan(), 5*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.plansComputed))
	assert.Equal(t, 6.0, testutil.ToFloat64(c.ordersNormalized))
	assert.Equal(t, 4.0, testutil.ToFloat64(c.degradedFields.WithLabelValues("unparseable")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.degradedFields.WithLabelValues("missing_menu_type")))
	assert.Equal(t, 10.0, testutil.ToFloat64(c.poolTotal.WithLabelValues("kitchen")))
	assert.Equal(t, 7.0, testutil.ToFloat64(c.workerDishes.WithLabelValues("kitchen", "María")))
}

func TestObservePlanDropsRemovedWorkers(t *testing.T) {
	c := NewMetricsCollector()
	c.ObservePlan(samplePlan(), time.Millisecond)

	next := samplePlan()
	next.Workload.Kitchen = []models.AllocationResult{{Worker: "Pedro", Total: 10}}
	c.ObservePlan(next, time.Millisecond)

	assert.Equal(t, 2, testutil.CollectAndCount(c.workerDishes))
}
