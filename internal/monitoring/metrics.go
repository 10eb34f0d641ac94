package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mealprep/internal/models"
)

// MetricsCollector exposes planner activity to prometheus through its own registry
type MetricsCollector struct {
	registry *prometheus.Registry

	plansComputed    prometheus.Counter
	ordersNormalized prometheus.Counter
	degradedFields   *prometheus.CounterVec
	planDuration     prometheus.Histogram
	poolTotal        *prometheus.GaugeVec
	workerDishes     *prometheus.GaugeVec
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector() *MetricsCollector {
	registry := prometheus.NewRegistry()

	c := &MetricsCollector{
		registry: registry,
		plansComputed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mealprep",
			Name:      "plans_computed_total",
			Help:      "Number of daily plans computed",
		}),
		ordersNormalized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mealprep",
			Name:      "orders_normalized_total",
			Help:      "Number of raw orders normalized while computing plans",
		}),
		degradedFields: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mealprep",
				Name:      "degraded_fields_total",
				Help:      "Order fields that fell back to a default value",
			},
			[]string{"reason"},
		),
		planDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "mealprep",
			Name:      "plan_duration_seconds",
			Help:      "Time taken to load orders and compute a plan",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
		poolTotal: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "mealprep",
				Name:      "pool_dishes",
				Help:      "Dishes allocated to a pool in the last computed plan",
			},
			[]string{"pool"},
		),
		workerDishes: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "mealprep",
				Name:      "worker_dishes",
				Help:      "Dishes allocated to a worker in the last computed plan",
			},
			[]string{"pool", "worker"},
		),
	}

	registry.MustRegister(
		c.plansComputed,
		c.ordersNormalized,
		c.degradedFields,
		c.planDuration,
		c.poolTotal,
		c.workerDishes,
	)

	return c
}

// Registry returns the registry the collectors are registered with
func (c *MetricsCollector) Registry() *prometheus.Registry {
	return c.registry
}

// ObservePlan records a freshly computed plan
func (c *MetricsCollector) ObservePlan(plan models.DailyPlan, elapsed time.Duration) {
	c.plansComputed.Inc()
	c.ordersNormalized.Add(float64(plan.OrderCount))
	c.planDuration.Observe(elapsed.Seconds())

	for _, issue := range plan.Issues {
		c.degradedFields.WithLabelValues(issue.Reason).Inc()
	}

	c.observePool(models.PoolKitchen, plan.Workload.Kitchen)
	c.observePool(models.PoolPackaging, plan.Workload.Packaging)
}

func (c *MetricsCollector) observePool(pool models.Pool, results []models.AllocationResult) {
	c.workerDishes.DeletePartialMatch(prometheus.Labels{"pool": string(pool)})

	total := 0
	for _, r := range results {
		total += r.Total
		c.workerDishes.WithLabelValues(string(pool), r.Worker).Set(float64(r.Total))
	}
	c.poolTotal.WithLabelValues(string(pool)).Set(float64(total))
}
