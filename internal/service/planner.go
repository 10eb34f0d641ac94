package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mealprep/internal/models"
	"mealprep/internal/monitoring"
	"mealprep/internal/planning"
)

var (
	ErrInvalidDate   = errors.New("delivery date must be YYYY-MM-DD")
	ErrInvalidOrder  = errors.New("invalid order")
	ErrInvalidPool   = errors.New("pool must be kitchen or packaging")
	ErrInvalidRoster = errors.New("invalid roster")
)

// OrderStore is the snapshot source for raw orders
type OrderStore interface {
	OrdersForDate(ctx context.Context, date string) ([]models.RawOrder, error)
	GetOrder(ctx context.Context, id string) (models.RawOrder, error)
	SaveOrder(ctx context.Context, order models.RawOrder) error
}

// RosterStore keeps the worker pools
type RosterStore interface {
	Roster(ctx context.Context) (models.Roster, error)
	ReplacePool(ctx context.Context, pool models.Pool, workers []models.Worker) error
}

// Notifier receives every plan recomputed after a change
type Notifier interface {
	Notify(ctx context.Context, plan models.DailyPlan) error
}

// Planner loads snapshots, runs the planning engine and pushes the results
type Planner struct {
	orders OrderStore
	roster RosterStore
	opts   planning.Options
	log    *zap.SugaredLogger

	metrics   *monitoring.MetricsCollector
	monitor   *monitoring.Monitor
	notifiers []Notifier
	watched   func() []string
}

type Option func(*Planner)

func WithMetrics(c *monitoring.MetricsCollector) Option {
	return func(p *Planner) { p.metrics = c }
}

func WithMonitor(m *monitoring.Monitor) Option {
	return func(p *Planner) { p.monitor = m }
}

func WithNotifier(n Notifier) Option {
	return func(p *Planner) { p.notifiers = append(p.notifiers, n) }
}

// WithWatchedDates sets where roster changes look up the dates to recompute
func WithWatchedDates(fn func() []string) Option {
	return func(p *Planner) { p.watched = fn }
}

func NewPlanner(orders OrderStore, roster RosterStore, opts planning.Options, log *zap.SugaredLogger, options ...Option) *Planner {
	p := &Planner{
		orders: orders,
		roster: roster,
		opts:   opts,
		log:    log,
	}
	for _, o := range options {
		o(p)
	}
	return p
}

// Plan computes the production plan for a delivery date
func (p *Planner) Plan(ctx context.Context, date string) (models.DailyPlan, error) {
	if err := validateDate(date); err != nil {
		return models.DailyPlan{}, err
	}
	start := time.Now()

	raw, err := p.orders.OrdersForDate(ctx, date)
	if err != nil {
		return models.DailyPlan{}, fmt.Errorf("failed to load orders for %s: %w", date, err)
	}
	roster, err := p.roster.Roster(ctx)
	if err != nil {
		return models.DailyPlan{}, fmt.Errorf("failed to load roster: %w", err)
	}

	plan := planning.BuildPlan(date, raw, roster, p.opts)

	for _, issue := range plan.Issues {
		p.log.Warnw("degraded order field",
			"date", date,
			"order_id", issue.OrderID,
			"client", issue.Client,
			"field", issue.Field,
			"raw", issue.Raw,
			"reason", issue.Reason,
		)
	}
	p.log.Infow("plan computed",
		"date", date,
		"orders", plan.OrderCount,
		"dishes", plan.Workload.GrandTotal,
		"issues", len(plan.Issues),
	)

	if p.metrics != nil {
		p.metrics.ObservePlan(plan, time.Since(start))
	}
	if p.monitor != nil {
		p.monitor.RecordPlanResult(date, map[string]interface{}{
			"order_count": plan.OrderCount,
			"grand_total": plan.Workload.GrandTotal,
			"issues":      len(plan.Issues),
		})
	}
	return plan, nil
}

// Orders lists the orders of a date sorted by client name
func (p *Planner) Orders(ctx context.Context, date string) ([]models.RawOrder, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	orders, err := p.orders.OrdersForDate(ctx, date)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return strings.ToLower(orders[i].Client) < strings.ToLower(orders[j].Client)
	})
	return orders, nil
}

// GetOrder returns a single order
func (p *Planner) GetOrder(ctx context.Context, id string) (models.RawOrder, error) {
	return p.orders.GetOrder(ctx, id)
}

// SubmitOrder stores an order and pushes the recomputed plan of its date
func (p *Planner) SubmitOrder(ctx context.Context, order models.RawOrder) (models.RawOrder, error) {
	order, err := p.save(ctx, order)
	if err != nil {
		return models.RawOrder{}, err
	}
	if p.monitor != nil {
		p.monitor.IncrementMetric("orders_submitted", 1)
	}
	p.refresh(ctx, order.DeliveryDate)
	return order, nil
}

// ImportOrders stores a batch of orders and refreshes every date it touches.
// The batch stops at the first invalid order.
func (p *Planner) ImportOrders(ctx context.Context, orders []models.RawOrder) (int, error) {
	dates := []string{}
	seen := make(map[string]struct{})

	saved := 0
	for i, o := range orders {
		stored, err := p.save(ctx, o)
		if err != nil {
			p.refresh(ctx, dates...)
			return saved, fmt.Errorf("order %d (%s): %w", i+1, o.Client, err)
		}
		saved++
		if _, ok := seen[stored.DeliveryDate]; !ok {
			seen[stored.DeliveryDate] = struct{}{}
			dates = append(dates, stored.DeliveryDate)
		}
	}

	if p.monitor != nil {
		p.monitor.IncrementMetric("orders_imported", saved)
	}
	p.refresh(ctx, dates...)
	return saved, nil
}

// Roster returns both worker pools
func (p *Planner) Roster(ctx context.Context) (models.Roster, error) {
	return p.roster.Roster(ctx)
}

// UpdatePool replaces a pool's workers. Percentages that do not add up to
// 100 are accepted; the returned warning says so.
func (p *Planner) UpdatePool(ctx context.Context, pool models.Pool, workers []models.Worker) (string, error) {
	if !pool.Valid() {
		return "", ErrInvalidPool
	}
	cleaned := make([]models.Worker, 0, len(workers))
	for _, w := range workers {
		w.Name = strings.TrimSpace(w.Name)
		if w.Name == "" {
			return "", fmt.Errorf("%w: worker name is required", ErrInvalidRoster)
		}
		if math.IsNaN(w.Percentage) || w.Percentage < 0 || w.Percentage > 100 {
			return "", fmt.Errorf("%w: %s percentage must be between 0 and 100", ErrInvalidRoster, w.Name)
		}
		cleaned = append(cleaned, w)
	}

	if err := p.roster.ReplacePool(ctx, pool, cleaned); err != nil {
		return "", fmt.Errorf("failed to store %s pool: %w", pool, err)
	}

	warning := ""
	if sum := models.PercentageSum(cleaned); len(cleaned) > 0 && math.Abs(sum-100) > 1e-9 {
		warning = fmt.Sprintf("%s percentages add up to %g, not 100; shares are normalized", pool, sum)
		p.log.Warnw("roster percentages do not add up to 100", "pool", pool, "sum", sum)
	}
	p.log.Infow("roster updated", "pool", pool, "workers", len(cleaned))

	if p.watched != nil {
		p.refresh(ctx, p.watched()...)
	}
	return warning, nil
}

func (p *Planner) save(ctx context.Context, order models.RawOrder) (models.RawOrder, error) {
	order.Client = strings.TrimSpace(order.Client)
	order.DeliveryDate = strings.TrimSpace(order.DeliveryDate)
	if order.Client == "" {
		return models.RawOrder{}, fmt.Errorf("%w: client is required", ErrInvalidOrder)
	}
	if err := validateDate(order.DeliveryDate); err != nil {
		return models.RawOrder{}, err
	}
	if order.ID == "" {
		order.ID = uuid.NewString()
	}

	if err := p.orders.SaveOrder(ctx, order); err != nil {
		return models.RawOrder{}, fmt.Errorf("failed to store order: %w", err)
	}
	p.log.Infow("order stored", "order_id", order.ID, "client", order.Client, "date", order.DeliveryDate)
	return order, nil
}

// refresh recomputes the given dates and hands the plans to the notifiers.
// Failures are logged; the triggering change is already stored.
func (p *Planner) refresh(ctx context.Context, dates ...string) {
	if len(p.notifiers) == 0 {
		return
	}
	for _, date := range dates {
		plan, err := p.Plan(ctx, date)
		if err != nil {
			p.log.Errorw("failed to recompute plan", "date", date, "error", err)
			continue
		}
		for _, n := range p.notifiers {
			if err := n.Notify(ctx, plan); err != nil {
				p.log.Errorw("failed to notify plan update", "date", date, "error", err)
			}
		}
	}
}

func validateDate(date string) error {
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return ErrInvalidDate
	}
	return nil
}
