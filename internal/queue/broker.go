package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mealprep/internal/models"
)

type Broker interface {
	Publish(ctx context.Context, queueName string, message []byte) error
	Close() error
}

const (
	QueuePlanUpdates = "plan-updates"
)

// PlanEvent is published whenever a plan is recomputed after a change
type PlanEvent struct {
	Date       string           `json:"date"`
	ComputedAt time.Time        `json:"computed_at"`
	Plan       models.DailyPlan `json:"plan"`
}

// PlanPublisher forwards recomputed plans to the plan-updates queue
type PlanPublisher struct {
	broker Broker
	now    func() time.Time
}

func NewPlanPublisher(broker Broker) *PlanPublisher {
	return &PlanPublisher{broker: broker, now: time.Now}
}

func (p *PlanPublisher) Notify(ctx context.Context, plan models.DailyPlan) error {
	message, err := json.Marshal(PlanEvent{
		Date:       plan.Date,
		ComputedAt: p.now().UTC(),
		Plan:       plan,
	})
	if err != nil {
		return fmt.Errorf("failed to encode plan event: %w", err)
	}
	return p.broker.Publish(ctx, QueuePlanUpdates, message)
}
