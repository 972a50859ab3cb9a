// Package events fans domain events out to the dispatcher feed and to
// external subscribers (Redis pub/sub, RabbitMQ).
package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	TypeServiceDelayed = "service.delayed"
)

// Event is the envelope every publisher sends
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

// ServiceDelayed is the payload of a service.delayed event
type ServiceDelayed struct {
	ServiceID           string    `json:"service_id"`
	CustomerID          string    `json:"customer_id"`
	CustomerName        string    `json:"customer_name"`
	ServiceType         string    `json:"service_type"`
	PreviousScheduledAt time.Time `json:"previous_scheduled_at"`
	NewScheduledAt      time.Time `json:"new_scheduled_at"`
	Reason              string    `json:"reason"`
	ActorID             string    `json:"actor_id"`
}

// New wraps data in an envelope with a fresh id
func New(eventType string, data any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// Multi publishes to every publisher and joins their errors
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, evt Event) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
