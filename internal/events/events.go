// Package events publishes domain events after their transaction commits.
// Publishing is best-effort: failures are logged by the caller and never
// roll back the write that produced the event.
package events

import (
	"context"
	"errors"
	"time"
)

type Type string

const (
	OrderPlaced        Type = "order.placed"
	OrderStatusChanged Type = "order.status_changed"
	ProductLowStock    Type = "product.low_stock"
)

type Event struct {
	Type           Type      `json:"type"`
	OrderID        uint      `json:"order_id,omitempty"`
	OrderNumber    string    `json:"order_number,omitempty"`
	UserID         uint      `json:"user_id,omitempty"`
	Status         string    `json:"status,omitempty"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	Total          float64   `json:"total,omitempty"`
	ProductID      uint      `json:"product_id,omitempty"`
	VariantID      uint      `json:"variant_id,omitempty"`
	Stock          *int      `json:"stock,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// Key is the partition key, so every event of one order lands in order
func (e Event) Key() string {
	if e.OrderNumber != "" {
		return e.OrderNumber
	}
	return string(e.Type)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Noop discards every event
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }

// Fanout delivers to every publisher and joins their errors
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
