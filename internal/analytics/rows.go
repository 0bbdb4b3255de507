// Package analytics holds the pure aggregation folds behind the admin
// dashboard. Nothing here touches the database; callers fetch rows first.
package analytics

import (
	"time"

	"github.com/mithunreddyy/valuva-sub002/internal/app/model"
)

// Range is a closed reporting window [Start, End]
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Previous is the window of equal length just before r. It ends one tick
// before r.Start so a row stamped at r.Start belongs to r only.
func (r Range) Previous() Range {
	return Range{Start: r.Start.Add(-r.End.Sub(r.Start)), End: r.Start.Add(-time.Nanosecond)}
}

func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// OrderRow is the slice of an order the folds need, joined with its customer
type OrderRow struct {
	ID            uint
	UserID        uint
	CustomerName  string
	CustomerEmail string
	Status        model.OrderStatus
	Total         float64
	CreatedAt     time.Time
}

// ItemRow is an order line joined with its parent order and product category
type ItemRow struct {
	OrderID      uint
	ProductID    uint
	ProductName  string
	CategoryID   uint
	CategoryName string
	Quantity     int
	Subtotal     float64
	Status       model.OrderStatus
	OrderedAt    time.Time
}

type CustomerRow struct {
	ID        uint
	Name      string
	Email     string
	CreatedAt time.Time
}

type VariantRow struct {
	ProductID uint
	Stock     int
	IsActive  bool
}
