package model

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered, OrderStatusCancelled},
}

// CanTransitionTo reports whether the order lifecycle allows s -> next
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CountsTowardRevenue is true for orders that are paid and not cancelled
func (s OrderStatus) CountsTowardRevenue() bool {
	switch s {
	case OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered:
		return true
	}
	return false
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// RevenueStatuses lists the statuses whose totals count as revenue
var RevenueStatuses = []OrderStatus{OrderStatusDelivered, OrderStatusProcessing, OrderStatusShipped}

type Order struct {
	ID              uint        `gorm:"primarykey" json:"id"`
	OrderNumber     string      `gorm:"uniqueIndex;not null" json:"order_number"`
	UserID          uint        `gorm:"not null;index" json:"user_id"`
	AddressID       uint        `gorm:"not null;index" json:"address_id"`
	ShippingAddress string      `gorm:"type:text" json:"shipping_address"` // snapshot at placement
	Status          OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Subtotal        float64     `gorm:"not null" json:"subtotal"`
	Discount        float64     `gorm:"not null;default:0" json:"discount"`
	ShippingCost    float64     `gorm:"not null;default:0" json:"shipping_cost"`
	Tax             float64     `gorm:"not null;default:0" json:"tax"`
	Total           float64     `gorm:"not null" json:"total"`
	CouponID        *uint       `gorm:"index" json:"coupon_id,omitempty"`
	CouponCode      string      `json:"coupon_code,omitempty"`
	CancelledAt     *time.Time  `json:"cancelled_at,omitempty"`
	DeliveredAt     *time.Time  `json:"delivered_at,omitempty"`
	CreatedAt       time.Time   `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`

	User  *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	OrderID     uint      `gorm:"not null;index" json:"order_id"`
	ProductID   uint      `gorm:"not null;index" json:"product_id"`
	VariantID   uint      `gorm:"not null;index" json:"variant_id"`
	ProductName string    `gorm:"not null" json:"product_name"`
	SKU         string    `gorm:"not null" json:"sku"`
	Size        string    `json:"size"`
	Color       string    `json:"color"`
	UnitPrice   float64   `gorm:"not null" json:"unit_price"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	Subtotal    float64   `gorm:"not null" json:"subtotal"`
	CreatedAt   time.Time `json:"created_at"`

	Order *Order `gorm:"foreignKey:OrderID" json:"-"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
