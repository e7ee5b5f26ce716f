// internal/domain/order/entity.go
package order

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the order status
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Payment provider labels the storefront offers. Checkout stores any label as given.
const (
	PaymentVisa       = "visa"
	PaymentMastercard = "mastercard"
	PaymentPrivat24   = "privat24"
)

var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
}

// Valid reports whether s is a known status
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no transition leaves s
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo reports whether an order in s may move to next
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order is the snapshot of a completed checkout. Only Status changes after creation.
type Order struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	UserID          uint            `gorm:"not null;index" json:"user_id"`
	Shipping        ShippingInfo    `gorm:"embedded" json:"shipping"`
	TotalPrice      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"`
	Status          OrderStatus     `gorm:"not null;size:20;default:'pending';index" json:"status"`
	PaymentProvider string          `gorm:"not null;size:30" json:"payment_provider"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	// Relationships
	Lines         []Line          `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
	StatusHistory []StatusHistory `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"status_history,omitempty"`
}

// ShippingInfo is the buyer contact and delivery address (embedded in Order)
type ShippingInfo struct {
	FirstName           string `gorm:"not null;size:50" json:"first_name" validate:"notblank,max=50"`
	LastName            string `gorm:"not null;size:50" json:"last_name" validate:"notblank,max=50"`
	Email               string `gorm:"not null;size:254" json:"email" validate:"omitempty,email,max=254"`
	Company             string `gorm:"size:100" json:"company" validate:"max=100"`
	Address1            string `gorm:"size:255" json:"address1" validate:"max=255"`
	Address2            string `gorm:"size:255" json:"address2" validate:"max=255"`
	City                string `gorm:"size:100" json:"city" validate:"max=100"`
	Country             string `gorm:"size:100" json:"country" validate:"max=100"`
	State               string `gorm:"size:100" json:"state" validate:"max=100"`
	PostalCode          string `gorm:"size:20" json:"postal_code" validate:"max=20"`
	PhoneNumber         string `gorm:"size:20" json:"phone_number" validate:"max=20"`
	SpecialInstructions string `gorm:"type:text" json:"special_instructions"`
}

// Line is one ordered product with its price frozen at checkout
type Line struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	OrderID       uint            `gorm:"not null;index" json:"order_id"`
	ProductID     uint            `gorm:"not null;index" json:"product_id"`
	SizeVariantID *uint           `gorm:"index" json:"size_id,omitempty"`
	ProductName   string          `gorm:"size:100" json:"product_name"`
	SizeName      string          `gorm:"size:20" json:"size_name,omitempty"`
	Quantity      int             `gorm:"not null" json:"quantity"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
}

// StatusHistory tracks order status changes
type StatusHistory struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	OrderID   uint        `gorm:"not null;index" json:"order_id"`
	Status    OrderStatus `gorm:"not null;size:20" json:"status"`
	Comment   string      `gorm:"type:text" json:"comment"`
	CreatedBy *uint       `gorm:"index" json:"created_by,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// TableName overrides
func (Order) TableName() string         { return "orders" }
func (Line) TableName() string          { return "order_items" }
func (StatusHistory) TableName() string { return "order_status_history" }

// Business methods for Order

// Number is the human-facing order reference
func (o *Order) Number() string {
	return fmt.Sprintf("ORD-%s-%05d", o.CreatedAt.Format("20060102"), o.ID)
}

// CanBeCancelled checks if order can be cancelled
func (o *Order) CanBeCancelled() bool {
	return o.Status.CanTransitionTo(OrderStatusCancelled)
}

// LinesTotal sums price*quantity over the order lines
func (o *Order) LinesTotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range o.Lines {
		total = total.Add(line.Total())
	}
	return total
}

// TotalQuantity sums quantities over the order lines
func (o *Order) TotalQuantity() int {
	n := 0
	for _, line := range o.Lines {
		n += line.Quantity
	}
	return n
}

// Total is the frozen line amount
func (l Line) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
