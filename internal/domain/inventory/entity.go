// internal/domain/inventory/entity.go
package inventory

import (
	"time"
)

// MovementReason represents the reason for an inventory movement
type MovementReason string

const (
	ReasonSale           MovementReason = "sale"
	ReasonSellerEdit     MovementReason = "seller_edit"
	ReasonVariantCreated MovementReason = "variant_created"
	ReasonVariantDeleted MovementReason = "variant_deleted"
)

// StockMovement is an append-only record of one stock change
type StockMovement struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	ProductID        uint           `gorm:"not null;index" json:"product_id"`
	SizeVariantID    *uint          `gorm:"index" json:"size_variant_id,omitempty"`
	Reason           MovementReason `gorm:"not null;size:30" json:"reason"`
	Delta            int            `gorm:"not null" json:"delta"`
	PreviousQuantity int            `gorm:"not null" json:"previous_quantity"`
	NewQuantity      int            `gorm:"not null" json:"new_quantity"`
	ReferenceType    string         `gorm:"size:50" json:"reference_type,omitempty"` // "order"
	ReferenceID      *uint          `json:"reference_id,omitempty"`
	CreatedBy        *uint          `gorm:"index" json:"created_by,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}

// TableName overrides the table name
func (StockMovement) TableName() string {
	return "stock_movements"
}

// Availability answers how many units can be sold right now
type Availability struct {
	Quantity int  `json:"quantity"`
	Tracked  bool `json:"tracked"`
}

// Covers reports whether qty units can be fulfilled
func (a Availability) Covers(qty int) bool {
	return !a.Tracked || qty <= a.Quantity
}

// Headroom is what is left after already holding `held` units
func (a Availability) Headroom(held int) int {
	left := a.Quantity - held
	if left < 0 {
		return 0
	}
	return left
}
