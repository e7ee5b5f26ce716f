// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/marketplace-backend/internal/domain/product"
)

// Cart is the pending purchase of one session
type Cart struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SessionKey string    `gorm:"uniqueIndex;not null;size:64" json:"-"`
	UserID     *uint     `gorm:"index" json:"user_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Lines []Line `gorm:"foreignKey:CartID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// Line is one (product, size) entry of a cart. Its price is always read live
// from the product.
type Line struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CartID        uint      `gorm:"not null;index" json:"cart_id"`
	ProductID     uint      `gorm:"not null;index" json:"product_id"`
	SizeVariantID *uint     `gorm:"index" json:"size_id,omitempty"`
	Quantity      int       `gorm:"not null;check:quantity > 0" json:"quantity"`
	AddedAt       time.Time `gorm:"autoCreateTime" json:"added_at"`

	Product     product.Product      `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE;" json:"product"`
	SizeVariant *product.SizeVariant `gorm:"foreignKey:SizeVariantID;constraint:OnDelete:CASCADE;" json:"size,omitempty"`
}

// TableName overrides
func (Cart) TableName() string { return "carts" }
func (Line) TableName() string { return "cart_items" }

// Total is the live line amount, product price times quantity
func (l Line) Total() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// SameItem reports whether the line holds the given product and size
func (l Line) SameItem(productID uint, sizeVariantID *uint) bool {
	if l.ProductID != productID {
		return false
	}
	if l.SizeVariantID == nil || sizeVariantID == nil {
		return l.SizeVariantID == nil && sizeVariantID == nil
	}
	return *l.SizeVariantID == *sizeVariantID
}

// TotalItems sums quantities across all lines
func (c *Cart) TotalItems() int {
	n := 0
	for _, line := range c.Lines {
		n += line.Quantity
	}
	return n
}

// Subtotal sums live line totals. Lines must have Product loaded.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.Total())
	}
	return total
}

// Snapshot is the read model of a cart returned to clients
type Snapshot struct {
	Items      []Line          `json:"items"`
	TotalItems int             `json:"total_items"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

// NewSnapshot builds a snapshot from a cart with lines and products loaded
func NewSnapshot(c *Cart) *Snapshot {
	items := c.Lines
	if items == nil {
		items = []Line{}
	}
	return &Snapshot{
		Items:      items,
		TotalItems: c.TotalItems(),
		Subtotal:   c.Subtotal(),
	}
}
