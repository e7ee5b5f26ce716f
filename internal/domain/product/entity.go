// internal/domain/product/entity.go
package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a sellable item
type Product struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	Name         string           `gorm:"not null;size:100" json:"name"`
	Slug         string           `gorm:"uniqueIndex;not null;size:100" json:"slug"`
	SellerID     *uint            `gorm:"index" json:"seller_id,omitempty"`
	CategoryID   uint             `gorm:"not null;index" json:"category_id"`
	Color        string           `gorm:"size:100" json:"color"`
	Price        decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"price"`
	OldPrice     *decimal.Decimal `gorm:"type:decimal(10,2)" json:"old_price,omitempty"`
	Description  string           `gorm:"type:text" json:"description"`
	MainImage    string           `gorm:"size:500" json:"main_image"`
	Stock        *int             `json:"stock"` // Cached sum of size stock for size-required categories, nil when untracked
	Rating       decimal.Decimal  `gorm:"type:decimal(3,2);default:0" json:"rating"`
	ReviewsCount int              `gorm:"default:0" json:"reviews_count"`
	ViewsCount   int              `gorm:"default:0" json:"views_count"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`

	// Relationships
	Category     Category      `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"category"`
	SizeVariants []SizeVariant `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"sizes,omitempty"`
}

// Category groups products and decides how their stock is tracked
type Category struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null;size:100" json:"name"`
	Slug         string    `gorm:"uniqueIndex;not null;size:100" json:"slug"`
	RequiresSize bool      `gorm:"default:false" json:"requires_size"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Size is a named size such as "M" or "42"
type Size struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null;size:20" json:"name"`
}

// SizeVariant holds the authoritative stock of one product in one size
type SizeVariant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_product_size" json:"product_id"`
	SizeID    uint      `gorm:"not null;uniqueIndex:idx_product_size" json:"size_id"`
	Stock     int       `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Size Size `gorm:"foreignKey:SizeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"size"`
}

// TableName overrides
func (Product) TableName() string     { return "products" }
func (Category) TableName() string    { return "categories" }
func (Size) TableName() string        { return "sizes" }
func (SizeVariant) TableName() string { return "product_sizes" }

// StockModel is the stock source of a product: FlatStock or SizedStock
type StockModel interface {
	isStockModel()
}

// FlatStock is a single counter on the product; a nil Count is not tracked
type FlatStock struct {
	Count *int
}

// SizedStock keeps stock per size variant
type SizedStock struct {
	Variants []SizeVariant
}

func (FlatStock) isStockModel()  {}
func (SizedStock) isStockModel() {}

// Total returns the sum of every variant's stock
func (s SizedStock) Total() int {
	total := 0
	for _, v := range s.Variants {
		total += v.Stock
	}
	return total
}

// Tracked reports whether the flat counter limits sales
func (f FlatStock) Tracked() bool {
	return f.Count != nil
}

// StockModel resolves the stock source from the category flag.
// Category and SizeVariants must be loaded.
func (p *Product) StockModel() StockModel {
	if p.Category.RequiresSize {
		return SizedStock{Variants: p.SizeVariants}
	}
	return FlatStock{Count: p.Stock}
}

// Business methods for Product

// IsInStock reports whether at least one unit can be sold
func (p *Product) IsInStock() bool {
	switch m := p.StockModel().(type) {
	case SizedStock:
		return m.Total() > 0
	case FlatStock:
		return !m.Tracked() || *m.Count > 0
	}
	return false
}

// DiscountPercent is non-zero only when the old price exceeds the price
func (p *Product) DiscountPercent() int {
	if p.OldPrice == nil || !p.OldPrice.GreaterThan(p.Price) {
		return 0
	}
	ratio := p.Price.Div(*p.OldPrice).Mul(decimal.NewFromInt(100))
	return int(decimal.NewFromInt(100).Sub(ratio).IntPart())
}

// Variant returns the loaded variant with the given id
func (p *Product) Variant(id uint) (*SizeVariant, bool) {
	for i := range p.SizeVariants {
		if p.SizeVariants[i].ID == id {
			return &p.SizeVariants[i], true
		}
	}
	return nil, false
}

// Review is a buyer's rating of a product, one per (product, user)
type Review struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	ProductID          uint      `gorm:"not null;uniqueIndex:idx_review_product_user;index:idx_review_product_created,priority:1" json:"product_id"`
	UserID             uint      `gorm:"not null;uniqueIndex:idx_review_product_user;index" json:"user_id"`
	Rating             int       `gorm:"not null;index;check:rating BETWEEN 1 AND 5" json:"rating"`
	Title              string    `gorm:"size:200" json:"title"`
	Text               string    `gorm:"type:text" json:"text"`
	Advantages         string    `gorm:"type:text" json:"advantages"`
	Disadvantages      string    `gorm:"type:text" json:"disadvantages"`
	IsVerifiedPurchase bool      `gorm:"default:false" json:"is_verified_purchase"`
	IsApproved         bool      `gorm:"default:true" json:"is_approved"`
	HelpfulCount       int       `gorm:"default:0" json:"helpful_count"`
	CreatedAt          time.Time `gorm:"index:idx_review_product_created,priority:2,sort:desc" json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (Review) TableName() string { return "reviews" }
