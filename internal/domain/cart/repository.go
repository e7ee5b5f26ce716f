// internal/domain/cart/repository.go
package cart

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository stores carts keyed by session
type Repository interface {
	// GetOrCreate returns the cart of a session, creating it on first use
	GetOrCreate(ctx context.Context, sessionKey string) (*Cart, error)
	// FindBySession returns the cart of a session or nil when there is none
	FindBySession(ctx context.Context, sessionKey string) (*Cart, error)
	// Load returns a cart with its lines, products and sizes
	Load(ctx context.Context, cartID uint) (*Cart, error)
	// WithTx binds the repository to a transaction
	WithTx(tx *gorm.DB) Repository
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a gorm backed cart repository
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) WithTx(tx *gorm.DB) Repository {
	return &gormRepository{db: tx}
}

func (r *gormRepository) GetOrCreate(ctx context.Context, sessionKey string) (*Cart, error) {
	db := r.db.WithContext(ctx)

	cart := Cart{SessionKey: sessionKey}
	// Concurrent first requests of one session race on the unique key
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_key"}},
		DoNothing: true,
	}).Create(&cart).Error; err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	var stored Cart
	if err := db.Where("session_key = ?", sessionKey).First(&stored).Error; err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return &stored, nil
}

func (r *gormRepository) FindBySession(ctx context.Context, sessionKey string) (*Cart, error) {
	var cart Cart
	err := r.db.WithContext(ctx).Where("session_key = ?", sessionKey).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return &cart, nil
}

func (r *gormRepository) Load(ctx context.Context, cartID uint) (*Cart, error) {
	var cart Cart
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.id ASC")
		}).
		Preload("Lines.Product").
		Preload("Lines.Product.Category").
		Preload("Lines.SizeVariant.Size").
		First(&cart, cartID).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load cart %d: %w", cartID, err)
	}
	return &cart, nil
}
