// internal/domain/inventory/ledger.go
package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/domain/product"
	"github.com/your-org/marketplace-backend/internal/pkg/apperror"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Ledger answers stock availability and applies every stock mutation.
// Each mutation recomputes the cached product total in the same transaction.
// Mutations lock the product row before any of its size rows.
type Ledger struct {
	db     *gorm.DB
	policy string
	logger *logrus.Logger
}

// NewLedger creates a new inventory ledger
func NewLedger(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) *Ledger {
	return &Ledger{
		db:     db,
		policy: cfg.Checkout.OversellPolicy,
		logger: logger,
	}
}

// WithTx returns a copy of the ledger bound to a caller-owned transaction
func (l *Ledger) WithTx(tx *gorm.DB) *Ledger {
	clone := *l
	clone.db = tx
	return &clone
}

// DecrementRequest describes units leaving stock
type DecrementRequest struct {
	ProductID     uint
	SizeVariantID *uint
	Quantity      int
	Reason        MovementReason
	ReferenceType string
	ReferenceID   *uint
	ActorID       *uint
}

var lockForUpdate = clause.Locking{Strength: "UPDATE"}

// GetAvailable returns the stock that can be sold for a product, or for one of
// its sizes when the product is tracked by size.
func (l *Ledger) GetAvailable(ctx context.Context, productID uint, sizeVariantID *uint) (Availability, error) {
	db := l.db.WithContext(ctx)

	prod, err := loadProduct(db, productID)
	if err != nil {
		return Availability{}, err
	}

	if !prod.Category.RequiresSize {
		if sizeVariantID != nil {
			return Availability{}, apperror.NewValidation("size_id", "product is not sold by size")
		}
		flat := prod.StockModel().(product.FlatStock)
		if !flat.Tracked() {
			return Availability{Tracked: false}, nil
		}
		return Availability{Quantity: *flat.Count, Tracked: true}, nil
	}

	if sizeVariantID == nil {
		return Availability{}, apperror.NewValidation("size_id", "size is required for this product")
	}

	variant, err := findVariant(db, productID, *sizeVariantID)
	if err != nil {
		return Availability{}, err
	}
	return Availability{Quantity: variant.Stock, Tracked: true}, nil
}

// FirstInStockVariant picks the lowest-id size of a product that has stock left
func (l *Ledger) FirstInStockVariant(ctx context.Context, productID uint) (*product.SizeVariant, error) {
	var variant product.SizeVariant
	err := l.db.WithContext(ctx).
		Where("product_id = ? AND stock > 0", productID).
		Order("id ASC").
		First(&variant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperror.OutOfStockError{ProductID: productID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find size in stock: %w", err)
	}
	return &variant, nil
}

// Decrement removes units from stock under a row lock and returns how many
// were actually taken. With the strict policy an oversized request fails with
// InsufficientStockError; with the clamp policy stock floors at zero.
func (l *Ledger) Decrement(ctx context.Context, req DecrementRequest) (int, error) {
	if req.Quantity <= 0 {
		return 0, apperror.NewValidation("quantity", "must be at least 1")
	}
	if req.Reason == "" {
		req.Reason = ReasonSale
	}

	var applied int
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		prod, err := lockProduct(tx, req.ProductID)
		if err != nil {
			return err
		}

		if req.SizeVariantID != nil {
			applied, err = l.decrementVariant(tx, prod, *req.SizeVariantID, req)
			return err
		}

		if prod.Category.RequiresSize {
			return apperror.NewValidation("size_id", "size is required for this product")
		}
		applied, err = l.decrementFlat(tx, prod, req)
		return err
	})
	if err != nil {
		return 0, err
	}
	return applied, nil
}

func (l *Ledger) decrementVariant(tx *gorm.DB, prod *product.Product, variantID uint, req DecrementRequest) (int, error) {
	var variant product.SizeVariant
	err := tx.Clauses(lockForUpdate).
		Where("id = ? AND product_id = ?", variantID, prod.ID).
		First(&variant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, apperror.NewNotFound("size variant", variantID)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to lock size variant: %w", err)
	}

	take, err := l.take(variant.Stock, req.Quantity)
	if err != nil {
		return 0, err
	}

	previous := variant.Stock
	remaining := previous - take
	if err := tx.Model(&product.SizeVariant{}).Where("id = ?", variant.ID).Update("stock", remaining).Error; err != nil {
		return 0, fmt.Errorf("failed to update size stock: %w", err)
	}

	if err := recordMovement(tx, &StockMovement{
		ProductID:        prod.ID,
		SizeVariantID:    &variant.ID,
		Reason:           req.Reason,
		Delta:            -take,
		PreviousQuantity: previous,
		NewQuantity:      remaining,
		ReferenceType:    req.ReferenceType,
		ReferenceID:      req.ReferenceID,
		CreatedBy:        req.ActorID,
	}); err != nil {
		return 0, err
	}

	if prod.Category.RequiresSize {
		if _, err := recompute(tx, prod.ID); err != nil {
			return 0, err
		}
	}

	if remaining == 0 {
		l.logger.WithFields(logrus.Fields{
			"product_id":      prod.ID,
			"size_variant_id": variant.ID,
		}).Warn("Size variant sold out")
	}

	return take, nil
}

// decrementFlat expects the product row to be locked already
func (l *Ledger) decrementFlat(tx *gorm.DB, prod *product.Product, req DecrementRequest) (int, error) {
	productID := prod.ID

	// Untracked flat stock never runs out
	if prod.Stock == nil {
		return 0, nil
	}

	take, err := l.take(*prod.Stock, req.Quantity)
	if err != nil {
		return 0, err
	}

	previous := *prod.Stock
	remaining := previous - take
	if err := tx.Model(&product.Product{}).Where("id = ?", productID).Update("stock", remaining).Error; err != nil {
		return 0, fmt.Errorf("failed to update product stock: %w", err)
	}

	return take, recordMovement(tx, &StockMovement{
		ProductID:        productID,
		Reason:           req.Reason,
		Delta:            -take,
		PreviousQuantity: previous,
		NewQuantity:      remaining,
		ReferenceType:    req.ReferenceType,
		ReferenceID:      req.ReferenceID,
		CreatedBy:        req.ActorID,
	})
}

// take applies the oversell policy to a request against what is on hand
func (l *Ledger) take(onHand, requested int) (int, error) {
	if requested <= onHand {
		return requested, nil
	}
	if l.policy == config.OversellClamp {
		if onHand < 0 {
			return 0, nil
		}
		return onHand, nil
	}
	return 0, &apperror.InsufficientStockError{Available: onHand}
}

// RecomputeCachedTotal resums the size stock of a size-tracked product into
// its cached Product.Stock and returns the new total.
func (l *Ledger) RecomputeCachedTotal(ctx context.Context, productID uint) (int, error) {
	var total int
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		prod, err := loadProduct(tx, productID)
		if err != nil {
			return err
		}
		if !prod.Category.RequiresSize {
			return apperror.NewValidation("product_id", "product does not track stock by size")
		}
		total, err = recompute(tx, productID)
		return err
	})
	return total, err
}

// CreateVariant adds a size to a size-tracked product
func (l *Ledger) CreateVariant(ctx context.Context, productID, sizeID uint, stock int, actorID *uint) (*product.SizeVariant, error) {
	if stock < 0 {
		return nil, apperror.NewValidation("stock", "must not be negative")
	}

	variant := &product.SizeVariant{ProductID: productID, SizeID: sizeID, Stock: stock}
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		prod, err := lockProduct(tx, productID)
		if err != nil {
			return err
		}
		if !prod.Category.RequiresSize {
			return apperror.NewValidation("size_id", "product is not sold by size")
		}

		var size product.Size
		if err := tx.First(&size, sizeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NewNotFound("size", sizeID)
			}
			return fmt.Errorf("failed to load size: %w", err)
		}

		var existing int64
		if err := tx.Model(&product.SizeVariant{}).
			Where("product_id = ? AND size_id = ?", productID, sizeID).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("failed to check size variant: %w", err)
		}
		if existing > 0 {
			return &apperror.ConflictError{Message: fmt.Sprintf("size %s already exists for this product", size.Name)}
		}

		if err := tx.Create(variant).Error; err != nil {
			return fmt.Errorf("failed to create size variant: %w", err)
		}
		variant.Size = size

		if err := recordMovement(tx, &StockMovement{
			ProductID:     productID,
			SizeVariantID: &variant.ID,
			Reason:        ReasonVariantCreated,
			Delta:         stock,
			NewQuantity:   stock,
			CreatedBy:     actorID,
		}); err != nil {
			return err
		}

		_, err = recompute(tx, productID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return variant, nil
}

// SetVariantStock overwrites the stock of one size
func (l *Ledger) SetVariantStock(ctx context.Context, productID, variantID uint, stock int, actorID *uint) (*product.SizeVariant, error) {
	if stock < 0 {
		return nil, apperror.NewValidation("stock", "must not be negative")
	}

	var variant product.SizeVariant
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockProduct(tx, productID); err != nil {
			return err
		}

		err := tx.Clauses(lockForUpdate).
			Where("id = ? AND product_id = ?", variantID, productID).
			First(&variant).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NewNotFound("size variant", variantID)
		}
		if err != nil {
			return fmt.Errorf("failed to lock size variant: %w", err)
		}

		previous := variant.Stock
		if err := tx.Model(&product.SizeVariant{}).Where("id = ?", variant.ID).Update("stock", stock).Error; err != nil {
			return fmt.Errorf("failed to update size stock: %w", err)
		}
		variant.Stock = stock

		if err := recordMovement(tx, &StockMovement{
			ProductID:        productID,
			SizeVariantID:    &variant.ID,
			Reason:           ReasonSellerEdit,
			Delta:            stock - previous,
			PreviousQuantity: previous,
			NewQuantity:      stock,
			CreatedBy:        actorID,
		}); err != nil {
			return err
		}

		_, err = recompute(tx, productID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

// DeleteVariant removes a size and its stock
func (l *Ledger) DeleteVariant(ctx context.Context, productID, variantID uint, actorID *uint) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockProduct(tx, productID); err != nil {
			return err
		}

		var variant product.SizeVariant
		err := tx.Clauses(lockForUpdate).
			Where("id = ? AND product_id = ?", variantID, productID).
			First(&variant).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NewNotFound("size variant", variantID)
		}
		if err != nil {
			return fmt.Errorf("failed to lock size variant: %w", err)
		}

		if err := tx.Delete(&variant).Error; err != nil {
			return fmt.Errorf("failed to delete size variant: %w", err)
		}

		if err := recordMovement(tx, &StockMovement{
			ProductID:        productID,
			SizeVariantID:    &variant.ID,
			Reason:           ReasonVariantDeleted,
			Delta:            -variant.Stock,
			PreviousQuantity: variant.Stock,
			NewQuantity:      0,
			CreatedBy:        actorID,
		}); err != nil {
			return err
		}

		_, err = recompute(tx, productID)
		return err
	})
}

// SetFlatStock sets (or, with nil, stops tracking) the stock of a product
// that is not sold by size
func (l *Ledger) SetFlatStock(ctx context.Context, productID uint, stock *int, actorID *uint) error {
	if stock != nil && *stock < 0 {
		return apperror.NewValidation("stock", "must not be negative")
	}

	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		prod, err := lockProduct(tx, productID)
		if err != nil {
			return err
		}
		if prod.Category.RequiresSize {
			return apperror.NewValidation("stock", "stock of this product is managed per size")
		}

		if err := tx.Model(&product.Product{}).Where("id = ?", productID).Update("stock", stock).Error; err != nil {
			return fmt.Errorf("failed to update product stock: %w", err)
		}

		previous, next := 0, 0
		if prod.Stock != nil {
			previous = *prod.Stock
		}
		if stock != nil {
			next = *stock
		}
		return recordMovement(tx, &StockMovement{
			ProductID:        productID,
			Reason:           ReasonSellerEdit,
			Delta:            next - previous,
			PreviousQuantity: previous,
			NewQuantity:      next,
			CreatedBy:        actorID,
		})
	})
}

// LockProducts takes the row locks of several products in ascending id order.
// Callers that go on to change stock of more than one product lock them all
// up front so that their locks are acquired in the same order as everyone
// else's.
func (l *Ledger) LockProducts(ctx context.Context, productIDs []uint) error {
	ids := make([]uint, 0, len(productIDs))
	seen := make(map[uint]bool, len(productIDs))
	for _, id := range productIDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	db := l.db.WithContext(ctx)
	for _, id := range ids {
		if err := lockProductRow(db, id); err != nil {
			return err
		}
	}
	return nil
}

// Movements lists the most recent stock movements of a product
func (l *Ledger) Movements(ctx context.Context, productID uint, limit int) ([]StockMovement, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var movements []StockMovement
	if err := l.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id DESC").
		Limit(limit).
		Find(&movements).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve stock movements: %w", err)
	}
	return movements, nil
}

// Private helpers

func loadProduct(db *gorm.DB, productID uint) (*product.Product, error) {
	var prod product.Product
	err := db.Preload("Category").First(&prod, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NewNotFound("product", productID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	return &prod, nil
}

// lockProduct locks the product row and returns the product with its category
func lockProduct(tx *gorm.DB, productID uint) (*product.Product, error) {
	if err := lockProductRow(tx, productID); err != nil {
		return nil, err
	}
	return loadProduct(tx, productID)
}

func lockProductRow(tx *gorm.DB, productID uint) error {
	var locked product.Product
	err := tx.Clauses(lockForUpdate).Select("id").First(&locked, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NewNotFound("product", productID)
	}
	if err != nil {
		return fmt.Errorf("failed to lock product: %w", err)
	}
	return nil
}

func findVariant(db *gorm.DB, productID, variantID uint) (*product.SizeVariant, error) {
	var variant product.SizeVariant
	err := db.Where("id = ? AND product_id = ?", variantID, productID).First(&variant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NewNotFound("size variant", variantID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load size variant: %w", err)
	}
	return &variant, nil
}

func recompute(tx *gorm.DB, productID uint) (int, error) {
	var total int64
	if err := tx.Model(&product.SizeVariant{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(stock), 0)").
		Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to sum size stock: %w", err)
	}

	if err := tx.Model(&product.Product{}).Where("id = ?", productID).Update("stock", int(total)).Error; err != nil {
		return 0, fmt.Errorf("failed to update cached stock: %w", err)
	}
	return int(total), nil
}

func recordMovement(tx *gorm.DB, movement *StockMovement) error {
	if err := tx.Create(movement).Error; err != nil {
		return fmt.Errorf("failed to record stock movement: %w", err)
	}
	return nil
}
