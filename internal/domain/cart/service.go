// internal/domain/cart/service.go
package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/domain/inventory"
	"github.com/your-org/marketplace-backend/internal/domain/product"
	"github.com/your-org/marketplace-backend/internal/pkg/apperror"
	"github.com/your-org/marketplace-backend/internal/pkg/validation"
	"gorm.io/gorm"
)

// Service handles cart business logic
type Service struct {
	db     *gorm.DB
	repo   Repository
	ledger *inventory.Ledger
	logger *logrus.Logger
}

// NewService creates a new cart service
func NewService(db *gorm.DB, repo Repository, ledger *inventory.Ledger, logger *logrus.Logger) *Service {
	return &Service{
		db:     db,
		repo:   repo,
		ledger: ledger,
		logger: logger,
	}
}

// AddLineRequest represents add to cart request
type AddLineRequest struct {
	ProductID     uint  `json:"product_id" validate:"required"`
	SizeVariantID *uint `json:"size_id"`
	Quantity      int   `json:"quantity" validate:"min=1"`
}

// UpdateLineRequest represents update cart line request. An omitted quantity
// means one unit.
type UpdateLineRequest struct {
	Quantity *int `json:"quantity"`
}

// QuantityOrDefault returns the requested quantity, or 1 when none was sent
func (r *UpdateLineRequest) QuantityOrDefault() int {
	if r.Quantity == nil {
		return 1
	}
	return *r.Quantity
}

// GetOrCreateCart returns the cart of a session, creating it when missing
func (s *Service) GetOrCreateCart(ctx context.Context, sessionKey string) (*Cart, error) {
	if err := requireSession(sessionKey); err != nil {
		return nil, err
	}
	return s.repo.GetOrCreate(ctx, sessionKey)
}

// Snapshot returns the cart contents with live prices. A session without a
// cart reads as an empty one.
func (s *Service) Snapshot(ctx context.Context, sessionKey string) (*Snapshot, error) {
	if err := requireSession(sessionKey); err != nil {
		return nil, err
	}

	cart, err := s.repo.FindBySession(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return NewSnapshot(&Cart{}), nil
	}

	loaded, err := s.repo.Load(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	return NewSnapshot(loaded), nil
}

// AddLine puts quantity units of a product (and size) into the cart. Adding a
// product and size already present grows the existing line. Size-tracked
// products without a size get the first size that has stock.
func (s *Service) AddLine(ctx context.Context, sessionKey string, req *AddLineRequest) (*Line, error) {
	if err := requireSession(sessionKey); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	var line Line
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := s.repo.WithTx(tx).GetOrCreate(ctx, sessionKey)
		if err != nil {
			return err
		}

		var prod product.Product
		if err := tx.Preload("Category").First(&prod, req.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NewNotFound("product", req.ProductID)
			}
			return fmt.Errorf("failed to load product: %w", err)
		}

		ledger := s.ledger.WithTx(tx)
		sizeID := req.SizeVariantID
		if prod.Category.RequiresSize && sizeID == nil {
			variant, err := ledger.FirstInStockVariant(ctx, prod.ID)
			if err != nil {
				return err
			}
			sizeID = &variant.ID
		}

		available, err := ledger.GetAvailable(ctx, prod.ID, sizeID)
		if err != nil {
			return err
		}

		existing, err := findLine(tx, cart.ID, prod.ID, sizeID)
		if err != nil {
			return err
		}

		held := 0
		if existing != nil {
			held = existing.Quantity
		}
		if !available.Covers(held + req.Quantity) {
			return &apperror.InsufficientStockError{Available: available.Headroom(held)}
		}

		if existing != nil {
			existing.Quantity = held + req.Quantity
			if err := tx.Model(existing).Update("quantity", existing.Quantity).Error; err != nil {
				return fmt.Errorf("failed to update cart line: %w", err)
			}
			line = *existing
		} else {
			line = Line{
				CartID:        cart.ID,
				ProductID:     prod.ID,
				SizeVariantID: sizeID,
				Quantity:      req.Quantity,
			}
			if err := tx.Create(&line).Error; err != nil {
				return fmt.Errorf("failed to add cart line: %w", err)
			}
		}

		if err := tx.Model(cart).Update("updated_at", time.Now().UTC()).Error; err != nil {
			return fmt.Errorf("failed to touch cart: %w", err)
		}

		line.Product = prod
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"cart_id":    line.CartID,
		"product_id": line.ProductID,
		"quantity":   line.Quantity,
	}).Debug("Cart line added")

	return &line, nil
}

// UpdateQuantity sets the quantity of a line. A quantity of zero or less
// removes the line and returns nil.
func (s *Service) UpdateQuantity(ctx context.Context, sessionKey string, lineID uint, quantity int) (*Line, error) {
	if err := requireSession(sessionKey); err != nil {
		return nil, err
	}

	var updated *Line
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := s.repo.WithTx(tx).FindBySession(ctx, sessionKey)
		if err != nil {
			return err
		}
		if cart == nil {
			return apperror.NewNotFound("cart line", lineID)
		}

		var line Line
		err = tx.Where("id = ? AND cart_id = ?", lineID, cart.ID).First(&line).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NewNotFound("cart line", lineID)
		}
		if err != nil {
			return fmt.Errorf("failed to load cart line: %w", err)
		}

		if quantity <= 0 {
			if err := tx.Delete(&line).Error; err != nil {
				return fmt.Errorf("failed to remove cart line: %w", err)
			}
			return nil
		}

		available, err := s.ledger.WithTx(tx).GetAvailable(ctx, line.ProductID, line.SizeVariantID)
		if err != nil {
			return err
		}
		if !available.Covers(quantity) {
			return &apperror.InsufficientStockError{Available: available.Quantity}
		}

		line.Quantity = quantity
		if err := tx.Model(&line).Update("quantity", quantity).Error; err != nil {
			return fmt.Errorf("failed to update cart line: %w", err)
		}
		updated = &line
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// RemoveLine deletes a line. Removing a line that is not there is not an error.
func (s *Service) RemoveLine(ctx context.Context, sessionKey string, lineID uint) error {
	if err := requireSession(sessionKey); err != nil {
		return err
	}

	cart, err := s.repo.FindBySession(ctx, sessionKey)
	if err != nil || cart == nil {
		return err
	}

	if err := s.db.WithContext(ctx).
		Where("id = ? AND cart_id = ?", lineID, cart.ID).
		Delete(&Line{}).Error; err != nil {
		return fmt.Errorf("failed to remove cart line: %w", err)
	}
	return nil
}

// Clear deletes every line of the cart
func (s *Service) Clear(ctx context.Context, sessionKey string) error {
	if err := requireSession(sessionKey); err != nil {
		return err
	}

	cart, err := s.repo.FindBySession(ctx, sessionKey)
	if err != nil || cart == nil {
		return err
	}
	return ClearLines(s.db.WithContext(ctx), cart.ID)
}

// AttachUser records the authenticated buyer using the cart
func (s *Service) AttachUser(ctx context.Context, sessionKey string, userID uint) error {
	if err := requireSession(sessionKey); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Model(&Cart{}).
		Where("session_key = ? AND (user_id IS NULL OR user_id <> ?)", sessionKey, userID).
		Update("user_id", userID).Error; err != nil {
		return fmt.Errorf("failed to attach user to cart: %w", err)
	}
	return nil
}

// ClearLines deletes all lines of a cart on the given handle, which may be a
// transaction
func ClearLines(db *gorm.DB, cartID uint) error {
	if err := db.Where("cart_id = ?", cartID).Delete(&Line{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// Private helper methods

func requireSession(sessionKey string) error {
	if strings.TrimSpace(sessionKey) == "" {
		return apperror.NewValidation("session", "session key is required")
	}
	return nil
}

func findLine(tx *gorm.DB, cartID, productID uint, sizeVariantID *uint) (*Line, error) {
	query := tx.Where("cart_id = ? AND product_id = ?", cartID, productID)
	if sizeVariantID == nil {
		query = query.Where("size_variant_id IS NULL")
	} else {
		query = query.Where("size_variant_id = ?", *sizeVariantID)
	}

	var line Line
	err := query.First(&line).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart line: %w", err)
	}
	return &line, nil
}
