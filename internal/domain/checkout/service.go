// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/domain/cart"
	"github.com/your-org/marketplace-backend/internal/domain/inventory"
	"github.com/your-org/marketplace-backend/internal/domain/order"
	"github.com/your-org/marketplace-backend/internal/domain/user"
	"github.com/your-org/marketplace-backend/internal/pkg/apperror"
	"github.com/your-org/marketplace-backend/internal/pkg/validation"
	"gorm.io/gorm"
)

// Coordinator turns a cart into an order
type Coordinator struct {
	db     *gorm.DB
	carts  cart.Repository
	ledger *inventory.Ledger
	logger *logrus.Logger
}

// NewCoordinator creates a new checkout coordinator
func NewCoordinator(db *gorm.DB, carts cart.Repository, ledger *inventory.Ledger, logger *logrus.Logger) *Coordinator {
	return &Coordinator{
		db:     db,
		carts:  carts,
		ledger: ledger,
		logger: logger,
	}
}

// Request is everything checkout needs besides the cart contents
type Request struct {
	SessionKey      string
	Buyer           user.Buyer
	Shipping        order.ShippingInfo
	PaymentProvider string
}

// CheckoutRequest is the client body of a checkout
type CheckoutRequest struct {
	order.ShippingInfo
	PaymentProvider string `json:"payment_provider" validate:"omitempty,max=30"`
}

// Checkout creates a pending order from the session's cart. In one
// transaction it writes the order and its lines with frozen prices, takes
// the ordered units out of stock and empties the cart. Any failure leaves
// everything, the cart included, as it was.
func (c *Coordinator) Checkout(ctx context.Context, req Request) (*order.Order, error) {
	if strings.TrimSpace(req.SessionKey) == "" {
		return nil, &apperror.EmptyCartError{}
	}

	if req.Shipping.Email == "" {
		req.Shipping.Email = req.Buyer.Email
	}

	var created order.Order
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := c.carts.WithTx(tx)

		sessionCart, err := repo.FindBySession(ctx, req.SessionKey)
		if err != nil {
			return err
		}
		if sessionCart == nil {
			return &apperror.EmptyCartError{}
		}

		loaded, err := repo.Load(ctx, sessionCart.ID)
		if err != nil {
			return err
		}
		if loaded.TotalItems() == 0 {
			return &apperror.EmptyCartError{}
		}

		if err := validation.Struct(&CheckoutRequest{ShippingInfo: req.Shipping, PaymentProvider: req.PaymentProvider}); err != nil {
			return err
		}

		created = order.Order{
			UserID:          req.Buyer.ID,
			Shipping:        trimShipping(req.Shipping),
			TotalPrice:      loaded.Subtotal(),
			Status:          order.OrderStatusPending,
			PaymentProvider: req.PaymentProvider,
		}
		if err := tx.Omit("Lines", "StatusHistory").Create(&created).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		lines := make([]order.Line, 0, len(loaded.Lines))
		for _, cl := range loaded.Lines {
			line := order.Line{
				OrderID:       created.ID,
				ProductID:     cl.ProductID,
				SizeVariantID: cl.SizeVariantID,
				ProductName:   cl.Product.Name,
				Quantity:      cl.Quantity,
				Price:         cl.Product.Price,
			}
			if cl.SizeVariant != nil {
				line.SizeName = cl.SizeVariant.Size.Name
			}
			lines = append(lines, line)
		}
		if err := tx.Create(&lines).Error; err != nil {
			return fmt.Errorf("failed to create order lines: %w", err)
		}
		created.Lines = lines

		history := order.StatusHistory{
			OrderID:   created.ID,
			Status:    order.OrderStatusPending,
			Comment:   "Order created",
			CreatedBy: &req.Buyer.ID,
			CreatedAt: time.Now().UTC(),
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to create status history: %w", err)
		}
		created.StatusHistory = []order.StatusHistory{history}

		if err := c.consumeStock(ctx, tx, created.ID, req.Buyer.ID, loaded.Lines); err != nil {
			return err
		}

		return cart.ClearLines(tx, sessionCart.ID)
	})
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"order_id": created.ID,
		"user_id":  created.UserID,
		"total":    created.TotalPrice.StringFixed(2),
		"lines":    len(created.Lines),
	}).Info("Order placed")

	return &created, nil
}

// consumeStock decrements stock for every line. All product rows are locked
// in ascending id order first; size rows are only locked while their
// product's lock is held, so two checkouts never wait on each other in a
// cycle.
func (c *Coordinator) consumeStock(ctx context.Context, tx *gorm.DB, orderID, buyerID uint, lines []cart.Line) error {
	ordered := make([]cart.Line, len(lines))
	copy(ordered, lines)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].ProductID != ordered[j].ProductID {
			return ordered[i].ProductID < ordered[j].ProductID
		}
		return variantKey(ordered[i]) < variantKey(ordered[j])
	})

	productIDs := make([]uint, 0, len(ordered))
	for _, line := range ordered {
		productIDs = append(productIDs, line.ProductID)
	}

	ledger := c.ledger.WithTx(tx)
	if err := ledger.LockProducts(ctx, productIDs); err != nil {
		return err
	}

	for _, line := range ordered {
		_, err := ledger.Decrement(ctx, inventory.DecrementRequest{
			ProductID:     line.ProductID,
			SizeVariantID: line.SizeVariantID,
			Quantity:      line.Quantity,
			Reason:        inventory.ReasonSale,
			ReferenceType: "order",
			ReferenceID:   &orderID,
			ActorID:       &buyerID,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func variantKey(l cart.Line) uint {
	if l.SizeVariantID == nil {
		return 0
	}
	return *l.SizeVariantID
}

func trimShipping(s order.ShippingInfo) order.ShippingInfo {
	s.FirstName = strings.TrimSpace(s.FirstName)
	s.LastName = strings.TrimSpace(s.LastName)
	s.Email = strings.TrimSpace(s.Email)
	return s
}
