// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/pkg/apperror"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service handles order reads and status changes
type Service struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewService creates a new order service
func NewService(db *gorm.DB, logger *logrus.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger,
	}
}

// OrderListRequest represents order list query parameters
type OrderListRequest struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	Status string `form:"status"`
	UserID uint   `form:"user_id"`
}

// UpdateStatusRequest represents a staff status change
type UpdateStatusRequest struct {
	Status  OrderStatus `json:"status" validate:"required"`
	Comment string      `json:"comment" validate:"max=1000"`
}

// OrderResponse represents order response with pagination
type OrderResponse struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// Get returns an order of the given buyer. Orders of other buyers read as missing.
func (s *Service) Get(ctx context.Context, orderID, userID uint) (*Order, error) {
	return s.find(s.db.WithContext(ctx).Where("user_id = ?", userID), orderID)
}

// GetAny returns any order, for staff
func (s *Service) GetAny(ctx context.Context, orderID uint) (*Order, error) {
	return s.find(s.db.WithContext(ctx), orderID)
}

// ListForUser returns the buyer's orders, newest first
func (s *Service) ListForUser(ctx context.Context, userID uint, page, limit int) (*OrderResponse, error) {
	return s.List(ctx, &OrderListRequest{Page: page, Limit: limit, UserID: userID})
}

// List retrieves orders with filtering and pagination
func (s *Service) List(ctx context.Context, req *OrderListRequest) (*OrderResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = 20
	}
	if req.Status != "" && !OrderStatus(req.Status).Valid() {
		return nil, apperror.NewValidation("status", fmt.Sprintf("unknown status %q", req.Status))
	}

	db := s.db.WithContext(ctx)
	filter := func(q *gorm.DB) *gorm.DB {
		if req.Status != "" {
			q = q.Where("status = ?", req.Status)
		}
		if req.UserID > 0 {
			q = q.Where("user_id = ?", req.UserID)
		}
		return q
	}

	var total int64
	if err := db.Model(&Order{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []Order
	offset := (req.Page - 1) * req.Limit
	if err := db.Scopes(filter).
		Preload("Lines").
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(req.Limit).
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &OrderResponse{
		Orders: orders,
		Pagination: Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    req.Page < totalPages,
			HasPrev:    req.Page > 1,
		},
	}, nil
}

// UpdateStatus moves an order along its lifecycle:
// pending -> processing -> shipped -> delivered, with cancelled reachable
// from pending and processing.
func (s *Service) UpdateStatus(ctx context.Context, orderID uint, status OrderStatus, comment string, actorID *uint) (*Order, error) {
	if !status.Valid() {
		return nil, apperror.NewValidation("status", fmt.Sprintf("unknown status %q", status))
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return transition(tx, tx.Clauses(clause.Locking{Strength: "UPDATE"}), orderID, status, comment, actorID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_id": orderID,
		"status":   status,
	}).Info("Order status updated")

	return s.GetAny(ctx, orderID)
}

// Cancel cancels one of the buyer's own orders while it is pending or processing.
// Stock is not returned to inventory.
func (s *Service) Cancel(ctx context.Context, orderID, userID uint) (*Order, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scoped := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("user_id = ?", userID)
		return transition(tx, scoped, orderID, OrderStatusCancelled, "Cancelled by buyer", &userID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithField("order_id", orderID).Info("Order cancelled by buyer")
	return s.Get(ctx, orderID, userID)
}

// HasDeliveredPurchase reports whether the user has a delivered order
// containing the product
func (s *Service) HasDeliveredPurchase(ctx context.Context, userID, productID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&Line{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ? AND orders.status = ? AND order_items.product_id = ?",
			userID, OrderStatusDelivered, productID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check purchase: %w", err)
	}
	return count > 0, nil
}

// Private helper methods

func (s *Service) find(query *gorm.DB, orderID uint) (*Order, error) {
	var order Order
	err := query.
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_items.id ASC")
		}).
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_status_history.id ASC")
		}).
		First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NewNotFound("order", orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}
	return &order, nil
}

// transition loads the order through lookup, checks the move and records it
func transition(tx, lookup *gorm.DB, orderID uint, status OrderStatus, comment string, actorID *uint) error {
	var order Order
	err := lookup.First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NewNotFound("order", orderID)
	}
	if err != nil {
		return fmt.Errorf("failed to load order: %w", err)
	}

	if !order.Status.CanTransitionTo(status) {
		return apperror.NewValidation("status", fmt.Sprintf("cannot change order status from %s to %s", order.Status, status))
	}

	if err := tx.Model(&Order{}).Where("id = ?", order.ID).Update("status", status).Error; err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	history := StatusHistory{
		OrderID:   order.ID,
		Status:    status,
		Comment:   comment,
		CreatedBy: actorID,
		CreatedAt: time.Now().UTC(),
	}
	if err := tx.Create(&history).Error; err != nil {
		return fmt.Errorf("failed to create status history: %w", err)
	}
	return nil
}
