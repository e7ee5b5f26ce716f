// internal/interfaces/http/handlers/handlers.go
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/domain/audit"
	"github.com/your-org/marketplace-backend/internal/domain/cart"
	"github.com/your-org/marketplace-backend/internal/domain/checkout"
	"github.com/your-org/marketplace-backend/internal/domain/inventory"
	"github.com/your-org/marketplace-backend/internal/domain/order"
	"github.com/your-org/marketplace-backend/internal/domain/product"
	"github.com/your-org/marketplace-backend/internal/domain/recommendation"
	"github.com/your-org/marketplace-backend/internal/domain/user"
	"github.com/your-org/marketplace-backend/internal/infrastructure/database/redis"
	"github.com/your-org/marketplace-backend/internal/interfaces/http/middleware"
	"github.com/your-org/marketplace-backend/internal/pkg/apperror"
	"github.com/your-org/marketplace-backend/internal/pkg/auth"
	"github.com/your-org/marketplace-backend/internal/pkg/pdf"
	"gorm.io/gorm"
)

// Cache stores JSON documents for read-mostly endpoints. A nil Cache
// disables caching.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// cached returns the value under key, calling load and storing its result on
// a miss. A nil cache or a failing one falls through to load.
func cached[T any](ctx context.Context, cache Cache, logger *logrus.Logger, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var value T
	if cache != nil {
		err := cache.GetJSON(ctx, key, &value)
		if err == nil {
			return value, nil
		}
		if !errors.Is(err, redis.ErrCacheMiss) {
			logger.WithError(err).WithField("key", key).Warn("Cache read failed")
		}
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	if cache != nil {
		if err := cache.SetJSON(ctx, key, value, ttl); err != nil {
			logger.WithError(err).WithField("key", key).Warn("Cache write failed")
		}
	}
	return value, nil
}

// Services is the set of domain services shared by all handlers
type Services struct {
	Ledger     *inventory.Ledger
	Carts      *cart.Service
	Checkout   *checkout.Coordinator
	Orders     *order.Service
	Products   *product.Service
	Categories *product.CategoryService
	Reviews    *product.ReviewService
	Recommend  *recommendation.Service
	Users      *user.Service
	Audit      *audit.Service
	PDF        *pdf.Service
	JWT        *auth.JWTManager
}

// NewServices wires the domain services on one database handle
func NewServices(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) *Services {
	jwtManager := auth.NewJWTManager(cfg)
	ledger := inventory.NewLedger(db, cfg, logger)
	carts := cart.NewRepository(db)
	orders := order.NewService(db, logger)

	return &Services{
		Ledger:   ledger,
		Carts:    cart.NewService(db, carts, ledger, logger),
		Checkout: checkout.NewCoordinator(db, carts, ledger, logger),
		Orders:   orders,
		Products: product.NewService(db, func(tx *gorm.DB) product.VariantWriter {
			return ledger.WithTx(tx)
		}, logger),
		Categories: product.NewCategoryService(db),
		Reviews:    product.NewReviewService(db, orders, logger),
		Recommend:  recommendation.NewService(db, logger),
		Users:      user.NewService(db, cfg, jwtManager, logger),
		Audit:      audit.NewService(db, logger),
		PDF:        pdf.NewService(cfg),
		JWT:        jwtManager,
	}
}

// respondError writes err as {"error", "fields", "available"}. Unexpected
// errors are logged and hidden behind a generic message.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	if errors.Is(err, user.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	status := apperror.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		}).Error("Request failed")
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}

	body := gin.H{"error": err.Error()}

	var verr *apperror.ValidationError
	if errors.As(err, &verr) {
		body["fields"] = verr.Fields
	}
	var insufficient *apperror.InsufficientStockError
	if errors.As(err, &insufficient) {
		body["available"] = insufficient.Available
	}
	var outOfStock *apperror.OutOfStockError
	if errors.As(err, &outOfStock) {
		body["available"] = 0
	}

	c.JSON(status, body)
}

// bindJSON decodes the request body, answering 400 when it is not valid JSON
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return false
	}
	return true
}

// parseID reads a numeric path parameter
func parseID(c *gin.Context, name, label string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid " + label,
		})
		return 0, false
	}
	return uint(id), true
}

// requireUser returns the authenticated user id or answers 401
func requireUser(c *gin.Context) (uint, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return 0, false
	}
	return userID, true
}

// actor returns the authenticated user id as a pointer, nil for anonymous callers
func actor(c *gin.Context) *uint {
	if userID, ok := middleware.GetUserIDFromContext(c); ok {
		return &userID
	}
	return nil
}

// record writes an audit entry with the request's client details
func record(c *gin.Context, svc *audit.Service, entry audit.Entry) {
	if entry.UserID == nil {
		entry.UserID = actor(c)
	}
	entry.IPAddress = c.ClientIP()
	entry.UserAgent = c.Request.UserAgent()
	svc.Record(c.Request.Context(), entry)
}
